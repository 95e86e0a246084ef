package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/weberc2/reels/pkg/observable"
)

type State string

const (
	StateIdle    State = "IDLE"
	StateLoading State = "LOADING"
	StatePlaying State = "PLAYING"
	StatePaused  State = "PAUSED"
)

// Status is the published playback state. Playing and Muted are set
// optimistically when a command is issued and may briefly disagree with
// the underlying player.
type Status struct {
	State   State
	URL     string
	Playing bool
	Muted   bool
	Loading bool
}

// Controller plays one item at a time and loops it forever.
type Controller struct {
	Player Player
	Logger *slog.Logger

	status *observable.Value[Status]

	lock       sync.Mutex
	current    *binding
	generation uint64
	playing    bool
	muted      bool
}

// binding owns an installed item together with its end-of-media
// registration. The two are acquired together and released together.
type binding struct {
	item       Item
	generation uint64
	cancel     func()
}

func (b *binding) release() {
	if b == nil || b.cancel == nil {
		return
	}
	b.cancel()
	b.cancel = nil
}

func NewController(
	player Player,
	dispatcher observable.Dispatcher,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		Player: player,
		Logger: logger,
		status: observable.NewValue(dispatcher, Status{State: StateIdle}),
	}
}

// Bind replaces the current item with the media at url and starts playing
// it. The previous item's end-of-media registration is released before the
// new item is created, and the new registration is in place before the new
// item is handed to the player.
func (c *Controller) Bind(url string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.current.release()
	c.current = nil
	c.generation++
	c.playing = false
	c.publish(StateLoading, url, true)

	generation := c.generation
	item := c.Player.NewItem(url)
	b := &binding{item: item, generation: generation}
	b.cancel = item.OnEnd(func() { c.onReachEnd(generation) })
	c.current = b

	c.Player.Replace(item)
	c.Player.Play()
	c.playing = true
	c.Logger.Debug("bound video", "url", url)
	c.publish(StatePlaying, url, false)
}

func (c *Controller) onReachEnd(generation uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.current == nil || c.current.generation != generation {
		c.Logger.Debug("ignoring end of media for released item")
		return
	}

	c.Player.Seek(0)
	c.Player.Play()
	c.playing = true
	c.publish(StatePlaying, c.current.item.URL(), false)
}

func (c *Controller) TogglePlayPause() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.current == nil {
		return
	}

	if c.playing {
		c.Player.Pause()
	} else {
		c.Player.Play()
	}
	c.playing = !c.playing

	state := StatePaused
	if c.playing {
		state = StatePlaying
	}
	c.publish(state, c.current.item.URL(), false)
}

func (c *Controller) ToggleMute() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.muted = !c.muted
	c.Player.SetMuted(c.muted)
	muted := c.muted
	c.status.Update(func(s Status) Status {
		s.Muted = muted
		return s
	})
}

func (c *Controller) Seek(to time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.current == nil {
		return
	}
	c.Player.Seek(to)
}

func (c *Controller) Replay() {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.current == nil {
		return
	}

	c.Player.Seek(0)
	c.Player.Play()
	c.playing = true
	c.publish(StatePlaying, c.current.item.URL(), false)
}

// Close releases the current item's end-of-media registration and returns
// the controller to StateIdle.
func (c *Controller) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.current.release()
	c.current = nil
	c.generation++
	c.playing = false
	c.publish(StateIdle, "", false)
}

func (c *Controller) Status() Status { return c.status.Get() }

func (c *Controller) Subscribe(fn func(Status)) (cancel func()) {
	return c.status.Subscribe(fn)
}

// publish must be called with c.lock held.
func (c *Controller) publish(state State, url string, loading bool) {
	status := Status{
		State:   state,
		URL:     url,
		Playing: c.playing,
		Muted:   c.muted,
		Loading: loading,
	}
	c.status.Set(status)
}
