package main

import (
	"log/slog"
	"sync"
	"time"

	"github.com/weberc2/reels/pkg/observable"
	"github.com/weberc2/reels/pkg/playback"
)

// clockPlayer stands in for a media player in headless runs: every item
// "plays" for a fixed clip length and then reports its end.
type clockPlayer struct {
	ClipLength time.Duration
	Dispatcher observable.Dispatcher
	Logger     *slog.Logger

	lock     sync.Mutex
	current  *clockItem
	timer    *time.Timer
	position time.Duration
	started  time.Time
	playing  bool
}

var _ playback.Player = (*clockPlayer)(nil)

type clockItem struct {
	url       string
	lock      sync.Mutex
	observers map[int]func()
	next      int
}

func (item *clockItem) URL() string { return item.url }

func (item *clockItem) OnEnd(fn func()) (cancel func()) {
	item.lock.Lock()
	defer item.lock.Unlock()
	if item.observers == nil {
		item.observers = make(map[int]func())
	}
	id := item.next
	item.next++
	item.observers[id] = fn
	return func() {
		item.lock.Lock()
		delete(item.observers, id)
		item.lock.Unlock()
	}
}

func (item *clockItem) end() {
	item.lock.Lock()
	observers := make([]func(), 0, len(item.observers))
	for _, fn := range item.observers {
		observers = append(observers, fn)
	}
	item.lock.Unlock()

	for _, fn := range observers {
		fn()
	}
}

func (p *clockPlayer) NewItem(url string) playback.Item {
	return &clockItem{url: url}
}

func (p *clockPlayer) Replace(item playback.Item) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.stop()
	p.current, _ = item.(*clockItem)
	p.position = 0
	p.Logger.Debug("replacing item", "url", item.URL())
}

func (p *clockPlayer) Play() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.play()
}

// play must be called with p.lock held.
func (p *clockPlayer) play() {
	if p.current == nil || p.playing {
		return
	}
	p.playing = true
	p.started = time.Now()

	item := p.current
	remaining := p.ClipLength - p.position
	if remaining < 0 {
		remaining = 0
	}
	p.timer = time.AfterFunc(remaining, func() {
		p.lock.Lock()
		if p.current != item {
			p.lock.Unlock()
			return
		}
		p.playing = false
		p.position = p.ClipLength
		p.lock.Unlock()

		p.Logger.Debug("reached end", "url", item.url)
		p.Dispatcher.Dispatch(item.end)
	})
}

func (p *clockPlayer) Pause() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.stop()
}

func (p *clockPlayer) Seek(to time.Duration) {
	p.lock.Lock()
	defer p.lock.Unlock()

	playing := p.playing
	p.stop()
	p.position = to
	if playing {
		p.play()
	}
}

func (p *clockPlayer) SetMuted(muted bool) {
	p.Logger.Debug("setting muted", "muted", muted)
}

// stop must be called with p.lock held.
func (p *clockPlayer) stop() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.playing {
		p.position += time.Since(p.started)
		p.playing = false
	}
}
