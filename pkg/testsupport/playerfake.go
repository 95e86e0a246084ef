package testsupport

import (
	"fmt"
	"sync"
	"time"

	"github.com/weberc2/reels/pkg/playback"
)

// PlayerFake records every command it receives, in order, and lets tests
// fire end-of-media events for individual items.
type PlayerFake struct {
	lock     sync.Mutex
	commands []string
	current  *ItemFake
	items    []*ItemFake
	muted    bool
}

var _ playback.Player = (*PlayerFake)(nil)

type ItemFake struct {
	url       string
	lock      sync.Mutex
	observers map[int]func()
	next      int
}

var _ playback.Item = (*ItemFake)(nil)

func (item *ItemFake) URL() string { return item.url }

func (item *ItemFake) OnEnd(fn func()) (cancel func()) {
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

// End fires the item's end-of-media observers as the player would.
func (item *ItemFake) End() {
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

func (item *ItemFake) Observers() int {
	item.lock.Lock()
	defer item.lock.Unlock()
	return len(item.observers)
}

func (p *PlayerFake) NewItem(url string) playback.Item {
	p.lock.Lock()
	defer p.lock.Unlock()
	item := &ItemFake{url: url}
	p.items = append(p.items, item)
	return item
}

func (p *PlayerFake) Replace(item playback.Item) {
	p.record("replace:" + item.URL())
	p.lock.Lock()
	p.current = item.(*ItemFake)
	p.lock.Unlock()
}

func (p *PlayerFake) Play()  { p.record("play") }
func (p *PlayerFake) Pause() { p.record("pause") }

func (p *PlayerFake) Seek(to time.Duration) {
	p.record(fmt.Sprintf("seek:%s", to))
}

func (p *PlayerFake) SetMuted(muted bool) {
	p.record(fmt.Sprintf("muted:%t", muted))
	p.lock.Lock()
	p.muted = muted
	p.lock.Unlock()
}

func (p *PlayerFake) Current() *ItemFake {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.current
}

func (p *PlayerFake) Items() []*ItemFake {
	p.lock.Lock()
	defer p.lock.Unlock()
	out := make([]*ItemFake, len(p.items))
	copy(out, p.items)
	return out
}

// ActiveObservers is the number of end-of-media registrations across every
// item the player ever created.
func (p *PlayerFake) ActiveObservers() int {
	total := 0
	for _, item := range p.Items() {
		total += item.Observers()
	}
	return total
}

// Commands returns and clears the recorded commands.
func (p *PlayerFake) Commands() []string {
	p.lock.Lock()
	defer p.lock.Unlock()
	commands := p.commands
	p.commands = nil
	return commands
}

func (p *PlayerFake) record(command string) {
	p.lock.Lock()
	p.commands = append(p.commands, command)
	p.lock.Unlock()
}
