package feed

import (
	"log/slog"
	"sync"

	"github.com/weberc2/reels/pkg/observable"
	"github.com/weberc2/reels/pkg/playback"
	"github.com/weberc2/reels/pkg/types"
)

// Feed keeps a playback controller bound to the selected video. It follows
// the published collection and rebinds only when the selected video's local
// path actually changes.
type Feed struct {
	Selection  Selection
	Controller *playback.Controller
	Logger     *slog.Logger

	lock   sync.Mutex
	bound  string
	cancel func()
}

func NewFeed(
	videos observable.Collection[types.VideoRecord],
	controller *playback.Controller,
	logger *slog.Logger,
) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Feed{Controller: controller, Logger: logger}
	f.Selection.SetVideos(videos.Get())
	f.sync()
	f.cancel = videos.Subscribe(func(records []types.VideoRecord) {
		f.Selection.SetVideos(records)
		f.sync()
	})
	return f
}

func (f *Feed) Advance() {
	f.Selection.Advance()
	f.Logger.Debug("switching video", "index", f.Selection.Index())
	f.sync()
}

func (f *Feed) Retreat() {
	f.Selection.Retreat()
	f.Logger.Debug("switching video", "index", f.Selection.Index())
	f.sync()
}

// Handle applies the navigation part of a gesture and returns the
// interpreted action so the caller can present other screens.
func (f *Feed) Handle(g Gesture) Action {
	action := Interpret(g)
	switch action {
	case ActionAdvance:
		f.Advance()
	case ActionRetreat:
		f.Retreat()
	case ActionNone:
	default:
		f.Logger.Info("feed action", "action", string(action))
	}
	return action
}

// Close stops following the collection and releases the controller.
func (f *Feed) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.Controller.Close()
	f.bound = ""
}

func (f *Feed) sync() {
	f.lock.Lock()
	defer f.lock.Unlock()

	current, ok := f.Selection.Current()
	if !ok {
		if f.bound != "" {
			f.Controller.Close()
			f.bound = ""
		}
		return
	}

	if current.LocalPath != f.bound {
		f.Controller.Bind(current.LocalPath)
		f.bound = current.LocalPath
	}
}
