package feed

import (
	"strings"
	"testing"

	"github.com/weberc2/reels/pkg/observable"
	"github.com/weberc2/reels/pkg/playback"
	"github.com/weberc2/reels/pkg/testsupport"
	"github.com/weberc2/reels/pkg/types"
)

func replaced(commands []string) []string {
	var out []string
	for _, command := range commands {
		if path, ok := strings.CutPrefix(command, "replace:"); ok {
			out = append(out, path)
		}
	}
	return out
}

func TestFeedFollowsCollectionAndSelection(t *testing.T) {
	videos := observable.NewCollection[types.VideoRecord](nil)
	player := &testsupport.PlayerFake{}
	controller := playback.NewController(player, nil, nil)
	f := NewFeed(videos, controller, nil)
	defer f.Close()

	if found := controller.Status().State; found != playback.StateIdle {
		t.Fatalf("wanted `IDLE` before any videos; found `%s`", found)
	}

	all := records(3)
	for _, record := range all {
		videos.Append(record)
	}

	// only the first video is bound while the collection grows
	if found := replaced(player.Commands()); len(found) != 1 || found[0] != all[0].LocalPath {
		t.Fatalf("wanted `[%s]`; found `%v`", all[0].LocalPath, found)
	}

	f.Handle(Gesture{Kind: GestureTap, X: 390, Width: 400})
	f.Retreat()
	f.Retreat()

	wanted := []string{all[1].LocalPath, all[0].LocalPath, all[2].LocalPath}
	found := replaced(player.Commands())
	if len(found) != len(wanted) {
		t.Fatalf("wanted `%v`; found `%v`", wanted, found)
	}
	for i := range wanted {
		if wanted[i] != found[i] {
			t.Fatalf("wanted `%v`; found `%v`", wanted, found)
		}
	}

	if n := player.ActiveObservers(); n != 1 {
		t.Fatalf("wanted `1` observer; found `%d`", n)
	}

	videos.Clear()
	if found := controller.Status().State; found != playback.StateIdle {
		t.Fatalf("wanted `IDLE` after clear; found `%s`", found)
	}
	if n := player.ActiveObservers(); n != 0 {
		t.Fatalf("wanted `0` observers; found `%d`", n)
	}
}

func TestFeedHandleReturnsNavigationActions(t *testing.T) {
	videos := observable.NewCollection[types.VideoRecord](nil)
	controller := playback.NewController(&testsupport.PlayerFake{}, nil, nil)
	f := NewFeed(videos, controller, nil)
	defer f.Close()

	if found := f.Handle(Gesture{Kind: GestureDrag, DX: -120}); found != ActionOpenProfile {
		t.Fatalf("wanted `OPEN_PROFILE`; found `%s`", found)
	}

	// navigation on an empty feed is harmless
	if found := f.Handle(Gesture{Kind: GestureTap, X: 1, Width: 400}); found != ActionRetreat {
		t.Fatalf("wanted `RETREAT`; found `%s`", found)
	}
	if found := f.Selection.Index(); found != 0 {
		t.Fatalf("wanted `0`; found `%d`", found)
	}
}
