package playback_test

import (
	"testing"
	"time"

	"github.com/weberc2/reels/pkg/observable"
	"github.com/weberc2/reels/pkg/playback"
	"github.com/weberc2/reels/pkg/testsupport"
)

func compareCommands(wanted, found []string) func(*testing.T) {
	return func(t *testing.T) {
		t.Helper()
		if len(wanted) != len(found) {
			t.Fatalf("commands: wanted `%v`; found `%v`", wanted, found)
		}
		for i := range wanted {
			if wanted[i] != found[i] {
				t.Fatalf("commands: wanted `%v`; found `%v`", wanted, found)
			}
		}
	}
}

func testController() (*playback.Controller, *testsupport.PlayerFake) {
	player := &testsupport.PlayerFake{}
	return playback.NewController(player, observable.Immediate, nil), player
}

func TestBind(t *testing.T) {
	controller, player := testController()

	var states []playback.State
	controller.Subscribe(func(s playback.Status) { states = append(states, s.State) })

	controller.Bind("/cache/a.mp4")

	t.Run("commands", compareCommands(
		[]string{"replace:/cache/a.mp4", "play"},
		player.Commands(),
	))

	if len(states) != 2 ||
		states[0] != playback.StateLoading ||
		states[1] != playback.StatePlaying {
		t.Fatalf("wanted `[LOADING PLAYING]`; found `%v`", states)
	}

	status := controller.Status()
	if !status.Playing || status.Loading || status.URL != "/cache/a.mp4" {
		t.Fatalf("unexpected status: %+v", status)
	}
	if found := player.ActiveObservers(); found != 1 {
		t.Fatalf("wanted `1` observer; found `%d`", found)
	}
}

func TestLoopsOnEndOfMedia(t *testing.T) {
	controller, player := testController()
	controller.Bind("/cache/a.mp4")
	player.Commands()

	for i := 0; i < 3; i++ {
		controller.TogglePlayPause() // pause, so the loop has to resume
		player.Commands()

		player.Current().End()
		t.Run("loop", compareCommands([]string{"seek:0s", "play"}, player.Commands()))

		if status := controller.Status(); status.State != playback.StatePlaying || !status.Playing {
			t.Fatalf("wanted `PLAYING`; found `%+v`", status)
		}
	}
}

func TestRebindLeavesExactlyOneObserver(t *testing.T) {
	controller, player := testController()
	controller.Bind("/cache/a.mp4")
	controller.Bind("/cache/b.mp4")
	player.Commands()

	if found := player.ActiveObservers(); found != 1 {
		t.Fatalf("wanted `1` observer; found `%d`", found)
	}

	items := player.Items()
	if len(items) != 2 {
		t.Fatalf("wanted `2` items; found `%d`", len(items))
	}

	items[0].End()
	t.Run("stale item", compareCommands(nil, player.Commands()))

	items[1].End()
	t.Run("current item", compareCommands(
		[]string{"seek:0s", "play"},
		player.Commands(),
	))

	if found := controller.Status().URL; found != "/cache/b.mp4" {
		t.Fatalf("wanted `/cache/b.mp4`; found `%s`", found)
	}
}

func TestRebindPublishesLoadingAsNotPlaying(t *testing.T) {
	controller, _ := testController()
	controller.Bind("/cache/a.mp4")

	var statuses []playback.Status
	controller.Subscribe(func(s playback.Status) { statuses = append(statuses, s) })
	controller.Bind("/cache/b.mp4")

	if len(statuses) != 2 {
		t.Fatalf("wanted `2` statuses; found `%+v`", statuses)
	}
	if loading := statuses[0]; loading.State != playback.StateLoading ||
		loading.Playing ||
		!loading.Loading ||
		loading.URL != "/cache/b.mp4" {
		t.Fatalf("unexpected loading status: %+v", loading)
	}
	if playing := statuses[1]; playing.State != playback.StatePlaying || !playing.Playing {
		t.Fatalf("unexpected playing status: %+v", playing)
	}
}

func TestTogglePlayPause(t *testing.T) {
	controller, player := testController()
	controller.Bind("/cache/a.mp4")
	player.Commands()

	controller.TogglePlayPause()
	if status := controller.Status(); status.State != playback.StatePaused || status.Playing {
		t.Fatalf("wanted `PAUSED`; found `%+v`", status)
	}
	controller.TogglePlayPause()
	if status := controller.Status(); status.State != playback.StatePlaying || !status.Playing {
		t.Fatalf("wanted `PLAYING`; found `%+v`", status)
	}

	t.Run("commands", compareCommands([]string{"pause", "play"}, player.Commands()))
}

func TestToggleMute(t *testing.T) {
	controller, player := testController()
	controller.Bind("/cache/a.mp4")
	player.Commands()

	controller.ToggleMute()
	if !controller.Status().Muted {
		t.Fatal("wanted muted")
	}
	controller.ToggleMute()
	if controller.Status().Muted {
		t.Fatal("wanted unmuted")
	}

	t.Run("commands", compareCommands(
		[]string{"muted:true", "muted:false"},
		player.Commands(),
	))
}

func TestSeekAndReplay(t *testing.T) {
	controller, player := testController()
	controller.Bind("/cache/a.mp4")
	controller.TogglePlayPause()
	player.Commands()

	controller.Seek(3 * time.Second)
	controller.Replay()

	t.Run("commands", compareCommands(
		[]string{"seek:3s", "seek:0s", "play"},
		player.Commands(),
	))
	if status := controller.Status(); status.State != playback.StatePlaying {
		t.Fatalf("wanted `PLAYING`; found `%+v`", status)
	}
}

func TestCommandsWhileIdleAreNoops(t *testing.T) {
	controller, player := testController()

	controller.TogglePlayPause()
	controller.Seek(time.Second)
	controller.Replay()

	t.Run("commands", compareCommands(nil, player.Commands()))
	if status := controller.Status(); status.State != playback.StateIdle {
		t.Fatalf("wanted `IDLE`; found `%+v`", status)
	}
}

func TestClose(t *testing.T) {
	controller, player := testController()
	controller.Bind("/cache/a.mp4")
	item := player.Current()
	player.Commands()

	controller.Close()
	if found := player.ActiveObservers(); found != 0 {
		t.Fatalf("wanted `0` observers; found `%d`", found)
	}

	item.End()
	t.Run("commands", compareCommands(nil, player.Commands()))
	if status := controller.Status(); status.State != playback.StateIdle {
		t.Fatalf("wanted `IDLE`; found `%+v`", status)
	}
}
