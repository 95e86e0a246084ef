package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/weberc2/reels/pkg/observable"
	"github.com/weberc2/reels/pkg/session"
)

const (
	UsernamePlaceholder = "Username"
	BioPlaceholder      = "No bio yet"
)

var ErrNotEditing = errors.New("profile is not in edit mode")

type Users interface {
	CurrentUser() (session.User, error)
}

// View is the published state of the profile screen.
type View struct {
	Username string
	Bio      string
	Editing  bool
}

func (v View) DisplayUsername() string {
	if v.Username == "" {
		return UsernamePlaceholder
	}
	return v.Username
}

func (v View) DisplayBio() string {
	if v.Bio == "" {
		return BioPlaceholder
	}
	return v.Bio
}

// Editor loads, edits, and saves the signed-in user's profile. Leaving
// edit mode saves.
type Editor struct {
	Store  Store
	Users  Users
	Logger *slog.Logger

	lock  sync.Mutex
	view  View
	user  string
	state *observable.Value[View]
}

func NewEditor(
	store Store,
	users Users,
	dispatcher observable.Dispatcher,
	logger *slog.Logger,
) *Editor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Editor{
		Store:  store,
		Users:  users,
		Logger: logger,
		state:  observable.NewValue(dispatcher, View{}),
	}
}

// Load reads the signed-in user's profile. Users without a stored profile
// start from their display name and an empty bio.
func (e *Editor) Load(ctx context.Context) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	user, err := e.Users.CurrentUser()
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}

	view := View{Username: user.DisplayName}
	profile, err := e.Store.Get(ctx, user.ID)
	switch {
	case err == nil:
		view.Username = profile.Username
		view.Bio = profile.Bio
	case errors.Is(err, ErrProfileNotFound):
		e.Logger.Debug("no stored profile", "user", user.ID)
	default:
		return fmt.Errorf("loading profile: %w", err)
	}

	e.user = user.ID
	e.set(view)
	return nil
}

// ToggleEdit enters edit mode, or saves and leaves it.
func (e *Editor) ToggleEdit(ctx context.Context) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	view := e.view
	if !view.Editing {
		view.Editing = true
		e.set(view)
		return nil
	}

	if e.user == "" {
		return fmt.Errorf("saving profile: %w", session.ErrUserNotFound)
	}
	if err := e.Store.Put(ctx, &Profile{
		User:     e.user,
		Username: view.Username,
		Bio:      view.Bio,
	}); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	view.Editing = false
	e.set(view)
	e.Logger.Info("saved profile", "user", e.user)
	return nil
}

func (e *Editor) SetUsername(username string) error {
	return e.edit(func(v *View) { v.Username = username })
}

func (e *Editor) SetBio(bio string) error {
	return e.edit(func(v *View) { v.Bio = bio })
}

func (e *Editor) View() View { return e.state.Get() }

func (e *Editor) DisplayUsername() string { return e.View().DisplayUsername() }

func (e *Editor) DisplayBio() string { return e.View().DisplayBio() }

func (e *Editor) Subscribe(fn func(View)) (cancel func()) {
	return e.state.Subscribe(fn)
}

func (e *Editor) edit(fn func(*View)) error {
	e.lock.Lock()
	defer e.lock.Unlock()

	if !e.view.Editing {
		return ErrNotEditing
	}
	view := e.view
	fn(&view)
	e.set(view)
	return nil
}

// set must be called with e.lock held.
func (e *Editor) set(view View) {
	e.view = view
	e.state.Set(view)
}
