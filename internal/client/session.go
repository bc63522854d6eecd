package client

import (
	"errors"
	"os"
	"path/filepath"

	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/pkg/slot"
)

const sessionSlotName = "auth_user"

var ErrNotSignedIn = errors.New("not signed in")

// Session keeps the signed-in user between cli invocations.
type Session struct {
	slot slot.Slot
}

func NewSession(s slot.Slot) *Session {
	return &Session{slot: s}
}

// NewFileSession stores the session as <dir>/auth_user.json.
func NewFileSession(dir string) *Session {
	return NewSession(slot.NewFileSlot(dir, sessionSlotName))
}

// DefaultSessionDir is the per-user config directory of the cli.
func DefaultSessionDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".job-tracker"
	}
	return filepath.Join(dir, "job-tracker")
}

// User returns ErrNotSignedIn when no user is stored.
func (s *Session) User() (*api.User, error) {
	var u api.User
	found, err := s.slot.Load(&u)
	if err != nil {
		return nil, err
	}
	if !found || u.Id == "" {
		return nil, ErrNotSignedIn
	}
	return &u, nil
}

func (s *Session) Save(u api.User) error {
	return s.slot.Save(u)
}

func (s *Session) Clear() error {
	return s.slot.Clear()
}
