package session

import (
	"context"
	"strconv"
	"sync"

	"github.com/appetiteclub/apt"

	"github.com/nextgenmall/foodcourt/internal/kvstore"
)

// Visitor roles. Anything persisted outside this set rehydrates as anonymous.
const (
	RoleAnonymous = "anonymous"
	RoleCustomer  = "customer"
	RoleOwner     = "owner"
)

// Storage keys match the original site's browser storage so a snapshot
// written by one is readable by the other.
const (
	keyRole     = "userType"
	keyName     = "userName"
	keyDarkMode = "darkMode"
)

// CartClearer is the slice of the cart store Logout needs. Clearing the
// cart there also resets any derived view, because the cart broadcasts
// its own change.
type CartClearer interface {
	Clear(ctx context.Context) error
}

// Store tracks the current visitor's role, display name and dark-mode
// preference. Every mutation persists synchronously; a fresh Store
// rehydrates from whatever the persistence layer holds, degrading to an
// anonymous light-mode session when values are missing or unrecognized.
type Store struct {
	mu     sync.RWMutex
	kv     kvstore.Store
	cart   CartClearer
	logger apt.Logger

	role     string
	name     string
	darkMode bool
}

func NewStore(kv kvstore.Store, cart CartClearer, logger apt.Logger) *Store {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	store := &Store{
		kv:     kv,
		cart:   cart,
		logger: logger,
		role:   RoleAnonymous,
	}
	store.rehydrate()
	return store
}

func (s *Store) rehydrate() {
	if role, ok := s.kv.Get(keyRole); ok {
		s.role = normalizeRole(role)
	}
	if name, ok := s.kv.Get(keyName); ok {
		s.name = name
	}
	if raw, ok := s.kv.Get(keyDarkMode); ok {
		dark, err := strconv.ParseBool(raw)
		if err != nil {
			s.logger.Debug("ignoring unreadable dark-mode flag", "value", raw)
			dark = false
		}
		s.darkMode = dark
	}
}

func normalizeRole(role string) string {
	switch role {
	case RoleCustomer, RoleOwner:
		return role
	default:
		return RoleAnonymous
	}
}

// Login establishes the session identity. It is total: an unrecognized
// role falls back to anonymous rather than failing.
func (s *Store) Login(role, displayName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.role = normalizeRole(role)
	s.name = displayName

	if err := s.kv.Set(keyRole, s.role); err != nil {
		return err
	}
	return s.kv.Set(keyName, s.name)
}

// Logout clears identity and cart contents. The dark-mode preference is
// deliberately left alone: it belongs to the browser, not the visitor.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.role = RoleAnonymous
	s.name = ""
	s.mu.Unlock()

	if err := s.kv.Delete(keyRole); err != nil {
		return err
	}
	if err := s.kv.Delete(keyName); err != nil {
		return err
	}
	if s.cart != nil {
		return s.cart.Clear(ctx)
	}
	return nil
}

func (s *Store) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Store) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role != RoleAnonymous
}

func (s *Store) IsOwner() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role == RoleOwner
}

func (s *Store) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.darkMode
}

// ToggleDarkMode flips and persists the preference, independent of the
// login lifecycle.
func (s *Store) ToggleDarkMode() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.darkMode = !s.darkMode
	if err := s.kv.Set(keyDarkMode, strconv.FormatBool(s.darkMode)); err != nil {
		return s.darkMode, err
	}
	return s.darkMode, nil
}
