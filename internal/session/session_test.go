package session

import (
	"context"
	"testing"

	"github.com/nextgenmall/foodcourt/internal/cart"
	"github.com/nextgenmall/foodcourt/internal/kvstore"
)

func newTestStore(t *testing.T) (*Store, *cart.Store, kvstore.Store) {
	t.Helper()
	kv := kvstore.NewMemoryStore()
	cartStore := cart.NewStore(kv, nil, nil)
	return NewStore(kv, cartStore, nil), cartStore, kv
}

func TestFreshStoreIsAnonymous(t *testing.T) {
	store, _, _ := newTestStore(t)

	if store.IsLoggedIn() {
		t.Error("IsLoggedIn() = true on fresh store")
	}
	if store.IsOwner() {
		t.Error("IsOwner() = true on fresh store")
	}
	if store.DarkMode() {
		t.Error("DarkMode() = true on fresh store")
	}
	if got := store.Role(); got != RoleAnonymous {
		t.Errorf("Role() = %q, want %q", got, RoleAnonymous)
	}
}

func TestLoginRoles(t *testing.T) {
	tests := []struct {
		name         string
		role         string
		wantRole     string
		wantLoggedIn bool
		wantOwner    bool
	}{
		{name: "customer", role: RoleCustomer, wantRole: RoleCustomer, wantLoggedIn: true, wantOwner: false},
		{name: "owner", role: RoleOwner, wantRole: RoleOwner, wantLoggedIn: true, wantOwner: true},
		{name: "unknownFallsBackToAnonymous", role: "superuser", wantRole: RoleAnonymous, wantLoggedIn: false, wantOwner: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, _ := newTestStore(t)

			if err := store.Login(tt.role, "Alex"); err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			if got := store.Role(); got != tt.wantRole {
				t.Errorf("Role() = %q, want %q", got, tt.wantRole)
			}
			if got := store.IsLoggedIn(); got != tt.wantLoggedIn {
				t.Errorf("IsLoggedIn() = %t, want %t", got, tt.wantLoggedIn)
			}
			if got := store.IsOwner(); got != tt.wantOwner {
				t.Errorf("IsOwner() = %t, want %t", got, tt.wantOwner)
			}
		})
	}
}

func TestSessionSurvivesReload(t *testing.T) {
	store, _, kv := newTestStore(t)

	if err := store.Login(RoleOwner, "Mama Njeri"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// A fresh store over the same persistence reads the session back.
	reloaded := NewStore(kv, nil, nil)
	if !reloaded.IsOwner() {
		t.Error("IsOwner() = false after reload")
	}
	if got := reloaded.DisplayName(); got != "Mama Njeri" {
		t.Errorf("DisplayName() = %q, want %q", got, "Mama Njeri")
	}
}

func TestLogoutClearsIdentityAndCart(t *testing.T) {
	store, cartStore, _ := newTestStore(t)
	ctx := context.Background()

	store.Login(RoleCustomer, "Alex")
	cartStore.AddItem(ctx, "d1", 500, "X")
	cartStore.AddItem(ctx, "d2", 250, "Y")

	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if store.IsLoggedIn() {
		t.Error("IsLoggedIn() = true after logout")
	}
	if store.IsOwner() {
		t.Error("IsOwner() = true after logout")
	}
	if got := store.DisplayName(); got != "" {
		t.Errorf("DisplayName() = %q, want empty", got)
	}
	if got := cartStore.TotalItemCount(); got != 0 {
		t.Errorf("cart TotalItemCount() = %d, want 0 after logout", got)
	}
}

func TestLogoutWhenAnonymousIsTotal(t *testing.T) {
	store, _, _ := newTestStore(t)

	if err := store.Logout(context.Background()); err != nil {
		t.Errorf("Logout() error = %v", err)
	}
	if store.IsLoggedIn() {
		t.Error("IsLoggedIn() = true")
	}
}

func TestToggleDarkModeRoundTrip(t *testing.T) {
	store, _, _ := newTestStore(t)

	dark, err := store.ToggleDarkMode()
	if err != nil {
		t.Fatalf("ToggleDarkMode() error = %v", err)
	}
	if !dark {
		t.Error("first toggle = false, want true")
	}

	dark, err = store.ToggleDarkMode()
	if err != nil {
		t.Fatalf("ToggleDarkMode() error = %v", err)
	}
	if dark {
		t.Error("second toggle = true, want false")
	}
}

func TestDarkModeIndependentOfLoginLifecycle(t *testing.T) {
	store, _, kv := newTestStore(t)
	ctx := context.Background()

	store.ToggleDarkMode()
	store.Login(RoleCustomer, "Alex")
	store.Logout(ctx)
	store.Login(RoleOwner, "Mama Njeri")

	if !store.DarkMode() {
		t.Error("DarkMode() = false, want true across login/logout")
	}

	store.Logout(ctx)
	store.ToggleDarkMode()
	if store.DarkMode() {
		t.Error("DarkMode() = true after second toggle")
	}

	// The preference also survives a reload on its own.
	store.ToggleDarkMode()
	reloaded := NewStore(kv, nil, nil)
	if !reloaded.DarkMode() {
		t.Error("DarkMode() = false after reload")
	}
	if reloaded.IsLoggedIn() {
		t.Error("IsLoggedIn() = true after logout and reload")
	}
}

func TestRehydrateDegradesBadValues(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	kv.Set("userType", "root")
	kv.Set("darkMode", "maybe")

	store := NewStore(kv, nil, nil)

	if store.IsLoggedIn() {
		t.Error("IsLoggedIn() = true for unknown persisted role")
	}
	if store.DarkMode() {
		t.Error("DarkMode() = true for unreadable persisted flag")
	}
}
