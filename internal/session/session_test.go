package session

import (
	"context"
	"testing"

	"github.com/dematic-gent/prodreg/internal/gateway"
	"github.com/dematic-gent/prodreg/internal/models"
	"github.com/dematic-gent/prodreg/internal/store"
)

// authFake stubs the auth surface; the embedded interface panics on
// anything else, which no test here should touch.
type authFake struct {
	gateway.Gateway
	identity *gateway.Identity
	authFns  []func(*gateway.Identity)
}

func (f *authFake) SignIn(ctx context.Context, email, password string) (*gateway.Identity, error) {
	if f.identity == nil || password != "geheim" {
		return nil, gateway.ErrInvalidCredentials
	}
	return f.identity, nil
}

func (f *authFake) SignInWithBadge(ctx context.Context, badgeID string) (*gateway.Identity, error) {
	if f.identity == nil || badgeID != "BADGE001" {
		return nil, gateway.ErrUnknownBadge
	}
	return f.identity, nil
}

func (f *authFake) CurrentUser(ctx context.Context, token string) (*gateway.Identity, error) {
	if f.identity == nil || token != "geldig-token" {
		return nil, gateway.ErrNotFound
	}
	return f.identity, nil
}

func (f *authFake) SignOut(ctx context.Context) {
	for _, fn := range f.authFns {
		fn(nil)
	}
}

func (f *authFake) OnAuthStateChange(fn func(*gateway.Identity)) *gateway.Subscription {
	f.authFns = append(f.authFns, fn)
	return nil
}

func newTestController(identity *gateway.Identity, users ...models.User) (*Controller, *authFake) {
	fake := &authFake{identity: identity}
	userStore := store.New[models.User]()
	userStore.ReplaceAll(users)
	return NewController(fake, userStore), fake
}

func TestLoginMovesToAuthenticated(t *testing.T) {
	c, _ := newTestController(&gateway.Identity{UserID: 1, Email: "tom@dematic.com", Name: "Tom Peckstadt"})

	if c.State() != Anonymous {
		t.Fatalf("initial state = %v, want anonymous", c.State())
	}
	identity, err := c.Login(context.Background(), "tom@dematic.com", "geheim")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if c.State() != Authenticated {
		t.Errorf("state after login = %v, want authenticated", c.State())
	}
	if identity.Name != "Tom Peckstadt" {
		t.Errorf("identity name = %q", identity.Name)
	}
}

func TestFailedLoginFallsBackToAnonymous(t *testing.T) {
	c, _ := newTestController(&gateway.Identity{UserID: 1, Email: "tom@dematic.com"})

	if _, err := c.Login(context.Background(), "tom@dematic.com", "fout"); err == nil {
		t.Fatal("expected login failure")
	}
	if c.State() != Anonymous {
		t.Errorf("state after failed login = %v, want anonymous", c.State())
	}
	if c.Identity() != nil {
		t.Error("identity must be cleared after a failed login")
	}
}

func TestBadgeLogin(t *testing.T) {
	c, _ := newTestController(&gateway.Identity{UserID: 3, Name: "Nele Herteleer"})

	if _, err := c.LoginWithBadge(context.Background(), "BADGE001"); err != nil {
		t.Fatalf("badge login failed: %v", err)
	}
	if c.DisplayName() != "Nele Herteleer" {
		t.Errorf("display name = %q", c.DisplayName())
	}

	if _, err := c.LoginWithBadge(context.Background(), "ONBEKEND"); err == nil {
		t.Fatal("expected unknown badge to fail")
	}
	if c.State() != Anonymous {
		t.Errorf("state after failed badge login = %v", c.State())
	}
}

func TestRecoverFromToken(t *testing.T) {
	c, _ := newTestController(&gateway.Identity{UserID: 1, Name: "Tom Peckstadt"})

	if _, err := c.Recover(context.Background(), "geldig-token"); err != nil {
		t.Fatalf("Recover failed: %v", err)
	}
	if c.State() != Authenticated {
		t.Errorf("state after recover = %v", c.State())
	}

	if _, err := c.Recover(context.Background(), "verlopen"); err == nil {
		t.Fatal("expected recovery with a bad token to fail")
	}
	if c.State() != Anonymous {
		t.Errorf("state after failed recover = %v", c.State())
	}
}

func TestLogoutViaGatewayEvent(t *testing.T) {
	c, _ := newTestController(&gateway.Identity{UserID: 1, Name: "Tom Peckstadt"})
	if _, err := c.Login(context.Background(), "x", "geheim"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	c.Logout(context.Background())
	if c.State() != Anonymous || c.Identity() != nil {
		t.Error("logout did not reset the session")
	}
}

func TestDisplayNameDerivation(t *testing.T) {
	cases := []struct {
		identity *gateway.Identity
		want     string
	}{
		{nil, ""},
		{&gateway.Identity{Name: "Tom Peckstadt", Email: "tom@dematic.com"}, "Tom Peckstadt"},
		{&gateway.Identity{Email: "sven.stes@dematic.com"}, "sven.stes"},
		{&gateway.Identity{Email: ""}, "Gebruiker"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.identity); got != tc.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tc.identity, got, tc.want)
		}
	}
}

func TestRoleIsDataDriven(t *testing.T) {
	admin := models.User{ID: 1, Name: "Tom Peckstadt", Role: models.RoleAdmin}
	c, _ := newTestController(&gateway.Identity{UserID: 1, Name: "Tom Peckstadt"}, admin)
	if _, err := c.Login(context.Background(), "x", "geheim"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !c.IsAdmin() {
		t.Error("role from the users collection not applied")
	}

	// Someone missing from the collection is a plain user, whatever
	// their name is.
	c2, _ := newTestController(&gateway.Identity{UserID: 9, Name: "Wim Peckstadt"})
	if _, err := c2.Login(context.Background(), "x", "geheim"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if c2.IsAdmin() {
		t.Error("unknown user must not get the admin role")
	}
}

func TestRoleOfIsPerIdentity(t *testing.T) {
	users := []models.User{
		{ID: 1, Name: "Tom Peckstadt", Role: models.RoleAdmin},
		{ID: 2, Name: "Nele Herteleer", Role: models.RoleUser},
	}
	// The controller last saw Tom; a concurrent request for Nele must
	// still resolve her own role.
	c, _ := newTestController(&gateway.Identity{UserID: 1, Name: "Tom Peckstadt"}, users...)
	if _, err := c.Login(context.Background(), "x", "geheim"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	nele := &gateway.Identity{UserID: 2, Name: "Nele Herteleer"}
	if got := RoleOf(nele, users); got != models.RoleUser {
		t.Errorf("RoleOf(nele) = %q, want %q", got, models.RoleUser)
	}
	if got := RoleOf(c.Identity(), users); got != models.RoleAdmin {
		t.Errorf("RoleOf(controller identity) = %q, want %q", got, models.RoleAdmin)
	}
	if got := RoleOf(nil, users); got != "" {
		t.Errorf("RoleOf(nil) = %q, want empty", got)
	}
}
