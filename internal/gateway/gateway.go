// Package gateway is the boundary to the backing services: persistence,
// auth, file storage and change notifications. The rest of the
// application only sees this contract, so tests can substitute a fake.
package gateway

import (
	"context"
	"io"
	"sync"

	"github.com/dematic-gent/prodreg/internal/models"
)

// Identity describes an authenticated principal.
type Identity struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// ProductPatch carries a full product update; empty strings clear the
// corresponding optional columns.
type ProductPatch struct {
	Name           string
	QRCode         string
	CategoryID     string
	AttachmentURL  string
	AttachmentName string
}

// Subscription is the teardown handle for a change or auth listener.
type Subscription struct {
	close func()
	once  sync.Once
}

func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.close)
}

// Gateway exposes fetch/save/update/delete per entity kind plus a
// subscribe-for-changes primitive per collection. Subscribers always
// receive complete replacement snapshots, never deltas.
type Gateway interface {
	Ping(ctx context.Context) error

	FetchUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, name string) error
	CreateAuthUser(ctx context.Context, email, password, name, role string) (*models.User, error)
	UpdateUser(ctx context.Context, oldName, newName, role string) error
	DeleteUser(ctx context.Context, name string) error

	FetchProducts(ctx context.Context) ([]models.Product, error)
	SaveProduct(ctx context.Context, p models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) error
	DeleteProduct(ctx context.Context, id string) error

	FetchCategories(ctx context.Context) ([]models.Category, error)
	SaveCategory(ctx context.Context, name string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id, name string) error
	DeleteCategory(ctx context.Context, id string) error

	FetchLocations(ctx context.Context) ([]string, error)
	SaveLocation(ctx context.Context, name string) error
	UpdateLocation(ctx context.Context, oldName, newName string) error
	DeleteLocation(ctx context.Context, name string) error

	FetchPurposes(ctx context.Context) ([]string, error)
	SavePurpose(ctx context.Context, name string) error
	UpdatePurpose(ctx context.Context, oldName, newName string) error
	DeletePurpose(ctx context.Context, name string) error

	FetchRegistrations(ctx context.Context) ([]models.Registration, error)
	SaveRegistration(ctx context.Context, r models.Registration) error
	DeleteRegistration(ctx context.Context, id string) error

	FetchBadges(ctx context.Context) ([]models.UserBadge, error)
	DeleteBadgeForUser(ctx context.Context, userID int64) error
	SaveBadge(ctx context.Context, badgeID string, userID int64, email, name string) error

	SubscribeToUsers(fn func([]models.User)) *Subscription
	SubscribeToProducts(fn func([]models.Product)) *Subscription
	SubscribeToCategories(fn func([]models.Category)) *Subscription
	SubscribeToLocations(fn func([]string)) *Subscription
	SubscribeToPurposes(fn func([]string)) *Subscription
	SubscribeToRegistrations(fn func([]models.Registration)) *Subscription

	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignInWithBadge(ctx context.Context, badgeID string) (*Identity, error)
	CurrentUser(ctx context.Context, token string) (*Identity, error)
	SignOut(ctx context.Context)
	OnAuthStateChange(fn func(*Identity)) *Subscription

	UploadFile(ctx context.Context, name string, r io.Reader, ownerID string) (string, error)
	DeleteFile(ctx context.Context, url string) error
}

type actorKey struct{}

// WithActor tags ctx with the acting user's display name for the
// mutation audit trail.
func WithActor(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, actorKey{}, name)
}

// ActorFrom returns the acting user's name, or "" when anonymous.
func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}
