package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/dematic-gent/prodreg/internal/config"
	"github.com/dematic-gent/prodreg/internal/models"
	"github.com/dematic-gent/prodreg/internal/storage"
	"github.com/dematic-gent/prodreg/internal/utils"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownBadge       = errors.New("badge is not linked to a user")
)

// DB is the production Gateway backed by Postgres through GORM.
type DB struct {
	db     *gorm.DB
	files  storage.Store
	cfg    *config.Config
	broker *broker
}

func NewDB(db *gorm.DB, files storage.Store, cfg *config.Config) *DB {
	return &DB{db: db, files: files, cfg: cfg, broker: newBroker()}
}

var _ Gateway = (*DB)(nil)

func (g *DB) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// recordEvent appends to the audit trail. Audit failures are logged,
// never surfaced: the mutation itself already committed.
func (g *DB) recordEvent(ctx context.Context, action, entity string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️ Audit payload not serializable for %s %s: %v", action, entity, err)
		raw = []byte("{}")
	}
	event := models.Event{
		Actor:   ActorFrom(ctx),
		Action:  action,
		Entity:  entity,
		Payload: raw,
		At:      time.Now(),
	}
	if err := g.db.WithContext(ctx).Create(&event).Error; err != nil {
		log.Printf("⚠️ Failed to record audit event %s %s: %v", action, entity, err)
	}
}

// --- Users ---

func (g *DB) FetchUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := g.db.WithContext(ctx).Order("name").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	badges, err := g.FetchBadges(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[int64]string, len(badges))
	for _, b := range badges {
		byUser[b.UserID] = b.BadgeID
	}
	for i := range users {
		users[i].BadgeCode = byUser[users[i].ID]
	}
	return users, nil
}

func (g *DB) SaveUser(ctx context.Context, name string) error {
	user := models.User{Name: name, Role: models.RoleUser}
	if err := g.db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	g.recordEvent(ctx, "create", "user", user)
	g.broker.publish(ColUsers)
	return nil
}

func (g *DB) CreateAuthUser(ctx context.Context, email, password, name, role string) (*models.User, error) {
	var count int64
	g.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil, ErrDuplicate
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := g.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create auth user: %w", err)
	}
	g.recordEvent(ctx, "create", "user", user)
	g.broker.publish(ColUsers)
	return &user, nil
}

func (g *DB) UpdateUser(ctx context.Context, oldName, newName, role string) error {
	updates := map[string]interface{}{"name": newName}
	if role != "" {
		updates["role"] = role
	}
	res := g.db.WithContext(ctx).Model(&models.User{}).Where("name = ?", oldName).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	g.recordEvent(ctx, "update", "user", map[string]string{"from": oldName, "to": newName, "role": role})
	g.broker.publish(ColUsers)
	return nil
}

func (g *DB) DeleteUser(ctx context.Context, name string) error {
	var user models.User
	if err := g.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserBadge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	g.recordEvent(ctx, "delete", "user", map[string]string{"name": name})
	g.broker.publish(ColUsers)
	return nil
}

// --- Products ---

func (g *DB) FetchProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := g.db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

func (g *DB) SaveProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	if err := g.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	g.recordEvent(ctx, "create", "product", p)
	g.broker.publish(ColProducts)
	return &p, nil
}

func (g *DB) UpdateProduct(ctx context.Context, id string, patch ProductPatch) error {
	updates := map[string]interface{}{
		"name":            patch.Name,
		"qr_code":         patch.QRCode,
		"category_id":     nullable(patch.CategoryID),
		"attachment_url":  patch.AttachmentURL,
		"attachment_name": patch.AttachmentName,
	}
	res := g.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	g.recordEvent(ctx, "update", "product", map[string]interface{}{"id": id, "name": patch.Name})
	g.broker.publish(ColProducts)
	return nil
}

func (g *DB) DeleteProduct(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	g.recordEvent(ctx, "delete", "product", map[string]string{"id": id})
	g.broker.publish(ColProducts)
	return nil
}

// --- Categories ---

func (g *DB) FetchCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := g.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return categories, nil
}

func (g *DB) SaveCategory(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{Name: name}
	if err := g.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}
	g.recordEvent(ctx, "create", "category", category)
	g.broker.publish(ColCategories)
	return &category, nil
}

func (g *DB) UpdateCategory(ctx context.Context, id, name string) error {
	res := g.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	g.recordEvent(ctx, "update", "category", map[string]string{"id": id, "name": name})
	g.broker.publish(ColCategories)
	return nil
}

func (g *DB) DeleteCategory(ctx context.Context, id string) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Products keep existing but lose the dangling reference.
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	g.recordEvent(ctx, "delete", "category", map[string]string{"id": id})
	g.broker.publish(ColCategories)
	g.broker.publish(ColProducts)
	return nil
}

// --- Locations ---

func (g *DB) FetchLocations(ctx context.Context) ([]string, error) {
	var names []string
	if err := g.db.WithContext(ctx).Model(&models.Location{}).Order("name").
		Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("fetch locations: %w", err)
	}
	return names, nil
}

func (g *DB) SaveLocation(ctx context.Context, name string) error {
	if err := g.db.WithContext(ctx).Create(&models.Location{Name: name}).Error; err != nil {
		return fmt.Errorf("save location: %w", err)
	}
	g.recordEvent(ctx, "create", "location", map[string]string{"name": name})
	g.broker.publish(ColLocations)
	return nil
}

func (g *DB) UpdateLocation(ctx context.Context, oldName, newName string) error {
	res := g.db.WithContext(ctx).Model(&models.Location{}).Where("name = ?", oldName).
		Update("name", newName)
	if res.Error != nil {
		return fmt.Errorf("update location: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	g.recordEvent(ctx, "update", "location", map[string]string{"from": oldName, "to": newName})
	g.broker.publish(ColLocations)
	return nil
}

func (g *DB) DeleteLocation(ctx context.Context, name string) error {
	res := g.db.WithContext(ctx).Where("name = ?", name).Delete(&models.Location{})
	if res.Error != nil {
		return fmt.Errorf("delete location: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	g.recordEvent(ctx, "delete", "location", map[string]string{"name": name})
	g.broker.publish(ColLocations)
	return nil
}

// --- Purposes ---

func (g *DB) FetchPurposes(ctx context.Context) ([]string, error) {
	var names []string
	if err := g.db.WithContext(ctx).Model(&models.Purpose{}).Order("name").
		Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("fetch purposes: %w", err)
	}
	return names, nil
}

func (g *DB) SavePurpose(ctx context.Context, name string) error {
	if err := g.db.WithContext(ctx).Create(&models.Purpose{Name: name}).Error; err != nil {
		return fmt.Errorf("save purpose: %w", err)
	}
	g.recordEvent(ctx, "create", "purpose", map[string]string{"name": name})
	g.broker.publish(ColPurposes)
	return nil
}

func (g *DB) UpdatePurpose(ctx context.Context, oldName, newName string) error {
	res := g.db.WithContext(ctx).Model(&models.Purpose{}).Where("name = ?", oldName).
		Update("name", newName)
	if res.Error != nil {
		return fmt.Errorf("update purpose: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	g.recordEvent(ctx, "update", "purpose", map[string]string{"from": oldName, "to": newName})
	g.broker.publish(ColPurposes)
	return nil
}

func (g *DB) DeletePurpose(ctx context.Context, name string) error {
	res := g.db.WithContext(ctx).Where("name = ?", name).Delete(&models.Purpose{})
	if res.Error != nil {
		return fmt.Errorf("delete purpose: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	g.recordEvent(ctx, "delete", "purpose", map[string]string{"name": name})
	g.broker.publish(ColPurposes)
	return nil
}

// --- Registrations ---

func (g *DB) FetchRegistrations(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	if err := g.db.WithContext(ctx).Order("timestamp DESC").Find(&regs).Error; err != nil {
		return nil, fmt.Errorf("fetch registrations: %w", err)
	}
	return regs, nil
}

func (g *DB) SaveRegistration(ctx context.Context, r models.Registration) error {
	if err := g.db.WithContext(ctx).Create(&r).Error; err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	g.recordEvent(ctx, "create", "registration", r)
	g.broker.publish(ColRegistrations)
	return nil
}

func (g *DB) DeleteRegistration(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Registration{})
	if res.Error != nil {
		return fmt.Errorf("delete registration: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	g.recordEvent(ctx, "delete", "registration", map[string]string{"id": id})
	g.broker.publish(ColRegistrations)
	return nil
}

// --- Badges ---

func (g *DB) FetchBadges(ctx context.Context) ([]models.UserBadge, error) {
	var badges []models.UserBadge
	if err := g.db.WithContext(ctx).Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("fetch badges: %w", err)
	}
	return badges, nil
}

func (g *DB) DeleteBadgeForUser(ctx context.Context, userID int64) error {
	if err := g.db.WithContext(ctx).Where("user_id = ?", userID).
		Delete(&models.UserBadge{}).Error; err != nil {
		return fmt.Errorf("delete badge: %w", err)
	}
	g.recordEvent(ctx, "delete", "badge", map[string]int64{"userId": userID})
	g.broker.publish(ColUsers)
	return nil
}

func (g *DB) SaveBadge(ctx context.Context, badgeID string, userID int64, email, name string) error {
	badge := models.UserBadge{BadgeID: badgeID, UserID: userID, UserEmail: email, UserName: name}
	if err := g.db.WithContext(ctx).Create(&badge).Error; err != nil {
		return fmt.Errorf("save badge: %w", err)
	}
	g.recordEvent(ctx, "create", "badge", badge)
	g.broker.publish(ColUsers)
	return nil
}

// --- Subscriptions ---

func (g *DB) SubscribeToUsers(fn func([]models.User)) *Subscription {
	return g.broker.subscribe(ColUsers, func() {
		if users, err := g.FetchUsers(context.Background()); err == nil {
			fn(users)
		} else {
			log.Printf("⚠️ Users snapshot for subscriber failed: %v", err)
		}
	})
}

func (g *DB) SubscribeToProducts(fn func([]models.Product)) *Subscription {
	return g.broker.subscribe(ColProducts, func() {
		if products, err := g.FetchProducts(context.Background()); err == nil {
			fn(products)
		} else {
			log.Printf("⚠️ Products snapshot for subscriber failed: %v", err)
		}
	})
}

func (g *DB) SubscribeToCategories(fn func([]models.Category)) *Subscription {
	return g.broker.subscribe(ColCategories, func() {
		if categories, err := g.FetchCategories(context.Background()); err == nil {
			fn(categories)
		} else {
			log.Printf("⚠️ Categories snapshot for subscriber failed: %v", err)
		}
	})
}

func (g *DB) SubscribeToLocations(fn func([]string)) *Subscription {
	return g.broker.subscribe(ColLocations, func() {
		if locations, err := g.FetchLocations(context.Background()); err == nil {
			fn(locations)
		} else {
			log.Printf("⚠️ Locations snapshot for subscriber failed: %v", err)
		}
	})
}

func (g *DB) SubscribeToPurposes(fn func([]string)) *Subscription {
	return g.broker.subscribe(ColPurposes, func() {
		if purposes, err := g.FetchPurposes(context.Background()); err == nil {
			fn(purposes)
		} else {
			log.Printf("⚠️ Purposes snapshot for subscriber failed: %v", err)
		}
	})
}

func (g *DB) SubscribeToRegistrations(fn func([]models.Registration)) *Subscription {
	return g.broker.subscribe(ColRegistrations, func() {
		if regs, err := g.FetchRegistrations(context.Background()); err == nil {
			fn(regs)
		} else {
			log.Printf("⚠️ Registrations snapshot for subscriber failed: %v", err)
		}
	})
}

// --- Auth ---

func (g *DB) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	var user models.User
	if err := g.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	identity := identityOf(&user)
	g.broker.publishAuth(identity)
	return identity, nil
}

func (g *DB) SignInWithBadge(ctx context.Context, badgeID string) (*Identity, error) {
	var badge models.UserBadge
	if err := g.db.WithContext(ctx).Where("badge_id = ?", badgeID).First(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownBadge
		}
		return nil, fmt.Errorf("badge sign in: %w", err)
	}
	var user models.User
	if err := g.db.WithContext(ctx).First(&user, badge.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownBadge
		}
		return nil, fmt.Errorf("badge sign in: %w", err)
	}
	identity := identityOf(&user)
	g.broker.publishAuth(identity)
	return identity, nil
}

func (g *DB) CurrentUser(ctx context.Context, token string) (*Identity, error) {
	claims, err := utils.ValidateToken(token, g.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return nil, errors.New("token has no user id")
	}
	var user models.User
	if err := g.db.WithContext(ctx).First(&user, int64(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return identityOf(&user), nil
}

func (g *DB) SignOut(ctx context.Context) {
	g.broker.publishAuth(nil)
}

func (g *DB) OnAuthStateChange(fn func(*Identity)) *Subscription {
	return g.broker.subscribeAuth(fn)
}

func identityOf(user *models.User) *Identity {
	return &Identity{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
}

// --- Attachments ---

func (g *DB) UploadFile(ctx context.Context, name string, r io.Reader, ownerID string) (string, error) {
	key := fmt.Sprintf("%s/%d-%s", ownerID, time.Now().UnixMilli(), name)
	return g.files.Put(ctx, key, r)
}

func (g *DB) DeleteFile(ctx context.Context, url string) error {
	return g.files.Delete(ctx, url)
}

// nullable maps "" to SQL NULL for optional foreign-key columns.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
