package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dematic-gent/prodreg/internal/gateway"
	"github.com/dematic-gent/prodreg/internal/models"
	"github.com/dematic-gent/prodreg/internal/services/printer"
	"github.com/dematic-gent/prodreg/internal/views"
)

var (
	ErrOffline       = errors.New("geen databaseverbinding")
	ErrValidation    = errors.New("ongeldige invoer")
	ErrDuplicateName = errors.New("naam bestaat al")

	// ErrBadgeNotSaved marks a split outcome: the user write went
	// through but the badge link did not.
	ErrBadgeNotSaved = errors.New("badge kon niet worden opgeslagen")
)

// Coordinator funnels every mutation through the gateway: validate
// against the current snapshot, perform exactly one write, refetch the
// affected collection and publish a transient notice. It never retries
// and never touches a store when the write failed.
type Coordinator struct {
	gw        gateway.Gateway
	stores    *Stores
	notifier  *Notifier
	connected atomic.Bool
}

func NewCoordinator(gw gateway.Gateway, stores *Stores, notifier *Notifier) *Coordinator {
	return &Coordinator{gw: gw, stores: stores, notifier: notifier}
}

// SetConnected flips the mutation gate. While disconnected the stores
// hold demo data and every write is refused.
func (c *Coordinator) SetConnected(ok bool) { c.connected.Store(ok) }
func (c *Coordinator) Connected() bool      { return c.connected.Load() }

func (c *Coordinator) guard() error {
	if !c.connected.Load() {
		c.notifier.Error("Geen databaseverbinding: wijzigingen zijn uitgeschakeld")
		return ErrOffline
	}
	return nil
}

// --- Users ---

func (c *Coordinator) AddUser(ctx context.Context, name string) error {
	if err := c.guard(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	if c.userNameTaken(name, "") {
		c.notifier.Error("Fout bij opslaan gebruiker")
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	if err := c.gw.SaveUser(ctx, name); err != nil {
		c.notifier.Error("Fout bij opslaan gebruiker")
		return err
	}
	c.refreshUsers(ctx)
	c.notifier.Success("✅ Gebruiker toegevoegd!", 2*time.Second)
	return nil
}

// CreateUserAccount provisions a user together with login credentials,
// and links a badge when one is given.
func (c *Coordinator) CreateUserAccount(ctx context.Context, name, email, password, role, badgeCode string) error {
	if err := c.guard(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return fmt.Errorf("%w: naam en e-mail zijn verplicht", ErrValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: wachtwoord moet minstens 6 tekens zijn", ErrValidation)
	}
	if role == "" {
		role = models.RoleUser
	}
	if c.userNameTaken(name, "") {
		c.notifier.Error("Fout bij opslaan gebruiker")
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	user, err := c.gw.CreateAuthUser(ctx, email, password, name, role)
	if err != nil {
		c.notifier.Error("Fout bij opslaan gebruiker")
		return err
	}
	if badgeCode = strings.TrimSpace(badgeCode); badgeCode != "" {
		if err := c.gw.SaveBadge(ctx, badgeCode, user.ID, email, name); err != nil {
			// The account exists; only the badge link is missing.
			c.refreshUsers(ctx)
			c.notifier.Error("Gebruiker aangemaakt maar badge kon niet worden opgeslagen")
			return fmt.Errorf("%w: %v", ErrBadgeNotSaved, err)
		}
		c.refreshUsers(ctx)
		c.notifier.Success("✅ Gebruiker, inlog-account en badge succesvol aangemaakt!", 3*time.Second)
		return nil
	}
	c.refreshUsers(ctx)
	c.notifier.Success("✅ Gebruiker en inlog-account succesvol aangemaakt!", 3*time.Second)
	return nil
}

// UpdateUser renames a user and/or changes the role, then reconciles
// the badge link. The badge side table is keyed by the immutable user
// id, so a rename never orphans a badge.
func (c *Coordinator) UpdateUser(ctx context.Context, userID int64, oldName, newName, role, badgeCode string) error {
	if err := c.guard(); err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	current, ok := c.userByID(userID)
	if !ok {
		return fmt.Errorf("gebruiker %d niet gevonden", userID)
	}

	userSaved := false
	if newName != oldName || (role != "" && role != current.Role) {
		if newName != oldName && c.userNameTaken(newName, oldName) {
			c.notifier.Error("Fout bij opslaan gebruiker")
			return fmt.Errorf("%w: %s", ErrDuplicateName, newName)
		}
		if err := c.gw.UpdateUser(ctx, oldName, newName, role); err != nil {
			c.notifier.Error("Fout bij opslaan gebruiker")
			return err
		}
		userSaved = true
	}

	badgeCode = strings.TrimSpace(badgeCode)
	if badgeCode != current.BadgeCode {
		// Two-step swap: clear first, then link the new code.
		if err := c.gw.DeleteBadgeForUser(ctx, userID); err != nil {
			c.refreshUsers(ctx)
			return c.badgeStepFailed(userSaved, err)
		}
		if badgeCode == "" {
			c.refreshUsers(ctx)
			c.notifier.Success("✅ Gebruiker aangepast en badge verwijderd!", 3*time.Second)
			return nil
		}
		if err := c.gw.SaveBadge(ctx, badgeCode, userID, current.Email, newName); err != nil {
			// The old badge is already gone; the name change stands.
			c.refreshUsers(ctx)
			return c.badgeStepFailed(true, err)
		}
		c.refreshUsers(ctx)
		c.notifier.Success("✅ Gebruiker en badge succesvol aangepast!", 3*time.Second)
		return nil
	}

	c.refreshUsers(ctx)
	c.notifier.Success("✅ Gebruiker succesvol aangepast!", 3*time.Second)
	return nil
}

func (c *Coordinator) DeleteUser(ctx context.Context, name string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.DeleteUser(ctx, name); err != nil {
		c.notifier.Error("Fout bij verwijderen gebruiker")
		return err
	}
	c.refreshUsers(ctx)
	c.notifier.Success("✅ Gebruiker verwijderd!", 2*time.Second)
	return nil
}

// badgeStepFailed reports a failed badge reconciliation. When an
// earlier write already went through the outcome is split: the user is
// saved, the badge link is not.
func (c *Coordinator) badgeStepFailed(partial bool, err error) error {
	if partial {
		c.notifier.Error("Gebruiker opgeslagen maar badge kon niet worden opgeslagen")
		return fmt.Errorf("%w: %v", ErrBadgeNotSaved, err)
	}
	c.notifier.Error("Fout bij opslaan gebruiker")
	return err
}

func (c *Coordinator) userNameTaken(name, except string) bool {
	for _, u := range c.stores.Users.Current() {
		if u.Name != except && strings.EqualFold(u.Name, name) {
			return true
		}
	}
	return false
}

func (c *Coordinator) userByID(id int64) (models.User, bool) {
	for _, u := range c.stores.Users.Current() {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// --- Registrations ---

func (c *Coordinator) AddRegistration(ctx context.Context, userName, productName, location, purpose string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if userName == "" || productName == "" || location == "" || purpose == "" {
		return fmt.Errorf("%w: gebruiker, product, locatie en doel zijn verplicht", ErrValidation)
	}
	qrCode := ""
	if p := views.FindProductByName(c.stores.Products.Current(), productName); p != nil {
		qrCode = p.QRCode
	}
	// The history filter compares UTC days, so the derived fields use
	// the UTC clock as well.
	now := time.Now().UTC()
	reg := models.Registration{
		UserName:    userName,
		ProductName: productName,
		Location:    location,
		Purpose:     purpose,
		Timestamp:   now,
		Date:        now.Format("2006-01-02"),
		Time:        now.Format("15:04"),
		QRCode:      qrCode,
	}
	if err := c.gw.SaveRegistration(ctx, reg); err != nil {
		c.notifier.Error("Fout bij opslaan registratie")
		return err
	}
	c.refreshRegistrations(ctx)
	c.notifier.Success("✅ Product succesvol geregistreerd!", 3*time.Second)
	return nil
}

func (c *Coordinator) DeleteRegistration(ctx context.Context, id string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.DeleteRegistration(ctx, id); err != nil {
		c.notifier.Error("Fout bij verwijderen registratie")
		return err
	}
	c.refreshRegistrations(ctx)
	c.notifier.Success("✅ Registratie verwijderd!", 2*time.Second)
	return nil
}

// --- Products ---

func (c *Coordinator) AddProduct(ctx context.Context, name, qrCode, categoryID string) error {
	if err := c.guard(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	if qrCode == "" {
		qrCode = printer.GenerateQRValue(name)
	}
	product := models.Product{Name: name, QRCode: qrCode, CategoryID: categoryID}
	if _, err := c.gw.SaveProduct(ctx, product); err != nil {
		c.notifier.Error("Fout bij opslaan product")
		return err
	}
	c.refreshProducts(ctx)
	c.notifier.Success("✅ Product toegevoegd!", 2*time.Second)
	return nil
}

func (c *Coordinator) UpdateProduct(ctx context.Context, id, name, qrCode, categoryID string) error {
	if err := c.guard(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	current, ok := c.productByID(id)
	if !ok {
		return fmt.Errorf("product %s niet gevonden", id)
	}
	patch := gateway.ProductPatch{
		Name:           name,
		QRCode:         qrCode,
		CategoryID:     categoryID,
		AttachmentURL:  current.AttachmentURL,
		AttachmentName: current.AttachmentName,
	}
	if err := c.gw.UpdateProduct(ctx, id, patch); err != nil {
		c.notifier.Error("Fout bij opslaan product")
		return err
	}
	c.refreshProducts(ctx)
	c.notifier.Success("✅ Product aangepast!", 2*time.Second)
	return nil
}

// GenerateProductQR assigns a freshly generated code to an existing
// product, replacing whatever code it had.
func (c *Coordinator) GenerateProductQR(ctx context.Context, id string) (string, error) {
	if err := c.guard(); err != nil {
		return "", err
	}
	current, ok := c.productByID(id)
	if !ok {
		return "", fmt.Errorf("product %s niet gevonden", id)
	}
	qrCode := printer.GenerateQRValue(current.Name)
	patch := gateway.ProductPatch{
		Name:           current.Name,
		QRCode:         qrCode,
		CategoryID:     current.CategoryID,
		AttachmentURL:  current.AttachmentURL,
		AttachmentName: current.AttachmentName,
	}
	if err := c.gw.UpdateProduct(ctx, id, patch); err != nil {
		c.notifier.Error("Fout bij genereren van QR code")
		return "", err
	}
	c.refreshProducts(ctx)
	c.notifier.Success(fmt.Sprintf("✅ QR code %s aangemaakt en opgeslagen!", qrCode), 3*time.Second)
	return qrCode, nil
}

func (c *Coordinator) DeleteProduct(ctx context.Context, id string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if current, ok := c.productByID(id); ok && current.AttachmentURL != "" {
		if err := c.gw.DeleteFile(ctx, current.AttachmentURL); err != nil {
			log.Printf("⚠️ Attachment cleanup for product %s failed: %v", id, err)
		}
	}
	if err := c.gw.DeleteProduct(ctx, id); err != nil {
		c.notifier.Error("Fout bij verwijderen product")
		return err
	}
	c.refreshProducts(ctx)
	c.notifier.Success("✅ Product verwijderd!", 2*time.Second)
	return nil
}

// UploadAttachment replaces the product's attachment. Any previous
// file is removed first, best effort.
func (c *Coordinator) UploadAttachment(ctx context.Context, productID, filename string, r io.Reader) error {
	if err := c.guard(); err != nil {
		return err
	}
	current, ok := c.productByID(productID)
	if !ok {
		return fmt.Errorf("product %s niet gevonden", productID)
	}
	if current.AttachmentURL != "" {
		if err := c.gw.DeleteFile(ctx, current.AttachmentURL); err != nil {
			log.Printf("⚠️ Old attachment cleanup for product %s failed: %v", productID, err)
		}
	}
	url, err := c.gw.UploadFile(ctx, filename, r, productID)
	if err != nil {
		c.notifier.Error("Fout bij uploaden bestand")
		return err
	}
	patch := gateway.ProductPatch{
		Name:           current.Name,
		QRCode:         current.QRCode,
		CategoryID:     current.CategoryID,
		AttachmentURL:  url,
		AttachmentName: filename,
	}
	if err := c.gw.UpdateProduct(ctx, productID, patch); err != nil {
		c.notifier.Error("Fout bij opslaan product")
		return err
	}
	c.refreshProducts(ctx)
	c.notifier.Success("✅ Bestand geupload!", 2*time.Second)
	return nil
}

func (c *Coordinator) RemoveAttachment(ctx context.Context, productID string) error {
	if err := c.guard(); err != nil {
		return err
	}
	current, ok := c.productByID(productID)
	if !ok {
		return fmt.Errorf("product %s niet gevonden", productID)
	}
	if current.AttachmentURL != "" {
		if err := c.gw.DeleteFile(ctx, current.AttachmentURL); err != nil {
			c.notifier.Error("Fout bij verwijderen bestand")
			return err
		}
	}
	patch := gateway.ProductPatch{
		Name:       current.Name,
		QRCode:     current.QRCode,
		CategoryID: current.CategoryID,
	}
	if err := c.gw.UpdateProduct(ctx, productID, patch); err != nil {
		c.notifier.Error("Fout bij opslaan product")
		return err
	}
	c.refreshProducts(ctx)
	c.notifier.Success("✅ Bestand verwijderd!", 2*time.Second)
	return nil
}

func (c *Coordinator) productByID(id string) (models.Product, bool) {
	for _, p := range c.stores.Products.Current() {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// --- Categories ---

func (c *Coordinator) AddCategory(ctx context.Context, name string) error {
	if err := c.guard(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	if c.categoryNameTaken(name, "") {
		c.notifier.Error("Fout bij opslaan categorie")
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	if _, err := c.gw.SaveCategory(ctx, name); err != nil {
		c.notifier.Error("Fout bij opslaan categorie")
		return err
	}
	c.refreshCategories(ctx)
	c.notifier.Success("✅ Categorie toegevoegd!", 2*time.Second)
	return nil
}

func (c *Coordinator) UpdateCategory(ctx context.Context, id, name string) error {
	if err := c.guard(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	current, ok := c.categoryByID(id)
	if !ok {
		return fmt.Errorf("categorie %s niet gevonden", id)
	}
	if name == current.Name {
		c.notifier.Success("✅ Categorie aangepast!", 2*time.Second)
		return nil
	}
	if c.categoryNameTaken(name, current.Name) {
		c.notifier.Error("Fout bij opslaan categorie")
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	if err := c.gw.UpdateCategory(ctx, id, name); err != nil {
		c.notifier.Error("Fout bij opslaan categorie")
		return err
	}
	c.refreshCategories(ctx)
	c.notifier.Success("✅ Categorie aangepast!", 2*time.Second)
	return nil
}

func (c *Coordinator) DeleteCategory(ctx context.Context, id string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.DeleteCategory(ctx, id); err != nil {
		c.notifier.Error("Fout bij verwijderen categorie")
		return err
	}
	c.refreshCategories(ctx)
	c.refreshProducts(ctx)
	c.notifier.Success("✅ Categorie verwijderd!", 2*time.Second)
	return nil
}

func (c *Coordinator) categoryNameTaken(name, except string) bool {
	for _, cat := range c.stores.Categories.Current() {
		if cat.Name != except && strings.EqualFold(cat.Name, name) {
			return true
		}
	}
	return false
}

func (c *Coordinator) categoryByID(id string) (models.Category, bool) {
	for _, cat := range c.stores.Categories.Current() {
		if cat.ID == id {
			return cat, true
		}
	}
	return models.Category{}, false
}

// --- Locations ---

func (c *Coordinator) AddLocation(ctx context.Context, name string) error {
	if err := c.guard(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	if nameInList(c.stores.Locations.Current(), name, "") {
		c.notifier.Error("Fout bij opslaan locatie")
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	if err := c.gw.SaveLocation(ctx, name); err != nil {
		c.notifier.Error("Fout bij opslaan locatie")
		return err
	}
	c.refreshLocations(ctx)
	c.notifier.Success("✅ Locatie toegevoegd!", 2*time.Second)
	return nil
}

func (c *Coordinator) RenameLocation(ctx context.Context, oldName, newName string) error {
	if err := c.guard(); err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	if newName == oldName {
		c.notifier.Success("✅ Locatie aangepast!", 2*time.Second)
		return nil
	}
	if nameInList(c.stores.Locations.Current(), newName, oldName) {
		c.notifier.Error("Fout bij opslaan locatie")
		return fmt.Errorf("%w: %s", ErrDuplicateName, newName)
	}
	if err := c.gw.UpdateLocation(ctx, oldName, newName); err != nil {
		c.notifier.Error("Fout bij opslaan locatie")
		return err
	}
	c.refreshLocations(ctx)
	c.notifier.Success("✅ Locatie aangepast!", 2*time.Second)
	return nil
}

func (c *Coordinator) DeleteLocation(ctx context.Context, name string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.DeleteLocation(ctx, name); err != nil {
		c.notifier.Error("Fout bij verwijderen locatie")
		return err
	}
	c.refreshLocations(ctx)
	c.notifier.Success("✅ Locatie verwijderd!", 2*time.Second)
	return nil
}

// --- Purposes ---

func (c *Coordinator) AddPurpose(ctx context.Context, name string) error {
	if err := c.guard(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	if nameInList(c.stores.Purposes.Current(), name, "") {
		c.notifier.Error("Fout bij opslaan doel")
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	if err := c.gw.SavePurpose(ctx, name); err != nil {
		c.notifier.Error("Fout bij opslaan doel")
		return err
	}
	c.refreshPurposes(ctx)
	c.notifier.Success("✅ Doel toegevoegd!", 2*time.Second)
	return nil
}

func (c *Coordinator) RenamePurpose(ctx context.Context, oldName, newName string) error {
	if err := c.guard(); err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("%w: naam is verplicht", ErrValidation)
	}
	if newName == oldName {
		c.notifier.Success("✅ Doel aangepast!", 2*time.Second)
		return nil
	}
	if nameInList(c.stores.Purposes.Current(), newName, oldName) {
		c.notifier.Error("Fout bij opslaan doel")
		return fmt.Errorf("%w: %s", ErrDuplicateName, newName)
	}
	if err := c.gw.UpdatePurpose(ctx, oldName, newName); err != nil {
		c.notifier.Error("Fout bij opslaan doel")
		return err
	}
	c.refreshPurposes(ctx)
	c.notifier.Success("✅ Doel aangepast!", 2*time.Second)
	return nil
}

func (c *Coordinator) DeletePurpose(ctx context.Context, name string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if err := c.gw.DeletePurpose(ctx, name); err != nil {
		c.notifier.Error("Fout bij verwijderen doel")
		return err
	}
	c.refreshPurposes(ctx)
	c.notifier.Success("✅ Doel verwijderd!", 2*time.Second)
	return nil
}

func nameInList(names []string, name, except string) bool {
	for _, n := range names {
		if n != except && strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// --- Refetch helpers ---
//
// A refetch failure after a committed write is logged, not surfaced:
// the write succeeded and the live subscription will eventually bring
// the snapshot up to date.

func (c *Coordinator) refreshUsers(ctx context.Context) {
	if users, err := c.gw.FetchUsers(ctx); err == nil {
		c.stores.Users.ReplaceAll(users)
	} else {
		log.Printf("⚠️ Refetch users failed: %v", err)
	}
}

func (c *Coordinator) refreshProducts(ctx context.Context) {
	if products, err := c.gw.FetchProducts(ctx); err == nil {
		c.stores.Products.ReplaceAll(products)
	} else {
		log.Printf("⚠️ Refetch products failed: %v", err)
	}
}

func (c *Coordinator) refreshCategories(ctx context.Context) {
	if categories, err := c.gw.FetchCategories(ctx); err == nil {
		c.stores.Categories.ReplaceAll(categories)
	} else {
		log.Printf("⚠️ Refetch categories failed: %v", err)
	}
}

func (c *Coordinator) refreshLocations(ctx context.Context) {
	if locations, err := c.gw.FetchLocations(ctx); err == nil {
		c.stores.Locations.ReplaceAll(locations)
	} else {
		log.Printf("⚠️ Refetch locations failed: %v", err)
	}
}

func (c *Coordinator) refreshPurposes(ctx context.Context) {
	if purposes, err := c.gw.FetchPurposes(ctx); err == nil {
		c.stores.Purposes.ReplaceAll(purposes)
	} else {
		log.Printf("⚠️ Refetch purposes failed: %v", err)
	}
}

func (c *Coordinator) refreshRegistrations(ctx context.Context) {
	if regs, err := c.gw.FetchRegistrations(ctx); err == nil {
		c.stores.Registrations.ReplaceAll(regs)
	} else {
		log.Printf("⚠️ Refetch registrations failed: %v", err)
	}
}
