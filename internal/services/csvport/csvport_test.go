package csvport

import (
	"context"
	"strings"
	"testing"

	"github.com/dematic-gent/prodreg/internal/app"
	"github.com/dematic-gent/prodreg/internal/gateway"
	"github.com/dematic-gent/prodreg/internal/models"
)

// csvFake stubs just the gateway surface the import paths hit.
type csvFake struct {
	gateway.Gateway
	users      []models.User
	badges     []models.UserBadge
	products   []models.Product
	categories []models.Category
}

func (f *csvFake) CreateAuthUser(ctx context.Context, email, password, name, role string) (*models.User, error) {
	user := models.User{ID: int64(len(f.users) + 1), Name: name, Email: email, Role: role}
	f.users = append(f.users, user)
	return &user, nil
}

func (f *csvFake) SaveBadge(ctx context.Context, badgeID string, userID int64, email, name string) error {
	f.badges = append(f.badges, models.UserBadge{BadgeID: badgeID, UserID: userID})
	return nil
}

func (f *csvFake) FetchUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *csvFake) SaveProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	p.ID = p.Name
	f.products = append(f.products, p)
	return &p, nil
}

func (f *csvFake) FetchProducts(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *csvFake) SaveCategory(ctx context.Context, name string) (*models.Category, error) {
	cat := models.Category{ID: "cat-" + name, Name: name}
	f.categories = append(f.categories, cat)
	return &cat, nil
}

func (f *csvFake) FetchCategories(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

func newTestPorter() (*Porter, *csvFake) {
	fake := &csvFake{}
	stores := app.NewStores()
	coord := app.NewCoordinator(fake, stores, app.NewNotifier())
	coord.SetConnected(true)
	return &Porter{Coord: coord, Stores: stores, Domain: "dematic.com"}, fake
}

const usersCSV = `Naam,Email,Wachtwoord,Niveau,Badge Code
Jan Janssen,jan.janssen@dematic.com,wachtwoord123,user,BADGE001
Marie Peeters,marie.peeters@dematic.com,veilig456,admin,
Leeg Wachtwoord,leeg@dematic.com,kort,,
`

func TestImportUsersSkipsInvalidRows(t *testing.T) {
	p, fake := newTestPorter()

	result, err := p.ImportUsers(context.Background(), strings.NewReader(usersCSV))
	if err != nil {
		t.Fatalf("ImportUsers failed: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("created = %d, want 2", result.Created)
	}
	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (password too short)", result.Skipped)
	}
	if len(fake.badges) != 1 || fake.badges[0].BadgeID != "BADGE001" {
		t.Errorf("badge rows = %+v, want one BADGE001", fake.badges)
	}
	if fake.users[1].Role != "admin" {
		t.Errorf("role not applied: %+v", fake.users[1])
	}
}

func TestImportUsersSkipsDuplicates(t *testing.T) {
	p, _ := newTestPorter()
	p.Stores.Users.ReplaceAll([]models.User{{ID: 1, Name: "Jan Janssen"}})

	result, err := p.ImportUsers(context.Background(), strings.NewReader(usersCSV))
	if err != nil {
		t.Fatalf("ImportUsers failed: %v", err)
	}
	if result.Created != 1 {
		t.Errorf("created = %d, want 1 (Jan already exists)", result.Created)
	}
}

func TestExportUsersGeneratesEmailAndPassword(t *testing.T) {
	p, _ := newTestPorter()
	p.Stores.Users.ReplaceAll([]models.User{
		{ID: 1, Name: "Tom Peckstadt", Role: models.RoleAdmin, BadgeCode: "BADGE001"},
	})

	out, err := p.ExportUsers()
	if err != nil {
		t.Fatalf("ExportUsers failed: %v", err)
	}
	csv := string(out)
	if !strings.Contains(csv, "tom.peckstadt@dematic.com") {
		t.Errorf("generated email missing:\n%s", csv)
	}
	if !strings.Contains(csv, "BADGE001") || !strings.Contains(csv, "admin") {
		t.Errorf("badge or role missing:\n%s", csv)
	}
}

func TestUserTemplateParsesBack(t *testing.T) {
	p, _ := newTestPorter()
	result, err := p.ImportUsers(context.Background(), strings.NewReader(string(UserTemplate())))
	if err != nil {
		t.Fatalf("template does not parse: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("created = %d, want 2", result.Created)
	}
}

func TestImportProductsCreatesMissingCategories(t *testing.T) {
	p, fake := newTestPorter()
	csv := "Productnaam,Categorie\nInterflon Fin Super,Smeermiddelen\nInterflon Foam Cleaner,Smeermiddelen\n"

	result, err := p.ImportProducts(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportProducts failed: %v", err)
	}
	if result.Created != 2 {
		t.Errorf("created = %d, want 2", result.Created)
	}
	if len(fake.categories) != 1 {
		t.Errorf("categories created = %d, want 1 (reused for second row)", len(fake.categories))
	}
	products := p.Stores.Products.Current()
	if len(products) != 2 || products[0].CategoryID != "cat-Smeermiddelen" {
		t.Errorf("products not linked to category: %+v", products)
	}
}

func TestImportProductsSkipsExisting(t *testing.T) {
	p, _ := newTestPorter()
	p.Stores.Products.ReplaceAll([]models.Product{{ID: "1", Name: "Interflon Fin Super"}})
	csv := "Productnaam,Categorie\nInterflon Fin Super,\n"

	result, err := p.ImportProducts(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ImportProducts failed: %v", err)
	}
	if result.Created != 0 || result.Skipped != 1 {
		t.Errorf("result = %+v, want skip of existing product", result)
	}
}
