// Package csvport implements the CSV bulk interfaces: user import and
// export (with login credentials) and product import and export.
package csvport

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/dematic-gent/prodreg/internal/app"
	"github.com/dematic-gent/prodreg/internal/models"
)

// Porter runs imports through the mutation coordinator so every row
// follows the same validation and notification path as a manual entry.
type Porter struct {
	Coord  *app.Coordinator
	Stores *app.Stores
	Domain string // email domain for generated addresses
}

type userRow struct {
	Naam       string `csv:"Naam"`
	Email      string `csv:"Email"`
	Wachtwoord string `csv:"Wachtwoord"`
	Niveau     string `csv:"Niveau"`
	BadgeCode  string `csv:"Badge Code"`
}

type productRow struct {
	Productnaam string `csv:"Productnaam"`
	Categorie   string `csv:"Categorie"`
	QRCode      string `csv:"QRCode,omitempty"`
}

// ImportResult summarizes a bulk import run.
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportUsers reads rows of Naam,Email,Wachtwoord,Niveau,Badge Code
// and provisions an account per valid row. Invalid rows are skipped
// and reported, they never abort the run.
func (p *Porter) ImportUsers(ctx context.Context, r io.Reader) (ImportResult, error) {
	var rows []userRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return ImportResult{}, fmt.Errorf("lees CSV: %w", err)
	}
	result := ImportResult{}
	for i, row := range rows {
		name := strings.TrimSpace(row.Naam)
		email := strings.TrimSpace(row.Email)
		password := strings.TrimSpace(row.Wachtwoord)
		if name == "" || email == "" || password == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("rij %d: naam, email en wachtwoord zijn verplicht", i+1))
			continue
		}
		if len(password) < 6 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("rij %d: wachtwoord te kort", i+1))
			continue
		}
		role := strings.TrimSpace(row.Niveau)
		if role == "" {
			role = models.RoleUser
		}
		if err := p.Coord.CreateUserAccount(ctx, name, email, password, role, strings.TrimSpace(row.BadgeCode)); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("rij %d: %v", i+1, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

// ExportUsers writes the current users with a generated email address
// and a fresh temporary password per row. The passwords only exist in
// the export; nothing is written back.
func (p *Porter) ExportUsers() ([]byte, error) {
	users := p.Stores.Users.Current()
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		email := u.Email
		if email == "" {
			email = strings.ToLower(strings.ReplaceAll(u.Name, " ", ".")) + "@" + p.Domain
		}
		rows = append(rows, userRow{
			Naam:       u.Name,
			Email:      email,
			Wachtwoord: randomPassword(),
			Niveau:     u.Role,
			BadgeCode:  u.BadgeCode,
		})
	}
	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return nil, fmt.Errorf("schrijf CSV: %w", err)
	}
	return []byte(out), nil
}

// UserTemplate returns an example file for the import format.
func UserTemplate() []byte {
	rows := []userRow{
		{Naam: "Jan Janssen", Email: "jan.janssen@dematic.com", Wachtwoord: "nieuw_wachtwoord123", Niveau: "user", BadgeCode: "BADGE001"},
		{Naam: "Marie Peeters", Email: "marie.peeters@dematic.com", Wachtwoord: "veilig_wachtwoord456", Niveau: "admin", BadgeCode: "BADGE002"},
	}
	out, _ := gocsv.MarshalString(&rows)
	return []byte(out)
}

// ImportProducts reads rows of Productnaam,Categorie. Unknown
// categories are created on the fly; products that already exist by
// name are skipped.
func (p *Porter) ImportProducts(ctx context.Context, r io.Reader) (ImportResult, error) {
	var rows []productRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return ImportResult{}, fmt.Errorf("lees CSV: %w", err)
	}
	result := ImportResult{}
	for i, row := range rows {
		name := strings.TrimSpace(row.Productnaam)
		if name == "" {
			result.Skipped++
			continue
		}
		if p.productExists(name) {
			result.Skipped++
			continue
		}
		categoryID := ""
		if categoryName := strings.TrimSpace(row.Categorie); categoryName != "" {
			id, err := p.ensureCategory(ctx, categoryName)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("rij %d: %v", i+1, err))
				continue
			}
			categoryID = id
		}
		if err := p.Coord.AddProduct(ctx, name, strings.TrimSpace(row.QRCode), categoryID); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("rij %d: %v", i+1, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

// ExportProducts writes the product list with category names resolved.
func (p *Porter) ExportProducts() ([]byte, error) {
	categories := p.Stores.Categories.Current()
	byID := make(map[string]string, len(categories))
	for _, c := range categories {
		byID[c.ID] = c.Name
	}
	products := p.Stores.Products.Current()
	rows := make([]productRow, 0, len(products))
	for _, prod := range products {
		rows = append(rows, productRow{
			Productnaam: prod.Name,
			Categorie:   byID[prod.CategoryID],
			QRCode:      prod.QRCode,
		})
	}
	out, err := gocsv.MarshalString(&rows)
	if err != nil {
		return nil, fmt.Errorf("schrijf CSV: %w", err)
	}
	return []byte(out), nil
}

func (p *Porter) productExists(name string) bool {
	for _, prod := range p.Stores.Products.Current() {
		if strings.EqualFold(prod.Name, name) {
			return true
		}
	}
	return false
}

func (p *Porter) ensureCategory(ctx context.Context, name string) (string, error) {
	if id := p.findCategory(name); id != "" {
		return id, nil
	}
	if err := p.Coord.AddCategory(ctx, name); err != nil {
		return "", err
	}
	if id := p.findCategory(name); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("categorie %q niet gevonden na aanmaken", name)
}

func (p *Porter) findCategory(name string) string {
	for _, c := range p.Stores.Categories.Current() {
		if strings.EqualFold(c.Name, name) {
			return c.ID
		}
	}
	return ""
}

const passwordChars = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func randomPassword() string {
	b := make([]byte, 12)
	for i := range b {
		b[i] = passwordChars[rand.Intn(len(passwordChars))]
	}
	return string(b)
}
