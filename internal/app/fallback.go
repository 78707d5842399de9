package app

import (
	"time"

	"github.com/dematic-gent/prodreg/internal/models"
)

// LoadFallbackData fills the stores with a small demo dataset so the
// application stays usable (read-only) when the database cannot be
// reached at startup.
func LoadFallbackData(stores *Stores) {
	stores.Users.ReplaceAll([]models.User{
		{ID: 1, Name: "Tom Peckstadt", Role: models.RoleAdmin, BadgeCode: "BADGE001"},
		{ID: 2, Name: "Sven De Poorter", Role: models.RoleUser},
		{ID: 3, Name: "Nele Herteleer", Role: models.RoleUser, BadgeCode: "BADGE003"},
		{ID: 4, Name: "Wim Peckstadt", Role: models.RoleAdmin},
		{ID: 5, Name: "Siegfried Weverbergh", Role: models.RoleUser, BadgeCode: "BADGE005"},
		{ID: 6, Name: "Jan Janssen", Role: models.RoleUser},
	})
	stores.Products.ReplaceAll([]models.Product{
		{ID: "1", Name: "Interflon Metal Clean spray 500ml", QRCode: "IFLS001", CategoryID: "1"},
		{ID: "2", Name: "Interflon Grease LT2 Lube shuttle 400gr", QRCode: "IFFL002", CategoryID: "1"},
		{ID: "3", Name: "Interflon Maintenance Kit", QRCode: "IFD003", CategoryID: "2"},
		{ID: "4", Name: "Interflon Food Lube spray 500ml", QRCode: "IFGR004", CategoryID: "1"},
		{ID: "5", Name: "Interflon Foam Cleaner spray 500ml", QRCode: "IFMC005", CategoryID: "2"},
		{ID: "6", Name: "Interflon Fin Super", QRCode: "IFMK006", CategoryID: "3"},
	})
	stores.Categories.ReplaceAll([]models.Category{
		{ID: "1", Name: "Smeermiddelen"},
		{ID: "2", Name: "Reinigers"},
		{ID: "3", Name: "Onderhoud"},
	})
	stores.Locations.ReplaceAll([]string{
		"Warehouse Dematic groot boven",
		"Warehouse Interflon",
		"Warehouse Dematic klein beneden",
		"Onderhoud werkplaats",
		"Kantoor 1.1",
	})
	stores.Purposes.ReplaceAll([]string{
		"Presentatie", "Thuiswerken", "Reparatie", "Training", "Demonstratie",
	})
	stores.Registrations.ReplaceAll([]models.Registration{
		{
			ID:          "1",
			UserName:    "Tom Peckstadt",
			ProductName: "Interflon Metal Clean spray 500ml",
			Location:    "Warehouse Interflon",
			Purpose:     "Reparatie",
			Timestamp:   time.Date(2025, 6, 15, 5, 41, 0, 0, time.UTC),
			Date:        "2025-06-15",
			Time:        "05:41",
			QRCode:      "IFLS001",
		},
		{
			ID:          "2",
			UserName:    "Nele Herteleer",
			ProductName: "Interflon Metal Clean spray 500ml",
			Location:    "Warehouse Dematic klein beneden",
			Purpose:     "Training",
			Timestamp:   time.Date(2025, 6, 15, 5, 48, 0, 0, time.UTC),
			Date:        "2025-06-15",
			Time:        "05:48",
			QRCode:      "IFLS001",
		},
	})
}
