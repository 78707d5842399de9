package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dematic-gent/prodreg/internal/app"
	"github.com/dematic-gent/prodreg/internal/config"
	"github.com/dematic-gent/prodreg/internal/database"
	"github.com/dematic-gent/prodreg/internal/gateway"
	"github.com/dematic-gent/prodreg/internal/handlers"
	"github.com/dematic-gent/prodreg/internal/models"
	"github.com/dematic-gent/prodreg/internal/services/csvport"
	"github.com/dematic-gent/prodreg/internal/session"
	"github.com/dematic-gent/prodreg/internal/storage"
	ws "github.com/dematic-gent/prodreg/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Synchronize schema
	log.Println("🚀 Synchronizing database schema...")
	if err := db.Migrate(); err != nil {
		log.Printf("⚠️ Migration warning: %v", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Attachment storage
	files, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to init attachment storage: %v", err)
	}

	// 5. Application core: gateway, stores, coordinator, session
	gw := gateway.NewDB(db.DB, files, cfg)
	stores := app.NewStores()
	notifier := app.NewNotifier()
	coord := app.NewCoordinator(gw, stores, notifier)
	sess := session.NewController(gw, stores.Users)
	porter := &csvport.Porter{Coord: coord, Stores: stores, Domain: cfg.CompanyDomain}

	// Initial snapshot load; mutations stay disabled if it fails.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	coord.SetConnected(app.LoadAll(loadCtx, gw, stores))
	cancelLoad()
	stopBridge := app.Bind(gw, stores)
	defer stopBridge()

	// 6. Websocket hub: live snapshots and notices for every client
	hub := ws.NewHub()
	go hub.Run()
	wireHub(hub, stores, notifier)

	// 7. HTTP router
	uploadsDir := ""
	if disk, ok := files.(*storage.Disk); ok {
		uploadsDir = disk.Dir()
	}
	router := handlers.NewRouter(cfg, gw, stores, coord, sess, porter, hub, uploadsDir)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s [env: %s]", cfg.Port, cfg.NodeEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("⚠️ Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}

// wireHub pushes every store change and notice to the websocket feed.
func wireHub(hub *ws.Hub, stores *app.Stores, notifier *app.Notifier) {
	stores.Users.OnChange(func(users []models.User) {
		hub.BroadcastCollection(gateway.ColUsers, users)
	})
	stores.Products.OnChange(func(products []models.Product) {
		hub.BroadcastCollection(gateway.ColProducts, products)
	})
	stores.Categories.OnChange(func(categories []models.Category) {
		hub.BroadcastCollection(gateway.ColCategories, categories)
	})
	stores.Locations.OnChange(func(locations []string) {
		hub.BroadcastCollection(gateway.ColLocations, locations)
	})
	stores.Purposes.OnChange(func(purposes []string) {
		hub.BroadcastCollection(gateway.ColPurposes, purposes)
	})
	stores.Registrations.OnChange(func(regs []models.Registration) {
		hub.BroadcastCollection(gateway.ColRegistrations, regs)
	})
	notifier.Listen(func(n app.Notice) {
		hub.BroadcastNotice(n)
	})
}
