package handlers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/dematic-gent/prodreg/internal/app"
	"github.com/dematic-gent/prodreg/internal/buildinfo"
	"github.com/dematic-gent/prodreg/internal/config"
	"github.com/dematic-gent/prodreg/internal/gateway"
	"github.com/dematic-gent/prodreg/internal/middleware"
	"github.com/dematic-gent/prodreg/internal/services/csvport"
	"github.com/dematic-gent/prodreg/internal/session"
	"github.com/dematic-gent/prodreg/internal/utils"
	ws "github.com/dematic-gent/prodreg/internal/websocket"
)

// Router wraps the mux router and the application core.
type Router struct {
	*mux.Router
	cfg     *config.Config
	gw      gateway.Gateway
	stores  *app.Stores
	coord   *app.Coordinator
	session *session.Controller
	porter  *csvport.Porter
	hub     *ws.Hub
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, gw gateway.Gateway, stores *app.Stores, coord *app.Coordinator,
	sess *session.Controller, porter *csvport.Porter, hub *ws.Hub, uploadsDir string) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		cfg:     cfg,
		gw:      gw,
		stores:  stores,
		coord:   coord,
		session: sess,
		porter:  porter,
		hub:     hub,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/badge", r.badgeLogin).Methods("POST")
	auth.HandleFunc("/session", r.currentSession).Methods("GET")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Websocket feed
	r.HandleFunc("/ws", r.serveWs)

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	api.HandleFunc("/status", r.getStatus).Methods("GET")

	api.HandleFunc("/users", r.listUsers).Methods("GET")
	api.HandleFunc("/registrations", r.listRegistrations).Methods("GET")
	api.HandleFunc("/registrations", r.createRegistration).Methods("POST")
	api.HandleFunc("/products", r.listProducts).Methods("GET")
	api.HandleFunc("/products/lookup", r.lookupProduct).Methods("GET")
	api.HandleFunc("/categories", r.listCategories).Methods("GET")
	api.HandleFunc("/locations", r.listLocations).Methods("GET")
	api.HandleFunc("/purposes", r.listPurposes).Methods("GET")

	api.HandleFunc("/stats/top-users", r.topUsers).Methods("GET")
	api.HandleFunc("/stats/top-products", r.topProducts).Methods("GET")
	api.HandleFunc("/stats/top-locations", r.topLocations).Methods("GET")
	api.HandleFunc("/stats/chart", r.productChart).Methods("GET")

	// Management routes (admin only)
	admin := api.NewRoute().Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/registrations/{id}", r.deleteRegistration).Methods("DELETE")

	admin.HandleFunc("/users", r.createUser).Methods("POST")
	admin.HandleFunc("/users/{id:[0-9]+}", r.updateUser).Methods("PUT")
	admin.HandleFunc("/users/{name}", r.deleteUser).Methods("DELETE")

	admin.HandleFunc("/products", r.createProduct).Methods("POST")
	admin.HandleFunc("/products/{id}", r.updateProduct).Methods("PUT")
	admin.HandleFunc("/products/{id}", r.deleteProduct).Methods("DELETE")
	admin.HandleFunc("/products/{id}/qr", r.generateProductQR).Methods("POST")
	admin.HandleFunc("/products/{id}/attachment", r.uploadAttachment).Methods("POST")
	admin.HandleFunc("/products/{id}/attachment", r.removeAttachment).Methods("DELETE")

	admin.HandleFunc("/categories", r.createCategory).Methods("POST")
	admin.HandleFunc("/categories/{id}", r.updateCategory).Methods("PUT")
	admin.HandleFunc("/categories/{id}", r.deleteCategory).Methods("DELETE")

	admin.HandleFunc("/locations", r.createLocation).Methods("POST")
	admin.HandleFunc("/locations/{name}", r.renameLocation).Methods("PUT")
	admin.HandleFunc("/locations/{name}", r.deleteLocation).Methods("DELETE")

	admin.HandleFunc("/purposes", r.createPurpose).Methods("POST")
	admin.HandleFunc("/purposes/{name}", r.renamePurpose).Methods("PUT")
	admin.HandleFunc("/purposes/{name}", r.deletePurpose).Methods("DELETE")

	admin.HandleFunc("/import/users", r.importUsers).Methods("POST")
	admin.HandleFunc("/import/products", r.importProducts).Methods("POST")
	admin.HandleFunc("/export/users.csv", r.exportUsers).Methods("GET")
	admin.HandleFunc("/export/products.csv", r.exportProducts).Methods("GET")
	admin.HandleFunc("/export/users-template.csv", r.userTemplate).Methods("GET")
	admin.HandleFunc("/export/labels.pdf", r.exportLabelsPDF).Methods("GET")
	admin.HandleFunc("/export/labelpack.zip", r.exportLabelPack).Methods("GET")

	// QR images are fetched by <img> tags, no Authorization header.
	r.HandleFunc("/qr/{id}.png", r.productQRImage).Methods("GET")

	// Attachments stored on disk
	if uploadsDir != "" {
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))
	}

	// Frontend static files
	if dir := cfg.FrontendDir; dir != "" {
		if _, err := os.Stat(dir); err == nil {
			r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir)))
		}
	}

	return r
}

// healthCheck returns the health status of the API
// serveWs upgrades an authenticated client onto the realtime feed.
// Browsers cannot set an Authorization header on the websocket
// handshake, so the token usually rides in the query string.
func (r *Router) serveWs(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Query().Get("token")
	if token == "" {
		token = bearerToken(req)
	}
	if _, err := utils.ValidateToken(token, r.cfg.JWTSecret); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	ws.ServeWs(r.hub, w, req)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	status := "ok"
	if err := r.gw.Ping(req.Context()); err != nil {
		status = "degraded"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  status,
		"version": buildinfo.Version,
	})
}

// getStatus reports the connection gate and collection sizes.
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"connected":     r.coord.Connected(),
		"users":         r.stores.Users.Len(),
		"products":      r.stores.Products.Len(),
		"registrations": r.stores.Registrations.Len(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
