package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/dematic-gent/prodreg/internal/app"
	"github.com/dematic-gent/prodreg/internal/gateway"
	"github.com/dematic-gent/prodreg/internal/views"
)

func (r *Router) respondMutation(w http.ResponseWriter, err error, fallback string) {
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, app.ErrOffline):
		respondError(w, http.StatusServiceUnavailable, "Geen databaseverbinding")
	case errors.Is(err, app.ErrBadgeNotSaved):
		// The user write went through; only the badge link failed.
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "partial",
			"error":  "badge kon niet worden opgeslagen",
		})
	case errors.Is(err, app.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrDuplicateName):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, gateway.ErrNotFound):
		respondError(w, http.StatusNotFound, "Niet gevonden")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// --- Users ---

type nameRequest struct {
	Name string `json:"name"`
}

// CreateUserRequest creates a plain user, or a user with login
// credentials when email and password are present.
type CreateUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	BadgeCode string `json:"badgeCode"`
}

type UpdateUserRequest struct {
	OldName   string `json:"oldName"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	BadgeCode string `json:"badgeCode"`
}

func (r *Router) listUsers(w http.ResponseWriter, req *http.Request) {
	users := views.FilterUsers(r.stores.Users.Current(), req.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, users)
}

func (r *Router) createUser(w http.ResponseWriter, req *http.Request) {
	var body CreateUserRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	var err error
	if body.Email != "" || body.Password != "" {
		err = r.coord.CreateUserAccount(req.Context(), body.Name, body.Email, body.Password, body.Role, body.BadgeCode)
	} else {
		err = r.coord.AddUser(req.Context(), body.Name)
	}
	r.respondMutation(w, err, "Fout bij opslaan gebruiker")
}

func (r *Router) updateUser(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	var body UpdateUserRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	err = r.coord.UpdateUser(req.Context(), id, body.OldName, body.Name, body.Role, body.BadgeCode)
	r.respondMutation(w, err, "Fout bij opslaan gebruiker")
}

func (r *Router) deleteUser(w http.ResponseWriter, req *http.Request) {
	err := r.coord.DeleteUser(req.Context(), mux.Vars(req)["name"])
	r.respondMutation(w, err, "Fout bij verwijderen gebruiker")
}

// --- Registrations ---

type CreateRegistrationRequest struct {
	User     string `json:"user"`
	Product  string `json:"product"`
	QRCode   string `json:"qrcode"`
	Location string `json:"location"`
	Purpose  string `json:"purpose"`
}

func (r *Router) listRegistrations(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	filter := views.RegistrationFilter{
		Query:    q.Get("q"),
		User:     q.Get("user"),
		Location: q.Get("location"),
		DateFrom: q.Get("from"),
		DateTo:   q.Get("to"),
	}
	regs := views.FilterRegistrations(r.stores.Registrations.Current(), filter)

	sortBy := q.Get("sort")
	if sortBy == "" {
		sortBy = views.SortByDate
	}
	order := q.Get("order")
	if order == "" {
		order = views.OrderNewest
	}
	regs = views.SortRegistrations(regs, sortBy, order)
	respondJSON(w, http.StatusOK, regs)
}

func (r *Router) createRegistration(w http.ResponseWriter, req *http.Request) {
	var body CreateRegistrationRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	// A scanned QR code resolves to the product name.
	product := body.Product
	if product == "" && body.QRCode != "" {
		if p := views.FindProductByQR(r.stores.Products.Current(), body.QRCode); p != nil {
			product = p.Name
		}
	}
	err := r.coord.AddRegistration(req.Context(), body.User, product, body.Location, body.Purpose)
	r.respondMutation(w, err, "Fout bij opslaan registratie")
}

func (r *Router) deleteRegistration(w http.ResponseWriter, req *http.Request) {
	err := r.coord.DeleteRegistration(req.Context(), mux.Vars(req)["id"])
	r.respondMutation(w, err, "Fout bij verwijderen registratie")
}

// --- Products ---

type ProductRequest struct {
	Name       string `json:"name"`
	QRCode     string `json:"qrcode"`
	CategoryID string `json:"categoryId"`
}

func (r *Router) listProducts(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	category := q.Get("category")
	if category == "" {
		category = views.CategoryAll
	}
	products := views.FilterProducts(r.stores.Products.Current(), category, q.Get("q"))
	respondJSON(w, http.StatusOK, products)
}

// lookupProduct resolves a scanned QR code to a product.
func (r *Router) lookupProduct(w http.ResponseWriter, req *http.Request) {
	code := req.URL.Query().Get("qr")
	if p := views.FindProductByQR(r.stores.Products.Current(), code); p != nil {
		respondJSON(w, http.StatusOK, p)
		return
	}
	respondError(w, http.StatusNotFound, "Geen product gevonden voor QR code: "+code)
}

func (r *Router) createProduct(w http.ResponseWriter, req *http.Request) {
	var body ProductRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	err := r.coord.AddProduct(req.Context(), body.Name, body.QRCode, body.CategoryID)
	r.respondMutation(w, err, "Fout bij opslaan product")
}

func (r *Router) updateProduct(w http.ResponseWriter, req *http.Request) {
	var body ProductRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	err := r.coord.UpdateProduct(req.Context(), mux.Vars(req)["id"], body.Name, body.QRCode, body.CategoryID)
	r.respondMutation(w, err, "Fout bij opslaan product")
}

func (r *Router) deleteProduct(w http.ResponseWriter, req *http.Request) {
	err := r.coord.DeleteProduct(req.Context(), mux.Vars(req)["id"])
	r.respondMutation(w, err, "Fout bij verwijderen product")
}

func (r *Router) generateProductQR(w http.ResponseWriter, req *http.Request) {
	qrCode, err := r.coord.GenerateProductQR(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		r.respondMutation(w, err, "Fout bij genereren van QR code")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"qrcode": qrCode})
}

// --- Categories ---

func (r *Router) listCategories(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.stores.Categories.Current())
}

func (r *Router) createCategory(w http.ResponseWriter, req *http.Request) {
	var body nameRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	err := r.coord.AddCategory(req.Context(), body.Name)
	r.respondMutation(w, err, "Fout bij opslaan categorie")
}

func (r *Router) updateCategory(w http.ResponseWriter, req *http.Request) {
	var body nameRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	err := r.coord.UpdateCategory(req.Context(), mux.Vars(req)["id"], body.Name)
	r.respondMutation(w, err, "Fout bij opslaan categorie")
}

func (r *Router) deleteCategory(w http.ResponseWriter, req *http.Request) {
	err := r.coord.DeleteCategory(req.Context(), mux.Vars(req)["id"])
	r.respondMutation(w, err, "Fout bij verwijderen categorie")
}

// --- Locations ---

func (r *Router) listLocations(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.stores.Locations.Current())
}

func (r *Router) createLocation(w http.ResponseWriter, req *http.Request) {
	var body nameRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	err := r.coord.AddLocation(req.Context(), body.Name)
	r.respondMutation(w, err, "Fout bij opslaan locatie")
}

func (r *Router) renameLocation(w http.ResponseWriter, req *http.Request) {
	var body nameRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	err := r.coord.RenameLocation(req.Context(), mux.Vars(req)["name"], body.Name)
	r.respondMutation(w, err, "Fout bij opslaan locatie")
}

func (r *Router) deleteLocation(w http.ResponseWriter, req *http.Request) {
	err := r.coord.DeleteLocation(req.Context(), mux.Vars(req)["name"])
	r.respondMutation(w, err, "Fout bij verwijderen locatie")
}

// --- Purposes ---

func (r *Router) listPurposes(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.stores.Purposes.Current())
}

func (r *Router) createPurpose(w http.ResponseWriter, req *http.Request) {
	var body nameRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	err := r.coord.AddPurpose(req.Context(), body.Name)
	r.respondMutation(w, err, "Fout bij opslaan doel")
}

func (r *Router) renamePurpose(w http.ResponseWriter, req *http.Request) {
	var body nameRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	err := r.coord.RenamePurpose(req.Context(), mux.Vars(req)["name"], body.Name)
	r.respondMutation(w, err, "Fout bij opslaan doel")
}

func (r *Router) deletePurpose(w http.ResponseWriter, req *http.Request) {
	err := r.coord.DeletePurpose(req.Context(), mux.Vars(req)["name"])
	r.respondMutation(w, err, "Fout bij verwijderen doel")
}
