package handlers

import (
	"net/http"

	"github.com/dematic-gent/prodreg/internal/views"
)

// The stats endpoints recompute from the registrations snapshot on
// every request; nothing is cached or stored.

func (r *Router) topUsers(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, views.TopUsers(r.stores.Registrations.Current()))
}

func (r *Router) topProducts(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, views.TopProducts(r.stores.Registrations.Current()))
}

func (r *Router) topLocations(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, views.TopLocations(r.stores.Registrations.Current()))
}

func (r *Router) productChart(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, views.ProductChartData(r.stores.Registrations.Current()))
}
