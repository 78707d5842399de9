// Package app holds the application core: the in-memory collection
// stores, the mutation coordinator that funnels every write through
// the gateway, and the initial load / live subscription plumbing.
package app

import (
	"github.com/dematic-gent/prodreg/internal/models"
	"github.com/dematic-gent/prodreg/internal/store"
)

// Stores bundles the six reactive collections the application works
// on. Every read surface (views, websocket feed, HTTP handlers) reads
// from here, never from the database directly.
type Stores struct {
	Users         *store.Store[models.User]
	Products      *store.Store[models.Product]
	Categories    *store.Store[models.Category]
	Locations     *store.Store[string]
	Purposes      *store.Store[string]
	Registrations *store.Store[models.Registration]
}

func NewStores() *Stores {
	return &Stores{
		Users:         store.New[models.User](),
		Products:      store.New[models.Product](),
		Categories:    store.New[models.Category](),
		Locations:     store.New[string](),
		Purposes:      store.New[string](),
		Registrations: store.New[models.Registration](),
	}
}
