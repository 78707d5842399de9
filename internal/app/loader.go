package app

import (
	"context"
	"log"
	"sync"

	"github.com/dematic-gent/prodreg/internal/gateway"
)

// LoadAll fetches the six collections concurrently and installs each
// snapshot. It reports true only when every fetch succeeded; on any
// failure the demo dataset is installed instead and the caller should
// treat the application as disconnected.
func LoadAll(ctx context.Context, gw gateway.Gateway, stores *Stores) bool {
	if err := gw.Ping(ctx); err != nil {
		log.Printf("⚠️ Database unreachable, falling back to demo data: %v", err)
		LoadFallbackData(stores)
		return false
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(6)
	go func() {
		defer wg.Done()
		if users, err := gw.FetchUsers(ctx); err == nil {
			stores.Users.ReplaceAll(users)
		} else {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		if products, err := gw.FetchProducts(ctx); err == nil {
			stores.Products.ReplaceAll(products)
		} else {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		if categories, err := gw.FetchCategories(ctx); err == nil {
			stores.Categories.ReplaceAll(categories)
		} else {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		if locations, err := gw.FetchLocations(ctx); err == nil {
			stores.Locations.ReplaceAll(locations)
		} else {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		if purposes, err := gw.FetchPurposes(ctx); err == nil {
			stores.Purposes.ReplaceAll(purposes)
		} else {
			fail(err)
		}
	}()
	go func() {
		defer wg.Done()
		if regs, err := gw.FetchRegistrations(ctx); err == nil {
			stores.Registrations.ReplaceAll(regs)
		} else {
			fail(err)
		}
	}()
	wg.Wait()

	if len(errs) > 0 {
		log.Printf("⚠️ Initial data load incomplete (%d collections failed), falling back to demo data", len(errs))
		LoadFallbackData(stores)
		return false
	}
	log.Printf("✅ Initial data load complete: %d users, %d products, %d registrations",
		stores.Users.Len(), stores.Products.Len(), stores.Registrations.Len())
	return true
}

// Bind wires the gateway's change feed into the stores so external
// writes land in the same snapshots local mutations do. The returned
// stop function tears all subscriptions down.
func Bind(gw gateway.Gateway, stores *Stores) func() {
	subs := []*gateway.Subscription{
		gw.SubscribeToUsers(stores.Users.ReplaceAll),
		gw.SubscribeToProducts(stores.Products.ReplaceAll),
		gw.SubscribeToCategories(stores.Categories.ReplaceAll),
		gw.SubscribeToLocations(stores.Locations.ReplaceAll),
		gw.SubscribeToPurposes(stores.Purposes.ReplaceAll),
		gw.SubscribeToRegistrations(stores.Registrations.ReplaceAll),
	}
	return func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}
}
