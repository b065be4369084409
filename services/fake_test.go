package services

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"whop-automation/models"
	"whop-automation/store"
	"whop-automation/utils"
)

// fakeMarketplace is an in-memory Marketplace for service tests.
type fakeMarketplace struct {
	listings  []models.Listing
	analytics map[string]*models.Analytics

	failTitles   map[string]bool
	created      []string
	priceUpdates map[string]int
	nextID       int
}

func newFakeMarketplace() *fakeMarketplace {
	return &fakeMarketplace{
		analytics:    map[string]*models.Analytics{},
		failTitles:   map[string]bool{},
		priceUpdates: map[string]int{},
	}
}

func (f *fakeMarketplace) CreateListing(doc *models.ProductDocument) (string, error) {
	if f.failTitles[doc.Title] {
		return "", errors.New("simulated create failure")
	}
	f.nextID++
	id := fmt.Sprintf("p_%d", f.nextID)
	f.created = append(f.created, id)
	return id, nil
}

func (f *fakeMarketplace) UpdatePrice(listingID string, priceCents int) error {
	f.priceUpdates[listingID] = priceCents
	return nil
}

func (f *fakeMarketplace) Analytics(listingID string) (*models.Analytics, error) {
	a, ok := f.analytics[listingID]
	if !ok {
		return nil, errors.New("no analytics")
	}
	return a, nil
}

func (f *fakeMarketplace) ListListings() []models.Listing {
	return f.listings
}

func testLogger() *utils.Logger {
	return utils.NewLoggerTo(io.Discard, io.Discard)
}

func newTestStoreIn(t *testing.T, dir string) *store.Store {
	t.Helper()
	st, err := store.New(dir, testLogger())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return st
}
