// Package extract turns an external listing page into structured product
// data. Retail pages are outside our control and drift structurally, so
// extraction degrades gracefully: a missing name or image never fails the
// operation, only a fetch error does. A missing price is reported as a nil
// price for the caller to judge.
package extract

import (
	"context"
	"fmt"
)

// ProductPage holds the structured data extracted from one listing page.
type ProductPage struct {
	// Name is the product title, or domain.NameNotFound when the page has
	// no recognizable title element.
	Name string

	// Price is the first parseable nonnegative price found, nil when no
	// selector strategy yielded one.
	Price *float64

	// ResolvedURL is the URL actually reached after redirects. It becomes
	// the item's identity going forward, not the input URL.
	ResolvedURL string

	// ImageURL is a representative product image, empty when absent.
	ImageURL string
}

// Extractor defines the interface for extracting product data from a
// listing URL.
type Extractor interface {
	Extract(ctx context.Context, url string) (*ProductPage, error)
}

// FetchError reports a fetch that completed with a non-success HTTP status.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: status %d", e.URL, e.Status)
}
