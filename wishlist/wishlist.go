// Package wishlist implements the saved-products collection and its views.
package wishlist

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"skouce/models"
)

var (
	ErrAlreadySaved  = errors.New("wishlist: product already saved")
	ErrNotSaved      = errors.New("wishlist: product not in wishlist")
	ErrOutOfStock    = errors.New("wishlist: product is out of stock")
	ErrUnknownSort   = errors.New("wishlist: unknown sort criterion")
	ErrUnknownFilter = errors.New("wishlist: unknown filter")
	ErrNoCart        = errors.New("wishlist: no cart attached")
)

type SortKey string

const (
	SortDateAdded SortKey = "dateAdded"
	SortPrice     SortKey = "price"
	SortName      SortKey = "name"
)

type FilterKey string

const (
	FilterAll          FilterKey = "all"
	FilterInStock      FilterKey = "inStock"
	FilterPriceDropped FilterKey = "priceDropped"
)

// Cart receives products moved out of the wishlist.
type Cart interface {
	Add(p models.Product, qty int) error
}

// Collection holds unique saved products. Sorting and filtering only change
// View; the underlying items are never reordered or dropped by them.
type Collection struct {
	items  []models.WishlistItem
	sortBy SortKey
	filter FilterKey
	cart   Cart
	sharer *Sharer
	now    func() time.Time
}

type Option func(*Collection)

func WithCart(c Cart) Option {
	return func(w *Collection) { w.cart = c }
}

func WithSharer(s *Sharer) Option {
	return func(w *Collection) { w.sharer = s }
}

// WithClock replaces time.Now for dateAdded stamps.
func WithClock(now func() time.Time) Option {
	return func(w *Collection) { w.now = now }
}

func New(opts ...Option) *Collection {
	w := &Collection{sortBy: SortDateAdded, filter: FilterAll, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Collection) index(id string) int {
	for i, it := range w.items {
		if it.ID() == id {
			return i
		}
	}
	return -1
}

// Add saves p. Saving a product twice is rejected and changes nothing.
func (w *Collection) Add(p models.Product, inStock bool) error {
	if w.index(p.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrAlreadySaved, p.ID)
	}
	w.items = append(w.items, models.WishlistItem{Product: p, DateAdded: w.now(), InStock: inStock})
	return nil
}

// Remove deletes id. Removing an absent id is a no-op.
func (w *Collection) Remove(id string) {
	if i := w.index(id); i >= 0 {
		w.items = append(w.items[:i], w.items[i+1:]...)
	}
}

func (w *Collection) Clear() {
	w.items = nil
}

func (w *Collection) Has(id string) bool {
	return w.index(id) >= 0
}

func (w *Collection) Item(id string) (models.WishlistItem, bool) {
	if i := w.index(id); i >= 0 {
		return w.items[i], true
	}
	return models.WishlistItem{}, false
}

// SetStock refreshes an item's availability.
func (w *Collection) SetStock(id string, inStock bool) error {
	i := w.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotSaved, id)
	}
	w.items[i].InStock = inStock
	return nil
}

func (w *Collection) SortBy(key SortKey) error {
	switch key {
	case SortDateAdded, SortPrice, SortName:
		w.sortBy = key
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownSort, key)
}

func (w *Collection) FilterBy(key FilterKey) error {
	switch key {
	case FilterAll, FilterInStock, FilterPriceDropped:
		w.filter = key
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownFilter, key)
}

func (w *Collection) Sort() SortKey     { return w.sortBy }
func (w *Collection) Filter() FilterKey { return w.filter }

// Len counts every saved item; VisibleLen counts the current view.
func (w *Collection) Len() int { return len(w.items) }

func (w *Collection) VisibleLen() int { return len(w.View()) }

func (w *Collection) keep(it models.WishlistItem) bool {
	switch w.filter {
	case FilterInStock:
		return it.InStock
	case FilterPriceDropped:
		return it.PriceDropped()
	}
	return true
}

// View filters then sorts a copy of the items.
func (w *Collection) View() []models.WishlistItem {
	out := make([]models.WishlistItem, 0, len(w.items))
	for _, it := range w.items {
		if w.keep(it) {
			out = append(out, it)
		}
	}

	var less func(a, b models.WishlistItem) bool
	switch w.sortBy {
	case SortPrice:
		less = func(a, b models.WishlistItem) bool { return a.Product.Price < b.Product.Price }
	case SortName:
		less = func(a, b models.WishlistItem) bool {
			return strings.ToLower(a.Product.Name) < strings.ToLower(b.Product.Name)
		}
	default:
		less = func(a, b models.WishlistItem) bool { return a.DateAdded.After(b.DateAdded) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// MoveToCart adds one unit of id to the cart. The item stays saved.
func (w *Collection) MoveToCart(id string) error {
	it, ok := w.Item(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotSaved, id)
	}
	if !it.InStock {
		return fmt.Errorf("%w: %s", ErrOutOfStock, id)
	}
	if w.cart == nil {
		return ErrNoCart
	}
	if err := w.cart.Add(it.Product, 1); err != nil {
		return fmt.Errorf("wishlist: move %s to cart: %w", id, err)
	}
	return nil
}

// BulkResult reports a bulk move. Skipped holds out-of-stock ids; Failed
// holds ids the cart refused.
type BulkResult struct {
	Moved   int      `json:"moved"`
	Skipped []string `json:"skipped"`
	Failed  []string `json:"failed"`
}

// BulkMoveAvailableToCart moves every in-stock item of the current view.
// A single failure never stops the rest.
func (w *Collection) BulkMoveAvailableToCart() BulkResult {
	res := BulkResult{Skipped: []string{}, Failed: []string{}}
	for _, it := range w.View() {
		if !it.InStock {
			res.Skipped = append(res.Skipped, it.ID())
			continue
		}
		if err := w.MoveToCart(it.ID()); err != nil {
			res.Failed = append(res.Failed, it.ID())
			continue
		}
		res.Moved++
	}
	return res
}

// IDs lists saved product ids in insertion order.
func (w *Collection) IDs() []string {
	out := make([]string, 0, len(w.items))
	for _, it := range w.items {
		out = append(out, it.ID())
	}
	return out
}
