package message

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/mock_store.go -package=mocks messageapi/internal/message Store

// DefaultPageSize is the number of items per collection page.
const DefaultPageSize = 30

// Filter narrows a listing. Set fields are combined with AND.
type Filter struct {
	// ID matches exactly when set.
	ID *uuid.UUID
	// Title matches any message whose title contains it, case-sensitively.
	Title string
}

// Matches reports whether m satisfies the filter.
func (f Filter) Matches(m *Message) bool {
	if f.ID != nil && *f.ID != m.ID {
		return false
	}
	if f.Title != "" && !strings.Contains(m.Title, f.Title) {
		return false
	}
	return true
}

// Page selects a window of a listing. Number is 1-based; a zero Size
// returns every matching message.
type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows skipped before the page starts. It saturates
// at math.MaxInt instead of overflowing.
func (p Page) Offset() int {
	if p.Size <= 0 || p.Number <= 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}

// Unbounded reports whether the page covers the whole result set.
func (p Page) Unbounded() bool {
	return p.Size <= 0
}

// LastPage returns the last page number for total items, never below 1.
func (p Page) LastPage(total int64) int {
	if p.Size <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// Store persists messages. Listings come back in insertion order.
type Store interface {
	Insert(ctx context.Context, m *Message) error
	Update(ctx context.Context, m *Message) error
	List(ctx context.Context, f Filter, p Page) ([]*Message, int64, error)
	Ping(ctx context.Context) error
}

// Purger removes every stored message.
type Purger interface {
	Purge(ctx context.Context) error
}
