package db

import (
	"context"
	"time"
)

// Store is the listing record-store facade combining all sub-interfaces.
type Store interface {
	Pinger
	ListingFetcher
	DistinctCounter
	Migrator
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ListingFetcher returns listing rows matching a predicate,
// ordered by created_at DESC, id DESC. limit <= 0 means unbounded.
type ListingFetcher interface {
	FetchListings(ctx context.Context, pred Predicate, limit int) ([]ListingRow, error)
}

// DistinctCounter counts distinct non-empty values of a facetable column
// among rows matching a predicate, ordered by count DESC, value ASC.
type DistinctCounter interface {
	CountDistinct(ctx context.Context, column string, pred Predicate, limit int) ([]ValueCount, error)
}

// Migrator creates the listing schema when it does not exist.
type Migrator interface {
	Migrate(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Listing table columns.
const (
	TableListings = "listings"

	ColumnID          = "id"
	ColumnSellerID    = "seller_id"
	ColumnCompany     = "company"
	ColumnMake        = "make"
	ColumnGrade       = "grade"
	ColumnBrand       = "brand"
	ColumnCategory    = "category"
	ColumnGSM         = "gsm"
	ColumnDeckleMM    = "deckle_mm"
	ColumnGrainMM     = "grain_mm"
	ColumnDescription = "description"
	ColumnPrice       = "price"
	ColumnShowPrice   = "show_price"
	ColumnQuantity    = "quantity"
	ColumnUnit        = "unit"
	ColumnLocation    = "location"
	ColumnStatus      = "status"
	ColumnCreatedAt   = "created_at"
	ColumnUpdatedAt   = "updated_at"
)

// FacetColumns are the columns CountDistinct accepts.
var FacetColumns = map[string]bool{
	ColumnMake:     true,
	ColumnGrade:    true,
	ColumnBrand:    true,
	ColumnGSM:      true,
	ColumnLocation: true,
	ColumnUnit:     true,
	ColumnCategory: true,
}

// IsNumericColumn reports whether a facet column holds numbers.
func IsNumericColumn(column string) bool {
	return column == ColumnGSM
}

// ListingRow is a raw listing record. NULL text columns read as "", NULL numbers as 0.
type ListingRow struct {
	ID          int64
	SellerID    int64
	Company     string
	Make        string
	Grade       string
	Brand       string
	Category    string
	GSM         int
	DeckleMM    float64
	GrainMM     float64
	Description string
	Price       *float64
	ShowPrice   bool
	Quantity    float64
	Unit        string
	Location    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValueCount is one distinct column value and the number of rows holding it.
type ValueCount struct {
	Value string
	Count int
}
