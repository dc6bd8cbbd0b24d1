package listing

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status gates search visibility.
type Status string

const (
	// StatusActive listings are visible to search.
	StatusActive Status = "active"
	// StatusInactive listings are hidden from search.
	StatusInactive Status = "inactive"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Attributes are the authored fields of a listing. The description is not
// among them: it is always synthesized from make, grade, brand and GSM.
type Attributes struct {
	ID        int64
	SellerID  int64
	Company   string
	Make      string
	Grade     string
	Brand     string
	Category  string
	GSM       int
	DeckleMM  float64
	GrainMM   float64
	Price     *float64
	ShowPrice bool
	Quantity  float64
	Unit      string
	Location  string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Listing is a catalog offer (immutable value object).
type Listing struct {
	id          int64
	sellerID    int64
	company     string
	make        string
	grade       string
	brand       string
	category    string
	gsm         int
	deckleMM    float64
	grainMM     float64
	description string
	price       *float64
	showPrice   bool
	quantity    float64
	unit        string
	location    string
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates attributes and creates a Listing with a synthesized description.
func New(a Attributes) (Listing, error) {
	if strings.TrimSpace(a.Make) == "" {
		return Listing{}, fmt.Errorf("make is required")
	}
	if a.GSM < 0 {
		return Listing{}, fmt.Errorf("gsm must not be negative")
	}
	if a.DeckleMM < 0 || a.GrainMM < 0 {
		return Listing{}, fmt.Errorf("dimensions must not be negative")
	}
	if a.Status == "" {
		a.Status = StatusActive
	}
	if !a.Status.IsValid() {
		return Listing{}, fmt.Errorf("invalid status %q", a.Status)
	}
	desc := ComposeDescription(a.Make, a.Grade, a.Brand, a.GSM)
	return Reconstruct(a, desc), nil
}

// Reconstruct creates a Listing without validation (storage hydration).
func Reconstruct(a Attributes, description string) Listing {
	return Listing{
		id:          a.ID,
		sellerID:    a.SellerID,
		company:     a.Company,
		make:        a.Make,
		grade:       a.Grade,
		brand:       a.Brand,
		category:    a.Category,
		gsm:         a.GSM,
		deckleMM:    a.DeckleMM,
		grainMM:     a.GrainMM,
		description: description,
		price:       a.Price,
		showPrice:   a.ShowPrice,
		quantity:    a.Quantity,
		unit:        a.Unit,
		location:    a.Location,
		status:      a.Status,
		createdAt:   a.CreatedAt,
		updatedAt:   a.UpdatedAt,
	}
}

// ComposeDescription builds the composite description, e.g. "ITC Supreme Cyber 120gsm".
// Empty parts are skipped; a zero GSM is omitted.
func ComposeDescription(mk, grade, brand string, gsm int) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{mk, grade, brand} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if gsm > 0 {
		parts = append(parts, strconv.Itoa(gsm)+"gsm")
	}
	return strings.Join(parts, " ")
}

// ID returns the listing identifier.
func (l *Listing) ID() int64 { return l.id }

// SellerID returns the owning seller.
func (l *Listing) SellerID() int64 { return l.sellerID }

// Company returns the seller's company name.
func (l *Listing) Company() string { return l.company }

// Make returns the mill or manufacturer.
func (l *Listing) Make() string { return l.make }

// Grade returns the paper grade.
func (l *Listing) Grade() string { return l.grade }

// Brand returns the brand name.
func (l *Listing) Brand() string { return l.brand }

// Category returns the listing category.
func (l *Listing) Category() string { return l.category }

// GSM returns the grammage (0 when unknown).
func (l *Listing) GSM() int { return l.gsm }

// DeckleMM returns the deckle in millimeters.
func (l *Listing) DeckleMM() float64 { return l.deckleMM }

// GrainMM returns the grain in millimeters.
func (l *Listing) GrainMM() float64 { return l.grainMM }

// Area returns deckle x grain in square millimeters.
func (l *Listing) Area() float64 { return l.deckleMM * l.grainMM }

// Description returns the composite description.
func (l *Listing) Description() string { return l.description }

// Price returns the stored price regardless of visibility.
func (l *Listing) Price() *float64 { return l.price }

// ShowPrice reports whether the price may be shown to buyers.
func (l *Listing) ShowPrice() bool { return l.showPrice }

// VisiblePrice returns the price, or nil when the seller hides it.
func (l *Listing) VisiblePrice() *float64 {
	if !l.showPrice {
		return nil
	}
	return l.price
}

// Quantity returns the offered quantity.
func (l *Listing) Quantity() float64 { return l.quantity }

// Unit returns the quantity unit of measure.
func (l *Listing) Unit() string { return l.unit }

// Location returns the stock location.
func (l *Listing) Location() string { return l.location }

// Status returns the visibility status.
func (l *Listing) Status() Status { return l.status }

// IsActive reports whether the listing is visible to search.
func (l *Listing) IsActive() bool { return l.status == StatusActive }

// CreatedAt returns the creation timestamp.
func (l *Listing) CreatedAt() time.Time { return l.createdAt }

// UpdatedAt returns the last update timestamp.
func (l *Listing) UpdatedAt() time.Time { return l.updatedAt }

// Attributes returns the authored fields (inverse of Reconstruct, minus the description).
func (l *Listing) Attributes() Attributes {
	return Attributes{
		ID: l.id, SellerID: l.sellerID, Company: l.company,
		Make: l.make, Grade: l.grade, Brand: l.brand, Category: l.category,
		GSM: l.gsm, DeckleMM: l.deckleMM, GrainMM: l.grainMM,
		Price: l.price, ShowPrice: l.showPrice,
		Quantity: l.quantity, Unit: l.unit, Location: l.location,
		Status: l.status, CreatedAt: l.createdAt, UpdatedAt: l.updatedAt,
	}
}
