package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/millsearch/internal/db"
)

var listingColumns = []string{
	db.ColumnID, db.ColumnSellerID, db.ColumnCompany, db.ColumnMake, db.ColumnGrade,
	db.ColumnBrand, db.ColumnCategory, db.ColumnGSM, db.ColumnDeckleMM, db.ColumnGrainMM,
	db.ColumnDescription, db.ColumnPrice, db.ColumnShowPrice, db.ColumnQuantity, db.ColumnUnit,
	db.ColumnLocation, db.ColumnStatus, db.ColumnCreatedAt, db.ColumnUpdatedAt,
}

// FetchListings returns rows matching pred, newest first.
func (s *Store) FetchListings(ctx context.Context, pred db.Predicate, limit int) ([]db.ListingRow, error) {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(listingColumns, ", "))
	b.WriteString(" FROM " + db.TableListings)
	if !pred.IsEmpty() {
		b.WriteString(" WHERE " + pred.SQL())
	}
	b.WriteString(" ORDER BY " + db.ColumnCreatedAt + " DESC, " + db.ColumnID + " DESC")
	args := pred.Args()
	if limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(append(make([]any, 0, len(args)+1), args...), limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(b.String()), args...)
	if err != nil {
		return nil, wrap(db.OpSelect, err)
	}
	defer func() { _ = rows.Close() }()

	var out []db.ListingRow
	for rows.Next() {
		row, err := scanListing(rows)
		if err != nil {
			return nil, wrap(db.OpSelect, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(db.OpSelect, err)
	}
	return out, nil
}

// CountDistinct groups rows matching pred by column, skipping NULL and empty values.
func (s *Store) CountDistinct(
	ctx context.Context, column string, pred db.Predicate, limit int,
) ([]db.ValueCount, error) {
	if !db.FacetColumns[column] {
		return nil, fmt.Errorf("%w: %q", db.ErrUnsupportedColumn, column)
	}
	nonEmpty := column + " IS NOT NULL AND TRIM(" + column + ") <> ''"
	if db.IsNumericColumn(column) {
		nonEmpty = column + " IS NOT NULL AND " + column + " > 0"
	}

	query := "SELECT " + column + ", COUNT(*) AS n FROM " + db.TableListings +
		" WHERE " + pred.SQL() + " AND " + nonEmpty +
		" GROUP BY " + column + " ORDER BY n DESC, " + column + " ASC"
	args := pred.Args()
	if limit > 0 {
		query += " LIMIT ?"
		args = append(append(make([]any, 0, len(args)+1), args...), limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, wrap(db.OpCountDistinct, err)
	}
	defer func() { _ = rows.Close() }()

	var out []db.ValueCount
	for rows.Next() {
		var vc db.ValueCount
		if err := rows.Scan(&vc.Value, &vc.Count); err != nil {
			return nil, wrap(db.OpCountDistinct, err)
		}
		out = append(out, vc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(db.OpCountDistinct, err)
	}
	return out, nil
}

// Insert stores rows in one transaction and returns their identifiers.
// Rows with a positive ID keep it; zero timestamps default to now (UTC).
func (s *Store) Insert(ctx context.Context, rows ...db.ListingRow) ([]int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrap(db.OpInsert, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	ids := make([]int64, 0, len(rows))
	for i := range rows {
		r := rows[i]
		if r.CreatedAt.IsZero() {
			r.CreatedAt = now
		}
		if r.UpdatedAt.IsZero() {
			r.UpdatedAt = r.CreatedAt
		}
		if r.Status == "" {
			r.Status = "active"
		}

		cols := listingColumns[1:]
		args := []any{
			r.SellerID, r.Company, r.Make, r.Grade, r.Brand, r.Category, r.GSM,
			r.DeckleMM, r.GrainMM, r.Description, r.Price, r.ShowPrice, r.Quantity,
			r.Unit, r.Location, r.Status, r.CreatedAt.UTC(), r.UpdatedAt.UTC(),
		}
		if r.ID > 0 {
			cols = listingColumns
			args = append([]any{r.ID}, args...)
		}
		markers := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
		query := "INSERT INTO " + db.TableListings + " (" + strings.Join(cols, ", ") +
			") VALUES (" + markers + ") RETURNING " + db.ColumnID

		var id int64
		if err := tx.QueryRowContext(ctx, s.rebind(query), args...).Scan(&id); err != nil {
			return nil, wrap(db.OpInsert, err)
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, wrap(db.OpInsert, err)
	}
	return ids, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(sc scanner) (db.ListingRow, error) {
	var (
		r                                   db.ListingRow
		sellerID, gsm                       sql.NullInt64
		company, mk, grade, brand, category sql.NullString
		description, unit, location, status sql.NullString
		deckle, grain, price, quantity      sql.NullFloat64
		showPrice                           sql.NullBool
		createdAt, updatedAt                sql.NullTime
	)
	err := sc.Scan(
		&r.ID, &sellerID, &company, &mk, &grade,
		&brand, &category, &gsm, &deckle, &grain,
		&description, &price, &showPrice, &quantity, &unit,
		&location, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return db.ListingRow{}, fmt.Errorf("scan listing: %w", err)
	}
	r.SellerID = sellerID.Int64
	r.Company = company.String
	r.Make = mk.String
	r.Grade = grade.String
	r.Brand = brand.String
	r.Category = category.String
	r.GSM = int(gsm.Int64)
	r.DeckleMM = deckle.Float64
	r.GrainMM = grain.Float64
	r.Description = description.String
	if price.Valid {
		p := price.Float64
		r.Price = &p
	}
	r.ShowPrice = showPrice.Bool
	r.Quantity = quantity.Float64
	r.Unit = unit.String
	r.Location = location.String
	r.Status = status.String
	r.CreatedAt = createdAt.Time.UTC()
	r.UpdatedAt = updatedAt.Time.UTC()
	return r, nil
}
