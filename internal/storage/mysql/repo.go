package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"partprice/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) InsertPart(ctx context.Context, p domain.Part) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertPartSQL, p.Manufacturer, p.PartNumber)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) InsertComparison(ctx context.Context, partID *int64, c domain.ComparisonResult) (int64, error) {
	prices := c.PricesFound
	if prices == nil {
		prices = []domain.PriceObservation{}
	}
	pj, err := json.Marshal(prices)
	if err != nil {
		return 0, fmt.Errorf("marshal prices_found: %w", err)
	}
	res, err := r.db.ExecContext(ctx, insertComparisonSQL,
		valInt64(partID),
		valStr(c.Manufacturer),
		valStr(c.PartNumber),
		valF64(c.OurPrice),
		valF64(c.Difference),
		string(pj),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *Repo) LatestComparison(ctx context.Context, manufacturer, partNumber string) (domain.StoredComparison, error) {
	row := r.db.QueryRowContext(ctx, latestComparisonSQL, manufacturer, partNumber)

	var sc domain.StoredComparison
	var partID sql.NullInt64
	var mfr, pn sql.NullString
	var ourPrice, diff sql.NullFloat64
	var pricesJSON []byte

	if err := row.Scan(
		&sc.ID,
		&partID,
		&mfr, &pn,
		&ourPrice, &diff,
		&pricesJSON,
		&sc.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.StoredComparison{}, domain.ErrNotFound
		}
		return domain.StoredComparison{}, err
	}

	if partID.Valid {
		id := partID.Int64
		sc.PartID = &id
	}
	if mfr.Valid {
		s := mfr.String
		sc.Result.Manufacturer = &s
	}
	if pn.Valid {
		s := pn.String
		sc.Result.PartNumber = &s
	}
	if ourPrice.Valid {
		f := ourPrice.Float64
		sc.Result.OurPrice = &f
	}
	if diff.Valid {
		f := diff.Float64
		sc.Result.Difference = &f
	}
	sc.Result.PricesFound = []domain.PriceObservation{}
	if len(pricesJSON) > 0 {
		if err := json.Unmarshal(pricesJSON, &sc.Result.PricesFound); err != nil {
			return domain.StoredComparison{}, fmt.Errorf("decode prices_found: %w", err)
		}
	}
	return sc, nil
}
