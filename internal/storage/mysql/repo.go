package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"stay_reviews/internal/domain"
)

func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveDraft(ctx context.Context, d domain.Draft) error {
	meta, err := json.Marshal(d.Review.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	req, err := json.Marshal(d.Request)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	m := d.Review.Metadata
	_, err = r.db.ExecContext(ctx, insertDraftSQL,
		d.ID,
		valInt64(d.PropertyID),
		d.HotelName,
		string(m.Voice),
		m.Rating,
		string(m.TripType),
		m.Fallback,
		d.Review.Text,
		string(meta),
		string(req),
		d.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) GetDraft(ctx context.Context, id string) (domain.Draft, error) {
	d, err := scanDraft(r.db.QueryRowContext(ctx, getDraftSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Draft{}, domain.ErrNotFound
	}
	return d, err
}

func (r *Repo) ListDrafts(ctx context.Context, propertyID int64, limit int) (domain.DraftsPage, error) {
	rows, err := r.db.QueryContext(ctx, listDraftsSQL, propertyID, limit)
	if err != nil {
		return domain.DraftsPage{}, err
	}
	defer rows.Close()

	out := domain.DraftsPage{Items: []domain.Draft{}}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return domain.DraftsPage{}, err
		}
		out.Items = append(out.Items, d)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDraft(s scanner) (domain.Draft, error) {
	var (
		d          domain.Draft
		propertyID sql.NullInt64
		meta, req  []byte
	)
	if err := s.Scan(&d.ID, &propertyID, &d.HotelName, &d.Review.Text, &meta, &req, &d.CreatedAt); err != nil {
		return domain.Draft{}, err
	}
	if propertyID.Valid {
		v := propertyID.Int64
		d.PropertyID = &v
	}
	if err := json.Unmarshal(meta, &d.Review.Metadata); err != nil {
		return domain.Draft{}, fmt.Errorf("decode metadata %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(req, &d.Request); err != nil {
		return domain.Draft{}, fmt.Errorf("decode request %s: %w", d.ID, err)
	}
	d.CreatedAt = d.CreatedAt.UTC()
	return d, nil
}
