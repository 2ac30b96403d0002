package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/joeblew999/heritage-map/internal/service"
)

const schema = `CREATE OR REPLACE TABLE temples (
	region    VARCHAR NOT NULL,
	idx       INTEGER NOT NULL,
	name      VARCHAR NOT NULL,
	location  VARCHAR,
	deity     VARCHAR,
	info      VARCHAR,
	image_url VARCHAR,
	nx        DOUBLE,
	ny        DOUBLE
)`

// Hit is one search result, addressable as (Region, Index) in the catalog.
type Hit struct {
	Region string         `json:"region" doc:"Region id"`
	Index  int            `json:"index" doc:"Position in the region's temple list"`
	Temple service.Temple `json:"temple"`
}

// IndexTemples replaces the temples table with the given catalog.
func IndexTemples(ctx context.Context, conn *sql.DB, temples map[string][]service.Temple) (int, error) {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return 0, fmt.Errorf("creating temples table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO temples VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	ids := make([]string, 0, len(temples))
	for id := range temples {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	n := 0
	for _, region := range ids {
		for i, t := range temples[region] {
			if _, err := stmt.ExecContext(ctx, region, i, t.Name, t.Location, t.Deity, t.Info, t.ImageURL,
				nullFloat(t.NormalizedX), nullFloat(t.NormalizedY)); err != nil {
				return 0, fmt.Errorf("indexing %s/%d: %w", region, i, err)
			}
			n++
		}
	}
	return n, tx.Commit()
}

// SearchTemples matches q against name, location and deity, case-insensitively.
func SearchTemples(ctx context.Context, conn *sql.DB, q string, limit int) ([]Hit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Hit{}, nil
	}
	if limit <= 0 {
		limit = 20
	}

	pattern := "%" + q + "%"
	query := fmt.Sprintf(`
		SELECT region, idx, name, location, deity, info, image_url, nx, ny
		FROM temples
		WHERE name ILIKE ? OR location ILIKE ? OR deity ILIKE ?
		ORDER BY region, idx
		LIMIT %d`, limit)
	rows, err := conn.QueryContext(ctx, query, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("searching temples: %w", err)
	}
	defer rows.Close()

	hits := []Hit{}
	for rows.Next() {
		var (
			h                             Hit
			location, deity, info, imgURL sql.NullString
			nx, ny                        sql.NullFloat64
		)
		if err := rows.Scan(&h.Region, &h.Index, &h.Temple.Name, &location, &deity, &info, &imgURL, &nx, &ny); err != nil {
			return nil, err
		}
		h.Temple.Location = location.String
		h.Temple.Deity = deity.String
		h.Temple.Info = info.String
		h.Temple.ImageURL = imgURL.String
		if nx.Valid {
			h.Temple.NormalizedX = &nx.Float64
		}
		if ny.Valid {
			h.Temple.NormalizedY = &ny.Float64
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
