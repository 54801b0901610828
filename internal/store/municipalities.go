package store

import (
	"context"
	"strings"

	"bolo-service/internal/database"
)

// MunicipalityRepository backs the place-name autocomplete. Names are
// deduplicated case-insensitively on insert.
type MunicipalityRepository struct {
	db database.DBTX
}

func NewMunicipalityRepository(db database.DBTX) *MunicipalityRepository {
	return &MunicipalityRepository{db: db}
}

// Ensure inserts the name unless a case-insensitive match already exists and
// returns the canonical stored spelling.
func (r *MunicipalityRepository) Ensure(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	q := `INSERT INTO municipalities (name) VALUES ($1)
	      ON CONFLICT (lower(name)) DO UPDATE SET name = municipalities.name
	      RETURNING name`
	var canonical string
	if err := r.db.QueryRow(ctx, q, name).Scan(&canonical); err != nil {
		return "", err
	}
	return canonical, nil
}

// Search returns up to limit names matching the prefix, case-insensitively.
func (r *MunicipalityRepository) Search(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	q := `SELECT name FROM municipalities WHERE lower(name) LIKE lower($1) || '%'
	      ORDER BY name LIMIT $2`
	rows, err := r.db.Query(ctx, q, prefix, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
