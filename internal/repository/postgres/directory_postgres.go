package postgres

import (
	"context"
	"database/sql"
	"errors"

	"hermes/internal/model"
	"hermes/internal/repository"
)

// DirectoryPostgres is a PostgreSQL implementation of
// repository.DirectoryRepository.
type DirectoryPostgres struct {
	db *sql.DB
}

func NewDirectoryPostgres(db *sql.DB) *DirectoryPostgres {
	return &DirectoryPostgres{db: db}
}

var _ repository.DirectoryRepository = (*DirectoryPostgres)(nil)

func (r *DirectoryPostgres) FindPerson(ctx context.Context, email string) (*repository.PersonRow, error) {
	const q = `
		SELECT email, given_name, family_name, display_name, photo_url
		FROM people
		WHERE lower(email) = lower($1)
	`
	var p repository.PersonRow
	err := r.db.QueryRowContext(ctx, q, email).Scan(
		&p.Email,
		&p.GivenName,
		&p.FamilyName,
		&p.DisplayName,
		&p.PhotoURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *DirectoryPostgres) SearchGroups(ctx context.Context, query string, limit int) ([]model.Group, error) {
	const q = `
		SELECT email, name
		FROM groups
		WHERE lower(email) LIKE lower($1) || '%' OR lower(name) LIKE lower($1) || '%'
		ORDER BY email
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, q, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]model.Group, 0)
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.Email, &g.Name); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *DirectoryPostgres) UpsertPerson(ctx context.Context, p repository.PersonRow) error {
	const q = `
		INSERT INTO people (email, given_name, family_name, display_name, photo_url)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			given_name = EXCLUDED.given_name,
			family_name = EXCLUDED.family_name,
			display_name = EXCLUDED.display_name,
			photo_url = EXCLUDED.photo_url
	`
	_, err := r.db.ExecContext(ctx, q, p.Email, p.GivenName, p.FamilyName, p.DisplayName, p.PhotoURL)
	return err
}

func (r *DirectoryPostgres) UpsertGroup(ctx context.Context, g model.Group) error {
	const q = `
		INSERT INTO groups (email, name)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
	`
	_, err := r.db.ExecContext(ctx, q, g.Email, g.Name)
	return err
}
