// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mariolabs/geoprofile/spatial"
	"github.com/mariolabs/geoprofile/utils/textutils"
)

// ErrNotFound is returned by Get when no profile exists for an email.
var ErrNotFound = errors.New("profile not found")

// Repository handles persistence of profiles.
type Repository interface {
	// CreateSchema creates the profiles table
	CreateSchema() error

	// Save inserts or updates the profile keyed by its email
	Save(p *Profile) error

	// Get returns the profile for email, or ErrNotFound
	Get(email string) (*Profile, error)

	// List returns profiles whose name contains nameFilter, accents and case ignored
	List(nameFilter string, limit, offset int) ([]*Profile, error)

	// Count returns the total number of profiles
	Count() (int, error)

	// BulkInsert inserts profiles in a single transaction
	BulkInsert(profiles []*Profile) error

	// DB returns the underlying database connection
	DB() *sql.DB
}

type sqlProfileRepository struct {
	db *sql.DB
}

// NewRepository creates a Repository backed by db.
func NewRepository(db *sql.DB) Repository {
	return &sqlProfileRepository{db: db}
}

func (r *sqlProfileRepository) DB() *sql.DB {
	return r.db
}

func (r *sqlProfileRepository) CreateSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS profiles (
			id VARCHAR PRIMARY KEY,
			email VARCHAR NOT NULL UNIQUE,
			first_name VARCHAR NOT NULL,
			last_name VARCHAR NOT NULL,
			name_key VARCHAR NOT NULL,
			birth_date VARCHAR NOT NULL,
			address VARCHAR NOT NULL,
			phone VARCHAR NOT NULL,
			country_code VARCHAR NOT NULL,
			lat DOUBLE,
			lng DOUBLE,
			h3_res7 BIGINT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)

	return err
}

func (r *sqlProfileRepository) Save(p *Profile) error {
	p.Email = normalizeEmail(p.Email)
	if p.Email == "" {
		return errors.New("email can't be empty")
	}

	existing, err := r.Get(p.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if err = p.computeH3(); err != nil {
		return fmt.Errorf("computing h3 cell: %w", err)
	}

	if p.CountryCode == "" {
		p.CountryCode = DefaultCountryCode
	}

	// Timestamps already set, as in an import, are kept.
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}

	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt

		lat, lng := coordinates(p.Point)

		_, err = r.db.Exec(`
			UPDATE profiles
			SET first_name = ?, last_name = ?, name_key = ?, birth_date = ?,
			    address = ?, phone = ?, country_code = ?,
			    lat = ?, lng = ?, h3_res7 = ?, updated_at = ?
			WHERE email = ?
		`,
			p.FirstName,
			p.LastName,
			p.nameKey(),
			p.BirthDate,
			p.Address,
			p.Phone,
			p.CountryCode,
			lat,
			lng,
			nullableCell(p.H3Cell),
			p.UpdatedAt,
			p.Email,
		)

		return err
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}

	return r.BulkInsert([]*Profile{p})
}

func (r *sqlProfileRepository) BulkInsert(profiles []*Profile) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO profiles(
			id, email, first_name, last_name, name_key, birth_date,
			address, phone, country_code, lat, lng, h3_res7,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		if rErr := tx.Rollback(); rErr != nil {
			err = rErr
		}

		return err
	}
	defer stmt.Close()

	now := time.Now()

	for _, p := range profiles {
		p.Email = normalizeEmail(p.Email)
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}

		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}

		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}

		if p.CountryCode == "" {
			p.CountryCode = DefaultCountryCode
		}

		if err = p.computeH3(); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("computing h3 cell for %s: %w", p.Email, err)
		}

		lat, lng := coordinates(p.Point)

		_, err = stmt.Exec(
			p.ID.String(),
			p.Email,
			p.FirstName,
			p.LastName,
			p.nameKey(),
			p.BirthDate,
			p.Address,
			p.Phone,
			p.CountryCode,
			lat,
			lng,
			nullableCell(p.H3Cell),
			p.CreatedAt,
			p.UpdatedAt,
		)
		if err != nil {
			if rErr := tx.Rollback(); rErr != nil {
				err = rErr
			}

			return fmt.Errorf("inserting profile %s: %w", p.Email, err)
		}
	}

	return tx.Commit()
}

var baseSelect = `
	SELECT id, email, first_name, last_name, birth_date, address, phone,
	       country_code, lat, lng, h3_res7, created_at, updated_at
	FROM profiles
`

func (r *sqlProfileRepository) Get(email string) (*Profile, error) {
	profiles, err := r.list(baseSelect+" WHERE email = ?", []any{normalizeEmail(email)})
	if err != nil {
		return nil, err
	}

	if len(profiles) == 0 {
		return nil, ErrNotFound
	}

	return profiles[0], nil
}

func (r *sqlProfileRepository) List(nameFilter string, limit, offset int) ([]*Profile, error) {
	query := baseSelect

	args := []any{}

	if key := textutils.LowerASCIIFolding(nameFilter); key != "" {
		query += " WHERE name_key LIKE ?"

		args = append(args, "%"+key+"%")
	}

	query += " ORDER BY name_key, email"

	if limit > 0 {
		query += " LIMIT ? OFFSET ?"

		args = append(args, limit, offset)
	}

	return r.list(query, args)
}

func (r *sqlProfileRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM profiles",
	).Scan(&count)

	return count, err
}

func (r *sqlProfileRepository) list(query string, args []any) ([]*Profile, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*Profile

	for rows.Next() {
		p := &Profile{}

		var (
			id       string
			lat, lng sql.NullFloat64
			cell     sql.NullInt64
		)

		err := rows.Scan(
			&id, &p.Email, &p.FirstName, &p.LastName, &p.BirthDate,
			&p.Address, &p.Phone, &p.CountryCode,
			&lat, &lng, &cell, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if p.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parsing id of %s: %w", p.Email, err)
		}

		if lat.Valid && lng.Valid {
			p.Point = &spatial.Point{Lat: lat.Float64, Lng: lng.Float64}
		}

		if cell.Valid {
			p.H3Cell = cell.Int64
		}

		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

func coordinates(p *spatial.Point) (lat, lng sql.NullFloat64) {
	if p == nil {
		return lat, lng
	}

	return sql.NullFloat64{Float64: p.Lat, Valid: true}, sql.NullFloat64{Float64: p.Lng, Valid: true}
}

func nullableCell(cell int64) sql.NullInt64 {
	return sql.NullInt64{Int64: cell, Valid: cell != 0}
}
