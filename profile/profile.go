// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile stores user profiles and ties the validation core to an
// authenticated identity.
package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mariolabs/geoprofile/spatial"
	"github.com/mariolabs/geoprofile/utils/textutils"
	"github.com/mariolabs/geoprofile/validation"
)

// DefaultCountryCode is preselected in the phone input of a new profile.
const DefaultCountryCode = "+216"

// H3Resolution is the resolution of the cell stored next to each profile.
const H3Resolution = 7

// Identity is the authenticated user, as asserted by the upstream proxy.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Profile is a validated, stored form submission.
type Profile struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	BirthDate   string         `json:"birthDate"`
	Address     string         `json:"address"`
	Phone       string         `json:"phone"`
	CountryCode string         `json:"countryCode"`
	Point       *spatial.Point `json:"point,omitempty"`
	H3Cell      int64          `json:"-"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Form is what the profile page edits.
type Form struct {
	validation.Input

	Email       string `json:"email"`
	CountryCode string `json:"countryCode"`
}

// Form returns the editable view of p.
func (p *Profile) Form() Form {
	return Form{
		Input: validation.Input{
			FirstName: p.FirstName,
			LastName:  p.LastName,
			BirthDate: p.BirthDate,
			Phone:     p.Phone,
			Address:   p.Address,
		},
		Email:       p.Email,
		CountryCode: p.CountryCode,
	}
}

// nameKey is the accent-folded, lowercase "last first" used for searching.
func (p *Profile) nameKey() string {
	return textutils.LowerASCIIFolding(p.LastName + " " + p.FirstName)
}

func (p *Profile) computeH3() error {
	if p.Point == nil {
		p.H3Cell = 0

		return nil
	}

	cell, err := p.Point.Cell(H3Resolution)
	if err != nil {
		return err
	}

	p.H3Cell = cell

	return nil
}

// Prefill returns the form shown to identity. A stored profile wins;
// otherwise the names come from splitting the identity name on its first
// space.
func Prefill(identity Identity, stored *Profile) Form {
	if stored != nil {
		return stored.Form()
	}

	first, last, _ := strings.Cut(strings.TrimSpace(identity.Name), " ")

	return Form{
		Input: validation.Input{
			FirstName: first,
			LastName:  strings.TrimSpace(last),
		},
		Email:       identity.Email,
		CountryCode: DefaultCountryCode,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
