// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mariolabs/geoprofile/validation"
)

// ErrNoIdentity is returned when an operation requires a signed-in user.
var ErrNoIdentity = errors.New("no authenticated identity")

// Service loads and submits the profile form of the signed-in user.
type Service struct {
	repo      Repository
	validator *validation.Validator
}

// NewService creates a Service.
func NewService(repo Repository, validator *validation.Validator) *Service {
	return &Service{repo: repo, validator: validator}
}

// Load returns the form to show to identity, prefilled from its stored
// profile when there is one.
func (s *Service) Load(identity Identity) (Form, error) {
	if normalizeEmail(identity.Email) == "" {
		return Form{}, ErrNoIdentity
	}

	stored, err := s.repo.Get(identity.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Form{}, fmt.Errorf("loading profile: %w", err)
	}

	return Prefill(identity, stored), nil
}

// Submit validates form and, when it is valid, stores it as the profile of
// identity together with the resolved address. An invalid form stores
// nothing and returns the report with a nil profile.
func (s *Service) Submit(ctx context.Context, identity Identity, form Form) (validation.Report, *Profile, error) {
	if normalizeEmail(identity.Email) == "" {
		return nil, nil, ErrNoIdentity
	}

	outcome := s.validator.Check(ctx, form.Input)
	if !outcome.Report.Valid() {
		return outcome.Report, nil, nil
	}

	p := &Profile{
		Email:       identity.Email,
		FirstName:   strings.TrimSpace(form.FirstName),
		LastName:    strings.TrimSpace(form.LastName),
		BirthDate:   strings.TrimSpace(form.BirthDate),
		Address:     strings.TrimSpace(form.Address),
		Phone:       strings.TrimSpace(form.Phone),
		CountryCode: strings.TrimSpace(form.CountryCode),
		Point:       outcome.Location,
	}

	if err := s.repo.Save(p); err != nil {
		return outcome.Report, nil, fmt.Errorf("saving profile: %w", err)
	}

	return outcome.Report, p, nil
}
