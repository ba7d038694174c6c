// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

// Package validation checks the fields of a profile form and reports, per
// field, why a value was rejected.
package validation

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mariolabs/geoprofile/metrics"
	"github.com/mariolabs/geoprofile/spatial"
)

// Messages shown next to the form inputs.
const (
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgPhoneRequired     = "Phone number is required"
	MsgPhoneInvalid      = "Phone number is invalid"
	MsgAddressRequired   = "Address is required"
	MsgBirthDateInvalid  = "Invalid date of birth. You must be at least 10 years old, and the date cannot be in the future."
	MsgAddressOutOfArea  = "The address must be within 50 km of Paris."
)

// Input is the raw form submission. Every field is required; a value made
// only of whitespace counts as missing.
type Input struct {
	FirstName string `json:"firstName" validate:"notblank"`
	LastName  string `json:"lastName" validate:"notblank"`
	BirthDate string `json:"birthDate" validate:"notblank"`
	Phone     string `json:"phone" validate:"notblank"`
	Address   string `json:"address" validate:"notblank"`
}

// missingMessages is shown for a field left empty.
var missingMessages = map[Field]string{
	FieldFirstName: MsgFirstNameRequired,
	FieldLastName:  MsgLastNameRequired,
	FieldBirthDate: MsgBirthDateInvalid,
	FieldPhone:     MsgPhoneRequired,
	FieldAddress:   MsgAddressRequired,
}

// Outcome is the result of Check.
type Outcome struct {
	Report Report
	// Location is the resolved address, nil when it could not be resolved.
	Location *spatial.Point
}

// Validator runs every field check over an Input. It holds no mutable
// state and may be shared between goroutines.
type Validator struct {
	address     *AddressValidator
	now         func() time.Time
	phonePolicy PhonePolicy
	metrics     *metrics.Metrics
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock sets the clock used for the minimum age check.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

// WithPhonePolicy sets how phone numbers are checked. Defaults to PhoneDigits.
func WithPhonePolicy(p PhonePolicy) Option {
	return func(v *Validator) {
		v.phonePolicy = p
	}
}

// WithMetrics records validation outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Validator) {
		v.metrics = m
	}
}

// New creates a Validator that resolves addresses through resolver.
func New(resolver AddressResolver, opts ...Option) *Validator {
	v := &Validator{
		address:     NewAddressValidator(resolver),
		now:         time.Now,
		phonePolicy: PhoneDigits,
	}
	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate checks in and returns the failed fields.
func (v *Validator) Validate(ctx context.Context, in Input) Report {
	return v.Check(ctx, in).Report
}

// ValidateAsync runs Validate in its own goroutine. The returned channel
// delivers exactly one report and is then closed.
func (v *Validator) ValidateAsync(ctx context.Context, in Input) <-chan Report {
	ch := make(chan Report, 1)

	go func() {
		defer close(ch)
		ch <- v.Validate(ctx, in)
	}()

	return ch
}

// Check is like Validate but also returns the resolved address so callers
// can store it. An empty address never reaches the resolver.
func (v *Validator) Check(ctx context.Context, in Input) Outcome {
	report := Report{}

	checkPresence(report, in)

	if !report.Has(FieldBirthDate) {
		v.checkBirthDate(report, in.BirthDate)
	}

	if !report.Has(FieldPhone) {
		if kind := ValidatePhone(v.phonePolicy, in.Phone); kind != KindNone {
			report.add(FieldPhone, kind, MsgPhoneInvalid)
		}
	}

	var location *spatial.Point

	if !report.Has(FieldAddress) {
		kind, point := v.address.Check(ctx, in.Address)
		if kind != KindNone {
			report.add(FieldAddress, kind, MsgAddressOutOfArea)
		}

		location = point
	}

	v.record(report)

	return Outcome{Report: report, Location: location}
}

// checkPresence records every field of in that is empty.
func checkPresence(report Report, in Input) {
	var verrs validator.ValidationErrors
	if !errors.As(fields.Struct(in), &verrs) {
		return
	}

	for _, fe := range verrs {
		f := Field(fe.Field())
		report.add(f, kindForTag(fe.Tag()), missingMessages[f])
	}
}

func (v *Validator) checkBirthDate(report Report, value string) {
	birth, err := ParseBirthDate(value)
	if err != nil {
		report.add(FieldBirthDate, KindInvalidFormat, MsgBirthDateInvalid)

		return
	}

	if !ValidateBirthDate(birth, v.now()) {
		report.add(FieldBirthDate, KindOutOfRange, MsgBirthDateInvalid)
	}
}

func (v *Validator) record(report Report) {
	if v.metrics == nil {
		return
	}

	for f, e := range report {
		v.metrics.IncrementFailure(string(f), string(e.Kind))
	}

	v.metrics.IncrementValidation(report.Valid())
}
