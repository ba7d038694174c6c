// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"sort"
)

// Field names a validated profile field. The values are the keys of the
// report handed back to the form.
type Field string

// Validated fields.
const (
	FieldFirstName Field = "firstName"
	FieldLastName  Field = "lastName"
	FieldBirthDate Field = "birthDate"
	FieldPhone     Field = "phone"
	FieldAddress   Field = "address"
)

// Fields lists every validated field in form order.
var Fields = []Field{FieldFirstName, FieldLastName, FieldBirthDate, FieldPhone, FieldAddress}

// ErrorKind classifies why a field failed.
type ErrorKind string

// Error kinds.
const (
	KindNone                ErrorKind = ""
	KindMissingField        ErrorKind = "missing_field"
	KindOutOfRange          ErrorKind = "out_of_range"
	KindInvalidFormat       ErrorKind = "invalid_format"
	KindUnresolvedAddress   ErrorKind = "unresolved_address"
	KindTooFarFromReference ErrorKind = "too_far_from_reference"
)

// FieldError is the failure recorded for one field.
type FieldError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Report maps every failed field to its error. A field is present iff it
// failed; an empty report means the input is valid.
type Report map[Field]FieldError

func (r Report) add(f Field, kind ErrorKind, message string) {
	r[f] = FieldError{Kind: kind, Message: message}
}

// Valid reports whether no field failed.
func (r Report) Valid() bool {
	return len(r) == 0
}

// Has reports whether f failed.
func (r Report) Has(f Field) bool {
	_, ok := r[f]

	return ok
}

// Kind returns the error kind recorded for f, or KindNone.
func (r Report) Kind(f Field) ErrorKind {
	return r[f].Kind
}

// Messages returns the field → message mapping shown next to the form inputs.
func (r Report) Messages() map[string]string {
	m := make(map[string]string, len(r))
	for f, e := range r {
		m[string(f)] = e.Message
	}

	return m
}

// Kinds returns the field → kind mapping.
func (r Report) Kinds() map[string]ErrorKind {
	m := make(map[string]ErrorKind, len(r))
	for f, e := range r {
		m[string(f)] = e.Kind
	}

	return m
}

// FailedFields returns the failed fields sorted by name.
func (r Report) FailedFields() []Field {
	fields := make([]Field, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })

	return fields
}
