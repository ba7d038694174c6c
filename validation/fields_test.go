// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	assert.True(t, ValidateName("Jane"))
	assert.True(t, ValidateName(" Zoé "))
	assert.False(t, ValidateName(""))
	assert.False(t, ValidateName(" \t\n"))
}

func TestParseBirthDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2001-05-17", want: time.Date(2001, time.May, 17, 0, 0, 0, 0, time.UTC)},
		{in: " 2001-05-17 ", want: time.Date(2001, time.May, 17, 0, 0, 0, 0, time.UTC)},
		{in: "2001-05-17T23:30:00+02:00", want: time.Date(2001, time.May, 17, 0, 0, 0, 0, time.UTC)},
		{in: "", wantErr: true},
		{in: "17/05/2001", wantErr: true},
		{in: "2001-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBirthDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestValidateBirthDate(t *testing.T) {
	now := time.Date(2025, time.June, 15, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth time.Time
		want  bool
	}{
		{"exactly ten years", time.Date(2015, time.June, 15, 0, 0, 0, 0, time.UTC), true},
		{"one day short of ten years", time.Date(2015, time.June, 16, 0, 0, 0, 0, time.UTC), false},
		{"adult", time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC), true},
		{"today", time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), false},
		{"tomorrow", time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), false},
		{"time of day ignored", time.Date(2015, time.June, 15, 23, 59, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateBirthDate(tt.birth, now))
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		policy PhonePolicy
		phone  string
		want   ErrorKind
	}{
		{PhoneDigits, "+33 6 12 34 56 78", KindNone},
		{PhoneDigits, "21612345678", KindNone},
		{PhoneDigits, "(01) 23.45.67-89", KindInvalidFormat},
		{PhoneDigits, "1 23.45.67-89", KindNone},
		{PhoneDigits, "12345", KindInvalidFormat},
		{PhoneDigits, "+1234567890123456", KindInvalidFormat},
		{PhoneDigits, "phone", KindInvalidFormat},
		{PhoneDigits, "", KindMissingField},
		{PhoneDigits, "   ", KindMissingField},
		{PhonePresence, "phone", KindNone},
		{PhonePresence, "", KindMissingField},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy)+"/"+tt.phone, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePhone(tt.policy, tt.phone))
		})
	}
}

func TestParsePhonePolicy(t *testing.T) {
	p, err := ParsePhonePolicy("Presence")
	require.NoError(t, err)
	assert.Equal(t, PhonePresence, p)

	p, err = ParsePhonePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PhoneDigits, p)

	_, err = ParsePhonePolicy("e164")
	assert.Error(t, err)
}

func TestCheckPresence(t *testing.T) {
	report := Report{}
	checkPresence(report, Input{
		FirstName: "Jane",
		LastName:  " \t",
		Phone:     "+33612345678",
		Address:   "\n",
	})

	assert.Equal(t, []Field{FieldAddress, FieldBirthDate, FieldLastName}, report.FailedFields())

	for _, f := range report.FailedFields() {
		assert.Equal(t, KindMissingField, report.Kind(f), f)
		assert.Equal(t, missingMessages[f], report[f].Message, f)
	}

	report = Report{}
	checkPresence(report, Input{FirstName: "a", LastName: "b", BirthDate: "c", Phone: "d", Address: "e"})
	assert.True(t, report.Valid())
}

func TestKindForTag(t *testing.T) {
	assert.Equal(t, KindMissingField, kindForTag(tagNotBlank))
	assert.Equal(t, KindInvalidFormat, kindForTag(tagPhoneDigits))
	assert.Equal(t, KindNone, kindOf(nil))
}
