// Copyright 2025 The GeoProfile Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SeedData is the JSON export format.
type SeedData struct {
	Version     string     `json:"version"`
	LastUpdated time.Time  `json:"last_updated"`
	Profiles    []*Profile `json:"profiles"`
}

// ExportToJSON writes every profile to filepath.
func ExportToJSON(repo Repository, filepath string) (int, error) {
	profiles, err := repo.List("", 0, 0)
	if err != nil {
		return 0, fmt.Errorf("listing profiles: %w", err)
	}

	seed := &SeedData{
		Version:     "1.0",
		LastUpdated: time.Now(),
		Profiles:    profiles,
	}

	data, err := json.MarshalIndent(seed, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshaling JSON: %w", err)
	}

	if err = os.WriteFile(filepath, data, 0o600); err != nil {
		return 0, fmt.Errorf("writing file: %w", err)
	}

	return len(profiles), nil
}

// ImportFromJSON saves every profile found in filepath. Profiles already
// stored under the same email are updated.
func ImportFromJSON(repo Repository, filepath string) (int, error) {
	data, err := os.ReadFile(filepath) // #nosec G304 - filepath is provided by admin
	if err != nil {
		return 0, fmt.Errorf("reading file: %w", err)
	}

	var seed SeedData
	if err := json.Unmarshal(data, &seed); err != nil {
		return 0, fmt.Errorf("parsing JSON: %w", err)
	}

	imported := 0

	for _, p := range seed.Profiles {
		if err := repo.Save(p); err != nil {
			return imported, fmt.Errorf("saving profile for %s: %w", p.Email, err)
		}

		imported++
	}

	return imported, nil
}

// SeedIfEmpty imports filepath when no profile is stored yet. A missing
// file is not an error.
func SeedIfEmpty(repo Repository, filepath string) (bool, int, error) {
	count, err := repo.Count()
	if err != nil {
		return false, 0, fmt.Errorf("counting profiles: %w", err)
	}

	if count > 0 {
		return false, count, nil
	}

	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return false, 0, nil
	}

	imported, err := ImportFromJSON(repo, filepath)
	if err != nil {
		return false, imported, err
	}

	return true, imported, nil
}
