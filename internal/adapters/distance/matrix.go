package distance

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Matrix is an in-memory distance table over location indices with an
// address lookup. Rows may be lower-triangular: a missing entry is reported
// as absent and the caller falls back to the mirrored cell.
type Matrix struct {
	addresses []string
	index     map[string]int
	rows      [][]*float64
}

func NewMatrix(addresses []string, rows [][]*float64) (*Matrix, error) {
	n := len(addresses)
	if n == 0 {
		return nil, errors.New("new matrix: at least one location is required")
	}
	if len(rows) != n {
		return nil, fmt.Errorf("new matrix: %d rows for %d locations", len(rows), n)
	}

	index := make(map[string]int, n)
	for i, a := range addresses {
		key := normalize(a)
		if key == "" {
			return nil, fmt.Errorf("new matrix: location %d has an empty address", i)
		}
		if j, ok := index[key]; ok {
			return nil, fmt.Errorf("new matrix: address %q listed at %d and %d", a, j, i)
		}
		index[key] = i
	}

	for i, row := range rows {
		if len(row) > n {
			return nil, fmt.Errorf("new matrix: row %d has %d cells, want at most %d", i, len(row), n)
		}
		for j, cell := range row {
			if cell != nil && *cell < 0 {
				return nil, fmt.Errorf("new matrix: negative distance at [%d][%d]", i, j)
			}
		}
	}

	return &Matrix{addresses: addresses, index: index, rows: rows}, nil
}

// normalize ensures consistent lookup keys by collapsing whitespace and case.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (m *Matrix) Distance(from, to int) (float64, bool) {
	if from < 0 || from >= len(m.rows) || to < 0 || to >= len(m.rows[from]) {
		return 0, false
	}
	cell := m.rows[from][to]
	if cell == nil {
		return 0, false
	}
	return *cell, true
}

func (m *Matrix) LocationCount() int { return len(m.addresses) }

func (m *Matrix) LocationIndex(address string) (int, bool) {
	i, ok := m.index[normalize(address)]
	return i, ok
}

// Address returns the address stored for a location index.
func (m *Matrix) Address(i int) string {
	if i < 0 || i >= len(m.addresses) {
		return ""
	}
	return m.addresses[i]
}

// MatrixSeed is the JSON shape of a distance matrix file.
type MatrixSeed struct {
	Locations []string     `json:"locations"`
	Distances [][]*float64 `json:"distances"`
}

// Load a distance matrix from a JSON file.
func LoadMatrixJSON(path string) (*Matrix, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load matrix: read %q: %w", path, err)
	}

	var seed MatrixSeed
	if err := json.Unmarshal(bytes, &seed); err != nil {
		return nil, fmt.Errorf("load matrix: parse json: %w", err)
	}

	m, err := NewMatrix(seed.Locations, seed.Distances)
	if err != nil {
		return nil, fmt.Errorf("load matrix %q: %w", path, err)
	}
	return m, nil
}
