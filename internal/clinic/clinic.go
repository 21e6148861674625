package clinic

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

var ErrInvalidLocation = errors.New("invalid location")

// codePattern constrains clinic codes to the short alphabetic prefixes used
// to namespace patient IDs.
var codePattern = regexp.MustCompile(`^[A-Z]{2,4}$`)

// defaultCodes is the set of contributing clinics. It can be replaced at
// startup via a YAML file (see Load) but never mutated afterwards.
var defaultCodes = map[string]string{
	"Arthi Hospital, Kumbakonam":            "KUM",
	"Senthil Nursing Home, Puthukottai":     "PUTS",
	"Hridya Cardiac Care, Puthukottai":      "PUTH",
	"Thulir Hospital, Tiruvarur":            "TIR",
	"Perambalur Cardiac Centre, Perambalur": "PER",
	"Star Kids Hospital, Dindugul":          "DIN",
	"Pugazhini Hospital, Trichy":            "TRI",
}

// Table maps clinic location names to their ID prefix codes. Construct one
// at process start and inject it; it is immutable and safe for concurrent use.
type Table struct {
	codes map[string]string
}

// Default returns a Table with the built-in clinic set.
func Default() *Table {
	codes := make(map[string]string, len(defaultCodes))
	for loc, code := range defaultCodes {
		codes[loc] = code
	}
	return &Table{codes: codes}
}

// Load reads a location→code mapping from a YAML file. An empty path returns
// the default table.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clinic config: %w", err)
	}

	var codes map[string]string
	if err := yaml.Unmarshal(raw, &codes); err != nil {
		return nil, fmt.Errorf("failed to parse clinic config: %w", err)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("clinic config %s defines no locations", path)
	}

	for loc, code := range codes {
		if !codePattern.MatchString(code) {
			return nil, fmt.Errorf("clinic config: location %q has invalid code %q (want 2-4 uppercase letters)", loc, code)
		}
	}

	return &Table{codes: codes}, nil
}

// CodeFor resolves a clinic location name to its ID prefix code.
func (t *Table) CodeFor(location string) (string, error) {
	code, ok := t.codes[location]
	if !ok {
		return "", ErrInvalidLocation
	}
	return code, nil
}

// Locations returns the known location names in stable order.
func (t *Table) Locations() []string {
	locs := make([]string, 0, len(t.codes))
	for loc := range t.codes {
		locs = append(locs, loc)
	}
	sort.Strings(locs)
	return locs
}
