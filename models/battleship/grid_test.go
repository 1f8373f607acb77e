package battleship

import (
	"errors"
	"strings"
	"testing"

	cerr "github.com/saeidalz13/ocean-storm/internal/error"
)

func TestNewCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		x, y    int
		isValid bool
	}{
		{"origin", 0, 0, true},
		{"far corner", 9, 9, true},
		{"negative x", -1, 0, false},
		{"negative y", 0, -1, false},
		{"x too large", 10, 3, false},
		{"y too large", 3, 10, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewCoordinates(test.x, test.y)
			if test.isValid && err != nil {
				t.Fatal(err)
			}
			if !test.isValid && !errors.Is(err, cerr.ErrOutOfGridBound) {
				t.Fatalf("expected out of bound error, got: %v", err)
			}
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		input    string
		expected Coordinates
		isValid  bool
	}{
		{"A1", Coordinates{X: 0, Y: 0}, true},
		{"j10", Coordinates{X: 9, Y: 9}, true},
		{" C4 ", Coordinates{X: 3, Y: 2}, true},
		{"K1", Coordinates{}, false},
		{"A11", Coordinates{}, false},
		{"A0", Coordinates{}, false},
		{"Ax", Coordinates{}, false},
		{"A", Coordinates{}, false},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseCoordinates(test.input)
			if !test.isValid {
				if err == nil {
					t.Fatalf("expected error for %q", test.input)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != test.expected {
				t.Fatalf("expected: %+v\tgot: %+v", test.expected, got)
			}
			if got.String() != strings.ToUpper(strings.TrimSpace(test.input)) {
				t.Fatalf("expected string: %s\tgot: %s", strings.ToUpper(strings.TrimSpace(test.input)), got.String())
			}
		})
	}
}
