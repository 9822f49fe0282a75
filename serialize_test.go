package brp

import (
	"reflect"
	"testing"
)

func TestFormatVector(t *testing.T) {
	tests := []struct {
		name string
		v    Vector
		want string
	}{
		{"empty", Vector{}, "[]"},
		{"single", Vector{1}, "[1]"},
		{"pair", Vector{1.12, 2.45}, "[1.12, 2.45]"},
		{"negative", Vector{-1.5, 0}, "[-1.5, 0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatVector(tt.v)
			if got != tt.want {
				t.Errorf("formatVector(%v) = %q, want %q", tt.v, got, tt.want)
			}
		})
	}
}

func TestParseVector(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want Vector
	}{
		{"tight", "[1.12,2.45]", Vector{1.12, 2.45}},
		{"spaced", "[ 1.12 , 2.45 ]", Vector{1.12, 2.45}},
		{"surrounding whitespace", "  [1, 2, 3]  ", Vector{1, 2, 3}},
		{"empty", "[]", Vector{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVector(tt.s)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseVector(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestParseVectorInvalid(t *testing.T) {
	tests := []string{"", "1, 2", "[1, 2", "1, 2]", "[1, two]"}
	for _, s := range tests {
		if _, err := parseVector(s); err == nil {
			t.Errorf("parseVector(%q) expected error, got nil", s)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	v := Vector{1.12, -2.45, 0, 3.14159}
	got, err := parseVector(formatVector(v))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, v) {
		t.Errorf("round trip = %v, want %v", got, v)
	}
}
