package brp

import (
	"fmt"
	"strconv"
	"strings"
)

// formatVector renders v as a bracketed, comma-separated decimal text
// form, e.g. "[1.12, 2.45]". This is the wire/storage format used for
// both the hyperplane.vector and data.embedding columns.
func formatVector(v Vector) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}

// parseVector parses the bracketed comma-separated text form back into a
// Vector. Parsing tolerates arbitrary whitespace around brackets and
// commas.
func parseVector(s string) (Vector, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("invalid vector encoding %q", s)
	}

	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return Vector{}, nil
	}

	parts := strings.Split(inner, ",")
	v := make(Vector, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid vector component %q: %w", p, err)
		}
		v[i] = f
	}
	return v, nil
}
