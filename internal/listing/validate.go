package listing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PhotoSize is one resolution of an inbound photo.
type PhotoSize struct {
	FileID   string
	Width    int
	Height   int
	FileSize int64
}

// ValidateName trims the input and rejects blank names.
func ValidateName(input string) (string, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrValidation)
	}
	return name, nil
}

// ParseCategory matches input case-insensitively against Categories and
// returns the canonical title-case value.
func ParseCategory(input string) (Category, error) {
	choice := strings.TrimSpace(input)
	for _, c := range Categories {
		if strings.EqualFold(choice, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrValidation, choice)
}

// ParsePrice keeps only digits and dots from input and parses the rest as a
// non-negative number. A minus sign ahead of the first digit rejects the input.
func ParsePrice(input string) (float64, error) {
	if negative(input) {
		return 0, fmt.Errorf("%w: negative price", ErrValidation)
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, input)
	if cleaned == "" || strings.Count(cleaned, ".") > 1 {
		return 0, fmt.Errorf("%w: malformed price %q", ErrValidation, input)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: malformed price %q", ErrValidation, input)
	}
	return v, nil
}

func negative(input string) bool {
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			return false
		case r == '-' || r == '−':
			return true
		}
	}
	return false
}

// PickPhoto returns the file id of the largest variant. Variants are
// compared by pixel area, then by file size.
func PickPhoto(sizes []PhotoSize) (string, error) {
	var (
		best  PhotoSize
		found bool
	)
	for _, s := range sizes {
		if s.FileID == "" {
			continue
		}
		if !found || larger(s, best) {
			best = s
			found = true
		}
	}
	if !found {
		return "", fmt.Errorf("%w: no photo attached", ErrValidation)
	}
	return best.FileID, nil
}

func larger(a, b PhotoSize) bool {
	areaA, areaB := a.Width*a.Height, b.Width*b.Height
	if areaA != areaB {
		return areaA > areaB
	}
	return a.FileSize > b.FileSize
}
