package listing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/m3rciful/rentalbot/core/telegram/format"
)

const placeholder = "—"

// Submitter identifies the user who sent a listing.
type Submitter struct {
	ID       int64
	Username string
}

// Preview renders the review card for l. Output depends only on l.
func Preview(l Listing) string {
	var b strings.Builder
	b.WriteString("*Car Rental Listing*\n")
	fmt.Fprintf(&b, "*Name:* %s\n", orPlaceholder(format.EscapeMD(l.Name)))
	fmt.Fprintf(&b, "*Category:* %s\n", orPlaceholder(string(l.Category)))
	fmt.Fprintf(&b, "*Price/Day:* %s\n", priceOrPlaceholder(l.PricePerDay))
	fmt.Fprintf(&b, "*Photo #1:* %s\n", photoMark(l.Photo1))
	fmt.Fprintf(&b, "*Photo #2:* %s\n\n", photoMark(l.Photo2))
	b.WriteString("Use the buttons below to edit or submit.")
	return b.String()
}

// Summary renders the scalar fields sent to the admin chat.
func Summary(l Listing) string {
	return fmt.Sprintf("*Name:* %s\n*Category:* %s\n*Price/Day:* %s",
		format.EscapeMD(l.Name), l.Category, FormatPrice(l.PricePerDay))
}

// Header renders the submitter line that precedes a forwarded listing.
func Header(s Submitter) string {
	username := s.Username
	if username == "" {
		username = "unknown"
	}
	return fmt.Sprintf("📩 *Submitted by:* @%s (id: %d)", format.EscapeMD(username), s.ID)
}

// FormatPrice renders a price as dollars with thousands separators, e.g. $1,234.50.
func FormatPrice(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	b.WriteByte('$')
	for i := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func priceOrPlaceholder(v float64) string {
	if v == 0 {
		return placeholder
	}
	return FormatPrice(v)
}

func photoMark(id string) string {
	if id == "" {
		return "❌ missing"
	}
	return "✅ set"
}
