package listing

import (
	"strings"
	"testing"
)

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{
		149.99:    "$149.99",
		1250:      "$1,250.00",
		1234567.5: "$1,234,567.50",
		0.5:       "$0.50",
		999:       "$999.00",
	}
	for in, want := range cases {
		if got := FormatPrice(in); got != want {
			t.Errorf("FormatPrice(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPreviewPlaceholders(t *testing.T) {
	got := Preview(Listing{})
	for _, want := range []string{
		"*Name:* —",
		"*Category:* —",
		"*Price/Day:* —",
		"*Photo #1:* ❌ missing",
		"*Photo #2:* ❌ missing",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("preview missing %q:\n%s", want, got)
		}
	}
}

func TestPreviewFilled(t *testing.T) {
	l := Listing{Name: "BMW_M4", Category: CategoryExotic, PricePerDay: 149.99, Photo1: "p1"}
	got := Preview(l)
	for _, want := range []string{
		`*Name:* BMW\_M4`,
		"*Category:* Exotic",
		"*Price/Day:* $149.99",
		"*Photo #1:* ✅ set",
		"*Photo #2:* ❌ missing",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("preview missing %q:\n%s", want, got)
		}
	}
	if Preview(l) != got {
		t.Fatal("preview is not deterministic")
	}
}

func TestSummaryAndHeader(t *testing.T) {
	l := Listing{Name: "BMW M4", Category: CategoryLuxury, PricePerDay: 1999.5, Photo1: "p1", Photo2: "p2"}
	want := "*Name:* BMW M4\n*Category:* Luxury\n*Price/Day:* $1,999.50"
	if got := Summary(l); got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
	if got := Header(Submitter{ID: 42, Username: "car_owner"}); got != `📩 *Submitted by:* @car\_owner (id: 42)` {
		t.Fatalf("header = %q", got)
	}
	if got := Header(Submitter{ID: 7}); !strings.Contains(got, "@unknown (id: 7)") {
		t.Fatalf("header without username = %q", got)
	}
}

func TestActionsCoverMenu(t *testing.T) {
	got := Actions()
	if len(got) != 7 {
		t.Fatalf("menu has %d actions, want 7", len(got))
	}
	seen := map[Action]bool{}
	for _, a := range got {
		if seen[a] {
			t.Fatalf("duplicate action %q", a)
		}
		seen[a] = true
	}
}
