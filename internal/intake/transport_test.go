package intake

import (
	"testing"

	"github.com/m3rciful/rentalbot/internal/listing"
)

func TestMarkup(t *testing.T) {
	if markup(listing.KeyboardNone) != nil {
		t.Fatal("KeyboardNone must not attach markup")
	}
	if m := markup(listing.KeyboardRemove); m == nil || !m.RemoveKeyboard {
		t.Fatalf("expected remove keyboard, got %+v", m)
	}
	cat := markup(listing.KeyboardCategories)
	if cat == nil || !cat.OneTimeKeyboard || len(cat.ReplyKeyboard) != 1 || len(cat.ReplyKeyboard[0]) != 3 {
		t.Fatalf("unexpected category keyboard %+v", cat)
	}
	review := markup(listing.KeyboardReview)
	var uniques []string
	for _, row := range review.InlineKeyboard {
		for _, b := range row {
			uniques = append(uniques, b.Unique)
		}
	}
	actions := listing.Actions()
	if len(uniques) != len(actions) {
		t.Fatalf("review buttons = %v", uniques)
	}
	for i, a := range actions {
		if uniques[i] != string(a) {
			t.Fatalf("button %d = %s, want %s", i, uniques[i], a)
		}
	}
}
