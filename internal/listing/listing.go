// Package listing implements the car rental listing intake: the listing
// record, field validators, preview rendering and the conversation state
// machine that drives collection, review and submission.
//
// Nothing in this package talks to Telegram. The state machine returns
// declarative effects that the transport adapter executes.
package listing

// Category is one of the fixed listing categories.
type Category string

const (
	CategoryExotic   Category = "Exotic"
	CategoryEconomic Category = "Economic"
	CategoryLuxury   Category = "Luxury"
)

// Categories lists the accepted categories in menu order.
var Categories = []Category{CategoryExotic, CategoryEconomic, CategoryLuxury}

// Listing is the record collected from a user. The zero value of every field
// means "not provided yet".
type Listing struct {
	ID          string
	Name        string
	Category    Category
	PricePerDay float64
	Photo1      string
	Photo2      string
}

// Field names a single listing field.
type Field string

const (
	FieldName     Field = "name"
	FieldCategory Field = "category"
	FieldPrice    Field = "price"
	FieldPhoto1   Field = "photo1"
	FieldPhoto2   Field = "photo2"
)

// Missing reports the fields that are still unset, in collection order.
func (l Listing) Missing() []Field {
	var out []Field
	if l.Name == "" {
		out = append(out, FieldName)
	}
	if l.Category == "" {
		out = append(out, FieldCategory)
	}
	if l.PricePerDay == 0 {
		out = append(out, FieldPrice)
	}
	if l.Photo1 == "" {
		out = append(out, FieldPhoto1)
	}
	if l.Photo2 == "" {
		out = append(out, FieldPhoto2)
	}
	return out
}

// Complete reports whether all five fields are set.
func (l Listing) Complete() bool {
	return len(l.Missing()) == 0
}
