package listing

import "errors"

var (
	// ErrValidation marks input that does not satisfy a field contract.
	ErrValidation = errors.New("listing: invalid input")
	// ErrIncompleteSubmission is reported when submit is pressed before all fields are set.
	ErrIncompleteSubmission = errors.New("listing: incomplete submission")
	// ErrAdminNotConfigured is reported when the admin chat id is unset.
	ErrAdminNotConfigured = errors.New("listing: admin chat not configured")
	// ErrOrphanAction is reported for a review action without an owned listing.
	ErrOrphanAction = errors.New("listing: no active listing")
	// ErrDelivery wraps transport failures while forwarding a submission.
	ErrDelivery = errors.New("listing: delivery failed")
)
