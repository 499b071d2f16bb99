package entity

import "errors"

var (
	// ErrUnsupportedPage indicates the submitted URL matched none of the
	// supported marketplaces. Surfaced to the user, not a system fault.
	ErrUnsupportedPage = errors.New("not an Amazon/Flipkart product page")
	// ErrListingExists indicates an add was requested for an already tracked key.
	ErrListingExists = errors.New("listing already exists")
)
