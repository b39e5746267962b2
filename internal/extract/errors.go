package extract

import "errors"

// Sentinel kinds for extraction errors.
var (
	ErrNoCart        = errors.New("no metadata cart found")
	ErrMalformedCart = errors.New("malformed metadata cart")
	ErrMalformedTSV  = errors.New("malformed sample file")
)
