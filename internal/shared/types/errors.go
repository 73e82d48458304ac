package types

import "errors"

var (
	ErrUnknownCabinClass  = errors.New("unknown flight cabin class")
	ErrMalformedReport    = errors.New("malformed report data")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrInvalidFormValue   = errors.New("invalid form value")
	ErrCloudSpendNotFound = errors.New("no cloud spend returned by AWS Cost Explorer")
)
