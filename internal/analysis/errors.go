package analysis

import "errors"

var (
	// ErrMalformedTable is returned when an operation receives a nil or empty table.
	ErrMalformedTable = errors.New("malformed table")
	// ErrColumnNotFound indicates the requested column name is not in the table.
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnrecognizedKind marks a column whose storage is neither numeric,
	// string-like, nor datetime-like. Table scans skip such columns.
	ErrUnrecognizedKind = errors.New("unrecognized storage kind")
	// ErrParse reports an abandoned timestamp or numeric coercion.
	ErrParse = errors.New("parse failure")
	// ErrDegenerateDistribution is returned when a kernel density cannot be
	// fitted, e.g. all values are identical.
	ErrDegenerateDistribution = errors.New("degenerate distribution")
	// ErrEmptySample is returned when no non-missing values remain.
	ErrEmptySample = errors.New("empty sample")
)
