package store

import "errors"

// Error kinds surfaced by store operations. Callers match with errors.Is;
// adapters map them onto their own status codes (not found, bad request,
// conflict).
var (
	ErrNotFound        = errors.New("node not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("id conflict")
)
