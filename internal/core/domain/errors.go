package domain

import "errors"

var (
	ErrEmptySourceID     = errors.New("source id is required")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrCatalogConflict   = errors.New("catalog was modified by another run")
	ErrSourceLocked      = errors.New("another import for this source is in progress")
)
