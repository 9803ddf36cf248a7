package overlaystat

import "errors"

var (
	// ErrUnsupportedVersion is returned when the file header carries a schema
	// version newer than the store was configured for.
	ErrUnsupportedVersion = errors.New("unsupported stat file version")

	// ErrMigration wraps any failure while upgrading an older file. The file
	// on disk must not be trusted after it; reopen the store.
	ErrMigration = errors.New("stat file migration failed")

	ErrClosed        = errors.New("store is closed")
	ErrNegativeFrame = errors.New("frame number must not be negative")
	ErrFrameRange    = errors.New("frame number out of addressable range")
	ErrReadOnly      = errors.New("store is read-only")
)
