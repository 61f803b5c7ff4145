package pkg

import "github.com/zelzip/niiebla/pkg/niberr"

// Errors surfaced by the top-level facade, re-exported from niberr so
// callers that only import this package don't need to know about the
// internal package layout.
var (
	ErrContentNotFound = niberr.ErrContentNotFound
	ErrDecryptFailed   = niberr.ErrDecryptFailed
	ErrInvalidMagic    = niberr.ErrInvalidMagic
)
