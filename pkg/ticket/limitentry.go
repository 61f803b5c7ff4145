package ticket

import (
	"fmt"

	"github.com/zelzip/niiebla/pkg/niberr"
)

// LimitEntryKind tags a LimitEntry's variant.
type LimitEntryKind uint32

const (
	LimitEntryNoLimit     LimitEntryKind = 0
	LimitEntryTimeLimit   LimitEntryKind = 1
	LimitEntryLaunchLimit LimitEntryKind = 2
	// LimitEntryNoLimitAlt is a second observed on-wire encoding of
	// "no limit". Both 0 and 3 mean no limit; a 3 is kept as
	// LimitEntryNoLimitAlt so it is written back unchanged.
	LimitEntryNoLimitAlt LimitEntryKind = 3
)

// NumLimitEntries is the fixed number of limit slots a ticket carries.
const NumLimitEntries = 8

// LimitEntry is one of a ticket's eight usage limits: a time limit in
// minutes, a launch-count limit, or no limit at all.
type LimitEntry struct {
	Kind  LimitEntryKind
	Value uint32
}

// NewLimitEntry validates kind and builds the matching LimitEntry. For
// LimitEntryNoLimit and its alternate encoding, value is not
// meaningful and is preserved as-is for a faithful round trip.
func NewLimitEntry(kind uint32, value uint32) (LimitEntry, error) {
	switch LimitEntryKind(kind) {
	case LimitEntryNoLimit, LimitEntryNoLimitAlt, LimitEntryTimeLimit, LimitEntryLaunchLimit:
		return LimitEntry{Kind: LimitEntryKind(kind), Value: value}, nil
	default:
		return LimitEntry{}, fmt.Errorf("%w: %d", niberr.ErrUnknownLimitEntryType, kind)
	}
}
