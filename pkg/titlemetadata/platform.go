package titlemetadata

import (
	"fmt"

	"github.com/zelzip/niiebla/pkg/niberr"
)

// Platform tags which console family a title metadata describes, and
// discriminates the shape of the 62-byte payload that follows it.
type Platform uint32

const (
	PlatformDSi      Platform = 0x00000000
	PlatformWii      Platform = 0x00000001
	PlatformConsole3ds Platform = 0x00000040
	PlatformWiiU     Platform = 0x00000100
)

func platformFromIdentifier(identifier uint32) (Platform, error) {
	switch Platform(identifier) {
	case PlatformDSi, PlatformWii, PlatformConsole3ds, PlatformWiiU:
		return Platform(identifier), nil
	default:
		return 0, fmt.Errorf("%w: 0x%08x", niberr.ErrUnknownPlatform, identifier)
	}
}

// Region tags a title's distribution region.
type Region uint16

const (
	RegionJapan  Region = 0
	RegionUSA    Region = 1
	RegionEurope Region = 2
	RegionFree   Region = 3
	RegionKorea  Region = 4
)

func regionFromIdentifier(identifier uint16) (Region, error) {
	switch Region(identifier) {
	case RegionJapan, RegionUSA, RegionEurope, RegionFree, RegionKorea:
		return Region(identifier), nil
	default:
		return 0, fmt.Errorf("%w: %d", niberr.ErrUnknownWiiRegion, identifier)
	}
}
