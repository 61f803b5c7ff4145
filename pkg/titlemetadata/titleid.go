package titlemetadata

import "fmt"

// TitleID is the 64-bit value Nintendo consoles use to identify a
// title. The upper 32 bits group titles by category (e.g. the system
// category 0x00000001); the lower 32 bits are often, but not always,
// an ASCII four-character code.
type TitleID uint64

// Category returns the upper 32 bits, which groups a title by kind
// (system title, channel, disc title, and so on).
func (t TitleID) Category() uint32 { return uint32(t >> 32) }

// Identifier returns the lower 32 bits.
func (t TitleID) Identifier() uint32 { return uint32(t) }

// String renders t as CATEGORY-CODE for titles outside the
// 0x00000001 system category. System titles get a well-known name
// (BOOT2, System Menu, BC, MIOS), or "IOSv<n>" for any other lower
// half.
func (t TitleID) String() string {
	const systemCategory = 0x00000001

	if t.Category() != systemCategory {
		lower := t.Identifier()
		code := [4]byte{byte(lower >> 24), byte(lower >> 16), byte(lower >> 8), byte(lower)}
		return fmt.Sprintf("%08X-%s", t.Category(), string(code[:]))
	}

	switch t.Identifier() {
	case 0x00000001:
		return "BOOT2 (Wii)"
	case 0x00000002:
		return "System Menu (Wii)"
	case 0x00000100:
		return "BC (Wii)"
	case 0x00000101:
		return "MIOS (Wii)"
	default:
		return fmt.Sprintf("IOSv%d (Wii)", t.Identifier())
	}
}
