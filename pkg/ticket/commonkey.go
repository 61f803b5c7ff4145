// Package ticket implements the pre-Switch-style ticket carried by an
// installable WAD: the signed blob header, ECDH data, encrypted title
// key, and the limits that gate a title's use on a console.
package ticket

import (
	"fmt"

	"github.com/zelzip/niiebla/pkg/niberr"
)

// CommonKeyKind selects which of Wii's three fixed AES-128 common
// keys decrypts a ticket's title key.
type CommonKeyKind uint8

const (
	CommonKeyNormal CommonKeyKind = 0
	CommonKeyKorean CommonKeyKind = 1
	CommonKeyWiiU   CommonKeyKind = 2
)

// commonKeyNormal, commonKeyKorean and commonKeyWiiU are Wii's three
// fixed AES-128 common keys.
var (
	commonKeyNormal = [16]byte{
		0xeb, 0xe4, 0x2a, 0x22, 0x5e, 0x85, 0x93, 0xe4, 0x48, 0xd9, 0xc5, 0x45, 0x73, 0x81,
		0xaa, 0xf7,
	}
	commonKeyKorean = [16]byte{
		0x63, 0xb8, 0x2b, 0xb4, 0xf4, 0x61, 0x4e, 0x2e, 0x13, 0xf2, 0xfe, 0xfb, 0xba, 0x4c,
		0x9b, 0x7e,
	}
	commonKeyWiiU = [16]byte{
		0x30, 0xbf, 0xc7, 0x6e, 0x7c, 0x19, 0xaf, 0xbb, 0x23, 0x16, 0x33, 0x30, 0xce, 0xd7,
		0xc2, 0x8d,
	}
)

// CommonKeyFromIndex validates a ticket's common_key_kind_index field.
func CommonKeyFromIndex(index uint8) (CommonKeyKind, error) {
	switch CommonKeyKind(index) {
	case CommonKeyNormal, CommonKeyKorean, CommonKeyWiiU:
		return CommonKeyKind(index), nil
	default:
		return 0, fmt.Errorf("%w: %d", niberr.ErrUnknownCommonKeyIndex, index)
	}
}

// Bytes returns the fixed 16-byte AES-128 key for k.
func (k CommonKeyKind) Bytes() [16]byte {
	switch k {
	case CommonKeyKorean:
		return commonKeyKorean
	case CommonKeyWiiU:
		return commonKeyWiiU
	default:
		return commonKeyNormal
	}
}
