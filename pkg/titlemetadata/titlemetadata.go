// Package titlemetadata implements the signed title metadata (TMD)
// carried by an installable WAD: the title's identity, platform,
// access rights, and its ordered list of content chunk entries.
package titlemetadata

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/niberr"
	"github.com/zelzip/niiebla/pkg/signedblob"
)

const (
	ratingsSize = 16
	ipcMaskSize = 12
)

// TitleMetadata is a title's signed metadata: its identity, platform,
// region, access rights, and content chunk entries.
type TitleMetadata struct {
	Header signedblob.Header
	Issuer string

	FormatVersion                    uint8
	CACertRevocationListVersion      uint8
	SignerCertRevocationListVersion  uint8

	// IsVWiiOnly repurposes a reserved byte on Wii title metadata to
	// flag a title that only runs under vWii.
	IsVWiiOnly bool

	// IOSOrBoot2TitleID is the IOS (or boot2) title required to run
	// this title. Zero on disk means none; such titles are usually
	// IOSes or boot2 itself.
	IOSOrBoot2TitleID *TitleID

	TitleID TitleID

	Platform Platform
	GroupID  uint16

	// Payload is the 62-byte region whose shape Platform
	// discriminates: WiiPlatformPayload, Console3dsPlatformPayload,
	// DSiPlatformPayload, or WiiUPlatformPayload.
	Payload PlatformPayload

	// ReservedBeforeAccessRights holds the 3 unused bytes preceding
	// the access-rights byte, preserved opaquely.
	ReservedBeforeAccessRights [3]byte

	FullPPCAccessAllowed bool
	DVDAccessAllowed     bool

	TitleVersion           uint16
	NumberOfContentEntries uint16
	BootContentIndex       uint16

	// ReservedAfterBootContentIndex holds the 2 reserved bytes before
	// the content chunk entry table, preserved opaquely.
	ReservedAfterBootContentIndex [2]byte

	ContentEntries []ContentEntry
}

// Region returns the distribution region carried by a Wii or vWii
// title's platform payload. It fails with ErrNotAWiiTitle for any
// other platform.
func (tmd *TitleMetadata) Region() (Region, error) {
	wii, ok := tmd.Payload.(*WiiPlatformPayload)
	if !ok {
		return 0, niberr.ErrNotAWiiTitle
	}
	return wii.Region, nil
}

// Parse reads a TitleMetadata starting at r's current position.
func Parse(r io.Reader) (*TitleMetadata, error) {
	header, err := signedblob.Parse(r)
	if err != nil {
		return nil, err
	}

	issuer, err := signedblob.ReadIssuer(r)
	if err != nil {
		return nil, err
	}

	tmd := &TitleMetadata{Header: *header, Issuer: issuer}

	var versions [3]byte
	if _, err := io.ReadFull(r, versions[:]); err != nil {
		return nil, err
	}
	tmd.FormatVersion = versions[0]
	tmd.CACertRevocationListVersion = versions[1]
	tmd.SignerCertRevocationListVersion = versions[2]

	if tmd.FormatVersion != 0 {
		return nil, fmt.Errorf("%w: %d", niberr.ErrUnsupportedTMDVersion, tmd.FormatVersion)
	}

	// The byte here is reserved (must be 0) on every platform except
	// Wii, where it encodes is_wii_u_vwii_only_title. Its meaning
	// depends on platform_tag, which is read later in the stream, so
	// the raw value is validated once the platform is known below.
	var overloadedByte [1]byte
	if _, err := io.ReadFull(r, overloadedByte[:]); err != nil {
		return nil, err
	}

	iosID, err := readTitleID(r)
	if err != nil {
		return nil, err
	}
	if iosID != 0 {
		id := TitleID(iosID)
		tmd.IOSOrBoot2TitleID = &id
	}

	titleID, err := readTitleID(r)
	if err != nil {
		return nil, err
	}
	tmd.TitleID = TitleID(titleID)

	var platformBuf [4]byte
	if _, err := io.ReadFull(r, platformBuf[:]); err != nil {
		return nil, err
	}
	platform, err := platformFromIdentifier(binary.BigEndian.Uint32(platformBuf[:]))
	if err != nil {
		return nil, err
	}
	tmd.Platform = platform

	if platform == PlatformWii {
		switch overloadedByte[0] {
		case 0:
			tmd.IsVWiiOnly = false
		case 1:
			tmd.IsVWiiOnly = true
		default:
			return nil, fmt.Errorf("%w: 0x%02x", niberr.ErrInvalidVWiiFlag, overloadedByte[0])
		}
	} else if overloadedByte[0] != 0 {
		return nil, fmt.Errorf("%w: 0x%02x", niberr.ErrInvalidVWiiFlag, overloadedByte[0])
	}

	if err := readU16(r, &tmd.GroupID); err != nil {
		return nil, err
	}

	payload, err := parsePlatformPayload(r, platform)
	if err != nil {
		return nil, err
	}
	tmd.Payload = payload

	if _, err := io.ReadFull(r, tmd.ReservedBeforeAccessRights[:]); err != nil {
		return nil, err
	}

	var accessByte [1]byte
	if _, err := io.ReadFull(r, accessByte[:]); err != nil {
		return nil, err
	}
	tmd.FullPPCAccessAllowed = accessByte[0]&0b01 == 0b01
	tmd.DVDAccessAllowed = accessByte[0]&0b10 == 0b10

	if err := readU16(r, &tmd.TitleVersion); err != nil {
		return nil, err
	}
	if err := readU16(r, &tmd.NumberOfContentEntries); err != nil {
		return nil, err
	}
	if err := readU16(r, &tmd.BootContentIndex); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, tmd.ReservedAfterBootContentIndex[:]); err != nil {
		return nil, err
	}

	tmd.ContentEntries = make([]ContentEntry, tmd.NumberOfContentEntries)
	for i := range tmd.ContentEntries {
		entry, err := parseContentEntry(r)
		if err != nil {
			return nil, err
		}
		tmd.ContentEntries[i] = entry
	}

	return tmd, nil
}

// Dump writes tmd in its on-wire form.
func (tmd *TitleMetadata) Dump(w io.Writer) error {
	if err := tmd.Header.Dump(w); err != nil {
		return err
	}
	if err := signedblob.WriteIssuer(w, tmd.Issuer); err != nil {
		return err
	}

	versions := [3]byte{tmd.FormatVersion, tmd.CACertRevocationListVersion, tmd.SignerCertRevocationListVersion}
	if _, err := w.Write(versions[:]); err != nil {
		return err
	}

	vwiiByte := byte(0)
	if tmd.IsVWiiOnly {
		vwiiByte = 1
	}
	if _, err := w.Write([]byte{vwiiByte}); err != nil {
		return err
	}

	iosID := uint64(0)
	if tmd.IOSOrBoot2TitleID != nil {
		iosID = uint64(*tmd.IOSOrBoot2TitleID)
	}
	if err := writeTitleID(w, iosID); err != nil {
		return err
	}
	if err := writeTitleID(w, uint64(tmd.TitleID)); err != nil {
		return err
	}

	var platformBuf [4]byte
	binary.BigEndian.PutUint32(platformBuf[:], uint32(tmd.Platform))
	if _, err := w.Write(platformBuf[:]); err != nil {
		return err
	}

	if err := writeU16(w, tmd.GroupID); err != nil {
		return err
	}

	if tmd.Payload == nil {
		return fmt.Errorf("%w: title metadata has no platform payload set", niberr.ErrUnknownPlatform)
	}
	if err := tmd.Payload.dump(w); err != nil {
		return err
	}

	if _, err := w.Write(tmd.ReservedBeforeAccessRights[:]); err != nil {
		return err
	}

	var accessByte byte
	if tmd.FullPPCAccessAllowed {
		accessByte |= 0b01
	}
	if tmd.DVDAccessAllowed {
		accessByte |= 0b10
	}
	if _, err := w.Write([]byte{accessByte}); err != nil {
		return err
	}

	if err := writeU16(w, tmd.TitleVersion); err != nil {
		return err
	}
	if err := writeU16(w, uint16(len(tmd.ContentEntries))); err != nil {
		return err
	}
	if err := writeU16(w, tmd.BootContentIndex); err != nil {
		return err
	}
	if _, err := w.Write(tmd.ReservedAfterBootContentIndex[:]); err != nil {
		return err
	}

	for i := range tmd.ContentEntries {
		if err := tmd.ContentEntries[i].dump(w); err != nil {
			return err
		}
	}

	return nil
}

// Size is tmd's exact on-wire length.
func (tmd *TitleMetadata) Size() int64 {
	base := int64(signedblob.HeaderSize) + int64(signedblob.IssuerSize) +
		3 + 1 + 8 + 8 + 4 + 2 + platformPayloadSize + 3 + 1 + 2 + 2 + 2 + 2
	return base + int64(len(tmd.ContentEntries))*ContentEntrySize
}

func readTitleID(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func writeTitleID(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU16(r io.Reader, out *uint16) error {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	*out = binary.BigEndian.Uint16(buf[:])
	return nil
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
