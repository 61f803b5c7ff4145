package ticket

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/aescbc"
	"github.com/zelzip/niiebla/pkg/niberr"
	"github.com/zelzip/niiebla/pkg/signedblob"
)

// Version is the ticket format version.
type Version uint8

const (
	Version0 Version = 0
	Version1 Version = 1
)

// VersionFromNumber validates a ticket_version field.
func VersionFromNumber(n uint8) (Version, error) {
	switch Version(n) {
	case Version0, Version1:
		return Version(n), nil
	default:
		return 0, fmt.Errorf("%w: %d", niberr.ErrUnknownTicketVersion, n)
	}
}

const (
	ecdhDataSize                = 60
	contentAccessPermissionsLen = 64
)

// Ticket is a pre-Switch-style ticket: the signed blob prelude, ECDH
// data, the AES-128-CBC-encrypted title key, and the limits that gate
// a title's use on a console.
type Ticket struct {
	Header signedblob.Header
	Issuer string
	ECDHData [ecdhDataSize]byte

	Version Version

	// ReservedAfterVersion holds the two bytes (the CRL version pair in
	// the spec's field list) following the version byte. Producers
	// don't reliably zero this span, so it is round-tripped opaquely.
	ReservedAfterVersion [2]byte

	EncryptedTitleKey [16]byte

	// ReservedAfterTitleKey holds the single byte following the
	// encrypted title key, preserved opaquely.
	ReservedAfterTitleKey [1]byte

	TicketID          [8]byte
	ConsoleID         uint32 // 0 means "no console", mirroring device_id's Option<u32>
	TitleID           [8]byte

	// ReservedAfterTitleID holds the 16-bit system-app-content-access
	// bitmask following the title ID. This package treats it as an
	// opaque bitmask rather than decoding individual content bits.
	ReservedAfterTitleID [2]byte

	TitleVersion      uint16

	PermittedTitlesMask uint32
	PermitMask          uint32

	TitleExportAllowed bool
	CommonKeyKind      CommonKeyKind

	// ReservedAfterCommonKey holds the 47 reserved bytes plus the
	// trailing "audit" byte the spec names but assigns no further
	// semantics to here; preserved opaquely as one 48-byte span.
	ReservedAfterCommonKey [48]byte

	ContentAccessPermissions [contentAccessPermissionsLen]byte

	// ReservedBeforeLimitEntries holds the 2 padding bytes before the
	// limit-entry table, preserved opaquely.
	ReservedBeforeLimitEntries [2]byte

	LimitEntries [NumLimitEntries]LimitEntry

	// V1Extra carries opaque version-1 extension data. Parse never
	// fills it: it reads nothing past the limit entries, so bytes a
	// version-1 ticket carries after them are not read or preserved.
	// Dump writes a non-empty V1Extra verbatim after the version-0
	// fields when Version is Version1.
	V1Extra []byte
}

// Parse reads a Ticket starting at stream's current position.
func Parse(r io.Reader) (*Ticket, error) {
	header, err := signedblob.Parse(r)
	if err != nil {
		return nil, err
	}

	issuer, err := signedblob.ReadIssuer(r)
	if err != nil {
		return nil, err
	}

	t := &Ticket{Header: *header, Issuer: issuer}

	if _, err := io.ReadFull(r, t.ECDHData[:]); err != nil {
		return nil, err
	}

	var versionBuf [1]byte
	if _, err := io.ReadFull(r, versionBuf[:]); err != nil {
		return nil, err
	}
	version, err := VersionFromNumber(versionBuf[0])
	if err != nil {
		return nil, err
	}
	t.Version = version

	if _, err := io.ReadFull(r, t.ReservedAfterVersion[:]); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(r, t.EncryptedTitleKey[:]); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(r, t.ReservedAfterTitleKey[:]); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(r, t.TicketID[:]); err != nil {
		return nil, err
	}

	if err := readU32(r, &t.ConsoleID); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(r, t.TitleID[:]); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(r, t.ReservedAfterTitleID[:]); err != nil {
		return nil, err
	}

	if err := readU16(r, &t.TitleVersion); err != nil {
		return nil, err
	}
	if err := readU32(r, &t.PermittedTitlesMask); err != nil {
		return nil, err
	}
	if err := readU32(r, &t.PermitMask); err != nil {
		return nil, err
	}

	var exportFlag [1]byte
	if _, err := io.ReadFull(r, exportFlag[:]); err != nil {
		return nil, err
	}
	switch exportFlag[0] {
	case 0:
		t.TitleExportAllowed = false
	case 1:
		t.TitleExportAllowed = true
	default:
		return nil, fmt.Errorf("%w: 0x%02x", niberr.ErrInvalidTitleExportFlag, exportFlag[0])
	}

	var commonKeyBuf [1]byte
	if _, err := io.ReadFull(r, commonKeyBuf[:]); err != nil {
		return nil, err
	}
	commonKey, err := CommonKeyFromIndex(commonKeyBuf[0])
	if err != nil {
		return nil, err
	}
	t.CommonKeyKind = commonKey

	if _, err := io.ReadFull(r, t.ReservedAfterCommonKey[:]); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(r, t.ContentAccessPermissions[:]); err != nil {
		return nil, err
	}

	if _, err := io.ReadFull(r, t.ReservedBeforeLimitEntries[:]); err != nil {
		return nil, err
	}

	for i := range t.LimitEntries {
		var kind, value uint32
		if err := readU32(r, &kind); err != nil {
			return nil, err
		}
		if err := readU32(r, &value); err != nil {
			return nil, err
		}
		entry, err := NewLimitEntry(kind, value)
		if err != nil {
			return nil, err
		}
		t.LimitEntries[i] = entry
	}

	if version == Version1 {
		// The layout beyond this point is not yet reverse
		// engineered; there is currently nothing to read.
		t.V1Extra = nil
	}

	return t, nil
}

// Dump writes t in its on-wire form with t.Version as the version
// byte. For a version-1 ticket, V1Extra, if non-empty, is written
// verbatim after the version-0 fields.
func (t *Ticket) Dump(w io.Writer) error {
	if err := t.Header.Dump(w); err != nil {
		return err
	}
	if err := signedblob.WriteIssuer(w, t.Issuer); err != nil {
		return err
	}
	if _, err := w.Write(t.ECDHData[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(t.Version)}); err != nil {
		return err
	}
	if _, err := w.Write(t.ReservedAfterVersion[:]); err != nil {
		return err
	}
	if _, err := w.Write(t.EncryptedTitleKey[:]); err != nil {
		return err
	}
	if _, err := w.Write(t.ReservedAfterTitleKey[:]); err != nil {
		return err
	}
	if _, err := w.Write(t.TicketID[:]); err != nil {
		return err
	}
	if err := writeU32(w, t.ConsoleID); err != nil {
		return err
	}
	if _, err := w.Write(t.TitleID[:]); err != nil {
		return err
	}
	if _, err := w.Write(t.ReservedAfterTitleID[:]); err != nil {
		return err
	}
	if err := writeU16(w, t.TitleVersion); err != nil {
		return err
	}
	if err := writeU32(w, t.PermittedTitlesMask); err != nil {
		return err
	}
	if err := writeU32(w, t.PermitMask); err != nil {
		return err
	}
	exportFlag := byte(0)
	if t.TitleExportAllowed {
		exportFlag = 1
	}
	if _, err := w.Write([]byte{exportFlag}); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(t.CommonKeyKind)}); err != nil {
		return err
	}
	if _, err := w.Write(t.ReservedAfterCommonKey[:]); err != nil {
		return err
	}
	if _, err := w.Write(t.ContentAccessPermissions[:]); err != nil {
		return err
	}
	if _, err := w.Write(t.ReservedBeforeLimitEntries[:]); err != nil {
		return err
	}
	for _, entry := range t.LimitEntries {
		if err := writeU32(w, uint32(entry.Kind)); err != nil {
			return err
		}
		if err := writeU32(w, entry.Value); err != nil {
			return err
		}
	}
	if t.Version == Version1 && len(t.V1Extra) > 0 {
		if _, err := w.Write(t.V1Extra); err != nil {
			return err
		}
	}
	return nil
}

// Size is the ticket's exact on-wire length.
func (t *Ticket) Size() int64 {
	base := int64(signedblob.HeaderSize) + int64(signedblob.IssuerSize) +
		ecdhDataSize + 1 + 2 + 16 + 1 + 8 + 4 + 8 + 2 + 2 + 4 + 4 + 1 + 1 + 48 +
		contentAccessPermissionsLen + 2 + NumLimitEntries*8
	return base + int64(len(t.V1Extra))
}

// titleKeyIV builds the AES-CBC IV used to decrypt the title key: the
// ticket ID if a console is bound, else the title ID, zero-extended
// to 16 bytes.
func (t *Ticket) titleKeyIV() [16]byte {
	var iv [16]byte
	if t.ConsoleID != 0 {
		copy(iv[:8], t.TicketID[:])
	} else {
		copy(iv[:8], t.TitleID[:])
	}
	return iv
}

// DecryptTitleKey recovers the title's plaintext AES-128 content key
// from EncryptedTitleKey using CommonKeyKind's fixed common key.
func (t *Ticket) DecryptTitleKey() ([16]byte, error) {
	return aescbc.DecryptBlock(t.CommonKeyKind.Bytes(), t.titleKeyIV(), t.EncryptedTitleKey[:])
}

// ContentIV builds the AES-CBC IV a content entry is encrypted under:
// its declared index, big-endian, zero-extended to 16 bytes.
func ContentIV(contentIndex uint16) [16]byte {
	var iv [16]byte
	binary.BigEndian.PutUint16(iv[:2], contentIndex)
	return iv
}

// ContentStream wraps under (the content's ciphertext region) with
// the title key and that content's IV, ready for lazy decryption.
func (t *Ticket) ContentStream(under io.ReadSeeker, contentIndex uint16, length int64) (*aescbc.Stream, error) {
	titleKey, err := t.DecryptTitleKey()
	if err != nil {
		return nil, err
	}
	return aescbc.New(under, titleKey, ContentIV(contentIndex), length), nil
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

func readU32(r io.Reader, out *uint32) error {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}
	*out = binary.BigEndian.Uint32(buf[:])
	return nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}
