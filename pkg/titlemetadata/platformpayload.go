package titlemetadata

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/niberr"
)

// platformPayloadSize is the fixed width of the platform-discriminated
// region between group_id and access_rights in every title metadata,
// regardless of which Platform tag selects its interpretation.
const platformPayloadSize = 62

// PlatformPayload is the platform-discriminated 62-byte region of a
// title metadata. Its concrete type is determined by the
// TitleMetadata's Platform field.
type PlatformPayload interface {
	dump(w io.Writer) error
}

func parsePlatformPayload(r io.Reader, platform Platform) (PlatformPayload, error) {
	switch platform {
	case PlatformWii:
		return parseWiiPlatformPayload(r)
	case PlatformConsole3ds:
		return parseConsole3dsPlatformPayload(r)
	case PlatformDSi:
		return parseDSiPlatformPayload(r)
	case PlatformWiiU:
		return parseWiiUPlatformPayload(r)
	default:
		// platformFromIdentifier validates the tag before this is
		// reached; this branch only guards against a caller passing an
		// unvalidated value directly.
		return nil, fmt.Errorf("%w: 0x%08x", niberr.ErrUnknownPlatform, uint32(platform))
	}
}

// WiiPlatformPayload is the Wii/vWii payload: a distribution region,
// per-organization content ratings, and an IPC access mask.
type WiiPlatformPayload struct {
	Region  Region
	Ratings [ratingsSize]byte
	IPCMask [ipcMaskSize]byte

	// The three reserved spans inside the Wii payload, preserved
	// opaquely rather than asserted zero: producers don't reliably
	// zero them.
	ReservedBeforeRegion [2]byte
	ReservedAfterRatings [12]byte
	ReservedAfterIPCMask [18]byte
}

func parseWiiPlatformPayload(r io.Reader) (*WiiPlatformPayload, error) {
	p := &WiiPlatformPayload{}

	if _, err := io.ReadFull(r, p.ReservedBeforeRegion[:]); err != nil {
		return nil, err
	}

	var regionBuf [2]byte
	if _, err := io.ReadFull(r, regionBuf[:]); err != nil {
		return nil, err
	}
	region, err := regionFromIdentifier(binary.BigEndian.Uint16(regionBuf[:]))
	if err != nil {
		return nil, err
	}
	p.Region = region

	if _, err := io.ReadFull(r, p.Ratings[:]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, p.ReservedAfterRatings[:]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, p.IPCMask[:]); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, p.ReservedAfterIPCMask[:]); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *WiiPlatformPayload) dump(w io.Writer) error {
	if _, err := w.Write(p.ReservedBeforeRegion[:]); err != nil {
		return err
	}

	var regionBuf [2]byte
	binary.BigEndian.PutUint16(regionBuf[:], uint16(p.Region))
	if _, err := w.Write(regionBuf[:]); err != nil {
		return err
	}

	if _, err := w.Write(p.Ratings[:]); err != nil {
		return err
	}
	if _, err := w.Write(p.ReservedAfterRatings[:]); err != nil {
		return err
	}
	if _, err := w.Write(p.IPCMask[:]); err != nil {
		return err
	}
	_, err := w.Write(p.ReservedAfterIPCMask[:])
	return err
}

// DSiPlatformPayload is the DSi payload. It carries no fields this
// package interprets; its 62 bytes are preserved opaquely.
type DSiPlatformPayload struct {
	Reserved [platformPayloadSize]byte
}

func parseDSiPlatformPayload(r io.Reader) (*DSiPlatformPayload, error) {
	p := &DSiPlatformPayload{}
	_, err := io.ReadFull(r, p.Reserved[:])
	return p, err
}

func (p *DSiPlatformPayload) dump(w io.Writer) error {
	_, err := w.Write(p.Reserved[:])
	return err
}

// WiiUPlatformPayload is the Wii U payload. Like DSiPlatformPayload it
// carries no fields this package interprets.
type WiiUPlatformPayload struct {
	Reserved [platformPayloadSize]byte
}

func parseWiiUPlatformPayload(r io.Reader) (*WiiUPlatformPayload, error) {
	p := &WiiUPlatformPayload{}
	_, err := io.ReadFull(r, p.Reserved[:])
	return p, err
}

func (p *WiiUPlatformPayload) dump(w io.Writer) error {
	_, err := w.Write(p.Reserved[:])
	return err
}

// Console3dsPlatformPayload is the 3DS payload. Its two save-data-size
// fields are stored little-endian — a deliberate exception inside an
// otherwise all-big-endian format — which must be preserved literally
// rather than "corrected" to match the rest of the structure.
type Console3dsPlatformPayload struct {
	PublicSaveDataSize  uint32
	PrivateSaveDataSize uint32
	SrlFlag             uint8

	ReservedAfterSizes   [4]byte
	ReservedAfterSrlFlag [49]byte
}

func parseConsole3dsPlatformPayload(r io.Reader) (*Console3dsPlatformPayload, error) {
	p := &Console3dsPlatformPayload{}

	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	p.PublicSaveDataSize = binary.LittleEndian.Uint32(buf[:])

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	p.PrivateSaveDataSize = binary.LittleEndian.Uint32(buf[:])

	if _, err := io.ReadFull(r, p.ReservedAfterSizes[:]); err != nil {
		return nil, err
	}

	var srlBuf [1]byte
	if _, err := io.ReadFull(r, srlBuf[:]); err != nil {
		return nil, err
	}
	p.SrlFlag = srlBuf[0]

	if _, err := io.ReadFull(r, p.ReservedAfterSrlFlag[:]); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Console3dsPlatformPayload) dump(w io.Writer) error {
	var buf [4]byte

	binary.LittleEndian.PutUint32(buf[:], p.PublicSaveDataSize)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(buf[:], p.PrivateSaveDataSize)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	if _, err := w.Write(p.ReservedAfterSizes[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{p.SrlFlag}); err != nil {
		return err
	}
	_, err := w.Write(p.ReservedAfterSrlFlag[:])
	return err
}
