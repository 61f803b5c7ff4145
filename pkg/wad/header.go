// Package wad implements the installable WAD container: its 64-byte
// header, the 64-byte-aligned section layout (certificate chain,
// ticket, title metadata, content), content addressing, and the
// safe-write protocol used to edit a section in place.
package wad

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/niberr"
)

// HeaderSize is the fixed on-wire size of an installable WAD header.
const HeaderSize = 64

// SectionBoundary is the alignment every WAD section is padded to.
const SectionBoundary = 64

// Kind tags whether a WAD installs an ordinary title or boot2.
type Kind uint16

const (
	KindNormal Kind = iota
	KindBoot2
)

var kindBytes = map[Kind][2]byte{
	KindNormal: {'I', 's'},
	KindBoot2:  {'i', 'b'},
}

func kindFromBytes(b [2]byte) (Kind, error) {
	switch b {
	case kindBytes[KindNormal]:
		return KindNormal, nil
	case kindBytes[KindBoot2]:
		return KindBoot2, nil
	default:
		return 0, fmt.Errorf("%w: %q", niberr.ErrInvalidMagic, b[:])
	}
}

// Header is an installable WAD's fixed 64-byte header: the sizes of
// every section that follows it.
type Header struct {
	HeaderSize           uint32
	Kind                 Kind
	Version              uint16
	CertificateChainSize uint32

	// Reserved holds the 4 bytes between certificate_chain_size and
	// ticket_size, preserved opaquely rather than asserted zero.
	Reserved [4]byte

	TicketSize        uint32
	TitleMetadataSize uint32
	ContentSize       uint32
	FooterSize        uint32
}

// ParseHeader reads a Header from r's current position, which must be
// the start of the WAD.
func ParseHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	h := &Header{}
	h.HeaderSize = binary.BigEndian.Uint32(buf[0:4])

	kind, err := kindFromBytes([2]byte{buf[4], buf[5]})
	if err != nil {
		return nil, err
	}
	h.Kind = kind

	h.Version = binary.BigEndian.Uint16(buf[6:8])
	h.CertificateChainSize = binary.BigEndian.Uint32(buf[8:12])
	copy(h.Reserved[:], buf[12:16])
	h.TicketSize = binary.BigEndian.Uint32(buf[16:20])
	h.TitleMetadataSize = binary.BigEndian.Uint32(buf[20:24])
	h.ContentSize = binary.BigEndian.Uint32(buf[24:28])
	h.FooterSize = binary.BigEndian.Uint32(buf[28:32])
	// buf[32:64] is padding to HeaderSize

	return h, nil
}

// Dump writes h in its on-wire 64-byte form.
func (h *Header) Dump(w io.Writer) error {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], h.HeaderSize)
	kb := kindBytes[h.Kind]
	buf[4], buf[5] = kb[0], kb[1]
	binary.BigEndian.PutUint16(buf[6:8], h.Version)
	binary.BigEndian.PutUint32(buf[8:12], h.CertificateChainSize)
	copy(buf[12:16], h.Reserved[:])
	binary.BigEndian.PutUint32(buf[16:20], h.TicketSize)
	binary.BigEndian.PutUint32(buf[20:24], h.TitleMetadataSize)
	binary.BigEndian.PutUint32(buf[24:28], h.ContentSize)
	binary.BigEndian.PutUint32(buf[28:32], h.FooterSize)
	_, err := w.Write(buf)
	return err
}
