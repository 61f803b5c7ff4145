package wad

import (
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/certchain"
	"github.com/zelzip/niiebla/pkg/niberr"
	"github.com/zelzip/niiebla/pkg/streamio"
	"github.com/zelzip/niiebla/pkg/ticket"
	"github.com/zelzip/niiebla/pkg/titlemetadata"
)

// Build assembles a fresh installable WAD from its parts and writes
// it to stream starting at the stream's current position (expected to
// be offset 0). content holds each content entry's already-encrypted
// ciphertext, in the same order as tmd.ContentEntries. The returned
// Wad carries the header this call wrote, with every section size
// computed from what was actually dumped.
func Build(stream io.ReadWriteSeeker, kind Kind, version uint16, chain *certchain.Chain, tk *ticket.Ticket, tmd *titlemetadata.TitleMetadata, content [][]byte) (*Wad, error) {
	if len(content) != len(tmd.ContentEntries) {
		return nil, fmt.Errorf("%w: got %d content chunks for %d content entries", niberr.ErrContentNotFound, len(content), len(tmd.ContentEntries))
	}

	pin, err := streamio.NewPin(stream)
	if err != nil {
		return nil, err
	}

	w := &Wad{Header: Header{Kind: kind, Version: version}}
	w.Header.HeaderSize = HeaderSize

	// Leave room for the header; it's rewritten last, once every
	// section size below is known.
	if _, err := pin.SeekFromPin(HeaderSize); err != nil {
		return nil, err
	}

	chainStart, err := pin.RelativePosition()
	if err != nil {
		return nil, err
	}
	if err := chain.Dump(pin); err != nil {
		return nil, err
	}
	chainEnd, err := pin.RelativePosition()
	if err != nil {
		return nil, err
	}
	w.Header.CertificateChainSize = uint32(chainEnd - chainStart)
	if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
		return nil, err
	}

	if err := tk.Dump(pin); err != nil {
		return nil, err
	}
	w.Header.TicketSize = uint32(tk.Size())
	if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
		return nil, err
	}

	if err := tmd.Dump(pin); err != nil {
		return nil, err
	}
	w.Header.TitleMetadataSize = uint32(tmd.Size())
	if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
		return nil, err
	}

	var contentSize int64
	for _, chunk := range content {
		if _, err := pin.Write(chunk); err != nil {
			return nil, err
		}
		if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
			return nil, err
		}
		contentSize += int64(streamio.Align64(uint64(len(chunk))))
	}
	w.Header.ContentSize = uint32(contentSize)

	if _, err := pin.SeekFromPin(-pin.Origin()); err != nil {
		return nil, err
	}
	if err := w.Header.Dump(pin); err != nil {
		return nil, err
	}

	return w, nil
}
