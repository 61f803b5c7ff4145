package wad

import (
	"io"

	"github.com/zelzip/niiebla/pkg/certchain"
	"github.com/zelzip/niiebla/pkg/streamio"
	"github.com/zelzip/niiebla/pkg/ticket"
	"github.com/zelzip/niiebla/pkg/titlemetadata"
)

// Wad is a parsed installable WAD: its header plus accessors into the
// backing stream's sections. Wad itself doesn't hold section content;
// every accessor reads from the stream supplied to it, matching the
// format's file-backed nature.
type Wad struct {
	Header Header
}

// Parse reads just the Wad header from stream's current position
// (expected to be offset 0).
func Parse(stream io.Reader) (*Wad, error) {
	h, err := ParseHeader(stream)
	if err != nil {
		return nil, err
	}
	return &Wad{Header: *h}, nil
}

// CertificateChainOffset is the absolute byte offset of the
// certificate chain, always immediately after the header.
func (w *Wad) CertificateChainOffset() int64 { return HeaderSize }

// TicketOffset is the absolute byte offset of the ticket.
func (w *Wad) TicketOffset() int64 {
	return w.CertificateChainOffset() + alignedSize(w.Header.CertificateChainSize)
}

// TitleMetadataOffset is the absolute byte offset of the title
// metadata.
func (w *Wad) TitleMetadataOffset() int64 {
	return w.TicketOffset() + alignedSize(w.Header.TicketSize)
}

// ContentOffset is the absolute byte offset of the start of the
// content region (the first content entry's physical position 0).
func (w *Wad) ContentOffset() int64 {
	return w.TitleMetadataOffset() + alignedSize(w.Header.TitleMetadataSize)
}

func alignedSize(size uint32) int64 {
	return int64(streamio.Align64(uint64(size)))
}

// CertificateChain reads the certificate chain from stream.
func (w *Wad) CertificateChain(stream io.ReadWriteSeeker) (*certchain.Chain, error) {
	if _, err := stream.Seek(w.CertificateChainOffset(), io.SeekStart); err != nil {
		return nil, err
	}
	return certchain.ParseChain(stream)
}

// Ticket reads the ticket from stream.
func (w *Wad) Ticket(stream io.ReadWriteSeeker) (*ticket.Ticket, error) {
	if _, err := stream.Seek(w.TicketOffset(), io.SeekStart); err != nil {
		return nil, err
	}
	return ticket.Parse(stream)
}

// TitleMetadata reads the title metadata from stream.
func (w *Wad) TitleMetadata(stream io.ReadWriteSeeker) (*titlemetadata.TitleMetadata, error) {
	if _, err := stream.Seek(w.TitleMetadataOffset(), io.SeekStart); err != nil {
		return nil, err
	}
	return titlemetadata.Parse(stream)
}

// Size is the Wad's total logical length: the header plus every
// section, each aligned to SectionBoundary.
func (w *Wad) Size() int64 {
	return w.ContentOffset() +
		contentRegionSize(w.Header.ContentSize) +
		alignedSize(w.Header.FooterSize)
}

func contentRegionSize(size uint32) int64 { return alignedSize(size) }
