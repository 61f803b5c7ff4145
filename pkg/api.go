// Package pkg is niiebla's top-level facade: opening an installable
// WAD file and reaching its sections without importing the internal
// package layout directly.
package pkg

import (
	"os"

	"github.com/zelzip/niiebla/pkg/certchain"
	"github.com/zelzip/niiebla/pkg/ticket"
	"github.com/zelzip/niiebla/pkg/titlemetadata"
	"github.com/zelzip/niiebla/pkg/wad"
)

// OpenedWad is an installable WAD opened from a file, with its
// backing *os.File kept alive for the accessors that read sections
// lazily.
type OpenedWad struct {
	file *os.File
	Wad  *wad.Wad
}

// Open reads an installable WAD's header from path, leaving the file
// open for section access.
func Open(path string) (*OpenedWad, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	w, err := wad.Parse(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &OpenedWad{file: f, Wad: w}, nil
}

// Close releases the underlying file.
func (o *OpenedWad) Close() error {
	return o.file.Close()
}

// CertificateChain reads the WAD's certificate chain.
func (o *OpenedWad) CertificateChain() (*certchain.Chain, error) {
	return o.Wad.CertificateChain(o.file)
}

// Ticket reads the WAD's ticket.
func (o *OpenedWad) Ticket() (*ticket.Ticket, error) {
	return o.Wad.Ticket(o.file)
}

// TitleMetadata reads the WAD's title metadata.
func (o *OpenedWad) TitleMetadata() (*titlemetadata.TitleMetadata, error) {
	return o.Wad.TitleMetadata(o.file)
}
