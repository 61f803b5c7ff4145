// Package signedblob implements the 320-byte signed-blob prelude
// shared by tickets and title metadata, plus the 64-byte padded
// issuer field that immediately follows it on disk (a separate field,
// not a nested struct member, per the format).
package signedblob

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/niberr"
	"github.com/zelzip/niiebla/pkg/streamio"
)

// SignatureKind is the tag of a SignedBlobHeader's signature. Only
// RSA-2048 is recognized; every other tag is a parse error because
// this module does not carry the larger-variant signature bodies
// (RSA-4096, ECC) for the ticket/TMD prelude — those appear only in
// the certificate chain, where CertificateSignature is a true union.
type SignatureKind uint32

const (
	SignatureKindRSA2048 SignatureKind = 0x00010001
)

const (
	// HeaderSize is the on-wire size of the signature kind, the
	// signature body, and the trailing reserved pad: 4 + 256 + 60.
	HeaderSize = 320
	// IssuerSize is the size of the padded ASCII issuer field that
	// immediately follows a SignedBlobHeader on disk.
	IssuerSize = 64

	signatureSize = 256
	reservedSize  = 60
)

// Header is the fixed 320-byte signed-blob prelude.
type Header struct {
	SignatureKind SignatureKind
	Signature     [signatureSize]byte

	// Reserved holds the trailing pad bytes exactly as read. Producers
	// in the wild don't reliably zero this span, so it is round-tripped
	// opaquely rather than asserted zero and rewritten as zero.
	Reserved [reservedSize]byte
}

// Parse reads a Header from r.
func Parse(r io.Reader) (*Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	kind := SignatureKind(binary.BigEndian.Uint32(buf[0:4]))
	if kind != SignatureKindRSA2048 {
		return nil, fmt.Errorf("%w: 0x%08x", niberr.ErrUnknownSignatureKind, uint32(kind))
	}

	h := &Header{SignatureKind: kind}
	copy(h.Signature[:], buf[4:4+signatureSize])
	copy(h.Reserved[:], buf[4+signatureSize:])
	return h, nil
}

// Dump writes h in its on-wire 320-byte form.
func (h *Header) Dump(w io.Writer) error {
	buf := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(h.SignatureKind))
	copy(buf[4:4+signatureSize], h.Signature[:])
	copy(buf[4+signatureSize:], h.Reserved[:])
	_, err := w.Write(buf)
	return err
}

// Size is always HeaderSize; it exists for symmetry with the larger
// ticket/title-metadata Size() methods that build on it.
func (h *Header) Size() int { return HeaderSize }

// ReadIssuer reads the 64-byte padded ASCII issuer field that follows
// a SignedBlobHeader on disk.
func ReadIssuer(r io.Reader) (string, error) {
	buf := make([]byte, IssuerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return streamio.ReadPaddedString(buf), nil
}

// WriteIssuer writes issuer null-terminated and zero-padded into
// IssuerSize bytes.
func WriteIssuer(w io.Writer, issuer string) error {
	_, err := w.Write(streamio.WritePaddedString(issuer, IssuerSize))
	return err
}
