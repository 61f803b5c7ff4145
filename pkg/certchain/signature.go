// Package certchain implements the three-certificate chain that
// accompanies a ticket and title metadata: signature and public-key
// tagged unions, a single certificate, and the chain itself with its
// 64-byte per-certificate alignment and the producer's trailing
// padding quirk.
package certchain

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/niberr"
)

// SignatureKind tags a Signature's variant.
type SignatureKind uint32

const (
	SignatureKindRSA4096 SignatureKind = 0x00010000
	SignatureKindRSA2048 SignatureKind = 0x00010001
	SignatureKindECC     SignatureKind = 0x00010002
)

// bodySize returns the signature body length for a known kind.
func (k SignatureKind) bodySize() (int, error) {
	switch k {
	case SignatureKindRSA4096:
		return 512, nil
	case SignatureKindRSA2048:
		return 256, nil
	case SignatureKindECC:
		return 60, nil
	default:
		return 0, fmt.Errorf("%w: 0x%08x", niberr.ErrUnknownSignatureKind, uint32(k))
	}
}

// Signature is a tagged signature body, as carried by a Certificate.
// The large RSA-4096 arm is heap-indirected (a []byte, not an inline
// array) so the common ECC/RSA-2048 arms don't pay for its size.
type Signature struct {
	Kind SignatureKind
	Body []byte
}

// ParseSignature reads a tagged signature: a 4-byte kind, then a
// kind-specific body.
func ParseSignature(r io.Reader) (*Signature, error) {
	var kindBuf [4]byte
	if _, err := io.ReadFull(r, kindBuf[:]); err != nil {
		return nil, err
	}
	kind := SignatureKind(binary.BigEndian.Uint32(kindBuf[:]))

	size, err := kind.bodySize()
	if err != nil {
		return nil, err
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	return &Signature{Kind: kind, Body: body}, nil
}

// Dump writes s in its on-wire tagged form.
func (s *Signature) Dump(w io.Writer) error {
	var kindBuf [4]byte
	binary.BigEndian.PutUint32(kindBuf[:], uint32(s.Kind))
	if _, err := w.Write(kindBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(s.Body)
	return err
}

// Size is the total on-wire size of the tagged signature (kind +
// body).
func (s *Signature) Size() int { return 4 + len(s.Body) }
