package certchain

import (
	"encoding/binary"
	"io"

	"github.com/zelzip/niiebla/pkg/streamio"
)

const (
	issuerSize   = 64
	identitySize = 64
	certAlign    = 64
)

// Certificate is one entry of an installable WAD's certificate
// chain.
type Certificate struct {
	Signature Signature
	Issuer    string
	KeyKind   KeyKind
	Identity  string
	KeyID     uint32
	Key       KeyValue
}

// Parse reads a Certificate starting at stream's current position,
// which must be the start of the certificate (a 64-byte boundary
// relative to the enclosing chain). After the signature body, the
// stream is realigned to a 64-byte boundary relative to the
// certificate's own start before the issuer field, per the format.
func ParseCertificate(stream io.ReadWriteSeeker) (*Certificate, error) {
	pin, err := streamio.NewPin(stream)
	if err != nil {
		return nil, err
	}

	sig, err := ParseSignature(pin)
	if err != nil {
		return nil, err
	}

	if _, err := pin.AlignPosition(certAlign); err != nil {
		return nil, err
	}

	issuerBuf := make([]byte, issuerSize)
	if _, err := io.ReadFull(pin, issuerBuf); err != nil {
		return nil, err
	}

	var keyKindBuf [4]byte
	if _, err := io.ReadFull(pin, keyKindBuf[:]); err != nil {
		return nil, err
	}
	keyKind := KeyKind(binary.BigEndian.Uint32(keyKindBuf[:]))

	identityBuf := make([]byte, identitySize)
	if _, err := io.ReadFull(pin, identityBuf); err != nil {
		return nil, err
	}

	var keyIDBuf [4]byte
	if _, err := io.ReadFull(pin, keyIDBuf[:]); err != nil {
		return nil, err
	}

	key, err := ParseKeyValue(pin, keyKind)
	if err != nil {
		return nil, err
	}

	return &Certificate{
		Signature: *sig,
		Issuer:    streamio.ReadPaddedString(issuerBuf),
		KeyKind:   keyKind,
		Identity:  streamio.ReadPaddedString(identityBuf),
		KeyID:     binary.BigEndian.Uint32(keyIDBuf[:]),
		Key:       *key,
	}, nil
}

// Dump writes c starting at stream's current position, aligning
// after the signature body exactly as Parse expects to find it.
func (c *Certificate) Dump(stream io.ReadWriteSeeker) error {
	pin, err := streamio.NewPin(stream)
	if err != nil {
		return err
	}

	if err := c.Signature.Dump(pin); err != nil {
		return err
	}
	if _, err := pin.AlignZeroed(certAlign); err != nil {
		return err
	}

	if _, err := pin.Write(streamio.WritePaddedString(c.Issuer, issuerSize)); err != nil {
		return err
	}

	var keyKindBuf [4]byte
	binary.BigEndian.PutUint32(keyKindBuf[:], uint32(c.KeyKind))
	if _, err := pin.Write(keyKindBuf[:]); err != nil {
		return err
	}

	if _, err := pin.Write(streamio.WritePaddedString(c.Identity, identitySize)); err != nil {
		return err
	}

	var keyIDBuf [4]byte
	binary.BigEndian.PutUint32(keyIDBuf[:], c.KeyID)
	if _, err := pin.Write(keyIDBuf[:]); err != nil {
		return err
	}

	return c.Key.Dump(pin)
}

// Size is the certificate's exact on-wire length, including the
// post-signature alignment pad but not the chain-level 64-byte pad
// between certificates.
func (c *Certificate) Size() int64 {
	afterSig := streamio.Align64(uint64(c.Signature.Size()))
	return int64(afterSig) + issuerSize + 4 + identitySize + 4 + int64(len(c.Key.Body))
}
