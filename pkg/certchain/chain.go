package certchain

import (
	"io"

	"github.com/zelzip/niiebla/pkg/streamio"
)

// CertCount is the number of certificates an installable WAD's
// certificate chain always carries.
const CertCount = 3

// Chain is the ordered list of certificates in an installable WAD,
// each aligned to a 64-byte boundary relative to the chain's own
// start.
type Chain struct {
	Certificates [CertCount]Certificate
}

// ParseChain reads a Chain starting at stream's current position.
func ParseChain(stream io.ReadWriteSeeker) (*Chain, error) {
	pin, err := streamio.NewPin(stream)
	if err != nil {
		return nil, err
	}

	var chain Chain
	for i := 0; i < CertCount; i++ {
		if _, err := pin.AlignPosition(certAlign); err != nil {
			return nil, err
		}
		cert, err := ParseCertificate(pin)
		if err != nil {
			return nil, err
		}
		chain.Certificates[i] = *cert
	}
	return &chain, nil
}

// Dump writes c starting at stream's current position (expected to
// be the chain's own 64-byte-aligned origin, typically offset 64 of
// an installable WAD). After the last certificate it pads to the
// next 64-byte boundary and, matching the observed producer output,
// writes one explicit zero byte at align64(position)-1 rather than
// relying on the pad alone.
func (c *Chain) Dump(stream io.ReadWriteSeeker) error {
	pin, err := streamio.NewPin(stream)
	if err != nil {
		return err
	}

	for i := range c.Certificates {
		if _, err := pin.AlignZeroed(certAlign); err != nil {
			return err
		}
		if err := c.Certificates[i].Dump(pin); err != nil {
			return err
		}
	}

	return writeTrailingQuirkByte(pin)
}

// writeTrailingQuirkByte pads to the next 64-byte boundary and then
// overwrites the last byte before that boundary with an explicit
// zero, matching the installable-WAD producer's own certificate
// chain output. Without this, byte-identical round-trips of
// producer-written WADs fail on that one byte even though the pad
// was already zero.
func writeTrailingQuirkByte(pin *streamio.Pin) error {
	end, err := pin.AlignZeroed(certAlign)
	if err != nil {
		return err
	}
	if end == 0 {
		return nil
	}
	if _, err := pin.SeekFromPin(end - pin.Origin() - 1); err != nil {
		return err
	}
	if _, err := pin.Write([]byte{0}); err != nil {
		return err
	}
	_, err = pin.SeekFromPin(end - pin.Origin())
	return err
}

// Size is the chain's total on-wire size: every certificate's size
// summed, aligned to 64 bytes (the space between a certificate's end
// and the next certificate's 64-byte-aligned start is part of the
// chain, not the certificate).
func (c *Chain) Size() int64 {
	var total int64
	for i := range c.Certificates {
		total = int64(streamio.Align64(uint64(total))) + c.Certificates[i].Size()
	}
	return int64(streamio.Align64(uint64(total)))
}
