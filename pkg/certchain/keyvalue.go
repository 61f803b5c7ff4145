package certchain

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/niberr"
)

// KeyKind tags a KeyValue's variant.
type KeyKind uint32

const (
	KeyKindRSA4096  KeyKind = 0x00000000
	KeyKindRSA2048  KeyKind = 0x00000001
	KeyKindECCB233  KeyKind = 0x00000002
)

// bodySize returns the key-value body length for a known kind. The
// certificate's key_kind_id is read as its own field ahead of this
// body, so the body does not repeat the tag.
func (k KeyKind) bodySize() (int, error) {
	switch k {
	case KeyKindRSA4096:
		return 516, nil
	case KeyKindRSA2048:
		return 260, nil
	case KeyKindECCB233:
		return 60, nil
	default:
		return 0, fmt.Errorf("%w: 0x%08x", niberr.ErrUnknownKeyKind, uint32(k))
	}
}

// KeyValue is a certificate's tagged public key. Like Signature, the
// large RSA-4096 arm is heap-indirected.
type KeyValue struct {
	Kind KeyKind
	Body []byte
}

// ParseKeyValue reads kind (already decoded by the caller as the
// certificate's key_kind_id field) and the kind-specific body that
// follows identity/key_id in a Certificate.
func ParseKeyValue(r io.Reader, kind KeyKind) (*KeyValue, error) {
	size, err := kind.bodySize()
	if err != nil {
		return nil, err
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return &KeyValue{Kind: kind, Body: body}, nil
}

// Dump writes only the key-value body; the kind is written by the
// enclosing Certificate as key_kind_id.
func (kv *KeyValue) Dump(w io.Writer) error {
	_, err := w.Write(kv.Body)
	return err
}

// KindBytes returns the 4-byte big-endian encoding of kv.Kind, for
// callers serializing the certificate's key_kind_id field.
func (kv *KeyValue) KindBytes() [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(kv.Kind))
	return b
}
