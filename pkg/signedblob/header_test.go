package signedblob

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	h := &Header{SignatureKind: SignatureKindRSA2048}
	for i := range h.Signature {
		h.Signature[i] = byte(i)
	}

	var buf bytes.Buffer
	require.NoError(t, h.Dump(&buf))
	require.Equal(t, HeaderSize, buf.Len())

	got, err := Parse(&buf)
	require.NoError(t, err)
	require.Equal(t, h.SignatureKind, got.SignatureKind)
	require.Equal(t, h.Signature, got.Signature)
}

func TestParseRejectsUnknownSignatureKind(t *testing.T) {
	buf := make([]byte, HeaderSize)
	buf[3] = 0x99 // signature kind = 0x00000099, not RSA-2048

	_, err := Parse(bytes.NewReader(buf))
	require.Error(t, err)
}

func TestIssuerRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIssuer(&buf, "Root-CA00000001-CP0000000b"))
	require.Equal(t, IssuerSize, buf.Len())

	got, err := ReadIssuer(&buf)
	require.NoError(t, err)
	require.Equal(t, "Root-CA00000001-CP0000000b", got)
}
