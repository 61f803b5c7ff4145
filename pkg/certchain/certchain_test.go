package certchain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zelzip/niiebla/pkg/streamio"
)

func sampleCertificate(kind SignatureKind, keyKind KeyKind) *Certificate {
	sigSize, _ := kind.bodySize()
	keySize, _ := keyKind.bodySize()
	return &Certificate{
		Signature: Signature{Kind: kind, Body: make([]byte, sigSize)},
		Issuer:    "Root",
		KeyKind:   keyKind,
		Identity:  "CA00000001",
		KeyID:     0xDEADBEEF,
		Key:       KeyValue{Kind: keyKind, Body: make([]byte, keySize)},
	}
}

func TestCertificateRoundTrip(t *testing.T) {
	cert := sampleCertificate(SignatureKindRSA2048, KeyKindRSA2048)
	cert.Key.Body[0] = 0x42

	s := streamio.NewMemStream(nil)
	require.NoError(t, cert.Dump(s))

	_, err := s.Seek(0, 0)
	require.NoError(t, err)

	got, err := ParseCertificate(s)
	require.NoError(t, err)
	require.Equal(t, cert.Issuer, got.Issuer)
	require.Equal(t, cert.Identity, got.Identity)
	require.Equal(t, cert.KeyID, got.KeyID)
	require.Equal(t, cert.Key.Body, got.Key.Body)
}

func TestParseSignatureRejectsUnknownKind(t *testing.T) {
	s := streamio.NewMemStream([]byte{0x00, 0x00, 0x00, 0x00})
	_, err := ParseSignature(s)
	require.Error(t, err)
}

func TestChainRoundTrip(t *testing.T) {
	var chain Chain
	chain.Certificates[0] = *sampleCertificate(SignatureKindRSA4096, KeyKindRSA2048)
	chain.Certificates[1] = *sampleCertificate(SignatureKindRSA2048, KeyKindRSA2048)
	chain.Certificates[2] = *sampleCertificate(SignatureKindRSA2048, KeyKindECCB233)
	chain.Certificates[0].Issuer = "Root"
	chain.Certificates[1].Issuer = "Root-CA00000001"
	chain.Certificates[1].Identity = "CA00000001"
	chain.Certificates[2].Issuer = "Root-CA00000001"
	chain.Certificates[2].Identity = "XS00000003"

	s := streamio.NewMemStream(nil)
	require.NoError(t, chain.Dump(s))

	require.Zero(t, len(s.Bytes())%64)

	_, err := s.Seek(0, 0)
	require.NoError(t, err)

	got, err := ParseChain(s)
	require.NoError(t, err)
	for i := range chain.Certificates {
		require.Equal(t, chain.Certificates[i].Issuer, got.Certificates[i].Issuer)
		require.Equal(t, chain.Certificates[i].Identity, got.Certificates[i].Identity)
	}
}
