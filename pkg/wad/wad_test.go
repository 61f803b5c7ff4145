package wad

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zelzip/niiebla/pkg/aescbc"
	"github.com/zelzip/niiebla/pkg/certchain"
	"github.com/zelzip/niiebla/pkg/digest"
	"github.com/zelzip/niiebla/pkg/signedblob"
	"github.com/zelzip/niiebla/pkg/streamio"
	"github.com/zelzip/niiebla/pkg/ticket"
	"github.com/zelzip/niiebla/pkg/titlemetadata"
)

func sampleChain() *certchain.Chain {
	mk := func(sigKind certchain.SignatureKind, keyKind certchain.KeyKind, issuer, identity string) certchain.Certificate {
		sigSize := 256
		if sigKind == certchain.SignatureKindRSA4096 {
			sigSize = 512
		} else if sigKind == certchain.SignatureKindECC {
			sigSize = 60
		}
		keySize := 260
		if keyKind == certchain.KeyKindRSA4096 {
			keySize = 516
		} else if keyKind == certchain.KeyKindECCB233 {
			keySize = 60
		}
		return certchain.Certificate{
			Signature: certchain.Signature{Kind: sigKind, Body: make([]byte, sigSize)},
			Issuer:    issuer,
			KeyKind:   keyKind,
			Identity:  identity,
			KeyID:     1,
			Key:       certchain.KeyValue{Kind: keyKind, Body: make([]byte, keySize)},
		}
	}

	var chain certchain.Chain
	chain.Certificates[0] = mk(certchain.SignatureKindRSA4096, certchain.KeyKindRSA2048, "Root", "CA00000001")
	chain.Certificates[1] = mk(certchain.SignatureKindRSA2048, certchain.KeyKindRSA2048, "Root-CA00000001", "XS00000003")
	chain.Certificates[2] = mk(certchain.SignatureKindRSA2048, certchain.KeyKindECCB233, "Root-CA00000001", "CP00000004")
	return &chain
}

func sampleTicketAndTMD(t *testing.T, plainContent []byte) (*ticket.Ticket, *titlemetadata.TitleMetadata, [][]byte) {
	t.Helper()

	titleID := [8]byte{0, 0, 0, 1, 0, 0, 0, 2}
	plainKey := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	var iv [16]byte
	copy(iv[:8], titleID[:])
	encryptedKey, err := aescbc.Encrypt(ticket.CommonKeyNormal.Bytes(), iv, plainKey[:])
	require.NoError(t, err)

	tk := &ticket.Ticket{
		Header:        signedblob.Header{SignatureKind: signedblob.SignatureKindRSA2048},
		Issuer:        "Root-CA00000001-XS00000003",
		Version:       ticket.Version0,
		TitleID:       titleID,
		CommonKeyKind: ticket.CommonKeyNormal,
	}
	copy(tk.EncryptedTitleKey[:], encryptedKey)

	contentCiphertext, err := aescbc.Encrypt(plainKey, ticket.ContentIV(0), plainContent)
	require.NoError(t, err)

	tmd := &titlemetadata.TitleMetadata{
		Header:   signedblob.Header{SignatureKind: signedblob.SignatureKindRSA2048},
		Issuer:   "Root-CA00000001-CP00000004",
		TitleID:  titlemetadata.TitleID(0x0001000248414241),
		Platform: titlemetadata.PlatformWii,
		Payload:  &titlemetadata.WiiPlatformPayload{Region: titlemetadata.RegionUSA},
		ContentEntries: []titlemetadata.ContentEntry{
			{ID: 0, Index: 0, Kind: titlemetadata.ContentEntryNormal, Size: uint64(len(plainContent)),
				Hash: [20]byte(digest.Sum(digest.SHA1, plainContent))},
		},
	}

	return tk, tmd, [][]byte{contentCiphertext}
}

func TestBuildAndParseRoundTrip(t *testing.T) {
	plainContent := []byte("hello from a Wii channel's encrypted content\x00\x00\x00")
	tk, tmd, content := sampleTicketAndTMD(t, plainContent)
	chain := sampleChain()

	s := streamio.NewMemStream(nil)
	w, err := Build(s, KindNormal, 0, chain, tk, tmd, content)
	require.NoError(t, err)
	require.Zero(t, len(s.Bytes())%SectionBoundary)

	_, err = s.Seek(0, 0)
	require.NoError(t, err)

	parsed, err := Parse(s)
	require.NoError(t, err)
	require.Equal(t, w.Header.CertificateChainSize, parsed.Header.CertificateChainSize)
	require.Equal(t, w.Header.TicketSize, parsed.Header.TicketSize)
	require.Equal(t, w.Header.TitleMetadataSize, parsed.Header.TitleMetadataSize)

	gotChain, err := parsed.CertificateChain(s)
	require.NoError(t, err)
	require.Equal(t, chain.Certificates[0].Issuer, gotChain.Certificates[0].Issuer)

	gotTicket, err := parsed.Ticket(s)
	require.NoError(t, err)
	require.Equal(t, tk.TitleID, gotTicket.TitleID)

	gotTMD, err := parsed.TitleMetadata(s)
	require.NoError(t, err)
	require.Equal(t, tmd.TitleID, gotTMD.TitleID)
	require.Len(t, gotTMD.ContentEntries, 1)

	view, err := parsed.DecryptedContentView(s, 0)
	require.NoError(t, err)
	got := make([]byte, len(plainContent))
	_, err = view.Read(got)
	require.NoError(t, err)
	require.Equal(t, plainContent, got)
}

func TestWriteContentSafeUpdatesSizeAndData(t *testing.T) {
	plainContent := make([]byte, 64)
	for i := range plainContent {
		plainContent[i] = byte(i)
	}
	tk, tmd, content := sampleTicketAndTMD(t, plainContent)
	chain := sampleChain()

	s := streamio.NewMemStream(nil)
	w, err := Build(s, KindNormal, 0, chain, tk, tmd, content)
	require.NoError(t, err)

	newContent := []byte("replacement content, shorter")
	require.NoError(t, w.WriteContentSafe(s, 0, newContent, nil, nil))

	_, err = s.Seek(0, 0)
	require.NoError(t, err)
	parsed, err := Parse(s)
	require.NoError(t, err)

	gotTMD, err := parsed.TitleMetadata(s)
	require.NoError(t, err)
	require.EqualValues(t, len(newContent), gotTMD.ContentEntries[0].Size)
	require.Equal(t, digest.Sum(digest.SHA1, newContent), gotTMD.ContentEntries[0].Hash[:])

	view, err := parsed.DecryptedContentView(s, 0)
	require.NoError(t, err)
	got := make([]byte, len(newContent))
	_, err = view.Read(got)
	require.NoError(t, err)
	require.Equal(t, newContent, got)
}

func TestAddContentAppendsEntryAndData(t *testing.T) {
	plainContent := []byte("original content")
	tk, tmd, content := sampleTicketAndTMD(t, plainContent)
	chain := sampleChain()

	s := streamio.NewMemStream(nil)
	w, err := Build(s, KindNormal, 0, chain, tk, tmd, content)
	require.NoError(t, err)

	newData := []byte("freshly added content chunk")
	require.NoError(t, w.AddContent(s, 1, 1, titlemetadata.ContentEntryNormal, newData))

	_, err = s.Seek(0, 0)
	require.NoError(t, err)
	parsed, err := Parse(s)
	require.NoError(t, err)

	gotTMD, err := parsed.TitleMetadata(s)
	require.NoError(t, err)
	require.Len(t, gotTMD.ContentEntries, 2)
	require.EqualValues(t, 1, gotTMD.ContentEntries[1].ID)
	require.EqualValues(t, len(newData), gotTMD.ContentEntries[1].Size)
	require.Equal(t, digest.Sum(digest.SHA1, newData), gotTMD.ContentEntries[1].Hash[:])

	view, err := parsed.DecryptedContentView(s, 1)
	require.NoError(t, err)
	got := make([]byte, len(newData))
	_, err = view.Read(got)
	require.NoError(t, err)
	require.Equal(t, newData, got)

	firstView, err := parsed.DecryptedContentView(s, 0)
	require.NoError(t, err)
	gotFirst := make([]byte, len(plainContent))
	_, err = firstView.Read(gotFirst)
	require.NoError(t, err)
	require.Equal(t, plainContent, gotFirst)
}

func TestRemoveContentCollapsesRegion(t *testing.T) {
	plainContent := []byte("content that will be removed")
	tk, tmd, content := sampleTicketAndTMD(t, plainContent)
	chain := sampleChain()

	s := streamio.NewMemStream(nil)
	w, err := Build(s, KindNormal, 0, chain, tk, tmd, content)
	require.NoError(t, err)

	trailingData := []byte("trailing content that survives the removal")
	require.NoError(t, w.AddContent(s, 1, 1, titlemetadata.ContentEntryNormal, trailingData))

	require.NoError(t, w.RemoveContent(s, titlemetadata.ByPosition(0)))

	_, err = s.Seek(0, 0)
	require.NoError(t, err)
	parsed, err := Parse(s)
	require.NoError(t, err)

	gotTMD, err := parsed.TitleMetadata(s)
	require.NoError(t, err)
	require.Len(t, gotTMD.ContentEntries, 1)
	require.EqualValues(t, 1, gotTMD.ContentEntries[0].ID)

	view, err := parsed.DecryptedContentView(s, 0)
	require.NoError(t, err)
	got := make([]byte, len(trailingData))
	_, err = view.Read(got)
	require.NoError(t, err)
	require.Equal(t, trailingData, got)
}

func TestKindFromBytesRejectsUnknownMagic(t *testing.T) {
	buf := []byte{0, 0, 0, 0x20, 'x', 'x', 0, 0}
	buf = append(buf, make([]byte, HeaderSize-len(buf))...)
	_, err := ParseHeader(streamio.NewMemStream(buf))
	require.Error(t, err)
}
