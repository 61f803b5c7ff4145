package ticket

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zelzip/niiebla/pkg/aescbc"
	"github.com/zelzip/niiebla/pkg/signedblob"
)

func sampleTicket(t *testing.T) *Ticket {
	t.Helper()

	plainKey := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	titleID := [8]byte{0, 0, 0, 1, 0, 0, 0, 2}

	encrypted, err := aescbc.Encrypt(CommonKeyNormal.Bytes(), ivFromTitleID(titleID), plainKey[:])
	require.NoError(t, err)

	tk := &Ticket{
		Header:  signedblob.Header{SignatureKind: signedblob.SignatureKindRSA2048},
		Issuer:  "Root-CA00000001-XS00000003",
		Version: Version0,
		TitleID: titleID,
		CommonKeyKind: CommonKeyNormal,
		LimitEntries: [NumLimitEntries]LimitEntry{
			{Kind: LimitEntryNoLimit},
			{Kind: LimitEntryTimeLimit, Value: 60},
			{Kind: LimitEntryNoLimit},
			{Kind: LimitEntryNoLimit},
			{Kind: LimitEntryNoLimit},
			{Kind: LimitEntryNoLimit},
			{Kind: LimitEntryNoLimit},
			{Kind: LimitEntryNoLimit},
		},
	}
	copy(tk.EncryptedTitleKey[:], encrypted)
	return tk
}

func ivFromTitleID(titleID [8]byte) [16]byte {
	var iv [16]byte
	copy(iv[:8], titleID[:])
	return iv
}

func TestTicketRoundTrip(t *testing.T) {
	tk := sampleTicket(t)

	var buf bytes.Buffer
	require.NoError(t, tk.Dump(&buf))
	require.EqualValues(t, tk.Size(), buf.Len())

	got, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, tk.Issuer, got.Issuer)
	require.Equal(t, tk.TitleID, got.TitleID)
	require.Equal(t, tk.EncryptedTitleKey, got.EncryptedTitleKey)
	require.Equal(t, tk.LimitEntries, got.LimitEntries)
}

func TestDecryptTitleKeyUsesTitleIDWhenNoConsole(t *testing.T) {
	tk := sampleTicket(t)
	tk.ConsoleID = 0

	key, err := tk.DecryptTitleKey()
	require.NoError(t, err)
	require.Equal(t, [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, key)
}

func TestDecryptTitleKeyUsesTicketIDWhenConsoleBound(t *testing.T) {
	plainKey := [16]byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	ticketID := [8]byte{0xAA, 0, 0, 0, 0, 0, 0, 0x01}

	encrypted, err := aescbc.Encrypt(CommonKeyWiiU.Bytes(), ivFromTitleID(ticketID), plainKey[:])
	require.NoError(t, err)

	tk := sampleTicket(t)
	tk.ConsoleID = 0xDEADBEEF
	tk.TicketID = ticketID
	tk.CommonKeyKind = CommonKeyWiiU
	copy(tk.EncryptedTitleKey[:], encrypted)

	key, err := tk.DecryptTitleKey()
	require.NoError(t, err)
	require.Equal(t, plainKey, key)
}

func TestVersionFromNumberRejectsUnknown(t *testing.T) {
	_, err := VersionFromNumber(7)
	require.Error(t, err)
}

func TestCommonKeyFromIndexRejectsUnknown(t *testing.T) {
	_, err := CommonKeyFromIndex(9)
	require.Error(t, err)
}

func TestNewLimitEntryRejectsUnknownKind(t *testing.T) {
	_, err := NewLimitEntry(99, 0)
	require.Error(t, err)
}
