package titlemetadata

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zelzip/niiebla/pkg/signedblob"
)

func sampleTMD() *TitleMetadata {
	return &TitleMetadata{
		Header:               signedblob.Header{SignatureKind: signedblob.SignatureKindRSA2048},
		Issuer:               "Root-CA00000001-CP00000004",
		FormatVersion:        0,
		TitleID:              TitleID(0x0001000248414241),
		Platform:             PlatformWii,
		GroupID:              0x0001,
		Payload:              &WiiPlatformPayload{Region: RegionUSA},
		FullPPCAccessAllowed: true,
		DVDAccessAllowed:     true,
		TitleVersion:         3,
		BootContentIndex:     0,
		ContentEntries: []ContentEntry{
			{ID: 0, Index: 0, Kind: ContentEntryNormal, Size: 1024},
			{ID: 1, Index: 1, Kind: ContentEntryShared, Size: 2048},
		},
	}
}

func TestTitleMetadataRoundTrip(t *testing.T) {
	tmd := sampleTMD()

	var buf bytes.Buffer
	require.NoError(t, tmd.Dump(&buf))
	require.EqualValues(t, tmd.Size(), buf.Len())

	got, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Equal(t, tmd.Issuer, got.Issuer)
	require.Equal(t, tmd.TitleID, got.TitleID)
	require.Equal(t, tmd.Platform, got.Platform)

	wantRegion, err := tmd.Region()
	require.NoError(t, err)
	gotRegion, err := got.Region()
	require.NoError(t, err)
	require.Equal(t, wantRegion, gotRegion)

	require.True(t, got.FullPPCAccessAllowed)
	require.True(t, got.DVDAccessAllowed)
	require.Nil(t, got.IOSOrBoot2TitleID)
	require.Len(t, got.ContentEntries, 2)
	require.Equal(t, tmd.ContentEntries, got.ContentEntries)
}

func TestTitleMetadataRoundTripWithIOSTitleID(t *testing.T) {
	tmd := sampleTMD()
	iosID := TitleID(0x0000000100000038)
	tmd.IOSOrBoot2TitleID = &iosID

	var buf bytes.Buffer
	require.NoError(t, tmd.Dump(&buf))

	got, err := Parse(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.NotNil(t, got.IOSOrBoot2TitleID)
	require.Equal(t, iosID, *got.IOSOrBoot2TitleID)
}

func TestParseRejectsUnknownPlatform(t *testing.T) {
	tmd := sampleTMD()
	tmd.Platform = Platform(0xFFFFFFFF)

	var buf bytes.Buffer
	// Dump doesn't validate the platform tag, only Parse does, so
	// dumping with an unknown tag yields the bytes Parse must reject.
	require.NoError(t, tmd.Dump(&buf))

	_, err := Parse(bytes.NewReader(buf.Bytes()))
	require.Error(t, err)
}

func TestContentSelectorByID(t *testing.T) {
	tmd := sampleTMD()
	sel := ByID(1)

	entry, err := sel.ContentEntry(tmd)
	require.NoError(t, err)
	require.Equal(t, uint16(1), entry.Index)

	pos, err := sel.PhysicalPosition(tmd)
	require.NoError(t, err)
	require.Equal(t, 1, pos)
}

func TestContentSelectorByIndexNotFound(t *testing.T) {
	tmd := sampleTMD()
	_, err := ByIndex(99).ContentEntry(tmd)
	require.Error(t, err)
}

func TestTitleIDString(t *testing.T) {
	require.Equal(t, "System Menu (Wii)", TitleID(0x0000000100000002).String())
	require.Equal(t, "00010002-HABA", TitleID(0x0001000248414241).String())
}
