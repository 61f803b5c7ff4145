package titlemetadata

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/niberr"
)

// ContentEntryKind tags how a content chunk is used.
type ContentEntryKind uint16

const (
	ContentEntryNormal ContentEntryKind = 0x0001
	ContentEntryDLC    ContentEntryKind = 0x4001
	ContentEntryShared ContentEntryKind = 0x8001

	// The Wii U loader recognizes three additional "normal" content
	// kinds beyond the Wii's plain 0x0001.
	ContentEntryWiiUNormalA ContentEntryKind = 0x2001
	ContentEntryWiiUNormalB ContentEntryKind = 0x2003
	ContentEntryWiiUNormalC ContentEntryKind = 0x6003
)

func contentEntryKindFromIdentifier(identifier uint16) (ContentEntryKind, error) {
	switch ContentEntryKind(identifier) {
	case ContentEntryNormal, ContentEntryDLC, ContentEntryShared,
		ContentEntryWiiUNormalA, ContentEntryWiiUNormalB, ContentEntryWiiUNormalC:
		return ContentEntryKind(identifier), nil
	default:
		return 0, fmt.Errorf("%w: 0x%04x", niberr.ErrUnknownContentEntryKind, identifier)
	}
}

// ContentEntrySize is a content chunk entry's fixed on-wire size: id,
// index, kind, size, and a 20-byte SHA-1 hash.
const ContentEntrySize = 4 + 2 + 2 + 8 + 20

// ContentEntry describes one piece of a title's content: its on-disk
// id, its declared index, its kind, its decrypted size, and the SHA-1
// hash of its decrypted bytes.
type ContentEntry struct {
	ID    uint32
	Index uint16
	Kind  ContentEntryKind
	Size  uint64
	Hash  [20]byte
}

func parseContentEntry(r io.Reader) (ContentEntry, error) {
	var e ContentEntry

	var idBuf [4]byte
	if _, err := io.ReadFull(r, idBuf[:]); err != nil {
		return e, err
	}
	e.ID = binary.BigEndian.Uint32(idBuf[:])

	var indexBuf [2]byte
	if _, err := io.ReadFull(r, indexBuf[:]); err != nil {
		return e, err
	}
	e.Index = binary.BigEndian.Uint16(indexBuf[:])

	var kindBuf [2]byte
	if _, err := io.ReadFull(r, kindBuf[:]); err != nil {
		return e, err
	}
	kind, err := contentEntryKindFromIdentifier(binary.BigEndian.Uint16(kindBuf[:]))
	if err != nil {
		return e, err
	}
	e.Kind = kind

	var sizeBuf [8]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return e, err
	}
	e.Size = binary.BigEndian.Uint64(sizeBuf[:])

	if _, err := io.ReadFull(r, e.Hash[:]); err != nil {
		return e, err
	}

	return e, nil
}

func (e *ContentEntry) dump(w io.Writer) error {
	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], e.ID)
	if _, err := w.Write(idBuf[:]); err != nil {
		return err
	}

	var indexBuf [2]byte
	binary.BigEndian.PutUint16(indexBuf[:], e.Index)
	if _, err := w.Write(indexBuf[:]); err != nil {
		return err
	}

	var kindBuf [2]byte
	binary.BigEndian.PutUint16(kindBuf[:], uint16(e.Kind))
	if _, err := w.Write(kindBuf[:]); err != nil {
		return err
	}

	var sizeBuf [8]byte
	binary.BigEndian.PutUint64(sizeBuf[:], e.Size)
	if _, err := w.Write(sizeBuf[:]); err != nil {
		return err
	}

	_, err := w.Write(e.Hash[:])
	return err
}
