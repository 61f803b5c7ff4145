package wad

import (
	"io"

	"github.com/zelzip/niiebla/pkg/aescbc"
	"github.com/zelzip/niiebla/pkg/digest"
	"github.com/zelzip/niiebla/pkg/niberr"
	"github.com/zelzip/niiebla/pkg/streamio"
	"github.com/zelzip/niiebla/pkg/ticket"
	"github.com/zelzip/niiebla/pkg/titlemetadata"
)

// ContentOffsetAt resolves the absolute byte offset of the content
// entry at physicalPosition, by summing the 64-byte-aligned sizes of
// every entry before it.
func (w *Wad) ContentOffsetAt(stream io.ReadWriteSeeker, physicalPosition int) (int64, error) {
	tmd, err := w.TitleMetadata(stream)
	if err != nil {
		return 0, err
	}
	if physicalPosition < 0 || physicalPosition >= len(tmd.ContentEntries) {
		return 0, niberr.ErrContentNotFound
	}

	offset := w.ContentOffset()
	for i := 0; i < physicalPosition; i++ {
		offset += int64(streamio.Align64(tmd.ContentEntries[i].Size))
	}
	return offset, nil
}

// EncryptedContentView opens a view over the raw ciphertext
// of the content entry at physicalPosition.
func (w *Wad) EncryptedContentView(stream io.ReadWriteSeeker, physicalPosition int) (*streamio.View, error) {
	tmd, err := w.TitleMetadata(stream)
	if err != nil {
		return nil, err
	}

	offset, err := w.ContentOffsetAt(stream, physicalPosition)
	if err != nil {
		return nil, err
	}

	entry := tmd.ContentEntries[physicalPosition]
	// The view covers the ciphertext's 16-byte-block-padded extent,
	// not the entry's plain declared size, since AES-CBC decryption
	// needs the whole trailing block even when the content's size
	// isn't itself a multiple of 16.
	ciphertextLen := int64(streamio.Align(entry.Size, 16))
	return streamio.NewViewAt(stream, offset, ciphertextLen), nil
}

// DecryptedContentView opens a lazily-decrypting view over the
// content entry at physicalPosition, using the WAD's own ticket for
// the title key. No caching is performed; wrap the result in a
// bufio.Reader for repeated small reads.
func (w *Wad) DecryptedContentView(stream io.ReadWriteSeeker, physicalPosition int) (*aescbc.Stream, error) {
	tk, err := w.Ticket(stream)
	if err != nil {
		return nil, err
	}
	tmd, err := w.TitleMetadata(stream)
	if err != nil {
		return nil, err
	}

	view, err := w.EncryptedContentView(stream, physicalPosition)
	if err != nil {
		return nil, err
	}

	entry := tmd.ContentEntries[physicalPosition]
	return tk.ContentStream(view, entry.Index, int64(entry.Size))
}

// WriteContentRaw re-encrypts newData and writes it at
// physicalPosition's offset, updating the entry's size and hash in the
// title metadata (and, optionally, its index/id) and the in-memory
// header's title metadata size. It does not update the header's
// content size or rewrite the header. Data after this content may be
// left unaligned or stale; WriteContentSafe should usually be
// preferred.
func (w *Wad) WriteContentRaw(stream io.ReadWriteSeeker, physicalPosition int, newData []byte, newIndex *uint16, newID *uint32) error {
	// Pinned at offset 0 so AlignZeroed pads to absolute 64-byte
	// section boundaries.
	pin, err := streamio.NewPinAt(stream, 0)
	if err != nil {
		return err
	}

	tk, err := w.Ticket(pin)
	if err != nil {
		return err
	}
	tmd, err := w.TitleMetadata(pin)
	if err != nil {
		return err
	}
	if physicalPosition < 0 || physicalPosition >= len(tmd.ContentEntries) {
		return niberr.ErrContentNotFound
	}

	entry := &tmd.ContentEntries[physicalPosition]
	if newIndex != nil {
		entry.Index = *newIndex
	}
	if newID != nil {
		entry.ID = *newID
	}
	entry.Size = uint64(len(newData))
	sum := digest.Sum(digest.ForFormatVersion(tmd.FormatVersion), newData)
	copy(entry.Hash[:], sum)

	if _, err := pin.SeekFromPin(w.TitleMetadataOffset() - pin.Origin()); err != nil {
		return err
	}
	if err := tmd.Dump(pin); err != nil {
		return err
	}
	if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
		return err
	}
	w.Header.TitleMetadataSize = uint32(tmd.Size())

	offset, err := w.ContentOffsetAt(pin, physicalPosition)
	if err != nil {
		return err
	}
	if _, err := pin.SeekFromPin(offset - pin.Origin()); err != nil {
		return err
	}

	titleKey, err := tk.DecryptTitleKey()
	if err != nil {
		return err
	}
	ciphertext, err := aescbc.Encrypt(titleKey, ticket.ContentIV(entry.Index), newData)
	if err != nil {
		return err
	}
	if _, err := pin.Write(ciphertext); err != nil {
		return err
	}
	_, err = pin.AlignZeroed(SectionBoundary)
	return err
}

// WriteContentSafe behaves like WriteContentRaw but first snapshots
// every content entry physically after physicalPosition into memory
// and rewrites them afterward, so the rest of the content region
// stays intact and 64-byte aligned even though the edited content's
// size changed.
func (w *Wad) WriteContentSafe(stream io.ReadWriteSeeker, physicalPosition int, newData []byte, newIndex *uint16, newID *uint32) error {
	tmd, err := w.TitleMetadata(stream)
	if err != nil {
		return err
	}

	trailing := make([][]byte, 0, len(tmd.ContentEntries)-physicalPosition-1)
	for pos := physicalPosition + 1; pos < len(tmd.ContentEntries); pos++ {
		view, err := w.EncryptedContentView(stream, pos)
		if err != nil {
			return err
		}
		data, err := streamio.ReadAll(view)
		if err != nil {
			return err
		}
		trailing = append(trailing, data)
	}

	if err := w.WriteContentRaw(stream, physicalPosition, newData, newIndex, newID); err != nil {
		return err
	}

	pin, err := streamio.NewPin(stream)
	if err != nil {
		return err
	}
	for _, data := range trailing {
		if _, err := pin.Write(data); err != nil {
			return err
		}
		if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
			return err
		}
	}

	totalSize := uint32(0)
	updatedTMD, err := w.TitleMetadata(pin)
	if err != nil {
		return err
	}
	for i := range updatedTMD.ContentEntries {
		totalSize += uint32(streamio.Align64(updatedTMD.ContentEntries[i].Size))
	}
	w.Header.ContentSize = totalSize

	if _, err := pin.SeekFromPin(-pin.Origin()); err != nil {
		return err
	}
	return w.Header.Dump(pin)
}

// AddContent appends a new content entry to the title metadata and
// writes its encrypted bytes immediately after the current last
// content chunk. The new entry's id, index, and kind are as given;
// its hash is computed from newData using the digest algorithm the
// title metadata's format version calls for.
func (w *Wad) AddContent(stream io.ReadWriteSeeker, id uint32, index uint16, kind titlemetadata.ContentEntryKind, newData []byte) error {
	// Pinned at offset 0 so AlignZeroed pads to absolute 64-byte
	// section boundaries.
	pin, err := streamio.NewPinAt(stream, 0)
	if err != nil {
		return err
	}

	tk, err := w.Ticket(pin)
	if err != nil {
		return err
	}
	tmd, err := w.TitleMetadata(pin)
	if err != nil {
		return err
	}

	newPosition := len(tmd.ContentEntries)
	sum := digest.Sum(digest.ForFormatVersion(tmd.FormatVersion), newData)
	entry := titlemetadata.ContentEntry{ID: id, Index: index, Kind: kind, Size: uint64(len(newData))}
	copy(entry.Hash[:], sum)
	tmd.ContentEntries = append(tmd.ContentEntries, entry)

	if _, err := pin.SeekFromPin(w.TitleMetadataOffset() - pin.Origin()); err != nil {
		return err
	}
	if err := tmd.Dump(pin); err != nil {
		return err
	}
	if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
		return err
	}
	w.Header.TitleMetadataSize = uint32(tmd.Size())

	offset, err := w.ContentOffsetAt(pin, newPosition)
	if err != nil {
		return err
	}
	if _, err := pin.SeekFromPin(offset - pin.Origin()); err != nil {
		return err
	}

	titleKey, err := tk.DecryptTitleKey()
	if err != nil {
		return err
	}
	ciphertext, err := aescbc.Encrypt(titleKey, ticket.ContentIV(index), newData)
	if err != nil {
		return err
	}
	if _, err := pin.Write(ciphertext); err != nil {
		return err
	}
	if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
		return err
	}

	w.Header.ContentSize += uint32(streamio.Align64(entry.Size))

	if _, err := pin.SeekFromPin(-pin.Origin()); err != nil {
		return err
	}
	return w.Header.Dump(pin)
}

// RemoveContent deletes the content entry selector resolves to,
// collapsing the content region so every later entry shifts down to
// fill the gap.
func (w *Wad) RemoveContent(stream io.ReadWriteSeeker, selector titlemetadata.ContentSelector) error {
	tmd, err := w.TitleMetadata(stream)
	if err != nil {
		return err
	}

	position, err := selector.PhysicalPosition(tmd)
	if err != nil {
		return err
	}

	trailing := make([][]byte, 0, len(tmd.ContentEntries)-position-1)
	for pos := position + 1; pos < len(tmd.ContentEntries); pos++ {
		view, err := w.EncryptedContentView(stream, pos)
		if err != nil {
			return err
		}
		data, err := streamio.ReadAll(view)
		if err != nil {
			return err
		}
		trailing = append(trailing, data)
	}

	// Pinned at offset 0 so AlignZeroed pads to absolute 64-byte
	// section boundaries.
	pin, err := streamio.NewPinAt(stream, 0)
	if err != nil {
		return err
	}

	removedSize := tmd.ContentEntries[position].Size
	tmd.ContentEntries = append(tmd.ContentEntries[:position], tmd.ContentEntries[position+1:]...)

	if _, err := pin.SeekFromPin(w.TitleMetadataOffset() - pin.Origin()); err != nil {
		return err
	}
	if err := tmd.Dump(pin); err != nil {
		return err
	}
	if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
		return err
	}
	w.Header.TitleMetadataSize = uint32(tmd.Size())

	offset, err := w.ContentOffsetAt(pin, position)
	if err != nil {
		// position now equals len(ContentEntries) when the removed
		// entry was the last one; nothing trailing to restore.
		if position != len(tmd.ContentEntries) {
			return err
		}
		offset = w.ContentOffset()
		for i := range tmd.ContentEntries {
			offset += int64(streamio.Align64(tmd.ContentEntries[i].Size))
		}
	}
	if _, err := pin.SeekFromPin(offset - pin.Origin()); err != nil {
		return err
	}
	for _, data := range trailing {
		if _, err := pin.Write(data); err != nil {
			return err
		}
		if _, err := pin.AlignZeroed(SectionBoundary); err != nil {
			return err
		}
	}

	w.Header.ContentSize -= uint32(streamio.Align64(removedSize))

	if _, err := pin.SeekFromPin(-pin.Origin()); err != nil {
		return err
	}
	return w.Header.Dump(pin)
}

// WriteContentSafeAndTrim behaves like WriteContentSafe and then
// truncates the file to the new logical end of the content region,
// removing any leftover trailing bytes from a previously larger WAD.
func (w *Wad) WriteContentSafeAndTrim(file interface {
	io.ReadWriteSeeker
	Truncate(int64) error
}, physicalPosition int, newData []byte, newIndex *uint16, newID *uint32) error {
	if err := w.WriteContentSafe(file, physicalPosition, newData, newIndex, newID); err != nil {
		return err
	}

	tmd, err := w.TitleMetadata(file)
	if err != nil {
		return err
	}

	last := len(tmd.ContentEntries) - 1
	lastOffset, err := w.ContentOffsetAt(file, last)
	if err != nil {
		return err
	}
	end := streamio.Align64(uint64(lastOffset) + tmd.ContentEntries[last].Size)

	return file.Truncate(int64(end))
}
