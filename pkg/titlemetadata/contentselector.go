package titlemetadata

import "github.com/zelzip/niiebla/pkg/niberr"

// ContentSelector addresses one of a title metadata's content entries
// by physical position (its slot in ContentEntries), its declared
// index, or its id. Each method resolves with a first-match linear
// scan.
type ContentSelector struct {
	method contentSelectorMethod
}

type contentSelectorMethod struct {
	kind     contentSelectorKind
	position int
	index    uint16
	id       uint32
}

type contentSelectorKind int

const (
	selectByPosition contentSelectorKind = iota
	selectByIndex
	selectByID
)

// ByPosition selects the content entry at the given slot in
// ContentEntries.
func ByPosition(position int) ContentSelector {
	return ContentSelector{method: contentSelectorMethod{kind: selectByPosition, position: position}}
}

// ByIndex selects the content entry whose declared Index matches.
func ByIndex(index uint16) ContentSelector {
	return ContentSelector{method: contentSelectorMethod{kind: selectByIndex, index: index}}
}

// ByID selects the content entry whose ID matches.
func ByID(id uint32) ContentSelector {
	return ContentSelector{method: contentSelectorMethod{kind: selectByID, id: id}}
}

// ContentEntry resolves the selector against tmd, returning the
// matching entry.
func (s ContentSelector) ContentEntry(tmd *TitleMetadata) (ContentEntry, error) {
	pos, err := s.PhysicalPosition(tmd)
	if err != nil {
		return ContentEntry{}, err
	}
	return tmd.ContentEntries[pos], nil
}

// PhysicalPosition resolves the selector to a slot in
// tmd.ContentEntries.
func (s ContentSelector) PhysicalPosition(tmd *TitleMetadata) (int, error) {
	switch s.method.kind {
	case selectByPosition:
		if s.method.position < 0 || s.method.position >= len(tmd.ContentEntries) {
			return 0, niberr.ErrContentNotFound
		}
		return s.method.position, nil

	case selectByID:
		for i, e := range tmd.ContentEntries {
			if e.ID == s.method.id {
				return i, nil
			}
		}
		return 0, niberr.ErrContentNotFound

	case selectByIndex:
		for i, e := range tmd.ContentEntries {
			if e.Index == s.method.index {
				return i, nil
			}
		}
		return 0, niberr.ErrContentNotFound

	default:
		return 0, niberr.ErrContentNotFound
	}
}

// ID resolves the selector's target content entry's ID.
func (s ContentSelector) ID(tmd *TitleMetadata) (uint32, error) {
	if s.method.kind == selectByID {
		return s.method.id, nil
	}
	e, err := s.ContentEntry(tmd)
	if err != nil {
		return 0, err
	}
	return e.ID, nil
}

// Index resolves the selector's target content entry's declared
// Index.
func (s ContentSelector) Index(tmd *TitleMetadata) (uint16, error) {
	if s.method.kind == selectByIndex {
		return s.method.index, nil
	}
	e, err := s.ContentEntry(tmd)
	if err != nil {
		return 0, err
	}
	return e.Index, nil
}
