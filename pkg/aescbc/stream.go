// Package aescbc implements the AES-128-CBC, no-padding, fixed-IV
// stream adapter the WAD content views are built on.
//
// Each read decrypts the whole 16-byte blocks that enclose the
// requested range. A read starting in the first block is seeded with
// the supplied IV; a read starting later is seeded with the ciphertext
// block just before it, as CBC chaining requires, so reads at any
// offset (aligned or not) return the correct plaintext.
package aescbc

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"

	"github.com/zelzip/niiebla/pkg/niberr"
)

// Stream decrypts an AES-128-CBC ciphertext region lazily, exposing a
// Read+Seek interface over the plaintext. The underlying ciphertext
// is the plaintext length rounded up to a whole number of 16-byte
// blocks.
type Stream struct {
	under  io.ReadSeeker
	key    [16]byte
	iv     [16]byte
	pos    int64
	length int64
}

// New wraps under (an AES-CBC ciphertext region, typically a
// streamio.View) with the given key and IV. length is the plaintext
// length in bytes; under must hold at least that many bytes rounded up
// to a multiple of 16.
func New(under io.ReadSeeker, key, iv [16]byte, length int64) *Stream {
	return &Stream{under: under, key: key, iv: iv, length: length}
}

// Len reports the stream's plaintext length in bytes.
func (s *Stream) Len() int64 { return s.length }

// Read implements the block-enclosing decrypt algorithm from the
// content stream adapter design: it always decrypts the smallest
// run of whole 16-byte blocks that covers the requested range, seeded
// with the stream's IV for the first block or with the preceding
// ciphertext block otherwise, then slices out the bytes the caller
// actually asked for.
func (s *Stream) Read(p []byte) (int, error) {
	if s.pos >= s.length {
		return 0, io.EOF
	}

	n := int64(len(p))
	if s.pos+n > s.length {
		n = s.length - s.pos
	}

	p0 := s.pos - (s.pos % 16)
	p1 := s.pos + n
	if rem := p1 % 16; rem != 0 {
		p1 += 16 - rem
	}
	// The plaintext length s.length need not itself be a multiple of
	// 16 (a content entry's declared size rarely is); the on-disk
	// ciphertext is always padded to a whole number of blocks, so the
	// clamp below uses that padded length, not s.length directly.
	if paddedLength := s.length + (16-s.length%16)%16; p1 > paddedLength {
		p1 = paddedLength
	}
	ciphertextLen := p1 - p0

	iv := s.iv
	if p0 >= aes.BlockSize {
		if _, err := s.under.Seek(p0-aes.BlockSize, io.SeekStart); err != nil {
			return 0, err
		}
		if _, err := io.ReadFull(s.under, iv[:]); err != nil {
			return 0, err
		}
	} else if _, err := s.under.Seek(p0, io.SeekStart); err != nil {
		return 0, err
	}
	ciphertext := make([]byte, ciphertextLen)
	if _, err := io.ReadFull(s.under, ciphertext); err != nil {
		return 0, err
	}

	block, err := aes.NewCipher(s.key[:])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", niberr.ErrDecryptFailed, err)
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return 0, fmt.Errorf("%w: ciphertext not a multiple of the block size", niberr.ErrDecryptFailed)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv[:]).CryptBlocks(plaintext, ciphertext)

	start := s.pos - p0
	copied := copy(p[:n], plaintext[start:start+n])
	s.pos += int64(copied)
	return copied, nil
}

// Seek repositions the read cursor (plaintext and ciphertext offsets
// coincide). The underlying stream is only touched
// lazily, on the next Read.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		target = s.length + offset
	default:
		return 0, fmt.Errorf("aescbc: invalid whence %d", whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("aescbc: negative position")
	}
	s.pos = target
	return s.pos, nil
}

// Encrypt encrypts plaintext with AES-128-CBC under (key, iv),
// padding the input to a whole number of 16-byte blocks with zero
// bytes first. plaintext is left unchanged; it returns a new
// ciphertext slice, whose length is Align(len(plaintext), 16).
func Encrypt(key, iv [16]byte, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", niberr.ErrDecryptFailed, err)
	}

	padded := plaintext
	if rem := len(plaintext) % aes.BlockSize; rem != 0 {
		padded = make([]byte, len(plaintext)+(aes.BlockSize-rem))
		copy(padded, plaintext)
	}

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// DecryptBlock decrypts exactly one 16-byte block under (key, iv),
// used by the ticket's title-key derivation.
func DecryptBlock(key, iv [16]byte, block []byte) ([16]byte, error) {
	var out [16]byte
	if len(block) != aes.BlockSize {
		return out, fmt.Errorf("%w: expected a single 16-byte block", niberr.ErrDecryptFailed)
	}
	c, err := aes.NewCipher(key[:])
	if err != nil {
		return out, fmt.Errorf("%w: %v", niberr.ErrDecryptFailed, err)
	}
	cipher.NewCBCDecrypter(c, iv[:]).CryptBlocks(out[:], block)
	return out, nil
}
