package aescbc

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

var testKey = [16]byte{0xEB, 0xE4, 0x2A, 0x22, 0x5E, 0x85, 0x93, 0xE4, 0x48, 0xD9, 0xC5, 0x45, 0x73, 0x81, 0xAA, 0xF7}

func TestEncryptDecryptRoundTripFromOffsetZero(t *testing.T) {
	var iv [16]byte
	iv[0] = 0x01

	plaintext := bytes.Repeat([]byte{0xCD}, 48)
	ciphertext, err := Encrypt(testKey, iv, plaintext)
	require.NoError(t, err)
	require.Len(t, ciphertext, 48)

	stream := New(bytes.NewReader(ciphertext), testKey, iv, int64(len(ciphertext)))
	got := make([]byte, len(plaintext))
	n, err := stream.Read(got)
	require.NoError(t, err)
	require.Equal(t, len(plaintext), n)
	require.Equal(t, plaintext, got)
}

func TestReadAlignedMidStreamIsCorrect(t *testing.T) {
	var iv [16]byte
	plaintext := make([]byte, 64)
	for i := range plaintext {
		plaintext[i] = byte(i)
	}
	ciphertext, err := Encrypt(testKey, iv, plaintext)
	require.NoError(t, err)

	stream := New(bytes.NewReader(ciphertext), testKey, iv, int64(len(ciphertext)))
	_, err = stream.Seek(32, 0)
	require.NoError(t, err)

	got := make([]byte, 16)
	n, err := stream.Read(got)
	require.NoError(t, err)
	require.Equal(t, 16, n)
	require.Equal(t, plaintext[32:48], got)
}

func TestReadShortensNearEndOfStream(t *testing.T) {
	var iv [16]byte
	plaintext := bytes.Repeat([]byte{0x42}, 16)
	ciphertext, err := Encrypt(testKey, iv, plaintext)
	require.NoError(t, err)

	stream := New(bytes.NewReader(ciphertext), testKey, iv, int64(len(ciphertext)))
	buf := make([]byte, 100)
	n, err := stream.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 16, n)

	n, err = stream.Read(buf)
	require.Equal(t, 0, n)
	require.ErrorIs(t, err, io.EOF)
}
