package secret

import (
	"encoding/base64"
	"errors"
	"math/bits"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrEmptyBlock reports a credential block whose payload decoded to nothing.
var ErrEmptyBlock = errors.New("decoded credential block is empty")

// ErrInvalidUTF8 reports a credential block that decoded to invalid UTF-8.
var ErrInvalidUTF8 = errors.New("decoded credential block is not valid UTF-8")

// decodeByte reverses the obfuscation applied to a single credential byte:
// rotate right one bit, then invert.
func decodeByte(b byte) byte {
	return ^bits.RotateLeft8(b, -1)
}

// encodeByte is the exact inverse of decodeByte: invert, then rotate left
// one bit.
func encodeByte(b byte) byte {
	return bits.RotateLeft8(^b, 1)
}

// DecodeBlock recovers the plaintext string from an encoded credential block.
// The block is a sequence of encoded-byte/padding-byte pairs; every second
// byte is a zero placeholder and is discarded. A trailing unpaired byte is
// dropped.
func DecodeBlock(block []byte) (string, error) {
	decoded := make([]byte, 0, len(block)/2)
	for i := 0; i+1 < len(block); i += 2 {
		decoded = append(decoded, decodeByte(block[i]))
	}
	if len(decoded) == 0 {
		return "", ErrEmptyBlock
	}
	if !utf8.Valid(decoded) {
		return "", ErrInvalidUTF8
	}
	return string(decoded), nil
}

// EncodeForTransport re-encodes a decoded secret so it can be passed to a
// child process as a command-line argument without exposing the plaintext in
// process listings. The string is expanded to UTF-16 little-endian byte
// pairs, each byte is run through the inverse transform, and the result is
// base64-encoded.
func EncodeForTransport(plain string) string {
	units := utf16.Encode([]rune(plain))
	encoded := make([]byte, 0, len(units)*2)
	for _, u := range units {
		encoded = append(encoded, encodeByte(byte(u)), encodeByte(byte(u>>8)))
	}
	return base64.StdEncoding.EncodeToString(encoded)
}
