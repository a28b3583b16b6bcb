package token

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"

	"github.com/restopos/restopos/internal/apperror"
)

// RecuperationLen is the length of password recuperation tokens.
const RecuperationLen = 10

// Alphabet holds the 36 symbols tokens are made of.
var Alphabet = []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

const (
	// maxBufLen is the maximum length of a temporary buffer for random bytes.
	maxBufLen = 2048

	// minRegenBufLen is the minimum number of bytes requested after a short first read.
	minRegenBufLen = 16

	maxByteValue = 255
	byteRange    = 256
)

// source is swapped in tests to simulate a broken random source.
var source io.Reader = rand.Reader

// Generate returns a token of exactly length symbols from Alphabet.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", apperror.Invalid("length", "gt")
	}

	b, err := generate(source, length, Alphabet)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// GenerateRecuperationToken returns a RecuperationLen token.
func GenerateRecuperationToken() (string, error) {
	return Generate(RecuperationLen)
}

// estimatedBufLen returns how many random bytes are needed to get need accepted
// bytes when values above maxByte are rejected.
func estimatedBufLen(need, maxByte int) int {
	return int(math.Ceil(float64(need) * (maxByteValue / float64(maxByte))))
}

func generate(r io.Reader, length int, chars []byte) ([]byte, error) {
	clen := len(chars)
	if clen < 2 || clen > byteRange {
		return nil, fmt.Errorf("token: charset length %d out of range", clen)
	}

	// bytes above maxRb would bias the modulo towards the first symbols
	maxRb := maxByteValue - (byteRange % clen)

	bufLen := max(estimatedBufLen(length, maxRb), length)
	bufLen = min(bufLen, maxBufLen)

	buf := make([]byte, bufLen)
	out := make([]byte, length)

	var i int
	for {
		if _, err := io.ReadFull(r, buf[:bufLen]); err != nil {
			return nil, fmt.Errorf("token: reading random bytes: %w", err)
		}

		for _, rb := range buf[:bufLen] {
			c := int(rb)
			if c > maxRb {
				continue
			}

			out[i] = chars[c%clen]
			i++

			if i == length {
				return out, nil
			}
		}

		bufLen = estimatedBufLen(length-i, maxRb)
		if bufLen < minRegenBufLen && minRegenBufLen < cap(buf) {
			bufLen = minRegenBufLen
		}

		bufLen = min(bufLen, maxBufLen, cap(buf))
	}
}
