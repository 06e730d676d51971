package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
)

var ErrRNGUnavailable = errors.New("secure random source unavailable")

// Source is a stream of uniformly random 64-bit values.
type Source interface {
	Uint64() uint64
}

const (
	bufferSize = 256
	// rekeyInterval is the number of keystream bytes produced under one key.
	rekeyInterval = 1 << 20
)

// ChaChaSource is a CSPRNG built on the ChaCha20 keystream. It is seeded once
// from an entropy reader and re-keys itself from its own output. It is not
// safe for concurrent use.
type ChaChaSource struct {
	cipher   *chacha20.Cipher
	buf      [bufferSize]byte
	off      int
	produced int
}

// NewSystemSource seeds a ChaChaSource from the operating system.
func NewSystemSource() (*ChaChaSource, error) {
	return NewSource(rand.Reader)
}

// NewSource reads a 256-bit seed from entropy and returns a ready source.
func NewSource(entropy io.Reader) (*ChaChaSource, error) {
	var seed [chacha20.KeySize]byte
	if _, err := io.ReadFull(entropy, seed[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRNGUnavailable, err)
	}
	defer clear(seed[:])

	s := &ChaChaSource{cipher: newCipher(seed[:])}
	s.off = bufferSize
	return s, nil
}

// Uint64 returns the next 64 bits of keystream.
func (s *ChaChaSource) Uint64() uint64 {
	if s.off+8 > bufferSize {
		s.refill()
	}
	b := s.buf[s.off : s.off+8]
	v := binary.LittleEndian.Uint64(b)
	clear(b)
	s.off += 8
	return v
}

func (s *ChaChaSource) refill() {
	if s.produced >= rekeyInterval {
		s.rekey()
	}
	clear(s.buf[:])
	s.cipher.XORKeyStream(s.buf[:], s.buf[:])
	s.produced += bufferSize
	s.off = 0
}

// rekey replaces the key with fresh keystream so earlier output cannot be
// recomputed from the current state.
func (s *ChaChaSource) rekey() {
	var key [chacha20.KeySize]byte
	s.cipher.XORKeyStream(key[:], key[:])
	s.cipher = newCipher(key[:])
	clear(key[:])
	s.produced = 0
}

func newCipher(key []byte) *chacha20.Cipher {
	var nonce [chacha20.NonceSize]byte
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce[:])
	if err != nil {
		// Only reachable with a wrong key or nonce size.
		panic(fmt.Sprintf("crypto: chacha20 setup: %v", err))
	}
	return c
}

// Uniform returns a value in [0, n) drawn without modulo bias. Draws below
// 2^64 mod n are rejected so the accepted range is a multiple of n.
// It panics if n <= 0.
func Uniform(src Source, n int) int {
	if n <= 0 {
		panic("crypto: Uniform called with non-positive bound")
	}
	bound := uint64(n)
	threshold := -bound % bound
	for {
		v := src.Uint64()
		if v >= threshold {
			return int(v % bound)
		}
	}
}
