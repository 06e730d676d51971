package crypto

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
)

// seqSource replays recorded draws and fails the test when exhausted.
type seqSource struct {
	t      *testing.T
	values []uint64
	calls  int
}

func (s *seqSource) Uint64() uint64 {
	if s.calls >= len(s.values) {
		s.t.Fatalf("seqSource exhausted after %d draws", s.calls)
	}
	v := s.values[s.calls]
	s.calls++
	return v
}

func newSeqSource(t *testing.T, values ...uint64) *seqSource {
	t.Helper()
	return &seqSource{t: t, values: values}
}

func TestUniformRejectsBiasedPrefix(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		draws     []uint64
		want      int
		wantCalls int
	}{
		// 2^64 mod 3 = 1, so 0 falls in the short bucket.
		{name: "n=3 rejects zero", n: 3, draws: []uint64{0, 5}, want: 2, wantCalls: 2},
		// 2^64 mod 10 = 6.
		{name: "n=10 rejects below six", n: 10, draws: []uint64{0, 1, 5, 6}, want: 6, wantCalls: 4},
		{name: "n=10 accepts max", n: 10, draws: []uint64{math.MaxUint64}, want: 5, wantCalls: 1},
		// 2^64 mod 26 = 16.
		{name: "n=26 rejects fifteen", n: 26, draws: []uint64{15, 16}, want: 16, wantCalls: 2},
		{name: "power of two never rejects", n: 64, draws: []uint64{0}, want: 0, wantCalls: 1},
		{name: "n=1", n: 1, draws: []uint64{12345}, want: 0, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newSeqSource(t, tt.draws...)
			got := Uniform(src, tt.n)
			if got != tt.want {
				t.Errorf("Uniform() = %d, want %d", got, tt.want)
			}
			if src.calls != tt.wantCalls {
				t.Errorf("Uniform() used %d draws, want %d", src.calls, tt.wantCalls)
			}
		})
	}
}

func TestUniformPanicsOnNonPositiveBound(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Uniform(0) should panic")
		}
	}()
	Uniform(newSeqSource(t, 1), 0)
}

// chiSquare returns the chi-square statistic of counts against a uniform
// distribution over len(counts) buckets.
func chiSquare(counts []int, total int) float64 {
	expected := float64(total) / float64(len(counts))
	var stat float64
	for _, c := range counts {
		d := float64(c) - expected
		stat += d * d / expected
	}
	return stat
}

func TestUniformNoModuloBias(t *testing.T) {
	src, err := NewSystemSource()
	if err != nil {
		t.Fatalf("NewSystemSource() unexpected error: %v", err)
	}

	const draws = 100000
	for _, n := range []int{3, 7, 10, 26, 62, 94} {
		counts := make([]int, n)
		for i := 0; i < draws; i++ {
			counts[Uniform(src, n)]++
		}

		df := float64(n - 1)
		limit := df + 6*math.Sqrt(2*df)
		if stat := chiSquare(counts, draws); stat > limit {
			t.Errorf("n=%d: chi-square %.1f exceeds %.1f", n, stat, limit)
		}
	}
}

func TestNewSourceRNGUnavailable(t *testing.T) {
	_, err := NewSource(bytes.NewReader(make([]byte, 8)))
	if !errors.Is(err, ErrRNGUnavailable) {
		t.Fatalf("NewSource() error = %v, want ErrRNGUnavailable", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("NewSource() should keep the underlying cause, got %v", err)
	}
}

func TestSourceDeterministicForSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)

	a, err := NewSource(bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("NewSource() unexpected error: %v", err)
	}
	b, err := NewSource(bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("NewSource() unexpected error: %v", err)
	}

	for i := 0; i < 1000; i++ {
		if va, vb := a.Uint64(), b.Uint64(); va != vb {
			t.Fatalf("draw %d differs: %d != %d", i, va, vb)
		}
	}
}

func TestSourceDiffersAcrossSeeds(t *testing.T) {
	a, _ := NewSystemSource()
	b, _ := NewSystemSource()

	same := 0
	for i := 0; i < 16; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same == 16 {
		t.Error("independently seeded sources produced identical streams")
	}
}

func TestSourceRekeys(t *testing.T) {
	src, err := NewSource(bytes.NewReader(make([]byte, 32)))
	if err != nil {
		t.Fatalf("NewSource() unexpected error: %v", err)
	}

	for i := 0; i < rekeyInterval/8; i++ {
		src.Uint64()
	}
	first := src.cipher
	if src.produced != rekeyInterval {
		t.Fatalf("produced = %d, want %d", src.produced, rekeyInterval)
	}

	src.Uint64()
	if src.cipher == first {
		t.Error("source did not re-key after rekeyInterval bytes")
	}
	if src.produced != bufferSize {
		t.Errorf("produced = %d, want %d after re-key", src.produced, bufferSize)
	}
}

// chacha20ZeroBlock is the first keystream block for an all-zero key and
// nonce with counter 0 (RFC 8439 appendix A.1, test vector #1).
var chacha20ZeroBlock = []byte{
	0x76, 0xb8, 0xe0, 0xad, 0xa0, 0xf1, 0x3d, 0x90, 0x40, 0x5d, 0x6a, 0xe5, 0x53, 0x86, 0xbd, 0x28,
	0xbd, 0xd2, 0x19, 0xb8, 0xa0, 0x8d, 0xed, 0x1a, 0xa8, 0x36, 0xef, 0xcc, 0x8b, 0x77, 0x0d, 0xc7,
	0xda, 0x41, 0x59, 0x7c, 0x51, 0x57, 0x48, 0x8d, 0x77, 0x24, 0xe0, 0x3f, 0xb8, 0xd8, 0x4a, 0x37,
	0x6a, 0x43, 0xb8, 0xf4, 0x15, 0x18, 0xa1, 0x1c, 0xc3, 0x87, 0xb6, 0x69, 0xb2, 0xee, 0x65, 0x86,
}

func TestSourceMatchesChaCha20Keystream(t *testing.T) {
	src, err := NewSource(bytes.NewReader(make([]byte, 32)))
	if err != nil {
		t.Fatalf("NewSource() unexpected error: %v", err)
	}

	if got, want := src.Uint64(), uint64(0x903df1a0ade0b876); got != want {
		t.Fatalf("first word = %#x, want %#x", got, want)
	}
	for i := 8; i < len(chacha20ZeroBlock); i += 8 {
		want := binary.LittleEndian.Uint64(chacha20ZeroBlock[i:])
		if got := src.Uint64(); got != want {
			t.Errorf("word %d = %#x, want %#x", i/8, got, want)
		}
	}
}

func TestSourceClearsConsumedBytes(t *testing.T) {
	src, err := NewSource(bytes.NewReader(make([]byte, 32)))
	if err != nil {
		t.Fatalf("NewSource() unexpected error: %v", err)
	}

	src.Uint64()
	src.Uint64()
	for i, b := range src.buf[:16] {
		if b != 0 {
			t.Fatalf("buf[%d] = %#x, want cleared", i, b)
		}
	}
	if bytes.Equal(src.buf[16:24], make([]byte, 8)) {
		t.Error("unconsumed keystream should still be buffered")
	}
}
