package gea

import (
	"crypto/cipher"

	"github.com/nlsec/gea/internal/lfsr"
	"github.com/nlsec/gea/internal/seed"
	"github.com/nlsec/gea/internal/subtle"
)

// GEA2 adds a fourth keystream LFSR, D, to GEA1's A, B, C; its init register
// W is 97 bits, represented as (hi, lo) with the 33 most-significant bits of
// W in the low 33 bits of hi.
const (
	gea2DLen  = 29
	gea2DTaps = 0x09FD59A5

	// wMask keeps hi's bits 33..63 at zero, matching gea12.c's GEA_W_MSB_MASK.
	wMask = 0x1FFFFFFFF
)

var gea2DFin = [7]uint{16, 5, 25, 28, 18, 1, 11}

// GEA2Context holds the W register (scratch during initialization) and the
// A, B, C, D keystream LFSRs. The zero value is ready for Init.
type GEA2Context struct {
	wHi, wLo uint64
	a, b, c  lfsr.Register
	d        lfsr.Register
}

// wClock advances the 97-bit (hi, lo) register by one step, xoring in the
// external bit b, reproducing gea12.c's _lfsr_clock_W. The F input order
// (listed leftmost-to-rightmost below) is packed least-to-most-significant.
func wClock(hi, lo *uint64, b uint64) {
	t := lfsr.F(uint8(
		(*hi>>28)&1 |
			((*hi>>14)&1)<<1 |
			((*lo>>63)&1)<<2 |
			((*lo>>39)&1)<<3 |
			((*lo>>33)&1)<<4 |
			((*lo>>13)&1)<<5 |
			(*lo&1)<<6,
	))
	fb := uint64(t) ^ (*hi>>32)&1 ^ (b & 1)
	newHi := ((*hi << 1) | (*lo >> 63)) & wMask
	newLo := (*lo << 1) | fb
	*hi, *lo = newHi, newLo
}

// rotl97_16, rotl97_33, rotl97_51 rotate the 97-bit (hi, lo) pair left by the
// named amount, matching gea12.c's gea2_init WA/WB/WC computation term for
// term.
func rotl97_16(hi, lo uint64) (uint64, uint64) {
	return ((hi << 16) | (lo >> 48)) & wMask, (lo << 16) | (hi >> 17)
}

func rotl97_33(hi, lo uint64) (uint64, uint64) {
	return (lo >> 31) & wMask, (lo << 33) | hi
}

func rotl97_51(hi, lo uint64) (uint64, uint64) {
	return (lo >> 13) & wMask, (lo << 51) | (hi << 18) | (lo >> 46)
}

// Init seeds c from in, following eprint 2021/819's W-register loading and
// the A/B/C/D seeding from rotations of W, then fixes up any register that
// landed on all zeros (gea12.c's gea2_init).
func (c *GEA2Context) Init(in *Input) {
	c.wHi, c.wLo = 0, 0
	seed.Each(in.IV, in.Dir, in.Key, func(bit byte) {
		wClock(&c.wHi, &c.wLo, uint64(bit))
	})
	for i := 0; i < 194; i++ {
		wClock(&c.wHi, &c.wLo, 0)
	}

	c.a = lfsr.New(gea1ALen, gea1ATaps, gea1AFin)
	c.b = lfsr.New(gea1BLen, gea1BTaps, gea1BFin)
	c.c = lfsr.New(gea1CLen, gea1CTaps, gea1CFin)
	c.d = lfsr.New(gea2DLen, gea2DTaps, gea2DFin)

	aHi, aLo := rotl97_16(c.wHi, c.wLo)
	bHi, bLo := rotl97_33(c.wHi, c.wLo)
	cHi, cLo := rotl97_51(c.wHi, c.wLo)

	seed.Each97MSB(aHi, aLo, func(bit byte) { c.a.Clock(uint64(bit)) })
	seed.Each97MSB(bHi, bLo, func(bit byte) { c.b.Clock(uint64(bit)) })
	seed.Each97MSB(cHi, cLo, func(bit byte) { c.c.Clock(uint64(bit)) })
	seed.Each97MSB(c.wHi, c.wLo, func(bit byte) { c.d.Clock(uint64(bit)) })

	c.a.FixZero()
	c.b.FixZero()
	c.c.FixZero()
	c.d.FixZero()
}

// Generate emits out.Len bytes, ORing each keystream bit into out.KS,
// reproducing gea12.c's gea2_gen. out.KS[:out.Len] must already be zero.
func (c *GEA2Context) Generate(out *Output) {
	for i := 0; i < out.Len; i++ {
		for j := uint(0); j < 8; j++ {
			bit := c.a.Output() ^ c.b.Output() ^ c.c.Output() ^ c.d.Output()
			out.KS[i] |= bit << j
			c.a.Clock(0)
			c.b.Clock(0)
			c.c.Clock(0)
			c.d.Clock(0)
		}
	}
}

// GEA2 allocates a fresh context, seeds it from in, and writes out.Len bytes
// of keystream into out.KS (zeroed first on the caller's behalf).
func GEA2(in *Input, out *Output) {
	for i := 0; i < out.Len; i++ {
		out.KS[i] = 0
	}
	var ctx GEA2Context
	ctx.Init(in)
	ctx.Generate(out)
}

// gea2Stream adapts GEA2Context to cipher.Stream.
type gea2Stream struct {
	ctx GEA2Context
}

var _ cipher.Stream = (*gea2Stream)(nil)

// NewGEA2 returns a cipher.Stream producing the GEA2 keystream for the given
// 8-byte key, 4-byte iv, and direction flag (only bit 0 is meaningful).
func NewGEA2(key, iv []byte, dir byte) (cipher.Stream, error) {
	in, err := newInput(key, iv, dir)
	if err != nil {
		return nil, err
	}
	s := &gea2Stream{}
	s.ctx.Init(&in)
	return s, nil
}

func (s *gea2Stream) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("gea: output smaller than input")
	}
	ks := dst[:len(src)]
	if subtle.InexactOverlap(ks, src) {
		panic("gea: invalid buffer overlap")
	}
	for i := range ks {
		ks[i] = 0
	}
	s.ctx.Generate(&Output{Len: len(src), KS: ks})
	for i, b := range src {
		dst[i] = ks[i] ^ b
	}
}

// EncryptGEA2 appends the GEA2 encryption of plaintext to dst and returns the
// extended buffer. Because GEA2 is XOR-based and therefore self-inverse,
// DecryptGEA2 is the identical operation.
func EncryptGEA2(dst, key, iv []byte, dir byte, plaintext []byte) ([]byte, error) {
	s, err := NewGEA2(key, iv, dir)
	if err != nil {
		return nil, err
	}
	ret, out := subtle.SliceForAppend(dst, len(plaintext))
	if subtle.InexactOverlap(out, plaintext) {
		panic("gea: invalid buffer overlap")
	}
	s.XORKeyStream(out, plaintext)
	return ret, nil
}

// DecryptGEA2 is EncryptGEA2: GEA2 encryption and decryption are the same
// XOR-with-keystream operation.
var DecryptGEA2 = EncryptGEA2
