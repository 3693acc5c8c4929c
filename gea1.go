package gea

import (
	"crypto/cipher"
	"math/bits"

	"github.com/nlsec/gea/internal/lfsr"
	"github.com/nlsec/gea/internal/seed"
	"github.com/nlsec/gea/internal/subtle"
)

// GEA1 LFSR parameters (gea12.c's GEA_{A,B,C}_LEN/TAPS/FIN): length, tap mask, and the seven bit
// positions fed to F to produce this register's keystream contribution.
const (
	gea1ALen = 31
	gea1BLen = 32
	gea1CLen = 33

	gea1ATaps = 0x2C7646EE
	gea1BTaps = 0x510781C7
	gea1CTaps = 0x245F670A
)

var (
	gea1AFin = [7]uint{8, 30, 17, 9, 5, 28, 23}
	gea1BFin = [7]uint{19, 4, 31, 30, 2, 10, 26}
	gea1CFin = [7]uint{22, 2, 0, 29, 13, 32, 28}
)

// GEA1Context holds the S register (scratch during initialization) and the
// A, B, C keystream LFSRs. The zero value is ready for Init.
type GEA1Context struct {
	s       uint64
	a, b, c lfsr.Register
}

// sClockGEA1 advances the 64-bit S register by one step, xoring in the
// external bit b. The F input order (listed §4.3 leftmost-to-rightmost) is
// packed least-to-most-significant.
func sClockGEA1(s *uint64, b uint64) {
	t := lfsr.F(uint8(
		(*s>>60)&1 |
			((*s>>51)&1)<<1 |
			((*s>>41)&1)<<2 |
			((*s>>25)&1)<<3 |
			((*s>>21)&1)<<4 |
			((*s>>8)&1)<<5 |
			(*s&1)<<6,
	))
	fb := uint64(t) ^ (*s>>63)&1 ^ (b & 1)
	*s = (*s << 1) | fb
}

// Init seeds c from in, following eprint 2021/819's S-register loading and
// the A/B/C seeding from rotations of S, then fixes up any register that
// landed on all zeros (gea12.c's gea1_init).
func (c *GEA1Context) Init(in *Input) {
	c.s = 0
	seed.Each(in.IV, in.Dir, in.Key, func(bit byte) {
		sClockGEA1(&c.s, uint64(bit))
	})
	for i := 0; i < 128; i++ {
		sClockGEA1(&c.s, 0)
	}

	c.a = lfsr.New(gea1ALen, gea1ATaps, gea1AFin)
	c.b = lfsr.New(gea1BLen, gea1BTaps, gea1BFin)
	c.c = lfsr.New(gea1CLen, gea1CTaps, gea1CFin)

	sB := bits.RotateLeft64(c.s, 16)
	sC := bits.RotateLeft64(c.s, 32)
	seed.EachMSB(c.s, 64, func(bit byte) { c.a.Clock(uint64(bit)) })
	seed.EachMSB(sB, 64, func(bit byte) { c.b.Clock(uint64(bit)) })
	seed.EachMSB(sC, 64, func(bit byte) { c.c.Clock(uint64(bit)) })

	c.a.FixZero()
	c.b.FixZero()
	c.c.FixZero()
}

// Generate emits out.Len bytes, ORing each keystream bit into out.KS per
// eprint 2021/819's keystream loop (gea12.c's gea1_gen). out.KS[:out.Len]
// must already be zero.
func (c *GEA1Context) Generate(out *Output) {
	for i := 0; i < out.Len; i++ {
		for j := uint(0); j < 8; j++ {
			bit := c.a.Output() ^ c.b.Output() ^ c.c.Output()
			out.KS[i] |= bit << j
			c.a.Clock(0)
			c.b.Clock(0)
			c.c.Clock(0)
		}
	}
}

// GEA1 allocates a fresh context, seeds it from in, and writes out.Len bytes
// of keystream into out.KS (zeroed first on the caller's behalf).
func GEA1(in *Input, out *Output) {
	for i := 0; i < out.Len; i++ {
		out.KS[i] = 0
	}
	var ctx GEA1Context
	ctx.Init(in)
	ctx.Generate(out)
}

// gea1Stream adapts GEA1Context to cipher.Stream.
type gea1Stream struct {
	ctx GEA1Context
}

var _ cipher.Stream = (*gea1Stream)(nil)

// NewGEA1 returns a cipher.Stream producing the GEA1 keystream for the given
// 8-byte key, 4-byte iv, and direction flag (only bit 0 is meaningful).
func NewGEA1(key, iv []byte, dir byte) (cipher.Stream, error) {
	in, err := newInput(key, iv, dir)
	if err != nil {
		return nil, err
	}
	s := &gea1Stream{}
	s.ctx.Init(&in)
	return s, nil
}

func (s *gea1Stream) XORKeyStream(dst, src []byte) {
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

// EncryptGEA1 appends the GEA1 encryption of plaintext to dst and returns the
// extended buffer. Because GEA1 is XOR-based and therefore self-inverse,
// DecryptGEA1 is the identical operation.
func EncryptGEA1(dst, key, iv []byte, dir byte, plaintext []byte) ([]byte, error) {
	s, err := NewGEA1(key, iv, dir)
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

// DecryptGEA1 is EncryptGEA1: GEA1 encryption and decryption are the same
// XOR-with-keystream operation.
var DecryptGEA1 = EncryptGEA1
