// Package gea implements the GPRS encryption algorithms GEA1 and GEA2, the
// stream ciphers historically used to protect user data on the GPRS air
// interface between a mobile station and the SGSN.
//
// GEA1 and GEA2 are broken: GEA1's key schedule carries a documented
// weakness that reduces its effective key space to around 2^40 despite a
// 64-bit key. This package reproduces both algorithms bit-for-bit, weakness
// included, for research and interoperability use. It is not suitable for
// protecting anything.
//
// References:
//
//	[gea1gea2]: https://eprint.iacr.org/2021/819
package gea

import "fmt"

const (
	// KeySize is the GEA key size in bytes.
	KeySize = 8
	// IVSize is the GEA initialization vector size in bytes.
	IVSize = 4
)

// Input holds the three fixed-size values that seed a GEA keystream: the
// initialization vector, the direction flag (0 = uplink, 1 = downlink; only
// bit 0 is meaningful), and the key. Input is immutable once passed to Init.
type Input struct {
	IV  [4]byte
	Dir byte
	Key [8]byte
}

// Output names the destination for a keystream request: Len bytes are
// written into KS, which must have length at least Len. Generate ORs bits
// into KS, so the split entry points require KS[:Len] to be zeroed first;
// the single-shot entry points (GEA1, GEA2) zero it on the caller's behalf.
type Output struct {
	Len int
	KS  []byte
}

func checkSizes(key, iv []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("gea: invalid key size: %d", len(key))
	}
	if len(iv) != IVSize {
		return fmt.Errorf("gea: invalid iv size: %d", len(iv))
	}
	return nil
}

func newInput(key, iv []byte, dir byte) (Input, error) {
	var in Input
	if err := checkSizes(key, iv); err != nil {
		return in, err
	}
	copy(in.Key[:], key)
	copy(in.IV[:], iv)
	in.Dir = dir & 1
	return in, nil
}
