// Package hasher provides the streaming digest contract and the
// process-wide algorithm registry used by the fingerprinting pipeline.
package hasher

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
)

// Accumulator is the uniform streaming digest contract shared by all
// algorithms. Update may be called any number of times; the final
// digest depends only on the concatenated bytes, never on chunk
// boundaries. Finish renders the digest as fixed-width uppercase hex
// sized to the algorithm's native output width. An instance is meant
// to be finalized once and then discarded, never shared across files.
type Accumulator interface {
	Update(p []byte)
	Finish() string
}

type xxh64Acc struct {
	d *xxhash.Digest
}

func newXXH64() Accumulator { return &xxh64Acc{d: xxhash.New()} }

func (a *xxh64Acc) Update(p []byte) { _, _ = a.d.Write(p) }

func (a *xxh64Acc) Finish() string { return fmt.Sprintf("%016X", a.d.Sum64()) }

type xxh3Acc struct {
	h *xxh3.Hasher
}

func newXXH3() Accumulator { return &xxh3Acc{h: xxh3.New()} }

func (a *xxh3Acc) Update(p []byte) { _, _ = a.h.Write(p) }

func (a *xxh3Acc) Finish() string {
	sum := a.h.Sum128()
	return fmt.Sprintf("%016X%016X", sum.Hi, sum.Lo)
}

type blake3Acc struct {
	h *blake3.Hasher
}

func newBLAKE3() Accumulator { return &blake3Acc{h: blake3.New()} }

func (a *blake3Acc) Update(p []byte) { _, _ = a.h.Write(p) }

func (a *blake3Acc) Finish() string { return fmt.Sprintf("%X", a.h.Sum(nil)) }
