/*
Package bits decodes the compact binary layout of the name-normalization
specification artifacts.

The artifacts are flat byte streams read as a bitstream, low bit first
within each byte. On top of the bit primitives the package provides the
composite readers used by the artifact sections: ascending integer runs,
zig-zag delta runs, run-length set unions and a recursively encoded
prefix tree of integer paths.

A Reader never returns errors: the artifacts are build-time outputs of a
trusted pipeline, so a malformed stream is a data bug, not a runtime
condition. Reads past the end of the stream panic; loaders recover at
their boundary and surface a single corruption error.

License

This project is provided under the terms of the UNLICENSE or
the 3-Clause BSD license denoted by the following SPDX identifier:

SPDX-License-Identifier: 'Unlicense' OR 'BSD-3-Clause'

You may use the project under the terms of either license.

Licenses are reproduced in the license file in the root folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package bits

import "fmt"

// Reader is a cursor over a bitstream. The zero value is not usable;
// create Readers with NewReader.
type Reader struct {
	data  []byte
	pos   int   // bit position
	magic []int // ascending width table for ReadUnsigned
}

// NewReader creates a Reader over data and immediately consumes the
// width table ("magic") that ReadUnsigned depends on.
func NewReader(data []byte) *Reader {
	r := &Reader{data: data}
	r.magic = r.readMagic()
	return r
}

// readMagic reads the ascending width table from the head of the stream.
// Widths are encoded as unary deltas; a zero delta terminates the table.
func (r *Reader) readMagic() []int {
	var widths []int
	w := 0
	for {
		d := r.ReadUnary()
		if d == 0 {
			break
		}
		w += d
		widths = append(widths, w)
	}
	if len(widths) == 0 {
		panic("bits: empty width table")
	}
	return widths
}

// ReadBit returns the next single bit.
func (r *Reader) ReadBit() int {
	i := r.pos >> 3
	if i >= len(r.data) {
		panic(fmt.Sprintf("bits: read past end of stream (bit %d)", r.pos))
	}
	b := int(r.data[i]>>(r.pos&7)) & 1
	r.pos++
	return b
}

// ReadUnary returns the count of consecutive 1-bits before the next 0-bit.
func (r *Reader) ReadUnary() int {
	n := 0
	for r.ReadBit() == 1 {
		n++
	}
	return n
}

// ReadFixed reads a w-bit unsigned integer, first bit read being the
// most significant.
func (r *Reader) ReadFixed(w int) int {
	v := 0
	for i := 0; i < w; i++ {
		v = v<<1 | r.ReadBit()
	}
	return v
}

// ReadUnsigned reads a self-describing variable-width unsigned integer.
// A unary prefix selects a bucket of the width table; the value is the
// total capacity of all previous buckets plus a fixed-width remainder.
func (r *Reader) ReadUnsigned() int {
	k := r.ReadUnary()
	if k >= len(r.magic) {
		panic(fmt.Sprintf("bits: width bucket %d out of range", k))
	}
	base := 0
	for i := 0; i < k; i++ {
		base += 1 << r.magic[i]
	}
	return base + r.ReadFixed(r.magic[k])
}

// ReadSigned reads a zig-zag mapped signed integer.
func (r *Reader) ReadSigned() int {
	u := r.ReadUnsigned()
	if u&1 == 1 {
		return -(u + 1) >> 1
	}
	return u >> 1
}

// ReadSortedAscending reads n strictly ascending non-negative integers,
// each encoded as previous + 1 + delta.
func (r *Reader) ReadSortedAscending(n int) []int {
	vs := make([]int, n)
	prev := -1
	for i := range vs {
		prev += 1 + r.ReadUnsigned()
		vs[i] = prev
	}
	return vs
}

// ReadUnsortedDeltas reads n integers chained by signed deltas from a
// zero origin.
func (r *Reader) ReadUnsortedDeltas(n int) []int {
	vs := make([]int, n)
	prev := 0
	for i := range vs {
		prev += r.ReadSigned()
		vs[i] = prev
	}
	return vs
}

// ReadUniqueSet reads a sorted run-length set union: a run of singleton
// members followed by a run of [start, start+len) ranges, len >= 2.
// The result is sorted ascending and duplicate-free.
func (r *Reader) ReadUniqueSet() []int {
	singles := r.ReadSortedAscending(r.ReadUnsigned())
	nranges := r.ReadUnsigned()
	starts := r.ReadSortedAscending(nranges)
	lens := make([]int, nranges)
	for i := range lens {
		lens[i] = r.ReadUnsigned() + 2
	}
	var out []int
	si := 0
	for i, start := range starts {
		for si < len(singles) && singles[si] < start {
			out = append(out, singles[si])
			si++
		}
		for v := start; v < start+lens[i]; v++ {
			out = append(out, v)
		}
	}
	out = append(out, singles[si:]...)
	return out
}

// ReadString reads a length-prefixed ASCII string, one byte per character.
func (r *Reader) ReadString() string {
	n := r.ReadUnsigned()
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.ReadFixed(8))
	}
	return string(b)
}

// ReadTree reads a recursively encoded set of integer paths, the on-disk
// form of a prefix tree. Each level first lists its terminal children,
// then its non-terminal children; terminal children complete a path,
// non-terminal children recurse. Paths are returned in depth-first
// order with terminals of a level preceding its subtrees.
func (r *Reader) ReadTree() [][]int {
	var paths [][]int
	var prefix []int
	var walk func()
	walk = func() {
		for _, v := range r.ReadSortedAscending(r.ReadUnsigned()) {
			path := make([]int, len(prefix)+1)
			copy(path, prefix)
			path[len(prefix)] = v
			paths = append(paths, path)
		}
		for _, v := range r.ReadSortedAscending(r.ReadUnsigned()) {
			prefix = append(prefix, v)
			walk()
			prefix = prefix[:len(prefix)-1]
		}
	}
	walk()
	return paths
}
