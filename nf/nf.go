package nf

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/npillmayer/ens/internal/bits"
)

//go:embed nf.bin.gz
var artifact []byte

// Hangul syllable composition is algorithmic (Unicode ch. 3.12).
const (
	hangulSBase = 0xAC00
	hangulLBase = 0x1100
	hangulVBase = 0x1161
	hangulTBase = 0x11A7
	hangulLCnt  = 19
	hangulVCnt  = 21
	hangulTCnt  = 28
	hangulNCnt  = hangulVCnt * hangulTCnt
	hangulSCnt  = hangulLCnt * hangulNCnt
)

type tables struct {
	decomp map[rune][]rune // canonical decomposition, one level
	recomp map[uint64]rune // composable pair -> composition
	rank   map[rune]uint8  // canonical combining class, 0 if absent
	second map[rune]bool   // runes appearing as second element of a pair
}

var (
	tbl       *tables
	setupOnce sync.Once
	setupErr  error
)

// Setup decodes the embedded normalization artifact. It is safe to call
// Setup multiple times; only the first call does any work. NFC and NFD
// call Setup on demand.
func Setup() error {
	setupOnce.Do(func() {
		tbl, setupErr = load(artifact)
		if setupErr != nil {
			tracer().Errorf("nf setup failed: %v", setupErr)
		} else {
			tracer().Infof("nf tables: %d decompositions, %d composable pairs",
				len(tbl.decomp), len(tbl.recomp))
		}
	})
	return setupErr
}

func mustSetup() *tables {
	if err := Setup(); err != nil {
		panic(fmt.Sprintf("nf: embedded artifact unusable: %v", err))
	}
	return tbl
}

func load(gz []byte) (t *tables, err error) {
	zr, err := gzip.NewReader(bytes.NewReader(gz))
	if err != nil {
		return nil, fmt.Errorf("nf: artifact: %w", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("nf: artifact: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			t = nil
			err = fmt.Errorf("nf: corrupt artifact: %v", p)
		}
	}()
	r := bits.NewReader(raw)
	t = &tables{
		decomp: make(map[rune][]rune),
		recomp: make(map[uint64]rune),
		rank:   make(map[rune]uint8),
		second: make(map[rune]bool),
	}
	exclude := make(map[rune]bool)
	for _, cp := range r.ReadUniqueSet() {
		exclude[rune(cp)] = true
	}
	nranks := r.ReadUnsigned()
	for i := 0; i < nranks; i++ {
		cc := r.ReadUnsigned()
		for _, cp := range r.ReadUniqueSet() {
			t.rank[rune(cp)] = uint8(cc)
		}
	}
	n := r.ReadUnsigned()
	srcs := r.ReadSortedAscending(n)
	tgts := r.ReadUnsortedDeltas(n)
	for i, cp := range srcs {
		t.decomp[rune(cp)] = []rune{rune(tgts[i])}
	}
	n = r.ReadUnsigned()
	srcs = r.ReadSortedAscending(n)
	firsts := r.ReadUnsortedDeltas(n)
	seconds := r.ReadUnsortedDeltas(n)
	for i, cp := range srcs {
		a, b := rune(firsts[i]), rune(seconds[i])
		t.decomp[rune(cp)] = []rune{a, b}
		t.second[b] = true
		if !exclude[rune(cp)] {
			t.recomp[pairKey(a, b)] = rune(cp)
		}
	}
	return t, nil
}

func pairKey(a, b rune) uint64 {
	return uint64(a)<<32 | uint64(uint32(b))
}

// Rank returns the canonical combining class of cp; 0 for starters.
func Rank(cp rune) int {
	return int(mustSetup().rank[cp])
}

// NeedsCheck reports whether cp can interact with canonical
// normalization: it decomposes, carries a non-zero combining rank, or
// may combine with a preceding code-point. Runs of text containing no
// such code-point are already in NFC.
func NeedsCheck(cp rune) bool {
	t := mustSetup()
	if t.rank[cp] != 0 || t.second[cp] {
		return true
	}
	if _, ok := t.decomp[cp]; ok {
		return true
	}
	// Hangul vowels and trailing consonants compose with a predecessor.
	return (cp >= hangulVBase && cp < hangulVBase+hangulVCnt) ||
		(cp > hangulTBase && cp < hangulTBase+hangulTCnt) ||
		(cp >= hangulSBase && cp < hangulSBase+hangulSCnt)
}

// NFD returns the canonical decomposition of cps in canonical order.
func NFD(cps []rune) []rune {
	out, _ := decompose(mustSetup(), cps)
	return out
}

// NFC returns the canonical composition of cps.
func NFC(cps []rune) []rune {
	t := mustSetup()
	out, ranks := decompose(t, cps)
	return compose(t, out, ranks)
}

// decompose recursively substitutes canonical decompositions, splits
// Hangul syllables arithmetically, and reorders combining sequences by
// ascending rank. The rank of every output code-point is returned
// alongside.
func decompose(t *tables, cps []rune) ([]rune, []uint8) {
	out := make([]rune, 0, len(cps)+len(cps)/2)
	var rec func(cp rune)
	rec = func(cp rune) {
		if cp >= hangulSBase && cp < hangulSBase+hangulSCnt {
			s := cp - hangulSBase
			out = append(out, hangulLBase+s/hangulNCnt, hangulVBase+(s%hangulNCnt)/hangulTCnt)
			if s%hangulTCnt != 0 {
				out = append(out, hangulTBase+s%hangulTCnt)
			}
			return
		}
		if d, ok := t.decomp[cp]; ok {
			for _, dc := range d {
				rec(dc)
			}
			return
		}
		out = append(out, cp)
	}
	for _, cp := range cps {
		rec(cp)
	}
	ranks := make([]uint8, len(out))
	for i, cp := range out {
		ranks[i] = t.rank[cp]
	}
	reorder(out, ranks)
	return out, ranks
}

// reorder performs the canonical ordering: a stable sort by rank of
// every maximal run of non-zero ranked code-points. Insertion sort is
// used since runs are short.
func reorder(cps []rune, ranks []uint8) {
	for i := 1; i < len(cps); i++ {
		if ranks[i] == 0 {
			continue
		}
		for j := i; j > 0 && ranks[j-1] > ranks[j] && ranks[j] != 0; j-- {
			cps[j-1], cps[j] = cps[j], cps[j-1]
			ranks[j-1], ranks[j] = ranks[j], ranks[j-1]
		}
	}
}

// compose runs the canonical composition pass over a decomposed,
// reordered sequence. A single pending starter is maintained; combiners
// following it are consumed greedily unless blocked by an equal or
// higher rank.
func compose(t *tables, cps []rune, ranks []uint8) []rune {
	res := make([]rune, 0, len(cps))
	starter := -1  // index in res of the pending starter
	lastRank := -1 // rank of the last unconsumed combiner, -1 if none
	for i, cp := range cps {
		cc := int(ranks[i])
		if starter >= 0 {
			s := res[starter]
			if lastRank < 0 && s >= hangulLBase && s < hangulLBase+hangulLCnt &&
				cp >= hangulVBase && cp < hangulVBase+hangulVCnt {
				res[starter] = hangulSBase + (s-hangulLBase)*hangulNCnt + (cp-hangulVBase)*hangulTCnt
				continue
			}
			if lastRank < 0 && s >= hangulSBase && s < hangulSBase+hangulSCnt &&
				(s-hangulSBase)%hangulTCnt == 0 &&
				cp > hangulTBase && cp < hangulTBase+hangulTCnt {
				res[starter] = s + cp - hangulTBase
				continue
			}
			if (cc == 0 && lastRank < 0) || (cc > 0 && lastRank < cc) {
				if c, ok := t.recomp[pairKey(s, cp)]; ok {
					res[starter] = c
					continue
				}
			}
		}
		if cc == 0 {
			starter = len(res)
			lastRank = -1
		} else {
			lastRank = cc
		}
		res = append(res, cp)
	}
	return res
}
