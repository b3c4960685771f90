package ens

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/klauspost/compress/gzip"
	"github.com/npillmayer/ens/internal/bits"
)

//go:embed spec.bin.gz
var artifact []byte

// Code-points with a fixed structural meaning.
const (
	cpStop       = 0x2E   // label separator
	cpUnderscore = 0x5F   // allowed as a leading run only
	cpHyphen     = 0x2D   // restricted in positions 3 and 4
	cpZWNJ       = 0x200C // invisible outside emoji sequences
	cpZWJ        = 0x200D
	cpFE0F       = 0xFE0F // emoji presentation selector
	cpGreekXi    = 0x3BE  // beautified to capital Ξ outside Greek labels
	cpCapitalXi  = 0x39E
)

// runeSet is a sorted, duplicate-free code-point set.
type runeSet []rune

func (s runeSet) has(cp rune) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= cp })
	return i < len(s) && s[i] == cp
}

func toRuneSet(vs []int) runeSet {
	s := make(runeSet, len(vs))
	for i, v := range vs {
		s[i] = rune(v)
	}
	return s
}

// Group is one script group of the specification: a named set of
// code-points belonging to one writing system.
type Group struct {
	Name      string
	index     int
	cmExempt  bool // skip the non-spacing-mark checks for this group
	primary   runeSet
	secondary runeSet
}

// Contains reports group membership of a code-point. The sentinel
// groups synthesized at load answer like any other group: ASCII
// contains all of ASCII, Emoji contains exactly the code-points
// occurring in known emoji sequences.
func (g *Group) Contains(cp rune) bool {
	return g.primary.has(cp) || g.secondary.has(cp)
}

func (g *Group) String() string {
	return g.Name
}

// EmojiSeq is one fully-qualified emoji sequence together with its
// normalized form, which has every presentation selector stripped.
type EmojiSeq struct {
	Beautified []rune
	Normalized []rune
}

// Spec is the in-memory specification model. It is built once from the
// embedded binary artifact and never mutated afterwards, so a single
// Spec may serve any number of concurrent calls.
type Spec struct {
	ignored       runeSet
	mapped        map[rune][]rune
	fenced        map[rune]string
	fencedOrder   runeSet
	cm            runeSet // all combining marks
	nsm           runeSet // non-spacing subset, subject to run limits
	nsmMax        int
	groups        []*Group // authoritative priority order
	asciiGroup    *Group
	emojiGroup    *Group
	emoji         []EmojiSeq
	trie          *emojiTrie
	possiblyValid runeSet
	wholeAnchor   map[rune]bool  // canonical-script members, never confusable
	wholeConf     map[rune][]int // confused member -> other group indices
}

var (
	loadOnce sync.Once
	loaded   *Spec
	loadErr  error
)

// LoadSpec decodes the embedded specification artifact into the shared
// specification model. The model is built once; subsequent calls return
// the cached instance.
func LoadSpec() (*Spec, error) {
	loadOnce.Do(func() {
		loaded, loadErr = decodeSpec(artifact)
		if loadErr != nil {
			tracer().Errorf("specification unusable: %v", loadErr)
		} else {
			tracer().Infof("specification: %d groups, %d emoji sequences, %d valid code-points",
				len(loaded.groups), len(loaded.emoji), len(loaded.possiblyValid))
		}
	})
	return loaded, loadErr
}

func decodeSpec(gz []byte) (sp *Spec, err error) {
	zr, err := gzip.NewReader(bytes.NewReader(gz))
	if err != nil {
		return nil, fmt.Errorf("ens: specification artifact: %w", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("ens: specification artifact: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			sp = nil
			err = fmt.Errorf("ens: corrupt specification artifact: %v", p)
		}
	}()
	r := bits.NewReader(raw)
	sp = &Spec{
		mapped:      make(map[rune][]rune),
		fenced:      make(map[rune]string),
		wholeAnchor: make(map[rune]bool),
		wholeConf:   make(map[rune][]int),
	}
	sp.ignored = toRuneSet(r.ReadUniqueSet())
	n := r.ReadUnsigned()
	srcs := r.ReadSortedAscending(n)
	for _, cp := range srcs {
		repl := r.ReadUnsortedDeltas(r.ReadUnsigned())
		out := make([]rune, len(repl))
		for i, v := range repl {
			out[i] = rune(v)
		}
		sp.mapped[rune(cp)] = out
	}
	n = r.ReadUnsigned()
	sp.fencedOrder = toRuneSet(r.ReadSortedAscending(n))
	for _, cp := range sp.fencedOrder {
		sp.fenced[cp] = r.ReadString()
	}
	sp.cm = toRuneSet(r.ReadUniqueSet())
	sp.nsm = toRuneSet(r.ReadUniqueSet())
	sp.nsmMax = r.ReadUnsigned()
	ngroups := r.ReadUnsigned()
	valid := treeset.NewWith(utils.IntComparator)
	for i := 0; i < ngroups; i++ {
		g := &Group{Name: r.ReadString(), index: i}
		g.cmExempt = r.ReadBit() == 1
		g.primary = toRuneSet(r.ReadUniqueSet())
		g.secondary = toRuneSet(r.ReadUniqueSet())
		sp.groups = append(sp.groups, g)
		for _, cp := range g.primary {
			valid.Add(int(cp))
		}
		for _, cp := range g.secondary {
			valid.Add(int(cp))
		}
	}
	nwholes := r.ReadUnsigned()
	wholes := make([]wholeSet, nwholes)
	for i := range wholes {
		wholes[i] = wholeSet{r.ReadUniqueSet(), r.ReadUniqueSet()}
	}
	paths := r.ReadTree()
	sp.buildEmoji(paths)
	sp.buildWholes(wholes)
	sp.possiblyValid = make(runeSet, 0, valid.Size())
	for _, v := range valid.Values() {
		sp.possiblyValid = append(sp.possiblyValid, rune(v.(int)))
	}
	ascii := make(runeSet, 0x80)
	for i := range ascii {
		ascii[i] = rune(i)
	}
	sp.asciiGroup = &Group{Name: "ASCII", index: -1, cmExempt: true, primary: ascii}
	sp.emojiGroup = &Group{Name: "Emoji", index: -2, cmExempt: true, primary: sp.emojiMembers()}
	return sp, nil
}

// buildEmoji turns the decoded tree paths into the emoji sequence list
// and the matching trie. Every subset of presentation selectors of a
// fully-qualified sequence is inserted as an accepted spelling of the
// same sequence.
func (sp *Spec) buildEmoji(paths [][]int) {
	sp.trie = newEmojiTrie()
	for _, path := range paths {
		full := make([]rune, len(path))
		var fe0f []int
		for i, v := range path {
			full[i] = rune(v)
			if full[i] == cpFE0F {
				fe0f = append(fe0f, i)
			}
		}
		id := len(sp.emoji)
		sp.emoji = append(sp.emoji, EmojiSeq{
			Beautified: full,
			Normalized: stripFE0F(full),
		})
		for mask := 0; mask < 1<<len(fe0f); mask++ {
			variant := make([]rune, 0, len(full))
			for i, cp := range full {
				drop := false
				for b, pos := range fe0f {
					if pos == i && mask&(1<<b) != 0 {
						drop = true
					}
				}
				if !drop {
					variant = append(variant, cp)
				}
			}
			sp.trie.insert(variant, id)
		}
	}
}

// emojiMembers collects every code-point occurring in some emoji
// sequence, presentation selectors and joiners included.
func (sp *Spec) emojiMembers() runeSet {
	set := treeset.NewWith(utils.IntComparator)
	for _, seq := range sp.emoji {
		for _, cp := range seq.Beautified {
			set.Add(int(cp))
		}
	}
	out := make(runeSet, 0, set.Size())
	for _, v := range set.Values() {
		out = append(out, rune(v.(int)))
	}
	return out
}

func stripFE0F(cps []rune) []rune {
	out := make([]rune, 0, len(cps))
	for _, cp := range cps {
		if cp != cpFE0F {
			out = append(out, cp)
		}
	}
	return out
}

// wholeSet is one decoded whole-script-confusable record: a partition
// of mutually confusable code-points into the canonical script's side
// and the visually identical twins from other scripts.
type wholeSet struct{ valid, confused []int }

// buildWholes precomputes the whole-script-confusable lookup: canonical
// members become anchors (a label containing one can never be written
// in another script), while each confused member is mapped to the other
// groups a visually identical twin belongs to.
func (sp *Spec) buildWholes(wholes []wholeSet) {
	for _, w := range wholes {
		groupSet := make(map[int]bool)
		members := append(append([]int{}, w.valid...), w.confused...)
		for _, m := range members {
			for _, g := range sp.groups {
				if g.Contains(rune(m)) {
					groupSet[g.index] = true
				}
			}
		}
		for _, cp := range w.valid {
			sp.wholeAnchor[rune(cp)] = true
		}
		for _, cp := range w.confused {
			var others []int
			for gi := range groupSet {
				if !sp.groups[gi].Contains(rune(cp)) {
					others = append(others, gi)
				}
			}
			sort.Ints(others)
			sp.wholeConf[rune(cp)] = others
		}
	}
}

// isValid reports whether cp may appear in a valid label's text.
func (sp *Spec) isValid(cp rune) bool {
	return sp.possiblyValid.has(cp)
}

// groupsContaining returns the indices of all groups containing cp, in
// priority order.
func (sp *Spec) groupsContaining(cp rune) []int {
	var gs []int
	for _, g := range sp.groups {
		if g.Contains(cp) {
			gs = append(gs, g.index)
		}
	}
	return gs
}
