package ens

import (
	"unicode/utf8"

	"github.com/npillmayer/ens/nf"
)

// TokenType tags the variants a tokenizer produces.
type TokenType int8

const (
	TokenValid      TokenType = iota // passes through unchanged
	TokenMapped                      // replaced by its mapping
	TokenIgnored                     // dropped from output
	TokenDisallowed                  // rejected later, by the validator
	TokenStop                        // the label separator
	TokenComposed                    // a text run re-written by NFC
	TokenEmoji                       // a matched emoji sequence
)

func (t TokenType) String() string {
	switch t {
	case TokenValid:
		return "valid"
	case TokenMapped:
		return "mapped"
	case TokenIgnored:
		return "ignored"
	case TokenDisallowed:
		return "disallowed"
	case TokenStop:
		return "stop"
	case TokenComposed:
		return "composed"
	case TokenEmoji:
		return "emoji"
	}
	return "?"
}

// Token is one classified piece of input. Input holds the code-points
// consumed from the source string (never empty), Cps the contribution
// to the normalized output (empty for ignored and disallowed tokens).
type Token struct {
	Type  TokenType
	Input []rune
	Cps   []rune
	Emoji *EmojiSeq // set for TokenEmoji only
}

// TokenizedName is the result of tokenizing one input string.
// Tokenization never rejects content; disallowed code-points travel as
// tokens so that validation can report them with full context.
type TokenizedName struct {
	Input  string
	Tokens []Token
}

// Labels splits the token sequence into label token runs on the stop
// tokens. Empty runs are retained: they represent empty labels, which
// validation rejects.
func (tn *TokenizedName) Labels() [][]Token {
	labels := [][]Token{}
	start := 0
	for i, tok := range tn.Tokens {
		if tok.Type == TokenStop {
			labels = append(labels, tn.Tokens[start:i])
			start = i + 1
		}
	}
	return append(labels, tn.Tokens[start:])
}

// Tokenize classifies s into a token sequence using the shared
// specification model. The only failure mode is malformed UTF-8.
func Tokenize(s string) (*TokenizedName, error) {
	sp, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	return sp.Tokenize(s)
}

// Tokenize classifies s into a token sequence: left to right, the
// longest emoji sequence wins at every position, otherwise the single
// code-point is classified against the specification sets.
func (sp *Spec) Tokenize(s string) (*TokenizedName, error) {
	if !utf8.ValidString(s) {
		return nil, ErrMalformedEncoding
	}
	cps := []rune(s)
	var tokens []Token
	for i := 0; i < len(cps); {
		if id, n := sp.trie.match(cps[i:]); n > 0 {
			seq := &sp.emoji[id]
			tokens = append(tokens, Token{
				Type:  TokenEmoji,
				Input: cps[i : i+n],
				Cps:   seq.Normalized,
				Emoji: seq,
			})
			i += n
			continue
		}
		cp := cps[i]
		one := cps[i : i+1]
		switch {
		case cp == cpStop:
			tokens = append(tokens, Token{Type: TokenStop, Input: one, Cps: one})
		case sp.isValid(cp):
			tokens = append(tokens, Token{Type: TokenValid, Input: one, Cps: one})
		case sp.mapped[cp] != nil:
			tokens = append(tokens, Token{Type: TokenMapped, Input: one, Cps: sp.mapped[cp]})
		case sp.ignored.has(cp):
			tokens = append(tokens, Token{Type: TokenIgnored, Input: one})
		default:
			tokens = append(tokens, Token{Type: TokenDisallowed, Input: one})
		}
		i++
	}
	tokens = sp.collapseUnnormalized(tokens)
	tokens = mergeValid(tokens)
	tracer().Debugf("tokenized %q into %d tokens", s, len(tokens))
	return &TokenizedName{Input: s, Tokens: tokens}, nil
}

// collapseUnnormalized finds maximal text token runs whose output is
// not canonically composed and folds each into a single composed token
// carrying both the pre- and post-normalization code-points.
func (sp *Spec) collapseUnnormalized(tokens []Token) []Token {
	isText := func(t TokenType) bool {
		return t == TokenValid || t == TokenMapped || t == TokenIgnored
	}
	out := make([]Token, 0, len(tokens))
	for i := 0; i < len(tokens); {
		if !isText(tokens[i].Type) {
			out = append(out, tokens[i])
			i++
			continue
		}
		j := i
		check := false
		var text, input []rune
		for ; j < len(tokens) && isText(tokens[j].Type); j++ {
			for _, cp := range tokens[j].Cps {
				if nf.NeedsCheck(cp) {
					check = true
				}
			}
			text = append(text, tokens[j].Cps...)
			input = append(input, tokens[j].Input...)
		}
		run := tokens[i:j]
		if check {
			if norm := nf.NFC(text); !runesEqual(norm, text) {
				out = append(out, Token{Type: TokenComposed, Input: input, Cps: norm})
				i = j
				continue
			}
		}
		out = append(out, run...)
		i = j
	}
	return out
}

// mergeValid joins adjacent valid tokens. Pure output compaction.
// Token slices may alias the original input, so merged tokens get
// fresh backing arrays.
func mergeValid(tokens []Token) []Token {
	out := tokens[:0]
	for _, tok := range tokens {
		if tok.Type == TokenValid && len(out) > 0 && out[len(out)-1].Type == TokenValid {
			prev := &out[len(out)-1]
			prev.Input = concatRunes(prev.Input, tok.Input)
			prev.Cps = concatRunes(prev.Cps, tok.Cps)
			continue
		}
		out = append(out, tok)
	}
	return out
}

func concatRunes(a, b []rune) []rune {
	out := make([]rune, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Emoji matching --------------------------------------------------------

// emojiTrie matches emoji sequences in time proportional to the match
// length. Nodes live in an arena and reference each other by index; a
// node's sequence id is set when a sequence ends exactly there.
type emojiTrie struct {
	nodes []trieNode
}

type trieNode struct {
	seq      int32 // sequence id, -1 if no sequence ends here
	children map[rune]int32
}

func newEmojiTrie() *emojiTrie {
	return &emojiTrie{nodes: []trieNode{{seq: -1}}}
}

func (t *emojiTrie) insert(path []rune, id int) {
	cur := int32(0)
	for _, cp := range path {
		node := &t.nodes[cur]
		next, ok := node.children[cp]
		if !ok {
			next = int32(len(t.nodes))
			if node.children == nil {
				node.children = make(map[rune]int32, 1)
			}
			node.children[cp] = next
			t.nodes = append(t.nodes, trieNode{seq: -1})
		}
		cur = next
	}
	t.nodes[cur].seq = int32(id)
}

// match returns the id and length of the longest emoji sequence
// prefixing cps, or (-1, 0) if none matches.
func (t *emojiTrie) match(cps []rune) (int, int) {
	best, bestLen := -1, 0
	cur := int32(0)
	for i, cp := range cps {
		next, ok := t.nodes[cur].children[cp]
		if !ok {
			break
		}
		cur = next
		if t.nodes[cur].seq >= 0 {
			best, bestLen = int(t.nodes[cur].seq), i+1
		}
	}
	return best, bestLen
}
