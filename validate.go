package ens

import (
	"github.com/npillmayer/ens/nf"
)

// ValidatedLabel is an immutable view of one label that passed all
// checks, together with the single script group determined for it.
type ValidatedLabel struct {
	Tokens []Token
	Group  *Group
}

// validateLabel applies the validation steps to one label's tokens, in
// their fixed order, short-circuiting on the first failure. Either a
// validated label or exactly one classified error comes back.
func (sp *Spec) validateLabel(tokens []Token) (*ValidatedLabel, error) {
	if err := sp.checkNonEmpty(tokens); err != nil {
		return nil, err
	}
	if err := sp.checkLiterals(tokens); err != nil {
		return nil, err
	}
	if group := sp.fullyEmoji(tokens); group != nil {
		return &ValidatedLabel{Tokens: tokens, Group: group}, nil
	}
	cps, fromEmoji := flatten(tokens)
	if err := sp.checkUnderscore(cps); err != nil {
		return nil, err
	}
	if ascii(cps) {
		if err := sp.checkLabelExtension(cps); err != nil {
			return nil, err
		}
		// Combining-mark, confusable and NSM checks are meaningless
		// for pure ASCII.
		return &ValidatedLabel{Tokens: tokens, Group: sp.asciiGroup}, nil
	}
	if err := sp.checkFenced(cps); err != nil {
		return nil, err
	}
	if err := sp.checkCombiningMarks(cps, fromEmoji); err != nil {
		return nil, err
	}
	text := textOnly(cps, fromEmoji)
	group, err := sp.determineGroup(text)
	if err != nil {
		return nil, err
	}
	if !group.cmExempt {
		if err := sp.checkNSM(text); err != nil {
			return nil, err
		}
	}
	if err := sp.checkWhole(group, text); err != nil {
		return nil, err
	}
	return &ValidatedLabel{Tokens: tokens, Group: group}, nil
}

// flatten concatenates the label's output code-points and tags each one
// with whether an emoji token emitted it.
func flatten(tokens []Token) ([]rune, []bool) {
	var cps []rune
	var fromEmoji []bool
	for _, tok := range tokens {
		for _, cp := range tok.Cps {
			cps = append(cps, cp)
			fromEmoji = append(fromEmoji, tok.Type == TokenEmoji)
		}
	}
	return cps, fromEmoji
}

func textOnly(cps []rune, fromEmoji []bool) []rune {
	text := make([]rune, 0, len(cps))
	for i, cp := range cps {
		if !fromEmoji[i] {
			text = append(text, cp)
		}
	}
	return text
}

func ascii(cps []rune) bool {
	for _, cp := range cps {
		if cp >= 0x80 {
			return false
		}
	}
	return true
}

// Step 1: a label consisting of nothing, or of ignorable content only,
// is empty.
func (sp *Spec) checkNonEmpty(tokens []Token) error {
	for _, tok := range tokens {
		if tok.Type != TokenIgnored {
			return nil
		}
	}
	return labelErr(ErrEmptyLabel, -1)
}

// Step 2: raw disallowed tokens inside the label. A literal invisible
// joiner is distinguished from other disallowed characters since
// callers remediate the two differently.
func (sp *Spec) checkLiterals(tokens []Token) error {
	pos := 0
	for _, tok := range tokens {
		if tok.Type == TokenDisallowed {
			cp := tok.Input[0]
			kind := ErrDisallowedChar
			if cp == cpZWJ || cp == cpZWNJ {
				kind = ErrInvisibleChar
			}
			return labelErr(kind, pos, cp)
		}
		pos += len(tok.Input)
	}
	return nil
}

// Step 3: a label whose every non-ignored token is emoji is valid as a
// whole, with the emoji sentinel group. Emoji and complex-script checks
// are mutually exclusive by construction.
func (sp *Spec) fullyEmoji(tokens []Token) *Group {
	for _, tok := range tokens {
		if tok.Type != TokenEmoji && tok.Type != TokenIgnored {
			return nil
		}
	}
	return sp.emojiGroup
}

// Step 4: underscores are permitted as a leading run only.
func (sp *Spec) checkUnderscore(cps []rune) error {
	run := 0
	for run < len(cps) && cps[run] == cpUnderscore {
		run++
	}
	for i := run; i < len(cps); i++ {
		if cps[i] == cpUnderscore {
			e := labelErr(ErrUnderscoreInside, i, cpUnderscore)
			e.Suggest = []rune{} // cure by deletion
			return e
		}
	}
	return nil
}

// Step 5 (ASCII only): the reserved label-extension pattern "xn--" puts
// hyphens in the third and fourth position; any such label is rejected.
func (sp *Spec) checkLabelExtension(cps []rune) error {
	if len(cps) >= 4 && cps[2] == cpHyphen && cps[3] == cpHyphen {
		return labelErr(ErrHyphenExtension, 2, cpHyphen, cpHyphen)
	}
	return nil
}

// Step 6: fenced characters may neither lead nor trail a label, and no
// two of them may be adjacent.
func (sp *Spec) checkFenced(cps []rune) error {
	if len(cps) == 0 {
		return nil
	}
	if _, ok := sp.fenced[cps[0]]; ok {
		e := labelErr(ErrFencedLeading, 0, cps[0])
		e.Suggest = []rune{}
		return e
	}
	if last := cps[len(cps)-1]; len(cps) > 1 {
		if _, ok := sp.fenced[last]; ok {
			e := labelErr(ErrFencedTrailing, len(cps)-1, last)
			e.Suggest = []rune{}
			return e
		}
	}
	for i := 0; i+1 < len(cps); i++ {
		_, a := sp.fenced[cps[i]]
		_, b := sp.fenced[cps[i+1]]
		if a && b {
			e := labelErr(ErrFencedAdjacent, i, cps[i], cps[i+1])
			e.Suggest = []rune{cps[i]} // collapse the pair
			return e
		}
	}
	return nil
}

// Step 7: a combining mark may not start the label nor follow directly
// after an emoji sequence.
func (sp *Spec) checkCombiningMarks(cps []rune, fromEmoji []bool) error {
	for i, cp := range cps {
		if fromEmoji[i] || !sp.cm.has(cp) {
			continue
		}
		if i == 0 {
			e := labelErr(ErrCombiningMarkLead, 0, cp)
			e.Suggest = []rune{}
			return e
		}
		if fromEmoji[i-1] {
			e := labelErr(ErrCombiningMarkEmoji, i, cp)
			e.Suggest = []rune{}
			return e
		}
	}
	return nil
}

// Step 8: determine the label's script group by intersection narrowing
// over its unique text code-points. The specification's group order is
// the authoritative tie-break.
func (sp *Spec) determineGroup(text []rune) (*Group, error) {
	candidates := make([]int, len(sp.groups))
	for i := range candidates {
		candidates[i] = i
	}
	for _, cp := range uniqueRunes(text) {
		gs := sp.groupsContaining(cp)
		if len(gs) == 0 {
			// Unreachable for tokenizer output, where every valid
			// code-point is a member of some group.
			return nil, labelErr(ErrDisallowedChar, indexOf(text, cp), cp)
		}
		remaining := intersect(candidates, gs)
		if len(remaining) == 0 {
			e := labelErr(ErrIllegalMixture, indexOf(text, cp), cp)
			e.Groups = []string{sp.groups[candidates[0]].Name, sp.groups[gs[0]].Name}
			return nil, e
		}
		candidates = remaining
	}
	return sp.groups[candidates[0]], nil
}

// Step 9: within the NFD expansion of the label, a run of non-spacing
// marks may neither repeat a mark nor exceed the configured maximum.
func (sp *Spec) checkNSM(text []rune) error {
	decomposed := nf.NFD(text)
	for i := 0; i < len(decomposed); {
		if !sp.nsm.has(decomposed[i]) {
			i++
			continue
		}
		j := i
		seen := make(map[rune]bool)
		for ; j < len(decomposed) && sp.nsm.has(decomposed[j]); j++ {
			if seen[decomposed[j]] {
				return labelErr(ErrNSMRepeated, j, decomposed[j])
			}
			seen[decomposed[j]] = true
		}
		if j-i > sp.nsmMax {
			return labelErr(ErrNSMExcessive, i, decomposed[i:j]...)
		}
		i = j
	}
	return nil
}

// Step 10: the whole-script-confusable check. If after intersecting the
// twin-group sets of every confusable code-point some other group
// remains that also contains all of the label's shared code-points, the
// label is a plausible member of two scripts at once.
func (sp *Spec) checkWhole(group *Group, text []rune) error {
	var maker []int
	started := false
	var shared []rune
	for _, cp := range uniqueRunes(text) {
		if sp.wholeAnchor[cp] {
			return nil // anchored to its canonical script
		}
		if others, ok := sp.wholeConf[cp]; ok {
			if !started {
				maker = append([]int{}, others...)
				started = true
			} else {
				maker = intersect(maker, others)
			}
			if len(maker) == 0 {
				return nil
			}
			continue
		}
		shared = append(shared, cp)
	}
	if !started {
		return nil
	}
	for _, gi := range maker {
		g := sp.groups[gi]
		if g == group {
			continue
		}
		confusable := true
		for _, cp := range shared {
			if !g.Contains(cp) {
				confusable = false
				break
			}
		}
		if confusable {
			e := labelErr(ErrConfusable, -1)
			e.Groups = []string{group.Name, g.Name}
			return e
		}
	}
	return nil
}

// --- small helpers ---------------------------------------------------------

// uniqueRunes preserves first-occurrence order.
func uniqueRunes(cps []rune) []rune {
	seen := make(map[rune]bool, len(cps))
	out := make([]rune, 0, len(cps))
	for _, cp := range cps {
		if !seen[cp] {
			seen[cp] = true
			out = append(out, cp)
		}
	}
	return out
}

// intersect keeps the elements of a that also occur in b, preserving
// the order of a. Both inputs are small.
func intersect(a, b []int) []int {
	var out []int
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}

func indexOf(cps []rune, cp rune) int {
	for i, c := range cps {
		if c == cp {
			return i
		}
	}
	return -1
}
