package ens

import "strings"

// ProcessedName is a fully validated name: every label carries its
// tokens and determined script group. Both output forms are derived
// from it without re-validating.
type ProcessedName struct {
	Input  string
	Labels []*ValidatedLabel
}

// Process tokenizes and validates all labels of the input.
func Process(s string) (*ProcessedName, error) {
	sp, err := LoadSpec()
	if err != nil {
		return nil, err
	}
	return sp.Process(s)
}

// Normalize returns the canonical normalized form of the input name.
func Normalize(s string) (string, error) {
	p, err := Process(s)
	if err != nil {
		return "", err
	}
	return p.Normalize(), nil
}

// Beautify returns the cosmetic display form of the input name.
func Beautify(s string) (string, error) {
	p, err := Process(s)
	if err != nil {
		return "", err
	}
	return p.Beautify(), nil
}

// Process tokenizes and validates all labels of the input against this
// specification model.
func (sp *Spec) Process(s string) (*ProcessedName, error) {
	tn, err := sp.Tokenize(s)
	if err != nil {
		return nil, err
	}
	var labels []*ValidatedLabel
	for _, tokens := range tn.Labels() {
		label, err := sp.validateLabel(tokens)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return &ProcessedName{Input: s, Labels: labels}, nil
}

// Normalize concatenates the labels' output code-points, joined by the
// label separator. Emoji contribute their selector-stripped form.
func (p *ProcessedName) Normalize() string {
	var sb strings.Builder
	for i, label := range p.Labels {
		if i > 0 {
			sb.WriteRune(cpStop)
		}
		for _, tok := range label.Tokens {
			sb.WriteString(string(tok.Cps))
		}
	}
	return sb.String()
}

// Beautify is Normalize with two cosmetic exceptions: emoji contribute
// their fully-qualified form, and lowercase xi becomes capital Ξ in
// every label that is not actually Greek.
func (p *ProcessedName) Beautify() string {
	var sb strings.Builder
	for i, label := range p.Labels {
		if i > 0 {
			sb.WriteRune(cpStop)
		}
		greek := label.Group.Name == "Greek"
		for _, tok := range label.Tokens {
			if tok.Type == TokenEmoji {
				sb.WriteString(string(tok.Emoji.Beautified))
				continue
			}
			for _, cp := range tok.Cps {
				if cp == cpGreekXi && !greek {
					cp = cpCapitalXi
				}
				sb.WriteRune(cp)
			}
		}
	}
	return sb.String()
}
