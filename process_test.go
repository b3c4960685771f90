package ens

import (
	"testing"

	"github.com/npillmayer/schuko/testconfig"
)

func TestNormalizeBasic(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	cases := []struct {
		input, want string
	}{
		{"VITALIK.ETH", "vitalik.eth"},
		{"vi­talik", "vitalik"},            // soft hyphen removed
		{"ＶＩＴＡＬＩＫ", "vitalik"},            // fullwidth forms
		{"ﬁre", "fire"},                    // ligature expansion
		{"résumé", "résumé"},   // canonical composition
		{"❤️", "❤"},                        // selector elision
		{"ΑΝΔΡΈΑΣ", "ανδρέασ"},             // greek case folding
	}
	for _, c := range cases {
		got, err := Normalize(c.input)
		if err != nil {
			t.Errorf("Normalize(%+q) failed: %v", c.input, err)
			continue
		}
		if got != c.want {
			t.Errorf("Normalize(%+q): got %+q, want %+q", c.input, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	inputs := []string{
		"VITALIK.ETH", "CAN'T.STOP", "МИР", "日本.にほん", "한국",
		"a\U0001F44Db", "❤️‍\U0001F525", "_under.score",
		"résumé",
	}
	for _, input := range inputs {
		once, err := Normalize(input)
		if err != nil {
			t.Errorf("Normalize(%+q) failed: %v", input, err)
			continue
		}
		twice, err := Normalize(once)
		if err != nil {
			t.Errorf("Normalize(%+q) failed on own output %+q: %v", input, once, err)
			continue
		}
		if once != twice {
			t.Errorf("not idempotent: %+q -> %+q -> %+q", input, once, twice)
		}
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	const input = "ΑΝΔΡΈΑΣ.日本.❤️"
	first, err := Normalize(input)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for i := 0; i < 16; i++ {
		if again, _ := Normalize(input); again != first {
			t.Fatalf("run %d differs: %+q vs %+q", i, again, first)
		}
	}
}

func TestProcessedLabelGroups(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	p, err := Process("vitalik.мир.\U0001F44D")
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if len(p.Labels) != 3 {
		t.Fatalf("expected 3 labels, have %d", len(p.Labels))
	}
	want := []string{"ASCII", "Cyrillic", "Emoji"}
	for i, label := range p.Labels {
		if label.Group == nil || label.Group.Name != want[i] {
			t.Errorf("label %d: group %v, want %s", i, label.Group, want[i])
		}
	}
}

func TestGroupMembershipInvariant(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	// Every text code-point of a validated label must be a member of the
	// label's determined group.
	for _, input := range []string{"ανδρέας", "мир", "שלום", "ab-cd"} {
		p, err := Process(input)
		if err != nil {
			t.Fatalf("Process(%+q) failed: %v", input, err)
		}
		label := p.Labels[0]
		for _, tok := range label.Tokens {
			if tok.Type == TokenEmoji {
				continue
			}
			for _, cp := range tok.Cps {
				if !label.Group.Contains(cp) {
					t.Errorf("%+q: %U not in group %s", input, cp, label.Group.Name)
				}
			}
		}
	}
}

func TestBeautifyEmoji(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	got, err := Beautify("❤")
	if err != nil {
		t.Fatalf("Beautify failed: %v", err)
	}
	if got != "❤️" {
		t.Errorf("Beautify(%+q) = %+q, want fully qualified %+q", "❤", got, "❤️")
	}
	// Beautified output normalizes back to the normalized form.
	norm, _ := Normalize("❤")
	renorm, err := Normalize(got)
	if err != nil || renorm != norm {
		t.Errorf("beautified form does not round-trip: %+q -> %+q (err %v)", got, renorm, err)
	}
}

func TestBeautifyPreservesCase(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	got, err := Beautify("VITALIK.ETH")
	if err != nil {
		t.Fatalf("Beautify failed: %v", err)
	}
	if got != "vitalik.eth" {
		t.Errorf("Beautify: got %+q, want %+q", got, "vitalik.eth")
	}
}

func TestBeautifyGreekXi(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	// In a genuinely Greek label lowercase xi stays as typed.
	got, err := Beautify("ξανά")
	if err != nil {
		t.Fatalf("Beautify failed: %v", err)
	}
	if got != "ξανά" {
		t.Errorf("greek label: got %+q, want %+q", got, "ξανά")
	}
	// Outside a Greek label the capital form is displayed. No natural
	// input reaches this branch with the current group data, so exercise
	// the writer directly.
	p := &ProcessedName{Labels: []*ValidatedLabel{{
		Tokens: []Token{{Type: TokenValid, Cps: []rune{'a', cpGreekXi}}},
		Group:  &Group{Name: "Latin"},
	}}}
	if got := p.Beautify(); got != "aΞ" {
		t.Errorf("non-greek label: got %+q, want %+q", got, "aΞ")
	}
	if got := p.Normalize(); got != "aξ" {
		t.Errorf("normalize must not substitute xi: got %+q", got)
	}
}
