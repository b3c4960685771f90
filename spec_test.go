package ens

import (
	"testing"

	"github.com/npillmayer/schuko/testconfig"
)

func loadForTest(t *testing.T) *Spec {
	t.Helper()
	sp, err := LoadSpec()
	if err != nil {
		t.Fatalf("loading embedded specification failed: %v", err)
	}
	return sp
}

func TestLoadSpec(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	sp := loadForTest(t)
	names := []string{"Latin", "Greek", "Cyrillic", "Hebrew", "Arabic",
		"Devanagari", "Thai", "Han", "Japanese", "Korean"}
	if len(sp.groups) != len(names) {
		t.Fatalf("expected %d script groups, have %d", len(names), len(sp.groups))
	}
	for i, want := range names {
		if sp.groups[i].Name != want {
			t.Errorf("group %d: got %q, want %q", i, sp.groups[i].Name, want)
		}
	}
	if sp.nsmMax != 4 {
		t.Errorf("NSM maximum: got %d, want 4", sp.nsmMax)
	}
	if len(sp.emoji) == 0 {
		t.Errorf("no emoji sequences decoded")
	}
}

func TestValidMembership(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	sp := loadForTest(t)
	for _, cp := range []rune{'a', 'z', '0', '9', '-', '_', 0x3B1, 0x430, 0x4E2D, 0x2019} {
		if !sp.isValid(cp) {
			t.Errorf("%#U should be possibly valid", cp)
		}
	}
	for _, cp := range []rune{'A', '!', ' ', 0x2E, 0x200D, 0xFE0F} {
		if sp.isValid(cp) {
			t.Errorf("%#U should not be possibly valid", cp)
		}
	}
}

func TestMappedTable(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	sp := loadForTest(t)
	cases := []struct {
		cp   rune
		want string
	}{
		{'A', "a"},
		{'Z', "z"},
		{0x27, "’"},   // typewriter apostrophe
		{0x3A3, "σ"},  // capital sigma
		{0x0416, "ж"}, // capital zhe
		{0xFB01, "fi"},     // ligature
		{0xFF21, "a"},      // fullwidth A
	}
	for _, c := range cases {
		if got := string(sp.mapped[c.cp]); got != c.want {
			t.Errorf("mapping of %#U: got %q, want %q", c.cp, got, c.want)
		}
	}
}

func TestFencedTable(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	sp := loadForTest(t)
	if len(sp.fenced) != 4 {
		t.Fatalf("expected 4 fenced code-points, have %d", len(sp.fenced))
	}
	if sp.fenced[0x2019] != "apostrophe" {
		t.Errorf("fenced label of U+2019: got %q", sp.fenced[0x2019])
	}
	if sp.fenced[0x30FB] != "katakana middle dot" {
		t.Errorf("fenced label of U+30FB: got %q", sp.fenced[0x30FB])
	}
}

func TestSentinelGroups(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	sp := loadForTest(t)
	if sp.asciiGroup.Name != "ASCII" || sp.emojiGroup.Name != "Emoji" {
		t.Errorf("sentinel groups misnamed: %v, %v", sp.asciiGroup, sp.emojiGroup)
	}
	if !sp.asciiGroup.Contains('x') || sp.asciiGroup.Contains(0x3B1) {
		t.Errorf("ASCII sentinel membership is wrong")
	}
	if sp.emojiGroup.Contains('a') || sp.emojiGroup.Contains(0x3B1) {
		t.Errorf("letters must not be members of the Emoji sentinel")
	}
	if !sp.emojiGroup.Contains(0x1F44D) || !sp.emojiGroup.Contains(cpFE0F) {
		t.Errorf("emoji sequence code-points must be members of the Emoji sentinel")
	}
}

func TestWholeTables(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	sp := loadForTest(t)
	if !sp.wholeAnchor['o'] || !sp.wholeAnchor['a'] {
		t.Errorf("latin confusable members should be anchors")
	}
	others := sp.wholeConf[0x043E] // cyrillic о
	wantLatin, wantGreek := false, false
	for _, gi := range others {
		switch sp.groups[gi].Name {
		case "Latin":
			wantLatin = true
		case "Greek":
			wantGreek = true
		case "Cyrillic":
			t.Errorf("a confused member may not point at its own group")
		}
	}
	if !wantLatin || !wantGreek {
		t.Errorf("cyrillic о should be confusable into Latin and Greek, got %v", others)
	}
}

func TestEmojiTrieMatching(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	sp := loadForTest(t)
	cases := []struct {
		input string
		len   int
	}{
		{"\U0001F600", 1},                     // grinning face
		{"\U0001F44D\U0001F3FB", 2},           // thumbs up + skin tone
		{"\U0001F44Dx", 1},                    // longest match wins, then stops
		{"❤️", 2},                   // fully-qualified heart
		{"❤", 1},                         // selector elided
		{"1️⃣", 3},                  // keycap one
		{"\U0001F1FA\U0001F1F8", 2},           // US flag
		{"\U0001F468‍\U0001F4BB", 3},     // man technologist
		{"abc", 0},                            // no emoji at all
		{"\U0001F3FB", 0},                     // bare skin tone modifier
	}
	for _, c := range cases {
		id, n := sp.trie.match([]rune(c.input))
		if n != c.len {
			t.Errorf("match(%+q): got length %d, want %d", c.input, n, c.len)
		}
		if n > 0 && id < 0 {
			t.Errorf("match(%+q): matched without sequence id", c.input)
		}
	}
	// With and without the presentation selector, the heart is the same
	// sequence.
	idFull, _ := sp.trie.match([]rune("❤️"))
	idBare, _ := sp.trie.match([]rune("❤"))
	if idFull != idBare {
		t.Errorf("selector elision changed the sequence id: %d vs %d", idFull, idBare)
	}
}
