package rewrite_test

import (
	"testing"

	"stay_reviews/internal/nlg/rewrite"
)

func TestChain_AppliesInOrder(t *testing.T) {
	c := rewrite.Chain{
		rewrite.Word("good", "great"),
		rewrite.Word("great", "superb"),
	}
	if got := c.Apply("Good food."); got != "Superb food." {
		t.Fatalf("got %q", got)
	}
}

func TestWord_WholeWordOnlyAndKeepsCase(t *testing.T) {
	r := rewrite.Word("room", "accommodation")
	if got := r.Apply("Room service and a roomy room."); got != "Accommodation service and a roomy accommodation." {
		t.Fatalf("got %q", got)
	}
}

func TestUnlessAfter_SkipsModifiedWords(t *testing.T) {
	r := rewrite.Word("helpful", "genuinely helpful").UnlessAfter("truly", "a little", "it seems to me")
	cases := map[string]string{
		"Helpful staff.":                     "Genuinely helpful staff.",
		"The staff were truly helpful.":      "The staff were truly helpful.",
		"Truly  helpful, and helpful again.": "Truly  helpful, and genuinely helpful again.",
		"It was a little helpful.":           "It was a little helpful.",
		"It seems to me helpful enough.":     "It seems to me helpful enough.",
		"The untruly helpful desk.":          "The untruly genuinely helpful desk.",
	}
	for in, want := range cases {
		if got := r.Apply(in); got != want {
			t.Errorf("Apply(%q) = %q, want %q", in, got, want)
		}
	}
	if same := rewrite.Word("a", "b").UnlessAfter(); same.Unless != nil {
		t.Fatal("no modifiers should leave the rule unguarded")
	}
}

func TestCompile_BadPattern(t *testing.T) {
	if _, err := rewrite.Compile("(", "x", false); err == nil {
		t.Fatal("expected error")
	}
	r, err := rewrite.Compile(`\.(\s|$)`, "!$1", false)
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Apply("Nice. Very nice."); got != "Nice! Very nice!" {
		t.Fatalf("got %q", got)
	}
}

func TestLowerFirst(t *testing.T) {
	cases := map[string]string{
		"This was great": "this was great",
		"I loved it":     "I loved it",
		"I'm back":       "I'm back",
		"":               "",
	}
	for in, want := range cases {
		if got := rewrite.LowerFirst(in); got != want {
			t.Errorf("LowerFirst(%q)=%q want %q", in, got, want)
		}
	}
}

func TestPolish(t *testing.T) {
	cases := []struct{ in, want string }{
		{"we  stayed here . it was fine", "We stayed here. It was fine"},
		{"it was great ,. really", "It was great. Really"},
		{"good. nice! ok? yes", "Good. Nice! Ok? Yes"},
		{"a hour, a apple, a unique view, a honest team, a one-off", "An hour, an apple, a unique view, an honest team, a one-off"},
		{"done!!! and.. more", "Done! And. More"},
		{"first para.\n\n\n\nsecond  para.", "First para.\n\nSecond para."},
	}
	for _, c := range cases {
		if got := rewrite.Polish(c.in); got != c.want {
			t.Errorf("Polish(%q)=%q want %q", c.in, got, c.want)
		}
	}
}
