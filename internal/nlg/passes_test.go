package nlg

import "testing"

func TestNuanceFor(t *testing.T) {
	cases := []struct {
		name   string
		rating int
		in     string
		want   string
	}{
		{"five strengthens praise", 5,
			"The staff were helpful and we liked the pleasant garden.",
			"The staff were genuinely helpful and we loved the delightful garden."},
		{"four strengthens praise", 4,
			"Enjoyed the spa, which made a real difference.",
			"Thoroughly enjoyed the spa, which made a wonderful difference."},
		{"three is untouched", 3,
			"The staff were helpful, but it could have been better.",
			"The staff were helpful, but it could have been better."},
		{"two sharpens criticism", 2,
			"Service was inconsistent, and the problems were disappointing.",
			"Service was frustratingly inconsistent, and the frustrating problems were genuinely disappointing."},
		{"one sharpens criticism", 1,
			"Although perhaps it could have been better.",
			"Although perhaps it should have been much better."},
		{"intensified praise is left alone", 5,
			"The staff were truly helpful and really pleasant.",
			"The staff were truly helpful and really pleasant."},
		{"hedged criticism is left alone", 1,
			"It was a little inconsistent and somewhat disappointing.",
			"It was a little inconsistent and somewhat disappointing."},
		{"only the bare word changes", 4,
			"Quite pleasant rooms, helpful staff.",
			"Quite pleasant rooms, genuinely helpful staff."},
	}
	for _, c := range cases {
		if got := nuanceFor(c.rating).Apply(c.in); got != c.want {
			t.Errorf("%s: got %q, want %q", c.name, got, c.want)
		}
	}
}

func TestNuanceFor_AppliesOnce(t *testing.T) {
	for _, rating := range []int{1, 5} {
		chain := nuanceFor(rating)
		in := "We liked it; it was pleasant, helpful, inconsistent and disappointing, and it could have been better."
		once := chain.Apply(in)
		if twice := chain.Apply(once); twice != once {
			t.Errorf("rating %d: second pass changed text:\n%s\n%s", rating, once, twice)
		}
	}
}
