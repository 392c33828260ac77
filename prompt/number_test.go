package prompt

import "testing"

func TestParseNumber(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2", 2, true},
		{"We are 2 adults traveling.", 2, true},
		{"We are two adults.", 2, true},
		{"Don't know, my family say I'm still a child... so zero?", 0, true},
		{"Dude! I feel like I'm 1 thousand children!!", 1000, true},
		{"twenty five", 25, true},
		{"one hundred and five", 105, true},
		{"three thousand", 3000, true},
		{"no numbers here", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseNumber(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
