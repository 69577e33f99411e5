package config

import "testing"

func TestSplitAndTrim(t *testing.T) {
	cases := []struct {
		input string
		want  []string
	}{
		{"*", []string{"*"}},
		{"https://a.example, https://b.example ", []string{"https://a.example", "https://b.example"}},
		{" , , ", []string{"*"}},
		{"", []string{"*"}},
	}
	for _, tc := range cases {
		got := splitAndTrim(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}
