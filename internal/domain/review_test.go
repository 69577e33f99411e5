package domain

import "testing"

func TestRoundRating(t *testing.T) {
	cases := []struct {
		name  string
		sum   int
		count int
		want  float64
	}{
		{"no reviews", 0, 0, 0},
		{"single review", 4, 1, 4},
		{"exact half", 5, 2, 2.5},
		{"repeating third rounds up", 8, 3, 2.67},
		{"repeating third rounds down", 7, 3, 2.33},
		{"half cent rounds away from zero", 9, 8, 1.13},
		{"all fives", 25, 5, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RoundRating(tc.sum, tc.count); got != tc.want {
				t.Errorf("RoundRating(%d, %d) = %v, want %v", tc.sum, tc.count, got, tc.want)
			}
		})
	}
}
