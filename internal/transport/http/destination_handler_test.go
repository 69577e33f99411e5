package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func queryContext(t *testing.T, rawQuery string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/destinations?"+rawQuery, nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestParseDestinationFilter(t *testing.T) {
	t.Run("trims query", func(t *testing.T) {
		filter, err := parseDestinationFilter(queryContext(t, "q=%20bali%20"))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if filter.Query != "bali" {
			t.Errorf("query = %q, want bali", filter.Query)
		}
	})

	t.Run("min rating parsed", func(t *testing.T) {
		filter, err := parseDestinationFilter(queryContext(t, "minRating=3.5"))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if filter.MinRating == nil || *filter.MinRating != 3.5 {
			t.Errorf("minRating = %v, want 3.5", filter.MinRating)
		}
	})

	t.Run("min rating rejects non-number", func(t *testing.T) {
		if _, err := parseDestinationFilter(queryContext(t, "minRating=high")); err == nil {
			t.Error("expected error for non-numeric minRating")
		}
	})

	t.Run("min rating rejects out of range", func(t *testing.T) {
		if _, err := parseDestinationFilter(queryContext(t, "minRating=7")); err == nil {
			t.Error("expected error for minRating > 5")
		}
	})

	t.Run("price ranges split and trimmed", func(t *testing.T) {
		filter, err := parseDestinationFilter(queryContext(t, "priceRanges=%24,%20%24%24%24%20,"))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		want := []string{"$", "$$$"}
		if len(filter.PriceRanges) != len(want) {
			t.Fatalf("priceRanges = %v, want %v", filter.PriceRanges, want)
		}
		for i := range want {
			if filter.PriceRanges[i] != want[i] {
				t.Errorf("priceRanges[%d] = %q, want %q", i, filter.PriceRanges[i], want[i])
			}
		}
	})
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"page=3", 3},
		{"page=0", 1},
		{"page=-2", 1},
		{"page=abc", 1},
	}
	for _, tc := range cases {
		if got := parsePage(queryContext(t, tc.raw)); got != tc.want {
			t.Errorf("parsePage(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestPagedEnvelope(t *testing.T) {
	cases := []struct {
		name         string
		total        int
		wantLastPage int
	}{
		{"empty result still has one page", 0, 1},
		{"exact multiple", 24, 2},
		{"partial trailing page", 25, 3},
		{"single item", 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := pagedEnvelope(nil, 1, 12, tc.total)
			if got := env["last_page"]; got != tc.wantLastPage {
				t.Errorf("last_page = %v, want %d", got, tc.wantLastPage)
			}
			if got := env["total"]; got != tc.total {
				t.Errorf("total = %v, want %d", got, tc.total)
			}
			if got := env["per_page"]; got != 12 {
				t.Errorf("per_page = %v, want 12", got)
			}
		})
	}
}
