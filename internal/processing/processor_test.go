package processing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/investthepress/backend/internal/processing"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "literal entity text kept", input: "Why &lt;b&gt; tags and AT&amp;T", want: "Why &lt;b&gt; tags and AT&amp;T"},
		{name: "decoded characters kept", input: `AT&T beats "estimates"`, want: `AT&T beats "estimates"`},
		{name: "collapse whitespace", input: "  Fed\n\nholds\t rates ", want: "Fed holds rates"},
		{name: "only whitespace", input: " \n\t", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := processing.NormalizeTitle(tt.input); got != tt.want {
				t.Fatalf("NormalizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeQuery(t *testing.T) {
	require.Equal(t, "apple", processing.NormalizeQuery("  ApPlE \t"))
	require.Equal(t, "", processing.NormalizeQuery("   "))
}

func TestMatchesQuery(t *testing.T) {
	tests := []struct {
		name  string
		title string
		query string
		want  bool
	}{
		{name: "empty query", title: "Anything", query: "", want: true},
		{name: "case insensitive", title: "Apple Unveils iPhone", query: "apple", want: true},
		{name: "substring", title: "Nvidia earnings beat", query: "earn", want: true},
		{name: "miss", title: "Oil prices slide", query: "apple", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.MatchesQuery(tt.title, tt.query))
		})
	}
}
