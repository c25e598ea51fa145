package ticker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/investthepress/backend/internal/ticker"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		want   string
		wantOK bool
	}{
		{name: "empty", title: "", want: "", wantOK: false},
		{name: "parenthetical", title: "Markets rally as (AAPL) leads gains", want: "AAPL", wantOK: true},
		{name: "parenthetical beats dollar", title: "$TSLA and (MSFT) report", want: "MSFT", wantOK: true},
		{name: "parenthetical beats exchange", title: "NYSE: IBM rises, (GE) lags", want: "GE", wantOK: true},
		{name: "exchange colon with dot", title: "NASDAQ: BRK.B shares climb", want: "BRK-B", wantOK: true},
		{name: "exchange whitespace", title: "Listed on NYSE KO today", want: "KO", wantOK: true},
		{name: "exchange beats dollar", title: "TSX: SHOP and $AAPL move", want: "SHOP", wantOK: true},
		{name: "dollar", title: "$TSLA soars on earnings", want: "TSLA", wantOK: true},
		{name: "keyword", title: "Company lists under ticker: ACME today", want: "ACME", wantOK: true},
		{name: "keyword case insensitive", title: "New Symbol zoom debuts", want: "ZOOM", wantOK: true},
		{name: "fallback skips stopwords", title: "US stocks rally as IBM gains", want: "IBM", wantOK: true},
		{name: "fallback only stopwords", title: "US stocks rally on Fed news", want: "", wantOK: false},
		{name: "fallback uppercase words", title: "WALL STREET NEWS: THE NEW YORK UK AND US", want: "", wantOK: false},
		{name: "fallback single letter", title: "Why F is cheap", want: "F", wantOK: true},
		{name: "fallback ignores long words", title: "NVIDIA earnings", want: "", wantOK: false},
		{name: "no uppercase tokens", title: "stocks drift lower", want: "", wantOK: false},
		{name: "exchange non-breaking space", title: "NYSE:\u00a0KO climbs", want: "KO", wantOK: true},
		{name: "exchange symbol runs into accented letter", title: "NASDAQ: ABCÉ lists", want: "", wantOK: false},
		{name: "dollar symbol runs into accented letter", title: "$TSLAÉ jumps", want: "", wantOK: false},
		{name: "fallback accented word", title: "NESTLÉ raises guidance", want: "", wantOK: false},
		{name: "fallback accented suffix", title: "CAFÉ chain expands", want: "", wantOK: false},
		{name: "fallback accented prefix", title: "ÀIBM rises", want: "", wantOK: false},
		{name: "fallback skips accented word", title: "NESTLÉ and IBM gains", want: "IBM", wantOK: true},
		{name: "fallback digit suffix", title: "A380 deliveries resume", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ticker.Extract(tt.title)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestExtractParentheticalAlwaysWins(t *testing.T) {
	titles := []string{
		"(X) first",
		"NASDAQ: ABC then (XYZ)",
		"$ABC vs (ABCDE) vs ticker: QQQ",
		"THE AND (NEWS) symbol RRR",
	}
	want := []string{"X", "XYZ", "ABCDE", "NEWS"}

	for i, title := range titles {
		got, ok := ticker.Extract(title)
		require.True(t, ok, title)
		require.Equal(t, want[i], got, title)
	}
}

func TestExtractWithRule(t *testing.T) {
	_, rule, ok := ticker.ExtractWithRule("$TSLA soars")
	require.True(t, ok)
	require.Equal(t, "dollar", rule)

	_, rule, ok = ticker.ExtractWithRule("US stocks rally as IBM gains")
	require.True(t, ok)
	require.Equal(t, "fallback", rule)

	symbol, rule, ok := ticker.ExtractWithRule("Ésymbol: ACME")
	require.True(t, ok)
	require.Equal(t, "ACME", symbol)
	require.Equal(t, "fallback", rule)

	_, rule, ok = ticker.ExtractWithRule("")
	require.False(t, ok)
	require.Empty(t, rule)
}

func TestQuoteURL(t *testing.T) {
	require.Equal(t, "https://finance.yahoo.com/quote/BRK-B", ticker.QuoteURL("BRK-B"))
	require.Empty(t, ticker.QuoteURL(""))
}
