// Package ticker infers stock symbols from headline text.
package ticker

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const quoteBaseURL = "https://finance.yahoo.com/quote/"

// space matches any Unicode whitespace; RE2's \s covers ASCII only.
const space = `\s\x0b\x1c-\x1f\x{85}\p{Z}`

// Word boundaries are checked by hand in find: RE2's \b treats every
// non-ASCII letter as a non-word character, so "NESTLÉ" would yield NESTL.
var (
	parenthetical = pattern{re: regexp.MustCompile(`\(([A-Z]{1,5})\)`)}
	exchange      = pattern{re: regexp.MustCompile(`(?:NASDAQ|NYSE|AMEX|LSE|TSX)[:` + space + `]+([A-Z.\-]{1,6})`), leading: true, trailing: true}
	dollar        = pattern{re: regexp.MustCompile(`\$([A-Z]{1,5})`), trailing: true}
	keyword       = pattern{re: regexp.MustCompile(`(?i)(?:ticker|symbol)[:` + space + `]+([A-Z]{1,5})`), leading: true, trailing: true}
	standalone    = pattern{re: regexp.MustCompile(`([A-Z]{1,5})`), leading: true, trailing: true}
)

// stopwords are uppercase tokens common in headlines that are never symbols.
var stopwords = map[string]struct{}{
	"THE": {}, "AND": {}, "FOR": {}, "WITH": {}, "WALL": {}, "STREET": {},
	"NEWS": {}, "NEW": {}, "YORK": {}, "US": {}, "UK": {},
}

type rule struct {
	name  string
	match func(title string) (string, bool)
}

// rules run in priority order; the first match wins.
var rules = []rule{
	{name: "parenthetical", match: captureWith(parenthetical, identity)},
	{name: "exchange", match: captureWith(exchange, func(s string) string {
		return strings.ToUpper(strings.ReplaceAll(s, ".", "-"))
	})},
	{name: "dollar", match: captureWith(dollar, strings.ToUpper)},
	{name: "keyword", match: captureWith(keyword, strings.ToUpper)},
	{name: "fallback", match: firstNonStopword},
}

// Extract returns the ticker symbol inferred from title, if any.
func Extract(title string) (string, bool) {
	symbol, _, ok := ExtractWithRule(title)
	return symbol, ok
}

// ExtractWithRule is Extract that also reports which rule produced the symbol.
func ExtractWithRule(title string) (symbol, ruleName string, ok bool) {
	if title == "" {
		return "", "", false
	}
	for _, r := range rules {
		if s, matched := r.match(title); matched {
			return s, r.name, true
		}
	}
	return "", "", false
}

// QuoteURL returns the quote lookup page for symbol, or "" when symbol is empty.
func QuoteURL(symbol string) string {
	if symbol == "" {
		return ""
	}
	return quoteBaseURL + symbol
}

// pattern is a regexp with one capture group and optional word boundaries
// before the whole match and after the capture.
type pattern struct {
	re       *regexp.Regexp
	leading  bool
	trailing bool
}

// find returns the bounds of the capture in the leftmost match at or after
// from whose boundaries hold. A capture failing its trailing boundary is
// shortened one rune at a time before the match start is given up.
func (p pattern) find(s string, from int) (start, end int, ok bool) {
	for from <= len(s) {
		loc := p.re.FindStringSubmatchIndex(s[from:])
		if loc == nil {
			return 0, 0, false
		}
		matchStart, capStart, capEnd := from+loc[0], from+loc[2], from+loc[3]

		if !p.leading || atBoundary(s, matchStart) {
			if !p.trailing {
				return capStart, capEnd, true
			}
			for e := capEnd; e > capStart; {
				if atBoundary(s, e) {
					return capStart, e, true
				}
				_, size := utf8.DecodeLastRuneInString(s[capStart:e])
				e -= size
			}
		}

		_, size := utf8.DecodeRuneInString(s[matchStart:])
		if size == 0 {
			return 0, 0, false
		}
		from = matchStart + size
	}
	return 0, 0, false
}

// atBoundary reports whether exactly one side of byte offset i is a word rune.
func atBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func captureWith(p pattern, transform func(string) string) func(string) (string, bool) {
	return func(title string) (string, bool) {
		start, end, ok := p.find(title, 0)
		if !ok {
			return "", false
		}
		return transform(title[start:end]), true
	}
}

func firstNonStopword(title string) (string, bool) {
	for from := 0; ; {
		start, end, ok := standalone.find(title, from)
		if !ok {
			return "", false
		}
		token := title[start:end]
		if _, skip := stopwords[token]; !skip {
			return token, true
		}
		from = end
	}
}

func identity(s string) string { return s }
