package tokenizer

import (
	"strings"
	"testing"
)

func TestWhitespaceTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", nil},
		{"single word", "hello", []string{"hello"}},
		{"simple sentence", "the quick fox", []string{"the", "quick", "fox"}},
		{"leading and trailing space", "  padded words  ", []string{"padded", "words"}},
		{"tabs and newlines", "a\tb\nc", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words(All(tt.src, Whitespace))
			if !equalStrings(got, tt.want) {
				t.Fatalf("Words(All(%q)) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestSpecialSeparatorsTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"comma separated", "a,b,c", []string{"a", "b", "c"}},
		{"key=value", "user=root;host=10.0.0.1", []string{"user", "root", "host", "10.0.0.1"}},
		{"brackets", "status[ok](done)", []string{"status", "ok", "done"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words(All(tt.src, SpecialSeparators))
			if !equalStrings(got, tt.want) {
				t.Fatalf("Words(All(%q)) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestQuoteAwareTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"simple quoted phrase", `say "hello world" now`, []string{"say", `"hello world"`, "now"}},
		{"single quotes", `it's 'a test'`, []string{"it's", "'a test'"}},
		{"unterminated quote", `start "never closes`, []string{"start", `"never closes`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Words(All(tt.src, QuoteAware))
			if !equalStrings(got, tt.want) {
				t.Fatalf("Words(All(%q)) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

// TestRoundTrip checks the tokenizer invariant: concatenating each token's
// leading separators and word, plus the final token's trailing separators,
// reconstructs the original source exactly.
func TestRoundTrip(t *testing.T) {
	sources := []string{
		"",
		"   ",
		"single",
		"  leading and trailing  ",
		"a,b;c='d'",
		`quoted "phrase here" and 'another one'`,
		"\t\ttabbed\nnewlined  text\n",
	}
	for _, src := range sources {
		for _, variant := range []Variant{Whitespace, SpecialSeparators, QuoteAware} {
			toks := All(src, variant)
			var b strings.Builder
			for i, tok := range toks {
				b.WriteString(tok.PrevSeps)
				b.WriteString(tok.Word)
				if i == len(toks)-1 {
					b.WriteString(tok.NextSeps)
				}
			}
			if got := b.String(); got != src {
				t.Fatalf("variant %v: round trip of %q = %q", variant, src, got)
			}
		}
	}
}

func TestStreamIsRestartable(t *testing.T) {
	s := New("one two three", Whitespace)
	var first []string
	for {
		tok, ok := s.Next()
		if !ok {
			break
		}
		first = append(first, tok.Word)
	}
	s.Reset()
	var second []string
	for {
		tok, ok := s.Next()
		if !ok {
			break
		}
		second = append(second, tok.Word)
	}
	if !equalStrings(first, second) {
		t.Fatalf("reset stream produced %v, want %v", second, first)
	}
}

func TestAdjacentTokensShareSeparatorRun(t *testing.T) {
	toks := All("alpha   beta", Whitespace)
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2", len(toks))
	}
	if toks[0].NextSeps != toks[1].PrevSeps {
		t.Fatalf("alpha.NextSeps = %q, beta.PrevSeps = %q, want equal", toks[0].NextSeps, toks[1].PrevSeps)
	}
}

func TestCount(t *testing.T) {
	if n := Count("a b c d", Whitespace); n != 4 {
		t.Fatalf("Count = %d, want 4", n)
	}
	if n := Count("", Whitespace); n != 0 {
		t.Fatalf("Count of empty = %d, want 0", n)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
