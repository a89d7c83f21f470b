// Package tokenizer splits a source string into a lazy, forward-only
// sequence of word views, borrowing byte ranges from the source rather than
// allocating copies.
//
// Three variants share one cursor implementation, differing only in how a
// word's boundary is found: whitespace-only, whitespace plus an extensible
// separator set, and a quote-aware variant that keeps a quoted phrase
// together as one token.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Variant selects the word-boundary rule used by a Stream.
type Variant int

const (
	// Whitespace splits on locale whitespace only.
	Whitespace Variant = iota
	// SpecialSeparators splits on whitespace plus a configurable
	// separator set (default: "=;,'\"()[]{}").
	SpecialSeparators
	// QuoteAware splits like Whitespace, except a word opening with a
	// quote character extends to the matching closing quote (or to
	// end-of-string if none is found).
	QuoteAware
)

// DefaultSeparators is the separator set used by SpecialSeparators when none
// is supplied explicitly.
const DefaultSeparators = `=;,'"()[]{}`

// Token is a borrowed view into a source string: the word itself, and the
// separator runs immediately before and after it. A Token never outlives the
// string it was carved from.
type Token struct {
	Word     string
	PrevSeps string
	NextSeps string
	// Start is the byte offset of Word within the source string; two
	// tokens from the same pass compare equal iff their Start matches.
	Start int
}

// Stream is a restartable, forward-only cursor over a string's tokens.
type Stream struct {
	src       string
	variant   Variant
	seps      string
	wordStart int
	prevEnd   int
	done      bool
}

// New creates a Stream using the default separator set.
func New(src string, variant Variant) *Stream {
	return NewWithSeparators(src, variant, DefaultSeparators)
}

// NewWithSeparators creates a Stream for SpecialSeparators with a custom
// separator set; the set is ignored by the other variants.
func NewWithSeparators(src string, variant Variant, separators string) *Stream {
	s := &Stream{src: src, variant: variant, seps: separators}
	s.reset()
	return s
}

// Reset rewinds the stream to the start of its source string.
func (s *Stream) Reset() {
	s.reset()
}

func (s *Stream) reset() {
	s.prevEnd = 0
	s.wordStart = s.skipNonWord(0)
	s.done = s.wordStart >= len(s.src)
}

// Next advances the stream and returns the next token, or false once the
// source is exhausted. Advancing past the end is a defined no-op.
func (s *Stream) Next() (Token, bool) {
	if s.done {
		return Token{}, false
	}
	wl := s.wordLen(s.wordStart)
	if wl == 0 {
		// Defensive: an empty source, or a boundary function that found
		// nothing to consume, ends the stream rather than looping.
		s.done = true
		return Token{}, false
	}
	wordEnd := s.wordStart + wl
	tok := Token{
		Word:     s.src[s.wordStart:wordEnd],
		PrevSeps: s.src[s.prevEnd:s.wordStart],
		Start:    s.wordStart,
	}
	s.prevEnd = wordEnd
	if wordEnd >= len(s.src) {
		tok.NextSeps = ""
		s.wordStart = wordEnd
		s.done = true
		return tok, true
	}
	nextStart := s.skipNonWord(wordEnd)
	tok.NextSeps = s.src[wordEnd:nextStart]
	s.wordStart = nextStart
	if nextStart >= len(s.src) {
		s.done = true
	}
	return tok, true
}

func (s *Stream) isSeparator(r rune) bool {
	return strings.ContainsRune(s.seps, r)
}

// skipNonWord returns the byte offset of the next word start at or after
// pos, skipping whitespace (and, for SpecialSeparators, the separator set).
func (s *Stream) skipNonWord(pos int) int {
	for pos < len(s.src) {
		r, w := utf8.DecodeRuneInString(s.src[pos:])
		skip := unicode.IsSpace(r)
		if s.variant == SpecialSeparators {
			skip = skip || s.isSeparator(r)
		}
		if !skip {
			break
		}
		pos += w
	}
	return pos
}

// wordLen returns the byte length of the word starting at pos.
func (s *Stream) wordLen(pos int) int {
	switch s.variant {
	case QuoteAware:
		return s.quotedWordLen(pos)
	case SpecialSeparators:
		return s.boundedWordLen(pos, true)
	default:
		return s.boundedWordLen(pos, false)
	}
}

func (s *Stream) quotedWordLen(pos int) int {
	r, w := utf8.DecodeRuneInString(s.src[pos:])
	if r == '\'' || r == '"' {
		if idx := strings.IndexRune(s.src[pos+w:], r); idx >= 0 {
			return w + idx + w
		}
		return len(s.src) - pos
	}
	return s.boundedWordLen(pos, false)
}

// boundedWordLen scans forward from pos until whitespace, end-of-string, or
// (when useSeps) a configured separator.
func (s *Stream) boundedWordLen(pos int, useSeps bool) int {
	end := pos
	for end < len(s.src) {
		r, w := utf8.DecodeRuneInString(s.src[end:])
		if unicode.IsSpace(r) || (useSeps && s.isSeparator(r)) {
			break
		}
		end += w
	}
	return end - pos
}

// All materializes every token of src under variant into a slice, using the
// default separator set.
func All(src string, variant Variant) []Token {
	return AllWithSeparators(src, variant, DefaultSeparators)
}

// AllWithSeparators is All with an explicit separator set.
func AllWithSeparators(src string, variant Variant, separators string) []Token {
	stream := NewWithSeparators(src, variant, separators)
	var toks []Token
	for {
		tok, ok := stream.Next()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

// Words strips a token slice down to the bare word strings, discarding
// separator information.
func Words(toks []Token) []string {
	words := make([]string, len(toks))
	for i, t := range toks {
		words[i] = t.Word
	}
	return words
}

// Count returns the number of tokens src splits into under variant, without
// materializing them.
func Count(src string, variant Variant) int {
	stream := New(src, variant)
	n := 0
	for {
		if _, ok := stream.Next(); !ok {
			break
		}
		n++
	}
	return n
}
