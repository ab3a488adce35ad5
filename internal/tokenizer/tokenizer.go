// Package tokenizer turns chat text into ids from a small fixed vocabulary.
// It is a coarse signal only; intent classification works on the raw text.
package tokenizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Reserved ids
const (
	PadID = 0
	UnkID = 1
)

const (
	padToken = "<PAD>"
	unkToken = "<UNK>"
)

var disallowed = regexp.MustCompile(`[^a-z0-9\s!?.,;:$%-]`)

var defaultVocabulary = []string{
	"hi", "hello", "hey", "thanks", "thank", "you", "ok", "okay",
	"coupon", "coupons", "code", "codes", "deal", "deals", "discount", "discounts",
	"best", "save", "savings", "off", "percent", "free", "shipping", "delivery",
	"apply", "use", "enter", "redeem", "checkout", "cart", "order", "price",
	"student", "students", "edu", "college", "stack", "combine", "multiple",
	"expire", "expires", "expiry", "valid", "still", "work", "working", "not", "broken",
	"help", "what", "where", "when", "why", "who", "how", "is", "are", "can", "do", "does",
	"the", "a", "an", "for", "my", "this", "that", "i", "any", "there", "it",
	"!", "?", ".", ",", ";", ":", "$", "%", "-",
}

// Tokenizer maps words to ids. It is immutable after construction.
type Tokenizer struct {
	ids   map[string]int
	words []string
}

// New builds a tokenizer over vocab. Ids 0 and 1 are reserved for <PAD> and <UNK>.
func New(vocab []string) *Tokenizer {
	t := &Tokenizer{
		ids:   make(map[string]int, len(vocab)+2),
		words: []string{padToken, unkToken},
	}
	for _, w := range vocab {
		if _, exists := t.ids[w]; exists {
			continue
		}
		t.ids[w] = len(t.words)
		t.words = append(t.words, w)
	}
	return t
}

// Default returns a tokenizer over the built-in vocabulary.
func Default() *Tokenizer {
	return New(defaultVocabulary)
}

// Normalize lowercases text, folds accents, and strips characters outside
// [a-z0-9\s!?.,;:$%-].
func Normalize(text string) string {
	decomposed := norm.NFD.String(text)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return disallowed.ReplaceAllString(b.String(), "")
}

// Words returns the normalized text split on whitespace. Punctuation stays
// attached to its word, so "there!" is one token.
func Words(text string) []string {
	return strings.Fields(Normalize(text))
}

// Tokenize returns the ids for text. Unknown words map to UnkID.
func (t *Tokenizer) Tokenize(text string) []int {
	words := Words(text)
	ids := make([]int, len(words))
	for i, w := range words {
		id, ok := t.ids[w]
		if !ok {
			id = UnkID
		}
		ids[i] = id
	}
	return ids
}

// Detokenize joins the words for ids with single spaces. Out-of-range ids
// render as <UNK> and padding is dropped.
func (t *Tokenizer) Detokenize(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		switch {
		case id == PadID:
			continue
		case id < 0 || id >= len(t.words):
			parts = append(parts, unkToken)
		default:
			parts = append(parts, t.words[id])
		}
	}
	return strings.Join(parts, " ")
}

// VocabSize includes the reserved ids.
func (t *Tokenizer) VocabSize() int {
	return len(t.words)
}
