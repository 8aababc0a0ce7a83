// Package classify holds pure keyword classifiers for origin, certification
// labels and packaging materials. Nothing here does I/O or keeps state.
package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Fold returns a case-folded copy of s suitable for keyword comparison.
// A Caser is stateful, so one is created per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsKeyword reports whether the folded text contains the folded keyword.
// Keywords of three runes or fewer (MSC, ASC, PET) only match as whole words.
func ContainsKeyword(foldedText, keyword string) bool {
	idx, _ := keywordIndex(foldedText, keyword)
	return idx >= 0
}

// keywordIndex returns the byte offset and length of the first match of
// keyword in foldedText under the ContainsKeyword rules, or -1.
func keywordIndex(foldedText, keyword string) (int, int) {
	kw := Fold(keyword)
	if kw == "" || foldedText == "" {
		return -1, 0
	}
	if utf8.RuneCountInString(kw) > 3 {
		return strings.Index(foldedText, kw), len(kw)
	}
	return wordIndex(foldedText, kw), len(kw)
}

// ContainsWord reports whether word occurs in text delimited by non-letter,
// non-digit runes or the string boundaries. Both must already be folded.
func ContainsWord(text, word string) bool {
	return wordIndex(text, word) >= 0
}

// ContainsWordPrefix reports whether some word of text starts with prefix.
// Both must already be folded.
func ContainsWordPrefix(text, prefix string) bool {
	return indexAt(text, prefix, false) >= 0
}

func wordIndex(text, word string) int {
	return indexAt(text, word, true)
}

// indexAt finds word in text starting at a word boundary, and also ending
// at one when whole is set.
func indexAt(text, word string, whole bool) int {
	if word == "" {
		return -1
	}
	start := 0
	for {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return -1
		}
		idx += start
		end := idx + len(word)
		if isBoundaryBefore(text, idx) && (!whole || isBoundaryAfter(text, end)) {
			return idx
		}
		_, size := utf8.DecodeRuneInString(text[idx:])
		start = idx + size
	}
}

func isBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func isBoundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// matchAny returns true if any keyword matches the folded text
func matchAny(foldedText string, keywords []string) bool {
	return firstKeyword(foldedText, keywords) >= 0
}

// firstKeyword returns the earliest offset at which any keyword matches, or -1
func firstKeyword(foldedText string, keywords []string) int {
	first := -1
	for _, kw := range keywords {
		if idx, _ := keywordIndex(foldedText, kw); idx >= 0 && (first < 0 || idx < first) {
			first = idx
		}
	}
	return first
}

// consumeKeywords blanks every match of the keywords in foldedText so that a
// later lookup cannot match the same words again. Offsets are preserved.
func consumeKeywords(foldedText string, keywords []string) (string, bool) {
	matched := false
	for _, kw := range keywords {
		for {
			idx, n := keywordIndex(foldedText, kw)
			if idx < 0 {
				break
			}
			matched = true
			foldedText = foldedText[:idx] + strings.Repeat(" ", n) + foldedText[idx+n:]
		}
	}
	return foldedText, matched
}
