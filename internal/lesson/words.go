package lesson

import (
	"strings"
	"unicode"
)

// Token is one piece of a line of lesson text. Whitespace runs are kept as
// their own tokens so the line can be re-rendered exactly.
type Token struct {
	Text string
	// Word is Text with surrounding punctuation removed. Empty for
	// whitespace and pure punctuation, which are not selectable.
	Word string
}

// Selectable reports whether the token can be looked up.
func (t Token) Selectable() bool {
	return t.Word != ""
}

// Tokenize splits one line into alternating word and whitespace tokens.
func Tokenize(line string) []Token {
	var (
		tokens  []Token
		start   int
		inSpace bool
	)
	for i, r := range line {
		space := unicode.IsSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			tokens = append(tokens, newToken(line[start:i], inSpace))
			start = i
			inSpace = space
		}
	}
	if start < len(line) {
		tokens = append(tokens, newToken(line[start:], inSpace))
	}
	return tokens
}

// Lines splits lesson text into tokenized lines.
func Lines(text string) [][]Token {
	raw := strings.Split(text, "\n")
	out := make([][]Token, len(raw))
	for i, line := range raw {
		out[i] = Tokenize(line)
	}
	return out
}

func newToken(text string, space bool) Token {
	if space {
		return Token{Text: text}
	}
	return Token{Text: text, Word: CleanWord(text)}
}

const wordPunctuation = `.,!?;:()"'`

// CleanWord trims whitespace and strips the punctuation a reader would not
// consider part of the word.
func CleanWord(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(wordPunctuation, r) {
			return -1
		}
		return r
	}, s)
}
