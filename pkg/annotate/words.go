// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"strings"
)

const wordSeparator = " "

// Word is one space separated piece of an expression.
type Word struct {
	Text  string
	Index int
	Last  bool

	// InString is set when any part of the word lies within a quoted
	// literal, including one opened by an earlier word.
	InString bool
}

// SplitWords splits expression content on single spaces. Consecutive
// spaces produce empty words so that JoinWords reproduces content.
func SplitWords(content string) []Word {
	pieces := strings.Split(content, wordSeparator)
	result := make([]Word, 0, len(pieces))

	var quotes quoteTracker

	for i, piece := range pieces {
		result = append(result, Word{
			Text:     piece,
			Index:    i,
			Last:     i == len(pieces)-1,
			InString: quotes.scan(piece),
		})
		// separator itself may be part of a literal
		quotes.scan(wordSeparator)
	}

	return result
}

func JoinWords(words []Word) string {
	var result strings.Builder
	for _, word := range words {
		result.WriteString(word.Text)
		if !word.Last {
			result.WriteString(wordSeparator)
		}
	}
	return result.String()
}

type quoteTracker struct {
	open    rune
	escaped bool
}

// scan consumes text and reports whether any of it was quoted.
func (q *quoteTracker) scan(text string) bool {
	quoted := q.open != 0

	for _, r := range text {
		switch {
		case q.open == 0:
			if isQuote(r) {
				q.open = r
				quoted = true
			}
		case q.escaped:
			q.escaped = false
		case r == '\\' && q.open != '`':
			q.escaped = true
		case r == q.open:
			q.open = 0
		}
	}

	return quoted
}

func isQuote(r rune) bool { return r == '"' || r == '\'' || r == '`' }
