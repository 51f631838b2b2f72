// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package annotate

import (
	"strings"
	"unicode"
)

type TrimOpts struct {
	// ParenTrim splits leading "(" characters off as decoration
	ParenTrim bool
}

// TrimmedWord is a word separated into its identifier and the
// decoration around it. Leading+Identifier+Trailing is the original word.
type TrimmedWord struct {
	Leading    string
	Identifier string
	Trailing   string
}

func (t TrimmedWord) String() string { return t.Leading + t.Identifier + t.Trailing }

// TrimWord takes the longest prefix of addressable characters as the
// identifier. Everything from the first other character on is trailing
// decoration. Dots ending a longer identifier (".Values.port.") are
// decoration as well.
func TrimWord(word string, opts TrimOpts) TrimmedWord {
	var result TrimmedWord

	if opts.ParenTrim {
		rest := strings.TrimLeft(word, "(")
		result.Leading = word[:len(word)-len(rest)]
		word = rest
	}

	end := len(word)
	for i, r := range word {
		if !isAddressable(r) {
			end = i
			break
		}
	}

	ident := word[:end]
	if len(ident) > 1 {
		trimmed := strings.TrimRight(ident, ".")
		if trimmed != "" {
			ident = trimmed
		}
	}

	result.Identifier = ident
	result.Trailing = word[len(ident):]
	return result
}

func isAddressable(r rune) bool {
	switch r {
	case '.', '$', '_':
		return true
	}
	return isQuote(r) || unicode.IsLetter(r) || unicode.IsDigit(r)
}
