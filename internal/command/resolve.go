package command

import (
	"fmt"
	"strings"

	"github.com/dekarrin/nightrunner/internal/nrerrors"
	"github.com/dekarrin/nightrunner/internal/world"
)

// TokenKind is the type of thing a Token refers to.
type TokenKind int

const (
	TokUnrecognized TokenKind = iota
	TokVerb
	TokItem
	TokSubject
	TokDirection
	TokMovement

	// noise words are matched so that multi-word ones like "lot of" are
	// consumed whole, but they are never emitted.
	tokNoise
)

func (tk TokenKind) String() string {
	switch tk {
	case TokUnrecognized:
		return "unrecognized"
	case TokVerb:
		return "verb"
	case TokItem:
		return "item"
	case TokSubject:
		return "subject"
	case TokDirection:
		return "direction"
	case TokMovement:
		return "movement"
	case tokNoise:
		return "noise"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(tk))
	}
}

// Token is a single resolved word or phrase of input.
type Token struct {
	Kind TokenKind

	// ID is the verb, item, or subject ID for those kinds.
	ID int

	// Direction is set for TokDirection.
	Direction world.Direction

	// Word is the folded input text the token was made from.
	Word string
}

// Resolve splits text into tokens. Matching is case-insensitive and always
// prefers the longest phrase. Noise words are dropped; words that are not
// known become TokUnrecognized tokens. If nothing in the text is known, an
// error is returned.
func (p *Parser) Resolve(text string) ([]Token, error) {
	folded := world.Fold(text)
	if folded == "" {
		return nil, nrerrors.Newt(nrerrors.EmptyInput, "No input. Nothing to process.", "input is blank")
	}

	var toks []Token
	recognized := false

	emit := func(e vocabEntry, word string) {
		if e.kind == tokNoise {
			return
		}
		recognized = true
		toks = append(toks, Token{Kind: e.kind, ID: e.id, Direction: e.dir, Word: word})
	}
	unknown := func(s string) {
		for _, w := range strings.Fields(s) {
			toks = append(toks, Token{Kind: TokUnrecognized, Word: w})
		}
	}

	pos := 0
	for pos < len(folded) {
		cursor := pos
		restart := -1

		for _, m := range p.ac.FindAll(folded[pos:]) {
			start, end := pos+m.Start(), pos+m.End()
			if start < cursor {
				continue
			}

			if isWordStart(folded, start) && isWordEnd(folded, end) {
				unknown(folded[cursor:start])
				emit(p.entries[m.Pattern()], folded[start:end])
				cursor = end
				continue
			}

			// match is part of a longer word. settle the word it is in by
			// whole-word lookup, then scan again after it.
			wordStart := strings.LastIndexByte(folded[:start], ' ') + 1
			if wordStart < cursor {
				wordStart = cursor
			}
			unknown(folded[cursor:wordStart])
			restart = p.settle(folded, wordStart, emit, unknown)
			break
		}

		if restart < 0 {
			unknown(folded[cursor:])
			break
		}
		pos = restart
	}

	if !recognized {
		return nil, nrerrors.Newt(nrerrors.UnrecognizedInput, "I don't understand that.", fmt.Sprintf("unrecognized input: %q", text))
	}
	return toks, nil
}

// settle resolves the longest vocabulary phrase made of whole words starting
// at start. If there is none, the first word is unrecognized. The position
// after whatever was consumed is returned.
func (p *Parser) settle(text string, start int, emit func(vocabEntry, string), unknown func(string)) int {
	words := strings.Fields(text[start:])
	if len(words) > p.maxWords {
		words = words[:p.maxWords]
	}

	for n := len(words); n > 0; n-- {
		candidate := strings.Join(words[:n], " ")
		if idx, ok := p.index[candidate]; ok {
			emit(p.entries[idx], candidate)
			return start + len(candidate)
		}
	}

	first := strings.Fields(text[start:])[0]
	unknown(first)
	return start + len(first)
}

func isWordStart(s string, i int) bool {
	return i == 0 || s[i-1] == ' '
}

func isWordEnd(s string, i int) bool {
	return i == len(s) || s[i] == ' '
}
