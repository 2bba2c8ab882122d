package command

import (
	"strings"

	"github.com/dekarrin/nightrunner/internal/world"
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// vocabEntry is what a single vocabulary word resolves to.
type vocabEntry struct {
	kind TokenKind
	id   int
	dir  world.Direction
}

// Parser resolves and classifies input against the vocabulary of one world.
// It is built once per Catalog and is safe for concurrent use.
type Parser struct {
	cat *world.Catalog

	ac       ahocorasick.AhoCorasick
	patterns []string
	entries  []vocabEntry
	index    map[string]int

	// maxWords is the number of words in the longest pattern.
	maxWords int
}

// NewParser builds the vocabulary automaton for the given world.
func NewParser(cat *world.Catalog) *Parser {
	p := &Parser{
		cat:   cat,
		index: map[string]int{},
	}

	// built-in words go in first so that the world's own words replace any
	// that are spelled the same. Directions replace noise words like "up".
	for _, w := range Prepositions {
		p.add(w, vocabEntry{kind: tokNoise})
	}
	for _, w := range Determiners {
		p.add(w, vocabEntry{kind: tokNoise})
	}
	for _, w := range MovementWords {
		p.add(w, vocabEntry{kind: TokMovement})
	}
	for w, dir := range world.DirectionWords() {
		p.add(w, vocabEntry{kind: TokDirection, dir: dir})
	}

	for _, v := range cat.Verbs() {
		for _, name := range v.Names {
			p.add(name, vocabEntry{kind: TokVerb, id: v.ID})
		}
	}
	for _, it := range cat.Items() {
		p.add(it.Name, vocabEntry{kind: TokItem, id: it.ID})
	}
	for _, subj := range cat.Subjects() {
		p.add(subj.Name, vocabEntry{kind: TokSubject, id: subj.ID})
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	p.ac = builder.Build(p.patterns)

	return p
}

func (p *Parser) add(word string, e vocabEntry) {
	key := world.Fold(word)
	if key == "" {
		return
	}
	if idx, ok := p.index[key]; ok {
		p.entries[idx] = e
		return
	}
	p.index[key] = len(p.patterns)
	p.patterns = append(p.patterns, key)
	p.entries = append(p.entries, e)

	if n := len(strings.Fields(key)); n > p.maxWords {
		p.maxWords = n
	}
}

// Catalog returns the world that p was built for.
func (p *Parser) Catalog() *world.Catalog {
	return p.cat
}

// Parse parses a command from the given text. If it cannot, a non-nil error
// is returned and the Command is the zero value.
func (p *Parser) Parse(text string) (Command, error) {
	toks, err := p.Resolve(text)
	if err != nil {
		return Command{}, err
	}
	return p.Classify(toks)
}

// Words returns every verb name in the world followed by the built-in
// movement and direction words. It is intended for input completion.
func (p *Parser) Words() []string {
	var words []string
	for _, v := range p.cat.Verbs() {
		words = append(words, v.Names...)
	}
	words = append(words, MovementWords...)
	for _, d := range world.Directions {
		words = append(words, d.String())
	}
	return words
}
