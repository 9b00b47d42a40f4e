package plan

import (
	"fmt"
	"sync"

	"github.com/viant/parsly"
)

// Extractor finds call expressions embedded in free text. Only calls whose
// name belongs to its vocabulary are recognized; everything else is prose.
type Extractor struct {
	vocabulary map[string]bool
	mux        sync.RWMutex
}

// NewExtractor returns an extractor recognizing the supplied call names.
func NewExtractor(vocabulary ...string) *Extractor {
	recognized := make(map[string]bool, len(vocabulary))
	for _, name := range vocabulary {
		recognized[name] = true
	}
	return &Extractor{vocabulary: recognized}
}

// Recognizes reports whether name belongs to the extractor vocabulary.
func (e *Extractor) Recognizes(name string) bool {
	e.mux.RLock()
	defer e.mux.RUnlock()
	return e.vocabulary[name]
}

// Include adds the supplied call names to the vocabulary, so tools
// registered after construction stay extractable.
func (e *Extractor) Include(names ...string) {
	e.mux.Lock()
	defer e.mux.Unlock()
	for _, name := range names {
		e.vocabulary[name] = true
	}
}

// Extract scans text and returns every balanced recognized call, in original
// order, with surrounding prose ignored. A recognized call whose parentheses
// never balance is reported as a warning and skipped; scanning resumes just
// past its opening parenthesis so later calls are still found.
func (e *Extractor) Extract(text string) *Plan {
	result := &Plan{}
	cursor := parsly.NewCursor("", []byte(text), 0)

	for cursor.Pos < cursor.InputSize {
		start := cursor.Pos
		matched := cursor.MatchOne(identifierToken)
		if matched.Code != identifierToken.Code {
			cursor.Pos++
			continue
		}
		name := matched.Text(cursor)
		if !e.Recognizes(name) {
			continue
		}
		if start > 0 && isWordByte(cursor.Input[start-1]) {
			continue
		}

		matched = cursor.MatchAfterOptional(whitespaceToken, openParenToken)
		if matched.Code != openParenToken.Code {
			continue
		}
		afterOpen := cursor.Pos

		cursor.MatchOne(callBodyToken)
		matched = cursor.MatchOne(closeParenToken)
		if matched.Code != closeParenToken.Code {
			result.Warnings = append(result.Warnings, Warning{
				Name:     name,
				Position: start,
				Message:  fmt.Sprintf("call %q at %d has no matching close parenthesis", name, start),
			})
			cursor.Pos = afterOpen
			continue
		}
		result.Expressions = append(result.Expressions, string(cursor.Input[start:cursor.Pos]))
	}
	return result
}

func isWordByte(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
