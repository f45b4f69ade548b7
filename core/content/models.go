package content

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrBookNotFound    = errors.New("book not found")
	ErrBookUnavailable = errors.New("this book will be available soon")
	ErrUnitNotFound    = errors.New("unit not found")
)

// Exercise categories, in display and grading order.
const (
	CategoryReading    = "reading"
	CategoryVocabulary = "vocabulary"
	CategoryGrammar    = "grammar"
)

var Categories = []string{CategoryReading, CategoryVocabulary, CategoryGrammar}

type (
	Book struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Units       []string `json:"units"`
		Difficulty  string   `json:"difficulty,omitempty"`
		Icon        string   `json:"icon,omitempty"`
		Available   bool     `json:"available"`
	}

	Unit struct {
		Title      string `json:"title"`
		Text       string `json:"text"`
		Difficulty string `json:"difficulty,omitempty"`
	}

	VocabularyEntry struct {
		Word        string `json:"word"`
		Translation string `json:"translation"`
		Definition  string `json:"definition"`
		Example     string `json:"example"`
		Level       string `json:"level"`
	}

	Grammar struct {
		Title       string   `json:"title"`
		Explanation string   `json:"explanation"`
		Examples    []string `json:"examples"`
	}

	Exercise struct {
		Question string   `json:"question"`
		Options  []string `json:"options"`
		Correct  int      `json:"correct"`
		Type     string   `json:"type,omitempty"`
	}

	// ExerciseSet is the exercise bank of one unit.
	ExerciseSet struct {
		ReadingComprehension []Exercise `json:"reading_comprehension"`
		Vocabulary           []Exercise `json:"vocabulary"`
		Grammar              []Exercise `json:"grammar"`
	}
)

// UnitKey returns the key under which a unit's content is stored.
func UnitKey(bookID, unitID string) string {
	return bookID + "_" + unitID
}

// HasUnit reports whether unitID belongs to the book.
func (b Book) HasUnit(unitID string) bool {
	for _, u := range b.Units {
		if u == unitID {
			return true
		}
	}
	return false
}

// Paragraphs splits the unit text on blank lines.
func (u Unit) Paragraphs() []string {
	parts := strings.Split(strings.ReplaceAll(u.Text, "\r\n", "\n"), "\n\n")
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// WordCount returns the number of whitespace separated words in the unit text.
func (u Unit) WordCount() int {
	return len(strings.Fields(u.Text))
}

// Categories returns the exercises of each category, in Categories order.
func (s ExerciseSet) Categories() [][]Exercise {
	return [][]Exercise{s.ReadingComprehension, s.Vocabulary, s.Grammar}
}

// Total returns the number of exercises across all categories.
func (s ExerciseSet) Total() int {
	return len(s.ReadingComprehension) + len(s.Vocabulary) + len(s.Grammar)
}

// Lookup returns the exercise at the given category and index.
func (s ExerciseSet) Lookup(category, index int) (Exercise, bool) {
	cats := s.Categories()
	if category < 0 || category >= len(cats) || index < 0 || index >= len(cats[category]) {
		return Exercise{}, false
	}
	return cats[category][index], true
}
