package content

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core"
)

// content files, relative to the content directory
const (
	BooksFile      = "books.json"
	UnitsFile      = "units.json"
	VocabularyFile = "vocabulary.json"
	GrammarFile    = "grammar.json"
	ExercisesFile  = "exercises.json"
)

// Catalog is the read-only reference data: books and per-unit content.
type Catalog struct {
	books      map[string]Book
	units      map[string]Unit
	vocabulary map[string][]VocabularyEntry
	grammar    map[string]Grammar
	exercises  map[string]ExerciseSet
}

// NewCatalog builds a Catalog from already decoded data. nil maps are allowed.
func NewCatalog(
	books map[string]Book,
	units map[string]Unit,
	vocabulary map[string][]VocabularyEntry,
	grammar map[string]Grammar,
	exercises map[string]ExerciseSet,
) *Catalog {
	c := &Catalog{
		books:      books,
		units:      units,
		vocabulary: vocabulary,
		grammar:    grammar,
		exercises:  exercises,
	}
	if c.books == nil {
		c.books = make(map[string]Book)
	}
	for id, b := range c.books {
		if b.ID == "" {
			b.ID = id
			c.books[id] = b
		}
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return NewCatalog(defaultBooks(), nil, nil, nil, nil)
}

// Load reads the content files from fsys.
// Any failure is logged and the built-in catalog is returned instead so that the platform remains usable.
func Load(fsys fs.FS, logger core.Logger) *Catalog {
	c, err := load(fsys)
	if err != nil {
		logger.Warn(fmt.Sprintf("loading content, falling back to default data: %v", err), err)
		return Default()
	}
	logger.Info(fmt.Sprintf("content loaded: %d books, %d units", len(c.books), len(c.units)))
	return c
}

func load(fsys fs.FS) (*Catalog, error) {
	var (
		books      map[string]Book
		units      map[string]Unit
		vocabulary map[string][]VocabularyEntry
		grammar    map[string]Grammar
		exercises  map[string]ExerciseSet
	)
	files := []struct {
		name string
		dest interface{}
	}{
		{BooksFile, &books},
		{UnitsFile, &units},
		{VocabularyFile, &vocabulary},
		{GrammarFile, &grammar},
		{ExercisesFile, &exercises},
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", f.name)
		}
		if err = json.Unmarshal(data, f.dest); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", f.name)
		}
	}
	if len(books) == 0 {
		return nil, errors.Errorf("%s: no books", BooksFile)
	}
	return NewCatalog(books, units, vocabulary, grammar, exercises), nil
}

// Books returns all books sorted by ID.
func (c *Catalog) Books() []Book {
	books := make([]Book, 0, len(c.books))
	for _, b := range c.books {
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books
}

func (c *Catalog) Book(id string) (Book, error) {
	b, ok := c.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return b, nil
}

// BookTitle returns the title of the book, or its ID when the book is unknown.
func (c *Catalog) BookTitle(id string) string {
	if b, ok := c.books[id]; ok && b.Title != "" {
		return b.Title
	}
	return id
}

// Unit returns the content of a unit of a book.
// Units listed by the book but missing from the content files get the built-in unit.
func (c *Catalog) Unit(bookID, unitID string) (Unit, error) {
	b, err := c.Book(bookID)
	if err != nil {
		return Unit{}, err
	}
	if !b.HasUnit(unitID) {
		return Unit{}, ErrUnitNotFound
	}
	if u, ok := c.units[UnitKey(bookID, unitID)]; ok {
		return u, nil
	}
	return defaultUnit(), nil
}

func (c *Catalog) Vocabulary(bookID, unitID string) []VocabularyEntry {
	if v, ok := c.vocabulary[UnitKey(bookID, unitID)]; ok {
		return v
	}
	return defaultVocabulary()
}

func (c *Catalog) Grammar(bookID, unitID string) Grammar {
	if g, ok := c.grammar[UnitKey(bookID, unitID)]; ok {
		return g
	}
	return defaultGrammar()
}

func (c *Catalog) Exercises(bookID, unitID string) ExerciseSet {
	if e, ok := c.exercises[UnitKey(bookID, unitID)]; ok {
		return e
	}
	return defaultExercises()
}

// UnitTitle returns the title of a unit from the content files, or "" when it has none.
func (c *Catalog) UnitTitle(bookID, unitID string) string {
	return c.units[UnitKey(bookID, unitID)].Title
}
