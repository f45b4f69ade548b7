package content

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ielts/tests"
)

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		BooksFile: {Data: []byte(`{
			"tn": {"id": "tn", "title": "Thoughts and Notions", "description": "d", "units": ["1.1", "1.2"], "available": true},
			"re": {"title": "Reading Explorer", "units": ["1.1"], "available": false}
		}`)},
		UnitsFile: {Data: []byte(`{"tn_1.1": {"title": "Coffee", "text": "Coffee is old.\n\nPeople drink it.", "difficulty": "A2"}}`)},
		VocabularyFile: {Data: []byte(`{"tn_1.1": [
			{"word": "bean", "translation": "dukkak", "definition": "a seed", "example": "a coffee bean", "level": "A2"},
			{"word": "roast", "translation": "qovurmoq", "definition": "to cook", "example": "roast the beans", "level": "B1"}
		]}`)},
		GrammarFile: {Data: []byte(`{"tn_1.1": {"title": "Present Simple", "explanation": "facts", "examples": ["Coffee grows."]}}`)},
		ExercisesFile: {Data: []byte(`{"tn_1.1": {
			"reading_comprehension": [{"question": "q1", "options": ["a", "b"], "correct": 0}],
			"vocabulary": [{"question": "q2", "options": ["a", "b"], "correct": 1}, {"question": "q3", "options": ["a", "b"], "correct": 1}],
			"grammar": []
		}}`)},
	}
}

func TestLoad(t *testing.T) {
	logger := new(testutil.Logger)
	c := Load(contentFS(), logger)

	books := c.Books()
	require.Len(t, books, 2)
	assert.Equal(t, "re", books[0].ID, "book IDs default to their key")
	assert.Equal(t, "tn", books[1].ID)

	u, err := c.Unit("tn", "1.1")
	require.NoError(t, err)
	assert.Equal(t, "Coffee", u.Title)
	assert.Equal(t, []string{"Coffee is old.", "People drink it."}, u.Paragraphs())
	assert.Equal(t, 6, u.WordCount())

	assert.Len(t, c.Vocabulary("tn", "1.1"), 2)
	assert.Equal(t, "Present Simple", c.Grammar("tn", "1.1").Title)
	assert.Equal(t, 3, c.Exercises("tn", "1.1").Total())
	assert.Equal(t, 0, logger.Count("WARN"))
}

func TestLoad_fallback(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{name: "missing files", fsys: fstest.MapFS{}},
		{name: "invalid json", fsys: func() fstest.MapFS {
			fsys := contentFS()
			fsys[GrammarFile] = &fstest.MapFile{Data: []byte("{lol")}
			return fsys
		}()},
		{name: "no books", fsys: func() fstest.MapFS {
			fsys := contentFS()
			fsys[BooksFile] = &fstest.MapFile{Data: []byte("{}")}
			return fsys
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := new(testutil.Logger)
			c := Load(tt.fsys, logger)

			assert.Equal(t, 1, logger.Count("WARN"))
			assert.Equal(t, Default().Books(), c.Books())
		})
	}
}

func TestCatalog_lookups(t *testing.T) {
	c := Load(contentFS(), new(testutil.Logger))

	_, err := c.Book("lol")
	assert.Equal(t, ErrBookNotFound, err)

	_, err = c.Unit("lol", "1.1")
	assert.Equal(t, ErrBookNotFound, err)

	_, err = c.Unit("tn", "9.9")
	assert.Equal(t, ErrUnitNotFound, err)

	// listed by the book but without content: built-in unit
	u, err := c.Unit("tn", "1.2")
	require.NoError(t, err)
	assert.Equal(t, "The Zipper", u.Title)
	assert.Equal(t, "invention", c.Vocabulary("tn", "1.2")[0].Word)
	assert.Equal(t, "Past Simple Tense", c.Grammar("tn", "1.2").Title)
	assert.Equal(t, 3, c.Exercises("tn", "1.2").Total())

	assert.Equal(t, "Thoughts and Notions", c.BookTitle("tn"))
	assert.Equal(t, "lol", c.BookTitle("lol"))
}

func TestExerciseSet_Lookup(t *testing.T) {
	set := defaultExercises()

	ex, ok := set.Lookup(1, 0)
	require.True(t, ok)
	assert.Equal(t, "What does 'invention' mean?", ex.Question)

	for _, idx := range [][2]int{{-1, 0}, {3, 0}, {0, 1}, {2, -1}} {
		_, ok = set.Lookup(idx[0], idx[1])
		assert.False(t, ok, "Lookup(%d, %d)", idx[0], idx[1])
	}
}
