package reading

import (
	"time"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/content"
	"github.com/trezcool/ielts/core/grading"
	"github.com/trezcool/ielts/core/student"
)

type (
	// Session is the reading state of a logged in student.
	Session struct {
		User      student.User    `json:"user"`
		BookID    string          `json:"book_id"`
		UnitID    string          `json:"unit_id"`
		StartedAt time.Time       `json:"started_at"` // start of the reading clock
		Found     map[int]bool    `json:"-"`
		Answers   grading.Answers `json:"answers"`
	}

	VocabStats struct {
		Found      int `json:"found"`
		Total      int `json:"total"`
		Percentage int `json:"percentage"`
	}

	VocabularyView struct {
		Index int `json:"index"`
		content.VocabularyEntry
		Found bool `json:"found"`
	}

	// ExerciseView is an exercise without its answer key.
	ExerciseView struct {
		Key      string   `json:"key"`
		Category string   `json:"category"`
		Question string   `json:"question"`
		Options  []string `json:"options"`
		Type     string   `json:"type,omitempty"`
		Selected *int     `json:"selected"`
	}

	UnitOption struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	UnitView struct {
		BookID     string           `json:"book_id"`
		BookTitle  string           `json:"book_title"`
		UnitID     string           `json:"unit_id"`
		Title      string           `json:"title"`
		Difficulty string           `json:"difficulty"`
		Paragraphs []string         `json:"paragraphs"`
		WordCount  int              `json:"word_count"`
		Vocabulary []VocabularyView `json:"vocabulary"`
		VocabStats VocabStats       `json:"vocab_stats"`
		Grammar    content.Grammar  `json:"grammar"`
		Exercises  []ExerciseView   `json:"exercises"`
		Progress   int              `json:"progress"` // percent of the unit's vocabulary ever found
		Units      []UnitOption     `json:"units"`
	}

	WordReveal struct {
		Index int        `json:"index"`
		Found bool       `json:"found"`
		Stats VocabStats `json:"stats"`
	}

	// Outcome is the result of a submission.
	Outcome struct {
		grading.Result
		ReadingTime int    `json:"reading_time"` // whole minutes
		WordsRead   int    `json:"words_read"`
		Feedback    string `json:"feedback"`
		Notified    bool   `json:"notified"`
	}
)

func (s Session) copy() Session {
	c := s
	c.Found = make(map[int]bool, len(s.Found))
	for i, f := range s.Found {
		c.Found[i] = f
	}
	c.Answers = make(grading.Answers, len(s.Answers))
	for k, v := range s.Answers {
		c.Answers[k] = v
	}
	return c
}

func (s Session) vocabStats(total int) VocabStats {
	var found int
	for _, f := range s.Found {
		if f {
			found++
		}
	}
	return VocabStats{Found: found, Total: total, Percentage: core.Percent(found, total)}
}
