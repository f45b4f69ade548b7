package progress

import (
	"time"

	"github.com/trezcool/ielts/core/student"
)

type (
	// Record is the progress of one student across all books.
	Record struct {
		Name             string                   `json:"name"`
		Surname          string                   `json:"surname"`
		Group            string                   `json:"group"`
		Books            map[string]*BookProgress `json:"books"`
		TotalReadingTime int                      `json:"totalReadingTime"` // minutes
		TotalExercises   int                      `json:"totalExercises"`
		AverageScore     float64                  `json:"averageScore"`
	}

	BookProgress struct {
		Units map[string]*UnitProgress `json:"units"`
	}

	UnitProgress struct {
		VocabularyFound []int           `json:"vocabularyFound"`
		Exercises       *ExerciseResult `json:"exercises,omitempty"`
		ReadingTime     int             `json:"readingTime"` // minutes
		Completed       bool            `json:"completed"`
	}

	ExerciseResult struct {
		Score      int       `json:"score"`
		Total      int       `json:"total"`
		Percentage int       `json:"percentage"`
		Timestamp  time.Time `json:"timestamp"`
	}
)

// NewRecord returns the empty record of a student.
func NewRecord(usr student.User) Record {
	return Record{
		Name:    usr.Name,
		Surname: usr.Surname,
		Group:   usr.Group,
		Books:   make(map[string]*BookProgress),
	}
}

func (r Record) FullName() string {
	return student.User{Name: r.Name, Surname: r.Surname}.FullName()
}

// Unit returns the progress of a unit, or nil when the unit was never started.
func (r Record) Unit(bookID, unitID string) *UnitProgress {
	if bp, ok := r.Books[bookID]; ok && bp != nil {
		return bp.Units[unitID]
	}
	return nil
}

// ensureUnit creates the nested book and unit entries when missing.
func (r *Record) ensureUnit(bookID, unitID string) *UnitProgress {
	if r.Books == nil {
		r.Books = make(map[string]*BookProgress)
	}
	bp, ok := r.Books[bookID]
	if !ok || bp == nil {
		bp = &BookProgress{}
		r.Books[bookID] = bp
	}
	if bp.Units == nil {
		bp.Units = make(map[string]*UnitProgress)
	}
	up, ok := bp.Units[unitID]
	if !ok || up == nil {
		up = &UnitProgress{VocabularyFound: []int{}}
		bp.Units[unitID] = up
	}
	return up
}

// HasWord reports whether the vocabulary entry at index was found.
func (up *UnitProgress) HasWord(index int) bool {
	for _, i := range up.VocabularyFound {
		if i == index {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record, so that stores never share nested maps with callers.
func (r Record) Clone() Record {
	c := r
	c.Books = make(map[string]*BookProgress, len(r.Books))
	for bookID, bp := range r.Books {
		if bp == nil {
			continue
		}
		nbp := &BookProgress{Units: make(map[string]*UnitProgress, len(bp.Units))}
		for unitID, up := range bp.Units {
			if up == nil {
				continue
			}
			nup := *up
			nup.VocabularyFound = append([]int{}, up.VocabularyFound...)
			if up.Exercises != nil {
				ex := *up.Exercises
				nup.Exercises = &ex
			}
			nbp.Units[unitID] = &nup
		}
		c.Books[bookID] = nbp
	}
	return c
}
