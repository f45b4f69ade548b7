package progress

import (
	"context"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core/grading"
)

// AllGroups is the group filter value of the dashboard that matches every group.
const AllGroups = "all"

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var ErrUnknownFormat = errors.New("unknown export format")

// exportFields is the column order of the downloads.
var exportFields = []string{
	"student", "group", "book", "unit", "score", "total",
	"percentage", "readingTime", "vocabularyFound", "date",
}

type (
	// Filter narrows the teacher views. The zero Filter matches everything.
	Filter struct {
		Group string `query:"group"` // "all" is the same as ""
	}

	// Submission is one row of the teacher dashboard: a unit with graded exercises.
	Submission struct {
		StudentID       string    `json:"student_id"`
		Student         string    `json:"student"`
		Group           string    `json:"group"`
		BookID          string    `json:"book_id"`
		Book            string    `json:"book"`
		Unit            string    `json:"unit"`
		Score           int       `json:"score"`
		Total           int       `json:"total"`
		Percentage      int       `json:"percentage"`
		Band            string    `json:"band"`
		ReadingTime     int       `json:"reading_time"`
		VocabularyFound int       `json:"vocabulary_found"`
		Timestamp       time.Time `json:"timestamp"`
	}

	exportRow struct {
		Student         string `json:"student"`
		Group           string `json:"group"`
		Book            string `json:"book"`
		Unit            string `json:"unit"`
		Score           int    `json:"score"`
		Total           int    `json:"total"`
		Percentage      int    `json:"percentage"`
		ReadingTime     int    `json:"readingTime"`
		VocabularyFound int    `json:"vocabularyFound"`
		Date            string `json:"date"` // RFC 3339 submission time
	}
)

func (f Filter) match(rec Record) bool {
	return f.Group == "" || f.Group == AllGroups || rec.Group == f.Group
}

func (s Submission) values() []interface{} {
	return []interface{}{
		s.Student, s.Group, s.Book, s.Unit, s.Score, s.Total,
		s.Percentage, s.ReadingTime, s.VocabularyFound, s.Timestamp.UTC().Format(time.RFC3339),
	}
}

// Groups returns the distinct groups of all students, sorted.
func (svc *Service) Groups(ctx context.Context) ([]string, error) {
	all, err := svc.repo.QueryAllProgress(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}
	seen := make(map[string]bool)
	groups := make([]string, 0)
	for _, rec := range all {
		if rec.Group != "" && !seen[rec.Group] {
			seen[rec.Group] = true
			groups = append(groups, rec.Group)
		}
	}
	sort.Strings(groups)
	return groups, nil
}

// Submissions returns one row per unit with an exercise result, newest first.
func (svc *Service) Submissions(ctx context.Context, filter Filter) ([]Submission, error) {
	all, err := svc.repo.QueryAllProgress(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying progress")
	}

	subs := make([]Submission, 0)
	for userID, rec := range all {
		if !filter.match(rec) {
			continue
		}
		for bookID, bp := range rec.Books {
			if bp == nil {
				continue
			}
			for unitID, up := range bp.Units {
				if up == nil || up.Exercises == nil {
					continue
				}
				ex := up.Exercises
				subs = append(subs, Submission{
					StudentID:       userID,
					Student:         rec.FullName(),
					Group:           rec.Group,
					BookID:          bookID,
					Book:            svc.catalog.BookTitle(bookID),
					Unit:            unitID,
					Score:           ex.Score,
					Total:           ex.Total,
					Percentage:      ex.Percentage,
					Band:            grading.Band(ex.Percentage),
					ReadingTime:     up.ReadingTime,
					VocabularyFound: len(up.VocabularyFound),
					Timestamp:       ex.Timestamp,
				})
			}
		}
	}

	sort.Slice(subs, func(i, j int) bool {
		a, b := subs[i], subs[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		if a.Student != b.Student {
			return a.Student < b.Student
		}
		if a.BookID != b.BookID {
			return a.BookID < b.BookID
		}
		return a.Unit < b.Unit
	})
	return subs, nil
}

// Export writes the submissions matching filter in the given format.
// CSV cells are JSON-encoded values joined by commas; no rows yield an empty body.
func (svc *Service) Export(ctx context.Context, filter Filter, format string, w io.Writer) error {
	if format != FormatJSON && format != FormatCSV {
		return errors.Wrap(ErrUnknownFormat, format)
	}
	subs, err := svc.Submissions(ctx, filter)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		rows := make([]exportRow, 0, len(subs))
		for _, s := range subs {
			rows = append(rows, exportRow{
				Student:         s.Student,
				Group:           s.Group,
				Book:            s.Book,
				Unit:            s.Unit,
				Score:           s.Score,
				Total:           s.Total,
				Percentage:      s.Percentage,
				ReadingTime:     s.ReadingTime,
				VocabularyFound: s.VocabularyFound,
				Date:            s.Timestamp.UTC().Format(time.RFC3339),
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(rows), "encoding json")
	}

	if len(subs) == 0 {
		return nil
	}
	lines := make([]string, 0, len(subs)+1)
	lines = append(lines, strings.Join(exportFields, ","))
	for _, s := range subs {
		vals := s.values()
		cells := make([]string, len(vals))
		for i, v := range vals {
			b, err := json.Marshal(v)
			if err != nil {
				return errors.Wrap(err, "encoding csv value")
			}
			cells[i] = string(b)
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	_, err = io.WriteString(w, strings.Join(lines, "\n"))
	return errors.Wrap(err, "writing csv")
}
