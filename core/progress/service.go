package progress

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/content"
	"github.com/trezcool/ielts/core/grading"
	"github.com/trezcool/ielts/core/student"
)

type (
	// Service tracks the progress of students.
	// Every mutation is persisted with a single SetProgress call.
	Service struct {
		repo    Repository
		catalog *content.Catalog
	}

	BookStats struct {
		BookID         string `json:"book_id"`
		Title          string `json:"title"`
		Available      bool   `json:"available"`
		CompletedUnits int    `json:"completed_units"`
		TotalUnits     int    `json:"total_units"`
		Percentage     int    `json:"percentage"`
	}

	Summary struct {
		TotalReadingTime int         `json:"total_reading_time"`
		TotalExercises   int         `json:"total_exercises"`
		AverageScore     int         `json:"average_score"`
		Books            []BookStats `json:"books"`
	}
)

func NewService(repo Repository, catalog *content.Catalog) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// Init creates the record of a student unless it already exists.
func (svc *Service) Init(ctx context.Context, usr student.User) (Record, error) {
	rec, err := svc.repo.GetProgress(ctx, usr.ID)
	if err == nil {
		return rec, nil
	}
	if errors.Cause(err) != ErrNotFound {
		return Record{}, errors.Wrap(err, "getting progress")
	}
	rec = NewRecord(usr)
	if err = svc.repo.SetProgress(ctx, usr.ID, rec); err != nil {
		return Record{}, errors.Wrap(err, "setting progress")
	}
	return rec, nil
}

func (svc *Service) Get(ctx context.Context, userID string) (Record, error) {
	return svc.repo.GetProgress(ctx, userID)
}

func (svc *Service) getOrNew(ctx context.Context, usr student.User) (Record, error) {
	rec, err := svc.repo.GetProgress(ctx, usr.ID)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			return Record{}, errors.Wrap(err, "getting progress")
		}
		rec = NewRecord(usr)
	}
	return rec, nil
}

// RecordWordFound adds the vocabulary entry at index to the found words of the unit.
// The found list never holds duplicates; nothing is written when the word was already found.
func (svc *Service) RecordWordFound(ctx context.Context, usr student.User, bookID, unitID string, index int) error {
	rec, err := svc.getOrNew(ctx, usr)
	if err != nil {
		return err
	}
	up := rec.ensureUnit(bookID, unitID)
	if up.HasWord(index) {
		return nil
	}
	up.VocabularyFound = append(up.VocabularyFound, index)
	return errors.Wrap(svc.repo.SetProgress(ctx, usr.ID, rec), "setting progress")
}

// RecordSubmission stores the graded exercises of a unit and updates the student's rollups.
func (svc *Service) RecordSubmission(
	ctx context.Context,
	usr student.User,
	bookID, unitID string,
	res grading.Result,
	readingMinutes int,
	at time.Time,
) (Record, error) {
	rec, err := svc.getOrNew(ctx, usr)
	if err != nil {
		return Record{}, err
	}
	up := rec.ensureUnit(bookID, unitID)
	up.Exercises = &ExerciseResult{
		Score:      res.Score,
		Total:      res.Total,
		Percentage: res.Percentage,
		Timestamp:  at.UTC(),
	}
	up.ReadingTime = readingMinutes
	up.Completed = true

	rec.TotalExercises++
	n := float64(rec.TotalExercises)
	rec.AverageScore = (rec.AverageScore*(n-1) + float64(res.Percentage)) / n
	rec.TotalReadingTime += readingMinutes

	if err = svc.repo.SetProgress(ctx, usr.ID, rec); err != nil {
		return Record{}, errors.Wrap(err, "setting progress")
	}
	return rec, nil
}

// BookStatsFor returns the completion of a book: units with submitted exercises over all units of the book.
func BookStatsFor(rec Record, book content.Book) BookStats {
	stats := BookStats{
		BookID:     book.ID,
		Title:      book.Title,
		Available:  book.Available,
		TotalUnits: len(book.Units),
	}
	if bp, ok := rec.Books[book.ID]; ok && bp != nil {
		for _, unitID := range book.Units {
			if up := bp.Units[unitID]; up != nil && up.Completed {
				stats.CompletedUnits++
			}
		}
	}
	stats.Percentage = core.Percent(stats.CompletedUnits, stats.TotalUnits)
	return stats
}

// Overview returns the stats of every book of the catalog for a student.
func (svc *Service) Overview(ctx context.Context, userID string) ([]BookStats, error) {
	rec, err := svc.repo.GetProgress(ctx, userID)
	if err != nil && errors.Cause(err) != ErrNotFound {
		return nil, errors.Wrap(err, "getting progress")
	}
	books := svc.catalog.Books()
	stats := make([]BookStats, 0, len(books))
	for _, b := range books {
		stats = append(stats, BookStatsFor(rec, b))
	}
	return stats, nil
}

// Summary returns the overall statistics of a student and the stats of the books they started.
func (svc *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	rec, err := svc.repo.GetProgress(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{
		TotalReadingTime: rec.TotalReadingTime,
		TotalExercises:   rec.TotalExercises,
		AverageScore:     int(math.Round(rec.AverageScore)),
		Books:            make([]BookStats, 0, len(rec.Books)),
	}
	for _, b := range svc.catalog.Books() {
		if _, ok := rec.Books[b.ID]; ok {
			sum.Books = append(sum.Books, BookStatsFor(rec, b))
		}
	}
	return sum, nil
}

// UnitVocabularyPercent returns the share of the unit's vocabulary the student found.
func UnitVocabularyPercent(rec Record, bookID, unitID string, vocabTotal int) int {
	up := rec.Unit(bookID, unitID)
	if up == nil {
		return 0
	}
	return core.Percent(len(up.VocabularyFound), vocabTotal)
}
