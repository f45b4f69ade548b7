// Package notify forwards exercise submissions to the teacher.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/grading"
	"github.com/trezcool/ielts/core/student"
)

var ErrNotConfigured = errors.New("notifications are not configured")

type (
	// Submission is the payload sent for every graded unit.
	Submission struct {
		StudentName     string `json:"studentName"`
		StudentID       string `json:"studentId"`
		Group           string `json:"group"`
		Book            string `json:"book"`
		Unit            string `json:"unit"`
		Score           int    `json:"score" validate:"min=0"`
		TotalQuestions  int    `json:"totalQuestions" validate:"min=0"`
		Percentage      int    `json:"percentage" validate:"min=0,max=100"`
		ReadingTime     int    `json:"readingTime" validate:"min=0"` // minutes
		VocabularyFound int    `json:"vocabularyFound" validate:"min=0"`
		Timestamp       string `json:"timestamp"` // RFC 3339
	}

	// Receipt acknowledges a delivered notification.
	Receipt struct {
		MessageID int64 `json:"message_id"`
		Simulated bool  `json:"simulated"`
	}

	Notifier interface {
		Notify(ctx context.Context, sub Submission) (Receipt, error)
	}

	// APIError is an upstream rejection of a notification.
	APIError struct {
		Code        int
		Description string
	}
)

func (e *APIError) Error() string {
	return fmt.Sprintf("notify: upstream error %d: %s", e.Code, e.Description)
}

func (sub *Submission) Validate(validate *validator.Validate) error {
	return validate.Struct(sub)
}

// NewSubmission builds the payload of a graded unit.
func NewSubmission(
	usr student.User,
	bookTitle, unitID string,
	res grading.Result,
	readingMinutes, vocabularyFound int,
	at time.Time,
) Submission {
	return Submission{
		StudentName:     usr.FullName(),
		StudentID:       usr.ID,
		Group:           usr.Group,
		Book:            bookTitle,
		Unit:            unitID,
		Score:           res.Score,
		TotalQuestions:  res.Total,
		Percentage:      res.Percentage,
		ReadingTime:     readingMinutes,
		VocabularyFound: vocabularyFound,
		Timestamp:       at.UTC().Format(time.RFC3339),
	}
}

// SubmittedAt parses the submission time, falling back to now when it is missing or invalid.
func (sub Submission) SubmittedAt(now time.Time) time.Time {
	if sub.Timestamp != "" {
		if t, err := time.Parse(time.RFC3339, sub.Timestamp); err == nil {
			return t
		}
	}
	return now
}

type fanout struct {
	logger  core.Logger
	primary Notifier
	copies  []Notifier
}

// Fanout sends every submission to primary, then to each copy.
// Only the outcome of primary is returned; failed copies are logged.
func Fanout(logger core.Logger, primary Notifier, copies ...Notifier) Notifier {
	return &fanout{logger: logger, primary: primary, copies: copies}
}

func (f *fanout) Notify(ctx context.Context, sub Submission) (Receipt, error) {
	receipt, err := f.primary.Notify(ctx, sub)
	for _, n := range f.copies {
		if _, cerr := n.Notify(ctx, sub); cerr != nil {
			f.logger.Error("sending submission copy", "student", sub.StudentID, "error", cerr)
		}
	}
	return receipt, err
}
