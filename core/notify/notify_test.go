package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/grading"
	"github.com/trezcool/ielts/core/student"
	testutil "github.com/trezcool/ielts/tests"
)

var now = time.Date(2024, time.March, 4, 10, 30, 0, 0, time.UTC)

func TestMessage(t *testing.T) {
	sub := Submission{
		StudentName:     "Ann Lee",
		StudentID:       "u1",
		Group:           "IELTS 5",
		Book:            "Thoughts and Notions",
		Unit:            "1.1",
		Score:           2,
		TotalQuestions:  3,
		Percentage:      67,
		ReadingTime:     4,
		VocabularyFound: 1,
		Timestamp:       "2024-03-04T09:15:00Z",
	}

	want := `📚 *IELTS Reading Platform - New Submission*
━━━━━━━━━━━━━━━━━━━━
👤 *Student:* Ann Lee
🎯 *Group:* IELTS 5
📖 *Book:* Thoughts and Notions
📝 *Unit:* 1.1
━━━━━━━━━━━━━━━━━━━━
📊 *Results:*
• Score: 2/3 (67%)
• Reading Time: 4 minutes
• Vocabulary Found: 1 words
━━━━━━━━━━━━━━━━━━━━
⏰ *Submitted:* 2024-03-04 09:15:00 UTC
🆔 *Student ID:* u1`
	assert.Equal(t, want, Message(sub, now))
}

func TestMessage_defaults(t *testing.T) {
	msg := Message(Submission{}, now)

	for _, line := range []string{
		"👤 *Student:* Unknown",
		"🎯 *Group:* No Group",
		"📖 *Book:* Unknown",
		"📝 *Unit:* Unknown",
		"• Score: 0/0 (0%)",
		"• Reading Time: 0 minutes",
		"• Vocabulary Found: 0 words",
		"⏰ *Submitted:* 2024-03-04 10:30:00 UTC",
		"🆔 *Student ID:* Unknown",
	} {
		assert.Contains(t, msg, line)
	}

	// an unparsable time falls back to now
	msg = Message(Submission{Timestamp: "yesterday"}, now)
	assert.Contains(t, msg, "⏰ *Submitted:* 2024-03-04 10:30:00 UTC")
}

func TestMessage_escapesMarkdown(t *testing.T) {
	msg := Message(Submission{StudentName: "ann_lee *", Group: "[IELTS]"}, now)
	assert.Contains(t, msg, `👤 *Student:* ann\_lee \*`)
	assert.Contains(t, msg, `🎯 *Group:* \[IELTS]`)
}

func TestNewSubmission(t *testing.T) {
	usr := student.User{ID: "u1", Name: "Ann", Surname: "Lee", Group: "IELTS 5"}
	res := grading.Result{Score: 2, Total: 3, Percentage: 67}
	at := time.Date(2024, time.March, 4, 12, 30, 0, 0, time.FixedZone("UZT", 5*3600))

	sub := NewSubmission(usr, "Thoughts and Notions", "1.1", res, 4, 1, at)
	assert.Equal(t, Submission{
		StudentName:     "Ann Lee",
		StudentID:       "u1",
		Group:           "IELTS 5",
		Book:            "Thoughts and Notions",
		Unit:            "1.1",
		Score:           2,
		TotalQuestions:  3,
		Percentage:      67,
		ReadingTime:     4,
		VocabularyFound: 1,
		Timestamp:       "2024-03-04T07:30:00Z",
	}, sub)
	assert.True(t, sub.SubmittedAt(now).Equal(at))
}

func TestSubmission_Validate(t *testing.T) {
	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	assert.NoError(t, (&Submission{Percentage: 100}).Validate(validate))
	assert.Error(t, (&Submission{Percentage: 101}).Validate(validate))
	assert.Error(t, (&Submission{Score: -1}).Validate(validate))
}

type stubNotifier struct {
	receipt Receipt
	err     error
	calls   int
}

func (n *stubNotifier) Notify(context.Context, Submission) (Receipt, error) {
	n.calls++
	return n.receipt, n.err
}

func TestFanout(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		name    string
		primary *stubNotifier
		copy    *stubNotifier
		receipt Receipt
		err     error
		logged  int
	}{
		{
			name:    "all ok",
			primary: &stubNotifier{receipt: Receipt{MessageID: 7}},
			copy:    &stubNotifier{receipt: Receipt{Simulated: true}},
			receipt: Receipt{MessageID: 7},
		},
		{
			name:    "primary fails",
			primary: &stubNotifier{err: errBoom},
			copy:    &stubNotifier{receipt: Receipt{MessageID: 3}},
			err:     errBoom,
		},
		{
			name:    "copy fails",
			primary: &stubNotifier{receipt: Receipt{MessageID: 7}},
			copy:    &stubNotifier{err: errBoom},
			receipt: Receipt{MessageID: 7},
			logged:  1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger := &testutil.Logger{}
			receipt, err := Fanout(logger, tc.primary, tc.copy).Notify(context.Background(), Submission{})
			assert.Equal(t, tc.receipt, receipt)
			assert.Equal(t, tc.err, err)
			assert.Equal(t, 1, tc.primary.calls)
			assert.Equal(t, 1, tc.copy.calls)
			assert.Equal(t, tc.logged, logger.Count("ERROR"))
		})
	}
}

func TestAPIError(t *testing.T) {
	err := error(&APIError{Code: 400, Description: "Bad Request: chat not found"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "chat not found"))
}
