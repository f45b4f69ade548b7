// Package grading scores multiple-choice exercise submissions.
package grading

import (
	"strconv"
	"strings"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/content"
)

// Answers holds the selected option index of each answered item, keyed by ItemKey.
type Answers map[string]int

// ItemKey returns the key of the exercise at index of the category, e.g. "1_0".
func ItemKey(category, index int) string {
	return strconv.Itoa(category) + "_" + strconv.Itoa(index)
}

// ParseItemKey is the inverse of ItemKey.
func ParseItemKey(key string) (category, index int, ok bool) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	var err error
	if category, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, false
	}
	if index, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, false
	}
	return category, index, true
}

type (
	ItemResult struct {
		Correct       bool `json:"correct"`
		UserAnswer    *int `json:"user_answer"` // nil when unanswered
		CorrectAnswer int  `json:"correct_answer"`
	}

	Result struct {
		Score      int                   `json:"score"`
		Total      int                   `json:"total"`
		Percentage int                   `json:"percentage"`
		Tier       Tier                  `json:"tier"`
		Items      map[string]ItemResult `json:"items"`
	}
)

// Grade scores answers against the exercise set.
// Every exercise counts toward the total whether it was answered or not.
func Grade(set content.ExerciseSet, answers Answers) Result {
	res := Result{Items: make(map[string]ItemResult, set.Total())}
	for c, exercises := range set.Categories() {
		for i, ex := range exercises {
			key := ItemKey(c, i)
			item := ItemResult{CorrectAnswer: ex.Correct}
			if ans, ok := answers[key]; ok {
				ans := ans
				item.UserAnswer = &ans
				item.Correct = ans == ex.Correct
			}
			if item.Correct {
				res.Score++
			}
			res.Total++
			res.Items[key] = item
		}
	}
	res.Percentage = Percentage(res.Score, res.Total)
	res.Tier = TierFor(res.Percentage)
	return res
}

// Percentage returns round(100*score/total); 0 when there is nothing to score.
func Percentage(score, total int) int {
	return core.Percent(score, total)
}
