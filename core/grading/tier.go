package grading

// Tier classifies a percentage for feedback.
type Tier string

const (
	TierPerfect  Tier = "perfect"
	TierGreat    Tier = "great"
	TierGood     Tier = "good"
	TierPractice Tier = "practice"
)

var feedback = map[Tier]string{
	TierPerfect:  "Perfect! Excellent work! You got everything right!",
	TierGreat:    "Great job! You have a good understanding of the material.",
	TierGood:     "Good effort! Review the material and try again.",
	TierPractice: "Keep practicing! Review the text and vocabulary.",
}

// TierFor returns the feedback tier of a percentage. Lower bounds are inclusive.
func TierFor(percentage int) Tier {
	switch {
	case percentage >= 100:
		return TierPerfect
	case percentage >= 80:
		return TierGreat
	case percentage >= 60:
		return TierGood
	default:
		return TierPractice
	}
}

// Feedback returns the message shown to the student.
func (t Tier) Feedback() string {
	return feedback[t]
}

// Dashboard colour bands.
const (
	BandSuccess = "success"
	BandWarning = "warning"
	BandDanger  = "danger"
)

// Band returns the colour band of a percentage in the teacher dashboard.
func Band(percentage int) string {
	switch {
	case percentage >= 80:
		return BandSuccess
	case percentage >= 60:
		return BandWarning
	default:
		return BandDanger
	}
}
