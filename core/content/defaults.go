package content

// built-in dataset, used when the content files cannot be loaded.

func defaultBooks() map[string]Book {
	return map[string]Book{
		"thoughts_and_notions": {
			ID:          "thoughts_and_notions",
			Title:       "Thoughts and Notions",
			Description: "Improve your reading skills with interesting texts, vocabulary, grammar, and exercises.",
			Units:       []string{"1.1", "1.2", "1.3", "2.1", "2.2", "2.3"},
			Difficulty:  "B1",
			Available:   true,
		},
		"reading_explorer": {
			ID:          "reading_explorer",
			Title:       "Reading Explorer",
			Description: "Advanced reading comprehension and critical thinking skills.",
			Units:       []string{"1.1", "1.2", "2.1", "2.2"},
			Difficulty:  "B2",
			Available:   false,
		},
	}
}

const zipperText = `The zipper is a wonderful invention. How did people ever live without zippers? They are very common, so we forget that they are wonderful. They are very strong, but they open and close very easily. They come in many colors and sizes.

In the 1890s, people in the United States wore high shoes with a long row of buttons. Clothes often had long rows of buttons, too. People wished that clothes were easier to put on and take off.

Whitcomb L. Judson, an engineer from the United States, invented the zipper in 1893. However, his zippers didn't stay closed very well. This was embarrassing, and people didn't buy many of them.

Then Dr. Gideon Sundback from Sweden solved this problem. His zipper stayed closed.

A zipper has three parts: 1. There are dozens of metal or plastic hooks (called teeth) in two rows. 2. These hooks are fastened to two strips of cloth. The cloth strips are flexible. They bend easily. 3. A fastener slides along and joins the hooks together. When it slides the other way, it takes the hooks apart.

Dr. Sundback put the hooks on strips of cloth. The cloth holds all the hooks in place. They don't come apart very easily. This solved the problem of the first zippers.`

func defaultUnit() Unit {
	return Unit{Title: "The Zipper", Text: zipperText, Difficulty: "B1"}
}

func defaultVocabulary() []VocabularyEntry {
	return []VocabularyEntry{
		{
			Word:        "invention",
			Translation: "ixtiro",
			Definition:  "Something that has been invented or created for the first time",
			Example:     "The telephone was a revolutionary invention that changed communication.",
			Level:       "B1",
		},
	}
}

func defaultGrammar() Grammar {
	return Grammar{
		Title:       "Past Simple Tense",
		Explanation: "The Past Simple tense is used to talk about completed actions in the past.",
		Examples: []string{
			"Whitcomb L. Judson invented the zipper in 1893.",
			"People wore high shoes with buttons.",
		},
	}
}

func defaultExercises() ExerciseSet {
	return ExerciseSet{
		ReadingComprehension: []Exercise{{
			Question: "When was the zipper invented?",
			Options:  []string{"1880", "1893", "1901", "1910"},
			Correct:  1,
			Type:     "multiple_choice",
		}},
		Vocabulary: []Exercise{{
			Question: "What does 'invention' mean?",
			Options:  []string{"Something old", "Something created for the first time", "Something broken", "Something expensive"},
			Correct:  1,
			Type:     "multiple_choice",
		}},
		Grammar: []Exercise{{
			Question: "Which sentence uses Past Simple correctly?",
			Options:  []string{"He invent the zipper.", "He invented the zipper.", "He is inventing the zipper.", "He will invent the zipper."},
			Correct:  1,
			Type:     "multiple_choice",
		}},
	}
}
