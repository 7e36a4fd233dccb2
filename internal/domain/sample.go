package domain

// SampleQuizID is the well-known ID of the built-in quiz offered in the lobby.
const SampleQuizID = "sample"

// SampleQuiz returns the built-in general knowledge quiz. Callers get a fresh
// value each time so a playthrough can never mutate the source.
func SampleQuiz() Quiz {
	return Quiz{
		ID:    SampleQuizID,
		Title: "General Knowledge Challenge",
		Questions: []Question{
			{
				ID:   "q1",
				Text: "What is the capital of France?",
				Options: []AnswerOption{
					{ID: "q1_a1", Text: "Berlin"},
					{ID: "q1_a2", Text: "Madrid"},
					{ID: "q1_a3", Text: "Paris", Correct: true},
					{ID: "q1_a4", Text: "Rome"},
				},
				TimeLimitSeconds: 15,
				Points:           1000,
				Explanation:      "Paris is the capital and most populous city of France. It is known for its art, fashion, gastronomy and culture.",
			},
			{
				ID:   "q2",
				Text: "Which HTML tag is used to define an internal style sheet?",
				Options: []AnswerOption{
					{ID: "q2_a1", Text: "<script>"},
					{ID: "q2_a2", Text: "<css>"},
					{ID: "q2_a3", Text: "<style>", Correct: true},
					{ID: "q2_a4", Text: "<link>"},
				},
				TimeLimitSeconds: 20,
				Points:           1000,
				Explanation:      "The <style> tag is used to define style information (CSS) for an HTML document.",
			},
			{
				ID:   "q3",
				Text: "What is 2 + 2 * 2?",
				Options: []AnswerOption{
					{ID: "q3_a1", Text: "8"},
					{ID: "q3_a2", Text: "6", Correct: true},
					{ID: "q3_a3", Text: "4"},
					{ID: "q3_a4", Text: "2"},
				},
				TimeLimitSeconds: 10,
				Points:           1000,
				Explanation:      "According to the order of operations (PEMDAS/BODMAS), multiplication comes before addition. So, 2 * 2 = 4, and then 2 + 4 = 6.",
			},
			{
				ID:   "q4",
				Text: "Which of these is a popular version control system?",
				Options: []AnswerOption{
					{ID: "q4_a1", Text: "Node.js"},
					{ID: "q4_a2", Text: "jQuery"},
					{ID: "q4_a3", Text: "Docker"},
					{ID: "q4_a4", Text: "Git", Correct: true},
				},
				TimeLimitSeconds: 15,
				Points:           1000,
				Explanation:      "Git is a widely-used distributed version control system for tracking changes in source code during software development.",
			},
		},
	}
}
