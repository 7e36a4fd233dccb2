package authoring

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"quizzing/internal/domain"
)

// ValidationError explains why a draft was rejected. QuestionIndex is the
// zero-based offending question, or -1 for a quiz-level failure, so editors
// can focus attention.
type ValidationError struct {
	Message       string
	QuestionIndex int
}

func (e *ValidationError) Error() string { return e.Message }

func quizErr(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...), QuestionIndex: -1}
}

func questionErr(index int, format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...), QuestionIndex: index}
}

// Validate checks a draft in a fixed order and stops at the first failure, so
// the reported message and index are deterministic for a given draft.
func Validate(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return quizErr("quiz title is required")
	}
	if len(d.Questions) == 0 {
		return quizErr("quiz must have at least one question")
	}
	// The editor caps growth in AddQuestion, but drafts also arrive whole over
	// the wire, so the cap is enforced here too.
	if len(d.Questions) > MaxQuestions {
		return quizErr("a quiz can have at most %d questions", MaxQuestions)
	}
	for i, q := range d.Questions {
		if strings.TrimSpace(q.Text) == "" {
			return questionErr(i, "question %d text is required", i+1)
		}
		filled := filledOptions(q)
		if len(filled) < MinOptions {
			return questionErr(i, "question %d must have at least %d options with text", i+1, MinOptions)
		}
		correct := 0
		for _, opt := range filled {
			if opt.Correct {
				correct++
			}
		}
		if correct != 1 {
			return questionErr(i, "question %d must have exactly one correct answer", i+1)
		}
		if q.TimeLimitSeconds <= 0 {
			return questionErr(i, "question %d time limit must be greater than 0", i+1)
		}
		if q.Points <= 0 {
			return questionErr(i, "question %d points must be greater than 0", i+1)
		}
	}
	return nil
}

// Finalize validates a draft and produces the playable quiz. Options with
// empty trimmed text are discarded; this is the only transformation between
// authoring and play, so a finalized quiz satisfies the play invariants.
func Finalize(d Draft) (domain.Quiz, error) {
	if err := Validate(d); err != nil {
		return domain.Quiz{}, err
	}
	questions := make([]domain.Question, 0, len(d.Questions))
	for _, q := range d.Questions {
		q.Options = filledOptions(q)
		questions = append(questions, q)
	}
	return domain.Quiz{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(d.Title),
		Questions: questions,
	}, nil
}

func filledOptions(q domain.Question) []domain.AnswerOption {
	filled := make([]domain.AnswerOption, 0, len(q.Options))
	for _, opt := range q.Options {
		if strings.TrimSpace(opt.Text) != "" {
			filled = append(filled, opt)
		}
	}
	return filled
}
