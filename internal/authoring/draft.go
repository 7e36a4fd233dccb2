package authoring

import (
	"fmt"

	"github.com/google/uuid"

	"quizzing/internal/domain"
)

// Authoring caps and defaults.
const (
	MaxQuestions = 10
	MaxOptions   = 4
	MinOptions   = 2

	DefaultTimeLimitSeconds = 20
	DefaultPoints           = 1000
)

// Draft is a quiz under construction. Questions carry the full MaxOptions
// option slots; empty slots are stripped by Finalize.
type Draft struct {
	Title     string            `json:"title"`
	Questions []domain.Question `json:"questions"`
}

// NewDraft starts a draft with a single blank question.
func NewDraft() *Draft {
	return &Draft{Questions: []domain.Question{newQuestion()}}
}

// AddQuestion appends a blank question and returns its index. The quiz-level
// cap is enforced here, not in Validate.
func (d *Draft) AddQuestion() (int, error) {
	if len(d.Questions) >= MaxQuestions {
		return 0, fmt.Errorf("a quiz can have at most %d questions", MaxQuestions)
	}
	d.Questions = append(d.Questions, newQuestion())
	return len(d.Questions) - 1, nil
}

// RemoveQuestion deletes the question at index. The last question cannot be
// removed.
func (d *Draft) RemoveQuestion(index int) error {
	if index < 0 || index >= len(d.Questions) {
		return fmt.Errorf("no question at index %d", index)
	}
	if len(d.Questions) <= 1 {
		return fmt.Errorf("a quiz must keep at least one question")
	}
	d.Questions = append(d.Questions[:index], d.Questions[index+1:]...)
	return nil
}

// MarkCorrect flags exactly one option of a question as the correct one.
func (d *Draft) MarkCorrect(questionIndex, optionIndex int) error {
	if questionIndex < 0 || questionIndex >= len(d.Questions) {
		return fmt.Errorf("no question at index %d", questionIndex)
	}
	q := &d.Questions[questionIndex]
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return fmt.Errorf("no option at index %d", optionIndex)
	}
	for i := range q.Options {
		q.Options[i].Correct = i == optionIndex
	}
	return nil
}

func newQuestion() domain.Question {
	id := uuid.NewString()
	options := make([]domain.AnswerOption, MaxOptions)
	for i := range options {
		options[i] = domain.AnswerOption{ID: fmt.Sprintf("%s_opt%d", id, i)}
	}
	return domain.Question{
		ID:               id,
		Options:          options,
		TimeLimitSeconds: DefaultTimeLimitSeconds,
		Points:           DefaultPoints,
	}
}
