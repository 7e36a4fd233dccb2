package authoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	d := *NewDraft()
	d.Title = "Capitals"
	d.Questions[0].Text = "Capital of France?"
	d.Questions[0].Options[0].Text = "Paris"
	d.Questions[0].Options[1].Text = "Lyon"
	d.Questions[0].Options[0].Correct = true
	return d
}

func TestValidateAcceptsCompleteDraft(t *testing.T) {
	assert.NoError(t, Validate(validDraft()))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Draft)
		wantIndex int
	}{
		{
			name:      "blank title",
			mutate:    func(d *Draft) { d.Title = "   " },
			wantIndex: -1,
		},
		{
			name:      "no questions",
			mutate:    func(d *Draft) { d.Questions = nil },
			wantIndex: -1,
		},
		{
			name: "more than ten questions",
			mutate: func(d *Draft) {
				for len(d.Questions) <= MaxQuestions {
					d.Questions = append(d.Questions, d.Questions[0])
				}
			},
			wantIndex: -1,
		},
		{
			name:      "blank question text",
			mutate:    func(d *Draft) { d.Questions[0].Text = "" },
			wantIndex: 0,
		},
		{
			name: "single filled option",
			mutate: func(d *Draft) {
				d.Questions[0].Options[1].Text = ""
			},
			wantIndex: 0,
		},
		{
			name: "no correct answer",
			mutate: func(d *Draft) {
				d.Questions[0].Options[0].Correct = false
			},
			wantIndex: 0,
		},
		{
			name: "two correct answers",
			mutate: func(d *Draft) {
				d.Questions[0].Options[1].Correct = true
			},
			wantIndex: 0,
		},
		{
			name: "correct flag on an empty option does not count",
			mutate: func(d *Draft) {
				d.Questions[0].Options[0].Correct = false
				d.Questions[0].Options[2].Correct = true // option 2 has no text
			},
			wantIndex: 0,
		},
		{
			name: "zero time limit",
			mutate: func(d *Draft) {
				d.Questions[0].TimeLimitSeconds = 0
			},
			wantIndex: 0,
		},
		{
			name: "negative points",
			mutate: func(d *Draft) {
				d.Questions[0].Points = -5
			},
			wantIndex: 0,
		},
		{
			name: "second question incomplete",
			mutate: func(d *Draft) {
				_, err := d.AddQuestion()
				require.NoError(t, err)
				d.Questions[1].Text = "Orphan"
			},
			wantIndex: 1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft()
			tc.mutate(&d)
			err := Validate(d)
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantIndex, verr.QuestionIndex)
		})
	}
}

func TestFinalizeStripsEmptyOptions(t *testing.T) {
	d := validDraft()
	d.Title = "  Capitals  "

	quiz, err := Finalize(d)
	require.NoError(t, err)

	assert.NotEmpty(t, quiz.ID)
	assert.Equal(t, "Capitals", quiz.Title)
	require.Len(t, quiz.Questions, 1)
	require.Len(t, quiz.Questions[0].Options, 2, "empty option slots should be stripped")

	correct, ok := quiz.Questions[0].CorrectOption()
	require.True(t, ok)
	assert.Equal(t, "Paris", correct.Text)
}

func TestFinalizeRejectsInvalidDraft(t *testing.T) {
	d := validDraft()
	d.Title = ""
	_, err := Finalize(d)
	assert.Error(t, err)
}

func TestFinalizeRejectsOversizedQuiz(t *testing.T) {
	d := validDraft()
	for len(d.Questions) < 15 {
		d.Questions = append(d.Questions, d.Questions[0])
	}

	_, err := Finalize(d)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, -1, verr.QuestionIndex)
}

func TestDraftQuestionCap(t *testing.T) {
	d := NewDraft()
	for len(d.Questions) < MaxQuestions {
		_, err := d.AddQuestion()
		require.NoError(t, err)
	}
	_, err := d.AddQuestion()
	assert.Error(t, err, "cap at %d questions", MaxQuestions)
}

func TestDraftCannotRemoveLastQuestion(t *testing.T) {
	d := NewDraft()
	assert.Error(t, d.RemoveQuestion(0))

	_, err := d.AddQuestion()
	require.NoError(t, err)
	require.NoError(t, d.RemoveQuestion(1))
	assert.Len(t, d.Questions, 1)
}

func TestMarkCorrectIsExclusive(t *testing.T) {
	d := NewDraft()
	require.NoError(t, d.MarkCorrect(0, 1))
	require.NoError(t, d.MarkCorrect(0, 3))

	for i, opt := range d.Questions[0].Options {
		assert.Equal(t, i == 3, opt.Correct, "option %d", i)
	}

	assert.Error(t, d.MarkCorrect(5, 0))
	assert.Error(t, d.MarkCorrect(0, 9))
}

func TestNewQuestionDefaults(t *testing.T) {
	q := newQuestion()
	assert.Equal(t, DefaultTimeLimitSeconds, q.TimeLimitSeconds)
	assert.Equal(t, DefaultPoints, q.Points)
	assert.Len(t, q.Options, MaxOptions)
	_, ok := q.CorrectOption()
	assert.False(t, ok)
}
