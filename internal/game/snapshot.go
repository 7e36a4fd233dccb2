package game

import "quizzing/internal/domain"

// Screen enumerates the UI states the session can be in.
type Screen string

const (
	ScreenLogin              Screen = "login"
	ScreenRegistration       Screen = "registration"
	ScreenLobby              Screen = "lobby"
	ScreenQuizCreation       Screen = "quizCreation"
	ScreenQuestionTransition Screen = "questionTransition"
	ScreenQuestionDisplay    Screen = "questionDisplay"
	ScreenAnswerFeedback     Screen = "answerFeedback"
	ScreenResults            Screen = "results"
)

// OptionView is an answer option with the correctness flag withheld, so the
// client cannot learn the answer while the question is live.
type OptionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// QuestionView is the live-question projection pushed to renderers.
type QuestionView struct {
	ID               string       `json:"id"`
	Text             string       `json:"text"`
	Options          []OptionView `json:"options"`
	TimeLimitSeconds int          `json:"timeLimitSeconds"`
	Points           int          `json:"points"`
}

// SnapshotUser is the authenticated user without credential material.
type SnapshotUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Snapshot is a read-only view of the session for rendering. Every field is a
// copy; mutating a snapshot has no effect on the session.
type Snapshot struct {
	Screen            Screen        `json:"screen"`
	User              *SnapshotUser `json:"user,omitempty"`
	QuizTitle         string        `json:"quizTitle,omitempty"`
	AuthoredQuizID    string        `json:"authoredQuizId,omitempty"`
	AuthoredQuizTitle string        `json:"authoredQuizTitle,omitempty"`
	QuestionNumber    int           `json:"questionNumber,omitempty"` // 1-based
	TotalQuestions    int           `json:"totalQuestions,omitempty"`
	Question          *QuestionView `json:"question,omitempty"`
	SecondsLeft       int           `json:"secondsLeft"`
	Score             int           `json:"score"`
	SelectedAnswerID  string        `json:"selectedAnswerId,omitempty"`
	AnswerCorrect     bool          `json:"answerCorrect"`
	PointsAwarded     int           `json:"pointsAwarded"`
	CorrectAnswers    int           `json:"correctAnswers"`
	CorrectOptionID   string        `json:"correctOptionId,omitempty"` // feedback only
	Explanation       string        `json:"explanation,omitempty"`     // feedback only
}

func questionView(q domain.Question) *QuestionView {
	options := make([]OptionView, 0, len(q.Options))
	for _, opt := range q.Options {
		options = append(options, OptionView{ID: opt.ID, Text: opt.Text})
	}
	return &QuestionView{
		ID:               q.ID,
		Text:             q.Text,
		Options:          options,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Points:           q.Points,
	}
}
