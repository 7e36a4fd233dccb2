package game

import "quizzing/internal/domain"

// Event is one of the discrete triggers the session reacts to. Events form a
// closed set; anything else a client wants must be expressed through them.
type Event interface{ isEvent() }

// StartQuiz begins a playthrough of the given quiz from the lobby.
type StartQuiz struct{ Quiz domain.Quiz }

// CreateQuiz opens the quiz editor, or the login screen when anonymous.
type CreateQuiz struct{}

// QuizAuthored submits a validated, finalized quiz from the editor and starts it.
type QuizAuthored struct{ Quiz domain.Quiz }

// TransitionElapsed ends the get-ready interstitial.
type TransitionElapsed struct{}

// AnswerSelected records the player's pick for the current question.
// SecondsLeft below zero means "use the session's own clock".
type AnswerSelected struct {
	OptionID    string
	SecondsLeft int
}

// TimeExpired fires when the question countdown ran out with no selection.
type TimeExpired struct{}

// Advance moves past the feedback screen, by click or auto-advance.
type Advance struct{}

// PlayAgain restarts the active quiz from the results screen.
type PlayAgain struct{}

// GoToLogin and GoToRegistration switch between the account screens.
type GoToLogin struct{}
type GoToRegistration struct{}

// LoginSucceeded and RegisterSucceeded carry the freshly authenticated user.
type LoginSucceeded struct{ User domain.User }
type RegisterSucceeded struct{ User domain.User }

// Logout clears the authenticated user and returns to the lobby.
type Logout struct{}

// BackToLobby abandons the editor or an in-flight playthrough.
type BackToLobby struct{}

func (StartQuiz) isEvent()         {}
func (CreateQuiz) isEvent()        {}
func (QuizAuthored) isEvent()      {}
func (TransitionElapsed) isEvent() {}
func (AnswerSelected) isEvent()    {}
func (TimeExpired) isEvent()       {}
func (Advance) isEvent()           {}
func (PlayAgain) isEvent()         {}
func (GoToLogin) isEvent()         {}
func (GoToRegistration) isEvent()  {}
func (LoginSucceeded) isEvent()    {}
func (RegisterSucceeded) isEvent() {}
func (Logout) isEvent()            {}
func (BackToLobby) isEvent()       {}
