package game

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"quizzing/internal/domain"
)

// Default pacing for the interstitial and feedback screens.
const (
	DefaultTransitionDelay = 2500 * time.Millisecond
	DefaultFeedbackDelay   = 3500 * time.Millisecond
)

// Options configure a session. Zero values fall back to production defaults.
type Options struct {
	TransitionDelay time.Duration
	FeedbackDelay   time.Duration
	TickInterval    time.Duration
	Scheduler       Scheduler
	Log             *logrus.Entry
	// User restores a previously authenticated user at startup.
	User *domain.User
}

// Session is the game state machine. It owns the current screen, the active
// quiz, the question cursor and the running score, and it is the only writer
// of any of them. All mutations funnel through Apply under one mutex, which is
// the Go rendition of the single-threaded cooperative model: no two
// transitions ever interleave.
//
// Timer-driven events (transition end, per-second tick, expiry, auto-advance)
// are scheduled with an epoch guard: every screen change bumps the epoch and
// cancels outstanding work, so a superseded timer can never act on the
// session.
type Session struct {
	mu   sync.Mutex
	opts Options
	log  *logrus.Entry

	screen Screen
	user   *domain.User

	activeQuiz   *domain.Quiz
	authoredQuiz *domain.Quiz

	questionIndex    int
	score            int
	secondsLeft      int
	answered         bool
	selectedAnswerID string
	answerCorrect    bool
	questionPoints   int
	correctCount     int

	epoch       int
	cancelTask  func()
	countdown   *Countdown
	subscribers map[chan Snapshot]struct{}
}

// NewSession builds a session in the lobby.
func NewSession(opts Options) *Session {
	if opts.TransitionDelay <= 0 {
		opts.TransitionDelay = DefaultTransitionDelay
	}
	if opts.FeedbackDelay <= 0 {
		opts.FeedbackDelay = DefaultFeedbackDelay
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewScheduler()
	}
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Session{
		opts:        opts,
		log:         log,
		screen:      ScreenLobby,
		countdown:   NewCountdownWithInterval(opts.TickInterval),
		subscribers: make(map[chan Snapshot]struct{}),
	}
	if opts.User != nil {
		u := *opts.User
		s.user = &u
	}
	return s
}

// Apply feeds one event through the state machine and returns the resulting
// snapshot. Events that do not apply to the current screen are ignored.
func (s *Session) Apply(ev Event) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(ev)
	return s.broadcastLocked()
}

// Screen returns the screen the session is currently on.
func (s *Session) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// Snapshot returns the current read-only view.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel receiving a snapshot on every state change,
// starting with the current one. The caller must invoke cancel to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// Close cancels any pending timers. The session remains readable.
func (s *Session) Close() {
	s.mu.Lock()
	s.bumpEpochLocked()
	s.mu.Unlock()
}

func (s *Session) applyLocked(ev Event) {
	switch ev := ev.(type) {
	case StartQuiz:
		if s.screen != ScreenLobby {
			s.ignore(ev)
			return
		}
		s.startQuizLocked(ev.Quiz)

	case CreateQuiz:
		if s.screen != ScreenLobby {
			s.ignore(ev)
			return
		}
		s.bumpEpochLocked()
		if s.user == nil {
			s.screen = ScreenLogin
		} else {
			s.screen = ScreenQuizCreation
		}

	case QuizAuthored:
		if s.screen != ScreenQuizCreation {
			s.ignore(ev)
			return
		}
		quiz := ev.Quiz
		s.authoredQuiz = &quiz
		s.startQuizLocked(quiz)

	case TransitionElapsed:
		if s.screen != ScreenQuestionTransition {
			s.ignore(ev)
			return
		}
		s.enterQuestionDisplayLocked()

	case AnswerSelected:
		if s.screen != ScreenQuestionDisplay || s.answered {
			s.ignore(ev)
			return
		}
		q, ok := s.currentQuestionLocked()
		if !ok {
			s.failSafeLocked("answer selected with no current question")
			return
		}
		secondsLeft := ev.SecondsLeft
		if secondsLeft < 0 {
			secondsLeft = s.secondsLeft
		}
		outcome := Score(q, ev.OptionID, secondsLeft)
		s.answered = true
		s.selectedAnswerID = ev.OptionID
		s.answerCorrect = outcome.Correct
		s.questionPoints = outcome.Points
		s.score += outcome.Points
		if outcome.Correct {
			s.correctCount++
		}
		s.enterFeedbackLocked()

	case TimeExpired:
		// Expiry racing a just-registered selection must not score twice.
		if s.screen != ScreenQuestionDisplay || s.answered {
			s.ignore(ev)
			return
		}
		s.answered = true
		s.selectedAnswerID = ""
		s.answerCorrect = false
		s.questionPoints = 0
		s.secondsLeft = 0
		s.enterFeedbackLocked()

	case Advance:
		if s.screen != ScreenAnswerFeedback {
			s.ignore(ev)
			return
		}
		quiz := s.activeQuiz
		if quiz == nil {
			s.failSafeLocked("advance with no active quiz")
			return
		}
		if s.questionIndex >= len(quiz.Questions)-1 {
			s.bumpEpochLocked()
			s.screen = ScreenResults
			return
		}
		s.questionIndex++
		s.clearQuestionLocked()
		s.enterTransitionLocked()

	case PlayAgain:
		if s.screen != ScreenResults || s.activeQuiz == nil {
			s.ignore(ev)
			return
		}
		s.startQuizLocked(*s.activeQuiz)

	case GoToLogin:
		if !s.accountScreenLocked() {
			s.ignore(ev)
			return
		}
		s.bumpEpochLocked()
		s.screen = ScreenLogin

	case GoToRegistration:
		if !s.accountScreenLocked() {
			s.ignore(ev)
			return
		}
		s.bumpEpochLocked()
		s.screen = ScreenRegistration

	case LoginSucceeded:
		if s.screen != ScreenLogin && s.screen != ScreenRegistration {
			s.ignore(ev)
			return
		}
		u := ev.User
		s.user = &u
		s.bumpEpochLocked()
		s.screen = ScreenLobby

	case RegisterSucceeded:
		if s.screen != ScreenRegistration {
			s.ignore(ev)
			return
		}
		u := ev.User
		s.user = &u
		s.bumpEpochLocked()
		s.screen = ScreenLobby

	case Logout:
		if !s.accountScreenLocked() {
			s.ignore(ev)
			return
		}
		s.user = nil
		s.bumpEpochLocked()
		s.screen = ScreenLobby

	case BackToLobby:
		s.resetToLobbyLocked()

	default:
		s.ignore(ev)
	}
}

// accountScreenLocked reports whether account navigation events apply.
func (s *Session) accountScreenLocked() bool {
	switch s.screen {
	case ScreenLobby, ScreenLogin, ScreenRegistration:
		return true
	}
	return false
}

func (s *Session) startQuizLocked(quiz domain.Quiz) {
	s.activeQuiz = &quiz
	s.questionIndex = 0
	s.score = 0
	s.correctCount = 0
	s.clearQuestionLocked()
	s.enterTransitionLocked()
}

func (s *Session) clearQuestionLocked() {
	s.answered = false
	s.selectedAnswerID = ""
	s.answerCorrect = false
	s.questionPoints = 0
	s.secondsLeft = 0
}

func (s *Session) enterTransitionLocked() {
	epoch := s.bumpEpochLocked()
	s.screen = ScreenQuestionTransition
	s.cancelTask = s.opts.Scheduler.After(s.opts.TransitionDelay, func() {
		s.deliver(epoch, TransitionElapsed{})
	})
}

func (s *Session) enterQuestionDisplayLocked() {
	q, ok := s.currentQuestionLocked()
	if !ok {
		s.failSafeLocked("question display with no current question")
		return
	}
	epoch := s.bumpEpochLocked()
	s.screen = ScreenQuestionDisplay
	s.secondsLeft = q.TimeLimitSeconds
	s.countdown.Start(q.TimeLimitSeconds,
		func(left int) { s.onTick(epoch, left) },
		func() { s.deliver(epoch, TimeExpired{}) },
	)
}

func (s *Session) enterFeedbackLocked() {
	epoch := s.bumpEpochLocked()
	s.screen = ScreenAnswerFeedback
	s.cancelTask = s.opts.Scheduler.After(s.opts.FeedbackDelay, func() {
		s.deliver(epoch, Advance{})
	})
}

func (s *Session) resetToLobbyLocked() {
	s.bumpEpochLocked()
	s.screen = ScreenLobby
	s.activeQuiz = nil
	s.questionIndex = 0
	s.score = 0
	s.correctCount = 0
	s.clearQuestionLocked()
}

// failSafeLocked recovers from an inconsistent state by resetting to the
// lobby. This never happens through the normal transitions; hitting it is a
// defect signal, so it logs at error level.
func (s *Session) failSafeLocked(reason string) {
	s.log.WithField("screen", s.screen).Error("session inconsistency, resetting to lobby: " + reason)
	s.resetToLobbyLocked()
}

// bumpEpochLocked invalidates every outstanding timer. Callbacks scheduled
// under an older epoch are dropped on delivery.
func (s *Session) bumpEpochLocked() int {
	s.epoch++
	if s.cancelTask != nil {
		s.cancelTask()
		s.cancelTask = nil
	}
	s.countdown.Pause()
	return s.epoch
}

// deliver applies a timer-originated event unless the session has moved on.
func (s *Session) deliver(epoch int, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return
	}
	s.applyLocked(ev)
	s.broadcastLocked()
}

func (s *Session) onTick(epoch int, secondsLeft int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch || s.screen != ScreenQuestionDisplay {
		return
	}
	s.secondsLeft = secondsLeft
	s.broadcastLocked()
}

func (s *Session) currentQuestionLocked() (domain.Question, bool) {
	if s.activeQuiz == nil || s.questionIndex < 0 || s.questionIndex >= len(s.activeQuiz.Questions) {
		return domain.Question{}, false
	}
	return s.activeQuiz.Questions[s.questionIndex], true
}

func (s *Session) broadcastLocked() Snapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow reader never blocks the session.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Screen:         s.screen,
		Score:          s.score,
		SecondsLeft:    s.secondsLeft,
		CorrectAnswers: s.correctCount,
	}
	if s.user != nil {
		snap.User = &SnapshotUser{
			ID:       s.user.ID,
			Name:     s.user.Name,
			Username: s.user.Username,
			Email:    s.user.Email,
		}
	}
	if s.authoredQuiz != nil {
		snap.AuthoredQuizID = s.authoredQuiz.ID
		snap.AuthoredQuizTitle = s.authoredQuiz.Title
	}
	if s.activeQuiz != nil {
		snap.QuizTitle = s.activeQuiz.Title
		snap.TotalQuestions = len(s.activeQuiz.Questions)
	}

	switch s.screen {
	case ScreenQuestionTransition, ScreenQuestionDisplay:
		if q, ok := s.currentQuestionLocked(); ok {
			snap.QuestionNumber = s.questionIndex + 1
			if s.screen == ScreenQuestionDisplay {
				snap.Question = questionView(q)
			}
		}
	case ScreenAnswerFeedback:
		if q, ok := s.currentQuestionLocked(); ok {
			snap.QuestionNumber = s.questionIndex + 1
			snap.Question = questionView(q)
			snap.SelectedAnswerID = s.selectedAnswerID
			snap.AnswerCorrect = s.answerCorrect
			snap.PointsAwarded = s.questionPoints
			snap.Explanation = q.Explanation
			if correct, ok := q.CorrectOption(); ok {
				snap.CorrectOptionID = correct.ID
			}
		}
	}
	return snap
}

func (s *Session) ignore(ev Event) {
	s.log.WithFields(logrus.Fields{
		"screen": s.screen,
		"event":  eventName(ev),
	}).Debug("event ignored in current screen")
}

func eventName(ev Event) string {
	switch ev.(type) {
	case StartQuiz:
		return "startQuiz"
	case CreateQuiz:
		return "createQuiz"
	case QuizAuthored:
		return "quizAuthored"
	case TransitionElapsed:
		return "transitionElapsed"
	case AnswerSelected:
		return "answerSelected"
	case TimeExpired:
		return "timeExpired"
	case Advance:
		return "advance"
	case PlayAgain:
		return "playAgain"
	case GoToLogin:
		return "goToLogin"
	case GoToRegistration:
		return "goToRegistration"
	case LoginSucceeded:
		return "loginSucceeded"
	case RegisterSucceeded:
		return "registerSucceeded"
	case Logout:
		return "logout"
	case BackToLobby:
		return "backToLobby"
	}
	return "unknown"
}
