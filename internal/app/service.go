package app

import (
	"context"

	"github.com/sirupsen/logrus"

	"quizzing/internal/account"
	"quizzing/internal/authoring"
	"quizzing/internal/domain"
	"quizzing/internal/game"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizSaver durably stores an authored quiz so the lobby can offer it after a
// restart.
type QuizSaver interface {
	SaveQuiz(ctx context.Context, quiz domain.Quiz) error
}

// GameService orchestrates one player's session: it consults the account
// directory and the authoring validator, then feeds the outcome into the
// session state machine as events. The directory and quiz stores are shared
// across sessions; the session itself is per player.
type GameService struct {
	session  *game.Session
	accounts *account.Directory
	quizzes  QuizRepository
	saver    QuizSaver
	log      *logrus.Entry
}

func NewGameService(session *game.Session, accounts *account.Directory, quizzes QuizRepository, saver QuizSaver, log *logrus.Entry) *GameService {
	return &GameService{
		session:  session,
		accounts: accounts,
		quizzes:  quizzes,
		saver:    saver,
		log:      log,
	}
}

// Session exposes the underlying state machine for subscription.
func (s *GameService) Session() *game.Session { return s.session }

// onAccountScreen reports whether the session will accept an authentication
// event. The directory is only mutated once this holds, so a stray request
// can never persist a current user the session did not authenticate.
func (s *GameService) onAccountScreen() bool {
	switch s.session.Screen() {
	case game.ScreenLogin, game.ScreenRegistration:
		return true
	}
	return false
}

// Login authenticates by username-or-email plus password.
func (s *GameService) Login(ctx context.Context, identifier, password string) error {
	if !s.onAccountScreen() {
		return domain.ErrAuthNotAvailable
	}
	user, err := s.accounts.FindByCredentials(identifier, password)
	if err != nil {
		return err
	}
	s.accounts.SetCurrent(ctx, user.ID)
	s.session.Apply(game.LoginSucceeded{User: user})
	return nil
}

// Register creates an email account and signs it in.
func (s *GameService) Register(ctx context.Context, input account.RegisterInput) error {
	if s.session.Screen() != game.ScreenRegistration {
		return domain.ErrAuthNotAvailable
	}
	user, err := s.accounts.Register(ctx, input)
	if err != nil {
		return err
	}
	s.session.Apply(game.RegisterSucceeded{User: user})
	return nil
}

// SocialLogin resolves a simulated external identity into an account. The
// prompt that collected email and name is the caller's concern.
func (s *GameService) SocialLogin(ctx context.Context, provider domain.AuthProvider, email, name string) error {
	if !s.onAccountScreen() {
		return domain.ErrAuthNotAvailable
	}
	if !provider.Valid() || provider == domain.ProviderEmail {
		return domain.ErrInvalidCredentials
	}
	user := s.accounts.ResolveSocialLogin(ctx, provider, email, name)
	s.session.Apply(game.LoginSucceeded{User: user})
	return nil
}

// Logout clears the authenticated user.
func (s *GameService) Logout(ctx context.Context) {
	s.accounts.ClearCurrent(ctx)
	s.session.Apply(game.Logout{})
}

// StartQuiz loads a quiz by ID and starts a playthrough.
func (s *GameService) StartQuiz(ctx context.Context, quizID string) error {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	s.session.Apply(game.StartQuiz{Quiz: quiz})
	return nil
}

// CreateQuiz opens the editor; the session routes anonymous players to login.
func (s *GameService) CreateQuiz() {
	s.session.Apply(game.CreateQuiz{})
}

// AuthorQuiz validates and finalizes a draft, stores it, and starts playing
// it. Validation failures surface to the caller; storage failures are logged
// and do not block play, matching the best-effort durability model.
func (s *GameService) AuthorQuiz(ctx context.Context, draft authoring.Draft) error {
	if _, ok := s.accounts.CurrentUser(); !ok {
		return domain.ErrNotAuthenticated
	}
	quiz, err := authoring.Finalize(draft)
	if err != nil {
		return err
	}
	if s.saver != nil {
		if err := s.saver.SaveQuiz(ctx, quiz); err != nil {
			s.log.WithError(err).Warn("persist authored quiz")
		}
	}
	s.session.Apply(game.QuizAuthored{Quiz: quiz})
	return nil
}

// Answer submits the player's pick for the live question. The session's own
// countdown supplies the remaining time.
func (s *GameService) Answer(optionID string) {
	s.session.Apply(game.AnswerSelected{OptionID: optionID, SecondsLeft: -1})
}

func (s *GameService) Advance()          { s.session.Apply(game.Advance{}) }
func (s *GameService) PlayAgain()        { s.session.Apply(game.PlayAgain{}) }
func (s *GameService) GoToLogin()        { s.session.Apply(game.GoToLogin{}) }
func (s *GameService) GoToRegistration() { s.session.Apply(game.GoToRegistration{}) }
func (s *GameService) BackToLobby()      { s.session.Apply(game.BackToLobby{}) }

// Close releases the session's timers.
func (s *GameService) Close() { s.session.Close() }
