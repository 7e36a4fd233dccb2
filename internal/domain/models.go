package domain

// AnswerOption is one selectable answer for a question.
type AnswerOption struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"isCorrect"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID               string         `json:"id"`
	Text             string         `json:"text"`
	Options          []AnswerOption `json:"options"`
	TimeLimitSeconds int            `json:"timeLimitSeconds"`
	Points           int            `json:"points"` // max awardable for this question
	Explanation      string         `json:"explanation,omitempty"`
}

// CorrectOption returns the option flagged correct, if any.
func (q Question) CorrectOption() (AnswerOption, bool) {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt, true
		}
	}
	return AnswerOption{}, false
}

// Option looks up an option by ID.
func (q Question) Option(optionID string) (AnswerOption, bool) {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return AnswerOption{}, false
}

// Quiz is a titled, ordered collection of questions. Immutable once play starts.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// AuthProvider identifies how a user account was created.
type AuthProvider string

const (
	ProviderEmail    AuthProvider = "email"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
)

// Valid reports whether the provider is one of the known tags.
func (p AuthProvider) Valid() bool {
	switch p {
	case ProviderEmail, ProviderGoogle, ProviderFacebook:
		return true
	}
	return false
}

// User is an account record. PasswordHash is set only for email accounts.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"passwordHash,omitempty"`
	AuthProvider AuthProvider `json:"authProvider"`
}
