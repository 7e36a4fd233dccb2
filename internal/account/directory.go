package account

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"quizzing/internal/domain"
)

var validate = validator.New()

// RegisterInput is the payload for email registration.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Existence reports which registration identifiers are already taken.
type Existence struct {
	UsernameTaken bool
	EmailTaken    bool
}

// Directory is the account collection. It holds users in memory, writes every
// mutation through to its Store, and hands out copies only, so no caller ever
// aliases a stored record. Persistence failures are logged and never roll
// back the in-memory change.
type Directory struct {
	mu      sync.RWMutex
	store   Store
	log     *logrus.Entry
	users   []domain.User
	current string
	newID   func() string
}

// Open loads the directory from the store. A persisted current-user reference
// that no longer resolves to a record is discarded silently.
func Open(ctx context.Context, store Store, log *logrus.Entry) (*Directory, error) {
	users, err := store.LoadUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	d := &Directory{
		store: store,
		log:   log,
		users: users,
		newID: uuid.NewString,
	}
	current, err := store.LoadCurrentUserID(ctx)
	if err != nil {
		log.WithError(err).Warn("load current user reference")
	} else if current != "" {
		if _, ok := d.byID(current); ok {
			d.current = current
		} else {
			_ = store.SaveCurrentUserID(ctx, "")
		}
	}
	return d, nil
}

// Exists checks username and email against stored records, case-insensitively.
func (d *Directory) Exists(username, email string) Existence {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var ex Existence
	for _, u := range d.users {
		if strings.EqualFold(u.Username, username) {
			ex.UsernameTaken = true
		}
		if strings.EqualFold(u.Email, email) {
			ex.EmailTaken = true
		}
	}
	return ex
}

// FindByCredentials matches identifier against username or email,
// case-insensitively, for accounts created by email registration. Passwords
// are compared against the stored bcrypt hash. The whole collection is
// scanned: one account's username may equal another account's email, and the
// password decides which of them the identifier meant.
func (d *Directory) FindByCredentials(identifier, password string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.AuthProvider != domain.ProviderEmail {
			continue
		}
		if !strings.EqualFold(u.Username, identifier) && !strings.EqualFold(u.Email, identifier) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrInvalidCredentials
}

// Register creates an email account, makes it the current user, and persists.
func (d *Directory) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if err := validate.Struct(input); err != nil {
		return domain.User{}, fmt.Errorf("invalid registration: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if strings.EqualFold(u.Username, input.Username) {
			return domain.User{}, domain.ErrUsernameTaken
		}
		if strings.EqualFold(u.Email, input.Email) {
			return domain.User{}, domain.ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           d.newID(),
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		AuthProvider: domain.ProviderEmail,
	}
	d.users = append(d.users, user)
	d.current = user.ID
	d.persistLocked(ctx)
	return user, nil
}

// ResolveSocialLogin finds an account by email or creates one. An existing
// account gets its provider updated and an empty name backfilled; a new
// account is synthesized with a generated unique username and no password.
// It always produces a user and makes it current.
func (d *Directory) ResolveSocialLogin(ctx context.Context, provider domain.AuthProvider, email, name string) domain.User {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.users {
		if !strings.EqualFold(d.users[i].Email, email) {
			continue
		}
		u := &d.users[i]
		if u.AuthProvider != provider {
			u.AuthProvider = provider
			if u.Name == "" {
				u.Name = name
			}
		}
		d.current = u.ID
		d.persistLocked(ctx)
		return *u
	}

	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	if name == "" {
		name = local
	}
	user := domain.User{
		ID:           d.newID(),
		Name:         name,
		Username:     d.uniqueUsernameLocked(string(provider) + "_" + local),
		Email:        email,
		AuthProvider: provider,
	}
	d.users = append(d.users, user)
	d.current = user.ID
	d.persistLocked(ctx)
	return user
}

// CurrentUser returns the persisted authenticated user, if any.
func (d *Directory) CurrentUser() (domain.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.current == "" {
		return domain.User{}, false
	}
	return d.byID(d.current)
}

// SetCurrent records the authenticated user reference and persists it.
func (d *Directory) SetCurrent(ctx context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = id
	if err := d.store.SaveCurrentUserID(ctx, id); err != nil {
		d.log.WithError(err).Warn("persist current user reference")
	}
}

// ClearCurrent drops the authenticated user reference and persists the change.
func (d *Directory) ClearCurrent(ctx context.Context) {
	d.SetCurrent(ctx, "")
}

func (d *Directory) byID(id string) (domain.User, bool) {
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// persistLocked writes the collection and current reference through to the
// store. Best effort: a failure keeps the in-memory state and is only logged.
func (d *Directory) persistLocked(ctx context.Context) {
	if err := d.store.SaveUsers(ctx, append([]domain.User(nil), d.users...)); err != nil {
		d.log.WithError(err).Warn("persist user collection")
	}
	if err := d.store.SaveCurrentUserID(ctx, d.current); err != nil {
		d.log.WithError(err).Warn("persist current user reference")
	}
}

func (d *Directory) uniqueUsernameLocked(base string) string {
	for {
		candidate := fmt.Sprintf("%s_%s", base, d.newID()[:4])
		taken := false
		for _, u := range d.users {
			if strings.EqualFold(u.Username, candidate) {
				taken = true
				break
			}
		}
		if !taken {
			return candidate
		}
	}
}
