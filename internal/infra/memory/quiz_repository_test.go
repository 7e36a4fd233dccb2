package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizzing/internal/domain"
)

type countingLoader struct {
	mu    sync.Mutex
	calls int
	quiz  domain.Quiz
	err   error
}

func (l *countingLoader) LoadQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return domain.Quiz{}, l.err
	}
	if l.quiz.ID != quizID {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return l.quiz, nil
}

func (l *countingLoader) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func testQuiz(id string) domain.Quiz {
	return domain.Quiz{
		ID:    id,
		Title: "Test Quiz",
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "Question?",
				Options: []domain.AnswerOption{
					{ID: "a", Text: "Yes", Correct: true},
					{ID: "b", Text: "No"},
				},
				TimeLimitSeconds: 10,
				Points:           1000,
			},
		},
	}
}

func TestQuizRepositoryCachesWithinTTL(t *testing.T) {
	loader := &countingLoader{quiz: testQuiz("quiz-1")}
	repo := NewQuizRepository(loader, time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		quiz, err := repo.GetQuiz(ctx, "quiz-1")
		if err != nil {
			t.Fatalf("GetQuiz: %v", err)
		}
		if quiz.Title != "Test Quiz" {
			t.Fatalf("unexpected quiz: %+v", quiz)
		}
	}
	if got := loader.count(); got != 1 {
		t.Fatalf("expected 1 loader call, got %d", got)
	}
}

func TestQuizRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{quiz: testQuiz("quiz-1")}
	repo := NewQuizRepository(loader, time.Minute)
	ctx := context.Background()

	now := time.Now()
	repo.clock = func() time.Time { return now }
	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}

	// jitter adds at most 10%, so two minutes is safely past expiry
	repo.clock = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("GetQuiz after expiry: %v", err)
	}
	if got := loader.count(); got != 2 {
		t.Fatalf("expected 2 loader calls, got %d", got)
	}
}

func TestQuizRepositoryDoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{err: errors.New("backend down")}
	repo := NewQuizRepository(loader, time.Minute)
	ctx := context.Background()

	if _, err := repo.GetQuiz(ctx, "quiz-1"); err == nil {
		t.Fatal("expected error")
	}
	loader.mu.Lock()
	loader.err = nil
	loader.quiz = testQuiz("quiz-1")
	loader.mu.Unlock()

	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("expected recovery after backend error, got %v", err)
	}
}

func TestQuizRepositoryNotFound(t *testing.T) {
	loader := &countingLoader{quiz: testQuiz("quiz-1")}
	repo := NewQuizRepository(loader, time.Minute)

	_, err := repo.GetQuiz(context.Background(), "missing")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestChainLoaderFallsThrough(t *testing.T) {
	static := NewStaticQuizLoader(map[string]domain.Quiz{"builtin": testQuiz("builtin")})
	store := NewQuizStore()
	ctx := context.Background()

	authored := testQuiz("authored")
	if err := store.SaveQuiz(ctx, authored); err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}

	chain := ChainLoader{static, store}

	if quiz, err := chain.LoadQuiz(ctx, "builtin"); err != nil || quiz.ID != "builtin" {
		t.Fatalf("builtin lookup: quiz=%+v err=%v", quiz, err)
	}
	if quiz, err := chain.LoadQuiz(ctx, "authored"); err != nil || quiz.ID != "authored" {
		t.Fatalf("authored lookup: quiz=%+v err=%v", quiz, err)
	}
	if _, err := chain.LoadQuiz(ctx, "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestAccountStoreRoundtrip(t *testing.T) {
	store := NewAccountStore()
	ctx := context.Background()

	users := []domain.User{
		{ID: "u1", Username: "alice", Email: "alice@example.com", AuthProvider: domain.ProviderEmail},
		{ID: "u2", Username: "bob", Email: "bob@example.com", AuthProvider: domain.ProviderGoogle},
	}
	if err := store.SaveUsers(ctx, users); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}
	if err := store.SaveCurrentUserID(ctx, "u2"); err != nil {
		t.Fatalf("SaveCurrentUserID: %v", err)
	}

	loaded, err := store.LoadUsers(ctx)
	if err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Username != "alice" || loaded[1].Username != "bob" {
		t.Fatalf("unexpected users: %+v", loaded)
	}

	current, err := store.LoadCurrentUserID(ctx)
	if err != nil {
		t.Fatalf("LoadCurrentUserID: %v", err)
	}
	if current != "u2" {
		t.Fatalf("expected current u2, got %q", current)
	}

	// stored slice is a copy, mutating the input must not leak in
	users[0].Username = "mallory"
	loaded, _ = store.LoadUsers(ctx)
	if loaded[0].Username != "alice" {
		t.Fatalf("store aliased caller slice: %+v", loaded)
	}
}
