package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quizzing/internal/account"
	"quizzing/internal/app"
	"quizzing/internal/domain"
	"quizzing/internal/game"
	"quizzing/internal/infra/memory"
	"quizzing/internal/logger"
)

type wsEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type wsState struct {
	Screen        string `json:"screen"`
	Score         int    `json:"score"`
	PointsAwarded int    `json:"pointsAwarded"`
	AnswerCorrect bool   `json:"answerCorrect"`
	Question      *struct {
		ID      string `json:"id"`
		Options []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"options"`
	} `json:"question"`
	User *struct {
		Username string `json:"username"`
	} `json:"user"`
}

type wsError struct {
	Message       string `json:"message"`
	QuestionIndex *int   `json:"questionIndex"`
}

func wsTestQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "ws-quiz",
		Title: "Wire Quiz",
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "Capital of France?",
				Options: []domain.AnswerOption{
					{ID: "a", Text: "Paris", Correct: true},
					{ID: "b", Text: "Lyon"},
				},
				TimeLimitSeconds: 15,
				Points:           1000,
			},
		},
	}
}

// newTestServer wires a handler over in-memory stores with a short transition
// delay so a playthrough completes quickly. The feedback delay and tick
// interval are huge: the test drives advancing itself.
func newTestServer(t *testing.T) (*httptest.Server, *account.Directory) {
	t.Helper()
	log := logger.Discard()

	directory, err := account.Open(context.Background(), memory.NewAccountStore(), log)
	if err != nil {
		t.Fatalf("open directory: %v", err)
	}
	quiz := wsTestQuiz()
	loader := memory.NewStaticQuizLoader(map[string]domain.Quiz{quiz.ID: quiz})
	repo := memory.NewQuizRepository(memory.ChainLoader{loader, memory.NewQuizStore()}, time.Minute)
	saver := memory.NewQuizStore()

	factory := func() *app.GameService {
		session := game.NewSession(game.Options{
			TransitionDelay: 20 * time.Millisecond,
			FeedbackDelay:   time.Hour,
			TickInterval:    time.Hour,
			Log:             log,
		})
		return app.NewGameService(session, directory, repo, saver, log)
	}

	handler := NewWSHandler(factory, log)
	server := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	t.Cleanup(server.Close)
	return server, directory
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	msg := map[string]any{"type": msgType}
	if payload != nil {
		msg["payload"] = payload
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readState reads messages until a state with the wanted screen arrives,
// skipping intermediate states. It fails on error messages.
func readState(t *testing.T, conn *websocket.Conn, screen string) wsState {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for {
		var env wsEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read waiting for %s: %v", screen, err)
		}
		if env.Type == "error" {
			t.Fatalf("unexpected error waiting for %s: %s", screen, env.Payload)
		}
		var state wsState
		if err := json.Unmarshal(env.Payload, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if state.Screen == screen {
			return state
		}
		if time.Now().After(deadline) {
			t.Fatalf("never reached screen %s", screen)
		}
	}
}

func readError(t *testing.T, conn *websocket.Conn) wsError {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var env wsEnvelope
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read waiting for error: %v", err)
		}
		if env.Type != "error" {
			continue
		}
		var payload wsError
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			t.Fatalf("decode error payload: %v", err)
		}
		return payload
	}
}

func TestPlaythroughOverWebSocket(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server)

	initial := readState(t, conn, "lobby")
	if initial.User != nil {
		t.Fatalf("expected anonymous lobby, got %+v", initial.User)
	}

	send(t, conn, "startQuiz", map[string]string{"quizId": "ws-quiz"})
	readState(t, conn, "questionTransition")

	display := readState(t, conn, "questionDisplay")
	if display.Question == nil || len(display.Question.Options) != 2 {
		t.Fatalf("expected live question with two options, got %+v", display.Question)
	}

	send(t, conn, "answer", map[string]string{"optionId": "a"})
	feedback := readState(t, conn, "answerFeedback")
	if !feedback.AnswerCorrect || feedback.PointsAwarded != 1000 {
		t.Fatalf("expected full points, got %+v", feedback)
	}

	send(t, conn, "advance", nil)
	results := readState(t, conn, "results")
	if results.Score != 1000 {
		t.Fatalf("expected final score 1000, got %d", results.Score)
	}
}

func TestRegisterAndAuthorOverWebSocket(t *testing.T) {
	server, directory := newTestServer(t)
	conn := dial(t, server)
	readState(t, conn, "lobby")

	send(t, conn, "goToRegister", nil)
	readState(t, conn, "registration")

	send(t, conn, "register", map[string]string{
		"name":     "Alice",
		"username": "alice",
		"email":    "alice@example.com",
		"password": "s3cret!",
	})
	lobby := readState(t, conn, "lobby")
	if lobby.User == nil || lobby.User.Username != "alice" {
		t.Fatalf("expected alice signed in, got %+v", lobby.User)
	}
	if _, ok := directory.CurrentUser(); !ok {
		t.Fatal("expected directory to record the current user")
	}

	send(t, conn, "createQuiz", nil)
	readState(t, conn, "quizCreation")

	send(t, conn, "quizAuthored", map[string]any{
		"title": "Authored",
		"questions": []map[string]any{
			{
				"id":   "q1",
				"text": "Is this stored?",
				"options": []map[string]any{
					{"id": "o1", "text": "Yes", "isCorrect": true},
					{"id": "o2", "text": "No"},
				},
				"timeLimitSeconds": 10,
				"points":           500,
			},
		},
	})
	readState(t, conn, "questionTransition")
}

func TestAuthoringErrorsCarryQuestionIndex(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server)
	readState(t, conn, "lobby")

	// anonymous authoring is refused outright
	send(t, conn, "quizAuthored", map[string]any{"title": "Nope"})
	if e := readError(t, conn); e.QuestionIndex != nil {
		t.Fatalf("expected quiz-level error, got %+v", e)
	}

	send(t, conn, "goToRegister", nil)
	readState(t, conn, "registration")
	send(t, conn, "register", map[string]string{
		"name": "Bob", "username": "bobby", "email": "bob@example.com", "password": "s3cret!",
	})
	readState(t, conn, "lobby")

	send(t, conn, "quizAuthored", map[string]any{
		"title": "Broken",
		"questions": []map[string]any{
			{
				"id":   "q1",
				"text": "", // missing text
				"options": []map[string]any{
					{"id": "o1", "text": "A", "isCorrect": true},
					{"id": "o2", "text": "B"},
				},
				"timeLimitSeconds": 10,
				"points":           500,
			},
		},
	})
	e := readError(t, conn)
	if e.QuestionIndex == nil || *e.QuestionIndex != 0 {
		t.Fatalf("expected error pinned to question 0, got %+v", e)
	}
}

func TestUnknownQuizOverWebSocket(t *testing.T) {
	server, _ := newTestServer(t)
	conn := dial(t, server)
	readState(t, conn, "lobby")

	send(t, conn, "startQuiz", map[string]string{"quizId": "missing"})
	e := readError(t, conn)
	if e.Message == "" {
		t.Fatalf("expected an error message, got %+v", e)
	}
}
