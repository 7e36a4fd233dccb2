package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"quizzing/internal/account"
	"quizzing/internal/app"
	"quizzing/internal/authoring"
	"quizzing/internal/domain"
)

// SessionFactory builds a per-connection game service. The account directory
// and quiz stores behind it are shared; the session is the caller's alone.
type SessionFactory func() *app.GameService

type WSHandler struct {
	newService SessionFactory
	log        *logrus.Entry
	upgrader   websocket.Upgrader
}

func NewWSHandler(newService SessionFactory, log *logrus.Entry) *WSHandler {
	return &WSHandler{
		newService: newService,
		log:        log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type loginPayload struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type socialLoginPayload struct {
	Provider string `json:"provider"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

type startQuizPayload struct {
	QuizID string `json:"quizId"`
}

type answerPayload struct {
	OptionID string `json:"optionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message       string `json:"message"`
	QuestionIndex *int   `json:"questionIndex,omitempty"`
}

// ServeWS upgrades the request and runs one player's game loop: snapshots and
// ticks are pushed out on every session change, intents come in as messages.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	service := h.newService()
	defer service.Close()

	snapshots, cancel := service.Session().Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.WithError(err).Debug("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: snap}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	ctx := r.Context()
	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		var err error
		switch inbound.Type {
		case "login":
			var p loginPayload
			if err = json.Unmarshal(inbound.Payload, &p); err == nil {
				err = service.Login(ctx, p.Identifier, p.Password)
			}
		case "register":
			var p account.RegisterInput
			if err = json.Unmarshal(inbound.Payload, &p); err == nil {
				err = service.Register(ctx, p)
			}
		case "socialLogin":
			var p socialLoginPayload
			if err = json.Unmarshal(inbound.Payload, &p); err == nil {
				err = service.SocialLogin(ctx, domain.AuthProvider(p.Provider), p.Email, p.Name)
			}
		case "logout":
			service.Logout(ctx)
		case "goToLogin":
			service.GoToLogin()
		case "goToRegister":
			service.GoToRegistration()
		case "startQuiz":
			var p startQuizPayload
			if err = json.Unmarshal(inbound.Payload, &p); err == nil {
				err = service.StartQuiz(ctx, p.QuizID)
			}
		case "createQuiz":
			service.CreateQuiz()
		case "quizAuthored":
			var draft authoring.Draft
			if err = json.Unmarshal(inbound.Payload, &draft); err == nil {
				err = service.AuthorQuiz(ctx, draft)
			}
		case "answer":
			var p answerPayload
			if err = json.Unmarshal(inbound.Payload, &p); err == nil {
				service.Answer(p.OptionID)
			}
		case "advance":
			service.Advance()
		case "playAgain":
			service.PlayAgain()
		case "backToLobby":
			service.BackToLobby()
		default:
			err = errors.New("unsupported message type")
		}

		if err != nil {
			payload := errorPayload{Message: err.Error()}
			var verr *authoring.ValidationError
			if errors.As(err, &verr) && verr.QuestionIndex >= 0 {
				idx := verr.QuestionIndex
				payload.QuestionIndex = &idx
			}
			select {
			case send <- outboundMessage[any]{Type: "error", Payload: payload}:
			case <-time.After(time.Second):
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
