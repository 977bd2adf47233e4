package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"adaptive-quiz-service/internal/app"
	"adaptive-quiz-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
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

type selectPayload struct {
	Index int `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message     string `json:"message"`
	Recoverable bool   `json:"recoverable"`
}

// ServeWS upgrades HTTP requests to websockets and drives one learner's practice session.
//
// Inbound messages: select {index}, submit, next, restart.
// Outbound messages: question, selected, feedback, result, error.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	contentID := r.URL.Query().Get("contentId")
	userID := r.URL.Query().Get("userId")
	name := r.URL.Query().Get("name")
	if contentID == "" || userID == "" {
		http.Error(w, "missing contentId or userId", http.StatusBadRequest)
		return
	}
	if name == "" {
		name = userID
	}
	var previous *int
	if raw := r.URL.Query().Get("previousScore"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid previousScore", http.StatusBadRequest)
			return
		}
		previous = &score
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	learner := app.Learner{ID: userID, Name: name}
	play, view, err := h.service.Begin(ctx, learner, contentID, previous)
	if err != nil {
		_ = conn.WriteJSON(errorMessage(err))
		return
	}
	defer h.service.Abandon(play)

	if err := conn.WriteJSON(outboundMessage[app.View]{Type: "question", Payload: redact(view)}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		var out interface{}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				out = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid select payload", Recoverable: true}}
				break
			}
			view, err := h.service.SelectOption(contentID, userID, payload.Index)
			if err != nil {
				out = errorMessage(err)
				break
			}
			out = outboundMessage[app.View]{Type: "selected", Payload: redact(view)}
		case "submit":
			fb, err := h.service.Submit(ctx, contentID, userID)
			if err != nil {
				out = errorMessage(err)
				break
			}
			out = outboundMessage[domain.Feedback]{Type: "feedback", Payload: fb}
		case "next":
			view, err := h.service.Advance(ctx, contentID, userID)
			if err != nil {
				out = errorMessage(err)
				break
			}
			if view.State == app.StateCompleted {
				out = outboundMessage[*domain.Result]{Type: "result", Payload: view.Result}
				break
			}
			out = outboundMessage[app.View]{Type: "question", Payload: redact(view)}
		case "restart":
			view, err := h.service.Restart(ctx, contentID, userID)
			if err != nil {
				out = errorMessage(err)
				break
			}
			out = outboundMessage[app.View]{Type: "question", Payload: redact(view)}
		default:
			out = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type", Recoverable: true}}
		}

		if err := conn.WriteJSON(out); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

func errorMessage(err error) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{
		Type:    "error",
		Payload: errorPayload{Message: app.UserMessage(err), Recoverable: app.Recoverable(err)},
	}
}

// redact hides the correct option until the answer has been checked.
func redact(view app.View) app.View {
	if view.Question != nil && (view.State == app.StateAwaitingAnswer || view.State == app.StateChecking) {
		view.Question.CorrectIndex = domain.UnknownAnswer
	}
	return view
}
