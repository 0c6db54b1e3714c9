package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"quiz-attempt-service/internal/app"
	"quiz-attempt-service/internal/domain"
)

type WSHandler struct {
	service  *app.AttemptService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.AttemptService) *WSHandler {
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

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

type answerAck struct {
	QuestionID string        `json:"questionId"`
	Answer     domain.Answer `json:"answer"`
}

type questionPayload struct {
	Question         domain.QuestionView `json:"question"`
	QuestionIndex    int                 `json:"questionIndex"`
	QuestionCount    int                 `json:"questionCount"`
	RemainingSeconds int                 `json:"remainingSeconds"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the
// attempt use cases. The client drives start/answer/advance; question
// changes, countdown ticks and the final summary are pushed from the
// attempt's snapshot stream.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	userID := r.URL.Query().Get("userId")
	if quizID == "" || userID == "" {
		http.Error(w, "missing quizId or userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	defer h.service.Abandon(r.Context(), quizID, userID)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	subscribed := false

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			snap, _, err := h.service.Start(r.Context(), quizID, userID)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "started", Payload: snap}
			if !subscribed {
				updates, cancel, err := h.service.Subscribe(r.Context(), quizID, userID)
				if err != nil {
					send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
					continue
				}
				subscribed = true
				defer cancel()
				go h.pumpUpdates(r.Context(), quizID, userID, updates, send, closeSignals, updatesDone)
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			stored, err := h.service.RecordAnswer(r.Context(), quizID, userID, payload.QuestionID, payload.Value)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "answerAck", Payload: answerAck{
				QuestionID: payload.QuestionID,
				Answer:     stored,
			}}
		case "advance":
			if _, _, err := h.service.Advance(r.Context(), quizID, userID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
			// Question changes and the completion summary arrive via the
			// snapshot stream.
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	if subscribed {
		<-updatesDone
	}
	close(send)
	<-writerDone
}

// pumpUpdates translates attempt snapshots into outbound events: a question
// payload whenever the current index changes, a state event per tick, and
// the result summary exactly once per completion.
func (h *WSHandler) pumpUpdates(
	ctx context.Context,
	quizID, userID string,
	updates <-chan domain.AttemptSnapshot,
	send chan<- outboundMessage[any],
	closeSignals <-chan struct{},
	done chan<- struct{},
) {
	defer close(done)

	lastIndex := -1
	completedSent := false
	for {
		select {
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			var out []outboundMessage[any]
			switch snapshot.Status {
			case domain.StatusInProgress:
				completedSent = false
				if snapshot.QuestionIndex != lastIndex {
					lastIndex = snapshot.QuestionIndex
					if view, err := h.service.CurrentQuestion(ctx, quizID, userID); err == nil {
						out = append(out, outboundMessage[any]{Type: "question", Payload: questionPayload{
							Question:         view,
							QuestionIndex:    snapshot.QuestionIndex,
							QuestionCount:    snapshot.QuestionCount,
							RemainingSeconds: snapshot.RemainingSeconds,
						}})
					}
				}
				out = append(out, outboundMessage[any]{Type: "state", Payload: snapshot})
			case domain.StatusCompleted:
				lastIndex = -1
				out = append(out, outboundMessage[any]{Type: "state", Payload: snapshot})
				if !completedSent {
					completedSent = true
					if summary, err := h.service.Results(ctx, quizID, userID); err == nil {
						out = append(out, outboundMessage[any]{Type: "completed", Payload: summary})
					}
				}
			default:
				out = append(out, outboundMessage[any]{Type: "state", Payload: snapshot})
			}
			for _, msg := range out {
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			}
		case <-closeSignals:
			return
		case <-ctx.Done():
			return
		}
	}
}
