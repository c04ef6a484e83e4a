package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"upsc-trainer/internal/app"
	"upsc-trainer/internal/domain"
	"upsc-trainer/internal/infra/storage"
)

type WSHandler struct {
	service  *app.TrainerService
	prefs    *storage.Prefs
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.TrainerService, prefs *storage.Prefs) *WSHandler {
	return &WSHandler{
		service: service,
		prefs:   prefs,
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

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type optionPayload struct {
	QuestionID string `json:"questionId"`
	Index      int    `json:"index"`
}

type bookmarkPayload struct {
	QuestionID string `json:"questionId"`
}

type gotoPayload struct {
	Index int `json:"index"`
}

type prefsPayload struct {
	Theme    string `json:"theme"`
	FontSize string `json:"fontSize"`
}

type tickPayload struct {
	Remaining int    `json:"remaining"`
	Clock     string `json:"clock"`
	Paused    bool   `json:"paused"`
}

// ServeWS upgrades the request and drives one trainer client over the socket.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	tickerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Countdown tick and deadline enforcement. The auto-submit fires here so
	// a timed session ends even when the client sends nothing.
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-closeSignals:
				return
			case <-ticker.C:
				session, ok := h.service.Session()
				if !ok || session.State() != app.StateActive {
					continue
				}
				if result, fired := h.service.AutoSubmitIfExpired(ctx); fired {
					select {
					case send <- outboundMessage[any]{Type: "result", Payload: result}:
					case <-closeSignals:
						return
					}
					continue
				}
				tick := tickPayload{
					Remaining: session.RemainingSeconds(),
					Clock:     session.View().Clock,
					Paused:    session.Paused(),
				}
				select {
				case send <- outboundMessage[any]{Type: "tick", Payload: tick}:
				case <-closeSignals:
					return
				}
			}
		}
	}()

	send <- outboundMessage[any]{Type: "prefs", Payload: prefsPayload{
		Theme:    h.prefs.Theme(ctx),
		FontSize: h.prefs.FontSize(ctx),
	}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.handle(ctx, inbound, send)
	}

	close(closeSignals)
	<-tickerDone
	close(send)
	<-writerDone
}

var errBadPayload = errors.New("invalid message payload")

func (h *WSHandler) handle(ctx context.Context, inbound inboundMessage, send chan<- outboundMessage[any]) {
	fail := func(msg string) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
	}

	switch inbound.Type {
	case "start":
		var cfg domain.SessionConfig
		if err := json.Unmarshal(inbound.Payload, &cfg); err != nil {
			fail("invalid start payload")
			return
		}
		if cfg.Subject == "Mock Test" && cfg.Count == 0 {
			cfg.Count = domain.MockCount(cfg.Paper, false)
		}
		quick := cfg.QuickType
		cfg = domain.NewSessionConfig(cfg.Mode, cfg.Paper, cfg.Subject, cfg.Topic, cfg.Count)
		cfg.QuickType = quick
		session, err := h.service.StartSession(ctx, cfg)
		if err != nil {
			fail(err.Error())
			return
		}
		if err := h.prefs.SaveQuizConfig(ctx, cfg); err != nil {
			log.Printf("save quiz config: %v", err)
		}
		if cp, ok := h.prefs.Checkpoint(ctx); ok {
			session.Restore(cp)
		}
		send <- outboundMessage[any]{Type: "question", Payload: session.View()}
		send <- outboundMessage[any]{Type: "map", Payload: session.Overview()}

	case "select":
		h.mutate(send, fail, func(s *app.Session) error {
			var p optionPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				return errBadPayload
			}
			return s.SelectOption(p.QuestionID, p.Index)
		})

	case "eliminate":
		h.mutate(send, fail, func(s *app.Session) error {
			var p optionPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				return errBadPayload
			}
			return s.EliminateOption(p.QuestionID, p.Index)
		})

	case "bookmark":
		h.mutate(send, fail, func(s *app.Session) error {
			var p bookmarkPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				return errBadPayload
			}
			return s.ToggleBookmark(p.QuestionID)
		})

	case "goto":
		h.mutate(send, fail, func(s *app.Session) error {
			var p gotoPayload
			if err := json.Unmarshal(inbound.Payload, &p); err != nil {
				return errBadPayload
			}
			return s.GoTo(p.Index)
		})

	case "next":
		h.mutate(send, fail, func(s *app.Session) error {
			_, err := s.Next()
			return err
		})

	case "prev":
		h.mutate(send, fail, func(s *app.Session) error {
			_, err := s.Prev()
			return err
		})

	case "pause":
		h.mutate(send, fail, func(s *app.Session) error {
			s.Pause()
			return nil
		})

	case "resume":
		h.mutate(send, fail, func(s *app.Session) error {
			s.Resume()
			return nil
		})

	case "map":
		session, ok := h.service.Session()
		if !ok {
			fail(domain.ErrNoActiveSession.Error())
			return
		}
		send <- outboundMessage[any]{Type: "map", Payload: session.Overview()}

	case "submit":
		result, err := h.service.SubmitSession(ctx)
		if err != nil {
			fail(err.Error())
			return
		}
		send <- outboundMessage[any]{Type: "result", Payload: result}

	case "exit":
		h.service.ExitSession()
		send <- outboundMessage[any]{Type: "exited", Payload: struct{}{}}

	case "stats":
		send <- outboundMessage[any]{Type: "stats", Payload: h.service.Stats(ctx)}

	case "theme":
		var p prefsPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			fail("invalid theme payload")
			return
		}
		if p.Theme != "" {
			if err := h.prefs.SetTheme(ctx, p.Theme); err != nil {
				log.Printf("set theme: %v", err)
			}
		}
		if p.FontSize != "" {
			if err := h.prefs.SetFontSize(ctx, p.FontSize); err != nil {
				log.Printf("set font size: %v", err)
			}
		}

	default:
		fail("unsupported message type")
	}
}

// mutate applies op to the active session and pushes the refreshed view.
func (h *WSHandler) mutate(send chan<- outboundMessage[any], fail func(string), op func(*app.Session) error) {
	session, ok := h.service.Session()
	if !ok {
		fail(domain.ErrNoActiveSession.Error())
		return
	}
	if err := op(session); err != nil {
		fail(err.Error())
		return
	}
	send <- outboundMessage[any]{Type: "question", Payload: session.View()}
}
