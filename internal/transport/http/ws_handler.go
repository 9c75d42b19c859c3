package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"family-puzzles/internal/app"
	"family-puzzles/internal/domain"
	"family-puzzles/internal/session"
)

// WSHandler serves one game session per websocket connection. The session
// lives exactly as long as the connection; all writes happen from the read
// loop, so frames never interleave.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

func NewWSHandler(service *app.GameService, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
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

type wordPayload struct {
	Word string `json:"word"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type noticePayload struct {
	Text      string `json:"text"`
	Kind      string `json:"kind"`
	Transient bool   `json:"transient"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into a game
// session for the requested variant and puzzle.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	variant, err := domain.ParseVariant(r.URL.Query().Get("variant"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	puzzleID := r.URL.Query().Get("puzzleId")
	userID := r.URL.Query().Get("userId")
	userName := r.URL.Query().Get("name")
	if puzzleID == "" || userID == "" || userName == "" {
		http.Error(w, "missing puzzleId, userId, or name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	player := domain.Player{UserID: userID, UserName: userName}
	sess, err := h.service.StartSession(r.Context(), variant, puzzleID, player)
	if err != nil {
		if errors.Is(err, domain.ErrPuzzleNotFound) {
			_ = conn.WriteJSON(outboundMessage[session.Snapshot]{Type: "state", Payload: session.Snapshot{
				Variant:  variant,
				PuzzleID: puzzleID,
				Phase:    session.PhaseNotFound,
			}})
			return
		}
		h.writeError(conn, err.Error())
		return
	}

	h.log.Info().
		Str("variant", string(variant)).
		Str("puzzleId", puzzleID).
		Str("userId", userID).
		Msg("session started")

	h.writeState(conn, sess.Snapshot())

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		h.dispatch(r.Context(), conn, sess, inbound)
	}
}

func (h *WSHandler) dispatch(ctx context.Context, conn *websocket.Conn, sess session.Session, inbound inboundMessage) {
	switch s := sess.(type) {
	case *session.Grouping:
		h.dispatchGrouping(ctx, conn, s, inbound)
	case *session.Wordle:
		h.dispatchWord(ctx, conn, inbound, s.Reset, s.Submit)
	case *session.Quordle:
		h.dispatchWord(ctx, conn, inbound, s.Reset, s.Submit)
	default:
		h.writeError(conn, "unsupported session type")
	}
}

func (h *WSHandler) dispatchGrouping(ctx context.Context, conn *websocket.Conn, s *session.Grouping, inbound inboundMessage) {
	switch inbound.Type {
	case "toggle":
		var payload wordPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Word == "" {
			h.writeError(conn, "invalid toggle payload")
			return
		}
		h.writeState(conn, s.Toggle(payload.Word))
	case "deselectAll":
		h.writeState(conn, s.DeselectAll())
	case "shuffle":
		snap, effects := s.Shuffle()
		h.deliver(conn, snap, effects)
	case "submit":
		snap, effects, err := s.Submit(ctx)
		if err != nil {
			h.writeError(conn, err.Error())
			return
		}
		h.deliver(conn, snap, effects)
	case "reset":
		h.writeState(conn, s.Reset(ctx))
	default:
		h.writeError(conn, "unsupported message type")
	}
}

func (h *WSHandler) dispatchWord(
	ctx context.Context,
	conn *websocket.Conn,
	inbound inboundMessage,
	reset func(context.Context) session.Snapshot,
	submit func(context.Context, string) (session.Snapshot, []session.Effect, error),
) {
	switch inbound.Type {
	case "guess":
		var payload wordPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			h.writeError(conn, "invalid guess payload")
			return
		}
		snap, effects, err := submit(ctx, payload.Word)
		if err != nil {
			h.writeError(conn, err.Error())
			return
		}
		h.deliver(conn, snap, effects)
	case "reset":
		h.writeState(conn, reset(ctx))
	default:
		h.writeError(conn, "unsupported message type")
	}
}

// deliver writes the new state, then any player-facing notices. Persistence
// effects are routed to the service and never block the connection.
func (h *WSHandler) deliver(conn *websocket.Conn, snap session.Snapshot, effects []session.Effect) {
	msgs := h.service.HandleEffects(effects)
	h.writeState(conn, snap)
	for _, m := range msgs {
		_ = conn.WriteJSON(outboundMessage[noticePayload]{Type: "message", Payload: noticePayload{
			Text:      m.Text,
			Kind:      string(m.Kind),
			Transient: m.Transient,
		}})
	}
}

func (h *WSHandler) writeState(conn *websocket.Conn, snap session.Snapshot) {
	if err := conn.WriteJSON(outboundMessage[session.Snapshot]{Type: "state", Payload: snap}); err != nil {
		h.log.Debug().Err(err).Msg("ws write failed")
	}
}

func (h *WSHandler) writeError(conn *websocket.Conn, msg string) {
	_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: msg}})
}
