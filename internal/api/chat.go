package api

import (
	"log"
	"net/http"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/ninegak/Project-Aira/internal/stream"
)

type chatRequest struct {
	Message string `json:"message"`
}

// HandleChatWS upgrades to a websocket and serves conversational turns over
// it. Each inbound message starts one turn; the turn's events stream back as
// JSON frames in order. The connection stays open across turns.
func (h *Handlers) HandleChatWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		log.Printf("[api] websocket accept failed: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "server error")

	ctx := r.Context()
	for {
		var req chatRequest
		if err := wsjson.Read(ctx, c, &req); err != nil {
			_ = c.Close(websocket.StatusNormalClosure, "")
			return
		}
		if req.Message == "" {
			_ = wsjson.Write(ctx, c, stream.Event{Type: stream.EventError, Data: "empty message"})
			continue
		}

		turn := h.orch.ChatTurn(ctx, req.Message)
		for ev := range turn {
			if err := wsjson.Write(ctx, c, ev); err != nil {
				log.Printf("[api] chat write failed: %v", err)
				// Drain so the turn can wind down; its own sends
				// stop once the request context dies.
				go func() {
					for range turn {
					}
				}()
				return
			}
		}
	}
}
