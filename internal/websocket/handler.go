package websocket

import (
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/grocerybuddy/internal/auth"
)

// HandleWebSocket upgrades an authenticated request and streams that user's
// item events until the connection closes. originPatterns follows
// ws.AcceptOptions; empty means same-origin only.
func HandleWebSocket(hub *Hub, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			hub.logger.Warn("websocket accept", "error", err, "user_id", id.UserID)
			return
		}
		defer conn.CloseNow()

		client := NewClient(hub, conn, id.UserID)
		client.Run(r.Context())
	}
}
