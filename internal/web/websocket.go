package web

import (
	"net/http"

	"github.com/gorilla/websocket"

	"discmeta/internal/freedb"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for simplicity
	},
}

// Request is a client message on the websocket.
type Request struct {
	Op    string `json:"op"` // "lookup" or "choose"
	Disc  string `json:"disc,omitempty"`
	Index int    `json:"index"`
}

// handleWebSocket serves an interactive session: the client sends a lookup,
// then as many choose messages as it likes. Messages are handled one at a
// time, so the session never sees concurrent calls.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := s.newSession()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("WebSocket read ended: %v", err)
			}
			return
		}

		resp := s.handleRequest(r, session, req)
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Error("Failed to write WebSocket message: %v", err)
			return
		}
	}
}

func (s *Server) handleRequest(r *http.Request, session *freedb.Session, req Request) LookupResponse {
	var (
		res freedb.Result
		err error
	)

	switch req.Op {
	case "lookup":
		fp, perr := freedb.ParseFingerprint(req.Disc)
		if perr != nil {
			return LookupResponse{Result: session.Result(), Error: perr.Error()}
		}
		res, err = session.Lookup(r.Context(), fp)
	case "choose":
		res, err = session.Choose(r.Context(), req.Index)
	default:
		return LookupResponse{Result: session.Result(), Error: "unknown op: " + req.Op}
	}

	resp := LookupResponse{Result: res}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}
