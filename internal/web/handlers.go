package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"discmeta/internal/freedb"
)

// LookupResponse is a session result plus the error of a failed round trip.
type LookupResponse struct {
	freedb.Result
	Error string `json:"error,omitempty"`
}

// handleLookup serves GET /api/lookup?disc=<fingerprint>[&choose=<n>].
// Without choose a multi-match answer is returned as multipleRecords.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	fp, err := freedb.ParseFingerprint(q.Get("disc"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var choose int
	_, chooseGiven := q["choose"]
	if chooseGiven {
		if choose, err = strconv.Atoi(q.Get("choose")); err != nil {
			http.Error(w, "choose must be an integer", http.StatusBadRequest)
			return
		}
	}

	session := s.newSession()
	res, err := session.Lookup(r.Context(), fp)
	if err == nil && chooseGiven && res.Status == freedb.StatusMultipleRecords {
		res, err = session.Choose(r.Context(), choose)
	}

	resp := LookupResponse{Result: res}
	status := http.StatusOK
	if err != nil {
		s.logger.Error("Lookup %s failed: %v", fp.DiscID, err)
		resp.Error = err.Error()
		status = http.StatusBadGateway
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
