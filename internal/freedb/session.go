package freedb

import (
	"context"
	"fmt"
	"strconv"

	"discmeta/internal/logger"
)

// Status is the outcome tag of the last session call.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusOK              Status = "ok"
	StatusNoMatches       Status = "noMatches"
	StatusDatabaseCorrupt Status = "databaseCorrupt"
	StatusMultipleRecords Status = "multipleRecords"
	StatusNoChoices       Status = "noChoices"
	StatusEntryNotFound   Status = "cddbEntryNotFound"
	StatusServerError     Status = "serverError"
	StatusTransportError  Status = "transportError"
)

// UnknownReturnCode is the status for a reply code the request kind does not define.
func UnknownReturnCode(code string) Status {
	return Status("unknownReturnCode: " + code)
}

// ChoiceNotValid is the status for a choice index outside the held candidates.
func ChoiceNotValid(index int) Status {
	return Status("choiceNotValid: " + strconv.Itoa(index))
}

// Preferences supplies the user settings a session reads.
type Preferences interface {
	Get(key string) string
}

// Transport performs the HTTP round trip to the freedb server.
type Transport interface {
	// Configure is called once, before any request, with the hostname preference.
	Configure(hostname string)
	// Path is the server CGI path the query string is appended to.
	Path() string
	// Get returns the reply body verbatim.
	Get(ctx context.Context, path string) (string, error)
}

// Result is the snapshot exposed after every call. Empty strings and a nil
// Choices slice mean the field is absent.
type Result struct {
	Status   Status   `json:"status"`
	Record   string   `json:"record,omitempty"`
	Category string   `json:"category,omitempty"`
	DiscID   string   `json:"disc_id,omitempty"`
	Choices  []string `json:"choices,omitempty"`
}

// Session drives the query/read conversation for one disc at a time.
// It is not safe for concurrent use.
type Session struct {
	prefs     Preferences
	transport Transport
	logger    *logger.Logger
	debug     bool

	candidates []Candidate
	result     Result
}

// NewSession creates a session and configures the transport with the
// hostname preference.
func NewSession(prefs Preferences, t Transport, log *logger.Logger) *Session {
	t.Configure(prefs.Get(PrefHostname))
	return &Session{
		prefs:     prefs,
		transport: t,
		logger:    log,
		debug:     prefBool(prefs, PrefDebug),
		result:    Result{Status: StatusIdle},
	}
}

// Lookup queries the server for fp. A single match, or the first of several
// when the firstHit preference is set, is read immediately.
//
// Protocol outcomes are reported through Result.Status. The error is non-nil
// only when the transport fails or the reply has no status code.
func (s *Session) Lookup(ctx context.Context, fp Fingerprint) (Result, error) {
	text, err := s.get(ctx, BuildLookupPath(fp, s.prefs))
	if err != nil {
		return s.fail(nil, fmt.Errorf("freedb query failed: %w", err))
	}

	outcome, err := ClassifyLookup(text)
	if err != nil {
		return s.fail(nil, fmt.Errorf("freedb query failed: %w", err))
	}

	switch o := outcome.(type) {
	case SingleMatch:
		return s.read(ctx, nil, o.Category, o.DiscID)

	case MultipleMatches:
		if prefBool(s.prefs, PrefFirstHit) {
			if len(o.Candidates) == 0 {
				return s.set(Result{Status: StatusNoMatches}, nil), nil
			}
			first := o.Candidates[0]
			s.trace("firstHit set, reading %s %s", first.Category(), first.DiscID())
			return s.read(ctx, o.Candidates, first.Category(), first.DiscID())
		}
		return s.set(Result{Status: StatusMultipleRecords}, o.Candidates), nil

	case NoMatch:
		return s.set(Result{Status: StatusNoMatches}, nil), nil

	case DatabaseCorrupt:
		return s.set(Result{Status: StatusDatabaseCorrupt}, nil), nil

	case UnknownCode:
		return s.set(Result{Status: UnknownReturnCode(o.Code)}, nil), nil
	}

	return s.set(Result{Status: StatusIdle}, nil), nil
}

// Choose reads the candidate at index from the last multi-match lookup.
// The candidate list is kept so Choose may be called again. An empty list
// from the server is still held, so every index is then not valid.
func (s *Session) Choose(ctx context.Context, index int) (Result, error) {
	if s.candidates == nil {
		return s.set(Result{Status: StatusNoChoices}, nil), nil
	}
	if index < 0 || index >= len(s.candidates) {
		return s.set(Result{Status: ChoiceNotValid(index)}, s.candidates), nil
	}

	c := s.candidates[index]
	return s.read(ctx, s.candidates, c.Category(), c.DiscID())
}

// read fetches one record and keeps the given candidates alongside the outcome.
func (s *Session) read(ctx context.Context, keep []Candidate, category, discID string) (Result, error) {
	outcome, err := s.fetch(ctx, category, discID)
	if err != nil {
		return s.fail(keep, err)
	}
	return s.set(project(outcome), keep), nil
}

func (s *Session) fetch(ctx context.Context, category, discID string) (FetchOutcome, error) {
	text, err := s.get(ctx, BuildFetchPath(category, discID, s.prefs))
	if err != nil {
		return nil, fmt.Errorf("freedb read %s/%s failed: %w", category, discID, err)
	}

	outcome, err := ClassifyFetch(text)
	if err != nil {
		return nil, fmt.Errorf("freedb read %s/%s failed: %w", category, discID, err)
	}
	return outcome, nil
}

// project maps a read outcome onto the flat result shape.
func project(outcome FetchOutcome) Result {
	switch o := outcome.(type) {
	case Found:
		return Result{Status: StatusOK, Record: o.Body, Category: o.Category, DiscID: o.DiscID}
	case NotFound:
		return Result{Status: StatusEntryNotFound}
	case ServerError:
		return Result{Status: StatusServerError}
	case DatabaseCorrupt:
		return Result{Status: StatusDatabaseCorrupt}
	case UnknownCode:
		return Result{Status: UnknownReturnCode(o.Code)}
	}
	return Result{Status: StatusIdle}
}

func (s *Session) get(ctx context.Context, query string) (string, error) {
	path := s.transport.Path() + "?" + query
	s.trace("GET %s", path)

	text, err := s.transport.Get(ctx, path)
	if err != nil {
		return "", err
	}
	s.trace("reply: %s", firstLine(text))
	return text, nil
}

func (s *Session) fail(keep []Candidate, err error) (Result, error) {
	s.logger.Debug("%v", err)
	return s.set(Result{Status: StatusTransportError}, keep), err
}

// set replaces the whole snapshot.
func (s *Session) set(r Result, candidates []Candidate) Result {
	s.candidates = candidates
	if candidates != nil {
		r.Choices = make([]string, len(candidates))
		for i, c := range candidates {
			r.Choices[i] = string(c)
		}
	}
	s.result = r
	s.trace("status: %s", r.Status)
	return s.Result()
}

func (s *Session) trace(format string, args ...interface{}) {
	if s.debug {
		s.logger.Info("[freedb] "+format, args...)
		return
	}
	s.logger.Debug("[freedb] "+format, args...)
}

// Result returns a copy of the current snapshot.
func (s *Session) Result() Result {
	r := s.result
	if r.Choices != nil {
		r.Choices = append([]string{}, r.Choices...)
	}
	return r
}

func (s *Session) Status() Status    { return s.result.Status }
func (s *Session) Record() string    { return s.result.Record }
func (s *Session) Category() string  { return s.result.Category }
func (s *Session) DiscID() string    { return s.result.DiscID }
func (s *Session) Choices() []string { return s.Result().Choices }

func prefBool(p Preferences, key string) bool {
	v, err := strconv.ParseBool(p.Get(key))
	return err == nil && v
}

func firstLine(text string) string {
	if lines := splitLines(text); len(lines) > 0 {
		return lines[0]
	}
	return ""
}
