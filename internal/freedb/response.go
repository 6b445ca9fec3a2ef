package freedb

import (
	"errors"
	"strings"
)

// Server response codes.
const (
	codeExactMatch      = "200"
	codeNoMatch         = "202"
	codeFound           = "210"
	codeCloseMatches    = "211"
	codeEntryNotFound   = "401"
	codeServerError     = "402"
	codeDatabaseCorrupt = "403"
)

const terminator = "."

// ErrMalformedReply is returned when a reply carries no status code.
var ErrMalformedReply = errors.New("malformed reply: no status code")

// Candidate is one line of a close-matches reply, kept verbatim.
// It starts with a category and a disc id followed by a free-form title.
type Candidate string

// Category returns the first token of the line.
func (c Candidate) Category() string { return token(string(c), 0) }

// DiscID returns the second token of the line.
func (c Candidate) DiscID() string { return token(string(c), 1) }

// LookupOutcome is the classified reply to a query request. It is one of
// SingleMatch, MultipleMatches, NoMatch, DatabaseCorrupt or UnknownCode.
type LookupOutcome interface {
	lookupOutcome()
}

// FetchOutcome is the classified reply to a read request. It is one of
// Found, NotFound, ServerError, DatabaseCorrupt or UnknownCode.
type FetchOutcome interface {
	fetchOutcome()
}

type SingleMatch struct {
	Category string
	DiscID   string
}

type MultipleMatches struct {
	Candidates []Candidate
}

type NoMatch struct{}

type Found struct {
	Category string
	DiscID   string
	Body     string
}

type NotFound struct{}

type ServerError struct{}

// DatabaseCorrupt is reported by both request kinds.
type DatabaseCorrupt struct{}

// UnknownCode carries any code not listed for the request kind, verbatim.
type UnknownCode struct {
	Code string
}

func (SingleMatch) lookupOutcome()     {}
func (MultipleMatches) lookupOutcome() {}
func (NoMatch) lookupOutcome()         {}
func (DatabaseCorrupt) lookupOutcome() {}
func (UnknownCode) lookupOutcome()     {}

func (Found) fetchOutcome()           {}
func (NotFound) fetchOutcome()        {}
func (ServerError) fetchOutcome()     {}
func (DatabaseCorrupt) fetchOutcome() {}
func (UnknownCode) fetchOutcome()     {}

// ClassifyLookup parses the reply to a "cddb query" request.
func ClassifyLookup(text string) (LookupOutcome, error) {
	r, err := splitReply(text)
	if err != nil {
		return nil, err
	}

	switch r.code() {
	case codeExactMatch:
		return SingleMatch{Category: r.header(1), DiscID: r.header(2)}, nil
	case codeCloseMatches:
		candidates := make([]Candidate, len(r.body))
		for i, line := range r.body {
			candidates[i] = Candidate(line)
		}
		return MultipleMatches{Candidates: candidates}, nil
	case codeNoMatch:
		return NoMatch{}, nil
	case codeDatabaseCorrupt:
		return DatabaseCorrupt{}, nil
	default:
		return UnknownCode{Code: r.code()}, nil
	}
}

// ClassifyFetch parses the reply to a "cddb read" request.
func ClassifyFetch(text string) (FetchOutcome, error) {
	r, err := splitReply(text)
	if err != nil {
		return nil, err
	}

	switch r.code() {
	case codeFound:
		return Found{
			Category: r.header(1),
			DiscID:   r.header(2),
			Body:     strings.Join(r.body, "\n"),
		}, nil
	case codeEntryNotFound:
		return NotFound{}, nil
	case codeServerError:
		return ServerError{}, nil
	case codeDatabaseCorrupt:
		return DatabaseCorrupt{}, nil
	default:
		return UnknownCode{Code: r.code()}, nil
	}
}

// reply is a server response split into header tokens and body lines.
type reply struct {
	fields []string
	body   []string
}

func (r reply) code() string { return r.fields[0] }

func (r reply) header(i int) string {
	if i < len(r.fields) {
		return r.fields[i]
	}
	return ""
}

// splitReply tokenizes the first line and collects the following lines up
// to, but not including, the terminator line. A reply without a terminator
// keeps every remaining line.
func splitReply(text string) (reply, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return reply{}, ErrMalformedReply
	}

	fields := strings.Fields(lines[0])
	if len(fields) == 0 {
		return reply{}, ErrMalformedReply
	}

	var body []string
	for _, line := range lines[1:] {
		if line == terminator {
			break
		}
		body = append(body, line)
	}
	return reply{fields: fields, body: body}, nil
}

// splitLines splits on '\n' and drops the '\r' of CRLF line endings. A
// trailing line break does not produce an empty final line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func token(s string, i int) string {
	fields := strings.Fields(s)
	if i < len(fields) {
		return fields[i]
	}
	return ""
}
