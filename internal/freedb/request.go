// Package freedb speaks the query/read conversation of the freedb CDDB
// protocol and decodes the xmcd records it returns.
package freedb

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	ClientName    = "discmeta"
	ClientVersion = "1.0"

	protocolLevel = "6"
)

// Preference keys read from Preferences.
const (
	PrefHostname = "hostname"
	PrefUsername = "username"
	PrefFirstHit = "firstHit"
	PrefDebug    = "debug"
)

// ErrInvalidFingerprint is returned by ParseFingerprint for malformed disc strings.
var ErrInvalidFingerprint = errors.New("invalid disc fingerprint")

// Fingerprint identifies a disc by its table of contents.
type Fingerprint struct {
	DiscID     string
	TrackCount int
	Offsets    []int // frame offset of each track, len == TrackCount
	Seconds    int   // total playing time
}

// ParseFingerprint parses the "<id> <n> <offset_1> ... <offset_n> <seconds>"
// form printed by cd-discid and similar tools.
func ParseFingerprint(s string) (Fingerprint, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return Fingerprint{}, fmt.Errorf("%w: expected at least 4 fields, got %d", ErrInvalidFingerprint, len(fields))
	}

	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return Fingerprint{}, fmt.Errorf("%w: bad track count %q", ErrInvalidFingerprint, fields[1])
	}
	if len(fields) != n+3 {
		return Fingerprint{}, fmt.Errorf("%w: %d tracks need %d fields, got %d", ErrInvalidFingerprint, n, n+3, len(fields))
	}

	offsets := make([]int, n)
	for i := range offsets {
		v, err := parseNonNegative(fields[i+2])
		if err != nil {
			return Fingerprint{}, fmt.Errorf("%w: track %d offset: %v", ErrInvalidFingerprint, i+1, err)
		}
		offsets[i] = v
	}

	seconds, err := parseNonNegative(fields[n+2])
	if err != nil {
		return Fingerprint{}, fmt.Errorf("%w: disc length: %v", ErrInvalidFingerprint, err)
	}

	return Fingerprint{
		DiscID:     fields[0],
		TrackCount: n,
		Offsets:    offsets,
		Seconds:    seconds,
	}, nil
}

func parseNonNegative(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %d", v)
	}
	return v, nil
}

// Tokens returns the fingerprint in its space-separated token order.
func (f Fingerprint) Tokens() []string {
	tokens := make([]string, 0, len(f.Offsets)+3)
	tokens = append(tokens, f.DiscID, strconv.Itoa(f.TrackCount))
	for _, off := range f.Offsets {
		tokens = append(tokens, strconv.Itoa(off))
	}
	return append(tokens, strconv.Itoa(f.Seconds))
}

func (f Fingerprint) String() string {
	return strings.Join(f.Tokens(), " ")
}

// BuildLookupPath returns the query string for a "cddb query" request.
func BuildLookupPath(fp Fingerprint, prefs Preferences) string {
	return buildPath(append([]string{"cddb", "query"}, fp.Tokens()...), prefs)
}

// BuildFetchPath returns the query string for a "cddb read" request.
func BuildFetchPath(category, discID string, prefs Preferences) string {
	return buildPath([]string{"cddb", "read", category, discID}, prefs)
}

func buildPath(cmd []string, prefs Preferences) string {
	hello := []string{
		helloToken(prefs.Get(PrefUsername)),
		helloToken(prefs.Get(PrefHostname)),
		ClientName,
		ClientVersion,
	}
	return "cmd=" + joinTokens(cmd) + "&hello=" + joinTokens(hello) + "&proto=" + protocolLevel
}

// helloToken keeps a hello field a single token; the server splits the
// greeting on spaces. Empty values are sent as they are.
func helloToken(s string) string {
	return strings.Join(strings.Fields(s), "_")
}

// joinTokens escapes each token and joins them with '+', the encoded form of
// a space in a query string.
func joinTokens(tokens []string) string {
	escaped := make([]string, len(tokens))
	for i, t := range tokens {
		escaped[i] = url.QueryEscape(t)
	}
	return strings.Join(escaped, "+")
}
