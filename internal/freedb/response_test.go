package freedb

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const fourChoices = "blues 7F087C0A Artist A / Album A\n" +
	"rock 7F087C0B Artist B / Album B\n" +
	"jazz 7F087C0C Artist C / Album C\n" +
	"country 7F087C0D Artist D / Album D\n" +
	"."

func TestClassifyLookup(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  LookupOutcome
	}{
		{
			name:  "exact match",
			reply: "200 blues 7F087C0A Some random artist / Some random album",
			want:  SingleMatch{Category: "blues", DiscID: "7F087C0A"},
		},
		{
			name:  "close matches",
			reply: "211 code close matches found\n" + fourChoices,
			want: MultipleMatches{Candidates: []Candidate{
				"blues 7F087C0A Artist A / Album A",
				"rock 7F087C0B Artist B / Album B",
				"jazz 7F087C0C Artist C / Album C",
				"country 7F087C0D Artist D / Album D",
			}},
		},
		{
			name:  "close matches with CRLF",
			reply: "211 close matches found\r\nrock 01 A / B\r\nfolk 02 C / D\r\n.\r\n",
			want:  MultipleMatches{Candidates: []Candidate{"rock 01 A / B", "folk 02 C / D"}},
		},
		{
			name:  "no match",
			reply: "202 No match found",
			want:  NoMatch{},
		},
		{
			name:  "database corrupt",
			reply: "403 Database entry is corrupt",
			want:  DatabaseCorrupt{},
		},
		{
			name:  "unknown code",
			reply: "666 The number of the beast",
			want:  UnknownCode{Code: "666"},
		},
		{
			name:  "read code is unknown for a query",
			reply: "210 rock 01020304",
			want:  UnknownCode{Code: "210"},
		},
		{
			name:  "code with leading whitespace",
			reply: "   409 No handshake",
			want:  UnknownCode{Code: "409"},
		},
		{
			name:  "exact match with short header",
			reply: "200 blues",
			want:  SingleMatch{Category: "blues"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyLookup(tt.reply)
			if err != nil {
				t.Fatalf("ClassifyLookup() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ClassifyLookup() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyFetch(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  FetchOutcome
	}{
		{
			name:  "found",
			reply: "210 metal 7F087C01\nA fake freedb record file\n.",
			want:  Found{Category: "metal", DiscID: "7F087C01", Body: "A fake freedb record file"},
		},
		{
			name:  "found multi-line body",
			reply: "210 rock 01020304 CD database entry follows\n# xmcd\nDTITLE=A / B\nTTITLE0=One\n.\n",
			want:  Found{Category: "rock", DiscID: "01020304", Body: "# xmcd\nDTITLE=A / B\nTTITLE0=One"},
		},
		{
			name:  "found without terminator",
			reply: "210 rock 01020304\nDTITLE=A / B",
			want:  Found{Category: "rock", DiscID: "01020304", Body: "DTITLE=A / B"},
		},
		{
			name:  "found with empty body",
			reply: "210 rock 01020304\n.",
			want:  Found{Category: "rock", DiscID: "01020304"},
		},
		{
			name:  "entry not found",
			reply: "401 Cddb entry not found",
			want:  NotFound{},
		},
		{
			name:  "server error",
			reply: "402 There is a temporary server error",
			want:  ServerError{},
		},
		{
			name:  "database corrupt",
			reply: "403 Database inconsistency error",
			want:  DatabaseCorrupt{},
		},
		{
			name:  "unknown code",
			reply: "666 The number of the beast",
			want:  UnknownCode{Code: "666"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ClassifyFetch(tt.reply)
			if err != nil {
				t.Fatalf("ClassifyFetch() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ClassifyFetch() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyMalformed(t *testing.T) {
	for _, reply := range []string{"", "\n", "   \nrock 01 A / B\n."} {
		if _, err := ClassifyLookup(reply); !errors.Is(err, ErrMalformedReply) {
			t.Errorf("ClassifyLookup(%q) error = %v, want ErrMalformedReply", reply, err)
		}
		if _, err := ClassifyFetch(reply); !errors.Is(err, ErrMalformedReply) {
			t.Errorf("ClassifyFetch(%q) error = %v, want ErrMalformedReply", reply, err)
		}
	}
}

func TestTerminatorOnlyMatchesWholeLine(t *testing.T) {
	got, err := ClassifyFetch("210 rock 01020304\nEXTD=Ends with a dot.\n..\n.\nafter")
	if err != nil {
		t.Fatal(err)
	}
	want := Found{Category: "rock", DiscID: "01020304", Body: "EXTD=Ends with a dot.\n.."}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ClassifyFetch() mismatch (-want +got):\n%s", diff)
	}
}

func TestCandidateTokens(t *testing.T) {
	tests := []struct {
		line         Candidate
		category, id string
	}{
		{"rock 7F087C0B Artist B / Album B", "rock", "7F087C0B"},
		{"  jazz\t7F087C0C Artist C", "jazz", "7F087C0C"},
		{"misc", "misc", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		if got := tt.line.Category(); got != tt.category {
			t.Errorf("Category(%q) = %q, want %q", tt.line, got, tt.category)
		}
		if got := tt.line.DiscID(); got != tt.id {
			t.Errorf("DiscID(%q) = %q, want %q", tt.line, got, tt.id)
		}
	}
}
