package freedb

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"discmeta/internal/metadata"
)

// ErrEmptyRecord is returned when a record body has no disc title and no tracks.
var ErrEmptyRecord = errors.New("record has no title or tracks")

const titleSeparator = " / "

var (
	discLengthPattern = regexp.MustCompile(`^#\s*Disc length:\s*(\d+)`)
	indexedKeyPattern = regexp.MustCompile(`^(TTITLE|EXTT)(\d+)$`)
	valueUnescaper    = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\\`, `\`)
)

// Disc is a decoded xmcd record.
type Disc struct {
	DiscID   string
	Artist   string
	Title    string
	Year     int
	Genre    string
	Extended string
	Length   int // seconds, from the "Disc length" comment
	Tracks   []Track
}

type Track struct {
	Number   int // 1-based
	Artist   string
	Title    string
	Extended string
}

// VariousArtists reports whether any track names its own artist.
func (d Disc) VariousArtists() bool {
	for _, t := range d.Tracks {
		if t.Artist != d.Artist {
			return true
		}
	}
	return false
}

// TrackInfos converts the disc into per-track tag data.
func (d Disc) TrackInfos() []metadata.TrackInfo {
	infos := make([]metadata.TrackInfo, len(d.Tracks))
	for i, t := range d.Tracks {
		infos[i] = metadata.TrackInfo{
			Title:       t.Title,
			Artist:      t.Artist,
			Album:       d.Title,
			AlbumArtist: d.Artist,
			TrackNumber: t.Number,
			TotalTracks: len(d.Tracks),
			Year:        d.Year,
			Genre:       d.Genre,
		}
	}
	return infos
}

// ParseRecord decodes the body of a "cddb read" reply. Keys that appear on
// several lines are concatenated in order.
func ParseRecord(body string) (Disc, error) {
	var (
		disc     Disc
		values   = map[string]*strings.Builder{}
		titles   = map[int]*strings.Builder{}
		extended = map[int]*strings.Builder{}
	)

	appendTo := func(m map[int]*strings.Builder, i int, v string) {
		if m[i] == nil {
			m[i] = &strings.Builder{}
		}
		m[i].WriteString(v)
	}

	for _, line := range splitLines(body) {
		if strings.HasPrefix(line, "#") {
			if m := discLengthPattern.FindStringSubmatch(line); m != nil {
				disc.Length, _ = strconv.Atoi(m[1])
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)

		if m := indexedKeyPattern.FindStringSubmatch(key); m != nil {
			i, _ := strconv.Atoi(m[2])
			if m[1] == "TTITLE" {
				appendTo(titles, i, value)
			} else {
				appendTo(extended, i, value)
			}
			continue
		}

		if values[key] == nil {
			values[key] = &strings.Builder{}
		}
		values[key].WriteString(value)
	}

	get := func(key string) string {
		if b := values[key]; b != nil {
			return strings.TrimSpace(valueUnescaper.Replace(b.String()))
		}
		return ""
	}

	if ids := get("DISCID"); ids != "" {
		disc.DiscID, _, _ = strings.Cut(ids, ",")
	}
	disc.Artist, disc.Title = splitTitle(get("DTITLE"))
	disc.Year, _ = strconv.Atoi(get("DYEAR"))
	disc.Genre = get("DGENRE")
	disc.Extended = get("EXTD")

	indexes := make([]int, 0, len(titles))
	for i := range titles {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	for _, i := range indexes {
		t := Track{Number: i + 1, Artist: disc.Artist}
		raw := strings.TrimSpace(valueUnescaper.Replace(titles[i].String()))
		if artist, title, ok := strings.Cut(raw, titleSeparator); ok {
			t.Artist, t.Title = strings.TrimSpace(artist), strings.TrimSpace(title)
		} else {
			t.Title = raw
		}
		if b := extended[i]; b != nil {
			t.Extended = strings.TrimSpace(valueUnescaper.Replace(b.String()))
		}
		disc.Tracks = append(disc.Tracks, t)
	}

	if disc.Title == "" && len(disc.Tracks) == 0 {
		return Disc{}, ErrEmptyRecord
	}
	return disc, nil
}

// splitTitle splits a DTITLE value. Without a separator the whole value is
// used as both artist and title.
func splitTitle(s string) (artist, title string) {
	if a, t, ok := strings.Cut(s, titleSeparator); ok {
		return strings.TrimSpace(a), strings.TrimSpace(t)
	}
	return s, s
}
