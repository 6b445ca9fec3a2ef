package metadata

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.senan.xyz/taglib"
)

// WriteTags writes the given TrackInfo metadata to an audio file.
func WriteTags(path string, info TrackInfo) error {
	tags := make(map[string][]string)

	if info.Title != "" {
		tags[taglib.Title] = []string{info.Title}
	}
	if info.Artist != "" {
		tags[taglib.Artist] = []string{info.Artist}
	}
	if info.Album != "" {
		tags[taglib.Album] = []string{info.Album}
	}
	if info.AlbumArtist != "" {
		tags[taglib.AlbumArtist] = []string{info.AlbumArtist}
	}
	if info.TrackNumber > 0 {
		tags[taglib.TrackNumber] = []string{strconv.Itoa(info.TrackNumber)}
	}
	if info.Year > 0 {
		tags[taglib.Date] = []string{strconv.Itoa(info.Year)}
	}
	if info.Genre != "" {
		tags[taglib.Genre] = []string{info.Genre}
	}

	if err := taglib.WriteTags(path, tags, 0); err != nil {
		return fmt.Errorf("failed to write tags to %s: %w", path, err)
	}
	return nil
}

// TagFiles writes tracks[i] to files[i]. The counts must match; nothing is
// written otherwise.
func TagFiles(files []string, tracks []TrackInfo) error {
	if len(files) != len(tracks) {
		return fmt.Errorf("record has %d tracks but %d audio files were found", len(tracks), len(files))
	}

	for i, path := range files {
		if err := WriteTags(path, tracks[i]); err != nil {
			return fmt.Errorf("track %d: %w", i+1, err)
		}
	}
	return nil
}

// TrackPath is the library location of a ripped track,
// "<album artist>/<album>/<nn> - <title><ext>". Missing names fall back to
// placeholders so every track gets a distinct path.
func TrackPath(info TrackInfo, ext string) string {
	artist := info.AlbumArtist
	if artist == "" {
		artist = info.Artist
	}
	if artist == "" {
		artist = "Unknown Artist"
	}
	album := info.Album
	if album == "" {
		album = "Unknown Album"
	}
	title := info.Title
	if title == "" {
		title = "Track " + strconv.Itoa(info.TrackNumber)
	}

	name := fmt.Sprintf("%02d - %s%s", info.TrackNumber, sanitizePath(title), strings.ToLower(ext))
	return filepath.Join(sanitizePath(artist), sanitizePath(album), name)
}

// sanitizePath removes or replaces characters that are problematic in file paths.
func sanitizePath(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(s)
}
