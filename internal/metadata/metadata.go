// Package metadata writes disc metadata into ripped audio files.
package metadata

// TrackInfo contains the tags written to a single audio track.
type TrackInfo struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	TrackNumber int
	TotalTracks int
	Year        int
	Genre       string
}
