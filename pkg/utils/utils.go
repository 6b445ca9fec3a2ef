package utils

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
)

// Audio file extensions picked up from a rip directory.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".flac": true,
	".opus": true,
	".wav":  true,
	".aac":  true,
	".ogg":  true,
	".wv":   true,
}

// FindAudioFiles lists the audio files under dir, sorted by path so that
// track order follows file naming (01.flac, 02.flac, ...).
func FindAudioFiles(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory path cannot be empty")
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() && audioExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// Move is one planned file relocation.
type Move struct {
	Src string
	Dst string
}

// MoveFiles performs every move in order and returns how many succeeded.
// A failed move does not stop the rest; all failures are returned joined.
func MoveFiles(moves []Move) (int, error) {
	var (
		moved int
		errs  []error
	)
	for _, m := range moves {
		if err := MoveFile(m.Src, m.Dst); err != nil {
			errs = append(errs, err)
			continue
		}
		moved++
	}

	if len(errs) > 0 {
		return moved, fmt.Errorf("%d of %d files not moved: %w", len(errs), len(moves), errors.Join(errs...))
	}
	return moved, nil
}

// ErrDestinationExists is returned by MoveFile instead of overwriting a file.
var ErrDestinationExists = errors.New("destination already exists")

// MoveFile moves src to dst, creating parent directories. It never replaces
// an existing dst and falls back to copying across filesystems.
func MoveFile(src, dst string) error {
	if src == "" || dst == "" {
		return fmt.Errorf("source and destination paths cannot be empty")
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("move %s: %w: %s", src, ErrDestinationExists, dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	err := os.Rename(src, dst)
	if errors.Is(err, syscall.EXDEV) {
		err = copyAndDelete(src, dst)
	}
	if err != nil {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	return nil
}

func copyAndDelete(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode())
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
