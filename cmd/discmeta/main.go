package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"discmeta/internal/config"
	"discmeta/internal/freedb"
	"discmeta/internal/logger"
	"discmeta/internal/metadata"
	"discmeta/internal/transport"
	"discmeta/pkg/utils"
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain runs the command and returns the process exit code, so deferred
// cleanup happens before the process exits.
func realMain(args []string) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New(opts.Config.Debug)
	defer log.Close()

	if !opts.Config.Debug {
		logDir := config.GetDefaultLogPath()
		if err := os.MkdirAll(logDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] Failed to create log directory: %v\n", err)
		} else {
			logFile := filepath.Join(logDir, fmt.Sprintf("discmeta_%s.log", time.Now().Format("2006-01-02_15-04-05")))
			if err := log.SetFileLog(logFile); err != nil {
				fmt.Fprintf(os.Stderr, "[WARN] Failed to setup file logging: %v\n", err)
			} else {
				log.Debug("Logging to file: %s", logFile)
			}
		}
	}

	if opts.ConfigPath != "" {
		log.Debug("Loaded configuration from: %s", opts.ConfigPath)
	}

	if err := opts.Config.Validate(); err != nil {
		log.Error("Configuration error: %v", err)
		return 1
	}

	if err := run(ctx, opts, log, os.Stdin, os.Stdout); err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, opts options, log *logger.Logger, in io.Reader, out io.Writer) error {
	fp, err := freedb.ParseFingerprint(opts.Disc)
	if err != nil {
		return err
	}

	cfg := opts.Config
	session := freedb.NewSession(cfg, transport.New(cfg.ServerURL, cfg.CGIPath, cfg.Timeout()), log)

	log.Info("=== Looking up %s (%d tracks) on %s ===", fp.DiscID, fp.TrackCount, cfg.ServerURL)
	res, err := session.Lookup(ctx, fp)
	if err != nil {
		return err
	}

	if res.Status == freedb.StatusMultipleRecords {
		res, err = pick(ctx, session, res, opts.Choose, in, out)
		if err != nil {
			return err
		}
	}

	if res.Status != freedb.StatusOK {
		return fmt.Errorf("no record retrieved: %s", res.Status)
	}

	disc, err := freedb.ParseRecord(res.Record)
	if err != nil {
		log.Warn("Could not decode record: %v", err)
		fmt.Fprintln(out, res.Record)
		return nil
	}
	printDisc(out, res, disc)

	if opts.TagDir == "" {
		return nil
	}
	return tag(opts, log, disc)
}

// pick resolves a multi-match lookup, prompting on in until a valid index is
// chosen when no index was given on the command line.
func pick(ctx context.Context, s *freedb.Session, res freedb.Result, index int, in io.Reader, out io.Writer) (freedb.Result, error) {
	if index >= 0 {
		return s.Choose(ctx, index)
	}
	if len(res.Choices) == 0 {
		return res, nil
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out, "Several records match this disc:")
		for i, c := range res.Choices {
			fmt.Fprintf(out, "  [%d] %s\n", i, c)
		}
		fmt.Fprint(out, "Choose a record: ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return res, fmt.Errorf("failed to read choice: %w", err)
			}
			return res, fmt.Errorf("no choice made")
		}

		n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintf(out, "Not a number: %q\n", scanner.Text())
			continue
		}

		res, err = s.Choose(ctx, n)
		if err != nil {
			return res, err
		}
		if res.Status != freedb.ChoiceNotValid(n) {
			return res, nil
		}
		fmt.Fprintf(out, "No record %d\n", n)
	}
}

func printDisc(out io.Writer, res freedb.Result, disc freedb.Disc) {
	fmt.Fprintf(out, "%s / %s\n", disc.Artist, disc.Title)
	if disc.Year > 0 {
		fmt.Fprintf(out, "Year:     %d\n", disc.Year)
	}
	if disc.Genre != "" {
		fmt.Fprintf(out, "Genre:    %s\n", disc.Genre)
	}
	fmt.Fprintf(out, "Category: %s\n", res.Category)
	fmt.Fprintf(out, "Disc ID:  %s\n", res.DiscID)

	various := disc.VariousArtists()
	for _, t := range disc.TrackInfos() {
		if various {
			fmt.Fprintf(out, "  %2d/%d. %s / %s\n", t.TrackNumber, t.TotalTracks, t.Artist, t.Title)
		} else {
			fmt.Fprintf(out, "  %2d/%d. %s\n", t.TrackNumber, t.TotalTracks, t.Title)
		}
	}
}

func tag(opts options, log *logger.Logger, disc freedb.Disc) error {
	log.Info("=== Tagging files in %s ===", opts.TagDir)

	files, err := utils.FindAudioFiles(opts.TagDir)
	if err != nil {
		return fmt.Errorf("failed to find audio files: %w", err)
	}
	if err := metadata.TagFiles(files, disc.TrackInfos()); err != nil {
		return err
	}
	log.Info("Tagged %d files", len(files))

	if !opts.Move {
		return nil
	}

	log.Info("=== Moving files to %s ===", opts.Config.OutputDir)
	moved, err := utils.MoveFiles(planMoves(files, disc.TrackInfos(), opts.Config.OutputDir))
	if err != nil {
		return fmt.Errorf("failed to move files to %s: %w", opts.Config.OutputDir, err)
	}
	log.Info("Moved %d files to %s", moved, opts.Config.OutputDir)
	return nil
}

// planMoves pairs each tagged file with its library path under outputDir.
func planMoves(files []string, tracks []metadata.TrackInfo, outputDir string) []utils.Move {
	moves := make([]utils.Move, len(files))
	for i, file := range files {
		moves[i] = utils.Move{
			Src: file,
			Dst: filepath.Join(outputDir, metadata.TrackPath(tracks[i], filepath.Ext(file))),
		}
	}
	return moves
}
