package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"discmeta/internal/config"
)

// options holds settings that only make sense for a single CLI run.
type options struct {
	Config     config.Config
	ConfigPath string
	Disc       string
	Choose     int // -1 prompts on stdin
	TagDir     string
	Move       bool
}

// parseArgs parses command-line arguments and loads configuration.
// Priority: CLI flags > config file > defaults
func parseArgs(args []string) (options, error) {
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			printUsage()
			os.Exit(0)
		}
		if arg == "--init-config" {
			return options{}, initConfigFile()
		}
	}

	opts := options{Choose: -1}

	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-c" {
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--config requires a path argument")
			}
			opts.ConfigPath = args[i+1]
			break
		}
	}

	cfg, err := config.LoadConfigFile(opts.ConfigPath)
	if err != nil {
		return options{}, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.FindConfigFile()
	}

	var disc []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--verbose", "-v":
			cfg.Debug = true

		case "--first-hit":
			cfg.FirstHit = true

		case "--choose":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--choose requires an index")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return options{}, fmt.Errorf("invalid choice index: %s", args[i])
			}
			opts.Choose = n

		case "--tag":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--tag requires a directory")
			}
			i++
			opts.TagDir = args[i]

		case "--move":
			opts.Move = true

		case "--output", "-o":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--output requires a directory")
			}
			i++
			cfg.OutputDir = config.ExpandHome(args[i])
			opts.Move = true

		case "--server", "-s":
			if i+1 >= len(args) {
				return options{}, fmt.Errorf("--server requires a URL")
			}
			i++
			cfg.ServerURL = args[i]

		case "--config", "-c":
			i++

		default:
			if len(arg) > 0 && arg[0] == '-' {
				return options{}, fmt.Errorf("unknown flag: %s", arg)
			}
			disc = append(disc, arg)
		}
	}

	if opts.Move && opts.TagDir == "" {
		return options{}, fmt.Errorf("--move and --output require --tag")
	}

	opts.Config = cfg
	opts.Disc = strings.Join(disc, " ")
	return opts, nil
}

// initConfigFile creates a new config file with default values
func initConfigFile() error {
	path := config.GetDefaultConfigPath()

	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file already exists at: %s\n", path)
		fmt.Println("Delete it first if you want to recreate it.")
		os.Exit(0)
	}

	if err := config.SaveConfigFile(config.DefaultConfig(), path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	fmt.Printf("Created default config file at: %s\n", path)
	fmt.Println("\nAvailable options:")
	fmt.Println("  server_url: freedb-compatible server (default: http://gnudb.gnudb.org)")
	fmt.Println("  cgi_path: CGI path on the server (default: /~cddb/cddb.cgi)")
	fmt.Println("  username, hostname: sent in the protocol greeting")
	fmt.Println("  first_hit: true/false (take the first of several matches)")
	fmt.Println("  debug: true/false (log every request and reply code)")

	os.Exit(0)
	return nil
}

// printUsage displays the help message
func printUsage() {
	fmt.Println("discmeta - Look up CD metadata on a freedb server")
	fmt.Println()
	fmt.Println("Usage: discmeta [options] <discid> <tracks> <offset>... <seconds>")
	fmt.Println()
	fmt.Println("The disc fingerprint is the output of cd-discid, e.g.")
	fmt.Println("  discmeta $(cd-discid /dev/cdrom)")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -v, --verbose              Log every request and reply")
	fmt.Println("      --first-hit            Take the first match when several are found")
	fmt.Println("      --choose <n>           Pick match n (0-based) instead of prompting")
	fmt.Println("      --tag <dir>            Write the record into the audio files in dir")
	fmt.Println("      --move                 Move tagged files into <output_dir>/Artist/Album")
	fmt.Println("  -o, --output <dir>         Output directory for --move (implies --move)")
	fmt.Println("  -s, --server <url>         freedb server URL")
	fmt.Println("  -c, --config <path>        Path to config file")
	fmt.Println("  -h, --help                 Show this help message")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("  --init-config              Create a default config file")
	fmt.Println()
	fmt.Println("Config file locations (checked in order):")
	fmt.Println("  ./discmeta.yaml")
	fmt.Println("  ~/.config/discmeta/config.yaml")
	fmt.Println("  ~/.discmeta.yaml")
}
