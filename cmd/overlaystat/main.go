// Command overlaystat inspects and maintains overlay stat files.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	overlaystat "github.com/luhtfiimanal/go-overlaystat"
)

const usage = `usage: overlaystat [flags] <command> <stat-file> [args]

commands:
  dump        print every record as one JSON object per line
  get N       print frame N, or "absent"
  clear N     clear frame N
  info        print version, slot size and record count
  migrate     upgrade an older file in place, keeping a backup

flags:
`

func main() {
	if err := mainImpl(); err != nil {
		slog.Error("overlaystat", "err", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	configPath := flag.String("config", "", "YAML options file")
	source := flag.String("source", "", "source (base) image size, WxH")
	overlay := flag.String("overlay", "", "overlay image size, WxH")
	version := flag.Int("version", 0, "schema version (default: latest)")
	readOnly := flag.Bool("ro", false, "open read-only (e.g. a .bak file); requires -version")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	if *verbose {
		ll.Set(slog.LevelDebug)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) < 2 {
		flag.Usage()
		return errors.New("missing command or stat file")
	}
	cmd, path, rest := args[0], args[1], args[2:]

	opts := overlaystat.DefaultOptions()
	if *configPath != "" {
		var err error
		if opts, err = overlaystat.LoadOptions(*configPath); err != nil {
			return err
		}
	}
	if *source != "" {
		sz, err := overlaystat.ParseSize(*source)
		if err != nil {
			return err
		}
		opts.SourceSize = sz
	}
	if *overlay != "" {
		sz, err := overlaystat.ParseSize(*overlay)
		if err != nil {
			return err
		}
		opts.OverlaySize = sz
	}
	if *version != 0 {
		if *version < 0 || *version > 255 {
			return fmt.Errorf("invalid -version %d", *version)
		}
		opts.Version = byte(*version)
	}
	opts.Logger = logger

	var (
		s   *overlaystat.Store
		err error
	)
	if *readOnly {
		s, err = overlaystat.OpenReadOnly(path, opts)
	} else {
		s, err = overlaystat.OpenWithOptions(path, opts)
	}
	if err != nil {
		return err
	}
	err = run(os.Stdout, s, cmd, rest)
	return errors.Join(err, s.Close())
}

func run(w io.Writer, s *overlaystat.Store, cmd string, args []string) error {
	switch cmd {
	case "dump":
		enc := json.NewEncoder(w)
		for rec, err := range s.All() {
			if err != nil {
				return err
			}
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	case "get":
		frame, err := frameArg(args)
		if err != nil {
			return err
		}
		rec, ok, err := s.Get(frame)
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(w, "absent")
			return err
		}
		return json.NewEncoder(w).Encode(rec)
	case "clear":
		frame, err := frameArg(args)
		if err != nil {
			return err
		}
		if err := s.Clear(frame); err != nil {
			return err
		}
		slog.Info("cleared", "frame", frame)
		return nil
	case "info":
		recs, err := s.Records()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "version:   %d\nslot size: %d\nrecords:   %d\n", s.Version(), s.SlotSize(), len(recs))
		if len(recs) > 0 {
			fmt.Fprintf(w, "frames:    %d..%d\n", recs[0].FrameNumber, recs[len(recs)-1].FrameNumber)
		}
		return nil
	case "migrate":
		// Opening the store already upgraded the file if it was stale.
		old := s.MigratedFrom()
		if old == 0 {
			_, err := fmt.Fprintf(w, "already at version %d\n", s.Version())
			return err
		}
		_, err := fmt.Fprintf(w, "migrated v%d -> v%d, backup: %s\n", old, s.Version(), overlaystat.BackupPath(s.Path(), old))
		return err
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func frameArg(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected exactly one frame number")
	}
	frame, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid frame number %q: %w", args[0], err)
	}
	return frame, nil
}
