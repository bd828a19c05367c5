// kanban prints the board to the terminal. It keeps its display modes in a
// local YAML file, so a mode chosen once with --grouping or --sort sticks
// for later runs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/lorrc/kanban-board/internal/adapters/primary/terminal"
	"github.com/lorrc/kanban-board/internal/adapters/secondary/filestore"
	"github.com/lorrc/kanban-board/internal/adapters/secondary/quicksell"
	"github.com/lorrc/kanban-board/internal/core/domain"
	"github.com/lorrc/kanban-board/internal/core/ports"
	"github.com/lorrc/kanban-board/internal/core/services"
	"github.com/lorrc/kanban-board/internal/infrastructure/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		grouping  string
		sortOpt   string
		prefsPath string
		url       string
		timeout   time.Duration
		width     int
		logLevel  string
	)

	defaultURL := os.Getenv("UPSTREAM_URL")
	if defaultURL == "" {
		defaultURL = quicksell.DefaultURL
	}

	flagSet := pflag.NewFlagSet("kanban", pflag.ContinueOnError)
	flagSet.StringVarP(&grouping, "grouping", "g", "", "group columns by status, user or priority (saved)")
	flagSet.StringVarP(&sortOpt, "sort", "s", "", "order cards by priority or title (saved)")
	flagSet.StringVar(&prefsPath, "prefs", "board-preferences.yaml", "path to the preference file")
	flagSet.StringVar(&url, "url", defaultURL, "ticket source URL")
	flagSet.DurationVar(&timeout, "timeout", 10*time.Second, "upstream request timeout")
	flagSet.IntVarP(&width, "width", "w", 32, "column width in cells")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level for diagnostics on stderr")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	logger := logging.NewLogger(logging.Config{
		Level:       logLevel,
		Format:      "text",
		Output:      os.Stderr,
		ServiceName: "kanban",
		Environment: "cli",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := filestore.Open(prefsPath)
	if err != nil {
		return fmt.Errorf("open preferences %s: %w", prefsPath, err)
	}

	source := quicksell.NewClient(quicksell.Config{URL: url, Timeout: timeout}, logger)
	svc := services.NewBoardService(source, store, nil, services.BoardServiceConfig{
		Defaults:  domain.DefaultPreferences(),
		CacheSize: 4,
	}, logger)

	update := ports.UpdatePreferencesParams{Scope: ports.DefaultScope}
	if flagSet.Changed("grouping") {
		mode := domain.GroupMode(grouping)
		if !mode.IsValid() {
			return fmt.Errorf("unknown grouping %q: want status, user or priority", grouping)
		}
		update.Grouping = &mode
	}
	if flagSet.Changed("sort") {
		mode := domain.SortMode(sortOpt)
		if !mode.IsValid() {
			return fmt.Errorf("unknown sort %q: want priority or title", sortOpt)
		}
		update.SortOption = &mode
	}
	if update.Grouping != nil || update.SortOption != nil {
		if _, err := svc.UpdatePreferences(ctx, update); err != nil {
			return fmt.Errorf("save preferences: %w", err)
		}
	}

	return showBoard(ctx, svc, terminal.NewRenderer(os.Stdout, width), os.Stdout, logger)
}

// showBoard fetches and prints the board. A failed fetch leaves the empty
// snapshot in place, so the board prints with no tickets.
func showBoard(ctx context.Context, svc ports.BoardService, r *terminal.Renderer, out io.Writer, logger *slog.Logger) error {
	if _, err := svc.Refresh(ctx); err != nil {
		logger.WarnContext(ctx, "board fetch failed, showing an empty board", "error", err)
	}

	b, err := svc.GetBoard(ctx, ports.GetBoardParams{Scope: ports.DefaultScope})
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(out, r.Render(b))
	return err
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `kanban - print the ticket board as columns.

Usage:
  kanban [flags]

Display modes passed with --grouping or --sort are written to the
preference file and reused on the next run.

Flags:
%s`, flagSet.FlagUsages())
}
