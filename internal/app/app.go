package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/five82/prefcenter/internal/config"
	"github.com/five82/prefcenter/internal/kvstore"
	"github.com/five82/prefcenter/internal/logstore"
	"github.com/five82/prefcenter/internal/preference"
	"github.com/five82/prefcenter/internal/resource"
	"github.com/five82/prefcenter/internal/state"
)

// ErrUsage is returned for unknown commands and bad arguments.
var ErrUsage = errors.New("usage")

// Options configure a prefcenter run.
type Options struct {
	ConfigPath string
	Stdout     io.Writer
	Stderr     io.Writer
	FollowTick time.Duration // zero uses default
}

// App holds the opened collaborators for one command.
type App struct {
	cfg    config.Config
	out    io.Writer
	logger *slog.Logger
	logs   *logstore.Store

	manager *preference.Manager
	closer  io.Closer
}

// Run executes one command and returns when it finishes or ctx is cancelled.
func Run(ctx context.Context, opts Options, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(opts.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	logs, err := logstore.Open(cfg.LogDir,
		logstore.WithMaxEntries(cfg.MaxLogs),
		logstore.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("open log store: %w", err)
	}

	a := &App{cfg: cfg, out: opts.Stdout, logger: logger, logs: logs}
	defer a.close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "logs":
		return a.cmdLogs(rest)
	case "post":
		return a.cmdPost(rest)
	case "clear-logs":
		return a.logs.Clear()
	case "follow":
		return a.cmdFollow(ctx, opts.FollowTick)
	}

	if err := a.openPreferences(ctx); err != nil {
		a.record(err)
		return err
	}
	err = a.dispatch(ctx, cmd, rest)
	if err != nil && !errors.Is(err, ErrUsage) {
		a.record(err)
	}
	return err
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "tree":
		return a.cmdTree()
	case "get":
		return a.withNode(args, 1, func(n *preference.Node, _ []string) error {
			a.printNode(n)
			return nil
		})
	case "set":
		return a.withNode(args, 2, func(n *preference.Node, rest []string) error {
			return a.manager.SetText(ctx, n, rest[0])
		})
	case "switch":
		return a.withNode(args, 2, func(n *preference.Node, rest []string) error {
			on, err := parseOnOff(rest[0])
			if err != nil {
				return err
			}
			return a.manager.SetSwitch(ctx, n, on)
		})
	case "select":
		return a.withNode(args, 2, func(n *preference.Node, rest []string) error {
			return a.selectRadio(ctx, n, rest[0])
		})
	case "progress":
		return a.withNode(args, 2, func(n *preference.Node, rest []string) error {
			v, err := strconv.Atoi(rest[0])
			if err != nil {
				return fmt.Errorf("%w: progress %q is not a number", ErrUsage, rest[0])
			}
			return a.manager.SetProgress(ctx, n, v)
		})
	case "mute":
		return a.withNode(args, 1, func(n *preference.Node, _ []string) error {
			return a.manager.ToggleMute(ctx, n)
		})
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

// openPreferences parses the markup, opens the store for its namespace and
// loads every node.
func (a *App) openPreferences(ctx context.Context) error {
	res, err := loadResources(a.cfg.Resources, filepath.Dir(a.cfg.Markup))
	if err != nil {
		return err
	}

	markup, err := os.Open(a.cfg.Markup)
	if err != nil {
		return fmt.Errorf("open markup: %w", err)
	}
	defer markup.Close()

	tree, err := preference.Parser{Resources: res, Logger: a.logger}.Parse(markup)
	if err != nil {
		return fmt.Errorf("parse %s: %w", a.cfg.Markup, err)
	}

	store, err := kvstore.Open(ctx, kvstore.Options{
		Backend:  kvstore.Backend(a.cfg.StoreBackend),
		Dir:      a.cfg.StoreDir,
		RedisURL: a.cfg.RedisURL,
	}, tree.Name())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	if c, ok := store.(io.Closer); ok {
		a.closer = c
	}

	a.manager = preference.New(tree, store,
		preference.WithLogger(a.logger),
		preference.WithNotifier(func(msg string) { fmt.Fprintln(a.out, msg) }))
	if err := a.manager.LoadAll(ctx); err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	return nil
}

// loadResources reads the resource table when the file exists. XML resources
// resolve relative to the table, or to markupDir without one.
func loadResources(path, markupDir string) (*resource.Table, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return resource.Empty().WithFS(os.DirFS(markupDir)), nil
	}
	res, err := resource.Load(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load resources: %w", err)
	}
	return res, nil
}

func (a *App) close() {
	if a.closer != nil {
		_ = a.closer.Close()
	}
}

// record keeps a failed command in the log store for later inspection.
func (a *App) record(err error) {
	if _, perr := a.logs.PostError(err); perr != nil {
		a.logger.Warn("could not record error", "error", perr)
	}
}

func (a *App) withNode(args []string, want int, fn func(n *preference.Node, rest []string) error) error {
	if len(args) < want {
		return fmt.Errorf("%w: expected %d argument(s)", ErrUsage, want)
	}
	n, err := a.lookup(args[0])
	if err != nil {
		return err
	}
	rest := args[1:]
	if want > 1 {
		rest = []string{strings.Join(args[1:], " ")}
	}
	return fn(n, rest)
}

// lookup accepts an access name or a numeric id.
func (a *App) lookup(name string) (*preference.Node, error) {
	tree := a.manager.Tree()
	if n, ok := tree.ByAccessName(name); ok {
		return n, nil
	}
	if id, err := strconv.Atoi(name); err == nil {
		if n, ok := a.manager.ByID(id); ok {
			return n, nil
		}
	}
	return nil, fmt.Errorf("%w: no preference named %q", ErrUsage, name)
}

func (a *App) selectRadio(ctx context.Context, n *preference.Node, key string) error {
	info, ok := n.Radio().Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %s has no entry %q", ErrUsage, n.AccessName(), key)
	}
	sel := preference.RestoreSelection(n, nil)
	changed, err := a.manager.SelectRadio(ctx, n, sel, info.Index)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintf(a.out, "%s already set to %s\n", n.AccessName(), info.Title)
	}
	return nil
}

func (a *App) cmdLogs(args []string) error {
	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Int("n", 0, "show only the newest n entries")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	entries, err := a.logs.Tail(*limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		a.printEntry(e)
	}
	return nil
}

func (a *App) cmdPost(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: post needs a message", ErrUsage)
	}
	a.logs.SetListener(func(index int) {
		fmt.Fprintf(a.out, "posted entry %d\n", index)
	})
	defer a.logs.SetListener(nil)
	_, err := a.logs.Post(strings.Join(args, " "))
	return err
}

func (a *App) cmdFollow(ctx context.Context, tick time.Duration) error {
	return Follow(ctx, a.logs, &state.Store{}, tick, func(entries []logstore.Entry) {
		for _, e := range entries {
			a.printEntry(e)
		}
	})
}
