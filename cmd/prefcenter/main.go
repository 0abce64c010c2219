package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/five82/prefcenter/internal/app"
)

const usage = `usage: prefcenter [flags] <command> [args]

commands:
  tree                      show the preference tree with current values
  get <name>                show one preference (access name or id)
  set <name> <text>         set a text preference
  switch <name> on|off      toggle a preference switch
  select <name> <key>       choose a radio entry
  progress <name> <n>       move a seek bar
  mute <name>               toggle mute on a seek bar
  logs [-n N]               print retained log entries
  post <text>               add a log entry
  clear-logs                delete all log entries
  follow                    print log entries as they arrive

flags:
`

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	configPath := flag.String("config", "", "override config path (optional)")
	pollSeconds := flag.Int("poll", 0, "follow interval in seconds (optional, defaults to 2s)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath}
	if poll := *pollSeconds; poll > 0 {
		opts.FollowTick = time.Duration(poll) * time.Second
	}

	if err := app.Run(ctx, opts, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "prefcenter: %v\n", err)
		if errors.Is(err, app.ErrUsage) {
			flag.Usage()
			return 2
		}
		return 1
	}
	return 0
}
