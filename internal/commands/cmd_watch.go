package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"todotree/internal/core/logging"
	"todotree/internal/core/todo"
	"todotree/internal/todotree"
)

type WatchCmd struct {
	flags *Flags
}

// NewWatchCmd creates a new watch command
func NewWatchCmd(flags *Flags) *WatchCmd {
	return &WatchCmd{flags: flags}
}

// Register adds the watch command to the application
func (cmd *WatchCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "watch",
		Usage:     "Watch the search roots and refresh on changes",
		UsageText: "todotree watch",
		Description: `Watches the search roots for todo file changes. Bursts of events are
debounced into a single refresh; each completed refresh logs group, file,
and active-task counts. Runs until interrupted.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *WatchCmd) run(ctx context.Context, c *cli.Command) error {
	log := logging.Component("watch")

	watcher, err := todotree.NewWatcher(cmd.flags.Service, log)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	unsub := cmd.flags.Service.OnRefreshed(func(groups []todo.Group) {
		files, tasks := 0, 0
		for _, g := range groups {
			files += len(g.Files)
			for _, f := range g.Files {
				for _, it := range f.Items {
					it.Walk(func(*todo.Item) { tasks++ })
				}
			}
		}
		log.Info().
			Int("groups", len(groups)).
			Int("files", files).
			Int("tasks", tasks).
			Int("active", len(todo.ActiveTasks(groups))).
			Msg("refreshed")
	})
	defer unsub()

	// Prime the snapshot so the first change logs a delta against reality.
	cmd.flags.Service.Refresh(ctx)

	return watcher.Run(ctx)
}
