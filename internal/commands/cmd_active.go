package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"todotree/internal/core/styles"
	"todotree/internal/core/todo"
	"todotree/pkg/iojson"
)

type ActiveCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewActiveCmd creates a new active command
func NewActiveCmd(flags *Flags) *ActiveCmd {
	return &ActiveCmd{flags: flags}
}

// Register adds the active command to the application
func (cmd *ActiveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "active",
		Usage:     "List tasks with in-progress work",
		UsageText: "todotree active [--json]",
		Description: `Prints every top-level task that is in progress or contains an in-progress
task anywhere beneath it. The file and line reference points at the task's
source text.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ActiveCmd) run(ctx context.Context, c *cli.Command) error {
	active := cmd.flags.Service.ActiveTasks(ctx)
	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, a := range active {
			if err := iojson.WriteLine(out, a); err != nil {
				return fmt.Errorf("encode active task: %w", err)
			}
		}
		return nil
	}

	if len(active) == 0 {
		fmt.Fprintf(os.Stderr, "%s\n", styles.Task(todo.Placeholder("no active tasks")))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "GROUP\tTASK\tLOCATION")

	for _, a := range active {
		location := fmt.Sprintf("%s:%d", a.Path, a.Item.SourceLine+1)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", a.Group, styles.Task(a.Item), styles.MutedStyle.Render(location))
	}

	return w.Flush()
}
