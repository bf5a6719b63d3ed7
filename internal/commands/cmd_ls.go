package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"todotree/internal/core/styles"
	"todotree/internal/core/todo"
	"todotree/pkg/iojson"
)

type LsCmd struct {
	flags *Flags

	// flags
	jsonOutput bool
}

// NewLsCmd creates a new ls command
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List all todo files grouped by project",
		UsageText: "todotree ls [--json]",
		Description: `Walks the configured search roots (or the whole workspace when none are
configured), parses every todo file, and prints the grouped task trees.

Use --json for machine-readable output.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output groups as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.Run,
	})

	return app
}

func (cmd *LsCmd) Run(ctx context.Context, c *cli.Command) error {
	groups := cmd.flags.Service.Groups(ctx)

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, os.Stderr, groups)
	}

	if len(groups) == 0 {
		fmt.Fprintf(os.Stderr, "No todo files found\n")
		return nil
	}

	out := c.Root().Writer
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, styles.GroupStyle.Render(g.Name))

		for _, f := range g.Files {
			fmt.Fprintf(out, "  %s\n", styles.FileStyle.Render(f.Name))
			if len(f.Items) == 0 {
				fmt.Fprintf(out, "    %s\n", styles.Task(todo.Placeholder("(empty)")))
				continue
			}
			printItems(out, f.Items, 2)
		}
	}

	return nil
}

func printItems(out io.Writer, items []*todo.Item, depth int) {
	for _, it := range items {
		fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", depth), styles.Task(it))
		printItems(out, it.Children, depth+1)
	}
}
