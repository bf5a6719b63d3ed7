package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/urfave/cli/v3"

	"todotree/internal/core/todo"
)

type SetCmd struct {
	flags *Flags
}

// NewSetCmd creates a new set command
func NewSetCmd(flags *Flags) *SetCmd {
	return &SetCmd{flags: flags}
}

// Register adds the set command to the application
func (cmd *SetCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "set",
		Usage:     "Set the status of one task line in place",
		UsageText: "todotree set <file> <line> <not-started|in-progress|done>",
		Description: `Rewrites the status glyph of the given 1-based line. Indentation, label
text, and every other line are preserved byte-for-byte.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *SetCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("expected <file> <line> <status>, got %d arguments", c.Args().Len())
	}

	path, err := filepath.Abs(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	line, err := strconv.Atoi(c.Args().Get(1))
	if err != nil || line < 1 {
		return fmt.Errorf("line must be a positive number, got %q", c.Args().Get(1))
	}

	status, ok := todo.ParseStatus(c.Args().Get(2))
	if !ok {
		return fmt.Errorf("unknown status %q (want not-started, in-progress, or done)", c.Args().Get(2))
	}

	if err := todo.SetStatus(path, line-1, status); err != nil {
		return err
	}

	// The file changed under the cache's feet; drop its entries.
	cmd.flags.Service.Invalidate(path)

	fmt.Fprintf(c.Root().Writer, "%s:%d set to %s\n", path, line, status)
	return nil
}
