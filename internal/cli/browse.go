package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/pkg/pipeline"
	"github.com/prepdeck/prepdeck/pkg/render/markdown"
)

// browseCommand creates the browse command, an interactive roadmap viewer.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <course-file|name>",
		Short: "Browse a course roadmap interactively",
		Long: `Browse a course level by level in the terminal.

Open a module to see its prerequisites and topics. With an API key
configured, e explains the module or the highlighted topic.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context, arg string) error {
	b, err := c.open(ctx, openOpts{})
	if err != nil {
		return err
	}
	defer b.Close()

	crs, err := c.resolveCourse(ctx, b, arg)
	if err != nil {
		return err
	}
	l, err := b.runner.Layout(ctx, crs, pipeline.Options{Logger: c.Logger})
	if err != nil {
		return err
	}

	var explain explainFunc
	if b.service != nil {
		_, width := c.terminal()
		explain = func(ctx context.Context, id int, topic string) (string, error) {
			text, err := b.service.Explain(ctx, crs, id, topic)
			if err != nil {
				return "", err
			}
			return markdown.ToTerminal(text, width-4)
		}
	}

	p := tea.NewProgram(NewRoadmapModel(ctx, crs, l, explain), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
