package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/pkg/course"
	"github.com/prepdeck/prepdeck/pkg/pipeline"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	refresh bool   // regenerate even when stored
	output  string // also write the course to this file
}

// generateCommand creates the generate command, which asks the model for a
// course and saves it to the store.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate <name>",
		Short: "Generate a course with the model and store it",
		Example: `  prepdeck generate "Machine Learning"
  prepdeck generate golang --refresh -o golang.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "regenerate even when the course is stored")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "also write the course to a .json or .yaml file")

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, name string, o generateOpts) error {
	opts := pipeline.Options{Course: name, Refresh: o.refresh, Logger: c.Logger}
	if err := opts.ValidateForResolve(); err != nil {
		return err
	}

	b, err := c.open(ctx, openOpts{needGenerator: true})
	if err != nil {
		return err
	}
	defer b.Close()

	var (
		crs    course.Course
		key    string
		source string
	)
	err = c.spin(ctx, fmt.Sprintf("Generating %s...", name), func() error {
		var err error
		crs, key, source, err = b.runner.Resolve(ctx, opts)
		return err
	})
	if err != nil {
		return err
	}

	if source == pipeline.SourceStore {
		c.printInfo("%s is already stored as %s", StyleHighlight.Render(crs.Title), key)
	} else {
		c.printSuccess("Generated %s", StyleHighlight.Render(crs.Title))
	}
	c.printDetail("%s · key %s", plural(len(crs.Modules), "module"), key)

	if o.output != "" {
		data, err := course.Marshal(crs, course.FormatFromPath(o.output))
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.output, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", o.output, err)
		}
		c.printFile(o.output)
	}

	c.printNewline()
	c.printNextStep("Lay it out", fmt.Sprintf("%s roadmap %s", appName, key))
	return nil
}
