package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/pipeline"
)

// explainCommand creates the explain command, which prints the model's
// explanation of a module or of one of its topics.
func (c *CLI) explainCommand() *cobra.Command {
	var (
		topic string
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "explain <course-file|name> [module-id]",
		Short: "Explain a module or topic of a course",
		Example: `  prepdeck explain golang 3
  prepdeck explain golang.json 3 --topic "Goroutines"
  prepdeck explain golang --all`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if all {
				if len(args) != 1 || topic != "" {
					return errs.New(errs.ErrCodeInvalidInput, "--all takes only a course")
				}
				return c.runExplainAll(ctx, args[0])
			}
			if len(args) != 2 {
				return errs.New(errs.ErrCodeInvalidInput, "module id is required")
			}
			id, err := strconv.Atoi(args[1])
			if err != nil || id <= 0 {
				return errs.New(errs.ErrCodeInvalidInput, "invalid module id %q", args[1])
			}
			return c.runExplain(ctx, args[0], id, topic)
		},
	}

	cmd.Flags().StringVarP(&topic, "topic", "t", "", "explain one topic of the module")
	cmd.Flags().BoolVar(&all, "all", false, "fetch and cache explanations of every module")

	return cmd
}

// resolveCourse loads a course file or a stored (or generated) course.
func (c *CLI) resolveCourse(ctx context.Context, b *backends, arg string) (course.Course, error) {
	opts := pipeline.Options{Logger: c.Logger}
	if isCourseFile(arg) {
		opts.File = arg
	} else {
		opts.Course = arg
	}
	crs, _, _, err := b.runner.Resolve(ctx, opts)
	return crs, err
}

func (c *CLI) runExplain(ctx context.Context, arg string, id int, topic string) error {
	b, err := c.open(ctx, openOpts{needGenerator: true})
	if err != nil {
		return err
	}
	defer b.Close()

	crs, err := c.resolveCourse(ctx, b, arg)
	if err != nil {
		return err
	}
	m, ok := crs.Module(id)
	if !ok {
		return errs.New(errs.ErrCodeModuleNotFound, "module %d not found in %q", id, crs.Title)
	}

	subject := m.Title
	if topic != "" {
		subject = fmt.Sprintf("%s: %s", m.Title, topic)
	}

	var text string
	err = c.spin(ctx, fmt.Sprintf("Explaining %s...", subject), func() error {
		var err error
		text, err = b.service.Explain(ctx, crs, id, topic)
		return err
	})
	if err != nil {
		return err
	}

	out, err := c.renderMarkdown(text)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, StyleTitle.Render(subject))
	if prereqs := m.PrerequisiteTitles(crs); len(prereqs) > 0 {
		c.printDetail("after %s", strings.Join(prereqs, ", "))
	}
	fmt.Fprint(c.out, out)
	return nil
}

func (c *CLI) runExplainAll(ctx context.Context, arg string) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	b, err := c.open(ctx, openOpts{needGenerator: true})
	if err != nil {
		return err
	}
	defer b.Close()

	crs, err := c.resolveCourse(ctx, b, arg)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	var texts map[int]string
	err = c.spin(ctx, fmt.Sprintf("Explaining %s...", plural(len(crs.Modules), "module")), func() error {
		var err error
		texts, err = b.service.ExplainAll(ctx, crs, cfg.Generator.Prefetch)
		return err
	})
	if err != nil {
		return err
	}
	c.printSuccess("Cached %s for %s", plural(len(texts), "explanation"), StyleHighlight.Render(crs.Title))
	prog.done("Prefetched explanations")
	return nil
}
