package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/pkg/course"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
)

// coursesCommand creates the courses command for managing stored courses.
func (c *CLI) coursesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "List, show, import and delete stored courses",
	}

	cmd.AddCommand(c.coursesListCommand())
	cmd.AddCommand(c.coursesShowCommand())
	cmd.AddCommand(c.coursesImportCommand())
	cmd.AddCommand(c.coursesRemoveCommand())

	return cmd
}

func (c *CLI) coursesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored course keys",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := c.open(ctx, openOpts{noCache: true})
			if err != nil {
				return err
			}
			defer b.Close()

			keys, err := b.runner.Store.List(ctx)
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				c.printInfo("No stored courses")
				c.printNextStep("Generate one", appName+" generate <name>")
				return nil
			}
			for _, key := range keys {
				crs, err := b.runner.Store.Get(ctx, key)
				if err != nil {
					fmt.Fprintf(c.out, "%s  %s\n", StyleHighlight.Render(key), StyleDim.Render(errs.UserMessage(err)))
					continue
				}
				fmt.Fprintf(c.out, "%s  %s %s\n", StyleHighlight.Render(key), crs.Title, StyleDim.Render(plural(len(crs.Modules), "module")))
			}
			return nil
		},
	}
}

func (c *CLI) coursesShowCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Print a stored course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := course.Format(format)
			if f != course.FormatJSON && f != course.FormatYAML {
				return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (json or yaml)", format)
			}
			crs, err := c.storedCourse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			data, err := course.Marshal(crs, f)
			if err != nil {
				return err
			}
			_, err = c.out.Write(append(data, '\n'))
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(course.FormatYAML), "output format: yaml, json")
	return cmd
}

func (c *CLI) coursesImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Store a course file under the key of its title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			crs, err := course.ReadFile(args[0])
			if err != nil {
				return err
			}
			crs = course.Normalize(crs)
			key := course.StoreKey(crs.Title)
			if err := errs.ValidateCourseKey(key); err != nil {
				return err
			}

			b, err := c.open(ctx, openOpts{noCache: true})
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.runner.Store.Save(ctx, key, crs); err != nil {
				return err
			}
			c.printSuccess("Stored %s as %s", StyleHighlight.Render(crs.Title), key)
			return nil
		},
	}
}

func (c *CLI) coursesRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <key>",
		Aliases: []string{"delete"},
		Short:   "Delete a stored course",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := c.open(ctx, openOpts{noCache: true})
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.runner.Store.Delete(ctx, args[0]); err != nil {
				return err
			}
			c.printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// storedCourse loads a course by key, or by name when the argument is not
// already a key.
func (c *CLI) storedCourse(ctx context.Context, arg string) (course.Course, error) {
	b, err := c.open(ctx, openOpts{noCache: true})
	if err != nil {
		return course.Course{}, err
	}
	defer b.Close()

	crs, err := b.runner.Store.Get(ctx, course.StoreKey(arg))
	if err != nil {
		return course.Course{}, err
	}
	return course.Normalize(crs), nil
}
