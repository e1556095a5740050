package cli

import (
	"github.com/spf13/cobra"

	"github.com/prepdeck/prepdeck/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "Prepdeck lays out learning roadmaps and prepares you for interviews",
		Long:          `Prepdeck generates courses as prerequisite graphs, lays them out as left-to-right roadmaps, explains their modules, and generates and grades interview questions.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/prepdeck/config.toml)")

	root.AddCommand(c.roadmapCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.coursesCommand())
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.categoriesCommand())
	root.AddCommand(c.questionsCommand())
	root.AddCommand(c.evaluateCommand())
	root.AddCommand(c.practiceCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
