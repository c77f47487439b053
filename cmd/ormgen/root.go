package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/ormgen/compiler/load"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// globals holds the persistent flags.
type globals struct {
	envFiles []string
	debug    bool
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	g := &globals{logger: slog.Default()}
	root := &cobra.Command{
		Use:           "ormgen",
		Short:         "Generate model files from database metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if g.debug {
				level = slog.LevelDebug
			}
			g.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return load.LoadEnv(g.envFiles...)
		},
	}
	root.PersistentFlags().StringSliceVar(&g.envFiles, "env-file", nil, "load environment variables from these files")
	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "log at debug level, including every metadata query")
	root.AddCommand(
		newGenerateCmd(g),
		newInspectCmd(g),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ormgen", version)
		},
	}
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
