package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/communitydesk/activityhub/internal/client"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type cliOptions struct {
	server   string
	cacheDir string
	verbose  bool
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	v := viper.New()
	v.SetEnvPrefix("ACTIVITYHUB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetDefault("server", "http://localhost:3000")
	v.SetDefault("cache-dir", defaultCacheDir())

	root := &cobra.Command{
		Use:   "activityctl",
		Short: "Manage community activities against an ActivityHub server",
		Long: `activityctl keeps a local working set of activities (workshops, mentoring
sessions, networking events), synchronized with an ActivityHub server and
persisted to a local cache for offline reads. Mutations are confirmed by the
server before they are applied locally; undo steps the working set back one
recorded change at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.server, "server", v.GetString("server"), "base URL of the ActivityHub server")
	root.PersistentFlags().StringVar(&opts.cacheDir, "cache-dir", v.GetString("cache-dir"), "directory for the offline activity cache")
	root.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(
		newAddCommand(opts),
		newUpdateCommand(opts),
		newDeleteCommand(opts),
		newCompleteCommand(opts),
		newCancelCommand(opts),
		newUndoCommand(opts),
		newListCommand(opts),
		newPullCommand(opts),
		newPushCommand(opts),
		newStatsCommand(opts),
		newMentorsCommand(opts),
		newDashboardCommand(opts),
	)

	return root
}

func (o *cliOptions) session() *client.Session {
	level := zerolog.WarnLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	return client.NewSession(client.SessionConfig{
		BaseURL:  o.server,
		CacheDir: o.cacheDir,
		Logger:   logger,
	})
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".activityhub"
	}
	return filepath.Join(home, ".activityhub")
}
