package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/brettbedarf/webedit"
	"github.com/brettbedarf/webedit/config"
	"github.com/brettbedarf/webedit/internal/metrics"
	"github.com/brettbedarf/webedit/internal/util"
	"github.com/brettbedarf/webedit/shell"
	"github.com/brettbedarf/webedit/workspace"
)

// app holds the global flags and the session they open.
type app struct {
	cfgFile  string
	verbose  int
	logLevel string
	dataDir  string
	backend  string
	key      string
	idStrat  string
	cfg      *config.Config
	shell    *shell.Shell
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "webedit",
		Short: "Manage a persisted code-editor workspace",
		Long: `webedit keeps a tree of text files and folders in a key-value store and
lets you create, edit, move, search and export them, or mount them read-only.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "Path to a .yaml, .yml or .json config file")
	flags.IntVarP(&a.verbose, "verbose", "v", config.InfoVerbose, "Log verbosity between 1 (error) and 5 (trace)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level by name (trace, debug, info, warn, error); wins over --verbose")
	flags.StringVar(&a.dataDir, "data-dir", config.DefaultDataDir, "Directory of the file storage backend")
	flags.StringVar(&a.backend, "backend", config.DefaultStorageBackend, `Storage backend: "file" or "memory"`)
	flags.StringVar(&a.key, "storage-key", config.DefaultStorageKey, "Key the workspace is stored under")
	flags.StringVar(&a.idStrat, "ids", config.DefaultIDStrategy, `Identifier strategy: "sequence" or "uuid"`)

	cmd.AddCommand(
		newVersionCommand(),
		newSchemaCommand(),
		newTouchCommand(a),
		newMkdirCommand(a),
		newLsCommand(a),
		newTreeCommand(a),
		newCatCommand(a),
		newWriteCommand(a),
		newSaveCommand(a),
		newMvCommand(a),
		newRenameCommand(a),
		newRmCommand(a),
		newSearchCommand(a),
		newStatsCommand(a),
		newExportCommand(a),
		newImportCommand(a),
		newClearCommand(a),
		newOpenCommand(a),
		newApplyCommand(a),
		newMountCommand(a),
	)
	return cmd
}

// setup builds the config from file and flags, initializes logging and
// opens the workspace.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg := config.NewDefaultConfig()
	if a.cfgFile != "" {
		var err error
		if cfg, err = config.NewConfigFromFile(a.cfgFile); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	override := &config.ConfigOverride{}
	if flags.Changed("verbose") {
		override.LogLvl = &a.verbose
	}
	if flags.Changed("data-dir") {
		override.DataDir = &a.dataDir
	}
	if flags.Changed("backend") {
		override.StorageBackend = &a.backend
	}
	if flags.Changed("storage-key") {
		override.StorageKey = &a.key
	}
	if flags.Changed("ids") {
		override.IDStrategy = &a.idStrat
	}
	cfg.Merge(override)
	if flags.Changed("log-level") {
		lvl, ok := util.ParseLogLevel(a.logLevel)
		if !ok {
			return fmt.Errorf("unknown log level: %q", a.logLevel)
		}
		cfg.LogLvl = lvl
	}

	util.InitializeLoggerTo(cmd.ErrOrStderr(), cfg.LogLvl)
	logger := util.GetLogger("main")

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.New(a.registry)
	sh, err := shell.New(cfg, shell.WithStoreOptions(workspace.WithPersistObserver(a.metrics.ObservePersist)))
	if err != nil {
		return err
	}
	a.metrics.Attach(sh.Store())
	a.cfg = cfg
	a.shell = sh
	logger.Debug().Str("backend", cfg.StorageBackend).Str("dataDir", cfg.DataDir).Msg("Workspace opened")
	return nil
}

func (a *app) teardown() {
	if a.shell != nil {
		a.shell.Close()
	}
}

func (a *app) store() *workspace.Store {
	return a.shell.Store()
}

// noSetup skips opening a workspace for commands that do not need one.
func noSetup(*cobra.Command, []string) error { return nil }

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print the version number",
		Args:              cobra.NoArgs,
		PersistentPreRunE: noSetup,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "webedit version %s\n", webedit.Version)
		},
	}
}
