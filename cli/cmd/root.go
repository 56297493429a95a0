// Package cmd provides the Cobra commands for the absref CLI.
package cmd

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cliconfig "github.com/fluxbase-eu/absref/cli/config"
	"github.com/fluxbase-eu/absref/cli/output"
	"github.com/fluxbase-eu/absref/internal/resolver"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"

	// Global flags
	cfgFile   string
	outputFmt string
	noHeaders bool
	quiet     bool
	debug     bool

	// Shared across commands
	cfg       *cliconfig.Config
	formatter *output.Formatter
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "absref",
	Short: "absref - resolve absolute imports for JavaScript bundles",
	Long: `absref resolves absolute import paths ("/lib/module") against a project
root, rewriting them through an ordered prefix remap table, and bundles
release builds with esbuild using the same rules.

Get started:
  absref config init                 Write an absref.yaml skeleton
  absref resolve /libs/foo --from src/app.js
  absref bundle                      Build the release bundle`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Silence errors only when --quiet is used
		cmd.SilenceErrors = quiet
		setupLogging(cmd.ErrOrStderr())
	},
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is ./absref.yaml or ./build/absref.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format: table, json, yaml")
	rootCmd.PersistentFlags().BoolVar(&noHeaders, "no-headers", false,
		"hide table headers")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"minimal output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"trace every resolution step")

	// Bind environment variables
	viper.SetEnvPrefix("ABSREF")
	_ = viper.BindEnv("working_directory")       // ABSREF_WORKING_DIRECTORY
	_ = viper.BindEnv("relative_offset_to_root") // ABSREF_RELATIVE_OFFSET_TO_ROOT
	_ = viper.BindEnv("debug")                   // ABSREF_DEBUG

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(analyzeCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./build")
		viper.SetConfigName("absref")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// Only used to locate the file; remap order needs the yaml decoder in cliconfig
	_ = viper.ReadInConfig()
}

func setupLogging(w io.Writer) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
	if debug || viper.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// loadConfig reads the config file, the .env next to it and environment
// overrides, and prepares the formatter
func loadConfig(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = viper.ConfigFileUsed()
	}

	var err error
	cfg, err = cliconfig.LoadOrDefault(path)
	if err != nil {
		return err
	}

	if err := cliconfig.LoadEnvFile(cfg.Dir()); err != nil {
		return err
	}

	if wd := viper.GetString("working_directory"); wd != "" {
		cfg.WorkingDirectory = wd
	}
	if offset := viper.GetString("relative_offset_to_root"); offset != "" {
		cfg.RelativeOffsetToRoot = offset
	}
	// .env may have enabled debug
	setupLogging(cmd.ErrOrStderr())

	log.Debug().Str("config_dir", cfg.Dir()).Str("file", path).Msg("Configuration loaded")

	format, err := output.ParseFormat(outputFmt)
	if err != nil {
		return err
	}
	formatter = output.NewFormatter(format, noHeaders, quiet, cmd.OutOrStdout(), cmd.ErrOrStderr())

	return nil
}

// newResolver builds the resolver for the loaded configuration, tracing
// through the global logger
func newResolver() (*resolver.Resolver, error) {
	return cfg.NewResolver(resolver.WithTracer(resolver.NewLogTracer(log.Logger)))
}

// GetConfigPath returns the config file path
func GetConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return cliconfig.DefaultConfigName
}
