// Package commands implements the CLI commands for charrefs.
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jmylchreest/charrefs/internal/config"
	"github.com/jmylchreest/charrefs/internal/logger"
	"github.com/jmylchreest/charrefs/internal/output"
	"github.com/jmylchreest/charrefs/internal/pipeline"
	"github.com/jmylchreest/charrefs/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "charrefs [flags] <input_file>",
	Short: "Turn the HTML named character references table into snippet triggers",
	Long: `Charrefs reads an HTML document containing the named character
references table (the element with id="named-character-references-table"),
extracts every entity name and glyph, and writes them as an espanso match
file or a JSON object.

Legacy names without a trailing semicolon are skipped. Diagnostics go to
stderr, so stdout can be redirected safely.

Examples:
  # Espanso matches with the default ":" trigger prefix
  charrefs named-characters.html -o html-entities.yml

  # Plain JSON, no prefix
  charrefs named-characters.html -f json -p ""

  # Only glyphs made entirely of printable characters
  charrefs named-characters.html -i printable

  # Fetch the table directly
  charrefs https://html.spec.whatwg.org/multipage/named-characters.html`,
	Args:          cobra.ExactArgs(1),
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.charrefs.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().Bool("log-json", false, "log as JSON")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file (rotated)")

	flags := rootCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.StringP("prefix", "p", config.DefaultPrefix, "prefix for entity names")
	flags.StringP("format", "f", string(config.DefaultFormat), "output format: "+output.FormatList())
	flags.StringP("filter", "i", "", "keep only printable or unprintable glyphs")
	flags.String("max-input-size", "0", "max input size (e.g., 5MB, 0=unlimited)")
	flags.Duration("timeout", config.DefaultTimeout, "fetch timeout for URL inputs")
	flags.String("user-agent", "", "User-Agent header for URL inputs")

	rootCmd.SetVersionTemplate(version.Full() + "\n")

	bindFlags(viper.GetViper(), rootCmd)
}

// bindFlags registers defaults and maps flags onto config keys.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	config.SetDefaults(v)

	persistent := cmd.PersistentFlags()
	flags := cmd.Flags()

	bindings := map[string]*pflag.Flag{
		"config":               persistent.Lookup("config"),
		config.KeyDebug:        persistent.Lookup("debug"),
		config.KeyQuiet:        persistent.Lookup("quiet"),
		config.KeyLogJSON:      persistent.Lookup("log-json"),
		config.KeyLogFile:      persistent.Lookup("log-file"),
		config.KeyOutput:       flags.Lookup("output"),
		config.KeyPrefix:       flags.Lookup("prefix"),
		config.KeyFormat:       flags.Lookup("format"),
		config.KeyFilter:       flags.Lookup("filter"),
		config.KeyMaxInputSize: flags.Lookup("max-input-size"),
		config.KeyTimeout:      flags.Lookup("timeout"),
		config.KeyUserAgent:    flags.Lookup("user-agent"),
	}
	for key, flag := range bindings {
		_ = v.BindPFlag(key, flag)
	}
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".charrefs")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. CHARREFS_PREFIX
	viper.SetEnvPrefix("CHARREFS")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		logger.Error(err.Error())
	}
	return err
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug:  viper.GetBool(config.KeyDebug),
		Quiet:  viper.GetBool(config.KeyQuiet),
		JSON:   viper.GetBool(config.KeyLogJSON),
		File:   viper.GetString(config.KeyLogFile),
		Output: cmd.ErrOrStderr(),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(viper.GetViper(), args[0])
	if err != nil {
		return err
	}
	logger.Debug("configuration resolved",
		"input", cfg.Input,
		"output", cfg.Output,
		"format", cfg.Format,
		"filter", cfg.Filter,
		"prefix", cfg.Prefix,
		"config_file", viper.ConfigFileUsed())

	start := time.Now()
	res, err := pipeline.Run(ctx, cfg, logger.Default())
	if err != nil {
		return err
	}
	logger.Debug("conversion complete",
		"entities", res.Emitted,
		"duration", time.Since(start))

	return pipeline.Deliver(cfg, res.Document, cmd.OutOrStdout(), logger.Default())
}
