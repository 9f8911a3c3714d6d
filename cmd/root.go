// Copyright © 2026 The jank authors

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jankc",
	Short: "Semantic analyzer for jank source code",
	Long: `jankc reads jank source code, resolves every symbol and special form and
reports the analysis errors it finds. It is the front half of the jank
compiler: the analyzed tree is what code generation consumes.

Getting started:
  jankc analyze core.jank          Analyze a source file
  jankc analyze ./src/...          Analyze every .jank file under src
  jankc analyze -e '(inc 1)'       Analyze an expression
  jankc analyze --print x.jank     Print the analyzed tree as data
  jankc repl                       Analyze forms interactively
  jankc specials                   List the special forms
  jankc guide                      Print the language reference
  jankc lsp                        Start the language server

C++ interop:
  Symbols in the cpp namespace name C++ types and scopes, e.g.
  cpp/std.string is the type std::string. The types and scopes that exist
  are declared in a TOML catalog passed with --catalog:

    [[scope]]
    name = "std"

    [[type]]
    name = "std::string"
    size = 32
    fields = ["data", "size"]

Configuration:
  Every persistent flag may also be set in $HOME/.jankc.yaml or through
  the environment with a JANKC_ prefix, e.g. JANKC_LOG_LEVEL=debug.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exit *exitError
		if !errors.As(err, &exit) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.jankc.yaml)")
	pf.String("color", "auto", `Control colored output: "auto", "always", or "never".`)
	pf.String("log-level", "warn", "Log level: trace, debug, info, warn or error.")
	pf.String("catalog", "", "TOML file declaring the C++ scopes and types visible to cpp/ symbols.")
	pf.String("ns", compiler.DefaultNamespace, "Namespace that sources are analyzed in.")
	pf.StringSlice("passes", nil, "Rewrite passes to run after analysis, in order (see jankc passes).")
	pf.Bool("trace", false, "Log a tracing span for every unit, form and pass at debug level.")
	pf.String("trace-backend", traceOpenTelemetry, `Tracing library used by --trace: "otel" or "opencensus".`)
	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".jankc" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".jankc")
	}

	viper.SetEnvPrefix("JANKC")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// A missing default config file is fine.  A broken one, or a missing
	// file named on the command line, is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
	}
}

// exitError reports a failure that the command has already described to
// the user, so Execute only sets the exit status.
type exitError struct {
	msg string
}

func (e *exitError) Error() string {
	return e.msg
}
