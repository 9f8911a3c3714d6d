// Copyright © 2026 The jank authors

package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jank-lang/jank-sub005/compiler"
	"github.com/jank-lang/jank-sub005/repl"
	"github.com/samber/do"
	"github.com/spf13/cobra"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Analyze jank forms interactively",
	Long: `Start an interactive read-analyze-print loop for jank.

Each entry is read, analyzed and printed as the data the analyzer produced
for it. Nothing is evaluated, but definitions persist for the session so
later entries can refer to them. An entry spanning several lines is read
until its forms are complete. Use Ctrl-D to exit.

Example session:
  jank> (def x 1)
  {:kind :def, :position :return, ... :var user/x, ...}
  jank> (inc x)
  {:kind :call, :position :return, ...}
  jank> (recur)
  error[invalid recursion target]: ...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(i *do.Injector, s settings) error {
			d, err := do.Invoke[*compiler.Driver](i)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			prompt := filepath.Base(os.Args[0])
			if prompt == "jankc" {
				prompt = "jank"
			}
			return repl.Run(ctx, d, prompt+"> ",
				repl.WithNamespace(s.Namespace),
				repl.WithColor(s.colorMode()),
			)
		})
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
