// Copyright © 2026 The jank authors

package cmd

import (
	"fmt"

	"github.com/jank-lang/jank-sub005/interop"
	"github.com/jank-lang/jank-sub005/lsp"
	"github.com/samber/do"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command.
func LSPCommand() *cobra.Command {
	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the jank Language Server Protocol server",
		Long: `Start an LSP server for jank source files.

The language server analyzes every open document and publishes its
analysis errors as diagnostics. It also provides hover documentation,
go-to-definition, find references, completion, document symbols and
folding ranges. C++ types declared in the --catalog file are visible to
cpp/ symbols, hover and completion.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  jankc lsp                           Start with stdio transport
  jankc lsp --stdio                   Same as above (explicit)
  jankc lsp --port 7998               Start with TCP on port 7998
  jankc lsp --catalog std.toml        Resolve cpp/ symbols against a catalog

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "jankc lsp --stdio" for .jank files.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withServices(func(i *do.Injector, _ settings) error {
				resolver, err := do.Invoke[*interop.Resolver](i)
				if err != nil {
					return fmt.Errorf("catalog: %w", err)
				}
				log, err := do.Invoke[*logrus.Entry](i)
				if err != nil {
					return err
				}
				tr, err := do.Invoke[*tracing](i)
				if err != nil {
					return err
				}
				srv := lsp.New(
					lsp.WithResolver(resolver),
					lsp.WithLogger(log.WithField("component", "lsp")),
					lsp.WithAnnotator(tr.annotator),
				)
				if !stdio && port > 0 {
					addr := fmt.Sprintf("localhost:%d", port)
					log.WithField("addr", addr).Info("jank LSP server listening")
					if err := srv.RunTCP(addr); err != nil {
						return fmt.Errorf("lsp server error: %w", err)
					}
					return nil
				}
				if err := srv.RunStdio(); err != nil {
					return fmt.Errorf("lsp server error: %w", err)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
