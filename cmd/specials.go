// Copyright © 2026 The jank authors

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jank-lang/jank-sub005/analyze"
	"github.com/jank-lang/jank-sub005/analyze/pass"
	"github.com/jank-lang/jank-sub005/docs"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

const docWidth = 72

// SpecialsCommand creates the "specials" cobra command.
func SpecialsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "specials [name...]",
		Short: "Show documentation for the special forms",
		Long: `Show the syntax and documentation of the special forms the analyzer
recognizes. With no arguments every special form is listed. Aliases such
as let and fn are accepted in place of their starred names.

Examples:
  jankc specials              List every special form
  jankc specials let try      Show let* and try`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderSpecials(cmd.OutOrStdout(), args)
		},
	}
}

// PassesCommand creates the "passes" cobra command.
func PassesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "passes",
		Short: "List the rewrite passes that --passes accepts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderPasses(cmd.OutOrStdout())
		},
	}
}

// GuideCommand creates the "guide" cobra command.
func GuideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Print the jank language reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), docs.LangGuide)
			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(SpecialsCommand())
	rootCmd.AddCommand(PassesCommand())
	rootCmd.AddCommand(GuideCommand())
}

func renderSpecials(w io.Writer, names []string) error {
	all := analyze.SpecialForms()
	selected := all
	if len(names) > 0 {
		selected = nil
		for _, name := range names {
			sf, ok := findSpecial(all, name)
			if !ok {
				return fmt.Errorf("%s is not a special form", name)
			}
			selected = append(selected, sf)
		}
	}
	for i, sf := range selected {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := renderSpecial(w, sf); err != nil {
			return err
		}
	}
	return nil
}

func findSpecial(all []analyze.SpecialForm, name string) (analyze.SpecialForm, bool) {
	for _, sf := range all {
		if sf.Name == name {
			return sf, true
		}
		for _, alias := range sf.Aliases {
			if alias == name {
				return sf, true
			}
		}
	}
	return analyze.SpecialForm{}, false
}

func renderSpecial(w io.Writer, sf analyze.SpecialForm) error {
	header := "special form " + sf.Name
	if len(sf.Aliases) > 0 {
		header += " (alias " + strings.Join(sf.Aliases, ", ") + ")"
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", header, formatDoc(sf.Syntax), formatDoc(sf.Doc))
	return err
}

func renderPasses(w io.Writer) error {
	for _, name := range pass.Names() {
		p, _ := pass.Lookup(name)
		if _, err := fmt.Fprintf(w, "%s\n%s\n", p.Name, formatDoc(p.Doc)); err != nil {
			return err
		}
	}
	return nil
}

// formatDoc wraps doc and indents it by two spaces.
func formatDoc(doc string) string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return ""
	}
	return strings.TrimSuffix(indent.String(wordwrap.String(doc, docWidth), 2), "\n")
}
