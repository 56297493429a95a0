package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fluxbase-eu/absref/cli/output"
)

var resolveFrom string

var resolveCmd = &cobra.Command{
	Use:   "resolve <specifier>...",
	Short: "Resolve import specifiers to files",
	Long: `Resolve one or more import specifiers the way the bundle plugin does.

Absolute specifiers are remapped and anchored to the project root; relative
specifiers are joined onto the directory of --from. Without --from the
specifiers are treated as entry points and left unresolved. Files are not
checked for existence.

Examples:
  absref resolve /libs/foo --from src/app.js
  absref resolve ./util ../shared/x --from src/app.js -o json`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: loadConfig,
	RunE:    runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveFrom, "from", "", "importing file")
}

func runResolve(cmd *cobra.Command, args []string) error {
	r, err := newResolver()
	if err != nil {
		return err
	}

	importer := ""
	if resolveFrom != "" {
		abs, err := filepath.Abs(resolveFrom)
		if err != nil {
			return fmt.Errorf("failed to resolve importer path: %w", err)
		}
		importer = filepath.ToSlash(abs)
	}

	data := output.TableData{
		Headers: []string{"SPECIFIER", "KIND", "RESOLVED"},
	}
	for _, specifier := range args {
		ref := r.Resolve(specifier, importer)
		resolved := ref.Path
		if ref.IsExternal() {
			resolved = ref.ID
		}
		data.Rows = append(data.Rows, []string{specifier, ref.Kind.String(), resolved})
	}

	return formatter.PrintTable(data)
}
