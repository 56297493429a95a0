package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliconfig "github.com/fluxbase-eu/absref/cli/config"
	"github.com/fluxbase-eu/absref/cli/output"
	"github.com/fluxbase-eu/absref/cli/util"
	"github.com/fluxbase-eu/absref/internal/resolver"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage resolver configuration",
	Long:  `View and initialize the absref configuration.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration skeleton",
	Long: `Create an absref.yaml with an empty remap table.

Examples:
  absref config init
  absref --config build/absref.yaml config init`,
	RunE: runConfigInit,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Display the effective configuration",
	Long: `Show the resolver settings after environment overrides are applied.

Examples:
  absref config view
  absref config view --output json`,
	PreRunE: loadConfig,
	RunE:    runConfigView,
}

var configRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List remap rules in match order",
	Long: `List the normalized remap rules. The first rule whose prefix matches an
import wins, so more specific prefixes must come first.`,
	PreRunE: loadConfig,
	RunE:    runConfigRules,
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configRulesCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := GetConfigPath()
	if _, err := os.Stat(path); err == nil && !configForce {
		if !util.IsInteractive() {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}
		ok, err := util.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Overwrite %s?", path), false)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	c := cliconfig.New(".")
	c.WorkingDirectory = "."
	c.Remap = cliconfig.RemapRules{}
	c.Bundle = cliconfig.BundleConfig{
		Entry:   "src/index.js",
		OutDir:  "dist",
		ESMFile: "index.es.js",
		CJSFile: "index.cjs.js",
		Version: "0.1.0",
	}
	if err := c.Save(path); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
	return nil
}

type configView struct {
	ConfigDir   string               `json:"config_dir" yaml:"config_dir"`
	BaseDir     string               `json:"base_dir" yaml:"base_dir"`
	Options     resolverOptionsView  `json:"options" yaml:"options"`
	RemapRules  []resolver.RemapRule `json:"remap_rules" yaml:"remap_rules"`
	BundleEntry string               `json:"bundle_entry,omitempty" yaml:"bundle_entry,omitempty"`
}

type resolverOptionsView struct {
	WorkingDirectory     string `json:"working_directory" yaml:"working_directory"`
	RelativeOffsetToRoot string `json:"relative_offset_to_root,omitempty" yaml:"relative_offset_to_root,omitempty"`
}

func runConfigView(cmd *cobra.Command, args []string) error {
	opts, err := cfg.ResolverOptions()
	if err != nil {
		return err
	}
	r, err := newResolver()
	if err != nil {
		return err
	}

	view := configView{
		ConfigDir: cfg.Dir(),
		BaseDir:   r.BaseDir(),
		Options: resolverOptionsView{
			WorkingDirectory:     opts.WorkingDirectory,
			RelativeOffsetToRoot: opts.RelativeOffsetToRoot,
		},
		RemapRules:  r.Rules(),
		BundleEntry: cfg.Bundle.Entry,
	}

	if formatter.Format != output.FormatTable {
		return formatter.Print(view)
	}

	return formatter.PrintTable(output.TableData{
		Headers: []string{"SETTING", "VALUE"},
		Rows: [][]string{
			{"config_dir", view.ConfigDir},
			{"working_directory", view.Options.WorkingDirectory},
			{"relative_offset_to_root", view.Options.RelativeOffsetToRoot},
			{"base_dir", view.BaseDir},
			{"remap_rules", fmt.Sprintf("%d", len(view.RemapRules))},
			{"bundle_entry", view.BundleEntry},
		},
	})
}

func runConfigRules(cmd *cobra.Command, args []string) error {
	r, err := newResolver()
	if err != nil {
		return err
	}

	data := output.TableData{Headers: []string{"#", "FROM", "TO"}}
	for i, rule := range r.Rules() {
		data.Rows = append(data.Rows, []string{fmt.Sprintf("%d", i+1), rule.From, rule.To})
	}
	return formatter.PrintTable(data)
}
