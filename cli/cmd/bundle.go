package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fluxbase-eu/absref/cli/bundler"
	cliconfig "github.com/fluxbase-eu/absref/cli/config"
	"github.com/fluxbase-eu/absref/cli/output"
	"github.com/fluxbase-eu/absref/cli/util"
)

var (
	bundleForce   bool
	bundleEntry   string
	bundleOutDir  string
	bundleVersion string
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Build the release bundle",
	Long: `Bundle the entry module into ES module and CommonJS outputs, resolving
absolute imports with the configured remap rules. Each output starts with
a version banner. The release folder must not already exist.

Examples:
  absref bundle
  absref bundle --version 1.4.0 --out-dir ../releases/v1.4.0
  absref bundle --force`,
	PreRunE: loadConfig,
	RunE:    runBundle,
}

func init() {
	bundleCmd.Flags().BoolVar(&bundleForce, "force", false, "overwrite an existing release folder")
	bundleCmd.Flags().StringVar(&bundleEntry, "entry", "", "entry module (overrides bundle.entry)")
	bundleCmd.Flags().StringVar(&bundleOutDir, "out-dir", "", "release folder (overrides bundle.out_dir)")
	bundleCmd.Flags().StringVar(&bundleVersion, "version", "", "release version (overrides bundle.version)")
}

func runBundle(cmd *cobra.Command, args []string) error {
	r, err := newResolver()
	if err != nil {
		return err
	}

	var pkg *cliconfig.Package
	if p := cfg.PackagePath(); p != "" {
		if pkg, err = cliconfig.LoadPackage(p); err != nil {
			return err
		}
	}

	bc := cfg.Bundle
	if bundleEntry != "" {
		bc.Entry = bundleEntry
	}
	if bundleOutDir != "" {
		bc.OutDir = bundleOutDir
	}
	if bundleVersion != "" {
		bc.Version = bundleVersion
	}

	req, err := bundleRequest(cfg, bc, pkg)
	if err != nil {
		return err
	}
	req.Force = bundleForce

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := bundler.NewBundler(r, cfg.Dir(), log.Logger)
	result, err := b.Bundle(ctx, req)
	if err != nil {
		return err
	}

	for _, warn := range result.Warnings {
		formatter.PrintWarning(warn)
	}

	if formatter.Format != output.FormatTable {
		return formatter.Print(result)
	}

	data := output.TableData{Headers: []string{"FILE", "SIZE"}}
	for _, out := range result.Outputs {
		data.Rows = append(data.Rows, []string{out.Path, util.FormatBytes(int64(out.Bytes))})
	}
	if err := formatter.PrintTable(data); err != nil {
		return err
	}
	formatter.PrintSuccess(fmt.Sprintf("Release %s written to %s", req.Version, result.OutDir))
	return nil
}

// bundleRequest fills unset bundle settings from package.json. The release
// folder defaults to <releases_dir>/<releases|releases-dev>/<main>/v<version>.
func bundleRequest(c *cliconfig.Config, bc cliconfig.BundleConfig, pkg *cliconfig.Package) (bundler.BundleRequest, error) {
	devRelease := bc.DevRelease
	if pkg != nil {
		if bc.Version == "" {
			bc.Version = pkg.Version
		}
		if bc.ESMFile == "" {
			bc.ESMFile = pkg.Module
		}
		if bc.CJSFile == "" {
			bc.CJSFile = pkg.Main
		}
		devRelease = devRelease || pkg.DevRelease
	}

	if bc.Version == "" {
		return bundler.BundleRequest{}, fmt.Errorf("bundle version is required (set bundle.version or a package.json version)")
	}

	outDir := bc.OutDir
	if outDir == "" {
		if bc.ReleasesDir == "" {
			return bundler.BundleRequest{}, fmt.Errorf("bundle.out_dir or bundle.releases_dir is required")
		}
		name := bc.CJSFile
		if name == "" {
			name = bc.ESMFile
		}
		outDir = bundler.ReleaseFolder(c.Abs(bc.ReleasesDir), devRelease, name, bc.Version)
	}

	copyFiles := make([]string, 0, len(bc.CopyFiles))
	for _, f := range bc.CopyFiles {
		copyFiles = append(copyFiles, c.Abs(f))
	}

	return bundler.BundleRequest{
		Entry:     c.Abs(bc.Entry),
		OutDir:    c.Abs(outDir),
		ESMFile:   bc.ESMFile,
		CJSFile:   bc.CJSFile,
		Version:   bc.Version,
		Copyright: bc.Copyright,
		License:   bc.License,
		CopyFiles: copyFiles,
	}, nil
}
