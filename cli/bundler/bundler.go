// Package bundler runs esbuild with the absolute reference resolver and
// packages the result as a versioned release.
package bundler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/rs/zerolog"

	"github.com/fluxbase-eu/absref/internal/resolver"
)

// Bundler bundles an entry module into ES module and CommonJS outputs
type Bundler struct {
	resolver *resolver.Resolver
	workDir  string
	logger   zerolog.Logger
}

// BundleRequest describes one release bundle
type BundleRequest struct {
	// Entry is the entry module path
	Entry string

	// OutDir receives the outputs. It must not exist unless Force is set.
	OutDir string
	Force  bool

	// ESMFile and CJSFile name the outputs inside OutDir. An empty name
	// skips that format.
	ESMFile string
	CJSFile string

	Version   string
	Copyright string
	License   string

	// CopyFiles are copied verbatim into OutDir
	CopyFiles []string
}

// OutputFile is one file written by a bundle
type OutputFile struct {
	Path  string `json:"path" yaml:"path"`
	Bytes int    `json:"bytes" yaml:"bytes"`
}

// BundleResult contains the result of a bundling operation
type BundleResult struct {
	OutDir   string       `json:"out_dir" yaml:"out_dir"`
	Outputs  []OutputFile `json:"outputs" yaml:"outputs"`
	Warnings []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Metafile string       `json:"-" yaml:"-"`
}

// ErrReleasePresent is returned when the release folder already exists
var ErrReleasePresent = errors.New("release is already present")

// NewBundler creates a bundler. workDir anchors relative entry and output paths.
func NewBundler(r *resolver.Resolver, workDir string, logger zerolog.Logger) *Bundler {
	return &Bundler{
		resolver: r,
		workDir:  workDir,
		logger:   logger.With().Str("component", "bundler").Logger(),
	}
}

// FileHeader builds the banner placed at the top of every output
func FileHeader(fileName, version, copyright, license string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "// File: %s\n", fileName)
	fmt.Fprintf(&sb, "// Version: %s\n", version)
	if copyright != "" {
		fmt.Fprintf(&sb, "// Copyright (c) %s\n", copyright)
	}
	if license != "" {
		fmt.Fprintf(&sb, "// License: %s\n", license)
	}
	return sb.String()
}

// ReleaseFolder returns <releasesDir>/<releases|releases-dev>/<name>/v<version>
func ReleaseFolder(releasesDir string, devRelease bool, name, version string) string {
	folder := "releases"
	if devRelease {
		folder = "releases-dev"
	}
	return filepath.Join(releasesDir, folder, name, "v"+version)
}

// Bundle builds every requested format and writes it to the release folder
// A failed bundle removes the release folder it created.
func (b *Bundler) Bundle(ctx context.Context, req BundleRequest) (_ *BundleResult, err error) {
	if req.Entry == "" {
		return nil, fmt.Errorf("bundle entry is required")
	}
	if req.OutDir == "" {
		return nil, fmt.Errorf("bundle output directory is required")
	}
	if req.ESMFile == "" && req.CJSFile == "" {
		return nil, fmt.Errorf("at least one of esm_file or cjs_file is required")
	}

	outDir := b.abs(req.OutDir)
	created, err := ensureReleaseNotPresent(outDir, req.Force)
	if err != nil {
		return nil, err
	}
	if created {
		defer func() {
			if err == nil {
				return
			}
			if rmErr := os.RemoveAll(outDir); rmErr != nil {
				b.logger.Warn().Err(rmErr).Str("dir", outDir).Msg("Failed to remove incomplete release")
			}
		}()
	}

	result := &BundleResult{OutDir: outDir}

	formats := []struct {
		file   string
		format api.Format
	}{
		{req.ESMFile, api.FormatESModule},
		{req.CJSFile, api.FormatCommonJS},
	}
	for _, f := range formats {
		if f.file == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outfile := filepath.Join(outDir, f.file)
		header := FileHeader(f.file, req.Version, req.Copyright, req.License)
		built := b.build(req.Entry, f.format, outfile, header, true)
		if len(built.Errors) > 0 {
			return nil, fmt.Errorf("bundle failed: %s", formatMessages(built.Errors))
		}
		result.Warnings = append(result.Warnings, messageTexts(built.Warnings)...)
		result.Metafile = built.Metafile

		info, err := os.Stat(outfile)
		if err != nil {
			return nil, fmt.Errorf("bundle output missing: %w", err)
		}
		result.Outputs = append(result.Outputs, OutputFile{Path: outfile, Bytes: int(info.Size())})
		b.logger.Info().Str("file", outfile).Str("format", formatName(f.format)).Msg("Bundle written")
	}

	for _, src := range req.CopyFiles {
		dst := filepath.Join(outDir, filepath.Base(src))
		n, err := copyFile(b.abs(src), dst)
		if err != nil {
			return nil, err
		}
		result.Outputs = append(result.Outputs, OutputFile{Path: dst, Bytes: int(n)})
	}

	return result, nil
}

// BuildMetafile bundles entry in memory and returns esbuild's metafile
func (b *Bundler) BuildMetafile(entry string) (string, error) {
	built := b.build(entry, api.FormatESModule, "", "", false)
	if len(built.Errors) > 0 {
		return "", fmt.Errorf("bundle analysis failed: %s", formatMessages(built.Errors))
	}
	return built.Metafile, nil
}

func (b *Bundler) build(entry string, format api.Format, outfile, banner string, write bool) api.BuildResult {
	opts := api.BuildOptions{
		EntryPoints:   []string{b.abs(entry)},
		Bundle:        true,
		Write:         write,
		Metafile:      true,
		Format:        format,
		Platform:      api.PlatformNeutral,
		Target:        api.ESNext,
		AbsWorkingDir: b.workDir,
		LogLevel:      api.LogLevelSilent,
		Plugins: []api.Plugin{
			Plugin(b.resolver),
		},
	}
	if outfile != "" {
		opts.Outfile = outfile
	}
	if banner != "" {
		opts.Banner = map[string]string{"js": banner}
	}
	return api.Build(opts)
}

func (b *Bundler) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(b.workDir, p)
}

// ensureReleaseNotPresent creates outDir and reports whether it did. An
// existing folder is reused only with force.
func ensureReleaseNotPresent(outDir string, force bool) (bool, error) {
	if _, err := os.Stat(outDir); err == nil {
		if !force {
			return false, fmt.Errorf("%w at %s: check the version number or pass --force", ErrReleasePresent, outDir)
		}
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check release folder: %w", err)
	}
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return false, fmt.Errorf("failed to create release folder: %w", err)
	}
	return true, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src) //nolint:gosec // path comes from the project config
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0640) //nolint:gosec // release folder
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}
	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return n, nil
}

// formatMessages joins esbuild messages, prefixing the source location
func formatMessages(msgs []api.Message) string {
	return strings.Join(messageTexts(msgs), "; ")
}

func messageTexts(msgs []api.Message) []string {
	texts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Location != nil {
			texts = append(texts, fmt.Sprintf("%s:%d: %s", msg.Location.File, msg.Location.Line, msg.Text))
			continue
		}
		texts = append(texts, msg.Text)
	}
	return texts
}

func formatName(format api.Format) string {
	switch format {
	case api.FormatESModule:
		return "esm"
	case api.FormatCommonJS:
		return "cjs"
	default:
		return "iife"
	}
}

// decodeMetafile parses esbuild's metafile JSON
func decodeMetafile(data string) (*Metafile, error) {
	var meta Metafile
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metafile: %w", err)
	}
	return &meta, nil
}
