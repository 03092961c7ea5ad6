package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var ErrToolNotFound = errors.New("yt-dlp not found")

// Strategy selects how the output filename is kept within limits.
type Strategy string

const (
	// StrategyTruncate asks yt-dlp for its default filename and shortens it
	// with SafeFilename before downloading.
	StrategyTruncate Strategy = "truncate"
	// StrategyRestrict leaves naming to yt-dlp's own template options.
	StrategyRestrict Strategy = "restrict"
)

const restrictTemplate = "%(title).100B-%(id)s.%(ext)s"

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyTruncate:
		return StrategyTruncate, nil
	case StrategyRestrict:
		return StrategyRestrict, nil
	default:
		return "", fmt.Errorf("unknown strategy %q (want truncate or restrict)", s)
	}
}

// Result describes a finished download.
type Result struct {
	URL string
	// Filename is the output name handed to yt-dlp; empty for StrategyRestrict.
	Filename string
}

type Downloader interface {
	Download(ctx context.Context, url string) (Result, error)
}

type YtDlpDownloader struct {
	binary    string
	strategy  Strategy
	outputDir string

	// swapped in tests
	lines func(ctx context.Context, binary string, args []string) ([]string, ytDlpResult, error)
	run   func(ctx context.Context, binary string, args []string) (ytDlpResult, error)
}

func NewYtDlpDownloader(binary string, strategy Strategy, outputDir string) *YtDlpDownloader {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YtDlpDownloader{
		binary:    binary,
		strategy:  strategy,
		outputDir: outputDir,
		lines:     runYtDlpLines,
		run:       runYtDlp,
	}
}

// CheckTool reports ErrToolNotFound when the configured binary cannot be
// resolved.
func (d *YtDlpDownloader) CheckTool() error {
	if !HasExecutable(d.binary) {
		return fmt.Errorf("%w: %s", ErrToolNotFound, d.binary)
	}
	return nil
}

func (d *YtDlpDownloader) Download(ctx context.Context, videoURL string) (Result, error) {
	switch d.strategy {
	case StrategyRestrict:
		return d.downloadRestricted(ctx, videoURL)
	case StrategyTruncate, "":
		return d.downloadTruncated(ctx, videoURL)
	default:
		return Result{URL: videoURL}, fmt.Errorf("unknown strategy %q", d.strategy)
	}
}

func (d *YtDlpDownloader) downloadTruncated(ctx context.Context, videoURL string) (Result, error) {
	res := Result{URL: videoURL}
	lines, probe, err := d.lines(ctx, d.binary, []string{"--get-filename", videoURL})
	if err != nil {
		return res, d.wrapErr(err, probe.stderr)
	}
	if len(lines) == 0 {
		return res, fmt.Errorf("yt-dlp returned no filename for %s", videoURL)
	}
	res.Filename = SafeFilename(lines[len(lines)-1])

	out, err := d.run(ctx, d.binary, []string{"-o", d.outputPath(escapeTemplate(res.Filename)), videoURL})
	if err != nil {
		return res, d.wrapErr(err, out.stderr)
	}
	return res, nil
}

func (d *YtDlpDownloader) downloadRestricted(ctx context.Context, videoURL string) (Result, error) {
	args := []string{
		"-o", d.outputPath(restrictTemplate),
		"--restrict-filenames",
		"--no-part",
		"--no-mtime",
		videoURL,
	}
	out, err := d.run(ctx, d.binary, args)
	if err != nil {
		return Result{URL: videoURL}, d.wrapErr(err, out.stderr)
	}
	return Result{URL: videoURL}, nil
}

// outputPath prefixes the output directory to an -o template.
func (d *YtDlpDownloader) outputPath(template string) string {
	if d.outputDir == "" {
		return template
	}
	return filepath.Join(escapeTemplate(d.outputDir), template)
}

// escapeTemplate keeps yt-dlp from reading "%" as the start of a field.
func escapeTemplate(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

func (d *YtDlpDownloader) wrapErr(err error, stderr string) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrToolNotFound, d.binary)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if msg := lastLine(stderr); msg != "" {
			return fmt.Errorf("yt-dlp exited with status %d: %s: %w", exitErr.ExitCode(), msg, err)
		}
		return fmt.Errorf("yt-dlp exited with status %d: %w", exitErr.ExitCode(), err)
	}
	return fmt.Errorf("yt-dlp failed: %w", err)
}

// runYtDlpLines captures stdout; stderr still reaches the terminal.
func runYtDlpLines(ctx context.Context, binary string, args []string) ([]string, ytDlpResult, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderrBuf bytes.Buffer
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderrBuf)
	output, err := cmd.Output()
	if err != nil {
		return nil, ytDlpResult{stderr: stderrBuf.String()}, err
	}
	lines := []string{}
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, ytDlpResult{stderr: stderrBuf.String()}, nil
}

type ytDlpResult struct {
	stderr string
}

// runYtDlp streams yt-dlp's output to the terminal and keeps a copy of
// stderr for error reporting.
func runYtDlp(ctx context.Context, binary string, args []string) (ytDlpResult, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stderrBuf bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = io.MultiWriter(os.Stderr, &stderrBuf)

	if err := cmd.Start(); err != nil {
		return ytDlpResult{}, err
	}
	if err := cmd.Wait(); err != nil {
		return ytDlpResult{stderr: stderrBuf.String()}, err
	}
	return ytDlpResult{stderr: stderrBuf.String()}, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
