package app

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	binary string
	args   []string
}

func newTestDownloader(strategy Strategy, outputDir string, filename string, runErr error) (*YtDlpDownloader, *[]recordedCall) {
	var calls []recordedCall
	d := NewYtDlpDownloader("yt-dlp", strategy, outputDir)
	d.lines = func(ctx context.Context, binary string, args []string) ([]string, ytDlpResult, error) {
		calls = append(calls, recordedCall{binary, args})
		return []string{filename}, ytDlpResult{}, nil
	}
	d.run = func(ctx context.Context, binary string, args []string) (ytDlpResult, error) {
		calls = append(calls, recordedCall{binary, args})
		return ytDlpResult{stderr: "ERROR: boom"}, runErr
	}
	return d, &calls
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy(" Truncate ")
	require.NoError(t, err)
	assert.Equal(t, StrategyTruncate, s)

	s, err = ParseStrategy("restrict")
	require.NoError(t, err)
	assert.Equal(t, StrategyRestrict, s)

	_, err = ParseStrategy("rename")
	assert.EqualError(t, err, `unknown strategy "rename" (want truncate or restrict)`)
}

func TestDownloadTruncated(t *testing.T) {
	long := strings.Repeat("t", 300) + " [id].mp4"
	d, calls := newTestDownloader(StrategyTruncate, "", long, nil)

	res, err := d.Download(context.Background(), "https://example.com/v")
	require.NoError(t, err)

	want := SafeFilename(long)
	assert.Equal(t, want, res.Filename)
	require.Len(t, *calls, 2)
	assert.Equal(t, []string{"--get-filename", "https://example.com/v"}, (*calls)[0].args)
	assert.Equal(t, []string{"-o", want, "https://example.com/v"}, (*calls)[1].args)
}

func TestDownloadTruncated_OutputDirAndPercent(t *testing.T) {
	d, calls := newTestDownloader(StrategyTruncate, "videos", "100% real [x].webm", nil)

	res, err := d.Download(context.Background(), "https://example.com/v")
	require.NoError(t, err)

	assert.Equal(t, "100% real [x].webm", res.Filename)
	assert.Equal(t, []string{"-o", filepath.Join("videos", "100%% real [x].webm"), "https://example.com/v"}, (*calls)[1].args)
}

func TestDownloadRestricted(t *testing.T) {
	d, calls := newTestDownloader(StrategyRestrict, "out", "", nil)

	res, err := d.Download(context.Background(), "https://example.com/v")
	require.NoError(t, err)

	assert.Empty(t, res.Filename)
	require.Len(t, *calls, 1)
	assert.Equal(t, []string{
		"-o", filepath.Join("out", "%(title).100B-%(id)s.%(ext)s"),
		"--restrict-filenames",
		"--no-part",
		"--no-mtime",
		"https://example.com/v",
	}, (*calls)[0].args)
}

func TestDownload_ToolNotFound(t *testing.T) {
	notFound := &exec.Error{Name: "yt-dlp", Err: exec.ErrNotFound}
	d, _ := newTestDownloader(StrategyRestrict, "", "", notFound)

	_, err := d.Download(context.Background(), "https://example.com/v")
	assert.True(t, errors.Is(err, ErrToolNotFound))
}

func TestDownload_ProbeFailure(t *testing.T) {
	d := NewYtDlpDownloader("yt-dlp", StrategyTruncate, "")
	d.lines = func(ctx context.Context, binary string, args []string) ([]string, ytDlpResult, error) {
		return nil, ytDlpResult{}, errors.New("pipe closed")
	}
	d.run = func(ctx context.Context, binary string, args []string) (ytDlpResult, error) {
		t.Fatal("download must not run when the filename probe fails")
		return ytDlpResult{}, nil
	}

	_, err := d.Download(context.Background(), "https://example.com/v")
	assert.EqualError(t, err, "yt-dlp failed: pipe closed")
	assert.False(t, errors.Is(err, ErrToolNotFound))
}

func TestCheckTool(t *testing.T) {
	restore := LookPath
	t.Cleanup(func() { LookPath = restore })

	LookPath = func(name string) (string, error) { return "", errors.New("not found") }
	err := NewYtDlpDownloader("", StrategyTruncate, "").CheckTool()
	assert.True(t, errors.Is(err, ErrToolNotFound))

	LookPath = func(name string) (string, error) { return "/usr/local/bin/" + name, nil }
	assert.NoError(t, NewYtDlpDownloader("", StrategyTruncate, "").CheckTool())
}

func TestRunYtDlp_ExitStatus(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	d := NewYtDlpDownloader("sh", StrategyRestrict, "")

	out, err := runYtDlp(context.Background(), "sh", []string{"-c", "echo 'ERROR: Unsupported URL' >&2; exit 3"})
	require.Error(t, err)
	assert.Contains(t, out.stderr, "Unsupported URL")

	wrapped := d.wrapErr(err, out.stderr)
	assert.Contains(t, wrapped.Error(), "yt-dlp exited with status 3: ERROR: Unsupported URL")
	var exitErr *exec.ExitError
	assert.True(t, errors.As(wrapped, &exitErr))
	assert.False(t, errors.Is(wrapped, ErrToolNotFound))
}

func TestRunYtDlpLines_MissingBinary(t *testing.T) {
	d := NewYtDlpDownloader(filepath.Join(t.TempDir(), "missing-yt-dlp"), StrategyTruncate, "")

	_, err := d.Download(context.Background(), "https://example.com/v")
	assert.True(t, errors.Is(err, ErrToolNotFound))
}
