package app

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

var (
	ErrNoURLs            = errors.New("no URLs provided")
	ErrInputFileNotFound = errors.New("input file not found")
)

// CollectURLs returns the URLs listed in path (one per line, blanks
// skipped) followed by args. path may be empty.
func CollectURLs(path string, args []string, logger *slog.Logger) ([]string, error) {
	var urls []string
	if path != "" {
		fromFile, err := readURLFile(path)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}
	for _, arg := range args {
		if arg = strings.TrimSpace(arg); arg != "" {
			urls = append(urls, arg)
		}
	}
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}

	if logger != nil {
		for _, u := range urls {
			if !looksLikeURL(u) {
				logger.Warn("entry does not look like a URL, passing it to yt-dlp as is", "entry", u)
			}
		}
	}
	return urls, nil
}

func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInputFileNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return urls, nil
}

func looksLikeURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}
