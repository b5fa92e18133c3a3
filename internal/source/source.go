// Package source loads the input HTML document from a local file or a URL.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gocolly/colly/v2"

	"github.com/jmylchreest/charrefs/internal/logger"
)

// Error types for distinguishing input failures.
var (
	// ErrNotFound indicates the input file does not exist.
	ErrNotFound = errors.New("input file not found")
	// ErrTooLarge indicates the input exceeds the configured limit.
	ErrTooLarge = errors.New("input exceeds size limit")
)

const defaultUserAgent = "charrefs (+https://github.com/jmylchreest/charrefs)"

// Options controls loading.
type Options struct {
	MaxSize   uint64        // 0 means unlimited
	Timeout   time.Duration // URL fetches only
	UserAgent string
}

// Document is a loaded input.
type Document struct {
	Source string
	HTML   string
}

// Size returns the document size in bytes.
func (d Document) Size() int {
	return len(d.HTML)
}

// IsURL reports whether ref should be fetched over HTTP.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Load reads ref as a URL or a file path, whole, into memory.
func Load(ctx context.Context, ref string, opts Options) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		body string
		err  error
	)
	if IsURL(ref) {
		body, err = fetch(ctx, ref, opts)
	} else {
		body, err = readFile(ref, opts)
	}
	if err != nil {
		return Document{}, err
	}

	logger.Debug("input loaded", "source", ref, "size", humanize.Bytes(uint64(len(body))))
	return Document{Source: ref, HTML: body}, nil
}

func readFile(path string, opts Options) (string, error) {
	f, err := os.Open(path) //#nosec G304 -- CLI tool reads the user-specified input file
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: '%s'", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if opts.MaxSize > 0 {
		r = io.LimitReader(f, int64(opts.MaxSize)+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if err := checkSize(len(data), opts.MaxSize); err != nil {
		return "", err
	}
	return string(data), nil
}

func fetch(ctx context.Context, targetURL string, opts Options) (string, error) {
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	// One byte over the limit lets checkSize see a truncated oversized body.
	maxBody := 0
	if opts.MaxSize > 0 {
		maxBody = int(opts.MaxSize) + 1
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.MaxBodySize(maxBody),
		colly.StdlibContext(ctx),
	)
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	var (
		body     string
		fetchErr error
	)
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
		logger.Debug("fetch response received",
			"status", r.StatusCode,
			"content_type", r.Headers.Get("Content-Type"),
			"body_size", humanize.Bytes(uint64(len(r.Body))))
	})
	c.OnError(func(r *colly.Response, err error) {
		statusCode := 0
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error (status %d): %w", statusCode, err)
	})

	logger.Debug("fetching input", "url", targetURL, "timeout", opts.Timeout)
	if err := c.Visit(targetURL); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return "", fetchErr
	}
	if err := checkSize(len(body), opts.MaxSize); err != nil {
		return "", err
	}
	return body, nil
}

func checkSize(n int, limit uint64) error {
	if limit > 0 && uint64(n) > limit {
		return fmt.Errorf("%w (%s)", ErrTooLarge, humanize.Bytes(limit))
	}
	return nil
}
