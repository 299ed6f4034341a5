package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultDownloadTimeout is the default timeout for document downloads
	DefaultDownloadTimeout = 30 * time.Second
	// DefaultMaxFileSize caps uploaded CSV documents (1MB)
	DefaultMaxFileSize = 1 * 1024 * 1024
)

// FileDownloader downloads operator-uploaded documents from Telegram.
type FileDownloader struct {
	client  *http.Client
	timeout time.Duration
	maxSize int64
}

// NewFileDownloader creates a FileDownloader with default settings.
func NewFileDownloader() *FileDownloader {
	return &FileDownloader{
		client: &http.Client{
			Timeout: DefaultDownloadTimeout,
		},
		timeout: DefaultDownloadTimeout,
		maxSize: DefaultMaxFileSize,
	}
}

// DownloadFromURL downloads file data from a URL.
// It respects context cancellation and enforces the size limit.
func (d *FileDownloader) DownloadFromURL(ctx context.Context, fileURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: status %d", resp.StatusCode)
	}

	if resp.ContentLength > d.maxSize {
		return nil, fmt.Errorf("file too large: %d bytes exceeds limit of %d bytes", resp.ContentLength, d.maxSize)
	}

	// LimitReader enforces the size limit even if Content-Length is missing
	limitedReader := io.LimitReader(resp.Body, d.maxSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file data: %w", err)
	}

	if int64(len(data)) > d.maxSize {
		return nil, fmt.Errorf("file too large: exceeds limit of %d bytes", d.maxSize)
	}

	return data, nil
}

// DownloadFromTelegramFileID downloads a document from Telegram using a file
// ID, resolving it to a direct URL with the provided function.
func (d *FileDownloader) DownloadFromTelegramFileID(
	ctx context.Context,
	getFileDirectURL func(fileID string) (string, error),
	fileID string,
) ([]byte, error) {
	log.Info().Str("fileID", fileID).Msg("downloading telegram file")

	url, err := getFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file URL: %w", err)
	}

	return d.DownloadFromURL(ctx, url)
}
