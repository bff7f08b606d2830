package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gitify-app/gitify-cli/internal/apperror"
	"github.com/gitify-app/gitify-cli/internal/model"
)

// zipMagic is the local-file-header signature every zip starts with.
var zipMagic = []byte{'P', 'K', 0x03, 0x04}

// UploadProjectFile is step 2 of the creation wizard: POST
// /projects/file/upload/:id with a multipart body carrying the zip and
// the commit-timeline fields (startDate, endDate, desiredCommitCount).
//
// The zip check mirrors the web client's: accept by extension or by
// content (the browser checked the MIME type; the closest native
// equivalent is the zip magic bytes). The backend re-validates either
// way — this only saves the user a pointless upload.
func (c *Client) UploadProjectFile(ctx context.Context, projectID, filePath string, opts model.UploadOptions) error {
	f, err := os.Open(filePath)
	if err != nil {
		return apperror.Transport("opening "+filePath, err)
	}
	defer f.Close()

	if err := checkZip(f, filePath); err != nil {
		return err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("api: creating multipart file field: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("api: buffering %s: %w", filePath, err)
	}

	// Field names and formats match what the backend's upload route
	// parses; dates travel as RFC 3339 like Date.toISOString() produced.
	if !opts.StartDate.IsZero() {
		_ = w.WriteField("startDate", opts.StartDate.UTC().Format("2006-01-02T15:04:05.000Z"))
	}
	if !opts.EndDate.IsZero() {
		_ = w.WriteField("endDate", opts.EndDate.UTC().Format("2006-01-02T15:04:05.000Z"))
	}
	if opts.DesiredCommitCount > 0 {
		_ = w.WriteField("desiredCommitCount", strconv.Itoa(opts.DesiredCommitCount))
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("api: finalizing multipart body: %w", err)
	}

	path := "/projects/file/upload/" + projectID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base.String()+path, &body)
	if err != nil {
		return fmt.Errorf("api: building upload request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.Transport("POST "+path, err)
	}
	defer resp.Body.Close()

	_, _, err = c.decodeEnvelope(http.MethodPost, path, resp)
	return err
}

// checkZip validates by extension first, then by magic bytes, and leaves
// the reader rewound to the start either way.
func checkZip(f *os.File, filePath string) error {
	if strings.HasSuffix(strings.ToLower(filePath), ".zip") {
		return nil
	}

	header := make([]byte, len(zipMagic))
	n, _ := io.ReadFull(f, header)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("api: rewinding %s: %w", filePath, err)
	}
	if n == len(zipMagic) && bytes.Equal(header, zipMagic) {
		return nil
	}

	return apperror.Envelope("", fmt.Sprintf("%s is not a zip archive — please upload a valid ZIP file", filepath.Base(filePath)))
}
