package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger *logger_i.Logger

// Stage resolves an ingest input to a readable file on disk. Inline content
// is written to a temp file which the returned cleanup removes; callers must
// run cleanup on every exit path. A path-only input is used in place and
// cleanup is a no-op.
func Stage(input docModel.IngestInput) (string, func(), error) {
	logger = logger_i.NewLogger("Document Staging")

	noop := func() {}

	if input.Path == "" && input.Content == "" {
		return "", noop, errors.New("either a document path or document content must be provided")
	}

	if input.Content == "" {
		return input.Path, noop, nil
	}

	if err := os.MkdirAll(config.TempDir, 0750); err != nil {
		return "", noop, err
	}

	extension := ".txt"
	if input.Path != "" {
		if ext := filepath.Ext(input.Path); ext != "" {
			extension = ext
		}
	}

	tempFile, err := os.CreateTemp(config.TempDir, "temp_doc_*"+extension)
	if err != nil {
		return "", noop, err
	}
	tempPath := tempFile.Name()

	cleanup := func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to clean up temporary file", "path", tempPath, "error", err)
		} else {
			logger.Debug("Cleaned up temporary file", "path", tempPath)
		}
	}

	data := decodeContent(input.Content, extension)
	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		cleanup()
		return "", noop, err
	}
	if err := tempFile.Close(); err != nil {
		cleanup()
		return "", noop, err
	}

	logger.Info("Saved content to temporary file", "path", tempPath)
	return tempPath, cleanup, nil
}

// Extract pulls the plain text out of a staged file. PDF pages are joined
// with newlines.
func Extract(path string) (string, error) {
	logger = logger_i.NewLogger("Document Extraction")

	docType := getDocType(path)
	if docType == ERR {
		return "", errors.New("unsupported file type: " + filepath.Ext(path))
	}

	pages, err := extractText(path, docType)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(pages))
	for _, page := range pages {
		parts = append(parts, page.Content)
	}

	content := strings.TrimSpace(strings.Join(parts, "\n"))
	if content == "" {
		return "", errors.New("no content could be extracted from " + path)
	}

	logger.Debug("Extracted document text", "path", path, "characters", len(content))
	return content, nil
}
