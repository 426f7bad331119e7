package store

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"duetrack/internal/models"
)

// allowedScanTypes is the document allow-list enforced before any upload.
var allowedScanTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

// DetectDocumentType resolves a file's MIME type from its extension,
// falling back to content sniffing on the first bytes.
func DetectDocumentType(filename string, head []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	if len(head) > 0 {
		t := http.DetectContentType(head)
		if i := strings.IndexByte(t, ';'); i >= 0 {
			t = t[:i]
		}
		return t
	}
	return "application/octet-stream"
}

// AllowedDocumentType reports whether a MIME type may be scanned.
func AllowedDocumentType(mimeType string) bool {
	_, ok := allowedScanTypes[mimeType]
	return ok
}

// ScanDocument uploads a document for AI deadline extraction and returns
// the extracted candidates. Disallowed file types are rejected locally,
// before any request is issued. The candidates are not added to the cache:
// the caller reviews them and saves the kept ones through Create.
func (s *Store) ScanDocument(ctx context.Context, path string) ([]models.Deadline, error) {
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("could not open %s: %w", path, err)
		s.recordErr(err)
		return nil, err
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("could not read %s: %w", path, err)
		s.recordErr(err)
		return nil, err
	}
	mimeType := DetectDocumentType(path, head[:n])
	if !AllowedDocumentType(mimeType) {
		err = fmt.Errorf("unsupported file type %s: only JPEG, PNG, GIF and PDF documents can be scanned", mimeType)
		s.recordErr(err)
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		err = fmt.Errorf("could not rewind %s: %w", path, err)
		s.recordErr(err)
		return nil, err
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	candidates, err := s.client.ScanDocument(ctx, filepath.Base(path), f)

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return candidates, nil
}
