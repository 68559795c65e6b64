// Package media converts user-supplied files into the in-memory
// representation the generative API transport expects.
package media

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"server/internal/domain"
)

const fallbackMimeType = "application/octet-stream"

// Encode reads the full content of r into a MediaBlob. The reported MIME
// type is preserved as-is; when absent it is sniffed from the content and
// falls back to application/octet-stream. Encode never truncates and holds
// no shared state, so independent files may be encoded concurrently.
func Encode(r io.Reader, filename, mimeType string) (*domain.MediaBlob, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrRead, filename, err)
	}
	return &domain.MediaBlob{
		Data:     data,
		MimeType: resolveMimeType(mimeType, filename, data),
		Filename: filename,
	}, nil
}

// EncodeFile reads the file at path. The MIME type is derived from the file
// extension first, then from the content.
func EncodeFile(path string) (*domain.MediaBlob, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrRead, path, err)
	}
	defer f.Close()
	return Encode(f, filepath.Base(path), mime.TypeByExtension(filepath.Ext(path)))
}

func resolveMimeType(reported, filename string, data []byte) string {
	if reported != "" {
		return reported
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return byExt
	}
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	return fallbackMimeType
}
