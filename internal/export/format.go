package export

import (
	"fmt"
	"strings"

	"github.com/dealspot/dealspot/internal/core/domain"
)

// Format is the output encoding of an export.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatXLSX Format = "xlsx"
)

const (
	ContentTypeTXT  = "text/plain; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ParseFormat accepts "txt" and "xlsx" (case-insensitive). Empty defaults to txt.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "txt":
		return FormatTXT, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported format %q: %w", s, domain.ErrInvalidQuery)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return ContentTypeXLSX
	}
	return ContentTypeTXT
}
