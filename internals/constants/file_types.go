package constants

import (
	"path/filepath"
	"strings"
)

// Batas ukuran lembar kerja (10 MiB)
const MaxWorksheetSize int64 = 10 << 20

// Tipe file lembar kerja yang diterima → ekstensi default
var worksheetTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

func IsAllowedWorksheetType(contentType string) bool {
	_, ok := worksheetTypes[normalizeContentType(contentType)]
	return ok
}

// WorksheetExt memakai ekstensi nama file asli bila cocok, selain itu ekstensi default tipe konten.
func WorksheetExt(fileName, contentType string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf":
		return ext
	}
	if def, ok := worksheetTypes[normalizeContentType(contentType)]; ok {
		return def
	}
	return ".bin"
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		return "image/jpeg"
	}
	return ct
}
