package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize bounds case image uploads.
const MaxImageSize = 5 << 20

// imageTypes maps sniffed MIME types to the extensions accepted for them.
var imageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
}

// Image checks size, sniffed content type and extension of an uploaded case image.
// On success it returns the detected MIME type and rewinds the file.
func Image(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", fmt.Errorf("image too large: maximum size is %d MB", MaxImageSize>>20)
	}

	// http.DetectContentType looks at no more than 512 bytes
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return "", fmt.Errorf("failed to rewind image: %w", err)
	}

	detected := http.DetectContentType(buffer[:n])
	extensions, ok := imageTypes[detected]
	if !ok {
		return "", fmt.Errorf("invalid image type (detected: %s)", detected)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	for _, allowed := range extensions {
		if ext == allowed {
			return detected, nil
		}
	}
	return "", fmt.Errorf("invalid image extension %q for %s", ext, detected)
}
