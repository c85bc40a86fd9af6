// Package media sniffs the media type of image content.
package media

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Media types reported by Detect.
const (
	PNG  = "image/png"
	JPEG = "image/jpeg"
	GIF  = "image/gif"
	BMP  = "image/bmp"
	TIFF = "image/tiff"
	WEBP = "image/webp"
	SVG  = "image/svg+xml"
)

// sniffLen mirrors http.DetectContentType, which never looks past 512 bytes.
// SVG detection reads further because XML prologues and comments can push the
// root element past that point.
const (
	sniffLen    = 512
	svgSniffLen = 4096
)

var (
	tiffLittleEndian = []byte{'I', 'I', 0x2A, 0x00}
	tiffBigEndian    = []byte{'M', 'M', 0x00, 0x2A}
)

// Detect returns the media type of data without parameters, for example
// "image/png" or "text/plain". SVG documents are reported as image/svg+xml.
func Detect(data []byte) string {
	if isSVG(data) {
		return SVG
	}
	if bytes.HasPrefix(data, tiffLittleEndian) || bytes.HasPrefix(data, tiffBigEndian) {
		return TIFF
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	mediaType := http.DetectContentType(head)
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.TrimSpace(mediaType)
}

// DetectFile sniffs the beginning of the file at path.
func DetectFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, svgSniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Detect(head[:n]), nil
}

// IsRaster reports whether mediaType is a raster format this module decodes.
func IsRaster(mediaType string) bool {
	switch mediaType {
	case PNG, JPEG, GIF, BMP, TIFF, WEBP:
		return true
	}
	return false
}

// IsVector reports whether mediaType needs rasterizing before decoding.
func IsVector(mediaType string) bool {
	return mediaType == SVG
}

// isSVG is a lightweight check for an <svg root element near the start of data.
func isSVG(data []byte) bool {
	n := len(data)
	if n == 0 {
		return false
	}
	if n > svgSniffLen {
		n = svgSniffLen
	}
	header := bytes.ToLower(bytes.TrimSpace(data[:n]))
	if !bytes.HasPrefix(header, []byte("<")) {
		return false
	}
	return bytes.Contains(header, []byte("<svg")) ||
		bytes.Contains(header, []byte(`xmlns="http://www.w3.org/2000/svg"`)) ||
		bytes.Contains(header, []byte(`xmlns='http://www.w3.org/2000/svg'`))
}
