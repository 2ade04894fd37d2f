package qr

import (
	"bytes"
	"image/png"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the edge length in pixels of ticket codes
const DefaultSize = 256

// PNG renders content as a QR code and returns the PNG bytes
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	code, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, code.Image(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
