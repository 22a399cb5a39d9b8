// Package qrx renders strings such as otpauth:// URIs into QR code images.
package qrx

import (
	"encoding/base64"
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrEmptyContent = errors.New("qrx: content cannot be empty")
	ErrEncode       = errors.New("qrx: failed to encode QR code")
)

// DefaultSize is the image edge in pixels when size <= 0.
const DefaultSize = 256

const dataURIPrefix = "data:image/png;base64,"

// PNG encodes content as a size x size PNG QR code.
func PNG(content string, size int) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrEncode, err)
	}
	return png, nil
}

// DataURI returns the QR code for content as a data:image/png;base64 URI
// that can be dropped straight into an <img src>.
func DataURI(content string, size int) (string, error) {
	png, err := PNG(content, size)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}
