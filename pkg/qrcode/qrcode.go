// Package qrcode renders QR codes as embeddable data URLs.
package qrcode

import (
	"encoding/base64"
	"fmt"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	// Size is the edge length of the rendered PNG in pixels.
	Size      = 256
	urlPrefix = "data:image/png;base64,"
)

// DataURL encodes payload as a medium recovery PNG and returns it as a data URL.
func DataURL(payload string) (string, error) {
	png, err := goqrcode.Encode(payload, goqrcode.Medium, Size)
	if err != nil {
		return "", fmt.Errorf("failed to render QR code: %w", err)
	}
	return urlPrefix + base64.StdEncoding.EncodeToString(png), nil
}
