// Package qr builds scannable links for inventory items and renders them as
// PNG images. A printed label encodes <base-url>/qr/<item-id>; the scanner
// endpoint translates that back to the item page.
package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateURL returns the link a label for the given item encodes.
func GenerateURL(baseURL, itemID string) string {
	return fmt.Sprintf("%s/qr/%s", strings.TrimSuffix(baseURL, "/"), itemID)
}

// TranslatePath maps a scanned QR path fragment to the item page route. Only
// the first path segment matters; anything after it is ignored.
func TranslatePath(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return "/item/" + segment
}

// ItemIDFromURL pulls the item id out of a full scanned QR link, which is
// always the last path segment.
func ItemIDFromURL(url string) string {
	parts := strings.Split(strings.TrimSuffix(url, "/"), "/")
	return parts[len(parts)-1]
}

// RenderPNG renders the link as a 256x256 PNG with medium error correction,
// which survives small label printers.
func RenderPNG(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}
