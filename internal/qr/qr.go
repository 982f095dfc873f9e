// internal/qr/qr.go
package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

// ImageSize is the edge length in pixels of rendered QR PNGs.
const ImageSize = 320

// Render encodes trackingURL into a PNG at medium error correction.
// Output depends only on the input string and the constants above.
func Render(trackingURL string) ([]byte, error) {
	return qrcode.Encode(trackingURL, qrcode.Medium, ImageSize)
}
