package pizza

import (
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"
)

const shareQRSize = 320

// ShareQR encodes a party link as a QR code.
type ShareQR struct {
	URL  string
	code *qrcode.QRCode
}

// NewShareQR builds the QR code for a party's share link.
func NewShareQR(baseURL, partyID string) (*ShareQR, error) {
	url, err := ShareURL(baseURL, partyID)
	if err != nil {
		return nil, err
	}
	code, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode share qr: %w", err)
	}
	return &ShareQR{URL: url, code: code}, nil
}

// WritePNG writes the code as a PNG image. size <= 0 uses a mobile friendly default.
func (q *ShareQR) WritePNG(w io.Writer, size int) error {
	if size <= 0 {
		size = shareQRSize
	}
	return q.code.Write(size, w)
}

// Terminal renders the code with half-block characters.
func (q *ShareQR) Terminal() string {
	return q.code.ToSmallString(false)
}
