// Package qr renders WireGuard client configs as QR codes for the public
// download page, so mobile clients can import a config by scanning it.
package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
)

// nopWriteCloser adapts a bytes.Buffer to the writer the PNG encoder wants.
type nopWriteCloser struct {
	*bytes.Buffer
}

func (nopWriteCloser) Close() error { return nil }

// PNG encodes text as a QR code PNG.
func PNG(text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("qr: empty content")
	}
	code, err := qrcode.NewWith(text,
		qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium),
	)
	if err != nil {
		return nil, fmt.Errorf("build qr code: %w", err)
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(nopWriteCloser{&buf},
		standard.WithQRWidth(8),
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
	)
	if err := code.Save(writer); err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL encodes text as a QR code PNG wrapped in a base64 data URL, ready
// for an <img> src attribute.
func DataURL(text string) (string, error) {
	png, err := PNG(text)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
