package passid

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	goqr "github.com/skip2/go-qrcode"
)

const (
	dataURLPrefix = "data:image/png;base64,"
	qrSize        = 256
)

var ErrNotDataURL = errors.New("qr payload is not a png data url")

// PNG renders passID as a QR code PNG.
func PNG(passID string) ([]byte, error) {
	if strings.TrimSpace(passID) == "" {
		return nil, errors.New("empty pass id")
	}
	return goqr.Encode(passID, goqr.Medium, qrSize)
}

// DataURL renders passID as a base64 PNG data URL, the qrCode stored on applicants.
func DataURL(passID string) (string, error) {
	raw, err := PNG(passID)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeDataURL recovers the text from a payload produced by DataURL.
func DecodeDataURL(payload string) (string, error) {
	if !strings.HasPrefix(payload, dataURLPrefix) {
		return "", ErrNotDataURL
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(payload, dataURLPrefix))
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode png: %w", err)
	}
	return DecodeImage(img)
}

// DecodeReader reads a PNG or JPEG image (e.g. a phone photo of a pass) and decodes its QR code.
func DecodeReader(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}
	return DecodeImage(img)
}

func DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize: %w", err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return "", fmt.Errorf("read qr: %w", err)
	}
	return res.GetText(), nil
}
