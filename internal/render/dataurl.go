package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var errNotDataURL = errors.New("not a base64 data URL")

// DataURL wraps raw bytes as a base64 data URL.
func DataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SniffImage validates data as an image in one of the registered formats
// and returns its mime type and size.
func SniffImage(data []byte) (mime string, cfg image.Config, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", image.Config{}, fmt.Errorf("decode image header: %w", err)
	}
	return "image/" + format, cfg, nil
}

// DecodeImage fully decodes data and returns its mime type. Unlike
// SniffImage it rejects files whose pixel data is truncated.
func DecodeImage(data []byte) (mime string, img image.Image, err error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("decode image: %w", err)
	}
	return "image/" + format, img, nil
}

// DecodeDataURL decodes the image inside a base64 data URL.
func DecodeDataURL(src string) (image.Image, error) {
	rest, ok := strings.CutPrefix(src, "data:")
	if !ok {
		return nil, errNotDataURL
	}
	_, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return nil, errNotDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// PNGDataURL encodes img as a PNG data URL.
func PNGDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return DataURL("image/png", buf.Bytes()), nil
}
