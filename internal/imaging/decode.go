// Package imaging decodes challenge candidate images from the forms the
// capture layer delivers them in: data URLs, raw base64, and files on disk.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"
	"strings"

	// Register the decoders for the formats challenge pages serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Error represents an image decoding failure.
type Error struct {
	Source  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("imaging error for %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("imaging error for %s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// DecodeDataURL decodes a data: URL (or a bare base64 payload) into an image.
func DecodeDataURL(dataURL string) (image.Image, error) {
	payload := dataURL
	if strings.HasPrefix(dataURL, "data:") {
		_, rest, found := strings.Cut(dataURL, ",")
		if !found {
			return nil, &Error{Source: "data URL", Message: "missing comma separator"}
		}
		payload = rest
	}
	return DecodeBase64(payload)
}

// DecodeBase64 decodes a base64-encoded image payload.
func DecodeBase64(payload string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, &Error{Source: "base64 payload", Message: "invalid encoding", Cause: err}
	}
	return DecodeBytes(raw)
}

// DecodeBytes decodes raw image bytes in any registered format.
func DecodeBytes(raw []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &Error{Source: "image bytes", Message: "unrecognized format", Cause: err}
	}
	return img, nil
}

// DecodeFile decodes an image file from disk.
func DecodeFile(path string) (image.Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Source: path, Message: "cannot read file", Cause: err}
	}
	img, err := DecodeBytes(raw)
	if err != nil {
		return nil, &Error{Source: path, Message: "cannot decode image", Cause: err}
	}
	return img, nil
}

// DecodeAll decodes a batch of data URLs, failing on the first bad entry.
func DecodeAll(dataURLs []string) ([]image.Image, error) {
	images := make([]image.Image, 0, len(dataURLs))
	for i, u := range dataURLs {
		img, err := DecodeDataURL(u)
		if err != nil {
			return nil, fmt.Errorf("decoding image %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, nil
}
