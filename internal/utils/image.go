package utils

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/leofalp/genai/providers/ai"
)

// ImageBytes resolves an image reference into raw bytes plus a MIME type.
// Local paths are read from disk, in-memory data passes through, and the
// MIME type is sniffed from content when the reference does not declare one.
// URL-only references have no bytes to return and fail here; adapters that
// can pass URLs through to the provider should check ImageRef.URL first.
func ImageBytes(ref ai.ImageRef) ([]byte, string, error) {
	var data []byte

	switch {
	case len(ref.Data) > 0:
		data = ref.Data

	case ref.Path != "":
		fileData, err := os.ReadFile(ref.Path)
		if err != nil {
			return nil, "", ai.WrapError(ai.KindConfiguration, err, "failed to read image file "+ref.Path)
		}
		data = fileData

	case ref.URL != "":
		return nil, "", ai.NewError(ai.KindUnsupportedCapability, "image reference is URL-only and this provider requires inline image bytes")

	default:
		return nil, "", ai.NewError(ai.KindConfiguration, "image reference has no path, data, or url")
	}

	mime := ref.MIME
	if mime == "" {
		mime = sniffImageMIME(data, ref.Path)
	}
	if !strings.HasPrefix(mime, "image/") {
		return nil, "", ai.Errorf(ai.KindConfiguration, "unsupported image content type %q", mime)
	}

	return data, mime, nil
}

// EncodeImageDataURL resolves an image reference into a base64 data URL, the
// form OpenAI-compatible chat endpoints accept in image_url parts. A
// URL-typed reference is returned as-is, letting the provider fetch it.
func EncodeImageDataURL(ref ai.ImageRef) (string, error) {
	if ref.URL != "" {
		return ref.URL, nil
	}

	data, mime, err := ImageBytes(ref)
	if err != nil {
		return "", err
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// sniffImageMIME detects the image MIME type from content, falling back to
// the file extension and finally to JPEG, which every supported provider
// accepts as a declared format.
func sniffImageMIME(data []byte, path string) string {
	mime := http.DetectContentType(data)
	if strings.HasPrefix(mime, "image/") {
		return mime
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
