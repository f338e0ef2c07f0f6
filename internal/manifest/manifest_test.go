package manifest

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "challenge.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestLoad_ValidManifest(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 8, 8)

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	path := writeManifest(t, dir, `{
		"name": "fixture",
		"instruction": "<p>Pick the image with the most empty squares.</p>",
		"images": [
			{"path": "a.png"},
			{"data_url": "`+dataURL+`"}
		],
		"expected_index": 1
	}`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fixture", m.Name)
	require.Len(t, m.Images, 2)
	require.NotNil(t, m.ExpectedIndex)
	assert.Equal(t, 1, *m.ExpectedIndex)

	images, err := m.DecodeImages(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 8, images[0].Bounds().Dx())
	assert.Equal(t, 4, images[1].Bounds().Dx())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `{not json`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_Rules(t *testing.T) {
	idx := func(i int) *int { return &i }

	cases := map[string]Manifest{
		"missing instruction": {Images: []ImageRef{{Path: "a.png"}}},
		"no images":            {Instruction: "x"},
		"image without source": {Instruction: "x", Images: []ImageRef{{}}},
		"image with two sources": {
			Instruction: "x",
			Images:      []ImageRef{{Path: "a.png", DataURL: "data:image/png;base64,aGk="}},
		},
		"image with three sources": {
			Instruction: "x",
			Images: []ImageRef{{
				Path:    "a.png",
				DataURL: "data:image/png;base64,aGk=",
				URL:     "https://example.com/a.png",
			}},
		},
		"expected index out of range": {
			Instruction:   "x",
			Images:        []ImageRef{{Path: "a.png"}},
			ExpectedIndex: idx(3),
		},
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, m.Validate())
		})
	}

	valid := Manifest{Instruction: "x", Images: []ImageRef{{URL: "https://example.com/a.png"}}, ExpectedIndex: idx(0)}
	assert.NoError(t, valid.Validate())
}

func TestDecodeImages_MissingFile(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `{
		"instruction": "x",
		"images": [{"path": "missing.png"}]
	}`)
	m, err := Load(path)
	require.NoError(t, err)

	_, err = m.DecodeImages(context.Background())
	assert.Error(t, err)
}

func TestDecodeImages_RemoteURL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 6, 6))))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	m := Manifest{Instruction: "x", Images: []ImageRef{{URL: srv.URL + "/a.png"}}}
	require.NoError(t, m.Validate())

	images, err := m.DecodeImages(context.Background())
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, 6, images[0].Bounds().Dx())
}

func TestDecodeImages_RemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	m := Manifest{Instruction: "x", Images: []ImageRef{{URL: srv.URL + "/a.png"}}}
	_, err := m.DecodeImages(context.Background())
	assert.Error(t, err)
}
