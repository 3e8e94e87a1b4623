package service

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"hotspot-editor/internal/editor/models"
)

// ============================================================
// Image Decoding
// ============================================================

// Decoder guards against out-of-order decode completions. Replacing a
// background image while a previous decode is in flight must not let the
// stale result overwrite the newer one, so each Begin invalidates every
// earlier token for the same key.
type Decoder struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func NewDecoder() *Decoder {
	return &Decoder{latest: make(map[string]uint64)}
}

// Begin registers a new decode for the key and returns its token.
func (d *Decoder) Begin(key string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.latest[key]++
	return d.latest[key]
}

// Commit reports whether the token still is the latest for the key.
// Stale completions must be discarded by the caller.
func (d *Decoder) Commit(key string, token uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.latest[key] == token
}

// DecodeSize reads the pixel dimensions from image bytes without decoding
// the full pixel data.
func DecodeSize(data []byte) (models.ImageSize, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return models.ImageSize{}, fmt.Errorf("decode image: %w", err)
	}
	return models.ImageSize{Width: cfg.Width, Height: cfg.Height}, nil
}
