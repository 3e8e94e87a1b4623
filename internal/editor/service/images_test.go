package service

import (
	"bytes"
	"image"
	"image/png"
	"testing"
)

func TestDecoderStaleTokenDiscarded(t *testing.T) {
	d := NewDecoder()

	first := d.Begin("bg:zh-CN")
	second := d.Begin("bg:zh-CN")

	// The second upload completes first.
	if !d.Commit("bg:zh-CN", second) {
		t.Error("latest token rejected")
	}
	// The first one finishes late and must be discarded.
	if d.Commit("bg:zh-CN", first) {
		t.Error("stale token accepted")
	}
}

func TestDecoderKeysAreIndependent(t *testing.T) {
	d := NewDecoder()

	zh := d.Begin("bg:zh-CN")
	d.Begin("bg:en-US")

	if !d.Commit("bg:zh-CN", zh) {
		t.Error("token invalidated by a decode for another key")
	}
}

func TestDecodeSize(t *testing.T) {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 750, 1334))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}

	size, err := DecodeSize(buf.Bytes())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if size.Width != 750 || size.Height != 1334 {
		t.Errorf("size = %+v", size)
	}
}

func TestDecodeSizeRejectsGarbage(t *testing.T) {
	if _, err := DecodeSize([]byte("not an image")); err == nil {
		t.Error("expected an error for non-image bytes")
	}
}
