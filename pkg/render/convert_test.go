package render

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/tiff"
)

// encodePNG returns PNG bytes for a small fully transparent image.
func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestToTIFF(t *testing.T) {
	out, err := ToTIFF(encodePNG(t))
	if err != nil {
		t.Fatalf("ToTIFF error: %v", err)
	}

	img, err := tiff.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not decodable TIFF: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("size = %dx%d, want 8x8", b.Dx(), b.Dy())
	}
}

func TestToTIFFRejectsGarbage(t *testing.T) {
	if _, err := ToTIFF([]byte("not a png")); err == nil {
		t.Error("ToTIFF should fail on non-PNG input")
	}
}

func TestToJPEG(t *testing.T) {
	out, err := ToJPEG(encodePNG(t), 90)
	if err != nil {
		t.Fatalf("ToJPEG error: %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not decodable JPEG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("size = %dx%d, want 8x8", b.Dx(), b.Dy())
	}

	// Transparency must flatten onto white, not black.
	r, g, b, _ := img.At(4, 4).RGBA()
	if r < 0xc000 || g < 0xc000 || b < 0xc000 {
		t.Errorf("transparent content flattened to %v, want near-white", img.At(4, 4))
	}
}

func TestToJPEGQualityBounds(t *testing.T) {
	data := encodePNG(t)
	for _, q := range []int{0, -5, 101} {
		if _, err := ToJPEG(data, q); err == nil {
			t.Errorf("quality %d should be rejected", q)
		}
	}
}
