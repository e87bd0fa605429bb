package ocr

import (
	"reflect"
	"testing"
)

func TestNewInput(t *testing.T) {
	payload := []byte{0x89, 'P', 'N', 'G'}
	region := Region{X: 0, Y: 0, Width: 10, Height: 5}
	meta := map[string]string{"psm": "6"}

	in := NewInput(
		payload,
		ImageFormatPNG,
		WithLanguages("eng", "spa"),
		WithRegion(region),
		WithDPI(300),
		WithHOCR(),
		WithMetadata(meta),
	)
	if in.Format != ImageFormatPNG {
		t.Fatalf("unexpected format: %v", in.Format)
	}
	if !reflect.DeepEqual(in.Image, payload) {
		t.Fatalf("unexpected payload: %v", in.Image)
	}
	if !reflect.DeepEqual(in.Languages, []string{"eng", "spa"}) {
		t.Fatalf("unexpected languages: %+v", in.Languages)
	}
	if in.Region == nil || *in.Region != region {
		t.Fatalf("unexpected region: %#v", in.Region)
	}
	if in.DPI != 300 {
		t.Fatalf("unexpected dpi: %d", in.DPI)
	}
	if !in.HOCR {
		t.Fatalf("expected hOCR flag to be set")
	}
	meta["psm"] = "7"
	if in.Metadata["psm"] != "6" {
		t.Fatalf("metadata was not copied: %+v", in.Metadata)
	}
}

func TestWithRegionClearsEmpty(t *testing.T) {
	in := Input{Region: &Region{X: 1, Y: 1, Width: 2, Height: 2}}
	WithRegion(Region{})(&in)
	if in.Region != nil {
		t.Fatalf("empty region should clear the field, got %#v", in.Region)
	}
}

func TestWithMetadataClearsEmpty(t *testing.T) {
	in := Input{Metadata: map[string]string{"k": "v"}}
	WithMetadata(nil)(&in)
	if in.Metadata != nil {
		t.Fatalf("empty metadata should clear the field, got %#v", in.Metadata)
	}
}

func TestRegionIsEmpty(t *testing.T) {
	cases := []struct {
		region Region
		want   bool
	}{
		{Region{Width: 1, Height: 1}, false},
		{Region{Width: 0, Height: 1}, true},
		{Region{Width: 1, Height: 0}, true},
		{Region{Width: -1, Height: 1}, true},
	}
	for _, tc := range cases {
		if got := tc.region.IsEmpty(); got != tc.want {
			t.Fatalf("IsEmpty(%+v) = %v, want %v", tc.region, got, tc.want)
		}
	}
}
