package locator

import (
	"bytes"
	"strings"
	"testing"
)

func TestVectorRenderer_RenderToSVGProducesValidDocument(t *testing.T) {
	stations, rays, targets := sampleScene()
	r := NewVectorRenderer(stations, rays, targets)

	var buf bytes.Buffer
	if err := r.RenderToSVG(&buf); err != nil {
		t.Fatalf("RenderToSVG: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		n := buf.Len()
		if n > 80 {
			n = 80
		}
		t.Errorf("output does not look like an SVG document: %q", buf.String()[:n])
	}
}

func TestVectorRenderer_RenderToPNGProducesNonEmptyOutput(t *testing.T) {
	stations, rays, targets := sampleScene()
	r := NewVectorRenderer(stations, rays, targets)

	var buf bytes.Buffer
	if err := r.RenderToPNG(&buf); err != nil {
		t.Fatalf("RenderToPNG: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected non-empty PNG output")
	}
}

func TestVectorRenderer_BoundsDefaultsWhenEmpty(t *testing.T) {
	r := NewVectorRenderer(nil, nil, nil)
	minX, minY, maxX, maxY := r.bounds()
	if minX != -10 || minY != -10 || maxX != 10 || maxY != 10 {
		t.Errorf("bounds() = (%v,%v,%v,%v), want (-10,-10,10,10) default", minX, minY, maxX, maxY)
	}
}
