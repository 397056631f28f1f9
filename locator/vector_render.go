package locator

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// VectorRenderer renders a top-down scene of station rays and located
// targets as vector graphics, for resolution-independent output.
type VectorRenderer struct {
	Stations []ResolvedStation
	Rays     []Ray
	Targets  []LocatedTarget
	Padding  float64 // padding in meters
}

// NewVectorRenderer creates a vector renderer with 10m padding.
func NewVectorRenderer(stations []ResolvedStation, rays []Ray, targets []LocatedTarget) *VectorRenderer {
	return &VectorRenderer{Stations: stations, Rays: rays, Targets: targets, Padding: 10.0}
}

func (r *VectorRenderer) bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64

	consider := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	for _, s := range r.Stations {
		consider(s.Origin.X, s.Origin.Y)
	}
	for _, ray := range r.Rays {
		consider(ray.Origin.X, ray.Origin.Y)
	}
	for _, t := range r.Targets {
		consider(t.Position.X, t.Position.Y)
	}
	if minX > maxX {
		return -10, -10, 10, 10
	}
	return minX, minY, maxX, maxY
}

// canvasRenderer is implemented by both the SVG and rasterizer backends.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the scene as an SVG document to w.
func (r *VectorRenderer) RenderToSVG(w io.Writer) error {
	minX, minY, maxX, maxY := r.bounds()
	width := (maxX - minX) + 2*r.Padding
	height := (maxY - minY) + 2*r.Padding

	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, minX, minY, maxY, width, height)
	return svgRenderer.Close()
}

// RenderToPNG rasterizes the scene at 150 DPI and writes it as a PNG to w.
func (r *VectorRenderer) RenderToPNG(w io.Writer) error {
	minX, minY, maxX, maxY := r.bounds()
	width := (maxX - minX) + 2*r.Padding
	height := (maxY - minY) + 2*r.Padding

	rast := rasterizer.New(width, height, canvas.DPI(150), canvas.DefaultColorSpace)
	r.renderToCanvas(rast, minX, minY, maxY, width, height)
	return png.Encode(w, rast)
}

// SaveSVG renders the scene as an SVG file at path.
func (r *VectorRenderer) SaveSVG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating SVG output: %w", err)
	}
	defer f.Close()
	return r.RenderToSVG(f)
}

func (r *VectorRenderer) renderToCanvas(renderer canvasRenderer, minX, minY, maxY, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	toCanvas := func(x, y float64) (float64, float64) {
		// SVG y grows downward; flip so north is up.
		return (x - minX) + r.Padding, (maxY - y) + r.Padding
	}

	rayStyle := canvas.DefaultStyle
	rayStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	rayStyle.Stroke = canvas.Paint{Color: color.RGBA{150, 150, 220, 255}}
	rayStyle.StrokeWidth = 0.05
	rayStyle.Dashes = []float64{0.3, 0.3}

	rayLength := math.Hypot(width, height)
	for _, ray := range r.Rays {
		end := ray.Origin.Add(ray.Direction.Scale(rayLength))
		path := &canvas.Path{}
		x0, y0 := toCanvas(ray.Origin.X, ray.Origin.Y)
		x1, y1 := toCanvas(end.X, end.Y)
		path.MoveTo(x0, y0)
		path.LineTo(x1, y1)
		renderer.RenderPath(path, rayStyle, canvas.Identity)
	}

	stationStyle := canvas.DefaultStyle
	stationStyle.Fill = canvas.Paint{Color: color.RGBA{50, 50, 50, 255}}
	stationStyle.Stroke = canvas.Paint{Color: canvas.Transparent}
	const stationHalf = 0.3
	for _, s := range r.Stations {
		cx, cy := toCanvas(s.Origin.X, s.Origin.Y)
		path := &canvas.Path{}
		path.MoveTo(cx-stationHalf, cy-stationHalf)
		path.LineTo(cx+stationHalf, cy-stationHalf)
		path.LineTo(cx+stationHalf, cy+stationHalf)
		path.LineTo(cx-stationHalf, cy+stationHalf)
		path.Close()
		renderer.RenderPath(path, stationStyle, canvas.Identity)
	}

	targetStyle := canvas.DefaultStyle
	targetStyle.Fill = canvas.Paint{Color: color.RGBA{200, 30, 30, 255}}
	targetStyle.Stroke = canvas.Paint{Color: canvas.Transparent}
	for _, t := range r.Targets {
		cx, cy := toCanvas(t.Position.X, t.Position.Y)
		path := canvas.Circle(0.4)
		path = path.Translate(cx, cy)
		renderer.RenderPath(path, targetStyle, canvas.Identity)
	}
}
