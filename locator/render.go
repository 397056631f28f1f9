package locator

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"sort"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SceneRenderer rasterizes a top-down (X-Y) projection of station rays and
// located targets into a PNG.
type SceneRenderer struct {
	Stations []ResolvedStation
	Rays     []Ray
	Targets  []LocatedTarget
	Scale    float64 // pixels per meter
	Padding  int
}

// NewSceneRenderer creates a renderer with a default 1 pixel-per-meter
// scale and generous padding.
func NewSceneRenderer(stations []ResolvedStation, rays []Ray, targets []LocatedTarget) *SceneRenderer {
	return &SceneRenderer{
		Stations: stations,
		Rays:     rays,
		Targets:  targets,
		Scale:    1.0,
		Padding:  40,
	}
}

// bounds computes the X-Y extent of everything to be drawn, in meters.
func (r *SceneRenderer) bounds() (minX, minY, maxX, maxY float64) {
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

// Render draws the scene into an RGBA image.
func (r *SceneRenderer) Render() *image.RGBA {
	minX, minY, maxX, maxY := r.bounds()

	width := int((maxX-minX)*r.Scale) + 2*r.Padding
	height := int((maxY-minY)*r.Scale) + 2*r.Padding
	if width < 100 {
		width = 100
	}
	if height < 100 {
		height = 100
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{250, 250, 250, 255})
		}
	}

	toPixel := func(x, y float64) (int, int) {
		px := int((x-minX)*r.Scale) + r.Padding
		py := height - (int((y-minY)*r.Scale) + r.Padding)
		return px, py
	}

	rayColor := color.RGBA{150, 150, 220, 255}
	for _, ray := range r.Rays {
		end := ray.Origin.Add(ray.Direction.Scale(maxDistanceOf(minX, minY, maxX, maxY)))
		x0, y0 := toPixel(ray.Origin.X, ray.Origin.Y)
		x1, y1 := toPixel(end.X, end.Y)
		drawLineXY(img, x0, y0, x1, y1, rayColor)
	}

	stationColor := color.RGBA{50, 50, 50, 255}
	for _, s := range r.Stations {
		px, py := toPixel(s.Origin.X, s.Origin.Y)
		drawSquare(img, px, py, 6, stationColor)
		drawText(img, px+8, py, s.ID, stationColor)
	}

	targetColor := color.RGBA{200, 30, 30, 255}
	for _, t := range r.Targets {
		px, py := toPixel(t.Position.X, t.Position.Y)
		drawCircle(img, px, py, 5, targetColor)
		drawText(img, px+8, py+4, t.ID, targetColor)
	}

	r.drawLegend(img, width, height)
	return img
}

func maxDistanceOf(minX, minY, maxX, maxY float64) float64 {
	dx, dy := maxX-minX, maxY-minY
	return math.Sqrt(dx*dx+dy*dy) + 10
}

// drawLineXY draws a line via Bresenham's algorithm.
func drawLineXY(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	bounds := img.Bounds()
	for {
		if x0 >= bounds.Min.X && x0 < bounds.Max.X && y0 >= bounds.Min.Y && y0 < bounds.Max.Y {
			img.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func drawCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				x, y := cx+dx, cy+dy
				if x >= 0 && x < img.Bounds().Max.X && y >= 0 && y < img.Bounds().Max.Y {
					img.Set(x, y, c)
				}
			}
		}
	}
}

func drawSquare(img *image.RGBA, cx, cy, size int, c color.RGBA) {
	half := size / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			x, y := cx+dx, cy+dy
			if x >= 0 && x < img.Bounds().Max.X && y >= 0 && y < img.Bounds().Max.Y {
				img.Set(x, y, c)
			}
		}
	}
}

func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

func (r *SceneRenderer) drawLegend(img *image.RGBA, width, height int) {
	ids := make([]string, 0, len(r.Targets))
	for _, t := range r.Targets {
		ids = append(ids, t.ID)
	}
	sort.Strings(ids)

	y := 15
	for _, id := range ids {
		drawText(img, 10, y, fmt.Sprintf("target %s", id), color.RGBA{0, 0, 0, 255})
		y += 16
	}
}

// SavePNG renders the scene and writes it to path.
func (r *SceneRenderer) SavePNG(path string) error {
	img := r.Render()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating PNG output: %w", err)
	}
	defer f.Close()
	return png.Encode(f, img)
}
