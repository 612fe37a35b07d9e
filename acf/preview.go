package acf

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Preview colors. Parts are grey boxes, gear dark circles, rotors green
// discs, matching the SDF debug materials.
var (
	previewPart  = color.RGBA{160, 160, 160, 255}
	previewEdge  = color.RGBA{60, 60, 60, 255}
	previewGear  = color.RGBA{25, 25, 25, 255}
	previewRotor = color.RGBA{0, 170, 0, 255}
)

// PreviewRenderer draws a top-down (target-frame X/Y plane) view of the
// assembled scene as SVG or PNG. The nose points up on the page.
type PreviewRenderer struct {
	Scene      *Scene
	Scale      float64           // canvas millimeters per world meter
	Padding    float64           // world meters around the layout
	Resolution canvas.Resolution // PNG rasterization resolution
}

// NewPreviewRenderer creates a renderer with default scale and padding.
func NewPreviewRenderer(scene *Scene) *PreviewRenderer {
	return &PreviewRenderer{
		Scene:      scene,
		Scale:      100.0, // 1 m -> 100 mm on the page
		Padding:    0.5,
		Resolution: canvas.DPI(150),
	}
}

type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// worldBounds returns the X/Y extent of everything drawable.
func (r *PreviewRenderer) worldBounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64

	extend := func(x, y float64) {
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}

	for _, c := range r.Scene.Collisions {
		extend(c.Position.X-c.Size.X/2, c.Position.Y-c.Size.Y/2)
		extend(c.Position.X+c.Size.X/2, c.Position.Y+c.Size.Y/2)
	}
	for _, g := range r.Scene.Gear {
		extend(g.Position.X-g.Radius, g.Position.Y-g.Radius)
		extend(g.Position.X+g.Radius, g.Position.Y+g.Radius)
	}
	for _, rot := range r.Scene.Rotors {
		extend(rot.Position.X-rot.Radius, rot.Position.Y-rot.Radius)
		extend(rot.Position.X+rot.Radius, rot.Position.Y+rot.Radius)
	}

	if minX > maxX {
		// Nothing drawable; give the page a unit square.
		return -0.5, -0.5, 0.5, 0.5
	}
	return minX, minY, maxX, maxY
}

// pageSize returns the canvas dimensions in millimeters.
func (r *PreviewRenderer) pageSize() (width, height float64) {
	minX, minY, maxX, maxY := r.worldBounds()
	// World Y (left) spans the page horizontally, world X (forward)
	// vertically, so the aircraft nose points up.
	width = ((maxY - minY) + 2*r.Padding) * r.Scale
	height = ((maxX - minX) + 2*r.Padding) * r.Scale
	return width, height
}

// toCanvas maps a world X/Y position to page coordinates (origin bottom
// left, y up).
func (r *PreviewRenderer) toCanvas(x, y float64) (float64, float64) {
	minX, _, _, maxY := r.worldBounds()
	cx := ((maxY - y) + r.Padding) * r.Scale
	cy := ((x - minX) + r.Padding) * r.Scale
	return cx, cy
}

// RenderToSVG writes the preview as an SVG document.
func (r *PreviewRenderer) RenderToSVG(w io.Writer) error {
	width, height := r.pageSize()
	svgRenderer := svg.New(w, width, height, nil)
	r.renderToCanvas(svgRenderer, width, height)
	return svgRenderer.Close()
}

// RenderToPNG writes the preview as a PNG image with part labels.
func (r *PreviewRenderer) RenderToPNG(w io.Writer) error {
	width, height := r.pageSize()
	rast := rasterizer.New(width, height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, width, height)
	r.drawLabels(rast, width, height)
	return png.Encode(w, rast)
}

// renderToCanvas draws the scene geometry (shared between SVG and PNG).
func (r *PreviewRenderer) renderToCanvas(renderer canvasRenderer, width, height float64) {
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width, height), bgStyle, canvas.Identity)

	partStyle := canvas.DefaultStyle
	partStyle.Fill = canvas.Paint{Color: previewPart}
	partStyle.Stroke = canvas.Paint{Color: previewEdge}
	partStyle.StrokeWidth = 0.5

	for _, c := range r.Scene.Collisions {
		cp := &canvas.Path{}
		corners := [4][2]float64{
			{c.Position.X - c.Size.X/2, c.Position.Y - c.Size.Y/2},
			{c.Position.X + c.Size.X/2, c.Position.Y - c.Size.Y/2},
			{c.Position.X + c.Size.X/2, c.Position.Y + c.Size.Y/2},
			{c.Position.X - c.Size.X/2, c.Position.Y + c.Size.Y/2},
		}
		for i, corner := range corners {
			cx, cy := r.toCanvas(corner[0], corner[1])
			if i == 0 {
				cp.MoveTo(cx, cy)
			} else {
				cp.LineTo(cx, cy)
			}
		}
		cp.Close()
		renderer.RenderPath(cp, partStyle, canvas.Identity)
	}

	rotorStyle := canvas.DefaultStyle
	rotorStyle.Fill = canvas.Paint{Color: previewRotor}
	rotorStyle.Stroke = canvas.Paint{Color: canvas.Transparent}
	for _, rot := range r.Scene.Rotors {
		cx, cy := r.toCanvas(rot.Position.X, rot.Position.Y)
		disc := canvas.Circle(rot.Radius * r.Scale).Translate(cx, cy)
		renderer.RenderPath(disc, rotorStyle, canvas.Identity)
	}

	gearStyle := canvas.DefaultStyle
	gearStyle.Fill = canvas.Paint{Color: previewGear}
	gearStyle.Stroke = canvas.Paint{Color: canvas.Transparent}
	for _, g := range r.Scene.Gear {
		cx, cy := r.toCanvas(g.Position.X, g.Position.Y)
		wheel := canvas.Circle(math.Max(g.Radius, 0.02) * r.Scale).Translate(cx, cy)
		renderer.RenderPath(wheel, gearStyle, canvas.Identity)
	}
}

// drawLabels overlays part names on the rasterized image. Vector output
// skips labels since canvas text needs a loaded font family.
func (r *PreviewRenderer) drawLabels(rast *rasterizer.Rasterizer, width, height float64) {
	// Page millimeters -> image pixels.
	pxPerMM := float64(rast.Bounds().Dx()) / width
	imgHeight := rast.Bounds().Dy()

	for _, c := range r.Scene.Collisions {
		cx, cy := r.toCanvas(c.Position.X, c.Position.Y)
		x := int(cx * pxPerMM)
		// Canvas y is bottom-up, image y is top-down.
		y := imgHeight - int(cy*pxPerMM)
		drawText(rast, x, y, c.Name, color.RGBA{0, 0, 0, 255})
	}
}

// drawText renders text onto an image at the specified position.
func drawText(dst *rasterizer.Rasterizer, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
