package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/charmbracelet/log"
	"github.com/gamejr/gamejr/costume"
	"github.com/gamejr/gamejr/physics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultTextSize is used when a text asks for size zero.
const DefaultTextSize = 14

// Item is everything needed to draw one actor.
type Item struct {
	Plan        Plan
	Fill        color.Color
	Border      float64
	BorderColor color.Color

	// Costume is the active, already scaled frame. Nil draws the shape only.
	Costume *ebiten.Image
	Paint   costume.PaintMode

	Heading   bool
	CenterDot bool
	Texts     []Text
}

// Text is a label anchored to the body centre. Offset is in screen pixels
// with y pointing up.
type Text struct {
	Text       string
	Offset     cp.Vector
	Size       float64
	Color      color.Color
	Background color.Color
}

// Compositor draws actors through reusable scratch surfaces.
type Compositor struct {
	base, art, mask scratch
	path            vector.Path

	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
	logger *log.Logger
}

func NewCompositor(logger *log.Logger) (*Compositor, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("render: load font: %w", err)
	}
	return &Compositor{
		source: src,
		faces:  make(map[float64]*text.GoTextFace),
		logger: logger,
	}, nil
}

// Close releases the scratch surfaces.
func (c *Compositor) Close() {
	if c == nil {
		return
	}
	c.base.release()
	c.art.release()
	c.mask.release()
}

// DrawActor composites one actor onto dst.
func (c *Compositor) DrawActor(dst *ebiten.Image, it Item) {
	if c == nil || dst == nil {
		return
	}
	plan := it.Plan
	vis := plan.Box.Intersect(dst.Bounds())
	if !vis.Empty() {
		c.drawShape(dst, it, vis)
	}
	center := plan.Center.Add(vec(plan.Box.Min))
	for _, t := range it.Texts {
		c.DrawText(dst, t, center)
	}
}

func (c *Compositor) drawShape(dst *ebiten.Image, it Item, vis image.Rectangle) {
	plan := it.Plan
	shift := vec(vis.Min.Sub(plan.Box.Min))
	local := make([]cp.Vector, len(plan.Local))
	for i, p := range plan.Local {
		local[i] = p.Sub(shift)
	}
	center := plan.Center.Sub(shift)
	w, h := vis.Dx(), vis.Dy()

	base := c.base.get(w, h)
	if plan.Kind == physics.KindSegment {
		c.strokeSegment(base, local, segmentWidth(it), segmentColor(it))
	} else if visible(it.Fill) {
		c.fill(base, plan.Kind, local, plan.Radius, it.Fill)
	}

	if it.Costume != nil {
		art := c.art.get(w, h)
		if it.Paint == costume.PaintTile {
			tile(art, it.Costume, plan.Zoom)
		} else {
			op := &ebiten.DrawImageOptions{}
			iw, ih := it.Costume.Bounds().Dx(), it.Costume.Bounds().Dy()
			op.GeoM.Translate(-float64(iw)/2, -float64(ih)/2)
			op.GeoM.Scale(plan.Zoom, plan.Zoom)
			op.GeoM.Rotate(plan.ImageAngle)
			op.GeoM.Translate(center.X, center.Y)
			op.Filter = ebiten.FilterLinear
			art.DrawImage(it.Costume, op)
		}

		mask := c.mask.get(w, h)
		if plan.Kind == physics.KindSegment {
			c.strokeSegment(mask, local, segmentWidth(it), color.White)
		} else {
			c.fill(mask, plan.Kind, local, plan.Radius, color.White)
		}
		op := &ebiten.DrawImageOptions{}
		op.Blend = ebiten.BlendDestinationIn
		art.DrawImage(mask, op)
		base.DrawImage(art, nil)
	}

	if it.Border > 0 && plan.Kind != physics.KindSegment && visible(it.BorderColor) {
		c.stroke(base, plan.Kind, local, plan.Radius, float32(it.Border*plan.Zoom), it.BorderColor)
	}

	marker := markerColor(it)
	if it.Heading {
		tip := plan.Heading.Sub(shift)
		vector.StrokeLine(base, float32(center.X), float32(center.Y), float32(tip.X), float32(tip.Y),
			float32(math.Max(1, plan.Zoom)), marker, true)
	}
	if it.CenterDot {
		vector.FillCircle(base, float32(center.X), float32(center.Y), float32(math.Max(1, 2*plan.Zoom)), marker, true)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(vis.Min.X), float64(vis.Min.Y))
	dst.DrawImage(base, op)
}

func (c *Compositor) fill(img *ebiten.Image, kind physics.ShapeKind, local []cp.Vector, radius float64, clr color.Color) {
	switch kind {
	case physics.KindCircle:
		p := local[0]
		vector.FillCircle(img, float32(p.X), float32(p.Y), float32(radius), clr, true)
	case physics.KindPolygon:
		c.outline(local, true)
		op := &vector.DrawPathOptions{AntiAlias: true}
		op.ColorScale.ScaleWithColor(clr)
		vector.FillPath(img, &c.path, nil, op)
	default:
		panic(fmt.Sprintf("render: cannot fill shape kind %v", kind))
	}
}

func (c *Compositor) stroke(img *ebiten.Image, kind physics.ShapeKind, local []cp.Vector, radius float64, width float32, clr color.Color) {
	switch kind {
	case physics.KindCircle:
		p := local[0]
		vector.StrokeCircle(img, float32(p.X), float32(p.Y), float32(radius), width, clr, true)
	case physics.KindPolygon:
		c.outline(local, true)
		op := &vector.DrawPathOptions{AntiAlias: true}
		op.ColorScale.ScaleWithColor(clr)
		vector.StrokePath(img, &c.path, &vector.StrokeOptions{Width: width, LineJoin: vector.LineJoinRound}, op)
	default:
		panic(fmt.Sprintf("render: cannot stroke shape kind %v", kind))
	}
}

func (c *Compositor) strokeSegment(img *ebiten.Image, local []cp.Vector, width float32, clr color.Color) {
	c.outline(local, false)
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(clr)
	vector.StrokePath(img, &c.path, &vector.StrokeOptions{Width: width, LineCap: vector.LineCapRound}, op)
}

func (c *Compositor) outline(points []cp.Vector, closed bool) {
	c.path.Reset()
	for i, p := range points {
		if i == 0 {
			c.path.MoveTo(float32(p.X), float32(p.Y))
			continue
		}
		c.path.LineTo(float32(p.X), float32(p.Y))
	}
	if closed {
		c.path.Close()
	}
}

// DrawText draws t relative to anchor, a y-down screen position.
func (c *Compositor) DrawText(dst *ebiten.Image, t Text, anchor cp.Vector) {
	if c == nil || dst == nil || t.Text == "" {
		return
	}
	face := c.Face(t.Size)
	x, y := anchor.X+t.Offset.X, anchor.Y-t.Offset.Y
	if visible(t.Background) {
		w, h := text.Measure(t.Text, face, face.Size*1.2)
		vector.FillRect(dst, float32(x-2), float32(y-2), float32(w+4), float32(h+4), t.Background, false)
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.LineSpacing = face.Size * 1.2
	clr := t.Color
	if clr == nil {
		clr = color.White
	}
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, t.Text, face, op)
}

// Face returns the Go Regular face for size, cached.
func (c *Compositor) Face(size float64) *text.GoTextFace {
	if size <= 0 {
		size = DefaultTextSize
	}
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: c.source, Size: size}
	c.faces[size] = f
	return f
}

// tile repeats img across dst starting at the top-left corner.
func tile(dst, img *ebiten.Image, zoom float64) {
	iw := float64(img.Bounds().Dx()) * zoom
	ih := float64(img.Bounds().Dy()) * zoom
	if iw < 1 || ih < 1 {
		return
	}
	w, h := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	for y := 0.0; y < h; y += ih {
		for x := 0.0; x < w; x += iw {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(zoom, zoom)
			op.GeoM.Translate(x, y)
			dst.DrawImage(img, op)
		}
	}
}

func segmentWidth(it Item) float32 {
	w := math.Max(2*it.Plan.Radius, it.Border*it.Plan.Zoom)
	return float32(math.Max(w, 1))
}

func segmentColor(it Item) color.Color {
	if it.Border > 0 && visible(it.BorderColor) {
		return it.BorderColor
	}
	if visible(it.Fill) {
		return it.Fill
	}
	return color.White
}

func markerColor(it Item) color.Color {
	if visible(it.BorderColor) {
		return it.BorderColor
	}
	return color.White
}

func visible(c color.Color) bool {
	if c == nil {
		return false
	}
	_, _, _, a := c.RGBA()
	return a > 0
}

func vec(p image.Point) cp.Vector {
	return cp.Vector{X: float64(p.X), Y: float64(p.Y)}
}

// scratch is a grow-only offscreen surface handed out as a cleared
// sub-image of the requested size.
type scratch struct {
	img *ebiten.Image
}

func (s *scratch) get(w, h int) *ebiten.Image {
	if s.img == nil || s.img.Bounds().Dx() < w || s.img.Bounds().Dy() < h {
		cw, ch := w, h
		if s.img != nil {
			cw = max(cw, s.img.Bounds().Dx())
			ch = max(ch, s.img.Bounds().Dy())
			s.img.Deallocate()
		}
		s.img = ebiten.NewImage(cw, ch)
	}
	sub := s.img.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	sub.Clear()
	return sub
}

func (s *scratch) release() {
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
}
