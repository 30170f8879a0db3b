package costume

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

var (
	ErrNoFrames       = errors.New("costume has no frames")
	ErrUnknownCostume = errors.New("unknown costume")
)

// PaintMode selects how a costume fills its actor's shape.
type PaintMode int

const (
	// PaintCenter draws the image once, centred on the body.
	PaintCenter PaintMode = iota
	// PaintTile repeats the image across the shape's bounding box.
	PaintTile
)

func (m PaintMode) String() string {
	switch m {
	case PaintCenter:
		return "center"
	case PaintTile:
		return "tile"
	default:
		return fmt.Sprintf("PaintMode(%d)", int(m))
	}
}

type Options struct {
	// Scale multiplies the natural frame size; zero means 1.
	Scale float64
	// TransparentColor pixels become fully transparent.
	TransparentColor color.Color
	// Transparent keys out the top-left pixel colour when TransparentColor
	// is nil.
	Transparent bool
	Paint       PaintMode
}

// Costume is a named sequence of frames with its own animation.
type Costume struct {
	name   string
	source []image.Image
	scaled []image.Image
	images []*ebiten.Image

	scaleX, scaleY float64
	paint          PaintMode
	anim           Animation
}

// New builds a costume from frames, applying the colour key and the initial
// scale.
func New(name string, frames []image.Image, opts Options) (*Costume, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("costume: new %q: %w", name, ErrNoFrames)
	}
	c := &Costume{name: name, paint: opts.Paint}
	c.source = make([]image.Image, len(frames))
	for i, f := range frames {
		if f == nil {
			return nil, fmt.Errorf("costume: new %q: frame %d is nil: %w", name, i, ErrNoFrames)
		}
		key := opts.TransparentColor
		if key == nil && opts.Transparent {
			b := f.Bounds()
			key = f.At(b.Min.X, b.Min.Y)
		}
		if key != nil {
			f = applyColorKey(f, key)
		}
		c.source[i] = f
	}
	c.anim.bind(len(frames))

	s := opts.Scale
	if s <= 0 {
		s = 1
	}
	c.rescale(s, s)
	return c, nil
}

func (c *Costume) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Len returns the number of frames.
func (c *Costume) Len() int {
	if c == nil {
		return 0
	}
	return len(c.source)
}

func (c *Costume) Paint() PaintMode {
	if c == nil {
		return PaintCenter
	}
	return c.paint
}

func (c *Costume) SetPaint(m PaintMode) {
	if c == nil {
		return
	}
	c.paint = m
}

// Scale returns the horizontal and vertical scale factors.
func (c *Costume) Scale() (float64, float64) {
	if c == nil {
		return 1, 1
	}
	return c.scaleX, c.scaleY
}

// SetScale rebuilds every scaled frame at the uniform factor s. Non-positive
// factors are ignored.
func (c *Costume) SetScale(s float64) {
	if c == nil || !(s > 0) || math.IsInf(s, 0) {
		return
	}
	c.rescale(s, s)
}

// FitTo scales the frames so the first one covers w×h exactly.
func (c *Costume) FitTo(w, h float64) {
	if c == nil || !(w > 0) || !(h > 0) {
		return
	}
	nw, nh := c.NaturalSize()
	if nw == 0 || nh == 0 {
		return
	}
	c.rescale(w/float64(nw), h/float64(nh))
}

// NaturalSize returns the unscaled size of the first frame.
func (c *Costume) NaturalSize() (int, int) {
	if c == nil || len(c.source) == 0 {
		return 0, 0
	}
	b := c.source[0].Bounds()
	return b.Dx(), b.Dy()
}

// Size returns the scaled size of the current frame.
func (c *Costume) Size() (int, int) {
	f := c.Frame()
	if f == nil {
		return 0, 0
	}
	b := f.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Costume) rescale(sx, sy float64) {
	c.scaleX, c.scaleY = sx, sy
	c.scaled = make([]image.Image, len(c.source))
	for i, src := range c.source {
		c.scaled[i] = scaleImage(src, sx, sy)
	}
	c.images = make([]*ebiten.Image, len(c.source))
}

// Animation exposes the costume's animation state.
func (c *Costume) Animation() *Animation {
	if c == nil {
		return nil
	}
	return &c.anim
}

func (c *Costume) Start(now time.Duration, loop bool, from int, frameTime time.Duration) {
	if c == nil {
		return
	}
	c.anim.Start(now, loop, from, frameTime)
}

func (c *Costume) Stop() {
	if c == nil {
		return
	}
	c.anim.Stop()
}

// Update advances the animation and reports whether the frame changed.
func (c *Costume) Update(now time.Duration) bool {
	if c == nil {
		return false
	}
	return c.anim.Update(now)
}

// Index returns the current frame index.
func (c *Costume) Index() int {
	if c == nil {
		return 0
	}
	return c.anim.Index
}

// Frame returns the current scaled frame.
func (c *Costume) Frame() image.Image {
	if c == nil || len(c.scaled) == 0 {
		return nil
	}
	return c.scaled[clampIndex(c.anim.Index, len(c.scaled))]
}

// Image returns the current frame as an ebiten image, converting it on
// first use.
func (c *Costume) Image() *ebiten.Image {
	if c == nil || len(c.scaled) == 0 {
		return nil
	}
	i := clampIndex(c.anim.Index, len(c.scaled))
	if c.images[i] == nil {
		c.images[i] = ebiten.NewImageFromImage(c.scaled[i])
	}
	return c.images[i]
}

func scaleImage(src image.Image, sx, sy float64) image.Image {
	b := src.Bounds()
	if sx == 1 && sy == 1 {
		return src
	}
	w := int(math.Max(1, math.Round(float64(b.Dx())*sx)))
	h := int(math.Max(1, math.Round(float64(b.Dy())*sy)))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func applyColorKey(src image.Image, key color.Color) image.Image {
	kr, kg, kb, ka := key.RGBA()
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, a := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if r == kr && g == kg && bl == kb && a == ka {
				dst.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	return dst
}
