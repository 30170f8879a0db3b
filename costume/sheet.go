package costume

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Loader resolves an image path into one or more frames. Animated formats
// yield one frame per source frame.
type Loader interface {
	LoadFrames(path string) ([]image.Image, error)
}

// Load builds a costume from the frames of every path, in order.
func Load(l Loader, name string, paths []string, opts Options) (*Costume, error) {
	if l == nil {
		return nil, fmt.Errorf("costume: load %q: no loader: %w", name, ErrNoFrames)
	}
	var frames []image.Image
	for _, p := range paths {
		f, err := l.LoadFrames(p)
		if err != nil {
			return nil, fmt.Errorf("costume: load %q: %w", name, err)
		}
		frames = append(frames, f...)
	}
	return New(name, frames, opts)
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

// SliceSheet cuts a spritesheet into frameW×frameH frames read left to
// right, top to bottom. count <= 0 takes every whole frame.
func SliceSheet(sheet image.Image, frameW, frameH, count int) ([]image.Image, error) {
	if sheet == nil || frameW <= 0 || frameH <= 0 {
		return nil, fmt.Errorf("costume: slice sheet %dx%d: %w", frameW, frameH, ErrNoFrames)
	}
	b := sheet.Bounds()
	cols, rows := b.Dx()/frameW, b.Dy()/frameH
	total := cols * rows
	if total == 0 {
		return nil, fmt.Errorf("costume: slice sheet %dx%d larger than %v: %w", frameW, frameH, b.Size(), ErrNoFrames)
	}
	if count <= 0 || count > total {
		count = total
	}

	frames := make([]image.Image, count)
	for i := range frames {
		col, row := i%cols, i/cols
		r := image.Rect(col*frameW, row*frameH, (col+1)*frameW, (row+1)*frameH).Add(b.Min)
		if si, ok := sheet.(subImager); ok {
			frames[i] = si.SubImage(r)
			continue
		}
		dst := image.NewNRGBA(image.Rect(0, 0, frameW, frameH))
		draw.Draw(dst, dst.Bounds(), sheet, r.Min, draw.Src)
		frames[i] = dst
	}
	return frames, nil
}
