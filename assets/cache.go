package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrNotFound = errors.New("asset not found")

// EvictionPolicy decides how many least recently used entries to drop once
// the cache holds n entries.
type EvictionPolicy interface {
	Excess(n int) int
}

// NeverEvict keeps every entry for the life of the cache.
type NeverEvict struct{}

func (NeverEvict) Excess(int) int { return 0 }

// LimitEntries keeps at most Max entries. Max <= 0 means unlimited.
type LimitEntries struct {
	Max int
}

func (l LimitEntries) Excess(n int) int {
	if l.Max <= 0 || n <= l.Max {
		return 0
	}
	return n - l.Max
}

type Options struct {
	// FS is searched after the disk; nil means the builtin assets.
	FS fs.FS
	// Dirs are searched on disk, in order, before anything else.
	Dirs   []string
	Policy EvictionPolicy
	Logger *log.Logger
}

type entry struct {
	data   []byte
	frames []image.Image
	images []*ebiten.Image
}

// Cache memoizes asset bytes, decoded frames and their ebiten images, keyed
// by the path the caller asked for.
type Cache struct {
	fsys   fs.FS
	dirs   []string
	policy EvictionPolicy
	logger *log.Logger

	entries map[string]*entry
	// order holds keys from least to most recently used.
	order []string
}

func NewCache(opts Options) *Cache {
	c := &Cache{
		fsys:    opts.FS,
		dirs:    append([]string(nil), opts.Dirs...),
		policy:  opts.Policy,
		logger:  opts.Logger,
		entries: make(map[string]*entry),
	}
	if c.fsys == nil {
		c.fsys = Builtin()
	}
	if c.policy == nil {
		c.policy = NeverEvict{}
	}
	return c
}

// SetPolicy replaces the eviction policy and applies it immediately.
func (c *Cache) SetPolicy(p EvictionPolicy) {
	if c == nil {
		return
	}
	if p == nil {
		p = NeverEvict{}
	}
	c.policy = p
	c.evict()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Contains reports whether path is cached, without touching its recency.
func (c *Cache) Contains(path string) bool {
	if c == nil {
		return false
	}
	_, ok := c.entries[path]
	return ok
}

// Clear drops every entry.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	for k, e := range c.entries {
		disposeImages(e)
		delete(c.entries, k)
	}
	c.order = nil
}

func disposeImages(e *entry) {
	for _, img := range e.images {
		if img != nil {
			img.Deallocate()
		}
	}
}

func (c *Cache) touch(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.order = append(c.order, key)
}

func (c *Cache) evict() {
	n := c.policy.Excess(len(c.order))
	for i := 0; i < n && len(c.order) > 1; i++ {
		victim := c.order[0]
		c.order = c.order[1:]
		if e, ok := c.entries[victim]; ok {
			disposeImages(e)
		}
		delete(c.entries, victim)
		if c.logger != nil {
			c.logger.Debug("assets: evict", "path", victim)
		}
	}
}

func (c *Cache) lookup(path string) (*entry, error) {
	if e, ok := c.entries[path]; ok {
		c.touch(path)
		return e, nil
	}
	data, where, err := c.read(path)
	if err != nil {
		return nil, err
	}
	e := &entry{data: data}
	c.entries[path] = e
	c.touch(path)
	if c.logger != nil {
		c.logger.Debug("assets: load", "path", path, "from", where, "bytes", len(data))
	}
	c.evict()
	return e, nil
}

// read resolves path: each configured dir, then path itself, assets/path
// and the bare file name on disk, then the embedded FS.
func (c *Cache) read(path string) ([]byte, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("assets: load: empty path: %w", ErrNotFound)
	}
	var tried []string
	for _, dir := range c.dirs {
		tried = append(tried, filepath.Join(dir, path))
	}
	tried = append(tried, path, filepath.Join("assets", path), filepath.Base(path))
	for _, p := range tried {
		if b, err := os.ReadFile(p); err == nil {
			return b, p, nil
		}
	}
	if c.fsys != nil {
		if key := cleanAssetPath(path); key != "" && fs.ValidPath(key) {
			if b, err := fs.ReadFile(c.fsys, key); err == nil {
				return b, "embedded", nil
			}
		}
	}
	return nil, "", fmt.Errorf("assets: load %s: %w", path, ErrNotFound)
}

// Bytes returns the raw contents of path.
func (c *Cache) Bytes(path string) ([]byte, error) {
	if c == nil {
		return nil, ErrNotFound
	}
	e, err := c.lookup(path)
	if err != nil {
		return nil, err
	}
	return e.data, nil
}

// LoadFrames decodes path into frames. Animated GIFs yield one composed
// frame per GIF frame; every other format yields a single frame.
func (c *Cache) LoadFrames(path string) ([]image.Image, error) {
	if c == nil {
		return nil, ErrNotFound
	}
	e, err := c.lookup(path)
	if err != nil {
		return nil, err
	}
	if e.frames == nil {
		frames, err := decodeFrames(path, e.data)
		if err != nil {
			return nil, err
		}
		e.frames = frames
		e.images = make([]*ebiten.Image, len(frames))
	}
	return e.frames, nil
}

// Load returns the first frame of path.
func (c *Cache) Load(path string) (image.Image, error) {
	frames, err := c.LoadFrames(path)
	if err != nil {
		return nil, err
	}
	return frames[0], nil
}

// Image returns the first frame of path as an ebiten image.
func (c *Cache) Image(path string) (*ebiten.Image, error) {
	if _, err := c.LoadFrames(path); err != nil {
		return nil, err
	}
	e := c.entries[path]
	if e.images[0] == nil {
		e.images[0] = ebiten.NewImageFromImage(e.frames[0])
	}
	return e.images[0], nil
}

func decodeFrames(path string, data []byte) ([]image.Image, error) {
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		g, err := gif.DecodeAll(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("assets: decode %s: %w", path, err)
		}
		if len(g.Image) > 1 {
			return composeGIF(g), nil
		}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	return []image.Image{img}, nil
}

// composeGIF renders each GIF frame over the canvas left by its
// predecessors, honouring the disposal methods.
func composeGIF(g *gif.GIF) []image.Image {
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Dx(), b.Dy()
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	frames := make([]image.Image, len(g.Image))
	for i, fr := range g.Image {
		var prev *image.NRGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			prev = cloneNRGBA(canvas)
		}
		draw.Draw(canvas, fr.Bounds(), fr, fr.Bounds().Min, draw.Over)
		frames[i] = cloneNRGBA(canvas)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, fr.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = prev
		}
	}
	return frames
}

func cloneNRGBA(src *image.NRGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
