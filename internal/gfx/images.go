package gfx

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// Image is a decoded bitmap, one pixel per cell, split into Cols x Rows
// equal tiles.
type Image struct {
	Name   string
	Bitmap *core.Screen // nil when the file could not be loaded
	Cols   int
	Rows   int
}

// Loaded reports whether the file was decoded.
func (img *Image) Loaded() bool {
	return img.Bitmap != nil
}

// Tile returns the source region of tile index, counted row by row.
func (img *Image) Tile(index int) (core.Rect, bool) {
	if !img.Loaded() || img.Cols <= 0 || img.Rows <= 0 {
		return core.Rect{}, false
	}
	if index < 0 || index >= img.Cols*img.Rows {
		return core.Rect{}, false
	}
	w := img.Bitmap.Width() / img.Cols
	h := img.Bitmap.Height() / img.Rows
	tx := index % img.Cols
	ty := index / img.Cols
	return core.NewRect(tx*w, ty*h, w, h), true
}

// Images caches decoded images by file name. A file that fails to load is
// cached too, so a script drawing it every frame only warns once.
type Images struct {
	logger *log.Logger
	images map[string]*Image
}

// NewImages creates an empty cache.
func NewImages(logger *log.Logger) *Images {
	return &Images{
		logger: logger,
		images: make(map[string]*Image),
	}
}

// Get returns the cached image, loading it as a single tile on first use.
func (c *Images) Get(name string) *Image {
	if img, ok := c.images[name]; ok {
		return img
	}
	return c.open(name, 1, 1)
}

// Load decodes name on first use and reports whether it is available.
// On first load cols and rows set the tiling.
func (c *Images) Load(name string, cols, rows int) bool {
	if img, ok := c.images[name]; ok {
		return img.Loaded()
	}
	return c.open(name, cols, rows).Loaded()
}

// SetTiled changes the tiling of name, loading it if needed.
func (c *Images) SetTiled(name string, cols, rows int) bool {
	if cols <= 0 || rows <= 0 {
		return false
	}
	img := c.Get(name)
	img.Cols = cols
	img.Rows = rows
	return img.Loaded()
}

func (c *Images) open(name string, cols, rows int) *Image {
	img := &Image{Name: name, Cols: max(cols, 1), Rows: max(rows, 1)}
	bitmap, err := Decode(name)
	if err != nil {
		c.logger.Warn("image not loaded", "image", name, "error", err)
	} else {
		img.Bitmap = bitmap
		c.logger.Debug("image loaded", "image", name,
			"width", bitmap.Width(), "height", bitmap.Height())
	}
	c.images[name] = img
	return img
}

// Names returns the cached file names in sorted order.
func (c *Images) Names() []string {
	names := make([]string, 0, len(c.images))
	for name := range c.images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of cached entries, loaded or not.
func (c *Images) Len() int {
	return len(c.images)
}

// Clear drops every cached image.
func (c *Images) Clear() {
	clear(c.images)
}

// Decode reads a PNG, JPEG or GIF file into a cell bitmap.
func Decode(name string) (*core.Screen, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("gfx: cannot open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("gfx: cannot decode %s: %w", name, err)
	}
	return FromImage(src), nil
}

// FromImage converts an image to a cell bitmap.
func FromImage(src image.Image) *core.Screen {
	b := src.Bounds()
	s := core.NewScreen(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			s.Set(x-b.Min.X, y-b.Min.Y, core.Cell{
				Rune: ' ',
				BG:   core.Color{R: n.R, G: n.G, B: n.B, A: n.A},
			})
		}
	}
	return s
}
