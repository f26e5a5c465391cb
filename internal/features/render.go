// Package features renders candidate via groups into fixed-size raster
// snippets that the cell classifier consumes.
package features

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"cell-tracer/internal/cache"
	"cell-tracer/internal/project"
	"cell-tracer/internal/row"
	"cell-tracer/internal/via"
	"cell-tracer/pkg/geometry"
)

// RenderOptions configures how windows are rendered.
type RenderOptions struct {
	// Snippet size in pixels. Every snippet has exactly Width*Height features.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// Margin is added left of the first via and right of the last one,
	// in database units.
	Margin float64 `toml:"margin"`

	// DefaultViaSize is the side of the square drawn for vias that have no
	// definition in the layout, in database units.
	DefaultViaSize float64 `toml:"default_via_size"`

	// ArtifactDir, when set, receives a PNG for every rendered window.
	ArtifactDir string `toml:"artifact_dir"`
	// ArtifactScale enlarges PNG artifacts by an integer factor.
	ArtifactScale int `toml:"artifact_scale"`

	// CacheTTL bounds how long rendered snippets stay cached. Zero keeps them.
	CacheTTL time.Duration `toml:"-"`
}

// DefaultRenderOptions returns the 200x400 snippet convention with a 350
// unit margin on each side.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:          200,
		Height:         400,
		Margin:         350,
		DefaultViaSize: 140,
		ArtifactScale:  1,
	}
}

// Window returns the region rendered for a group on row rowIndex: the row's
// full height, from Margin left of the first via to Margin right of the last.
func Window(g via.Group, rowIndex int, rowHeight, margin float64) geometry.Rect {
	left := g[0].X() - margin
	return geometry.Rect{
		X:      left,
		Y:      row.Origin(rowIndex, rowHeight),
		Width:  g[len(g)-1].X() - left + margin,
		Height: rowHeight,
	}
}

// Renderer rasterizes via shapes inside a window. It is safe for concurrent
// use when its cache is.
type Renderer struct {
	opts      RenderOptions
	rowHeight float64
	viaDefs   map[string]project.ViaDef
	cache     cache.Cache
}

// NewRenderer creates a renderer. A nil cache disables caching.
func NewRenderer(viaDefs map[string]project.ViaDef, rowHeight float64, opts RenderOptions, c cache.Cache) *Renderer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if opts.ArtifactScale < 1 {
		opts.ArtifactScale = 1
	}
	return &Renderer{
		opts:      opts,
		rowHeight: rowHeight,
		viaDefs:   viaDefs,
		cache:     c,
	}
}

// Options returns the renderer's options.
func (r *Renderer) Options() RenderOptions { return r.opts }

// FeatureCount returns the length of every snippet's feature vector.
func (r *Renderer) FeatureCount() int { return r.opts.Width * r.opts.Height }

// GroupWindow returns the window rendered for a non-empty group on the given row.
func (r *Renderer) GroupWindow(rowIndex int, g via.Group) geometry.Rect {
	return Window(g, rowIndex, r.rowHeight, r.opts.Margin)
}

// RenderGroup renders the window around a candidate group on the given row.
func (r *Renderer) RenderGroup(ctx context.Context, rowIndex int, g via.Group) (*Snippet, error) {
	if len(g) == 0 {
		return nil, fmt.Errorf("render: empty group")
	}
	return r.Render(ctx, r.GroupWindow(rowIndex, g), g)
}

// Render rasterizes the given vias clipped to the window. The window is
// scaled uniformly to fit the snippet and centered; y is flipped so the
// window's bottom edge is the snippet's bottom row.
func (r *Renderer) Render(ctx context.Context, win geometry.Rect, vias []via.Via) (*Snippet, error) {
	if win.Empty() {
		return nil, fmt.Errorf("render: empty window %+v", win)
	}
	w, h := r.opts.Width, r.opts.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: invalid snippet size %dx%d", w, h)
	}

	key := r.cacheKey(win, vias)
	if data, ok, err := r.cache.Get(ctx, key); err == nil && ok && len(data) == w*h {
		return snippetFromAlpha(w, h, data), nil
	}

	scale := math.Min(float64(w)/win.Width, float64(h)/win.Height)
	offX := (float64(w) - win.Width*scale) / 2
	offY := (float64(h) - win.Height*scale) / 2
	toPixel := func(p geometry.Point2D) (float32, float32) {
		x := offX + (p.X-win.X)*scale
		y := offY + (win.MaxY()-p.Y)*scale
		return float32(x), float32(y)
	}

	z := vector.NewRasterizer(w, h)
	for _, v := range vias {
		for _, shape := range r.shapes(v) {
			clip := shape.Intersect(win)
			if clip.Empty() {
				continue
			}
			x0, y0 := toPixel(geometry.NewPoint2D(clip.X, clip.MaxY()))
			x1, y1 := toPixel(geometry.NewPoint2D(clip.MaxX(), clip.Y))
			z.MoveTo(x0, y0)
			z.LineTo(x1, y0)
			z.LineTo(x1, y1)
			z.LineTo(x0, y1)
			z.ClosePath()
		}
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	if err := r.cache.Set(ctx, key, dst.Pix, r.opts.CacheTTL); err != nil {
		return nil, fmt.Errorf("render: cache snippet: %w", err)
	}
	return snippetFromAlpha(w, h, dst.Pix), nil
}

// WriteArtifact saves a snippet as PNG under ArtifactDir, named after the
// window corners plus the optional macro and component names. It returns
// the written path, or "" when no artifact directory is configured.
func (r *Renderer) WriteArtifact(win geometry.Rect, s *Snippet, macro, comp string) (string, error) {
	if r.opts.ArtifactDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(r.opts.ArtifactDir, 0755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}

	name := fmt.Sprintf("%.0f_%.0f_%.0f_%.0f", win.X, win.Y, win.MaxX(), win.MaxY())
	if macro != "" {
		name += "_" + macro
	}
	if comp != "" {
		name += "_" + comp
	}
	path := filepath.Join(r.opts.ArtifactDir, name+".png")

	var img image.Image = s.Image()
	if k := r.opts.ArtifactScale; k > 1 {
		big := image.NewGray(image.Rect(0, 0, s.Width*k, s.Height*k))
		draw.NearestNeighbor.Scale(big, big.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = big
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create artifact: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode artifact: %w", err)
	}
	return path, nil
}

// shapes returns the via's metal rectangles in layout coordinates.
func (r *Renderer) shapes(v via.Via) []geometry.Rect {
	if def, ok := r.viaDefs[v.Name]; ok && len(def.Rects) > 0 {
		out := make([]geometry.Rect, len(def.Rects))
		for i, rect := range def.Rects {
			out[i] = rect.Translate(v.Location)
		}
		return out
	}
	half := r.opts.DefaultViaSize / 2
	return []geometry.Rect{{
		X:      v.Location.X - half,
		Y:      v.Location.Y - half,
		Width:  r.opts.DefaultViaSize,
		Height: r.opts.DefaultViaSize,
	}}
}

func (r *Renderer) cacheKey(win geometry.Rect, vias []via.Via) string {
	shapes := make([][]geometry.Rect, len(vias))
	for i, v := range vias {
		shapes[i] = r.shapes(v)
	}
	return cache.Key("snippet", r.opts.Width, r.opts.Height, win, shapes)
}
