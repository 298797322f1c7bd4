// Package render produces PNG diagrams of board positions.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hailam/goplay/internal/board"
)

// Theme defines the color scheme for board diagrams.
type Theme struct {
	Goban     color.RGBA
	Line      color.RGBA
	StarPoint color.RGBA
	Label     color.RGBA
}

// DefaultTheme returns the default color theme.
func DefaultTheme() *Theme {
	return &Theme{
		Goban:     color.RGBA{220, 179, 92, 255}, // kaya
		Line:      color.RGBA{60, 40, 20, 255},
		StarPoint: color.RGBA{60, 40, 20, 255},
		Label:     color.RGBA{80, 56, 28, 255},
	}
}

// starPoints are the coordinates of the nine hoshi.
var starPoints = [9][2]int{
	{3, 3}, {9, 3}, {15, 3},
	{3, 9}, {9, 9}, {15, 9},
	{3, 15}, {9, 15}, {15, 15},
}

// Renderer draws board positions as raster images.
type Renderer struct {
	sprites  *spriteSet
	theme    *Theme
	cellSize int
	face     font.Face
}

// NewRenderer creates a renderer with the given cell size in pixels.
func NewRenderer(cellSize int) (*Renderer, error) {
	sprites, err := loadSprites(cellSize)
	if err != nil {
		return nil, err
	}

	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(cellSize) * 0.4,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}

	return &Renderer{
		sprites:  sprites,
		theme:    DefaultTheme(),
		cellSize: cellSize,
		face:     face,
	}, nil
}

// Render draws the position into a new image. The margin around the
// grid carries the coordinate labels.
func (r *Renderer) Render(b *board.Board) image.Image {
	cell := r.cellSize
	margin := cell
	side := 2*margin + (board.BoardSize-1)*cell

	img := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(img, img.Bounds(), image.NewUniform(r.theme.Goban), image.Point{}, draw.Src)

	r.drawGrid(img)
	r.drawStarPoints(img)
	r.drawLabels(img)
	r.drawStones(img, b)

	return img
}

// RenderPNG draws the position and encodes it as PNG.
func (r *Renderer) RenderPNG(b *board.Board, w io.Writer) error {
	return png.Encode(w, r.Render(b))
}

// gridPos returns the pixel position of the intersection. Row 1 is at
// the bottom of the image.
func (r *Renderer) gridPos(x, y int) (int, int) {
	margin := r.cellSize
	px := margin + x*r.cellSize
	py := margin + (board.BoardSize-1-y)*r.cellSize
	return px, py
}

// drawGrid draws the 19x19 line grid.
func (r *Renderer) drawGrid(img *image.RGBA) {
	line := image.NewUniform(r.theme.Line)
	x0, yTop := r.gridPos(0, board.BoardSize-1)
	x1, yBottom := r.gridPos(board.BoardSize-1, 0)

	for i := 0; i < board.BoardSize; i++ {
		px, _ := r.gridPos(i, 0)
		draw.Draw(img, image.Rect(px, yTop, px+1, yBottom+1), line, image.Point{}, draw.Src)

		_, py := r.gridPos(0, i)
		draw.Draw(img, image.Rect(x0, py, x1+1, py+1), line, image.Point{}, draw.Src)
	}
}

// drawStarPoints draws the nine hoshi as small filled circles.
func (r *Renderer) drawStarPoints(img *image.RGBA) {
	radius := float64(r.cellSize) * 0.12
	bounds := img.Bounds()

	scanner := rasterx.NewScannerGV(bounds.Dx(), bounds.Dy(), img, bounds)
	scanner.SetColor(r.theme.StarPoint)
	filler := rasterx.NewFiller(bounds.Dx(), bounds.Dy(), scanner)

	for _, sp := range starPoints {
		px, py := r.gridPos(sp[0], sp[1])
		rasterx.AddCircle(float64(px), float64(py), radius, filler)
	}
	filler.Draw()
}

// drawLabels draws the column letters below and row numbers beside the
// grid.
func (r *Renderer) drawLabels(img *image.RGBA) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.theme.Label),
		Face: r.face,
	}

	for x := 0; x < board.BoardSize; x++ {
		label := board.NewPoint(x, 0).String()[:1]
		px, py := r.gridPos(x, 0)

		width := drawer.MeasureString(label)
		drawer.Dot = fixed.P(px, py+r.cellSize*3/4)
		drawer.Dot.X -= width / 2
		drawer.DrawString(label)
	}

	for y := 0; y < board.BoardSize; y++ {
		label := board.NewPoint(0, y).String()[1:]
		px, py := r.gridPos(0, y)

		width := drawer.MeasureString(label)
		drawer.Dot = fixed.P(px-r.cellSize*3/4, py+r.cellSize/6)
		drawer.Dot.X -= width / 2
		drawer.DrawString(label)
	}
}

// drawStones composites the stone sprites onto the grid.
func (r *Renderer) drawStones(img *image.RGBA, b *board.Board) {
	for p := range board.AllPoints() {
		c, ok := b.ColorAt(p)
		if !ok {
			continue
		}

		sprite := r.sprites.stones[c]
		px, py := r.gridPos(p.X(), p.Y())
		target := image.Rect(
			px-r.cellSize/2, py-r.cellSize/2,
			px-r.cellSize/2+r.cellSize, py-r.cellSize/2+r.cellSize,
		)
		draw.Draw(img, target, sprite, image.Point{}, draw.Over)
	}
}
