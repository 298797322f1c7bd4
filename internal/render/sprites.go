package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"

	"github.com/hailam/goplay/internal/board"
)

//go:embed assets/stones/*.svg
var stoneAssets embed.FS

// stoneFiles maps stone colors to their asset file paths.
var stoneFiles = map[board.Color]string{
	board.Black: "assets/stones/black.svg",
	board.White: "assets/stones/white.svg",
}

// spriteSet holds the rasterised stone images at display size.
type spriteSet struct {
	stones map[board.Color]*image.RGBA
}

// renderScale is the oversampling factor for SVG rasterisation; the
// result is scaled down to display size for smooth edges.
const renderScale = 3

// loadSprites rasterises the embedded stone SVGs at the given display
// size.
func loadSprites(size int) (*spriteSet, error) {
	set := &spriteSet{
		stones: make(map[board.Color]*image.RGBA),
	}
	renderSize := size * renderScale

	for color, path := range stoneFiles {
		data, err := stoneAssets.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("render: read stone asset %s: %w", path, err)
		}

		icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("render: parse SVG %s: %w", path, err)
		}

		// render oversized with anti-aliasing
		icon.SetTarget(0, 0, float64(renderSize), float64(renderSize))
		large := image.NewRGBA(image.Rect(0, 0, renderSize, renderSize))
		scanner := rasterx.NewScannerGV(renderSize, renderSize, large, large.Bounds())
		raster := rasterx.NewDasher(renderSize, renderSize, scanner)
		icon.Draw(raster, 1.0)

		// scale down to display size
		small := image.NewRGBA(image.Rect(0, 0, size, size))
		xdraw.CatmullRom.Scale(small, small.Bounds(), large, large.Bounds(), xdraw.Over, nil)

		set.stones[color] = small
	}

	return set, nil
}
