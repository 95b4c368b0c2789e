// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"

	"github.com/danielhkuo/tierboard/board"
	"github.com/danielhkuo/tierboard/models"
)

const (
	cardSize     = 96
	cardGap      = 4
	labelWidth   = 72
	cardsPerRow  = 8
	headerHeight = 28
)

var (
	backgroundColor = color.RGBA{0x1a, 0x1a, 0x1a, 0xff}
	cardColor       = color.RGBA{0x2b, 0x2b, 0x2b, 0xff}
	textColor       = color.RGBA{0xf1, 0xf1, 0xf1, 0xff}
	labelTextColor  = color.RGBA{0x11, 0x11, 0x11, 0xff}

	tierColors = map[models.Tier]color.RGBA{
		models.TierS: {0xff, 0x4d, 0x6d, 0xff},
		models.TierA: {0xff, 0x9f, 0x1c, 0xff},
		models.TierB: {0x4d, 0xab, 0xf7, 0xff},
		models.TierC: {0x51, 0xcf, 0x66, 0xff},
		models.TierD: {0x5c, 0x7c, 0xfa, 0xff},
	}
)

// MaxImagePixels bounds the declared size of a picture DecodeImage accepts.
const MaxImagePixels = 4096 * 4096

var ErrImageTooLarge = errors.New("image is too large")

// DecodeImage reads the image header first and refuses pictures whose
// declared size exceeds MaxImagePixels before decoding the pixels.
func DecodeImage(r io.Reader) (image.Image, error) {
	var head bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, err
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %s %dx%d", ErrImageTooLarge, format, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(io.MultiReader(&head, r))
	return img, err
}

// ImageLoader returns the picture for a catalog item. A failed load draws
// the item's name in place of its picture.
type ImageLoader func(ctx context.Context, item models.Item) (image.Image, error)

// BoardImage is everything drawn onto an exported board.
type BoardImage struct {
	Title           string
	ParticipantName string
	Board           models.Board
	Items           []models.Item
}

// RenderBoard rasterizes a board to PNG. Ids missing from Items are skipped.
func RenderBoard(ctx context.Context, in BoardImage, load ImageLoader) ([]byte, error) {
	byID := make(map[string]models.Item, len(in.Items))
	for _, it := range in.Items {
		byID[it.ID] = it
	}

	b := board.Clone(in.Board)
	rows := make(map[models.Tier][]models.Item, len(models.Tiers))
	for _, t := range models.Tiers {
		for _, id := range b[t] {
			if it, ok := byID[id]; ok {
				rows[t] = append(rows[t], it)
			}
		}
	}

	width := labelWidth + cardsPerRow*(cardSize+cardGap) + cardGap
	height := headerHeight
	for _, t := range models.Tiers {
		height += rowHeight(len(rows[t]))
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(dst, dst.Bounds(), backgroundColor)
	drawText(dst, header(in.Title, in.ParticipantName), cardGap*2, 19, textColor)

	y := headerHeight
	for _, t := range models.Tiers {
		h := rowHeight(len(rows[t]))
		fill(dst, image.Rect(0, y, labelWidth, y+h-cardGap), tierColors[t])
		label := string(t)
		lw := font.MeasureString(basicfont.Face7x13, label).Ceil()
		drawText(dst, label, (labelWidth-lw)/2, y+(h-cardGap)/2+5, labelTextColor)

		for i, it := range rows[t] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			x := labelWidth + cardGap + (i%cardsPerRow)*(cardSize+cardGap)
			cy := y + cardGap + (i/cardsPerRow)*(cardSize+cardGap)
			drawCard(ctx, dst, image.Rect(x, cy, x+cardSize, cy+cardSize), it, load)
		}
		y += h
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode board: %w", err)
	}
	return buf.Bytes(), nil
}

func rowHeight(n int) int {
	lines := (n + cardsPerRow - 1) / cardsPerRow
	if lines == 0 {
		lines = 1
	}
	return lines*(cardSize+cardGap) + cardGap
}

func header(title, name string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Tier list"
	}
	if name = strings.TrimSpace(name); name != "" {
		return title + " (" + name + ")"
	}
	return title
}

func drawCard(ctx context.Context, dst *image.RGBA, r image.Rectangle, it models.Item, load ImageLoader) {
	fill(dst, r, cardColor)
	if load != nil {
		img, err := load(ctx, it)
		if err == nil && img != nil {
			draw.CatmullRom.Scale(dst, fit(r, img.Bounds()), img, img.Bounds(), draw.Over, nil)
			return
		}
		slog.Warn("board export: drawing placeholder", "item_id", it.ID, "error", err)
	}
	name := it.Name
	maxChars := (cardSize - 8) / basicfont.Face7x13.Advance
	if len([]rune(name)) > maxChars {
		name = string([]rune(name)[:maxChars-1]) + "~"
	}
	drawText(dst, name, r.Min.X+4, r.Min.Y+cardSize/2+4, textColor)
}

// fit returns the largest rectangle with src's aspect ratio centred in box.
func fit(box, src image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw == 0 || sh == 0 {
		return box
	}
	w, h := box.Dx(), box.Dy()
	if sw*h > sh*w {
		h = sh * w / sw
	} else {
		w = sw * h / sh
	}
	x := box.Min.X + (box.Dx()-w)/2
	y := box.Min.Y + (box.Dy()-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func drawText(dst draw.Image, s string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
