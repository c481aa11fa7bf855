package export

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	imagedom "github.com/shouni/gemini-image-kit/ports"
)

// 描画メトリクス。画面表示のフォント設定に合わせた概算値です。
const (
	svgFontFamily = "Pretendard Variable, Pretendard, sans-serif"

	headingSize = 24
	headingLine = 36
	labelSize   = 13
	labelLine   = 22
	bodySize    = 16
	bodyLine    = 26

	blockGap     = 18
	listIndent   = 24
	swatchRadius = 12

	textColor  = "#1f2937"
	labelColor = "#6b7280"
	bulletFill = "#9ca3af"
)

type svgText struct {
	text   string
	x, y   int // y はベースライン
	size   int
	weight string
	color  string
}

type svgCircle struct {
	cx, cy, r int
	fill      string
	stroke    string
}

// SVGRasterizer は領域をSVG画像として描画するラスタライザです。
// ブラウザ描画エンジンを持たない環境向けの既定実装で、テキストは
// 文字幅の概算で折り返します（画面側も break-word で折り返すため同等です）。
type SVGRasterizer struct{}

// NewSVGRasterizer は新しいラスタライザを返します。
func NewSVGRasterizer() *SVGRasterizer { return &SVGRasterizer{} }

// Rasterize は領域を描画し、物理ピクセル寸法付きのラスタを返します。
func (r *SVGRasterizer) Rasterize(ctx context.Context, region Region, scale int) (Raster, error) {
	if err := ctx.Err(); err != nil {
		return Raster{}, err
	}
	if scale <= 0 {
		return Raster{}, fmt.Errorf("描画倍率が不正です: %d", scale)
	}

	width := region.Style.Width
	if width <= 0 {
		width = CanvasWidth
	}

	texts, circles, height := layoutRegion(region, width)
	data := renderSVG(texts, circles, width, height, scale, region.Style.Background)

	return Raster{
		Image:  &imagedom.ImageResponse{Data: data, MimeType: "image/svg+xml"},
		Width:  width * scale,
		Height: height * scale,
	}, nil
}

// layoutRegion はブロックを縦に流し込み、描画要素と総高さを返します。
func layoutRegion(region Region, width int) ([]svgText, []svgCircle, int) {
	pad := paddingPx(region.Style.Padding)
	maxText := width - pad*2
	y := pad

	var texts []svgText
	var circles []svgCircle

	for _, block := range region.Blocks {
		switch block.Kind {
		case BlockHeading:
			y = appendWrapped(&texts, block.Text, pad, y, maxText, headingSize, headingLine, "700", textColor)
		case BlockLabel:
			y = appendWrapped(&texts, strings.ToUpper(block.Text), pad, y, maxText, labelSize, labelLine, "700", labelColor)
		case BlockParagraph:
			y = appendWrapped(&texts, block.Text, pad, y, maxText, bodySize, bodyLine, "400", textColor)
		case BlockListItem:
			circles = append(circles, svgCircle{
				cx: pad + 4, cy: y + bodyLine/2, r: 4, fill: bulletFill,
			})
			y = appendWrapped(&texts, block.Text, pad+listIndent, y, maxText-listIndent, bodySize, bodyLine, "400", textColor)
		case BlockSwatch:
			cy := y + swatchRadius
			circles = append(circles, svgCircle{
				cx: pad + swatchRadius, cy: cy, r: swatchRadius,
				fill: block.Color, stroke: "#e5e7eb",
			})
			texts = append(texts, svgText{
				text: block.Text,
				x:    pad + swatchRadius*2 + 12, y: cy + bodySize/2 - 2,
				size: bodySize, weight: "700", color: textColor,
			})
			y += swatchRadius * 2
		}
		y += blockGap
	}

	return texts, circles, y + pad - blockGap
}

// appendWrapped はテキストを折り返して行ごとに追加し、次の開始位置を返します。
func appendWrapped(texts *[]svgText, text string, x, y, maxWidth, size, lineHeight int, weight, color string) int {
	for _, line := range wrapText(text, maxWidth, size) {
		*texts = append(*texts, svgText{
			text: line, x: x, y: y + size,
			size: size, weight: weight, color: color,
		})
		y += lineHeight
	}
	return y
}

// wrapText は概算文字幅で行を折り返します。元テキストの改行は行として保持します。
func wrapText(text string, maxWidth, size int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line strings.Builder
		width := 0.0
		for _, r := range para {
			rw := runeWidth(r, size)
			if width+rw > float64(maxWidth) && line.Len() > 0 {
				lines = append(lines, line.String())
				line.Reset()
				width = 0
			}
			line.WriteRune(r)
			width += rw
		}
		lines = append(lines, line.String())
	}
	return lines
}

// runeWidth は1文字の概算幅です。全角文字はフォントサイズと同幅、半角は約半分です。
func runeWidth(r rune, size int) float64 {
	if r < 0x80 {
		return float64(size) * 0.55
	}
	return float64(size)
}

// paddingPx は "40px" 形式の余白指定をピクセル値へ解釈します。
func paddingPx(padding string) int {
	v, err := strconv.Atoi(strings.TrimSuffix(padding, "px"))
	if err != nil || v < 0 {
		return 32
	}
	return v
}

func renderSVG(texts []svgText, circles []svgCircle, width, height, scale int, background string) []byte {
	if background == "" {
		background = canvasBackground
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width*scale, height*scale, width, height)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="%s"/>`+"\n", width, height, html.EscapeString(background))

	for _, c := range circles {
		if c.stroke != "" {
			fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
				c.cx, c.cy, c.r, html.EscapeString(c.fill), html.EscapeString(c.stroke))
			continue
		}
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="%s"/>`+"\n",
			c.cx, c.cy, c.r, html.EscapeString(c.fill))
	}

	for _, t := range texts {
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-family="%s" font-size="%d" font-weight="%s" fill="%s">%s</text>`+"\n",
			t.x, t.y, svgFontFamily, t.size, t.weight, t.color, html.EscapeString(t.text))
	}

	sb.WriteString("</svg>\n")
	return []byte(sb.String())
}
