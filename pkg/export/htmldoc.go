package export

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/shouni/go-detailpage-kit/pkg/domain"
)

// Orientation は文書の向きです。最初のページの縦横比で確定します。
type Orientation string

const (
	// OrientationPortrait は縦長の文書です。
	OrientationPortrait Orientation = "portrait"
	// OrientationLandscape は横長の文書です。
	OrientationLandscape Orientation = "landscape"
)

type htmlPage struct {
	src    string
	width  float64
	height float64
}

// PagedHTMLBuilder はラスタを1ページ=1画像で埋め込んだページ分割HTMLを
// 組み立てる DocumentBuilder です。画像は data URI として自己完結させるため、
// 出力は単一ファイルで配布できます。
type PagedHTMLBuilder struct {
	title       string
	orientation Orientation
	pages       []htmlPage
}

// NewPagedHTMLBuilder は文書タイトル付きのビルダーを返します。
func NewPagedHTMLBuilder(title string) *PagedHTMLBuilder {
	return &PagedHTMLBuilder{title: title}
}

// AddPage はラスタを1ページとして追加します。最初のページで向きを確定します。
func (b *PagedHTMLBuilder) AddPage(raster Raster, width, height float64) error {
	if raster.Image == nil || len(raster.Image.Data) == 0 {
		return errors.New("ラスタデータが空です")
	}
	if len(b.pages) == 0 {
		if height > width {
			b.orientation = OrientationPortrait
		} else {
			b.orientation = OrientationLandscape
		}
	}
	b.pages = append(b.pages, htmlPage{
		src:    domain.EncodeDataURI(raster.Image.MimeType, raster.Image.Data),
		width:  width,
		height: height,
	})
	return nil
}

// Build は完成したHTML文書を返します。ページが1つもない場合は失敗します。
func (b *PagedHTMLBuilder) Build() ([]byte, error) {
	if len(b.pages) == 0 {
		return nil, errors.New("ページがありません")
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"ko\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(b.title))
	fmt.Fprintf(&sb, "<style>\n@page { size: %s; margin: 0; }\n", b.orientation)
	sb.WriteString("body { margin: 0; background: #ffffff; }\n")
	sb.WriteString(".page { margin: 0 auto; page-break-after: always; }\n")
	sb.WriteString(".page img { display: block; width: 100%; height: 100%; }\n")
	sb.WriteString("</style>\n</head>\n<body>\n")

	for _, page := range b.pages {
		fmt.Fprintf(&sb, "<div class=\"page\" style=\"width: %.0fpx; height: %.0fpx;\"><img src=\"%s\" alt=\"\"></div>\n",
			page.width, page.height, page.src)
	}

	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}

// Ext は出力ファイルの拡張子を返します。
func (b *PagedHTMLBuilder) Ext() string { return ".html" }

// DocOrientation は確定済みの文書の向きを返します。ページ追加前は空です。
func (b *PagedHTMLBuilder) DocOrientation() Orientation { return b.orientation }
