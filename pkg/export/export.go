package export

import (
	"context"
	"errors"
	"fmt"
	"strings"

	imagedom "github.com/shouni/gemini-image-kit/ports"
)

const (
	// CanvasWidth は書き出し時の論理幅（px）です。全領域をこの幅へ正規化します。
	CanvasWidth = 800
	// RasterScale は描画密度の倍率です。論理幅の2倍の物理ピクセルで描画します。
	RasterScale = 2
	// FileNameSuffix は出力ファイル名に付く固定の接尾辞です。
	FileNameSuffix = "_brand_analysis"
	// DefaultProductName は商品名が空のときのファイル名です。
	DefaultProductName = "product"

	exportPadding    = "40px"
	canvasBackground = "#ffffff"
)

var (
	// ErrNoRasterizer はラスタライザ能力が構成されていないことを示します。
	// この失敗は作業領域を作る前に返り、いかなる状態変化も起こしません。
	ErrNoRasterizer = errors.New("ラスタライザが構成されていません")
	// ErrNoRegions は書き出す領域が1つもないことを示します。
	ErrNoRegions = errors.New("書き出す領域がありません")
)

// ExportFailure はいずれかのページの書き出しに失敗したことを示します。
// 1ページでも失敗したら書き出し全体を中止し、部分的な文書は残しません。
type ExportFailure struct {
	Region string
	Err    error
}

func (e *ExportFailure) Error() string {
	return fmt.Sprintf("領域 %q の書き出しに失敗しました: %v", e.Region, e.Err)
}

func (e *ExportFailure) Unwrap() error { return e.Err }

// Raster は1領域を描画した結果です。寸法は物理ピクセルです。
type Raster struct {
	Image  *imagedom.ImageResponse
	Width  int
	Height int
}

// Rasterizer は正規化済みの領域を画像へ描画する能力です。
type Rasterizer interface {
	Rasterize(ctx context.Context, region Region, scale int) (Raster, error)
}

// DocumentBuilder はページを順に受け取り1つの文書を組み立てます。
// 最初のページの縦横比が文書全体の向きを確定します。
type DocumentBuilder interface {
	// AddPage は論理サイズ width×height のページとしてラスタを追加します。
	AddPage(raster Raster, width, height float64) error
	// Build は完成した文書を返します。
	Build() ([]byte, error)
	// Ext は出力ファイルの拡張子です（".html" など）。
	Ext() string
}

// Workspace は描画用の画面外作業領域です。Mount は前の領域を置き換えます。
type Workspace interface {
	Mount(region Region) error
	Remove()
}

// Host は作業領域を提供する環境です。
type Host interface {
	CreateWorkspace(width int) (Workspace, error)
}

// Document は完成した書き出し結果です。
type Document struct {
	FileName string
	Data     []byte
}

// Exporter は領域列を1つの文書へ書き出すオーケストレータです。
// 文書ビルダーはページを蓄積するため、書き出しごとに作り直します。
type Exporter struct {
	host        Host
	rasterizer  Rasterizer
	newDocument func() DocumentBuilder
}

// NewExporter は書き出しパイプラインを構成します。rasterizer は nil を許容し、
// その場合 Export は即座に ErrNoRasterizer を返します。
func NewExporter(host Host, rasterizer Rasterizer, newDocument func() DocumentBuilder) *Exporter {
	return &Exporter{
		host:        host,
		rasterizer:  rasterizer,
		newDocument: newDocument,
	}
}

// Export は領域を順に描画して1つの文書へまとめます。
// 作業領域は成功・失敗どちらの経路でも必ず取り外されます。
func (e *Exporter) Export(ctx context.Context, productName string, regions []Region) (*Document, error) {
	if e.rasterizer == nil {
		return nil, ErrNoRasterizer
	}
	if len(regions) == 0 {
		return nil, ErrNoRegions
	}

	ws, err := e.host.CreateWorkspace(CanvasWidth)
	if err != nil {
		return nil, fmt.Errorf("作業領域の作成に失敗しました: %w", err)
	}
	defer ws.Remove()

	doc := e.newDocument()
	for _, region := range regions {
		staged := Normalize(region)
		if err := ws.Mount(staged); err != nil {
			return nil, &ExportFailure{Region: region.Title, Err: err}
		}

		raster, err := e.rasterizer.Rasterize(ctx, staged, RasterScale)
		if err != nil {
			return nil, &ExportFailure{Region: region.Title, Err: err}
		}
		if raster.Width <= 0 || raster.Height <= 0 {
			return nil, &ExportFailure{Region: region.Title, Err: fmt.Errorf("ラスタ寸法が不正です: %dx%d", raster.Width, raster.Height)}
		}

		// ページの論理高さはラスタの縦横比から求める
		pageHeight := float64(raster.Height) / float64(raster.Width) * CanvasWidth
		if err := doc.AddPage(raster, CanvasWidth, pageHeight); err != nil {
			return nil, &ExportFailure{Region: region.Title, Err: err}
		}
	}

	data, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("文書の組み立てに失敗しました: %w", err)
	}

	name := strings.TrimSpace(productName)
	if name == "" {
		name = DefaultProductName
	}
	return &Document{
		FileName: name + FileNameSuffix + doc.Ext(),
		Data:     data,
	}, nil
}

// Normalize は領域を書き出し向けの正規形へ変換します。元の領域は変更しません。
// 幅は CanvasWidth に固定、影・枠線・変形は除去、背景は白、余白は一律です。
// 編集欄は表示中のテキストと改行をそのまま保持した静的要素へ平坦化されます。
func Normalize(region Region) Region {
	out := region.Clone()
	out.Style = RegionStyle{
		Width:      CanvasWidth,
		Background: canvasBackground,
		Padding:    exportPadding,
	}
	for i := range out.Blocks {
		out.Blocks[i].Editable = false
	}
	return out
}
