// Package export は分析リポートを1領域=1ページの文書へ書き出すパイプラインです。
// 画面描画の能力（ラスタライザ・作業領域）は差し替え可能な境界として受け取ります。
package export

import (
	"fmt"
	"regexp"

	"github.com/shouni/go-detailpage-kit/pkg/domain"
)

// BlockKind は領域内の表示要素の種別です。
type BlockKind int

const (
	// BlockHeading は領域見出しです。
	BlockHeading BlockKind = iota
	// BlockLabel は小見出しラベルです。
	BlockLabel
	// BlockParagraph は本文の段落です。
	BlockParagraph
	// BlockListItem は箇条書きの1項目です。
	BlockListItem
	// BlockSwatch は色見本と説明テキストの組です。
	BlockSwatch
)

// Block は領域内の1表示要素です。Editable な要素は編集欄として表示されている
// ことを示し、書き出し時に静的テキストへ平坦化されます。改行は保持されます。
type Block struct {
	Kind     BlockKind
	Text     string
	Color    string // BlockSwatch の表示色
	Editable bool
}

// RegionStyle は画面表示由来の装飾です。書き出し時の正規化で上書きされます。
type RegionStyle struct {
	Width        int // 0 は自動幅
	Background   string
	Padding      string
	Border       string
	BorderRadius string
	BoxShadow    string
	Transform    string
}

// Region は書き出しの1ページに対応する表示領域です。
type Region struct {
	Title  string
	Style  RegionStyle
	Blocks []Block
}

// Clone は領域の深いコピーを返します。
func (r Region) Clone() Region {
	out := r
	out.Blocks = make([]Block, len(r.Blocks))
	copy(out.Blocks, r.Blocks)
	return out
}

// hexColorRegex はカラー表記から先頭のHEXコードを取り出します。
// 分析結果の colors は "#1A2B3C (네이비)" のような説明付き表記を許容するためです。
var hexColorRegex = regexp.MustCompile(`#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})\b`)

// ExtractColor はカラー表記からCSSとして安全な色値を取り出します。
// HEXコードが見つからない場合は黒にフォールバックします。
func ExtractColor(value string) string {
	if m := hexColorRegex.FindString(value); m != "" {
		return m
	}
	return "#000000"
}

// cardStyle は画面上のカード装飾です。正規化前の初期値として持たせます。
func cardStyle() RegionStyle {
	return RegionStyle{
		Background:   "#ffffff",
		Padding:      "32px",
		Border:       "1px solid #eef2ff",
		BorderRadius: "32px",
		BoxShadow:    "0 10px 15px rgba(99, 102, 241, 0.1)",
	}
}

func heading(text string) Block {
	return Block{Kind: BlockHeading, Text: text}
}

func label(text string) Block {
	return Block{Kind: BlockLabel, Text: text}
}

func editableParagraph(text string) Block {
	return Block{Kind: BlockParagraph, Text: text, Editable: true}
}

// listRegion は見出し+編集可能な箇条書きのカードを組み立てます。
func listRegion(title string, items []string) Region {
	blocks := make([]Block, 0, len(items)+1)
	blocks = append(blocks, heading(title))
	for _, item := range items {
		blocks = append(blocks, Block{Kind: BlockListItem, Text: item, Editable: true})
	}
	return Region{Title: title, Style: cardStyle(), Blocks: blocks}
}

// BuildAnalysisRegions は分析結果を画面と同じ並びの領域列へ展開します。
// 並びはリポートヘッダ → 전략 요약 → 타겟 고객 → 구매 동기 → 기존 시장의 문제점
// → 핵심 차별점 (USP) → 브랜드 아이덴티티 の順です。
func BuildAnalysisRegions(analysis domain.AnalysisResult) []Region {
	a := analysis.Clone()
	a.EnsureLists()

	category := string(a.Category)
	if category == "" {
		category = string(domain.CategoryGeneral)
	}

	header := Region{
		Title: "리포트 헤더",
		Style: cardStyle(),
		Blocks: []Block{
			heading("AI 브랜드 분석 리포트"),
			{Kind: BlockParagraph, Text: fmt.Sprintf("상품 정보를 %s 관점에서 다각도로 분석했습니다.", category)},
		},
	}

	summary := Region{
		Title: "전략 요약",
		Style: cardStyle(),
		Blocks: []Block{
			heading("전략 요약"),
			editableParagraph(a.Summary),
		},
	}

	identity := Region{
		Title: "브랜드 아이덴티티",
		Style: cardStyle(),
		Blocks: []Block{
			heading("브랜드 아이덴티티"),
			label("Tone & Mood"),
			editableParagraph(a.BrandIdentity.Tone),
			label("Core Message"),
			editableParagraph(a.BrandIdentity.CoreMessage),
			label("지양할 표현"),
			editableParagraph(a.BrandIdentity.AvoidExpressions),
			label("브랜드 컬러"),
		},
	}
	for _, color := range a.BrandIdentity.Colors {
		identity.Blocks = append(identity.Blocks, Block{
			Kind:     BlockSwatch,
			Text:     color,
			Color:    ExtractColor(color),
			Editable: true,
		})
	}

	return []Region{
		header,
		summary,
		listRegion("타겟 고객", a.Targets),
		listRegion("구매 동기", a.Motivations),
		listRegion("기존 시장의 문제점", a.MarketProblems),
		listRegion("핵심 차별점 (USP)", a.Usps),
		identity,
	}
}
