package gateway

import (
	"strings"
	"testing"

	"github.com/shouni/go-detailpage-kit/pkg/domain"
)

func TestBuildAnalysisPrompt(t *testing.T) {
	t.Run("商品情報と固定タクソノミーが埋め込まれること", func(t *testing.T) {
		prompt := buildAnalysisPrompt(domain.ProductInfo{
			Name:          "Green Tea Cleanser",
			Description:   "저자극 클렌저",
			OriginalPrice: "45,000원",
			SalePrice:     "29,900원",
		})

		for _, want := range []string{
			"Green Tea Cleanser", "저자극 클렌저", "45,000원", "29,900원",
			"'Beauty'", "'General'", // カテゴリ列挙
			"200자",  // 要約の長さ制約
			"5개",    // 各リストの件数
			"HEX 코드", // ブランドカラー
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("プロンプトに %q が含まれていない", want)
			}
		}
	})
}

func TestBuildStructurePrompt(t *testing.T) {
	t.Run("ページ順序戦略と一貫性の要求が含まれること", func(t *testing.T) {
		analysis := domain.AnalysisResult{
			Category: domain.CategoryBeauty,
			Usps:     []string{"녹차 추출물", "저자극"},
			BrandIdentity: domain.BrandIdentity{
				Tone:        "감성적인",
				CoreMessage: "피부가 쉬는 시간",
			},
		}
		prompt := buildStructurePrompt(analysis, domain.ProductInfo{Name: "Green Tea Cleanser"})

		for _, want := range []string{
			"메인 컷 (Hero)", "문제 제기", "피처 컷", "인포그래픽", "라이프스타일", "CTA",
			"녹차 추출물, 저자극",
			"피부가 쉬는 시간",
			"id: 1~10",
		} {
			if !strings.Contains(prompt, want) {
				t.Errorf("プロンプトに %q が含まれていない", want)
			}
		}
	})
}

func TestBuildRegeneratePrompt(t *testing.T) {
	page := domain.PageStructure{
		Purpose:       "Hero",
		Headline:      "첫인상",
		ContentPoints: []string{"고화질"},
		VisualStyle:   domain.StyleIllustration,
	}

	t.Run("参照画像がある場合は外形の複製要求から始まること", func(t *testing.T) {
		prompt := buildRegeneratePrompt(page, domain.AnalysisResult{}, "", true)
		if !strings.Contains(prompt, "STRICT PRODUCT REPLICATION") {
			t.Error("外形複製の要求が含まれていない")
		}
		if !strings.Contains(prompt, "MUST START with a detailed physical description") {
			t.Error("冒頭での外形描写の必須条件が含まれていない")
		}
	})

	t.Run("参照画像が無い場合は複製要求を含まないこと", func(t *testing.T) {
		prompt := buildRegeneratePrompt(page, domain.AnalysisResult{}, "", false)
		if strings.Contains(prompt, "STRICT PRODUCT REPLICATION") {
			t.Error("画像なしでは複製要求は不要のはず")
		}
	})

	t.Run("修正要望は外形変更を禁じた上で組み込まれること", func(t *testing.T) {
		withNote := buildRegeneratePrompt(page, domain.AnalysisResult{}, "배경을 어둡게", false)
		if !strings.Contains(withNote, "배경을 어둡게") {
			t.Error("修正要望が含まれていない")
		}
		if !strings.Contains(withNote, "DO NOT CHANGE PRODUCT APPEARANCE") {
			t.Error("外形変更の禁止が含まれていない")
		}

		withoutNote := buildRegeneratePrompt(page, domain.AnalysisResult{}, "", false)
		if strings.Contains(withoutNote, "Modification Request") {
			t.Error("要望なしでは修正条項は不要のはず")
		}
	})

	t.Run("ヘッドラインの描画指示が常に含まれること", func(t *testing.T) {
		prompt := buildRegeneratePrompt(page, domain.AnalysisResult{}, "", false)
		if strings.Count(prompt, "첫인상") < 2 {
			t.Error("ヘッドラインの明示描画指示が足りない")
		}
	})
}
