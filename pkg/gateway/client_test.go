package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-detailpage-kit/pkg/credential"
	"github.com/shouni/go-detailpage-kit/pkg/domain"
)

const analysisJSON = `{
	"category": "Beauty",
	"summary": "요약",
	"targets": ["T1"],
	"motivations": ["M1"],
	"marketProblems": ["P1"],
	"usps": ["U1"],
	"brandIdentity": {"tone": "감성적인", "coreMessage": "메시지", "avoidExpressions": "", "colors": ["#111111"]}
}`

// fakeClient は generate を差し替えたテスト用 Client を作ります。
func fakeClient(creds *credential.Store, fn generateFunc, calls *int) *Client {
	c := New(creds, Config{RateInterval: time.Nanosecond})
	c.generate = func(ctx context.Context, apiKey string, req request) (string, error) {
		if calls != nil {
			*calls++
		}
		return fn(ctx, apiKey, req)
	}
	return c
}

func sampleProduct() domain.ProductInfo {
	return domain.ProductInfo{
		Name:          "Green Tea Cleanser",
		Description:   "저자극 클렌저",
		OriginalPrice: "45,000원",
		SalePrice:     "29,900원",
	}
}

func TestClient_Analyze(t *testing.T) {
	t.Run("資格情報が無ければネットワークに出ずに失敗すること", func(t *testing.T) {
		calls := 0
		c := fakeClient(credential.NewStore(""), func(ctx context.Context, key string, req request) (string, error) {
			return analysisJSON, nil
		}, &calls)

		_, err := c.Analyze(context.Background(), sampleProduct())
		if !errors.Is(err, ErrMissingCredential) {
			t.Fatalf("ErrMissingCredential のはず: %v", err)
		}
		if calls != 0 {
			t.Errorf("通信は発生しないはず: %d", calls)
		}
	})

	t.Run("正常レスポンスを型付きで受け取れること", func(t *testing.T) {
		var captured request
		var capturedKey string
		c := fakeClient(credential.NewStore("test-key"), func(ctx context.Context, key string, req request) (string, error) {
			captured = req
			capturedKey = key
			return analysisJSON, nil
		}, nil)

		result, err := c.Analyze(context.Background(), sampleProduct())
		if err != nil {
			t.Fatalf("成功するはず: %v", err)
		}
		if result.Category != domain.CategoryBeauty {
			t.Errorf("カテゴリが違う: %s", result.Category)
		}
		if result.Targets == nil || result.Motivations == nil {
			t.Error("リストは非nilに正規化されるはず")
		}
		if capturedKey != "test-key" {
			t.Errorf("ストアの資格情報が使われていない: %q", capturedKey)
		}
		if captured.schema == nil {
			t.Error("出力スキーマが宣言されていない")
		}
		if len(captured.parts) != 1 || !strings.Contains(captured.parts[0].Text, "Green Tea Cleanser") {
			t.Error("プロンプトに商品名が埋め込まれていない")
		}
	})

	t.Run("デコードできないレスポンスはSchemaMismatchになること", func(t *testing.T) {
		c := fakeClient(credential.NewStore("test-key"), func(ctx context.Context, key string, req request) (string, error) {
			return "I'm sorry, I cannot help with that. " + strings.Repeat("x", 500), nil
		}, nil)

		_, err := c.Analyze(context.Background(), sampleProduct())
		var mismatch *SchemaMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("SchemaMismatchError のはず: %v", err)
		}
		if mismatch.Op != "analyze" {
			t.Errorf("操作名が違う: %s", mismatch.Op)
		}
		if len(mismatch.Raw) > schemaDiagnosticLimit+3 {
			t.Errorf("診断は切り詰められるはず: %d文字", len(mismatch.Raw))
		}
	})

	t.Run("資格情報は呼び出し時点の値が使われること", func(t *testing.T) {
		creds := credential.NewStore("old-key")
		var capturedKey string
		c := fakeClient(creds, func(ctx context.Context, key string, req request) (string, error) {
			capturedKey = key
			return analysisJSON, nil
		}, nil)

		creds.Set("new-key")
		if _, err := c.Analyze(context.Background(), sampleProduct()); err != nil {
			t.Fatalf("成功するはず: %v", err)
		}
		if capturedKey != "new-key" {
			t.Errorf("更新後の資格情報が使われるはず: %q", capturedKey)
		}
	})
}

func TestClient_GenerateStructures(t *testing.T) {
	structuresJSON := `[
		{"id": 1, "title": "메인 컷", "purpose": "Hero", "headline": "H1", "subHeadline": "S1",
		 "bodyText": "B1", "contentPoints": ["a"], "visualPrompt": "v1", "visualPromptKorean": "k1",
		 "visualStyle": "photorealistic",
		 "textStyleConfig": {"fontFamily": "Pretendard Variable", "textAlign": "center", "color": "#fff",
		                     "textShadow": true, "overlayColor": "#000", "overlayOpacity": 0.4}},
		{"id": 2, "title": "문제 제기", "purpose": "Intro", "headline": "H2", "subHeadline": "S2",
		 "bodyText": "B2", "contentPoints": ["b"], "visualPrompt": "v2", "visualPromptKorean": "k2",
		 "visualStyle": "infographic",
		 "textStyleConfig": {"fontFamily": "Pretendard Variable", "textAlign": "left", "color": "#111",
		                     "textShadow": false, "overlayColor": "#fff", "overlayOpacity": 0}}
	]`

	t.Run("参照画像がインラインデータとして添付されること", func(t *testing.T) {
		var captured request
		c := fakeClient(credential.NewStore("test-key"), func(ctx context.Context, key string, req request) (string, error) {
			captured = req
			return structuresJSON, nil
		}, nil)

		info := sampleProduct()
		info.Images = []string{domain.EncodeDataURI("image/jpeg", []byte{0xFF, 0xD8})}

		pages, err := c.GenerateStructures(context.Background(), domain.AnalysisResult{}, info)
		if err != nil {
			t.Fatalf("成功するはず: %v", err)
		}
		// 契約は10件だが、件数違いはソフトに受理する
		if len(pages) != 2 {
			t.Fatalf("件数が違う: %d", len(pages))
		}

		if len(captured.parts) != 2 {
			t.Fatalf("画像+テキストの2パートのはず: %d", len(captured.parts))
		}
		blob := captured.parts[0].InlineData
		if blob == nil || blob.MIMEType != "image/jpeg" || len(blob.Data) != 2 {
			t.Errorf("インライン画像が正しくない: %+v", blob)
		}
		if !strings.Contains(captured.parts[1].Text, "10페이지") {
			t.Error("プロンプトに10ページの契約が含まれていない")
		}
	})

	t.Run("画像なしでもテキストのみで呼べること", func(t *testing.T) {
		var captured request
		c := fakeClient(credential.NewStore("test-key"), func(ctx context.Context, key string, req request) (string, error) {
			captured = req
			return structuresJSON, nil
		}, nil)

		if _, err := c.GenerateStructures(context.Background(), domain.AnalysisResult{}, sampleProduct()); err != nil {
			t.Fatalf("成功するはず: %v", err)
		}
		if len(captured.parts) != 1 || captured.parts[0].InlineData != nil {
			t.Errorf("テキスト1パートのはず: %d", len(captured.parts))
		}
	})
}

func TestClient_RegenerateSection(t *testing.T) {
	page := domain.PageStructure{
		ID:            3,
		Purpose:       "Feature",
		Headline:      "피부가 쉬는 시간",
		ContentPoints: []string{"클로즈업"},
		VisualStyle:   domain.StylePhotorealistic,
	}

	t.Run("プロンプト2項目だけが返ること", func(t *testing.T) {
		var captured request
		c := fakeClient(credential.NewStore("test-key"), func(ctx context.Context, key string, req request) (string, error) {
			captured = req
			return `{"english": "새 프롬프트", "korean": "한국어 설명"}`, nil
		}, nil)

		update, err := c.RegenerateSection(context.Background(), page, domain.AnalysisResult{}, "더 밝게", "")
		if err != nil {
			t.Fatalf("成功するはず: %v", err)
		}
		if update.VisualPrompt != "새 프롬프트" || update.VisualPromptKorean != "한국어 설명" {
			t.Errorf("変換結果が違う: %+v", update)
		}

		text := captured.parts[len(captured.parts)-1].Text
		if !strings.Contains(text, page.Headline) {
			t.Error("ヘッドラインの描画指示が含まれていない")
		}
		if !strings.Contains(text, "더 밝게") {
			t.Error("修正要望が反映されていない")
		}
	})

	t.Run("資格情報が無ければ即座に失敗すること", func(t *testing.T) {
		calls := 0
		c := fakeClient(credential.NewStore(""), func(ctx context.Context, key string, req request) (string, error) {
			return "{}", nil
		}, &calls)

		_, err := c.RegenerateSection(context.Background(), page, domain.AnalysisResult{}, "", "")
		if !errors.Is(err, ErrMissingCredential) {
			t.Fatalf("ErrMissingCredential のはず: %v", err)
		}
		if calls != 0 {
			t.Errorf("通信は発生しないはず: %d", calls)
		}
	})
}
