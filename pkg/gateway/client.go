// Package gateway は、商品ドメインの3操作（分析・構成案生成・セクション再生成）を
// Gemini への型付き呼び出しへ変換します。プロンプトと出力スキーマの所有者は
// このパッケージだけです。
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/shouni/go-detailpage-kit/pkg/credential"
	"github.com/shouni/go-detailpage-kit/pkg/domain"
	"github.com/shouni/go-detailpage-kit/pkg/retry"
)

const (
	// DefaultModel は既定の Gemini モデル名です。
	DefaultModel = "gemini-3-flash-preview"
	// ExpectedPageCount は構成案生成で期待するセクション数です。
	// 件数が違っても結果は受理し、警告だけ残します（ソフト契約）。
	ExpectedPageCount = 10
	// DefaultStructureDelay は最重量リクエストである構成案生成の初回待機時間です。
	DefaultStructureDelay = 3000 * time.Millisecond
	// DefaultRateInterval は Gemini 呼び出し間の最小間隔です。
	DefaultRateInterval = time.Second

	defaultTemperature = float32(0.2)
)

// Config は Client の動作設定です。ゼロ値のフィールドには既定値が補われます。
type Config struct {
	Model           string
	Temperature     *float32
	RateInterval    time.Duration
	Policy          retry.Policy // analyze / regenerate 用
	StructurePolicy retry.Policy // 構成案生成用（初回待機が長い）
}

// request は1回分の型付き呼び出しの材料です。
type request struct {
	op     string
	parts  []*genai.Part
	schema *genai.Schema
}

// generateFunc は実際に生成サービスを叩く関数です。テストで差し替えます。
type generateFunc func(ctx context.Context, apiKey string, req request) (string, error)

// Client は AI ゲートウェイ本体です。資格情報はキャッシュせず、
// 呼び出しの都度ストアから読み直します。
type Client struct {
	creds      *credential.Store
	cfg        Config
	limiter    *rate.Limiter
	generate   generateFunc
	regenGroup singleflight.Group
}

// New は Client を生成します。creds は必須です。
func New(creds *credential.Store, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == nil {
		cfg.Temperature = genai.Ptr(defaultTemperature)
	}
	if cfg.RateInterval <= 0 {
		cfg.RateInterval = DefaultRateInterval
	}
	if cfg.Policy.InitialDelay <= 0 {
		cfg.Policy = retry.DefaultPolicy()
	}
	if cfg.StructurePolicy.InitialDelay <= 0 {
		cfg.StructurePolicy = retry.Policy{
			Retries:      retry.DefaultRetries,
			InitialDelay: DefaultStructureDelay,
		}
	}

	c := &Client{
		creds:   creds,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.RateInterval), 1),
	}
	c.generate = c.callGemini
	return c
}

// Analyze は商品情報を分析し、構造化された分析結果を返します。
func (c *Client) Analyze(ctx context.Context, info domain.ProductInfo) (domain.AnalysisResult, error) {
	if !c.creds.Present() {
		return domain.AnalysisResult{}, ErrMissingCredential
	}

	req := request{
		op:     "analyze",
		parts:  []*genai.Part{{Text: buildAnalysisPrompt(info)}},
		schema: analysisSchema(),
	}

	result, err := invoke[domain.AnalysisResult](ctx, c, c.cfg.Policy, req)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	result.EnsureLists()
	return result, nil
}

// GenerateStructures は分析結果を基に詳細ページ全セクションの構成案を生成します。
// 参照画像があれば先頭の1枚をインライン画像として添付します。
func (c *Client) GenerateStructures(ctx context.Context, analysis domain.AnalysisResult, info domain.ProductInfo) (domain.Pages, error) {
	if !c.creds.Present() {
		return nil, ErrMissingCredential
	}

	parts := make([]*genai.Part, 0, 2)
	if uri := info.PrimaryImage(); uri != "" {
		mimeType, data, err := domain.ParseDataURI(uri)
		if err != nil {
			slog.Warn("参照画像のデコードに失敗したため、画像なしで続行します", "error", err)
		} else {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: mimeType, Data: data},
			})
		}
	}
	parts = append(parts, &genai.Part{Text: buildStructurePrompt(analysis, info)})

	req := request{op: "generateStructures", parts: parts, schema: structureSchema()}

	pages, err := invoke[domain.Pages](ctx, c, c.cfg.StructurePolicy, req)
	if err != nil {
		return nil, err
	}

	if len(pages) != ExpectedPageCount {
		slog.Warn("構成案のセクション数が契約と異なりますが、そのまま受理します",
			"expected", ExpectedPageCount, "actual", len(pages))
	}
	return pages, nil
}

// promptPayload は再生成レスポンスのワイヤ形式です。
type promptPayload struct {
	English string `json:"english"`
	Korean  string `json:"korean"`
}

// RegenerateSection は1セクション分のビジュアルプロンプトを再生成します。
// 返すのはプロンプト2項目のみで、他のフィールドには関与しません。
// 同一セクションへの同時要求は singleflight で1回にまとめます。
func (c *Client) RegenerateSection(ctx context.Context, page domain.PageStructure, analysis domain.AnalysisResult, userNote, referenceImage string) (domain.PromptUpdate, error) {
	if !c.creds.Present() {
		return domain.PromptUpdate{}, ErrMissingCredential
	}

	key := fmt.Sprintf("section-%d", page.ID)
	v, err, _ := c.regenGroup.Do(key, func() (interface{}, error) {
		parts := make([]*genai.Part, 0, 2)
		hasImage := false
		if referenceImage != "" {
			mimeType, data, derr := domain.ParseDataURI(referenceImage)
			if derr != nil {
				slog.Warn("参照画像のデコードに失敗したため、画像なしで続行します", "error", derr)
			} else {
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{MIMEType: mimeType, Data: data},
				})
				hasImage = true
			}
		}
		parts = append(parts, &genai.Part{
			Text: buildRegeneratePrompt(page, analysis, userNote, hasImage),
		})

		req := request{op: "regenerateSection", parts: parts, schema: regenerateSchema()}

		payload, ierr := invoke[promptPayload](ctx, c, c.cfg.Policy, req)
		if ierr != nil {
			return nil, ierr
		}
		return domain.PromptUpdate{
			VisualPrompt:       payload.English,
			VisualPromptKorean: payload.Korean,
		}, nil
	})
	if err != nil {
		return domain.PromptUpdate{}, err
	}
	return v.(domain.PromptUpdate), nil
}

// invoke は「リトライ付きで呼ぶ → JSONをデコードする」共通形です。
// デコード失敗は SchemaMismatchError として返し、再試行はしません。
func invoke[T any](ctx context.Context, c *Client, p retry.Policy, req request) (T, error) {
	var zero T

	raw, err := retry.Do(ctx, p, func(ctx context.Context) (string, error) {
		// 設定画面がいつ書き換えてもいいように、試行のたびに読み直す
		key, ok := c.creds.Get()
		if !ok {
			return "", ErrMissingCredential
		}
		if werr := c.limiter.Wait(ctx); werr != nil {
			return "", werr
		}
		return c.generate(ctx, key, req)
	})
	if err != nil {
		return zero, fmt.Errorf("%s: %w", req.op, err)
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return zero, newSchemaMismatch(req.op, raw, err)
	}
	return out, nil
}

// callGemini は genai SDK 経由の既定トランスポートです。
// 資格情報がセッション中に差し替わるため、クライアントは都度生成します。
func (c *Client) callGemini(ctx context.Context, apiKey string, req request) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      c.cfg.Temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.schema,
	}
	contents := []*genai.Content{{Role: genai.RoleUser, Parts: req.parts}}

	res, err := client.Models.GenerateContent(ctx, c.cfg.Model, contents, config)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}
