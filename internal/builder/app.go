package builder

import (
	"github.com/shouni/go-detailpage-kit/internal/config"
	"github.com/shouni/go-detailpage-kit/internal/input"
	"github.com/shouni/go-detailpage-kit/pkg/credential"
	"github.com/shouni/go-detailpage-kit/pkg/export"
	"github.com/shouni/go-detailpage-kit/pkg/gateway"
	"github.com/shouni/go-detailpage-kit/pkg/workflow"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各実行関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config     // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、モデル名など）。
	Options config.RunOptions  // Optionsは、コマンドラインから渡された実行時の設定です（入出力パス、セクションIDなど）。
	Creds   *credential.Store  // Creds は実行中のセッションが保持する資格情報ストアです。
	Gateway *gateway.Client    // Gateway は Gemini への通信を一手に担うゲートウェイです。
	Loader  *input.Loader      // Loader は商品情報・分析結果・参照画像の読み込み元です。
}

// NewAppContext は環境設定から共通コンテキストを組み立てるのだ。
// GEMINI_API_KEY が設定されていれば資格情報ストアの初期値になるのだよ。
func NewAppContext(cfg *config.Config) *AppContext {
	creds := credential.NewStore(cfg.GeminiAPIKey)
	return &AppContext{
		Config:  cfg,
		Options: cfg.Options,
		Creds:   creds,
		Gateway: gateway.New(creds, gateway.Config{
			Model:        cfg.GeminiModel,
			RateInterval: config.DefaultRateInterval,
		}),
		Loader:  input.NewLoader(),
	}
}

// BuildController は通知先を差し込んだワークフローコントローラを構築するのだ。
func (a *AppContext) BuildController(notifier workflow.Notifier) *workflow.Controller {
	return workflow.NewController(a.Gateway, notifier, a.Creds)
}

// BuildExporter は既定のSVGラスタライザとページ分割HTMLビルダーで
// 書き出しパイプラインを構築するのだ。
func (a *AppContext) BuildExporter(title string) *export.Exporter {
	return export.NewExporter(
		export.NewOffscreenHost(),
		export.NewSVGRasterizer(),
		func() export.DocumentBuilder { return export.NewPagedHTMLBuilder(title) },
	)
}
