package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultModel          = "gemini-3-flash-preview"
	DefaultRateInterval   = 1 * time.Second
	DefaultLocalAnalysis  = "output/analysis.json"    // 分析結果のデフォルト保存先なのだ
	DefaultLocalPlan      = "output/plan.json"        // 構成案のデフォルト保存先なのだ
	DefaultLocalExportDir = "output"                  // 書き出し文書のデフォルト保存ディレクトリなのだ
	DefaultImageCacheTTL  = 5 * time.Minute           // デコード済み参照画像のキャッシュ保持時間
	DefaultImageCacheGC   = 15 * time.Minute          // キャッシュの掃除間隔
)

// Config はアプリケーション全体の環境設定（APIキーやモデル名）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey string
	GeminiModel  string

	Options RunOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:  envutil.GetEnv("GEMINI_MODEL", DefaultModel),
	}
	return cfg
}

// RunOptions は CLI フラグから渡される実行時のパラメータなのだ。
type RunOptions struct {
	// ソース入力関連
	ProductFile  string // --product-file
	AnalysisFile string // --analysis-file
	PlanFile     string // --plan-file
	ImageFiles   []string

	// 生成結果の出力設定
	OutputFile string // --output-file
	OutputDir  string // --output-dir

	// AI挙動設定
	AIModel string // --model: Geminiモデル名

	// セクション再生成
	SectionID int    // --section
	UserNote  string // --note
}
