package cmd

import (
	"fmt"
	"os"

	"github.com/shouni/go-detailpage-kit/internal/config"

	"github.com/spf13/cobra"
)

// opts は全コマンドで共有する実行時パラメータなのだ。
var opts config.RunOptions

var rootCmd = &cobra.Command{
	Use:   "detailpage",
	Short: "AIと一緒に商品詳細ページを企画するCLIなのだ。",
	Long: `商品情報を解析してブランド分析リポートを作り、そこから詳細ページの
構成案（10セクション）を組み立てるのだ。気に入らないセクションは個別に
作り直せるし、分析リポートは文書として書き出せるのだよ。`,
	SilenceUsage: true,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	// --- ソース入力関連 ---
	rootCmd.PersistentFlags().StringVarP(&opts.ProductFile, "product-file", "f", "", "商品情報JSONのパスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.AnalysisFile, "analysis-file", "a", config.DefaultLocalAnalysis, "分析結果JSONのパスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.PlanFile, "plan-file", "p", config.DefaultLocalPlan, "構成案JSONのパスなのだ。")
	rootCmd.PersistentFlags().StringSliceVarP(&opts.ImageFiles, "image", "i", nil, "参照画像ファイルのパス（繰り返し指定できるのだ）。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&opts.OutputFile, "output-file", "o", "", "保存パスなのだ。省略時はコマンドごとの既定値なのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.OutputDir, "output-dir", config.DefaultLocalExportDir, "書き出し文書の保存ディレクトリなのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&opts.AIModel, "model", config.DefaultModel, "使用する Gemini モデル名なのだ。")
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(
		analyzeCmd,
		structureCmd,
		regenCmd,
		runCmd,
		exportCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadRunConfig は環境変数とフラグを合成した実行設定を返すのだ。
// 資格情報は GEMINI_API_KEY が種になるけど、無くても起動はできるのだ。
// （その場合はAI呼び出しの時点で登録を促されるのだよ）
func loadRunConfig() *config.Config {
	cfg := config.LoadConfig()
	if opts.AIModel != "" {
		cfg.GeminiModel = opts.AIModel
	}
	cfg.Options = opts
	return cfg
}
