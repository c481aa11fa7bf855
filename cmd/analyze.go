package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-detailpage-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// analyzeCmd は、商品情報からブランド分析リポートを生成するのだ。
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "商品情報を解析してブランド分析リポートを作るのだ。",
	Long: `商品情報JSONと参照画像を読み込み、カテゴリ判定・タゲット・購買動機・
市場の問題点・USP・ブランドアイデンティティをひとまとめにした分析結果を
JSONとして保存するのだ。`,
	RunE: analyzeCommand,
}

func analyzeCommand(cmd *cobra.Command, args []string) error {
	if opts.ProductFile == "" {
		return fmt.Errorf("--product-file で商品情報JSONを指定してほしいのだ")
	}

	cfg := loadRunConfig()
	slog.Info("ブランド分析パイプラインを起動するのだ！",
		"product_file", opts.ProductFile,
		"model", cfg.GeminiModel)

	if err := pipeline.ExecuteAnalyze(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("分析が完了したのだ！")
	return nil
}
