package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-detailpage-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// structureCmd は、分析結果から詳細ページの構成案を生成するのだ。
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "分析結果から詳細ページの構成案を組み立てるのだ。",
	Long: `確定済みの分析結果JSONと商品情報JSONを読み込み、ヒーローからCTAまでの
流れを持つ10セクションの構成案を生成して保存するのだ。最初の参照画像は
製品の外観合わせのためにAIへそのまま渡されるのだよ。`,
	RunE: structureCommand,
}

func structureCommand(cmd *cobra.Command, args []string) error {
	if opts.ProductFile == "" {
		return fmt.Errorf("--product-file で商品情報JSONを指定してほしいのだ")
	}

	cfg := loadRunConfig()
	slog.Info("構成案パイプラインを起動するのだ！",
		"analysis_file", opts.AnalysisFile,
		"model", cfg.GeminiModel)

	if err := pipeline.ExecuteStructure(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("構成案が完成したのだ！")
	return nil
}
