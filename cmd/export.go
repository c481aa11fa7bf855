package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-detailpage-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// exportCmd は、分析リポートを1カード=1ページの文書へ書き出すのだ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "分析リポートをページ分割された文書へ書き出すのだ。",
	Long: `分析結果JSONを読み込み、画面と同じ並びのカードを1枚ずつページとして
描画した文書を保存するのだ。ファイル名は「商品名_brand_analysis」になるの
だよ。--product-file を渡すと商品名がファイル名に反映されるのだ。`,
	RunE: exportCommand,
}

func exportCommand(cmd *cobra.Command, args []string) error {
	cfg := loadRunConfig()
	slog.Info("リポート書き出しを起動するのだ！",
		"analysis_file", opts.AnalysisFile,
		"output_dir", cfg.Options.OutputDir)

	if err := pipeline.ExecuteExport(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
