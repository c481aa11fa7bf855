package cmd

import (
	"fmt"
	"log/slog"

	"github.com/shouni/go-detailpage-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// regenCmd は、構成案の1セクションだけビジュアルプロンプトを作り直すのだ。
var regenCmd = &cobra.Command{
	Use:   "regen",
	Short: "構成案の1セクションのプロンプトだけ作り直すのだ。",
	Long: `構成案JSONから指定セクションを取り出し、ビジュアルプロンプト（英語と
韓国語の2項目）だけをAIに作り直させるのだ。見出しや本文などの他の項目は
1バイトも変わらないのだよ。--note で修正の要望も渡せるのだ。`,
	RunE: regenCommand,
}

func init() {
	regenCmd.Flags().IntVarP(&opts.SectionID, "section", "s", 0, "作り直すセクションのIDなのだ。")
	regenCmd.Flags().StringVarP(&opts.UserNote, "note", "n", "", "修正の要望（例: 배경을 어둡게）なのだ。")
	_ = regenCmd.MarkFlagRequired("section")
}

func regenCommand(cmd *cobra.Command, args []string) error {
	if opts.SectionID <= 0 {
		return fmt.Errorf("--section には1以上のセクションIDを指定してほしいのだ")
	}

	cfg := loadRunConfig()
	slog.Info("セクション再生成を起動するのだ！",
		"plan_file", opts.PlanFile,
		"section", opts.SectionID)

	if err := pipeline.ExecuteRegenerate(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("セクションが生まれ変わったのだ！")
	return nil
}
