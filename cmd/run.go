package cmd

import (
	"fmt"

	"github.com/shouni/go-detailpage-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// runCmd は、入力→分析→生成の3工程を対話的に進めるのだ。
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "3工程のワークフローを端末で対話的に進めるのだ。",
	Long: `商品入力・分析確認・構成案編集の3工程を1つのセッションで進めるのだ。
到達済みの工程へはAIを呼び直さずに行き来できるのだ。APIキーが未登録なら
その場で入力を促されるし、使用量の超過もその場で案内されるのだよ。`,
	RunE: runCommand,
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg := loadRunConfig()

	if err := pipeline.ExecuteInteractive(cmd.Context(), cfg); err != nil {
		return fmt.Errorf("セッション実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
