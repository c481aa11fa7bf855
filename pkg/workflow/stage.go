package workflow

import "fmt"

// Stage はワークフローの工程です。int の序数で前後関係を比較します（文字列比較はしません）。
type Stage int

const (
	// StageInput は商品情報の入力工程です。
	StageInput Stage = iota
	// StageAnalysis は分析結果の確認・編集工程です。
	StageAnalysis
	// StageGeneration は構成案の生成・編集工程です。
	StageGeneration
)

var stageNames = map[Stage]string{
	StageInput:      "input",
	StageAnalysis:   "analysis",
	StageGeneration: "generation",
}

// String は工程名を返します。
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ParseStage は工程名から Stage を引きます。
func ParseStage(name string) (Stage, error) {
	for stage, n := range stageNames {
		if n == name {
			return stage, nil
		}
	}
	return StageInput, fmt.Errorf("未知の工程名です: %q", name)
}
