package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-utils/urlpath"

	"github.com/shouni/go-detailpage-kit/internal/builder"
	"github.com/shouni/go-detailpage-kit/internal/config"
	"github.com/shouni/go-detailpage-kit/pkg/domain"
	"github.com/shouni/go-detailpage-kit/pkg/export"
)

const exportDocumentTitle = "AI 브랜드 분석 리포트"

// ExecuteAnalyze は商品情報を読み込み、ブランド分析を実行して
// 結果のJSONを保存するのだ。
func ExecuteAnalyze(ctx context.Context, cfg *config.Config) error {
	appCtx := builder.NewAppContext(cfg)

	info, err := loadProductWithImages(ctx, appCtx)
	if err != nil {
		return err
	}

	slog.Info("Phase 1: ブランド分析を開始するのだ...",
		"product", info.Name,
		"images", len(info.Images),
		"model", cfg.GeminiModel)

	analysis, err := appCtx.Gateway.Analyze(ctx, info)
	if err != nil {
		return fmt.Errorf("ブランド分析に失敗したのだ: %w", err)
	}

	outputPath := cfg.Options.OutputFile
	if outputPath == "" {
		outputPath = config.DefaultLocalAnalysis
	}
	return writeJSON(outputPath, analysis)
}

// ExecuteStructure は分析結果と商品情報から構成案を生成して保存するのだ。
func ExecuteStructure(ctx context.Context, cfg *config.Config) error {
	appCtx := builder.NewAppContext(cfg)

	analysis, err := appCtx.Loader.LoadAnalysis(cfg.Options.AnalysisFile)
	if err != nil {
		return err
	}
	info, err := loadProductWithImages(ctx, appCtx)
	if err != nil {
		return err
	}

	slog.Info("Phase 2: ページ構成案の生成を開始するのだ...",
		"product", info.Name,
		"category", analysis.Category)

	pages, err := appCtx.Gateway.GenerateStructures(ctx, analysis, info)
	if err != nil {
		return fmt.Errorf("構成案の生成に失敗したのだ: %w", err)
	}

	outputPath := cfg.Options.OutputFile
	if outputPath == "" {
		outputPath = config.DefaultLocalPlan
	}
	return writeJSON(outputPath, pages)
}

// ExecuteRegenerate は構成案の1セクションだけビジュアルプロンプトを
// 作り直して保存し直すのだ。他のフィールドには触れないのだよ。
func ExecuteRegenerate(ctx context.Context, cfg *config.Config) error {
	appCtx := builder.NewAppContext(cfg)

	pages, err := appCtx.Loader.LoadPlan(cfg.Options.PlanFile)
	if err != nil {
		return err
	}
	analysis, err := appCtx.Loader.LoadAnalysis(cfg.Options.AnalysisFile)
	if err != nil {
		return err
	}

	idx := pages.FindByID(cfg.Options.SectionID)
	if idx < 0 {
		return fmt.Errorf("セクション %d が構成案に見つからないのだ", cfg.Options.SectionID)
	}

	// 参照画像は商品情報があるときだけ添付するのだ
	var refImage string
	if cfg.Options.ProductFile != "" {
		info, err := loadProductWithImages(ctx, appCtx)
		if err != nil {
			return err
		}
		refImage = info.PrimaryImage()
	}

	slog.Info("セクションの再生成を開始するのだ...",
		"section", cfg.Options.SectionID,
		"note", cfg.Options.UserNote)

	update, err := appCtx.Gateway.RegenerateSection(ctx, pages[idx], analysis, cfg.Options.UserNote, refImage)
	if err != nil {
		return fmt.Errorf("セクションの再生成に失敗したのだ: %w", err)
	}
	pages.ApplyPromptUpdate(cfg.Options.SectionID, update)

	outputPath := cfg.Options.OutputFile
	if outputPath == "" {
		outputPath = cfg.Options.PlanFile
	}
	return writeJSON(outputPath, pages)
}

// ExecuteExport は分析結果を1領域=1ページの文書へ書き出すのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) error {
	appCtx := builder.NewAppContext(cfg)

	analysis, err := appCtx.Loader.LoadAnalysis(cfg.Options.AnalysisFile)
	if err != nil {
		return err
	}

	// ファイル名に使う商品名は任意入力なのだ。無ければ既定名になるのだ。
	var productName string
	if cfg.Options.ProductFile != "" {
		info, err := appCtx.Loader.LoadProduct(cfg.Options.ProductFile)
		if err != nil {
			return err
		}
		productName = info.Name
	}

	regions := export.BuildAnalysisRegions(analysis)
	slog.Info("Phase 3: リポートの書き出しを開始するのだ...",
		"regions", len(regions),
		"product", productName)

	doc, err := appCtx.BuildExporter(exportDocumentTitle).Export(ctx, productName, regions)
	if err != nil {
		return fmt.Errorf("リポートの書き出しに失敗したのだ: %w", err)
	}

	outputDir := cfg.Options.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultLocalExportDir
	}
	outputPath, err := urlpath.ResolvePath(outputDir, doc.FileName)
	if err != nil {
		return fmt.Errorf("出力パスの解決に失敗したのだ: %w", err)
	}

	if err := writeFile(outputPath, doc.Data); err != nil {
		return err
	}
	slog.Info("リポートが完成したのだ！", "path", outputPath)
	return nil
}

// loadProductWithImages は商品情報を読み込み、指定された参照画像を添付するのだ。
func loadProductWithImages(ctx context.Context, appCtx *builder.AppContext) (domain.ProductInfo, error) {
	info, err := appCtx.Loader.LoadProduct(appCtx.Options.ProductFile)
	if err != nil {
		return info, err
	}
	if err := appCtx.Loader.AttachImages(ctx, &info, appCtx.Options.ImageFiles); err != nil {
		return info, err
	}
	return info, nil
}

// writeJSON は値を整形付きJSONとして保存するのだ。
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("JSONへの変換に失敗したのだ: %w", err)
	}
	if err := writeFile(path, data); err != nil {
		return err
	}
	slog.Info("保存したのだ", "path", path)
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("出力ディレクトリの作成に失敗したのだ: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("'%s' への書き込みに失敗したのだ: %w", path, err)
	}
	return nil
}
