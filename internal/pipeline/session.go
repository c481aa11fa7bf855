package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shouni/go-utils/urlpath"

	"github.com/shouni/go-detailpage-kit/internal/builder"
	"github.com/shouni/go-detailpage-kit/internal/config"
	"github.com/shouni/go-detailpage-kit/pkg/domain"
	"github.com/shouni/go-detailpage-kit/pkg/export"
	"github.com/shouni/go-detailpage-kit/pkg/workflow"
)

// ExecuteInteractive は input → analysis → generation の3工程を端末で
// 対話的に進めるセッションを起動するのだ。
func ExecuteInteractive(ctx context.Context, cfg *config.Config) error {
	appCtx := builder.NewAppContext(cfg)
	notifier := NewTerminalNotifier(os.Stdin, os.Stdout, appCtx.Creds)

	session := &interactiveSession{
		appCtx:   appCtx,
		notifier: notifier,
		ctrl:     appCtx.BuildController(notifier),
		out:      os.Stdout,
	}
	return session.run(ctx)
}

type interactiveSession struct {
	appCtx   *builder.AppContext
	notifier *TerminalNotifier
	ctrl     *workflow.Controller
	out      io.Writer
}

func (s *interactiveSession) run(ctx context.Context) error {
	for {
		var quit bool
		var err error

		switch s.ctrl.Stage() {
		case workflow.StageInput:
			quit, err = s.runInput(ctx)
		case workflow.StageAnalysis:
			quit, err = s.runAnalysis(ctx)
		case workflow.StageGeneration:
			quit, err = s.runGeneration(ctx)
		}

		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// runInput は商品情報を集めて分析を実行する工程なのだ。
func (s *interactiveSession) runInput(ctx context.Context) (bool, error) {
	info, err := s.collectProduct(ctx)
	if err != nil {
		return true, err
	}

	for {
		err := s.ctrl.SubmitProduct(ctx, info)
		s.afterOp()
		if err == nil {
			return false, nil
		}

		fmt.Fprint(s.out, "[r] 다시 시도  [q] 종료 > ")
		cmd, readErr := s.notifier.ReadLine()
		if readErr != nil || cmd == "q" {
			return true, nil
		}
	}
}

// runAnalysis は分析結果を確認して次工程へ進む工程なのだ。
func (s *interactiveSession) runAnalysis(ctx context.Context) (bool, error) {
	analysis, ok := s.ctrl.Analysis()
	if !ok {
		return true, fmt.Errorf("分析結果が無いのに analysis 工程にいるのだ")
	}
	s.printJSON(analysis)

	for {
		fmt.Fprint(s.out, "[n] 다음 단계  [b] 이전 단계  [s] 저장  [q] 종료 > ")
		cmd, err := s.notifier.ReadLine()
		if err != nil {
			return true, nil
		}

		switch {
		case cmd == "n":
			err := s.ctrl.ConfirmAnalysis(ctx, analysis)
			s.afterOp()
			if err == nil {
				return false, nil
			}
		case cmd == "b":
			if err := s.ctrl.NavigateTo(workflow.StageInput); err == nil {
				return false, nil
			}
		case strings.HasPrefix(cmd, "s"):
			s.saveAnalysis(analysis, strings.TrimSpace(strings.TrimPrefix(cmd, "s")))
		case cmd == "q":
			return true, nil
		}
	}
}

// runGeneration は構成案を編集・再生成する最終工程なのだ。
func (s *interactiveSession) runGeneration(ctx context.Context) (bool, error) {
	s.printPages()

	for {
		fmt.Fprint(s.out, "[regen N [메모]] [del N] [save [경로]] [export] [b] 이전  [q] 종료 > ")
		line, err := s.notifier.ReadLine()
		if err != nil {
			return true, nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "regen":
			s.regenSection(ctx, fields[1:])
			s.printPages()
		case "del":
			s.deleteSection(fields[1:])
			s.printPages()
		case "save":
			path := config.DefaultLocalPlan
			if len(fields) > 1 {
				path = fields[1]
			}
			if err := writeJSON(path, s.ctrl.Pages()); err != nil {
				fmt.Fprintln(s.out, err)
			}
		case "export":
			s.exportReport(ctx)
		case "b":
			if err := s.ctrl.NavigateTo(workflow.StageAnalysis); err == nil {
				return false, nil
			}
		case "q":
			return true, nil
		}
	}
}

// collectProduct はフラグ指定のファイルか対話入力で商品情報を組み立てるのだ。
func (s *interactiveSession) collectProduct(ctx context.Context) (domain.ProductInfo, error) {
	if s.appCtx.Options.ProductFile != "" {
		return loadProductWithImages(ctx, s.appCtx)
	}

	var info domain.ProductInfo
	prompts := []struct {
		label string
		dst   *string
	}{
		{"상품명", &info.Name},
		{"상품 설명", &info.Description},
		{"정상가", &info.OriginalPrice},
		{"판매가", &info.SalePrice},
	}
	for _, p := range prompts {
		fmt.Fprintf(s.out, "%s: ", p.label)
		value, err := s.notifier.ReadLine()
		if err != nil {
			return info, err
		}
		*p.dst = value
	}

	if err := s.appCtx.Loader.AttachImages(ctx, &info, s.appCtx.Options.ImageFiles); err != nil {
		return info, err
	}
	return info, nil
}

func (s *interactiveSession) regenSection(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "섹션 번호를 지정해주세요.")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(s.out, "섹션 번호가 올바르지 않습니다.")
		return
	}
	note := strings.Join(args[1:], " ")

	err = s.ctrl.RegenerateSection(ctx, id, note)
	s.afterOp()
	if err != nil {
		fmt.Fprintln(s.out, err)
	}
}

func (s *interactiveSession) deleteSection(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "섹션 번호를 지정해주세요.")
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(s.out, "섹션 번호가 올바르지 않습니다.")
		return
	}
	if err := s.ctrl.DeleteSection(id); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

// exportReport は現在の分析結果をその場で文書へ書き出すのだ。
func (s *interactiveSession) exportReport(ctx context.Context) {
	analysis, ok := s.ctrl.Analysis()
	if !ok {
		fmt.Fprintln(s.out, "내보낼 분석 결과가 없습니다.")
		return
	}
	var productName string
	if info, ok := s.ctrl.Product(); ok {
		productName = info.Name
	}

	doc, err := s.appCtx.BuildExporter(exportDocumentTitle).
		Export(ctx, productName, export.BuildAnalysisRegions(analysis))
	if err != nil {
		fmt.Fprintln(s.out, "PDF 저장 중 오류가 발생했습니다.")
		fmt.Fprintln(s.out, err)
		return
	}

	outputDir := s.appCtx.Options.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultLocalExportDir
	}
	path, err := urlpath.ResolvePath(outputDir, doc.FileName)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	if err := writeFile(path, doc.Data); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprintf(s.out, "저장되었습니다: %s\n", path)
}

func (s *interactiveSession) saveAnalysis(analysis domain.AnalysisResult, path string) {
	if path == "" {
		path = config.DefaultLocalAnalysis
	}
	if err := writeJSON(path, analysis); err != nil {
		fmt.Fprintln(s.out, err)
	}
}

// afterOp は直前の操作で表示されたクォータ案内の後始末をするのだ。
func (s *interactiveSession) afterOp() {
	if s.notifier.ConsumeQuotaAck() {
		s.ctrl.QuotaPromptClosed()
	}
}

func (s *interactiveSession) printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprintln(s.out, string(data))
}

func (s *interactiveSession) printPages() {
	pages := s.ctrl.Pages()
	fmt.Fprintf(s.out, "\n구성안 (%d 섹션)\n", len(pages))
	for _, page := range pages {
		fmt.Fprintf(s.out, "  [%d] %s | %s\n", page.ID, page.Title, page.Headline)
	}
}
