package workflow

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-detailpage-kit/pkg/credential"
	"github.com/shouni/go-detailpage-kit/pkg/domain"
	"github.com/shouni/go-detailpage-kit/pkg/gateway"
)

// stubGateway は呼び出し回数と結果を制御できるテスト用ゲートウェイです。
type stubGateway struct {
	analyzeCalls   int
	structureCalls int
	regenCalls     int

	analyzeErr   error
	structureErr error
	regenErr     error

	analyzeResult domain.AnalysisResult
	pages         domain.Pages
	regenUpdate   domain.PromptUpdate

	// block が非nilの間、Analyze はチャネルが閉じるまで待ちます。
	block chan struct{}
}

func (s *stubGateway) Analyze(ctx context.Context, info domain.ProductInfo) (domain.AnalysisResult, error) {
	s.analyzeCalls++
	if s.block != nil {
		<-s.block
	}
	if s.analyzeErr != nil {
		return domain.AnalysisResult{}, s.analyzeErr
	}
	return s.analyzeResult, nil
}

func (s *stubGateway) GenerateStructures(ctx context.Context, analysis domain.AnalysisResult, info domain.ProductInfo) (domain.Pages, error) {
	s.structureCalls++
	if s.structureErr != nil {
		return nil, s.structureErr
	}
	return s.pages.Clone(), nil
}

func (s *stubGateway) RegenerateSection(ctx context.Context, page domain.PageStructure, analysis domain.AnalysisResult, userNote, referenceImage string) (domain.PromptUpdate, error) {
	s.regenCalls++
	if s.regenErr != nil {
		return domain.PromptUpdate{}, s.regenErr
	}
	return s.regenUpdate, nil
}

// recordNotifier は回復動作の呼び出しを記録します。
type recordNotifier struct {
	credentialMsgs []string
	quotaMsgs      []string
	alertMsgs      []string
}

func (n *recordNotifier) PromptCredential(message string) {
	n.credentialMsgs = append(n.credentialMsgs, message)
}
func (n *recordNotifier) PromptQuota(message string) { n.quotaMsgs = append(n.quotaMsgs, message) }
func (n *recordNotifier) Alert(message string)       { n.alertMsgs = append(n.alertMsgs, message) }

func (n *recordNotifier) total() int {
	return len(n.credentialMsgs) + len(n.quotaMsgs) + len(n.alertMsgs)
}

func testPages() domain.Pages {
	return domain.Pages{
		{ID: 1, Title: "메인 컷", VisualPrompt: "v1", VisualPromptKorean: "k1"},
		{ID: 2, Title: "문제 제기", VisualPrompt: "v2", VisualPromptKorean: "k2"},
		{ID: 3, Title: "CTA", VisualPrompt: "v3", VisualPromptKorean: "k3"},
	}
}

func setup(stub *stubGateway, key string) (*Controller, *recordNotifier) {
	notifier := &recordNotifier{}
	return NewController(stub, notifier, credential.NewStore(key)), notifier
}

func reachGeneration(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.SubmitProduct(context.Background(), domain.ProductInfo{Name: "Green Tea Cleanser"}); err != nil {
		t.Fatalf("SubmitProduct失敗: %v", err)
	}
	analysis, _ := c.Analysis()
	if err := c.ConfirmAnalysis(context.Background(), analysis); err != nil {
		t.Fatalf("ConfirmAnalysis失敗: %v", err)
	}
}

func TestController_HappyPath(t *testing.T) {
	t.Run("input→analysis→generationと順に進むこと", func(t *testing.T) {
		stub := &stubGateway{
			analyzeResult: domain.AnalysisResult{Category: domain.CategoryBeauty, Targets: []string{"T1"}},
			pages:         testPages(),
		}
		c, notifier := setup(stub, "key")

		if c.Stage() != StageInput {
			t.Fatalf("初期工程が違う: %v", c.Stage())
		}

		reachGeneration(t, c)

		if c.Stage() != StageGeneration || c.Furthest() != StageGeneration {
			t.Errorf("generation に到達していない: %v / %v", c.Stage(), c.Furthest())
		}
		if len(c.Pages()) != 3 {
			t.Errorf("セクションが保持されていない: %d", len(c.Pages()))
		}
		if notifier.total() != 0 {
			t.Errorf("成功時に通知は出ないはず: %+v", notifier)
		}
	})
}

func TestController_Navigation(t *testing.T) {
	t.Run("到達済み工程へはAI呼び出しなしで行き来できること", func(t *testing.T) {
		stub := &stubGateway{analyzeResult: domain.AnalysisResult{}, pages: testPages()}
		c, _ := setup(stub, "key")
		reachGeneration(t, c)

		analysisBefore, _ := c.Analysis()
		pagesBefore := c.Pages()

		if err := c.NavigateTo(StageInput); err != nil {
			t.Fatalf("inputへ戻れない: %v", err)
		}
		if err := c.NavigateTo(StageGeneration); err != nil {
			t.Fatalf("generationへ進めない: %v", err)
		}

		if stub.analyzeCalls != 1 || stub.structureCalls != 1 {
			t.Errorf("ナビゲーションでAIが再実行された: analyze=%d structure=%d",
				stub.analyzeCalls, stub.structureCalls)
		}

		analysisAfter, _ := c.Analysis()
		if !reflect.DeepEqual(analysisBefore, analysisAfter) {
			t.Error("分析結果が失われた")
		}
		if !reflect.DeepEqual(pagesBefore, c.Pages()) {
			t.Error("セクションが失われた")
		}
	})

	t.Run("未到達の工程へは移動できないこと", func(t *testing.T) {
		c, _ := setup(&stubGateway{}, "key")
		if err := c.NavigateTo(StageGeneration); !errors.Is(err, ErrStageLocked) {
			t.Errorf("ErrStageLocked のはず: %v", err)
		}
	})
}

func TestController_SingleFlight(t *testing.T) {
	t.Run("処理中の再提出はErrBusyで拒否されること", func(t *testing.T) {
		stub := &stubGateway{block: make(chan struct{})}
		c, _ := setup(stub, "key")

		done := make(chan error, 1)
		go func() {
			done <- c.SubmitProduct(context.Background(), domain.ProductInfo{Name: "A"})
		}()

		// 1回目の呼び出しがゲートウェイに到達するまで待つ
		for !c.Busy() {
			time.Sleep(time.Millisecond)
		}

		if err := c.SubmitProduct(context.Background(), domain.ProductInfo{Name: "B"}); !errors.Is(err, ErrBusy) {
			t.Errorf("ErrBusy のはず: %v", err)
		}

		close(stub.block)
		if err := <-done; err != nil {
			t.Fatalf("1回目は成功するはず: %v", err)
		}
		if stub.analyzeCalls != 1 {
			t.Errorf("再提出はキューイングされないはず: %d", stub.analyzeCalls)
		}
	})
}

func TestController_ErrorRouting(t *testing.T) {
	t.Run("資格情報なしの提出は資格情報プロンプトに振り分けられること", func(t *testing.T) {
		stub := &stubGateway{analyzeErr: gateway.ErrMissingCredential}
		c, notifier := setup(stub, "")

		err := c.SubmitProduct(context.Background(), domain.ProductInfo{
			Name: "Green Tea Cleanser", OriginalPrice: "45,000원", SalePrice: "29,900원",
		})
		if !errors.Is(err, gateway.ErrMissingCredential) {
			t.Fatalf("失敗が返るはず: %v", err)
		}
		if len(notifier.credentialMsgs) != 1 || notifier.total() != 1 {
			t.Errorf("資格情報プロンプトだけが1回出るはず: %+v", notifier)
		}
		if c.Stage() != StageInput {
			t.Errorf("工程は進まないはず: %v", c.Stage())
		}
	})

	t.Run("クォータ超過はキーの有無でメッセージが変わること", func(t *testing.T) {
		quotaErr := errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")

		withKey, n1 := setup(&stubGateway{analyzeErr: quotaErr}, "registered-key")
		_ = withKey.SubmitProduct(context.Background(), domain.ProductInfo{})
		if len(n1.quotaMsgs) != 1 || n1.quotaMsgs[0] != MsgQuotaExhausted {
			t.Errorf("登録済みキー向けのメッセージのはず: %+v", n1.quotaMsgs)
		}

		withoutKey, n2 := setup(&stubGateway{analyzeErr: quotaErr}, "")
		_ = withoutKey.SubmitProduct(context.Background(), domain.ProductInfo{})
		if len(n2.quotaMsgs) != 1 || n2.quotaMsgs[0] != MsgQuotaKeyMissing {
			t.Errorf("未登録向けのメッセージのはず: %+v", n2.quotaMsgs)
		}
	})

	t.Run("表示中のクォータ通知は再発火しないこと", func(t *testing.T) {
		quotaErr := errors.New("quota exceeded")
		stub := &stubGateway{analyzeErr: quotaErr}
		c, notifier := setup(stub, "key")

		_ = c.SubmitProduct(context.Background(), domain.ProductInfo{})
		_ = c.SubmitProduct(context.Background(), domain.ProductInfo{})
		if len(notifier.quotaMsgs) != 1 {
			t.Errorf("通知は1回だけのはず: %d", len(notifier.quotaMsgs))
		}

		// 閉じた後は再び通知される
		c.QuotaPromptClosed()
		_ = c.SubmitProduct(context.Background(), domain.ProductInfo{})
		if len(notifier.quotaMsgs) != 2 {
			t.Errorf("閉じた後は再通知されるはず: %d", len(notifier.quotaMsgs))
		}
	})

	t.Run("その他の失敗は切り詰めた汎用アラートになること", func(t *testing.T) {
		stub := &stubGateway{analyzeErr: errors.New(strings.Repeat("x", 300))}
		c, notifier := setup(stub, "key")

		_ = c.SubmitProduct(context.Background(), domain.ProductInfo{})
		if len(notifier.alertMsgs) != 1 || notifier.total() != 1 {
			t.Fatalf("汎用アラートだけが1回出るはず: %+v", notifier)
		}
		if !strings.HasSuffix(notifier.alertMsgs[0], "...") {
			t.Error("メッセージは切り詰められるはず")
		}
	})
}

func TestController_Sections(t *testing.T) {
	newReady := func(t *testing.T, stub *stubGateway) *Controller {
		stub.analyzeResult = domain.AnalysisResult{}
		stub.pages = testPages()
		c, _ := setup(stub, "key")
		reachGeneration(t, c)
		return c
	}

	t.Run("削除は指定IDだけを消し、IDを振り直さないこと", func(t *testing.T) {
		c := newReady(t, &stubGateway{})

		if err := c.DeleteSection(2); err != nil {
			t.Fatalf("削除失敗: %v", err)
		}
		pages := c.Pages()
		if len(pages) != 2 || pages[0].ID != 1 || pages[1].ID != 3 {
			t.Errorf("ID 1,3 が残るはず: %+v", pages)
		}
	})

	t.Run("再生成はプロンプト2項目以外を変えないこと", func(t *testing.T) {
		stub := &stubGateway{regenUpdate: domain.PromptUpdate{VisualPrompt: "new-v", VisualPromptKorean: "new-k"}}
		c := newReady(t, stub)

		before := c.Pages()[1]
		if err := c.RegenerateSection(context.Background(), 2, "더 밝게"); err != nil {
			t.Fatalf("再生成失敗: %v", err)
		}

		after := c.Pages()[1]
		if after.VisualPrompt != "new-v" || after.VisualPromptKorean != "new-k" {
			t.Errorf("プロンプトが反映されていない: %+v", after)
		}
		before.VisualPrompt = after.VisualPrompt
		before.VisualPromptKorean = after.VisualPromptKorean
		if !reflect.DeepEqual(before, after) {
			t.Error("プロンプト以外が書き換わっている")
		}
	})

	t.Run("generation工程以外では操作できないこと", func(t *testing.T) {
		c, _ := setup(&stubGateway{}, "key")
		if err := c.DeleteSection(1); !errors.Is(err, ErrWrongStage) {
			t.Errorf("ErrWrongStage のはず: %v", err)
		}
		if err := c.RegenerateSection(context.Background(), 1, ""); !errors.Is(err, ErrWrongStage) {
			t.Errorf("ErrWrongStage のはず: %v", err)
		}
	})
}

func TestController_UpdateAnalysis(t *testing.T) {
	t.Run("ローカル編集はAIを呼ばずに反映されること", func(t *testing.T) {
		stub := &stubGateway{analyzeResult: domain.AnalysisResult{Targets: []string{"A", "B", "C"}}}
		c, _ := setup(stub, "key")
		if err := c.SubmitProduct(context.Background(), domain.ProductInfo{}); err != nil {
			t.Fatalf("提出失敗: %v", err)
		}

		err := c.UpdateAnalysis(func(a *domain.AnalysisResult) {
			a.Targets = domain.AppendItem(a.Targets, "D")
			a.Targets = domain.RemoveItem(a.Targets, 1)
		})
		if err != nil {
			t.Fatalf("編集失敗: %v", err)
		}

		analysis, _ := c.Analysis()
		if !reflect.DeepEqual(analysis.Targets, []string{"A", "C", "D"}) {
			t.Errorf("編集結果が違う: %v", analysis.Targets)
		}
		if stub.analyzeCalls != 1 {
			t.Errorf("編集でAIが呼ばれた: %d", stub.analyzeCalls)
		}
	})
}

func TestParseStage(t *testing.T) {
	for _, name := range []string{"input", "analysis", "generation"} {
		stage, err := ParseStage(name)
		if err != nil {
			t.Errorf("%s のパースに失敗: %v", name, err)
		}
		if stage.String() != name {
			t.Errorf("往復が一致しない: %s != %s", stage.String(), name)
		}
	}
	if _, err := ParseStage("unknown"); err == nil {
		t.Error("未知の工程名はエラーのはず")
	}
}
