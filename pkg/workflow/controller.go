// Package workflow は input → analysis → generation の3工程を順に進める
// コントローラです。到達済みの最遠工程を別に記録するため、ユーザーは
// AI 呼び出しをやり直さずに前の工程へ行き来できます。
package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shouni/go-detailpage-kit/pkg/credential"
	"github.com/shouni/go-detailpage-kit/pkg/domain"
	"github.com/shouni/go-detailpage-kit/pkg/gateway"
	"github.com/shouni/go-detailpage-kit/pkg/retry"
)

// ユーザー向けメッセージ。韓国市場向けサービスなので文言は韓国語です。
const (
	// MsgCredentialRequired は資格情報の登録を促すメッセージです。
	MsgCredentialRequired = "서비스 이용을 위해 Gemini API 키 등록이 필요합니다.\n설정에서 키를 입력해주세요."
	// MsgQuotaExhausted は登録済みキーの使用量超過を知らせるメッセージです。
	MsgQuotaExhausted = "등록된 키의 API 사용 한도가 초과되었습니다.\n(주의: 채팅 구독과 API 유료 사용량은 별개입니다. Google Cloud에 결제 계정이 연결되어 있는지 확인해주세요.)"
	// MsgQuotaKeyMissing はキー未登録のままクォータ系の失敗に至った場合のメッセージです。
	MsgQuotaKeyMissing = "API 키가 등록되지 않았습니다. 서비스를 이용하려면 설정에서 API 키를 등록해주세요."

	genericMessagePrefix = "오류가 발생했습니다: "
	genericMessageLimit  = 100
)

var (
	// ErrBusy は同一工程の呼び出しが進行中であることを示します。再キューはしません。
	ErrBusy = errors.New("前回の要求がまだ処理中です")
	// ErrStageLocked は未到達の工程への移動要求を示します。
	ErrStageLocked = errors.New("まだ到達していない工程へは移動できません")
	// ErrWrongStage は現在の工程では許可されない操作を示します。
	ErrWrongStage = errors.New("この操作は現在の工程では実行できません")
	// ErrSectionNotFound は指定 ID のセクションが存在しないことを示します。
	ErrSectionNotFound = errors.New("指定されたセクションが見つかりません")
	// ErrNotReady は前提となるデータが揃っていないことを示します。
	ErrNotReady = errors.New("前提となるデータがまだありません")
)

// Gateway は AI ゲートウェイに要求する操作の集合です。*gateway.Client が満たします。
type Gateway interface {
	Analyze(ctx context.Context, info domain.ProductInfo) (domain.AnalysisResult, error)
	GenerateStructures(ctx context.Context, analysis domain.AnalysisResult, info domain.ProductInfo) (domain.Pages, error)
	RegenerateSection(ctx context.Context, page domain.PageStructure, analysis domain.AnalysisResult, userNote, referenceImage string) (domain.PromptUpdate, error)
}

// Notifier は失敗をユーザー向けの3種類の回復動作へ届ける出口です。
// 1回の失敗で呼ばれるのは必ずどれか1つだけです。
type Notifier interface {
	PromptCredential(message string)
	PromptQuota(message string)
	Alert(message string)
}

// Controller はワークフローの状態機械です。確定済みの状態は失敗しても壊れません。
type Controller struct {
	mu       sync.Mutex
	gw       Gateway
	notifier Notifier
	creds    *credential.Store

	stage    Stage
	furthest Stage
	busy     bool
	// sectionBusy はセクション単位の再生成の単一飛行ガードです。
	sectionBusy map[int]bool
	// quotaOpen はクォータ通知が表示中かどうか。表示中の再通知は抑止します。
	quotaOpen bool

	product    domain.ProductInfo
	hasProduct bool
	analysis   *domain.AnalysisResult
	pages      domain.Pages
}

// NewController は初期工程 input のコントローラを生成します。
func NewController(gw Gateway, notifier Notifier, creds *credential.Store) *Controller {
	return &Controller{
		gw:          gw,
		notifier:    notifier,
		creds:       creds,
		stage:       StageInput,
		furthest:    StageInput,
		sectionBusy: make(map[int]bool),
	}
}

// SubmitProduct は商品情報を確定し、分析を実行して analysis 工程へ進めます。
// 失敗時は工程もデータも変わらず、回復動作が Notifier へ届きます。
func (c *Controller) SubmitProduct(ctx context.Context, info domain.ProductInfo) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	result, err := c.gw.Analyze(ctx, info)
	if err != nil {
		c.route(err)
		return err
	}

	c.mu.Lock()
	c.product = info
	c.hasProduct = true
	c.analysis = &result
	c.advanceLocked(StageAnalysis)
	c.mu.Unlock()
	return nil
}

// ConfirmAnalysis はユーザー編集済みの分析結果を確定し、構成案を生成して
// generation 工程へ進めます。編集内容は失敗しても保持されます。
func (c *Controller) ConfirmAnalysis(ctx context.Context, edited domain.AnalysisResult) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	c.mu.Lock()
	if !c.hasProduct {
		c.mu.Unlock()
		return ErrNotReady
	}
	info := c.product
	stored := edited.Clone()
	c.analysis = &stored
	c.mu.Unlock()

	pages, err := c.gw.GenerateStructures(ctx, edited, info)
	if err != nil {
		c.route(err)
		return err
	}

	c.mu.Lock()
	c.pages = pages
	c.advanceLocked(StageGeneration)
	c.mu.Unlock()
	return nil
}

// RegenerateSection は generation 工程でのみ有効で、該当セクションの
// プロンプト2項目だけを差し替えます。同一セクションの多重実行は拒否します。
func (c *Controller) RegenerateSection(ctx context.Context, id int, userNote string) error {
	c.mu.Lock()
	if c.stage != StageGeneration {
		c.mu.Unlock()
		return ErrWrongStage
	}
	idx := c.pages.FindByID(id)
	if idx < 0 {
		c.mu.Unlock()
		return ErrSectionNotFound
	}
	if c.sectionBusy[id] {
		c.mu.Unlock()
		return ErrBusy
	}
	c.sectionBusy[id] = true
	page := c.pages[idx].Clone()
	analysis := c.analysis.Clone()
	refImage := c.product.PrimaryImage()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.sectionBusy, id)
		c.mu.Unlock()
	}()

	update, err := c.gw.RegenerateSection(ctx, page, analysis, userNote, refImage)
	if err != nil {
		c.route(err)
		return err
	}

	c.mu.Lock()
	c.pages.ApplyPromptUpdate(id, update)
	c.mu.Unlock()
	return nil
}

// DeleteSection は generation 工程でのみ有効で、指定 ID のセクションを削除します。
// 残りの ID は振り直しません。取り消しはできません。
func (c *Controller) DeleteSection(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != StageGeneration {
		return ErrWrongStage
	}
	pages, ok := c.pages.DeleteByID(id)
	if !ok {
		return ErrSectionNotFound
	}
	c.pages = pages
	return nil
}

// NavigateTo は到達済みの工程へ表示を切り替えます。AI 呼び出しは発生しません。
func (c *Controller) NavigateTo(stage Stage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if stage > c.furthest {
		return ErrStageLocked
	}
	c.stage = stage
	return nil
}

// UpdateAnalysis は分析結果へのローカル編集を適用します。AI は呼びません。
func (c *Controller) UpdateAnalysis(mutate func(*domain.AnalysisResult)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.analysis == nil {
		return ErrNotReady
	}
	mutate(c.analysis)
	c.analysis.EnsureLists()
	return nil
}

// UpdateSection は指定セクションへのローカル編集を適用します。
func (c *Controller) UpdateSection(id int, mutate func(*domain.PageStructure)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.pages.FindByID(id)
	if idx < 0 {
		return ErrSectionNotFound
	}
	mutate(&c.pages[idx])
	return nil
}

// QuotaPromptClosed はクォータ通知が閉じられたことを伝えます。
// 以後のクォータ系失敗は再び通知されます。
func (c *Controller) QuotaPromptClosed() {
	c.mu.Lock()
	c.quotaOpen = false
	c.mu.Unlock()
}

// Stage は現在表示中の工程を返します。
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

// Furthest は到達済みの最遠工程を返します。単調にしか進みません。
func (c *Controller) Furthest() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.furthest
}

// Busy は工程遷移を伴う呼び出しが進行中かどうかを返します。
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Product は確定済みの商品情報を返します。
func (c *Controller) Product() (domain.ProductInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.product, c.hasProduct
}

// Analysis は現在の分析結果のコピーを返します。未生成なら false です。
func (c *Controller) Analysis() (domain.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.analysis == nil {
		return domain.AnalysisResult{}, false
	}
	return c.analysis.Clone(), true
}

// Pages は現在のセクション一覧のコピーを返します。
func (c *Controller) Pages() domain.Pages {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pages.Clone()
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// advanceLocked は表示工程を進め、最遠到達も必要なら更新します。mu 保持前提です。
func (c *Controller) advanceLocked(stage Stage) {
	c.stage = stage
	if stage > c.furthest {
		c.furthest = stage
	}
}

// route は失敗を3種類の回復動作のどれか1つへ振り分けます。
func (c *Controller) route(err error) {
	msg := err.Error()

	if errors.Is(err, gateway.ErrMissingCredential) || strings.Contains(msg, "API key not valid") {
		c.notifier.PromptCredential(MsgCredentialRequired)
		return
	}

	if retry.IsRateLimit(err) {
		c.mu.Lock()
		if c.quotaOpen {
			c.mu.Unlock()
			return
		}
		c.quotaOpen = true
		hasKey := c.creds.Present()
		c.mu.Unlock()

		if hasKey {
			c.notifier.PromptQuota(MsgQuotaExhausted)
		} else {
			c.notifier.PromptQuota(MsgQuotaKeyMissing)
		}
		return
	}

	if r := []rune(msg); len(r) > genericMessageLimit {
		msg = string(r[:genericMessageLimit]) + "..."
	}
	c.notifier.Alert(genericMessagePrefix + msg)
}
