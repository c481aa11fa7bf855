package domain

// VisualStyle はセクション画像の表現形式です。
type VisualStyle string

const (
	StylePhotorealistic VisualStyle = "photorealistic"
	StyleIllustration   VisualStyle = "illustration"
	StyleInfographic    VisualStyle = "infographic"
)

// TextStyleConfig はセクション単位のテキスト装飾設定です。生成時に付与され、以後はユーザーが編集します。
type TextStyleConfig struct {
	FontFamily     string  `json:"fontFamily"`
	TextAlign      string  `json:"textAlign"`
	Color          string  `json:"color"`
	TextShadow     bool    `json:"textShadow"`
	OverlayColor   string  `json:"overlayColor"`
	OverlayOpacity float64 `json:"overlayOpacity"`
}

// PageStructure は詳細ページ1セクション分の企画案です。
// ID は生成時に 1..N で振られ、削除後も振り直しや再利用はしません。
type PageStructure struct {
	ID                 int              `json:"id"`
	Title              string           `json:"title"`
	Purpose            string           `json:"purpose"`
	Headline           string           `json:"headline"`
	SubHeadline        string           `json:"subHeadline"`
	BodyText           string           `json:"bodyText"`
	ContentPoints      []string         `json:"contentPoints"`
	VisualPrompt       string           `json:"visualPrompt"`
	VisualPromptKorean string           `json:"visualPromptKorean"`
	VisualStyle        VisualStyle      `json:"visualStyle"`
	TextStyleConfig    *TextStyleConfig `json:"textStyleConfig,omitempty"`
}

// Clone はスライスとポインタを共有しない深いコピーを返します。
func (p PageStructure) Clone() PageStructure {
	cp := p
	cp.ContentPoints = append([]string(nil), p.ContentPoints...)
	if p.TextStyleConfig != nil {
		style := *p.TextStyleConfig
		cp.TextStyleConfig = &style
	}
	return cp
}

// PromptUpdate はセクション再生成で書き換えてよい2つのプロンプト項目だけを運びます。
type PromptUpdate struct {
	VisualPrompt       string
	VisualPromptKorean string
}

// Pages はアクティブなセクション一覧です。ID はリスト内で一意です。
type Pages []PageStructure

// FindByID は指定 ID のセクションの位置を返します。見つからない場合は -1 です。
func (ps Pages) FindByID(id int) int {
	for i := range ps {
		if ps[i].ID == id {
			return i
		}
	}
	return -1
}

// DeleteByID は指定 ID のセクションだけを取り除きます。残りの ID は変更しません。
// 取り除いた場合は true を返します。
func (ps Pages) DeleteByID(id int) (Pages, bool) {
	idx := ps.FindByID(id)
	if idx < 0 {
		return ps, false
	}
	out := make(Pages, 0, len(ps)-1)
	out = append(out, ps[:idx]...)
	return append(out, ps[idx+1:]...), true
}

// ApplyPromptUpdate は再生成結果を該当セクションに反映します。
// 書き換えるのはプロンプト2項目のみで、他のフィールドには一切触れません。
func (ps Pages) ApplyPromptUpdate(id int, update PromptUpdate) bool {
	idx := ps.FindByID(id)
	if idx < 0 {
		return false
	}
	ps[idx].VisualPrompt = update.VisualPrompt
	ps[idx].VisualPromptKorean = update.VisualPromptKorean
	return true
}

// Clone は全セクションの深いコピーを返します。
func (ps Pages) Clone() Pages {
	out := make(Pages, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Clone())
	}
	return out
}
