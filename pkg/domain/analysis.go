package domain

// ProductCategory は分析結果の商品カテゴリです。固定の列挙から一つだけ選ばれます。
type ProductCategory string

const (
	CategoryFashion ProductCategory = "Fashion"
	CategoryBeauty  ProductCategory = "Beauty"
	CategoryLiving  ProductCategory = "Living"
	CategoryDigital ProductCategory = "Digital"
	CategoryHealth  ProductCategory = "Health"
	CategoryFood    ProductCategory = "Food"
	CategoryGeneral ProductCategory = "General"
)

// Categories は選択可能な全カテゴリを定義順で返します。
func Categories() []ProductCategory {
	return []ProductCategory{
		CategoryFashion, CategoryBeauty, CategoryLiving, CategoryDigital,
		CategoryHealth, CategoryFood, CategoryGeneral,
	}
}

// BrandIdentity は分析で導出されるブランドのトーン設定です。
type BrandIdentity struct {
	Tone             string   `json:"tone"`
	CoreMessage      string   `json:"coreMessage"`
	AvoidExpressions string   `json:"avoidExpressions"`
	Colors           []string `json:"colors"`
}

// AnalysisResult は analyze 工程の出力で、以後はユーザーが自由に編集できるローカル状態です。
// Targets / Motivations / MarketProblems / Usps の4リストは nil にしない（空は許容）のが不変条件です。
type AnalysisResult struct {
	Category       ProductCategory `json:"category"`
	Summary        string          `json:"summary"`
	Targets        []string        `json:"targets"`
	Motivations    []string        `json:"motivations"`
	MarketProblems []string        `json:"marketProblems"`
	Usps           []string        `json:"usps"`
	BrandIdentity  BrandIdentity   `json:"brandIdentity"`
}

// EnsureLists は4つのリスト項目とブランドカラーを非nilに正規化します。
// AIレスポンスのデコード直後に必ず呼ぶことで不変条件を守ります。
func (a *AnalysisResult) EnsureLists() {
	if a.Targets == nil {
		a.Targets = []string{}
	}
	if a.Motivations == nil {
		a.Motivations = []string{}
	}
	if a.MarketProblems == nil {
		a.MarketProblems = []string{}
	}
	if a.Usps == nil {
		a.Usps = []string{}
	}
	if a.BrandIdentity.Colors == nil {
		a.BrandIdentity.Colors = []string{}
	}
}

// Clone はリストを共有しない深いコピーを返します。
func (a AnalysisResult) Clone() AnalysisResult {
	cp := a
	cp.Targets = append([]string(nil), a.Targets...)
	cp.Motivations = append([]string(nil), a.Motivations...)
	cp.MarketProblems = append([]string(nil), a.MarketProblems...)
	cp.Usps = append([]string(nil), a.Usps...)
	cp.BrandIdentity.Colors = append([]string(nil), a.BrandIdentity.Colors...)
	cp.EnsureLists()
	return cp
}

// AppendItem は末尾に項目を追加した新しいリストを返します。
func AppendItem(list []string, item string) []string {
	out := append([]string(nil), list...)
	return append(out, item)
}

// UpdateItem は指定位置の項目を書き換えた新しいリストを返します。範囲外は無視します。
func UpdateItem(list []string, index int, value string) []string {
	out := append([]string(nil), list...)
	if index >= 0 && index < len(out) {
		out[index] = value
	}
	return out
}

// RemoveItem は指定位置の項目を取り除いた新しいリストを返します。他の項目の順序は維持されます。
func RemoveItem(list []string, index int) []string {
	if index < 0 || index >= len(list) {
		return append([]string(nil), list...)
	}
	out := make([]string, 0, len(list)-1)
	out = append(out, list[:index]...)
	return append(out, list[index+1:]...)
}
