package gateway

import (
	"google.golang.org/genai"

	"github.com/shouni/go-detailpage-kit/pkg/domain"
)

// レスポンススキーマの定義。プロンプトと対になる出力契約はすべてこのファイルに集約します。

func categoryEnum() []string {
	categories := domain.Categories()
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}

func stringArraySchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
}

// analysisSchema は analyze 操作の出力契約です。
func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category":       {Type: genai.TypeString, Enum: categoryEnum()},
			"summary":        {Type: genai.TypeString},
			"targets":        stringArraySchema(),
			"motivations":    stringArraySchema(),
			"marketProblems": stringArraySchema(),
			"usps":           stringArraySchema(),
			"brandIdentity": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"tone":             {Type: genai.TypeString},
					"coreMessage":      {Type: genai.TypeString},
					"avoidExpressions": {Type: genai.TypeString},
					"colors":           stringArraySchema(),
				},
				Required: []string{"tone", "coreMessage", "avoidExpressions", "colors"},
			},
		},
		Required: []string{"category", "summary", "targets", "motivations", "marketProblems", "usps", "brandIdentity"},
	}
}

// structureSchema は structure-generate 操作の出力契約（セクションの配列）です。
func structureSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":            {Type: genai.TypeNumber},
				"title":         {Type: genai.TypeString},
				"purpose":       {Type: genai.TypeString},
				"headline":      {Type: genai.TypeString, Description: "Main copy. Short and impactful."},
				"subHeadline":   {Type: genai.TypeString, Description: "Sub copy"},
				"bodyText":      {Type: genai.TypeString},
				"contentPoints": stringArraySchema(),
				"visualPrompt": {
					Type:        genai.TypeString,
					Description: "Detailed visual description in KOREAN. MUST DESCRIBE THE PRODUCT EXACTLY AS SHOWN IN REFERENCE IMAGE.",
				},
				"visualPromptKorean": {
					Type:        genai.TypeString,
					Description: "Same as visualPrompt. Detailed visual description in Korean.",
				},
				"visualStyle": {
					Type: genai.TypeString,
					Enum: []string{
						string(domain.StylePhotorealistic),
						string(domain.StyleIllustration),
						string(domain.StyleInfographic),
					},
				},
				"textStyleConfig": {
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"fontFamily":     {Type: genai.TypeString},
						"textAlign":      {Type: genai.TypeString},
						"color":          {Type: genai.TypeString},
						"textShadow":     {Type: genai.TypeBoolean},
						"overlayColor":   {Type: genai.TypeString},
						"overlayOpacity": {Type: genai.TypeNumber},
					},
					Required: []string{"fontFamily", "textAlign", "color", "textShadow", "overlayColor", "overlayOpacity"},
				},
			},
			Required: []string{
				"id", "title", "purpose", "headline", "subHeadline", "bodyText",
				"contentPoints", "visualPrompt", "visualPromptKorean", "visualStyle", "textStyleConfig",
			},
		},
	}
}

// regenerateSchema は regenerate-one-section 操作の出力契約です。
// フィールド名 english は互換のための名残で、中身は韓国語プロンプトです。
func regenerateSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"english": {Type: genai.TypeString, Description: "The optimized prompt in KOREAN."},
			"korean":  {Type: genai.TypeString},
		},
		Required: []string{"english", "korean"},
	}
}
