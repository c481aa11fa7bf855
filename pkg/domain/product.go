package domain

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// ProductInfo は入力フォームから渡される商品の基本情報です。
// 一度確定した後は再提出以外で書き換えられません。
type ProductInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	// Images は data URI 形式（base64）の参照画像リストです。先頭が主参照になります。
	Images        []string `json:"images"`
	OriginalPrice string   `json:"originalPrice"`
	SalePrice     string   `json:"salePrice"`
}

// PrimaryImage は先頭の参照画像を返します。存在しない場合は空文字です。
func (p ProductInfo) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

var dataURIMimeRegex = regexp.MustCompile(`^data:(.*?);`)

// ParseDataURI は data URI から MIME タイプと生のバイト列を取り出します。
// MIME が特定できない場合は image/png として扱います。
func ParseDataURI(uri string) (mimeType string, data []byte, err error) {
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return "", nil, fmt.Errorf("data URIの形式が不正です: カンマ区切りが見つかりません")
	}

	mimeType = "image/png"
	if m := dataURIMimeRegex.FindStringSubmatch(uri[:idx+1]); len(m) == 2 && m[1] != "" {
		mimeType = m[1]
	}

	payload := uri[idx+1:]
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URIのbase64デコードに失敗しました: %w", err)
	}
	return mimeType, data, nil
}

// EncodeDataURI はバイト列を data URI 形式にエンコードします。
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
