package input

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-detailpage-kit/internal/config"
	"github.com/shouni/go-detailpage-kit/pkg/domain"
)

// Loader は商品情報と参照画像をファイルから読み込む入力層なのだ。
// デコード済みの画像データURIはTTL付きキャッシュに保持して、同じ画像の
// 再読み込みを避けるのだよ。
type Loader struct {
	images *cache.Cache
}

// NewLoader は新しい Loader を生成するのだ。
func NewLoader() *Loader {
	return &Loader{
		images: cache.New(config.DefaultImageCacheTTL, config.DefaultImageCacheGC),
	}
}

// LoadProduct はJSONファイルから商品情報を読み込むのだ。
func (l *Loader) LoadProduct(path string) (domain.ProductInfo, error) {
	var info domain.ProductInfo

	data, err := os.ReadFile(path)
	if err != nil {
		return info, fmt.Errorf("商品情報ファイル '%s' の読み込みに失敗したのだ: %w", path, err)
	}
	if err := json.Unmarshal(data, &info); err != nil {
		return info, fmt.Errorf("商品情報ファイル '%s' のデコードに失敗したのだ: %w", path, err)
	}
	if strings.TrimSpace(info.Name) == "" {
		return info, fmt.Errorf("商品情報ファイル '%s' に商品名がないのだ", path)
	}
	return info, nil
}

// LoadAnalysis はJSONファイルから分析結果を読み込むのだ。
func (l *Loader) LoadAnalysis(path string) (domain.AnalysisResult, error) {
	var analysis domain.AnalysisResult

	data, err := os.ReadFile(path)
	if err != nil {
		return analysis, fmt.Errorf("分析結果ファイル '%s' の読み込みに失敗したのだ: %w", path, err)
	}
	if err := json.Unmarshal(data, &analysis); err != nil {
		return analysis, fmt.Errorf("分析結果ファイル '%s' のデコードに失敗したのだ: %w", path, err)
	}
	analysis.EnsureLists()
	return analysis, nil
}

// LoadPlan はJSONファイルから構成案を読み込むのだ。
func (l *Loader) LoadPlan(path string) (domain.Pages, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("構成案ファイル '%s' の読み込みに失敗したのだ: %w", path, err)
	}
	var pages domain.Pages
	if err := json.Unmarshal(data, &pages); err != nil {
		return nil, fmt.Errorf("構成案ファイル '%s' のデコードに失敗したのだ: %w", path, err)
	}
	return pages, nil
}

// AttachImages は画像ファイルをデータURIへ変換し、指定された順序のまま
// 商品情報へ添付するのだ。読み込みは並列、並びは添字で固定するのだよ。
func (l *Loader) AttachImages(ctx context.Context, info *domain.ProductInfo, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	uris := make([]string, len(paths))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, path := range paths {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			uri, err := l.loadImage(path)
			if err != nil {
				return fmt.Errorf("参照画像 '%s' の読み込みに失敗したのだ: %w", path, err)
			}
			uris[i] = uri
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	info.Images = append(info.Images, uris...)
	return nil
}

// loadImage は1枚の画像をデータURIへ変換するのだ。MIMEは拡張子から引き、
// 引けない場合は先頭バイトの判定にフォールバックするのだ。
func (l *Loader) loadImage(path string) (string, error) {
	if cached, ok := l.images.Get(path); ok {
		return cached.(string), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	uri := domain.EncodeDataURI(mimeType, data)
	l.images.Set(path, uri, cache.DefaultExpiration)
	return uri, nil
}
