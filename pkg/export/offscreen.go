package export

import (
	"errors"
	"fmt"
	"sync"
)

// OffscreenHost は画面外の作業領域をメモリ上で提供する Host 実装です。
type OffscreenHost struct{}

// NewOffscreenHost は新しいホストを返します。
func NewOffscreenHost() *OffscreenHost { return &OffscreenHost{} }

// CreateWorkspace は指定幅の作業領域を作ります。
func (h *OffscreenHost) CreateWorkspace(width int) (Workspace, error) {
	if width <= 0 {
		return nil, fmt.Errorf("作業領域の幅が不正です: %d", width)
	}
	return &offscreenWorkspace{width: width}, nil
}

type offscreenWorkspace struct {
	mu      sync.Mutex
	width   int
	mounted *Region
	removed bool
}

// Mount は領域を設置します。前に設置されていた領域は置き換えられます。
func (w *offscreenWorkspace) Mount(region Region) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.removed {
		return errors.New("取り外し済みの作業領域です")
	}
	staged := region.Clone()
	w.mounted = &staged
	return nil
}

// Remove は作業領域を取り外します。以後の Mount は失敗します。
func (w *offscreenWorkspace) Remove() {
	w.mu.Lock()
	w.mounted = nil
	w.removed = true
	w.mu.Unlock()
}
