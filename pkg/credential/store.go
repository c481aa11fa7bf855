// Package credential は、セッション中だけ保持する Gemini API キーの置き場です。
// 有効期限もローテーションも持たず、未登録は正常な状態として扱います。
package credential

import "sync"

// Store は1つの資格情報を保持するプロセス内ストアです。
// 設定画面からいつでも書き換えられるため、利用側は呼び出しの都度 Get で読み直します。
type Store struct {
	mu  sync.RWMutex
	key string
}

// NewStore は初期値付きでストアを生成します。空文字は未登録を意味します。
func NewStore(initial string) *Store {
	return &Store{key: initial}
}

// Set は資格情報を登録します。空文字を渡すと未登録状態に戻ります。
func (s *Store) Set(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
}

// Get は現在の資格情報を返します。未登録の場合は ("", false) です。
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == "" {
		return "", false
	}
	return s.key, true
}

// Present は資格情報が登録済みかどうかを返します。
func (s *Store) Present() bool {
	_, ok := s.Get()
	return ok
}

// Clear は資格情報を破棄します。
func (s *Store) Clear() {
	s.Set("")
}
