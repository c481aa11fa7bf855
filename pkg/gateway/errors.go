package gateway

import (
	"errors"
	"fmt"
)

// ErrMissingCredential は資格情報が未登録のまま操作が要求されたことを示します。
// ネットワークに出る前に検出されるため、再試行の対象にはなりません。
var ErrMissingCredential = errors.New("REQUIRE_API_KEY")

// schemaDiagnosticLimit は診断用に保持する生レスポンスの最大長です。
const schemaDiagnosticLimit = 200

// SchemaMismatchError は、サービスは応答したもののペイロードが宣言済みの
// スキーマにデコードできなかったことを示します。リクエスト自体は受理されて
// いるため、レート制限とは区別して再試行しません。
type SchemaMismatchError struct {
	Op  string // 失敗した操作名 (analyze など)
	Raw string // 切り詰めた生レスポンス
	Err error
}

// Error は切り詰めた診断付きのメッセージを返します。
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: レスポンスが期待スキーマに一致しません: %v (raw: %s)", e.Op, e.Err, e.Raw)
}

// Unwrap はデコード時の元エラーを返します。
func (e *SchemaMismatchError) Unwrap() error {
	return e.Err
}

func newSchemaMismatch(op, raw string, err error) *SchemaMismatchError {
	if len(raw) > schemaDiagnosticLimit {
		raw = raw[:schemaDiagnosticLimit] + "..."
	}
	return &SchemaMismatchError{Op: op, Raw: raw, Err: err}
}
