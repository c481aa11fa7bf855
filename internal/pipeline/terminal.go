package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/shouni/go-detailpage-kit/pkg/credential"
)

// TerminalNotifier はワークフローの回復動作を端末の対話へ変換するのだ。
// 資格情報の入力は端末ならエコーなしで読み取るのだよ。
type TerminalNotifier struct {
	in    *bufio.Reader
	out   io.Writer
	creds *credential.Store

	quotaAck bool
}

// NewTerminalNotifier は標準入出力に紐づいた通知先を生成するのだ。
func NewTerminalNotifier(in io.Reader, out io.Writer, creds *credential.Store) *TerminalNotifier {
	return &TerminalNotifier{
		in:    bufio.NewReader(in),
		out:   out,
		creds: creds,
	}
}

// PromptCredential は資格情報の入力を促し、入力があればストアへ保存するのだ。
func (n *TerminalNotifier) PromptCredential(message string) {
	fmt.Fprintln(n.out, message)
	fmt.Fprint(n.out, "Gemini API Key: ")

	key, err := n.readSecret()
	if err != nil || key == "" {
		fmt.Fprintln(n.out, "(입력 없음)")
		return
	}
	n.creds.Set(key)
	fmt.Fprintln(n.out, "API 키가 저장되었습니다.")
}

// PromptQuota はクォータ超過の案内を表示し、確認入力を待つのだ。
// 確認済みかどうかは ConsumeQuotaAck で回収できるのだ。
func (n *TerminalNotifier) PromptQuota(message string) {
	fmt.Fprintln(n.out, message)
	fmt.Fprint(n.out, "(Enter를 누르면 닫힙니다) ")
	_, _ = n.in.ReadString('\n')
	n.quotaAck = true
}

// Alert は一般的な失敗メッセージをそのまま表示するのだ。
func (n *TerminalNotifier) Alert(message string) {
	fmt.Fprintln(n.out, message)
}

// ConsumeQuotaAck はクォータ案内が閉じられたかを返し、フラグを戻すのだ。
func (n *TerminalNotifier) ConsumeQuotaAck() bool {
	ack := n.quotaAck
	n.quotaAck = false
	return ack
}

// ReadLine は1行の入力を読み取るのだ。
func (n *TerminalNotifier) ReadLine() (string, error) {
	line, err := n.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret は端末ならエコーなしで、そうでなければ通常の1行として読むのだ。
func (n *TerminalNotifier) readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(n.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return n.ReadLine()
}
