// Package report は寄与度計算の診断出力と特徴量重要度の表示を担う。
//
// 計算結果そのものには関与せず、Reporter に渡された文字列を
// どこに書き出すかだけを決める。
package report

import (
	"fmt"
	"io"
	"sync"

	"github.com/YuminosukeSato/topfactors/pkg/log"
)

// Reporter は診断情報の出力先
type Reporter interface {
	// Report は見出し付きのテキストブロックを出力する
	Report(title, body string) error
}

// ReporterFunc は関数を Reporter として使うためのアダプタ
type ReporterFunc func(title, body string) error

// Report implements Reporter.
func (f ReporterFunc) Report(title, body string) error {
	return f(title, body)
}

// Discard は何も出力しない Reporter
var Discard Reporter = ReporterFunc(func(string, string) error { return nil })

// TextReporter は io.Writer にプレーンテキストで書き出す
type TextReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextReporter creates a reporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// Report implements Reporter.
func (r *TextReporter) Report(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := fmt.Fprintf(r.w, "%s\n%s\n", title, body)
	return err
}

// LogReporter は診断ブロックをデバッグレベルのログとして出力する
type LogReporter struct {
	logger log.Logger
}

// NewLogReporter creates a reporter that logs each block at debug level.
func NewLogReporter(logger log.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Report implements Reporter.
func (r *LogReporter) Report(title, body string) error {
	r.logger.Debug(title, "report.body", body)
	return nil
}
