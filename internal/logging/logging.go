// Package logging は charmbracelet/log のロガーを組み立てます。
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New は level ("debug", "info", "warn", "error") のロガーを返します。
// 不明なレベルは info として扱います。w が nil の場合は標準エラー出力です。
func New(level string, w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Formatter:       log.TextFormatter,
		ReportTimestamp: lvl == log.DebugLevel,
		Prefix:          "todoctl",
	})
}

// Discard はテスト用に何も出力しないロガーを返します。
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
