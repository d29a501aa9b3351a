// Package logx 保存 stampkit 各包共享的 slog 日志器。
package logx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled reports false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger 设置全局日志器；传入 nil 时恢复为静默。
//
// 使用的级别：
//   - Debug：几何与布局细节（三角形数量、布局请求）
//   - Info：生命周期事件（字体加载完成、导出完成）
//   - Warn：可恢复的问题（缺字、空导出、三角化失败）
//   - Error：加载或导出失败
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志器，可并发调用。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
