package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink receives the finished archive. It returns where the archive ended up.
type Sink interface {
	Deliver(ctx context.Context, name string, data []byte) (string, error)
}

// FileSink writes archives to disk. Path wins over Dir/name when set. The
// bytes go to a temporary file first, which is renamed into place; the
// temporary file never survives a failed delivery.
type FileSink struct {
	Dir  string
	Path string
}

// Deliver implements Sink.
func (s FileSink) Deliver(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target := s.Path
	if target == "" {
		target = filepath.Join(s.Dir, name)
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".stampkit-*.tmp")
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}
	ok := false
	defer func() {
		if !ok {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return "", fmt.Errorf("写入 %s 失败: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("写入 %s 失败: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("重命名到 %s 失败: %w", target, err)
	}
	ok = true
	return target, nil
}

// MemorySink keeps the last delivered archive in memory.
type MemorySink struct {
	mu    sync.Mutex
	name  string
	data  []byte
	calls int
}

// Deliver implements Sink.
func (s *MemorySink) Deliver(_ context.Context, name string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
	s.data = append([]byte(nil), data...)
	s.calls++
	return "memory:" + name, nil
}

// Last returns the last archive and how many deliveries happened.
func (s *MemorySink) Last() (name string, data []byte, calls int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name, s.data, s.calls
}
