package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// archiveTime is stamped on every entry so archives are reproducible.
var archiveTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// File is one archive entry.
type File struct {
	Name string
	Data []byte
}

// Zip packs files in the given order.
func Zip(files []File) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: archiveTime,
		})
		if err != nil {
			return nil, fmt.Errorf("写入压缩包条目 %s 失败: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("写入压缩包条目 %s 失败: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("关闭压缩包失败: %w", err)
	}
	return buf.Bytes(), nil
}
