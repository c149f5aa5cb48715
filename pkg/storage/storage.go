package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Uploader 对象存储上传器。返回上传后可访问的 URL。
type Uploader interface {
	Upload(ctx context.Context, data []byte, objectName string) (string, error)
}

// LocalUploader 落本地磁盘的实现，目录由配置指定。
// 生产环境换成云对象存储实现即可，上层接口不变。
type LocalUploader struct {
	dir     string
	baseURL string
}

func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalUploader{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

var _ Uploader = (*LocalUploader)(nil)

func (u *LocalUploader) Upload(ctx context.Context, data []byte, objectName string) (string, error) {
	// objectName 由上层用 UUID 生成，这里再防一手路径穿越
	name := filepath.Base(objectName)
	if err := os.WriteFile(filepath.Join(u.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write object %s: %w", name, err)
	}
	return u.baseURL + "/" + name, nil
}
