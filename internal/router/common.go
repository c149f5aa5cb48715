package router

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ada-zs1125/sky-take-out/pkg/storage"
)

// upload 文件上传：UUID 重命名防冲突，保留原始扩展名，返回访问 URL。
func upload(uploader storage.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "file 必填"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}

		objectName := uuid.NewString() + filepath.Ext(fh.Filename)
		url, err := uploader.Upload(c.Request.Context(), data, objectName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		ok(c, gin.H{"url": url})
	}
}
