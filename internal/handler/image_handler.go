// Package handler 提供 HTTP 请求处理器
// 本文件处理留言图片上传与访问
package handler

import (
	"net/http"

	"gemstore_server/internal/service"
	"gemstore_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageHandler 图片处理器
type ImageHandler struct {
	svc service.ImageService
}

// NewImageHandler 创建图片处理器
func NewImageHandler(svc service.ImageService) *ImageHandler {
	return &ImageHandler{svc: svc}
}

// Upload 上传单张图片，表单字段 file
// POST /api/messages/images
// 响应: 201 + image.Uploaded，imageUrl 可直接用于新建留言
func (h *ImageHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		HandleError(c, errorx.New(errorx.CodeInvalidParam, "file: 请选择要上传的图片"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		HandleError(c, errorx.Wrap(err, errorx.CodeInvalidParam, "file: 读取文件失败"))
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			zap.L().Warn("close upload error", zap.Error(err))
		}
	}()

	data, err := h.svc.Upload(c.Request.Context(), file, fileHeader.Size)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleCreated(c, data)
}

// Get 重定向到图片真实地址（S3 预签名地址或本地静态路径）
// GET /api/messages/images/*key
func (h *ImageHandler) Get(c *gin.Context) {
	url, err := h.svc.Resolve(c.Request.Context(), c.Param("key"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}
