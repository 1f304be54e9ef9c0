// Package image 处理留言附带的图片：校验、存储、地址解析
package image

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"gemstore_server/pkg/constants"
	"gemstore_server/pkg/errorx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// KeyPrefix 图片对象键前缀
const KeyPrefix = "messages/"

// PublicPath 图片对外地址前缀，GET 时重定向到真实存储地址
const PublicPath = "/api/messages/images/"

// 允许的图片类型及扩展名
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Uploaded 上传结果
type Uploaded struct {
	Key         string `json:"key"`
	ImageURL    string `json:"imageUrl"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// Service 图片服务
type Service struct {
	storage Storage
	maxSize int64
}

// NewImageService 构造函数
func NewImageService(storage Storage) *Service {
	return &Service{storage: storage, maxSize: constants.FILE_MAX_SIZE}
}

// Upload 校验大小与类型后写入存储，返回可写入消息 imageUrl 的地址
func (s *Service) Upload(ctx context.Context, r io.Reader, size int64) (*Uploaded, error) {
	if size <= 0 {
		return nil, errorx.New(errorx.CodeInvalidParam, "file: 文件为空")
	}
	if size > s.maxSize {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "file: 文件不能超过 %d MB", s.maxSize>>20)
	}

	// 多读一个字节用于判断是否超限
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "file: 读取文件失败")
	}
	if int64(len(data)) > s.maxSize {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "file: 文件不能超过 %d MB", s.maxSize>>20)
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "file: 不支持的文件类型 %s", contentType)
	}

	key := KeyPrefix + uuid.NewString() + ext
	if err := s.storage.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data))); err != nil {
		zap.L().Error("store image error", zap.String("key", key), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &Uploaded{
		Key:         key,
		ImageURL:    PublicPath + key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Resolve 把对象键解析为真实访问地址
func (s *Service) Resolve(ctx context.Context, key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if !ValidKey(key) {
		return "", errorx.New(errorx.CodeNotFound, "图片不存在")
	}
	url, err := s.storage.Locate(ctx, key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", errorx.Wrap(err, errorx.CodeNotFound, "图片不存在")
		}
		zap.L().Error("locate image error", zap.String("key", key), zap.Error(err))
		return "", errorx.ErrServerBusy
	}
	return url, nil
}

// ValidURL 留言附带的图片地址只能是本服务上传后返回的地址
func ValidURL(imageURL string) bool {
	if !strings.HasPrefix(imageURL, PublicPath) {
		return false
	}
	return ValidKey(strings.TrimPrefix(imageURL, PublicPath))
}

// ValidKey 只接受本服务生成的键
func ValidKey(key string) bool {
	if !strings.HasPrefix(key, KeyPrefix) || strings.Contains(key, "..") {
		return false
	}
	name := strings.TrimPrefix(key, KeyPrefix)
	return name != "" && !strings.ContainsAny(name, `/\`)
}
