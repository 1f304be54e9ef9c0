package image

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"gemstore_server/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage 消息图片存储后端
type Storage interface {
	// Put 写入对象
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	// Locate 返回可供浏览器访问的地址
	Locate(ctx context.Context, key string) (string, error)
}

// NewStorage 按配置选择 S3 或本地磁盘
func NewStorage(ctx context.Context, s3Cfg *config.S3Config, static *config.StaticSrcConfig) (Storage, error) {
	if s3Cfg.Enabled {
		return NewS3Storage(ctx, s3Cfg)
	}
	return NewLocalStorage(static.StaticImagePath, "/static/images"), nil
}

// ---------------- S3 ----------------

// S3Storage 私有桶 + 预签名地址
type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
}

// NewS3Storage 创建 S3 客户端，未配置密钥时走默认凭证链
func NewS3Storage(ctx context.Context, cfg *config.S3Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	expiry := time.Duration(cfg.PresignExpiryMinutes) * time.Minute
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expiry:  expiry,
	}, nil
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) Locate(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.expiry
	})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// ---------------- 本地磁盘 ----------------

// LocalStorage 写入本地目录，由静态路由对外提供
type LocalStorage struct {
	root      string
	urlPrefix string
}

// NewLocalStorage root 为磁盘目录，urlPrefix 为静态路由前缀
func NewLocalStorage(root, urlPrefix string) *LocalStorage {
	return &LocalStorage{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *LocalStorage) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	dst := filepath.Join(l.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %w", key, err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return f.Close()
}

func (l *LocalStorage) Locate(_ context.Context, key string) (string, error) {
	if _, err := os.Stat(filepath.Join(l.root, filepath.FromSlash(key))); err != nil {
		return "", err
	}
	return path.Join(l.urlPrefix, key), nil
}
