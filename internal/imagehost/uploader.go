package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"

	"github.com/d60-Lab/storefront/config"
)

// Uploader 外部图床能力接口；上传失败与下单事务互不影响
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type uploadReply struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type restyUploader struct {
	client   *resty.Client
	endpoint string
	apiKey   string
}

// New 创建基于 HTTP 的图床客户端
func New(cfg *config.Config) Uploader {
	client := resty.New().SetTimeout(cfg.ImageHost.Timeout)
	return &restyUploader{
		client:   client,
		endpoint: cfg.ImageHost.Endpoint,
		apiKey:   cfg.ImageHost.APIKey,
	}
}

func (u *restyUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if u.endpoint == "" {
		return "", errors.New("imagehost: endpoint not configured")
	}

	req := u.client.R().SetContext(ctx).SetFileReader("image", filename, r)
	if u.apiKey != "" {
		req = req.SetHeader("Authorization", "Bearer "+u.apiKey)
	}

	var reply uploadReply
	resp, err := req.SetResult(&reply).Post(u.endpoint)
	if err != nil {
		return "", fmt.Errorf("imagehost: upload: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("imagehost: upload status %d", resp.StatusCode())
	}
	if reply.Data.URL == "" {
		if reply.Error != "" {
			return "", fmt.Errorf("imagehost: %s", reply.Error)
		}
		return "", errors.New("imagehost: empty url in reply")
	}
	return reply.Data.URL, nil
}
