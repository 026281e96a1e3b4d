package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cumplido-next/internal/config"
	"github.com/cumplido-next/internal/logger"
)

const (
	defaultTimeoutMS = 3000
	minTimeoutMS     = 500
	maxTimeoutMS     = 10000
	maxBodyBytes     = 64 << 10
)

var (
	// ErrNotConfigured 未配置核验网关地址
	ErrNotConfigured = errors.New("evidence verifier base url not configured")
	// ErrBadStatus 网关返回非 2xx
	ErrBadStatus = errors.New("evidence verifier returned non-success status")
	// ErrMalformedResponse 网关响应缺少字段或无法解析
	ErrMalformedResponse = errors.New("evidence verifier response malformed")
)

type verifyResponse struct {
	HasMedia   *bool `json:"hasMedia"`
	MediaCount *int  `json:"mediaCount"`
}

// HTTPVerifier 通过 HTTP 调用外部证据核验网关
type HTTPVerifier struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	observer Observer
}

// NewHTTPVerifier 创建 HTTP 核验客户端，超时限制在 500~10000ms，非法值回退为 3000ms
func NewHTTPVerifier(cfg config.EvidenceConfig, observer Observer) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		client:   &http.Client{Timeout: ResolveTimeout(cfg.TimeoutMS)},
		observer: observer,
	}
}

// ResolveTimeout 归一化核验超时
func ResolveTimeout(timeoutMS int) time.Duration {
	if timeoutMS < minTimeoutMS || timeoutMS > maxTimeoutMS {
		timeoutMS = defaultTimeoutMS
	}
	return time.Duration(timeoutMS) * time.Millisecond
}

// Verify 查询履职记录的附件情况，任何失败均返回 Unknown
func (v *HTTPVerifier) Verify(ctx context.Context, fulfillmentID uint) Result {
	start := time.Now()
	result := v.verify(ctx, fulfillmentID)
	if v.observer != nil {
		v.observer.ObserveEvidence(result.State.String(), time.Since(start))
	}
	if result.State == Unknown {
		logger.Warnw("evidence_verify_unavailable",
			"fulfillment_id", fulfillmentID,
			"error", result.Err,
		)
	}
	return result
}

func (v *HTTPVerifier) verify(ctx context.Context, fulfillmentID uint) Result {
	if v.baseURL == "" {
		return Result{State: Unknown, Err: ErrNotConfigured}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := v.baseURL + "/verify-evidence/" + url.PathEscape(strconv.FormatUint(uint64(fulfillmentID), 10))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{State: Unknown, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if v.apiKey != "" {
		req.Header.Set("X-API-Key", v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return Result{State: Unknown, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Result{State: Unknown, Err: fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)}
	}

	var payload verifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return Result{State: Unknown, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
	}
	return interpret(payload)
}

func interpret(payload verifyResponse) Result {
	if payload.HasMedia == nil && payload.MediaCount == nil {
		return Result{State: Unknown, Err: ErrMalformedResponse}
	}
	count := 0
	if payload.MediaCount != nil {
		if *payload.MediaCount < 0 {
			return Result{State: Unknown, Err: ErrMalformedResponse}
		}
		count = *payload.MediaCount
	}
	hasMedia := payload.HasMedia != nil && *payload.HasMedia
	if hasMedia || count > 0 {
		return Result{State: HasEvidence, MediaCount: count}
	}
	return Result{State: NoEvidence}
}
