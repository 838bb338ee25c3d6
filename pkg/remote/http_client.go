package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/decker502/prizewheel/pkg/decision"
)

// DefaultRequestTimeout 远程请求默认超时
const DefaultRequestTimeout = 5 * time.Second

// HTTPClient 抽奖服务客户端
//
// Decide 满足 decision.SpinDecider，QueryPurchasePolicy 满足 decision.EntitlementSource，
// 两者都可能阻塞一次网络往返，应通过 AsyncRunner 调用。
type HTTPClient struct {
	baseURL    string
	actorID    string
	httpClient *http.Client
}

// NewHTTPClient 创建客户端
//
// 参数：
//   - baseURL: 服务地址，例如 http://127.0.0.1:8080
//   - actorID: 当前用户标识（随转动请求发送）
//   - timeout: 单次请求超时，<= 0 时使用 DefaultRequestTimeout
func NewHTTPClient(baseURL, actorID string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		actorID:    actorID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Decide 请求服务端抽取目标扇区
//
// 返回：
//   - int: 目标扇区（1-based）
//   - error: 服务端返回 204 时为 decision.ErrNoSpinsAvailable，其他失败为网络或协议错误
func (c *HTTPClient) Decide(ctx context.Context) (int, error) {
	body, err := json.Marshal(SpinRequest{ActorID: c.actorID})
	if err != nil {
		return 0, fmt.Errorf("encode spin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/spin", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build spin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("spin request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return 0, decision.ErrNoSpinsAvailable
	default:
		return 0, statusError("spin", resp)
	}

	payload, err := decodeBody[SpinResponse](resp.Body)
	if err != nil {
		return 0, err
	}
	return payload.SliceIndex, nil
}

// QueryPurchasePolicy 查询用户购买权益
func (c *HTTPClient) QueryPurchasePolicy(ctx context.Context, actorID string) (*decision.PurchasePolicy, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/entitlements/"+url.PathEscape(actorID), nil)
	if err != nil {
		return nil, fmt.Errorf("build entitlement request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entitlement request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("entitlement", resp)
	}

	payload, err := decodeBody[EntitlementResponse](resp.Body)
	if err != nil {
		return nil, err
	}
	return &decision.PurchasePolicy{PurchasesRestricted: payload.PurchasesRestricted}, nil
}

// statusError 把非预期状态码和服务端错误信息包装成 error
func statusError(op string, resp *http.Response) error {
	msg := strings.TrimSpace(readSnippet(resp.Body))
	if payload, err := decodeBody[errorResponse](strings.NewReader(msg)); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, msg)
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 512))
	return string(b)
}
