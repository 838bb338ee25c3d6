package remote

import (
	"fmt"
	"io"
	"log"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SpinRequest POST /spin 请求体
type SpinRequest struct {
	ActorID string `json:"actorId"`
}

// SpinResponse POST /spin 响应体（200）
// 没有可用次数时服务端返回 204，不带响应体
type SpinResponse struct {
	SliceIndex int    `json:"sliceIndex"`
	Icon       string `json:"icon,omitempty"`
}

// EntitlementResponse GET /entitlements/{actorID} 响应体
type EntitlementResponse struct {
	PurchasesRestricted bool `json:"purchasesRestricted"`
}

// errorResponse 错误响应体
type errorResponse struct {
	Error string `json:"error"`
}

// maxBodyBytes 请求/响应体大小上限
const maxBodyBytes = 64 << 10

func decodeBody[T any](r io.Reader) (T, error) {
	var payload T
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(&payload); err != nil {
		return payload, fmt.Errorf("decode %T: %w", payload, err)
	}
	return payload, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logf("Warning: Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func logf(format string, args ...any) {
	log.Printf("[Remote] "+format, args...)
}
