package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/decker502/prizewheel/pkg/config"
	"github.com/decker502/prizewheel/pkg/decision"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 指标名规范：prizewheel_<name>
const (
	labelOutcome = "outcome"
	labelSlice   = "slice"

	outcomeGranted  = "granted"
	outcomeNoSpins  = "no_spins"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// ServerDeps 抽奖服务依赖
type ServerDeps struct {
	// Decide 抽取目标扇区（通常是 decision.WeightedSelector.Decide）
	Decide decision.SpinDecider

	// Slices 转盘扇区，用于响应中的图标和结果校验
	Slices []config.RewardSlice

	// Entitlements 权益来源（可为 nil，此时所有用户都不受限）
	Entitlements decision.EntitlementSource

	// Registry 指标注册表（nil 时使用新建的独立注册表）
	Registry *prometheus.Registry
}

// Server 抽奖服务：为远程转盘提供决策和权益查询
type Server struct {
	decide       decision.SpinDecider
	slices       []config.RewardSlice
	entitlements decision.EntitlementSource
	registry     *prometheus.Registry

	spins        *prometheus.CounterVec
	landed       *prometheus.CounterVec
	entitlementQ *prometheus.CounterVec
}

// NewServer 创建抽奖服务
func NewServer(deps ServerDeps) *Server {
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	factory := promauto.With(registry)

	return &Server{
		decide:       deps.Decide,
		slices:       deps.Slices,
		entitlements: deps.Entitlements,
		registry:     registry,
		spins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prizewheel_spin_requests_total",
			Help: "转动请求数（按结果分类）",
		}, []string{labelOutcome}),
		landed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prizewheel_spin_landed_total",
			Help: "各扇区被抽中次数",
		}, []string{labelSlice}),
		entitlementQ: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prizewheel_entitlement_queries_total",
			Help: "权益查询数（按结果分类）",
		}, []string{labelOutcome}),
	}
}

// Router 返回 HTTP 路由
//
//	POST /spin                     抽取目标扇区（200 SpinResponse / 204 没有次数）
//	GET  /entitlements/{actorID}   查询购买权益
//	GET  /metrics                  Prometheus 指标
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	r.Post("/spin", s.Spin)
	r.Get("/entitlements/{actorID}", s.Entitlement)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}

// Spin 处理转动请求
func (s *Server) Spin(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody[SpinRequest](r.Body)
	if err != nil {
		s.spins.WithLabelValues(outcomeRejected).Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if s.decide == nil {
		s.spins.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusServiceUnavailable, errors.New("no decider configured"))
		return
	}

	index, err := s.decide(r.Context())
	switch {
	case errors.Is(err, decision.ErrNoSpinsAvailable):
		s.spins.WithLabelValues(outcomeNoSpins).Inc()
		logf("No spins left for %q", payload.ActorID)
		w.WriteHeader(http.StatusNoContent)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.spins.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusRequestTimeout, err)
		return
	case err != nil:
		s.spins.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if index < 1 || index > len(s.slices) {
		s.spins.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusInternalServerError,
			fmt.Errorf("decided slice %d not in [1, %d]", index, len(s.slices)))
		return
	}

	s.spins.WithLabelValues(outcomeGranted).Inc()
	s.landed.WithLabelValues(fmt.Sprint(index)).Inc()
	logf("Spin for %q -> slice %d (%s)", payload.ActorID, index, s.slices[index-1].Icon)

	writeJSON(w, http.StatusOK, SpinResponse{
		SliceIndex: index,
		Icon:       s.slices[index-1].Icon,
	})
}

// Entitlement 处理权益查询
func (s *Server) Entitlement(w http.ResponseWriter, r *http.Request) {
	actorID := chi.URLParam(r, "actorID")
	if actorID == "" {
		s.entitlementQ.WithLabelValues(outcomeRejected).Inc()
		writeError(w, http.StatusBadRequest, errors.New("actorID is required"))
		return
	}

	if s.entitlements == nil {
		s.entitlementQ.WithLabelValues(outcomeGranted).Inc()
		writeJSON(w, http.StatusOK, EntitlementResponse{})
		return
	}

	policy, err := s.entitlements.QueryPurchasePolicy(r.Context(), actorID)
	if err != nil {
		s.entitlementQ.WithLabelValues(outcomeError).Inc()
		writeError(w, http.StatusBadGateway, err)
		return
	}

	s.entitlementQ.WithLabelValues(outcomeGranted).Inc()
	resp := EntitlementResponse{}
	if policy != nil {
		resp.PurchasesRestricted = policy.PurchasesRestricted
	}
	writeJSON(w, http.StatusOK, resp)
}
