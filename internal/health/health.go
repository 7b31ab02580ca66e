package health

import (
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
	"go.uber.org/zap"

	"aliasgate/backend/internal/storage"
)

// HealthChecker 健康检查器
type HealthChecker struct {
	health healthcheck.Handler
	store  storage.Store
	logger *zap.Logger
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(store storage.Store, logger *zap.Logger) *HealthChecker {
	hc := &HealthChecker{
		health: healthcheck.NewHandler(),
		store:  store,
		logger: logger,
	}

	hc.addChecks()

	return hc
}

// addChecks 添加健康检查
func (hc *HealthChecker) addChecks() {
	// 存储连接检查
	hc.health.AddLivenessCheck("storage", func() error {
		return hc.store.Health()
	})

	// 就绪与存活使用同一依赖，存储不可达时摘除流量
	hc.health.AddReadinessCheck("storage", func() error {
		return hc.store.Health()
	})
}

// LiveHandler 返回存活检查处理器（Kubernetes liveness probe）。
func (hc *HealthChecker) LiveHandler() http.Handler {
	return http.HandlerFunc(hc.health.LiveEndpoint)
}

// ReadyHandler 返回就绪检查处理器（Kubernetes readiness probe）。
func (hc *HealthChecker) ReadyHandler() http.Handler {
	return http.HandlerFunc(hc.health.ReadyEndpoint)
}

// CheckHealth 执行健康检查，返回各检查项的结果摘要。
func (hc *HealthChecker) CheckHealth() map[string]string {
	results := make(map[string]string)

	if err := hc.store.Health(); err != nil {
		hc.logger.Warn("storage health check failed", zap.Error(err))
		results["storage"] = "ERROR: " + err.Error()
	} else {
		results["storage"] = "OK"
	}

	results["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	return results
}

// Healthy 判断整体是否健康。
func (hc *HealthChecker) Healthy() bool {
	return hc.store.Health() == nil
}
