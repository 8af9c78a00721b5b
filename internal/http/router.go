package httpapi

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"runcoach/internal/metrics"
)

// Router 使用标准库 http.ServeMux
type Router struct {
	mux     *http.ServeMux
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func NewRouter(logger *zap.Logger, m *metrics.Metrics) *Router {
	return &Router{
		mux:     http.NewServeMux(),
		logger:  logger,
		metrics: m,
	}
}

// Handle 注册路由并按 route 记录指标
func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.Handle(pattern, r.metrics.WrapHandler(pattern, h))
}

// HandleHandler 不包装指标（/ws 需要 Hijacker）
func (r *Router) HandleHandler(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler 返回加上 recover / CORS / access log 的完整处理链
func (r *Router) Handler(corsOrigins []string) http.Handler {
	var h http.Handler = r
	h = recoverMiddleware(r.logger, h)
	h = corsMiddleware(corsOrigins, h)
	h = accessLogMiddleware(r.logger, h)
	return h
}

// RegisterCoachRoutes 历史、分析、反馈及导出
func (r *Router) RegisterCoachRoutes(c *CoachHandler) {
	r.Handle("/api/history", func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(w, req, http.MethodGet) {
			return
		}
		c.GetHistory(w, req)
	})

	r.Handle("/api/history/export", func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(w, req, http.MethodGet) {
			return
		}
		c.ExportHistory(w, req)
	})

	// analysis/{id} 与 analysis/{id}/export
	r.Handle("/api/analysis/", func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(w, req, http.MethodGet) {
			return
		}
		// 按转义后的路径切分，id 中的 %2F 不会被当作分隔符
		rest := strings.TrimPrefix(req.URL.EscapedPath(), "/api/analysis/")
		raw, export := strings.CutSuffix(rest, "/export")
		id, ok := pathID(raw)
		if !ok {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if export {
			c.ExportAnalysis(w, req, id)
			return
		}
		c.GetAnalysis(w, req, id)
	})

	r.Handle("/api/feedback", func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(w, req, http.MethodGet) {
			return
		}
		c.GetFeedback(w, req)
	})
}

// RegisterCollectionRoutes 采集状态与命令
func (r *Router) RegisterCollectionRoutes(c *CollectionHandler) {
	r.Handle("/api/collection/status", func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(w, req, http.MethodGet) {
			return
		}
		c.GetStatus(w, req)
	})

	r.Handle("/api/collection/start", func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(w, req, http.MethodPost) {
			return
		}
		c.Start(w, req)
	})

	r.Handle("/api/collection/stop", func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(w, req, http.MethodPost) {
			return
		}
		c.Stop(w, req)
	})

	r.Handle("/api/sessions", func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(w, req, http.MethodGet) {
			return
		}
		c.ListSessions(w, req)
	})

	r.Handle("/api/live", func(w http.ResponseWriter, req *http.Request) {
		if !methodAllowed(w, req, http.MethodGet) {
			return
		}
		c.GetLive(w, req)
	})
}

// RegisterRealtime 实时通道
func (r *Router) RegisterRealtime(h http.Handler) {
	r.HandleHandler("/ws", h)
}

// RegisterOpsRoutes 健康检查与 Prometheus 指标
func (r *Router) RegisterOpsRoutes() {
	r.mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if r.metrics != nil {
		r.mux.Handle("/metrics", r.metrics.Handler())
	}
}

// RegisterStatic 其余路径交给静态文件处理（需最后注册）
func (r *Router) RegisterStatic(s *StaticHandler) {
	r.HandleHandler("/", s)
}

// pathID 解码单个路径段；空段或包含未转义的 / 时返回 false
func pathID(escaped string) (string, bool) {
	if escaped == "" || strings.Contains(escaped, "/") {
		return "", false
	}
	id, err := url.PathUnescape(escaped)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}
