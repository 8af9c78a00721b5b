package httpapi

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

// recoverMiddleware 把 handler 中的 panic 转为 500 {"error": ...}
func recoverMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("Handler panic",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				writeError(w, http.StatusInternalServerError, fmt.Sprint(rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware 对所有来源开放（与前端开发服务器跨域访问一致）
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.ExposedHeaders([]string{"Content-Disposition"}),
	)(next)
}

// accessLogMiddleware 使用 combined log 格式写入 zap
func accessLogMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	out := zap.NewStdLog(logger.Named("access")).Writer()
	logged := handlers.CombinedLoggingHandler(out, next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 健康检查与指标抓取不记录
		if r.URL.Path == "/healthz" || strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}
		logged.ServeHTTP(w, r)
	})
}
