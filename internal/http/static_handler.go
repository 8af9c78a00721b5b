package httpapi

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// StaticHandler 前端构建产物；找不到文件时回退 index.html（SPA 路由）
type StaticHandler struct {
	root   string
	logger *zap.Logger
}

func NewStaticHandler(root string, logger *zap.Logger) *StaticHandler {
	return &StaticHandler{root: root, logger: logger}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !methodAllowed(w, r, http.MethodGet) {
		return
	}

	// Clean 后不会越出 root
	rel := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if rel != "" {
		if h.serveFile(w, r, filepath.Join(h.root, filepath.FromSlash(rel))) {
			return
		}
	}
	if !h.serveFile(w, r, filepath.Join(h.root, "index.html")) {
		h.logger.Warn("index.html not found", zap.String("root", h.root))
		writeError(w, http.StatusNotFound, "index.html not found")
	}
}

func (h *StaticHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
