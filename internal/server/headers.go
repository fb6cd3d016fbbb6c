package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NoCacheHeaders はクライアントや中間キャッシュにレスポンスを保存させないヘッダー
var NoCacheHeaders = http.Header{
	"Cache-Control": {"no-cache, no-store, must-revalidate"},
	"Pragma":        {"no-cache"},
	"Expires":       {"0"},
}

// injectHeaders は全てのレスポンスに headers を付与するミドルウェア
func injectHeaders(headers http.Header) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := &headerWriter{ResponseWriter: c.Writer, headers: headers}
		w.apply()
		c.Writer = w
		c.Next()
	}
}

// headerWriter はヘッダー送信の直前にもう一度 headers を設定する
// http.ServeContent のエラー処理で消されたヘッダーも送信時に戻る
type headerWriter struct {
	gin.ResponseWriter
	headers http.Header
}

func (w *headerWriter) apply() {
	h := w.ResponseWriter.Header()
	for key, values := range w.headers {
		h[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
}

func (w *headerWriter) WriteHeader(code int) {
	if !w.Written() {
		w.apply()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerWriter) WriteHeaderNow() {
	if !w.Written() {
		w.apply()
	}
	w.ResponseWriter.WriteHeaderNow()
}

func (w *headerWriter) Write(data []byte) (int, error) {
	if !w.Written() {
		w.apply()
	}
	return w.ResponseWriter.Write(data)
}

func (w *headerWriter) WriteString(s string) (int, error) {
	if !w.Written() {
		w.apply()
	}
	return w.ResponseWriter.WriteString(s)
}
