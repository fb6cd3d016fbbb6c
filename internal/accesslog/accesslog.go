// Package accesslog は、リクエストごとのアクセスログ行を生成して出力します。
//
// ログ行の形式:
//
//	14/Oct/2026 10:00:00 - "GET /index.html HTTP/1.1" 200 512
//
// 1リクエストにつき1行を1回のWriteで書き込み、書き込み後すぐにフラッシュします。
package accesslog

import (
	"fmt"
	"io"
	"sync"

	"github.com/gin-gonic/gin"
)

// TimeFormat はログ行の先頭に付くタイムスタンプの形式 (DD/Mon/YYYY HH:MM:SS)
const TimeFormat = "02/Jan/2006 15:04:05"

// Format は gin.LoggerConfig の Formatter として使うログ行を生成する
func Format(param gin.LogFormatterParams) string {
	proto := "HTTP/1.1"
	if param.Request != nil && param.Request.Proto != "" {
		proto = param.Request.Proto
	}

	// 本文を書いていない場合はサイズの代わりに "-"
	size := "-"
	if param.BodySize >= 0 {
		size = fmt.Sprint(param.BodySize)
	}

	return fmt.Sprintf("%s - \"%s %s %s\" %d %s\n",
		param.TimeStamp.Local().Format(TimeFormat),
		param.Method,
		param.Path,
		proto,
		param.StatusCode,
		size,
	)
}

type flusher interface {
	Flush() error
}

// Sink は複数のリクエストから同時に書き込まれても行が混ざらない出力先
type Sink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSink は w に書き込む Sink を作成する
func NewSink(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Write は p をそのまま1回で書き込み、可能であればフラッシュする
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.w.Write(p)
	if err != nil {
		return n, err
	}
	if f, ok := s.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}
