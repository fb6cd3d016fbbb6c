package server

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"nocachesrv/internal/accesslog"

	"github.com/gin-gonic/gin"
)

// HandlerConfig はファイル配信ハンドラの構成
type HandlerConfig struct {
	Root        string      // 配信するルートディレクトリ
	Headers     http.Header // 全てのレスポンスに付けるヘッダー (nilなら NoCacheHeaders)
	LogOutput   io.Writer   // アクセスログの出力先 (nilなら標準出力)
	ErrorOutput io.Writer   // パニック時のログの出力先 (nilなら標準エラー出力)
}

// NewHandler はルートディレクトリ以下のファイルを GET/HEAD で配信するハンドラを作成する
func NewHandler(hc HandlerConfig) http.Handler {
	if hc.Headers == nil {
		hc.Headers = NoCacheHeaders
	}
	if hc.LogOutput == nil {
		hc.LogOutput = os.Stdout
	}
	if hc.ErrorOutput == nil {
		hc.ErrorOutput = os.Stderr
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	// アクセスログ、パニックからの復帰、ヘッダー付与の順に通す
	engine.Use(
		gin.LoggerWithConfig(gin.LoggerConfig{
			Formatter: accesslog.Format,
			Output:    accesslog.NewSink(hc.LogOutput),
		}),
		gin.RecoveryWithWriter(hc.ErrorOutput),
		injectHeaders(hc.Headers),
	)

	static := newStaticHandler(hc.Root)
	engine.GET("/*filepath", static.serve)
	engine.HEAD("/*filepath", static.serve)

	return engine
}

// staticHandler はディスク上のファイルを配信する
type staticHandler struct {
	fs  http.FileSystem
	dir http.Handler
}

func newStaticHandler(root string) *staticHandler {
	fsys := http.Dir(root)
	return &staticHandler{
		fs:  fsys,
		dir: http.FileServer(fsys),
	}
}

// serve は通常のファイルをそのまま返し、ディレクトリは http.FileServer に任せる
// ディレクトリは index.html があればそれを、なければ一覧を返す
func (h *staticHandler) serve(c *gin.Context) {
	upath := c.Request.URL.Path
	if !strings.HasPrefix(upath, "/") {
		upath = "/" + upath
	}

	f, err := h.fs.Open(path.Clean(upath))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		h.fail(c, err)
		return
	}

	if info.IsDir() {
		h.dir.ServeHTTP(c.Writer, c.Request)
		return
	}

	// ファイルに末尾スラッシュを付けたパスは存在しない扱い
	if strings.HasSuffix(upath, "/") {
		h.fail(c, fs.ErrNotExist)
		return
	}

	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
}

// fail はファイルを開けなかった理由をステータスコードに変換して返す
func (h *staticHandler) fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		code = http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		code = http.StatusForbidden
	}
	c.String(code, "%d %s\n", code, http.StatusText(code))
}
