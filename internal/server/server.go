package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"nocachesrv/internal/config"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	httpServer *http.Server
	listener   net.Listener
	out        io.Writer
}

// Option は Server の生成時の設定を変更する
type Option func(*Server)

// WithOutput はアクセスログと起動メッセージの出力先を変更する
func WithOutput(w io.Writer) Option {
	return func(s *Server) {
		s.out = w
	}
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		config: cfg,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	gin.SetMode(cfg.Server.Mode)

	s.httpServer = &http.Server{
		Handler: NewHandler(HandlerConfig{
			Root:      cfg.Static.Root,
			Headers:   NoCacheHeaders,
			LogOutput: s.out,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// Listen はリッスンソケットを開き、起動メッセージを出力する
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.ServerAddress())
	if err != nil {
		return fmt.Errorf("アドレス %s のリッスンに失敗: %w", s.config.ServerAddress(), err)
	}
	s.listener = ln

	root, err := filepath.Abs(s.config.Static.Root)
	if err != nil {
		root = s.config.Static.Root
	}
	log.Printf("HTTPサーバーを起動しています: %s (ルート: %s)", ln.Addr(), root)

	port := ln.Addr().(*net.TCPAddr).Port
	color.New(color.FgGreen).Fprintf(s.out, "Server running on port %d\n", port)
	return nil
}

// Addr はリッスンしているアドレスを返す。Listen の前は nil
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start はサーバーを起動する
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve はリッスン済みのソケットでリクエストを処理する
// コンテキストのキャンセルかシグナルを受け取るまで戻らない
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("サーバーがリッスンしていません")
	}

	// シャットダウン用のチャンネル
	shutdownCh := make(chan error, 1)

	// 接続ごとのゴルーチンは net/http が起動する
	go func() {
		if err := s.httpServer.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			shutdownCh <- fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		log.Println("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		log.Printf("シグナルを受信しました: %v", sig)
	case err := <-shutdownCh:
		return err
	}

	// グレースフルシャットダウン
	return s.Shutdown()
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	log.Println("サーバーをシャットダウンしています...")

	ctx := context.Background()
	if timeout := s.config.Server.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	log.Println("サーバーが正常にシャットダウンされました")
	return nil
}
