package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Static StaticConfig `yaml:"static" toml:"static"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`                                     // リッスンするホスト
	Port int    `yaml:"port" toml:"port" validate:"min=0,max=65535"`          // リッスンするポート番号 (0はランダム)
	Mode string `yaml:"mode" toml:"mode" validate:"oneof=debug release test"` // ginの動作モード

	// タイムアウト設定 (0は無制限)
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout" validate:"min=0"`         // 読み込みタイムアウト
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout" validate:"min=0"`       // 書き込みタイムアウト
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout" validate:"min=0"` // シャットダウン待ち時間
}

// StaticConfig は配信するファイルの設定
type StaticConfig struct {
	Root string `yaml:"root" toml:"root" validate:"required,dir"` // 配信するルートディレクトリ
}

// デフォルト値
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8000
	DefaultMode            = "release"
	DefaultRoot            = "."
	DefaultShutdownTimeout = 5 * time.Second
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default はデフォルト値だけを持つ設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			Mode:            DefaultMode,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Static: StaticConfig{
			Root: DefaultRoot,
		},
	}
}

// Load は設定を読み込む
// CONFIG_FILE が設定されていればそのファイルも読み込む
func Load() (*Config, error) {
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom はデフォルト値、設定ファイル、環境変数の順に設定を重ねて読み込む
// path が空の場合は設定ファイルを読まない
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// applyEnv は環境変数で設定を上書きする
func (c *Config) applyEnv() {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Server.Port = getEnvAsIntOrDefault("SERVER_PORT", c.Server.Port)
	c.Server.Mode = getEnvOrDefault("SERVER_MODE", c.Server.Mode)
	c.Static.Root = getEnvOrDefault("STATIC_ROOT", c.Static.Root)
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// describe は検証エラーを読みやすいメッセージに変換する
func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		return fmt.Sprintf("%s の値が範囲外です: %v", fe.Namespace(), fe.Value())
	case "oneof":
		return fmt.Sprintf("%s は %s のいずれかである必要があります: %v", fe.Namespace(), fe.Param(), fe.Value())
	case "required":
		return fmt.Sprintf("%s が設定されていません", fe.Namespace())
	case "dir":
		return fmt.Sprintf("%s はディレクトリではありません: %v", fe.Namespace(), fe.Value())
	default:
		return fmt.Sprintf("%s の検証に失敗しました (%s): %v", fe.Namespace(), fe.Tag(), fe.Value())
	}
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}
