package config

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Fila compartilhada entre cmd/api (publica) e cmd/ws (consome).
const DefaultQueue = "painel_eventos"

const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// LogConfig vem de LOG_LEVEL e LOG_FORMAT, iguais para os dois binários.
type LogConfig struct {
	Level  slog.Level
	Format string // json | text
}

// RabbitConfig: URI vazia desliga a publicação no cmd/api.
type RabbitConfig struct {
	URI   string
	Queue string
}

func loadLog() LogConfig {
	format := strings.ToLower(getenv("LOG_FORMAT", LogFormatJSON))
	if format != LogFormatText {
		format = LogFormatJSON
	}
	return LogConfig{
		Level:  parseLevel(getenv("LOG_LEVEL", "info")),
		Format: format,
	}
}

func loadRabbit(defURI string) RabbitConfig {
	return RabbitConfig{
		URI:   getenvAny(defURI, "RABBITMQ_URL", "RABBIT_URI"),
		Queue: getenvAny(DefaultQueue, "RABBITMQ_QUEUE", "RABBIT_QUEUE"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getenvAny devolve a primeira variável definida entre keys.
func getenvAny(def string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return def
}

func getenvList(k string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(k), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDuration(env string, def time.Duration) time.Duration {
	if v := os.Getenv(env); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// parsePositive ignora valores inválidos ou <= 0.
func parsePositive(env string, def int) int {
	if v := os.Getenv(env); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NewLogger monta o handler conforme o formato configurado.
func NewLogger(w io.Writer, c LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level}
	if c.Format == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// InitLogger instala o logger global em stderr; stdout fica livre para
// a saída dos jobs (-task render).
func InitLogger(c LogConfig) *slog.Logger {
	l := NewLogger(os.Stderr, c)
	slog.SetDefault(l) // permite usar slog.Info/Error globalmente
	return l
}
