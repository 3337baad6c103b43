package config

import (
	"strings"
	"time"
)

const (
	SourceBuiltin = "builtin"
	SourceMongo   = "mongo"
)

type Config struct {
	Port              string
	Log               LogConfig
	SnapshotSource    string // builtin | mongo
	SnapshotID        string
	MongoURI          string
	MongoDB           string
	Rabbit            RabbitConfig
	LiveURL           string // endereço público do /ws, usado pela página
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

func Load() *Config {
	src := strings.ToLower(getenv("SNAPSHOT_SOURCE", SourceBuiltin))
	if src != SourceMongo {
		src = SourceBuiltin
	}
	return &Config{
		Port:              getenvAny("8080", "PORT", "API_PORT"),
		Log:               loadLog(),
		SnapshotSource:    src,
		SnapshotID:        getenv("SNAPSHOT_ID", "alimentacao"),
		MongoURI:          getenvAny("mongodb://localhost:27017", "MONGO_URI"),
		MongoDB:           getenv("MONGO_DB", "painel_alimentacao"),
		Rabbit:            loadRabbit(""),
		LiveURL:           getenv("WS_PUBLIC_URL", ""),
		ReadHeaderTimeout: parseDuration("READ_HEADER_TIMEOUT", 5*time.Second),
		ShutdownTimeout:   parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}
