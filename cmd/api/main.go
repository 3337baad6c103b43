package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Werneck0live/painel-alimentacao/internal/admin"
	"github.com/Werneck0live/painel-alimentacao/internal/broker"
	"github.com/Werneck0live/painel-alimentacao/internal/config"
	"github.com/Werneck0live/painel-alimentacao/internal/db"
	"github.com/Werneck0live/painel-alimentacao/internal/handlers"
	"github.com/Werneck0live/painel-alimentacao/internal/metrics"
	"github.com/Werneck0live/painel-alimentacao/internal/report"
	"github.com/Werneck0live/painel-alimentacao/internal/repository"
	"github.com/Werneck0live/painel-alimentacao/internal/stats"
)

// cmd/api/main.go
func main() {
	cfg := config.Load() // .env

	// Logger "global" em stderr - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	_ = config.InitLogger(cfg.Log)
	slog.Info("starting", "port", cfg.Port, "snapshot_source", cfg.SnapshotSource)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed | render")
	flag.Parse()
	if *task != "" {
		os.Exit(runTask(*task, cfg))
	}

	var (
		src    handlers.Source = stats.BuiltinSource{}
		pub    handlers.Publisher
		client *mongo.Client
	)

	if cfg.SnapshotSource == config.SourceMongo {
		c, err := db.NewMongoClient(cfg.MongoURI)
		if err != nil {
			slog.Error("mongo_connect_error", "err", err)
			os.Exit(1)
		}
		client = c
		defer func() { _ = client.Disconnect(context.Background()) }()
		src = repository.NewSnapshotRepository(client.Database(cfg.MongoDB), cfg.SnapshotID)
	}

	// publisher (Rabbit) só quando configurado
	if cfg.Rabbit.URI != "" {
		p, err := broker.NewPublisher(cfg.Rabbit.URI, cfg.Rabbit.Queue)
		if err != nil {
			slog.Error("rabbitmq_connect_error", "err", err)
			os.Exit(1)
		}
		defer func() { _ = p.Close() }()
		pub = p
	}

	m := metrics.New()
	charts := report.NewChartRenderer()
	html, err := report.NewHTMLRenderer(charts, cfg.LiveURL)
	if err != nil {
		slog.Error("html_renderer_error", "err", err)
		os.Exit(1)
	}
	h := handlers.NewReportHandler(src, pub, html, charts, m, slog.Default())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           logMiddleware(routes(h, m)),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	go func() {
		slog.Info("api_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http_server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful_shutdown_error", "err", err)
	}
	slog.Info("stopped")
}

func routes(h *handlers.ReportHandler, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Dashboard)
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/api/report", h.Report)
	mux.HandleFunc("/api/report.md", h.Markdown)
	mux.HandleFunc("/api/report.xlsx", h.XLSX)
	mux.HandleFunc("/api/charts/", h.Chart)
	mux.Handle("/metrics", m.Handler())
	return mux
}

// runTask executa um job avulso e devolve o código de saída do processo.
func runTask(task string, cfg *config.Config) int {
	switch task {
	case "render":
		if err := renderPage(os.Stdout, cfg.LiveURL); err != nil {
			slog.Error("render_failed", "err", err)
			return 1
		}
		return 0
	case "seed":
		if err := seed(cfg); err != nil {
			slog.Error("seed_failed", "err", err)
			return 1
		}
		slog.Info("seed_done")
		return 0
	default:
		slog.Error("unknown_admin_task", "task", task)
		return 2
	}
}

// renderPage grava a página montada a partir do snapshot literal.
func renderPage(w io.Writer, liveURL string) error {
	page, err := report.Build(stats.Builtin())
	if err != nil {
		return err
	}
	html, err := report.NewHTMLRenderer(nil, liveURL)
	if err != nil {
		return err
	}
	return html.Render(w, page)
}

func seed(cfg *config.Config) error {
	// conecta somente o necessário para o seed
	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := repository.NewSnapshotRepository(client.Database(cfg.MongoDB), cfg.SnapshotID)
	if err := admin.SeedSnapshot(context.Background(), repo, slog.Default()); err != nil {
		return err
	}

	if cfg.Rabbit.URI == "" {
		return nil
	}
	// avisa as páginas abertas (via cmd/ws) que o snapshot mudou
	pub, err := broker.NewPublisher(cfg.Rabbit.URI, cfg.Rabbit.Queue)
	if err != nil {
		slog.Warn("rabbitmq_connect_error", "err", err)
		return nil
	}
	defer func() { _ = pub.Close() }()

	ev := broker.NewEvent(broker.EventSnapshotSeeded, "")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pub.PublishEvent(ctx, ev); err != nil {
		slog.Warn("event_publish_error", "event", ev.Event, "err", err)
	}
	return nil
}

type statusRW struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRW) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRW) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Loga as requisições HTTP, incluindo o método, status, n. de bytes e ttl
func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusRW{ResponseWriter: w}
		next.ServeHTTP(srw, r)
		slog.Info("http_request",
			"method", r.Method, "path", r.URL.Path,
			"status", srw.status, "bytes", srw.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
