package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/painel-alimentacao/internal/broker"
	"github.com/Werneck0live/painel-alimentacao/internal/metrics"
	"github.com/Werneck0live/painel-alimentacao/internal/models"
	"github.com/Werneck0live/painel-alimentacao/internal/report"
	"github.com/Werneck0live/painel-alimentacao/internal/repository"
	"github.com/Werneck0live/painel-alimentacao/internal/utils"
)

type Source interface {
	Load(ctx context.Context) (*models.Snapshot, error)
}

// Stamped é implementado por fontes persistidas (Mongo) que sabem quando o
// snapshot foi gravado pela última vez.
type Stamped interface {
	UpdatedAt(ctx context.Context) (time.Time, error)
}

type Publisher interface {
	Publish(ctx context.Context, body string, headers amqp.Table) error
	Close() error
}

type ReportHandler struct {
	Source  Source
	Pub     Publisher // opcional
	HTML    *report.HTMLRenderer
	Charts  *report.ChartRenderer
	Metrics *metrics.Metrics // opcional
	Log     *slog.Logger
}

func NewReportHandler(src Source, pub Publisher, html *report.HTMLRenderer, charts *report.ChartRenderer, m *metrics.Metrics, log *slog.Logger) *ReportHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ReportHandler{Source: src, Pub: pub, HTML: html, Charts: charts, Metrics: m, Log: log.With("cmp", "handlers.report")}
}

// garantir que a requisição venha no padrão /api/charts/{secao}.svg
func parseChartID(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 3 && parts[0] == "api" && parts[1] == "charts" && strings.HasSuffix(parts[2], ".svg") {
		id := strings.TrimSuffix(parts[2], ".svg")
		return id, id != ""
	}
	return "", false
}

func (h *ReportHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Dashboard: GET / -> página HTML completa
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		utils.NotFound(w, "not found")
		return
	}
	h.serve(w, r, "html", "text/html; charset=utf-8", func(buf *bytes.Buffer, p *report.Page) error {
		return h.HTML.Render(buf, p)
	})
}

// Report: GET /api/report -> seções em JSON, linhas na ordem de exibição
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()
	page, err := h.page(r.Context())
	h.Metrics.ObserveRender("json", start, err)
	if err != nil {
		h.fail(w, "json", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reportResponse{Page: page, UpdatedAt: h.updatedAt(r.Context())})
}

type reportResponse struct {
	*report.Page
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// updatedAt: nil para fontes sem carimbo (builtin) ou quando a consulta falha.
func (h *ReportHandler) updatedAt(ctx context.Context) *time.Time {
	st, ok := h.Source.(Stamped)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	at, err := st.UpdatedAt(ctx)
	if err != nil {
		h.Log.Warn("snapshot_updated_at_error", "err", err)
		return nil
	}
	at = at.UTC()
	return &at
}

func (h *ReportHandler) Markdown(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "markdown", "text/markdown; charset=utf-8", func(buf *bytes.Buffer, p *report.Page) error {
		return report.NewMarkdownWriter(buf).Write(p)
	})
}

func (h *ReportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="painel-alimentacao.xlsx"`)
	h.serve(w, r, "xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", func(buf *bytes.Buffer, p *report.Page) error {
		return report.WriteXLSX(buf, p)
	})
}

// Chart: GET /api/charts/{uf|cnae|ano|motivos}.svg
func (h *ReportHandler) Chart(w http.ResponseWriter, r *http.Request) {
	id, ok := parseChartID(r.URL.Path)
	if !ok {
		utils.NotFound(w, "not found")
		return
	}
	h.serve(w, r, "svg", "image/svg+xml", func(buf *bytes.Buffer, p *report.Page) error {
		sec, found := p.Section(id)
		if !found {
			return fmt.Errorf("%w: %s", report.ErrUnknownChart, id)
		}
		svg, err := h.Charts.SVG(sec)
		if err != nil {
			return err
		}
		_, err = buf.Write(svg)
		return err
	})
}

// serve monta a página, renderiza num buffer e só então responde:
// erro no meio do caminho nunca gera resposta parcial.
func (h *ReportHandler) serve(w http.ResponseWriter, r *http.Request, format, contentType string, render func(*bytes.Buffer, *report.Page) error) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	page, err := h.page(r.Context())
	if err == nil {
		err = render(&buf, page)
	}
	h.Metrics.ObserveRender(format, start, err)
	if err != nil {
		h.fail(w, format, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)

	h.publishEvent(broker.EventReportRendered, format)
}

func (h *ReportHandler) page(ctx context.Context) (*report.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	snap, err := h.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return report.Build(snap)
}

func (h *ReportHandler) fail(w http.ResponseWriter, format string, err error) {
	w.Header().Del("Content-Disposition")
	switch {
	case errors.Is(err, report.ErrUnknownChart):
		utils.NotFound(w, "chart not found")
		return
	case errors.Is(err, repository.ErrSnapshotNotFound):
		h.Log.Warn("snapshot_missing", "format", format)
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "snapshot not seeded"})
		return
	}
	h.Log.Error("report_render_error", "format", format, "err", err)
	utils.InternalError(w, err)
}

func (h *ReportHandler) publishEvent(name, format string) {
	if h.Pub == nil {
		return
	}
	ev := broker.NewEvent(name, format)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := h.Pub.Publish(ctx, ev.Body(), ev.Headers())
	h.Metrics.ObserveEvent(name, err)
	if err != nil {
		h.Log.Warn("event_publish_error", "event", name, "err", err)
	}
}
