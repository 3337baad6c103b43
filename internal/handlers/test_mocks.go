package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Werneck0live/painel-alimentacao/internal/models"
)

type sourceMock struct {
	LoadFn func(ctx context.Context) (*models.Snapshot, error)
}

func (m *sourceMock) Load(ctx context.Context) (*models.Snapshot, error) {
	if m.LoadFn == nil {
		return nil, errors.New("LoadFn not set")
	}
	return m.LoadFn(ctx)
}

// stampedSourceMock simula o repositório Mongo (Load + UpdatedAt).
type stampedSourceMock struct {
	sourceMock
	UpdatedAtFn func(ctx context.Context) (time.Time, error)
}

func (m *stampedSourceMock) UpdatedAt(ctx context.Context) (time.Time, error) {
	if m.UpdatedAtFn == nil {
		return time.Time{}, errors.New("UpdatedAtFn not set")
	}
	return m.UpdatedAtFn(ctx)
}

type published struct {
	Body    string
	Headers amqp091.Table
}

type pubMock struct {
	PublishFn func(ctx context.Context, body string, headers amqp091.Table) error
	CloseFn   func() error

	mu   sync.Mutex
	sent []published
}

func (p *pubMock) Publish(ctx context.Context, body string, headers amqp091.Table) error {
	p.mu.Lock()
	p.sent = append(p.sent, published{Body: body, Headers: headers})
	p.mu.Unlock()
	if p.PublishFn == nil {
		return nil
	}
	return p.PublishFn(ctx, body, headers)
}

func (p *pubMock) Close() error {
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}

func (p *pubMock) Sent() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.sent...)
}
