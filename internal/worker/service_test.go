package worker

import (
	"context"
	"testing"
	"time"

	"github.com/cumplido-next/internal/config"
	"github.com/cumplido-next/internal/provider"
)

func TestNewServiceRequiresEnabledQueue(t *testing.T) {
	consumer := NewConsumer(&provider.Container{})
	if _, err := NewService(nil, consumer); err == nil {
		t.Fatalf("nil config should fail")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: false}, consumer); err == nil {
		t.Fatalf("disabled queue should fail")
	}
	if _, err := NewService(&config.QueueConfig{Enabled: true}, nil); err == nil {
		t.Fatalf("nil consumer should fail")
	}
}

func TestServiceKeepsQueueWeights(t *testing.T) {
	svc, err := NewService(&config.QueueConfig{
		Enabled:     true,
		Concurrency: 2,
		Queues:      map[string]int{"reconcile": 3},
	}, NewConsumer(&provider.Container{}))
	if err != nil {
		t.Fatalf("new service failed: %v", err)
	}
	if svc.Name() != "worker" {
		t.Fatalf("unexpected name: %s", svc.Name())
	}
	if svc.queues["reconcile"] != 3 {
		t.Fatalf("queue weights should come from config, got %v", svc.queues)
	}
}

func TestNilServiceLifecycle(t *testing.T) {
	var svc *Service
	if svc.Name() != "worker" {
		t.Fatalf("nil service should report default name")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := svc.Start(ctx); err == nil {
		t.Fatalf("uninitialized worker must not start")
	}
	if err := svc.Stop(ctx); err != nil {
		t.Fatalf("stopping nil worker should be a no-op: %v", err)
	}
}
