package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/cumplido-next/internal/evidence"
	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/provider"
	"github.com/cumplido-next/internal/queue"
	"github.com/cumplido-next/internal/repository"
	"github.com/cumplido-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func setupConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	verifier := evidence.VerifierFunc(func(context.Context, uint) evidence.Result {
		return evidence.Result{State: evidence.NoEvidence}
	})
	assignments := service.NewShiftAssignmentService(
		repository.NewShiftFulfillmentRepository(db),
		repository.NewFulfillmentNoteRepository(db),
		repository.NewScoreSheetRepository(db),
		verifier,
		nil,
		nil,
	)
	container := &provider.Container{
		ReconcileService: service.NewReconcileService(assignments, nil, nil),
	}
	return NewConsumer(container), db
}

func newReconcileTask(t *testing.T, items string) *asynq.Task {
	t.Helper()
	task, err := queue.NewReconcileBatchTask(queue.ReconcileBatchPayload{
		RequestedBy: "importer",
		RequestID:   "req-1",
		Items:       json.RawMessage(items),
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleReconcileBatchAppliesItems(t *testing.T) {
	consumer, db := setupConsumer(t)
	task := newReconcileTask(t, `[
		{"position_id": 1, "date": "2024-03-01", "shift_type": 1, "worker_name": "Ana"},
		{"position_id": 2, "date": "2024-03-01", "shift_type": 2, "worker_name": "Luis"},
		{"position_id": "bad", "date": "2024-03-01", "shift_type": 1, "worker_name": "X"}
	]`)

	if err := consumer.handleReconcileBatch(context.Background(), task); err != nil {
		t.Fatalf("handle reconcile batch failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.ShiftFulfillment{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("want 2 fulfillments after batch, got %d", count)
	}
}

func TestHandleReconcileBatchRejectsBrokenPayload(t *testing.T) {
	consumer, _ := setupConsumer(t)
	if err := consumer.handleReconcileBatch(context.Background(), asynq.NewTask(queue.TaskReconcileBatch, []byte("{"))); err == nil {
		t.Fatalf("broken payload should surface an error")
	}
	if err := consumer.handleReconcileBatch(context.Background(), newReconcileTask(t, `{"not": "a list"}`)); err != nil {
		t.Fatalf("undecodable items should not be retried, got %v", err)
	}
	if err := consumer.handleReconcileBatch(context.Background(), newReconcileTask(t, `[]`)); err != nil {
		t.Fatalf("empty batch should be skipped, got %v", err)
	}
}

func TestRegisterSkipsNilMux(t *testing.T) {
	consumer, _ := setupConsumer(t)
	consumer.Register(nil)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	handler, pattern := mux.Handler(asynq.NewTask(queue.TaskReconcileBatch, nil))
	if handler == nil || pattern != queue.TaskReconcileBatch {
		t.Fatalf("reconcile task should be routed, got pattern %q", pattern)
	}
}
