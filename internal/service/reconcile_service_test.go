package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/repository"

	"gorm.io/gorm"
)

func TestReconcileMixedBatch(t *testing.T) {
	f := setupEngineTest(t)
	existing := f.mustAssign(t, "2", "2024-03-01", "1", workerPtr("Old"))
	withNote := f.mustAssign(t, "3", "2024-03-01", "2", workerPtr("Keep"))
	f.addNote(t, withNote.FulfillmentID, "novedad")
	toDelete := f.mustAssign(t, "4", "2024-03-01", "1", workerPtr("Gone"))

	raw := []byte(`[
		{"position_id": 1, "date": "2024-03-01", "shift_type": 1, "worker_name": "New"},
		{"position_id": "2", "date": "2024-03-01", "shift_type": "1", "worker_name": "Replaced"},
		{"position_id": 3, "date": "2024-03-01", "shift_type": 2, "worker_name": null},
		{"position_id": 4, "date": "2024-03-01", "shift_type": 1, "worker_name": null},
		{"position_id": 5, "date": "2024-03-01", "shift_type": 1},
		{"position_id": "x9", "date": "2024-03-01", "shift_type": 1, "worker_name": "Bad"},
		{"position_id": 6, "date": "2024-03-01", "shift_type": 1, "worker_name": null},
		{"position_id": 7, "date": "2024-13-45", "shift_type": 1, "worker_name": "Bad"},
		{"position_id": 8, "shift_type": 3, "worker_name": "Bad"},
		{"position_id": true, "date": "2024-03-01", "shift_type": 1, "worker_name": "Bad"},
		{"position_id": 9, "date": "2024-03-01", "shift_type": 1, "worker_name": 12}
	]`)
	items, err := DecodeReconcileItems(raw)
	if err != nil {
		t.Fatalf("decode items failed: %v", err)
	}

	summary := f.reconcile.Reconcile(context.Background(), items)
	if !summary.OK {
		t.Fatalf("summary must always be ok")
	}
	if summary.Created != 1 {
		t.Fatalf("expected 1 created, got %d", summary.Created)
	}
	if summary.Updated != 2 {
		t.Fatalf("expected 2 updated (update + clear), got %d", summary.Updated)
	}
	wantErrorPositions := []string{"5", "x9", "7", "8", "true", "9"}
	if len(summary.Errors) != len(wantErrorPositions) {
		t.Fatalf("expected %d errors, got %+v", len(wantErrorPositions), summary.Errors)
	}
	for i, want := range wantErrorPositions {
		if summary.Errors[i].PositionID != want {
			t.Fatalf("error %d position want %s got %s", i, want, summary.Errors[i].PositionID)
		}
		if summary.Errors[i].Error == "" {
			t.Fatalf("error %d should carry a message", i)
		}
	}
	if !strings.Contains(summary.Errors[0].Error, "worker_name is required") {
		t.Fatalf("missing worker_name should be reported, got %s", summary.Errors[0].Error)
	}

	stored, err := f.assignments.Get(existing.FulfillmentID)
	if err != nil || stored.WorkerName == nil || *stored.WorkerName != "Replaced" {
		t.Fatalf("existing slot should be updated, got %+v err=%v", stored, err)
	}
	cleared, err := f.assignments.Get(withNote.FulfillmentID)
	if err != nil || cleared.WorkerName != nil {
		t.Fatalf("slot with notes should be cleared, got %+v err=%v", cleared, err)
	}
	if _, err := f.assignments.Get(toDelete.FulfillmentID); !errors.Is(err, ErrFulfillmentNotFound) {
		t.Fatalf("slot without evidence should be deleted, got %v", err)
	}
}

func TestReconcileCapturesEvidenceErrorsPerItem(t *testing.T) {
	f := setupEngineTest(t)
	locked := f.mustAssign(t, "1", "2024-03-01", "1", workerPtr("A"))
	f.verifier.setMedia(locked.FulfillmentID, 3)

	summary := f.reconcile.Reconcile(context.Background(), []ReconcileItem{
		{PositionID: Flex("1"), Date: Flex("2024-03-01"), ShiftType: Flex("1"), WorkerName: ExplicitNull()},
		{PositionID: Flex("2"), Date: Flex("2024-03-01"), ShiftType: Flex("1"), WorkerName: Present("B")},
	})
	if summary.Created != 1 || len(summary.Errors) != 1 {
		t.Fatalf("locked item must not abort the batch, got %+v", summary)
	}
	if summary.Errors[0].PositionID != "1" || !strings.Contains(summary.Errors[0].Error, ErrEvidenceLocked.Error()) {
		t.Fatalf("unexpected error entry: %+v", summary.Errors[0])
	}

	f.verifier.setUnavailable(true)
	summary = f.reconcile.Reconcile(context.Background(), []ReconcileItem{
		{PositionID: Flex("2"), Date: Flex("2024-03-01"), ShiftType: Flex("1"), WorkerName: ExplicitNull()},
	})
	if len(summary.Errors) != 1 || !strings.Contains(summary.Errors[0].Error, ErrEvidenceUnverifiable.Error()) {
		t.Fatalf("unverifiable item must be captured, got %+v", summary)
	}
	if f.countFulfillments(t) != 2 {
		t.Fatalf("failed removals must not delete rows")
	}
}

// failingSlotRepository 指定岗位的槽位读取返回存储错误
type failingSlotRepository struct {
	*repository.GormShiftFulfillmentRepository
	positionID uint
}

func (r *failingSlotRepository) WithTx(tx *gorm.DB) repository.ShiftFulfillmentRepository {
	return &failingSlotRepository{GormShiftFulfillmentRepository: repository.NewShiftFulfillmentRepository(tx), positionID: r.positionID}
}

func (r *failingSlotRepository) GetBySlot(slot models.ShiftSlot) (*models.ShiftFulfillment, error) {
	if slot.PositionID == r.positionID {
		return nil, errors.New("disk I/O error")
	}
	return r.GormShiftFulfillmentRepository.GetBySlot(slot)
}

func TestReconcileCapturesStoreErrorsPerItem(t *testing.T) {
	f := setupEngineTest(t)
	assignments := NewShiftAssignmentService(&failingSlotRepository{GormShiftFulfillmentRepository: f.fulfillmentRepo, positionID: 2}, f.noteRepo, f.sheetRepo, f.verifier, nil, f.metrics)
	reconcile := NewReconcileService(assignments, nil, f.metrics)

	summary := reconcile.Reconcile(context.Background(), []ReconcileItem{
		{PositionID: Flex("1"), Date: Flex("2024-03-01"), ShiftType: Flex("1"), WorkerName: Present("A")},
		{PositionID: Flex("2"), Date: Flex("2024-03-01"), ShiftType: Flex("1"), WorkerName: Present("B")},
		{PositionID: Flex("3"), Date: Flex("2024-03-01"), ShiftType: Flex("1"), WorkerName: Present("C")},
	})
	if !summary.OK || summary.Created != 2 {
		t.Fatalf("items around the failing one must apply, got %+v", summary)
	}
	if len(summary.Errors) != 1 || summary.Errors[0].PositionID != "2" {
		t.Fatalf("store failure should be the only error, got %+v", summary.Errors)
	}
	if !strings.Contains(summary.Errors[0].Error, ErrFulfillmentStoreFailed.Error()) {
		t.Fatalf("store failure should be reported as such, got %s", summary.Errors[0].Error)
	}
	if f.countFulfillments(t) != 2 {
		t.Fatalf("fulfillments want 2 got %d", f.countFulfillments(t))
	}
}

func TestReconcileEmptyBatch(t *testing.T) {
	f := setupEngineTest(t)
	summary := f.reconcile.Reconcile(context.Background(), nil)
	if !summary.OK || summary.Created != 0 || summary.Updated != 0 || summary.Errors == nil || len(summary.Errors) != 0 {
		t.Fatalf("unexpected empty summary: %+v", summary)
	}
}

func TestDecodeReconcileItemsDistinguishesNullAndMissing(t *testing.T) {
	items, err := DecodeReconcileItems([]byte(`[{"worker_name": null}, {}, {"worker_name": "  "}]`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !items[0].WorkerName.Set || !items[0].WorkerName.Null {
		t.Fatalf("explicit null must be recorded, got %+v", items[0].WorkerName)
	}
	if items[1].WorkerName.Set {
		t.Fatalf("missing field must not be set")
	}
	if !items[2].WorkerName.Set || items[2].WorkerName.Null || items[2].WorkerName.Pointer() == nil {
		t.Fatalf("blank string is a present value, got %+v", items[2].WorkerName)
	}

	if _, err := DecodeReconcileItems([]byte(`{"not": "an array"}`)); !errors.Is(err, ErrFulfillmentInvalid) {
		t.Fatalf("non array payload must be invalid, got %v", err)
	}
}

func TestEnqueueReconcileWithoutQueue(t *testing.T) {
	f := setupEngineTest(t)
	if _, err := f.reconcile.EnqueueReconcile([]byte(`[]`), "ana", "req-1"); !errors.Is(err, ErrQueueUnavailable) {
		t.Fatalf("expected queue unavailable, got %v", err)
	}
}
