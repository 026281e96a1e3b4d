package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cumplido-next/internal/evidence"
	"github.com/cumplido-next/internal/metrics"
	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// stubVerifier 可控的证据核验网关
type stubVerifier struct {
	mu          sync.Mutex
	media       map[uint]int
	unavailable bool
	calls       int
}

func newStubVerifier() *stubVerifier {
	return &stubVerifier{media: map[uint]int{}}
}

func (v *stubVerifier) Verify(_ context.Context, fulfillmentID uint) evidence.Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	if v.unavailable {
		return evidence.Result{State: evidence.Unknown, Err: errors.New("gateway timeout")}
	}
	if count := v.media[fulfillmentID]; count > 0 {
		return evidence.Result{State: evidence.HasEvidence, MediaCount: count}
	}
	return evidence.Result{State: evidence.NoEvidence}
}

func (v *stubVerifier) setMedia(fulfillmentID uint, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.media[fulfillmentID] = count
}

func (v *stubVerifier) setUnavailable(unavailable bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.unavailable = unavailable
}

type engineFixture struct {
	db              *gorm.DB
	verifier        *stubVerifier
	metrics         *metrics.Metrics
	fulfillmentRepo *repository.GormShiftFulfillmentRepository
	noteRepo        *repository.GormFulfillmentNoteRepository
	sheetRepo       *repository.GormScoreSheetRepository
	assignments     *ShiftAssignmentService
	reconcile       *ReconcileService
	scores          *ScoreSheetService
	notes           *NoteService
	scoringConfigs  *ScoringConfigService
	views           *ConsolidatedViewService
}

func setupEngineTest(t *testing.T) *engineFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:engine_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	f := &engineFixture{
		db:              db,
		verifier:        newStubVerifier(),
		metrics:         metrics.New(),
		fulfillmentRepo: repository.NewShiftFulfillmentRepository(db),
		noteRepo:        repository.NewFulfillmentNoteRepository(db),
		sheetRepo:       repository.NewScoreSheetRepository(db),
	}
	f.assignments = NewShiftAssignmentService(f.fulfillmentRepo, f.noteRepo, f.sheetRepo, f.verifier, nil, f.metrics)
	f.reconcile = NewReconcileService(f.assignments, nil, f.metrics)
	f.scores = NewScoreSheetService(f.fulfillmentRepo, f.sheetRepo, f.metrics)
	f.notes = NewNoteService(f.fulfillmentRepo, f.noteRepo)
	f.scoringConfigs = NewScoringConfigService(repository.NewScoringConfigRepository(db))
	f.views = NewConsolidatedViewService(repository.NewCatalogRepository(db), f.fulfillmentRepo, f.noteRepo, f.sheetRepo, f.scoringConfigs, 0)
	return f
}

func workerPtr(name string) *string {
	return &name
}

func (f *engineFixture) assign(t *testing.T, pos, date, shift string, worker *string) (*AssignmentResult, error) {
	t.Helper()
	return f.assignments.Assign(context.Background(), AssignInput{PositionID: pos, Date: date, ShiftType: shift, Worker: worker, Operator: "tester"})
}

func (f *engineFixture) mustAssign(t *testing.T, pos, date, shift string, worker *string) *AssignmentResult {
	t.Helper()
	result, err := f.assign(t, pos, date, shift, worker)
	if err != nil {
		t.Fatalf("assign %s/%s/%s failed: %v", pos, date, shift, err)
	}
	return result
}

func (f *engineFixture) countFulfillments(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&models.ShiftFulfillment{}).Count(&count).Error; err != nil {
		t.Fatalf("count fulfillments failed: %v", err)
	}
	return count
}

func (f *engineFixture) addNote(t *testing.T, fulfillmentID uint, body string) *models.FulfillmentNote {
	t.Helper()
	note, err := f.notes.Create(context.Background(), CreateNoteInput{FulfillmentID: fulfillmentID, Body: body, Author: "supervisor"})
	if err != nil {
		t.Fatalf("create note failed: %v", err)
	}
	return note
}

// removingRepository 首次按 ID 读取后、返回前执行 onRead，模拟并发删除
type removingRepository struct {
	*repository.GormShiftFulfillmentRepository
	onRead func()
}

func (r *removingRepository) GetByID(id uint) (*models.ShiftFulfillment, error) {
	fulfillment, err := r.GormShiftFulfillmentRepository.GetByID(id)
	if r.onRead != nil {
		onRead := r.onRead
		r.onRead = nil
		onRead()
	}
	return fulfillment, err
}

func (f *engineFixture) removeOnRead(t *testing.T, pos, date, shift string) *removingRepository {
	t.Helper()
	return &removingRepository{
		GormShiftFulfillmentRepository: f.fulfillmentRepo,
		onRead: func() {
			result := f.mustAssign(t, pos, date, shift, nil)
			if result.Kind != AssignmentDeleted {
				t.Fatalf("concurrent removal should delete, got %+v", result)
			}
		},
	}
}

func (f *engineFixture) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return count
}
