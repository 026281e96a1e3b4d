package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cumplido-next/internal/cache"
	"github.com/cumplido-next/internal/constants"
	"github.com/cumplido-next/internal/evidence"
	"github.com/cumplido-next/internal/logger"
	"github.com/cumplido-next/internal/metrics"
	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/repository"

	"gorm.io/gorm"
)

// AssignmentKind 分配结果类型
type AssignmentKind string

const (
	AssignmentCreated AssignmentKind = constants.AssignmentKindCreated
	AssignmentUpdated AssignmentKind = constants.AssignmentKindUpdated
	AssignmentCleared AssignmentKind = constants.AssignmentKindCleared
	AssignmentDeleted AssignmentKind = constants.AssignmentKindDeleted
	// AssignmentSkipped 仅批量渠道：移除请求对应的槽位不存在
	AssignmentSkipped AssignmentKind = "skipped"
)

// AssignmentResult 分配结果
type AssignmentResult struct {
	Kind          AssignmentKind `json:"kind"`
	FulfillmentID uint           `json:"fulfillment_id"`
	// InvalidateScoreSheet 记录已删除，调用方应丢弃缓存的评分表
	InvalidateScoreSheet bool `json:"invalidate_score_sheet"`
}

// AssignInput 单条分配输入（自助渠道）
type AssignInput struct {
	PositionID string
	Date       string
	ShiftType  string
	// Worker 为 nil 或空白表示移除
	Worker   *string
	Operator string
}

// ShiftAssignmentService 班次分配服务
type ShiftAssignmentService struct {
	fulfillmentRepo repository.ShiftFulfillmentRepository
	noteRepo        repository.FulfillmentNoteRepository
	sheetRepo       repository.ScoreSheetRepository
	verifier        evidence.Verifier
	locker          cache.SlotLocker
	localLocks      *cache.LocalSlotLocker
	metrics         *metrics.Metrics
}

// NewShiftAssignmentService 创建班次分配服务
func NewShiftAssignmentService(
	fulfillmentRepo repository.ShiftFulfillmentRepository,
	noteRepo repository.FulfillmentNoteRepository,
	sheetRepo repository.ScoreSheetRepository,
	verifier evidence.Verifier,
	locker cache.SlotLocker,
	m *metrics.Metrics,
) *ShiftAssignmentService {
	return &ShiftAssignmentService{
		fulfillmentRepo: fulfillmentRepo,
		noteRepo:        noteRepo,
		sheetRepo:       sheetRepo,
		verifier:        verifier,
		locker:          locker,
		localLocks:      cache.NewLocalSlotLocker(),
		metrics:         m,
	}
}

// Get 获取履职记录
func (s *ShiftAssignmentService) Get(id uint) (*models.ShiftFulfillment, error) {
	if id == 0 {
		return nil, ErrFulfillmentInvalid
	}
	fulfillment, err := s.fulfillmentRepo.GetByID(id)
	if err != nil {
		return nil, storeError(err)
	}
	if fulfillment == nil {
		return nil, ErrFulfillmentNotFound
	}
	return fulfillment, nil
}

// Assign 自助渠道单条分配：校验跨班次互斥后执行创建/更新/清空/删除
func (s *ShiftAssignmentService) Assign(ctx context.Context, input AssignInput) (*AssignmentResult, error) {
	slot, err := ParseSlot(input.PositionID, input.Date, input.ShiftType)
	if err != nil {
		return nil, err
	}
	result, err := s.apply(ctx, slot, input.Worker, constants.ChannelSelfService)
	if err != nil {
		return nil, err
	}
	logger.Infow("shift_assignment_applied",
		"kind", result.Kind,
		"fulfillment_id", result.FulfillmentID,
		"position_id", slot.PositionID,
		"shift_type", slot.ShiftType,
		"operator", input.Operator,
	)
	return result, nil
}

// applyBatch 批量渠道：不做互斥校验，移除不存在的槽位时跳过
func (s *ShiftAssignmentService) applyBatch(ctx context.Context, slot models.ShiftSlot, worker *string) (*AssignmentResult, error) {
	return s.apply(ctx, slot, worker, constants.ChannelBatch)
}

func (s *ShiftAssignmentService) apply(ctx context.Context, slot models.ShiftSlot, worker *string, channel string) (*AssignmentResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	worker = normalizeWorker(worker)

	release, err := s.lockDay(ctx, slot)
	if err != nil {
		s.metrics.IncRejection("slot_busy", channel)
		return nil, err
	}
	defer release()

	result, existing, err := s.writeSlot(slot, worker, channel)
	if err != nil {
		var conflict *ShiftConflictError
		if errors.As(err, &conflict) {
			s.metrics.IncRejection("shift_conflict", channel)
			return nil, conflict
		}
		return nil, storeError(err)
	}
	if existing != nil {
		return s.remove(ctx, existing, channel)
	}
	if result.Kind == AssignmentSkipped {
		return result, nil
	}
	return s.finish(ctx, channel, result), nil
}

// writeSlot 在同一事务内完成互斥校验与写入；移除请求命中已有记录时返回该记录，由 remove 处理
func (s *ShiftAssignmentService) writeSlot(slot models.ShiftSlot, worker *string, channel string) (*AssignmentResult, *models.ShiftFulfillment, error) {
	var result *AssignmentResult
	var existing *models.ShiftFulfillment
	err := s.fulfillmentRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.fulfillmentRepo.WithTx(tx)
		if err := repo.LockDay(slot.PositionID, slot.Date); err != nil {
			return err
		}
		if worker != nil && channel == constants.ChannelSelfService {
			held, err := repo.FindWorkerShift(slot.PositionID, slot.Date, *worker, slot.ShiftType)
			if err != nil {
				return err
			}
			if held != nil {
				return &ShiftConflictError{Worker: *worker, HeldShiftType: held.ShiftType, FulfillmentID: held.ID}
			}
		}

		current, err := repo.GetBySlot(slot)
		if err != nil {
			return err
		}
		if current == nil {
			if worker == nil && channel == constants.ChannelBatch {
				result = &AssignmentResult{Kind: AssignmentSkipped}
				return nil
			}
			row := &models.ShiftFulfillment{
				PositionID: slot.PositionID,
				Date:       slot.Date,
				ShiftType:  slot.ShiftType,
				WorkerName: worker,
			}
			created, err := repo.CreateIfAbsent(row)
			if err != nil {
				return err
			}
			if created {
				result = &AssignmentResult{Kind: AssignmentCreated, FulfillmentID: row.ID}
				return nil
			}
			// 并发插入落败，按已存在记录处理
			current, err = repo.GetBySlot(slot)
			if err != nil {
				return err
			}
			if current == nil {
				return errors.New("slot vanished after conflicting insert")
			}
			logger.Infow("shift_assignment_insert_conflict",
				"fulfillment_id", current.ID,
				"position_id", slot.PositionID,
				"shift_type", slot.ShiftType,
			)
		}

		if worker == nil {
			existing = current
			return nil
		}
		if err := repo.UpdateWorker(current.ID, worker); err != nil {
			return err
		}
		result = &AssignmentResult{Kind: AssignmentUpdated, FulfillmentID: current.ID}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return result, existing, nil
}

// remove 移除请求：证据核验通过后无备注则删除，有备注则清空人员
func (s *ShiftAssignmentService) remove(ctx context.Context, fulfillment *models.ShiftFulfillment, channel string) (*AssignmentResult, error) {
	noteCount, err := s.noteRepo.CountByFulfillmentID(fulfillment.ID)
	if err != nil {
		return nil, storeError(err)
	}

	check := s.verifyEvidence(ctx, fulfillment.ID)
	if !check.PermitsRemoval() {
		if check.State == evidence.HasEvidence {
			s.metrics.IncRejection("evidence_locked", channel)
			logger.Infow("shift_assignment_evidence_locked",
				"fulfillment_id", fulfillment.ID,
				"media_count", check.MediaCount,
				"note_count", noteCount,
			)
			return nil, &EvidenceLockedError{FulfillmentID: fulfillment.ID, MediaCount: check.MediaCount}
		}
		s.metrics.IncRejection("evidence_unverifiable", channel)
		if check.Err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEvidenceUnverifiable, check.Err)
		}
		return nil, ErrEvidenceUnverifiable
	}

	if noteCount > 0 {
		if err := s.fulfillmentRepo.UpdateWorker(fulfillment.ID, nil); err != nil {
			return nil, storeError(err)
		}
		return s.finish(ctx, channel, &AssignmentResult{Kind: AssignmentCleared, FulfillmentID: fulfillment.ID}), nil
	}

	kind := AssignmentDeleted
	err = s.fulfillmentRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.fulfillmentRepo.WithTx(tx)
		// 先锁定记录，新增备注与评分表的事务需等待删除结束
		current, err := repo.GetByIDForUpdate(fulfillment.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}
		// 核验期间可能新增备注，事务内复核
		count, err := s.noteRepo.WithTx(tx).CountByFulfillmentID(fulfillment.ID)
		if err != nil {
			return err
		}
		if count > 0 {
			kind = AssignmentCleared
			return repo.UpdateWorker(fulfillment.ID, nil)
		}
		if err := s.sheetRepo.WithTx(tx).DeleteByFulfillmentID(fulfillment.ID); err != nil {
			return err
		}
		return repo.Delete(fulfillment.ID)
	})
	if err != nil {
		return nil, storeError(err)
	}
	result := &AssignmentResult{Kind: kind, FulfillmentID: fulfillment.ID}
	if kind == AssignmentDeleted {
		result.InvalidateScoreSheet = true
		logger.Infow("shift_assignment_deleted",
			"fulfillment_id", fulfillment.ID,
			"position_id", fulfillment.PositionID,
			"shift_type", fulfillment.ShiftType,
			"channel", channel,
		)
	}
	return s.finish(ctx, channel, result), nil
}

func (s *ShiftAssignmentService) verifyEvidence(ctx context.Context, fulfillmentID uint) evidence.Result {
	if s.verifier == nil {
		return evidence.Result{State: evidence.Unknown, Err: errors.New("evidence verifier not configured")}
	}
	return s.verifier.Verify(ctx, fulfillmentID)
}

// lockDay 串行化同岗位同日期的请求：进程内锁始终生效，配置 Redis 时再加跨实例锁
func (s *ShiftAssignmentService) lockDay(ctx context.Context, slot models.ShiftSlot) (func(), error) {
	key := cache.SlotLockKey(slot.PositionID, models.NormalizeDay(slot.Date))
	releaseLocal, err := s.localLocks.Lock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSlotBusy, err)
	}
	if s.locker == nil {
		return releaseLocal, nil
	}
	release, err := s.locker.Lock(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrLockHeld) {
			releaseLocal()
			return nil, ErrSlotBusy
		}
		// 锁服务不可用时依赖进程内锁与数据库事务兜底
		logger.Warnw("shift_slot_lock_unavailable",
			"position_id", slot.PositionID,
			"date", slot.Date.Format("2006-01-02"),
			"error", err,
		)
		return releaseLocal, nil
	}
	return func() {
		release()
		releaseLocal()
	}, nil
}

func (s *ShiftAssignmentService) finish(ctx context.Context, channel string, result *AssignmentResult) *AssignmentResult {
	s.metrics.IncAssignment(string(result.Kind), channel)
	invalidateConsolidatedViews(ctx)
	return result
}

func invalidateConsolidatedViews(ctx context.Context) {
	if err := cache.BumpViewVersion(ctx); err != nil {
		logger.Warnw("consolidated_view_invalidate_failed", "error", err)
	}
}
