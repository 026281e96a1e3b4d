package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/cumplido-next/internal/constants"
	"github.com/cumplido-next/internal/logger"
	"github.com/cumplido-next/internal/metrics"
	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/repository"

	"gorm.io/gorm"
)

var (
	scoreSlotKeyPattern   = regexp.MustCompile(`^R[1-9][0-9]{0,2}$`)
	scoreTimeLabelPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)
)

// ScoreSubmission 提交的评分：报到槽位 -> 时间标签 -> 评分
type ScoreSubmission map[string]map[string]models.ScoreEntry

// ClassifyBucket 按时间标签划分班次：06:00-13:59 白班，14:00-21:59 中班，其余夜班
func ClassifyBucket(label string) (uint8, error) {
	minutes, err := parseTimeLabel(label)
	if err != nil {
		return 0, err
	}
	switch {
	case minutes >= constants.ScoreBucketDayStartMinute && minutes < constants.ScoreBucketMidStartMinute:
		return constants.ShiftTypeDay, nil
	case minutes >= constants.ScoreBucketMidStartMinute && minutes < constants.ScoreBucketNightStartMin:
		return constants.ShiftTypeMid, nil
	default:
		return constants.ShiftTypeNight, nil
	}
}

func parseTimeLabel(label string) (int, error) {
	matches := scoreTimeLabelPattern.FindStringSubmatch(label)
	if matches == nil {
		return 0, fmt.Errorf("%w: time label %q must be HH:MM", ErrScoreSheetInvalid, label)
	}
	hh, _ := strconv.Atoi(matches[1])
	mm, _ := strconv.Atoi(matches[2])
	return hh*60 + mm, nil
}

// ScoreSheetService 通讯评分服务
type ScoreSheetService struct {
	fulfillmentRepo repository.ShiftFulfillmentRepository
	sheetRepo       repository.ScoreSheetRepository
	metrics         *metrics.Metrics
}

// NewScoreSheetService 创建通讯评分服务
func NewScoreSheetService(fulfillmentRepo repository.ShiftFulfillmentRepository, sheetRepo repository.ScoreSheetRepository, m *metrics.Metrics) *ScoreSheetService {
	return &ScoreSheetService{
		fulfillmentRepo: fulfillmentRepo,
		sheetRepo:       sheetRepo,
		metrics:         m,
	}
}

// Get 获取评分表，未保存过时返回空映射
func (s *ScoreSheetService) Get(fulfillmentID uint) (models.ScoreEntries, error) {
	if _, err := s.resolveFulfillment(fulfillmentID); err != nil {
		return nil, err
	}
	sheet, err := s.sheetRepo.GetByFulfillmentID(fulfillmentID)
	if err != nil {
		return nil, storeError(err)
	}
	if sheet == nil || sheet.Entries == nil {
		return models.ScoreEntries{}, nil
	}
	return sheet.Entries, nil
}

// Save 只保留属于本记录班次的条目并整体覆盖评分表
// 同岗位同日期存在中班时按时间标签分桶，否则按本记录班次类型归属
func (s *ScoreSheetService) Save(ctx context.Context, fulfillmentID uint, submitted ScoreSubmission) (models.ScoreEntries, error) {
	if err := validateSubmission(submitted); err != nil {
		return nil, err
	}
	fulfillment, err := s.resolveFulfillment(fulfillmentID)
	if err != nil {
		return nil, err
	}

	var filtered models.ScoreEntries
	var hasMid bool
	var kept, discarded int
	// 事务内锁定并复核记录，防止与删除并发时留下孤立评分表
	err = s.fulfillmentRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.fulfillmentRepo.WithTx(tx)
		current, err := repo.GetByIDForUpdate(fulfillment.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrFulfillmentNotFound
		}
		hasMid = current.ShiftType == constants.ShiftTypeMid
		if !hasMid {
			hasMid, err = repo.ExistsShiftType(current.PositionID, current.Date, constants.ShiftTypeMid)
			if err != nil {
				return err
			}
		}
		filtered, kept, discarded = partitionSubmission(submitted, current.ShiftType, hasMid)
		return s.sheetRepo.WithTx(tx).Replace(current.ID, filtered)
	})
	if err != nil {
		if errors.Is(err, ErrFulfillmentNotFound) || errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrFulfillmentNotFound
		}
		return nil, storeError(err)
	}
	s.metrics.AddScoreEntries(constants.ShiftTypeName(fulfillment.ShiftType), kept, discarded)
	invalidateConsolidatedViews(ctx)
	logger.Infow("score_sheet_saved",
		"fulfillment_id", fulfillment.ID,
		"shift_type", fulfillment.ShiftType,
		"has_mid_sibling", hasMid,
		"kept", kept,
		"discarded", discarded,
	)
	return filtered, nil
}

func (s *ScoreSheetService) resolveFulfillment(fulfillmentID uint) (*models.ShiftFulfillment, error) {
	if fulfillmentID == 0 {
		return nil, ErrScoreSheetInvalid
	}
	fulfillment, err := s.fulfillmentRepo.GetByID(fulfillmentID)
	if err != nil {
		return nil, storeError(err)
	}
	if fulfillment == nil {
		return nil, ErrFulfillmentNotFound
	}
	return fulfillment, nil
}

func validateSubmission(submitted ScoreSubmission) error {
	for slotKey, times := range submitted {
		if !scoreSlotKeyPattern.MatchString(slotKey) {
			return fmt.Errorf("%w: slot key %q must look like R1", ErrScoreSheetInvalid, slotKey)
		}
		for label := range times {
			if _, err := parseTimeLabel(label); err != nil {
				return err
			}
		}
	}
	return nil
}

// partitionSubmission 过滤出归属 shiftType 的条目
func partitionSubmission(submitted ScoreSubmission, shiftType uint8, hasMid bool) (models.ScoreEntries, int, int) {
	filtered := models.ScoreEntries{}
	kept, discarded := 0, 0
	for slotKey, times := range submitted {
		for label, entry := range times {
			bucket := shiftType
			if hasMid {
				// 已校验，忽略错误
				bucket, _ = ClassifyBucket(label)
			}
			if bucket != shiftType {
				discarded++
				continue
			}
			if filtered[slotKey] == nil {
				filtered[slotKey] = map[string]models.ScoreEntry{}
			}
			filtered[slotKey][label] = entry
			kept++
		}
	}
	return filtered, kept, discarded
}
