package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cumplido-next/internal/cache"
	"github.com/cumplido-next/internal/constants"
	"github.com/cumplido-next/internal/logger"
	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/repository"

	"golang.org/x/sync/errgroup"
)

const maxConsolidatedRangeDays = 31

// ConsolidatedFilter 汇总视图查询条件
type ConsolidatedFilter struct {
	BusinessID uint
	DateFrom   time.Time
	DateTo     time.Time
}

// ExpectedSlots 指定日期应报到的槽位数
type ExpectedSlots struct {
	Day   int `json:"day"`
	Night int `json:"night"`
}

// ConsolidatedNote 视图中的备注
type ConsolidatedNote struct {
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// ConsolidatedRow 视图行
type ConsolidatedRow struct {
	FulfillmentID uint                        `json:"fulfillment_id"`
	PositionID    uint                        `json:"position_id"`
	PositionName  string                      `json:"position_name"`
	Date          string                      `json:"date"`
	ShiftType     uint8                       `json:"shift_type"`
	ShiftName     string                      `json:"shift_name"`
	Worker        *string                     `json:"worker"`
	Notes         map[string]ConsolidatedNote `json:"notes"`
	ScoreSheet    models.ScoreEntries         `json:"score_sheet"`
}

// ConsolidatedUnit 按业务单元分组
type ConsolidatedUnit struct {
	UnitID   uint              `json:"unit_id"`
	UnitName string            `json:"unit_name"`
	Rows     []ConsolidatedRow `json:"rows"`
}

// ConsolidatedView 汇总视图
type ConsolidatedView struct {
	BusinessID    uint                     `json:"business_id"`
	BusinessName  string                   `json:"business_name"`
	DateFrom      string                   `json:"date_from"`
	DateTo        string                   `json:"date_to"`
	ExpectedSlots map[string]ExpectedSlots `json:"expected_slots"`
	Units         []ConsolidatedUnit       `json:"units"`
}

// ConsolidatedViewService 汇总视图服务（只读）
type ConsolidatedViewService struct {
	catalogRepo     repository.CatalogRepository
	fulfillmentRepo repository.ShiftFulfillmentRepository
	noteRepo        repository.FulfillmentNoteRepository
	sheetRepo       repository.ScoreSheetRepository
	scoringConfigs  *ScoringConfigService
	cacheTTL        time.Duration
}

// NewConsolidatedViewService 创建汇总视图服务
func NewConsolidatedViewService(
	catalogRepo repository.CatalogRepository,
	fulfillmentRepo repository.ShiftFulfillmentRepository,
	noteRepo repository.FulfillmentNoteRepository,
	sheetRepo repository.ScoreSheetRepository,
	scoringConfigs *ScoringConfigService,
	cacheTTL time.Duration,
) *ConsolidatedViewService {
	return &ConsolidatedViewService{
		catalogRepo:     catalogRepo,
		fulfillmentRepo: fulfillmentRepo,
		noteRepo:        noteRepo,
		sheetRepo:       sheetRepo,
		scoringConfigs:  scoringConfigs,
		cacheTTL:        cacheTTL,
	}
}

// ParseConsolidatedFilter 解析查询参数：date 或 date_from..date_to
func ParseConsolidatedFilter(businessID, date, dateFrom, dateTo string) (ConsolidatedFilter, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(businessID), 10, 32)
	if err != nil || id == 0 {
		return ConsolidatedFilter{}, ErrViewInvalid
	}
	filter := ConsolidatedFilter{BusinessID: uint(id)}
	if strings.TrimSpace(date) != "" {
		day, err := ParseDay(date)
		if err != nil {
			return ConsolidatedFilter{}, ErrViewInvalid
		}
		filter.DateFrom, filter.DateTo = day, day
		return filter, nil
	}
	from, err := ParseDay(dateFrom)
	if err != nil {
		return ConsolidatedFilter{}, ErrViewInvalid
	}
	to, err := ParseDay(dateTo)
	if err != nil {
		return ConsolidatedFilter{}, ErrViewInvalid
	}
	if to.Before(from) || to.Sub(from) > maxConsolidatedRangeDays*24*time.Hour {
		return ConsolidatedFilter{}, ErrViewInvalid
	}
	filter.DateFrom, filter.DateTo = from, to
	return filter, nil
}

// Build 构建汇总视图
func (s *ConsolidatedViewService) Build(ctx context.Context, filter ConsolidatedFilter) (*ConsolidatedView, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if filter.BusinessID == 0 || filter.DateTo.Before(filter.DateFrom) {
		return nil, ErrViewInvalid
	}

	cacheKey := ""
	if s.cacheTTL > 0 && cache.Enabled() {
		version, err := cache.ViewVersion(ctx)
		if err == nil {
			cacheKey = cache.ConsolidatedViewKey(version, filter.BusinessID, filter.DateFrom, filter.DateTo)
			var cached ConsolidatedView
			if hit, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
				return &cached, nil
			}
		} else {
			logger.Warnw("consolidated_view_cache_version_failed", "error", err)
		}
	}

	view, err := s.build(ctx, filter)
	if err != nil {
		return nil, err
	}
	if cacheKey != "" {
		if err := cache.SetJSON(ctx, cacheKey, view, s.cacheTTL); err != nil {
			logger.Warnw("consolidated_view_cache_set_failed", "error", err)
		}
	}
	return view, nil
}

func (s *ConsolidatedViewService) build(ctx context.Context, filter ConsolidatedFilter) (*ConsolidatedView, error) {
	business, err := s.catalogRepo.GetBusiness(filter.BusinessID)
	if err != nil {
		return nil, storeError(err)
	}
	if business == nil {
		return nil, ErrBusinessNotFound
	}
	units, err := s.catalogRepo.ListUnitsByBusiness(business.ID)
	if err != nil {
		return nil, storeError(err)
	}
	unitIDs := make([]uint, 0, len(units))
	for _, unit := range units {
		unitIDs = append(unitIDs, unit.ID)
	}
	positions, err := s.catalogRepo.ListPositionsByUnits(unitIDs)
	if err != nil {
		return nil, storeError(err)
	}
	positionByID := make(map[uint]models.Position, len(positions))
	positionIDs := make([]uint, 0, len(positions))
	for _, position := range positions {
		positionByID[position.ID] = position
		positionIDs = append(positionIDs, position.ID)
	}

	var fulfillments []models.ShiftFulfillment
	if len(positionIDs) > 0 {
		from, to := filter.DateFrom, filter.DateTo
		fulfillments, err = s.fulfillmentRepo.List(repository.ShiftFulfillmentListFilter{
			PositionIDs: positionIDs,
			DateFrom:    &from,
			DateTo:      &to,
		})
		if err != nil {
			return nil, storeError(err)
		}
	}
	fulfillmentIDs := make([]uint, 0, len(fulfillments))
	for _, f := range fulfillments {
		fulfillmentIDs = append(fulfillmentIDs, f.ID)
	}

	var (
		notes    []models.FulfillmentNote
		sheets   []models.ScoreSheet
		expected map[string]ExpectedSlots
	)
	group, _ := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		notes, err = s.noteRepo.ListByFulfillmentIDs(fulfillmentIDs)
		return err
	})
	group.Go(func() error {
		var err error
		sheets, err = s.sheetRepo.ListByFulfillmentIDs(fulfillmentIDs)
		return err
	})
	group.Go(func() error {
		var err error
		expected, err = s.expectedSlots(business.ID, filter.DateFrom, filter.DateTo)
		return err
	})
	if err := group.Wait(); err != nil {
		if errors.Is(err, ErrFulfillmentStoreFailed) {
			return nil, err
		}
		return nil, storeError(err)
	}

	notesByFulfillment := make(map[uint]map[string]ConsolidatedNote)
	for _, note := range notes {
		if notesByFulfillment[note.FulfillmentID] == nil {
			notesByFulfillment[note.FulfillmentID] = map[string]ConsolidatedNote{}
		}
		notesByFulfillment[note.FulfillmentID][strconv.FormatUint(uint64(note.ID), 10)] = ConsolidatedNote{
			Body:      note.Body,
			Author:    note.Author,
			CreatedAt: note.CreatedAt,
		}
	}
	sheetByFulfillment := make(map[uint]models.ScoreEntries, len(sheets))
	for _, sheet := range sheets {
		sheetByFulfillment[sheet.FulfillmentID] = sheet.Entries
	}

	rowsByUnit := make(map[uint][]ConsolidatedRow, len(units))
	for _, f := range fulfillments {
		position := positionByID[f.PositionID]
		row := ConsolidatedRow{
			FulfillmentID: f.ID,
			PositionID:    f.PositionID,
			PositionName:  position.Name,
			Date:          f.Date.Format(dateLayout),
			ShiftType:     f.ShiftType,
			ShiftName:     constants.ShiftTypeName(f.ShiftType),
			Worker:        f.WorkerName,
			Notes:         notesByFulfillment[f.ID],
			ScoreSheet:    sheetByFulfillment[f.ID],
		}
		if row.Notes == nil {
			row.Notes = map[string]ConsolidatedNote{}
		}
		if row.ScoreSheet == nil {
			row.ScoreSheet = models.ScoreEntries{}
		}
		rowsByUnit[position.BusinessUnitID] = append(rowsByUnit[position.BusinessUnitID], row)
	}

	view := &ConsolidatedView{
		BusinessID:    business.ID,
		BusinessName:  business.Name,
		DateFrom:      filter.DateFrom.Format(dateLayout),
		DateTo:        filter.DateTo.Format(dateLayout),
		ExpectedSlots: expected,
		Units:         make([]ConsolidatedUnit, 0, len(units)),
	}
	for _, unit := range units {
		rows := rowsByUnit[unit.ID]
		if rows == nil {
			rows = []ConsolidatedRow{}
		}
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Date != rows[j].Date {
				return rows[i].Date < rows[j].Date
			}
			if rows[i].PositionName != rows[j].PositionName {
				return rows[i].PositionName < rows[j].PositionName
			}
			return rows[i].ShiftType < rows[j].ShiftType
		})
		view.Units = append(view.Units, ConsolidatedUnit{UnitID: unit.ID, UnitName: unit.Name, Rows: rows})
	}
	return view, nil
}

// expectedSlots 按日期查询生效配置，缺失配置的日期不出现在结果中
func (s *ConsolidatedViewService) expectedSlots(businessID uint, from, to time.Time) (map[string]ExpectedSlots, error) {
	result := map[string]ExpectedSlots{}
	if s.scoringConfigs == nil {
		return result, nil
	}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		config, err := s.scoringConfigs.ConfigFor(businessID, day)
		if err != nil {
			if errors.Is(err, ErrScoringConfigNotFound) {
				continue
			}
			return nil, err
		}
		result[day.Format(dateLayout)] = ExpectedSlots{Day: config.DaySlots, Night: config.NightSlots}
	}
	return result, nil
}
