package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/cumplido-next/internal/logger"
	"github.com/cumplido-next/internal/models"
	"github.com/cumplido-next/internal/repository"

	"gorm.io/gorm"
)

const maxNoteBodyLength = 4000

// CreateNoteInput 创建备注输入
type CreateNoteInput struct {
	FulfillmentID uint
	Body          string
	Author        string
}

// NoteService 履职备注服务
type NoteService struct {
	fulfillmentRepo repository.ShiftFulfillmentRepository
	noteRepo        repository.FulfillmentNoteRepository
}

// NewNoteService 创建备注服务
func NewNoteService(fulfillmentRepo repository.ShiftFulfillmentRepository, noteRepo repository.FulfillmentNoteRepository) *NoteService {
	return &NoteService{fulfillmentRepo: fulfillmentRepo, noteRepo: noteRepo}
}

// Create 为履职记录添加备注
func (s *NoteService) Create(ctx context.Context, input CreateNoteInput) (*models.FulfillmentNote, error) {
	body := strings.TrimSpace(input.Body)
	if input.FulfillmentID == 0 || body == "" || utf8.RuneCountInString(body) > maxNoteBodyLength {
		return nil, ErrNoteInvalid
	}
	fulfillment, err := s.fulfillmentRepo.GetByID(input.FulfillmentID)
	if err != nil {
		return nil, storeError(err)
	}
	if fulfillment == nil {
		return nil, ErrFulfillmentNotFound
	}
	note := &models.FulfillmentNote{
		FulfillmentID: fulfillment.ID,
		Body:          body,
		Author:        strings.TrimSpace(input.Author),
	}
	// 事务内锁定并复核记录，防止与删除并发时留下孤立备注
	err = s.fulfillmentRepo.Transaction(func(tx *gorm.DB) error {
		current, err := s.fulfillmentRepo.WithTx(tx).GetByIDForUpdate(fulfillment.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrFulfillmentNotFound
		}
		return s.noteRepo.WithTx(tx).Create(note)
	})
	if err != nil {
		if errors.Is(err, ErrFulfillmentNotFound) || errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrFulfillmentNotFound
		}
		return nil, storeError(err)
	}
	invalidateConsolidatedViews(ctx)
	return note, nil
}

// List 获取履职记录的备注
func (s *NoteService) List(fulfillmentID uint) ([]models.FulfillmentNote, error) {
	fulfillment, err := s.fulfillmentRepo.GetByID(fulfillmentID)
	if err != nil {
		return nil, storeError(err)
	}
	if fulfillment == nil {
		return nil, ErrFulfillmentNotFound
	}
	notes, err := s.noteRepo.ListByFulfillmentID(fulfillmentID)
	if err != nil {
		return nil, storeError(err)
	}
	return notes, nil
}

// Delete 删除备注；附件锁在移除分配时独立核验，不受备注删除影响
func (s *NoteService) Delete(ctx context.Context, noteID uint, operator string) error {
	if noteID == 0 {
		return ErrNoteInvalid
	}
	note, err := s.noteRepo.GetByID(noteID)
	if err != nil {
		return storeError(err)
	}
	if note == nil {
		return ErrNoteNotFound
	}
	if err := s.noteRepo.Delete(noteID); err != nil {
		return storeError(err)
	}
	invalidateConsolidatedViews(ctx)
	logger.Infow("fulfillment_note_deleted",
		"note_id", noteID,
		"fulfillment_id", note.FulfillmentID,
		"operator", operator,
	)
	return nil
}
