package service

import (
	"errors"
	"fmt"

	"github.com/cumplido-next/internal/constants"
)

var (
	ErrFulfillmentInvalid     = errors.New("fulfillment invalid")
	ErrFulfillmentNotFound    = errors.New("fulfillment not found")
	ErrFulfillmentStoreFailed = errors.New("fulfillment store failed")
	ErrShiftConflict          = errors.New("worker already holds a shift on this position and date, release it first")
	ErrEvidenceLocked         = errors.New("fulfillment has media attachments, request manual deletion through an administrator")
	ErrEvidenceUnverifiable   = errors.New("evidence verification unavailable")
	ErrSlotBusy               = errors.New("shift slot is being modified")

	ErrNoteInvalid  = errors.New("note invalid")
	ErrNoteNotFound = errors.New("note not found")

	ErrScoreSheetInvalid = errors.New("score sheet invalid")

	ErrScoringConfigInvalid  = errors.New("scoring config invalid")
	ErrScoringConfigNotFound = errors.New("scoring config not found")

	ErrViewInvalid         = errors.New("consolidated view filter invalid")
	ErrBusinessNotFound    = errors.New("business not found")
	ErrQueueUnavailable    = errors.New("queue unavailable")
	ErrReconcileItemsEmpty = errors.New("reconcile items empty")
)

// ShiftConflictError 人员已在同岗位同日期持有其他班次
type ShiftConflictError struct {
	Worker        string
	HeldShiftType uint8
	FulfillmentID uint
}

func (e *ShiftConflictError) Error() string {
	return fmt.Sprintf("%s (held shift: %s)", ErrShiftConflict.Error(), constants.ShiftTypeName(e.HeldShiftType))
}

func (e *ShiftConflictError) Unwrap() error {
	return ErrShiftConflict
}

// EvidenceLockedError 附件阻止删除
type EvidenceLockedError struct {
	FulfillmentID uint
	MediaCount    int
}

func (e *EvidenceLockedError) Error() string {
	return fmt.Sprintf("%s (media: %d)", ErrEvidenceLocked.Error(), e.MediaCount)
}

func (e *EvidenceLockedError) Unwrap() error {
	return ErrEvidenceLocked
}

func storeError(err error) error {
	return fmt.Errorf("%w: %v", ErrFulfillmentStoreFailed, err)
}
