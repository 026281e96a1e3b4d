package shared

import (
	"errors"

	"github.com/cumplido-next/internal/constants"
	"github.com/cumplido-next/internal/http/response"
	"github.com/cumplido-next/internal/i18n"
	"github.com/cumplido-next/internal/service"

	"github.com/gin-gonic/gin"
)

type serviceErrorMapping struct {
	target error
	code   int
	key    string
}

var serviceErrorMappings = []serviceErrorMapping{
	{target: service.ErrFulfillmentInvalid, code: response.CodeBadRequest, key: "error.fulfillment_invalid"},
	{target: service.ErrScoreSheetInvalid, code: response.CodeBadRequest, key: "error.score_sheet_invalid"},
	{target: service.ErrScoringConfigInvalid, code: response.CodeBadRequest, key: "error.scoring_config_invalid"},
	{target: service.ErrNoteInvalid, code: response.CodeBadRequest, key: "error.note_invalid"},
	{target: service.ErrViewInvalid, code: response.CodeBadRequest, key: "error.view_invalid"},
	{target: service.ErrReconcileItemsEmpty, code: response.CodeBadRequest, key: "error.fulfillment_invalid"},
	{target: service.ErrFulfillmentNotFound, code: response.CodeNotFound, key: "error.fulfillment_not_found"},
	{target: service.ErrNoteNotFound, code: response.CodeNotFound, key: "error.note_not_found"},
	{target: service.ErrScoringConfigNotFound, code: response.CodeNotFound, key: "error.scoring_config_not_found"},
	{target: service.ErrBusinessNotFound, code: response.CodeNotFound, key: "error.business_not_found"},
	{target: service.ErrSlotBusy, code: response.CodeConflict, key: "error.slot_busy"},
	{target: service.ErrEvidenceLocked, code: response.CodeLocked, key: "error.evidence_locked"},
	{target: service.ErrEvidenceUnverifiable, code: response.CodeUnavailable, key: "error.evidence_unverifiable"},
	{target: service.ErrQueueUnavailable, code: response.CodeUnavailable, key: "error.queue_unavailable"},
	{target: service.ErrFulfillmentStoreFailed, code: response.CodeInternal, key: "error.fulfillment_store_failed"},
}

// RespondServiceError 将业务错误映射为响应码与国际化消息
func RespondServiceError(c *gin.Context, err error) {
	var conflict *service.ShiftConflictError
	if errors.As(err, &conflict) {
		locale := i18n.ResolveLocale(c)
		msg := i18n.Sprintf(locale, "error.shift_conflict", constants.ShiftTypeName(conflict.HeldShiftType))
		RequestLog(c).Warnw("handler_shift_conflict",
			"worker", conflict.Worker,
			"held_shift_type", conflict.HeldShiftType,
			"fulfillment_id", conflict.FulfillmentID,
		)
		response.ErrorWithData(c, response.CodeConflict, msg, gin.H{
			"held_shift_type": conflict.HeldShiftType,
			"fulfillment_id":  conflict.FulfillmentID,
		})
		return
	}
	var locked *service.EvidenceLockedError
	if errors.As(err, &locked) {
		locale := i18n.ResolveLocale(c)
		RequestLog(c).Warnw("handler_evidence_locked",
			"fulfillment_id", locked.FulfillmentID,
			"media_count", locked.MediaCount,
		)
		response.ErrorWithData(c, response.CodeLocked, i18n.T(locale, "error.evidence_locked"), gin.H{
			"fulfillment_id": locked.FulfillmentID,
			"media_count":    locked.MediaCount,
		})
		return
	}
	for _, mapping := range serviceErrorMappings {
		if errors.Is(err, mapping.target) {
			RespondError(c, mapping.code, mapping.key, err)
			return
		}
	}
	RespondError(c, response.CodeInternal, "error.internal", err)
}
