package operator

import (
	handlershared "github.com/cumplido-next/internal/http/handlers/shared"
	"github.com/cumplido-next/internal/http/response"
	"github.com/cumplido-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateNoteRequest 新增备注请求
type CreateNoteRequest struct {
	Body string `json:"body" binding:"required,max=16000"`
}

// ListNotes 获取履职记录备注
func (h *Handler) ListNotes(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.fulfillment_invalid")
	if !ok {
		return
	}
	notes, err := h.NoteService.List(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, notes)
}

// CreateNote 新增备注
func (h *Handler) CreateNote(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.fulfillment_invalid")
	if !ok {
		return
	}
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.note_invalid", err)
		return
	}
	note, err := h.NoteService.Create(c.Request.Context(), service.CreateNoteInput{
		FulfillmentID: id,
		Body:          req.Body,
		Author:        handlershared.OperatorLabel(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, note)
}

// DeleteNote 删除备注
func (h *Handler) DeleteNote(c *gin.Context) {
	id, ok := handlershared.ParseIDParam(c, "id", "error.note_invalid")
	if !ok {
		return
	}
	if err := h.NoteService.Delete(c.Request.Context(), id, handlershared.OperatorLabel(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
