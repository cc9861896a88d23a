package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"labmark/internal/aiextract"
	"labmark/internal/export"
	"labmark/internal/service"
)

// DraftHandler handles extraction draft endpoints.
type DraftHandler struct {
	extractionService service.ExtractionService
}

// NewDraftHandler creates a new DraftHandler.
func NewDraftHandler(extractionService service.ExtractionService) *DraftHandler {
	return &DraftHandler{extractionService: extractionService}
}

// Extract handles POST /api/v1/files/:id/extract
// A rate-limited AI pass still returns the fallback draft; the retry hint is
// exposed through the Retry-After header.
func (h *DraftHandler) Extract(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file id")
		return
	}

	draft, err := h.extractionService.ExtractFromFile(c.Request.Context(), userID, fileID)
	if err != nil {
		var rl *aiextract.RateLimitError
		if errors.As(err, &rl) && draft != nil {
			c.Header("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())))
			RespondCreated(c, draft)
			return
		}
		HandleError(c, err)
		return
	}

	RespondCreated(c, draft)
}

// List handles GET /api/v1/drafts
func (h *DraftHandler) List(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := pagination(c)
	drafts, total, err := h.extractionService.ListDrafts(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, drafts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ListByFile handles GET /api/v1/files/:id/drafts
func (h *DraftHandler) ListByFile(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file id")
		return
	}

	drafts, err := h.extractionService.ListDraftsByFile(c.Request.Context(), userID, fileID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, drafts)
}

// Get handles GET /api/v1/drafts/:id
func (h *DraftHandler) Get(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid draft id")
		return
	}

	draft, err := h.extractionService.GetDraft(c.Request.Context(), userID, draftID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, draft)
}

// Diff handles GET /api/v1/drafts/:id/diff/:otherId
func (h *DraftHandler) Diff(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	localID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid draft id")
		return
	}
	aiID, err := uuid.Parse(c.Param("otherId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid draft id")
		return
	}

	summary, err := h.extractionService.DiffDrafts(c.Request.Context(), userID, localID, aiID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, summary)
}

// Export handles GET /api/v1/drafts/:id/export?format=csv|xlsx
func (h *DraftHandler) Export(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	draftID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid draft id")
		return
	}

	draft, err := h.extractionService.GetDraft(c.Request.Context(), userID, draftID)
	if err != nil {
		HandleError(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		var buf bytes.Buffer
		buf.Write(export.BOM)
		w := export.NewWriter(&buf)
		if err := w.WriteHeader(); err == nil {
			err = w.WriteDraft(draft)
		}
		w.Flush()
		if err == nil {
			err = w.Error()
		}
		if err != nil {
			HandleError(c, err)
			return
		}
		filename := export.BuildFilename(draft.SourceFileName, draft.TestDate, "csv")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, draft); err != nil {
			HandleError(c, err)
			return
		}
		filename := export.BuildFilename(draft.SourceFileName, draft.TestDate, "xlsx")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
	}
}
