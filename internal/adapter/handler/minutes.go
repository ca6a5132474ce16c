package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appErrors "github.com/johnquangdev/mom-generator/errors"
	"github.com/johnquangdev/mom-generator/internal/adapter/dto/common"
	"github.com/johnquangdev/mom-generator/internal/adapter/dto/minutes"
	"github.com/johnquangdev/mom-generator/internal/adapter/presenter"
	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	"github.com/johnquangdev/mom-generator/internal/usecase/conversion"
	usecaseErrors "github.com/johnquangdev/mom-generator/internal/usecase/errors"
	minutesUsecase "github.com/johnquangdev/mom-generator/internal/usecase/minutes"
	"github.com/johnquangdev/mom-generator/internal/usecase/render"
	"github.com/johnquangdev/mom-generator/pkg/opcontext"
)

// MinutesService is the minutes use case consumed by the handler
type MinutesService interface {
	Open(ctx context.Context) minutesUsecase.State
	Get(id string) (minutesUsecase.State, error)
	Close(id string)
	UpdateInput(ctx context.Context, id string, in minutesUsecase.Input) (minutesUsecase.State, error)
	Generate(ctx context.Context, id string) (minutesUsecase.State, error)
	EditInputs(id string) (minutesUsecase.State, error)
	UpdateDiscussion(id string, i int, p minutesUsecase.DiscussionPatch) (minutesUsecase.State, error)
	UpdateActionItem(id string, i int, p minutesUsecase.ActionItemPatch) (minutesUsecase.State, error)
	AddComment(ctx context.Context, id string, text string) (minutesUsecase.State, error)
	Save(ctx context.Context, id string) (minutesUsecase.SaveResult, error)
	Document(id string) (*render.Document, error)
	View(id string) (render.EditableView, error)
	Export(id string) ([]byte, string, error)
	Share(id string) (string, error)
	BeginConversion(ctx context.Context, id string) (minutesUsecase.ConversionState, error)
	SetOverride(id string, i int, p conversion.OverridePatch) (minutesUsecase.ConversionState, error)
	ApplyBatch(id string, indices []int, p conversion.OverridePatch) (minutesUsecase.ConversionState, error)
	CommitConversion(ctx context.Context, id string, selected []int) (conversion.CommitResult, minutesUsecase.State, error)
	CancelConversion(id string) error
	Reopen(ctx context.Context, documentID string) (minutesUsecase.State, error)
	Activities(ctx context.Context, documentID string) ([]*entities.AuditEntry, error)
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// Printer lays a document out as printable text
type Printer interface {
	String(doc *render.Document) string
	ContentType() string
}

// MinutesConfig tunes the handler
type MinutesConfig struct {
	// Reported to clients that generate too often
	GenerateCooldown time.Duration
	// Upper bound of a save, including retries and upload
	SaveTimeout time.Duration
	// Upper bound of a generation backend call
	GenerateTimeout time.Duration
}

// Minutes handles minutes-related HTTP requests
type Minutes struct {
	svc     MinutesService
	printer Printer
	cfg     MinutesConfig
	logger  *zap.Logger
}

// NewMinutesHandler creates a new minutes handler
func NewMinutesHandler(svc MinutesService, printer Printer, cfg MinutesConfig, logger *zap.Logger) *Minutes {
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 2 * time.Minute
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = time.Minute
	}
	return &Minutes{
		svc:     svc,
		printer: printer,
		cfg:     cfg,
		logger:  logger,
	}
}

func (h *Minutes) ok(c echo.Context, data interface{}) error {
	return HandleSuccess(h.logger, c, data)
}

func (h *Minutes) fail(c echo.Context, err error) error {
	if errors.Is(err, usecaseErrors.ErrRateLimited) {
		return HandleError(h.logger, c, appErrors.ErrRateLimited(h.cfg.GenerateCooldown))
	}
	return HandleError(h.logger, c, toAppError(c, err))
}

func (h *Minutes) session(c echo.Context, s minutesUsecase.State, err error) error {
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, presenter.ToSessionResponse(s))
}

// OpenSession handles POST /minutes/sessions
// @Summary      Open a minutes session
// @Description  Starts an empty record in the editing state
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  minutes.SessionResponse
// @Failure      401  {object}  map[string]interface{}  "User not authenticated"
// @Router       /minutes/sessions [post]
func (h *Minutes) OpenSession(c echo.Context) error {
	state := h.svc.Open(c.Request().Context())
	return HandleStatus(h.logger, c, http.StatusCreated, presenter.ToSessionResponse(state))
}

// GetSession handles GET /minutes/sessions/:sid
// @Summary      Get session state
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  minutes.SessionResponse
// @Failure      404  {object}  map[string]interface{}  "Session not found"
// @Router       /minutes/sessions/{sid} [get]
func (h *Minutes) GetSession(c echo.Context) error {
	s, err := h.svc.Get(c.Param("sid"))
	return h.session(c, s, err)
}

// CloseSession handles DELETE /minutes/sessions/:sid
// @Summary      Close a session
// @Tags         Minutes
// @Security     BearerAuth
// @Param        sid  path  string  true  "Session ID"
// @Success      204
// @Router       /minutes/sessions/{sid} [delete]
func (h *Minutes) CloseSession(c echo.Context) error {
	h.svc.Close(c.Param("sid"))
	return c.NoContent(http.StatusNoContent)
}

// UpdateInput handles PUT /minutes/sessions/:sid/input
// @Summary      Replace meeting details and raw notes
// @Description  Only allowed while the record is being edited
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sid      path      string                      true  "Session ID"
// @Param        request  body      minutes.UpdateInputRequest  true  "Meeting input"
// @Success      200      {object}  minutes.SessionResponse
// @Failure      400      {object}  map[string]interface{}  "Validation failed"
// @Failure      409      {object}  map[string]interface{}  "Inputs are frozen"
// @Router       /minutes/sessions/{sid}/input [put]
func (h *Minutes) UpdateInput(c echo.Context) error {
	var req minutes.UpdateInputRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	s, err := h.svc.UpdateInput(c.Request().Context(), c.Param("sid"), presenter.ToInput(req))
	return h.session(c, s, err)
}

// Generate handles POST /minutes/sessions/:sid/generate
// @Summary      Generate structured minutes
// @Description  Structures the raw notes. Backend failures fall back to the rule engine and are reported in notice.
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  minutes.SessionResponse
// @Failure      400  {object}  map[string]interface{}  "Required fields missing"
// @Failure      429  {object}  map[string]interface{}  "Generated too recently"
// @Router       /minutes/sessions/{sid}/generate [post]
func (h *Minutes) Generate(c echo.Context) error {
	ctx, cancel := opcontext.Begin(c.Request().Context(), "minutes.generate", h.cfg.GenerateTimeout)
	defer cancel()

	s, err := h.svc.Generate(ctx, c.Param("sid"))
	return h.session(c, s, err)
}

// EditInputs handles POST /minutes/sessions/:sid/edit
// @Summary      Return to editing the raw notes
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  minutes.SessionResponse
// @Router       /minutes/sessions/{sid}/edit [post]
func (h *Minutes) EditInputs(c echo.Context) error {
	s, err := h.svc.EditInputs(c.Param("sid"))
	return h.session(c, s, err)
}

// UpdateDiscussion handles PATCH /minutes/sessions/:sid/discussions/:idx
// @Summary      Correct a generated discussion
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sid      path      string                           true  "Session ID"
// @Param        idx      path      int                              true  "Discussion index"
// @Param        request  body      minutes.UpdateDiscussionRequest  true  "Changed fields"
// @Success      200      {object}  minutes.SessionResponse
// @Router       /minutes/sessions/{sid}/discussions/{idx} [patch]
func (h *Minutes) UpdateDiscussion(c echo.Context) error {
	idx, err := indexParam(c, "idx")
	if err != nil {
		return h.fail(c, err)
	}
	var req minutes.UpdateDiscussionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	s, err := h.svc.UpdateDiscussion(c.Param("sid"), idx, minutesUsecase.DiscussionPatch{
		Topic:  req.Topic,
		Markup: req.Notes,
	})
	return h.session(c, s, err)
}

// UpdateActionItem handles PATCH /minutes/sessions/:sid/action-items/:idx
// @Summary      Correct a generated action item
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sid      path      string                           true  "Session ID"
// @Param        idx      path      int                              true  "Action item index"
// @Param        request  body      minutes.UpdateActionItemRequest  true  "Changed fields"
// @Success      200      {object}  minutes.SessionResponse
// @Router       /minutes/sessions/{sid}/action-items/{idx} [patch]
func (h *Minutes) UpdateActionItem(c echo.Context) error {
	idx, err := indexParam(c, "idx")
	if err != nil {
		return h.fail(c, err)
	}
	var req minutes.UpdateActionItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	s, err := h.svc.UpdateActionItem(c.Param("sid"), idx, minutesUsecase.ActionItemPatch{
		Task:                req.Task,
		ResponsiblePerson:   req.ResponsiblePerson,
		ResponsiblePersonID: req.ResponsiblePersonID,
		Deadline:            req.Deadline,
	})
	return h.session(c, s, err)
}

// AddComment handles POST /minutes/sessions/:sid/comments
// @Summary      Add a comment
// @Tags         Minutes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sid      path      string                     true  "Session ID"
// @Param        request  body      minutes.AddCommentRequest  true  "Comment"
// @Success      200      {object}  minutes.SessionResponse
// @Router       /minutes/sessions/{sid}/comments [post]
func (h *Minutes) AddComment(c echo.Context) error {
	var req minutes.AddCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	s, err := h.svc.AddComment(c.Request().Context(), c.Param("sid"), req.Text)
	return h.session(c, s, err)
}

// Save handles POST /minutes/sessions/:sid/save
// @Summary      Save the minutes
// @Description  Allocates the MoM number on first save, exports the PDF and records the change set
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  minutes.SaveResponse
// @Failure      409  {object}  map[string]interface{}  "Nothing to save"
// @Failure      500  {object}  map[string]interface{}  "Save failed"
// @Router       /minutes/sessions/{sid}/save [post]
func (h *Minutes) Save(c echo.Context) error {
	ctx, cancel := opcontext.Begin(c.Request().Context(), "minutes.save", h.cfg.SaveTimeout)
	defer cancel()

	result, err := h.svc.Save(ctx, c.Param("sid"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, presenter.ToSaveResponse(result))
}

// View handles GET /minutes/sessions/:sid/view
// @Summary      Editable document view
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  render.EditableView
// @Router       /minutes/sessions/{sid}/view [get]
func (h *Minutes) View(c echo.Context) error {
	view, err := h.svc.View(c.Param("sid"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, view)
}

// ExportPDF handles GET /minutes/sessions/:sid/export.pdf
// @Summary      Download the minutes as PDF
// @Tags         Minutes
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        sid  path  string  true  "Session ID"
// @Success      200  {file}  binary
// @Router       /minutes/sessions/{sid}/export.pdf [get]
func (h *Minutes) ExportPDF(c echo.Context) error {
	sid := c.Param("sid")
	data, contentType, err := h.svc.Export(sid)
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrSessionNotFound) || errors.Is(err, usecaseErrors.ErrNotGenerated) {
			return h.fail(c, err)
		}
		return h.fail(c, appErrors.ErrExportFailed("pdf", err))
	}

	name := "minutes.pdf"
	if s, err := h.svc.Get(sid); err == nil {
		if id := s.Record.IdentifierOrEmpty(); id != "" {
			_, name = minutesUsecase.ExportPath(id, s.Record.Meta.ProjectName, s.Record.Meta.Date)
		}
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))

	h.logger.Info("http.response.success",
		zap.String("request_id", getRequestID(c)),
		zap.String("path", c.Path()),
		zap.Int("bytes", len(data)),
	)
	return c.Blob(http.StatusOK, contentType, data)
}

// Print handles GET /minutes/sessions/:sid/print
// @Summary      Printable text layout
// @Tags         Minutes
// @Produce      plain
// @Security     BearerAuth
// @Param        sid  path  string  true  "Session ID"
// @Success      200  {string}  string
// @Router       /minutes/sessions/{sid}/print [get]
func (h *Minutes) Print(c echo.Context) error {
	doc, err := h.svc.Document(c.Param("sid"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Blob(http.StatusOK, h.printer.ContentType(), []byte(h.printer.String(doc)))
}

// Share handles GET /minutes/sessions/:sid/share
// @Summary      Plain text summary for e-mail or chat
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  minutes.ShareResponse
// @Router       /minutes/sessions/{sid}/share [get]
func (h *Minutes) Share(c echo.Context) error {
	text, err := h.svc.Share(c.Param("sid"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, minutes.ShareResponse{Text: text})
}

// BeginConversion handles POST /minutes/sessions/:sid/conversion
// @Summary      Start converting action items to tasks
// @Tags         Conversion
// @Produce      json
// @Security     BearerAuth
// @Param        sid  path      string  true  "Session ID"
// @Success      200  {object}  minutes.ConversionResponse
// @Failure      409  {object}  map[string]interface{}  "Minutes not saved"
// @Router       /minutes/sessions/{sid}/conversion [post]
func (h *Minutes) BeginConversion(c echo.Context) error {
	state, err := h.svc.BeginConversion(c.Request().Context(), c.Param("sid"))
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, presenter.ToConversionResponse(state))
}

// SetOverride handles PUT /minutes/sessions/:sid/conversion/overrides/:idx
// @Summary      Change the task fields of one action item
// @Tags         Conversion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sid      path      string                   true  "Session ID"
// @Param        idx      path      int                      true  "Action item index"
// @Param        request  body      minutes.OverrideRequest  true  "Override"
// @Success      200      {object}  minutes.ConversionResponse
// @Router       /minutes/sessions/{sid}/conversion/overrides/{idx} [put]
func (h *Minutes) SetOverride(c echo.Context) error {
	idx, err := indexParam(c, "idx")
	if err != nil {
		return h.fail(c, err)
	}
	var req minutes.OverrideRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	state, err := h.svc.SetOverride(c.Param("sid"), idx, presenter.ToOverridePatch(req))
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, presenter.ToConversionResponse(state))
}

// ApplyBatch handles POST /minutes/sessions/:sid/conversion/batch
// @Summary      Apply one override to several action items
// @Tags         Conversion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sid      path      string                        true  "Session ID"
// @Param        request  body      minutes.BatchOverrideRequest  true  "Batch override"
// @Success      200      {object}  minutes.ConversionResponse
// @Router       /minutes/sessions/{sid}/conversion/batch [post]
func (h *Minutes) ApplyBatch(c echo.Context) error {
	var req minutes.BatchOverrideRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}
	state, err := h.svc.ApplyBatch(c.Param("sid"), req.Indices, presenter.ToOverridePatch(req.Override))
	if err != nil {
		return h.fail(c, err)
	}
	return h.ok(c, presenter.ToConversionResponse(state))
}

// CommitConversion handles POST /minutes/sessions/:sid/conversion/commit
// @Summary      Create tasks for the selected action items
// @Description  Responds 207 when some items failed; created tasks are kept
// @Tags         Conversion
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sid      path      string                           true  "Session ID"
// @Param        request  body      minutes.CommitConversionRequest  true  "Selected indices"
// @Success      200      {object}  minutes.CommitResponse
// @Success      207      {object}  minutes.CommitResponse
// @Router       /minutes/sessions/{sid}/conversion/commit [post]
func (h *Minutes) CommitConversion(c echo.Context) error {
	var req minutes.CommitConversionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return h.fail(c, err)
	}

	ctx, cancel := opcontext.Begin(c.Request().Context(), "minutes.convert", h.cfg.SaveTimeout)
	defer cancel()

	result, state, err := h.svc.CommitConversion(ctx, c.Param("sid"), req.Selected)
	if err != nil {
		return h.fail(c, err)
	}

	status := http.StatusOK
	if result.Failed > 0 {
		status = http.StatusMultiStatus
	}
	return HandleStatus(h.logger, c, status, presenter.ToCommitResponse(result, state))
}

// CancelConversion handles DELETE /minutes/sessions/:sid/conversion
// @Summary      Drop the conversion in progress
// @Tags         Conversion
// @Security     BearerAuth
// @Param        sid  path  string  true  "Session ID"
// @Success      204
// @Router       /minutes/sessions/{sid}/conversion [delete]
func (h *Minutes) CancelConversion(c echo.Context) error {
	if err := h.svc.CancelConversion(c.Param("sid")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Reopen handles POST /minutes/documents/:id/reopen
// @Summary      Open a saved document for editing
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "MoM number"
// @Success      201  {object}  minutes.SessionResponse
// @Failure      404  {object}  map[string]interface{}  "Document not found"
// @Router       /minutes/documents/{id}/reopen [post]
func (h *Minutes) Reopen(c echo.Context) error {
	s, err := h.svc.Reopen(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return HandleStatus(h.logger, c, http.StatusCreated, presenter.ToSessionResponse(s))
}

// Activities handles GET /minutes/documents/:id/activities
// @Summary      Audit trail of a document
// @Tags         Minutes
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string  true   "MoM number"
// @Param        page       query     int     false  "Page, starting at 1"
// @Param        page_size  query     int     false  "Entries per page"
// @Success      200        {object}  common.ListResponse{data=[]minutes.ActivityResponse}
// @Router       /minutes/documents/{id}/activities [get]
func (h *Minutes) Activities(c echo.Context) error {
	var page common.PaginationRequest
	if err := bindAndValidate(c, &page); err != nil {
		return h.fail(c, err)
	}

	entries, err := h.svc.Activities(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}

	activities := presenter.ToActivityResponses(entries)
	start, end, meta := page.Window(len(activities))
	return h.ok(c, common.ListResponse{Data: activities[start:end], Pagination: meta})
}

// Transcribe handles POST /minutes/transcribe
// @Summary      Transcribe a voice note
// @Tags         Minutes
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        audio  formData  file  true  "Recorded voice note"
// @Success      200    {object}  minutes.TranscriptionResponse
// @Failure      502    {object}  map[string]interface{}  "Transcription failed"
// @Failure      503    {object}  map[string]interface{}  "Transcription not configured"
// @Router       /minutes/transcribe [post]
func (h *Minutes) Transcribe(c echo.Context) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return h.fail(c, appErrors.ErrInvalidArgument("audio file is required"))
	}
	f, err := fh.Open()
	if err != nil {
		return h.fail(c, appErrors.ErrInvalidPayload().WithDetail("reason", err.Error()))
	}
	defer f.Close()

	text, err := h.svc.Transcribe(c.Request().Context(), f)
	if err != nil {
		if errors.Is(err, usecaseErrors.ErrTranscriptionDisabled) {
			return h.fail(c, err)
		}
		return h.fail(c, appErrors.ErrTranscriptionFailed(err))
	}
	return h.ok(c, minutes.TranscriptionResponse{Text: text})
}
