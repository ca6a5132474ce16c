package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/mom-generator/errors"
	"github.com/johnquangdev/mom-generator/internal/domain/entities"
	usecaseErrors "github.com/johnquangdev/mom-generator/internal/usecase/errors"
	"github.com/johnquangdev/mom-generator/pkg/validator"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request or the response
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleStatus(logger, c, http.StatusOK, data)
}

// HandleStatus writes a standardized success response with a custom status
func HandleStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		if logger != nil {
			logger.Error("http.response.error",
				zap.String("request_id", reqID),
				zap.String("path", c.Path()),
				zap.Any("app_code", appErr.Code),
				zap.Error(err),
			)
		}

		info := ""
		if appErr.Raw != nil {
			info = appErr.Raw.Error()
		}

		body := errs{
			Code:    appErr.Code,
			Message: appErr.Message,
			Info:    info,
			Details: appErr.Details,
		}

		return c.JSON(appErr.HTTPCode, body)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    errors.ErrorCode_INTERNAL,
		Message: "Internal server error",
		Info:    err.Error(),
	}

	return c.JSON(http.StatusInternalServerError, body)
}

// bindAndValidate binds the request body and runs the echo validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload().WithDetail("reason", err.Error())
	}
	if err := c.Validate(req); err != nil {
		fields, messages := validator.FieldErrors(err)
		return errors.ErrValidation(fields, messages)
	}
	return nil
}

// indexParam parses a non-negative path index
func indexParam(c echo.Context, name string) (int, error) {
	i, err := strconv.Atoi(c.Param(name))
	if err != nil || i < 0 {
		return 0, errors.ErrInvalidArgument(name + " must be a non-negative integer")
	}
	return i, nil
}

// toAppError maps usecase and domain errors to application errors
func toAppError(c echo.Context, err error) error {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var verr *entities.ValidationError
	if stdErrors.As(err, &verr) {
		return errors.ErrValidation(verr.Fields, verr.Messages)
	}

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrSessionNotFound):
		return errors.ErrSessionNotFound(c.Param("sid"))
	case stdErrors.Is(err, entities.ErrDocumentNotFound):
		return errors.ErrMomNotFound(c.Param("id"))
	case stdErrors.Is(err, entities.ErrProjectNotFound):
		return errors.ErrNotFound("project")
	case stdErrors.Is(err, usecaseErrors.ErrNotEditable),
		stdErrors.Is(err, usecaseErrors.ErrNotGenerated),
		stdErrors.Is(err, entities.ErrInvalidState):
		return errors.ErrInvalidState(err)
	case stdErrors.Is(err, usecaseErrors.ErrNothingToSave):
		return errors.ErrNothingToSave()
	case stdErrors.Is(err, usecaseErrors.ErrSaveFailed):
		return errors.ErrSaveFailed(err)
	case stdErrors.Is(err, usecaseErrors.ErrNotSaved):
		return errors.ErrNotSaved()
	case stdErrors.Is(err, usecaseErrors.ErrNoConversion):
		return errors.ErrConversionNotStarted()
	case stdErrors.Is(err, usecaseErrors.ErrEmptySelection):
		return errors.ErrEmptySelection()
	case stdErrors.Is(err, entities.ErrIndexOutOfRange):
		return errors.ErrIndexOutOfRange(err)
	case stdErrors.Is(err, usecaseErrors.ErrInvalidPriority),
		stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrTranscriptionDisabled):
		return errors.ErrTranscriptionDisabled()
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, usecaseErrors.ErrForbidden):
		return errors.ErrForbidden(err.Error())
	default:
		return errors.ErrInternal(err)
	}
}
