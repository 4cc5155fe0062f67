package middleware

import (
	"errors"

	goerrors "github.com/go-errors/errors"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"teamleopard/internal/pkg/logger"
	"teamleopard/internal/pkg/response"
)

type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
	// Stack is captured for 5xx errors only.
	Stack []byte
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	e := &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
	if statusCode >= 500 {
		if cause != nil {
			e.Stack = goerrors.Wrap(cause, 1).Stack()
		} else {
			e.Stack = goerrors.New(message).Stack()
		}
	}
	return e
}

type ErrorMiddleware struct {
	logger *zap.Logger
}

func NewErrorMiddleware(log *zap.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger.OrNop(log)}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.ByteString("stack", goerrors.Wrap(r, 2).Stack()),
				)
				err = response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= 500 {
			m.logServerError(c, err)
		}
		return response.Error(c, status, msg, data)
	}
}

func (m *ErrorMiddleware) logServerError(c fiber.Ctx, err error) {
	fields := []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("request_id", RequestID(c)),
		zap.Error(err),
	}
	var appErr *AppError
	if errors.As(err, &appErr) && len(appErr.Stack) > 0 {
		fields = append(fields, zap.ByteString("stack", appErr.Stack))
	}
	m.logger.Error("request failed", fields...)
}

func normalizeError(err error) (int, string, interface{}) {
	if err == nil {
		return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.StatusCode <= 0 {
			return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
		}

		status := appErr.StatusCode
		msg := appErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}

		if status >= 500 {
			return status, response.MessageInternalServerError, nil
		}
		return status, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 {
			status = fiber.StatusInternalServerError
		}

		if status >= 500 {
			return status, response.MessageInternalServerError, nil
		}

		msg := fiberErr.Message
		if msg == "" {
			msg = response.DefaultMessage(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, response.MessageInternalServerError, nil
}
