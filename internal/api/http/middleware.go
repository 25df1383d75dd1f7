package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/delivery-issue-api/internal/api/dto"
	"github.com/spec-kit/delivery-issue-api/internal/observability"
	apperrors "github.com/spec-kit/delivery-issue-api/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The request logger runs outermost so it observes the status written by the
// error handler.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
			if err != nil {
				status, body, code := renderError(err)
				metrics.RecordError(c.Route().Path, c.Method(), code)
				if status >= fiber.StatusInternalServerError {
					logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
				}
				c.Status(status)
				_ = c.JSON(body)
				err = nil
			}
		}()
		return c.Next()
	}
}

func renderError(err error) (int, dto.ErrorResponse, string) {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code, dto.ErrorResponse{Error: fiberErr.Message}, fmt.Sprintf("HTTP_%d", fiberErr.Code)
	}
	domainErr := apperrors.ToDomainError(err)
	return domainErr.HTTPStatus, dto.ErrorResponse{Error: domainErr.Message, Details: domainErr.Details}, domainErr.Code
}
