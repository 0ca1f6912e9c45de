package middleware

import (
	"errors"
	"fmt"

	pkgError "github.com/AzielCF/wap-gatekeeper/pkg/error"
	"github.com/AzielCF/wap-gatekeeper/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Recovery turns a handler panic into the standard JSON envelope. A typed
// error keeps its own status; anything else becomes a 500.
func Recovery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}
			logrus.WithFields(logrus.Fields{
				"method": c.Method(),
				"path":   c.Path(),
			}).Errorf("[REST] Panic recovered: %v", recovered)

			generic := panicError(recovered)
			_ = c.Status(generic.StatusCode()).JSON(utils.ResponseData{
				Status:  generic.StatusCode(),
				Code:    generic.ErrCode(),
				Message: generic.Error(),
			})
		}()

		return c.Next()
	}
}

func panicError(recovered any) pkgError.GenericError {
	err, ok := recovered.(error)
	if !ok {
		return pkgError.InternalServerError(fmt.Sprintf("%v", recovered))
	}
	var generic pkgError.GenericError
	if errors.As(err, &generic) {
		return generic
	}
	return pkgError.InternalServerError(err.Error())
}
