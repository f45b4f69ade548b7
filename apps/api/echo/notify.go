package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core/notify"
)

type notifyApi struct {
	s *Server
}

func registerNotifyAPI(g *echo.Group, s *Server) {
	api := notifyApi{s: s}
	g.Any("/telegram", api.forward)
}

// forward relays a submission to the configured notifier. Its responses keep the shape the web client expects.
func (api *notifyApi) forward(ctx echo.Context) error {
	if ctx.Request().Method != http.MethodPost {
		return ctx.JSON(http.StatusMethodNotAllowed, echo.Map{
			"error":     "Method not allowed",
			"supported": []string{http.MethodPost},
		})
	}

	var sub notify.Submission
	if err := ctx.Bind(&sub); err != nil {
		return errors.Wrap(err, "binding to Submission")
	}
	if err := sub.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	receipt, err := api.s.deps.Forwarder.Notify(ctx.Request().Context(), sub)
	if err != nil {
		switch cause := errors.Cause(err).(type) {
		case *notify.APIError:
			api.s.deps.Logger.Error("telegram API error", "code", cause.Code, "description", cause.Description)
			return ctx.JSON(http.StatusInternalServerError, echo.Map{
				"error":          "Telegram API error",
				"telegram_error": cause.Description,
				"error_code":     cause.Code,
			})
		default:
			if cause == notify.ErrNotConfigured {
				api.s.deps.Logger.Error("telegram is not configured")
				return ctx.JSON(http.StatusInternalServerError, echo.Map{
					"error":   "Telegram not configured",
					"message": "Please set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID environment variables",
				})
			}
			return errors.Wrap(err, "forwarding submission")
		}
	}

	if receipt.Simulated {
		return ctx.JSON(http.StatusOK, echo.Map{
			"success": true,
			"message": "Simulated in development",
			"data":    sub,
		})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":             true,
		"message":             "Notification sent to Telegram",
		"telegram_message_id": receipt.MessageID,
	})
}
