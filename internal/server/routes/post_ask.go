package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/corvid-labs/magpie/internal/server/middleware"
)

// AskQuestionHandler dispatches a natural-language question through the
// reasoning engine's pattern rules.
func AskQuestionHandler(c echo.Context) error {
	type askQuestionBody struct {
		Question string `json:"question" validate:"required"`
	}

	data := new(askQuestionBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	return c.JSON(http.StatusOK, app.Engine.AnswerQuestion(data.Question))
}
