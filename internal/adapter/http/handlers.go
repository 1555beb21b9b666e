package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// Register wires every route. createMW wraps only debt creation, where a
// retried request would otherwise add a second debt.
func Register(e *echo.Echo, h *Handler, d *DebtHandler, createMW ...echo.MiddlewareFunc) {
	e.Validator = NewValidator()

	e.GET("/health", h.Health)

	e.GET("/debts", d.ListDebts)
	e.POST("/debts", d.CreateDebt, createMW...)
	e.GET("/debts/:id", d.GetDebt)
	e.PUT("/debts/:id", d.UpdateDebt)
	e.DELETE("/debts/:id", d.DeleteDebt)
	e.GET("/debts/:id/draft", d.EditDraft)
	e.POST("/debts/:id/installments/:index", d.ToggleInstallment)

	e.GET("/drafts/new", d.NewDraft)
	e.POST("/drafts/validate", d.ValidateDraft)
}
