package http

import (
	"net/http"
	"strconv"

	domain "cuotas-backend/internal/domain/debt"
	uc "cuotas-backend/internal/usecase/debt"

	"github.com/labstack/echo/v4"
)

type DebtHandler struct{ store *uc.Store }

func NewDebtHandler(s *uc.Store) *DebtHandler { return &DebtHandler{store: s} }

type validateDraftReq struct {
	Draft   domain.Draft  `json:"draft"   validate:"-"`
	Initial *domain.Draft `json:"initial" validate:"-"`
	Touched []string      `json:"touched" validate:"dive,draftfield"`
}

type draftResp struct {
	Draft   domain.Draft            `json:"draft"`
	Errors  map[domain.Field]string `json:"errors"`
	Visible map[domain.Field]string `json:"visible"`
	CanSave bool                    `json:"can_save"`
	Dirty   *bool                   `json:"dirty,omitempty"`
}

type toggleReq struct {
	ID    string `param:"id"    validate:"required"`
	Index string `param:"index" validate:"required,number"`
}

func newDraftResp(d domain.Draft, touched domain.Touched) draftResp {
	v := domain.Validate(d)
	return draftResp{Draft: d, Errors: v.Errors, Visible: v.Visible(touched), CanSave: v.CanSave}
}

func (h *DebtHandler) ListDebts(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.List())
}

func (h *DebtHandler) GetDebt(c echo.Context) error {
	dto, err := h.store.Get(c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// NewDraft starts a create session.
func (h *DebtHandler) NewDraft(c echo.Context) error {
	return c.JSON(http.StatusOK, newDraftResp(domain.NewDraft(), nil))
}

// EditDraft starts an edit session from the stored debt.
func (h *DebtHandler) EditDraft(c echo.Context) error {
	d, err := h.store.Draft(c.Param("id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, newDraftResp(d, nil))
}

// ValidateDraft re-runs validation on every form change; only touched
// fields get their messages in "visible".
func (h *DebtHandler) ValidateDraft(c echo.Context) error {
	var req validateDraftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	resp := newDraftResp(req.Draft, touchedFrom(req.Touched))
	if req.Initial != nil {
		dirty := !req.Draft.Equal(*req.Initial)
		resp.Dirty = &dirty
	}
	return c.JSON(http.StatusOK, resp)
}

// bindDraft treats the request as a save attempt: every field counts as touched.
func bindDraft(c echo.Context) (domain.Fields, bool, error) {
	var d domain.Draft
	if err := c.Bind(&d); err != nil {
		return domain.Fields{}, false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	v := domain.Validate(d)
	if !v.CanSave {
		return domain.Fields{}, false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: DraftFieldErrors(v.Visible(domain.TouchAll())),
		})
	}
	return d.Fields(), true, nil
}

func (h *DebtHandler) CreateDebt(c echo.Context) error {
	f, ok, err := bindDraft(c)
	if !ok {
		return err
	}
	dto, err := h.store.Create(c.Request().Context(), f)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *DebtHandler) UpdateDebt(c echo.Context) error {
	f, ok, err := bindDraft(c)
	if !ok {
		return err
	}
	dto, err := h.store.Update(c.Request().Context(), c.Param("id"), f)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// DeleteDebt answers 204 whether or not the debt existed.
func (h *DebtHandler) DeleteDebt(c echo.Context) error {
	h.store.Remove(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *DebtHandler) ToggleInstallment(c echo.Context) error {
	var req toggleReq
	// path only; a body must not override :id
	if err := (&echo.DefaultBinder{}).BindPathParams(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid path params"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid path params",
			Details: ToFieldErrors(err),
		})
	}
	index, err := strconv.Atoi(req.Index)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid path params"})
	}
	dto, err := h.store.ToggleInstallment(c.Request().Context(), req.ID, index)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
