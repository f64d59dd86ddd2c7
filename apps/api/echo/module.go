package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/KLubina/Modul-335/core"
	"github.com/KLubina/Modul-335/core/module"
)

type (
	moduleApi struct {
		svc       *module.Service
		validator *module.Validator
		stop      <-chan struct{} // closed on server shutdown
	}

	ModuleResponse struct {
		Number       string   `json:"module_number"`
		Title        string   `json:"module_title"`
		ZPNote       *float64 `json:"zp_note"`
		LBNote       *float64 `json:"lb_note"`
		AverageGrade *float64 `json:"average_grade"`
		HasAllGrades bool     `json:"has_all_grades"`
	}
)

func NewModuleResponse(m module.Module) ModuleResponse {
	return ModuleResponse{
		Number:       m.Number,
		Title:        m.Title,
		ZPNote:       m.ZPNote,
		LBNote:       m.LBNote,
		AverageGrade: m.AverageGrade(),
		HasAllGrades: m.HasAllGrades(),
	}
}

func NewModuleListResponse(mods []module.Module) []ModuleResponse {
	res := make([]ModuleResponse, 0, len(mods))
	for _, m := range mods {
		res = append(res, NewModuleResponse(m))
	}
	return res
}

func registerModuleAPI(g *echo.Group, svc *module.Service, validator *module.Validator, stop <-chan struct{}) {
	api := moduleApi{
		svc:       svc,
		validator: validator,
		stop:      stop,
	}

	mg := g.Group("/modules")
	mg.GET("", api.query)
	mg.POST("", api.create)
	mg.GET("/stream", api.stream)
	mg.POST("/validate", api.validate)

	// detail endpoints
	dg := mg.Group("/:number")
	dg.GET("", api.retrieve)
	dg.GET("/stream", api.streamOne)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// Handlers

func (api *moduleApi) query(ctx echo.Context) error {
	mods, err := api.svc.List(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying modules")
	}
	return ctx.JSON(http.StatusOK, NewModuleListResponse(mods))
}

func (api *moduleApi) retrieve(ctx echo.Context) error {
	mod, err := api.svc.Get(ctx.Request().Context(), ctx.Param("number"))
	if err != nil {
		return errors.Wrap(err, "retrieving module")
	}
	return ctx.JSON(http.StatusOK, NewModuleResponse(mod))
}

func (api *moduleApi) create(ctx echo.Context) error {
	mod, err := api.bindModule(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Insert(mod); err != nil {
		return errors.Wrap(err, "inserting module")
	}
	return ctx.JSON(http.StatusAccepted, NewModuleResponse(mod))
}

func (api *moduleApi) update(ctx echo.Context) error {
	mod, err := api.bindModule(ctx, ctx.Param("number"))
	if err != nil {
		return err
	}
	if err = api.svc.Update(mod); err != nil {
		return errors.Wrap(err, "updating module")
	}
	return ctx.JSON(http.StatusAccepted, NewModuleResponse(mod))
}

func (api *moduleApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(module.Module{Number: core.CleanString(ctx.Param("number"))}); err != nil {
		return errors.Wrap(err, "deleting module")
	}
	return ctx.NoContent(http.StatusAccepted)
}

func (api *moduleApi) validate(ctx echo.Context) error {
	var data module.Form
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to module.Form")
	}
	if err := api.validator.ValidateForm(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{})
}

func (api *moduleApi) stream(ctx echo.Context) error {
	state := module.NewListState(ctx.Request().Context(), api.svc, api.validator)
	defer state.Close()

	if err := streamEvents(ctx, api.stop, "modules", state.AllModules(), NewModuleListResponse); err != nil {
		return err
	}
	return errors.Wrap(state.Err(), "streaming modules")
}

func (api *moduleApi) streamOne(ctx echo.Context) error {
	sub := api.svc.QueryByNumber(ctx.Request().Context(), ctx.Param("number"))
	defer sub.Close()

	render := func(m *module.Module) *ModuleResponse {
		if m == nil {
			return nil
		}
		res := NewModuleResponse(*m)
		return &res
	}
	if err := streamEvents(ctx, api.stop, "module", sub.C(), render); err != nil {
		return err
	}
	return errors.Wrap(sub.Err(), "streaming module")
}

// bindModule binds and validates the request's form. number, if given, overrides the body's.
func (api *moduleApi) bindModule(ctx echo.Context, number ...string) (module.Module, error) {
	var data module.Form
	if err := ctx.Bind(&data); err != nil {
		return module.Module{}, errors.Wrap(err, "binding to module.Form")
	}
	if len(number) > 0 {
		data.Number = number[0]
	}
	if err := api.validator.ValidateForm(data); err != nil {
		return module.Module{}, err
	}
	return data.Module()
}
