package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core"
)

type readingApi struct {
	s *Server
}

func registerReadingAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := readingApi{s: s}
	student := roleMiddleware(RoleStudent)

	g.GET("/books", api.books, jwt, student)
	g.POST("/books/:book/open", api.openBook, jwt, student)
	g.GET("/progress", api.progress, jwt, student)

	sg := g.Group("/session", jwt, student)
	sg.GET("", api.view)
	sg.PUT("/unit", api.loadUnit)
	sg.POST("/vocabulary/:index", api.revealWord)
	sg.PUT("/answers", api.selectAnswer)
	sg.POST("/submit", api.submit)
}

func (api *readingApi) books(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	books, err := api.s.deps.Controller.BooksOverview(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing books")
	}
	return ctx.JSON(http.StatusOK, books)
}

func (api *readingApi) openBook(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	view, err := api.s.deps.Controller.OpenBook(ctx.Request().Context(), usr.ID, ctx.Param("book"))
	if err != nil {
		return errors.Wrap(err, "opening book")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *readingApi) view(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	view, err := api.s.deps.Controller.View(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "viewing unit")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *readingApi) loadUnit(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	var data LoadUnitRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoadUnitRequest")
	}
	if err = data.Validate(api.s.deps.Validate); err != nil {
		return err
	}
	view, err := api.s.deps.Controller.LoadUnit(ctx.Request().Context(), usr.ID, data.Unit)
	if err != nil {
		return errors.Wrap(err, "loading unit")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *readingApi) revealWord(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return core.NewFieldError("index", "must be a number")
	}
	rev, err := api.s.deps.Controller.RevealWord(ctx.Request().Context(), usr.ID, index)
	if err != nil {
		return errors.Wrap(err, "revealing word")
	}
	return ctx.JSON(http.StatusOK, rev)
}

func (api *readingApi) selectAnswer(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	var data SelectAnswerRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SelectAnswerRequest")
	}
	if err = data.Validate(api.s.deps.Validate); err != nil {
		return err
	}
	if err = api.s.deps.Controller.SelectAnswer(usr.ID, data.Key, *data.Option); err != nil {
		return errors.Wrap(err, "selecting answer")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *readingApi) submit(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	out, err := api.s.deps.Controller.Submit(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "submitting exercises")
	}
	return ctx.JSON(http.StatusOK, out)
}

func (api *readingApi) progress(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	sum, err := api.s.deps.Tracker.Summary(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "summarizing progress")
	}
	return ctx.JSON(http.StatusOK, sum)
}
