package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core/student"
)

type studentApi struct {
	s *Server
	// nowFunc is mockable in tests
	nowFunc func() time.Time
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := studentApi{s: s, nowFunc: time.Now}

	sg := g.Group("/students")
	sg.POST("/login", api.login)

	ag := sg.Group("", jwt, roleMiddleware(RoleStudent))
	ag.POST("/logout", api.logout)
	ag.GET("/me", api.me)
}

func (api *studentApi) login(ctx echo.Context) error {
	var data student.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}

	rctx := ctx.Request().Context()
	known, err := api.s.deps.Tracker.Groups(rctx)
	if err != nil {
		return errors.Wrap(err, "querying groups")
	}
	usr := student.NewSession(data, student.NormalizeGroup(data.GroupName(), known), api.nowFunc())

	if _, err = api.s.deps.Controller.Start(rctx, usr); err != nil {
		return errors.Wrap(err, "starting session")
	}
	token, err := api.s.jwt.GenerateToken(api.s.jwt.StudentClaims(usr))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	api.s.deps.Logger.Info("student logged in", usr)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *studentApi) logout(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	api.s.deps.Controller.End(usr.ID)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) me(ctx echo.Context) error {
	usr, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"user":    usr,
		"initial": usr.Initial(),
		"active":  api.s.deps.Controller.Active(usr.ID),
	})
}
