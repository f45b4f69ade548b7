package echoapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core/progress"
	"github.com/trezcool/ielts/core/teacher"
)

type teacherApi struct {
	s *Server
}

func registerTeacherAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *Server) {
	api := teacherApi{s: s}

	// TODO: rate limit `/teacher-auth`
	g.POST("/teacher-auth", api.authenticate)

	tg := g.Group("/teacher", jwt, roleMiddleware(RoleTeacher))
	tg.GET("/groups", api.groups)
	tg.GET("/submissions", api.submissions)
	tg.GET("/export", api.export)
}

func (api *teacherApi) authenticate(ctx echo.Context) error {
	var data teacher.Login
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to teacher.Login")
	}
	if !api.s.deps.Teacher.Check(data.Password) {
		return ctx.JSON(http.StatusUnauthorized, TeacherAuthResponse{Success: false})
	}
	token, err := api.s.jwt.GenerateToken(api.s.jwt.TeacherClaims())
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, TeacherAuthResponse{Success: true, Token: token})
}

func (api *teacherApi) groups(ctx echo.Context) error {
	groups, err := api.s.deps.Tracker.Groups(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing groups")
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *teacherApi) submissions(ctx echo.Context) error {
	filter := progress.Filter{Group: ctx.QueryParam("group")}
	subs, err := api.s.deps.Tracker.Submissions(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "listing submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *teacherApi) export(ctx echo.Context) error {
	var data ExportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ExportRequest")
	}
	if err := data.Validate(api.s.deps.Validate); err != nil {
		return err
	}
	if data.Format == "" {
		data.Format = progress.FormatJSON
	}

	var buf bytes.Buffer
	if err := api.s.deps.Tracker.Export(ctx.Request().Context(), progress.Filter{Group: data.Group}, data.Format, &buf); err != nil {
		return errors.Wrap(err, "exporting progress")
	}

	contentType := echo.MIMEApplicationJSONCharsetUTF8
	if data.Format == progress.FormatCSV {
		contentType = "text/csv; charset=UTF-8"
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ielts-progress.%s"`, data.Format))
	return ctx.Blob(http.StatusOK, contentType, buf.Bytes())
}
