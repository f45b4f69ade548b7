package echoapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ielts/core/progress"
)

func Test_teacherApi_authenticate(t *testing.T) {
	app := setup(t, nil)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "no password",
			method:   http.MethodPost,
			path:     "/api/teacher-auth",
			body:     []byte(`{}`),
			wantCode: http.StatusUnauthorized,
			wantData: []byte(`{"success":false}`),
		},
		{
			name:     "wrong password",
			method:   http.MethodPost,
			path:     "/api/teacher-auth",
			body:     []byte(`{"password":"guess"}`),
			wantCode: http.StatusUnauthorized,
			wantData: []byte(`{"success":false}`),
		},
	})

	rec := app.do(http.MethodPost, "/api/teacher-auth", "", []byte(`{"password":"`+teacherPassword+`"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp TeacherAuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)

	// the token opens the dashboard
	rec = app.do(http.MethodGet, "/api/teacher/groups", resp.Token)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)
}

func Test_teacherApi_access(t *testing.T) {
	app := setup(t, nil)
	studentToken, _ := app.login(t, "Ann", "Lee", "IELTS 5")

	paths := []string{"/api/teacher/groups", "/api/teacher/submissions", "/api/teacher/export"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := app.do(http.MethodGet, path, "")
			checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)}, rec)

			rec = app.do(http.MethodGet, path, studentToken)
			checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"})}, rec)
		})
	}
}

// submitUnit logs a student in and submits the first unit of the available book.
func submitUnit(t *testing.T, app *testApp, name, group string) {
	t.Helper()
	token, _ := app.login(t, name, "Test", group)
	rec := app.do(http.MethodPost, "/api/books/"+availableBook+"/open", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = app.do(http.MethodPut, "/api/session/answers", token, []byte(`{"key":"0_0","option":1}`))
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	rec = app.do(http.MethodPost, "/api/session/submit", token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func Test_teacherApi_dashboard(t *testing.T) {
	app := setup(t, nil)
	token := app.teacherToken(t)

	submitUnit(t, app, "Ann", "IELTS 5")
	submitUnit(t, app, "Bob", "Evening")
	app.login(t, "Cid", "Test", "IELTS 5") // no submission

	rec := app.do(http.MethodGet, "/api/teacher/groups", token)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`["Evening","IELTS 5"]`)}, rec)

	tests := []struct {
		group    string
		students []string
	}{
		{group: "", students: []string{"Ann Test", "Bob Test"}},
		{group: "all", students: []string{"Ann Test", "Bob Test"}},
		{group: "Evening", students: []string{"Bob Test"}},
		{group: "Unknown", students: []string{}},
	}
	for _, tt := range tests {
		t.Run("group="+tt.group, func(t *testing.T) {
			rec := app.do(http.MethodGet, "/api/teacher/submissions?group="+strings.ReplaceAll(tt.group, " ", "+"), token)
			require.Equal(t, http.StatusOK, rec.Code)
			var subs []progress.Submission
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &subs))

			students := make([]string, 0, len(subs))
			for _, s := range subs {
				students = append(students, s.Student)
				assert.Equal(t, "Thoughts and Notions", s.Book)
				assert.Equal(t, 33, s.Percentage)
			}
			assert.ElementsMatch(t, tt.students, students)
		})
	}
}

func Test_teacherApi_export(t *testing.T) {
	app := setup(t, nil)
	token := app.teacherToken(t)

	t.Run("empty", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/teacher/export", token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="ielts-progress.json"`, rec.Header().Get("Content-Disposition"))
		assert.JSONEq(t, `[]`, rec.Body.String())

		rec = app.do(http.MethodGet, "/api/teacher/export?format=csv", token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	submitUnit(t, app, "Ann", "IELTS 5")
	submitUnit(t, app, "Bob", "Evening")

	t.Run("json", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/teacher/export?format=json&group=Evening", token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, echoJSON, rec.Header().Get("Content-Type"))

		var rows []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Bob Test", rows[0]["student"])
		assert.Equal(t, "Evening", rows[0]["group"])
		assert.Equal(t, "1.1", rows[0]["unit"])
		assert.Contains(t, rows[0], "readingTime")
		assert.Contains(t, rows[0], "date")
	})

	t.Run("csv", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/teacher/export?format=CSV", token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=UTF-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="ielts-progress.csv"`, rec.Header().Get("Content-Disposition"))

		lines := strings.Split(rec.Body.String(), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "student,group,book,unit,score,total,percentage,readingTime,vocabularyFound,date", lines[0])
		assert.True(t, strings.HasPrefix(lines[1], `"`))
		assert.Contains(t, rec.Body.String(), `"Thoughts and Notions","1.1",1,3,33,0,0,"`)
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/teacher/export?format=xml", token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

const echoJSON = "application/json; charset=UTF-8"
