package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/student"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"

	teacherSubject  = "teacher"
	tokenContextKey = "userToken"
)

var (
	errUnauthorized  = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// Claims represents the authorization claims transmitted via a JWT.
// Students are not stored anywhere: the token carries the whole student.
type Claims struct {
	jwt.StandardClaims
	Role      string `json:"role"`
	Name      string `json:"name,omitempty"`
	Surname   string `json:"surname,omitempty"`
	Group     string `json:"group,omitempty"`
	LoginTime int64  `json:"login_time,omitempty"`
}

func (c Claims) Student() student.User {
	return student.User{
		ID:        c.Subject,
		Name:      c.Name,
		Surname:   c.Surname,
		Group:     c.Group,
		LoginTime: time.Unix(c.LoginTime, 0).UTC(),
	}
}

type jwtConfig struct {
	middleware middleware.JWTConfig
	issuer     string
	expiration time.Duration
}

func newJWTConfig(conf *core.Config) jwtConfig {
	return jwtConfig{
		middleware: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    tokenContextKey,
			Claims:        new(Claims),
		},
		issuer:     conf.AppName,
		expiration: conf.Server.JWTExpirationDelta,
	}
}

func (c jwtConfig) standardClaims(subject string) jwt.StandardClaims {
	now := time.Now()
	return jwt.StandardClaims{
		Issuer:    c.issuer,
		Subject:   subject,
		ExpiresAt: now.Add(c.expiration).Unix(),
		IssuedAt:  now.Unix(),
	}
}

func (c jwtConfig) StudentClaims(usr student.User) *Claims {
	return &Claims{
		StandardClaims: c.standardClaims(usr.ID),
		Role:           RoleStudent,
		Name:           usr.Name,
		Surname:        usr.Surname,
		Group:          usr.Group,
		LoginTime:      usr.LoginTime.Unix(),
	}
}

func (c jwtConfig) TeacherClaims() *Claims {
	return &Claims{
		StandardClaims: c.standardClaims(teacherSubject),
		Role:           RoleTeacher,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (c jwtConfig) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(c.middleware.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(c.middleware.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextStudent returns the student of the request. roleMiddleware(RoleStudent) must run first.
func getContextStudent(ctx echo.Context) (student.User, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return student.User{}, err
	}
	return claims.Student(), nil
}
