package echoapi

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ielts/core"
	"github.com/trezcool/ielts/core/student"
)

type (
	LoginResponse struct {
		Token string       `json:"token"`
		User  student.User `json:"user"`
	}

	LoadUnitRequest struct {
		Unit string `json:"unit" validate:"required"`
	}

	SelectAnswerRequest struct {
		Key    string `json:"key" validate:"required,itemkey"`
		Option *int   `json:"option" validate:"required,min=0"`
	}

	TeacherAuthResponse struct {
		Success bool   `json:"success"`
		Token   string `json:"token,omitempty"`
	}

	ExportRequest struct {
		Format string `query:"format" validate:"omitempty,oneof=json csv"`
		Group  string `query:"group"`
	}
)

func (r *LoadUnitRequest) Validate(validate *validator.Validate) error {
	r.Unit = core.CleanString(r.Unit)
	return validate.Struct(r)
}

func (r *SelectAnswerRequest) Validate(validate *validator.Validate) error {
	r.Key = core.CleanString(r.Key)
	return validate.Struct(r)
}

func (r *ExportRequest) Validate(validate *validator.Validate) error {
	r.Format = core.CleanString(r.Format, true)
	r.Group = core.CleanString(r.Group)
	return validate.Struct(r)
}
