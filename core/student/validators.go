package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ielts/core"
)

var (
	otherGroupTag  = "required_if_others"
	otherGroupText = "please specify your group"
)

// InitValidators registers the student validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newUserStructValidation, NewUser{})
	core.RegisterCustomTranslation(validate, translator, otherGroupTag, otherGroupText)
}

// newUserStructValidation checks that the group is typed in when "Others" is chosen.
func newUserStructValidation(sl validator.StructLevel) {
	nu, ok := sl.Current().Interface().(NewUser)
	if !ok {
		return
	}
	if nu.Group == GroupOthers && nu.OtherGroup == "" {
		sl.ReportError(nu.OtherGroup, "other_group", "OtherGroup", otherGroupTag, "")
	}
}
