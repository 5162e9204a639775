package course

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/studyplan"
)

// RegisterValidators registers course-specific validators and their translations.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	if err := validate.RegisterValidation("difficulty", difficultyValidation); err != nil {
		panic(err)
	}
	core.RegisterCustomTranslation(validate, translator, "difficulty", "{0} must be one of: beginner, intermediate, advanced, expert")
}

func difficultyValidation(fl validator.FieldLevel) bool {
	val := studyplan.Difficulty(fl.Field().String())
	for _, diff := range studyplan.Difficulties {
		if val == diff {
			return true
		}
	}
	return false
}
