package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/himanshudube97/Assessment-builder-sub000/internal/models"
)

// Validator is the main validator instance that combines struct tags and graph shape rules
type Validator struct {
	structValidator *validator.Validate
	graphValidator  *GraphValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		graphValidator:  NewGraphValidator(structValidator),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors
func (v *Validator) Validate(s interface{}) error {
	if err := v.ValidateStruct(s); err != nil {
		if errs := ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// ValidateGraph checks that a graph is well-formed enough to be stored. A non-nil error
// is always ValidationErrors.
func (v *Validator) ValidateGraph(nodes []models.Node, edges []models.Edge) error {
	return v.graphValidator.Validate(nodes, edges).OrNil()
}

// Graph returns the graph validator
func (v *Validator) Graph() *GraphValidator {
	return v.graphValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("node_kind", oneOf(
		models.NodeEntry,
		models.NodeQuestion,
		models.NodeExit,
	))

	validate.RegisterValidation("question_kind", oneOf(
		models.QuestionShortText,
		models.QuestionLongText,
		models.QuestionMultipleChoice,
		models.QuestionCheckbox,
		models.QuestionDropdown,
		models.QuestionRating,
		models.QuestionScale,
		models.QuestionNumber,
		models.QuestionEmail,
		models.QuestionDate,
		models.QuestionYesNo,
	))

	validate.RegisterValidation("comparator", oneOf(
		models.CompareEquals,
		models.CompareNotEquals,
		models.CompareContains,
		models.CompareGreaterThan,
		models.CompareLessThan,
	))

	validate.RegisterValidation("match_mode", oneOf(
		models.MatchAny,
		models.MatchAll,
		models.MatchExactly,
	))

	validate.RegisterValidation("assessment_status", oneOf(
		models.StatusDraft,
		models.StatusPublished,
		models.StatusArchived,
	))

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// oneOf builds a validation func accepting exactly the given string-backed constants
func oneOf[T ~string](valid ...T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, v := range valid {
			if string(v) == value {
				return true
			}
		}
		return false
	}
}
