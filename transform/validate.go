package transform

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/saml"
)

var validate *validator.Validate

var validationMessages = map[string]string{
	"required":                "is required",
	"min":                     "must have at least %s entries",
	"screens_xor_subsections": "must have either screens or subsections but not both",
	"screen_type":             "is required for a screen without questions",
	"photo_screen":            "must be screen_type_photo for a screen with photo questions",
	"photo_header":            "is required for a screen with photo questions",
	"no_questions":            "must be empty for this screen type",
	"popup_field":             "is required for this screen type",
	"photo_slots":             "are required for questions of type q_type_photo_section",
	"photo_answers":           "are not allowed for questions of type q_type_photo_section",
	"answers_xor_groups":      "cannot be combined with answer_groups",
	"condition_op":            "is not a supported condition operator",
	"condition_field":         "is required for this condition operator",
	"not_operands":            "must hold exactly one condition",
	"answer_type":             "is required because the question type has no default answer type",
}

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterStructValidation(validateSection, saml.Section{})
	validate.RegisterStructValidation(validateScreen, saml.Screen{})
	validate.RegisterStructValidation(validateQuestionDetails, saml.QuestionDetails{})
	validate.RegisterStructValidation(validateConditionFields, saml.Condition{})
}

// Validate checks a whole template before it is transformed and reports
// every problem found rather than the first one. The transformation repeats
// the checks it depends on so Validate is optional.
func Validate(in *saml.Intake) error {
	if in == nil {
		return missing("Intake", "sections", "intake", nil)
	}
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	var merr *multierror.Error
	for _, fe := range verrs {
		merr = multierror.Append(merr, fieldError(fe))
	}
	return merr.ErrorOrNil()
}

// FieldError is one failure found by Validate. Path uses the template's
// field names, e.g. sections[0].screens[1].questions[0].details.text.
type FieldError struct {
	Path    string
	Rule    string
	Message string
}

func (e *FieldError) Error() string {
	return e.Path + " " + e.Message
}

func fieldError(fe validator.FieldError) *FieldError {
	path := fe.Namespace()
	if i := strings.IndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		msg = "is invalid"
	}
	if strings.Contains(msg, "%s") {
		msg = fmt.Sprintf(msg, fe.Param())
	}
	return &FieldError{Path: path, Rule: fe.Tag(), Message: msg}
}

func validateSection(sl validator.StructLevel) {
	sec := sl.Current().Interface().(saml.Section)
	if (len(sec.Screens) == 0) == (len(sec.Subsections) == 0) {
		sl.ReportError(sec.Screens, "screens", "Screens", "screens_xor_subsections", "")
	}
}

func validateScreen(sl validator.StructLevel) {
	sc := sl.Current().Interface().(saml.Screen)
	if len(sc.Questions) == 0 && sc.Type == "" {
		sl.ReportError(sc.Type, "screen_type", "Type", "screen_type", "")
	}
	photos := false
	for _, q := range sc.Questions {
		if q != nil && q.Details != nil && q.Details.Type == layout.QuestionTypePhotoSection {
			photos = true
		}
	}
	if photos {
		if sc.Type != "" && sc.Type != layout.ScreenTypePhoto {
			sl.ReportError(sc.Type, "screen_type", "Type", "photo_screen", "")
		}
		if sc.HeaderTitle == "" {
			sl.ReportError(sc.HeaderTitle, "header_title", "HeaderTitle", "photo_header", "")
		}
		if sc.HeaderSummary == "" {
			sl.ReportError(sc.HeaderSummary, "header_summary", "HeaderSummary", "photo_header", "")
		}
	}
	if sc.Type != layout.ScreenTypeWarningPopup && sc.Type != layout.ScreenTypeTriage {
		return
	}
	if len(sc.Questions) != 0 {
		sl.ReportError(sc.Questions, "questions", "Questions", "no_questions", "")
	}
	if sc.Body == nil {
		sl.ReportError(sc.Body, "body", "Body", "popup_field", "")
	}
	if sc.Condition == nil {
		sl.ReportError(sc.Condition, "condition", "Condition", "popup_field", "")
	}
	if sc.ContentHeaderTitle == "" {
		sl.ReportError(sc.ContentHeaderTitle, "content_header_title", "ContentHeaderTitle", "popup_field", "")
	}
	if sc.Type == layout.ScreenTypeTriage {
		if sc.Title == "" {
			sl.ReportError(sc.Title, "screen_title", "Title", "popup_field", "")
		}
		if sc.BottomButtonTitle == "" {
			sl.ReportError(sc.BottomButtonTitle, "bottom_button_title", "BottomButtonTitle", "popup_field", "")
		}
	}
}

func validateQuestionDetails(sl validator.StructLevel) {
	d := sl.Current().Interface().(saml.QuestionDetails)
	if len(d.Answers) != 0 && len(d.AnswerGroups) != 0 {
		sl.ReportError(d.Answers, "answers", "Answers", "answers_xor_groups", "")
	}
	if d.Type == layout.QuestionTypePhotoSection {
		if len(d.PhotoSlots) == 0 {
			sl.ReportError(d.PhotoSlots, "photo_slots", "PhotoSlots", "photo_slots", "")
		}
		if len(d.Answers) != 0 || len(d.AnswerGroups) != 0 {
			sl.ReportError(d.Answers, "answers", "Answers", "photo_answers", "")
		}
	}
	if _, ok := layout.DefaultAnswerType(d.Type); !ok {
		for i, a := range d.Answers {
			if a != nil && a.Type == "" {
				sl.ReportError(a.Type, fmt.Sprintf("answers[%d].type", i), "Type", "answer_type", "")
			}
		}
	}
}

func validateConditionFields(sl validator.StructLevel) {
	c := sl.Current().Interface().(saml.Condition)
	switch c.Op {
	case layout.ConditionAnswerEquals, layout.ConditionAnswerEqualsExact,
		layout.ConditionAnswerContainsAny, layout.ConditionAnswerContainsAll:
		if c.Question == "" {
			sl.ReportError(c.Question, "question", "Question", "condition_field", "")
		}
		if len(c.PotentialAnswers) == 0 {
			sl.ReportError(c.PotentialAnswers, "potential_answers", "PotentialAnswers", "condition_field", "")
		}
	case layout.ConditionGenderEquals:
		if c.Gender == "" {
			sl.ReportError(c.Gender, "gender", "Gender", "condition_field", "")
		}
	case layout.ConditionAnd, layout.ConditionOr:
		if len(c.Operands) == 0 {
			sl.ReportError(c.Operands, "operands", "Operands", "condition_field", "")
		}
	case layout.ConditionNot:
		if len(c.Operands) != 1 {
			sl.ReportError(c.Operands, "operands", "Operands", "not_operands", "")
		}
	case "":
		sl.ReportError(c.Op, "op", "Op", "required", "")
	default:
		sl.ReportError(c.Op, "op", "Op", "condition_op", "")
	}
}
