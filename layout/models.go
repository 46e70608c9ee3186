// Package layout is the normalized intake layout: the document that is
// uploaded as a new layout version once every question has been versioned.
package layout

import "github.com/sprucehealth/layoutadmin/saml"

type Intake struct {
	HealthCondition        string                      `json:"health_condition"`
	CostItemType           string                      `json:"cost_item_type"`
	Version                string                      `json:"version,omitempty"`
	IsTemplated            bool                        `json:"is_templated"`
	VisitOverviewHeader    *VisitOverviewHeader        `json:"visit_overview_header,omitempty"`
	AdditionalMessage      *VisitMessage               `json:"additional_message,omitempty"`
	Checkout               *CheckoutText               `json:"checkout,omitempty"`
	SubmissionConfirmation *SubmissionConfirmationText `json:"submission_confirmation,omitempty"`
	Transitions            []*Transition               `json:"transitions,omitempty"`
	Sections               []*Section                  `json:"sections"`
}

// Questions returns every top level question of the intake in document order.
// Subquestions are not included.
func (in *Intake) Questions() []*Question {
	var qs []*Question
	for _, sec := range in.Sections {
		for _, scr := range sec.Screens {
			qs = append(qs, scr.Questions...)
		}
	}
	return qs
}

type Section struct {
	Section             string    `json:"section"`
	SectionID           string    `json:"section_id"`
	Title               string    `json:"section_title"`
	TransitionToMessage string    `json:"transition_to_message"`
	Screens             []*Screen `json:"screens"`
	// Groups keeps the authored subsections. It is not part of the uploaded
	// layout but the review is organized by it.
	Groups []*Group `json:"-"`
}

type Group struct {
	Title   string
	Screens []*Screen
}

type Screen struct {
	Type                    string                 `json:"screen_type,omitempty"`
	Title                   string                 `json:"screen_title,omitempty"`
	HeaderTitle             string                 `json:"header_title,omitempty"`
	HeaderTitleHasTokens    *bool                  `json:"header_title_has_tokens,omitempty"`
	HeaderSubtitle          string                 `json:"header_subtitle,omitempty"`
	HeaderSubtitleHasTokens *bool                  `json:"header_subtitle_has_tokens,omitempty"`
	HeaderSummary           string                 `json:"header_summary,omitempty"`
	ContentHeaderTitle      string                 `json:"content_header_title,omitempty"`
	BottomButtonTitle       string                 `json:"bottom_button_title,omitempty"`
	Body                    *ScreenBody            `json:"body,omitempty"`
	Condition               *Condition             `json:"condition,omitempty"`
	ClientData              *saml.ScreenClientData `json:"client_data,omitempty"`
	Questions               []*Question            `json:"questions,omitempty"`
}

// IsPhoto reports whether the screen collects photos.
func (s *Screen) IsPhoto() bool {
	if s.Type == ScreenTypePhoto {
		return true
	}
	for _, q := range s.Questions {
		if q.Details != nil && q.Details.Type == QuestionTypePhotoSection {
			return true
		}
	}
	return false
}

type ScreenBody struct {
	Text   string  `json:"text"`
	Button *Button `json:"button,omitempty"`
}

// Question is a reference to a versioned question. Details holds the
// normalized question that was (or will be) submitted for versioning.
type Question struct {
	Condition          *Condition          `json:"condition,omitempty"`
	SubquestionsConfig *SubquestionsConfig `json:"subquestions_config,omitempty"`
	ToPrefill          *bool               `json:"to_prefill,omitempty"`
	Tag                string              `json:"question"`
	Version            int64               `json:"version"`
	LanguageID         string              `json:"language_id,omitempty"`
	Details            *VersionedQuestion  `json:"-"`
}

type SubquestionsConfig struct {
	Screens   []*Screen   `json:"screens,omitempty"`
	Questions []*Question `json:"questions,omitempty"`
}

type Condition struct {
	Op               string       `json:"op"`
	Question         string       `json:"question,omitempty"`
	PotentialAnswers []string     `json:"potential_answers,omitempty"`
	Gender           string       `json:"gender,omitempty"`
	Operands         []*Condition `json:"operands,omitempty"`
}

// TagVersion identifies one version of a question.
type TagVersion struct {
	Tag     string `json:"tag"`
	Version int64  `json:"version,string"`
}

// VersionedQuestion is the body submitted to the question versioning
// endpoint and the shape it returns.
type VersionedQuestion struct {
	ID                                int64                     `json:"id,string,omitempty"`
	Tag                               string                    `json:"tag"`
	Version                           int64                     `json:"version,string,omitempty"`
	LanguageID                        string                    `json:"language_id"`
	ParentQuestionID                  int64                     `json:"parent_question_id,string,omitempty"`
	Type                              string                    `json:"type"`
	Text                              string                    `json:"text,omitempty"`
	TextHasTokens                     bool                      `json:"text_has_tokens,omitempty"`
	Subtext                           string                    `json:"subtext,omitempty"`
	SummaryText                       string                    `json:"summary_text,omitempty"`
	AlertText                         string                    `json:"alert_text,omitempty"`
	ToAlert                           bool                      `json:"to_alert,omitempty"`
	ToPrefill                         bool                      `json:"to_prefill,omitempty"`
	Global                            bool                      `json:"global,omitempty"`
	Required                          bool                      `json:"required"`
	VersionedAnswers                  []*VersionedAnswer        `json:"versioned_answers"`
	VersionedPhotoSlots               []*VersionedPhotoSlot     `json:"versioned_photo_slots"`
	VersionedAdditionalQuestionFields *AdditionalQuestionFields `json:"versioned_additional_question_fields"`
}

type VersionedAnswer struct {
	ID          int64                  `json:"id,string,omitempty"`
	Tag         string                 `json:"tag"`
	Type        string                 `json:"type"`
	Text        string                 `json:"text,omitempty"`
	SummaryText string                 `json:"summary_text,omitempty"`
	ToAlert     bool                   `json:"to_alert,omitempty"`
	LanguageID  string                 `json:"language_id"`
	Ordering    int64                  `json:"ordering,string"`
	Status      string                 `json:"status"`
	ClientData  *saml.AnswerClientData `json:"client_data,omitempty"`
}

type VersionedPhotoSlot struct {
	ID         int64                     `json:"id,string,omitempty"`
	Name       string                    `json:"name"`
	Type       string                    `json:"type,omitempty"`
	Required   bool                      `json:"required"`
	LanguageID string                    `json:"language_id"`
	Ordering   int64                     `json:"ordering,string"`
	Status     string                    `json:"status"`
	ClientData *saml.PhotoSlotClientData `json:"client_data"`
}

// AdditionalQuestionFields are the authored client fields plus the summary
// of flattened answer groups.
type AdditionalQuestionFields struct {
	saml.QuestionAdditionalFields
	AnswerGroups []*AnswerGroupSummary `json:"answer_groups,omitempty"`
}

type AnswerGroupSummary struct {
	Title string `json:"title"`
	Count int    `json:"count"`
}

type Transition struct {
	Message string    `json:"message"`
	Buttons []*Button `json:"buttons"`
}

type Button struct {
	Text   string `json:"button_text"`
	TapURL string `json:"tap_url"`
	Style  string `json:"style"`
}

type VisitOverviewHeader struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	IconURL  string `json:"icon_url"`
}

type VisitMessage struct {
	Title       string `json:"title"`
	Placeholder string `json:"placeholder"`
}

type CheckoutText struct {
	HeaderImageURL string `json:"header_image_url"`
	Header         string `json:"header_text"`
	Footer         string `json:"footer_text"`
}

type SubmissionConfirmationText struct {
	Title  string `json:"title"`
	Top    string `json:"top_text"`
	Bottom string `json:"bottom_text"`
	Button string `json:"button_title"`
}
