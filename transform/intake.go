package transform

import (
	"context"
	"fmt"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/saml"
)

const (
	nextSectionURL  = "spruce:///action/view_next_visit_section"
	finalTransition = "That's all the information your doctor will need!"
)

// TransformIntake normalizes a whole template. Errors from the structural
// transformation are *TransformError, failures of the versioner (immediate
// mode only) are *SubmissionError.
func (s *Session) TransformIntake(ctx context.Context, in *saml.Intake) (*layout.Intake, error) {
	out, err := s.transformIntake(ctx, in)
	if err != nil {
		return nil, wrapTransform(err)
	}
	return out, nil
}

func (s *Session) transformIntake(ctx context.Context, in *saml.Intake) (*layout.Intake, error) {
	if in == nil || len(in.Sections) == 0 {
		return nil, missing("Intake", "sections", "intake", in)
	}
	out := &layout.Intake{}
	for i, sec := range in.Sections {
		ls, err := s.transformSection(ctx, sec, fmt.Sprintf("sections[%d]", i))
		if err != nil {
			return nil, err
		}
		out.Sections = append(out.Sections, ls)
	}

	last := out.Sections[len(out.Sections)-1]
	if n := len(last.Screens); n == 0 || last.Screens[n-1].Type != layout.ScreenTypePharmacy {
		last.Screens = append(last.Screens, &layout.Screen{Type: layout.ScreenTypePharmacy})
	}

	s.populateMetadata(out, in.Transitions)
	return out, nil
}

func (s *Session) populateMetadata(out *layout.Intake, transitions []*saml.Transition) {
	out.HealthCondition = s.pathway
	out.CostItemType = s.sku
	if out.CostItemType == "" {
		out.CostItemType = CostItemType(s.pathway)
	}

	if len(transitions) != 0 {
		for _, t := range transitions {
			lt := &layout.Transition{Message: t.Message, Buttons: []*layout.Button{}}
			for _, b := range t.Buttons {
				lt.Buttons = append(lt.Buttons, layoutButton(b))
			}
			out.Transitions = append(out.Transitions, lt)
		}
	} else {
		out.Transitions = generateTransitions(out.Sections)
	}

	out.IsTemplated = true
	out.VisitOverviewHeader = &layout.VisitOverviewHeader{
		Title:    "{{.CaseName}} Visit",
		Subtitle: "With {{.Doctor.Description}}",
		IconURL:  "{{.Doctor.SmallThumbnailURL}}",
	}
	out.AdditionalMessage = &layout.VisitMessage{
		Title:       "Is there anything else you’d like to ask or share with {{.Doctor.ShortDisplayName}}?",
		Placeholder: "It’s optional but this is your chance to let the doctor know what’s on your mind.",
	}
	out.Checkout = &layout.CheckoutText{
		HeaderImageURL: "{{.Doctor.SmallThumbnailURL}}",
		Header:         "{{.CheckoutHeaderText}}",
		Footer:         "There are no surprise medical bills with Spruce. If you're unsatisfied with your visit, we'll refund the full cost.",
	}
	out.SubmissionConfirmation = &layout.SubmissionConfirmationText{
		Title:  "Visit Submitted!",
		Top:    "Your {{.CaseName | toLower}} visit has been submitted.",
		Bottom: "{{.SubmissionConfirmationText}}",
		Button: "Continue",
	}
}

func generateTransitions(sections []*layout.Section) []*layout.Transition {
	ts := make([]*layout.Transition, 0, len(sections)+1)
	for i, sec := range sections {
		text := "Continue"
		if i == 0 {
			text = "Begin"
		}
		ts = append(ts, newTransition(sec.TransitionToMessage, text))
	}
	return append(ts, newTransition(finalTransition, "Continue"))
}

func newTransition(message, buttonText string) *layout.Transition {
	return &layout.Transition{
		Message: message,
		Buttons: []*layout.Button{{Text: buttonText, Style: "filled", TapURL: nextSectionURL}},
	}
}
