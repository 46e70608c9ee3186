package transform

import (
	"context"
	"fmt"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/ptr"
	"github.com/sprucehealth/layoutadmin/saml"
)

func (s *Session) TransformScreen(ctx context.Context, sc *saml.Screen) (*layout.Screen, error) {
	return s.transformScreen(ctx, sc, "screen")
}

func (s *Session) transformScreen(ctx context.Context, sc *saml.Screen, path string) (*layout.Screen, error) {
	if sc == nil {
		return nil, missing("Screen", "screen_type", path, nil)
	}
	out := &layout.Screen{
		Type:               sc.Type,
		Title:              sc.Title,
		HeaderTitle:        sc.HeaderTitle,
		HeaderSubtitle:     sc.HeaderSubtitle,
		HeaderSummary:      sc.HeaderSummary,
		ContentHeaderTitle: sc.ContentHeaderTitle,
		BottomButtonTitle:  sc.BottomButtonTitle,
		ClientData:         sc.ClientData,
	}

	if len(sc.Questions) == 0 {
		if sc.Type == "" {
			return nil, missing("Screen without Questions", "screen_type", path, sc)
		}
	} else {
		hasPhotos, err := containsPhotoQuestions(sc, path)
		if err != nil {
			return nil, err
		}
		if hasPhotos {
			if sc.HeaderTitle == "" {
				return nil, missing("Screen with Photo Questions", "header_title", path, sc)
			}
			if sc.HeaderSummary == "" {
				return nil, missing("Screen with Photo Questions", "header_summary", path, sc)
			}
			switch sc.Type {
			case "":
				out.Type = layout.ScreenTypePhoto
			case layout.ScreenTypePhoto:
			default:
				return nil, conflict("Screen", path, "screens containing photo questions must have type %s, found %s", layout.ScreenTypePhoto, sc.Type)
			}
		}
	}

	switch sc.Type {
	case layout.ScreenTypeWarningPopup:
		if err := validatePopupScreen(sc, path, "Warning popup screen"); err != nil {
			return nil, err
		}
	case layout.ScreenTypeTriage:
		if err := validatePopupScreen(sc, path, "Triage screen"); err != nil {
			return nil, err
		}
		if sc.Title == "" {
			return nil, missing("Triage screen", "screen_title", path, sc)
		}
		if sc.BottomButtonTitle == "" {
			return nil, missing("Triage screen", "bottom_button_title", path, sc)
		}
	}

	if sc.HeaderTitle != "" {
		out.HeaderTitleHasTokens = ptr.Bool(tokenPattern.MatchString(sc.HeaderTitle))
	}
	if sc.HeaderSubtitle != "" {
		out.HeaderSubtitleHasTokens = ptr.Bool(tokenPattern.MatchString(sc.HeaderSubtitle))
	}
	if sc.Body != nil {
		out.Body = &layout.ScreenBody{Text: sc.Body.Text, Button: layoutButton(sc.Body.Button)}
	}

	for i, q := range sc.Questions {
		lq, err := s.transformQuestion(ctx, q, fmt.Sprintf("%s.questions[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out.Questions = append(out.Questions, lq)
	}

	if sc.Condition != nil {
		if err := validateCondition(sc.Condition, path+".condition"); err != nil {
			return nil, err
		}
		out.Condition = s.transformCondition(sc.Condition)
	}
	return out, nil
}

func containsPhotoQuestions(sc *saml.Screen, path string) (bool, error) {
	for i, q := range sc.Questions {
		if q == nil || q.Details == nil {
			return false, missing("Question", "details", fmt.Sprintf("%s.questions[%d]", path, i), q)
		}
		if q.Details.Type == layout.QuestionTypePhotoSection {
			return true, nil
		}
	}
	return false, nil
}

// validatePopupScreen checks the fields shared by warning popups and triage
// screens. Neither may ask questions.
func validatePopupScreen(sc *saml.Screen, path, object string) error {
	if sc.Body == nil {
		return missing(object, "body", path, sc)
	}
	if sc.Condition == nil {
		return missing(object, "condition", path, sc)
	}
	if sc.ContentHeaderTitle == "" {
		return missing(object, "content_header_title", path, sc)
	}
	if err := validateBody(sc.Body, path+".body"); err != nil {
		return err
	}
	if len(sc.Questions) != 0 {
		return conflict(object, path, "screen of type %s cannot have any questions", sc.Type)
	}
	return nil
}

func validateBody(b *saml.ScreenBody, path string) error {
	if b.Text == "" {
		return missing("Body definition", "text", path, b)
	}
	if bt := b.Button; bt != nil {
		switch {
		case bt.Text == "":
			return missing("Button definition", "button_text", path+".button", bt)
		case bt.TapURL == "":
			return missing("Button definition", "tap_url", path+".button", bt)
		case bt.Style == "":
			return missing("Button definition", "style", path+".button", bt)
		}
	}
	return nil
}

func layoutButton(b *saml.Button) *layout.Button {
	if b == nil {
		return nil
	}
	return &layout.Button{Text: b.Text, TapURL: b.TapURL, Style: b.Style}
}
