// Package review builds the doctor facing review layout that accompanies an
// intake layout.
package review

import (
	"context"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/golog"
	"github.com/sprucehealth/layoutadmin/libs/visitreview"
	"github.com/sprucehealth/layoutadmin/saml"
	"github.com/sprucehealth/layoutadmin/transform"
)

const (
	alertsKey       = "patient_visit_alerts"
	visitMessageKey = "visit_message"
)

// Document is the review layout uploaded next to an intake layout.
type Document struct {
	HealthCondition string                       `json:"health_condition"`
	CostItemType    string                       `json:"cost_item_type"`
	Version         string                       `json:"version,omitempty"`
	VisitReview     *visitreview.SectionListView `json:"visit_review"`
}

// Generate builds the review for a normalized intake. Photo screens get a
// photo section each, ahead of the question sections, and every other
// question becomes a row gated on the presence of its answers.
func Generate(doc *layout.Intake) (*Document, error) {
	list := &visitreview.SectionListView{Sections: []visitreview.View{alertSection()}}
	for _, sec := range doc.Sections {
		for _, sc := range sec.Screens {
			if sc.IsPhoto() {
				list.Sections = append(list.Sections, photoSection(sc))
			}
		}
	}
	for _, sec := range doc.Sections {
		rs, err := questionSection(sec)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if rs != nil {
			list.Sections = append(list.Sections, rs)
		}
	}
	list.Sections = append(list.Sections, visitMessageSection())

	if err := list.Validate(); err != nil {
		return nil, errors.Annotate(errors.Trace(err), "generated review is invalid")
	}
	return &Document{
		HealthCondition: doc.HealthCondition,
		CostItemType:    doc.CostItemType,
		Version:         doc.Version,
		VisitReview:     list,
	}, nil
}

// GenerateFromTemplate previews the review of an authored template. The
// template is transformed without versioning any question.
func GenerateFromTemplate(in *saml.Intake, pathway string) (*Document, error) {
	s, err := transform.NewSession(transform.Options{Pathway: pathway, Log: golog.Discard()})
	if err != nil {
		return nil, errors.Trace(err)
	}
	doc, err := s.TransformIntake(context.Background(), in)
	if err != nil {
		return nil, err
	}
	return Generate(doc)
}

func alertSection() visitreview.View {
	return &visitreview.StandardSectionView{
		Title: "Alerts",
		Subsections: []visitreview.View{
			&visitreview.StandardSubsectionView{
				Title: "Alerts",
				Rows: []visitreview.View{
					&visitreview.StandardOneColumnRowView{
						ContentConfig: visitreview.Gate(visitreview.KeyExists(alertsKey)),
						View: &visitreview.AlertLabelsList{
							ContentConfig:  visitreview.Content(alertsKey),
							EmptyStateView: &visitreview.EmptyLabelView{ContentConfig: visitreview.Content(alertsKey + ":empty_state_text")},
						},
					},
				},
			},
		},
	}
}

func visitMessageSection() visitreview.View {
	return &visitreview.StandardSectionView{
		Title: "Visit Message",
		Subsections: []visitreview.View{
			&visitreview.StandardSubsectionView{
				Title:         "Additional Information from Patient",
				ContentConfig: visitreview.Gate(visitreview.KeyExists(visitMessageKey)),
				Rows: []visitreview.View{
					&visitreview.StandardOneColumnRowView{
						View: &visitreview.ContentLabelsList{
							ContentConfig:  visitreview.Content(visitMessageKey),
							EmptyStateView: &visitreview.EmptyLabelView{ContentConfig: visitreview.Content(visitMessageKey + ":empty_state_text")},
						},
					},
				},
			},
		},
	}
}

func photoSection(sc *layout.Screen) visitreview.View {
	sec := &visitreview.StandardPhotosSectionView{Title: sc.HeaderSummary}
	keys := make([]string, 0, len(sc.Questions))
	for _, q := range sc.Questions {
		key := q.Tag + ":photos"
		keys = append(keys, key)
		sec.Subsections = append(sec.Subsections, &visitreview.StandardPhotosSubsectionView{
			ContentConfig: visitreview.Gate(visitreview.KeyExists(key)),
			View:          &visitreview.TitlePhotosItemsListView{ContentConfig: visitreview.Content(key)},
		})
	}
	sec.ContentConfig = visitreview.Gate(visitreview.AnyKeyExists(keys...))
	return sec
}

// questionSection returns nil when none of the section's screens ask a
// question outside of photo screens.
func questionSection(sec *layout.Section) (visitreview.View, error) {
	rs := &visitreview.StandardSectionView{Title: sec.Title}
	groups := sec.Groups
	if len(groups) == 0 {
		groups = []*layout.Group{{Title: sec.Title + " Questions", Screens: sec.Screens}}
	}
	for _, g := range groups {
		sub, err := subsection(g)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			rs.Subsections = append(rs.Subsections, sub)
		}
	}
	if len(rs.Subsections) == 0 {
		return nil, nil
	}
	return rs, nil
}

func subsection(g *layout.Group) (visitreview.View, error) {
	sub := &visitreview.StandardSubsectionView{Title: g.Title}
	var keys []string
	for _, sc := range g.Screens {
		if sc.IsPhoto() {
			continue
		}
		for _, q := range sc.Questions {
			row, err := questionRow(q)
			if err != nil {
				return nil, err
			}
			sub.Rows = append(sub.Rows, row)
			keys = append(keys, q.Tag+":answers")
		}
	}
	if len(sub.Rows) == 0 {
		return nil, nil
	}
	sub.ContentConfig = visitreview.Gate(visitreview.AnyKeyExists(keys...))
	return sub, nil
}

func questionRow(q *layout.Question) (visitreview.View, error) {
	if q.Details == nil {
		return nil, errors.Errorf("question %s has no details", q.Tag)
	}
	answers := q.Tag + ":answers"
	var right visitreview.View
	switch {
	case q.SubquestionsConfig != nil:
		right = &visitreview.TitleSubItemsLabelContentItemsList{
			ContentConfig:  visitreview.Content(answers),
			EmptyStateView: &visitreview.EmptyLabelView{ContentConfig: visitreview.Content(q.Tag + ":empty_state_text")},
		}
	case q.Details.Type == layout.QuestionTypeMultipleChoice:
		right = &visitreview.CheckXItemsList{ContentConfig: visitreview.Content(answers)}
	case q.Details.Type == layout.QuestionTypeSingleSelect,
		q.Details.Type == layout.QuestionTypeSegmentedControl,
		q.Details.Type == layout.QuestionTypeAutoComplete,
		q.Details.Type == layout.QuestionTypeFreeText:
		right = &visitreview.ContentLabelsList{ContentConfig: visitreview.Content(answers)}
	default:
		return nil, errors.Errorf("no review row for question %s of type %s", q.Tag, q.Details.Type)
	}
	return &visitreview.StandardTwoColumnRowView{
		ContentConfig: visitreview.Gate(visitreview.KeyExists(answers)),
		LeftView:      &visitreview.TitleLabelsList{ContentConfig: visitreview.Content(q.Tag + ":question_summary")},
		RightView:     right,
	}, nil
}
