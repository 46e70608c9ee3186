package review

import (
	"encoding/json"
	"testing"

	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/visitreview"
	"github.com/sprucehealth/layoutadmin/saml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acne = "health_condition_acne"

func decode(t *testing.T, src string) *saml.Intake {
	t.Helper()
	in, err := saml.Decode([]byte(src))
	require.NoError(t, err)
	return in
}

func titles(l *visitreview.SectionListView) []string {
	var ts []string
	for _, s := range l.Sections {
		switch v := s.(type) {
		case *visitreview.StandardSectionView:
			ts = append(ts, v.Title)
		case *visitreview.StandardPhotosSectionView:
			ts = append(ts, "photos:"+v.Title)
		}
	}
	return ts
}

func TestSingleQuestionReview(t *testing.T) {
	doc, err := GenerateFromTemplate(decode(t, `
sections:
- section_title: Your Skin
  transition_to_message: Let's talk about your skin.
  screens:
  - questions:
    - details:
        text: Describe your skin
        type: q_type_free_text
`), acne)
	require.NoError(t, err)
	assert.Equal(t, acne, doc.HealthCondition)
	assert.Equal(t, "acne_visit", doc.CostItemType)

	l := doc.VisitReview
	assert.Equal(t, "d_visit_review:sections_list", l.Type)
	assert.Equal(t, []string{"Alerts", "Your Skin", "Visit Message"}, titles(l))

	sec := l.Sections[1].(*visitreview.StandardSectionView)
	require.Len(t, sec.Subsections, 1)
	sub := sec.Subsections[0].(*visitreview.StandardSubsectionView)
	assert.Equal(t, "Your Skin Questions", sub.Title)
	assert.Equal(t, visitreview.AnyKeyExists("q_health_condition_acne_describe_your_skin:answers"), sub.ContentConfig.Condition)

	require.Len(t, sub.Rows, 1)
	row := sub.Rows[0].(*visitreview.StandardTwoColumnRowView)
	assert.Equal(t, "d_visit_review:standard_two_column_row", row.Type)
	assert.Equal(t, "q_health_condition_acne_describe_your_skin:answers", row.ContentConfig.Condition.Key)
	assert.Equal(t, "key_exists", row.ContentConfig.Condition.Op)
	assert.Equal(t, "q_health_condition_acne_describe_your_skin:question_summary", row.LeftView.(*visitreview.TitleLabelsList).ContentConfig.Key)
	right := row.RightView.(*visitreview.ContentLabelsList)
	assert.Equal(t, "d_visit_review:content_labels_list", right.Type)
}

func TestReviewOfFullIntake(t *testing.T) {
	doc, err := GenerateFromTemplate(decode(t, `
sections:
- section_title: Your Skin
  transition_to_message: Skin
  subsections:
  - title: History
    screens:
    - questions:
      - details:
          text: What have you tried?
          type: q_type_multiple_choice
          answers:
          - text: Retinol
      - details:
          text: Current medications
          type: q_type_autocomplete
        subquestions_config:
          questions:
          - details:
              text: How often?
              type: q_type_free_text
  - title: Photos
    screens:
    - header_title: Photos
      header_summary: Face Photos
      questions:
      - details:
          text: Face
          type: q_type_photo_section
          photo_slots:
          - name: Front
      - details:
          text: Neck
          type: q_type_photo_section
          photo_slots:
          - name: Front
- section_title: Wrap up
  transition_to_message: Almost done
  screens:
  - header_title: More photos
    header_summary: Other Photos
    questions:
    - details:
        text: Other
        type: q_type_photo_section
        photo_slots:
        - name: Anything
`), acne)
	require.NoError(t, err)
	l := doc.VisitReview
	assert.Equal(t, []string{"Alerts", "photos:Face Photos", "photos:Other Photos", "Your Skin", "Visit Message"}, titles(l))

	photos := l.Sections[1].(*visitreview.StandardPhotosSectionView)
	assert.Equal(t, visitreview.AnyKeyExists("q_health_condition_acne_face:photos", "q_health_condition_acne_neck:photos"), photos.ContentConfig.Condition)
	require.Len(t, photos.Subsections, 2)
	ps := photos.Subsections[1].(*visitreview.StandardPhotosSubsectionView)
	assert.Equal(t, "q_health_condition_acne_neck:photos", ps.ContentConfig.Condition.Key)
	assert.Equal(t, "q_health_condition_acne_neck:photos", ps.View.(*visitreview.TitlePhotosItemsListView).ContentConfig.Key)

	skin := l.Sections[3].(*visitreview.StandardSectionView)
	require.Len(t, skin.Subsections, 1)
	sub := skin.Subsections[0].(*visitreview.StandardSubsectionView)
	assert.Equal(t, "History", sub.Title)
	require.Len(t, sub.Rows, 2)
	assert.IsType(t, &visitreview.CheckXItemsList{}, sub.Rows[0].(*visitreview.StandardTwoColumnRowView).RightView)
	multi := sub.Rows[1].(*visitreview.StandardTwoColumnRowView).RightView.(*visitreview.TitleSubItemsLabelContentItemsList)
	assert.Equal(t, "d_visit_review:title_subitems_description_content_labels_divided_items_list", multi.Type)
	assert.Equal(t, "q_health_condition_acne_current_medications:empty_state_text", multi.EmptyStateView.(*visitreview.EmptyLabelView).ContentConfig.Key)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"d_visit_review:standard_photo_subsection"`)
	assert.Contains(t, string(b), `"op":"any_key_exists"`)
}

func TestGenerateRejectsUnknownQuestionType(t *testing.T) {
	_, err := Generate(&layout.Intake{Sections: []*layout.Section{{
		Title: "S",
		Screens: []*layout.Screen{{Questions: []*layout.Question{{
			Tag:     "q_x",
			Details: &layout.VersionedQuestion{Tag: "q_x", Type: "q_type_drawing"},
		}}}},
	}}})
	assert.Error(t, err)

	_, err = GenerateFromTemplate(&saml.Intake{}, acne)
	assert.Error(t, err)
}

func TestRenderGeneratedReview(t *testing.T) {
	doc, err := GenerateFromTemplate(decode(t, `
sections:
- section_title: Your Skin
  transition_to_message: Skin
  screens:
  - questions:
    - details:
        text: Describe your skin
        type: q_type_free_text
    - details:
        text: Anything else?
        type: q_type_free_text
`), acne)
	require.NoError(t, err)

	ctx := visitreview.NewViewContext(map[string]interface{}{
		"q_health_condition_acne_describe_your_skin:question_summary": "Describe your skin",
		"q_health_condition_acne_describe_your_skin:answers":          []string{"Oily"},
		"patient_visit_alerts:empty_state_text":                       "No alerts",
	})
	r, err := doc.VisitReview.Render(ctx)
	require.NoError(t, err)
	sections := r["sections"].([]interface{})
	// the visit message subsection is hidden but its section stays
	require.Len(t, sections, 3)
	skin := sections[1].(map[string]interface{})
	rows := skin["subsections"].([]interface{})[0].(map[string]interface{})["rows"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"Oily"}, rows[0].(map[string]interface{})["right_view"].(map[string]interface{})["values"])
}
