package publish

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/samuel/go-metrics/metrics"
	"github.com/sprucehealth/layoutadmin"
	"github.com/sprucehealth/layoutadmin/internal/fakeadmin"
	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/golog"
	"github.com/sprucehealth/layoutadmin/libs/storage"
	"github.com/sprucehealth/layoutadmin/saml"
	"github.com/sprucehealth/layoutadmin/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const template = `
sections:
- section_title: Your Skin
  transition_to_message: Let's talk about your skin.
  screens:
  - questions:
    - details:
        text: Describe your skin
        type: q_type_free_text
    - details:
        text: Is it itchy?
        type: q_type_segmented_control
        answers:
        - text: "Yes"
        - text: "No"
`

func newClient(t *testing.T, fake *fakeadmin.Server) *layoutadmin.Client {
	t.Helper()
	srv := httptest.NewServer(fake.Handler())
	hc := &http.Client{}
	t.Cleanup(func() {
		hc.CloseIdleConnections()
		srv.Close()
	})
	c, err := layoutadmin.NewClient(layoutadmin.ClientConfig{BaseURL: srv.URL, HTTPClient: hc, Log: golog.Discard()})
	require.NoError(t, err)
	return c
}

func decode(t *testing.T, src string) *saml.Intake {
	t.Helper()
	in, err := saml.Decode([]byte(src))
	require.NoError(t, err)
	return in
}

func TestPublish(t *testing.T) {
	fake := fakeadmin.New()
	require.NoError(t, fake.AddLayout("acne_visit", layoutadmin.PurposeIntake, "3.4.0", map[string]string{}))
	require.NoError(t, fake.AddLayout("acne_visit", layoutadmin.PurposeReview, "1.0.0", map[string]string{}))
	store := storage.NewTestStore(nil)
	reg := metrics.NewRegistry()
	p := New(Config{
		Client:          newClient(t, fake),
		Archive:         layout.NewArchive(store),
		Log:             golog.Discard(),
		MetricsRegistry: reg,
	})

	res, err := p.Publish(context.Background(), &Request{Template: decode(t, template), SKU: "acne_visit", Source: []byte(template)})
	require.NoError(t, err)
	assert.Equal(t, "health_condition_acne", res.Pathway)
	assert.Equal(t, "3.5.0", res.IntakeVersion)
	assert.Equal(t, "3.1.0", res.ReviewVersion)
	assert.Equal(t, []string{
		"q_health_condition_acne_describe_your_skin",
		"q_health_condition_acne_is_it_itchy",
	}, res.Versioned)
	assert.NotEmpty(t, res.RunID)

	qs := res.Intake.Questions()
	require.Len(t, qs, 2)
	assert.EqualValues(t, 1, qs[0].Version)
	assert.Len(t, fake.Questions("q_health_condition_acne_is_it_itchy"), 1)

	ups := fake.Uploads()
	require.Len(t, ups, 1)
	var intake layout.Intake
	require.NoError(t, json.Unmarshal(ups[0].Intake, &intake))
	assert.Equal(t, "3.5.0", intake.Version)
	assert.Equal(t, "acne_visit", intake.CostItemType)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(ups[0].Review, &doc))
	assert.Equal(t, "3.1.0", doc["version"])
	assert.Equal(t, "health_condition_acne", doc["health_condition"])
	assert.Equal(t, "iOS", ups[0].Platform)

	assert.Equal(t, []string{
		"health_condition_acne/3.5.0/intake.json.gz",
		"health_condition_acne/3.5.0/review.json.gz",
		"health_condition_acne/3.5.0/template.yaml.gz",
	}, store.Names())
	archived, err := layout.NewArchive(store).GetIntake(context.Background(), res.Archived.Intake)
	require.NoError(t, err)
	assert.Equal(t, "3.5.0", archived.Version)

	assert.EqualValues(t, 1, p.statPublished.Count())
	assert.EqualValues(t, 2, p.statQuestions.Count())
}

func TestPublishRejectedQuestion(t *testing.T) {
	fake := fakeadmin.New()
	fake.RejectTags["q_health_condition_acne_is_it_itchy"] = true
	p := New(Config{Client: newClient(t, fake), Log: golog.Discard()})

	_, err := p.Publish(context.Background(), &Request{Template: decode(t, template), SKU: "acne_visit"})
	var se *transform.SubmissionError
	require.True(t, errors.As(err, &se), "%v", err)
	assert.Equal(t, "q_health_condition_acne_is_it_itchy", se.Tag)
	assert.Equal(t, []string{"q_health_condition_acne_describe_your_skin"}, se.Versioned)
	assert.Empty(t, fake.Uploads())
	assert.EqualValues(t, 1, p.statFailed.Count())
}

func TestPublishInvalidTemplate(t *testing.T) {
	fake := fakeadmin.New()
	p := New(Config{Client: newClient(t, fake), Log: golog.Discard()})

	in := decode(t, template)
	in.Sections[0].Screens = append(in.Sections[0].Screens, &saml.Screen{})
	_, err := p.Publish(context.Background(), &Request{Template: in, SKU: "acne_visit"})
	var te *transform.TransformError
	require.True(t, errors.As(err, &te), "%v", err)
	assert.Empty(t, fake.Questions("q_health_condition_acne_describe_your_skin"))

	_, err = p.Publish(context.Background(), &Request{Template: in})
	assert.Error(t, err)
}

type failingUpload struct {
	*layoutadmin.Client
}

func (failingUpload) UploadLayout(ctx context.Context, up *layoutadmin.LayoutUpload) error {
	return &layoutadmin.Error{Status: http.StatusInternalServerError, Err: layoutadmin.ErrorItem{Message: "disk full"}}
}

func TestPublishUploadFailure(t *testing.T) {
	fake := fakeadmin.New()
	p := New(Config{Client: failingUpload{newClient(t, fake)}, Log: golog.Discard()})

	_, err := p.Publish(context.Background(), &Request{Template: decode(t, template), SKU: "acne_visit"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Intake Submission Error: ")
	assert.Contains(t, err.Error(), "disk full")
	var se *transform.SubmissionError
	require.True(t, errors.As(err, &se))
	assert.Len(t, se.Versioned, 2)
}
