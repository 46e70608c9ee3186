package layoutadmin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/goccy/go-json"
	"github.com/samuel/go-metrics/metrics"
	"github.com/sprucehealth/layoutadmin/internal/fakeadmin"
	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/golog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestClient(t *testing.T, fake *fakeadmin.Server) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.Handler())
	hc := &http.Client{}
	t.Cleanup(func() {
		hc.CloseIdleConnections()
		srv.Close()
	})
	c, err := NewClient(ClientConfig{
		BaseURL:     srv.URL,
		BearerToken: "secret",
		HTTPClient:  hc,
		Log:         golog.Discard(),
	})
	require.NoError(t, err)
	return c
}

func question(tag string) *layout.VersionedQuestion {
	return &layout.VersionedQuestion{
		Tag:        tag,
		LanguageID: layout.LanguageIDEnglish,
		Type:       layout.QuestionTypeSingleSelect,
		Text:       "Pick one",
		Required:   true,
		VersionedAnswers: []*layout.VersionedAnswer{
			{Tag: "a_yes", Type: layout.AnswerTypeMultipleChoice, Text: "Yes", LanguageID: "1", Ordering: 0, Status: layout.StatusActive},
		},
		VersionedPhotoSlots: []*layout.VersionedPhotoSlot{},
	}
}

func TestSubmitAndFetchQuestion(t *testing.T) {
	ctx := context.Background()
	fake := fakeadmin.New()
	fake.Token = "secret"
	c := newTestClient(t, fake)

	tv, err := c.SubmitQuestion(ctx, question("q_pick"))
	require.NoError(t, err)
	assert.Equal(t, &layout.TagVersion{Tag: "q_pick", Version: 1}, tv)
	tv, err = c.SubmitQuestion(ctx, question("q_pick"))
	require.NoError(t, err)
	assert.EqualValues(t, 2, tv.Version)

	q, err := c.VersionedQuestion(ctx, "q_pick", "1", 1)
	require.NoError(t, err)
	assert.Equal(t, "Pick one", q.Text)
	assert.True(t, q.Required)
	require.Len(t, q.VersionedAnswers, 1)
	assert.Equal(t, "a_yes", q.VersionedAnswers[0].Tag)

	_, err = c.VersionedQuestion(ctx, "q_pick", "1", 7)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr), "%T %v", err, err)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Contains(t, apiErr.Err.Message, "version 7")
}

func TestErrorResponses(t *testing.T) {
	ctx := context.Background()
	fake := fakeadmin.New()
	fake.Token = "other"
	c := newTestClient(t, fake)

	_, err := c.LayoutVersions(ctx)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Access not allowed", apiErr.Err.Message)

	fake = fakeadmin.New()
	fake.RejectTags["q_bad"] = true
	c = newTestClient(t, fake)
	_, err = c.SubmitQuestion(ctx, question("q_bad"))
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Contains(t, err.Error(), "versioning question q_bad")

	q := question("q_incomplete")
	q.VersionedAnswers = nil
	_, err = c.SubmitQuestion(ctx, q)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)

	_, err = NewClient(ClientConfig{BaseURL: "ftp://example.com"})
	assert.Error(t, err)
}

func TestLayoutVersionsAndTemplate(t *testing.T) {
	ctx := context.Background()
	fake := fakeadmin.New()
	intake := &layout.Intake{
		HealthCondition: "health_condition_acne",
		Sections: []*layout.Section{{
			Title:   "Skin",
			Screens: []*layout.Screen{{Questions: []*layout.Question{{Tag: "q_pick", Version: 2}}}},
		}},
	}
	require.NoError(t, fake.AddLayout("acne_visit", PurposeIntake, "3.1.0", intake))
	require.NoError(t, fake.AddLayout("acne_visit", PurposeReview, "3.0.0", map[string]string{"health_condition": "health_condition_acne"}))
	c := newTestClient(t, fake)

	items, err := c.LayoutVersions(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, &LayoutVersion{SKUType: "acne_visit", LayoutPurpose: PurposeIntake, Version: "3.1.0"}, items[0])

	q := &TemplateQuery{PathwayTag: "health_condition_acne", SKU: "acne_visit", Purpose: PurposeIntake}
	q.SetVersion(semver.MustParse("3.1.0"))
	var got layout.Intake
	require.NoError(t, c.LayoutTemplate(ctx, q, &got))
	assert.Equal(t, "q_pick", got.Sections[0].Screens[0].Questions[0].Tag)
	assert.EqualValues(t, 2, got.Sections[0].Screens[0].Questions[0].Version)

	q.Patch = 9
	var apiErr *Error
	require.True(t, errors.As(c.LayoutTemplate(ctx, q, &got), &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestUploadLayout(t *testing.T) {
	fake := fakeadmin.New()
	c := newTestClient(t, fake)
	err := c.UploadLayout(context.Background(), &LayoutUpload{
		Intake: map[string]string{"health_condition": "health_condition_acne"},
		Review: map[string]string{"cost_item_type": "acne_visit"},
	})
	require.NoError(t, err)

	ups := fake.Uploads()
	require.Len(t, ups, 1)
	assert.Equal(t, "1.2.0", ups[0].DoctorAppVersion)
	assert.Equal(t, "1.2.0", ups[0].PatientAppVersion)
	assert.Equal(t, "iOS", ups[0].Platform)
	var review map[string]string
	require.NoError(t, json.Unmarshal(ups[0].Review, &review))
	assert.Equal(t, "acne_visit", review["cost_item_type"])
}

func TestBackendMetrics(t *testing.T) {
	fake := fakeadmin.New()
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()
	hc := &http.Client{}
	defer hc.CloseIdleConnections()

	reg := metrics.NewRegistry()
	c, err := NewClient(ClientConfig{BaseURL: srv.URL, HTTPClient: hc, MetricsRegistry: reg, RequestsPerSecond: 100, Log: golog.Discard()})
	require.NoError(t, err)
	ctx := context.Background()
	_, err = c.LayoutVersions(ctx)
	require.NoError(t, err)
	_, err = c.VersionedQuestion(ctx, "q_missing", "1", 1)
	require.Error(t, err)

	b := c.b.(*BackendConfiguration)
	assert.EqualValues(t, 2, b.requests.Count())
	assert.EqualValues(t, 1, b.failures.Count())
}

func TestNextVersions(t *testing.T) {
	items := []*LayoutVersion{
		{SKUType: "acne_visit", LayoutPurpose: PurposeIntake, Version: "3.2.1"},
		{SKUType: "acne_visit", LayoutPurpose: PurposeIntake, Version: "3.10.0"},
		{SKUType: "acne_visit", LayoutPurpose: PurposeReview, Version: "2.4.0"},
		{SKUType: "rosacea_visit", LayoutPurpose: PurposeIntake, Version: "9.0.0"},
		{SKUType: "acne_visit", LayoutPurpose: "DIAGNOSE", Version: "7.0.0"},
	}
	v, err := NextVersions(items, "acne_visit")
	require.NoError(t, err)
	assert.Equal(t, "3.11.0", v.Intake.String())
	assert.Equal(t, "3.5.0", v.Review.String())

	v, err = NextVersions(items, "eczema_visit")
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", v.Intake.String())
	assert.Equal(t, "3.0.0", v.Review.String())

	_, err = NextVersions([]*LayoutVersion{{SKUType: "x", LayoutPurpose: PurposeIntake, Version: "latest"}}, "x")
	assert.Error(t, err)
}
