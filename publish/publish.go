// Package publish versions the questions of an authored template and uploads
// the resulting intake and review layouts as the next layout version of a SKU.
package publish

import (
	"context"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/samuel/go-metrics/metrics"
	"github.com/sprucehealth/layoutadmin"
	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/golog"
	"github.com/sprucehealth/layoutadmin/review"
	"github.com/sprucehealth/layoutadmin/saml"
	"github.com/sprucehealth/layoutadmin/transform"
)

// AdminClient is the part of the admin API a Publisher needs.
type AdminClient interface {
	transform.Versioner
	LayoutVersions(ctx context.Context) ([]*layoutadmin.LayoutVersion, error)
	UploadLayout(ctx context.Context, up *layoutadmin.LayoutUpload) error
}

type Config struct {
	Client AdminClient
	// Archive is optional.
	Archive         *layout.Archive
	Upload          layoutadmin.UploadConfiguration
	Log             golog.Logger
	MetricsRegistry metrics.Registry
}

// Publisher publishes one layout at a time.
type Publisher struct {
	mu      sync.Mutex
	client  AdminClient
	archive *layout.Archive
	upload  layoutadmin.UploadConfiguration
	log     golog.Logger

	statPublished *metrics.Counter
	statFailed    *metrics.Counter
	statQuestions *metrics.Counter
}

func New(cfg Config) *Publisher {
	p := &Publisher{
		client:        cfg.Client,
		archive:       cfg.Archive,
		upload:        cfg.Upload,
		log:           cfg.Log,
		statPublished: metrics.NewCounter(),
		statFailed:    metrics.NewCounter(),
		statQuestions: metrics.NewCounter(),
	}
	if p.log == nil {
		p.log = golog.Default()
	}
	if cfg.MetricsRegistry != nil {
		cfg.MetricsRegistry.Add("published", p.statPublished)
		cfg.MetricsRegistry.Add("failed", p.statFailed)
		cfg.MetricsRegistry.Add("questions_versioned", p.statQuestions)
	}
	return p
}

type Request struct {
	Template *saml.Intake
	SKU      string
	// Pathway defaults to the pathway of the SKU.
	Pathway string
	// Source is the authored template as written. It is archived when set.
	Source []byte
}

type Result struct {
	RunID         string
	Pathway       string
	SKU           string
	IntakeVersion string
	ReviewVersion string
	// Versioned lists the question tags versioned by this run.
	Versioned []string
	Intake    *layout.Intake
	Review    *review.Document
	// Archived is nil when no archive is configured.
	Archived *layout.ArchiveRecord
}

// Publish transforms the template, versions its questions and uploads the
// intake with its review. Nothing is versioned when the template does not
// transform. Failures to version or upload are *transform.SubmissionError.
func (p *Publisher) Publish(ctx context.Context, req *Request) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	res, err := p.publish(ctx, req)
	if err != nil {
		p.statFailed.Inc(1)
		return nil, err
	}
	p.statPublished.Inc(1)
	return res, nil
}

func (p *Publisher) publish(ctx context.Context, req *Request) (*Result, error) {
	if req.SKU == "" {
		return nil, errors.New("publish: sku required")
	}
	res := &Result{
		RunID:   uuid.NewString(),
		SKU:     req.SKU,
		Pathway: req.Pathway,
	}
	if res.Pathway == "" {
		res.Pathway = transform.PathwayFromSKU(req.SKU)
	}
	log := p.log.Context("run", res.RunID, "sku", res.SKU)

	items, err := p.client.LayoutVersions(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	versions, err := layoutadmin.NextVersions(items, req.SKU)
	if err != nil {
		return nil, errors.Trace(err)
	}
	res.IntakeVersion = versions.Intake.String()
	res.ReviewVersion = versions.Review.String()

	s, err := transform.NewSession(transform.Options{
		Pathway:   res.Pathway,
		SKU:       req.SKU,
		Versioner: p.client,
		Log:       log,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	intake, err := s.TransformIntake(ctx, req.Template)
	if err != nil {
		return nil, err
	}
	doc, err := review.Generate(intake)
	if err != nil {
		return nil, errors.Annotate(err, "generating review")
	}
	if err := layout.Check(intake); err != nil {
		return nil, errors.Trace(err)
	}
	if err := p.compareReview(log, intake, doc); err != nil {
		return nil, errors.Trace(err)
	}

	log.Infof("Versioning %d questions", s.Pending())
	err = s.Commit(ctx)
	res.Versioned = s.Versioned()
	p.statQuestions.Inc(uint64(len(res.Versioned)))
	if err != nil {
		return nil, err
	}

	intake.Version = res.IntakeVersion
	doc.Version = res.ReviewVersion
	doc.HealthCondition = intake.HealthCondition
	doc.CostItemType = intake.CostItemType
	res.Intake = intake
	res.Review = doc

	log.Infof("Uploading intake %s and review %s", res.IntakeVersion, res.ReviewVersion)
	if err := p.client.UploadLayout(ctx, &layoutadmin.LayoutUpload{
		Intake:              intake,
		Review:              doc,
		UploadConfiguration: p.upload,
	}); err != nil {
		return nil, errors.Trace(&transform.SubmissionError{Versioned: res.Versioned, Err: err})
	}

	if p.archive != nil {
		rec, err := p.archiveRun(ctx, req, res)
		if err != nil {
			// The layout is live at this point so the run still succeeds.
			log.Errorf("Failed to archive layout: %s", err)
		} else {
			res.Archived = rec
		}
	}
	log.Infof("Published intake %s and review %s for %s", res.IntakeVersion, res.ReviewVersion, res.Pathway)
	return res, nil
}

func (p *Publisher) archiveRun(ctx context.Context, req *Request, res *Result) (*layout.ArchiveRecord, error) {
	meta := map[string]string{
		"run-id":         res.RunID,
		"sku":            res.SKU,
		"review-version": res.ReviewVersion,
	}
	rec := &layout.ArchiveRecord{Pathway: res.Pathway, Version: res.IntakeVersion}
	var err error
	if req.Source != nil {
		if rec.Template, err = p.archive.PutTemplate(ctx, res.Pathway, res.IntakeVersion, req.Source, meta); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if rec.Intake, err = p.archive.PutIntake(ctx, res.Pathway, res.IntakeVersion, res.Intake, meta); err != nil {
		return nil, errors.Trace(err)
	}
	if rec.Review, err = p.archive.PutReview(ctx, res.Pathway, res.IntakeVersion, res.Review, meta); err != nil {
		return nil, errors.Trace(err)
	}
	return rec, nil
}

// compareReview logs the questions the review leaves out. A review that
// shows questions missing from the intake is an error.
func (p *Publisher) compareReview(log golog.Logger, intake *layout.Intake, doc *review.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return errors.Trace(err)
	}
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.Trace(err)
	}
	intakeOnly, reviewOnly := layout.CompareReview(intake, v)
	for _, q := range intakeOnly {
		log.Warningf("Question %s is not shown in the review", q)
	}
	if len(reviewOnly) != 0 {
		return errors.Errorf("publish: review shows questions not in the intake: %s", strings.Join(reviewOnly, ", "))
	}
	return nil
}
