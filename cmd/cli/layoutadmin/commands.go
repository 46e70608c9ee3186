package main

import (
	"context"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/go-multierror"
	"github.com/samuel/go-metrics/metrics"
	"github.com/sprucehealth/layoutadmin"
	"github.com/sprucehealth/layoutadmin/layout"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/publish"
	"github.com/sprucehealth/layoutadmin/review"
	"github.com/sprucehealth/layoutadmin/saml"
	"github.com/sprucehealth/layoutadmin/transform"
)

type templateArg struct {
	Template string `positional-arg-name:"template" description:"Template file, - for stdin" required:"yes"`
}

type pathwayOptions struct {
	Pathway string `long:"pathway" description:"Pathway tag, defaults to the pathway of --sku"`
	SKU     string `long:"sku" description:"Visit SKU, defaults to the SKU of --pathway"`
}

func (o *pathwayOptions) resolve() (pathway, sku string, err error) {
	pathway, sku = o.Pathway, o.SKU
	switch {
	case pathway == "" && sku == "":
		return "", "", errors.New("--pathway or --sku required")
	case pathway == "":
		pathway = transform.PathwayFromSKU(sku)
	case sku == "":
		sku = transform.CostItemType(pathway)
	}
	return pathway, sku, nil
}

func (c *config) context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

type transformCmd struct {
	cnf *config
	pathwayOptions
	Commit    bool        `long:"commit" description:"Version the questions with the admin API"`
	Questions bool        `long:"questions" description:"Print the normalized questions instead of the layout"`
	Args      templateArg `positional-args:"yes"`
}

func (cmd *transformCmd) Execute(args []string) error {
	pathway, sku, err := cmd.resolve()
	if err != nil {
		return err
	}
	in, _, err := cmd.cnf.readTemplate(cmd.Args.Template)
	if err != nil {
		return err
	}
	opts := transform.Options{Pathway: pathway, SKU: sku, Log: cmd.cnf.log}
	if cmd.Commit {
		cli, err := cmd.cnf.client()
		if err != nil {
			return err
		}
		opts.Versioner = cli
	}
	s, err := transform.NewSession(opts)
	if err != nil {
		return err
	}
	intake, err := s.TransformIntake(cmd.cnf.context(), in)
	if err != nil {
		return err
	}
	if cmd.Commit {
		if err := s.Commit(cmd.cnf.context()); err != nil {
			return err
		}
		cmd.cnf.log.Infof("Versioned %d questions", len(s.Versioned()))
	}
	if cmd.Questions {
		var qs []*layout.VersionedQuestion
		for _, q := range intake.Questions() {
			qs = append(qs, q.Details)
		}
		return cmd.cnf.printJSON(qs)
	}
	return cmd.cnf.printJSON(intake)
}

type reviewCmd struct {
	cnf *config
	pathwayOptions
	Args templateArg `positional-args:"yes"`
}

func (cmd *reviewCmd) Execute(args []string) error {
	pathway, sku, err := cmd.resolve()
	if err != nil {
		return err
	}
	in, _, err := cmd.cnf.readTemplate(cmd.Args.Template)
	if err != nil {
		return err
	}
	s, err := transform.NewSession(transform.Options{Pathway: pathway, SKU: sku, Log: cmd.cnf.log})
	if err != nil {
		return err
	}
	intake, err := s.TransformIntake(cmd.cnf.context(), in)
	if err != nil {
		return err
	}
	doc, err := review.Generate(intake)
	if err != nil {
		return err
	}
	return cmd.cnf.printJSON(doc)
}

type validateCmd struct {
	cnf  *config
	Args struct {
		Templates []string `positional-arg-name:"template" required:"1"`
	} `positional-args:"yes"`
}

func (cmd *validateCmd) Execute(args []string) error {
	var invalid int
	for _, path := range cmd.Args.Templates {
		in, _, err := cmd.cnf.readTemplate(path)
		if err == nil {
			err = transform.Validate(in)
		}
		if err == nil {
			cmd.cnf.printf("%s: ok\n", path)
			continue
		}
		invalid++
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				cmd.cnf.printf("%s: %s\n", path, e)
			}
		} else {
			cmd.cnf.printf("%s: %s\n", path, err)
		}
	}
	if invalid != 0 {
		return errors.Errorf("%d of %d templates are invalid", invalid, len(cmd.Args.Templates))
	}
	return nil
}

type publishCmd struct {
	cnf               *config
	SKU               string      `long:"sku" description:"Visit SKU to publish" required:"yes"`
	Pathway           string      `long:"pathway" description:"Pathway tag, defaults to the pathway of the SKU"`
	DoctorAppVersion  string      `long:"doctor_app_version" description:"Minimum doctor app version"`
	PatientAppVersion string      `long:"patient_app_version" description:"Minimum patient app version"`
	Platform          string      `long:"platform" description:"Client platform"`
	Stats             bool        `long:"stats" description:"Print request and publish counters when done"`
	Args              templateArg `positional-args:"yes"`
}

func (cmd *publishCmd) Execute(args []string) error {
	in, src, err := cmd.cnf.readTemplate(cmd.Args.Template)
	if err != nil {
		return err
	}
	cli, err := cmd.cnf.client()
	if err != nil {
		return err
	}
	archive, err := cmd.cnf.archive()
	if err != nil {
		return err
	}
	p := publish.New(publish.Config{
		Client:  cli,
		Archive: archive,
		Upload: layoutadmin.UploadConfiguration{
			DoctorAppVersion:  cmd.DoctorAppVersion,
			PatientAppVersion: cmd.PatientAppVersion,
			Platform:          cmd.Platform,
		},
		Log:             cmd.cnf.log,
		MetricsRegistry: cmd.cnf.metrics.Scope("publish"),
	})
	res, err := p.Publish(cmd.cnf.context(), &publish.Request{
		Template: in,
		SKU:      cmd.SKU,
		Pathway:  cmd.Pathway,
		Source:   src,
	})
	if cmd.Stats {
		defer cmd.printStats()
	}
	if err != nil {
		return err
	}
	cmd.cnf.printf("run %s\n", res.RunID)
	cmd.cnf.printf("intake %s %s\n", res.SKU, res.IntakeVersion)
	cmd.cnf.printf("review %s %s\n", res.SKU, res.ReviewVersion)
	cmd.cnf.printf("questions versioned: %d\n", len(res.Versioned))
	if a := res.Archived; a != nil {
		for _, id := range []string{a.Template, a.Intake, a.Review} {
			if id != "" {
				cmd.cnf.printf("archived %s\n", id)
			}
		}
	}
	return nil
}

func (cmd *publishCmd) printStats() {
	var names []string
	values := make(map[string]uint64)
	_ = cmd.cnf.metrics.Do(func(name string, value interface{}) error {
		switch v := value.(type) {
		case *metrics.Counter:
			values[name] = v.Count()
		case metrics.Histogram:
			values[name] = v.Distribution().Count
		default:
			return nil
		}
		names = append(names, name)
		return nil
	})
	sort.Strings(names)
	for _, n := range names {
		cmd.cnf.printf("%s %d\n", n, values[n])
	}
}

type versionsCmd struct {
	cnf *config
	SKU string `long:"sku" description:"Only list versions of this SKU and print the next versions"`
}

func (cmd *versionsCmd) Execute(args []string) error {
	cli, err := cmd.cnf.client()
	if err != nil {
		return err
	}
	items, err := cli.LayoutVersions(cmd.cnf.context())
	if err != nil {
		return err
	}
	for _, it := range items {
		if cmd.SKU == "" || it.SKUType == cmd.SKU {
			cmd.cnf.printf("%s %s %s\n", it.SKUType, it.LayoutPurpose, it.Version)
		}
	}
	if cmd.SKU == "" {
		return nil
	}
	next, err := layoutadmin.NextVersions(items, cmd.SKU)
	if err != nil {
		return err
	}
	cmd.cnf.printf("next %s %s %s\n", cmd.SKU, layoutadmin.PurposeIntake, next.Intake)
	cmd.cnf.printf("next %s %s %s\n", cmd.SKU, layoutadmin.PurposeReview, next.Review)
	return nil
}

type expandCmd struct {
	cnf *config
	pathwayOptions
	Version     string `long:"version" description:"Intake layout version to expand"`
	ArchiveID   string `long:"archive_id" description:"Expand an archived intake instead of a published one"`
	Concurrency int    `long:"concurrency" description:"Maximum concurrent question lookups"`
}

func (cmd *expandCmd) Execute(args []string) error {
	ctx := cmd.cnf.context()
	cli, err := cmd.cnf.client()
	if err != nil {
		return err
	}
	intake := &layout.Intake{}
	switch {
	case cmd.ArchiveID != "":
		archive, err := cmd.cnf.archive()
		if err != nil {
			return err
		}
		if archive == nil {
			return errors.New("--archive_id requires an archive to be configured")
		}
		if intake, err = archive.GetIntake(ctx, cmd.ArchiveID); err != nil {
			return err
		}
	case cmd.Version != "":
		pathway, sku, err := cmd.resolve()
		if err != nil {
			return err
		}
		v, err := semver.NewVersion(cmd.Version)
		if err != nil {
			return errors.Annotatef(errors.Trace(err), "invalid version %q", cmd.Version)
		}
		q := &layoutadmin.TemplateQuery{PathwayTag: pathway, SKU: sku, Purpose: layoutadmin.PurposeIntake}
		q.SetVersion(v)
		if err := cli.LayoutTemplate(ctx, q, intake); err != nil {
			return err
		}
	default:
		return errors.New("--version or --archive_id required")
	}
	tmpl, err := transform.Expand(ctx, intake, cli, cmd.Concurrency)
	if err != nil {
		return err
	}
	b, err := saml.Encode(tmpl)
	if err != nil {
		return err
	}
	_, err = cmd.cnf.stdout.Write(b)
	return errors.Trace(err)
}
