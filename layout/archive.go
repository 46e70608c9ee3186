package layout

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"path"
	"sync"

	"github.com/goccy/go-json"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/storage"
)

const (
	intakeObject   = "intake.json.gz"
	reviewObject   = "review.json.gz"
	templateObject = "template.yaml.gz"
)

// Archive keeps a gzip compressed copy of every published layout: the
// authored template, the normalized intake and the generated review.
type Archive struct {
	store storage.Store
}

// ArchiveRecord lists the IDs written for one published version.
type ArchiveRecord struct {
	Pathway  string
	Version  string
	Template string
	Intake   string
	Review   string
}

var (
	gzipReaderPool sync.Pool
	gzipWriterPool sync.Pool
)

func NewArchive(store storage.Store) *Archive {
	return &Archive{store: store}
}

// ObjectName returns the name under which a document of a version is stored.
func ObjectName(pathway, version, object string) string {
	return path.Join(pathway, version, object)
}

// PutTemplate stores the authored template source.
func (a *Archive) PutTemplate(ctx context.Context, pathway, version string, src []byte, meta map[string]string) (string, error) {
	return a.putCompressed(ctx, ObjectName(pathway, version, templateObject), "application/x-yaml", meta, func(w io.Writer) error {
		_, err := w.Write(src)
		return err
	})
}

func (a *Archive) PutIntake(ctx context.Context, pathway, version string, intake *Intake, meta map[string]string) (string, error) {
	return a.putCompressed(ctx, ObjectName(pathway, version, intakeObject), "application/json", meta, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(intake)
	})
}

// PutReview stores any JSON encodable review document.
func (a *Archive) PutReview(ctx context.Context, pathway, version string, review interface{}, meta map[string]string) (string, error) {
	return a.putCompressed(ctx, ObjectName(pathway, version, reviewObject), "application/json", meta, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(review)
	})
}

func (a *Archive) GetTemplate(ctx context.Context, id string) ([]byte, error) {
	r, err := a.getCompressed(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	return b, errors.Trace(err)
}

func (a *Archive) GetIntake(ctx context.Context, id string) (*Intake, error) {
	var intake Intake
	if err := a.GetJSON(ctx, id, &intake); err != nil {
		return nil, errors.Trace(err)
	}
	return &intake, nil
}

// GetJSON decodes a stored JSON document into v.
func (a *Archive) GetJSON(ctx context.Context, id string, v interface{}) error {
	r, err := a.getCompressed(ctx, id)
	if err != nil {
		return errors.Trace(err)
	}
	defer r.Close()
	return errors.Trace(json.NewDecoder(r).Decode(v))
}

// Record returns the IDs a version's documents are (or would be) stored under.
func (a *Archive) Record(pathway, version string) *ArchiveRecord {
	return &ArchiveRecord{
		Pathway:  pathway,
		Version:  version,
		Template: a.store.IDFromName(ObjectName(pathway, version, templateObject)),
		Intake:   a.store.IDFromName(ObjectName(pathway, version, intakeObject)),
		Review:   a.store.IDFromName(ObjectName(pathway, version, reviewObject)),
	}
}

func (a *Archive) putCompressed(ctx context.Context, name, contentType string, meta map[string]string, writeFunc func(w io.Writer) error) (string, error) {
	var writer *gzipWriter
	if w := gzipWriterPool.Get(); w != nil {
		writer = w.(*gzipWriter)
		writer.Reset()
	} else {
		writer = newGzipWriter()
	}
	defer gzipWriterPool.Put(writer)

	if err := writeFunc(writer.zw); err != nil {
		return "", errors.Trace(err)
	}
	if err := writer.zw.Close(); err != nil {
		return "", errors.Trace(err)
	}

	m := map[string]string{"Content-Encoding": "gzip"}
	for k, v := range meta {
		m[k] = v
	}
	id, err := a.store.Put(ctx, name, writer.buffer.Bytes(), contentType, m)
	return id, errors.Trace(err)
}

func (a *Archive) getCompressed(ctx context.Context, id string) (io.ReadCloser, error) {
	rc, _, err := a.store.GetReader(ctx, id)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &gzipReadCloser{rc: rc}, nil
}

type gzipWriter struct {
	buffer bytes.Buffer
	zw     *gzip.Writer
}

func newGzipWriter() *gzipWriter {
	w := &gzipWriter{}
	w.zw = gzip.NewWriter(&w.buffer)
	return w
}

func (w *gzipWriter) Reset() {
	w.buffer.Reset()
	w.zw.Reset(&w.buffer)
}

type gzipReadCloser struct {
	rc io.ReadCloser
	zr *gzip.Reader
}

func (gz *gzipReadCloser) Read(b []byte) (int, error) {
	if gz.zr == nil {
		if r := gzipReaderPool.Get(); r != nil {
			zr := r.(*gzip.Reader)
			if err := zr.Reset(gz.rc); err != nil {
				return 0, err
			}
			gz.zr = zr
		} else {
			zr, err := gzip.NewReader(gz.rc)
			if err != nil {
				return 0, err
			}
			gz.zr = zr
		}
	}
	return gz.zr.Read(b)
}

func (gz *gzipReadCloser) Close() error {
	err := gz.rc.Close()
	if gz.zr != nil {
		if e := gz.zr.Close(); err == nil {
			err = e
		}
		gzipReaderPool.Put(gz.zr)
		gz.zr = nil
	}
	return err
}
