package layoutadmin

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/goccy/go-json"
	"github.com/sprucehealth/layoutadmin/libs/errors"
)

// LayoutUpload is a new intake layout and its review.
type LayoutUpload struct {
	Intake interface{}
	Review interface{}
	UploadConfiguration
}

// UploadLayout publishes a new intake and review layout.
func (c *Client) UploadLayout(ctx context.Context, up *LayoutUpload) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writeJSONPart(writer, "intake", "intake.json", up.Intake); err != nil {
		return err
	}
	if err := writeJSONPart(writer, "review", "review.json", up.Review); err != nil {
		return err
	}
	cfg := up.UploadConfiguration.withDefaults()
	for _, f := range [][2]string{
		{"doctor_app_version", cfg.DoctorAppVersion},
		{"patient_app_version", cfg.PatientAppVersion},
		{"platform", cfg.Platform},
	} {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return errors.Trace(err)
		}
	}
	if err := writer.Close(); err != nil {
		return errors.Trace(err)
	}

	if err := c.b.CallMultipart(ctx, http.MethodPost, "layout", writer.Boundary(), body, nil); err != nil {
		return errors.Annotate(err, "uploading layout")
	}
	return nil
}

func writeJSONPart(w *multipart.Writer, field, filename string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Annotatef(errors.Trace(err), "encoding %s", field)
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", "application/json")
	part, err := w.CreatePart(h)
	if err != nil {
		return errors.Trace(err)
	}
	_, err = part.Write(data)
	return errors.Trace(err)
}
