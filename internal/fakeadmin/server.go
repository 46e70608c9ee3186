// Package fakeadmin is an in-memory implementation of the layout endpoints of
// the admin API for tests.
package fakeadmin

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/gorilla/schema"
	"github.com/sprucehealth/layoutadmin/layout"
)

// Upload is a layout received by the server.
type Upload struct {
	Intake            json.RawMessage
	Review            json.RawMessage
	DoctorAppVersion  string
	PatientAppVersion string
	Platform          string
}

type LayoutVersion struct {
	SKUType       string
	LayoutPurpose string
	Version       string
}

type Server struct {
	// Token, when set, must be presented as a bearer token.
	Token string
	// RejectTags lists question tags the server refuses to version.
	RejectTags map[string]bool

	mu        sync.Mutex
	questions map[string][]*layout.VersionedQuestion
	versions  []*LayoutVersion
	templates map[string]json.RawMessage
	uploads   []*Upload
}

func New() *Server {
	return &Server{
		RejectTags: make(map[string]bool),
		questions:  make(map[string][]*layout.VersionedQuestion),
		templates:  make(map[string]json.RawMessage),
	}
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.authenticate)
	r.Route("/admin/api", func(r chi.Router) {
		r.Get("/layouts/versioned_question", s.getQuestion)
		r.Post("/layouts/versioned_question", s.postQuestion)
		r.Get("/layouts/version", s.getVersions)
		r.Get("/layouts/template", s.getTemplate)
		r.Post("/layout", s.postLayout)
	})
	return r
}

// AddLayout registers a published layout and the document served for it.
func (s *Server) AddLayout(sku, purpose, version string, doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = append(s.versions, &LayoutVersion{SKUType: sku, LayoutPurpose: purpose, Version: version})
	s.templates[sku+"/"+purpose+"/"+version] = data
	return nil
}

func (s *Server) Uploads() []*Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Upload(nil), s.uploads...)
}

// Questions returns every stored version of a tag.
func (s *Server) Questions(tag string) []*layout.VersionedQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*layout.VersionedQuestion(nil), s.questions[tag]...)
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
			apiError(w, http.StatusForbidden, "Access not allowed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type questionGETRequest struct {
	Tag        string `schema:"tag,required"`
	Version    int64  `schema:"version"`
	LanguageID int64  `schema:"language_id,required"`
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	var rd questionGETRequest
	if err := decoder.Decode(&rd, r.URL.Query()); err != nil {
		apiError(w, http.StatusBadRequest, "Unable to parse input parameters: "+err.Error())
		return
	}
	s.mu.Lock()
	vs := s.questions[rd.Tag]
	s.mu.Unlock()
	if rd.Version == 0 {
		rd.Version = int64(len(vs))
	}
	if rd.Version < 1 || int(rd.Version) > len(vs) {
		apiError(w, http.StatusNotFound, fmt.Sprintf("question %s version %d not found", rd.Tag, rd.Version))
		return
	}
	jsonResponse(w, http.StatusOK, map[string]interface{}{"versioned_question": vs[rd.Version-1]})
}

func (s *Server) postQuestion(w http.ResponseWriter, r *http.Request) {
	var q layout.VersionedQuestion
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		apiError(w, http.StatusBadRequest, "Unable to parse body: "+err.Error())
		return
	}
	if q.Tag == "" || q.Type == "" || q.LanguageID == "" || q.VersionedAnswers == nil {
		apiError(w, http.StatusBadRequest, "insufficent parameters supplied to form complete query")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RejectTags[q.Tag] {
		apiError(w, http.StatusInternalServerError, "unable to version question "+q.Tag)
		return
	}
	q.Version = int64(len(s.questions[q.Tag]) + 1)
	q.ID = int64(len(s.questions)*100) + q.Version
	s.questions[q.Tag] = append(s.questions[q.Tag], &q)
	jsonResponse(w, http.StatusOK, map[string]interface{}{"versioned_question": &q})
}

func (s *Server) getVersions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	jsonResponse(w, http.StatusOK, map[string]interface{}{"items": s.versions})
}

type templateGETRequest struct {
	PathwayTag string `schema:"pathway_tag,required"`
	SKU        string `schema:"sku,required"`
	Purpose    string `schema:"purpose,required"`
	Major      int    `schema:"major,required"`
	Minor      int    `schema:"minor"`
	Patch      int    `schema:"patch"`
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	var rd templateGETRequest
	if err := decoder.Decode(&rd, r.URL.Query()); err != nil {
		apiError(w, http.StatusBadRequest, "Unable to parse input parameters: "+err.Error())
		return
	}
	key := rd.SKU + "/" + rd.Purpose + "/" + strconv.Itoa(rd.Major) + "." + strconv.Itoa(rd.Minor) + "." + strconv.Itoa(rd.Patch)
	s.mu.Lock()
	doc, ok := s.templates[key]
	s.mu.Unlock()
	if !ok {
		apiError(w, http.StatusNotFound, "no layout "+key)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (s *Server) postLayout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		apiError(w, http.StatusBadRequest, "Unable to parse form: "+err.Error())
		return
	}
	up := &Upload{
		DoctorAppVersion:  r.FormValue("doctor_app_version"),
		PatientAppVersion: r.FormValue("patient_app_version"),
		Platform:          r.FormValue("platform"),
	}
	for field, dst := range map[string]*json.RawMessage{"intake": &up.Intake, "review": &up.Review} {
		f, _, err := r.FormFile(field)
		if err != nil {
			apiError(w, http.StatusBadRequest, "missing "+field+" layout")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil || !json.Valid(data) {
			apiError(w, http.StatusBadRequest, "invalid "+field+" layout")
			return
		}
		*dst = data
	}
	s.mu.Lock()
	s.uploads = append(s.uploads, up)
	s.publishLocked("CONDITION_INTAKE", up.Intake)
	s.publishLocked("REVIEW", up.Review)
	s.mu.Unlock()
	jsonResponse(w, http.StatusOK, struct{}{})
}

// publishLocked makes an uploaded layout that names its SKU and version
// available as a published version.
func (s *Server) publishLocked(purpose string, doc json.RawMessage) {
	var head struct {
		CostItemType string `json:"cost_item_type"`
		Version      string `json:"version"`
	}
	if json.Unmarshal(doc, &head) != nil || head.CostItemType == "" || head.Version == "" {
		return
	}
	s.versions = append(s.versions, &LayoutVersion{SKUType: head.CostItemType, LayoutPurpose: purpose, Version: head.Version})
	s.templates[head.CostItemType+"/"+purpose+"/"+head.Version] = doc
}

func jsonResponse(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func apiError(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, map[string]interface{}{"error": map[string]string{"message": msg}})
}
