package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/database"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/grader"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/normalizer"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/service"
)

const readingDoc = `{
  "test_type": "reading",
  "title": "Coral reefs",
  "duration_seconds": 3600,
  "sections": [{
    "index": 1,
    "title": "Passage 1",
    "passage_text": "Reefs cover less than one percent of the ocean floor.",
    "questions": [
      {"index": 1, "type": "fill_gaps", "text_with_blanks": "Reefs cover less than ___ percent", "answer_keys": ["one|1"]},
      {"index": 2, "type": "fill_gaps", "text_with_blanks": "of the ocean ___", "answer_keys": ["floor"]}
    ]
  }]
}`

// newUserRouter serves the candidate routes over an active reading track.
func newUserRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = ":memory:"
	db, err := database.NewDatabase(cfg)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	reg := registry.New()
	tracks := repository.NewTrackRepository(db)
	sections := repository.NewSectionRepository(db)
	questions := repository.NewQuestionRepository(db)
	submissions := repository.NewSubmissionRepository(db)

	ingest := service.NewTrackIngestService(tracks, sections, questions, reg, normalizer.New(reg), db)
	report, err := ingest.Ingest(context.Background(), []byte(readingDoc))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	admin := service.NewAdminTrackService(tracks, ingest, nil, reg)
	if err := admin.UpdateStatus(context.Background(), report.TrackID, dto.TrackStatusRequest{Status: model.TrackStatusActive}); err != nil {
		t.Fatalf("activate: %v", err)
	}

	ctrl := NewUserTrackController(
		service.NewUserTrackService(tracks, reg),
		service.NewSubmissionService(tracks, sections, questions, submissions, grader.New(reg), service.NewBandConverterService()),
	)
	r := gin.New()
	group := r.Group("/api/v1")
	group.GET("/tracks", ctrl.GetActiveTracks)
	group.GET("/tracks/:track_id", ctrl.GetTrackDetails)
	group.POST("/tracks/:track_id/submissions", ctrl.StartSubmission)
	group.GET("/tracks/:track_id/submissions", ctrl.GetSubmissions)
	group.POST("/submissions", ctrl.SubmitDocument)
	group.GET("/submissions/:submission_id", ctrl.GetSubmission)
	group.PUT("/submissions/:submission_id/answers", ctrl.SaveAnswers)
	group.POST("/submissions/:submission_id/submit", ctrl.Submit)
	return r, report.TrackID
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSubmission(t *testing.T, w *httptest.ResponseRecorder) dto.SubmissionDTO {
	t.Helper()
	var sub dto.SubmissionDTO
	if err := json.Unmarshal(w.Body.Bytes(), &sub); err != nil {
		t.Fatalf("decode submission: %v (body %s)", err, w.Body.String())
	}
	return sub
}

func TestCandidateFlow(t *testing.T) {
	r, trackID := newUserRouter(t)

	w := do(r, http.MethodGet, "/api/v1/tracks/"+trackID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("track details status = %d", w.Code)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("one|1")) {
		t.Errorf("candidate view leaks answer keys: %s", w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/v1/tracks/"+trackID+"/submissions", `{"submitter_id":"cand-7"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("start status = %d, body %s", w.Code, w.Body.String())
	}
	sub := decodeSubmission(t, w)

	w = do(r, http.MethodPut, "/api/v1/submissions/"+sub.ID+"/answers", `{"answers":{"1":"1","2":"Floor"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/v1/submissions/"+sub.ID+"/submit", "")
	if w.Code != http.StatusOK {
		t.Fatalf("submit status = %d, body %s", w.Code, w.Body.String())
	}
	graded := decodeSubmission(t, w)
	if graded.State != model.SubmissionAutoGraded || graded.RawScore != 2 {
		t.Errorf("graded = %s %v/%v", graded.State, graded.RawScore, graded.MaxScore)
	}
	if graded.Band == nil || *graded.Band != 9 {
		t.Errorf("band = %v, want 9", graded.Band)
	}

	w = do(r, http.MethodPut, "/api/v1/submissions/"+sub.ID+"/answers", `{"answers":{"1":"two"}}`)
	if w.Code != http.StatusConflict {
		t.Errorf("save after submit = %d, want 409", w.Code)
	}

	w = do(r, http.MethodGet, "/api/v1/tracks/"+trackID+"/submissions?submitter_id=cand-7", "")
	var list []dto.SubmissionDTO
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Errorf("history = %s (%v)", w.Body.String(), err)
	}
}

func TestSubmitDocumentGradesAtOnce(t *testing.T) {
	r, trackID := newUserRouter(t)
	body := `{"track_id":"` + trackID + `","submitter_id":"cand-8","answers":{"1":"one"}}`

	w := do(r, http.MethodPost, "/api/v1/submissions", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	sub := decodeSubmission(t, w)
	if sub.State != model.SubmissionAutoGraded || sub.RawScore != 1 || sub.MaxScore != 2 {
		t.Errorf("submission = %s %v/%v", sub.State, sub.RawScore, sub.MaxScore)
	}

	w = do(r, http.MethodGet, "/api/v1/submissions/"+sub.ID, "")
	if w.Code != http.StatusOK {
		t.Errorf("get status = %d", w.Code)
	}
}

func TestUserErrorStatuses(t *testing.T) {
	r, trackID := newUserRouter(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown track", http.MethodGet, "/api/v1/tracks/nope", "", http.StatusNotFound},
		{"start on unknown track", http.MethodPost, "/api/v1/tracks/nope/submissions", `{"submitter_id":"c"}`, http.StatusNotFound},
		{"start without submitter", http.MethodPost, "/api/v1/tracks/" + trackID + "/submissions", `{}`, http.StatusBadRequest},
		{"history without submitter", http.MethodGet, "/api/v1/tracks/" + trackID + "/submissions", "", http.StatusBadRequest},
		{"unknown submission", http.MethodGet, "/api/v1/submissions/nope", "", http.StatusNotFound},
		{"submit unknown submission", http.MethodPost, "/api/v1/submissions/nope/submit", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("%s %s = %d, want %d (body %s)", tt.method, tt.path, w.Code, tt.want, w.Body.String())
			}
		})
	}
}
