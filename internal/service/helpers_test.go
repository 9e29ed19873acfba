package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/database"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/grader"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/normalizer"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"gorm.io/gorm"
)

// testApp wires the services on a private in-memory database.
type testApp struct {
	db          *gorm.DB
	tracks      repository.TrackRepository
	sections    repository.SectionRepository
	questions   repository.QuestionRepository
	submissions repository.SubmissionRepository

	ingest      TrackIngestService
	admin       AdminTrackService
	user        UserTrackService
	questionSvc QuestionAdminService
	submit      SubmissionService
	manual      ManualGradingService
}

type stubLLM struct {
	draft []byte
	err   error
}

func (s stubLLM) DraftTrack(context.Context, dto.DraftRequest) ([]byte, error) {
	return s.draft, s.err
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithLLM(t, stubLLM{err: ErrAIUnavailable})
}

func newTestAppWithLLM(t *testing.T, llm GeminiLLMService) *testApp {
	t.Helper()
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
	norm := normalizer.New(reg)
	g := grader.New(reg, grader.WithWorkers(4))
	bands := NewBandConverterService()

	app := &testApp{
		db:          db,
		tracks:      repository.NewTrackRepository(db),
		sections:    repository.NewSectionRepository(db),
		questions:   repository.NewQuestionRepository(db),
		submissions: repository.NewSubmissionRepository(db),
	}
	app.ingest = NewTrackIngestService(app.tracks, app.sections, app.questions, reg, norm, db)
	app.admin = NewAdminTrackService(app.tracks, app.ingest, llm, reg)
	app.user = NewUserTrackService(app.tracks, reg)
	app.questionSvc = NewQuestionAdminService(app.questions, norm, db)
	app.submit = NewSubmissionService(app.tracks, app.sections, app.questions, app.submissions, g, bands)
	app.manual = NewManualGradingService(app.tracks, app.questions, app.submissions, g, bands, reg)
	return app
}

// document builds an ingest document; sections holds the raw questions of
// each section in order.
func document(testType string, sections ...[]string) []byte {
	doc := map[string]any{
		"test_type":        testType,
		"title":            "Practice " + testType,
		"description":      "generated in tests",
		"duration_seconds": 1800,
	}
	var secs []map[string]any
	for i, qs := range sections {
		raws := make([]json.RawMessage, len(qs))
		for j, q := range qs {
			raws[j] = json.RawMessage(q)
		}
		secs = append(secs, map[string]any{
			"index":        i + 1,
			"title":        fmt.Sprintf("Part %d", i+1),
			"instructions": "Answer the questions.",
			"questions":    raws,
		})
	}
	doc["sections"] = secs
	raw, err := json.Marshal(doc)
	if err != nil {
		panic(err)
	}
	return raw
}

// gapQuestion is a one-blank fill_gaps item; an empty key leaves it out.
func gapQuestion(index int, key string) string {
	if key == "" {
		return fmt.Sprintf(`{"index":%d,"type":"fill_gaps","text_with_blanks":"Item %d: ___"}`, index, index)
	}
	return fmt.Sprintf(`{"index":%d,"type":"fill_gaps","text_with_blanks":"Item %d: ___","answer_keys":[%q]}`, index, index, key)
}

func mustIngest(t *testing.T, app *testApp, raw []byte) *dto.IngestReport {
	t.Helper()
	report, err := app.ingest.Ingest(context.Background(), raw)
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	return report
}

func mustActivate(t *testing.T, app *testApp, trackID string) {
	t.Helper()
	if err := app.admin.UpdateStatus(context.Background(), trackID, dto.TrackStatusRequest{Status: model.TrackStatusActive}); err != nil {
		t.Fatalf("activate track: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func answers(pairs map[string]any) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(pairs))
	for k, v := range pairs {
		raw, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		out[k] = raw
	}
	return out
}
