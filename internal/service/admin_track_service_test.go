package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/validation"
)

func TestTrackStatusTransitions(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	report := mustIngest(t, app, document("reading", []string{gapQuestion(1, "a")}))

	steps := []struct {
		to      string
		wantErr error
	}{
		{model.TrackStatusArchived, ErrInvalidTransition},
		{model.TrackStatusDraft, nil},
		{model.TrackStatusActive, nil},
		{model.TrackStatusDraft, ErrInvalidTransition},
		{model.TrackStatusArchived, nil},
		{model.TrackStatusActive, nil},
		{"published", ErrInvalidRequest},
	}
	for _, step := range steps {
		err := app.admin.UpdateStatus(ctx, report.TrackID, dto.TrackStatusRequest{Status: step.to})
		if !errors.Is(err, step.wantErr) {
			t.Errorf("UpdateStatus(%s) error = %v, want %v", step.to, err, step.wantErr)
		}
	}
	if err := app.admin.UpdateStatus(ctx, "missing", dto.TrackStatusRequest{Status: model.TrackStatusActive}); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("UpdateStatus(missing) error = %v, want ErrTrackNotFound", err)
	}
}

func TestCatalogueShowsActiveTracksWithoutKeys(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	draft := mustIngest(t, app, document("reading", []string{gapQuestion(1, "secret")}))
	active := mustIngest(t, app, document("listening", []string{gapQuestion(1, "secret"), gapQuestion(2, "")}))
	mustActivate(t, app, active.TrackID)

	tracks, err := app.user.GetActiveTracks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tracks) != 1 || tracks[0].ID != active.TrackID || tracks[0].QuestionCount != 2 || tracks[0].SectionCount != 1 {
		t.Fatalf("active tracks = %+v", tracks)
	}

	if _, err := app.user.GetTrackDetails(ctx, draft.TrackID); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("student view of a draft error = %v, want ErrTrackNotFound", err)
	}
	view, err := app.user.GetTrackDetails(ctx, active.TrackID)
	if err != nil {
		t.Fatal(err)
	}
	for _, q := range view.Sections[0].Questions {
		if strings.Contains(string(q.Payload), "secret") {
			t.Errorf("student payload leaks the key: %s", q.Payload)
		}
		if q.NeedsAnswerKey {
			t.Errorf("student view exposes needs_answer_key on question %d", q.Index)
		}
	}

	full, err := app.admin.GetTrackDetails(ctx, active.TrackID)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(full.Sections[0].Questions[0].Payload), "secret") {
		t.Errorf("admin payload lacks the key: %s", full.Sections[0].Questions[0].Payload)
	}
	if !full.Sections[0].Questions[1].NeedsAnswerKey {
		t.Error("admin view should flag the missing key")
	}

	all, err := app.admin.GetTracks(ctx, "")
	if err != nil || len(all) != 2 {
		t.Errorf("GetTracks(all) = %d, %v", len(all), err)
	}
	drafts, err := app.admin.GetTracks(ctx, model.TrackStatusDraft)
	if err != nil || len(drafts) != 1 || drafts[0].ID != draft.TrackID {
		t.Errorf("GetTracks(draft) = %+v, %v", drafts, err)
	}
}

func TestDeleteQuestionKeepsIndicesDense(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	var first, second []string
	for i := 1; i <= 5; i++ {
		first = append(first, gapQuestion(i, "a"))
		second = append(second, gapQuestion(i+5, "a"))
	}
	report := mustIngest(t, app, document("reading", first, second))

	before, err := app.questions.FindByTrackID(ctx, report.TrackID)
	if err != nil {
		t.Fatal(err)
	}
	deleted := map[string]bool{before[2].ID: true, before[6].ID: true, before[9].ID: true}
	for id := range deleted {
		if err := app.questionSvc.DeleteQuestion(ctx, id); err != nil {
			t.Fatalf("DeleteQuestion() error = %v", err)
		}
	}

	after, err := app.questions.FindByTrackID(ctx, report.TrackID)
	if err != nil {
		t.Fatal(err)
	}
	var wantOrder []string
	for _, q := range before {
		if !deleted[q.ID] {
			wantOrder = append(wantOrder, q.ID)
		}
	}
	if len(after) != len(wantOrder) {
		t.Fatalf("%d questions left, want %d", len(after), len(wantOrder))
	}
	for i, q := range after {
		if q.Index != i+1 || q.ID != wantOrder[i] {
			t.Errorf("position %d: index %d id %s, want index %d id %s", i, q.Index, q.ID, i+1, wantOrder[i])
		}
	}

	if err := app.questionSvc.DeleteQuestion(ctx, before[2].ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("deleting twice error = %v, want ErrQuestionNotFound", err)
	}
}

func TestUpdateQuestionRejectsBadPatches(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	report := mustIngest(t, app, document("reading", []string{gapQuestion(1, "")}))
	questions, err := app.questions.FindByTrackID(ctx, report.TrackID)
	if err != nil {
		t.Fatal(err)
	}
	id := questions[0].ID

	if _, err := app.questionSvc.UpdateQuestion(ctx, id, dto.QuestionPatch{}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty patch error = %v, want ErrInvalidRequest", err)
	}
	var verrs validation.Errors
	if _, err := app.questionSvc.UpdateQuestion(ctx, id, dto.QuestionPatch{"type": "mcq_single"}); !errors.As(err, &verrs) {
		t.Errorf("kind change error = %v, want validation errors", err)
	}
	if _, err := app.questionSvc.UpdateQuestion(ctx, "missing", dto.QuestionPatch{"marks": 2}); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("unknown question error = %v, want ErrQuestionNotFound", err)
	}

	updated, err := app.questionSvc.UpdateQuestion(ctx, id, dto.QuestionPatch{"answer_keys": []any{"filled"}, "marks": 2})
	if err != nil {
		t.Fatalf("UpdateQuestion() error = %v", err)
	}
	if updated.NeedsAnswerKey || updated.Marks != 2 || updated.Index != 1 {
		t.Errorf("updated = %+v", updated)
	}
}

func TestDeleteTrackCascades(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	report := mustIngest(t, app, document("reading", []string{gapQuestion(1, "a")}))
	mustActivate(t, app, report.TrackID)
	if _, err := app.submit.StartSubmission(ctx, report.TrackID, dto.StartSubmissionRequest{SubmitterID: "c"}); err != nil {
		t.Fatal(err)
	}

	if err := app.admin.DeleteTrack(ctx, report.TrackID); err != nil {
		t.Fatalf("DeleteTrack() error = %v", err)
	}
	for name, m := range map[string]any{"tracks": &model.Track{}, "sections": &model.Section{}, "questions": &model.Question{}, "submissions": &model.Submission{}} {
		if n := countRows(t, app.db, m); n != 0 {
			t.Errorf("%s has %d rows after delete", name, n)
		}
	}
	if err := app.admin.DeleteTrack(ctx, report.TrackID); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("second delete error = %v, want ErrTrackNotFound", err)
	}
}

func TestGenerateDraftIngestsTheDraft(t *testing.T) {
	draft := document("writing",
		[]string{`{"type":"writing_task1","prompt":"Describe the graph.","min_words":150}`},
		[]string{`{"type":"writing_task2","prompt":"Agree or disagree?","min_words":250}`},
	)
	app := newTestAppWithLLM(t, stubLLM{draft: draft})
	ctx := context.Background()

	report, err := app.admin.GenerateDraft(ctx, dto.DraftRequest{TestType: "writing", Topic: "cities"})
	if err != nil {
		t.Fatalf("GenerateDraft() error = %v", err)
	}
	if report.QuestionsCreated != 2 || report.TrackID == "" {
		t.Errorf("report = %+v", report)
	}

	if _, err := app.admin.GenerateDraft(ctx, dto.DraftRequest{TestType: "speaking", Topic: "x"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("bad test type error = %v, want ErrInvalidRequest", err)
	}
	offline := newTestApp(t)
	if _, err := offline.admin.GenerateDraft(ctx, dto.DraftRequest{TestType: "reading", Topic: "x"}); !errors.Is(err, ErrAIUnavailable) {
		t.Errorf("offline error = %v, want ErrAIUnavailable", err)
	}
}
