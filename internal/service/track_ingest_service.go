package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/model"
	"github.com/lshigami/ieltsprep/internal/normalizer"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/validation"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxSections         = 4
	maxObjectiveItems   = 40
	maxWritingQuestions = 2
)

// TrackIngestService turns a whole-track document into persisted rows.
type TrackIngestService interface {
	// Ingest validates and writes the document in one transaction. On failure
	// the returned error is a validation.Errors and the report lists it.
	Ingest(ctx context.Context, raw []byte) (*dto.IngestReport, error)
	// Validate runs every check Ingest runs without writing anything.
	Validate(ctx context.Context, raw []byte) (*dto.IngestReport, error)
}

type trackIngestService struct {
	trackRepo    repository.TrackRepository
	sectionRepo  repository.SectionRepository
	questionRepo repository.QuestionRepository
	reg          *registry.Registry
	normalizer   *normalizer.Normalizer
	db           *gorm.DB
}

func NewTrackIngestService(
	trackRepo repository.TrackRepository,
	sectionRepo repository.SectionRepository,
	questionRepo repository.QuestionRepository,
	reg *registry.Registry,
	norm *normalizer.Normalizer,
	db *gorm.DB,
) TrackIngestService {
	return &trackIngestService{
		trackRepo:    trackRepo,
		sectionRepo:  sectionRepo,
		questionRepo: questionRepo,
		reg:          reg,
		normalizer:   norm,
		db:           db,
	}
}

// ingestPlan is a fully validated document ready to be written.
type ingestPlan struct {
	track     model.Track
	sections  []model.Section
	questions []model.Question
}

func (s *trackIngestService) Validate(ctx context.Context, raw []byte) (*dto.IngestReport, error) {
	_, report, errs := s.prepare(raw)
	if errs.HasFatal() {
		return report, errs.Fatal()
	}
	return report, nil
}

func (s *trackIngestService) Ingest(ctx context.Context, raw []byte) (*dto.IngestReport, error) {
	plan, report, errs := s.prepare(raw)
	if errs.HasFatal() {
		log.Warn().Int("errors", len(report.Errors)).Msg("Ingest rejected: document has fatal errors")
		return report, errs.Fatal()
	}
	if err := ctx.Err(); err != nil {
		return s.persistFailure(report, err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.trackRepo.WithTx(tx).Create(ctx, &plan.track); err != nil {
			return fmt.Errorf("create track: %w", err)
		}
		if err := s.sectionRepo.WithTx(tx).CreateBatch(ctx, plan.sections); err != nil {
			return fmt.Errorf("create sections: %w", err)
		}
		if err := s.questionRepo.WithTx(tx).CreateBatch(ctx, plan.questions); err != nil {
			return fmt.Errorf("create questions: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("trackID", plan.track.ID).Msg("Ingest: transaction failed, nothing was written")
		return s.persistFailure(report, err)
	}

	report.TrackID = plan.track.ID
	log.Info().
		Str("trackID", plan.track.ID).
		Str("testType", plan.track.TestType).
		Int("sections", report.SectionsCreated).
		Int("questions", report.QuestionsCreated).
		Int("warnings", len(report.Warnings)).
		Msg("Track ingested")
	return report, nil
}

func (s *trackIngestService) persistFailure(report *dto.IngestReport, err error) (*dto.IngestReport, error) {
	errs := validation.Errors{validation.New(validation.KindPersistenceFailure, "", "commit failed: %v", err)}
	report.TrackID = ""
	report.SectionsCreated = 0
	report.QuestionsCreated = 0
	report.QuestionsByKind = map[string]int{}
	report.Errors = errs
	return report, errs
}

// prepare runs every check and builds the rows. The report always comes
// back; errs holds fatal problems and warnings together.
func (s *trackIngestService) prepare(raw []byte) (*ingestPlan, *dto.IngestReport, validation.Errors) {
	report := &dto.IngestReport{QuestionsByKind: map[string]int{}, Warnings: validation.Errors{}}

	doc, errs := decodeDocument(raw)
	if errs.HasFatal() {
		report.Errors = errs
		return nil, report, errs
	}

	testType := strings.ToLower(strings.TrimSpace(doc.TestType))
	skill := registry.Skill(testType)
	validSkill := questionLimit(skill) > 0
	if !validSkill {
		errs = append(errs, validation.New(validation.KindSchemaViolation, "test_type", "must be listening, reading or writing, got %q", doc.TestType))
	}
	if strings.TrimSpace(doc.Title) == "" {
		errs = append(errs, validation.New(validation.KindSchemaViolation, "title", "is required"))
	}
	if doc.DurationSeconds <= 0 {
		errs = append(errs, validation.New(validation.KindSchemaViolation, "duration_seconds", "must be positive, got %d", doc.DurationSeconds))
	}
	if doc.AudioURL != nil && strings.TrimSpace(*doc.AudioURL) != "" && skill != registry.SkillListening {
		errs = append(errs, validation.New(validation.KindSchemaViolation, "audio_url", "only listening tracks carry audio"))
	}
	if n := len(doc.Sections); n < 1 || n > maxSections {
		errs = append(errs, validation.New(validation.KindStructuralViolation, "sections", "a track needs 1 to %d sections, got %d", maxSections, n))
	}

	order, indexErrs := sectionOrder(doc.Sections)
	errs = append(errs, indexErrs...)

	plan := &ingestPlan{
		track: model.Track{
			ID:              uuid.NewString(),
			TestType:        testType,
			Title:           strings.TrimSpace(doc.Title),
			Description:     strings.TrimSpace(doc.Description),
			DurationSeconds: doc.DurationSeconds,
			AudioURL:        doc.AudioURL,
			Status:          model.TrackStatusDraft,
		},
	}

	sourceIndex := map[int]string{}
	questionIndex := 0
	for _, i := range order {
		sec := doc.Sections[i]
		secPath := validation.Index("sections", i)
		section := model.Section{
			ID:                 uuid.NewString(),
			TrackID:            plan.track.ID,
			Index:              sectionIndex(sec, i),
			Title:              strings.TrimSpace(sec.Title),
			Instructions:       strings.TrimSpace(sec.Instructions),
			PassageText:        sec.PassageText,
			AudioOffsetSeconds: sec.AudioOffsetSeconds,
		}
		if len(sec.Questions) == 0 {
			errs = append(errs, validation.New(validation.KindStructuralViolation, validation.Join(secPath, "questions"), "a section needs at least one question"))
		}
		for j, rawQ := range sec.Questions {
			qPath := validation.Join(secPath, validation.Index("questions", j))
			q, qerrs := s.normalizer.Normalize(rawQ)
			errs = append(errs, qerrs.Prefix(qPath)...)
			if qerrs.HasFatal() {
				continue
			}
			spec, _ := s.reg.Lookup(q.Kind)
			if validSkill && (spec.Skill == registry.SkillWriting) != (skill == registry.SkillWriting) {
				errs = append(errs, validation.New(validation.KindStructuralViolation, validation.Join(qPath, "type"),
					"%s questions cannot appear in a %s track", q.Kind, testType))
				continue
			}
			if q.Index > 0 {
				if other, dup := sourceIndex[q.Index]; dup {
					errs = append(errs, validation.New(validation.KindStructuralViolation, validation.Join(qPath, "index"),
						"question index %d is already used at %s", q.Index, other))
				}
				sourceIndex[q.Index] = qPath
			}
			body, err := json.Marshal(q.Payload)
			if err != nil {
				errs = append(errs, validation.New(validation.KindSchemaViolation, qPath, "cannot encode payload: %v", err))
				continue
			}
			questionIndex++
			plan.questions = append(plan.questions, model.Question{
				ID:             uuid.NewString(),
				TrackID:        plan.track.ID,
				SectionID:      section.ID,
				Index:          questionIndex,
				Kind:           string(q.Kind),
				Marks:          q.Marks,
				Payload:        datatypes.JSON(body),
				NeedsAnswerKey: q.NeedsAnswerKey,
				IsManualGrade:  spec.Manual,
			})
			report.QuestionsByKind[string(q.Kind)]++
		}
		plan.sections = append(plan.sections, section)
	}

	if limit := questionLimit(skill); validSkill && countQuestions(doc.Sections) > limit {
		errs = append(errs, validation.New(validation.KindStructuralViolation, "sections",
			"a %s track holds at most %d questions, got %d", testType, limit, countQuestions(doc.Sections)))
	}

	report.Warnings = append(report.Warnings, errs.Warnings()...)
	if errs.HasFatal() {
		report.Errors = errs.Fatal()
		report.QuestionsByKind = map[string]int{}
		return nil, report, errs
	}
	report.SectionsCreated = len(plan.sections)
	report.QuestionsCreated = len(plan.questions)
	return plan, report, errs
}

// decodeDocument reads the top level strictly enough to locate type errors.
func decodeDocument(raw []byte) (dto.IngestDocument, validation.Errors) {
	var doc dto.IngestDocument
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return doc, validation.Errors{validation.New(validation.KindMalformedDocument, typeErr.Field,
				"expected %s, got %s", typeErr.Type, typeErr.Value)}
		}
		return doc, validation.Errors{validation.New(validation.KindMalformedDocument, "", "document is not valid JSON: %v", err)}
	}
	return doc, nil
}

func sectionIndex(sec dto.IngestSection, pos int) int {
	if sec.Index != nil {
		return *sec.Index
	}
	return pos + 1
}

// sectionOrder checks that section indices are exactly 1..N and returns the
// document positions sorted by index.
func sectionOrder(sections []dto.IngestSection) ([]int, validation.Errors) {
	var errs validation.Errors
	seen := map[int]int{}
	order := make([]int, len(sections))
	for i, sec := range sections {
		order[i] = i
		idx := sectionIndex(sec, i)
		path := validation.Join(validation.Index("sections", i), "index")
		if idx < 1 || idx > len(sections) {
			errs = append(errs, validation.New(validation.KindStructuralViolation, path,
				"section indices must run 1..%d, got %d", len(sections), idx))
			continue
		}
		if first, dup := seen[idx]; dup {
			errs = append(errs, validation.New(validation.KindStructuralViolation, path,
				"section index %d is already used by sections[%d]", idx, first))
			continue
		}
		seen[idx] = i
	}
	if len(errs) == 0 {
		sort.SliceStable(order, func(a, b int) bool {
			return sectionIndex(sections[order[a]], order[a]) < sectionIndex(sections[order[b]], order[b])
		})
	}
	return order, errs
}

func questionLimit(skill registry.Skill) int {
	switch skill {
	case registry.SkillListening, registry.SkillReading:
		return maxObjectiveItems
	case registry.SkillWriting:
		return maxWritingQuestions
	default:
		return 0
	}
}

func countQuestions(sections []dto.IngestSection) int {
	n := 0
	for _, sec := range sections {
		n += len(sec.Questions)
	}
	return n
}
