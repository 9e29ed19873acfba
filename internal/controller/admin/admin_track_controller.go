package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/controller"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminTrackController struct {
	ingestService   service.TrackIngestService
	trackService    service.AdminTrackService
	questionService service.QuestionAdminService
}

func NewAdminTrackController(is service.TrackIngestService, ts service.AdminTrackService, qs service.QuestionAdminService) *AdminTrackController {
	return &AdminTrackController{ingestService: is, trackService: ts, questionService: qs}
}

// IngestTrack godoc
// @Summary (Admin) Ingest a whole test document
// @Description Normalizes every question, checks section and index structure, and stores the track, its sections and questions in one transaction. Missing answer keys are reported as warnings.
// @Tags Admin - Tracks
// @Accept json
// @Produce json
// @Param document body dto.IngestDocument true "Test document"
// @Success 201 {object} dto.IngestReport
// @Failure 400 {object} dto.ErrorResponse "Unreadable body"
// @Failure 422 {object} dto.IngestReport "Validation errors; nothing stored"
// @Failure 500 {object} dto.IngestReport "Commit failed; nothing stored"
// @Router /admin/tracks [post]
func (c *AdminTrackController) IngestTrack(ctx *gin.Context) {
	raw, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read request body"})
		return
	}
	report, err := c.ingestService.Ingest(ctx.Request.Context(), raw)
	if err != nil {
		log.Warn().Err(err).Msg("Admin IngestTrack: document rejected")
		ctx.JSON(controller.StatusFor(err), report)
		return
	}
	ctx.JSON(http.StatusCreated, report)
}

// ValidateTrack godoc
// @Summary (Admin) Dry-run an ingest
// @Description Runs the same checks as ingest without writing anything.
// @Tags Admin - Tracks
// @Accept json
// @Produce json
// @Param document body dto.IngestDocument true "Test document"
// @Success 200 {object} dto.IngestReport
// @Failure 422 {object} dto.IngestReport
// @Router /admin/tracks/validate [post]
func (c *AdminTrackController) ValidateTrack(ctx *gin.Context) {
	raw, err := ctx.GetRawData()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Could not read request body"})
		return
	}
	report, err := c.ingestService.Validate(ctx.Request.Context(), raw)
	if err != nil {
		ctx.JSON(controller.StatusFor(err), report)
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// GenerateDraft godoc
// @Summary (Admin) Generate a draft track with Gemini
// @Description Asks the LLM for a test document and ingests it as a draft track.
// @Tags Admin - Tracks
// @Accept json
// @Produce json
// @Param request body dto.DraftRequest true "Draft parameters"
// @Success 201 {object} dto.IngestReport
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.IngestReport "The draft did not pass ingest"
// @Failure 503 {object} dto.ErrorResponse "Gemini is not configured or failed"
// @Router /admin/tracks/draft [post]
func (c *AdminTrackController) GenerateDraft(ctx *gin.Context) {
	var req dto.DraftRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	report, err := c.trackService.GenerateDraft(ctx.Request.Context(), req)
	if err != nil {
		if report != nil {
			ctx.JSON(controller.StatusFor(err), report)
			return
		}
		controller.RespondError(ctx, err, "Failed to generate draft")
		return
	}
	ctx.JSON(http.StatusCreated, report)
}

// GetTracks godoc
// @Summary (Admin) List tracks
// @Tags Admin - Tracks
// @Produce json
// @Param status query string false "Filter by status" Enums(draft, active, archived)
// @Success 200 {array} dto.TrackSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/tracks [get]
func (c *AdminTrackController) GetTracks(ctx *gin.Context) {
	tracks, err := c.trackService.GetTracks(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve tracks")
		return
	}
	ctx.JSON(http.StatusOK, tracks)
}

// GetTrackDetails godoc
// @Summary (Admin) Get a track with answer keys
// @Tags Admin - Tracks
// @Produce json
// @Param track_id path string true "Track ID"
// @Success 200 {object} dto.TrackDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tracks/{track_id} [get]
func (c *AdminTrackController) GetTrackDetails(ctx *gin.Context) {
	track, err := c.trackService.GetTrackDetails(ctx.Request.Context(), ctx.Param("track_id"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve track")
		return
	}
	ctx.JSON(http.StatusOK, track)
}

// UpdateTrackStatus godoc
// @Summary (Admin) Change a track's status
// @Description draft -> active -> archived, and archived -> active.
// @Tags Admin - Tracks
// @Accept json
// @Produce json
// @Param track_id path string true "Track ID"
// @Param request body dto.TrackStatusRequest true "New status"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /admin/tracks/{track_id}/status [put]
func (c *AdminTrackController) UpdateTrackStatus(ctx *gin.Context) {
	var req dto.TrackStatusRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	if err := c.trackService.UpdateStatus(ctx.Request.Context(), ctx.Param("track_id"), req); err != nil {
		controller.RespondError(ctx, err, "Failed to update track status")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DeleteTrack godoc
// @Summary (Admin) Delete a track
// @Description Removes the track with its sections, questions and submissions.
// @Tags Admin - Tracks
// @Param track_id path string true "Track ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/tracks/{track_id} [delete]
func (c *AdminTrackController) DeleteTrack(ctx *gin.Context) {
	if err := c.trackService.DeleteTrack(ctx.Request.Context(), ctx.Param("track_id")); err != nil {
		controller.RespondError(ctx, err, "Failed to delete track")
		return
	}
	ctx.Status(http.StatusNoContent)
}

// UpdateQuestion godoc
// @Summary (Admin) Patch a question
// @Description Merges the patch into the stored question and normalizes the result. Use it to fill missing answer keys. The kind cannot change.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param question_id path string true "Question ID"
// @Param patch body object true "Fields to overwrite"
// @Success 200 {object} dto.QuestionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "The merged question is invalid"
// @Router /admin/questions/{question_id} [patch]
func (c *AdminTrackController) UpdateQuestion(ctx *gin.Context) {
	var patch dto.QuestionPatch
	if !controller.BindJSON(ctx, &patch) {
		return
	}
	question, err := c.questionService.UpdateQuestion(ctx.Request.Context(), ctx.Param("question_id"), patch)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to update question")
		return
	}
	ctx.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Description Removes the question and renumbers the rest of the track 1..M.
// @Tags Admin - Questions
// @Param question_id path string true "Question ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/questions/{question_id} [delete]
func (c *AdminTrackController) DeleteQuestion(ctx *gin.Context) {
	if err := c.questionService.DeleteQuestion(ctx.Request.Context(), ctx.Param("question_id")); err != nil {
		controller.RespondError(ctx, err, "Failed to delete question")
		return
	}
	ctx.Status(http.StatusNoContent)
}
