package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/controller"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/rs/zerolog/log"
)

type UserTrackController struct {
	trackService      service.UserTrackService
	submissionService service.SubmissionService
}

func NewUserTrackController(ts service.UserTrackService, ss service.SubmissionService) *UserTrackController {
	return &UserTrackController{trackService: ts, submissionService: ss}
}

// GetActiveTracks godoc
// @Summary (User) List active tracks
// @Tags User - Tracks & Submissions
// @Produce json
// @Success 200 {array} dto.TrackSummaryDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tracks [get]
func (c *UserTrackController) GetActiveTracks(ctx *gin.Context) {
	tracks, err := c.trackService.GetActiveTracks(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve tracks")
		return
	}
	ctx.JSON(http.StatusOK, tracks)
}

// GetTrackDetails godoc
// @Summary (User) Get a track to sit
// @Description Sections and questions of an active track. Answer keys are not included.
// @Tags User - Tracks & Submissions
// @Produce json
// @Param track_id path string true "Track ID"
// @Success 200 {object} dto.TrackDTO
// @Failure 404 {object} dto.ErrorResponse "Track not found"
// @Router /tracks/{track_id} [get]
func (c *UserTrackController) GetTrackDetails(ctx *gin.Context) {
	track, err := c.trackService.GetTrackDetails(ctx.Request.Context(), ctx.Param("track_id"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve track")
		return
	}
	ctx.JSON(http.StatusOK, track)
}

// StartSubmission godoc
// @Summary (User) Start an attempt
// @Tags User - Tracks & Submissions
// @Accept json
// @Produce json
// @Param track_id path string true "Track ID"
// @Param request body dto.StartSubmissionRequest true "Submitter"
// @Success 201 {object} dto.SubmissionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Track is not active"
// @Router /tracks/{track_id}/submissions [post]
func (c *UserTrackController) StartSubmission(ctx *gin.Context) {
	var req dto.StartSubmissionRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	submission, err := c.submissionService.StartSubmission(ctx.Request.Context(), ctx.Param("track_id"), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to start submission")
		return
	}
	log.Info().Str("submissionID", submission.ID).Str("trackID", submission.TrackID).Msg("Submission started")
	ctx.JSON(http.StatusCreated, submission)
}

// GetSubmissions godoc
// @Summary (User) List a submitter's attempts on a track
// @Tags User - Tracks & Submissions
// @Produce json
// @Param track_id path string true "Track ID"
// @Param submitter_id query string true "Submitter ID"
// @Success 200 {array} dto.SubmissionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Router /tracks/{track_id}/submissions [get]
func (c *UserTrackController) GetSubmissions(ctx *gin.Context) {
	submitterID := ctx.Query("submitter_id")
	if submitterID == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "submitter_id query parameter is required"})
		return
	}
	submissions, err := c.submissionService.GetSubmissions(ctx.Request.Context(), ctx.Param("track_id"), submitterID)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve submissions")
		return
	}
	ctx.JSON(http.StatusOK, submissions)
}

// SubmitDocument godoc
// @Summary (User) Submit a whole attempt in one call
// @Description Creates, submits and grades a submission from a submission document.
// @Tags User - Tracks & Submissions
// @Accept json
// @Produce json
// @Param document body dto.SubmissionDocument true "Submission document"
// @Success 201 {object} dto.SubmissionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /submissions [post]
func (c *UserTrackController) SubmitDocument(ctx *gin.Context) {
	var doc dto.SubmissionDocument
	if !controller.BindJSON(ctx, &doc) {
		return
	}
	submission, err := c.submissionService.SubmitDocument(ctx.Request.Context(), doc)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to submit")
		return
	}
	ctx.JSON(http.StatusCreated, submission)
}

// GetSubmission godoc
// @Summary (User) Get a submission with its verdicts
// @Tags User - Tracks & Submissions
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} dto.SubmissionDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /submissions/{submission_id} [get]
func (c *UserTrackController) GetSubmission(ctx *gin.Context) {
	submission, err := c.submissionService.GetSubmission(ctx.Request.Context(), ctx.Param("submission_id"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to retrieve submission")
		return
	}
	ctx.JSON(http.StatusOK, submission)
}

// SaveAnswers godoc
// @Summary (User) Autosave answers
// @Description Merges answers into an in-progress submission.
// @Tags User - Tracks & Submissions
// @Accept json
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Param request body dto.SaveAnswersRequest true "Answers keyed by question index"
// @Success 200 {object} dto.SubmissionDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Submission already submitted"
// @Router /submissions/{submission_id}/answers [put]
func (c *UserTrackController) SaveAnswers(ctx *gin.Context) {
	var req dto.SaveAnswersRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	submission, err := c.submissionService.SaveAnswers(ctx.Request.Context(), ctx.Param("submission_id"), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to save answers")
		return
	}
	ctx.JSON(http.StatusOK, submission)
}

// Submit godoc
// @Summary (User) Submit and grade an attempt
// @Tags User - Tracks & Submissions
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} dto.SubmissionDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Submission already submitted"
// @Router /submissions/{submission_id}/submit [post]
func (c *UserTrackController) Submit(ctx *gin.Context) {
	submission, err := c.submissionService.Submit(ctx.Request.Context(), ctx.Param("submission_id"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to submit")
		return
	}
	ctx.JSON(http.StatusOK, submission)
}
