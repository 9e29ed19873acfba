package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/internal/controller"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/service"
)

type AdminGradingController struct {
	gradingService    service.ManualGradingService
	submissionService service.SubmissionService
}

func NewAdminGradingController(gs service.ManualGradingService, ss service.SubmissionService) *AdminGradingController {
	return &AdminGradingController{gradingService: gs, submissionService: ss}
}

// GetPendingQueue godoc
// @Summary (Admin) Manual grading queue
// @Description Submissions waiting for a human, oldest first, with the items still to grade.
// @Tags Admin - Grading
// @Produce json
// @Success 200 {array} dto.PendingSubmissionDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /admin/grading/queue [get]
func (c *AdminGradingController) GetPendingQueue(ctx *gin.Context) {
	queue, err := c.gradingService.GetPendingQueue(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err, "Failed to load grading queue")
		return
	}
	ctx.JSON(http.StatusOK, queue)
}

// ApplyGrades godoc
// @Summary (Admin) Grade needs_manual items
// @Description Writing items take rubric sub-scores; other items take points. The submission is finalized once nothing is pending.
// @Tags Admin - Grading
// @Accept json
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Param request body dto.ManualGradeRequest true "Grades"
// @Success 200 {object} dto.SubmissionDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Submission is not pending manual grading"
// @Router /admin/submissions/{submission_id}/grades [post]
func (c *AdminGradingController) ApplyGrades(ctx *gin.Context) {
	var req dto.ManualGradeRequest
	if !controller.BindJSON(ctx, &req) {
		return
	}
	submission, err := c.gradingService.ApplyGrades(ctx.Request.Context(), ctx.Param("submission_id"), req)
	if err != nil {
		controller.RespondError(ctx, err, "Failed to apply grades")
		return
	}
	ctx.JSON(http.StatusOK, submission)
}

// Regrade godoc
// @Summary (Admin) Regrade a submission
// @Description Runs the grader again, for example after answer keys were filled in. Manual grades are kept.
// @Tags Admin - Grading
// @Produce json
// @Param submission_id path string true "Submission ID"
// @Success 200 {object} dto.SubmissionDTO
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/submissions/{submission_id}/regrade [post]
func (c *AdminGradingController) Regrade(ctx *gin.Context) {
	submission, err := c.submissionService.Regrade(ctx.Request.Context(), ctx.Param("submission_id"))
	if err != nil {
		controller.RespondError(ctx, err, "Failed to regrade submission")
		return
	}
	ctx.JSON(http.StatusOK, submission)
}
