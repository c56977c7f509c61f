package handler

import (
	"net/http"
	"strconv"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/usecase/builder"
	"github.com/gin-gonic/gin"
)

type BuilderHandler struct {
	builderUseCase *builder.BuilderUseCase
}

func NewBuilderHandler(builderUseCase *builder.BuilderUseCase) *BuilderHandler {
	return &BuilderHandler{
		builderUseCase: builderUseCase,
	}
}

// ListBuilders handles GET /builders
// @Summary Builder marketplace listing
// @Tags builders
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.BuilderProfile
// @Router /builders [get]
func (h *BuilderHandler) ListBuilders(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	builders, err := h.builderUseCase.ListBuilders(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list builders"})
		return
	}
	c.JSON(http.StatusOK, builders)
}

// GetBuilder handles GET /builders/:builder_id
func (h *BuilderHandler) GetBuilder(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	b, reviews, err := h.builderUseCase.GetBuilder(c.Request.Context(), c.Param("builder_id"))
	if err != nil {
		if err == domain.ErrProfileNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "builder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get builder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"builder": b,
		"reviews": reviews,
	})
}

// AddReviewRequest carries a builder review
type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// AddReview handles POST /builders/:builder_id/reviews
// @Summary Review a builder
// @Tags builders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AddReviewRequest true "review"
// @Success 201 {object} domain.BuilderReview
// @Failure 400 {object} ErrorResponse
// @Router /builders/{builder_id}/reviews [post]
func (h *BuilderHandler) AddReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.builderUseCase.AddReview(c.Request.Context(), c.Param("builder_id"), userID, req.Rating, req.Comment)
	if err != nil {
		switch err {
		case domain.ErrSelfReview:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot review yourself"})
		case domain.ErrInvalidInput:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rating must be between 1 and 5"})
		case domain.ErrProfileNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "builder not found"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, review)
}
