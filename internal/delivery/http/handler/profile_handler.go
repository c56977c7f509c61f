package handler

import (
	"net/http"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/usecase/location"
	"github.com/driftr-app/driftr-backend/internal/usecase/profile"
	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// GetMyProfile handles GET /profile/me
// @Summary Get my profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Profile
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /profile/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p, err := h.profileUseCase.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if err == domain.ErrProfileNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// GetProfile handles GET /profile/:user_id
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	p, err := h.profileUseCase.GetProfile(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if err == domain.ErrProfileNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateMyProfile handles PUT /profile/me
// @Summary Update my profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.UpdateInput true "fields to update"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse
// @Router /profile/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input profile.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	p, err := h.profileUseCase.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		switch err {
		case domain.ErrInvalidInput:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid profile fields"})
		case domain.ErrProfileNotFound:
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "profile not found"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateLocationRequest carries device coordinates
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// UpdateLocation handles PUT /profile/me/location
// @Summary Store my current coordinates
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body UpdateLocationRequest true "coordinates"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse
// @Router /profile/me/location [put]
func (h *ProfileHandler) UpdateLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid coordinates"})
		return
	}

	p, err := h.profileUseCase.UpdateLocation(c.Request.Context(), userID, domain.Coordinate{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to update location"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// RequestLocationRequest is a device's position report. Latitude and
// Longitude are pointers so "no fix" is distinguishable from (0, 0).
type RequestLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Denied    bool     `json:"denied"`
}

// RequestLocation handles POST /profile/me/location/request
// @Summary Run the location flow for a device position report
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RequestLocationRequest true "position report"
// @Success 200 {object} location.State
// @Failure 400 {object} ErrorResponse
// @Router /profile/me/location/request [post]
func (h *ProfileHandler) RequestLocation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req RequestLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	report := location.ClientReport{Denied: req.Denied}
	if req.Latitude != nil && req.Longitude != nil {
		report.Coord = &domain.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	state, err := h.profileUseCase.RequestLocation(c.Request.Context(), userID, report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to store location"})
		return
	}
	c.JSON(http.StatusOK, state)
}

// NearbyPins handles GET /map/pins
// @Summary Nearby profiles as map pins
// @Tags map
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.NearbyProfile
// @Failure 400 {object} ErrorResponse
// @Router /map/pins [get]
func (h *ProfileHandler) NearbyPins(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var query struct {
		Latitude  float64           `form:"latitude" binding:"required,min=-90,max=90"`
		Longitude float64           `form:"longitude" binding:"required,min=-180,max=180"`
		RadiusKm  float64           `form:"radius_km"`
		Mode      domain.ModeFilter `form:"mode"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid query parameters"})
		return
	}
	if query.Mode == "" {
		query.Mode = domain.FilterAll
	}

	pins, err := h.profileUseCase.NearbyPins(c.Request.Context(), userID, domain.Coordinate{
		Latitude:  query.Latitude,
		Longitude: query.Longitude,
	}, query.RadiusKm, query.Mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch map pins"})
		return
	}

	c.JSON(http.StatusOK, pins)
}
