package handler

import (
	"net/http"

	"github.com/driftr-app/driftr-backend/internal/domain"
	"github.com/driftr-app/driftr-backend/internal/usecase/discovery"
	"github.com/driftr-app/driftr-backend/internal/usecase/premium"
	"github.com/gin-gonic/gin"
)

type DiscoveryHandler struct {
	sessions *discovery.Manager
	premium  *premium.Checker
}

func NewDiscoveryHandler(sessions *discovery.Manager, premiumChecker *premium.Checker) *DiscoveryHandler {
	return &DiscoveryHandler{
		sessions: sessions,
		premium:  premiumChecker,
	}
}

func modeFilter(c *gin.Context) domain.ModeFilter {
	switch domain.ModeFilter(c.Query("mode")) {
	case domain.FilterDating:
		return domain.FilterDating
	case domain.FilterFriends:
		return domain.FilterFriends
	default:
		return domain.FilterAll
	}
}

// RefreshRequest carries the coordinates to query around
type RefreshRequest struct {
	Latitude  float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// Refresh handles POST /discovery/refresh
// @Summary Rebuild the discovery deck around the given coordinates
// @Tags discovery
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "coordinates"
// @Success 200 {object} discovery.SessionState
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /discovery/refresh [post]
func (h *DiscoveryHandler) Refresh(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid coordinates"})
		return
	}

	session := h.sessions.Session(c.Request.Context(), userID, modeFilter(c))
	err := session.Refresh(c.Request.Context(), domain.Coordinate{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})

	state := session.Snapshot()
	if err != nil {
		// The previous deck is preserved; surface it alongside the failure.
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "failed to fetch nearby profiles",
			"state": state,
		})
		return
	}

	c.JSON(http.StatusOK, state)
}

// State handles GET /discovery
func (h *DiscoveryHandler) State(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	session := h.sessions.Session(c.Request.Context(), userID, modeFilter(c))
	c.JSON(http.StatusOK, session.Snapshot())
}

// Skip handles POST /discovery/skip
// @Summary Pass on the current candidate
// @Tags discovery
// @Security BearerAuth
// @Produce json
// @Success 200 {object} discovery.SessionState
// @Failure 409 {object} ErrorResponse
// @Router /discovery/skip [post]
func (h *DiscoveryHandler) Skip(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session := h.sessions.Session(c.Request.Context(), userID, modeFilter(c))
	if err := session.Skip(); err != nil {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "no candidate to skip"})
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

// WaveResponse pairs the wave outcome with the resulting deck state
type WaveResponse struct {
	Result discovery.WaveResult   `json:"result"`
	State  discovery.SessionState `json:"state"`
}

// Wave handles POST /discovery/wave
// @Summary Wave at the current candidate
// @Tags discovery
// @Security BearerAuth
// @Produce json
// @Success 200 {object} WaveResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /discovery/wave [post]
func (h *DiscoveryHandler) Wave(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	session := h.sessions.Session(c.Request.Context(), userID, modeFilter(c))
	result, err := session.Wave(c.Request.Context())
	if err != nil {
		switch err {
		case domain.ErrWaveInFlight:
			c.JSON(http.StatusConflict, ErrorResponse{Error: "a wave is already in flight"})
		case domain.ErrNoCandidate:
			c.JSON(http.StatusConflict, ErrorResponse{Error: "no candidate to wave at"})
		case domain.ErrCannotWaveSelf:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cannot wave at yourself"})
		default:
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "wave failed, try again"})
		}
		return
	}

	c.JSON(http.StatusOK, WaveResponse{Result: result, State: session.Snapshot()})
}

// DismissCelebration handles POST /discovery/celebration/dismiss
func (h *DiscoveryHandler) DismissCelebration(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	session := h.sessions.Session(c.Request.Context(), userID, modeFilter(c))
	session.DismissCelebration()
	c.JSON(http.StatusOK, session.Snapshot())
}

// WaveLimit handles GET /discovery/wave-limit
// @Summary Today's wave usage
// @Tags discovery
// @Security BearerAuth
// @Produce json
// @Success 200 {object} wave.Snapshot
// @Router /discovery/wave-limit [get]
func (h *DiscoveryHandler) WaveLimit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	session := h.sessions.Session(c.Request.Context(), userID, modeFilter(c))
	c.JSON(http.StatusOK, session.RefreshWaveLimit(c.Request.Context()))
}

// RefreshPremium handles POST /premium/refresh. Called after checkout so the
// entitlement change reaches admission control without a re-login.
func (h *DiscoveryHandler) RefreshPremium(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	isPremium := false
	if h.premium != nil {
		isPremium = h.premium.IsPremium(c.Request.Context(), userID)
	}
	h.sessions.SetPremium(userID, isPremium)
	c.JSON(http.StatusOK, gin.H{"premium": isPremium})
}
