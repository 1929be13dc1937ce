package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	errUnknownActivity = errors.New("activity_level must be one of the listed activity levels")
	errUnknownGoal     = errors.New("goal must be one of: Maintain, Weight Loss, Muscle Gain")
)

// normalizeProfile checks the fields binding tags cannot express and zeroes
// the weekly change under Maintain, where it has no meaning.
func normalizeProfile(p *profile) error {
	// An unknown level would silently compute as sedentary, so reject it here.
	if _, ok := activityMultipliers[p.ActivityLevel]; !ok {
		return errUnknownActivity
	}
	if !validGoals[p.Goal] {
		return errUnknownGoal
	}
	if p.Goal == goalMaintain {
		p.WeeklyChangeKG = 0
	}
	return nil
}

// loadProfileOrDefault returns the stored profile, or the defaults when the
// user has never saved one.
func (h *Handler) loadProfileOrDefault(c *gin.Context, userID int) (profile, bool, error) {
	p, found, err := h.store.LoadProfile(c, userID)
	if err != nil {
		return profile{}, false, err
	}
	if !found {
		return defaultProfile(), false, nil
	}
	return p, true, nil
}

// getProfile returns the profile of the authenticated user with its computed
// BMR, TDEE and targets. Users without a saved profile get the defaults.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, found, err := h.loadProfileOrDefault(c, userID)
	if err != nil {
		log.Printf("[getProfile] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(p, found))
}

// putProfile replaces the whole profile and stores the computed targets with it.
// PUT /api/profile.
func (h *Handler) putProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body profile
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := normalizeProfile(&body); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp := newProfileResponse(body, true)
	if err := h.store.SaveProfile(c, userID, body, resp.Targets); err != nil {
		log.Printf("[putProfile] save failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to save profile")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// previewTargets computes targets for an unsaved profile so the form can
// update as the user edits it. POST /api/profile/targets.
func (h *Handler) previewTargets(c *gin.Context) {
	var body profile
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := normalizeProfile(&body); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, newProfileResponse(body, false))
}

// listFoods returns the reference table as (label, key) options sorted by
// name, plus the selectable activity levels. GET /api/foods.
func (h *Handler) listFoods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"foods":           h.foods.listAll(),
		"activity_levels": activityLevels,
		"meals":           mealOrder,
	})
}
