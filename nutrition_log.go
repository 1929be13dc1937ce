package main

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// maxWindowDays bounds the trend window a client may ask for.
const maxWindowDays = 366

// parseWindowDays reads the days query/body value; 0 means the default window.
func parseWindowDays(s string) (int, error) {
	if s == "" {
		return defaultWindowDays, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > maxWindowDays {
		return 0, errors.New("days must be an integer between 1 and 366")
	}
	return n, nil
}

// loadTargets computes the current targets from the stored (or default) profile.
func (h *Handler) loadTargets(c *gin.Context, userID int) (targets, error) {
	p, _, err := h.loadProfileOrDefault(c, userID)
	if err != nil {
		return targets{}, err
	}
	_, _, t := profileTargets(p)
	return t, nil
}

// getEntries returns the persisted entries, oldest first.
// GET /api/log/entries?date=YYYY-MM-DD (date optional).
func (h *Handler) getEntries(c *gin.Context) {
	userID := c.GetInt("user_id")

	entries, err := h.store.LoadEntries(c, userID)
	if err != nil {
		log.Printf("[getEntries] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch entries")
		return
	}

	if s := c.Query("date"); s != "" {
		date, err := time.Parse("2006-01-02", s)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		entries = entriesOn(entries, date)
	}
	// Ensure entries is an empty array (not null) in JSON
	if entries == nil {
		entries = []logEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// appendEntries commits a batch of entries. Nutrient values are taken from
// the food table at this moment. POST /api/log/entries.
func (h *Handler) appendEntries(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body appendEntriesRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var staged stagingList
	if err := staged.stageAll(h.foods, body.Entries); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.store.AppendEntries(c, userID, staged.pending())
	if err != nil {
		log.Printf("[appendEntries] append failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to save log entries")
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// deleteEntry removes a log entry. Returns 204 on success.
// DELETE /api/log/entries/:id.
func (h *Handler) deleteEntry(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}

	if err := h.store.DeleteEntry(c, userID, id); err != nil {
		if errors.Is(err, errNotFound) {
			apiError(c, http.StatusNotFound, "entry not found")
		} else {
			log.Printf("[deleteEntry] delete %d failed for user %d: %v", id, userID, err)
			apiError(c, http.StatusInternalServerError, "failed to delete entry")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// getDailySummary returns totals, meal buckets and macro progress for a date.
// GET /api/log/daily?date=YYYY-MM-DD (defaults to today).
func (h *Handler) getDailySummary(c *gin.Context) {
	userID := c.GetInt("user_id")

	date, err := parseDateOr(c.Query("date"), today())
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	entries, err := h.store.LoadEntries(c, userID)
	if err != nil {
		log.Printf("[getDailySummary] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch entries")
		return
	}
	t, err := h.loadTargets(c, userID)
	if err != nil {
		log.Printf("[getDailySummary] profile load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, buildDailySummary(entries, date, t))
}

// getWeeklySummary returns per-day calories for the window ending at end,
// with every day present. GET /api/log/weekly?end=YYYY-MM-DD&days=N
// (end defaults to today, days to 7).
func (h *Handler) getWeeklySummary(c *gin.Context) {
	userID := c.GetInt("user_id")

	end, err := parseDateOr(c.Query("end"), today())
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return
	}
	days, err := parseWindowDays(c.Query("days"))
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.store.LoadEntries(c, userID)
	if err != nil {
		log.Printf("[getWeeklySummary] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch entries")
		return
	}
	t, err := h.loadTargets(c, userID)
	if err != nil {
		log.Printf("[getWeeklySummary] profile load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, buildWeeklySummary(entries, end, days, t))
}

// previewLog returns the daily and weekly views over persisted entries plus
// the caller's unsaved ones. Nothing is written. POST /api/log/preview.
func (h *Handler) previewLog(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body previewRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	date, err := parseDateOr(body.Date, today())
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	if body.Days < 0 || body.Days > maxWindowDays {
		apiError(c, http.StatusBadRequest, "days must be an integer between 1 and 366")
		return
	}

	var staged stagingList
	if err := staged.stageAll(h.foods, body.Staged); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	persisted, err := h.store.LoadEntries(c, userID)
	if err != nil {
		log.Printf("[previewLog] load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to fetch entries")
		return
	}
	t, err := h.loadTargets(c, userID)
	if err != nil {
		log.Printf("[previewLog] profile load failed for user %d: %v", userID, err)
		apiError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	all := staged.withPersisted(persisted)
	c.JSON(http.StatusOK, gin.H{
		"staged": staged.pending(),
		"daily":  buildDailySummary(all, date, t),
		"weekly": buildWeeklySummary(all, date, body.Days, t),
	})
}

// saveAllResponse reports each half of a save independently.
type saveAllResponse struct {
	Profile      *profileResponse `json:"profile,omitempty"`
	ProfileSaved bool             `json:"profile_saved"`
	Entries      []logEntry       `json:"entries"`
	EntriesSaved bool             `json:"entries_saved"`
	Errors       []string         `json:"errors"`
}

// saveAll saves the profile and commits the staged entries. The two writes
// are independent: one failing does not undo the other, and each failure has
// its own message. Returns 500 if either failed. POST /api/save.
func (h *Handler) saveAll(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body saveAllRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if body.Profile != nil {
		if err := normalizeProfile(body.Profile); err != nil {
			apiError(c, http.StatusBadRequest, err.Error())
			return
		}
	}
	var staged stagingList
	if err := staged.stageAll(h.foods, body.Staged); err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	resp := saveAllResponse{Entries: []logEntry{}, Errors: []string{}}

	if body.Profile != nil {
		pr := newProfileResponse(*body.Profile, true)
		if err := h.store.SaveProfile(c, userID, pr.Profile, pr.Targets); err != nil {
			log.Printf("[saveAll] profile save failed for user %d: %v", userID, err)
			resp.Errors = append(resp.Errors, "failed to save profile")
		} else {
			resp.Profile = &pr
			resp.ProfileSaved = true
		}
	}

	if staged.len() > 0 {
		saved, err := h.store.AppendEntries(c, userID, staged.pending())
		if err != nil {
			log.Printf("[saveAll] append of %d entries failed for user %d: %v", staged.len(), userID, err)
			resp.Errors = append(resp.Errors, "failed to save log entries")
		} else {
			staged.clear()
			resp.Entries = saved
			resp.EntriesSaved = true
		}
	}

	status := http.StatusOK
	if len(resp.Errors) > 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, resp)
}
