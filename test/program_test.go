package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/barefootreset/backend/internal/badges"
	"github.com/barefootreset/backend/internal/progress"
	"github.com/barefootreset/backend/internal/workouts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestWorkoutCatalog() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registerUser(ctx, t, registerRequest{
		Email:    "catalog-viewer@barefoot-reset.com",
		Name:     "Catalog Viewer",
		Password: "testpass",
	})
	token := doLogin(ctx, t, "catalog-viewer@barefoot-reset.com", "testpass")

	resp := authedGet(ctx, t, token, "/workouts")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var list []workouts.Workout
	require.NoError(t, json.Unmarshal(respBytes, &list))
	require.Len(t, list, 6)
	assert.Equal(t, "w1", list[0].ID)
	assert.Equal(t, "Week 1, Day 1 – Foundation & Balance", list[0].Title)
	assert.Len(t, list[0].Steps, 3)

	getResp := authedGet(ctx, t, token, "/workouts/w5")
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	getBytes, err := io.ReadAll(getResp.Body)
	require.NoError(t, err)

	var w workouts.Workout
	require.NoError(t, json.Unmarshal(getBytes, &w))
	assert.Equal(t, "Recovery & Flexibility", w.Focus)

	notFoundResp := authedGet(ctx, t, token, "/workouts/w99")
	defer notFoundResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, notFoundResp.StatusCode)
}

func (s *IntegrationTestSuite) TestCompleteWorkoutFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registerUser(ctx, t, registerRequest{
		Email:    "athlete@barefoot-reset.com",
		Name:     "Young Athlete",
		Password: "testpass",
	})
	token := doLogin(ctx, t, "athlete@barefoot-reset.com", "testpass")

	completeBody := map[string]string{"workoutId": "w1"}
	resp := authedPost(ctx, t, token, "/progress/complete", completeBody)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result progress.CompletionResult
	require.NoError(t, json.Unmarshal(respBytes, &result))
	assert.Equal(t, "w1", result.Record.WorkoutID)
	assert.Equal(t, 1, result.Streak)
	assert.Equal(t, 1, result.CompletedCount)
	assert.Equal(t, 6, result.TotalCount)
	assert.Equal(t, 17, result.PercentComplete)

	// first completion unlocks the "First Step" badge
	require.Len(t, result.NewUnlocks, 1)
	assert.Equal(t, "b1", result.NewUnlocks[0].BadgeID)

	// same workout again is rejected
	dupResp := authedPost(ctx, t, token, "/progress/complete", completeBody)
	defer dupResp.Body.Close()
	assert.Equal(t, http.StatusConflict, dupResp.StatusCode)

	// unknown workout
	unknownResp := authedPost(ctx, t, token, "/progress/complete", map[string]string{"workoutId": "w99"})
	defer unknownResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, unknownResp.StatusCode)

	summaryResp := authedGet(ctx, t, token, "/progress/summary")
	defer summaryResp.Body.Close()
	require.Equal(t, http.StatusOK, summaryResp.StatusCode)

	summaryBytes, err := io.ReadAll(summaryResp.Body)
	require.NoError(t, err)

	var summary progress.Summary
	require.NoError(t, json.Unmarshal(summaryBytes, &summary))
	assert.Equal(t, 1, summary.CompletedCount)
	require.NotNil(t, summary.NextWorkout)
	assert.Equal(t, "w2", summary.NextWorkout.ID)

	nextResp := authedGet(ctx, t, token, "/workouts/next")
	defer nextResp.Body.Close()
	require.Equal(t, http.StatusOK, nextResp.StatusCode)

	nextBytes, err := io.ReadAll(nextResp.Body)
	require.NoError(t, err)

	var nextPayload struct {
		Workout *workouts.Workout `json:"workout"`
	}
	require.NoError(t, json.Unmarshal(nextBytes, &nextPayload))
	require.NotNil(t, nextPayload.Workout)
	assert.Equal(t, "w2", nextPayload.Workout.ID)

	badgesResp := authedGet(ctx, t, token, "/badges")
	defer badgesResp.Body.Close()
	require.Equal(t, http.StatusOK, badgesResp.StatusCode)

	badgesBytes, err := io.ReadAll(badgesResp.Body)
	require.NoError(t, err)

	var badgeViews []badges.View
	require.NoError(t, json.Unmarshal(badgesBytes, &badgeViews))
	require.Len(t, badgeViews, 6)
	unlockedByID := make(map[string]bool, len(badgeViews))
	for _, v := range badgeViews {
		unlockedByID[v.ID] = v.Unlocked
	}
	assert.True(t, unlockedByID["b1"])
	assert.False(t, unlockedByID["b2"])

	timelineResp := authedGet(ctx, t, token, "/workouts/timeline")
	defer timelineResp.Body.Close()
	require.Equal(t, http.StatusOK, timelineResp.StatusCode)

	timelineBytes, err := io.ReadAll(timelineResp.Body)
	require.NoError(t, err)

	var timeline []progress.PhaseProgress
	require.NoError(t, json.Unmarshal(timelineBytes, &timeline))
	require.Len(t, timeline, 3)
	assert.Equal(t, workouts.PhaseFoundation, timeline[0].Phase)
	assert.Equal(t, progress.PhaseStateActive, timeline[0].State)
	assert.Equal(t, progress.PhaseStateLocked, timeline[1].State)
}

func (s *IntegrationTestSuite) TestParentOverview() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	child := registerUser(ctx, t, registerRequest{
		Email:    "kid@barefoot-reset.com",
		Name:     "Kid Runner",
		Password: "testpass",
	})
	registerUser(ctx, t, registerRequest{
		Email:    "parent@barefoot-reset.com",
		Name:     "Watchful Parent",
		Password: "testpass",
		Role:     "parent",
	})

	childToken := doLogin(ctx, t, "kid@barefoot-reset.com", "testpass")
	completeResp := authedPost(ctx, t, childToken, "/progress/complete", map[string]string{"workoutId": "w1"})
	completeResp.Body.Close()
	require.Equal(t, http.StatusCreated, completeResp.StatusCode)

	parentToken := doLogin(ctx, t, "parent@barefoot-reset.com", "testpass")
	linkResp := authedPost(ctx, t, parentToken, "/family/link", map[string]string{"childEmail": "kid@barefoot-reset.com"})
	defer linkResp.Body.Close()
	require.Equal(t, http.StatusOK, linkResp.StatusCode)

	overviewResp := authedGet(ctx, t, parentToken, fmt.Sprintf("/progress/overview/%d", child.ID))
	defer overviewResp.Body.Close()
	require.Equal(t, http.StatusOK, overviewResp.StatusCode)

	overviewBytes, err := io.ReadAll(overviewResp.Body)
	require.NoError(t, err)

	var summary progress.Summary
	require.NoError(t, json.Unmarshal(overviewBytes, &summary))
	assert.Equal(t, 1, summary.CompletedCount)
	assert.Equal(t, 1, summary.Streak)

	// a parent cannot view an athlete they never linked
	otherResp := authedGet(ctx, t, parentToken, fmt.Sprintf("/progress/overview/%d", child.ID+1000))
	defer otherResp.Body.Close()
	assert.Equal(t, http.StatusForbidden, otherResp.StatusCode)
}

func (s *IntegrationTestSuite) TestOnboardingProfile() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	user := registerUser(ctx, t, registerRequest{
		Email:    "profile-owner@barefoot-reset.com",
		Name:     "Profile Owner",
		Password: "testpass",
	})
	token := doLogin(ctx, t, "profile-owner@barefoot-reset.com", "testpass")

	profileBody := map[string]string{
		"name":        "Profile Owner",
		"ageBracket":  "13-15",
		"sport":       "football",
		"season":      "pre-season",
		"goal":        "stronger feet",
		"footHistory": "none",
	}
	saveResp := authedPost(ctx, t, token, "/onboarding/profile", profileBody)
	defer saveResp.Body.Close()
	require.Equal(t, http.StatusOK, saveResp.StatusCode)

	getResp := authedGet(ctx, t, token, "/onboarding/profile")
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	getBytes, err := io.ReadAll(getResp.Body)
	require.NoError(t, err)

	var profile struct {
		UserID     int    `json:"userId"`
		Name       string `json:"name"`
		AgeBracket string `json:"ageBracket"`
	}
	require.NoError(t, json.Unmarshal(getBytes, &profile))
	assert.Equal(t, user.ID, profile.UserID)
	assert.Equal(t, "13-15", profile.AgeBracket)
}
