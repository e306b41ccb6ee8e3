package progress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/barefootreset/backend/internal/auth"
	"github.com/barefootreset/backend/internal/telemetry/metrics"
	"github.com/barefootreset/backend/internal/telemetry/tracing"
	"github.com/barefootreset/backend/internal/workouts"
	"github.com/barefootreset/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progress_test

type progressTracker interface {
	Complete(ctx context.Context, userID int, workoutID string) (*CompletionResult, error)
	Summary(ctx context.Context, userID int) (*Summary, error)
	NextWorkout(ctx context.Context, userID int) (*workouts.Workout, error)
	Timeline(ctx context.Context, userID int) ([]PhaseProgress, error)
}

type parentChecker interface {
	IsParentOf(ctx context.Context, parentID, childID int) (bool, error)
}

type Handler struct {
	tracker        progressTracker
	parents        parentChecker
	metricsManager *metrics.Manager
}

func NewHandler(
	tracker progressTracker,
	parents parentChecker,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		tracker:        tracker,
		parents:        parents,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	progressRouter := router.PathPrefix("/progress").Subrouter()
	progressRouter.HandleFunc("/complete", handler.handleComplete).Methods("POST", "OPTIONS").Name("progress-complete")
	progressRouter.HandleFunc("/summary", handler.handleSummary).Methods("GET", "OPTIONS").Name("progress-summary")
	progressRouter.HandleFunc("/overview/{athleteID}", handler.handleOverview).Methods("GET", "OPTIONS").Name("progress-overview")

	// registered before the catalog handler claims /workouts/{id}
	router.HandleFunc("/workouts/next", handler.handleNextWorkout).Methods("GET", "OPTIONS").Name("workouts-next")
	router.HandleFunc("/workouts/timeline", handler.handleTimeline).Methods("GET", "OPTIONS").Name("workouts-timeline")
}

func (handler *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.complete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	type completeRequest struct {
		WorkoutID string `json:"workoutId"`
	}
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid request", http.StatusBadRequest)
		return
	}
	if req.WorkoutID == "" {
		http.Error(w, "error, workout id empty", http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.String("workout.id", req.WorkoutID),
	)

	result, err := handler.tracker.Complete(ctx, userID, req.WorkoutID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyCompleted):
			span.SetStatus(codes.Ok, "already-completed")
			http.Error(w, "workout already completed", http.StatusConflict)
		case errors.Is(err, workouts.ErrWorkoutNotFound):
			http.Error(w, "workout not found", http.StatusNotFound)
		default:
			log.Errorf("complete workout %s for user %d: %s", req.WorkoutID, userID, err)
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		}
		return
	}

	handler.metricsManager.CounterCompletions.Inc()
	if len(result.NewUnlocks) > 0 {
		handler.metricsManager.CounterBadgeUnlocks.Add(float64(len(result.NewUnlocks)))
	}

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("marshal completion result: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusCreated)
}

func (handler *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.summary")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	handler.writeSummary(ctx, w, userID)
}

// handleOverview serves a read-only summary of a linked child athlete
// to a parent account.
func (handler *Handler) handleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.overview")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	athleteID, err := strconv.Atoi(mux.Vars(r)["athleteID"])
	if err != nil {
		http.Error(w, "error, invalid athlete id", http.StatusBadRequest)
		return
	}

	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.Int("athlete.id", athleteID),
	)

	isParent, err := handler.parents.IsParentOf(ctx, userID, athleteID)
	if err != nil {
		log.Errorf("parent check %d -> %d: %s", userID, athleteID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}
	if !isParent {
		http.Error(w, "no can do", http.StatusForbidden)
		return
	}

	handler.writeSummary(ctx, w, athleteID)
}

func (handler *Handler) writeSummary(ctx context.Context, w http.ResponseWriter, userID int) {
	summary, err := handler.tracker.Summary(ctx, userID)
	if err != nil {
		log.Errorf("summary for user %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("marshal summary: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, summaryJson)
}

func (handler *Handler) handleNextWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.nextWorkout")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	next, err := handler.tracker.NextWorkout(ctx, userID)
	if err != nil {
		log.Errorf("next workout for user %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}

	type nextWorkoutResponse struct {
		Workout *workouts.Workout `json:"workout"`
	}
	respJson, err := json.Marshal(nextWorkoutResponse{Workout: next})
	if err != nil {
		log.Errorf("marshal next workout: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "progressHandler.timeline")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	timeline, err := handler.tracker.Timeline(ctx, userID)
	if err != nil {
		log.Errorf("timeline for user %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}

	timelineJson, err := json.Marshal(timeline)
	if err != nil {
		log.Errorf("marshal timeline: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, timelineJson)
}
