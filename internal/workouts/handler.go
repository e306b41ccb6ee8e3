package workouts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/barefootreset/backend/internal/telemetry/tracing"
	"github.com/barefootreset/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{
		catalog: catalog,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	workoutsRouter := router.PathPrefix("/workouts").Subrouter()
	workoutsRouter.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("workouts-list")
	workoutsRouter.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("workouts-get")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.list")
	defer span.End()

	list, err := handler.catalog.List(ctx)
	if err != nil {
		log.Errorf("list workouts: %s", err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}
	if list == nil {
		list = []Workout{}
	}

	span.SetAttributes(attribute.Int("workouts.count", len(list)))

	listJson, err := json.Marshal(list)
	if err != nil {
		log.Errorf("marshal workouts: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "workoutsHandler.get")
	defer span.End()

	vars := mux.Vars(r)
	id := vars["id"]
	if id == "" {
		http.Error(w, "error, workout id empty", http.StatusBadRequest)
		return
	}

	span.SetAttributes(attribute.String("workout.id", id))

	workout, err := handler.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("get workout %s: %s", id, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}

	workoutJson, err := json.Marshal(workout)
	if err != nil {
		log.Errorf("marshal workout: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, workoutJson)
}
