package badges

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/barefootreset/backend/internal/auth"
	"github.com/barefootreset/backend/internal/telemetry/tracing"
	"github.com/barefootreset/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=badges_test

type unlocksLoader interface {
	LoadUnlocks(ctx context.Context, userID int) ([]UnlockRecord, error)
}

// View is one badge definition with the user's unlock state attached.
type View struct {
	Definition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

type Handler struct {
	registry *Registry
	unlocks  unlocksLoader
}

func NewHandler(registry *Registry, unlocks unlocksLoader) *Handler {
	return &Handler{
		registry: registry,
		unlocks:  unlocks,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	badgesRouter := router.PathPrefix("/badges").Subrouter()
	badgesRouter.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("badges-list")
	badgesRouter.HandleFunc("/unlocked", handler.handleUnlocked).Methods("GET", "OPTIONS").Name("badges-unlocked")
}

func (handler *Handler) userViews(ctx context.Context, userID int) ([]View, error) {
	unlocks, err := handler.unlocks.LoadUnlocks(ctx, userID)
	if err != nil {
		return nil, err
	}

	unlockedAt := make(map[string]time.Time, len(unlocks))
	for _, u := range unlocks {
		unlockedAt[u.BadgeID] = u.UnlockedAt
	}

	views := make([]View, 0, len(handler.registry.All()))
	for _, def := range handler.registry.All() {
		view := View{Definition: def}
		if at, ok := unlockedAt[def.ID]; ok {
			view.Unlocked = true
			view.UnlockedAt = &at
		}
		views = append(views, view)
	}
	return views, nil
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "badgesHandler.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	views, err := handler.userViews(ctx, userID)
	if err != nil {
		log.Errorf("list badges for user %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}

	viewsJson, err := json.Marshal(views)
	if err != nil {
		log.Errorf("marshal badges: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, viewsJson)
}

func (handler *Handler) handleUnlocked(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "badgesHandler.unlocked")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	views, err := handler.userViews(ctx, userID)
	if err != nil {
		log.Errorf("list unlocked badges for user %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}

	unlocked := make([]View, 0, len(views))
	for _, v := range views {
		if v.Unlocked {
			unlocked = append(unlocked, v)
		}
	}

	unlockedJson, err := json.Marshal(unlocked)
	if err != nil {
		log.Errorf("marshal unlocked badges: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, unlockedJson)
}
