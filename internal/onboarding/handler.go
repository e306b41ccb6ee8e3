package onboarding

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/barefootreset/backend/internal/auth"
	"github.com/barefootreset/backend/internal/telemetry/tracing"
	"github.com/barefootreset/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	onboardingRouter := router.PathPrefix("/onboarding").Subrouter()
	onboardingRouter.HandleFunc("/profile", handler.handleSaveProfile).Methods("POST", "OPTIONS").Name("onboarding-save")
	onboardingRouter.HandleFunc("/profile", handler.handleGetProfile).Methods("GET").Name("onboarding-get")
}

func (handler *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "onboardingHandler.saveProfile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	var profile Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "error, invalid request", http.StatusBadRequest)
		return
	}
	// the session decides whose profile this is
	profile.UserID = userID

	if err := profile.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	saved, err := handler.service.Save(ctx, profile)
	if err != nil {
		log.Errorf("save profile for user %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}

	savedJson, err := json.Marshal(saved)
	if err != nil {
		log.Errorf("marshal profile: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, savedJson)
}

func (handler *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "onboardingHandler.getProfile")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	profile, err := handler.service.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		log.Errorf("get profile for user %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}

	profileJson, err := json.Marshal(profile)
	if err != nil {
		log.Errorf("marshal profile: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, profileJson)
}
