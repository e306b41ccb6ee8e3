package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/barefootreset/backend/internal/telemetry/metrics"
	"github.com/barefootreset/backend/internal/telemetry/tracing"
	"github.com/barefootreset/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type usersRepo interface {
	Create(ctx context.Context, user User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	LinkChild(ctx context.Context, parentID, childID int) error
	ChildrenOf(ctx context.Context, parentID int) ([]User, error)
}

type Handler struct {
	authService    *Service
	usersRepo      usersRepo
	metricsManager *metrics.Manager
}

func NewHandler(
	authService *Service,
	usersRepo usersRepo,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		authService:    authService,
		usersRepo:      usersRepo,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the identity endpoints. The session endpoints under
// /a get the passed middlewares attached, the caller decides on rate
// limiting and CORS there.
func (handler *Handler) SetupRoutes(mainRouter *mux.Router, sessionMiddlewares ...mux.MiddlewareFunc) {
	mainRouter.HandleFunc("/me", handler.handleMe).Methods("GET", "OPTIONS").Name("me")

	familySubrouter := mainRouter.PathPrefix("/family").Subrouter()
	familySubrouter.HandleFunc("/link", handler.handleLinkChild).Methods("POST", "OPTIONS").Name("family-link")
	familySubrouter.HandleFunc("/children", handler.handleChildren).Methods("GET", "OPTIONS").Name("family-children")

	loginSubrouter := mainRouter.PathPrefix("/a").Subrouter()
	loginSubrouter.
		HandleFunc("/login", handler.handleLogin).
		Methods("POST", "OPTIONS").Name("login")
	loginSubrouter.
		HandleFunc("/logout", handler.handleLogout).
		Methods("GET", "OPTIONS").Name("logout")
	loginSubrouter.
		HandleFunc("/register", handler.handleRegister).
		Methods("POST", "OPTIONS").Name("register")

	loginSubrouter.Use(sessionMiddlewares...)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var credentials Credentials
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		credentials = Credentials{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	if credentials.Email == "" {
		http.Error(w, "error, email empty", http.StatusBadRequest)
		return
	}
	if credentials.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(ctx, credentials, time.Now())
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			span.SetStatus(codes.Error, "wrong-credentials")
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	handler.metricsManager.CounterLogins.Inc()
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	authToken := r.Header.Get(TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if err := handler.authService.Logout(ctx, authToken); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		log.Errorf("logout failed: %s", err)
		http.Error(w, "logout failed", http.StatusInternalServerError)
		return
	}

	log.Tracef("logout for session token: %s...", authToken[:5])
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.register")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type registerRequest struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     Role   `json:"role"`
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("register, unmarshal json params: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		http.Error(w, "error, email, name or password empty", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = RoleAthlete
	}
	if !req.Role.Valid() {
		http.Error(w, "error, invalid role", http.StatusBadRequest)
		return
	}

	passwordHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		log.Errorf("register, hash password: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	user, err := handler.usersRepo.Create(ctx, User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: passwordHash,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			http.Error(w, "error, email taken", http.StatusConflict)
			return
		}
		log.Errorf("register, create user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("register, marshal user: %s", err)
		http.Error(w, "register failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, userJson, http.StatusCreated)
}

func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.me")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	user, err := handler.usersRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get user %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}

	userJson, err := json.Marshal(user)
	if err != nil {
		log.Errorf("marshal user: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, userJson)
}

func (handler *Handler) handleLinkChild(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.linkChild")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	parent, err := handler.usersRepo.GetByID(ctx, userID)
	if err != nil {
		log.Errorf("link child, get user %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}
	if parent.Role != RoleParent {
		http.Error(w, "no can do", http.StatusForbidden)
		return
	}

	type linkRequest struct {
		ChildEmail string `json:"childEmail"`
	}
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid request", http.StatusBadRequest)
		return
	}
	if req.ChildEmail == "" {
		http.Error(w, "error, child email empty", http.StatusBadRequest)
		return
	}

	child, err := handler.usersRepo.GetByEmail(ctx, req.ChildEmail)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "child not found", http.StatusNotFound)
			return
		}
		log.Errorf("link child, get child: %s", err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}
	if child.Role != RoleAthlete {
		http.Error(w, "error, can link athlete accounts only", http.StatusBadRequest)
		return
	}

	if err := handler.usersRepo.LinkChild(ctx, parent.ID, child.ID); err != nil {
		log.Errorf("link child %d -> %d: %s", parent.ID, child.ID, err)
		http.Error(w, "link failed", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "linked")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"linked": %d}`, child.ID))
}

func (handler *Handler) handleChildren(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.children")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	children, err := handler.usersRepo.ChildrenOf(ctx, userID)
	if err != nil {
		log.Errorf("get children of %d: %s", userID, err)
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(`{"error":"data unavailable"}`), http.StatusServiceUnavailable)
		return
	}
	if children == nil {
		children = []User{}
	}

	childrenJson, err := json.Marshal(children)
	if err != nil {
		log.Errorf("marshal children: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, childrenJson)
}
