package http

import (
	"net/http"
	"time"

	authdomain "github.com/kvolkov/session-gate/internal/auth/domain"
	"github.com/kvolkov/session-gate/internal/auth/service"
	commonhttp "github.com/kvolkov/session-gate/internal/common/http"
	"github.com/kvolkov/session-gate/internal/common/jwtverify"
	"github.com/kvolkov/session-gate/internal/common/logger"
)

const signinMessage = "Please go to login and provide Login/Password"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionID string `json:"sessionID"`
}

type authRequest struct {
	SessionID string `json:"sessionID"`
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type Handler struct {
	auth    *service.AuthService
	signup  *service.SignupService
	timeout time.Duration
	log     *logger.Logger
}

func NewHandler(
	auth *service.AuthService,
	signup *service.SignupService,
	jwtSecret string,
	timeout time.Duration,
	log *logger.Logger,
) http.Handler {
	h := &Handler{auth: auth, signup: signup, timeout: timeout, log: log}

	withTimeout := commonhttp.WithTimeout(timeout)
	bearerGuard := jwtverify.Middleware(jwtSecret, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/login", commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.login)))
	mux.HandleFunc("/auth", commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.authorize)))
	mux.HandleFunc("/signup", commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.signUp)))
	mux.HandleFunc("/signin", commonhttp.RequireMethod(http.MethodGet)(h.signin))
	mux.Handle("/whoAmI", bearerGuard(commonhttp.RequireMethod(http.MethodGet)(h.whoAmI)))
	return mux
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	result, err := h.auth.Login(r.Context(), authdomain.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	setIdentityHeaders(w, result.Identity)
	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{SessionID: result.SessionID})
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("auth failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	identity, err := h.auth.Authorize(r.Context(), req.SessionID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	// Identity travels in headers; the caller already holds the rest.
	setIdentityHeaders(w, identity)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("signup failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := h.signup.SignUp(r.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, userResponse{
		ID:       string(user.ID),
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *Handler) signin(w http.ResponseWriter, r *http.Request) {
	commonhttp.WriteJSON(w, http.StatusOK, map[string]string{"message": signinMessage})
}

func (h *Handler) whoAmI(w http.ResponseWriter, r *http.Request) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}

	subject := h.auth.WhoAmI(service.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(subject))
}

func setIdentityHeaders(w http.ResponseWriter, identity service.Identity) {
	w.Header().Set("X-UserId", identity.UserID)
	w.Header().Set("X-User", identity.Username)
	w.Header().Set("X-Email", identity.Email)
}
