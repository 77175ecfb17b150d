package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/dukerupert/grocerybuddy/internal/auth"
	"github.com/dukerupert/grocerybuddy/internal/middleware"
	"github.com/dukerupert/grocerybuddy/internal/model"
	"github.com/dukerupert/grocerybuddy/internal/service"
	"github.com/dukerupert/grocerybuddy/internal/session"
)

// AuthHandler serves the register, login and logout flows. Browsers get
// HTML forms and redirects; clients sending Accept: application/json get
// JSON bodies instead.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
	pages    *Pages
	errorWriter
}

func NewAuthHandler(as *service.AuthService, sm *session.Manager, pages *Pages, production bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        as,
		sessions:    sm,
		pages:       pages,
		errorWriter: errorWriter{production: production, logger: logger},
	}
}

type loginForm struct {
	Title      string
	Message    string
	Identifier string `json:"emailOrUsername"`
	Password   string `json:"password"`
}

type registerForm struct {
	Title   string
	Message string
	service.RegisterInput
}

// readForm fills v from a JSON body or from url-encoded/multipart fields.
func readForm(w http.ResponseWriter, r *http.Request, v any, fields func(get func(string) string)) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return errInvalidBody
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return errInvalidBody
	}
	fields(r.PostForm.Get)
	return nil
}

var errInvalidBody = fmt.Errorf("%w: Invalid request body", model.ErrValidation)

func alreadySignedIn(r *http.Request) bool {
	_, ok := auth.FromContext(r.Context())
	return ok
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if alreadySignedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.pages.render(w, http.StatusOK, "login.html", loginForm{Title: "Log in"})
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if alreadySignedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.pages.render(w, http.StatusOK, "register.html", registerForm{Title: "Register"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := loginForm{Title: "Log in"}
	err := readForm(w, r, &form, func(get func(string) string) {
		form.Identifier = get("emailOrUsername")
		form.Password = get("password")
	})
	if err == nil {
		var user *model.User
		user, err = h.auth.Login(r.Context(), form.Identifier, form.Password)
		if err == nil {
			h.signIn(w, r, user, http.StatusOK, "Login successful")
			return
		}
	}

	h.logger.Info("login failed", "remote", middleware.RealIP(r), "request_id", middleware.RequestIDFromContext(r.Context()))
	if middleware.WantsJSON(r) {
		h.writeError(w, r, "login", err)
		return
	}
	status, msg, ok := errorStatus(err)
	if !ok {
		h.logger.Error("login", "error", err)
		msg = "Login failed. Try again."
	}
	form.Password = ""
	form.Message = msg
	h.pages.render(w, status, "login.html", form)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := registerForm{Title: "Register"}
	err := readForm(w, r, &form.RegisterInput, func(get func(string) string) {
		form.Username = get("username")
		form.Email = get("email")
		form.Password = get("password")
		form.ConfirmPassword = get("confirmPassword")
	})
	if err == nil {
		var user *model.User
		user, err = h.auth.Register(r.Context(), form.RegisterInput)
		if err == nil {
			h.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
			h.signIn(w, r, user, http.StatusCreated, "Registration successful")
			return
		}
	}

	if middleware.WantsJSON(r) {
		h.writeError(w, r, "register", err)
		return
	}
	status, msg, ok := errorStatus(err)
	if !ok {
		h.logger.Error("register", "error", err)
		msg = "Something went wrong. Try again."
	}
	form.Password, form.ConfirmPassword = "", ""
	form.Message = msg
	h.pages.render(w, status, "register.html", form)
}

// signIn issues a session for user and finishes the request: JSON clients
// get status and the user, browsers are redirected to the dashboard.
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request, user *model.User, status int, message string) {
	if _, err := h.sessions.Issue(r.Context(), w, user); err != nil {
		if middleware.WantsJSON(r) {
			h.writeError(w, r, "issue session", err)
			return
		}
		h.logger.Error("issue session", "error", err, "user_id", user.ID)
		http.Error(w, genericErrorMessage, http.StatusInternalServerError)
		return
	}

	if middleware.WantsJSON(r) {
		writeJSON(w, status, map[string]any{"message": message, "user": user})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout always succeeds from the caller's point of view; store failures are
// only logged.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		h.logger.Error("logout", "error", err, "request_id", middleware.RequestIDFromContext(r.Context()))
	}
	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
