package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/domain"
	"taskboard/internal/service"
	httpez "taskboard/internal/transport/http/ez"
	mdw "taskboard/internal/transport/http/middleware"
	resp "taskboard/internal/transport/http/response"
)

// TokenIssuer 由 auth.JWTer 实现
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

type AuthHandler struct {
	users  *service.UserService
	tokens TokenIssuer
}

func NewAuthHandler(users *service.UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type profileView struct {
	userView
	CreatedAt time.Time `json:"createdAt"`
}

type registerIn struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginIn struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authOut struct {
	User    userView `json:"user"`
	Token   string   `json:"token"`
	Message string   `json:"message"`
}

type profileOut struct {
	User profileView `json:"user"`
}

func viewOf(u *domain.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) Mount(public, protected httpez.EZ) {
	// --- POST /api/register ---
	httpez.RegisterAction(public, httpez.Action[registerIn, authOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *registerIn) (authOut, error) {
			u, err := h.users.Register(c.Request.Context(), in.Name, in.Email, in.Password)
			if err != nil {
				return authOut{}, internalAs(err, "Internal server error during registration")
			}
			tok, err := h.tokens.Issue(u.ID, u.Email)
			if err != nil {
				return authOut{}, httpez.Internal("Internal server error during registration", err)
			}
			mdw.AuthEvents.WithLabelValues("register").Inc()
			return authOut{User: viewOf(u), Token: tok, Message: "User registered successfully"}, nil
		},
	})

	// --- POST /api/login ---
	httpez.RegisterAction(public, httpez.Action[loginIn, authOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (authOut, error) {
			if strings.TrimSpace(in.Email) == "" || in.Password == "" {
				return authOut{}, httpez.BadRequest("Email and password are required")
			}
			u, err := h.users.Verify(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					mdw.AuthEvents.WithLabelValues("login_failed").Inc()
				}
				return authOut{}, internalAs(err, "Internal server error during login")
			}
			tok, err := h.tokens.Issue(u.ID, u.Email)
			if err != nil {
				return authOut{}, httpez.Internal("Internal server error during login", err)
			}
			mdw.AuthEvents.WithLabelValues("login_ok").Inc()
			return authOut{User: viewOf(u), Token: tok, Message: "Login successful"}, nil
		},
	})

	// --- GET /api/profile ---
	httpez.RegisterAction(protected, httpez.Action[struct{}, profileOut]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (profileOut, error) {
			u, err := h.users.FindByID(c.Request.Context(), mdw.ClaimsFrom(c).UserID)
			if errors.Is(err, domain.ErrNotFound) {
				return profileOut{}, httpez.NotFound("User not found")
			}
			if err != nil {
				return profileOut{}, internalAs(err, "Internal server error")
			}
			return profileOut{User: profileView{userView: viewOf(u), CreatedAt: u.CreatedAt}}, nil
		},
	})
}

// internalAs 已知的领域错误原样返回，其余包成带文案的 Internal
func internalAs(err error, msg string) error {
	if ae := httpez.FromDomain(err); ae.Kind == resp.KindInternal {
		return httpez.Internal(msg, err)
	}
	return err
}
