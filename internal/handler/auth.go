package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/show-ticket-office/internal/config" // server configuration
	"github.com/iliyamo/show-ticket-office/internal/utils"  // JWT and password helpers
)

// AuthHandler issues operator access tokens.  Buyer tokens are minted
// by the conversational front-end with the shared signing secret, so
// the only credential this service checks itself is the operator's.
type AuthHandler struct {
	Cfg *config.Config
}

// NewAuthHandler constructs an AuthHandler.  Cfg must be non-nil.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	if cfg == nil {
		panic("nil config passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg}
}

// OperatorLogin handles POST /v1/auth/operator-login.  The request body
// carries the operator password; on a bcrypt match against the
// configured hash it returns a short-lived OPERATOR access token.
func (h *AuthHandler) OperatorLogin(c echo.Context) error {
	var body struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil || body.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password is required"})
	}
	if !utils.CheckPassword(h.Cfg.OperatorPasswordHash, body.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	token, err := utils.NewAccessToken(h.Cfg.JWTSecret, h.Cfg.OperatorID, utils.RoleOperator, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": token.Token,
		"expires_at":   token.Exp,
	})
}
