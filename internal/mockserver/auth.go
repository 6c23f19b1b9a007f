package mockserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	adminPassword   = "vault-admin"
	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPayload struct {
	Token   string `json:"token"`
	Expires string `json:"expires"`
}

type tokensPayload struct {
	Access  tokenPayload `json:"access"`
	Refresh tokenPayload `json:"refresh"`
}

func (s *Server) issueToken(tokenType string, ttl time.Duration) (tokenPayload, error) {
	now := s.now().UTC()
	expires := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  s.store.adminProfile().ID,
		"jti":  uuid.NewString(),
		"type": tokenType,
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return tokenPayload{}, err
	}
	return tokenPayload{Token: signed, Expires: expires.Format(time.RFC3339)}, nil
}

func (s *Server) issueTokenPair() (tokensPayload, error) {
	access, err := s.issueToken("access", accessTokenTTL)
	if err != nil {
		return tokensPayload{}, err
	}
	refresh, err := s.issueToken("refresh", refreshTokenTTL)
	if err != nil {
		return tokensPayload{}, err
	}
	return tokensPayload{Access: access, Refresh: refresh}, nil
}

func (s *Server) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "")
	}
	admin := s.store.adminProfile()
	if !strings.EqualFold(strings.TrimSpace(req.Email), admin.Email) || req.Password != adminPassword {
		return respondError(c, http.StatusUnauthorized, "Invalid credentials", "check email and password")
	}
	tokens, err := s.issueTokenPair()
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not issue tokens", "")
	}
	return respondSuccess(c, map[string]any{
		"user":   admin,
		"tokens": tokens,
	})
}

func (s *Server) logout(c echo.Context) error {
	claims, ok := c.Get("claims").(jwt.MapClaims)
	if ok {
		if jti, _ := claims["jti"].(string); jti != "" {
			s.rdb.Set(c.Request().Context(), revokedKey(jti), "1", accessTokenTTL)
		}
	}
	return respondSuccessMessage(c, "Logged out", nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) refreshTokens(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid request body", "")
	}
	claims, err := s.parseToken(req.RefreshToken)
	if err != nil || claims["type"] != "refresh" {
		return respondError(c, http.StatusUnauthorized, "Invalid refresh token", "")
	}
	tokens, err := s.issueTokenPair()
	if err != nil {
		return respondError(c, http.StatusInternalServerError, "could not issue tokens", "")
	}
	return respondSuccess(c, map[string]any{"tokens": tokens})
}

func (s *Server) parseToken(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// requireAuth validates the bearer token and rejects revoked token ids.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			return respondError(c, http.StatusUnauthorized, "Missing access token", "")
		}
		claims, err := s.parseToken(strings.TrimSpace(raw))
		if err != nil || claims["type"] != "access" {
			return respondError(c, http.StatusUnauthorized, "Invalid access token", "")
		}
		if jti, _ := claims["jti"].(string); jti != "" {
			revoked, err := s.rdb.Exists(c.Request().Context(), revokedKey(jti)).Result()
			if err != nil {
				return respondError(c, http.StatusInternalServerError, "token check failed", "")
			}
			if revoked > 0 {
				return respondError(c, http.StatusUnauthorized, "Token revoked", "")
			}
		}
		c.Set("claims", claims)
		return next(c)
	}
}

func revokedKey(jti string) string {
	return "vaultadmin:revoked:" + jti
}
