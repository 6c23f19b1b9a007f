package vault

import (
	"context"
	"fmt"

	"github.com/ijsvault/vaultadmin/internal/session"
)

type SignInRequest struct {
	Email      string `json:"email,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password"`
	DeviceType string `json:"deviceType,omitempty"`
	DeviceName string `json:"deviceName,omitempty"`
}

type wireToken struct {
	Token   string `json:"token"`
	Expires string `json:"expires,omitempty"`
}

type wireTokenPair struct {
	Access  wireToken `json:"access"`
	Refresh wireToken `json:"refresh"`
}

// signInWire tolerates both login response shapes: the current nested
// tokens.access/refresh pair and the legacy flat accessToken/refreshToken.
type signInWire struct {
	User         session.Info   `json:"user"`
	Tokens       *wireTokenPair `json:"tokens,omitempty"`
	AccessToken  string         `json:"accessToken,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
}

// SignIn authenticates and persists the resulting session token.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (session.Info, error) {
	var res signInWire
	if err := s.client.Post(ctx, pathAuthLogin, req, &res); err != nil {
		return session.Info{}, err
	}

	token := session.Token{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}
	if res.Tokens != nil && res.Tokens.Access.Token != "" {
		token = session.Token{
			AccessToken:  res.Tokens.Access.Token,
			RefreshToken: res.Tokens.Refresh.Token,
		}
	}
	if token.Empty() {
		return session.Info{}, fmt.Errorf("sign-in response carried no access token")
	}
	if err := s.session.SetSession(token, res.User); err != nil {
		return session.Info{}, err
	}
	return res.User, nil
}

// Logout tells the backend to drop the session, then clears local state. The
// local clear happens even when the request fails.
func (s *Service) Logout(ctx context.Context) error {
	reqErr := s.client.Get(ctx, pathAuthLogout, nil, nil)
	if err := s.session.ClearSession(); err != nil {
		return err
	}
	return reqErr
}

// RefreshTokens exchanges the stored refresh token for a fresh pair.
func (s *Service) RefreshTokens(ctx context.Context) error {
	current := s.session.Token()
	if current.RefreshToken == "" {
		return fmt.Errorf("no refresh token available")
	}
	body := map[string]string{"refreshToken": current.RefreshToken}

	var res signInWire
	if err := s.client.Post(ctx, pathAuthRefresh, body, &res); err != nil {
		return err
	}
	token := session.Token{AccessToken: res.AccessToken, RefreshToken: res.RefreshToken}
	if res.Tokens != nil && res.Tokens.Access.Token != "" {
		token = session.Token{
			AccessToken:  res.Tokens.Access.Token,
			RefreshToken: res.Tokens.Refresh.Token,
		}
	}
	if token.Empty() {
		return fmt.Errorf("refresh response carried no access token")
	}
	return s.session.SetSession(token, s.session.UserInfo())
}
