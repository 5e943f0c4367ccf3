package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-auth-client/actions"
	"github.com/jrsteele09/go-auth-client/auth"
	"github.com/jrsteele09/go-auth-client/cookies"
	apperrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/users"
	"github.com/rs/zerolog/log"
)

const maxBodyBytes = 1 << 20

const (
	MsgResetEmailSent = actions.MsgResetEmailSent
	MsgPasswordReset  = actions.MsgPasswordReset
)

// AuthResponse is returned by login and signup.
type AuthResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	TokenType    string        `json:"tokenType"`
	ExpiresIn    int           `json:"expiresIn,omitempty"`
	UserID       string        `json:"userId"`
	ClientID     string        `json:"clientId,omitempty"`
	User         users.Profile `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type loginRequest struct {
	actions.LoginFields
	ClientID string `json:"clientId"`
}

type signupRequest struct {
	actions.SignupFields
	ClientID string `json:"clientId"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// LoginHandler accepts JSON or a urlencoded form.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if isForm(r) {
			if err := r.ParseForm(); err != nil {
				writeJSONError(w, "Invalid form body", http.StatusBadRequest)
				return
			}
			req.LoginFields = actions.LoginFieldsFromValues(r.PostForm)
			req.ClientID = r.PostForm.Get("clientId")
		} else if err := decodeJSON(w, r, &req); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		sess, err := s.auth.Login(r.Context(), req.Email, req.Password, req.ClientID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeSession(w, r, sess, req.ClientID, http.StatusOK)
	}
}

func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if isForm(r) {
			if err := r.ParseForm(); err != nil {
				writeJSONError(w, "Invalid form body", http.StatusBadRequest)
				return
			}
			req.SignupFields = actions.SignupFieldsFromValues(r.PostForm)
			req.ClientID = r.PostForm.Get("clientId")
		} else if err := decodeJSON(w, r, &req); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		sess, err := s.auth.Signup(r.Context(), auth.SignupRequest{
			Email:           req.Email,
			Username:        req.Username,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			ClientID:        req.ClientID,
		})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeSession(w, r, sess, req.ClientID, http.StatusCreated)
	}
}

// writeSession sets the session cookies and writes the token body.
func (s *Server) writeSession(w http.ResponseWriter, r *http.Request, sess *auth.Session, clientID string, status int) {
	s.cookieStore(w, r).StoreLoginData(session.LoginData{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		UserID:       sess.User.ID,
		ClientID:     clientID,
	})

	writeJSON(w, status, AuthResponse{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.config.GetDefaultAccessTokenExpiry().Seconds()),
		UserID:       sess.User.ID,
		ClientID:     clientID,
		User:         sess.User.Profile(),
	})
}

// RefreshHandler takes the refresh token from the body, falling back to the
// refresh_token cookie.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken := s.requestRefreshToken(w, r)
		if refreshToken == "" {
			writeJSONError(w, "Refresh token is required", http.StatusUnauthorized)
			return
		}

		accessToken, err := s.auth.Refresh(r.Context(), refreshToken)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, RefreshResponse{AccessToken: accessToken, TokenType: "Bearer"})
	}
}

// LogoutHandler revokes whatever tokens the caller presents and always
// clears the session cookies.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refreshToken := s.requestRefreshToken(w, r)
		if err := s.auth.Logout(r.Context(), refreshToken, bearerToken(r)); err != nil {
			log.Error().Err(err).Msg("logout failed")
		}
		s.cookieStore(w, r).Clear()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) ForgotPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actions.ForgotPasswordFields
		if isForm(r) {
			if err := r.ParseForm(); err != nil {
				writeJSONError(w, "Invalid form body", http.StatusBadRequest)
				return
			}
			req = actions.ForgotPasswordFieldsFromValues(r.PostForm)
		} else if err := decodeJSON(w, r, &req); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := s.auth.ForgotPassword(r.Context(), req.Email); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: MsgResetEmailSent})
	}
}

func (s *Server) ResetPasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actions.ResetPasswordFields
		if isForm(r) {
			if err := r.ParseForm(); err != nil {
				writeJSONError(w, "Invalid form body", http.StatusBadRequest)
				return
			}
			req = actions.ResetPasswordFieldsFromValues(r.PostForm)
		} else if err := decodeJSON(w, r, &req); err != nil {
			writeJSONError(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := s.auth.ResetPassword(r.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: MsgPasswordReset})
	}
}

// MeHandler must sit behind RequireBearerAuth.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, user.Profile())
	}
}

func (s *Server) cookieStore(w http.ResponseWriter, r *http.Request) *session.Store {
	return session.New(cookies.NewHTTPJar(w, r), session.WithCookieDays(s.config.GetCookieDays()))
}

func (s *Server) requestRefreshToken(w http.ResponseWriter, r *http.Request) string {
	var req refreshRequest
	if r.ContentLength != 0 && !isForm(r) {
		if err := decodeJSON(w, r, &req); err != nil {
			log.Debug().Err(err).Msg("ignoring undecodable refresh body")
		}
	}
	if req.RefreshToken != "" {
		return req.RefreshToken
	}
	token, _ := s.cookieStore(w, r).RefreshToken()
	return token
}

func isForm(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"message": message})
}

// writeError maps service errors onto a status and client facing message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}
	writeJSONError(w, message, status)
}

func errorStatus(err error) (int, string) {
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password"
	case apperrors.Is(err, auth.UserBlockedErr):
		return http.StatusForbidden, "This account has been blocked"
	case apperrors.Is(err, auth.MissingFieldsErr):
		return http.StatusBadRequest, "Please fill in all required fields"
	case apperrors.Is(err, auth.UserPasswordsDontMatchErr):
		return http.StatusBadRequest, "Passwords do not match"
	case apperrors.Is(err, apperrors.ErrWeakPassword):
		return http.StatusBadRequest, weakPasswordMessage(err)
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusBadRequest, "Please enter a valid email address"
	case apperrors.Is(err, apperrors.ErrUserExists):
		return http.StatusConflict, "An account with that email already exists"
	case apperrors.Is(err, auth.UsernameTakenErr):
		return http.StatusConflict, "That username is already taken"
	case apperrors.Is(err, apperrors.ErrInvalidResetToken):
		return http.StatusBadRequest, "Reset token is invalid or has already been used"
	case apperrors.Is(err, apperrors.ErrResetTokenExpired):
		return http.StatusBadRequest, "Reset token has expired"
	case apperrors.Is(err, apperrors.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, "Refresh token has expired"
	case apperrors.Is(err, apperrors.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "Invalid refresh token"
	case apperrors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, "Access token has expired"
	case apperrors.Is(err, apperrors.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid access token"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// weakPasswordMessage returns the strength rule that failed, capitalised.
func weakPasswordMessage(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		msg = msg[i+2:]
	}
	if msg == "" {
		return "Password is too weak"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
