package actions_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-auth-client/actions"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/stretchr/testify/require"
)

func validLogin() actions.LoginFields {
	return actions.LoginFields{Email: "a@b.com", Password: "secret1"}
}

func TestLogin_Validation(t *testing.T) {
	api := newMockAPI(t, http.StatusOK, `{}`)
	f := newFixture(t, api)

	state := f.actions.Login(context.Background(), actions.LoginState{}, actions.LoginFields{Email: "a@b.com", Password: "12345"}, "")
	require.Equal(t, actions.LoginState{Error: actions.MsgPasswordTooShort}, state)
	require.Zero(t, api.calls.Load())
}

func TestLogin_ServerMessageOnFailure(t *testing.T) {
	api := newMockAPI(t, http.StatusUnauthorized, `{"message":"bad creds"}`)
	f := newFixture(t, api)

	state := f.actions.Login(context.Background(), actions.LoginState{}, validLogin(), "")

	require.Equal(t, actions.LoginState{Success: false, Error: "bad creds", User: nil}, state)
	require.Equal(t, "/api/auth/login", api.path())
	require.Equal(t, map[string]string{"email": "a@b.com", "password": "secret1"}, api.body())

	_, ok := f.store.AccessToken()
	require.False(t, ok)
}

func TestLogin_GenericFailureMessage(t *testing.T) {
	for _, body := range []string{`{}`, `not json`} {
		api := newMockAPI(t, http.StatusInternalServerError, body)
		f := newFixture(t, api)

		state := f.actions.Login(context.Background(), actions.LoginState{}, validLogin(), "")
		require.Equal(t, "Login failed (500)", state.Error)
	}
}

func TestLogin_Success(t *testing.T) {
	api := newMockAPI(t, http.StatusOK, `{"accessToken":"t","refreshToken":"r","user":{"id":"1","email":"a@b.com"}}`)
	f := newFixture(t, api)

	state := f.actions.Login(context.Background(), actions.LoginState{}, validLogin(), "")

	require.Equal(t, actions.LoginState{Success: true, User: &actions.User{ID: "1", Email: "a@b.com"}}, state)

	token, ok := f.store.AccessToken()
	require.True(t, ok)
	require.Equal(t, "t", token)

	refresh, _ := f.jar.Get(session.RefreshTokenCookie)
	require.Equal(t, "r", refresh)
	userID, _ := f.jar.Get(session.UserIDCookie)
	require.Equal(t, "1", userID)
}

func TestLogin_ExplicitIdentifiers(t *testing.T) {
	api := newMockAPI(t, http.StatusOK, `{"accessToken":"t","refreshToken":"r","userId":"u-9","clientId":"web","user":{"id":"1","email":"a@b.com"}}`)
	f := newFixture(t, api)

	state := f.actions.Login(context.Background(), actions.LoginState{}, validLogin(), "")
	require.True(t, state.Success)

	userID, _ := f.jar.Get(session.UserIDCookie)
	require.Equal(t, "u-9", userID)
	clientID, _ := f.jar.Get(session.ClientIDCookie)
	require.Equal(t, "web", clientID)
}

func TestLogin_IncompleteResponse(t *testing.T) {
	bodies := []string{
		`{"refreshToken":"r","user":{"id":"1"}}`,
		`{"accessToken":"t","user":{"id":"1"}}`,
		`{"accessToken":"t","refreshToken":"r"}`,
	}
	for _, body := range bodies {
		api := newMockAPI(t, http.StatusOK, body)
		f := newFixture(t, api)

		state := f.actions.Login(context.Background(), actions.LoginState{}, validLogin(), "")
		require.Equal(t, actions.LoginState{Error: actions.MsgInvalidResponse}, state, body)

		_, ok := f.store.AccessToken()
		require.False(t, ok)
	}
}

func TestLogin_NetworkError(t *testing.T) {
	api := newMockAPI(t, http.StatusOK, `{}`)
	f := newFixture(t, api)

	state := f.actions.Login(context.Background(), actions.LoginState{}, validLogin(), closedServerURL()+"/login")
	require.Equal(t, actions.LoginState{Error: actions.MsgNetworkError}, state)
	require.Zero(t, api.calls.Load())
}

func TestLogin_UnreadableSuccessBody(t *testing.T) {
	api := newMockAPI(t, http.StatusOK, `<html>`)
	f := newFixture(t, api)

	state := f.actions.Login(context.Background(), actions.LoginState{}, validLogin(), "")
	require.Equal(t, actions.MsgNetworkError, state.Error)
}

func TestLogin_CustomEndpoint(t *testing.T) {
	api := newMockAPI(t, http.StatusUnauthorized, `{}`)
	f := newFixture(t, api)

	state := f.actions.Login(context.Background(), actions.LoginState{}, validLogin(), "/v2/session")
	require.Equal(t, "Login failed (401)", state.Error)
	require.Equal(t, "/v2/session", api.path())
}

func TestLogin_IgnoresPreviousState(t *testing.T) {
	api := newMockAPI(t, http.StatusUnauthorized, `{"message":"bad creds"}`)
	f := newFixture(t, api)

	prev := actions.LoginState{Success: true, User: &actions.User{ID: "old"}}
	state := f.actions.Login(context.Background(), prev, validLogin(), "")

	require.False(t, state.Success)
	require.Nil(t, state.User)
	require.Equal(t, "old", prev.User.ID)
}
