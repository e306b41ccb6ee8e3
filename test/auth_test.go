package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/barefootreset/backend/internal/auth"

	"github.com/stretchr/testify/require"
)

type registerRequest struct {
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func registerUser(ctx context.Context, t *testing.T, regReq registerRequest) auth.User {
	regReqJson, err := json.Marshal(regReq)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/register", serverEndpoint), bytes.NewBuffer(regReqJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var user auth.User
	require.NoError(t, json.Unmarshal(respBytes, &user))
	require.NotZero(t, user.ID)

	return user
}

func doLogin(ctx context.Context, t *testing.T, email, password string) string {
	creds := auth.Credentials{
		Email:    email,
		Password: password,
	}
	credsJson, err := json.Marshal(creds)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/a/login", serverEndpoint), bytes.NewBuffer(credsJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotEmpty(t, respBytes)

	var loginResp loginResponse
	require.NoError(t, json.Unmarshal(respBytes, &loginResp))
	require.NotEmpty(t, loginResp.Token)

	return loginResp.Token
}

func authedGet(ctx context.Context, t *testing.T, token, path string) *http.Response {
	req, err := http.NewRequestWithContext(ctx, "GET", serverEndpoint+path, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set(auth.TokenHeader, token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func authedPost(ctx context.Context, t *testing.T, token, path string, body any) *http.Response {
	bodyJson, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(ctx, "POST", serverEndpoint+path, bytes.NewBuffer(bodyJson))
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.TokenHeader, token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}
