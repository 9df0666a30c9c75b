//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow(t *testing.T) {
	env := SetupTestEnv(t)

	t.Run("register", func(t *testing.T) {
		result := RegisterUser(t, env, "auth-flow@example.com", "password123")
		data := result["data"].(map[string]any)
		assert.NotEmpty(t, data["access_token"])
		assert.NotEmpty(t, data["refresh_token"])
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		body := map[string]string{"email": "auth-flow@example.com", "password": "password123"}
		resp := DoRequest(t, env, "POST", "/api/v1/auth/register", body, "")
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("login", func(t *testing.T) {
		token := LoginUser(t, env, "auth-flow@example.com", "password123")
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		body := map[string]string{"email": "auth-flow@example.com", "password": "wrong-password"}
		resp := DoRequest(t, env, "POST", "/api/v1/auth/login", body, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("protected route requires token", func(t *testing.T) {
		resp := DoRequest(t, env, "GET", "/api/v1/workspaces", nil, "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
