//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceAndIdeaFlow(t *testing.T) {
	env := SetupTestEnv(t)

	RegisterUser(t, env, "trips-flow@example.com", "password123")
	token := LoginUser(t, env, "trips-flow@example.com", "password123")

	var workspaceID, ideaID string

	t.Run("create workspace", func(t *testing.T) {
		resp := DoRequest(t, env, "POST", "/api/v1/workspaces", map[string]string{"name": "Summer trip"}, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		data := ParseResponse(t, resp)["data"].(map[string]any)
		assert.Equal(t, "Summer trip", data["name"])
		workspaceID = data["id"].(string)
	})

	t.Run("create idea", func(t *testing.T) {
		body := map[string]string{"title": "Kyoto in autumn", "description": "Momiji season"}
		resp := DoRequest(t, env, "POST", "/api/v1/workspaces/"+workspaceID+"/ideas", body, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		data := ParseResponse(t, resp)["data"].(map[string]any)
		assert.Equal(t, "proposed", data["status"])
		ideaID = data["id"].(string)
	})

	t.Run("promote idea", func(t *testing.T) {
		resp := DoRequest(t, env, "POST", "/api/v1/ideas/"+ideaID+"/status", map[string]string{"status": "discussing"}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data := ParseResponse(t, resp)["data"].(map[string]any)
		assert.Equal(t, "discussing", data["status"])
	})

	t.Run("backward transition rejected", func(t *testing.T) {
		resp := DoRequest(t, env, "POST", "/api/v1/ideas/"+ideaID+"/status", map[string]string{"status": "proposed"}, token)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("attach proposal", func(t *testing.T) {
		body := map[string]string{"kind": "period", "content": "first week of October"}
		resp := DoRequest(t, env, "POST", "/api/v1/ideas/"+ideaID+"/proposals", body, token)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("like and list", func(t *testing.T) {
		resp := DoRequest(t, env, "POST", "/api/v1/ideas/"+ideaID+"/like", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = DoRequest(t, env, "GET", "/api/v1/ideas/"+ideaID, nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		data := ParseResponse(t, resp)["data"].(map[string]any)
		assert.Equal(t, float64(1), data["like_count"])
	})

	t.Run("non-member denied", func(t *testing.T) {
		RegisterUser(t, env, "outsider@example.com", "password123")
		outsiderToken := LoginUser(t, env, "outsider@example.com", "password123")

		resp := DoRequest(t, env, "GET", fmt.Sprintf("/api/v1/workspaces/%s", workspaceID), nil, outsiderToken)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
