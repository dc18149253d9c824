package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwagger_Host(t *testing.T) {
	tests := []struct {
		name       string
		publicHost string
		proto      string
		wantHost   string
		wantScheme string
	}{
		{name: "configured host wins", publicHost: "docs.example.com", wantHost: "docs.example.com", wantScheme: "http"},
		{name: "request host fallback", wantHost: "internal:8080", wantScheme: "http"},
		{name: "forwarded proto", publicHost: "docs.example.com", proto: "https, http", wantHost: "docs.example.com", wantScheme: "https"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/swagger/*", Swagger(tt.publicHost))

			req := httptest.NewRequest("GET", "/swagger/doc.json", nil)
			req.Host = "internal:8080"
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, fiber.StatusOK, resp.StatusCode)

			var doc struct {
				Host    string   `json:"host"`
				Schemes []string `json:"schemes"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
			assert.Equal(t, tt.wantHost, doc.Host)
			assert.Equal(t, []string{tt.wantScheme}, doc.Schemes)
		})
	}
}
