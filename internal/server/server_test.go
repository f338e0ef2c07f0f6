package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/challenge-solver/internal/analysis"
	"github.com/jonathan/challenge-solver/internal/capture"
	"github.com/jonathan/challenge-solver/internal/config"
	"github.com/jonathan/challenge-solver/internal/types"
)

const testPassword = "open-sesame"

// stubSolver records its input and returns a canned outcome.
type stubSolver struct {
	imageCount int
	markup     string
	outcome    analysis.Outcome
}

func (s *stubSolver) Analyze(_ context.Context, markup string, images []image.Image) analysis.Outcome {
	s.markup = markup
	s.imageCount = len(images)
	return s.outcome
}

func newTestServer(t *testing.T) (*Server, *stubSolver) {
	t.Helper()

	creds := &config.CredentialConfig{BcryptCost: 10}
	hash, err := creds.HashPassword(testPassword)
	require.NoError(t, err)
	creds.PasswordHash = hash

	jwtService := NewJWTService(&config.JWTConfig{Secret: "test-secret", ExpirationHours: 1})

	solver := &stubSolver{
		outcome: analysis.Outcome{
			Rule:     types.Rule{Kind: types.RuleMaximum},
			Results:  []types.PerImageResult{{Index: 0, TotalShapes: 3, Metric: 2}},
			Decision: types.Select(0),
		},
	}

	s := &Server{
		solver:      solver,
		validator:   validator.New(),
		jwtService:  jwtService,
		authHandler: NewAuthHandler(creds, jwtService),
	}
	s.capture = func(_ context.Context, url string) (*capture.Challenge, error) {
		return nil, &capture.Error{URL: url, Message: "capture not available in tests"}
	}
	return s, solver
}

func operatorToken(t *testing.T, s *Server) string {
	t.Helper()
	token, err := s.jwtService.GenerateToken()
	require.NoError(t, err)
	return token
}

func pngDataURL(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestLogin(t *testing.T) {
	s, _ := newTestServer(t)
	handler := s.Handler()

	t.Run("correct password issues token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			bytes.NewBufferString(fmt.Sprintf(`{"password": %q}`, testPassword)))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NoError(t, s.jwtService.ValidateToken(resp.Token))
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			bytes.NewBufferString(`{"password": "wrong"}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing password rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			bytes.NewBufferString(`{}`))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSolve_RequiresAuth(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/solve",
		bytes.NewBufferString(`{"instruction": "x", "images": ["y"]}`))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSolve_InlineChallenge(t *testing.T) {
	s, solver := newTestServer(t)
	token := operatorToken(t, s)

	body := map[string]any{
		"instruction": "<p>Select the image with the most empty squares.</p>",
		"images":      []string{pngDataURL(t), pngDataURL(t)},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/solve", bytes.NewBuffer(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2, solver.imageCount)
	assert.Contains(t, solver.markup, "most empty squares")

	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.RuleMaximum, resp.Rule.Kind)
	require.NotNil(t, resp.Decision.SelectedIndex)
	assert.Equal(t, 0, *resp.Decision.SelectedIndex)
	assert.Empty(t, resp.RunID, "no database, no run ID")
}

func TestSolve_ValidatesInputCombinations(t *testing.T) {
	s, _ := newTestServer(t)
	token := operatorToken(t, s)
	handler := s.Handler()

	cases := map[string]string{
		"neither source":     `{}`,
		"both sources":       fmt.Sprintf(`{"page_url": "http://x.test", "instruction": "x", "images": [%q]}`, pngDataURL(t)),
		"instruction only":   `{"instruction": "x"}`,
		"undecodable image":  `{"instruction": "x", "images": ["data:image/png;base64,!"]}`,
		"malformed page url": `{"page_url": "not a url"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/solve", bytes.NewBufferString(body))
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestSolve_CaptureFailureIsBadGateway(t *testing.T) {
	s, _ := newTestServer(t)
	token := operatorToken(t, s)

	req := httptest.NewRequest(http.MethodPost, "/solve",
		bytes.NewBufferString(`{"page_url": "http://challenge.test/widget"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSolve_CapturedChallenge(t *testing.T) {
	s, solver := newTestServer(t)
	token := operatorToken(t, s)
	s.capture = func(_ context.Context, url string) (*capture.Challenge, error) {
		return &capture.Challenge{
			URL:         url,
			Instruction: "<p>highest count</p>",
			ImageURLs:   []string{pngDataURL(t)},
		}, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/solve",
		bytes.NewBufferString(`{"page_url": "http://challenge.test/widget"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, solver.imageCount)
	assert.Contains(t, solver.markup, "highest count")
}

func TestRuns_WithoutDatabase(t *testing.T) {
	s, _ := newTestServer(t)
	token := operatorToken(t, s)

	for _, path := range []string{
		"/runs",
		"/runs/6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"/runs/6ba7b810-9dad-11d1-80b4-00c04fd430c8/artifacts/rule",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotImplemented, w.Code, path)
	}
}
