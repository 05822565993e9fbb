package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/FarmHub-api/internal/domain/access"
	apphttp "github.com/jhoicas/FarmHub-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/FarmHub-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testBranchID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "farmhub-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar el alcance
//   - RequirePermission para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(p access.Permission) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission(p),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetScope(c).Role.String(),
			})
		},
	)
	return app
}

// tokenFor genera un JWT con el rol y la sucursal base indicados.
func tokenFor(t *testing.T, role, branchID string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Session{
		UserID:   testUserID,
		Role:     role,
		BranchID: branchID,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role string) string {
	return tokenFor(t, role, testBranchID)
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission sobre el token
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission_SuperAdminAccedeASettings(t *testing.T) {
	app := buildTestApp(access.PermSettings)
	resp := doRequest(t, app, tokenFor(t, "super_admin", ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "super_admin", body["role"])
}

func TestRequirePermission_RolSinCapacidad_Retorna403(t *testing.T) {
	app := buildTestApp(access.PermSettings)
	resp := doRequest(t, app, tokenForRole(t, "field_staff"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
	assert.Contains(t, string(body), "settings")
}

// Un token sin claim de rol se rechaza antes de evaluar permisos.
func TestAuthMiddleware_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(access.PermSettings)
	resp := doRequest(t, app, tokenForRole(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(access.PermSettings)
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(access.PermSettings)
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_EsquemaDistintoDeBearer_Retorna401(t *testing.T) {
	app := buildTestApp(access.PermSettings)
	resp := doRequest(t, app, "Basic dXNlcjpwYXNz")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: alcance reconstruido desde el token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ReconstruyeAlcance(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		scope := apphttp.GetScope(c)
		return c.JSON(fiber.Map{
			"user_id":   scope.UserID,
			"role":      scope.Role.String(),
			"effective": access.EffectiveBranchID(scope),
		})
	})

	cases := []struct {
		name      string
		role      string
		branch    string
		selected  string
		effective string
	}{
		{"manager en su sucursal", "branch_manager", testBranchID, "", testBranchID},
		{"super_admin sin selección", "super_admin", "", "", access.AllBranches},
		{"super_admin con selección", "super_admin", "", "south", "south"},
		{"selección ignorada para otros roles", "accountant", testBranchID, "south", testBranchID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Session{
				UserID: testUserID, Role: tc.role, BranchID: tc.branch, SelectedBranchID: tc.selected,
			})
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, testUserID, body["user_id"])
			assert.Equal(t, tc.role, body["role"])
			assert.Equal(t, tc.effective, body["effective"])
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission / RequireLicense
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePermission(t *testing.T) {
	app := fiber.New()
	app.Get("/finance",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequirePermission(access.PermFinance),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	cases := map[string]int{
		"super_admin":     http.StatusOK,
		"branch_manager":  http.StatusOK,
		"accountant":      http.StatusOK,
		"field_staff":     http.StatusForbidden,
		"inventory_staff": http.StatusForbidden,
		"desconocido":     http.StatusForbidden,
	}
	for role, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/finance", nil)
		req.Header.Set("Authorization", tokenForRole(t, role))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "rol %s", role)
		resp.Body.Close()
	}
}

type stubChecker struct {
	ok  bool
	err error
}

func (s stubChecker) HasValidLicense(context.Context) (bool, error) { return s.ok, s.err }

func TestRequireLicense(t *testing.T) {
	cases := []struct {
		name    string
		checker stubChecker
		status  int
		code    string
	}{
		{"vigente", stubChecker{ok: true}, http.StatusOK, ""},
		{"vencida", stubChecker{ok: false}, http.StatusPaymentRequired, "LICENSE_EXPIRED"},
		{"fallo al consultar", stubChecker{err: errors.New("db caída")}, http.StatusServiceUnavailable, "LICENSE_CHECK_FAILED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/x", apphttp.RequireLicense(tc.checker), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), tc.code)
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Session{
		UserID: testUserID, Role: "super_admin", SelectedBranchID: testBranchID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, "super_admin", claims.Role)
	assert.Equal(t, testBranchID, claims.SelectedBranchID)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, -1, pkgjwt.Session{UserID: testUserID, Role: "accountant"})
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Session{UserID: testUserID, Role: "accountant"})
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
