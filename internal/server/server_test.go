package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"florist-backend/internal/auth"
	"florist-backend/internal/config"
	"florist-backend/internal/reports"
	"florist-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:      "0123456789abcdef0123456789abcdef",
		CORSOrigins:    "http://localhost:5173",
		ReportDir:      t.TempDir(),
		FontPath:       filepath.Join(t.TempDir(), "none.ttf"),
		StylesheetPath: filepath.Join(t.TempDir(), "none.css"),
		ImageTempDir:   t.TempDir(),
		Users:          config.DefaultUsers(),
	}
	return New(cfg, reports.NewWorkspace())
}

func (c *client) do(method, path, body string) (*http.Response, []byte) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func login(t *testing.T, app *fiber.App, user string) *client {
	t.Helper()
	c := &client{t: t, app: app}
	resp, data := c.do(http.MethodPost, "/api/auth/login", `{"login":"`+user+`","password":"123456"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var lr auth.LoginResponse
	require.NoError(t, json.Unmarshal(data, &lr))
	c.token = lr.Token
	return c
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := newApp(t)
	anon := &client{t: t, app: app}

	resp, data := anon.do(http.MethodPost, "/api/auth/login", `{"login":"direktor","password":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.NotContains(t, string(data), "token")
	assert.Contains(t, string(data), "Неверный логин или пароль!")

	for _, path := range []string{"/api/products", "/api/suppliers", "/api/reports/current", "/api/auth/me"} {
		resp, _ := anon.do(http.MethodGet, path, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestFloristCannotEditDirectory(t *testing.T) {
	app := newApp(t)
	florist := login(t, app, "florist")

	resp, _ := florist.do(http.MethodPost, "/api/suppliers", `{}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp, _ = florist.do(http.MethodDelete, "/api/products/1", "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = florist.do(http.MethodGet, "/api/products", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = florist.do(http.MethodPost, "/api/reports/order_conversion/open", `{"date":"2024-05-05"}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestStockReportFlow(t *testing.T) {
	app := newApp(t)
	dir := login(t, app, "direktor")

	resp, data := dir.do(http.MethodPost, "/api/suppliers",
		`{"name":"Флора","type":"ООО","phone":"8 800","email":"a@flora.ru","address":"Москва, Тверская, 1"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	for _, desc := range []string{"Роза", "Тюльпан"} {
		resp, data := dir.do(http.MethodPost, "/api/products",
			fmt.Sprintf(`{"category":"Цветок","description":"%s","price":"10","supplier_id":1}`, desc))
		require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	}

	resp, _ = dir.do(http.MethodGet, "/api/reports/current", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = dir.do(http.MethodPost, "/api/reports/sales/open", `{"date":"2024-05-05"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp, _ = dir.do(http.MethodPost, "/api/reports/stock/open", `{"date":"05.05.2024"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, data = dir.do(http.MethodPost, "/api/reports/stock/open", `{"date":"2024-05-05"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var grid reports.Grid
	require.NoError(t, json.Unmarshal(data, &grid))
	assert.Equal(t, "Отчет по остаткам товаров на 5 мая 2024г", grid.Title)
	require.Len(t, grid.Rows, 2)

	resp, data = dir.do(http.MethodPatch, "/api/reports/current/cells", `{"row":1,"column":"quantity","value":"-3"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var edit reports.EditCellResponse
	require.NoError(t, json.Unmarshal(data, &edit))
	assert.True(t, edit.Cell.Reset)
	assert.Equal(t, "0", edit.Cell.Value)

	resp, _ = dir.do(http.MethodPatch, "/api/reports/current/cells", `{"row":1,"column":"product","value":"x"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp, _ = dir.do(http.MethodPatch, "/api/reports/current/cells", `{"row":9,"column":"quantity","value":"1"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, data = dir.do(http.MethodDelete, "/api/reports/current/rows", `{"rows":[0]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	require.NoError(t, json.Unmarshal(data, &grid))
	require.Len(t, grid.Rows, 1)
	assert.Equal(t, []string{"1", "Тюльпан", "Флора", "0", "10 дней"}, grid.Rows[0])

	resp, data = dir.do(http.MethodPost, "/api/reports/current/pdf", "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	var file reports.FileResponse
	require.NoError(t, json.Unmarshal(data, &file))
	assert.True(t, strings.HasPrefix(file.File, "stock_report_"))

	resp, data = dir.do(http.MethodGet, "/api/reports/files/"+file.File, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
	resp, _ = dir.do(http.MethodGet, "/api/reports/files/..%2Fsecret.pdf", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = dir.do(http.MethodDelete, "/api/reports/current", "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp, _ = dir.do(http.MethodPost, "/api/reports/current/pdf", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestTemplatePDF(t *testing.T) {
	app := newApp(t)
	florist := login(t, app, "florist")

	resp, data := florist.do(http.MethodPost, "/api/reports/templates/invoice/pdf", "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(data))
	assert.Contains(t, string(data), "invoice_report_")

	resp, _ = florist.do(http.MethodPost, "/api/reports/templates/receipt/pdf", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	app := newApp(t)
	anon := &client{t: t, app: app}

	resp, data := anon.do(http.MethodGet, "/", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "Цветочный магазин")

	resp, _ = anon.do(http.MethodGet, "/styles.css", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
