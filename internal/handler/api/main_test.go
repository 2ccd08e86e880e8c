package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"Natalis/internal/domain/models"
	"Natalis/internal/services/natal"
	"Natalis/internal/usecase"
	xhttp "Natalis/pkg/http"
)

type stubProvider struct {
	mu   sync.Mutex
	data *models.EphemerisData
	err  error
	auth string
}

func (p *stubProvider) Compute(_ context.Context, req models.EphemerisRequest) (*models.EphemerisData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.auth = req.Authorization
	if p.err != nil {
		return nil, p.err
	}
	d := *p.data
	return &d, nil
}

func (p *stubProvider) lastAuth() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.auth
}

func equalHouses(system string) *models.HouseData {
	cusps := make([]float64, 12)
	for i := range cusps {
		cusps[i] = float64(i * 30)
	}
	return &models.HouseData{System: system, Cusps: cusps, Ascendant: 0, Midheaven: 270}
}

func sampleBodies() []models.RawBody {
	return []models.RawBody{
		{Name: natal.Sun, Longitude: 10, Speed: 1},
		{Name: natal.Moon, Longitude: 190, Speed: 13},
		{Name: natal.Mercury, Longitude: 25, Speed: 1.2},
		{Name: natal.Venus, Longitude: 340, Speed: 1.1},
		{Name: natal.Mars, Longitude: 130, Speed: 0.6},
		{Name: natal.Jupiter, Longitude: 250, Speed: 0.1},
		{Name: natal.Saturn, Longitude: 300, Speed: -0.05},
		{Name: natal.Uranus, Longitude: 45, Speed: 0.04},
		{Name: natal.Neptune, Longitude: 355, Speed: 0.02},
		{Name: natal.Pluto, Longitude: 298, Speed: 0.01},
	}
}

func newChartService(p *stubProvider) *usecase.ChartService {
	engine := natal.NewEngine(
		natal.WithClock(func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) }),
		natal.WithIDGenerator(func() string { return "report-1" }),
	)
	return usecase.NewChartService(p, engine, nil, nil, nil, 0)
}

func newTestServer(p *stubProvider) *xhttp.Server {
	charts := newChartService(p)
	return xhttp.NewServer([]xhttp.Handler{
		NewChartsEchoHandler(nil, charts),
		NewChartsWSHandler(nil, charts, []string{"*"}),
	}, xhttp.WithMetricsPath(""))
}

func do(s *xhttp.Server, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}
