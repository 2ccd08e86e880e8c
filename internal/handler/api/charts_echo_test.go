package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Natalis/internal/domain/models"
	"Natalis/pkg/errors"
)

type chartEnvelope struct {
	Status  int                  `json:"status"`
	Message string               `json:"message"`
	Data    models.ChartResponse `json:"data"`
}

type errorEnvelope struct {
	Status int `json:"status"`
	Data   []struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"data"`
}

const validChart = `{"birthDate":"1990-05-15","time":"14:30","latitude":51.5,"longitude":-0.12,"houseSystem":"P"}`

func TestCreateChart(t *testing.T) {
	p := &stubProvider{data: &models.EphemerisData{Bodies: sampleBodies(), Houses: equalHouses("P"), HouseSystem: "P", HouseSystemName: "Placidus"}}
	s := newTestServer(p)

	rec := do(s, http.MethodPost, "/api/v1/charts", validChart, map[string]string{echo.HeaderAuthorization: "Bearer t"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env chartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusOK, env.Status)
	require.NotNil(t, env.Data.Report)
	assert.Equal(t, "report-1", env.Data.ID)
	assert.Equal(t, "P", env.Data.HouseSystem)
	assert.Equal(t, "Placidus", env.Data.HouseSystemName)
	require.NotNil(t, env.Data.InputFingerprint)
	assert.Equal(t, "14:30", env.Data.InputFingerprint.BirthTime)
	assert.Equal(t, "Bearer t", p.lastAuth())
}

func TestCreateChart_Errors(t *testing.T) {
	tests := []struct {
		name     string
		provider *stubProvider
		body     string
		status   int
		code     string
	}{
		{
			name:     "validation",
			provider: &stubProvider{},
			body:     `{"birthDate":"1990-05-15","time":"2pm","latitude":51.5,"longitude":-0.12}`,
			status:   http.StatusBadRequest,
			code:     "ERR_CLOCKTIME",
		},
		{
			name:     "latitude out of range",
			provider: &stubProvider{},
			body:     `{"birthDate":"1990-05-15","time":"14:30","latitude":95,"longitude":-0.12}`,
			status:   http.StatusBadRequest,
			code:     "ERR_LTE",
		},
		{
			name:     "upstream failure",
			provider: &stubProvider{err: errors.New("provider down")},
			body:     validChart,
			status:   http.StatusBadGateway,
			code:     "ERR_UPSTREAM",
		},
		{
			name:     "missing house block",
			provider: &stubProvider{data: &models.EphemerisData{Bodies: sampleBodies()}},
			body:     validChart,
			status:   http.StatusBadGateway,
			code:     "ERR_FATAL_PIPELINE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestServer(tt.provider), http.MethodPost, "/api/v1/charts", tt.body, nil)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var env errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			require.NotEmpty(t, env.Data)
			assert.Equal(t, tt.code, env.Data[0].Code)
		})
	}
}

func TestAnalyzeChart(t *testing.T) {
	s := newTestServer(&stubProvider{})
	body, err := json.Marshal(models.AnalyzeRequest{Bodies: sampleBodies(), Houses: equalHouses("E")})
	require.NoError(t, err)

	rec := do(s, http.MethodPost, "/api/v1/charts/analyze", string(body), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env chartEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "E", env.Data.HouseSystem)
	assert.Equal(t, "Equal", env.Data.HouseSystemName)
	assert.Nil(t, env.Data.InputFingerprint)
	assert.NotEmpty(t, env.Data.Bodies)
}

func TestAnalyzeChart_Validation(t *testing.T) {
	s := newTestServer(&stubProvider{})

	rec := do(s, http.MethodPost, "/api/v1/charts/analyze", `{"bodies":[{"name":"Sun","longitude":10}]}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data)
	assert.Equal(t, "houses", env.Data[0].Field)
	assert.Equal(t, "ERR_REQUIRED", env.Data[0].Code)
}

func TestHouseSystems(t *testing.T) {
	rec := do(newTestServer(&stubProvider{}), http.MethodGet, "/api/v1/house-systems", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 12)
	assert.Equal(t, "P", env.Data[0].Code)
	assert.Equal(t, "Placidus", env.Data[0].Name)
}

func TestToAppError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, toAppError(errors.Wrap(errors.ErrInvalidInput, "orb")).Status)
	assert.Equal(t, http.StatusBadGateway, toAppError(errors.ErrFatalPipeline).Status)
	assert.Equal(t, http.StatusInternalServerError, toAppError(errors.New("boom")).Status)
}
