package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Ayfri/ETL-1/internal/testutils"
)

type HealthHandlerTestSuite struct {
	*testutils.BaseTestSuite
	http *testutils.HTTPTestSuite
}

func TestHealthHandlerTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	s := &HealthHandlerTestSuite{BaseTestSuite: base}

	handler := NewHealthHandler(base.DB)
	s.http = testutils.SetupHTTPTest()
	s.http.Router.GET("/health", handler.Health)
	s.http.Router.GET("/health/live", handler.Live)
	s.http.Router.GET("/health/ready", handler.Ready)

	suite.Run(t, s)
}

func (s *HealthHandlerTestSuite) TestHealth() {
	recorder := s.http.MakeRequest(http.MethodGet, "/health", nil)

	var resp HealthResponse
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal("healthy", resp.Status)
	s.Equal("healthy", resp.Services["database"])
}

func (s *HealthHandlerTestSuite) TestLive() {
	recorder := s.http.MakeRequest(http.MethodGet, "/health/live", nil)

	var resp map[string]interface{}
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(true, resp["alive"])
}

func (s *HealthHandlerTestSuite) TestReady() {
	recorder := s.http.MakeRequest(http.MethodGet, "/health/ready", nil)

	var resp map[string]interface{}
	testutils.AssertJSONResponse(s.T(), recorder, http.StatusOK, &resp)
	s.Equal(true, resp["ready"])
}
