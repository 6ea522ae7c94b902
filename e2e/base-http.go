package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.ApiAddr == "" {
		s.T().Skip("API_ADDR not set, skipping end to end suite")
	}
	s.client = &http.Client{Timeout: 30 * time.Second}
}

// Step prints a colorized header so scenario phases stand out in logs
func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// Response carries the decoded reply of a single API call.
type Response struct {
	Status   int
	Location string
	Body     []byte
}

// JSON decodes the response body into out.
func (r Response) JSON(out any) error {
	return json.Unmarshal(r.Body, out)
}

// Do performs one request against the API, logging method, path, status and
// timing. Full bodies are dumped when E2E_DEBUG_JSON is enabled.
func (s *BaseHTTPSuite) Do(method, path string, payload any, authorize func(*http.Request)) Response {
	var reqBody []byte
	if payload != nil {
		var err error
		reqBody, err = json.Marshal(payload)
		s.Require().NoError(err)
	}

	request, err := http.NewRequest(method, s.Config.ApiAddr+path, bytes.NewReader(reqBody))
	s.Require().NoError(err)
	request.Header.Set("Content-Type", "application/json")
	if authorize != nil {
		authorize(request)
	}

	start := time.Now()
	response, err := s.client.Do(request)
	s.Require().NoError(err, "Failed to reach the API at "+s.Config.ApiAddr)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	s.Require().NoError(err)

	logBuilder := strings.Builder{}
	fmt.Fprintf(&logBuilder, "HTTP %s %s [%d] in %v", method, path, response.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		if len(reqBody) > 0 {
			fmt.Fprintln(&logBuilder, "\nREQUEST:")
			fmt.Fprintln(&logBuilder, string(reqBody))
		}
		fmt.Fprintln(&logBuilder, "\nRESPONSE:")
		fmt.Fprintln(&logBuilder, string(body))
	}
	s.T().Log(logBuilder.String())

	return Response{
		Status:   response.StatusCode,
		Location: response.Header.Get("Location"),
		Body:     body,
	}
}

// Basic returns an authorize func setting HTTP Basic credentials.
func Basic(username, password string) func(*http.Request) {
	return func(r *http.Request) { r.SetBasicAuth(username, password) }
}

// Bearer returns an authorize func setting a bearer token.
func Bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}
