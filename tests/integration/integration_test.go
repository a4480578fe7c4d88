//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go/modules/compose"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	baseURL    string
	httpClient *http.Client
)

// Response types are defined locally so the tests only see the wire format.

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	Reviews     int     `json:"reviews"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response   string            `json:"response"`
	Confidence float64           `json:"confidence"`
	Products   []productResponse `json:"products"`
}

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := os.MkdirAll("coverdir", 0o777); err != nil {
		log.Fatalf("create coverdir: %v", err)
	}

	dc, err := tc.NewDockerCompose("docker-compose.test.yml")
	if err != nil {
		log.Fatalf("compose init: %v", err)
	}

	// postgres -> seed (one-shot) -> api; the API reads the seeded dataset
	// once at start-up, so readiness implies the data is there.
	err = dc.
		WaitForService("api", wait.ForHTTP("/readyz").WithPort("8080/tcp")).
		Up(ctx, tc.Wait(true))
	if err != nil {
		log.Fatalf("compose up: %v", err)
	}

	apiContainer, err := dc.ServiceContainer(ctx, "api")
	if err != nil {
		log.Fatalf("api container: %v", err)
	}

	host, err := apiContainer.Host(ctx)
	if err != nil {
		log.Fatalf("host: %v", err)
	}

	mappedPort, err := apiContainer.MappedPort(ctx, "8080/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	baseURL = fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
	httpClient = &http.Client{Timeout: 10 * time.Second}
	log.Printf("API available at %s", baseURL)

	result := m.Run()

	// Stop gracefully so the coverage-instrumented binary flushes GOCOVERDIR.
	stopTimeout := 30 * time.Second
	if err := apiContainer.Stop(ctx, &stopTimeout); err != nil {
		log.Printf("stop api container: %v", err)
	}

	if err := dc.Down(context.Background(), tc.RemoveOrphans(true)); err != nil {
		log.Printf("compose down: %v", err)
	}

	return result
}

// HTTP helpers.

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, baseURL+path, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}

	return resp
}

func doPost(t *testing.T, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}

	return resp
}

func chat(t *testing.T, userID, message string) chatResponse {
	t.Helper()

	resp := doPost(t, "/chat?user_id="+userID, chatRequest{Message: message})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat %q: expected 200, got %d", message, resp.StatusCode)
	}
	return decodeJSON[chatResponse](t, resp)
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	return v
}
