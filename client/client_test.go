package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/myp007/mz-hupu-h5-sdk/core"
)

type stubAdapter struct {
	requests []core.TransportRequest
	respond  func(req core.TransportRequest) (core.TransportResponse, error)
}

func (a *stubAdapter) Kind() string { return "stub" }

func (a *stubAdapter) Do(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
	a.requests = append(a.requests, req)
	if a.respond == nil {
		return core.TransportResponse{StatusCode: http.StatusOK, Body: []byte(`{"code":1,"msg":"","data":{}}`)}, nil
	}
	return a.respond(req)
}

func testClientConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.GameID = "gid_1"
	cfg.GameKey = "gk_1"
	cfg.APIBaseURL = "https://backend.test/api/v2/"
	return cfg
}

func TestNew_RequiresAdapterAndBaseURL(t *testing.T) {
	if _, err := New(testClientConfig(), nil); err == nil {
		t.Fatalf("expected error without adapter")
	}

	cfg := testClientConfig()
	cfg.APIBaseURL = "  "
	if _, err := New(cfg, &stubAdapter{}); err == nil {
		t.Fatalf("expected error without base url")
	}
}

func TestDo_MergesParameterLayers(t *testing.T) {
	adapter := &stubAdapter{}
	c, err := New(testClientConfig(), adapter)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = c.Do(context.Background(), core.BackendRequest{
		Path: "login/otherHupuH5Login",
		Params: map[string]any{
			"accessToken": "at_1",
			"gameVersion": "9.9.9",
		},
		SessionToken: "session_tk",
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}

	if len(adapter.requests) != 1 {
		t.Fatalf("expected one transport call, got %d", len(adapter.requests))
	}
	req := adapter.requests[0]
	if req.Method != http.MethodPost {
		t.Fatalf("expected POST, got %q", req.Method)
	}
	if req.URL != "https://backend.test/api/v2/login/otherHupuH5Login" {
		t.Fatalf("unexpected url %q", req.URL)
	}

	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["gameId"] != "gid_1" || body["gameKey"] != "gk_1" {
		t.Fatalf("expected fixed identity params, got %#v", body)
	}
	if body["gameVersion"] != "9.9.9" {
		t.Fatalf("call params must override fixed params, got %v", body["gameVersion"])
	}
	if body["accessToken"] != "at_1" {
		t.Fatalf("expected call param, got %v", body["accessToken"])
	}
	if body["token"] != "session_tk" {
		t.Fatalf("expected session token merged last, got %v", body["token"])
	}
}

func TestDo_SessionTokenWinsOverCallParams(t *testing.T) {
	adapter := &stubAdapter{}
	c, err := New(testClientConfig(), adapter)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := c.Do(context.Background(), core.BackendRequest{
		Path:         "/user/chooseRole",
		Params:       map[string]any{"token": "caller_supplied"},
		SessionToken: "session_tk",
	}); err != nil {
		t.Fatalf("do: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(adapter.requests[0].Body, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["token"] != "session_tk" {
		t.Fatalf("session token must win the merge, got %v", body["token"])
	}
}

func TestDo_BusinessFailurePreservesData(t *testing.T) {
	adapter := &stubAdapter{
		respond: func(core.TransportRequest) (core.TransportResponse, error) {
			return core.TransportResponse{
				StatusCode: http.StatusOK,
				Body:       []byte(`{"code":500,"msg":"login denied","data":{"reason":"banned"}}`),
			}, nil
		},
	}
	c, err := New(testClientConfig(), adapter)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	response, err := c.Do(context.Background(), core.BackendRequest{Path: "/login/otherHupuH5Login"})
	if err != nil {
		t.Fatalf("business failure must not be a transport error: %v", err)
	}
	if response.Success {
		t.Fatalf("code 500 must not be a success")
	}
	if response.Message != "login denied" {
		t.Fatalf("unexpected message %q", response.Message)
	}
	if response.Data["reason"] != "banned" {
		t.Fatalf("expected data preserved, got %#v", response.Data)
	}
}

func TestDo_NonSuccessStatusIsAnError(t *testing.T) {
	adapter := &stubAdapter{
		respond: func(core.TransportRequest) (core.TransportResponse, error) {
			return core.TransportResponse{StatusCode: http.StatusBadGateway, Body: []byte("gateway down")}, nil
		},
	}
	c, err := New(testClientConfig(), adapter)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := c.Do(context.Background(), core.BackendRequest{Path: "/login/otherHupuH5Login"}); err == nil {
		t.Fatalf("expected error on non-2xx status")
	}
}

func TestDo_TransportErrorIsWrapped(t *testing.T) {
	adapter := &stubAdapter{
		respond: func(core.TransportRequest) (core.TransportResponse, error) {
			return core.TransportResponse{}, errors.New("connection refused")
		},
	}
	c, err := New(testClientConfig(), adapter)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := c.Do(context.Background(), core.BackendRequest{Path: "/login/otherHupuH5Login"}); err == nil {
		t.Fatalf("expected wrapped transport error")
	}
}

func TestDo_RequestTimeoutFallsBackToClientDefault(t *testing.T) {
	adapter := &stubAdapter{}
	c, err := New(testClientConfig(), adapter, WithTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := c.Do(context.Background(), core.BackendRequest{Path: "/x"}); err != nil {
		t.Fatalf("do: %v", err)
	}
	if adapter.requests[0].Timeout != 3*time.Second {
		t.Fatalf("expected client timeout, got %v", adapter.requests[0].Timeout)
	}

	if _, err := c.Do(context.Background(), core.BackendRequest{Path: "/x", Timeout: time.Second}); err != nil {
		t.Fatalf("do: %v", err)
	}
	if adapter.requests[1].Timeout != time.Second {
		t.Fatalf("expected per-request timeout to win, got %v", adapter.requests[1].Timeout)
	}
}

func TestDo_RequiresPath(t *testing.T) {
	c, err := New(testClientConfig(), &stubAdapter{})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Do(context.Background(), core.BackendRequest{}); err == nil {
		t.Fatalf("expected error on empty path")
	}
}
