package server

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/valyala/fasthttp"
)

const healthCheckTimeout = 3 * time.Second

// Checker is a component that can report its health
type Checker interface {
	Ping(ctx context.Context) error
}

// ComponentHealth is the state of one checked component
type ComponentHealth struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string            `json:"status"`
	Service    string            `json:"service"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// NewHealthHandler returns 200 when every check passes and 503 otherwise
func NewHealthHandler(service string, checks map[string]Checker) fasthttp.RequestHandler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(ctx *fasthttp.RequestCtx) {
		checkCtx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
		defer cancel()

		resp := HealthResponse{
			Status:     "ok",
			Service:    service,
			Timestamp:  time.Now().UTC(),
			Components: make([]ComponentHealth, 0, len(names)),
		}

		for _, name := range names {
			component := ComponentHealth{Name: name, Status: "ok"}
			if err := checks[name].Ping(checkCtx); err != nil {
				resp.Status = "degraded"
				component.Status = "error"
				component.Error = err.Error()
			}
			resp.Components = append(resp.Components, component)
		}

		body, err := json.Marshal(resp)
		if err != nil {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			return
		}

		ctx.SetContentType("application/json")
		if resp.Status != "ok" {
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		} else {
			ctx.SetStatusCode(fasthttp.StatusOK)
		}
		ctx.SetBody(body)
	}
}
