package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"chundiet-web/internal/bootstrap"
	"chundiet-web/internal/shared/config"
	"chundiet-web/internal/shared/server/respond"
	"chundiet-web/internal/shared/telemetry"
)

type proxyFunc func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// coldStart builds the app once per container. The first invocation also
// loads the home page so a warm container renders with data.
type coldStart struct {
	once  sync.Once
	build func() (*bootstrap.App, error)
	proxy proxyFunc
	err   error
}

func (s *coldStart) init(ctx context.Context) {
	app, err := s.build()
	if err != nil {
		s.err = err
		return
	}
	warmCtx, cancel := context.WithTimeout(ctx, warmTimeout(app.Config))
	defer cancel()
	app.Start(warmCtx)
	s.proxy = ginadapter.NewV2(app.Router).ProxyWithContext
	telemetry.Info("lambda cold start", map[string]any{
		"backend": app.Config.BackendURL,
		"user_id": app.Config.DefaultUserID,
	})
}

func (s *coldStart) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	s.once.Do(func() { s.init(ctx) })
	if s.err != nil {
		telemetry.Error("lambda bootstrap failed", map[string]any{"error": s.err.Error()})
		return errorResponse(http.StatusInternalServerError, "bootstrap_failed", "service failed to start"), s.err
	}
	if s.proxy == nil {
		return errorResponse(http.StatusInternalServerError, "not_ready", "router not initialized"), nil
	}
	return s.proxy(ctx, req)
}

// warmTimeout bounds the cold-start loads by the backend timeout.
func warmTimeout(cfg config.Config) time.Duration {
	if cfg.BackendTimeout > 0 {
		return cfg.BackendTimeout
	}
	return 10 * time.Second
}

func errorResponse(status int, code, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorResponse{Error: respond.ErrorBody{Code: code, Message: message}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	s := &coldStart{build: func() (*bootstrap.App, error) { return bootstrap.Build(config.Load()) }}
	lambda.Start(s.handle)
}
