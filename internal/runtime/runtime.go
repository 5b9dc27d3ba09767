// Package runtime adapts the bridge handler to the standalone HTTP server and to AWS Lambda.
package runtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/isometry/slack-dispatch-bridge/internal/helpers"
	"github.com/isometry/slack-dispatch-bridge/internal/models"
	"github.com/pkg/errors"
)

const (
	// PayloadAPIGatewayV1 is the API Gateway REST proxy payload.
	PayloadAPIGatewayV1 = "api-gateway-v1"
	// PayloadAPIGatewayV2 is the API Gateway HTTP API payload.
	PayloadAPIGatewayV2 = "api-gateway-v2"
	// PayloadLambdaURL is the Lambda function URL payload.
	PayloadLambdaURL = "lambda-url"

	maxBodyBytes = 1 << 20
)

// Processor handles one normalised request.
type Processor interface {
	Process(ctx context.Context, req models.Request) (models.Response, error)
}

type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithPayloadType selects the Lambda event shape accepted by HandleEvent.
func WithPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		if payloadType != "" {
			r.payloadType = payloadType
		}
	}
}

type Runtime struct {
	processor   Processor
	logger      *slog.Logger
	payloadType string
}

// NewRuntime creates a new runtime instance
func NewRuntime(processor Processor, opts ...Option) *Runtime {
	_inst := &Runtime{processor: processor, payloadType: PayloadAPIGatewayV2}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// PayloadType returns the Lambda payload type handled by HandleEvent.
func (r *Runtime) PayloadType() string {
	return r.payloadType
}

// HandleEvent is the Lambda handler for the runtime.
// Errors are only returned for events that cannot be decoded; bridge failures are answered in the response.
func (r *Runtime) HandleEvent(ctx context.Context, payload json.RawMessage) (any, error) {
	r.logger.Info("received Lambda event", slog.String("payloadType", r.payloadType))

	switch r.payloadType {
	case PayloadAPIGatewayV1:
		var event events.APIGatewayProxyRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode api-gateway-v1 event")
		}
		response := r.process(ctx, models.Request{
			ID:     event.RequestContext.RequestID,
			Method: event.HTTPMethod,
			Body:   decodeBody(event.Body, event.IsBase64Encoded),
		}, event.Headers)
		return events.APIGatewayProxyResponse{
			Body:       response.Body,
			Headers:    response.Headers,
			StatusCode: response.StatusCode,
		}, nil
	case PayloadAPIGatewayV2:
		var event events.APIGatewayV2HTTPRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode api-gateway-v2 event")
		}
		response := r.process(ctx, models.Request{
			ID:     event.RequestContext.RequestID,
			Method: event.RequestContext.HTTP.Method,
			Body:   decodeBody(event.Body, event.IsBase64Encoded),
		}, event.Headers)
		return events.APIGatewayV2HTTPResponse{
			Body:       response.Body,
			Headers:    response.Headers,
			StatusCode: response.StatusCode,
		}, nil
	case PayloadLambdaURL:
		var event events.LambdaFunctionURLRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, errors.Wrap(err, "failed to decode lambda-url event")
		}
		response := r.process(ctx, models.Request{
			ID:     event.RequestContext.RequestID,
			Method: event.RequestContext.HTTP.Method,
			Body:   decodeBody(event.Body, event.IsBase64Encoded),
		}, event.Headers)
		return events.LambdaFunctionURLResponse{
			Body:       response.Body,
			Headers:    response.Headers,
			StatusCode: response.StatusCode,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.payloadType)
	}
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("method", req.Method), slog.Any("path", req.URL.Path))

	body, err := io.ReadAll(http.MaxBytesReader(resp, req.Body, maxBodyBytes))
	if err != nil {
		// The body is never interpreted, so a broken one does not stop the reply.
		r.logger.Warn("failed to read request body", slog.Any("error", err))
	}

	response := r.process(req.Context(), models.Request{
		Method: req.Method,
		Body:   string(body),
	}, helpers.NormaliseHeaders(req.Header))
	helpers.RespondHTTP(response, resp)
}

func (r *Runtime) process(ctx context.Context, req models.Request, headers map[string]string) models.Response {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Headers = make(map[string]string, len(headers))
	for k, v := range headers {
		req.Headers[strings.ToLower(k)] = v
	}

	response, err := r.processor.Process(ctx, req)
	if err != nil {
		r.logger.Warn("request handled with error", slog.String("requestID", req.ID), slog.Int("statusCode", response.StatusCode), slog.Any("error", err))
	} else {
		r.logger.Info("request handled", slog.String("requestID", req.ID), slog.Int("statusCode", response.StatusCode))
	}
	return response
}

func decodeBody(body string, isBase64 bool) string {
	if !isBase64 {
		return body
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return body
	}
	return string(decoded)
}
