package tools_service_api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/tools"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Invoker is satisfied by *tools.Registry.
type Invoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
	Tools() []tools.Tool
}

type Server struct {
	tools Invoker
	log   *slog.Logger
}

func NewServer(t Invoker, log *slog.Logger) *Server {
	return &Server{tools: t, log: log}
}

func (s *Server) Invoke(ctx context.Context, req *structpb.Struct) (*httpbody.HttpBody, error) {
	fields := req.GetFields()
	name := fields["tool"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "tool is required")
	}

	var args json.RawMessage
	if v, ok := fields["arguments"]; ok {
		if v.GetStructValue() == nil {
			if _, isNull := v.GetKind().(*structpb.Value_NullValue); !isNull {
				return nil, status.Error(codes.InvalidArgument, "arguments must be an object")
			}
		}
		raw, err := protojson.Marshal(v)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		args = raw
	}

	result, err := s.tools.Invoke(ctx, name, args)
	if err != nil {
		return nil, s.toStatus(ctx, name, err)
	}
	return jsonBody(result)
}

func (s *Server) ListTools(context.Context, *emptypb.Empty) (*httpbody.HttpBody, error) {
	list := s.tools.Tools()
	return jsonBody(map[string]any{
		"tools_count": len(list),
		"tools":       list,
	})
}

func jsonBody(v any) (*httpbody.HttpBody, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return &httpbody.HttpBody{ContentType: "application/json", Data: data}, nil
}

// toStatus maps domain errors onto gRPC codes. Unexpected errors are logged
// and reported without their detail.
func (s *Server) toStatus(ctx context.Context, tool string, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrSeatUnavailable), errors.Is(err, domain.ErrAlreadyCancelled):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		s.log.ErrorContext(ctx, "tool failed", slog.String("tool", tool), slog.Any("error", err))
		return status.Error(codes.Internal, "internal error")
	}
}

// LoggingInterceptor logs every unary call with its status code and latency.
func LoggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.InfoContext(ctx, "grpc request",
			slog.String("method", info.FullMethod),
			slog.String("code", status.Code(err).String()),
			slog.Duration("latency", time.Since(start)))
		return resp, err
	}
}

var _ ToolsServiceServer = (*Server)(nil)
