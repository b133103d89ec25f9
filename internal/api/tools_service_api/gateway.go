package tools_service_api

import (
	"bytes"
	"io"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const maxArgumentsBytes = 1 << 20

// RegisterGateway exposes ToolsService on mux:
//
//	GET  /v1/tools          lists the tools
//	POST /v1/tools/{name}   invokes a tool, the body being its arguments object
func RegisterGateway(mux *runtime.ServeMux, client *Client) error {
	marshaler := &runtime.JSONPb{}

	if err := mux.HandlePath(http.MethodGet, "/v1/tools", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		resp, err := client.ListTools(r.Context())
		if err != nil {
			runtime.HTTPError(r.Context(), mux, marshaler, w, r, err)
			return
		}
		writeBody(w, resp)
	}); err != nil {
		return err
	}

	return mux.HandlePath(http.MethodPost, "/v1/tools/{name}", func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		ctx := r.Context()

		body, err := io.ReadAll(io.LimitReader(r.Body, maxArgumentsBytes))
		if err != nil {
			runtime.HTTPError(ctx, mux, marshaler, w, r, status.Error(codes.InvalidArgument, err.Error()))
			return
		}

		args := &structpb.Struct{}
		if len(bytes.TrimSpace(body)) > 0 {
			if err := protojson.Unmarshal(body, args); err != nil {
				runtime.HTTPError(ctx, mux, marshaler, w, r, status.Error(codes.InvalidArgument, "arguments must be a JSON object"))
				return
			}
		}

		resp, err := client.Invoke(ctx, pathParams["name"], args)
		if err != nil {
			runtime.HTTPError(ctx, mux, marshaler, w, r, err)
			return
		}
		writeBody(w, resp)
	})
}

func writeBody(w http.ResponseWriter, body *httpbody.HttpBody) {
	w.Header().Set("Content-Type", body.GetContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.GetData())
}
