package tools_service_api

import (
	"context"

	"google.golang.org/genproto/googleapis/api/httpbody"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "airbooking.tools.v1.ToolsService"

	InvokeMethod    = "/" + ServiceName + "/Invoke"
	ListToolsMethod = "/" + ServiceName + "/ListTools"
)

// ToolsServiceServer is the server API for ToolsService.
//
// Invoke takes a Struct of the form {"tool": name, "arguments": {...}} and
// answers with an application/json HttpBody.
type ToolsServiceServer interface {
	Invoke(context.Context, *structpb.Struct) (*httpbody.HttpBody, error)
	ListTools(context.Context, *emptypb.Empty) (*httpbody.HttpBody, error)
}

func RegisterToolsServiceServer(s grpc.ServiceRegistrar, srv ToolsServiceServer) {
	s.RegisterService(&ToolsService_ServiceDesc, srv)
}

func _ToolsService_Invoke_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolsServiceServer).Invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: InvokeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ToolsServiceServer).Invoke(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func _ToolsService_ListTools_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ToolsServiceServer).ListTools(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListToolsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ToolsServiceServer).ListTools(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var ToolsService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ToolsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Invoke", Handler: _ToolsService_Invoke_Handler},
		{MethodName: "ListTools", Handler: _ToolsService_ListTools_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "airbooking/tools/v1/tools.proto",
}

// Client calls ToolsService over any connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Invoke(ctx context.Context, tool string, args *structpb.Struct, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"tool": structpb.NewStringValue(tool),
	}}
	if args != nil {
		req.Fields["arguments"] = structpb.NewStructValue(args)
	}

	out := new(httpbody.HttpBody)
	if err := c.cc.Invoke(ctx, InvokeMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListTools(ctx context.Context, opts ...grpc.CallOption) (*httpbody.HttpBody, error) {
	out := new(httpbody.HttpBody)
	if err := c.cc.Invoke(ctx, ListToolsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
