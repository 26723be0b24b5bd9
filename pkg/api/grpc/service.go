package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "sexpq.v1.QueryService"

const (
	parseMethod    = "/" + ServiceName + "/Parse"
	evaluateMethod = "/" + ServiceName + "/Evaluate"
)

// QueryServiceServer is the server API for sexpq.v1.QueryService.
//
// Requests and responses are google.protobuf.Struct messages:
//
//	Parse({query})            -> {canonical, tree}
//	Evaluate({query, record}) -> {result, type}
type QueryServiceServer interface {
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterQueryServiceServer registers srv on s.
func RegisterQueryServiceServer(s grpc.ServiceRegistrar, srv QueryServiceServer) {
	s.RegisterService(&QueryServiceDesc, srv)
}

// QueryServiceDesc describes sexpq.v1.QueryService.
var QueryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QueryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: parseHandler},
		{MethodName: "Evaluate", Handler: evaluateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "sexpq/v1/query.proto",
}

func parseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: parseMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).Parse(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func evaluateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueryServiceServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: evaluateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueryServiceServer).Evaluate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// QueryServiceClient calls sexpq.v1.QueryService.
type QueryServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewQueryServiceClient creates a client over cc.
func NewQueryServiceClient(cc grpc.ClientConnInterface) *QueryServiceClient {
	return &QueryServiceClient{cc: cc}
}

// Parse validates a query and returns its canonical form.
func (c *QueryServiceClient) Parse(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, parseMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Evaluate evaluates a query against a record.
func (c *QueryServiceClient) Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, evaluateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
