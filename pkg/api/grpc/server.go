// Package grpcapi implements the gRPC query service, a unary Parse and
// Evaluate API over google.protobuf.Struct messages.
package grpcapi

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lemonberrylabs/sexpq/pkg/methods"
	"github.com/lemonberrylabs/sexpq/pkg/sexpr"
	"github.com/lemonberrylabs/sexpq/pkg/types"
)

// Server implements sexpq.v1.QueryService.
type Server struct {
	methods *methods.Registry
	grpc    *grpc.Server
}

// New creates a new gRPC server. A nil registry means methods.Default().
// When accessLog is set every call is logged.
func New(reg *methods.Registry, accessLog bool) *Server {
	if reg == nil {
		reg = methods.Default()
	}
	srv := &Server{methods: reg}

	var opts []grpc.ServerOption
	if accessLog {
		opts = append(opts, grpc.UnaryInterceptor(logCalls))
	}
	gs := grpc.NewServer(opts...)
	RegisterQueryServiceServer(gs, srv)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

// Parse implements QueryServiceServer.
func (s *Server) Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	node, err := sexpr.Parse(stringField(req, "query"))
	if err != nil {
		return nil, toStatus(err)
	}
	resp, err := structpb.NewStruct(map[string]interface{}{
		"canonical": sexpr.Format(node),
		"tree":      sexpr.Tree(node),
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return resp, nil
}

// Evaluate implements QueryServiceServer.
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	rec, err := recordField(req, "record")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	node, err := sexpr.Parse(stringField(req, "query"))
	if err != nil {
		return nil, toStatus(err)
	}
	result, err := sexpr.Evaluate(node, sexpr.NewRecordScope(rec, s.methods))
	if err != nil {
		return nil, toStatus(err)
	}

	value, err := structpb.NewValue(result.ToGoValue())
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode result: %v", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"result": value,
		"type":   structpb.NewStringValue(result.Type().String()),
	}}, nil
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// recordField converts a Struct field into a record. Struct numbers are
// doubles on the wire; whole numbers become ints again.
func recordField(req *structpb.Struct, name string) (types.Record, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return types.Record{}, nil
	}
	switch v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return types.Record{}, nil
	case *structpb.Value_StructValue:
		return types.RecordFromGo(v.GetStructValue().AsMap()), nil
	}
	return nil, fmt.Errorf("%s must be an object", name)
}

// toStatus maps query errors to gRPC codes: parse errors are
// InvalidArgument, evaluation errors FailedPrecondition.
func toStatus(err error) error {
	kind := types.KindOf(err)
	switch {
	case kind == "":
		return status.Error(codes.Internal, err.Error())
	case kind.IsParseKind():
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.FailedPrecondition, err.Error())
}

func logCalls(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Printf("gRPC %s %s %v", info.FullMethod, status.Code(err), time.Since(start))
	return resp, err
}
