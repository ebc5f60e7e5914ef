// Package rpc holds the plumbing shared by the gRPC services: service
// descriptors over structpb messages, JSON mapping and status codes.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Domenick1991/skyreserve/internal/domain"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Package is the proto package every service is registered under.
const Package = "skyreserve.v1"

// Method handles one unary call. Requests and responses are generic
// structs whose fields follow the REST JSON bodies.
type Method func(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

// FullMethod returns the invoke path of method on service.
func FullMethod(service, method string) string {
	return "/" + Package + "." + service + "/" + method
}

// ServiceDesc builds a descriptor for service whose handlers are methods.
func ServiceDesc(service string, methods map[string]Method) *grpc.ServiceDesc {
	desc := &grpc.ServiceDesc{
		ServiceName: Package + "." + service,
		HandlerType: (*interface{})(nil),
		Metadata:    service + ".proto",
	}
	for name, fn := range methods {
		desc.Methods = append(desc.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler:    unaryHandler(FullMethod(service, name), fn),
		})
	}
	return desc
}

func unaryHandler(fullMethod string, fn Method) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Decode copies the fields of in into v through their JSON names.
func Decode(in *structpb.Struct, v interface{}) error {
	data, err := json.Marshal(in.AsMap())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

// Encode converts v to a struct via its JSON form. v must encode to a
// JSON object.
func Encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return structpb.NewStruct(m)
}

// Reply encodes v or converts err to a status.
func Reply(v interface{}, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, Status(err)
	}
	out, err := Encode(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "%v", err)
	}
	return out, nil
}

// Status maps domain errors to gRPC codes.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch domain.KindOf(err) {
	case domain.KindInvalidArgument:
		return status.Error(codes.InvalidArgument, err.Error())
	case domain.KindIllegalState:
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.KindNotFound:
		return status.Error(codes.NotFound, err.Error())
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}
