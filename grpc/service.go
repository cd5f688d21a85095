package suigrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/robmcl4/pysui/types"
)

const serviceName = "robmcl4.pysui.v1.ExecutionService"

// ExecutionServiceServer is the server-side interface for the
// execution service over gRPC.
type ExecutionServiceServer interface {
	GetObject(context.Context, *GetObjectRequest) (*types.ObjectRecord, error)
	GetObjectsFor(context.Context, *GetObjectsRequest) (*GetObjectsResponse, error)
	GetCoins(context.Context, *GetCoinsRequest) (*GetCoinsResponse, error)
	GetFunctionMetadata(context.Context, *FunctionMetadataRequest) (*types.FunctionMetadata, error)
	ReferenceGasPrice(context.Context, *GasPriceRequest) (*GasPriceResponse, error)
	DryRun(context.Context, *DryRunRequest) (*types.InspectionResult, error)
	Submit(context.Context, *SubmitRequest) (*types.ExecutionResult, error)
}

// RegisterExecutionServiceServer registers the service on a gRPC
// server.
func RegisterExecutionServiceServer(s *grpc.Server, srv ExecutionServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

// --- Handler functions ---

func handlerGetObject(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(GetObjectRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ExecutionServiceServer).GetObject(ctx, req)
}

func handlerGetObjectsFor(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(GetObjectsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ExecutionServiceServer).GetObjectsFor(ctx, req)
}

func handlerGetCoins(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(GetCoinsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ExecutionServiceServer).GetCoins(ctx, req)
}

func handlerGetFunctionMetadata(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(FunctionMetadataRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ExecutionServiceServer).GetFunctionMetadata(ctx, req)
}

func handlerReferenceGasPrice(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(GasPriceRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ExecutionServiceServer).ReferenceGasPrice(ctx, req)
}

func handlerDryRun(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(DryRunRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ExecutionServiceServer).DryRun(ctx, req)
}

func handlerSubmit(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(SubmitRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ExecutionServiceServer).Submit(ctx, req)
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ExecutionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetObject", Handler: handlerGetObject},
		{MethodName: "GetObjectsFor", Handler: handlerGetObjectsFor},
		{MethodName: "GetCoins", Handler: handlerGetCoins},
		{MethodName: "GetFunctionMetadata", Handler: handlerGetFunctionMetadata},
		{MethodName: "ReferenceGasPrice", Handler: handlerReferenceGasPrice},
		{MethodName: "DryRun", Handler: handlerDryRun},
		{MethodName: "Submit", Handler: handlerSubmit},
	},
	Metadata: "github.com/robmcl4/pysui/v1/service.cram",
}
