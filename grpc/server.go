package suigrpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/types"
)

// Compile-time interface check.
var _ ExecutionServiceServer = (*Server)(nil)

// Server exposes an execution service implementation (such as a
// local.Ledger) over gRPC. No type conversion is needed — domain
// types are serialized directly via cramberry.
type Server struct {
	svc pysui.ExecutionService
}

// NewServer creates a gRPC server wrapping the given service.
func NewServer(svc pysui.ExecutionService) *Server {
	return &Server{svc: svc}
}

// Register adds the execution service to a gRPC server.
func (s *Server) Register(gs *grpc.Server) {
	RegisterExecutionServiceServer(gs, s)
}

// Serve starts a gRPC server on the given listener.
func (s *Server) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs.Serve(lis)
}

// mapErr translates service errors into gRPC status codes the client
// can translate back.
func mapErr(err error) error {
	if nf, ok := pysui.IsObjectNotFound(err); ok {
		return status.Error(codes.NotFound, nf.Error())
	}
	return err
}

func (s *Server) GetObject(ctx context.Context, req *GetObjectRequest) (*types.ObjectRecord, error) {
	rec, err := s.svc.GetObject(ctx, req.ObjectID)
	if err != nil {
		return nil, mapErr(err)
	}
	return &rec, nil
}

func (s *Server) GetObjectsFor(ctx context.Context, req *GetObjectsRequest) (*GetObjectsResponse, error) {
	records, err := s.svc.GetObjectsFor(ctx, req.ObjectIDs)
	if err != nil {
		return nil, mapErr(err)
	}
	return &GetObjectsResponse{Records: records}, nil
}

func (s *Server) GetCoins(ctx context.Context, req *GetCoinsRequest) (*GetCoinsResponse, error) {
	coins, err := s.svc.GetCoins(ctx, req.Owner)
	if err != nil {
		return nil, mapErr(err)
	}
	return &GetCoinsResponse{Coins: coins}, nil
}

func (s *Server) GetFunctionMetadata(ctx context.Context, req *FunctionMetadataRequest) (*types.FunctionMetadata, error) {
	meta, err := s.svc.GetFunctionMetadata(ctx, req.Package, req.Module, req.Function)
	if err != nil {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	return &meta, nil
}

func (s *Server) ReferenceGasPrice(ctx context.Context, _ *GasPriceRequest) (*GasPriceResponse, error) {
	price, err := s.svc.ReferenceGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	return &GasPriceResponse{Price: price}, nil
}

func (s *Server) DryRun(ctx context.Context, req *DryRunRequest) (*types.InspectionResult, error) {
	res, err := s.svc.DryRun(ctx, req.Sender, req.TxKind)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &res, nil
}

func (s *Server) Submit(ctx context.Context, req *SubmitRequest) (*types.ExecutionResult, error) {
	res, err := s.svc.Submit(ctx, req.Tx, req.Signatures, req.Options)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return &res, nil
}
