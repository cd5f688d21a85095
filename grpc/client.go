package suigrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/robmcl4/pysui"
	"github.com/robmcl4/pysui/types"
)

// Compile-time interface check.
var _ pysui.ExecutionService = (*Client)(nil)

// Client implements the execution service contract against a remote
// endpoint over gRPC using cramberry serialization. No protobuf types
// or conversion layer required. Safe for concurrent use.
type Client struct {
	cc *grpc.ClientConn
}

// Dial connects to a remote execution service.
func Dial(ctx context.Context, addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(suiCodec{}),
	))
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("pysui client: dial %s: %w", addr, err)
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

func (c *Client) GetObject(ctx context.Context, id types.Address) (types.ObjectRecord, error) {
	req := &GetObjectRequest{ObjectID: id}
	resp := new(types.ObjectRecord)
	if err := c.cc.Invoke(ctx, fullMethod("GetObject"), req, resp); err != nil {
		if status.Code(err) == codes.NotFound {
			return types.ObjectRecord{}, &pysui.ObjectNotFoundError{ObjectID: id}
		}
		return types.ObjectRecord{}, err
	}
	return *resp, nil
}

func (c *Client) GetObjectsFor(ctx context.Context, ids []types.Address) ([]types.ObjectRecord, error) {
	req := &GetObjectsRequest{ObjectIDs: ids}
	resp := new(GetObjectsResponse)
	if err := c.cc.Invoke(ctx, fullMethod("GetObjectsFor"), req, resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

func (c *Client) GetCoins(ctx context.Context, owner types.Address) ([]types.ObjectRecord, error) {
	req := &GetCoinsRequest{Owner: owner}
	resp := new(GetCoinsResponse)
	if err := c.cc.Invoke(ctx, fullMethod("GetCoins"), req, resp); err != nil {
		return nil, err
	}
	return resp.Coins, nil
}

func (c *Client) GetFunctionMetadata(ctx context.Context, pkg types.Address, module, function string) (types.FunctionMetadata, error) {
	req := &FunctionMetadataRequest{Package: pkg, Module: module, Function: function}
	resp := new(types.FunctionMetadata)
	if err := c.cc.Invoke(ctx, fullMethod("GetFunctionMetadata"), req, resp); err != nil {
		return types.FunctionMetadata{}, err
	}
	return *resp, nil
}

func (c *Client) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	req := &GasPriceRequest{}
	resp := new(GasPriceResponse)
	if err := c.cc.Invoke(ctx, fullMethod("ReferenceGasPrice"), req, resp); err != nil {
		return 0, err
	}
	return resp.Price, nil
}

func (c *Client) DryRun(ctx context.Context, sender types.Address, txKindB64 string) (types.InspectionResult, error) {
	req := &DryRunRequest{Sender: sender, TxKind: txKindB64}
	resp := new(types.InspectionResult)
	if err := c.cc.Invoke(ctx, fullMethod("DryRun"), req, resp); err != nil {
		return types.InspectionResult{}, err
	}
	return *resp, nil
}

func (c *Client) Submit(ctx context.Context, txB64 string, signatures []string, opts types.SubmitOptions) (types.ExecutionResult, error) {
	req := &SubmitRequest{Tx: txB64, Signatures: signatures, Options: opts}
	resp := new(types.ExecutionResult)
	if err := c.cc.Invoke(ctx, fullMethod("Submit"), req, resp); err != nil {
		return types.ExecutionResult{}, err
	}
	return *resp, nil
}
