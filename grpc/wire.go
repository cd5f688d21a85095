package suigrpc

import "github.com/robmcl4/pysui/types"

// Transport-specific wrapper types for RPC methods whose interface
// signatures don't map to a single request/response struct.
// These are used only at gRPC serialization boundaries.

// GetObjectRequest wraps the parameter of GetObject.
type GetObjectRequest struct {
	ObjectID types.Address `cramberry:"1"`
}

// GetObjectsRequest wraps the parameter of GetObjectsFor.
type GetObjectsRequest struct {
	ObjectIDs []types.Address `cramberry:"1"`
}

// GetObjectsResponse wraps the return value of GetObjectsFor.
type GetObjectsResponse struct {
	Records []types.ObjectRecord `cramberry:"1"`
}

// GetCoinsRequest wraps the parameter of GetCoins.
type GetCoinsRequest struct {
	Owner types.Address `cramberry:"1"`
}

// GetCoinsResponse wraps the return value of GetCoins.
type GetCoinsResponse struct {
	Coins []types.ObjectRecord `cramberry:"1"`
}

// FunctionMetadataRequest wraps the parameters of GetFunctionMetadata.
type FunctionMetadataRequest struct {
	Package  types.Address `cramberry:"1"`
	Module   string        `cramberry:"2"`
	Function string        `cramberry:"3"`
}

// GasPriceRequest is the (empty) request for ReferenceGasPrice.
type GasPriceRequest struct{}

// GasPriceResponse wraps the return value of ReferenceGasPrice.
type GasPriceResponse struct {
	Price uint64 `cramberry:"1"`
}

// DryRunRequest wraps the parameters of DryRun.
type DryRunRequest struct {
	Sender types.Address `cramberry:"1"`
	TxKind string        `cramberry:"2"`
}

// SubmitRequest wraps the parameters of Submit.
type SubmitRequest struct {
	Tx         string              `cramberry:"1"`
	Signatures []string            `cramberry:"2"`
	Options    types.SubmitOptions `cramberry:"3"`
}
