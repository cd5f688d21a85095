// Package suigrpc provides the gRPC transport for the execution
// service, using cramberry for deterministic binary serialization.
//
// No protobuf code generation is required. Domain types from the
// types package are serialized directly via cramberry struct tags.
package suigrpc

import (
	"fmt"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"google.golang.org/grpc/encoding"
)

// suiCodec carries execution-service messages as cramberry bytes.
// Both Dial and NewServer run in processes that import this package,
// so registering it once here covers client and server lookup.
type suiCodec struct{}

// Name is the content-subtype advertised on the wire; it selects this
// codec in the server-side encoding registry.
func (suiCodec) Name() string { return "sui-cramberry" }

func (suiCodec) Marshal(v any) ([]byte, error) {
	data, err := cramberry.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("suigrpc: marshal %T: %w", v, err)
	}
	return data, nil
}

func (suiCodec) Unmarshal(data []byte, v any) error {
	if err := cramberry.Unmarshal(data, v); err != nil {
		return fmt.Errorf("suigrpc: unmarshal %T: %w", v, err)
	}
	return nil
}

func init() {
	encoding.RegisterCodec(suiCodec{})
}
