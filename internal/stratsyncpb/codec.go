package stratsyncpb

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// codecName identifies this package's wire codec to grpc-go. The server
// in cmd/stratsyncd installs it via grpc.ForceServerCodec, and clients
// pass it via grpc.ForceCodec, so the message types in messages.go can
// travel over gRPC without a protoc-generated descriptor.
const codecName = "stratsync-json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("stratsyncpb: marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("stratsyncpb: unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string { return codecName }

// Codec is the shared grpc/encoding.Codec instance for this service.
var Codec = jsonCodec{}

func init() {
	encoding.RegisterCodec(Codec)
}
