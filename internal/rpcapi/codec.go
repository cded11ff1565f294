// Package rpcapi is the gRPC contract shared by the server and the CLI
// client: message types, the service descriptor and a typed client stub.
//
// Messages travel as JSON through a codec registered under CodecName, so
// both ends must select it (the Client stub does this on every call).
package rpcapi

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype the codec is registered under.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
