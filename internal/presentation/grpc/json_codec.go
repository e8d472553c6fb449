package grpc

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype the scoring service speaks. Requests
// arrive as application/grpc+json.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// JSONCallOption selects the JSON codec on a client call.
func JSONCallOption() grpclib.CallOption {
	return grpclib.CallContentSubtype(CodecName)
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(err, "json codec: marshal %T", v)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "json codec: unmarshal into %T", v)
	}
	return nil
}

func (jsonCodec) Name() string {
	return CodecName
}
