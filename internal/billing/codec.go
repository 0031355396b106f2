package billing

import "fmt"

// wireMessage is implemented by the billing request/response pair.
type wireMessage interface {
	marshal() []byte
	unmarshal([]byte) error
}

// wireCodec satisfies grpc encoding.Codec for the hand-maintained billing
// messages. It is forced on both ends of the connection, so no generated
// protobuf types are required.
type wireCodec struct{}

func (wireCodec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("billing codec: cannot marshal %T", v)
	}
	return m.marshal(), nil
}

func (wireCodec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("billing codec: cannot unmarshal into %T", v)
	}
	return m.unmarshal(data)
}

func (wireCodec) Name() string { return "careline-billing" }
