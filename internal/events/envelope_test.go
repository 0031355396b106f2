package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"careline/pkg/sentinel"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ev := PatientEvent{
		PatientID: "0b4351f1-9f3a-4f7e-9a6b-1c2d3e4f5a6b",
		Name:      "Alice",
		Email:     "a@x.com",
	}

	got, err := Decode(Encode(ev))
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestDecodeSkipsUnknownFields(t *testing.T) {
	b := Encode(PatientEvent{PatientID: "p1", Name: "Alice", Email: "a@x.com"})
	// A newer producer appends a varint field this consumer does not know.
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)

	got, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, "p1", got.PatientID)
	assert.Equal(t, "Alice", got.Name)
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string][]byte{
		"random bytes":    []byte{0xff, 0xff, 0xff},
		"truncated field": Encode(PatientEvent{PatientID: "p1"})[:2],
		"bad tag":         {0x00},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(payload)
			assert.ErrorIs(t, err, sentinel.ErrMalformed)
		})
	}
}

func TestDecodeEmptyPayload(t *testing.T) {
	// An empty envelope is well-formed; every field is just absent.
	got, err := Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, PatientEvent{}, got)
}
