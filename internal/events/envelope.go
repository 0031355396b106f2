package events

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"careline/pkg/sentinel"
)

// PatientEvent is the message published once per successful patient creation.
// It is ephemeral: serialized into a binary envelope, produced to a single
// topic, and never persisted by the producer.
type PatientEvent struct {
	PatientID string
	Name      string
	Email     string
}

// Field numbers of the envelope. They match the protobuf schema the rest of
// the deployment speaks, so payloads stay wire-compatible with consumers that
// decode via generated code.
const (
	fieldPatientID = 1
	fieldName      = 2
	fieldEmail     = 3
)

// Encode serializes the event into its binary envelope.
func Encode(ev PatientEvent) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldPatientID, protowire.BytesType)
	b = protowire.AppendString(b, ev.PatientID)
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, ev.Name)
	b = protowire.AppendTag(b, fieldEmail, protowire.BytesType)
	b = protowire.AppendString(b, ev.Email)
	return b
}

// Decode parses a binary envelope. Unknown fields are skipped so producers
// can grow the schema; anything that is not valid wire format fails with
// sentinel.ErrMalformed and the consumer drops the message.
func Decode(payload []byte) (PatientEvent, error) {
	var ev PatientEvent
	for len(payload) > 0 {
		num, typ, n := protowire.ConsumeTag(payload)
		if n < 0 {
			return PatientEvent{}, fmt.Errorf("%w: invalid field tag", sentinel.ErrMalformed)
		}
		payload = payload[n:]

		if typ == protowire.BytesType {
			v, n := protowire.ConsumeString(payload)
			if n < 0 {
				return PatientEvent{}, fmt.Errorf("%w: truncated field %d", sentinel.ErrMalformed, num)
			}
			payload = payload[n:]
			switch num {
			case fieldPatientID:
				ev.PatientID = v
			case fieldName:
				ev.Name = v
			case fieldEmail:
				ev.Email = v
			}
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, payload)
		if n < 0 {
			return PatientEvent{}, fmt.Errorf("%w: invalid field %d", sentinel.ErrMalformed, num)
		}
		payload = payload[n:]
	}
	return ev, nil
}
