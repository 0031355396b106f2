package billing

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Wire messages for the billing RPC, encoded in protobuf wire format so this
// pair stays compatible with the billing.proto contract the deployment uses.
// The exchange is ephemeral: one request/response per successful patient
// creation, nothing persisted on this side.

// AccountRequest asks billing to open an account for a newly created patient.
type AccountRequest struct {
	PatientID string // field 1
	Name      string // field 2
	Email     string // field 3
}

// AccountResponse reports the opened account.
type AccountResponse struct {
	AccountID string // field 1
	Status    string // field 2
}

func (m *AccountRequest) marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.PatientID)
	b = appendString(b, 2, m.Name)
	b = appendString(b, 3, m.Email)
	return b
}

func (m *AccountRequest) unmarshal(data []byte) error {
	return consumeStrings(data, map[protowire.Number]*string{
		1: &m.PatientID,
		2: &m.Name,
		3: &m.Email,
	})
}

func (m *AccountResponse) marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.AccountID)
	b = appendString(b, 2, m.Status)
	return b
}

func (m *AccountResponse) unmarshal(data []byte) error {
	return consumeStrings(data, map[protowire.Number]*string{
		1: &m.AccountID,
		2: &m.Status,
	})
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

// consumeStrings decodes string fields into dests, skipping unknown fields.
func consumeStrings(data []byte, dests map[protowire.Number]*string) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("billing wire: invalid field tag")
		}
		data = data[n:]

		if dest, ok := dests[num]; ok && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return fmt.Errorf("billing wire: truncated field %d", num)
			}
			data = data[n:]
			*dest = v
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return fmt.Errorf("billing wire: invalid field %d", num)
		}
		data = data[n:]
	}
	return nil
}
