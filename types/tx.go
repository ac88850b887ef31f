package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AccountResource is one entry of a node's full-account resource listing:
// the textual type signature plus the raw JSON payload.
type AccountResource struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ContractEvent is one entry of a node's event listing for an event handle.
type ContractEvent struct {
	Type           string          `json:"type"`
	SequenceNumber Uint64String    `json:"sequence_number"`
	Data           json.RawMessage `json:"data"`
}

// Change kinds appearing in a transaction's change-set.
const (
	ChangeWriteResource  = "write_resource"
	ChangeDeleteResource = "delete_resource"
)

// ResourceChange is one write or delete in a committed transaction's
// change-set. Data is only present for writes.
type ResourceChange struct {
	Kind         string          `json:"type"`
	Address      string          `json:"address"`
	ResourceType string          `json:"resource_type"`
	Data         json.RawMessage `json:"data,omitempty"`
}

// TransactionResult is the node's view of a submitted transaction. Only a
// successful transaction with a non-empty hash carries a change-set worth
// applying.
type TransactionResult struct {
	Success bool             `json:"success"`
	Hash    string           `json:"hash"`
	Changes []ResourceChange `json:"changes"`
}

// Uint64String is a uint64 that nodes serialize as a JSON string.
type Uint64String uint64

func (u Uint64String) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(u), 10))
}

func (u *Uint64String) UnmarshalJSON(data []byte) error {
	s := string(data)
	// tolerate both the string encoding and a bare number
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("cannot unmarshal %s into Uint64String, failed to parse integer", data)
	}
	*u = Uint64String(v)
	return nil
}

// DecodeRaw unmarshals raw JSON into the dynamic form the decoder layer
// works on. Numbers become json.Number so u64/u128 payloads keep full
// precision instead of collapsing into float64.
func DecodeRaw(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
