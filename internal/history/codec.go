package history

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes the stored snapshot list.
type Codec interface {
	Name() string
	Marshal(snapshots []Snapshot) ([]byte, error)
	Unmarshal(data []byte) ([]Snapshot, error)
}

// NewCodec returns the codec registered under name ("json" or "msgpack").
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown history codec %q", name)
	}
}

// JSONCodec stores snapshots as a JSON array.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(snapshots []Snapshot) ([]byte, error) {
	if snapshots == nil {
		snapshots = []Snapshot{}
	}
	return json.Marshal(snapshots)
}

func (JSONCodec) Unmarshal(data []byte) ([]Snapshot, error) {
	var out []Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MsgpackCodec stores snapshots as MessagePack using the json field names.
type MsgpackCodec struct{}

func (MsgpackCodec) Name() string { return "msgpack" }

func (MsgpackCodec) Marshal(snapshots []Snapshot) ([]byte, error) {
	if snapshots == nil {
		snapshots = []Snapshot{}
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(snapshots); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec) Unmarshal(data []byte) ([]Snapshot, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	var out []Snapshot
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
