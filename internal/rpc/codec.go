// Package rpc defines the accounts.v1.AccountService gRPC contract: request
// and response messages, the service descriptor and a client stub.
//
// Messages travel in protobuf wire format as described by accounts.proto,
// so clients generated from that file interoperate with this server. The
// Go structs carry their own field tables and are encoded with protowire;
// the same structs double as JSON DTOs for the REST transport.
package rpc

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/mem"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
)

// CodecName replaces gRPC's default "proto" codec. Generated proto.Message
// values are still handed to the protobuf runtime.
const CodecName = "proto"

// field binds a protobuf field number to a string or bool struct field.
type field struct {
	num  protowire.Number
	str  *string
	flag *bool
}

// message is implemented by every request and response struct.
type message interface {
	fields() []field
}

type wireCodec struct{}

func (wireCodec) Marshal(v any) (mem.BufferSlice, error) {
	var b []byte
	switch m := v.(type) {
	case message:
		b = marshalMessage(m)
	case proto.Message:
		var err error
		if b, err = proto.Marshal(m); err != nil {
			return nil, fmt.Errorf("rpc marshal %T: %w", v, err)
		}
	default:
		return nil, fmt.Errorf("rpc marshal: unsupported type %T", v)
	}
	return mem.BufferSlice{mem.SliceBuffer(b)}, nil
}

func (wireCodec) Unmarshal(data mem.BufferSlice, v any) error {
	b := data.Materialize()
	switch m := v.(type) {
	case message:
		if err := unmarshalMessage(b, m); err != nil {
			return fmt.Errorf("rpc unmarshal %T: %w", v, err)
		}
		return nil
	case proto.Message:
		if err := proto.Unmarshal(b, m); err != nil {
			return fmt.Errorf("rpc unmarshal %T: %w", v, err)
		}
		return nil
	}
	return fmt.Errorf("rpc unmarshal: unsupported type %T", v)
}

func (wireCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodecV2(wireCodec{})
}

// marshalMessage writes proto3 encoding: zero values are omitted.
func marshalMessage(m message) []byte {
	var b []byte
	for _, f := range m.fields() {
		switch {
		case f.str != nil && *f.str != "":
			b = protowire.AppendTag(b, f.num, protowire.BytesType)
			b = protowire.AppendString(b, *f.str)
		case f.flag != nil && *f.flag:
			b = protowire.AppendTag(b, f.num, protowire.VarintType)
			b = protowire.AppendVarint(b, protowire.EncodeBool(true))
		}
	}
	return b
}

// unmarshalMessage resets m and decodes b into it. Unknown fields are skipped.
func unmarshalMessage(b []byte, m message) error {
	fs := m.fields()
	for _, f := range fs {
		if f.str != nil {
			*f.str = ""
		}
		if f.flag != nil {
			*f.flag = false
		}
	}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		f, known := lookupField(fs, num)
		switch {
		case known && f.str != nil && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			*f.str = s
			b = b[n:]

		case known && f.flag != nil && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			*f.flag = protowire.DecodeBool(v)
			b = b[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}

func lookupField(fs []field, num protowire.Number) (field, bool) {
	for _, f := range fs {
		if f.num == num {
			return f, true
		}
	}
	return field{}, false
}
