package rpc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/mem"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func encode(t *testing.T, v any) []byte {
	t.Helper()
	data, err := wireCodec{}.Marshal(v)
	require.NoError(t, err)
	return data.Materialize()
}

func decode(t *testing.T, b []byte, v any) error {
	t.Helper()
	return wireCodec{}.Unmarshal(mem.BufferSlice{mem.SliceBuffer(b)}, v)
}

func TestCodecReplacesDefaultProto(t *testing.T) {
	c := encoding.GetCodecV2("proto")
	require.NotNil(t, c)
	assert.IsType(t, wireCodec{}, c)
}

func TestCodec_WireLayout(t *testing.T) {
	got := encode(t, &LoginResponse{ID: "1", Email: "a@x.io", EmailValidated: true, LoginSuccess: true})

	var want []byte
	want = protowire.AppendTag(want, 1, protowire.BytesType)
	want = protowire.AppendString(want, "1")
	want = protowire.AppendTag(want, 2, protowire.BytesType)
	want = protowire.AppendString(want, "a@x.io")
	want = protowire.AppendTag(want, 3, protowire.VarintType)
	want = protowire.AppendVarint(want, 1)
	want = protowire.AppendTag(want, 5, protowire.VarintType)
	want = protowire.AppendVarint(want, 1)

	assert.Equal(t, want, got, "empty message and false flags are omitted")
}

func TestCodec_RoundTrip(t *testing.T) {
	in := &SignupResponse{ID: "id-1", Email: "ünï@x.io", Message: "ok", Success: true}

	var out SignupResponse
	require.NoError(t, decode(t, encode(t, in), &out))
	assert.Equal(t, *in, out)

	assert.Empty(t, encode(t, &PingRequest{}))
	var ping PingRequest
	assert.NoError(t, decode(t, nil, &ping))
}

func TestCodec_ResetsAndSkipsUnknownFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 9, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, "tok")
	b = protowire.AppendTag(b, 7, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{1, 2, 3})

	req := VerifyRequest{Token: "stale"}
	require.NoError(t, decode(t, b, &req))
	assert.Equal(t, "tok", req.Token)

	resp := PingResponse{Status: "stale"}
	require.NoError(t, decode(t, nil, &resp))
	assert.Empty(t, resp.Status)
}

func TestCodec_Truncated(t *testing.T) {
	b := encode(t, &SignupRequest{Email: "a@x.io", Password: "pw"})

	var req SignupRequest
	err := decode(t, b[:len(b)-1], &req)
	assert.ErrorContains(t, err, "rpc unmarshal")
}

func TestCodec_ProtoMessagesAndUnsupported(t *testing.T) {
	b := encode(t, wrapperspb.String("hi"))

	var got wrapperspb.StringValue
	require.NoError(t, decode(t, b, &got))
	assert.Equal(t, "hi", got.GetValue())

	_, err := wireCodec{}.Marshal(struct{}{})
	assert.ErrorContains(t, err, "unsupported type")
	assert.ErrorContains(t, decode(t, nil, &struct{}{}), "unsupported type")
}

func TestDeliveryFailure(t *testing.T) {
	id, ok := DeliveryFailure(DeliveryFailedError("id-7"))
	assert.True(t, ok)
	assert.Equal(t, "id-7", id)

	err := DeliveryFailedError("")
	assert.Equal(t, codes.Unavailable, status.Code(err))
	id, ok = DeliveryFailure(err)
	assert.True(t, ok)
	assert.Empty(t, id)

	_, ok = DeliveryFailure(status.Error(codes.Unavailable, "connection refused"))
	assert.False(t, ok)
	_, ok = DeliveryFailure(errors.New("plain"))
	assert.False(t, ok)
}
