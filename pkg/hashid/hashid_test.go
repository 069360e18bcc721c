package hashid_test

import (
	"math"
	"testing"

	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, salt string) *hashid.Codec {
	t.Helper()
	codec, err := hashid.New(hashid.Config{Salt: salt})
	require.NoError(t, err)
	return codec
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newCodec(t, "pricing-salt")

	tests := []struct {
		name   string
		values []uint64
	}{
		{name: "zero", values: []uint64{0}},
		{name: "single", values: []uint64{42}},
		{name: "large", values: []uint64{math.MaxInt64}},
		{name: "sequence", values: []uint64{1, 2, 3, 1000000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := codec.Encode(tt.values...)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(token), hashid.DefaultMinLength)

			decoded, err := codec.Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tt.values, decoded)
		})
	}
}

func TestCodec_Deterministic(t *testing.T) {
	a := newCodec(t, "pricing-salt")
	b := newCodec(t, "pricing-salt")

	first, err := a.EncodeSingle(42)
	require.NoError(t, err)
	second, err := b.EncodeSingle(42)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := newCodec(t, "another-salt").EncodeSingle(42)
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestCodec_DecodeSingle(t *testing.T) {
	codec := newCodec(t, "pricing-salt")

	token, err := codec.EncodeSingle(42)
	require.NoError(t, err)

	id, err := codec.DecodeSingle(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	pair, err := codec.Encode(4, 2)
	require.NoError(t, err)

	_, err = codec.DecodeSingle(pair)
	require.Error(t, err)
	assert.True(t, hashid.ErrDecode.Has(err))
	assert.ErrorIs(t, err, hashid.ErrWrongArity)
}

func TestCodec_RejectsForeignTokens(t *testing.T) {
	codec := newCodec(t, "pricing-salt")

	foreign, err := newCodec(t, "another-salt").EncodeSingle(42)
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-real-token", "abc", foreign, "!!!!!!!!!!!!!!!!"} {
		t.Run(token, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := codec.Decode(token)
				require.Error(t, err)
				assert.True(t, hashid.ErrDecode.Has(err))
				assert.ErrorIs(t, err, hashid.ErrMalformed)
			})
		})
	}
}

func TestCodec_EncodeOutOfRange(t *testing.T) {
	codec := newCodec(t, "pricing-salt")

	_, err := codec.Encode(math.MaxInt64 + 1)
	assert.ErrorIs(t, err, hashid.ErrOutOfRange)

	_, err = codec.Encode()
	assert.ErrorIs(t, err, hashid.ErrOutOfRange)
}
