// Package hashid converts internal numeric row ids to opaque, URL-safe tokens
// and back.
//
// A Codec is immutable after construction and safe for concurrent use.
package hashid

import (
	"math"

	hashids "github.com/speps/go-hashids/v2"
	"github.com/zeebo/errs"
)

// DefaultMinLength is the shortest token a Codec produces.
const DefaultMinLength = 16

var (
	// ErrDecode is the class of every decoding failure.
	ErrDecode = errs.Class("hashid")

	// ErrMalformed is returned for tokens this codec did not produce.
	ErrMalformed = errs.New("malformed token")
	// ErrWrongArity is returned by DecodeSingle when the token holds more or less than one id.
	ErrWrongArity = errs.New("token does not encode exactly one id")
	// ErrOutOfRange is returned when encoding an id the token alphabet cannot represent.
	ErrOutOfRange = errs.New("id out of range")
)

// Config holds the process-wide codec settings.
type Config struct {
	Salt      string
	MinLength int
}

// Codec encodes and decodes id sequences.
type Codec struct {
	h *hashids.HashID
}

// New builds a codec from the salt loaded at startup.
func New(cfg Config) (*Codec, error) {
	data := hashids.NewData()
	data.Salt = cfg.Salt
	data.MinLength = cfg.MinLength
	if data.MinLength < DefaultMinLength {
		data.MinLength = DefaultMinLength
	}

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, errs.Wrap(err)
	}
	return &Codec{h: h}, nil
}

// Encode returns the token for values. The same sequence always yields the
// same token. Values above math.MaxInt64 are not representable.
func (c *Codec) Encode(values ...uint64) (string, error) {
	if len(values) == 0 {
		return "", ErrDecode.Wrap(ErrOutOfRange)
	}
	numbers := make([]int64, len(values))
	for i, v := range values {
		if v > math.MaxInt64 {
			return "", ErrDecode.Wrap(ErrOutOfRange)
		}
		numbers[i] = int64(v)
	}

	token, err := c.h.EncodeInt64(numbers)
	if err != nil {
		return "", ErrDecode.Wrap(err)
	}
	return token, nil
}

// EncodeSingle is Encode for one id.
func (c *Codec) EncodeSingle(id uint64) (string, error) {
	return c.Encode(id)
}

// Decode reverses Encode. Any token that does not re-encode to itself under
// this salt is rejected as malformed.
func (c *Codec) Decode(token string) (_ []uint64, err error) {
	if token == "" {
		return nil, ErrDecode.Wrap(ErrMalformed)
	}
	defer func() {
		if recover() != nil {
			err = ErrDecode.Wrap(ErrMalformed)
		}
	}()

	numbers, err := c.h.DecodeInt64WithError(token)
	if err != nil || len(numbers) == 0 {
		return nil, ErrDecode.Wrap(ErrMalformed)
	}

	values := make([]uint64, len(numbers))
	for i, n := range numbers {
		if n < 0 {
			return nil, ErrDecode.Wrap(ErrMalformed)
		}
		values[i] = uint64(n)
	}
	return values, nil
}

// DecodeSingle decodes a token that must hold exactly one id.
func (c *Codec) DecodeSingle(token string) (uint64, error) {
	values, err := c.Decode(token)
	if err != nil {
		return 0, err
	}
	if len(values) != 1 {
		return 0, ErrDecode.Wrap(ErrWrongArity)
	}
	return values[0], nil
}
