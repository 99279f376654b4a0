package search

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/disintegration/imaging"
)

// Payload is the input to a Decoder.
type Payload struct {
	Name      string
	MediaType string
	Data      []byte
}

// Decoder turns an accepted payload into a display-ready preview string.
type Decoder interface {
	Decode(ctx context.Context, p Payload) (string, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(ctx context.Context, p Payload) (string, error)

func (f DecoderFunc) Decode(ctx context.Context, p Payload) (string, error) { return f(ctx, p) }

var errEmptyPayload = errors.New("empty image payload")

// DataURLDecoder checks that the payload is a decodable image and encodes it
// as a base64 data URL.
type DataURLDecoder struct{}

// Decode returns a data URL for p, or an error if p is not a decodable image.
func (DataURLDecoder) Decode(ctx context.Context, p Payload) (string, error) {
	if len(p.Data) == 0 {
		return "", errEmptyPayload
	}
	if _, err := imaging.Decode(bytes.NewReader(p.Data), imaging.AutoOrientation(true)); err != nil {
		return "", fmt.Errorf("decode %s: %w", p.Name, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "data:" + p.MediaType + ";base64," + base64.StdEncoding.EncodeToString(p.Data), nil
}
