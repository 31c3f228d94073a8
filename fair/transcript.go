package fair

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var transcriptMode cbor.EncMode

func init() {
	mode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	transcriptMode = mode
}

// EncodeTranscript serializes a revealed round as deterministic CBOR so it
// can be handed to an auditor and checked with [Verify] after decoding.
func EncodeTranscript(res Result) ([]byte, error) {
	b, err := transcriptMode.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode transcript: %w", err)
	}
	return b, nil
}

// DecodeTranscript parses a transcript produced by [EncodeTranscript]. The
// result is not verified.
func DecodeTranscript(data []byte) (Result, error) {
	var res Result
	if err := cbor.Unmarshal(data, &res); err != nil {
		return Result{}, fmt.Errorf("decode transcript: %w", err)
	}
	return res, nil
}
