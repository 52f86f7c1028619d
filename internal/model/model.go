// Package model declares the capabilities the decode loop consumes
// from an inference backend: a forward pass over token ids, an
// attention cache handle, and the static model configuration. The
// tensor math behind Forward is owned entirely by the backend.
package model

import "fmt"

// DType is the numeric precision a backend computes in.
type DType string

const (
	F32 DType = "f32"
	F16 DType = "f16"
)

// Device names the execution placement of a backend.
type Device string

const (
	DeviceAuto  Device = "auto"
	DeviceCPU   Device = "cpu"
	DeviceCUDA  Device = "cuda"
	DeviceMetal Device = "metal"
)

// ParseDevice validates a device name from configuration.
func ParseDevice(s string) (Device, error) {
	switch Device(s) {
	case DeviceAuto, DeviceCPU, DeviceCUDA, DeviceMetal:
		return Device(s), nil
	case "":
		return DeviceAuto, nil
	default:
		return "", fmt.Errorf("model: unknown device %q", s)
	}
}

// Config is the static configuration of a loaded model. It is
// read-only once the model is constructed and may be shared across
// concurrent generations.
type Config struct {
	// VocabSize is the size of the logits vector Forward produces.
	VocabSize int
	// ContextLength is the maximum token count a generation may hold,
	// prompt included.
	ContextLength int
	// EOSTokenIDs lists the terminal token ids. May be empty, in which
	// case the decode loop falls back to the tokenizer's own
	// end-of-sentence token.
	EOSTokenIDs []int
	// DType is the cache/activation precision requested from the
	// backend.
	DType DType
	// Device is the resolved execution placement.
	Device Device
}

// Cache is an opaque attention-cache handle. One cache belongs to
// exactly one in-flight generation; it is never shared.
type Cache interface {
	// Incremental reports whether the cache retains state between
	// forward calls, allowing single-token context slices after the
	// first step.
	Incremental() bool
}

// Model is the forward-pass capability. Implementations must either be
// reentrant or be serialized by the caller; the model's weights are
// read-only and shared across generations.
type Model interface {
	Config() Config

	// NewCache allocates a fresh attention cache sized to the model
	// configuration. Each generation acquires its own.
	NewCache(incremental bool, dtype DType, device Device) (Cache, error)

	// Forward consumes the context slice starting at cache position
	// pos and returns the logits for the next token, one value per
	// vocabulary entry.
	Forward(tokens []int, pos int, cache Cache) ([]float32, error)
}

// Embedder is an optional capability: backends that can produce a
// fixed-size vector for a token sequence implement it to back the
// embeddings endpoint.
type Embedder interface {
	EmbedTokens(ids []int) ([]float32, error)
}
