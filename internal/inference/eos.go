package inference

import (
	"errors"

	"github.com/synapforge/forgellm/internal/model"
	"github.com/synapforge/forgellm/internal/tokenizer"
)

// ErrNoEOS means neither the model configuration nor the tokenizer
// could name a terminal token, so a generation could never stop on its
// own.
var ErrNoEOS = errors.New("inference: no end-of-sentence token available")

// EosSpec is the set of token ids that terminate a generation. Most
// models declare exactly one; a few declare several.
type EosSpec struct {
	ids map[int]struct{}
}

func NewEosSpec(ids ...int) EosSpec {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return EosSpec{ids: set}
}

func (e EosSpec) Contains(id int) bool {
	_, ok := e.ids[id]
	return ok
}

func (e EosSpec) Empty() bool {
	return len(e.ids) == 0
}

// ResolveEos builds the terminal-token set for a generation: the model
// configuration's declared ids when present, otherwise the tokenizer's
// conventional end-of-sentence token.
func ResolveEos(cfg model.Config, tok tokenizer.Tokenizer) (EosSpec, error) {
	if len(cfg.EOSTokenIDs) > 0 {
		return NewEosSpec(cfg.EOSTokenIDs...), nil
	}
	if id, ok := tok.TokenToID("</s>"); ok {
		return NewEosSpec(id), nil
	}
	return EosSpec{}, ErrNoEOS
}
