package tokenizer

import "testing"

func TestByteTokenizerRoundTrip(t *testing.T) {
	tok := NewByteTokenizer()

	ids, err := tok.Encode("héllo")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(ids) != 6 {
		t.Fatalf("expected 6 byte tokens, got %d", len(ids))
	}

	text, err := tok.Decode(ids)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "héllo" {
		t.Fatalf("round trip mismatch: %q", text)
	}
}

func TestByteTokenizerSpecials(t *testing.T) {
	tok := NewByteTokenizer()

	if tok.VocabSize() != 257 {
		t.Fatalf("vocab size: got %d", tok.VocabSize())
	}
	id, ok := tok.TokenToID(EndOfText)
	if !ok || id != tok.EOSID() {
		t.Fatalf("end-of-text lookup: id=%d ok=%v", id, ok)
	}

	// Specials never appear in decoded text.
	text, err := tok.Decode([]int{'h', tok.EOSID(), 'i'})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if text != "hi" {
		t.Fatalf("expected specials stripped, got %q", text)
	}
}

func TestByteTokenizerUnknownLookups(t *testing.T) {
	tok := NewByteTokenizer()

	if _, ok := tok.TokenToID("</s>"); ok {
		t.Fatal("byte tokenizer should not know </s>")
	}
	if id, ok := tok.TokenToID("x"); !ok || id != 'x' {
		t.Fatalf("single byte lookup: id=%d ok=%v", id, ok)
	}
	if _, err := tok.Decode([]int{500}); err == nil {
		t.Fatal("expected error for out-of-range id")
	}
}
