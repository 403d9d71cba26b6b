package domain

import (
	"context"
	"errors"
	"testing"
)

type recordingEmbedder struct {
	inputs []string
	err    error
}

func (r *recordingEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	r.inputs = append(r.inputs, text)
	if r.err != nil {
		return EmbeddingResult{}, r.err
	}
	return EmbeddingResult{
		Embedding:   []float32{float32(len(text))},
		TotalTokens: 1,
	}, nil
}

func TestBatchFallback_PreservesOrder(t *testing.T) {
	emb := &recordingEmbedder{}
	res, err := BatchFallback(context.Background(), emb, []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 {
		t.Fatalf("expected 3 embeddings, got %d", len(res.Embeddings))
	}
	for i, want := range []float32{1, 2, 3} {
		if res.Embeddings[i][0] != want {
			t.Errorf("embedding[%d] = %v, want [%v]", i, res.Embeddings[i], want)
		}
	}
	if res.TotalTokens != 3 {
		t.Errorf("expected TotalTokens=3, got %d", res.TotalTokens)
	}
}

func TestBatchFallback_InnerError(t *testing.T) {
	emb := &recordingEmbedder{err: errors.New("provider down")}
	if _, err := BatchFallback(context.Background(), emb, []string{"a"}); err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

func TestInstructionEmbedder_PrependsInstruction(t *testing.T) {
	inner := &recordingEmbedder{}
	e := NewInstructionEmbedder(inner, "query: ")

	if _, err := e.Embed(context.Background(), "drones"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.inputs) != 1 || inner.inputs[0] != "query: drones" {
		t.Fatalf("unexpected inner inputs: %v", inner.inputs)
	}
}

func TestInstructionEmbedder_BatchFallsBack(t *testing.T) {
	inner := &recordingEmbedder{}
	e := NewInstructionEmbedder(inner, "doc: ")

	res, err := e.BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 2 {
		t.Fatalf("expected 2 embeddings, got %d", len(res.Embeddings))
	}
	want := []string{"doc: a", "doc: b"}
	for i, in := range inner.inputs {
		if in != want[i] {
			t.Errorf("inner input[%d] = %q, want %q", i, in, want[i])
		}
	}
}
