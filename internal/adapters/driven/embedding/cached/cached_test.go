package cached

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder records backend invocations and produces a
// deterministic vector per input text.
type countingEmbedder struct {
	embedCalls int
	batchCalls int
	embedErr   error
}

func (e *countingEmbedder) vectorFor(text string) []float32 {
	v := make([]float32, e.Dimensions())
	for i, r := range text {
		v[i%len(v)] += float32(r)
	}
	return v
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.embedCalls++
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	return e.vectorFor(text), nil
}

func (e *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.batchCalls++
	if e.embedErr != nil {
		return nil, e.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = e.vectorFor(text)
	}
	return result, nil
}

func (e *countingEmbedder) Dimensions() int { return 8 }

func (e *countingEmbedder) ModelName() string { return "counting-embed" }

func TestEmbedMemoizes(t *testing.T) {
	backend := &countingEmbedder{}
	svc := New(backend)
	ctx := context.Background()

	first, err := svc.Embed(ctx, "hello world")
	require.NoError(t, err)
	second, err := svc.Embed(ctx, "hello world")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.embedCalls, "backend must be invoked at most once per distinct text")
}

func TestEmbedBlankTextSkipsBackend(t *testing.T) {
	backend := &countingEmbedder{}
	svc := New(backend)

	for _, text := range []string{"", "   ", "\n\t"} {
		vector, err := svc.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, make([]float32, 8), vector)
	}
	assert.Zero(t, backend.embedCalls)
	assert.Zero(t, svc.Size())
}

func TestEmbedBatchResolvesPartialHits(t *testing.T) {
	backend := &countingEmbedder{}
	svc := New(backend)
	ctx := context.Background()

	cachedVec, err := svc.Embed(ctx, "already cached")
	require.NoError(t, err)

	texts := []string{"already cached", "", "fresh one", "fresh two"}
	vectors, err := svc.EmbedBatch(ctx, texts)
	require.NoError(t, err)
	require.Len(t, vectors, 4)

	// Order matches input order; the miss set went out as one call.
	assert.Equal(t, cachedVec, vectors[0])
	assert.Equal(t, make([]float32, 8), vectors[1])
	assert.Equal(t, backend.vectorFor("fresh one"), vectors[2])
	assert.Equal(t, backend.vectorFor("fresh two"), vectors[3])
	assert.Equal(t, 1, backend.batchCalls)
}

func TestEmbedBatchAllCached(t *testing.T) {
	backend := &countingEmbedder{}
	svc := New(backend)
	ctx := context.Background()

	_, err := svc.Embed(ctx, "one")
	require.NoError(t, err)
	_, err = svc.Embed(ctx, "two")
	require.NoError(t, err)

	_, err = svc.EmbedBatch(ctx, []string{"one", "two"})
	require.NoError(t, err)
	assert.Zero(t, backend.batchCalls)
}

// mapCacheStore is an in-memory driven.EmbeddingCacheStore.
type mapCacheStore struct {
	vectors map[string][]float32
	puts    int
}

func newMapCacheStore() *mapCacheStore {
	return &mapCacheStore{vectors: make(map[string][]float32)}
}

func (m *mapCacheStore) GetVector(_ context.Context, key string) ([]float32, bool) {
	v, ok := m.vectors[key]
	return v, ok
}

func (m *mapCacheStore) PutVector(_ context.Context, key string, vector []float32) error {
	m.puts++
	m.vectors[key] = vector
	return nil
}

func TestEmbedWritesThroughToPersistence(t *testing.T) {
	backend := &countingEmbedder{}
	persist := newMapCacheStore()
	svc := New(backend)
	svc.SetPersistence(persist)
	ctx := context.Background()

	vector, err := svc.Embed(ctx, "durable text")
	require.NoError(t, err)
	assert.Equal(t, 1, persist.puts)

	// A fresh service sharing the persistent level serves the vector
	// without a backend call.
	restarted := New(&countingEmbedder{})
	restarted.SetPersistence(persist)
	again, err := restarted.Embed(ctx, "durable text")
	require.NoError(t, err)
	assert.Equal(t, vector, again)
	assert.Equal(t, 1, restarted.Size(), "persistent hit is promoted to memory")
}

func TestEmbedErrorNotCached(t *testing.T) {
	backend := &countingEmbedder{embedErr: errors.New("backend down")}
	svc := New(backend)

	_, err := svc.Embed(context.Background(), "some text")
	require.Error(t, err)
	assert.Zero(t, svc.Size())

	// Recovery: a later call reaches the backend again.
	backend.embedErr = nil
	_, err = svc.Embed(context.Background(), "some text")
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Size())
}
