package embedder

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"math"
	"time"

	"github.com/soundprediction/go-kag/pkg/cache"
)

// CachedEmbedder wraps a Client with a content-addressed cache so repeated
// texts (common across segmentation and retrieval of the same document) are
// only embedded once. Cache failures are ignored; the wrapped client is the
// source of truth.
type CachedEmbedder struct {
	inner Client
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedEmbedder wraps inner with c. A zero ttl caches without expiry.
func NewCachedEmbedder(inner Client, c cache.Cache, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: c, ttl: ttl}
}

// Embed returns cached vectors where available and embeds the rest in a
// single call to the wrapped client, preserving input order.
func (e *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if v, ok := e.lookup(text); ok {
			out[i] = v
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		fresh, err := e.inner.Embed(ctx, missing)
		if err != nil {
			return nil, err
		}
		for j, v := range fresh {
			out[missingIdx[j]] = v
			e.store(missing[j], v)
		}
	}
	return out, nil
}

// EmbedSingle generates (or recalls) an embedding for a single text.
func (e *CachedEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Dimensions returns the wrapped client's dimensionality.
func (e *CachedEmbedder) Dimensions() int { return e.inner.Dimensions() }

// Close closes the cache and then the wrapped client.
func (e *CachedEmbedder) Close() error {
	cerr := e.cache.Close()
	ierr := e.inner.Close()
	if ierr != nil {
		return ierr
	}
	return cerr
}

func (e *CachedEmbedder) lookup(text string) ([]float32, bool) {
	raw, err := e.cache.Get(e.key(text))
	if err != nil {
		// Misses and cache I/O errors both fall through to the real client.
		return nil, false
	}
	vec, err := decodeVector(raw)
	if err != nil {
		return nil, false
	}
	return vec, true
}

func (e *CachedEmbedder) store(text string, vec []float32) {
	// Best effort; a full disk or closed cache must not fail the embed call.
	_ = e.cache.Set(e.key(text), encodeVector(vec), e.ttl)
}

func (e *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + hex.EncodeToString(sum[:])
}

func encodeVector(vec []float32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, 4*len(vec)))
	for _, f := range vec {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(f))
		buf.Write(b[:])
	}
	return buf.Bytes()
}

func decodeVector(raw []byte) ([]float32, error) {
	if len(raw)%4 != 0 {
		return nil, errors.New("corrupt cached vector")
	}
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vec, nil
}
