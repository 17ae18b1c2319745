package jina

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanmayee006/NewsBot-RAG-chatbot-backend/pkg/embedding"
)

func jinaServer(t *testing.T, handler func(req embeddingRequest) embeddingResponse) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(handler(req))
	}))
}

func TestGenerateBatch_ReassemblesByIndex(t *testing.T) {
	srv := jinaServer(t, func(req embeddingRequest) embeddingResponse {
		var resp embeddingResponse
		// Return vectors out of order on purpose.
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, struct {
				Object    string    `json:"object"`
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: i, Embedding: []float32{float32(i)}})
		}
		return resp
	})
	defer srv.Close()

	p := NewJinaProviderWithURL("test-key", srv.URL)

	vectors, err := p.GenerateBatch([]string{"a", "b", "c"}, "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)

	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{0}, vectors[0])
	assert.Equal(t, []float32{1}, vectors[1])
	assert.Equal(t, []float32{2}, vectors[2])
}

func TestGenerateBatch_CardinalityMismatchFailsWholeBatch(t *testing.T) {
	srv := jinaServer(t, func(req embeddingRequest) embeddingResponse {
		var resp embeddingResponse
		resp.Data = append(resp.Data, struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{Index: 0, Embedding: []float32{0.5}})
		return resp
	})
	defer srv.Close()

	p := NewJinaProviderWithURL("test-key", srv.URL)

	_, err := p.GenerateBatch([]string{"a", "b", "c"}, "RETRIEVAL_DOCUMENT")
	require.Error(t, err)
	assert.ErrorIs(t, err, embedding.ErrBatchMismatch)
}

func TestGenerateBatch_DuplicateIndexRejected(t *testing.T) {
	srv := jinaServer(t, func(req embeddingRequest) embeddingResponse {
		var resp embeddingResponse
		for range req.Input {
			resp.Data = append(resp.Data, struct {
				Object    string    `json:"object"`
				Index     int       `json:"index"`
				Embedding []float32 `json:"embedding"`
			}{Index: 0, Embedding: []float32{0.5}})
		}
		return resp
	})
	defer srv.Close()

	p := NewJinaProviderWithURL("test-key", srv.URL)

	_, err := p.GenerateBatch([]string{"a", "b"}, "RETRIEVAL_DOCUMENT")
	assert.ErrorIs(t, err, embedding.ErrBatchMismatch)
}

func TestGenerateBatch_ApiErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	p := NewJinaProviderWithURL("test-key", srv.URL)

	_, err := p.GenerateBatch([]string{"a"}, "RETRIEVAL_DOCUMENT")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
