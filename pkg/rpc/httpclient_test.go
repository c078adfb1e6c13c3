package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, handler func(method string, params []json.RawMessage) (any, *rpcError)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string            `json:"method"`
			ID     int64             `json:"id"`
			Params []json.RawMessage `json:"params"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, rpcErr := handler(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(endpoints ...string) *HTTPClient {
	return NewHTTPWithOpts(Opts{
		Endpoints: endpoints,
		Timeout:   2 * time.Second,
		RPS:       1000,
		Burst:     1000,
	})
}

func TestLatestCheckpointSequenceNumber(t *testing.T) {
	srv := rpcServer(t, func(method string, _ []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "sui_getLatestCheckpointSequenceNumber", method)
		return "9876", nil
	})

	c := newTestClient(srv.URL)
	seq, err := c.LatestCheckpointSequenceNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(9876), seq)
}

func TestCheckpointDataSequenceMismatch(t *testing.T) {
	srv := rpcServer(t, func(method string, _ []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "sui_getFullCheckpoint", method)
		return map[string]any{
			"checkpointSummary": map[string]any{
				"epoch":          "1",
				"sequenceNumber": "41",
				"timestampMs":    "0",
			},
			"transactions": []any{},
		}, nil
	})

	c := newTestClient(srv.URL)
	_, err := c.CheckpointData(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorContains(t, err, "returned sequence 41")
}

func TestCallReturnsRPCErrorWithoutFailover(t *testing.T) {
	var secondary atomic.Int64
	errSrv := rpcServer(t, func(string, []json.RawMessage) (any, *rpcError) {
		return nil, &rpcError{Code: -32602, Message: "invalid params"}
	})
	okSrv := rpcServer(t, func(string, []json.RawMessage) (any, *rpcError) {
		secondary.Add(1)
		return "1", nil
	})

	c := newTestClient(errSrv.URL, okSrv.URL)
	_, err := c.LatestCheckpointSequenceNumber(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid params")
	assert.Zero(t, secondary.Load(), "a deterministic rpc error is not an endpoint failure")
}

func TestCallFailsOverOnServerError(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	okSrv := rpcServer(t, func(string, []json.RawMessage) (any, *rpcError) {
		return "55", nil
	})

	c := newTestClient(broken.URL, okSrv.URL)
	seq, err := c.LatestCheckpointSequenceNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(55), seq)
}

func TestCallFailsWhenAllBreakersOpen(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(broken.Close)

	c := NewHTTPWithOpts(Opts{
		Endpoints:       []string{broken.URL},
		Timeout:         2 * time.Second,
		RPS:             1000,
		Burst:           1000,
		BreakerFailures: 1,
		BreakerCooldown: time.Minute,
	})

	_, err := c.LatestCheckpointSequenceNumber(context.Background())
	require.Error(t, err, "the failure that opens the breaker")

	_, err = c.LatestCheckpointSequenceNumber(context.Background())
	require.Error(t, err, "an open breaker must not read as success")
	assert.ErrorContains(t, err, "all endpoints unavailable")
}

func TestPackageObjectParsesOriginTable(t *testing.T) {
	srv := rpcServer(t, func(method string, params []json.RawMessage) (any, *rpcError) {
		assert.Equal(t, "sui_getObject", method)
		require.NotEmpty(t, params)
		var addr string
		require.NoError(t, json.Unmarshal(params[0], &addr))
		assert.Equal(t, "0x7", addr)

		return map[string]any{
			"data": map[string]any{
				"objectId": "0x0007",
				"version":  "2",
				"content": map[string]any{
					"dataType":     "package",
					"disassembled": map[string]any{"pool": "..."},
					"typeOriginTable": []map[string]string{
						{"moduleName": "pool", "structName": "LP", "package": "0x5"},
					},
				},
			},
		}, nil
	})

	c := newTestClient(srv.URL)
	pkg, err := c.PackageObject(context.Background(), "0x0007")
	require.NoError(t, err)
	assert.Equal(t, "0x7", pkg.Address)
	assert.Equal(t, []string{"pool"}, pkg.Modules)
	assert.Equal(t, "0x5", pkg.OriginOf("pool", "LP"))
	assert.Equal(t, "0x7", pkg.OriginOf("pool", "Other"))
}

func TestPackageObjectRejectsNonPackage(t *testing.T) {
	srv := rpcServer(t, func(string, []json.RawMessage) (any, *rpcError) {
		return map[string]any{
			"data": map[string]any{
				"objectId": "0x9",
				"version":  "1",
				"content":  map[string]any{"dataType": "moveObject"},
			},
		}, nil
	})

	c := newTestClient(srv.URL)
	_, err := c.PackageObject(context.Background(), "0x9")
	require.Error(t, err)
	assert.ErrorContains(t, err, "not a package")
}
