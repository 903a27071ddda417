package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/sirsim"
	"github.com/aretw0/sirsim/pkg/adapters/memory"
	"github.com/aretw0/sirsim/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	sim := sirsim.New(sirsim.WithSeed(11), sirsim.WithStore(store))
	return NewServer(sim, WithStore(store)), store
}

func TestHandleSimulate(t *testing.T) {
	s, store := newTestServer(t)

	resp, err := s.handleSimulate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"population_size":     float64(3),
		"contact_range":       float64(1),
		"infect_probability":  float64(0),
		"recover_probability": float64(1),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Trace{
		{Susceptible: 2, Infected: 1},
		{Susceptible: 2, Recovered: 1},
	}, resp.Trace)
	assert.True(t, resp.Converged)
	assert.Equal(t, uint64(11), resp.Seed)
	assert.Contains(t, resp.Table, "Peak Infections: 1")

	_, err = store.Load(context.Background(), resp.RunID)
	assert.NoError(t, err)
}

func TestHandleSimulate_Defaults(t *testing.T) {
	s, _ := newTestServer(t)

	resp, err := s.handleSimulate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Trace[0].Total())
	assert.Equal(t, 0, resp.Trace.Final().Infected)
}

func TestHandleSimulate_Capped(t *testing.T) {
	s, _ := newTestServer(t)

	resp, err := s.handleSimulate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"population_size":     float64(2),
		"recover_probability": float64(0),
		"max_days":            float64(4),
	})
	require.NoError(t, err)
	assert.False(t, resp.Converged)
	assert.Equal(t, 4, resp.Summary.Days)
}

func TestHandleSimulate_Invalid(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.handleSimulate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"infect_probability": float64(3),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = s.handleSimulate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"population_size": "lots",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = s.handleSimulate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"population_size": float64(1 << 50),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = s.handleSimulate(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"population_size": 2.7,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestHandleGetAndListRuns(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	resp, err := s.handleSimulate(ctx, mcp.CallToolRequest{}, map[string]interface{}{"population_size": float64(5)})
	require.NoError(t, err)

	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"id": resp.RunID}
	res, err := s.handleGetRun(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	var run domain.Run
	require.NoError(t, json.Unmarshal([]byte(text), &run))
	assert.Equal(t, resp.RunID, run.ID)

	req.Params.Arguments = map[string]any{"id": "missing"}
	res, err = s.handleGetRun(ctx, req)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleListRuns(ctx, mcp.CallToolRequest{})
	require.NoError(t, err)
	var sums []domain.Summary
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &sums))
	require.Len(t, sums, 1)
	assert.Equal(t, resp.RunID, sums[0].ID)
}

func TestReadDefaults(t *testing.T) {
	s, _ := newTestServer(t)

	contents, err := s.readDefaults(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text := contents[0].(mcp.TextResourceContents)
	assert.Equal(t, defaultsURI, text.URI)

	var params domain.Params
	require.NoError(t, json.Unmarshal([]byte(text.Text), &params))
	assert.Equal(t, domain.DefaultParams(), params)
}
