package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), "PRAGMA %s", tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestWithPragmas(t *testing.T) {
	assert.Equal(t,
		"a.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)",
		withPragmas("a.db"))
	assert.Contains(t, withPragmas("file:a.db?cache=shared"), "cache=shared&_pragma=journal_mode(WAL)")
}

func TestTables_DerivedFromSchema(t *testing.T) {
	tables := Tables()
	require.Len(t, tables, 2)

	llm := tables[0]
	assert.Equal(t, "llm_request_events", llm.Name)
	names := make([]string, 0, len(llm.Columns))
	for _, c := range llm.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"id", "sequence", "timestamp", "provider", "model", "purpose",
		"input_tokens", "output_tokens", "latency_ms", "success", "error_message",
		"request_body", "response_body",
	}, names)
	assert.True(t, llm.Columns[1].Unique, "sequence should be unique")
	assert.Nil(t, llm.Columns[2].Default, "function defaults are not stored")
	assert.Len(t, llm.Indexes, 5)

	assert.Equal(t, "pin_events", tables[1].Name)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendPin(ctx, PinEventData{Backend: "minio", CID: "sha256:abc"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	pins, err := s.EventRepo().QueryPins(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, "sha256:abc", pins[0].CID)

	// The sequence keeps counting across reopen.
	require.NoError(t, s.EventRepo().AppendPin(ctx, PinEventData{Backend: "minio", CID: "sha256:def"}))
	pins, err = s.EventRepo().QueryPins(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Greater(t, pins[0].Sequence, pins[1].Sequence)
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	for i, purpose := range []string{"question-gen", "question-gen", "other"} {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider:     "sambanova",
			Model:        "Meta-Llama-3.1-8B-Instruct",
			Purpose:      purpose,
			InputTokens:  100 * (i + 1),
			OutputTokens: 10 * (i + 1),
			LatencyMs:    int64(200 * (i + 1)),
			Success:      i != 2,
			ErrorMessage: map[bool]string{true: "boom"}[i == 2],
			RequestBody:  "[user]\nhello",
			ResponseBody: "[]",
		}))
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "other", events[0].Purpose, "newest first")
	assert.False(t, events[0].Success)
	assert.Equal(t, "boom", events[0].ErrorMessage)
	assert.Equal(t, "[]", events[2].ResponseBody)
	assert.True(t, events[2].Timestamp.After(before))

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	after, err := repo.QueryLLMEvents(ctx, QueryOpts{After: events[1].Sequence})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, events[0].ID, after[0].ID)

	got, err := repo.GetLLMEvent(ctx, events[1].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 200, got.InputTokens)
	assert.Equal(t, "[user]\nhello", got.RequestBody)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	add := func(purpose, model string, in, out int, ms int64) {
		require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
			Provider: "sambanova", Model: model, Purpose: purpose,
			InputTokens: in, OutputTokens: out, LatencyMs: ms, Success: true,
		}))
	}
	add("question-gen", "m1", 100, 50, 100)
	add("question-gen", "m2", 300, 150, 300)
	add("health", "m1", 10, 5, 50)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	assert.Equal(t, []PurposeUsage{
		{Purpose: "health", Calls: 1, InputTokens: 10, OutputTokens: 5, AvgLatencyMs: 50},
		{Purpose: "question-gen", Calls: 2, InputTokens: 400, OutputTokens: 200, AvgLatencyMs: 200},
	}, byPurpose)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ModelUsage{
		{Model: "m1", Calls: 2, InputTokens: 110, OutputTokens: 55},
		{Model: "m2", Calls: 1, InputTokens: 300, OutputTokens: 150},
	}, byModel)
}

func TestUsageEmpty(t *testing.T) {
	s := openTestStore(t)
	usage, err := s.EventRepo().LLMUsageByPurpose(context.Background())
	require.NoError(t, err)
	assert.Empty(t, usage)
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "question-gen", Success: true}))
	require.NoError(t, repo.AppendPin(ctx, PinEventData{Backend: "pinata", Name: "batch", CID: "Qm123", Size: 42}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	pins, err := repo.QueryPins(ctx, QueryOpts{})
	require.NoError(t, err)

	require.Len(t, events, 1)
	require.Len(t, pins, 1)
	assert.Equal(t, events[0].Sequence+1, pins[0].Sequence)
	assert.Equal(t, PinEventData{Backend: "pinata", Name: "batch", CID: "Qm123", Size: 42}, pins[0].PinEventData)
}
