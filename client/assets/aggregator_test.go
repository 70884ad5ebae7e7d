package assets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assetServer fakes the message service's asset endpoint: it holds a fixed
// grouped dataset, truncates it to the requested limit and reports the true
// total, like the real extraction query does.
type assetServer struct {
	mu        sync.Mutex
	groups    []DateGroup
	requests  int
	failing   bool
	omitTotal bool

	// When set, the handler announces each request on started and holds the
	// response until release is closed, letting a test interleave aggregator
	// calls with an in-flight fetch.
	started chan struct{}
	release chan struct{}
}

func (s *assetServer) handler(w http.ResponseWriter, r *http.Request) {
	if s.started != nil {
		s.started <- struct{}{}
		<-s.release
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++

	if s.failing {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	var req readAssetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Action != "readAssets" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	total := 0
	for _, group := range s.groups {
		total += len(group.Items)
	}

	var outGroups []DateGroup
	remaining := req.Limit
	for _, group := range s.groups {
		if remaining <= 0 {
			break
		}
		items := group.Items
		if len(items) > remaining {
			items = items[:remaining]
		}
		outGroups = append(outGroups, DateGroup{DateLabel: group.DateLabel, Items: items})
		remaining -= len(items)
	}

	body := map[string]interface{}{"groups": outGroups}
	if !s.omitTotal {
		body["total"] = total
	}
	json.NewEncoder(w).Encode(body)
}

func (s *assetServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *assetServer) setFailing(failing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = failing
}

func testGroups() []DateGroup {
	return []DateGroup{
		{DateLabel: "Today", Items: []Item{
			{ID: "m1", URL: "https://cdn.example/1.jpg"},
			{ID: "m2", URL: "https://cdn.example/2.jpg"},
			{ID: "m3", URL: "https://cdn.example/3.jpg"},
			{ID: "m4", URL: "https://cdn.example/4.jpg"},
		}},
		{DateLabel: "Yesterday", Items: []Item{
			{ID: "m5", URL: "https://cdn.example/5.jpg"},
			{ID: "m6", URL: "https://cdn.example/6.jpg"},
			{ID: "m7", URL: "https://cdn.example/7.jpg"},
			{ID: "m8", URL: "https://cdn.example/8.jpg"},
		}},
	}
}

func newTestAggregator(t *testing.T, server *assetServer) *Aggregator {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(server.handler))
	t.Cleanup(ts.Close)
	return NewAggregator(NewClient(ts.URL))
}

func itemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestEnsureLoadedFetchesPreviewOnce(t *testing.T) {
	server := &assetServer{groups: testGroups()}
	agg := newTestAggregator(t, server)
	ctx := context.Background()

	agg.EnsureLoaded(ctx, "r1", TypeMedia)
	agg.EnsureLoaded(ctx, "r1", TypeMedia)

	assert.Equal(t, 1, server.requestCount())

	section := agg.Section("r1", TypeMedia)
	assert.Equal(t, TierPreview, section.Tier)
	assert.Len(t, section.Items, PreviewLimit)
	assert.Equal(t, 8, section.Total)
}

func TestFlattenPreservesGroupOrder(t *testing.T) {
	server := &assetServer{groups: testGroups()}
	agg := newTestAggregator(t, server)

	require.NoError(t, agg.FetchAssets(context.Background(), "r1", TypeMedia, true))

	// A freshly fetched section starts collapsed, so open it first.
	agg.Expand(context.Background(), "r1", TypeMedia)
	section := agg.Section("r1", TypeMedia)

	assert.Equal(t, []string{"m1", "m2", "m3", "m4", "m5", "m6", "m7", "m8"}, itemIDs(section.Items))
	require.Len(t, section.Groups, 2)
	assert.Equal(t, "Today", section.Groups[0].DateLabel)
	assert.Equal(t, "Yesterday", section.Groups[1].DateLabel)
}

func TestExpandIsSupersetOfPreview(t *testing.T) {
	server := &assetServer{groups: testGroups()}
	agg := newTestAggregator(t, server)
	ctx := context.Background()

	agg.EnsureLoaded(ctx, "r1", TypeFile)
	preview := agg.Section("r1", TypeFile)

	agg.Expand(ctx, "r1", TypeFile)
	full := agg.Section("r1", TypeFile)

	assert.Equal(t, TierFull, full.Tier)
	require.GreaterOrEqual(t, len(full.Items), len(preview.Items))
	assert.Equal(t, itemIDs(preview.Items), itemIDs(full.Items)[:len(preview.Items)])
}

func TestCollapseKeepsFullDataAndWindowsView(t *testing.T) {
	server := &assetServer{groups: testGroups()}
	agg := newTestAggregator(t, server)
	ctx := context.Background()

	agg.EnsureLoaded(ctx, "r1", TypeLink)
	agg.Expand(ctx, "r1", TypeLink)
	require.Equal(t, 2, server.requestCount())

	agg.Collapse("r1", TypeLink)
	collapsed := agg.Section("r1", TypeLink)
	assert.False(t, collapsed.Expanded)
	assert.Len(t, collapsed.Items, PreviewLimit)
	// The window cut the second group short but kept group order.
	require.Len(t, collapsed.Groups, 2)
	assert.Len(t, collapsed.Groups[0].Items, 4)
	assert.Len(t, collapsed.Groups[1].Items, 2)

	// Re-expanding needs no refetch: the full-tier data was never dropped.
	agg.Expand(ctx, "r1", TypeLink)
	assert.Equal(t, 2, server.requestCount())
	assert.Len(t, agg.Section("r1", TypeLink).Items, 8)
}

func TestTotalFallsBackToFlattenedCount(t *testing.T) {
	server := &assetServer{groups: testGroups(), omitTotal: true}
	agg := newTestAggregator(t, server)

	require.NoError(t, agg.FetchAssets(context.Background(), "r1", TypeMedia, false))

	section := agg.Section("r1", TypeMedia)
	assert.Equal(t, PreviewLimit, section.Total)
}

func TestFetchFailureLeavesPriorStateUntouched(t *testing.T) {
	server := &assetServer{groups: testGroups()}
	agg := newTestAggregator(t, server)
	ctx := context.Background()

	agg.EnsureLoaded(ctx, "r1", TypeMedia)
	before := agg.Section("r1", TypeMedia)
	require.Len(t, before.Items, PreviewLimit)

	server.setFailing(true)
	agg.Expand(ctx, "r1", TypeMedia)

	after := agg.Section("r1", TypeMedia)
	assert.Equal(t, TierPreview, after.Tier)
	assert.Equal(t, itemIDs(before.Items), itemIDs(after.Items))
	assert.Equal(t, before.Total, after.Total)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	server := &assetServer{groups: testGroups()}
	agg := newTestAggregator(t, server)
	ctx := context.Background()

	agg.EnsureLoaded(ctx, "r1", TypeMedia)
	agg.Invalidate("r1")

	section := agg.Section("r1", TypeMedia)
	assert.Equal(t, TierNotFetched, section.Tier)

	agg.EnsureLoaded(ctx, "r1", TypeMedia)
	assert.Equal(t, 2, server.requestCount())
}

func TestInvalidateDropsInFlightFetch(t *testing.T) {
	server := &assetServer{
		groups:  testGroups(),
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	agg := newTestAggregator(t, server)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- agg.FetchAssets(ctx, "r1", TypeMedia, false)
	}()

	// The room is invalidated while its fetch is still in flight, so the
	// response that lands afterwards must not resurrect the old state.
	<-server.started
	agg.Invalidate("r1")
	close(server.release)
	require.NoError(t, <-done)

	section := agg.Section("r1", TypeMedia)
	assert.Equal(t, TierNotFetched, section.Tier)
	assert.Empty(t, section.Items)
	assert.Zero(t, section.Total)
}

func TestAssetTypesAreIndependent(t *testing.T) {
	server := &assetServer{groups: testGroups()}
	agg := newTestAggregator(t, server)
	ctx := context.Background()

	agg.EnsureLoaded(ctx, "r1", TypeMedia)
	agg.EnsureLoaded(ctx, "r1", TypeFile)
	agg.EnsureLoaded(ctx, "r1", TypeLink)

	assert.Equal(t, 3, server.requestCount())
	assert.Equal(t, TierPreview, agg.Section("r1", TypeMedia).Tier)
	assert.Equal(t, TierPreview, agg.Section("r1", TypeFile).Tier)
	assert.Equal(t, TierPreview, agg.Section("r1", TypeLink).Tier)
}

func TestClientRejectsUnknownAssetType(t *testing.T) {
	client := NewClient("http://localhost:0")

	_, err := client.ReadAssets(context.Background(), "r1", "sticker", PreviewLimit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported asset type")

	_, err = client.ReadAssets(context.Background(), "", TypeMedia, PreviewLimit)
	require.Error(t, err)
}
