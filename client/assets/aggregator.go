package assets

import (
	"context"
	"log"
	"sync"
)

// Tier is how much of a room's asset listing has been fetched for a type.
type Tier int

const (
	TierNotFetched Tier = iota
	TierPreview
	TierFull
)

// Section is a point-in-time view of one asset section, safe to hand to a
// renderer. When the section is collapsed after a full fetch, Groups and
// Items are windowed back down to the preview size; the fetched data itself
// is retained so re-expanding needs no refetch.
type Section struct {
	Tier     Tier
	Expanded bool
	Groups   []DateGroup
	Items    []Item
	Total    int
}

type sectionState struct {
	fetched  Tier
	expanded bool
	groups   []DateGroup
	items    []Item
	total    int
}

// Aggregator accumulates per-(room, asset type) listings with a two-tier
// pagination policy. The three asset types are independent: their fetches
// may run concurrently and each is idempotent to re-issue. Fetch failures
// are swallowed so a transient error never blanks a populated section.
type Aggregator struct {
	client *Client

	mu    sync.Mutex
	rooms map[string]map[string]*sectionState
}

func NewAggregator(client *Client) *Aggregator {
	return &Aggregator{
		client: client,
		rooms:  map[string]map[string]*sectionState{},
	}
}

func (a *Aggregator) state(roomID, assetType string) *sectionState {
	sections, ok := a.rooms[roomID]
	if !ok {
		sections = map[string]*sectionState{}
		a.rooms[roomID] = sections
	}
	st, ok := sections[assetType]
	if !ok {
		st = &sectionState{}
		sections[assetType] = st
	}
	return st
}

// current reports whether st is still the registered state for the key, so
// a fetch that resolved after an Invalidate (room switched mid-flight) is
// dropped instead of resurrecting stale data.
func (a *Aggregator) current(roomID, assetType string, st *sectionState) bool {
	sections, ok := a.rooms[roomID]
	if !ok {
		return false
	}
	return sections[assetType] == st
}

// FetchAssets issues one query for a room and type and replaces the stored
// listing. needAll selects the full tier's large limit over the preview cap.
// Both the grouped-by-date structure and a flattened list are kept, in
// exactly the order received; no client-side re-sorting happens. A missing
// total falls back to the flattened count.
func (a *Aggregator) FetchAssets(ctx context.Context, roomID, assetType string, needAll bool) error {
	limit := PreviewLimit
	tier := TierPreview
	if needAll {
		limit = FullLimit
		tier = TierFull
	}

	a.mu.Lock()
	st := a.state(roomID, assetType)
	a.mu.Unlock()

	page, err := a.client.ReadAssets(ctx, roomID, assetType, limit)
	if err != nil {
		return err
	}

	var items []Item
	for _, group := range page.Groups {
		items = append(items, group.Items...)
	}
	total := len(items)
	if page.Total != nil {
		total = *page.Total
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.current(roomID, assetType, st) {
		return nil
	}
	if tier < st.fetched {
		// A slow preview fetch must not clobber full-tier data that landed
		// in the meantime.
		return nil
	}
	st.fetched = tier
	st.groups = page.Groups
	st.items = items
	st.total = total
	return nil
}

// EnsureLoaded lazily fetches the preview listing the first time a section
// is opened. Already-loaded sections are left alone; a failed fetch leaves
// prior state untouched and is only logged.
func (a *Aggregator) EnsureLoaded(ctx context.Context, roomID, assetType string) {
	a.mu.Lock()
	loaded := a.state(roomID, assetType).fetched != TierNotFetched
	a.mu.Unlock()
	if loaded {
		return
	}

	if err := a.FetchAssets(ctx, roomID, assetType, false); err != nil {
		log.Printf("asset preview fetch failed for room %s type %s: %v", roomID, assetType, err)
	}
}

// Expand switches a section to the full tier, fetching the unbounded
// listing if it has not been fetched yet.
func (a *Aggregator) Expand(ctx context.Context, roomID, assetType string) {
	a.mu.Lock()
	st := a.state(roomID, assetType)
	st.expanded = true
	needFetch := st.fetched != TierFull
	a.mu.Unlock()
	if !needFetch {
		return
	}

	if err := a.FetchAssets(ctx, roomID, assetType, true); err != nil {
		log.Printf("asset full fetch failed for room %s type %s: %v", roomID, assetType, err)
	}
}

// Collapse returns a section to the preview view. Fetched full-tier data is
// kept, only the visible window shrinks, so a later Expand in the same
// session refetches nothing.
func (a *Aggregator) Collapse(roomID, assetType string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state(roomID, assetType).expanded = false
}

// Invalidate forgets everything fetched for a room, forcing the next open
// of any of its sections to fetch again. The hook for a future real-time
// update integration.
func (a *Aggregator) Invalidate(roomID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.rooms, roomID)
}

// Section snapshots one asset section for rendering.
func (a *Aggregator) Section(roomID, assetType string) Section {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := a.state(roomID, assetType)
	section := Section{
		Tier:     st.fetched,
		Expanded: st.expanded,
		Groups:   st.groups,
		Items:    st.items,
		Total:    st.total,
	}
	if !st.expanded && len(st.items) > PreviewLimit {
		section.Groups, section.Items = previewWindow(st.groups)
	}
	return section
}

// previewWindow trims grouped data to the first PreviewLimit items,
// preserving group order and cutting the last group short if needed.
func previewWindow(groups []DateGroup) ([]DateGroup, []Item) {
	var (
		outGroups []DateGroup
		outItems  []Item
	)
	remaining := PreviewLimit
	for _, group := range groups {
		if remaining <= 0 {
			break
		}
		items := group.Items
		if len(items) > remaining {
			items = items[:remaining]
		}
		outGroups = append(outGroups, DateGroup{DateLabel: group.DateLabel, Items: items})
		outItems = append(outItems, items...)
		remaining -= len(items)
	}
	return outGroups, outItems
}
