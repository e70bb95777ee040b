package workflow

import (
	"context"
	"sync"

	pipelinemodels "talentflow/internal/pipeline/models"
)

// View is the stateful cursor a UI session holds over the workflow: current
// tab, stage filter, search query, and page. Changing the tab, the stage
// filter, or the query resets the page to 1, so a narrowed result set is
// never shown from a stale offset. Paging within unchanged filters keeps
// them.
type View struct {
	mu       sync.Mutex
	service  *Service
	tab      Tab
	stage    pipelinemodels.Stage
	query    string
	page     int
	pageSize int
}

// NewView starts on the by-job tab, unfiltered, page 1.
func NewView(service *Service, pageSize int) *View {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{service: service, tab: TabByJob, page: 1, pageSize: pageSize}
}

// SetTab switches presentation mode. No-op when already on tab.
func (v *View) SetTab(tab Tab) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if tab == v.tab {
		return
	}
	v.tab = tab
	v.page = 1
}

// SetStage changes the stage filter; empty clears it.
func (v *View) SetStage(stage pipelinemodels.Stage) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if stage == v.stage {
		return
	}
	v.stage = stage
	v.page = 1
}

// SetQuery changes the search term. The query only narrows the
// by-candidate tab, but changing it resets the page regardless so the two
// tabs never disagree about the cursor.
func (v *View) SetQuery(query string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if query == v.query {
		return
	}
	v.query = query
	v.page = 1
}

// SetPage moves the cursor within the current filters.
func (v *View) SetPage(page int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 {
		page = 1
	}
	v.page = page
}

// Page returns the current cursor position.
func (v *View) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// ByJob renders the current cursor in by-job mode.
func (v *View) ByJob(ctx context.Context) (Page[JobGroup], error) {
	v.mu.Lock()
	stage, page, size := v.stage, v.page, v.pageSize
	v.mu.Unlock()
	return v.service.ListByJob(ctx, stage, page, size)
}

// ByCandidate renders the current cursor in by-candidate mode.
func (v *View) ByCandidate(ctx context.Context) (Page[CandidateRow], error) {
	v.mu.Lock()
	stage, query, page, size := v.stage, v.query, v.page, v.pageSize
	v.mu.Unlock()
	return v.service.SearchCandidates(ctx, stage, query, page, size)
}
