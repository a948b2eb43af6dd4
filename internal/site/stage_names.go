package site

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names, in pipeline order.
const (
	StagePrepare           StageName = "prepare"
	StageLoadPosts         StageName = "load_posts"
	StageResolvePermalinks StageName = "resolve_permalinks"
	StageIndexCategories   StageName = "index_categories"
	StageRenderPages       StageName = "render_pages"
	StageRenderFeeds       StageName = "render_feeds"
	StageWriteOutput       StageName = "write_output"
	StageVerifyLinks       StageName = "verify_links"
	StageJournal           StageName = "journal"
	StageNotify            StageName = "notify"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// Pipeline is a fluent builder for ordered stage definitions.
type Pipeline struct{ defs []StageDef }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{defs: make([]StageDef, 0, 10)} }

// Add appends a stage unconditionally.
func (p *Pipeline) Add(name StageName, fn Stage) *Pipeline {
	p.defs = append(p.defs, StageDef{Name: name, Fn: fn})
	return p
}

// AddIf appends a stage only if cond is true.
func (p *Pipeline) AddIf(cond bool, name StageName, fn Stage) *Pipeline {
	if cond {
		p.Add(name, fn)
	}
	return p
}

// Build returns a copy of the stage definitions.
func (p *Pipeline) Build() []StageDef {
	out := make([]StageDef, len(p.defs))
	copy(out, p.defs)
	return out
}
