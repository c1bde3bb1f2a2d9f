package cache

// Keyer builds cache keys. Keys embed a hash of every option that changes
// the cached value, so two requests share an entry only when they would
// compute the same bytes.
type Keyer interface {
	// LayoutKey names a computed layout of the graph with the given hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey names a rendered artifact of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout options that affect the result.
type LayoutKeyOpts struct {
	SpacingFactor float64 `json:"spacing"`
	Graphviz      bool    `json:"graphviz"`
	Routing       string  `json:"routing"`
	Sweeps        int     `json:"sweeps"`
	CycleLimit    int     `json:"cycle_limit"`
}

// ArtifactKeyOpts are the render options that affect an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Renderer string  `json:"renderer,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
	Labels   bool    `json:"labels"`
	Title    string  `json:"title,omitempty"`
	Force    bool    `json:"force,omitempty"`
}

// DefaultKeyer produces keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
