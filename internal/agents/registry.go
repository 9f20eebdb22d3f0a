package agents

// Default remote agent identifiers. Overridable through environment
// configuration when pointing the studio at a different agent deployment.
const (
	DefaultOrchestratorID = "699643be7c10308731d1314a"
	DefaultPublisherID    = "699643dbfa7935fa886621c7"
	DefaultSEOResearchID  = "699643ab8c4e22200a885a39"
	DefaultCopywritingID  = "699643ab7952db745690f16d"
)

// Info describes one remote agent in the content team.
type Info struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Registry is the static roster of remote agents involved in a run. The
// orchestrator and publisher are invoked directly; the research and
// copywriting agents are delegated to by the orchestrator and only show up
// on the session event stream.
type Registry struct {
	agents []Info
	byID   map[string]Info
}

// NewRegistry builds a roster with the given orchestrator and publisher
// ids. Empty ids fall back to the defaults.
func NewRegistry(orchestratorID, publisherID string) *Registry {
	if orchestratorID == "" {
		orchestratorID = DefaultOrchestratorID
	}
	if publisherID == "" {
		publisherID = DefaultPublisherID
	}

	roster := []Info{
		{ID: orchestratorID, Name: "Content Orchestrator", Role: "Coordinates the generation run and delegates to specialists"},
		{ID: DefaultSEOResearchID, Name: "SEO Research", Role: "Keyword and trend research"},
		{ID: DefaultCopywritingID, Name: "Copywriting", Role: "Platform-specific copy drafting"},
		{ID: publisherID, Name: "Publisher", Role: "Pushes approved content to the target platforms"},
	}

	byID := make(map[string]Info, len(roster))
	for _, a := range roster {
		byID[a.ID] = a
	}

	return &Registry{agents: roster, byID: byID}
}

// List returns the roster in display order.
func (r *Registry) List() []Info {
	return append([]Info(nil), r.agents...)
}

// Lookup returns the agent with the given id.
func (r *Registry) Lookup(id string) (Info, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// OrchestratorID returns the id of the generation orchestrator.
func (r *Registry) OrchestratorID() string {
	return r.agents[0].ID
}

// PublisherID returns the id of the publishing agent.
func (r *Registry) PublisherID() string {
	return r.agents[3].ID
}
