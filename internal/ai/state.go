package ai

// PlanEntry is one step of a routing plan: an atomic sub-query and the
// capability chosen to answer it.
type PlanEntry struct {
	SubQuery   string     `json:"sub_query"`
	Capability Capability `json:"capability"`
}

// SubqueryResult records a completed dispatch.
type SubqueryResult struct {
	SubQuery   string     `json:"sub_query"`
	Capability Capability `json:"capability"`
	Result     string     `json:"result"`
}

// Snapshot is the persisted conversation state for one thread. It is the unit
// of durability: the turn loop persists it after every mutation so an
// interrupted plan resumes at the same next sub-query.
//
// Invariant: PlanActive is false only when RoutingPlan is empty; a plan under
// execution always has PlanActive set.
type Snapshot struct {
	Messages        []ChatMessage    `json:"messages"`
	Summary         string           `json:"summary,omitempty"`
	RoutingPlan     []PlanEntry      `json:"routing_plan,omitempty"`
	PlanActive      bool             `json:"plan_active"`
	DoneQueries     []string         `json:"done_queries,omitempty"`
	SubqueryResults []SubqueryResult `json:"subquery_results,omitempty"`
}

// NewSnapshot seeds a fresh conversation, optionally with a persona message.
func NewSnapshot(systemPrompt string) *Snapshot {
	snap := &Snapshot{}
	if systemPrompt != "" {
		snap.Messages = append(snap.Messages, SystemMessage(systemPrompt))
	}
	return snap
}

// PendingCapabilities is the ordered list of capabilities still waiting for
// dispatch. Derived from the plan, never stored.
func (s *Snapshot) PendingCapabilities() []Capability {
	if s == nil || len(s.RoutingPlan) == 0 {
		return nil
	}
	out := make([]Capability, 0, len(s.RoutingPlan))
	for _, entry := range s.RoutingPlan {
		out = append(out, entry.Capability)
	}
	return out
}

// Clone deep-copies the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Summary:    s.Summary,
		PlanActive: s.PlanActive,
	}
	out.Messages = append(out.Messages, s.Messages...)
	out.RoutingPlan = append(out.RoutingPlan, s.RoutingPlan...)
	out.DoneQueries = append(out.DoneQueries, s.DoneQueries...)
	out.SubqueryResults = append(out.SubqueryResults, s.SubqueryResults...)
	return out
}
