package ai

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

var (
	greetingRe     = regexp.MustCompile(`^(hi|hello|hey)\b`)
	introductionRe = regexp.MustCompile(`\b(i am|i'm)\b`)
	introNameRe    = regexp.MustCompile(`(?i)\b(?:i am|i'm)\s+([A-Za-z][A-Za-z\s.'-]{0,40})\b`)
)

// TransitionKind enumerates the moves of the routing state machine.
type TransitionKind int

const (
	// TransitionGreet ends the turn immediately with a canned reply.
	TransitionGreet TransitionKind = iota
	// TransitionDispatch hands Entry to its worker. The entry stays at the
	// head of the plan until the worker completes, so a snapshot persisted
	// mid-dispatch resumes at the same sub-query.
	TransitionDispatch
	// TransitionSynthesize folds the accumulated results into the final
	// answer and ends the turn.
	TransitionSynthesize
)

// Transition is one decision of the routing state machine.
type Transition struct {
	Kind  TransitionKind
	Reply string
	Entry PlanEntry
}

// Router decides, from a snapshot and the incoming query, what happens next:
// greeting fast path, direct dispatch for trivial input, or plan-and-dispatch
// through the decomposer.
type Router struct {
	classifier *Classifier
	decomposer *Decomposer
	log        *slog.Logger
}

func NewRouter(classifier *Classifier, decomposer *Decomposer, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{classifier: classifier, decomposer: decomposer, log: log}
}

// Begin starts (or resumes) a turn. It may mutate snap: a fresh composite
// query installs a new routing plan and clears the previous turn's results.
func (r *Router) Begin(ctx context.Context, snap *Snapshot, query string) (Transition, error) {
	// The greeting fast path wins even over an interrupted plan: a user who
	// says hello mid-plan gets the canned reply and the stale plan is
	// discarded.
	if reply, ok := greetingReply(query); ok {
		snap.RoutingPlan = nil
		snap.PlanActive = false
		return Transition{Kind: TransitionGreet, Reply: reply}, nil
	}

	// An interrupted plan pre-empts re-decomposition.
	if snap.PlanActive {
		if len(snap.RoutingPlan) > 0 {
			r.log.Info("resuming routing plan", "remaining", len(snap.RoutingPlan))
			return Transition{Kind: TransitionDispatch, Entry: snap.RoutingPlan[0]}, nil
		}
		return Transition{Kind: TransitionSynthesize}, nil
	}

	snap.DoneQueries = nil
	snap.SubqueryResults = nil

	if !shouldDecompose(query) {
		entry := PlanEntry{SubQuery: query, Capability: r.classifier.Classify(query)}
		r.log.Info("trivial query, direct dispatch", "capability", entry.Capability)
		return Transition{Kind: TransitionDispatch, Entry: entry}, nil
	}

	entries, err := r.decomposer.Decompose(ctx, query, snap.Summary)
	if err != nil {
		r.log.Warn("query decomposition failed, falling back to research", "error", err)
		entries = []PlanEntry{{SubQuery: query, Capability: CapabilityResearch}}
	}
	for i := range entries {
		if !entries[i].Capability.Valid() {
			entries[i].Capability = r.classifier.Classify(entries[i].SubQuery)
		}
	}
	snap.RoutingPlan = entries
	snap.PlanActive = true
	r.log.Info("routing plan built", "steps", len(entries))
	return Transition{Kind: TransitionDispatch, Entry: entries[0]}, nil
}

// Complete records a finished dispatch and decides the next move. The
// completed entry is popped here, not at dispatch time, so interrupted work
// is re-dispatched rather than lost.
func (r *Router) Complete(snap *Snapshot, result SubqueryResult) Transition {
	snap.DoneQueries = append(snap.DoneQueries, result.SubQuery)
	snap.SubqueryResults = append(snap.SubqueryResults, result)
	if len(snap.RoutingPlan) > 0 && snap.RoutingPlan[0].SubQuery == result.SubQuery {
		snap.RoutingPlan = snap.RoutingPlan[1:]
	}
	if snap.PlanActive && len(snap.RoutingPlan) > 0 {
		return Transition{Kind: TransitionDispatch, Entry: snap.RoutingPlan[0]}
	}
	return Transition{Kind: TransitionSynthesize}
}

// greetingReply implements the greeting fast path: plain greetings and
// self-introductions get a canned acknowledgment without touching the model.
func greetingReply(query string) (string, bool) {
	ql := strings.ToLower(strings.TrimSpace(query))
	if ql == "" {
		return "", false
	}
	if !greetingRe.MatchString(ql) && !introductionRe.MatchString(ql) {
		return "", false
	}
	if m := introNameRe.FindStringSubmatch(query); m != nil {
		fields := strings.Fields(strings.TrimSpace(m[1]))
		if len(fields) > 0 {
			return "Nice to meet you, " + fields[0] + "! How can I help you today?", true
		}
	}
	return "Hi! How can I help you today?", true
}

// shouldDecompose reports whether the query is worth an LLM split. Very short
// or single-word input goes straight to the classifier.
func shouldDecompose(query string) bool {
	query = strings.TrimSpace(query)
	if len(query) < 3 {
		return false
	}
	if len(strings.Fields(query)) == 1 {
		return false
	}
	return true
}
