package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mabhisheksingh/AgenticAI/internal/ai/threadstore"
	"github.com/mabhisheksingh/AgenticAI/internal/ai/tools"
)

// Service runs chat turns: it owns the routing machinery, the per-capability
// workers, and the persistence of conversation snapshots. Turns on the same
// thread are serialized by a per-thread mutex; different threads run freely in
// parallel.
type Service struct {
	store        *threadstore.Store
	completer    Completer
	model        string
	systemPrompt string

	router      *Router
	summarizer  *Summarizer
	synthesizer *Synthesizer
	workers     map[Capability]*Worker

	log *slog.Logger

	mu          sync.Mutex
	threadLocks map[string]*sync.Mutex
}

// ServiceOptions configures NewService. Store, Completer, and Model are
// required; the rest have defaults.
type ServiceOptions struct {
	Store         *threadstore.Store
	Completer     Completer
	Model         string
	SystemPrompt  string
	Registry      *tools.Registry
	WorkerTimeout time.Duration
	Log           *slog.Logger
}

func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("missing store")
	}
	if opts.Completer == nil {
		return nil, errors.New("missing completer")
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, errors.New("missing model")
	}
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	cache := newTTLCache()
	classifier := NewClassifier(cache)
	decomposer := NewDecomposer(opts.Completer, opts.Model, cache, log)

	workers := make(map[Capability]*Worker, 3)
	for capability, toolNames := range map[Capability][]string{
		CapabilityMath:     {"add", "multiply", "divide"},
		CapabilityResearch: {"web_search", "current_time"},
		CapabilityCode:     {"add", "multiply", "divide", "web_search", "current_time"},
	} {
		workers[capability] = NewWorker(WorkerOptions{
			Capability: capability,
			Completer:  opts.Completer,
			Model:      opts.Model,
			Registry:   opts.Registry,
			ToolNames:  toolNames,
			Timeout:    opts.WorkerTimeout,
			Log:        log,
		})
	}

	return &Service{
		store:        opts.Store,
		completer:    opts.Completer,
		model:        opts.Model,
		systemPrompt: strings.TrimSpace(opts.SystemPrompt),
		router:       NewRouter(classifier, decomposer, log),
		summarizer:   NewSummarizer(opts.Completer, opts.Model, log),
		synthesizer:  NewSynthesizer(opts.Completer, opts.Model, log),
		workers:      workers,
		log:          log,
		threadLocks:  make(map[string]*sync.Mutex),
	}, nil
}

// Turn is a validated chat request bound to a resolved thread. Validation and
// thread resolution happen in PrepareTurn, before any streaming, so the HTTP
// layer can still answer with a plain status code.
type Turn struct {
	svc       *Service
	sessionID string
	threadID  string
	req       ChatRequest
}

func (t *Turn) ThreadID() string { return t.threadID }

// PrepareTurn validates req and resolves its thread. A nil thread id creates
// a fresh thread; an unknown one (including another session's) is
// ErrThreadNotFound.
func (s *Service) PrepareTurn(ctx context.Context, sessionID string, req ChatRequest) (*Turn, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing user id", ErrValidation)
	}
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	var threadID string
	if req.ThreadID != nil {
		threadID = req.ThreadID.String()
		thread, err := s.store.GetThread(ctx, sessionID, threadID)
		if err != nil {
			return nil, err
		}
		if thread == nil {
			return nil, fmt.Errorf("%w: %s", ErrThreadNotFound, threadID)
		}
	} else {
		threadID = uuid.NewString()
		if _, err := s.store.SaveThread(ctx, sessionID, threadID, req.ThreadLabel); err != nil {
			return nil, err
		}
	}
	return &Turn{svc: s, sessionID: sessionID, threadID: threadID, req: req}, nil
}

// Run executes the turn, emitting frames on stream until the turn ends. The
// stream is always closed on return. Run never returns an error: failures
// surface as an error frame, a fallback answer, or a log line, depending on
// the failure class.
func (t *Turn) Run(ctx context.Context, stream *TurnStream) {
	defer stream.Close()
	s := t.svc

	lock := s.threadLock(t.threadID)
	lock.Lock()
	defer lock.Unlock()

	emitter := &frameEmitter{ctx: ctx, stream: stream, log: s.log}
	emitter.emit(metadataFrame(t.threadID, t.sessionID))

	snap, err := s.loadSnapshot(ctx, t.sessionID, t.threadID)
	if err != nil {
		s.log.Error("loading conversation state failed", "thread", t.threadID, "error", err)
		emitter.emit(errorFrame("failed to load conversation state"))
		return
	}

	snap.Messages = append(snap.Messages, UserMessage(t.req.Message))
	trimmed, summary := s.summarizer.MaybeSummarize(ctx, snap.Messages)
	snap.Messages = trimmed
	if summary != "" {
		snap.Summary = joinSummaries(snap.Summary, summary)
	}
	s.persist(ctx, t.sessionID, t.threadID, snap)

	tr, err := s.router.Begin(ctx, snap, t.req.Message)
	if err != nil {
		s.log.Error("routing failed", "thread", t.threadID, "error", err)
		emitter.emit(errorFrame("failed to route the request"))
		return
	}

	for {
		switch tr.Kind {
		case TransitionGreet:
			snap.Messages = append(snap.Messages, AssistantMessage(tr.Reply))
			s.persist(ctx, t.sessionID, t.threadID, snap)
			emitter.emit(tokenFrame(tr.Reply, "router"))
			return

		case TransitionDispatch:
			// Persist before the worker runs: this is the resume point if
			// the process dies mid-dispatch.
			s.persist(ctx, t.sessionID, t.threadID, snap)
			tr = t.dispatch(ctx, snap, tr.Entry, emitter)
			s.persist(ctx, t.sessionID, t.threadID, snap)

		case TransitionSynthesize:
			t.synthesize(ctx, snap, emitter)
			return
		}
	}
}

func (t *Turn) dispatch(ctx context.Context, snap *Snapshot, entry PlanEntry, emitter *frameEmitter) Transition {
	s := t.svc
	worker, ok := s.workers[entry.Capability]
	if !ok {
		worker = s.workers[CapabilityResearch]
	}
	node := string(entry.Capability)
	s.log.Info("dispatching sub-query", "thread", t.threadID, "capability", entry.Capability)

	result, err := worker.Run(ctx, entry.SubQuery, snap.Summary,
		func(delta string) { emitter.emit(tokenFrame(delta, node)) },
		func(toolName string) { emitter.emit(toolCallFrame("Executing "+toolName, node)) },
	)
	if err != nil {
		// Worker failures are local: the step's result becomes an error
		// note and the plan moves on.
		s.log.Warn("worker failed", "thread", t.threadID, "capability", entry.Capability, "error", err)
		result = fmt.Sprintf("The %s step could not be completed: %v", entry.Capability, err)
		emitter.emit(tokenFrame(result, node))
	}
	return s.router.Complete(snap, SubqueryResult{
		SubQuery:   entry.SubQuery,
		Capability: entry.Capability,
		Result:     result,
	})
}

func (t *Turn) synthesize(ctx context.Context, snap *Snapshot, emitter *frameEmitter) {
	s := t.svc
	results := snap.SubqueryResults

	// A single result already streamed through its worker; pass it through
	// without re-emitting.
	onDelta := func(delta string) { emitter.emit(tokenFrame(delta, "synthesizer")) }
	if len(results) == 1 {
		onDelta = nil
	}
	answer := s.synthesizer.Synthesize(ctx, t.req.Message, results, onDelta)
	if answer == "" {
		answer = "I couldn't produce an answer for that."
		emitter.emit(tokenFrame(answer, "synthesizer"))
	}

	snap.Messages = append(snap.Messages, AssistantMessage(answer))
	snap.PlanActive = false
	snap.RoutingPlan = nil
	s.persist(ctx, t.sessionID, t.threadID, snap)
}

func (s *Service) loadSnapshot(ctx context.Context, sessionID, threadID string) (*Snapshot, error) {
	raw, err := s.store.GetState(ctx, sessionID, threadID)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return NewSnapshot(s.systemPrompt), nil
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Warn("corrupt conversation state, starting fresh", "thread", threadID, "error", err)
		return NewSnapshot(s.systemPrompt), nil
	}
	return &snap, nil
}

// persist writes the snapshot best-effort: a persistence failure is logged
// and the turn continues.
func (s *Service) persist(ctx context.Context, sessionID, threadID string, snap *Snapshot) {
	b, err := json.Marshal(snap)
	if err == nil {
		err = s.store.PutState(ctx, sessionID, threadID, b)
	}
	if err != nil {
		s.log.Error("persisting conversation state failed", "thread", threadID, "error", err)
	}
}

func (s *Service) threadLock(threadID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lk, ok := s.threadLocks[threadID]
	if !ok {
		lk = &sync.Mutex{}
		s.threadLocks[threadID] = lk
	}
	return lk
}

func joinSummaries(prev, next string) string {
	prev = strings.TrimSpace(prev)
	next = strings.TrimSpace(next)
	if prev == "" {
		return next
	}
	if next == "" {
		return prev
	}
	return prev + "\n" + next
}

// frameEmitter wraps a TurnStream: after the consumer goes away (or the
// context dies) it swallows frames so the turn can finish its work.
type frameEmitter struct {
	ctx    context.Context
	stream *TurnStream
	log    *slog.Logger
	closed bool
}

func (e *frameEmitter) emit(frame StreamFrame) {
	if e.closed {
		return
	}
	if err := e.stream.Send(e.ctx, frame); err != nil {
		e.closed = true
		if !errors.Is(err, ErrStreamClosed) && !errors.Is(err, context.Canceled) {
			e.log.Warn("stream emission failed", "error", err)
		}
	}
}
