package diagnosis

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/llm"
	"github.com/abhisek/studyzone/internal/store"
)

// QueueSize bounds pending LLM explanations. Further requests are dropped.
const QueueSize = 32

// Service combines the rules with an optional background Explainer.
type Service struct {
	rules     []Rule
	explainer *Explainer
	events    store.EventRepo
	log       *zap.Logger
	timeout   time.Duration

	pending   chan job
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type job struct {
	in       Input
	category string
	cb       func(*Result)
}

// Option configures a Service.
type Option func(*Service)

// WithEvents records every diagnosis in the event store.
func WithEvents(repo store.EventRepo) Option {
	return func(s *Service) { s.events = repo }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithTimeout bounds each LLM explanation. Default 20s.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithRules replaces DefaultRules.
func WithRules(rules ...Rule) Option {
	return func(s *Service) { s.rules = rules }
}

// NewService creates a diagnosis service. With a nil provider only the
// rules run and no goroutine is started.
func NewService(provider llm.Provider, opts ...Option) *Service {
	s := &Service{
		rules:   DefaultRules(),
		log:     zap.NewNop(),
		timeout: 20 * time.Second,
		pending: make(chan job, QueueSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	if provider != nil {
		s.explainer = NewExplainer(provider, DefaultExplainerConfig())
		s.wg.Add(1)
		go s.loop()
	}
	return s
}

// Explains reports whether LLM explanations are available.
func (s *Service) Explains() bool { return s.explainer != nil }

// Diagnose returns the rule-based result immediately. When an explainer is
// configured and cb is non-nil, an LLM explanation is queued and cb is
// called from the worker goroutine once it is ready. Failed or dropped
// explanations never call cb.
func (s *Service) Diagnose(ctx context.Context, in Input, cb func(*Result)) *Result {
	res, ok := RunRules(s.rules, &in)
	if !ok {
		res = Result{RecordID: in.Record.ID, Source: SourceNone}
	} else {
		s.record(ctx, in, &res)
	}

	if s.explainer != nil && cb != nil {
		s.dispatch(job{in: in, category: res.Category, cb: cb})
	}
	return &res
}

func (s *Service) dispatch(j job) {
	if s.ctx.Err() != nil {
		return
	}
	select {
	case s.pending <- j:
	default:
		s.log.Debug("diagnosis queue full, dropping explanation", zap.String("record_id", j.in.Record.ID))
	}
}

func (s *Service) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case j := <-s.pending:
			s.run(j)
		}
	}
}

func (s *Service) run(j job) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	res, err := s.explainer.Explain(ctx, &j.in, j.category)
	if err != nil {
		if s.ctx.Err() == nil {
			s.log.Warn("llm explanation failed", zap.String("record_id", j.in.Record.ID), zap.Error(err))
		}
		return
	}
	s.record(ctx, j.in, res)
	j.cb(res)
}

func (s *Service) record(ctx context.Context, in Input, res *Result) {
	if s.events == nil {
		return
	}
	err := s.events.AppendDiagnosisEvent(context.WithoutCancel(ctx), store.DiagnosisEventData{
		SessionID:   in.SessionID,
		StudentID:   in.StudentID,
		RecordID:    in.Record.ID,
		Category:    res.Category,
		Source:      res.Source,
		Explanation: res.Explanation,
	})
	if err != nil {
		s.log.Warn("record diagnosis event", zap.Error(err))
	}
}

// Close stops the worker and waits for it. In-flight requests are
// canceled. Close is idempotent.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
	})
}
