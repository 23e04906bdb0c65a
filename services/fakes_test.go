package services

import (
	"HaloBackend/interfaces"
	"HaloBackend/models"
	"HaloBackend/repositories/impl"
	"context"
	"sync"
)

type queuedTask struct {
	name string
	fn   func(ctx context.Context) error
}

// recordingQueue keeps tasks instead of running them, so tests can assert that
// dispatch was scheduled and then run it explicitly.
type recordingQueue struct {
	mu    sync.Mutex
	tasks []queuedTask
}

func (q *recordingQueue) Enqueue(name string, fn func(ctx context.Context) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, queuedTask{name: name, fn: fn})
}

func (q *recordingQueue) runAll() []error {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	var errs []error
	for _, task := range tasks {
		errs = append(errs, task.fn(context.Background()))
	}
	return errs
}

func (q *recordingQueue) names() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []string
	for _, task := range q.tasks {
		out = append(out, task.name)
	}
	return out
}

type sentPush struct {
	token, title, body string
	data               map[string]string
}

type recordingPush struct {
	mu   sync.Mutex
	sent []sentPush
	err  error
}

func (p *recordingPush) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentPush{token: token, title: title, body: body, data: data})
	return p.err
}

type recordingFeed struct {
	mu       sync.Mutex
	messages []interfaces.FeedMessage
}

func (f *recordingFeed) Publish(msg interfaces.FeedMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

type sentMail struct {
	to            []string
	subject, body string
}

type recordingMail struct {
	enabled bool
	sent    []sentMail
}

func (m *recordingMail) Enabled() bool { return m.enabled }

func (m *recordingMail) SendMail(to []string, subject, body string) error {
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type stubAnalyzer struct {
	analysis models.Analysis
	panics   bool
}

func (a stubAnalyzer) Analyze(ctx context.Context, text string) models.Analysis {
	if a.panics {
		panic("model exploded")
	}
	return a.analysis
}

type testEnv struct {
	store *impl.MemoryStore
	queue *recordingQueue
	push  *recordingPush
	feed  *recordingFeed
	mail  *recordingMail
}

func newTestEnv() *testEnv {
	return &testEnv{
		store: impl.NewMemoryStore(nil),
		queue: &recordingQueue{},
		push:  &recordingPush{},
		feed:  &recordingFeed{},
		mail:  &recordingMail{enabled: true},
	}
}

func (e *testEnv) alertService(analyzer TextAnalyzer) *AlertService {
	return NewAlertService(
		impl.NewChildRepository(e.store),
		impl.NewParentRepository(e.store),
		impl.NewAlertRepository(e.store),
		impl.NewTelemetryRepository(e.store),
		analyzer,
		e.push,
		e.queue,
		e.feed,
		quietLogger(),
	)
}

func (e *testEnv) registerFamily(t interface{ Helper() }, childUID, parentUID, token string) {
	t.Helper()
	ctx := context.Background()
	_ = impl.NewChildRepository(e.store).Save(ctx, models.Child{
		UID:            childUID,
		Name:           "Asha",
		ParentUID:      parentUID,
		ParentContacts: []string{"mum@example.com", "+91 90000 00000"},
	})
	meta := map[string]interface{}{"uid": parentUID}
	if token != "" {
		meta[models.MetaFCMToken] = token
	}
	_ = impl.NewParentRepository(e.store).Save(ctx, models.Parent{UID: parentUID, Meta: meta})
}
