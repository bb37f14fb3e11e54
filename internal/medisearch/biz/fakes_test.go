package biz

import (
	"context"
	"sync"

	"github.com/kart-io/medisearch/pkg/component/elasticsearch"
	"github.com/kart-io/medisearch/pkg/llm"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

type staticConn bool

func (c staticConn) Connected() bool { return bool(c) }

type fakeSearcher struct {
	mu     sync.Mutex
	hits   []elasticsearch.Hit
	err    error
	bodies []SearchRequest
}

func (f *fakeSearcher) Search(_ context.Context, body any) ([]elasticsearch.Hit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies = append(f.bodies, body.(SearchRequest))
	return f.hits, f.err
}

func (f *fakeSearcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bodies)
}

func hit(id string, score *float64, source any) elasticsearch.Hit {
	raw, _ := json.Marshal(source)
	return elasticsearch.Hit{ID: id, Score: score, Source: raw}
}

func score(v float64) *float64 { return &v }

// fakeProvider records prompts and answers from canned replies.
type fakeProvider struct {
	mu         sync.Mutex
	reply      string
	replyErr   error
	entities   string
	entityErr  error
	prompts    []string
	systems    []string
	jsonCalled int
}

var _ llm.StructuredProvider = (*fakeProvider)(nil)

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Chat(context.Context, []llm.Message) (string, error) {
	return p.reply, p.replyErr
}

func (p *fakeProvider) Generate(_ context.Context, prompt, system string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	p.systems = append(p.systems, system)
	return p.reply, p.replyErr
}

func (p *fakeProvider) GenerateJSON(_ context.Context, _, _ string, _ *llm.Schema) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jsonCalled++
	return p.entities, p.entityErr
}

// plainProvider has no structured output support.
type plainProvider struct {
	out    string
	system string
}

func (p *plainProvider) Name() string { return "plain" }

func (p *plainProvider) Chat(context.Context, []llm.Message) (string, error) { return p.out, nil }

func (p *plainProvider) Generate(_ context.Context, _, system string) (string, error) {
	p.system = system
	return p.out, nil
}
