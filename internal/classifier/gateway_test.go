package classifier

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinela/internal/incident/models"
)

func newTestGateway(t *testing.T, endpoint string, maxRetries int, opts ...Option) *Gateway {
	t.Helper()
	g := New(endpoint, "test-token", maxRetries, 5*time.Second, opts...)
	g.sleep = func(time.Duration) {} // no real delays in tests
	return g
}

func TestClassify_Success(t *testing.T) {
	var calls atomic.Int32
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"eventType": "QUEDA", "riskLevel": "GRAVE", "recommendation": "Avaliar lesões"}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, 1)
	got, err := g.Classify(context.Background(), "Paciente caiu do leito")
	require.NoError(t, err)

	assert.Equal(t, "QUEDA", got.EventType)
	assert.Equal(t, models.RiskGrave, got.RiskLevel)
	assert.Equal(t, "Avaliar lesões", got.Recommendation)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestClassify_StripsCodeFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("```json\n{\"eventType\": \"ERRO_MEDICACAO\", \"riskLevel\": \"MODERADO\", \"recommendation\": \"Checar dose\"}\n```"))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, 0)
	got, err := g.Classify(context.Background(), "dose errada")
	require.NoError(t, err)
	assert.Equal(t, "ERRO_MEDICACAO", got.EventType)
	assert.Equal(t, models.RiskModerado, got.RiskLevel)
}

func TestClassify_RetriesThenFallsBack(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var delays []time.Duration
	g := New(srv.URL, "t", 1, 5*time.Second)
	g.sleep = func(d time.Duration) { delays = append(delays, d) }

	got, err := g.Classify(context.Background(), "Paciente caiu do leito durante a noite")
	require.NoError(t, err, "classify must never surface provider failure")

	assert.EqualValues(t, 2, calls.Load(), "default bound is one retry, two attempts")
	assert.Equal(t, []time.Duration{1 * time.Second}, delays, "linear delay: attempt * 1s")
	assert.NotEmpty(t, got.RiskLevel)
	assert.NotEmpty(t, got.Recommendation)
	assert.Equal(t, "QUEDA", got.EventType, "fall keyword routes to the fall template")
}

func TestClassify_ParseFailureTreatedAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("I could not produce JSON today, sorry"))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, 0)
	got, err := g.Classify(context.Background(), "evento neutro sem palavras-chave")
	require.NoError(t, err)
	assert.Equal(t, "OUTRO", got.EventType, "neutral description yields the generic template")
	assert.Equal(t, models.RiskModerado, got.RiskLevel, "unrecognized events must not land in the lowest-urgency queue")
}

func TestClassify_CoercesNAFromProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"eventType": "OUTRO", "riskLevel": "NA", "recommendation": "n/a"}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, 0)
	got, err := g.Classify(context.Background(), "relato qualquer")
	require.NoError(t, err)
	assert.Equal(t, models.RiskLeve, got.RiskLevel, "classifier may never assign NA")
}

func TestGenerateRootCauseAnalysis_OfflineTemplates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, 0)

	tests := []struct {
		name        string
		description string
		wantIn      string
	}{
		{"fall keyword yields fall conclusion", "Paciente sofreu queda no banheiro", "Queda de paciente"},
		{"medication keyword yields medication conclusion", "administrada dose errada de antibiótico", "Erro de medicação"},
		{"neutral yields generic template", "evento sem classificação aparente", "não determinada automaticamente"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.GenerateRootCauseAnalysis(context.Background(), tt.description, "OUTRO", "")
			require.NoError(t, err)
			assert.Contains(t, got.RootCauseConclusion, tt.wantIn)
			assert.NotEmpty(t, got.FiveWhys)
			assert.NotEmpty(t, got.ActionPlan)
			assert.Positive(t, got.SuggestedDeadlineDays)
		})
	}
}

type stubSimilarFinder struct {
	incidents []*models.Incident
}

func (f *stubSimilarFinder) FindSimilarResolved(context.Context, string, int) ([]*models.Incident, error) {
	return f.incidents, nil
}

func TestGenerateRootCauseAnalysis_SimilarContextIsAnonymized(t *testing.T) {
	var gotBody atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		w.Write([]byte(`{"rootCauseConclusion": "Checklist incompleto", "suggestedDeadlineDays": 3, "fiveWhys": [], "actionPlan": []}`))
	}))
	defer srv.Close()

	finder := &stubSimilarFinder{incidents: []*models.Incident{{
		Description: "Paciente João da Silva caiu no quarto 204",
		RootCause:   "Acompanhante ausente após alta da enfermagem",
		AIEventType: "QUEDA",
		RiskLevel:   models.RiskGrave,
	}}}
	g := newTestGateway(t, srv.URL, 0, WithSimilarIncidentFinder(finder))

	_, err := g.GenerateRootCauseAnalysis(context.Background(), "Paciente caiu do leito", "QUEDA", "")
	require.NoError(t, err)

	body, _ := gotBody.Load().(string)
	require.NotEmpty(t, body)
	// Only the outcome of prior incidents leaves the service.
	assert.Contains(t, body, "QUEDA")
	assert.Contains(t, body, string(models.RiskGrave))
	assert.NotContains(t, body, "João da Silva")
	assert.NotContains(t, body, "Acompanhante ausente")
}

func TestChat_FallsBackToFixedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, 1)
	got := g.Chat(context.Background(), "Como prevenir quedas?", "")
	assert.Equal(t, chatUnavailableReply, got)
}

func TestChat_PassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Mantenha as grades do leito elevadas.\n"))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL, 0)
	got := g.Chat(context.Background(), "Como prevenir quedas?", "paciente idoso")
	assert.Equal(t, "Mantenha as grades do leito elevadas.", got)
}

func TestClassify_UsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"eventType": "QUEDA", "riskLevel": "MODERADO", "recommendation": "x"}`))
	}))
	defer srv.Close()

	cache := &memoryCache{entries: map[string]Classification{}}
	g := newTestGateway(t, srv.URL, 0, WithCache(cache))

	_, err := g.Classify(context.Background(), "mesma descrição")
	require.NoError(t, err)
	_, err = g.Classify(context.Background(), "mesma descrição")
	require.NoError(t, err)

	assert.EqualValues(t, 1, calls.Load(), "second call must come from cache")
}

type memoryCache struct {
	entries map[string]Classification
}

func (m *memoryCache) GetClassification(_ context.Context, key string) (*Classification, bool) {
	c, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	return &c, true
}

func (m *memoryCache) SetClassification(_ context.Context, key string, c Classification) {
	m.entries[key] = c
}

func TestTrace_RecordsAttemptsAndStaysBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	trace := NewTrace(5)
	g := newTestGateway(t, srv.URL, 1, WithTrace(trace))

	for range 10 {
		_, err := g.Classify(context.Background(), "relato")
		require.NoError(t, err)
	}

	snapshot := trace.Snapshot()
	assert.Len(t, snapshot, 5, "ring buffer holds only the last N entries")
	// The newest entry of a failing classify run is the fallback marker.
	assert.Equal(t, TraceFallback, snapshot[len(snapshot)-1].Outcome)
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"single line fence", "```{\"a\":1}```", `{"a":1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\":1}\n```\n ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripFences(tt.input))
		})
	}
}
