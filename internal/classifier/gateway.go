package classifier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"sentinela/internal/classifier/metrics"
	"sentinela/internal/incident/models"
)

// Cache stores successful classifications keyed by description hash.
// Implementations must treat errors as misses; the gateway never fails on
// cache trouble.
type Cache interface {
	GetClassification(ctx context.Context, key string) (*Classification, bool)
	SetClassification(ctx context.Context, key string, c Classification)
}

// SimilarIncidentFinder supplies resolved incidents of the same event type
// to enrich root-cause prompts. Optional.
type SimilarIncidentFinder interface {
	FindSimilarResolved(ctx context.Context, eventType string, limit int) ([]*models.Incident, error)
}

// Gateway calls the external completion endpoint with bounded retries and
// falls back to the deterministic offline templates when every attempt
// fails. Classify and GenerateRootCauseAnalysis never return an error to
// the caller; Chat degrades to a fixed reply.
type Gateway struct {
	endpoint   string
	token      string
	maxRetries int
	httpClient *http.Client
	trace      *Trace
	cache      Cache
	similar    SimilarIncidentFinder
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     oteltrace.Tracer

	// sleep is swappable so retry tests don't wait out real delays.
	sleep func(time.Duration)
}

// Option configures a Gateway.
type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

// WithTrace injects the diagnostic ring buffer. Defaults to a fresh
// 50-entry buffer per gateway.
func WithTrace(t *Trace) Option {
	return func(g *Gateway) { g.trace = t }
}

func WithCache(c Cache) Option {
	return func(g *Gateway) { g.cache = c }
}

func WithSimilarIncidentFinder(f SimilarIncidentFinder) Option {
	return func(g *Gateway) { g.similar = f }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// New constructs a Gateway. maxRetries is the retry bound beyond the first
// attempt; the default of one retry means two attempts total.
func New(endpoint, token string, maxRetries int, timeout time.Duration, opts ...Option) *Gateway {
	if maxRetries < 0 {
		maxRetries = 1
	}
	g := &Gateway{
		endpoint:   endpoint,
		token:      token,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
		tracer:     otel.Tracer("sentinela/classifier"),
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.trace == nil {
		g.trace = NewTrace(DefaultTraceSize)
	}
	return g
}

// TraceSnapshot exposes the diagnostic ring buffer for the admin endpoint.
func (g *Gateway) TraceSnapshot() []TraceEntry {
	return g.trace.Snapshot()
}

// Classify produces the structured verdict for a report description. The
// returned error is always nil; provider failure activates the offline
// fallback.
func (g *Gateway) Classify(ctx context.Context, description string) (Classification, error) {
	ctx, span := g.tracer.Start(ctx, "classifier.classify")
	defer span.End()

	cacheKey := hashKey(description)
	if g.cache != nil {
		if cached, ok := g.cache.GetClassification(ctx, cacheKey); ok {
			g.trace.Record(TraceEntry{Op: "classify", Outcome: TraceCacheHit})
			g.metrics.RecordCacheHit()
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return *cached, nil
		}
	}

	raw, err := g.complete(ctx, "classify", classifyPrompt(description))
	if err == nil {
		var parsed Classification
		if perr := decodeJSON(raw, &parsed); perr == nil && parsed.Recommendation != "" {
			parsed.RiskLevel = models.ParseRiskLevel(string(parsed.RiskLevel))
			// NA is reserved for exempt report categories; the classifier
			// must never assign it.
			if parsed.RiskLevel == models.RiskNA {
				parsed.RiskLevel = models.RiskLeve
			}
			if g.cache != nil {
				g.cache.SetClassification(ctx, cacheKey, parsed)
			}
			return parsed, nil
		}
		g.recordFailure("classify", g.maxRetries+1, "response parse failed")
	}

	g.trace.Record(TraceEntry{Op: "classify", Outcome: TraceFallback})
	g.metrics.RecordFallback("classify")
	span.SetAttributes(attribute.Bool("fallback", true))
	return offlineClassification(description), nil
}

// GenerateRootCauseAnalysis produces the deeper structured analysis. Same
// retry and fallback shape as Classify, larger schema.
func (g *Gateway) GenerateRootCauseAnalysis(ctx context.Context, description, eventType, investigationNotes string) (RootCauseAnalysis, error) {
	ctx, span := g.tracer.Start(ctx, "classifier.root_cause")
	defer span.End()

	prompt := rootCausePrompt(description, eventType, investigationNotes, g.similarContext(ctx, eventType))

	raw, err := g.complete(ctx, "root_cause", prompt)
	if err == nil {
		var parsed RootCauseAnalysis
		if perr := decodeJSON(raw, &parsed); perr == nil && parsed.RootCauseConclusion != "" {
			if parsed.SuggestedDeadlineDays <= 0 {
				parsed.SuggestedDeadlineDays = 5
			}
			return parsed, nil
		}
		g.recordFailure("root_cause", g.maxRetries+1, "response parse failed")
	}

	g.trace.Record(TraceEntry{Op: "root_cause", Outcome: TraceFallback})
	g.metrics.RecordFallback("root_cause")
	span.SetAttributes(attribute.Bool("fallback", true))
	return offlineRootCause(description), nil
}

// Chat is a raw pass-through completion with the same retry policy but no
// structured-JSON requirement and no offline template. On failure it
// returns a fixed apologetic reply rather than an error.
func (g *Gateway) Chat(ctx context.Context, message, chatContext string) string {
	ctx, span := g.tracer.Start(ctx, "classifier.chat")
	defer span.End()

	raw, err := g.complete(ctx, "chat", chatPrompt(message, chatContext))
	if err != nil {
		span.SetAttributes(attribute.Bool("fallback", true))
		return chatUnavailableReply
	}
	return strings.TrimSpace(stripFences(raw))
}

// complete runs the bounded retry loop: one network call per attempt, a
// linearly increasing delay between attempts (attempt * 1s), give up after
// maxRetries retries.
func (g *Gateway) complete(ctx context.Context, op, prompt string) (string, error) {
	attempts := g.maxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		g.trace.Record(TraceEntry{Op: op, Attempt: attempt, Outcome: TraceAttempt})

		start := time.Now()
		body, err := g.call(ctx, prompt)
		g.metrics.ObserveLatency(op, time.Since(start).Seconds())

		if err == nil {
			g.trace.Record(TraceEntry{Op: op, Attempt: attempt, Outcome: TraceSuccess})
			g.metrics.RecordAttempt(op, "success")
			return body, nil
		}

		lastErr = err
		g.recordFailure(op, attempt, err.Error())
		if attempt < attempts {
			g.sleep(time.Duration(attempt) * time.Second)
		}
	}
	g.logger.Warn("classifier provider unavailable", "op", op, "attempts", attempts, "error", lastErr)
	return "", lastErr
}

func (g *Gateway) call(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("marshal prompt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read provider response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("provider returned %d", resp.StatusCode)
	}
	return string(body), nil
}

func (g *Gateway) recordFailure(op string, attempt int, detail string) {
	g.trace.Record(TraceEntry{Op: op, Attempt: attempt, Outcome: TraceFailure, Detail: detail})
	g.metrics.RecordAttempt(op, "failure")
}

func (g *Gateway) similarContext(ctx context.Context, eventType string) []*models.Incident {
	if g.similar == nil || eventType == "" {
		return nil
	}
	incidents, err := g.similar.FindSimilarResolved(ctx, eventType, 3)
	if err != nil {
		g.logger.Debug("similar incident lookup failed", "event_type", eventType, "error", err)
		return nil
	}
	return incidents
}

// decodeJSON strips markdown code fences, extracts the first JSON object
// from the free-text response, and unmarshals it. Providers routinely wrap
// JSON in ```json fences despite instructions not to.
func decodeJSON(raw string, out any) error {
	cleaned := stripFences(raw)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return fmt.Errorf("no JSON object in response")
	}
	return json.Unmarshal([]byte(cleaned[start:end+1]), out)
}

func stripFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimSuffix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl != -1 {
		trimmed = trimmed[nl+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
	}
	return strings.TrimSpace(trimmed)
}

func hashKey(description string) string {
	sum := sha256.Sum256([]byte(description))
	return hex.EncodeToString(sum[:])
}
