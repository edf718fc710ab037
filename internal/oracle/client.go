package oracle

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"greenroom/internal/config"
	"greenroom/internal/persona"
	"greenroom/internal/services"
)

// Settings carries provider connection details. It mirrors the oracle section
// of the daemon config so the package stays importable from tests without a
// full configuration.
type Settings struct {
	Provider       string
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	MaxAttempts    int
}

// SettingsFromConfig converts the daemon oracle config into client settings.
func SettingsFromConfig(cfg config.OracleConfig) Settings {
	return Settings{
		Provider:       cfg.Provider,
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Referer:        cfg.Referer,
		Title:          cfg.Title,
		TimeoutSeconds: cfg.TimeoutSeconds,
		MaxAttempts:    cfg.MaxAttempts,
	}
}

// Completer is the provider seam: both the Gemini and the OpenAI-compatible
// clients satisfy it, and tests substitute fakes.
type Completer interface {
	// CompleteJSON sends the prompts and returns the raw JSON payload the
	// model produced.
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// CompleteText sends the prompts and returns free-form text.
	CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// HealthCheck verifies the credential and model with a minimal request.
	HealthCheck(ctx context.Context) error
}

// Evaluation is the oracle's judgement of a single interview answer.
type Evaluation struct {
	Score              int
	CommunicationScore int
	Rationale          string
	Strengths          []string
	Improvements       []string
	PersonaHint        persona.Label
	FollowUp           string
	ModelAnswer        string
	FallbackUsed       bool
}

type options struct {
	httpClient       *http.Client
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
	logger           *slog.Logger
}

// Option customizes oracle client construction.
type Option func(*options)

// WithHTTPClient overrides the HTTP client used for provider requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the number of attempts per request.
func WithRetryMaxAttempts(attempts int) Option {
	return func(o *options) {
		if attempts > 0 {
			o.retryMaxAttempts = attempts
		}
	}
}

// WithRetryBackoff overrides the retry delay bounds.
func WithRetryBackoff(base, maxDelay time.Duration) Option {
	return func(o *options) {
		if base >= 0 {
			o.retryBaseDelay = base
		}
		if maxDelay > 0 {
			o.retryMaxDelay = maxDelay
		}
	}
}

// WithSleeper overrides the sleep function used between retries (tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(o *options) {
		if sleeper != nil {
			o.sleeper = sleeper
		}
	}
}

// WithLogger attaches a logger for fallback and retry events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Oracle generates interview questions and evaluates answers. When no
// credential is configured it runs entirely on the heuristic fallback.
type Oracle struct {
	completer Completer
	fallback  *fallbackEvaluator
	logger    *slog.Logger
	model     string
	provider  string
}

// New builds an Oracle for the configured provider. A missing API key yields
// an offline oracle that serves the heuristic evaluator only.
func New(cfg Settings, opts ...Option) (*Oracle, error) {
	resolved := options{
		retryMaxAttempts: cfg.MaxAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	if resolved.retryMaxAttempts <= 0 {
		resolved.retryMaxAttempts = defaultRetryAttempts
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&resolved)
		}
	}

	oracle := &Oracle{
		fallback: newFallbackEvaluator(),
		logger:   resolved.logger,
		model:    cfg.Model,
		provider: strings.ToLower(strings.TrimSpace(cfg.Provider)),
	}
	if oracle.logger == nil {
		oracle.logger = slog.Default()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return oracle, nil
	}

	switch oracle.provider {
	case "", "gemini":
		oracle.completer = newGeminiClient(cfg, resolved)
	case "openrouter":
		oracle.completer = newChatClient(cfg, resolved)
	default:
		return nil, fmt.Errorf("oracle provider %q is not supported", cfg.Provider)
	}
	return oracle, nil
}

// NewWithCompleter wires a custom completer (tests and offline tooling).
func NewWithCompleter(completer Completer, opts ...Option) *Oracle {
	resolved := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&resolved)
		}
	}
	logger := resolved.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Oracle{
		completer: completer,
		fallback:  newFallbackEvaluator(),
		logger:    logger,
	}
}

// Available reports whether a live provider is configured. When false, the
// interviewer draws questions from the offline bank and all evaluations use
// the heuristic path.
func (o *Oracle) Available() bool {
	return o != nil && o.completer != nil
}

// Provider returns the configured provider name, or "offline".
func (o *Oracle) Provider() string {
	if !o.Available() {
		return "offline"
	}
	if o.provider == "" {
		return "gemini"
	}
	return o.provider
}

// Model returns the configured model identifier.
func (o *Oracle) Model() string {
	if o == nil {
		return ""
	}
	return o.model
}

// GenerateQuestion asks the provider for the next interview question for the
// given role. Previously asked questions are passed so the model avoids
// repeats. Errors come back ErrEvaluation-wrapped, except provider timeouts
// which carry ErrTimeout.
func (o *Oracle) GenerateQuestion(ctx context.Context, role, interviewType string, asked []string) (string, error) {
	if !o.Available() {
		return "", services.Wrap(services.ErrEvaluation, "oracle", "generate question", "no provider configured", nil)
	}
	system, user := questionPrompts(role, interviewType, asked)
	raw, err := o.completer.CompleteText(ctx, system, user)
	if err != nil {
		marker := services.ErrEvaluation
		if isTimeoutError(err) {
			marker = services.ErrTimeout
		}
		return "", services.Wrap(marker, "oracle", "generate question", "provider request failed", err)
	}
	question := cleanGeneratedQuestion(raw)
	if question == "" {
		return "", services.Wrap(services.ErrEvaluation, "oracle", "generate question", "provider returned an empty question", nil)
	}
	return question, nil
}

// EvaluateAnswer scores a transcript against the question that prompted it.
// Provider failures degrade to the heuristic evaluator instead of erroring,
// so a flaky endpoint never sinks a session; FallbackUsed is set on the
// result when that happens.
func (o *Oracle) EvaluateAnswer(ctx context.Context, req EvaluationRequest) (Evaluation, error) {
	if !o.Available() {
		return o.fallback.Evaluate(req), nil
	}
	// Honest dont-know answers and failed captures never reach the scoring
	// prompt; the heuristic path owns their canned scores.
	if req.DontKnow || req.Failed {
		return o.fallback.Evaluate(req), nil
	}
	system, user := evaluationPrompts(req)
	raw, err := o.completer.CompleteJSON(ctx, system, user)
	if err != nil {
		if ctx.Err() != nil {
			return Evaluation{}, ctx.Err()
		}
		o.logger.Warn("oracle evaluation failed, using heuristic fallback", "error", err)
		return o.fallback.Evaluate(req), nil
	}
	eval, err := parseEvaluation(raw)
	if err != nil {
		o.logger.Warn("oracle evaluation unparsable, using heuristic fallback", "error", err)
		return o.fallback.Evaluate(req), nil
	}
	return eval, nil
}

// HealthCheck probes the configured provider. Offline oracles pass trivially.
func (o *Oracle) HealthCheck(ctx context.Context) error {
	if !o.Available() {
		return nil
	}
	return o.completer.HealthCheck(ctx)
}

// EvaluationRequest bundles everything the oracle needs to judge one answer.
type EvaluationRequest struct {
	Question      string
	Transcript    string
	Role          string
	InterviewType string
	FollowUp      bool
	// DontKnow marks an honest "I don't know" answer, which the heuristic
	// path treats with a mercy communication score instead of zeroing it.
	DontKnow bool
	// Failed marks a transcript that carries a capture failure marker.
	Failed bool
}

type evaluationPayload struct {
	OverallScore        *float64 `json:"overall_score"`
	CommunicationSkills *float64 `json:"communication_skills"`
	Rationale           string   `json:"rationale"`
	Strengths           []string `json:"strengths"`
	Improvements        []string `json:"improvements"`
	Persona             string   `json:"persona"`
	FollowUp            string   `json:"follow_up"`
	PerfectAnswer       string   `json:"perfect_answer"`
}

func parseEvaluation(raw string) (Evaluation, error) {
	var payload evaluationPayload
	if err := DecodeJSON(raw, &payload); err != nil {
		return Evaluation{}, fmt.Errorf("decode evaluation: %w", err)
	}
	if payload.OverallScore == nil {
		return Evaluation{}, fmt.Errorf("evaluation missing overall_score (payload snippet: %s)", summarizePayloadSnippet(raw))
	}
	eval := Evaluation{
		Score:        clampScore(int(*payload.OverallScore)),
		Rationale:    strings.TrimSpace(payload.Rationale),
		Strengths:    trimAll(payload.Strengths),
		Improvements: trimAll(payload.Improvements),
		FollowUp:     strings.TrimSpace(payload.FollowUp),
		ModelAnswer:  strings.TrimSpace(payload.PerfectAnswer),
	}
	if payload.CommunicationSkills != nil {
		eval.CommunicationScore = clampScore(int(*payload.CommunicationSkills))
	} else {
		eval.CommunicationScore = eval.Score
	}
	if label := persona.ParseLabel(payload.Persona); label != "" {
		eval.PersonaHint = label
	}
	return eval, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cleanGeneratedQuestion(raw string) string {
	question := strings.TrimSpace(raw)
	question = strings.Trim(question, "\"'`")
	// Some models prefix a label despite instructions.
	for _, prefix := range []string{"Question:", "Q:", "Next question:"} {
		if len(question) > len(prefix) && strings.EqualFold(question[:len(prefix)], prefix) {
			question = strings.TrimSpace(question[len(prefix):])
		}
	}
	return question
}
