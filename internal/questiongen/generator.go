package questiongen

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/abhisek/gapquiz/internal/llm"
)

const tracerName = "github.com/abhisek/gapquiz/internal/questiongen"

// Result is the outcome of one generation. Questions always holds at least
// one record.
type Result struct {
	BatchID   string
	Questions []QuestionRecord
	Path      Path
	Model     string
	Usage     llm.Usage

	// Err is the completion failure when Path is PathServiceError.
	Err error
}

// Generator turns a pair of profiles into question records using an LLM.
type Generator struct {
	provider   llm.Provider
	builder    *PromptBuilder
	normalizer *Normalizer
	config     Config
	logger     *zap.Logger
}

// New creates a Generator. It fails only when the configured reference
// baseline cannot be parsed.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) (*Generator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reference, err := ParseProfile(cfg.Reference)
	if err != nil {
		return nil, fmt.Errorf("reference baseline: %w", err)
	}

	if cfg.Validators == nil {
		cfg.Validators = DefaultValidators(cfg.TextDependentCategories)
	}

	return &Generator{
		provider:   provider,
		builder:    NewPromptBuilder(reference, cfg.QuestionCount),
		normalizer: NewNormalizer(cfg.Validators, logger),
		config:     cfg,
		logger:     logger,
	}, nil
}

// Generate builds the prompt, makes a single completion call and
// normalizes the reply. It never returns an empty Result.
func (g *Generator) Generate(ctx context.Context, user, regional Profile) Result {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "questiongen.Generate")
	defer span.End()

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionGen)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	result := Result{BatchID: uuid.NewString(), Model: g.provider.ModelID()}
	log := g.logger.With(zap.String("batch_id", result.BatchID))

	prompt := g.builder.Build(user, regional)
	req := llm.Request{
		System: prompt.System,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt.User},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
		TopP:        g.config.TopP,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		result.Questions, result.Path = g.normalizer.ServiceFailure(err)
		result.Err = err

		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		span.SetAttributes(attribute.String("gapquiz.path", string(result.Path)))
		log.Error("question generation failed", zap.Error(err))
		return result
	}

	if resp.Model != "" {
		result.Model = resp.Model
	}
	result.Usage = resp.Usage
	if resp.StopReason == "max_tokens" {
		log.Warn("model stopped at the token limit; the reply may be truncated",
			zap.Int("max_tokens", g.config.MaxTokens))
	}

	result.Questions, result.Path = g.normalizer.Normalize(resp.Content)

	if result.Path == PathStructured || result.Path == PathFallback {
		dist := answerDistribution(result.Questions)
		if letter := skewedLetter(dist, len(result.Questions)); letter != "" {
			log.Warn("correct answers are clustered",
				zap.String("letter", letter),
				zap.Int("count", dist[letter]),
				zap.Int("total", len(result.Questions)))
		}
	}

	span.SetAttributes(
		attribute.String("gapquiz.path", string(result.Path)),
		attribute.Int("gapquiz.questions", len(result.Questions)),
		attribute.String("gapquiz.model", result.Model),
	)
	log.Info("questions generated",
		zap.String("path", string(result.Path)),
		zap.Int("questions", len(result.Questions)),
		zap.String("model", result.Model),
		zap.Int("input_tokens", result.Usage.InputTokens),
		zap.Int("output_tokens", result.Usage.OutputTokens))

	return result
}
