package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"restaurant-discovery-be/internal/entity"
	"restaurant-discovery-be/internal/pkg/logger"
	"restaurant-discovery-be/pkg/analyzer"
	"restaurant-discovery-be/pkg/embedding"
	"restaurant-discovery-be/pkg/identity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	gocache "github.com/patrickmn/go-cache"
)

// Stage topics. Each hop is a bounded gochannel queue with a single
// sequential consumer, so items reach the next stage in production order.
const (
	topicReviewReceived     = "pipeline.review.received"
	topicRestaurantAnalyzed = "pipeline.restaurant.analyzed"
	topicRestaurantEmbedded = "pipeline.restaurant.embedded"
)

type PipelineState string

const (
	StateIdle    PipelineState = "IDLE"
	StateRunning PipelineState = "RUNNING"
)

type PipelineOptions struct {
	QueueBuffer      int
	IdleTimeout      time.Duration
	WatchdogInterval time.Duration
	DedupWindow      time.Duration
}

// IPipelineService accepts raw reviews and drives them through
// analyze -> embed -> persist. ReceiveReviewData returns as soon as the
// review is queued; everything downstream is observable only through logs
// and eventual store state.
type IPipelineService interface {
	ReceiveReviewData(review analyzer.Review) error
	State() PipelineState
	Stop()
}

// analyzedPayload travels from the analyze stage to the embed stage. The
// prior counts are the mood/taste list lengths before this sample was
// appended, passed explicitly so the vector averaging can never desync from
// the text accumulation.
type analyzedPayload struct {
	Restaurant      entity.Restaurant `json:"restaurant"`
	Mood            string            `json:"mood"`
	Taste           string            `json:"taste"`
	Category        string            `json:"category"`
	MoodPriorCount  int               `json:"mood_prior_count"`
	TastePriorCount int               `json:"taste_prior_count"`
}

type pipelineService struct {
	analyzer    analyzer.Analyzer
	embedder    embedding.Provider
	restaurants IRestaurantService
	idGenerator *identity.Generator
	logger      logger.ILogger
	opts        PipelineOptions

	pubSub *gochannel.GoChannel
	dedup  *gocache.Cache

	mu           sync.Mutex
	state        PipelineState
	runCancel    context.CancelFunc
	lastReceived time.Time
}

func NewPipelineService(
	reviewAnalyzer analyzer.Analyzer,
	embedder embedding.Provider,
	restaurants IRestaurantService,
	log logger.ILogger,
	opts PipelineOptions,
) IPipelineService {
	if opts.QueueBuffer <= 0 {
		opts.QueueBuffer = 100
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = 5 * time.Minute
	}
	if opts.WatchdogInterval <= 0 {
		opts.WatchdogInterval = time.Minute
	}
	if opts.DedupWindow <= 0 {
		opts.DedupWindow = 10 * time.Minute
	}

	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: int64(opts.QueueBuffer)},
		watermill.NewStdLogger(false, false),
	)

	return &pipelineService{
		analyzer:    reviewAnalyzer,
		embedder:    embedder,
		restaurants: restaurants,
		idGenerator: identity.NewGenerator(),
		logger:      log,
		opts:        opts,
		pubSub:      pubSub,
		dedup:       gocache.New(opts.DedupWindow, 2*opts.DedupWindow),
		state:       StateIdle,
	}
}

// ReceiveReviewData queues a review and returns immediately. It starts a
// pipeline if none is running and records the arrival time for the watchdog.
func (p *pipelineService) ReceiveReviewData(review analyzer.Review) error {
	if strings.TrimSpace(review.Source) == "" ||
		strings.TrimSpace(review.URL) == "" ||
		strings.TrimSpace(review.Text) == "" {
		return fmt.Errorf("%w: source, url and text are required", entity.ErrInvalidRequest)
	}

	if _, seen := p.dedup.Get(review.URL); seen {
		p.logger.Info("pipeline", "duplicate review dropped", map[string]interface{}{
			"url": review.URL,
		})
		return nil
	}
	p.dedup.SetDefault(review.URL, struct{}{})

	p.mu.Lock()
	p.lastReceived = time.Now()
	if err := p.ensureRunningLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	payload, err := json.Marshal(review)
	if err != nil {
		return err
	}
	return p.pubSub.Publish(topicReviewReceived, message.NewMessage(watermill.NewUUID(), payload))
}

func (p *pipelineService) State() PipelineState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Stop cancels the pipeline's parent scope; all stages and the watchdog are
// torn down together.
func (p *pipelineService) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *pipelineService) stopLocked() {
	if p.runCancel != nil {
		p.runCancel()
		p.runCancel = nil
	}
	p.state = StateIdle
}

// ensureRunningLocked starts the three stage consumers and the watchdog
// under one cancellable context. Subscriptions are registered synchronously,
// so a publish right after this call cannot be lost.
func (p *pipelineService) ensureRunningLocked() error {
	if p.state == StateRunning {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())

	stages := []struct {
		name   string
		topic  string
		handle func(ctx context.Context, msg *message.Message) error
	}{
		{"analyze", topicReviewReceived, p.handleAnalyze},
		{"embed", topicRestaurantAnalyzed, p.handleEmbed},
		{"persist", topicRestaurantEmbedded, p.handlePersist},
	}

	for _, stage := range stages {
		messages, err := p.pubSub.Subscribe(runCtx, stage.topic)
		if err != nil {
			cancel()
			return fmt.Errorf("subscribe %s: %w", stage.topic, err)
		}
		go p.consume(runCtx, stage.name, messages, stage.handle)
	}
	go p.watchdog(runCtx)

	p.runCancel = cancel
	p.state = StateRunning
	p.logger.Info("pipeline", "pipeline started", nil)
	return nil
}

// consume is one stage's sequential loop. A per-item failure is logged and
// acked: one bad review must not halt the stream.
func (p *pipelineService) consume(ctx context.Context, name string, messages <-chan *message.Message, handle func(ctx context.Context, msg *message.Message) error) {
	for msg := range messages {
		if err := handle(ctx, msg); err != nil {
			p.logger.Error("pipeline", name+" stage failed for item", map[string]interface{}{
				"message_id": msg.UUID,
				"error":      err.Error(),
			})
		}
		msg.Ack()
	}
}

// watchdog cancels the whole pipeline once no review has arrived within the
// idle window, returning the controller to Idle.
func (p *pipelineService) watchdog(ctx context.Context) {
	ticker := time.NewTicker(p.opts.WatchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.mu.Lock()
			idle := time.Since(p.lastReceived)
			if idle > p.opts.IdleTimeout {
				p.logger.Info("pipeline", "idle timeout, stopping pipeline", map[string]interface{}{
					"idle": idle.String(),
				})
				p.stopLocked()
				p.mu.Unlock()
				return
			}
			p.mu.Unlock()
		}
	}
}

func (p *pipelineService) handleAnalyze(ctx context.Context, msg *message.Message) error {
	var review analyzer.Review
	if err := json.Unmarshal(msg.Payload, &review); err != nil {
		return fmt.Errorf("decode review: %w", err)
	}

	result, err := p.analyzer.Analyze(ctx, review)
	if err != nil {
		return fmt.Errorf("analyze review %s: %w", review.URL, err)
	}

	id, err := p.idGenerator.Generate(result.Name, result.Address)
	if err != nil {
		return err
	}

	existing, err := p.restaurants.Get(ctx, id)
	if err != nil && !errors.Is(err, entity.ErrEntityNotFound) {
		return fmt.Errorf("lookup aggregate %s: %w", id, err)
	}

	var aggregate entity.Restaurant
	var moodPrior, tastePrior int
	if existing == nil {
		aggregate = entity.Restaurant{
			Metadata: entity.Metadata{
				Id:           id,
				Status:       entity.StepPrepared,
				Source:       review.Source,
				Name:         result.Name,
				Category:     result.Category,
				Phone:        result.Phone,
				Address:      result.Address,
				BusinessDays: result.BusinessDays,
				Wifi:         result.Wifi,
				Parking:      result.Parking,
				Menus:        result.Menus,
				PriceRange:   result.PriceRange,
				CreatedAt:    time.Now(),
			},
		}
	} else {
		moodPrior = len(existing.Metadata.Moods)
		tastePrior = len(existing.Metadata.Tastes)
		aggregate = *existing
		if aggregate.Status() == entity.StepPrepared {
			aggregate = aggregate.WithStatus(entity.StepAnalyzed)
		}
	}

	aggregate = aggregate.AddReview(review.Text)
	if result.Mood != "" {
		aggregate = aggregate.AddMood(result.Mood)
	}
	if result.Taste != "" {
		aggregate = aggregate.AddTaste(result.Taste)
	}

	payload, err := json.Marshal(analyzedPayload{
		Restaurant:      aggregate,
		Mood:            result.Mood,
		Taste:           result.Taste,
		Category:        aggregate.Metadata.Category,
		MoodPriorCount:  moodPrior,
		TastePriorCount: tastePrior,
	})
	if err != nil {
		return err
	}
	return p.pubSub.Publish(topicRestaurantAnalyzed, message.NewMessage(watermill.NewUUID(), payload))
}

func (p *pipelineService) handleEmbed(ctx context.Context, msg *message.Message) error {
	var payload analyzedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("decode analyzed payload: %w", err)
	}

	response, err := p.embedder.Embed(ctx, embedding.Request{
		Mood:     payload.Mood,
		Taste:    payload.Taste,
		Category: payload.Category,
	})
	if err != nil {
		return fmt.Errorf("embed aggregate %s: %w", payload.Restaurant.Id(), err)
	}

	aggregate := payload.Restaurant

	emb := entity.Embedding{Id: aggregate.Id()}
	if aggregate.Embedding != nil {
		emb = *aggregate.Embedding
	}
	// Scalar filter fields track the metadata half.
	emb.Category = aggregate.Metadata.Category
	emb.PriceRange = aggregate.Metadata.PriceRange
	emb.Wifi = aggregate.Metadata.Wifi
	emb.Parking = aggregate.Metadata.Parking
	emb.Coordinates = aggregate.Metadata.Coordinates

	emb = emb.
		WithMoodVector(response.MoodVector, payload.MoodPriorCount).
		WithTasteVector(response.TasteVector, payload.TastePriorCount).
		WithCategoryVector(response.CategoryVector)

	aggregate = aggregate.WithEmbedding(emb).WithStatus(entity.StepEmbedded)

	out, err := json.Marshal(aggregate)
	if err != nil {
		return err
	}
	return p.pubSub.Publish(topicRestaurantEmbedded, message.NewMessage(watermill.NewUUID(), out))
}

func (p *pipelineService) handlePersist(ctx context.Context, msg *message.Message) error {
	var aggregate entity.Restaurant
	if err := json.Unmarshal(msg.Payload, &aggregate); err != nil {
		return fmt.Errorf("decode embedded aggregate: %w", err)
	}
	return p.restaurants.Upsert(ctx, &aggregate)
}
