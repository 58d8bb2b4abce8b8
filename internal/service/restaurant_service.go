package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"restaurant-discovery-be/internal/entity"
	"restaurant-discovery-be/internal/pkg/logger"
	"restaurant-discovery-be/internal/repository/contract"
	"restaurant-discovery-be/internal/saga"
	"restaurant-discovery-be/pkg/events"
	pktNats "restaurant-discovery-be/pkg/nats"
)

// ScoredRestaurant is a search hit joined back to its metadata.
type ScoredRestaurant struct {
	Restaurant *entity.Restaurant `json:"restaurant"`
	Score      float64            `json:"score"`
}

// IRestaurantService keeps the metadata store and vector store consistent for
// one aggregate. Every write except Delete runs as a saga, so a value is
// never observably durable in exactly one store when the operation required
// both. Delete is deliberately weaker: both stores are deleted concurrently
// and independently, and a one-sided failure is not rolled back (deletion
// intent is final).
type IRestaurantService interface {
	Insert(ctx context.Context, restaurant *entity.Restaurant) error
	Update(ctx context.Context, restaurant *entity.Restaurant) error
	Upsert(ctx context.Context, restaurants ...*entity.Restaurant) error
	Delete(ctx context.Context, ids ...string) error
	Get(ctx context.Context, id string) (*entity.Restaurant, error)
	GetAll(ctx context.Context) ([]*entity.Restaurant, error)
	SearchByField(ctx context.Context, field string, vector []float32, limit int) ([]*ScoredRestaurant, error)
	HybridSearch(ctx context.Context, queries map[string][]float32, weights map[string]float64, limit int) ([]*ScoredRestaurant, error)
}

type restaurantService struct {
	metadataRepo   contract.MetadataRepository
	vectorRepo     contract.VectorRepository
	coordinator    *saga.Coordinator
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewRestaurantService(
	metadataRepo contract.MetadataRepository,
	vectorRepo contract.VectorRepository,
	coordinator *saga.Coordinator,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IRestaurantService {
	return &restaurantService{
		metadataRepo:   metadataRepo,
		vectorRepo:     vectorRepo,
		coordinator:    coordinator,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// Typed saga keys shared by the step builders below. Each saga execution has
// its own Context, so values never leak between concurrent sagas.
var (
	priorMetadataKey = saga.NewKey[*entity.Metadata]("prior_metadata")
	priorVectorKey   = saga.NewKey[*entity.Embedding]("prior_vector")
)

func (s *restaurantService) insertMetadataStep(metadata *entity.Metadata) saga.Step {
	return saga.Step{
		Name: "insert-metadata",
		Action: func(ctx context.Context, sc *saga.Context) error {
			return s.metadataRepo.Insert(ctx, metadata)
		},
		Compensate: func(ctx context.Context, sc *saga.Context) error {
			return s.metadataRepo.Delete(ctx, metadata.Id)
		},
	}
}

func (s *restaurantService) updateMetadataStep(metadata *entity.Metadata) saga.Step {
	return saga.Step{
		Name: "update-metadata",
		Action: func(ctx context.Context, sc *saga.Context) error {
			prior, err := s.metadataRepo.FindById(ctx, metadata.Id)
			if err != nil {
				return err
			}
			if prior == nil {
				return fmt.Errorf("%w: metadata id %s", entity.ErrEntityNotFound, metadata.Id)
			}
			saga.Put(sc, priorMetadataKey, prior)
			return s.metadataRepo.Save(ctx, metadata)
		},
		Compensate: func(ctx context.Context, sc *saga.Context) error {
			prior, ok := saga.Get(sc, priorMetadataKey)
			if !ok {
				return fmt.Errorf("prior metadata missing from saga context for id %s", metadata.Id)
			}
			return s.metadataRepo.Save(ctx, prior)
		},
	}
}

func (s *restaurantService) upsertVectorStep(embedding *entity.Embedding) saga.Step {
	return saga.Step{
		Name: "upsert-vector",
		Action: func(ctx context.Context, sc *saga.Context) error {
			prior, err := s.vectorRepo.FindById(ctx, embedding.Id)
			if err != nil {
				return err
			}
			saga.Put(sc, priorVectorKey, prior)
			return s.vectorRepo.Upsert(ctx, embedding)
		},
		Compensate: func(ctx context.Context, sc *saga.Context) error {
			prior, _ := saga.Get(sc, priorVectorKey)
			if prior == nil {
				return s.vectorRepo.Delete(ctx, embedding.Id)
			}
			return s.vectorRepo.Upsert(ctx, prior)
		},
	}
}

// validateAggregate enforces the status/embedding pairing the types leave
// open: an Embedding is present exactly when the aggregate is EMBEDDED, and
// both halves share the id.
func validateAggregate(r *entity.Restaurant) error {
	if r == nil || r.Id() == "" {
		return fmt.Errorf("%w: aggregate without id", entity.ErrInvalidRequest)
	}
	if r.Status() == entity.StepEmbedded && r.Embedding == nil {
		return fmt.Errorf("%w: EMBEDDED aggregate %s without embedding", entity.ErrInvalidRequest, r.Id())
	}
	if r.Status() != entity.StepEmbedded && r.Embedding != nil {
		return fmt.Errorf("%w: %s aggregate %s carries an embedding", entity.ErrInvalidRequest, r.Status(), r.Id())
	}
	if r.Embedding != nil && r.Embedding.Id != r.Id() {
		return fmt.Errorf("%w: embedding id %s != metadata id %s", entity.ErrInvalidRequest, r.Embedding.Id, r.Id())
	}
	return nil
}

func (s *restaurantService) Insert(ctx context.Context, restaurant *entity.Restaurant) error {
	if err := validateAggregate(restaurant); err != nil {
		return err
	}
	if restaurant.Status() != entity.StepPrepared {
		return fmt.Errorf("%w: insert requires PREPARED, got %s", entity.ErrInvalidRequest, restaurant.Status())
	}

	steps := []saga.Step{s.insertMetadataStep(&restaurant.Metadata)}
	if err := s.coordinator.Execute(ctx, saga.NewContext(), steps); err != nil {
		return err
	}

	s.emitPersisted(ctx, restaurant, "insert")
	return nil
}

func (s *restaurantService) Update(ctx context.Context, restaurant *entity.Restaurant) error {
	if err := validateAggregate(restaurant); err != nil {
		return err
	}

	var steps []saga.Step
	switch restaurant.Status() {
	case entity.StepAnalyzed:
		steps = []saga.Step{s.updateMetadataStep(&restaurant.Metadata)}
	case entity.StepEmbedded:
		// Coupled steps: a vector failure compensates by reissuing the prior
		// metadata value.
		steps = []saga.Step{
			s.updateMetadataStep(&restaurant.Metadata),
			s.upsertVectorStep(restaurant.Embedding),
		}
	default:
		return fmt.Errorf("%w: update illegal for status %s", entity.ErrInvalidRequest, restaurant.Status())
	}

	if err := s.coordinator.Execute(ctx, saga.NewContext(), steps); err != nil {
		return err
	}

	s.emitPersisted(ctx, restaurant, "update")
	return nil
}

// Upsert probes the metadata store for the ids (batched) and routes each
// aggregate: found -> update-shaped saga, not found -> insert-shaped saga.
// An EMBEDDED aggregate always gets the coupled vector step, so a full
// pipeline run lands in both stores even on first contact.
func (s *restaurantService) Upsert(ctx context.Context, restaurants ...*entity.Restaurant) error {
	ids := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		if err := validateAggregate(r); err != nil {
			return err
		}
		ids = append(ids, r.Id())
	}

	existing, err := s.metadataRepo.ExistingIds(ctx, ids)
	if err != nil {
		return fmt.Errorf("%w: existence probe: %v", entity.ErrDataAccess, err)
	}

	for _, r := range restaurants {
		var steps []saga.Step
		operation := "insert"
		if existing[r.Id()] {
			operation = "update"
			steps = []saga.Step{s.updateMetadataStep(&r.Metadata)}
		} else {
			steps = []saga.Step{s.insertMetadataStep(&r.Metadata)}
		}
		if r.Status() == entity.StepEmbedded {
			steps = append(steps, s.upsertVectorStep(r.Embedding))
		}

		if err := s.coordinator.Execute(ctx, saga.NewContext(), steps); err != nil {
			return err
		}
		s.emitPersisted(ctx, r, operation)
	}

	return nil
}

// Delete removes the ids from both stores concurrently and independently.
// It is NOT saga-protected: a vector-store failure after a successful
// metadata delete is reported but not rolled back.
func (s *restaurantService) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	var metadataErr, vectorErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		metadataErr = s.metadataRepo.DeleteByIds(ctx, ids)
	}()
	go func() {
		defer wg.Done()
		vectorErr = s.vectorRepo.DeleteByIds(ctx, ids)
	}()
	wg.Wait()

	if metadataErr != nil || vectorErr != nil {
		s.logger.Error("restaurant_service", "partial delete", map[string]interface{}{
			"ids":            ids,
			"metadata_error": fmt.Sprint(metadataErr),
			"vector_error":   fmt.Sprint(vectorErr),
		})
	}
	return errors.Join(metadataErr, vectorErr)
}

func (s *restaurantService) Get(ctx context.Context, id string) (*entity.Restaurant, error) {
	var wg sync.WaitGroup
	var metadata *entity.Metadata
	var embedding *entity.Embedding
	var metadataErr, vectorErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		metadata, metadataErr = s.metadataRepo.FindById(ctx, id)
	}()
	go func() {
		defer wg.Done()
		embedding, vectorErr = s.vectorRepo.FindById(ctx, id)
	}()
	wg.Wait()

	if metadataErr != nil {
		return nil, metadataErr
	}
	if vectorErr != nil {
		return nil, vectorErr
	}
	if metadata == nil {
		return nil, fmt.Errorf("%w: restaurant %s", entity.ErrEntityNotFound, id)
	}

	return &entity.Restaurant{Metadata: *metadata, Embedding: embedding}, nil
}

func (s *restaurantService) GetAll(ctx context.Context) ([]*entity.Restaurant, error) {
	var wg sync.WaitGroup
	var metadatas []*entity.Metadata
	var embeddings []*entity.Embedding
	var metadataErr, vectorErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		metadatas, metadataErr = s.metadataRepo.FindAll(ctx)
	}()
	go func() {
		defer wg.Done()
		embeddings, vectorErr = s.vectorRepo.FindAll(ctx)
	}()
	wg.Wait()

	if metadataErr != nil {
		return nil, metadataErr
	}
	if vectorErr != nil {
		return nil, vectorErr
	}

	byId := make(map[string]*entity.Embedding, len(embeddings))
	for _, e := range embeddings {
		byId[e.Id] = e
	}

	// Rows absent from the vector store come back with no embedding.
	restaurants := make([]*entity.Restaurant, len(metadatas))
	for i, m := range metadatas {
		restaurants[i] = &entity.Restaurant{Metadata: *m, Embedding: byId[m.Id]}
	}
	return restaurants, nil
}

func (s *restaurantService) SearchByField(ctx context.Context, field string, vector []float32, limit int) ([]*ScoredRestaurant, error) {
	scored, err := s.vectorRepo.SearchByField(ctx, field, vector, limit)
	if err != nil {
		return nil, err
	}
	return s.joinScored(ctx, scored)
}

func (s *restaurantService) HybridSearch(ctx context.Context, queries map[string][]float32, weights map[string]float64, limit int) ([]*ScoredRestaurant, error) {
	scored, err := s.vectorRepo.HybridSearch(ctx, queries, weights, limit)
	if err != nil {
		return nil, err
	}
	return s.joinScored(ctx, scored)
}

// joinScored fetches the metadata rows for a batch of vector hits and joins
// them by id, preserving the vector store's ranking.
func (s *restaurantService) joinScored(ctx context.Context, scored []*contract.ScoredEmbedding) ([]*ScoredRestaurant, error) {
	ids := make([]string, len(scored))
	for i, hit := range scored {
		ids[i] = hit.Embedding.Id
	}

	metadatas, err := s.metadataRepo.FindByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	byId := make(map[string]*entity.Metadata, len(metadatas))
	for _, m := range metadatas {
		byId[m.Id] = m
	}

	results := make([]*ScoredRestaurant, 0, len(scored))
	for _, hit := range scored {
		metadata := byId[hit.Embedding.Id]
		if metadata == nil {
			s.logger.Warn("restaurant_service", "vector hit without metadata row", map[string]interface{}{
				"id": hit.Embedding.Id,
			})
			continue
		}
		results = append(results, &ScoredRestaurant{
			Restaurant: &entity.Restaurant{Metadata: *metadata, Embedding: hit.Embedding},
			Score:      hit.Score,
		})
	}
	return results, nil
}

// emitPersisted publishes the aggregate on the update stream. The stream is
// auxiliary: failures are logged and never fail the write.
func (s *restaurantService) emitPersisted(ctx context.Context, r *entity.Restaurant, operation string) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events.RestaurantPersisted(r, operation)); err != nil {
		s.logger.Warn("restaurant_service", "failed to publish persisted event", map[string]interface{}{
			"restaurant_id": r.Id(),
			"error":         err.Error(),
		})
	}
}
