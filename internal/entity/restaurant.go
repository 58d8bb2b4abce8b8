package entity

import (
	"time"
)

// AnalyzeStep is the lifecycle position of a restaurant aggregate.
// It moves forward only: PREPARED -> ANALYZED -> EMBEDDED.
type AnalyzeStep string

const (
	StepPrepared AnalyzeStep = "PREPARED"
	StepAnalyzed AnalyzeStep = "ANALYZED"
	StepEmbedded AnalyzeStep = "EMBEDDED"
)

// VectorDim is the dimension of every semantic vector (mood/taste/category).
const VectorDim = 768

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Metadata is the textual half of a restaurant aggregate.
// Values are immutable: every mutation returns a fresh copy with cloned
// slices, so an old value is never aliased by a new one.
type Metadata struct {
	Id           string      `json:"id"`
	Status       AnalyzeStep `json:"status"`
	Source       string      `json:"source"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Coordinates  Coordinates `json:"coordinates"`
	Reviews      []string    `json:"reviews"`
	BusinessDays []string    `json:"business_days"`
	Wifi         bool        `json:"wifi"`
	Parking      bool        `json:"parking"`
	Menus        []string    `json:"menus"`
	PriceRange   string      `json:"price_range"`
	Moods        []string    `json:"moods"`
	Tastes       []string    `json:"tastes"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    *time.Time  `json:"updated_at"`
}

func (m Metadata) WithStatus(status AnalyzeStep) Metadata {
	next := m.clone()
	next.Status = status
	return next
}

func (m Metadata) AddReview(review string) Metadata {
	next := m.clone()
	next.Reviews = append(next.Reviews, review)
	return next
}

func (m Metadata) AddMood(mood string) Metadata {
	next := m.clone()
	next.Moods = append(next.Moods, mood)
	return next
}

func (m Metadata) AddTaste(taste string) Metadata {
	next := m.clone()
	next.Tastes = append(next.Tastes, taste)
	return next
}

func (m Metadata) clone() Metadata {
	next := m
	next.Reviews = cloneStrings(m.Reviews)
	next.BusinessDays = cloneStrings(m.BusinessDays)
	next.Menus = cloneStrings(m.Menus)
	next.Moods = cloneStrings(m.Moods)
	next.Tastes = cloneStrings(m.Tastes)
	return next
}

// Embedding is the vector half of a restaurant aggregate: one fixed-dimension
// vector per semantic axis plus the scalar fields the vector store filters on.
type Embedding struct {
	Id             string      `json:"id"`
	MoodVector     []float32   `json:"mood_vector"`
	TasteVector    []float32   `json:"taste_vector"`
	CategoryVector []float32   `json:"category_vector"`
	Category       string      `json:"category"`
	PriceRange     string      `json:"price_range"`
	Wifi           bool        `json:"wifi"`
	Parking        bool        `json:"parking"`
	Coordinates    Coordinates `json:"coordinates"`
}

// WithMoodVector folds a freshly computed mood vector into the running
// average. priorCount is the number of samples already folded in; with
// priorCount 0 the result equals the sample exactly.
func (e Embedding) WithMoodVector(sample []float32, priorCount int) Embedding {
	next := e.clone()
	next.MoodVector = weightedAverage(e.MoodVector, sample, priorCount)
	return next
}

// WithTasteVector folds a freshly computed taste vector into the running
// average. See WithMoodVector for the priorCount contract.
func (e Embedding) WithTasteVector(sample []float32, priorCount int) Embedding {
	next := e.clone()
	next.TasteVector = weightedAverage(e.TasteVector, sample, priorCount)
	return next
}

func (e Embedding) WithCategoryVector(sample []float32) Embedding {
	next := e.clone()
	next.CategoryVector = cloneFloats(sample)
	return next
}

func (e Embedding) clone() Embedding {
	next := e
	next.MoodVector = cloneFloats(e.MoodVector)
	next.TasteVector = cloneFloats(e.TasteVector)
	next.CategoryVector = cloneFloats(e.CategoryVector)
	return next
}

// weightedAverage maintains a running centroid without storing every sample:
// avg[i] = (old[i]*priorCount + sample[i]) / (priorCount + 1).
// An empty sample leaves the centroid untouched.
func weightedAverage(old, sample []float32, priorCount int) []float32 {
	if len(sample) == 0 {
		return cloneFloats(old)
	}
	if priorCount <= 0 || len(old) == 0 {
		return cloneFloats(sample)
	}
	p := float32(priorCount)
	out := make([]float32, len(sample))
	for i, v := range sample {
		var prev float32
		if i < len(old) {
			prev = old[i]
		}
		out[i] = (prev*p + v) / (p + 1)
	}
	return out
}

// Restaurant is the aggregate root and the unit of cross-store consistency.
// Embedding is nil until the aggregate reaches EMBEDDED; the persistence
// service enforces that pairing, not the type.
type Restaurant struct {
	Metadata  Metadata   `json:"metadata"`
	Embedding *Embedding `json:"embedding,omitempty"`
}

func (r Restaurant) Id() string {
	return r.Metadata.Id
}

func (r Restaurant) Status() AnalyzeStep {
	return r.Metadata.Status
}

func (r Restaurant) WithStatus(status AnalyzeStep) Restaurant {
	r.Metadata = r.Metadata.WithStatus(status)
	return r
}

func (r Restaurant) WithEmbedding(e Embedding) Restaurant {
	r.Embedding = &e
	return r
}

func (r Restaurant) AddReview(review string) Restaurant {
	r.Metadata = r.Metadata.AddReview(review)
	return r
}

func (r Restaurant) AddMood(mood string) Restaurant {
	r.Metadata = r.Metadata.AddMood(mood)
	return r
}

func (r Restaurant) AddTaste(taste string) Restaurant {
	r.Metadata = r.Metadata.AddTaste(taste)
	return r
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneFloats(in []float32) []float32 {
	if in == nil {
		return nil
	}
	out := make([]float32, len(in))
	copy(out, in)
	return out
}
