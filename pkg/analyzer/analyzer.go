package analyzer

import "context"

// Review is one raw inbound review submission.
type Review struct {
	Source string `json:"source"`
	URL    string `json:"url"`
	Text   string `json:"text"`
}

// Result is the structured record an analyzer derives from review text.
type Result struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	BusinessDays []string `json:"business_days"`
	Wifi         bool     `json:"wifi"`
	Parking      bool     `json:"parking"`
	Menus        []string `json:"menus"`
	PriceRange   string   `json:"price_range"`
	Mood         string   `json:"mood"`
	Taste        string   `json:"taste"`
}

// Analyzer turns unstructured review text into a structured Result.
type Analyzer interface {
	Analyze(ctx context.Context, review Review) (*Result, error)
}
