package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"sheetops/domain/grid"
	"sheetops/ports"
)

// Config configures the sample table generator
type Config struct {
	Rows int   `json:"rows"`
	Seed int64 `json:"seed"`
}

// DefaultConfig returns sensible defaults for sample table generation
func DefaultConfig() Config {
	return Config{
		Rows: 12,
		Seed: 42,
	}
}

// Headers returns the fixed header row of the generated table.
func Headers() []grid.Value {
	return []grid.Value{"Project", "Owner", "Status", "Priority", "Budget", "Start Date", "Deadline", "Progress"}
}

// Generator produces a deterministic project-tracking table suitable for
// exercising header and value lookups.
type Generator struct {
	config Config
	rng    *rand.Rand
}

// NewGenerator creates a new sample table generator
func NewGenerator(config Config) *Generator {
	if config.Rows < 1 {
		config.Rows = DefaultConfig().Rows
	}
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the table: one header row plus config.Rows project rows.
// The same config always yields the same table.
func (g *Generator) Generate() *grid.Grid {
	rows := [][]grid.Value{Headers()}
	base := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < g.config.Rows; i++ {
		rows = append(rows, g.projectRow(i, base))
	}
	return grid.FromRows(rows)
}

// Write generates a table and persists it through the codec.
func Write(ctx context.Context, codec ports.TableCodec, config Config) (*grid.Grid, error) {
	table := NewGenerator(config).Generate()
	if err := codec.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("failed to save sample table to %s: %w", codec.Path(), err)
	}
	return table, nil
}

func (g *Generator) projectRow(i int, base time.Time) []grid.Value {
	status := g.randomStatus()
	start := base.AddDate(0, 0, 7*g.rng.Intn(26))
	deadline := start.AddDate(0, 0, 7*(2+g.rng.Intn(14)))

	return []grid.Value{
		projectName(i),
		g.randomOwner(),
		status,
		g.randomPriority(),
		g.randomBudget(),
		start.Format("2006-01-02"),
		deadline.Format("2006-01-02"),
		g.progressFor(status),
	}
}

// projectName yields unique names, cycling the codename pool with a numeric
// suffix once it is exhausted.
func projectName(i int) string {
	codenames := []string{
		"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta",
		"Eta", "Theta", "Iota", "Kappa", "Lambda", "Sigma",
	}
	name := "Project " + codenames[i%len(codenames)]
	if cycle := i / len(codenames); cycle > 0 {
		name = fmt.Sprintf("%s %d", name, cycle+1)
	}
	return name
}

func (g *Generator) randomOwner() string {
	owners := []string{"dana", "lee", "marcus", "priya", "sofia", "ade", "chen", "noor"}
	return owners[g.rng.Intn(len(owners))]
}

func (g *Generator) randomStatus() string {
	statuses := []string{"Planned", "In Progress", "Blocked", "Completed"}
	weights := []float64{0.25, 0.4, 0.1, 0.25}

	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return statuses[i]
		}
	}
	return statuses[0]
}

func (g *Generator) randomPriority() string {
	priorities := []string{"Low", "Medium", "High", "Critical"}
	weights := []float64{0.3, 0.4, 0.2, 0.1}

	r := g.rng.Float64()
	cumulative := 0.0
	for i, weight := range weights {
		cumulative += weight
		if r <= cumulative {
			return priorities[i]
		}
	}
	return priorities[0]
}

// randomBudget returns a budget in whole 500s between 10000 and 125000.
func (g *Generator) randomBudget() int {
	return (20 + g.rng.Intn(211)) * 500
}

func (g *Generator) progressFor(status string) int {
	switch status {
	case "Completed":
		return 100
	case "Planned":
		return 0
	default:
		return 5 + g.rng.Intn(91)
	}
}
