// Package testkit generates synthetic retail transactions for tests and
// demos. Segment spending gaps are controllable so inferential tests have
// known ground truth to detect.
package testkit

import (
	"fmt"
	"math/rand"

	"spendlens/domain/retail"
)

// GeneratorConfig configures the transaction generator.
type GeneratorConfig struct {
	Rows         int     `json:"rows"`
	Seed         int64   `json:"seed"`
	FemaleShare  float64 `json:"female_share"`
	MarriedShare float64 `json:"married_share"`
	BaseMean     float64 `json:"base_mean"`
	BaseStd      float64 `json:"base_std"`
	// GenderGap is added to the mean purchase of male customers; set it
	// to zero for segments with equal spending.
	GenderGap float64 `json:"gender_gap"`
	// MarriedGap is added to the mean purchase of married customers.
	MarriedGap float64 `json:"married_gap"`
}

// DefaultGeneratorConfig returns proportions close to the Black Friday
// dataset the service was built around.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Rows:         2000,
		Seed:         42,
		FemaleShare:  0.25,
		MarriedShare: 0.41,
		BaseMean:     9250,
		BaseStd:      4900,
		GenderGap:    450,
		MarriedGap:   60,
	}
}

// Generator produces deterministic synthetic transactions.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// NewGenerator creates a generator with its own seeded random source.
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Transactions generates the configured number of rows.
func (g *Generator) Transactions() []retail.Transaction {
	txns := make([]retail.Transaction, 0, g.cfg.Rows)
	for i := 0; i < g.cfg.Rows; i++ {
		gender := retail.GenderMale
		if g.rng.Float64() < g.cfg.FemaleShare {
			gender = retail.GenderFemale
		}
		married := g.rng.Float64() < g.cfg.MarriedShare

		mean := g.cfg.BaseMean
		if gender == retail.GenderMale {
			mean += g.cfg.GenderGap
		}
		if married {
			mean += g.cfg.MarriedGap
		}

		purchase := mean + g.rng.NormFloat64()*g.cfg.BaseStd
		if purchase < 12 {
			purchase = 12 // dataset floor; keeps every row usable
		}

		txns = append(txns, retail.Transaction{
			UserID:          fmt.Sprintf("user_%06d", 1000000+i%1000),
			ProductID:       fmt.Sprintf("P%08d", g.rng.Intn(3500)),
			Gender:          gender,
			Age:             g.randomAge(),
			Occupation:      g.rng.Intn(21),
			City:            g.randomCity(),
			StayYears:       g.randomStayYears(),
			Married:         married,
			ProductCategory: 1 + g.rng.Intn(20),
			Purchase:        purchase,
		})
	}
	return txns
}

// Dataset generates transactions and wraps them in a dataset handle.
func (g *Generator) Dataset() *retail.Dataset {
	return retail.NewDataset(g.Transactions())
}

func (g *Generator) randomAge() retail.AgeBracket {
	// Weighted roughly like the source data: 26-35 dominates.
	r := g.rng.Float64()
	switch {
	case r < 0.03:
		return retail.Age0To17
	case r < 0.21:
		return retail.Age18To25
	case r < 0.61:
		return retail.Age26To35
	case r < 0.81:
		return retail.Age36To45
	case r < 0.89:
		return retail.Age46To50
	case r < 0.96:
		return retail.Age51To55
	default:
		return retail.Age55Plus
	}
}

func (g *Generator) randomCity() retail.CityCategory {
	r := g.rng.Float64()
	switch {
	case r < 0.27:
		return retail.CityA
	case r < 0.69:
		return retail.CityB
	default:
		return retail.CityC
	}
}

func (g *Generator) randomStayYears() string {
	options := []string{"0", "1", "2", "3", "4+"}
	return options[g.rng.Intn(len(options))]
}
