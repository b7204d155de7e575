package retail

import (
	"fmt"

	"spendlens/domain/core"
)

// Dataset is an immutable view over a set of transactions. It is built once
// by the ingestion layer and passed by reference into every engine call;
// there is no hidden global. Rows without a usable purchase amount are
// dropped at construction so every derived segment sees clean values.
type Dataset struct {
	transactions []Transaction
	dropped      int
}

// NewDataset copies the given transactions into a new dataset, excluding
// rows with missing or non-positive purchase amounts.
func NewDataset(txns []Transaction) *Dataset {
	kept := make([]Transaction, 0, len(txns))
	dropped := 0
	for _, t := range txns {
		if !t.Valid() {
			dropped++
			continue
		}
		kept = append(kept, t)
	}
	return &Dataset{transactions: kept, dropped: dropped}
}

// Len returns the number of usable transactions.
func (d *Dataset) Len() int {
	return len(d.transactions)
}

// Dropped returns the number of rows excluded at construction.
func (d *Dataset) Dropped() int {
	return d.dropped
}

// All returns a segment covering the whole dataset.
func (d *Dataset) All() Segment {
	return d.Filter("all", func(Transaction) bool { return true })
}

// Filter builds a named segment from the transactions matching pred.
func (d *Dataset) Filter(name string, pred func(Transaction) bool) Segment {
	values := make([]float64, 0, len(d.transactions))
	for _, t := range d.transactions {
		if pred(t) {
			values = append(values, t.Purchase)
		}
	}
	return Segment{name: name, values: values}
}

// ByGender returns the segment of purchases for one gender.
func (d *Dataset) ByGender(g Gender) Segment {
	return d.Filter(string(g), func(t Transaction) bool { return t.Gender == g })
}

// ByAge returns the segment of purchases for one age bracket.
func (d *Dataset) ByAge(a AgeBracket) Segment {
	return d.Filter(string(a), func(t Transaction) bool { return t.Age == a })
}

// ByMarital returns the married or unmarried segment.
func (d *Dataset) ByMarital(married bool) Segment {
	name := "unmarried"
	if married {
		name = "married"
	}
	return d.Filter(name, func(t Transaction) bool { return t.Married == married })
}

// ByCity returns the segment of purchases for one city tier.
func (d *Dataset) ByCity(c CityCategory) Segment {
	return d.Filter(string(c), func(t Transaction) bool { return t.City == c })
}

// ByOccupation returns the segment of purchases for one occupation code.
func (d *Dataset) ByOccupation(code int) Segment {
	return d.Filter(fmt.Sprintf("occupation_%d", code), func(t Transaction) bool { return t.Occupation == code })
}

// Split returns the ordered, non-empty segments of an axis. Occupation codes
// are discovered from the data since the code space is anonymized.
func (d *Dataset) Split(axis Axis) ([]Segment, error) {
	var segments []Segment
	switch axis {
	case AxisGender:
		for _, g := range Genders {
			segments = append(segments, d.ByGender(g))
		}
	case AxisAge:
		for _, a := range AgeBrackets {
			segments = append(segments, d.ByAge(a))
		}
	case AxisMarital:
		segments = append(segments, d.ByMarital(true), d.ByMarital(false))
	case AxisCity:
		for _, c := range CityCategories {
			segments = append(segments, d.ByCity(c))
		}
	case AxisOccupation:
		for _, code := range d.occupationCodes() {
			segments = append(segments, d.ByOccupation(code))
		}
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrAxisNotFound, axis)
	}

	nonEmpty := segments[:0]
	for _, s := range segments {
		if s.N() > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return nonEmpty, nil
}

// SegmentOf resolves a segment by axis and group value, e.g. ("gender", "M").
func (d *Dataset) SegmentOf(axis Axis, value string) (Segment, error) {
	segments, err := d.Split(axis)
	if err != nil {
		return Segment{}, err
	}
	for _, s := range segments {
		if s.Name() == value {
			return s, nil
		}
	}
	return Segment{}, fmt.Errorf("%w: %q on axis %q", core.ErrSegmentNotFound, value, axis)
}

func (d *Dataset) occupationCodes() []int {
	seen := make(map[int]bool)
	var codes []int
	for _, t := range d.transactions {
		if !seen[t.Occupation] {
			seen[t.Occupation] = true
			codes = append(codes, t.Occupation)
		}
	}
	// Small code space, insertion-order independent
	for i := 0; i < len(codes)-1; i++ {
		for j := i + 1; j < len(codes); j++ {
			if codes[i] > codes[j] {
				codes[i], codes[j] = codes[j], codes[i]
			}
		}
	}
	return codes
}

// Segment is a named subset of purchase amounts sharing one categorical
// attribute value. Constructed on demand, never persisted.
type Segment struct {
	name   string
	values []float64
}

// NewSegment builds a segment from raw values. The input slice is copied.
func NewSegment(name string, values []float64) Segment {
	copied := make([]float64, len(values))
	copy(copied, values)
	return Segment{name: name, values: copied}
}

// Name returns the segment's group label.
func (s Segment) Name() string {
	return s.name
}

// N returns the observation count.
func (s Segment) N() int {
	return len(s.values)
}

// Values returns the purchase amounts. The slice is shared with the segment;
// callers must treat it as read-only.
func (s Segment) Values() []float64 {
	return s.values
}
