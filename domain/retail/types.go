package retail

import (
	"fmt"
	"math"
)

// Gender is the binary gender category carried by the source data.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Genders lists the categories in display order.
var Genders = []Gender{GenderMale, GenderFemale}

// Label returns a human-readable gender name.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	}
	return string(g)
}

// AgeBracket is an ordered categorical age range.
type AgeBracket string

const (
	Age0To17  AgeBracket = "0-17"
	Age18To25 AgeBracket = "18-25"
	Age26To35 AgeBracket = "26-35"
	Age36To45 AgeBracket = "36-45"
	Age46To50 AgeBracket = "46-50"
	Age51To55 AgeBracket = "51-55"
	Age55Plus AgeBracket = "55+"
)

// AgeBrackets lists the brackets in ascending order.
var AgeBrackets = []AgeBracket{
	Age0To17, Age18To25, Age26To35, Age36To45, Age46To50, Age51To55, Age55Plus,
}

// LifeStage maps an age bracket to its marketing life-stage label.
func (a AgeBracket) LifeStage() string {
	switch a {
	case Age0To17:
		return "Teenagers"
	case Age18To25:
		return "Young Adults"
	case Age26To35:
		return "Early Career"
	case Age36To45:
		return "Mid Career"
	case Age46To50:
		return "Established"
	case Age51To55:
		return "Senior"
	case Age55Plus:
		return "Mature"
	}
	return string(a)
}

// CityCategory is the nominal city tier (A/B/C).
type CityCategory string

const (
	CityA CityCategory = "A"
	CityB CityCategory = "B"
	CityC CityCategory = "C"
)

// CityCategories lists the tiers in order.
var CityCategories = []CityCategory{CityA, CityB, CityC}

// Transaction is one purchase event. Records are immutable once loaded;
// the engine only derives aggregates from them.
type Transaction struct {
	UserID          string       `json:"user_id"`
	ProductID       string       `json:"product_id"`
	Gender          Gender       `json:"gender"`
	Age             AgeBracket   `json:"age"`
	Occupation      int          `json:"occupation"`
	City            CityCategory `json:"city_category"`
	StayYears       string       `json:"stay_in_current_city_years"`
	Married         bool         `json:"marital_status"`
	ProductCategory int          `json:"product_category"`
	Purchase        float64      `json:"purchase"`
}

// Valid reports whether the transaction carries a usable purchase amount.
func (t Transaction) Valid() bool {
	return !math.IsNaN(t.Purchase) && !math.IsInf(t.Purchase, 0) && t.Purchase > 0
}

// Axis names a categorical grouping column.
type Axis string

const (
	AxisGender     Axis = "gender"
	AxisAge        Axis = "age"
	AxisMarital    Axis = "marital_status"
	AxisCity       Axis = "city_category"
	AxisOccupation Axis = "occupation"
)

// Axes lists every supported grouping axis.
var Axes = []Axis{AxisGender, AxisAge, AxisMarital, AxisCity, AxisOccupation}

// ParseAxis validates an axis name from an external caller.
func ParseAxis(s string) (Axis, error) {
	for _, a := range Axes {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown axis %q", s)
}

// TwoGroup reports whether the axis always splits into exactly two segments,
// making it directly comparable with a two-sample test.
func (a Axis) TwoGroup() bool {
	return a == AxisGender || a == AxisMarital
}
