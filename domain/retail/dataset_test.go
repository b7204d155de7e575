package retail

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlens/domain/core"
)

func txn(gender Gender, age AgeBracket, city CityCategory, married bool, occupation int, purchase float64) Transaction {
	return Transaction{
		Gender:     gender,
		Age:        age,
		City:       city,
		Married:    married,
		Occupation: occupation,
		Purchase:   purchase,
	}
}

func sampleDataset() *Dataset {
	return NewDataset([]Transaction{
		txn(GenderFemale, Age0To17, CityA, false, 10, 8370),
		txn(GenderMale, Age55Plus, CityC, false, 16, 15200),
		txn(GenderMale, Age26To35, CityA, true, 15, 1422),
		txn(GenderFemale, Age26To35, CityB, true, 7, 7969),
	})
}

func TestNewDatasetDropsInvalidPurchases(t *testing.T) {
	ds := NewDataset([]Transaction{
		txn(GenderMale, Age26To35, CityA, false, 1, 100),
		txn(GenderMale, Age26To35, CityA, false, 1, 0),
		txn(GenderMale, Age26To35, CityA, false, 1, -5),
		txn(GenderMale, Age26To35, CityA, false, 1, math.NaN()),
	})
	assert.Equal(t, 1, ds.Len())
	assert.Equal(t, 3, ds.Dropped())
}

func TestSegmentFilters(t *testing.T) {
	ds := sampleDataset()

	assert.Equal(t, 2, ds.ByGender(GenderFemale).N())
	assert.Equal(t, 2, ds.ByGender(GenderMale).N())
	assert.Equal(t, 2, ds.ByMarital(true).N())
	assert.Equal(t, 2, ds.ByCity(CityA).N())
	assert.Equal(t, 1, ds.ByOccupation(7).N())
	assert.Equal(t, 4, ds.All().N())
}

func TestSplitGender(t *testing.T) {
	segments, err := sampleDataset().Split(AxisGender)
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "M", segments[0].Name())
	assert.Equal(t, "F", segments[1].Name())
}

func TestSplitAgeOmitsEmptyBrackets(t *testing.T) {
	segments, err := sampleDataset().Split(AxisAge)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, "0-17", segments[0].Name())
	assert.Equal(t, "26-35", segments[1].Name())
	assert.Equal(t, "55+", segments[2].Name())
}

func TestSplitOccupationDiscoversCodes(t *testing.T) {
	segments, err := sampleDataset().Split(AxisOccupation)
	require.NoError(t, err)
	require.Len(t, segments, 4)
	assert.Equal(t, "occupation_7", segments[0].Name())
	assert.Equal(t, "occupation_16", segments[3].Name())
}

func TestSplitUnknownAxis(t *testing.T) {
	_, err := sampleDataset().Split(Axis("zodiac"))
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}

func TestSegmentOf(t *testing.T) {
	ds := sampleDataset()

	seg, err := ds.SegmentOf(AxisGender, "F")
	require.NoError(t, err)
	assert.Equal(t, 2, seg.N())

	_, err = ds.SegmentOf(AxisGender, "X")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}

func TestParseAxis(t *testing.T) {
	axis, err := ParseAxis("marital_status")
	require.NoError(t, err)
	assert.Equal(t, AxisMarital, axis)
	assert.True(t, axis.TwoGroup())

	_, err = ParseAxis("nope")
	assert.Error(t, err)
}

func TestNewSegmentCopiesValues(t *testing.T) {
	values := []float64{1, 2, 3}
	seg := NewSegment("s", values)
	values[0] = 99
	assert.Equal(t, []float64{1, 2, 3}, seg.Values())
}

func TestLifeStages(t *testing.T) {
	assert.Equal(t, "Teenagers", Age0To17.LifeStage())
	assert.Equal(t, "Early Career", Age26To35.LifeStage())
	assert.Equal(t, "Mature", Age55Plus.LifeStage())
}
