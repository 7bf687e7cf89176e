package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnimals() []Record {
	return []Record{
		{"id": "0", "name": "Leah", "species": "bear", "diet": "omnivore", "personalityTraits": []any{"quirky", "rash"}},
		{"id": "1", "name": "Noel", "species": "bear", "diet": "carnivore", "personalityTraits": []any{"impish", "sassy", "brave"}},
		{"id": "2", "name": "Jenny", "species": "gorilla", "diet": "herbivore", "personalityTraits": []any{"quirky", "sassy"}},
		{"id": "3", "name": "Erica", "species": "gorilla", "diet": "omnivore", "personalityTraits": []any{"quirky", "rash", "sassy"}},
	}
}

func names(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r["name"].(string))
	}
	return out
}

func TestFilter_EmptyCriteriaIsIdentity(t *testing.T) {
	animals := sampleAnimals()

	assert.Equal(t, animals, Filter(Animal, nil, animals))
	assert.Equal(t, animals, Filter(Animal, Criteria{}, animals))
}

func TestFilter_ReturnsNewSlice(t *testing.T) {
	animals := sampleAnimals()

	got := Filter(Animal, Criteria{}, animals)
	got[0] = Record{"name": "changed"}

	assert.Equal(t, "Leah", animals[0]["name"])
}

func TestFilter_ScalarFields(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"by species", Criteria{"species": {"bear"}}, []string{"Leah", "Noel"}},
		{"by diet", Criteria{"diet": {"omnivore"}}, []string{"Leah", "Erica"}},
		{"by name", Criteria{"name": {"Jenny"}}, []string{"Jenny"}},
		{"species and diet", Criteria{"species": {"gorilla"}, "diet": {"omnivore"}}, []string{"Erica"}},
		{"no match", Criteria{"species": {"penguin"}}, []string{}},
		{"empty value ignored", Criteria{"diet": {""}}, []string{"Leah", "Noel", "Jenny", "Erica"}},
		{"unknown key ignored", Criteria{"colour": {"red"}}, []string{"Leah", "Noel", "Jenny", "Erica"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(Animal, tt.criteria, sampleAnimals())))
		})
	}
}

func TestFilter_SingleTrait(t *testing.T) {
	got := Filter(Animal, Criteria{"personalityTraits": {"quirky"}}, sampleAnimals())

	assert.Equal(t, []string{"Leah", "Jenny", "Erica"}, names(got))
}

func TestFilter_TraitsNarrowConjunctively(t *testing.T) {
	got := Filter(Animal, Criteria{"personalityTraits": {"quirky", "sassy"}}, sampleAnimals())

	// "quirky" alone matches Leah, Jenny, Erica; "sassy" alone matches
	// Noel, Jenny, Erica. The intersection is Jenny and Erica.
	assert.Equal(t, []string{"Jenny", "Erica"}, names(got))
}

func TestFilter_PreservesOrderAndSubset(t *testing.T) {
	animals := sampleAnimals()
	got := Filter(Animal, Criteria{"personalityTraits": {"rash"}}, animals)

	last := -1
	for _, r := range got {
		idx := -1
		for i, a := range animals {
			if a.ID() == r.ID() {
				idx = i
			}
		}
		require.NotEqual(t, -1, idx, "result must come from the input")
		assert.Greater(t, idx, last)
		last = idx
	}
}

func TestFilter_ZookeeperNumberAndOptionalFields(t *testing.T) {
	keepers := []Record{
		{"id": "3", "name": "Erica", "age": float64(5), "favoriteAnimal": "chihuahua"},
		{"id": "4", "name": "Noel", "age": float64(89), "favoriteAnimal": "dog"},
	}

	assert.Len(t, Filter(Zookeeper, Criteria{"favoriteAnimal": {"chihuahua"}}, keepers), 1)
	assert.Equal(t, []string{"Noel"}, names(Filter(Zookeeper, Criteria{"age": {"89"}}, keepers)))
	assert.Empty(t, Filter(Zookeeper, Criteria{"age": {"eighty"}}, keepers))
}

func TestFindByID(t *testing.T) {
	keepers := []Record{
		{"id": "3", "name": "Erica", "age": 5, "favoriteAnimal": "chihuahua"},
		{"id": "4", "name": "Noel", "age": 89, "favoriteAnimal": "dog"},
	}

	got, ok := FindByID("3", keepers)
	require.True(t, ok)
	assert.Equal(t, "Erica", got["name"])

	_, ok = FindByID("99", keepers)
	assert.False(t, ok)

	_, ok = FindByID("0", nil)
	assert.False(t, ok)
}

func TestCollectionEnvelope(t *testing.T) {
	data, err := MarshalCollection(Zookeeper, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zookeepers": []}`, string(data))

	data, err = MarshalCollection(Zookeeper, []Record{{"id": "0", "name": "Kim", "age": float64(40)}})
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"zookeepers\": [")

	got, err := UnmarshalCollection(Zookeeper, data)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Kim", got[0]["name"])

	got, err = UnmarshalCollection(Zookeeper, []byte(`{"animals": []}`))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = UnmarshalCollection(Zookeeper, []byte(`{"zookeepers": [`))
	assert.Error(t, err)
}
