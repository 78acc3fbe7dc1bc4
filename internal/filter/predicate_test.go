package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gift_catalog/internal/errs"
)

func TestBuild_ComposesConditions(t *testing.T) {
	c, err := Build(map[string]string{
		"tag":         "spa",
		"name":        "day",
		"description": "relax",
		"active":      "true",
		"sort":        "name_desc",
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, Predicate{
		TagEquals{Name: "spa"},
		NameContains{Text: "day"},
		DescriptionContains{Text: "relax"},
		ActiveIs{Active: true},
	}, c.Predicate)
	assert.Equal(t, Sort{{Field: FieldName, Desc: true}, {Field: FieldID}}, c.Sort)
}

func TestBuild_AbsentKeysAddNoCondition(t *testing.T) {
	c, err := Build(map[string]string{"name": "spa"})
	require.NoError(t, err)

	assert.Equal(t, Predicate{NameContains{Text: "spa"}}, c.Predicate)
	assert.Equal(t, DefaultSort(), c.Sort)
}

func TestBuild_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
	}{
		{"empty mapping", map[string]string{}},
		{"sort only", map[string]string{"sort": "name_asc"}},
		{"unknown key", map[string]string{"name": "spa", "price": "10"}},
		{"tag with space", map[string]string{"tag": "two words"}},
		{"tag with punctuation", map[string]string{"tag": "spa!"}},
		{"name with control char", map[string]string{"name": "sp\x00a"}},
		{"description with control char", map[string]string{"description": "line\nbreak"}},
		{"active not boolean", map[string]string{"active": "yes please"}},
		{"unknown sort", map[string]string{"name": "spa", "sort": "price_asc"}},
		{"partially unknown sort", map[string]string{"name": "spa", "sort": "name_asc,bogus"}},
		{"trailing comma sort", map[string]string{"name": "spa", "sort": "name_asc,"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.params)
			require.Error(t, err)
			assert.Equal(t, errs.KindInvalidData, errs.KindOf(err))
		})
	}
}

func TestParseSort(t *testing.T) {
	tests := []struct {
		directive string
		want      Sort
	}{
		{"", Sort{{Field: FieldID}}},
		{"name_asc", Sort{{Field: FieldName}, {Field: FieldID}}},
		{"date_asc", Sort{{Field: FieldCreatedAt}, {Field: FieldID}}},
		{"date_desc", Sort{{Field: FieldCreatedAt, Desc: true}, {Field: FieldID}}},
		{"date_desc_name_asc", Sort{{Field: FieldCreatedAt, Desc: true}, {Field: FieldName}, {Field: FieldID}}},
		{"date_desc,name_asc", Sort{{Field: FieldCreatedAt, Desc: true}, {Field: FieldName}, {Field: FieldID}}},
		{"name_asc, name_desc", Sort{{Field: FieldName}, {Field: FieldID}}},
	}

	for _, tt := range tests {
		t.Run(tt.directive, func(t *testing.T) {
			got, err := ParseSort(tt.directive)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildTagSet(t *testing.T) {
	c, err := BuildTagSet([]string{"b", "a", "b"}, "date_desc")
	require.NoError(t, err)

	assert.Equal(t, Predicate{TagsAll{Names: []string{"a", "b"}}}, c.Predicate)
	assert.Equal(t, FieldCreatedAt, c.Sort[0].Field)

	_, err = BuildTagSet(nil, "")
	assert.True(t, errs.Is(err, errs.KindInvalidData))

	_, err = BuildTagSet([]string{"ok", "not ok"}, "")
	assert.True(t, errs.Is(err, errs.KindInvalidData))
}
