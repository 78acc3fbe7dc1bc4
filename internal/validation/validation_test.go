package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gift_catalog/internal/errs"
)

func TestVar_TagName(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"spa", true},
		{"weekend_trip", true},
		{"отдых2024", true},
		{"two words", false},
		{"semi;colon", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := Var("tag", tt.value, "required,tagname")
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errs.Is(err, errs.KindInvalidData))
			}
		})
	}
}

func TestVar_Printable(t *testing.T) {
	assert.NoError(t, Var("name", "Spa day, 2 persons!", "printable"))
	assert.Error(t, Var("name", "bad\x07bell", "printable"))
	assert.Error(t, Var("name", "tab\tseparated", "printable"))
}

func TestStruct_ReportsJSONFieldName(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required,printable"`
	}

	err := Struct(input{})

	var e *errs.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errs.KindInvalidData, e.Kind)
	assert.Contains(t, e.Details, "name")
}
