package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func flyerFields() []*CategoryFormField {
	return []*CategoryFormField{
		{Key: "color", Type: FieldTypeChoice, Required: true, Choices: datatypes.JSONSlice[string]{"red", "blue"}},
		{Key: "width_mm", Type: FieldTypeNumber},
		{Key: "laminated", Type: FieldTypeBoolean},
		{Key: "notes", Type: FieldTypeText},
	}
}

func TestValidateAttributesNormalizes(t *testing.T) {
	out, err := ValidateAttributes(flyerFields(), map[string]any{
		"color":     "red",
		"width_mm":  "210",
		"laminated": "true",
		"notes":     "matte finish",
	})
	require.NoError(t, err)
	require.Equal(t, "red", out["color"])
	require.Equal(t, float64(210), out["width_mm"])
	require.Equal(t, true, out["laminated"])
	require.Equal(t, "matte finish", out["notes"])
}

func TestValidateAttributesRequired(t *testing.T) {
	_, err := ValidateAttributes(flyerFields(), map[string]any{
		"width_mm": 210,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	require.Equal(t, "color", verr.Fields[0].Key)
	require.Equal(t, "required", verr.Fields[0].Message)

	// Blank strings count as missing.
	_, err = ValidateAttributes(flyerFields(), map[string]any{
		"color": "   ",
	})
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "color", verr.Fields[0].Key)
}

func TestValidateAttributesAggregatesFailures(t *testing.T) {
	_, err := ValidateAttributes(flyerFields(), map[string]any{
		"color":     "green",
		"width_mm":  "wide",
		"laminated": "maybe",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 3)

	byKey := map[string]string{}
	for _, field := range verr.Fields {
		byKey[field.Key] = field.Message
	}
	require.Equal(t, "not an allowed choice", byKey["color"])
	require.Equal(t, "must be a number", byKey["width_mm"])
	require.Equal(t, "must be a boolean", byKey["laminated"])
}

func TestValidateAttributesRejectsUnknownKeys(t *testing.T) {
	_, err := ValidateAttributes(flyerFields(), map[string]any{
		"color":     "blue",
		"reference": "PO-4412",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	require.Equal(t, "reference", verr.Fields[0].Key)
	require.Equal(t, "unknown attribute", verr.Fields[0].Message)
}

func TestValidateAttributesOptionalMissing(t *testing.T) {
	out, err := ValidateAttributes(flyerFields(), map[string]any{
		"color": "blue",
	})
	require.NoError(t, err)
	_, present := out["width_mm"]
	require.False(t, present)
}
