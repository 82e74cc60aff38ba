package model_test

import (
	"testing"
	"time"

	"github.com/idilsaglam/toast/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want model.Variant
	}{
		{"", model.VariantInfo},
		{"info", model.VariantInfo},
		{"SUCCESS", model.VariantSuccess},
		{"warn", model.VariantWarning},
		{" error ", model.VariantError},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := model.ParseVariant(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := model.ParseVariant("loud")
	assert.ErrorIs(t, err, model.ErrUnknownVariant)
}

func TestVariantNextWraps(t *testing.T) {
	assert.Equal(t, model.VariantSuccess, model.VariantInfo.Next())
	assert.Equal(t, model.VariantInfo, model.VariantError.Next())
	assert.Equal(t, model.VariantInfo, model.Variant("bogus").Next())
}

func TestRequestNormalize(t *testing.T) {
	req, clamped := model.Request{Content: "hi", Duration: -time.Second}.Normalize()
	assert.True(t, clamped)
	assert.Zero(t, req.Duration)
	assert.Equal(t, model.VariantInfo, req.Variant)

	req, clamped = model.Request{Variant: model.VariantError, Duration: time.Second}.Normalize()
	assert.False(t, clamped)
	assert.Equal(t, time.Second, req.Duration)
	assert.Equal(t, model.VariantError, req.Variant)
}

func TestParseID(t *testing.T) {
	id, err := model.ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, model.ID(42), id)
	assert.Equal(t, "42", id.String())

	_, err = model.ParseID("x1")
	assert.Error(t, err)
}
