package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testInput struct {
	RoomId string `json:"roomId" validate:"required,len=6,numeric"`
	Query  string `query:"q" validate:"required"`
	Note   string `json:"note" validate:"max=3"`
}

func TestValidateOK(t *testing.T) {
	v := NewValidator()
	errs, ok := v.Validate(testInput{RoomId: "123456", Query: "song"})
	assert.True(t, ok)
	assert.Nil(t, errs)
}

func TestValidateUsesTagNames(t *testing.T) {
	v := NewValidator()
	errs, ok := v.Validate(testInput{Note: "toolong"})
	require.False(t, ok)
	require.Len(t, errs, 3)

	assert.Equal(t, ValidationError{Field: "roomId", Code: "REQUIRED", Message: "roomId is required"}, errs[0])
	assert.Equal(t, "q", errs[1].Field)
	assert.Equal(t, "MAX", errs[2].Code)
	assert.Equal(t, "note must not exceed 3 characters", errs[2].Message)
}

func TestSummary(t *testing.T) {
	v := NewValidator()
	errs, _ := v.Validate(testInput{RoomId: "12ab56", Query: "x"})
	assert.Equal(t, "roomId must contain digits only", Summary(errs))
}
