package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type filterPayload struct {
	College string `json:"college" validate:"required,catalogcode"`
	Branch  string `json:"branch" validate:"required,catalogcode"`
}

func TestValidatorCatalogCode(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.Validate(&filterPayload{College: "PES", Branch: "CSE"}))
	assert.Nil(t, v.Validate(&filterPayload{College: "pes", Branch: "cse"}))
	assert.Nil(t, v.Validate(&filterPayload{College: " BMS ", Branch: "ISE"}))

	resp := v.Validate(&filterPayload{College: "P", Branch: "CSE"})
	require.NotNil(t, resp)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "college", resp.Errors[0].Field)

	resp = v.Validate(&filterPayload{College: "PES-CSE", Branch: "CSE"})
	require.NotNil(t, resp)
	require.Len(t, resp.Errors, 1)
}

func TestValidatorRequired(t *testing.T) {
	v := NewValidator()

	resp := v.Validate(&filterPayload{})
	require.NotNil(t, resp)
	assert.Len(t, resp.Errors, 2)
	assert.Contains(t, resp.Errors[0].Msg, "required")
}

type commentPayload struct {
	Text string `json:"comment" validate:"required,min=1,max=1000"`
}

func TestValidatorCommentLength(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.Validate(&commentPayload{Text: "hello"}))

	long := make([]byte, 1001)
	for i := range long {
		long[i] = 'a'
	}
	resp := v.Validate(&commentPayload{Text: string(long)})
	require.NotNil(t, resp)
	assert.Equal(t, "comment", resp.Errors[0].Field)
}
