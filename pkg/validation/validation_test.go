package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Target string `json:"target" validate:"required,identity"`
	Choice string `json:"choice" validate:"required,oneof=FOR AGAINST"`
}

func TestIsIdentity(t *testing.T) {
	assert.True(t, IsIdentity("0x00000000000000000000000000000000000000a1"))
	assert.True(t, IsIdentity("0xABCDEFabcdef0000000000000000000000000000"))
	assert.False(t, IsIdentity("00000000000000000000000000000000000000a1"))
	assert.False(t, IsIdentity("0x1234"))
	assert.False(t, IsIdentity("0xzz000000000000000000000000000000000000a1"))
	assert.False(t, IsIdentity(""))
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := ValidateStruct(sampleRequest{
			Target: "0x00000000000000000000000000000000000000a1",
			Choice: "FOR",
		})
		assert.NoError(t, err)
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := ValidateStruct(sampleRequest{Target: "bob", Choice: "MAYBE"})
		require.Error(t, err)

		var structErr *StructError
		require.True(t, errors.As(err, &structErr))
		require.Len(t, structErr.Violations, 2)
		assert.Equal(t, "target", structErr.Violations[0].Field)
		assert.Equal(t, "identity", structErr.Violations[0].Tag)
		assert.Equal(t, "target must be a 0x-prefixed 20-byte hex address", structErr.Violations[0].Description)
		assert.Equal(t, "choice", structErr.Violations[1].Field)
		assert.Equal(t, "oneof", structErr.Violations[1].Tag)
	})
}

func TestValidateValue(t *testing.T) {
	assert.NoError(t, ValidateValue("0x00000000000000000000000000000000000000a1", "identity"))

	err := ValidateValue("nope", "identity")
	require.Error(t, err)
	var v Violation
	require.True(t, errors.As(err, &v))
	assert.Equal(t, "identity", v.Tag)
}

func TestDetails(t *testing.T) {
	err := ValidateStruct(sampleRequest{Target: "bob", Choice: "FOR"})
	require.Error(t, err)
	assert.Equal(t, []string{"target must be a 0x-prefixed 20-byte hex address"}, Details(err))

	assert.Equal(t, []string{"boom"}, Details(errors.New("boom")))
}
