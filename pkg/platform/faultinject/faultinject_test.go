package faultinject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow/pkg/platform/sentinel"
)

func TestScript_FailsExactlyScriptedCalls(t *testing.T) {
	s := NewScript(map[string]int{"save": 2})

	require.Error(t, s.Fail("save"))
	require.Error(t, s.Fail("save"))
	assert.NoError(t, s.Fail("save"))
	assert.NoError(t, s.Fail("find"))
}

func TestScript_ReturnsUnavailable(t *testing.T) {
	s := NewScript(map[string]int{"save": 1})
	err := s.Fail("save")
	assert.True(t, errors.Is(err, sentinel.ErrUnavailable))
}

func TestCheck_NilInjectorIsNoop(t *testing.T) {
	assert.NoError(t, Check(nil, "save"))
}
