package bypass

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mipspipe/pkg/isa"
)

func TestIdleRegisterAnswersOK(t *testing.T) {
	u := New(1)
	a := u.Query(isa.R8)
	require.Equal(t, OK, a.Kind)
}

func TestZeroRegisterAlwaysOK(t *testing.T) {
	u := New(1)
	u.Issue(isa.R0, false)
	a := u.Query(isa.R0)
	require.Equal(t, OK, a.Kind)
}

func TestAluProducerInExecuteForwardsFromExecute(t *testing.T) {
	u := New(1)
	u.Issue(isa.R8, false)
	a := u.Query(isa.R8)
	require.Equal(t, BypassFrom, a.Kind)
	require.Equal(t, StageExecute, a.Stage)
}

func TestLoadProducerInExecuteStalls(t *testing.T) {
	u := New(1)
	u.Issue(isa.R8, true)
	a := u.Query(isa.R8)
	require.Equal(t, Stall, a.Kind)
}

func TestLoadProducerInMemoryForwardsFromMemory(t *testing.T) {
	u := New(1)
	u.Issue(isa.R8, true)
	u.NotifyExecute(isa.R8)
	a := u.Query(isa.R8)
	require.Equal(t, BypassFrom, a.Kind)
	require.Equal(t, StageMemory, a.Stage)
}

func TestFullLifecycleReturnsToIdle(t *testing.T) {
	u := New(1)
	u.Issue(isa.R8, false)
	u.NotifyExecute(isa.R8)
	u.NotifyMemory(isa.R8)
	require.Equal(t, StageWriteback, u.Query(isa.R8).Stage)

	require.True(t, u.NotifyWritebackAll([]isa.RegNum{isa.R8}))
	require.Equal(t, OK, u.Query(isa.R8).Kind)
}

func TestWritebackBandwidthLimitsRetirementsPerCycle(t *testing.T) {
	u := New(1)
	u.Issue(isa.R8, false)
	u.NotifyExecute(isa.R8)
	u.NotifyMemory(isa.R8)
	u.Issue(isa.R9, false)
	u.NotifyExecute(isa.R9)
	u.NotifyMemory(isa.R9)

	u.BeginCycle()
	require.True(t, u.NotifyWritebackAll([]isa.RegNum{isa.R8}))
	require.False(t, u.NotifyWritebackAll([]isa.RegNum{isa.R9}), "second retirement must stall at bandwidth 1")

	u.BeginCycle()
	require.True(t, u.NotifyWritebackAll([]isa.RegNum{isa.R9}))
}

func TestFlushResetsAllAutomata(t *testing.T) {
	u := New(1)
	u.Issue(isa.R8, false)
	u.Flush()
	require.Equal(t, OK, u.Query(isa.R8).Kind)
}
