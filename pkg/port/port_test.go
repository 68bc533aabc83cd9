package port

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteVisibleAfterLatency(t *testing.T) {
	p := New[int]("p", 3, 1)
	require.True(t, p.Write(10, 42))

	_, ok := p.Read(12)
	require.False(t, ok, "message must not be visible before cycle+latency")

	v, ok := p.Read(13)
	require.True(t, ok)
	require.Equal(t, 42, v)
}

func TestWriteRespectsBandwidth(t *testing.T) {
	p := New[int]("p", 1, 2)
	require.True(t, p.Write(0, 1))
	require.True(t, p.Write(0, 2))
	require.False(t, p.Write(0, 3), "third write must be rejected at bandwidth 2")
}

func TestReadIsFIFO(t *testing.T) {
	p := New[string]("p", 1, 4)
	p.Write(0, "a")
	p.Write(0, "b")

	first, _ := p.Read(5)
	second, _ := p.Read(5)
	require.Equal(t, "a", first)
	require.Equal(t, "b", second)
}

func TestPeekDoesNotConsume(t *testing.T) {
	p := New[int]("p", 1, 1)
	p.Write(0, 7)

	v, ok := p.Peek(1)
	require.True(t, ok)
	require.Equal(t, 7, v)

	v, ok = p.Read(1)
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func TestGraphValidateRejectsWriterWithoutReader(t *testing.T) {
	g := NewGraph()
	p := New[int]("orphan", 1, 1)
	require.NoError(t, RegisterWriter(g, p))

	require.Error(t, g.Validate())
}

func TestGraphValidateRejectsReaderWithoutWriter(t *testing.T) {
	g := NewGraph()
	p := New[int]("orphan", 1, 1)
	RegisterReader(g, p)

	require.Error(t, g.Validate())
}

func TestGraphValidateAcceptsWiredPort(t *testing.T) {
	g := NewGraph()
	p := New[int]("wired", 1, 1)
	require.NoError(t, RegisterWriter(g, p))
	RegisterReader(g, p)

	require.NoError(t, g.Validate())
}

func TestRegisterWriterTwiceFails(t *testing.T) {
	g := NewGraph()
	p := New[int]("dup", 1, 1)
	require.NoError(t, RegisterWriter(g, p))
	require.Error(t, RegisterWriter(g, p))
}
