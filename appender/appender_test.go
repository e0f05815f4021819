package appender_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/hlog/appender"
	"github.com/philipp01105/hlog/appender/appendertest"
	"github.com/philipp01105/hlog/core"
)

func TestBase_Threshold(t *testing.T) {
	var b appender.Base
	assert.Equal(t, core.NotSetLevel, b.Threshold())
	assert.True(t, b.Accept(&core.Entry{Level: core.TraceLevel}))

	b.SetThreshold(core.WarnLevel)
	assert.Equal(t, core.WarnLevel, b.Threshold())
	assert.False(t, b.Accept(&core.Entry{Level: core.InfoLevel}))
	assert.True(t, b.Accept(&core.Entry{Level: core.ErrorLevel}))
}

func TestBase_MarkClosedOnce(t *testing.T) {
	var b appender.Base
	assert.True(t, b.MarkClosed())
	assert.False(t, b.MarkClosed())
	assert.True(t, b.IsClosed())
	assert.False(t, b.Accept(&core.Entry{Level: core.FatalLevel}))
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &appender.Error{Name: "file", Op: "append", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `appender "file": append: disk full`, err.Error())
}

func TestMulti_ForwardsInOrder(t *testing.T) {
	j := appendertest.NewJournal()
	a := appendertest.NewRecorder("a", j)
	b := appendertest.NewRecorder("b", j)
	m := appender.NewMulti("multi", a, b)

	e := newEntry(core.InfoLevel, "fan out")
	defer core.PutEntry(e)

	require.NoError(t, m.Append(e))
	assert.Equal(t, []string{"a.append", "b.append"}, j.Calls())
}

func TestMulti_CloseLeavesNestedOpen(t *testing.T) {
	a := appendertest.NewRecorder("a", nil)
	m := appender.NewMulti("multi", a)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	e := newEntry(core.InfoLevel, "dropped")
	defer core.PutEntry(e)
	require.NoError(t, m.Append(e))

	assert.Equal(t, 0, a.CloseCalls())
	assert.Equal(t, 0, a.Count())
}

func TestNull(t *testing.T) {
	n := appender.NewNull("devnull")
	e := newEntry(core.InfoLevel, "gone")
	defer core.PutEntry(e)

	assert.NoError(t, n.Append(e))
	assert.NoError(t, n.Close())
	assert.True(t, n.IsClosed())
	assert.Equal(t, "devnull", n.Name())
}
