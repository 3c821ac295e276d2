package ncerr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	check := assert.New(t)

	var nilList *List
	check.Equal(0, nilList.Len())
	check.False(nilList.HasErrors())
	check.NoError(nilList.Err())

	l := &List{}
	l.Add(UnknownElement("/a/b"), nil, MalformedMessage(WithMessage("bad")))
	other := &List{}
	other.Add(NotConfigurable("/a/c"))
	l.Extend(other)
	l.Extend(nil)

	check.Equal(3, l.Len())
	check.Len(l.Errors(), 1)
	check.Len(l.Warnings(), 2)
	check.True(l.HasErrors())
	check.EqualError(l.Err(), "instance error tag:malformed-message bad")

	l.WithFile("x_full.xml")
	for _, e := range l.All() {
		check.Equal("x_full.xml", e.File)
	}
}

func TestBlocksRoundTrip(t *testing.T) {
	l := &List{}
	l.Add(UnknownElement("/a/b"), OperationFailed(WithMessage("write failed")), UnknownElement("/a/b"))

	buf := &bytes.Buffer{}
	require.NoError(t, l.WriteBlocks(buf))
	check := assert.New(t)
	check.True(strings.HasPrefix(buf.String(), WarningStart+"\n"))

	log := "noise\n" + buf.String() + "more noise\n"
	errs, warnings, err := ScanBlocks(strings.NewReader(log))
	require.NoError(t, err)
	check.Equal([]string{"output error tag:operation-failed write failed"}, errs)
	// duplicates are reported once
	check.Equal([]string{"binding warning tag:unknown-element path:/a/b"}, warnings)
}
