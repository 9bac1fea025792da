package schema

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	csvcodec "github.com/csvbind/csvbind"
)

func TestDecoder_ReadAll_NoHeader(t *testing.T) {
	binding, _, err := personSchema().Build()
	require.NoError(t, err)

	input := "alice,30,true,\nbob,40,false,bobby\n"
	cfg := csvcodec.DefaultReaderConfig()
	r, err := csvcodec.NewReader(strings.NewReader(input), cfg)
	require.NoError(t, err)

	dec := NewDecoder(r, binding)
	people, err := dec.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "alice", people[0].Name)
	assert.Equal(t, int32(30), people[0].Age)
	assert.Nil(t, people[0].Nickname)
	assert.Equal(t, "bob", people[1].Name)
	require.NotNil(t, people[1].Nickname)
	assert.Equal(t, "bobby", *people[1].Nickname)
}

func TestDecoder_ReadAll_WithHeaderPermutation(t *testing.T) {
	binding, _, err := personSchema().Build()
	require.NoError(t, err)

	input := "age,name,active,nickname\n30,alice,true,\n"
	cfg := csvcodec.DefaultReaderConfig()
	cfg.HasHeader = true
	r, err := csvcodec.NewReader(strings.NewReader(input), cfg)
	require.NoError(t, err)

	dec := NewDecoder(r, binding)
	people, err := dec.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "alice", people[0].Name)
	assert.Equal(t, int32(30), people[0].Age)
}

func TestDecoder_FailFast(t *testing.T) {
	binding, _, err := personSchema().Build()
	require.NoError(t, err)

	input := "alice,not-a-number,true,\n"
	cfg := csvcodec.DefaultReaderConfig()
	r, err := csvcodec.NewReader(strings.NewReader(input), cfg)
	require.NoError(t, err)

	dec := NewDecoder(r, binding)
	dec.Policy = FailFast
	var p person
	err = dec.Next(context.Background(), &p)
	assert.Error(t, err)
}

func TestDecoder_SkipRow(t *testing.T) {
	binding, _, err := personSchema().Build()
	require.NoError(t, err)

	input := "alice,not-a-number,true,\nbob,40,false,\n"
	cfg := csvcodec.DefaultReaderConfig()
	r, err := csvcodec.NewReader(strings.NewReader(input), cfg)
	require.NoError(t, err)

	dec := NewDecoder(r, binding)
	dec.Policy = SkipRow
	people, err := dec.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "bob", people[0].Name)
}

func TestDecoder_Collect(t *testing.T) {
	binding, _, err := personSchema().Build()
	require.NoError(t, err)

	input := "alice,not-a-number,true,\nbob,40,false,\ncarol,also-bad,true,\n"
	cfg := csvcodec.DefaultReaderConfig()
	r, err := csvcodec.NewReader(strings.NewReader(input), cfg)
	require.NoError(t, err)

	dec := NewDecoder(r, binding)
	dec.Policy = Collect
	people, err := dec.ReadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "bob", people[0].Name)

	errs := dec.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, 0, errs[0].RecordOrdinal)
	assert.Equal(t, 2, errs[1].RecordOrdinal)
}

func TestDecoder_OnErrorCanStop(t *testing.T) {
	binding, _, err := personSchema().Build()
	require.NoError(t, err)

	input := "alice,not-a-number,true,\nbob,40,false,\n"
	cfg := csvcodec.DefaultReaderConfig()
	r, err := csvcodec.NewReader(strings.NewReader(input), cfg)
	require.NoError(t, err)

	dec := NewDecoder(r, binding)
	dec.Policy = SkipRow
	dec.OnError = func(RecordError) ErrorAction { return ActionStop }

	var p person
	err = dec.Next(context.Background(), &p)
	require.Error(t, err)
	assert.NotEqual(t, io.EOF, err)
}
