package node_test

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typecaster/node"
)

type moreThanError interface {
	error
	More()
}

func empty()                          { panic("not implemented") }
func wrong(int) (string, error, bool) { panic("not implemented") }

func full(int) (string, bool, error)          { panic("not implemented") }
func customError(int) (string, moreThanError) { panic("not implemented") }

func ExampleCaster() {
	desc, err := node.ParseCaster(full)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(strconv.Itoa)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(strconv.Atoi)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = node.ParseCaster(customError)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	_, err = node.ParseCaster(empty)
	fmt.Println(err)

	_, err = node.ParseCaster(wrong)
	fmt.Println(err)

	_, err = node.ParseCaster(42)
	fmt.Println(err)

	// Output:
	// <nil> node_test full int string true true
	// <nil> strconv Itoa int string false false
	// <nil> strconv Atoi string int false true
	// <nil> node_test customError int string false true
	// provided function is not a recognizable caster
	// provided function is not a recognizable caster
	// provided caster is not a function
}

func cents(s string) (int64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}

	return int64(f * 100), true
}

func TestCasterInvoke(t *testing.T) {
	t.Parallel()

	c, err := node.ParseCaster(cents)
	require.NoError(t, err)
	assert.Equal(t, "node_test.cents", c.String())

	out, err := c.Invoke("12.5")
	require.NoError(t, err)
	assert.Equal(t, int64(1250), out)

	_, err = c.Invoke("twelve")
	require.ErrorIs(t, err, node.ErrCasterRejected)

	assert.True(t, c.Accepts("1"))
	assert.False(t, c.Accepts(1.5))

	atoi, err := node.ParseCaster(strconv.Atoi)
	require.NoError(t, err)

	_, err = atoi.Invoke("x")
	var numErr *strconv.NumError
	require.True(t, errors.As(err, &numErr))

	itoa, err := node.ParseCaster(strconv.Itoa)
	require.NoError(t, err)

	out, err = itoa.Invoke(12.0)
	require.NoError(t, err)
	assert.Equal(t, "12", out)
}
