package sandbox

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
)

func TestMemXModel(t *testing.T) {
	m := NewMemXModel()

	_, err := m.Get("Registry", []byte("party/DEABC"))
	assert.True(t, kvdb.ErrNotFound(err))

	value := []byte("v1")
	require.NoError(t, m.Put("Registry", []byte("party/DEABC"), value))
	value[0] = 'x'
	got, err := m.Get("Registry", []byte("party/DEABC"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, m.Del("Registry", []byte("party/DEABC")))
	_, err = m.Get("Registry", []byte("party/DEABC"))
	assert.True(t, errors.Is(err, ErrHasDel))
	assert.Equal(t, 1, m.Len())
}

func TestXMCache(t *testing.T) {
	committed := NewMemXModel()
	require.NoError(t, committed.Put("Ownership", []byte("owner"), []byte("o1")))
	require.NoError(t, committed.Put("Registry", []byte("party/NLXYZ"), []byte("r1")))

	xc := NewXMCache(committed)
	got, err := xc.Get("Ownership", []byte("owner"))
	require.NoError(t, err)
	assert.Equal(t, []byte("o1"), got)

	require.NoError(t, xc.Put("Ownership", []byte("owner"), []byte("o2")))
	require.NoError(t, xc.Del("Registry", []byte("party/NLXYZ")))
	require.NoError(t, xc.Put("Permissions", []byte("app/p1"), []byte("a1")))

	got, err = xc.Get("Ownership", []byte("owner"))
	require.NoError(t, err)
	assert.Equal(t, []byte("o2"), got)
	_, err = xc.Get("Registry", []byte("party/NLXYZ"))
	assert.True(t, errors.Is(err, ErrHasDel))

	// 已提交状态不受影响
	got, err = committed.Get("Ownership", []byte("owner"))
	require.NoError(t, err)
	assert.Equal(t, []byte("o1"), got)

	wset := xc.RWSet().WSet
	require.Len(t, wset, 3)
	assert.Equal(t, "Ownership", wset[0].Bucket)
	assert.Equal(t, "Permissions", wset[1].Bucket)
	assert.Equal(t, "Registry", wset[2].Bucket)
	assert.True(t, wset[2].IsDelete())
	assert.False(t, wset[0].IsDelete())
}

func TestParseRawKey(t *testing.T) {
	raw := MakeRawKey("Registry", []byte("party/DEABC"))
	bucket, key, err := ParseRawKey(raw)
	require.NoError(t, err)
	assert.Equal(t, "Registry", bucket)
	assert.Equal(t, []byte("party/DEABC"), key)

	_, _, err = ParseRawKey([]byte("nobucket"))
	assert.Error(t, err)
}
