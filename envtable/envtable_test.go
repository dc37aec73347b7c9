package envtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndicesIgnoresDeclsWithoutHostIndex(t *testing.T) {
	req := Request{EnvVars: []EnvVarDecl{{Name: "x"}}}
	indices, err := req.Indices()
	require.NoError(t, err)
	require.Empty(t, indices)
}

func TestIndicesCollectsExplicitHostIndices(t *testing.T) {
	req := Request{EnvVars: []EnvVarDecl{
		{Name: "temperature", HostIndex: 3, HasHostIndex: true},
		{Name: "pressure", HostIndex: 1, HasHostIndex: true},
	}}
	indices, err := req.Indices()
	require.NoError(t, err)
	require.Equal(t, map[string]int{"temperature": 3, "pressure": 1}, indices)
}

func TestIndicesRejectsConflictingHostIndex(t *testing.T) {
	req := Request{EnvVars: []EnvVarDecl{
		{Name: "a", HostIndex: 0, HasHostIndex: true},
		{Name: "b", HostIndex: 0, HasHostIndex: true},
	}}
	_, err := req.Indices()
	require.Error(t, err)
	require.IsType(t, Error{}, err)
}

func TestIndicesAllowsSameNameSameIndexTwice(t *testing.T) {
	req := Request{EnvVars: []EnvVarDecl{
		{Name: "a", HostIndex: 0, HasHostIndex: true},
		{Name: "a", HostIndex: 0, HasHostIndex: true},
	}}
	indices, err := req.Indices()
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 0}, indices)
}

func TestFreeIsANoOp(t *testing.T) {
	require.NotPanics(t, func() { Free(Response{}) })
}

func TestErrorFormatsLineColumnMessage(t *testing.T) {
	err := Error{Line: 4, Column: 7, Message: "bad host index"}
	require.Contains(t, err.Error(), "line:4")
	require.Contains(t, err.Error(), "column:7")
	require.Contains(t, err.Error(), "bad host index")
}
