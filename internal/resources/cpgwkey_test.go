package resources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinecone-io/pulumi-pinecone-byoc-sub000/internal/platform/cpgw"
)

type mockCpgwKeyAPI struct {
	createdEnv string
	deletedID  string

	createResp *cpgw.CpgwAPIKey
	createErr  error
	deleteErr  error
}

func (m *mockCpgwKeyAPI) CreateCpgwAPIKey(_ context.Context, environment string) (*cpgw.CpgwAPIKey, error) {
	m.createdEnv = environment
	return m.createResp, m.createErr
}

func (m *mockCpgwKeyAPI) DeleteCpgwAPIKey(_ context.Context, id string) error {
	m.deletedID = id
	return m.deleteErr
}

func TestCpgwAPIKeyProvider_Create(t *testing.T) {
	t.Parallel()
	api := &mockCpgwKeyAPI{createResp: &cpgw.CpgwAPIKey{ID: "key-1", Key: "secret-value"}}
	p := NewCpgwAPIKeyProvider(api)

	id, outs, err := p.Create(context.Background(), CpgwAPIKeyInputs{Environment: "aped-4627-b74a.byoc"})

	require.NoError(t, err)
	assert.Equal(t, "key-1", id)
	assert.Equal(t, "secret-value", outs.Key)
	assert.Equal(t, "aped-4627-b74a.byoc", outs.Environment)
	assert.Equal(t, "aped-4627-b74a.byoc", api.createdEnv)
}

func TestCpgwAPIKeyProvider_Diff(t *testing.T) {
	t.Parallel()
	p := NewCpgwAPIKeyProvider(&mockCpgwKeyAPI{})

	diff, err := p.Diff(context.Background(), "key-1",
		CpgwAPIKeyOutputs{CpgwAPIKeyInputs: CpgwAPIKeyInputs{Environment: "a.byoc"}, Key: "v"},
		CpgwAPIKeyInputs{Environment: "a.byoc"})
	require.NoError(t, err)
	assert.False(t, diff.Changed)

	diff, err = p.Diff(context.Background(), "key-1",
		CpgwAPIKeyOutputs{CpgwAPIKeyInputs: CpgwAPIKeyInputs{Environment: "a.byoc"}, Key: "v"},
		CpgwAPIKeyInputs{Environment: "b.byoc"})
	require.NoError(t, err)
	assert.True(t, diff.RequiresReplace())
	assert.Equal(t, []string{"environment"}, diff.Replaces)
}

func TestCpgwAPIKeyProvider_Diff_MissingKeyForcesReplace(t *testing.T) {
	t.Parallel()
	p := NewCpgwAPIKeyProvider(&mockCpgwKeyAPI{})

	diff, err := p.Diff(context.Background(), "key-1",
		CpgwAPIKeyOutputs{CpgwAPIKeyInputs: CpgwAPIKeyInputs{Environment: "a.byoc"}},
		CpgwAPIKeyInputs{Environment: "a.byoc"})
	require.NoError(t, err)
	assert.True(t, diff.RequiresReplace())
	assert.Equal(t, []string{"key"}, diff.Replaces)
}

func TestCpgwAPIKeyProvider_Delete_IsIdempotent(t *testing.T) {
	t.Parallel()
	api := &mockCpgwKeyAPI{deleteErr: &cpgw.APIError{StatusCode: 404, Body: "gone"}}
	p := NewCpgwAPIKeyProvider(api)

	require.NoError(t, p.Delete(context.Background(), "key-1", CpgwAPIKeyOutputs{}))
	assert.Equal(t, "key-1", api.deletedID)
}
