package seeder

import (
	"context"
	"testing"

	"Backend-FormGen/src/services/forms"
	"Backend-FormGen/src/services/submission"
	"Backend-FormGen/src/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSampleFormsAreValid(t *testing.T) {
	for _, req := range SampleForms() {
		assert.NoError(t, req.Schema.Check(), req.Title)
	}
}

func TestSampleSubmissionsPassValidation(t *testing.T) {
	schema := SampleForms()[0].Schema
	for _, values := range sampleSubmissions {
		assert.Empty(t, forms.Validate(schema, values))
	}
}

func TestSeedSampleForms(t *testing.T) {
	store := testutil.NewMemoryStore()
	log := zap.NewNop()

	created, err := SeedSampleForms(context.Background(), forms.NewService(store, log, 2), submission.NewService(store, log), "dev-user", log)
	require.NoError(t, err)
	require.Len(t, created, 2)

	n, err := store.CountSubmissions(context.Background(), created[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, len(sampleSubmissions), n)
	assert.True(t, created[1].IsPublic)
}
