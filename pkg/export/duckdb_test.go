package export_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/soundprediction/go-kag/pkg/export"
	"github.com/soundprediction/go-kag/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuckDBWriter(t *testing.T) {
	writer, err := export.NewDuckDBWriter(filepath.Join(t.TempDir(), "triplets.db"))
	require.NoError(t, err)
	defer writer.Close()

	ctx := context.Background()
	triplets := []types.Triplet{
		{Subject: "ml", Relation: "is_subfield_of", Object: "ai", Sentence: "ML is a subfield of AI.", Confidence: types.Float64Ptr(0.9), Level: 1},
		{Subject: "dl", Relation: "descends_from", Object: "ai", Level: 2},
	}

	require.NoError(t, writer.WriteTriplets(ctx, "doc-1", triplets))

	count, err := writer.CountTriplets(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = writer.CountTriplets(ctx, "doc-2")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	total, err := writer.CountTriplets(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestDuckDBWriterEmptyBatch(t *testing.T) {
	writer, err := export.NewDuckDBWriter(filepath.Join(t.TempDir(), "triplets.db"))
	require.NoError(t, err)
	defer writer.Close()

	assert.NoError(t, writer.WriteTriplets(context.Background(), "doc-1", nil))
}
