package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wakatop/wakatop/internal/stats"
)

func TestChartBuilderEmpty(t *testing.T) {
	t.Parallel()

	_, err := stats.NewChartBuilder("Coding time", nil, 10).Build()
	require.ErrorIs(t, err, stats.ErrEmptyChart)
}

func TestChartBuilderRendersPNG(t *testing.T) {
	t.Parallel()

	buf, err := stats.NewChartBuilder("Coding time", sampleLeaderboard(), 10).Build()
	require.NoError(t, err)

	pngMagic := []byte{0x89, 'P', 'N', 'G'}
	require.Greater(t, buf.Len(), len(pngMagic))
	assert.Equal(t, pngMagic, buf.Bytes()[:len(pngMagic)])
}
