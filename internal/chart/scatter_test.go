package chart

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"threat-tracker/internal/models"
	"threat-tracker/internal/risk"
)

func records() []models.ThreatRecord {
	return []models.ThreatRecord{
		{ID: 1, Impact: 2, Likelihood: 3, RiskScore: 6},
		{ID: 2, Impact: 5, Likelihood: 5, RiskScore: 25},
		{ID: 3, Impact: 1, Likelihood: 1, RiskScore: 1},
	}
}

func TestReferenceCircle(t *testing.T) {
	ref := ReferenceCircle([]float64{2, 5, 1}, []float64{3, 5, 1})

	assert.InDelta(t, 8.0/3, ref.CenterX, 1e-9)
	assert.InDelta(t, 3.0, ref.CenterY, 1e-9)

	// sample std: impact sqrt(13/3), likelihood 2
	want := (math.Sqrt(13.0/3) + 2) / 2
	assert.InDelta(t, want, ref.Radius, 1e-9)
}

func TestReferenceCircleSinglePoint(t *testing.T) {
	ref := ReferenceCircle([]float64{4}, []float64{2})
	assert.Equal(t, 4.0, ref.CenterX)
	assert.Equal(t, 2.0, ref.CenterY)
	assert.Zero(t, ref.Radius)
}

func TestCirclePoints(t *testing.T) {
	ref := Reference{CenterX: 3, CenterY: 3, Radius: 1.5}
	for _, p := range circle(ref) {
		d := math.Hypot(p.X-3, p.Y-3)
		assert.InDelta(t, 1.5, d, 1e-9)
	}
}

func TestScatterAxes(t *testing.T) {
	p, err := Scatter(records())
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.X.Min)
	assert.Equal(t, 5.0, p.X.Max)
	assert.Equal(t, 1.0, p.Y.Min)
	assert.Equal(t, 5.0, p.Y.Max)
}

func TestScatterEmpty(t *testing.T) {
	_, err := Scatter(nil)
	assert.ErrorIs(t, err, risk.ErrNoData)

	var buf bytes.Buffer
	assert.ErrorIs(t, WritePNG(&buf, nil, 4*vg.Inch), risk.ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, records(), 4*vg.Inch))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))

	buf.Reset()
	require.NoError(t, WritePNG(&buf, records()[:1], 3*vg.Inch))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}
