package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kozaktomas/pose-detector/internal/pose"
)

func TestCounts(t *testing.T) {
	c := NewCounts()
	c.Add(pose.TPose)
	c.Add(pose.TPose)
	c.Add(pose.Sitting)
	c.Skipped = 4

	assert.Equal(t, 2, c.Get(pose.TPose))
	assert.Equal(t, 1, c.Get(pose.Sitting))
	assert.Equal(t, 0, c.Get(pose.Heart))
	assert.Equal(t, 3, c.Classified())
}

func TestLabelHistogram(t *testing.T) {
	c := NewCounts()
	c.Add(pose.HandsOnHips)
	c.Add(pose.Unknown)
	c.Skipped = 2

	var buf bytes.Buffer
	require.NoError(t, LabelHistogram(&buf, "Session summary", c))

	html := buf.String()
	assert.True(t, strings.Contains(html, "<html"), "renders a full page")
	assert.Contains(t, html, "Session summary")
	for _, l := range pose.Labels() {
		assert.Contains(t, html, l.String())
	}
	assert.Contains(t, html, "Skipped")
}

func TestLabelHistogram_NoSkippedBar(t *testing.T) {
	c := NewCounts()
	c.Add(pose.Waving)

	var buf bytes.Buffer
	require.NoError(t, LabelHistogram(&buf, "Batch", c))
	assert.NotContains(t, buf.String(), "\"Skipped\"")
}
