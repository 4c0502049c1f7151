package chart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/cropinsights/internal/aggregate"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func series() []aggregate.Point {
	return []aggregate.Point{{Key: "Patna", Value: 70}, {Key: "Gaya", Value: 10}}
}

func TestRender_PNG(t *testing.T) {
	for _, k := range []Kind{KindDistrict, KindShare, KindTrend} {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, k, series(), Options{WidthIn: 4, HeightIn: 3}), string(k))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature), "%s: not a PNG", k)
	}
}

func TestRender_SVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, KindTrend, series(), Options{Format: "svg"}))
	assert.True(t, strings.Contains(buf.String(), "<svg"))
}

func TestRender_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, KindDistrict, nil, Options{})
	assert.True(t, errors.Is(err, ErrNoData))

	err = Render(&buf, KindDistrict, series(), Options{Format: "docx"})
	assert.Error(t, err)
}

func TestBuild_Titles(t *testing.T) {
	p, err := Build(KindShare, series())
	require.NoError(t, err)
	assert.Equal(t, "Crop Share of Production", p.Title.Text)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Trend ")
	require.NoError(t, err)
	assert.Equal(t, KindTrend, k)
	_, err = ParseKind("pie")
	assert.Error(t, err)
}
