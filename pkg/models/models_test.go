package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-shed/spatialplot-go/pkg/normalize"
)

func TestNormalizeRequest_Options(t *testing.T) {
	var req NormalizeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"source":"file:///a.png","pmax":95,"clip":true,"label":"dapi"}`), &req))

	opts := req.Options(normalize.DefaultOptions())
	assert.Equal(t, normalize.DefaultPMin, opts.PMin)
	assert.Equal(t, 95.0, opts.PMax)
	assert.Equal(t, normalize.DefaultEps, opts.Eps)
	assert.True(t, opts.Clip)
	assert.Equal(t, "dapi", opts.Label)
}

func TestNormalizeRequest_ExplicitZeroOverrides(t *testing.T) {
	var req NormalizeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"source":"x","pmin":0,"eps":0,"clip":false}`), &req))

	defaults := normalize.DefaultOptions().WithClip(true)
	opts := req.Options(defaults)
	assert.Equal(t, 0.0, opts.PMin)
	assert.Equal(t, 0.0, opts.Eps)
	assert.False(t, opts.Clip)
}

func TestRenderRequest_FlattensNormalizeFields(t *testing.T) {
	var req RenderRequest
	require.NoError(t, json.Unmarshal([]byte(`{"source":"s","pmin":1,"layout":"composite","seed":7}`), &req))
	assert.Equal(t, "s", req.Source)
	assert.Equal(t, 1.0, *req.PMin)
	assert.Equal(t, LayoutComposite, req.Layout)
	assert.Equal(t, uint64(7), *req.Seed)
}

func TestFinite(t *testing.T) {
	assert.Nil(t, Finite(math.NaN()))
	assert.Nil(t, Finite(math.Inf(-1)))
	require.NotNil(t, Finite(2.5))
	assert.Equal(t, 2.5, *Finite(2.5))

	data, err := json.Marshal(ChannelStats{Channel: 1, Min: Finite(math.NaN())})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"min":null`)
}
