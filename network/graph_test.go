package network

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const deviceLevelJSON = `{
	"nodeToOutEdgesMap": {
		"r1": {"r2": []},
		"r2": {"r3": []}
	},
	"sourceNodes": ["r1"],
	"sinkNodes": ["r3"]
}`

func TestDeviceLevelGraph(t *testing.T) {
	g, err := ParseDeviceLevelGraph([]byte(deviceLevelJSON))
	require.NoError(t, err)
	require.True(t, g.IsSource("r1"))
	require.True(t, g.IsSink("r3"))
	require.False(t, g.IsSink("r1"))

	out := g.OutEdges("r1")
	require.Contains(t, out, "r2")
	require.Contains(t, out["r2"], "r2")

	alphabet := g.Alphabet()
	require.Contains(t, alphabet, "r1")
	require.Contains(t, alphabet, "r2")
	require.Contains(t, alphabet, "r3")
}

const linkLevelJSON = `{
	"nodeToOutEdgesMap": {
		"r1": {"r2": ["eth0"]},
		"r2": {"r3": []}
	},
	"sourceNodes": ["r1"],
	"sinkNodes": ["r3"]
}`

func TestLinkLevelGraph(t *testing.T) {
	g, err := ParseLinkLevelGraph([]byte(linkLevelJSON))
	require.NoError(t, err)

	out := g.OutEdges("r1")
	require.Contains(t, out["r2"], "r2|eth0")

	sinkOut := g.OutEdges("r2")
	require.Contains(t, sinkOut["r3"], "r3")

	alphabet := g.Alphabet()
	require.Contains(t, alphabet, "r2|eth0")
	require.Contains(t, alphabet, "r3")
	require.Contains(t, alphabet, "r1")
}

const deviceGroupJSON = `{
	"nodeToOutEdgesMap": {
		"r1|default": {"r2|default": []},
		"r2|default": {"r3|default": []}
	},
	"sourceNodes": ["r1|default"],
	"sinkNodes": ["r3|default"]
}`

func TestDeviceGroupLevelGraph(t *testing.T) {
	mapping := map[string]string{"r1": "groupA", "r2": "groupA", "r3": "groupB"}
	g, err := ParseDeviceGroupLevelGraph(mapping, []byte(deviceGroupJSON))
	require.NoError(t, err)

	require.True(t, g.IsSource("groupA|default"))
	require.True(t, g.IsSink("groupB|default"))

	out := g.OutEdges("groupA|default")
	require.Contains(t, out, "groupB|default")
}
