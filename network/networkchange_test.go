package network

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRelaGraphNC(t *testing.T) {
	dir := t.TempDir()
	ncJSON := `[
		{
			"ipTrafficKeys": [{"srcIp": "10.0.0.1", "dstIp": "10.0.0.2", "qos": 0}],
			"graphBefore": ` + linkLevelJSON + `,
			"graphAfter": ` + linkLevelJSON + `
		},
		{
			"ipTrafficKeys": [{"srcIp": "10.0.0.3", "dstIp": "10.0.0.4", "qos": 0}],
			"graphBefore": {"nodeToOutEdgesMap": "not-a-graph", "sourceNodes": [], "sinkNodes": []},
			"graphAfter": ` + linkLevelJSON + `
		}
	]`
	path := writeTemp(t, dir, "nc.json", ncJSON)

	nc, err := LoadRelaGraphNC(path, PrecisionInterface, "")
	require.NoError(t, err)
	require.Equal(t, 2, nc.CountFEC())
	require.Equal(t, "nc.json", nc.Name())

	fecs := nc.Iterate()
	require.Len(t, fecs, 2, "the malformed second FEC keeps its slot as a nil placeholder")
	require.NotNil(t, fecs[0])
	require.Nil(t, fecs[1], "the malformed FEC's index is skipped, not removed")

	fec := nc.GetFEC("10.0.0.2")
	require.NotNil(t, fec)
	require.Equal(t, []string{"10.0.0.2"}, fec.GetIPTrafficKeys())

	require.Nil(t, nc.GetFEC("10.0.0.4"))
}

func TestLoadRelaGraphNCDeviceGroupRequiresMapping(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "nc.json", "[]")
	_, err := LoadRelaGraphNC(path, PrecisionDeviceGroup, "")
	require.Error(t, err)
}
