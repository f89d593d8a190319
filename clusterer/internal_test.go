// SPDX-License-Identifier: MIT
package clusterer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	require.Equal(t, "modcpm", ModCPM.String())
	require.Equal(t, "modmod", ModMod.String())
	require.Equal(t, "ikc", IKC.String())
	require.Equal(t, "unknown", Kind(99).String())
}

func TestSupportsK_OnlyIKC(t *testing.T) {
	require.False(t, Clusterer{Kind: ModCPM}.SupportsK())
	require.False(t, Clusterer{Kind: ModMod}.SupportsK())
	require.True(t, Clusterer{Kind: IKC}.SupportsK())
}

func TestValidate_ModCPMRequiresToolPath(t *testing.T) {
	err := Clusterer{Kind: ModCPM}.Validate()
	require.ErrorIs(t, err, ErrMissingParameter)

	require.NoError(t, Clusterer{Kind: ModCPM, ToolPath: "tool"}.Validate())
}

func TestValidate_ModModRejectsResolution(t *testing.T) {
	err := Clusterer{Kind: ModMod, ToolPath: "tool", Resolution: 1}.Validate()
	require.ErrorIs(t, err, ErrResolutionNotSupported)
}

func TestValidate_IKCRequiresKAndToolPath(t *testing.T) {
	err := Clusterer{Kind: IKC}.Validate()
	require.ErrorIs(t, err, ErrMissingParameter)

	err = Clusterer{Kind: IKC, K: 5}.Validate()
	require.ErrorIs(t, err, ErrMissingParameter)

	require.NoError(t, Clusterer{Kind: IKC, K: 5, ToolPath: "tool"}.Validate())
}

func TestParseIKCOutput_GroupsByCluster(t *testing.T) {
	hydrator := []string{"A", "B", "C", "D"}
	csvBody := "0,1,5,0.4\n1,1,5,0.4\n2,2,5,0.1\n3,2,5,0.1\n"

	clusters, err := parseIKCOutput(strings.NewReader(csvBody), "p", hydrator)
	require.NoError(t, err)
	require.Len(t, clusters, 2)
	require.Equal(t, "p1", clusters[0].Index)
	require.ElementsMatch(t, []string{"A", "B"}, clusters[0].Subset)
	require.Equal(t, "p2", clusters[1].Index)
	require.ElementsMatch(t, []string{"C", "D"}, clusters[1].Subset)
}

func TestParseIKCOutput_RejectsOutOfRangeNodeID(t *testing.T) {
	hydrator := []string{"A"}
	_, err := parseIKCOutput(strings.NewReader("5,1,5,0.1\n"), "p", hydrator)
	require.ErrorIs(t, err, ErrToolFailed)
}

func TestParseIKCOutput_SkipsShortRows(t *testing.T) {
	hydrator := []string{"A", "B"}
	clusters, err := parseIKCOutput(strings.NewReader("0\n1,1,5,0.2\n"), "p", hydrator)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	require.ElementsMatch(t, []string{"B"}, clusters[0].Subset)
}
