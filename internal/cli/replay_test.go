package cli

import (
	"bufio"
	"encoding/json"
	"strings"
	"testing"

	"github.com/oliverbestmann/semlog"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplay_Golden(t *testing.T) {
	stdout, _, err := execute(t, "replay", "testdata/scenarios/tabletop.yaml")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "replay_tabletop", []byte(stdout))
}

func TestReplay_JSON(t *testing.T) {
	stdout, _, err := execute(t, "replay", "--format", "json", "testdata/scenarios/tabletop.yaml")
	require.NoError(t, err)

	type jsonEvent struct {
		Kind           string           `json:"kind"`
		Pair           uint64           `json:"pair"`
		Episode        string           `json:"episode"`
		A              semlog.EntityRef `json:"a"`
		B              semlog.EntityRef `json:"b"`
		RelationVolume bool             `json:"relation_volume"`
	}

	var events []jsonEvent

	scanner := bufio.NewScanner(strings.NewReader(stdout))
	for scanner.Scan() {
		var ev jsonEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}

	require.Len(t, events, 12)

	assert.Equal(t, "contact-begin", events[0].Kind)
	assert.Equal(t, uint64(5), events[0].Pair)
	assert.Equal(t, "mug-01", events[0].A.SemanticId)
	assert.NotEmpty(t, events[0].Episode)

	assert.Equal(t, "support-begin", events[1].Kind)
	assert.Equal(t, "table-01", events[1].A.SemanticId)

	assert.True(t, events[7].RelationVolume)
	assert.True(t, events[7].B.IsRelationVolume)
}

func TestReplay_ContactsOnly(t *testing.T) {
	t.Setenv("SEMLOG_LISTEN_FOR_SUPPORT", "false")

	stdout, _, err := execute(t, "replay", "testdata/scenarios/tabletop.yaml")
	require.NoError(t, err)

	assert.NotContains(t, stdout, "support")
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 8)
}

func TestReplay_Errors(t *testing.T) {
	_, _, err := execute(t, "replay", "testdata/scenarios/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, "replay")
	require.Error(t, err)
}

func TestReplay_Verbose(t *testing.T) {
	_, stderr, err := execute(t, "replay", "-v", "testdata/scenarios/tabletop.yaml")
	require.NoError(t, err)

	assert.Contains(t, stderr, "Stats:")
	assert.Contains(t, stderr, "Ignore overlap with unannotated entity")
}
