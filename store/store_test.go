package store

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shwdsun/secure-multipath-transmission/optimizer"
	"github.com/shwdsun/secure-multipath-transmission/strategy"
	"github.com/shwdsun/secure-multipath-transmission/topology"
)

func sampleRecord() Record {
	return Record{
		TopologyDigest: "deadbeef",
		Phase:          "I",
		Sigma:          0.6,
		Tau:            0.01,
		NMax:           20,
		Tuples: []strategy.SAVTuple{
			{N: []int{7, 0}, T: 7},
			{N: []int{4, 1}, T: 5},
		},
		OptimizerResult: &optimizer.Result{
			Status:     optimizer.StatusOptimal,
			Allocation: map[int]int{0: 2, 1: 1},
			Objective:  3,
		},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNDJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)
	require.NoError(t, w.Write(sampleRecord()))
	require.NoError(t, w.Write(sampleRecord()))
	require.NoError(t, w.Flush())

	records, err := ReadNDJSON(&buf)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, sampleRecord().TopologyDigest, records[0].TopologyDigest)
	assert.Equal(t, sampleRecord().Tuples, records[0].Tuples)
	require.NotNil(t, records[0].OptimizerResult)
	assert.Equal(t, optimizer.StatusOptimal, records[0].OptimizerResult.Status)
	assert.Equal(t, 3, records[0].OptimizerResult.Objective)
}

func TestReadNDJSONSkipsBlankLines(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)
	require.NoError(t, w.Write(sampleRecord()))
	require.NoError(t, w.Flush())
	buf.WriteString("\n\n")

	records, err := ReadNDJSON(&buf)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestReadNDJSONRejectsMalformedLine(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("not json\n")
	_, err := ReadNDJSON(&buf)
	assert.Error(t, err)
}

func TestInMemoryStoreSaveLoad(t *testing.T) {
	s := NewInMemoryStore()
	id, err := s.Save(sampleRecord())
	require.NoError(t, err)
	assert.NotZero(t, id)

	loaded, ok, err := s.Load(id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sampleRecord().Tuples, loaded.Tuples)
	assert.Equal(t, id, loaded.ID)
}

func TestInMemoryStoreLoadMissing(t *testing.T) {
	s := NewInMemoryStore()
	_, ok, err := s.Load(999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryStoreListByDigestOrdersNewestFirst(t *testing.T) {
	s := NewInMemoryStore()
	older := sampleRecord()
	older.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleRecord()
	newer.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.Save(older)
	require.NoError(t, err)
	_, err = s.Save(newer)
	require.NoError(t, err)

	records, err := s.ListByDigest("deadbeef")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
}

func TestInMemoryStoreListByDigestFiltersOtherDigests(t *testing.T) {
	s := NewInMemoryStore()
	rec := sampleRecord()
	rec.TopologyDigest = "other"
	_, err := s.Save(rec)
	require.NoError(t, err)

	records, err := s.ListByDigest("deadbeef")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTopologyDigestDeterministicAcrossMapOrder(t *testing.T) {
	adj := topology.AdjacencyList{
		1: {2, 3},
		2: {4},
		3: {4},
		4: nil,
	}
	topo1 := topology.New(adj, 1, 4)
	topo1.NodeParams[2] = topology.NodeParams{PInt: 0.1}
	topo1.NodeParams[3] = topology.NodeParams{PInt: 0.2}

	topo2 := topology.New(adj, 1, 4)
	topo2.NodeParams[3] = topology.NodeParams{PInt: 0.2}
	topo2.NodeParams[2] = topology.NodeParams{PInt: 0.1}

	d1, err := TopologyDigest(topo1)
	require.NoError(t, err)
	d2, err := TopologyDigest(topo2)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)
}

func TestTopologyDigestDiffersOnParameterChange(t *testing.T) {
	adj := topology.AdjacencyList{1: {2}, 2: {3}, 3: nil}
	topo1 := topology.New(adj, 1, 3)
	topo1.NodeParams[2] = topology.NodeParams{PInt: 0.1}
	topo2 := topology.New(adj, 1, 3)
	topo2.NodeParams[2] = topology.NodeParams{PInt: 0.2}

	d1, err := TopologyDigest(topo1)
	require.NoError(t, err)
	d2, err := TopologyDigest(topo2)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d2)
}
