package execution_test

import (
	"testing"
	"time"

	"github.com/tidemark/tradecore/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciliation(t *testing.T) {
	t.Run("unanswered create is queried once then force-reset", testSweepCreate)
	t.Run("unanswered cancel is queried by order id then force-reset", testSweepCancel)
	t.Run("fresh pending entries are left alone", testSweepFreshEntries)
}

func testSweepCreate(t *testing.T) {
	te := newTestEngine(t)
	te.feedBalances("0.01", "0")
	te.feedBook("30000", "29990")
	require.Len(t, te.pub.creates(), 1)
	require.Equal(t, 1, te.Status().PendingCreates)

	// between FirstTimeout and SecondTimeout: exactly one status query, by
	// correlation id since the gateway never told us the order id
	te.clock.advance(11 * time.Second)
	te.feedBook("30000", "29990")
	queries := te.pub.statusQueries()
	require.Len(t, queries, 1)
	assert.Equal(t, "cid-1", queries[0].CorrelationID)
	assert.Empty(t, queries[0].OrderID)

	// repeated cycles inside the window do not query again
	te.clock.advance(4 * time.Second)
	te.feedBook("30000", "29990")
	te.clock.advance(4 * time.Second)
	te.feedBook("30000", "29990")
	assert.Len(t, te.pub.statusQueries(), 1)
	assert.True(t, te.sideStatus("sell").HasOrder)

	// past SecondTimeout: the side is reset, the pending entry dropped, and
	// the same cycle is free to quote again
	te.clock.advance(13 * time.Second)
	te.feedBook("30000", "29990")
	creates := te.pub.creates()
	require.Len(t, creates, 2)
	assert.Equal(t, "cid-2", creates[1].CorrelationID)
	assert.Equal(t, 1, te.Status().PendingCreates)
}

func testSweepCancel(t *testing.T) {
	te := newTestEngine(t)
	te.feedBalances("0.01", "0")
	te.feedBook("30000", "29990")
	confirmCreation(te, "55", "cid-1", types.SideSell)
	require.Zero(t, te.Status().PendingCreates)

	te.clock.advance(time.Second)
	te.feedBook("30500", "30490")
	require.Len(t, te.pub.cancels(), 1)
	require.Equal(t, 1, te.Status().PendingCancels)

	// cancels are tracked by the order id the gateway assigned
	te.clock.advance(11 * time.Second)
	te.feedBook("30500", "30490")
	queries := te.pub.statusQueries()
	require.Len(t, queries, 1)
	assert.Equal(t, "55", queries[0].OrderID)
	assert.Empty(t, queries[0].CorrelationID)
	assert.True(t, te.sideStatus("sell").HasOrder)

	te.clock.advance(21 * time.Second)
	te.feedBook("30500", "30490")
	assert.Zero(t, te.Status().PendingCancels)
	// the reset frees the side and the balance is still there, so a new
	// order goes out within the same cycle
	assert.Len(t, te.pub.creates(), 2)
}

func testSweepFreshEntries(t *testing.T) {
	te := newTestEngine(t)
	te.feedBalances("0.01", "0")
	te.feedBook("30000", "29990")
	require.Len(t, te.pub.creates(), 1)

	// well inside FirstTimeout: nothing to do
	te.clock.advance(5 * time.Second)
	te.feedBook("30000", "29990")
	assert.Empty(t, te.pub.statusQueries())
	assert.Equal(t, 1, te.Status().PendingCreates)
}
