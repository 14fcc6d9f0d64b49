package warranty

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDataset(t *testing.T) {
	src := &Sources{Ledger: ledgerFixture()}
	d := BuildDataset(src)

	assert.False(t, d.Credit.Empty())
	assert.False(t, d.Debit.Empty())
	assert.False(t, d.Arbitration.Empty())
	assert.True(t, d.CurrentMonth.Empty(), "missing source leaves the section empty")
	assert.True(t, d.Compensation.Empty())
	assert.True(t, d.PRApproval.Empty())
	assert.False(t, d.BuiltAt.IsZero())
}

func TestDatasetPayload(t *testing.T) {
	d := BuildDataset(&Sources{Ledger: ledgerFixture()})
	payload := d.Payload()

	for _, key := range []string{"credit", "debit", "arbitration", "currentMonth", "compensation", "prApproval"} {
		require.Contains(t, payload, key)
		assert.NotNil(t, payload[key], "%s must marshal as an array, not null", key)
	}

	credit, ok := payload["credit"].([]map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, credit)

	empty, ok := payload["compensation"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, empty, 0)
}

func TestDatasetSection(t *testing.T) {
	d := BuildDataset(&Sources{Ledger: ledgerFixture()})

	for _, exportType := range []string{"credit", "debit", "arbitration", "currentmonth", "compensation", "pr_approval"} {
		assert.NotNil(t, d.Section(exportType), "type %s", exportType)
	}
	assert.Nil(t, d.Section("bogus"))
	assert.Nil(t, d.Section("CREDIT"), "lookup is case sensitive")
}

func TestStore(t *testing.T) {
	store := NewStore()
	require.NotNil(t, store.Snapshot(), "a fresh store never hands out nil")
	assert.Equal(t, uint64(0), store.Snapshot().Version)

	first := BuildDataset(&Sources{Ledger: ledgerFixture()})
	old := store.Swap(first)
	assert.Equal(t, uint64(0), old.Version)
	assert.Equal(t, uint64(1), store.Snapshot().Version)
	assert.Same(t, first, store.Snapshot())

	second := BuildDataset(&Sources{})
	store.Swap(second)
	assert.Equal(t, uint64(2), store.Snapshot().Version)
	assert.Same(t, second, store.Snapshot())
}
