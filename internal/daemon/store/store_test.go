package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/plugin"
	"github.com/grovetools/clueitems/progress"
)

const testCatalogueYAML = `
stash_units:
  - {id: UNIT_A, name: Unit A, object_id: 100, tier: easy}
items:
  - {id: 10, name: Bank ring, interfaces: [bank], stash_unit: UNIT_A}
  - {id: 20, name: Shared axe, interfaces: [bank, inventory]}
`

var _ plugin.Panel = (*Store)(nil)

func newStore(t *testing.T) *Store {
	t.Helper()
	cat, err := catalogue.Parse([]byte(testCatalogueYAML))
	require.NoError(t, err)
	return New(cat)
}

func TestNewStore(t *testing.T) {
	s := newStore(t)
	st := s.Get()

	require.Len(t, st.Items, 2)
	assert.Equal(t, ItemRow{ID: 10, Name: "Bank ring", StashUnit: "UNIT_A"}, st.Items[0])
	assert.Equal(t, 20, st.Items[1].ID)
	require.Len(t, st.StashUnits, 1)
	assert.Equal(t, StashRow{ID: "UNIT_A", Name: "Unit A", Tier: "easy"}, st.StashUnits[0])
	assert.Equal(t, Summary{Total: 2, Unknown: 2}, st.Summary)
}

func TestStoreItemUpdates(t *testing.T) {
	s := newStore(t)

	s.SetItemQuantity(10, 3)
	s.SetItemCollectionLogStatus(10, progress.StatusOwned)
	s.SetItemStatus(10, progress.StatusOwned)
	s.SetItemStatus(20, progress.StatusMissing)
	s.SetItemQuantity(999, 1)

	row, ok := s.Item(10)
	require.True(t, ok)
	assert.Equal(t, 3, row.Quantity)
	assert.Equal(t, progress.StatusOwned, row.CollectionLogStatus)
	assert.Equal(t, progress.StatusOwned, row.Status)

	_, ok = s.Item(999)
	assert.False(t, ok)

	assert.Equal(t, Summary{Total: 2, Owned: 1, Missing: 1}, s.Get().Summary)
}

func TestStoreStashAndDisclaimers(t *testing.T) {
	s := newStore(t)

	s.SetStashUnitStatus("UNIT_A", true, true)
	s.SetStashUnitStatus("NOPE", true, true)
	s.SetItemGridDisclaimer("login first")
	s.SetStashGridDisclaimer("login first")
	s.SetNavigationVisible(true)

	unit, ok := s.StashUnit("UNIT_A")
	require.True(t, ok)
	assert.True(t, unit.Built)
	assert.True(t, unit.Filled)

	st := s.Get()
	assert.Equal(t, "login first", st.ItemDisclaimer)
	assert.Equal(t, "login first", st.StashDisclaimer)
	assert.True(t, st.NavigationVisible)
	assert.Equal(t, 1, st.Summary.Built)
	assert.Equal(t, 1, st.Summary.Filled)

	s.SetItemGridDisclaimer("")
	assert.Empty(t, s.Get().ItemDisclaimer)
}

func TestStoreReset(t *testing.T) {
	s := newStore(t)
	s.SetItemQuantity(10, 3)
	s.SetItemStatus(10, progress.StatusOwned)
	s.SetStashUnitStatus("UNIT_A", true, false)
	s.SetNavigationVisible(true)

	s.Reset()

	st := s.Get()
	assert.Equal(t, 0, st.Items[0].Quantity)
	assert.Equal(t, progress.StatusUnknown, st.Items[0].Status)
	assert.False(t, st.StashUnits[0].Built)
	assert.True(t, st.NavigationVisible, "reset leaves navigation alone")
}

func TestStoreGetReturnsCopy(t *testing.T) {
	s := newStore(t)
	st := s.Get()
	st.Items[0].Quantity = 42

	row, _ := s.Item(10)
	assert.Equal(t, 0, row.Quantity)
}

func TestStoreSubscribe(t *testing.T) {
	s := newStore(t)
	ch := s.Subscribe()

	s.SetItemStatus(20, progress.StatusMissing)
	s.SetItemGridDisclaimer("hello")
	s.SetItemGridDisclaimer("hello")
	s.SetStashUnitStatus("UNIT_A", true, false)
	s.Reset()

	var got []Update
	for len(ch) > 0 {
		got = append(got, <-ch)
	}
	require.Len(t, got, 4)
	assert.Equal(t, UpdateItem, got[0].Type)
	assert.Equal(t, progress.StatusMissing, got[0].Item.Status)
	assert.Equal(t, Update{Type: UpdateDisclaimer, Grid: GridItems, Text: "hello"}, got[1])
	assert.Equal(t, UpdateStash, got[2].Type)
	assert.True(t, got[2].Stash.Built)
	assert.Equal(t, UpdateReset, got[3].Type)

	s.Unsubscribe(ch)
	s.Unsubscribe(ch)
	_, open := <-ch
	assert.False(t, open)
}

func TestStateJSON(t *testing.T) {
	s := newStore(t)
	s.SetItemStatus(10, progress.StatusOwned)

	data, err := json.Marshal(s.Get())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"owned"`)
	assert.Contains(t, string(data), `"collection_log_status":"unknown"`)
}
