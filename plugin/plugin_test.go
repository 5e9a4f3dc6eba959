package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/inventory"
	"github.com/grovetools/clueitems/progress"
	"github.com/grovetools/clueitems/testutil"
)

const testCatalogueYAML = `
stash_units:
  - {id: UNIT_A, name: Unit A, object_id: 100, tier: easy}
  - {id: UNIT_B, name: Unit B, object_id: 200, tier: hard}
items:
  - {id: 10, name: Bank ring, interfaces: [bank], stash_unit: UNIT_A}
  - {id: 20, name: Shared axe, interfaces: [bank, inventory]}
  - {id: 40, name: Anywhere boots, stash_unit: UNIT_B}
`

type fakeClient struct {
	state   GameState
	built   map[int]bool
	scripts [][]int
}

func (c *fakeClient) GameState() GameState { return c.state }

func (c *fakeClient) RunScript(script int, args ...int) int {
	c.scripts = append(c.scripts, append([]int{script}, args...))
	if script == ScriptStashUnitCheck && len(args) > 0 && c.built[args[0]] {
		return 1
	}
	return 0
}

type stashStatus struct {
	Built, Filled bool
}

type recordingPanel struct {
	resets          int
	quantities      map[int]int
	collectionLog   map[int]progress.Status
	statuses        map[int]progress.Status
	stash           map[string]stashStatus
	itemDisclaimer  string
	stashDisclaimer string
	navigation      bool
}

func newRecordingPanel() *recordingPanel {
	return &recordingPanel{
		quantities:    map[int]int{},
		collectionLog: map[int]progress.Status{},
		statuses:      map[int]progress.Status{},
		stash:         map[string]stashStatus{},
	}
}

func (p *recordingPanel) Reset() {
	p.resets++
	p.quantities = map[int]int{}
	p.collectionLog = map[int]progress.Status{}
	p.statuses = map[int]progress.Status{}
	p.stash = map[string]stashStatus{}
}

func (p *recordingPanel) SetItemQuantity(id int, quantity int) { p.quantities[id] = quantity }

func (p *recordingPanel) SetItemCollectionLogStatus(id int, status progress.Status) {
	p.collectionLog[id] = status
}

func (p *recordingPanel) SetItemStatus(id int, status progress.Status) { p.statuses[id] = status }

func (p *recordingPanel) SetStashUnitStatus(unitID string, built, filled bool) {
	p.stash[unitID] = stashStatus{built, filled}
}

func (p *recordingPanel) SetItemGridDisclaimer(text string)  { p.itemDisclaimer = text }
func (p *recordingPanel) SetStashGridDisclaimer(text string) { p.stashDisclaimer = text }
func (p *recordingPanel) SetNavigationVisible(visible bool)  { p.navigation = visible }

type harness struct {
	plugin *Plugin
	client *fakeClient
	panel  *recordingPanel
	store  *testutil.MemoryStore
	thread *ClientThread
}

func newHarness(t *testing.T, persisted map[string]string) *harness {
	t.Helper()
	cat, err := catalogue.Parse([]byte(testCatalogueYAML))
	require.NoError(t, err)

	h := &harness{
		client: &fakeClient{state: GameStateLoginScreen, built: map[int]bool{}},
		panel:  newRecordingPanel(),
		store:  testutil.NewMemoryStore(persisted),
		thread: NewClientThread(),
	}
	h.plugin = New(Options{
		Catalogue: cat,
		Client:    h.client,
		Thread:    h.thread,
		Panel:     h.panel,
		Settings:  config.NewManager(h.store),
	})
	h.plugin.StartUp()
	h.thread.Drain()
	return h
}

func (h *harness) login() {
	h.client.state = GameStateLoggedIn
	h.plugin.OnGameStateChanged(GameStateLoggedIn)
	h.thread.Drain()
}

func (h *harness) setConfig(key, value string) {
	h.store.Set(config.Group+"."+key, value)
	h.plugin.OnConfigChanged(key, value)
	h.thread.Drain()
}

func TestStartUpOnLoginScreen(t *testing.T) {
	h := newHarness(t, nil)

	assert.Equal(t, 1, h.panel.resets)
	assert.True(t, h.panel.navigation)
	assert.Equal(t, LoginDisclaimer, h.panel.itemDisclaimer)
	assert.Equal(t, LoginDisclaimer, h.panel.stashDisclaimer)
	assert.Empty(t, h.client.scripts)
}

func TestStartUpHonoursShowNavigation(t *testing.T) {
	h := newHarness(t, map[string]string{"emote-clue-items.ShowNavigation": "false"})
	assert.False(t, h.panel.navigation)

	h.plugin.OnConfigChanged(config.KeyShowNavigation, "true")
	assert.False(t, h.panel.navigation, "config changes run on the client thread")
	h.thread.Drain()
	assert.True(t, h.panel.navigation)

	h.plugin.ShutDown()
	assert.False(t, h.panel.navigation)
}

func TestLoginShowsUnopenedInterfaceNotification(t *testing.T) {
	h := newHarness(t, nil)
	h.login()

	assert.Equal(t, "Not all items may be displayed. Please open your bank, inventory, equipment first.", h.panel.itemDisclaimer)
	assert.Empty(t, h.panel.stashDisclaimer)
}

func TestStartUpWhileLoggedIn(t *testing.T) {
	cat, err := catalogue.Parse([]byte(testCatalogueYAML))
	require.NoError(t, err)
	client := &fakeClient{state: GameStateLoggedIn}
	panel := newRecordingPanel()
	thread := NewClientThread()
	p := New(Options{
		Catalogue: cat,
		Client:    client,
		Thread:    thread,
		Panel:     panel,
		Settings:  config.NewManager(testutil.NewMemoryStore(map[string]string{"emote-clue-items.NotifyUnopenedInterfaces": "false"})),
	})

	p.StartUp()
	thread.Drain()

	assert.Empty(t, panel.itemDisclaimer)
	assert.Empty(t, panel.stashDisclaimer)
}

func TestContainerChangesUpdatePanel(t *testing.T) {
	h := newHarness(t, nil)
	h.login()

	h.plugin.OnItemContainerChanged(inventory.ContainerBank, []inventory.Item{
		{ID: 10, Quantity: 1},
		{ID: 20, Quantity: 2},
		{ID: 999, Quantity: 5},
	})
	h.thread.Drain()

	assert.Equal(t, 1, h.panel.quantities[10])
	assert.Equal(t, progress.StatusOwned, h.panel.statuses[10])
	assert.Equal(t, progress.StatusOwned, h.panel.collectionLog[10])
	assert.Equal(t, 2, h.panel.quantities[20])
	assert.Equal(t, progress.StatusUnknown, h.panel.statuses[20], "inventory not opened yet")
	assert.Equal(t, "Not all items may be displayed. Please open your inventory, equipment first.", h.panel.itemDisclaimer)

	h.plugin.OnItemContainerChanged(inventory.ContainerInventory, nil)
	h.plugin.OnItemContainerChanged(inventory.ContainerEquipment, nil)
	h.thread.Drain()

	assert.Equal(t, progress.StatusOwned, h.panel.statuses[20])
	assert.Equal(t, progress.StatusMissing, h.panel.statuses[40])
	assert.Empty(t, h.panel.itemDisclaimer)
}

func TestUnknownContainerIsIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.login()

	h.plugin.OnItemContainerChanged(12345, []inventory.Item{{ID: 10, Quantity: 1}})
	h.thread.Drain()

	assert.Empty(t, h.panel.quantities)
	assert.Equal(t, []string{"bank", "inventory", "equipment"}, h.plugin.Engine().UnopenedInterfaces())
}

func TestStashBuildCheckRunsOnceOnFirstTick(t *testing.T) {
	h := newHarness(t, nil)
	h.client.built[100] = true
	h.login()
	assert.Empty(t, h.client.scripts, "check waits for the next tick")

	h.plugin.OnGameTick()
	h.thread.Drain()
	h.plugin.OnGameTick()
	h.thread.Drain()

	assert.Equal(t, [][]int{
		{ScriptStashUnitCheck, 100, 0, 0, 0},
		{ScriptStashUnitCheck, 200, 0, 0, 0},
	}, h.client.scripts)
	assert.Equal(t, stashStatus{Built: true}, h.panel.stash["UNIT_A"])
	assert.Equal(t, stashStatus{}, h.panel.stash["UNIT_B"])
	assert.True(t, h.plugin.Engine().StashUnitBuilt("UNIT_A"))
}

func TestChatMessageTriggersBuildCheck(t *testing.T) {
	h := newHarness(t, nil)
	h.login()

	h.plugin.OnChatMessage(ChatGameMessage, "You build a STASH unit.")
	h.plugin.OnChatMessage(ChatSpam, "You build a STASH unit")
	h.thread.Drain()
	assert.Empty(t, h.client.scripts)

	h.client.built[200] = true
	h.plugin.OnChatMessage(ChatSpam, "You build a STASH unit.")
	h.thread.Drain()
	assert.Len(t, h.client.scripts, 2)
	assert.True(t, h.plugin.Engine().StashUnitBuilt("UNIT_B"))

	h.plugin.OnChatMessage(ChatBroadcast, "You build a STASH unit.")
	h.thread.Drain()
	assert.Len(t, h.client.scripts, 4)
}

func TestStashFilledRequiresBuiltUnit(t *testing.T) {
	h := newHarness(t, nil)
	h.login()
	h.plugin.OnItemContainerChanged(inventory.ContainerBank, nil)
	h.thread.Drain()
	require.Equal(t, progress.StatusMissing, h.panel.statuses[10])

	h.plugin.OnStashUnitFilledChanged("UNIT_A", true)
	assert.False(t, h.plugin.Engine().StashUnitFilled("UNIT_A"), "unit is not built this session")

	h.client.built[100] = true
	h.plugin.OnGameTick()
	h.thread.Drain()
	h.plugin.OnStashUnitFilledChanged("UNIT_A", true)

	assert.True(t, h.plugin.Engine().StashUnitFilled("UNIT_A"))
	assert.Equal(t, progress.StatusOwned, h.panel.statuses[10])
	assert.Equal(t, stashStatus{Built: true, Filled: true}, h.panel.stash["UNIT_A"])
	v, ok, _ := h.store.Get("emote-clue-items.StashUnitFilled.UNIT_A")
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestTrackingConfigChanges(t *testing.T) {
	h := newHarness(t, nil)
	h.login()

	h.setConfig(config.KeyTrackEquipment, "false")
	assert.Equal(t, "Not all items may be displayed. Please open your bank, inventory first.", h.panel.itemDisclaimer)

	h.setConfig(config.KeyTrackGroupStorage, "true")
	assert.Equal(t, "Not all items may be displayed. Please open your bank, inventory, group storage first.", h.panel.itemDisclaimer)

	h.setConfig(config.KeyTrackBank, "false")
	h.setConfig(config.KeyTrackInventory, "false")
	assert.Equal(t, "Not all items may be displayed. Please open your group storage first.", h.panel.itemDisclaimer)
	assert.Equal(t, progress.StatusUnknown, h.panel.statuses[10])
}

func TestNotifyUnopenedInterfacesToggle(t *testing.T) {
	h := newHarness(t, nil)
	h.login()
	require.NotEmpty(t, h.panel.itemDisclaimer)

	h.setConfig(config.KeyNotifyUnopenedInterfaces, "false")
	assert.Empty(t, h.panel.itemDisclaimer)

	h.setConfig(config.KeyNotifyUnopenedInterfaces, "true")
	assert.NotEmpty(t, h.panel.itemDisclaimer)
}

func TestFilterInStashConfigChange(t *testing.T) {
	h := newHarness(t, map[string]string{"emote-clue-items.StashUnitFilled.UNIT_A": "true"})
	h.login()
	h.plugin.OnItemContainerChanged(inventory.ContainerBank, nil)
	h.thread.Drain()
	require.Equal(t, progress.StatusOwned, h.panel.statuses[10])

	h.setConfig(config.KeyFilterInStash, "false")
	assert.Equal(t, progress.StatusMissing, h.panel.statuses[10])
}

func TestUnrelatedConfigKeysAreIgnored(t *testing.T) {
	h := newHarness(t, nil)
	h.login()
	before := h.panel.itemDisclaimer

	h.setConfig(config.KeyHighlightShop, "true")
	h.setConfig("SomethingElse", "false")

	assert.Equal(t, before, h.panel.itemDisclaimer)
	assert.True(t, h.plugin.ShouldHighlight(catalogue.Shop, 40))
}

func TestDismissNotification(t *testing.T) {
	h := newHarness(t, nil)
	h.login()
	require.NotEmpty(t, h.panel.itemDisclaimer)

	h.plugin.DismissUnopenedInterfaceNotification()
	assert.Empty(t, h.panel.itemDisclaimer)

	h.plugin.OnItemContainerChanged(inventory.ContainerBank, nil)
	h.thread.Drain()
	assert.Empty(t, h.panel.itemDisclaimer, "dismissal lasts for the session")

	h.client.state = GameStateLoginScreen
	h.plugin.OnGameStateChanged(GameStateLoginScreen)
	h.login()
	assert.NotEmpty(t, h.panel.itemDisclaimer, "a new session shows it again")
}

func TestLoginScreenResets(t *testing.T) {
	h := newHarness(t, nil)
	h.login()
	h.plugin.OnItemContainerChanged(inventory.ContainerBank, []inventory.Item{{ID: 10, Quantity: 1}})
	h.thread.Drain()
	require.Equal(t, progress.StatusOwned, h.plugin.Engine().Item(10).Status)

	h.client.state = GameStateLoginScreen
	h.plugin.OnGameStateChanged(GameStateLoginScreen)
	h.plugin.OnGameTick()
	h.thread.Drain()

	assert.Equal(t, 2, h.panel.resets)
	assert.Empty(t, h.panel.statuses)
	assert.Equal(t, progress.ItemState{}, h.plugin.Engine().Item(10))
	assert.Equal(t, LoginDisclaimer, h.panel.itemDisclaimer)
	assert.Equal(t, LoginDisclaimer, h.panel.stashDisclaimer)
	assert.Empty(t, h.client.scripts, "pending build check is cancelled")
}

func TestNotificationSkippedWhenNotLoggedIn(t *testing.T) {
	h := newHarness(t, nil)
	h.plugin.OnItemContainerChanged(inventory.ContainerBank, nil)
	h.thread.Drain()
	assert.Equal(t, LoginDisclaimer, h.panel.itemDisclaimer)
}
