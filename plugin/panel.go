package plugin

import "github.com/grovetools/clueitems/progress"

// Panel is the collection log view the plugin keeps up to date.
// An empty disclaimer text removes the disclaimer.
type Panel interface {
	Reset()
	SetItemQuantity(itemID int, quantity int)
	SetItemCollectionLogStatus(itemID int, status progress.Status)
	SetItemStatus(itemID int, status progress.Status)
	SetStashUnitStatus(unitID string, built, filled bool)
	SetItemGridDisclaimer(text string)
	SetStashGridDisclaimer(text string)
	SetNavigationVisible(visible bool)
}
