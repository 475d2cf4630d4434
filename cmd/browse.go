package cmd

import (
	"github.com/lepinkainen/furnish/internal/datastore"
	"github.com/lepinkainen/furnish/internal/tui"
)

// BrowseCmd opens the interactive inventory browser
type BrowseCmd struct{}

var browseInventory = tui.Browse

func (b *BrowseCmd) Run() error {
	return withStore(func(store datastore.Store) error {
		return browseInventory(store)
	})
}
