package pages

import (
	"github.com/a-h/templ"

	"github.com/dmota/tagbank/internal/model"
	"github.com/dmota/tagbank/internal/web/templates/layout"
)

type HomeData struct {
	layout.PageData
	Players []model.Player
}

type PlayerData struct {
	layout.PageData
	Player model.Player
}

type BankLoginData struct {
	layout.PageData
}

type BankData struct {
	layout.PageData
	Players        []model.Player
	InitialBalance int64
	MemoryOnly     bool
}

type RegisterData struct {
	layout.PageData
	// Name is the pending player's name while a tag write is armed.
	Name    string
	Pending bool
}

// ManualTypes lists the transaction types a player can pick on the
// detail screen. Transfers and adjustments are excluded; those are
// produced by their own flows.
func ManualTypes() []model.TransactionType {
	return []model.TransactionType{
		model.TransactionReceiveBank,
		model.TransactionPayRent,
		model.TransactionBuyProperty,
		model.TransactionPayTax,
		model.TransactionBonus,
	}
}

func txAction(id model.PlayerID) templ.SafeURL {
	return templ.SafeURL("/players/" + string(id) + "/tx")
}

func transferAction(id model.PlayerID) templ.SafeURL {
	return templ.SafeURL("/players/" + string(id) + "/transfer")
}
