package layout

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // info, success, error
	Message string
}

// PageData is the common data for every page
type PageData struct {
	Title      string
	Flash      *FlashMessage
	BankAuthed bool
}
