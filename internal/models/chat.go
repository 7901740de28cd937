package models

// CartView is the cart snapshot returned to clients.
type CartView struct {
	Cart   Cart   `json:"cart"`
	Totals Totals `json:"totals"`
}

// ChatReply is the result of handling one user message.
type ChatReply struct {
	Reply       string   `json:"reply"`
	Cart        Cart     `json:"cart"`
	Totals      Totals   `json:"totals"`
	Suggestions []string `json:"suggestions"`
}

// CategoryGroup is one category and its items, in catalog order.
type CategoryGroup struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// MenuView is the full catalog plus its category grouping.
type MenuView struct {
	Menu       []MenuItem      `json:"menu"`
	Categories []CategoryGroup `json:"categories"`
}
