package bookwizard

import "charm.land/bubbles/v2/key"

type keyMap struct {
	Quit    key.Binding
	Back    key.Binding
	Next    key.Binding
	Reset   key.Binding
	Editor  key.Binding
	Submit  key.Binding
	Finish  key.Binding
	Another key.Binding
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Next:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "next")),
	Reset:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "start over")),
	Editor:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "open $EDITOR")),
	Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send request")),
	Finish:  key.NewBinding(key.WithKeys("enter", "q"), key.WithHelp("enter", "close")),
	Another: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "book another")),
}

// hints flattens bindings into renderHintBar pairs.
func hints(bindings ...key.Binding) []string {
	pairs := make([]string, 0, len(bindings)*2)
	for _, b := range bindings {
		h := b.Help()
		pairs = append(pairs, h.Key, h.Desc)
	}
	return pairs
}
