package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/simaogato/stockplan-backend/internal/api"
	"github.com/simaogato/stockplan-backend/internal/debounce"
)

// SearchDelay is how long typing must pause before the catalog is queried
const SearchDelay = 300 * time.Millisecond

// Searcher queries the stock catalog
type Searcher func(ctx context.Context, query string) ([]api.Stock, error)

// queryMsg is sent by the debouncer once typing pauses
type queryMsg string

// resultsMsg carries the results for query
type resultsMsg struct {
	query  string
	stocks []api.Stock
	err    error
}

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	promptStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// SearchModel is a type-ahead stock picker
type SearchModel struct {
	input    textinput.Model
	search   Searcher
	request  func(string) // debounced; delivers a queryMsg later
	results  []api.Stock
	cursor   int
	loading  bool
	err      error
	chosen   *api.Stock
	quitting bool
}

// NewSearchModel creates a picker; request is called with the input after every edit
func NewSearchModel(search Searcher, request func(string)) SearchModel {
	ti := textinput.New()
	ti.Placeholder = "type a company name or symbol"
	ti.Prompt = promptStyle.Render("search › ")
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	return SearchModel{
		input:   ti,
		search:  search,
		request: request,
	}
}

// Chosen returns the selected stock, or nil if the picker was cancelled
func (m SearchModel) Chosen() *api.Stock {
	return m.chosen
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.cursor < len(m.results) {
				chosen := m.results[m.cursor]
				m.chosen = &chosen
			}
			m.quitting = true
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if after := m.input.Value(); after != before {
			m.request(after)
			m.loading = strings.TrimSpace(after) != ""
			if !m.loading {
				m.results = nil
				m.cursor = 0
				m.err = nil
			}
		}
		return m, cmd

	case queryMsg:
		query := string(msg)
		// Stale: the input changed again after this query was scheduled
		if query != m.input.Value() || strings.TrimSpace(query) == "" {
			return m, nil
		}
		return m, m.searchCmd(query)

	case resultsMsg:
		if msg.query != m.input.Value() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.results = msg.stocks
		m.cursor = 0
		return m, nil
	}

	return m, nil
}

func (m SearchModel) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		stocks, err := m.search(ctx, query)
		return resultsMsg{query: query, stocks: stocks, err: err}
	}
}

func (m SearchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(lossStyle.Render("  error: " + m.err.Error()))
		b.WriteString("\n")
	case m.loading:
		b.WriteString(mutedStyle.Render("  searching…"))
		b.WriteString("\n")
	case strings.TrimSpace(m.input.Value()) == "":
		b.WriteString(mutedStyle.Render("  start typing to search the catalog"))
		b.WriteString("\n")
	case len(m.results) == 0:
		b.WriteString(mutedStyle.Render("  no matching stocks"))
		b.WriteString("\n")
	default:
		for i, s := range m.results {
			line := fmt.Sprintf("%-6s %s", s.Symbol, s.Name)
			if i == m.cursor {
				b.WriteString(cursorStyle.Render("› " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  ↑/↓ move · enter select · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// RunStockPicker runs the interactive picker until the user selects or cancels
func RunStockPicker(search Searcher) (*api.Stock, error) {
	var p *tea.Program
	request, cancel := debounce.Func(SearchDelay, func(query string) {
		p.Send(queryMsg(query))
	})
	defer cancel()

	p = tea.NewProgram(NewSearchModel(search, request))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("stock picker: %w", err)
	}

	return final.(SearchModel).Chosen(), nil
}
