package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meru/pkg/binomial"
	"github.com/matzehuels/meru/pkg/pingala"
	"github.com/matzehuels/meru/pkg/scene"
	"github.com/matzehuels/meru/pkg/triangle"
)

var (
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGold).Underline(true)
	tabStyle       = lipgloss.NewStyle().Foreground(colorGray)
	helpStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreMode is one tab of the explorer.
type exploreMode int

const (
	modeTriangle exploreMode = iota
	modePatterns
	modeTree
)

var exploreModes = []struct {
	name string
	max  int
}{
	{"Meru Prastara", 16},
	{"Pingala", 6},
	{"Binomial tree", 8},
}

// =============================================================================
// ExploreModel - Interactive triangle, pattern and tree browser
// =============================================================================

// ExploreModel is the bubbletea model behind `meru explore`. Each mode
// keeps its own size so switching tabs does not lose position.
type ExploreModel struct {
	Mode   exploreMode
	Sizes  [3]int
	Parity bool
	Width  int
}

// NewExploreModel starts on the triangle tab.
func NewExploreModel(rows int) ExploreModel {
	m := ExploreModel{Sizes: [3]int{5, 3, 3}}
	if rows > 0 {
		m.Sizes[modeTriangle] = min(rows, exploreModes[modeTriangle].max)
	}
	return m
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "right", "l", "+":
			if m.Sizes[m.Mode] < exploreModes[m.Mode].max {
				m.Sizes[m.Mode]++
			}
		case "down", "j", "left", "h", "-":
			if m.Sizes[m.Mode] > 1 {
				m.Sizes[m.Mode]--
			}
		case "tab":
			m.Mode = (m.Mode + 1) % exploreMode(len(exploreModes))
		case "shift+tab":
			m.Mode = (m.Mode + exploreMode(len(exploreModes)) - 1) % exploreMode(len(exploreModes))
		case "p":
			m.Parity = !m.Parity
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	}
	return m, nil
}

func (m ExploreModel) View() string {
	var b strings.Builder

	tabs := make([]string, len(exploreModes))
	for i, mode := range exploreModes {
		if exploreMode(i) == m.Mode {
			tabs[i] = tabActiveStyle.Render(mode.name)
		} else {
			tabs[i] = tabStyle.Render(mode.name)
		}
	}
	b.WriteString(strings.Join(tabs, "   "))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ size  tab switch  p parity  q quit"))
	b.WriteString("\n\n")

	body, err := m.body()
	if err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + err.Error())
	} else {
		b.WriteString(body)
	}
	return b.String()
}

func (m ExploreModel) body() (string, error) {
	n := m.Sizes[m.Mode]
	switch m.Mode {
	case modePatterns:
		seqs, err := pingala.Enumerate(n)
		if err != nil {
			return "", err
		}
		counts, err := pingala.CountByLong(n)
		if err != nil {
			return "", err
		}
		patterns := make([]string, len(seqs))
		for i, s := range seqs {
			patterns[i] = s.String()
		}
		return fmt.Sprintf("length %d, %d patterns\n\n", n, len(seqs)) + formatPatterns(patterns, counts), nil

	case modeTree:
		sc, err := scene.Generate(scene.Params{Kind: scene.KindTree, Depth: n}.WithDefaults())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("depth %d, %d nodes, %d edges\n\n", n, len(sc.Nodes), len(sc.Edges)) +
			formatLabels(sc.Labels, binomial.DefaultPrecision), nil

	default:
		rows, err := triangle.Build(n)
		if err != nil {
			return "", err
		}
		data := make([][]uint64, len(rows))
		for i, r := range rows {
			data[i] = r
		}
		return fmt.Sprintf("%d rows\n\n", n) + formatTriangle(data, m.Parity), nil
	}
}

// =============================================================================
// Command
// =============================================================================

func (c *CLI) exploreCommand() *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the triangle, Pingala patterns and binomial trees interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := tea.NewProgram(NewExploreModel(rows), tea.WithContext(cmd.Context()), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
	cmd.Flags().IntVarP(&rows, "rows", "n", 5, "initial triangle rows")
	return cmd
}
