package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/valter-silva-au/phaseline/pkg/models"
)

// Board panel indices.
const (
	panelTasks = iota
	panelDocuments
	panelBlockers
	panelCount
)

type boardModel struct {
	activePanel int
	width       int

	project models.ProjectContext
	counts  map[models.TaskStatus]int
	tasks   []models.Task
	loading bool
	loadErr error
}

// boardLoadedMsg carries loaded WBS data back to the model.
type boardLoadedMsg struct {
	project models.ProjectContext
	counts  map[models.TaskStatus]int
	tasks   []models.Task
	err     error
}

// Style definitions.
var (
	boardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	boardPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	boardActivePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	statusStylePending    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyleInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusStyleCompleted  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusStyleBlocked    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	boardHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive WBS board",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(newBoardModel())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func newBoardModel() boardModel {
	return boardModel{
		activePanel: panelTasks,
		loading:     true,
		counts:      make(map[models.TaskStatus]int),
	}
}

func loadBoard() tea.Msg {
	if err := WBSMgr.Load(); err != nil {
		return boardLoadedMsg{err: err}
	}
	status, err := WBSMgr.GetStatus()
	if err != nil {
		return boardLoadedMsg{err: err}
	}
	tasks, err := WBSMgr.GetAllTasks()
	if err != nil {
		return boardLoadedMsg{err: err}
	}
	return boardLoadedMsg{
		project: status.Project,
		counts:  status.Counts,
		tasks:   tasks,
	}
}

func (m boardModel) Init() tea.Cmd {
	return loadBoard
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadBoard
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case boardLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.project = msg.project
			m.counts = msg.counts
			m.tasks = msg.tasks
		}
		return m, nil
	}
	return m, nil
}

func (m boardModel) View() string {
	if m.loading {
		return "Loading WBS...\n"
	}
	if m.loadErr != nil {
		return fmt.Sprintf("Error: %v\n", m.loadErr)
	}

	title := boardTitleStyle.Render(fmt.Sprintf(" %s | %s ", m.project.Name, m.project.CurrentPhase))

	panels := []string{
		m.renderPanel(panelTasks, "Tasks", m.renderTasks()),
		m.renderPanel(panelDocuments, "Documents", m.renderDocuments()),
		m.renderPanel(panelBlockers, "Blockers", m.renderBlockers()),
	}

	help := boardHelpStyle.Render("tab: switch panel • r: reload • q: quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, panels...),
		help,
	)
}

func (m boardModel) renderPanel(index int, header, body string) string {
	style := boardPanelStyle
	if m.activePanel == index {
		style = boardActivePanelStyle
	}
	return style.Render(lipgloss.NewStyle().Bold(true).Render(header) + "\n\n" + body)
}

func (m boardModel) renderTasks() string {
	if len(m.tasks) == 0 {
		return "no tasks"
	}
	var b strings.Builder
	for _, t := range m.tasks {
		fmt.Fprintf(&b, "%s %-9s %s\n", statusGlyph(t.Status), t.ID, t.Title)
	}
	fmt.Fprintf(&b, "\n%d pending, %d in progress, %d blocked, %d done",
		m.counts[models.StatusPending], m.counts[models.StatusInProgress],
		m.counts[models.StatusBlocked], m.counts[models.StatusCompleted])
	return b.String()
}

func (m boardModel) renderDocuments() string {
	var b strings.Builder
	for _, t := range m.tasks {
		if t.Deliverable == "" {
			continue
		}
		fmt.Fprintf(&b, "%s %s\n", statusGlyph(t.Status), t.Deliverable)
	}
	if b.Len() == 0 {
		return "no document tasks"
	}
	return b.String()
}

func (m boardModel) renderBlockers() string {
	var b strings.Builder
	for _, t := range m.tasks {
		for _, blocker := range t.Blockers {
			fmt.Fprintf(&b, "%s %s: %s\n", statusGlyph(t.Status), t.ID, blocker.Reason)
		}
	}
	if b.Len() == 0 {
		return "no blockers"
	}
	return b.String()
}

func statusGlyph(s models.TaskStatus) string {
	switch s {
	case models.StatusPending:
		return statusStylePending.Render("○")
	case models.StatusInProgress:
		return statusStyleInProgress.Render("◐")
	case models.StatusCompleted:
		return statusStyleCompleted.Render("●")
	case models.StatusBlocked:
		return statusStyleBlocked.Render("✗")
	default:
		return "?"
	}
}
