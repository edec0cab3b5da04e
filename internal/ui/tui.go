// Package ui provides an optional read-only terminal viewer.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/task-tracker/internal/task"
)

// Source supplies the task list shown by the viewer.
type Source interface {
	Snapshot() (task.List, error)
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithRefreshInterval sets how often the task file is reloaded.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(m *tuiModel) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// WithTaskFile sets the path shown in the configuration block.
func WithTaskFile(path string) TUIOption {
	return func(m *tuiModel) {
		m.taskFile = path
	}
}

// RunTUI starts the viewer on out, which must be a terminal.
func RunTUI(ctx context.Context, src Source, out io.Writer, opts ...TUIOption) error {
	if !IsTTY(out) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newTUIModel(src, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	src          Source
	taskFile     string
	loadErr      error
	data         *tuiData
	tickInterval time.Duration
	filter       task.Status // zero shows everything
	showHelp     bool
}

type tuiData struct {
	counts  map[task.Status]int
	current *task.Task
	next    *task.Task
	tasks   task.List
	recent  task.List
}

type tickMsg time.Time

func newTUIModel(src Source, opts ...TUIOption) *tuiModel {
	m := &tuiModel{
		src:          src,
		tickInterval: time.Second,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "1":
			m.filter = task.StatusTodo
		case "2":
			m.filter = task.StatusInProgress
		case "3":
			m.filter = task.StatusDone
		case "0":
			m.filter = 0
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter.Valid() {
		fmt.Fprintf(&b, "Filter: %s (0 to clear)\n\n", m.filter)
	}

	if m.loadErr != nil {
		b.WriteString("Error loading task file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.data == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.data)
	writeFocus(&b, m.data)
	writeTasks(&b, m.data.tasks, m.filter)
	writeRecent(&b, m.data.recent)
	if m.taskFile != "" {
		fmt.Fprintf(&b, "Task File: %s\n\n", m.taskFile)
	}
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	list, err := m.src.Snapshot()
	if err != nil {
		m.loadErr = err
		m.data = nil
		return
	}
	m.loadErr = nil
	m.data = buildTUIData(list)
}

func buildTUIData(list task.List) *tuiData {
	data := &tuiData{
		counts: list.Counts(),
		tasks:  list,
	}
	for i := range list {
		t := &list[i]
		if data.current == nil && t.Status == task.StatusInProgress {
			data.current = t
		}
		if data.next == nil && t.Status == task.StatusTodo {
			data.next = t
		}
	}

	for t := range list.Filter(task.StatusDone) {
		data.recent = append(data.recent, t)
	}
	slices.SortStableFunc(data.recent, func(a, b task.Task) int {
		return b.UpdatedAt.Compare(a.UpdatedAt.Time)
	})
	if len(data.recent) > 5 {
		data.recent = data.recent[:5]
	}
	return data
}

func writeTitle(b *strings.Builder) {
	title := "Task Tracker"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, data *tuiData) {
	b.WriteString("Task Overview\n\n")
	fmt.Fprintf(b, "  Todo: %d  In Progress: %d  Done: %d\n\n",
		data.counts[task.StatusTodo],
		data.counts[task.StatusInProgress],
		data.counts[task.StatusDone],
	)
}

func writeFocus(b *strings.Builder, data *tuiData) {
	switch {
	case data.current != nil:
		b.WriteString("Current Task\n\n")
		b.WriteString(formatTask(data.current) + "\n\n")
	case data.next != nil:
		b.WriteString("Next Task\n\n")
		b.WriteString(formatTask(data.next) + "\n\n")
	case len(data.tasks) > 0:
		b.WriteString("All Tasks Done\n\n")
	}
}

func writeTasks(b *strings.Builder, list task.List, filter task.Status) {
	b.WriteString("Tasks\n\n")
	var statuses []task.Status
	if filter.Valid() {
		statuses = append(statuses, filter)
	}
	n := 0
	for t := range list.Filter(statuses...) {
		b.WriteString(formatTask(&t) + "\n")
		n++
	}
	if n == 0 {
		b.WriteString("  No tasks found\n")
	}
	b.WriteString("\n")
}

func writeRecent(b *strings.Builder, recent task.List) {
	b.WriteString("Recently Completed\n\n")
	if len(recent) == 0 {
		b.WriteString("  No completed tasks yet.\n\n")
		return
	}
	for i := range recent {
		b.WriteString(formatTask(&recent[i]) + "\n")
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by todo\n")
	b.WriteString("  2            Filter by in-progress\n")
	b.WriteString("  3            Filter by done\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	fmt.Fprintf(b, "Press h for help | q to quit | Refreshing every %s\n", interval)
}

func formatTask(t *task.Task) string {
	statusIcon := " "
	switch t.Status {
	case task.StatusInProgress:
		statusIcon = ">"
	case task.StatusDone:
		statusIcon = "x"
	}

	description := t.Description
	if len(description) > 60 {
		description = description[:57] + "..."
	}
	return fmt.Sprintf("  %s [%d] %s", statusIcon, t.ID, description)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
