package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"liferpg/internal/engine"
	"liferpg/internal/storage"
)

type pane int

const (
	paneQuests pane = iota
	paneSkills
)

type boardModel struct {
	ctx    context.Context
	svc    *engine.Service
	userID string

	width  int
	height int

	stats  *engine.Stats
	roles  []storage.Role
	quests []storage.Quest
	skills []storage.Skill

	roleIdx  int
	pane     pane
	expanded map[string]bool
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	stats  *engine.Stats
	roles  []storage.Role
	quests []storage.Quest
	skills []storage.Skill
	err    error
}

type completedMsg struct {
	res *engine.QuestCompleteResult
	err error
}

type unlockedMsg struct {
	res *engine.UnlockResult
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service, userID string) boardModel {
	return boardModel{
		ctx:      ctx,
		svc:      svc,
		userID:   userID,
		expanded: map[string]bool{},
		loading:  true,
		lastLog:  "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.svc.DashboardStats(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		roles, err := m.svc.ListRoles(m.ctx, m.userID, true)
		if err != nil {
			return loadedMsg{err: err}
		}
		quests, err := m.svc.TodayQuests(m.ctx, m.userID)
		if err != nil {
			return loadedMsg{err: err}
		}
		skills, err := m.svc.ListSkills(m.ctx, m.userID, nil)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{stats: stats, roles: roles, quests: quests, skills: skills}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteQuest(m.ctx, m.userID, id)
		return completedMsg{res: res, err: err}
	}
}

func (m boardModel) unlockCmd(id string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.UnlockSkill(m.ctx, m.userID, id)
		return unlockedMsg{res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.stats = msg.stats
		m.roles = msg.roles
		m.quests = msg.quests
		m.skills = msg.skills
		if m.roleIdx >= len(m.roles) {
			m.roleIdx = 0
		}
		// Default-expand unlocked nodes so newly available children show up.
		for _, s := range m.skills {
			if s.IsUnlocked {
				m.expanded[s.ID] = true
			}
		}
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Completed %q: +%d XP (level %d → %d)", msg.res.Quest.Title, msg.res.XPAwarded, msg.res.LevelBefore, msg.res.LevelAfter)
		if msg.res.LevelUp {
			m.lastLog += " LEVEL UP!"
		}
		return m, m.loadCmd()
	case unlockedMsg:
		if msg.err != nil {
			m.lastLog = "Unlock failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Unlocked %q, %d new skill(s) available", msg.res.Skill.Name, len(msg.res.UnlockedChildren))
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "tab":
			if m.pane == paneQuests {
				m.pane = paneSkills
			} else {
				m.pane = paneQuests
			}
			m.selected = 0
			return m, nil
		case "left", "h":
			if m.roleIdx > 0 {
				m.roleIdx--
				m.selected = 0
			}
			return m, nil
		case "right", "l":
			if m.roleIdx < len(m.roles)-1 {
				m.roleIdx++
				m.selected = 0
			}
			return m, nil
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < m.rowCount()-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			if m.pane != paneSkills {
				return m, nil
			}
			lines := m.skillLines()
			if m.selected < 0 || m.selected >= len(lines) {
				return m, nil
			}
			if line := lines[m.selected]; line.hasChildren {
				m.expanded[line.id] = !m.expanded[line.id]
			}
			return m, nil
		case "c", " ":
			if m.pane != paneQuests {
				return m, nil
			}
			qs := m.roleQuests()
			if m.selected < 0 || m.selected >= len(qs) {
				return m, nil
			}
			q := qs[m.selected]
			if q.IsCompleted {
				m.lastLog = "Already done."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %q…", q.Title)
			return m, m.completeCmd(q.ID)
		case "u":
			if m.pane != paneSkills {
				return m, nil
			}
			lines := m.skillLines()
			if m.selected < 0 || m.selected >= len(lines) {
				return m, nil
			}
			line := lines[m.selected]
			switch {
			case line.unlocked:
				m.lastLog = "Already unlocked."
				return m, nil
			case !line.available:
				m.lastLog = "Locked: unlock its parent first."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Unlocking %q…", line.name)
			return m, m.unlockCmd(line.id)
		}
	}
	return m, nil
}

func (m boardModel) currentRole() *storage.Role {
	if m.roleIdx < 0 || m.roleIdx >= len(m.roles) {
		return nil
	}
	return &m.roles[m.roleIdx]
}

func (m boardModel) roleQuests() []storage.Quest {
	role := m.currentRole()
	if role == nil {
		return nil
	}
	var out []storage.Quest
	for _, q := range m.quests {
		if q.RoleID == role.ID {
			out = append(out, q)
		}
	}
	return out
}

func (m boardModel) roleSkills() []storage.Skill {
	role := m.currentRole()
	if role == nil {
		return nil
	}
	var out []storage.Skill
	for _, s := range m.skills {
		if s.RoleID == role.ID {
			out = append(out, s)
		}
	}
	return out
}

func (m boardModel) rowCount() int {
	if m.pane == paneSkills {
		return len(m.skillLines())
	}
	return len(m.roleQuests())
}

type skillLine struct {
	id          string
	depth       int
	name        string
	costXP      int
	unlocked    bool
	available   bool
	hasChildren bool
	expanded    bool
}

// skillLines flattens the selected role's skill forest, honoring collapsed nodes.
func (m boardModel) skillLines() []skillLine {
	skills := m.roleSkills()
	if len(skills) == 0 {
		return nil
	}
	children := indexChildren(skills)
	byID := make(map[string]*storage.Skill, len(skills))
	for i := range skills {
		byID[skills[i].ID] = &skills[i]
	}

	var out []skillLine
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		s := byID[id]
		if s == nil {
			return
		}
		kids := children[id]
		out = append(out, skillLine{
			id:          id,
			depth:       depth,
			name:        s.Name,
			costXP:      s.CostXP,
			unlocked:    s.IsUnlocked,
			available:   s.IsAvailable,
			hasChildren: len(kids) > 0,
			expanded:    m.expanded[id],
		})
		if len(kids) == 0 || !m.expanded[id] {
			return
		}
		for _, kid := range kids {
			walk(kid, depth+1)
		}
	}

	for _, id := range rootIDs(skills) {
		walk(id, 0)
	}
	return out
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 30
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := len(linesLeft)
	if len(linesRight) > rows {
		rows = len(linesRight)
	}

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l := ""
		r := ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	if m.stats == nil {
		return "liferpg | loading…"
	}
	st := m.stats
	return fmt.Sprintf("liferpg | Level %d | XP %d | Streak %d day(s) | Focus today %.1fh",
		st.Level, st.TotalXP, st.GlobalStreak, st.FocusHoursToday)
}

func (m boardModel) renderSidebar() string {
	lines := []string{"Roles"}
	if len(m.roles) == 0 {
		lines = append(lines, "(none, add one with `ql role add`)")
	}
	for i, r := range m.roles {
		cursor := "  "
		if i == m.roleIdx {
			cursor = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s L%d", cursor, r.Name, r.Level))
		lines = append(lines, "    "+progressBar(r.CurrentXP, r.XPToNextLevel, 16))
	}
	lines = append(lines, "")
	lines = append(lines, "Keys")
	lines = append(lines, "- ←/→ or h/l: role")
	lines = append(lines, "- ↑/↓ or j/k: move")
	lines = append(lines, "- tab: quests/skills")
	lines = append(lines, "- c/space: complete quest")
	lines = append(lines, "- u: unlock skill")
	lines = append(lines, "- enter: expand/collapse")
	lines = append(lines, "- r: refresh")
	lines = append(lines, "- q: quit")
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading {
		return "Loading…"
	}
	if m.pane == paneSkills {
		return m.renderSkills()
	}
	return m.renderQuests()
}

func (m boardModel) renderQuests() string {
	out := []string{"Today's quests"}
	qs := m.roleQuests()
	if len(qs) == 0 {
		out = append(out, "(nothing due for this role)")
		return strings.Join(out, "\n")
	}
	for i, q := range qs {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		box := "[ ]"
		if q.IsCompleted {
			box = "[x]"
		}
		out = append(out, fmt.Sprintf("%s%s %s (+%d xp, %s, streak %d)", cursor, box, q.Title, q.XPReward, q.Frequency, q.Streak))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderSkills() string {
	out := []string{"Skill tree"}
	lines := m.skillLines()
	if len(lines) == 0 {
		out = append(out, "(no skills for this role)")
		return strings.Join(out, "\n")
	}
	for i, sl := range lines {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		indent := strings.Repeat("  ", sl.depth)
		fold := "  "
		if sl.hasChildren {
			if sl.expanded {
				fold = "▾ "
			} else {
				fold = "▸ "
			}
		}
		state := "locked"
		switch {
		case sl.unlocked:
			state = "unlocked"
		case sl.available:
			state = "available"
		}
		out = append(out, fmt.Sprintf("%s%s%s%s (%s, %d xp)", cursor, indent, fold, sl.name, state, sl.costXP))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + m.lastLog
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	ratio := float64(value) / float64(total)
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// rootIDs keeps input order, which is creation order from the repo.
func rootIDs(skills []storage.Skill) []string {
	var roots []string
	for _, s := range skills {
		if s.ParentSkillID == nil {
			roots = append(roots, s.ID)
		}
	}
	return roots
}

func indexChildren(skills []storage.Skill) map[string][]string {
	children := map[string][]string{}
	for _, s := range skills {
		if s.ParentSkillID == nil {
			continue
		}
		children[*s.ParentSkillID] = append(children[*s.ParentSkillID], s.ID)
	}
	return children
}
