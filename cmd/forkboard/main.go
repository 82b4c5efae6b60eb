package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"forkboard/internal/client"
	"forkboard/internal/config"
	"forkboard/internal/dashboard"
	"forkboard/internal/poll"
	"forkboard/internal/state"
	"forkboard/internal/util"
)

// Styles.
var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	hashtagStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	authorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	topicStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

// Views.
const (
	viewOverview = iota
	viewPosts
	viewSummaries
	viewTopics
	viewCount
)

var viewNames = [viewCount]string{"overview", "posts", "summaries", "topics"}

// Messages.
type tickMsg time.Time
type batchMsg poll.Batch

// Model.
type model struct {
	dash  *state.Dashboard
	coord *poll.Coordinator

	interval time.Duration
	view     int

	viewport      viewport.Model
	ready         bool
	width, height int

	refreshing  bool
	lastRefresh time.Time

	logger *slog.Logger
}

func initialModel(dash *state.Dashboard, coord *poll.Coordinator, interval time.Duration, logger *slog.Logger) model {
	return model{
		dash:     dash,
		coord:    coord,
		interval: interval,
		logger:   logger,
		// Init issues the first cycle immediately; starting in the
		// refreshing state keeps cycles serialized from activation on.
		refreshing: true,
	}
}

func (m model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd runs one acquisition cycle off the update loop and delivers
// the batch as a single message.
func (m model) refreshCmd() tea.Cmd {
	coord := m.coord
	return func() tea.Msg {
		return batchMsg(coord.RunCycle(context.Background()))
	}
}

func (m model) Init() tea.Cmd {
	// One immediate cycle on activation, then the fixed-interval timer.
	return tea.Batch(m.refreshCmd(), m.tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.view = (m.view + 1) % viewCount
			m.syncContent()
			return m, nil
		case "1", "2", "3", "4":
			m.view = int(msg.String()[0] - '1')
			m.syncContent()
			return m, nil
		case "left":
			// Step toward older records.
			switch m.view {
			case viewSummaries:
				m.dash.StepSummary(1)
			case viewTopics:
				m.dash.StepTopic(1)
			}
			m.syncContent()
			return m, nil
		case "right":
			// Step toward newer records.
			switch m.view {
			case viewSummaries:
				m.dash.StepSummary(-1)
			case viewTopics:
				m.dash.StepTopic(-1)
			}
			m.syncContent()
			return m, nil
		case "r":
			if !m.refreshing {
				m.refreshing = true
				return m, m.refreshCmd()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		headerH := 1
		footerH := 1
		vpHeight := m.height - headerH - footerH
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
			m.viewport.SetContent(m.renderContent())
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		return m, nil

	case tickMsg:
		// Cycles are serialized: skip the tick if one is still in flight.
		if !m.refreshing {
			m.refreshing = true
			return m, tea.Batch(m.refreshCmd(), m.tickCmd())
		}
		return m, m.tickCmd()

	case batchMsg:
		m.refreshing = false
		m.lastRefresh = time.Now()
		m.dash.ApplyBatch(poll.Batch(msg))
		m.logger.Debug("batch applied",
			"summaries", len(m.dash.Summaries), "topic_hours", len(m.dash.TopicHours))
		m.syncContent()
		return m, nil
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m *model) syncContent() {
	if m.ready {
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
	}
}

func (m model) View() string {
	if !m.ready || m.dash.Loading {
		return "Loading..."
	}

	// Styling the header as one block keeps padOrTrunc honest: it counts
	// bytes, so the text must be escape-free when padded.
	var tabs []string
	for i, name := range viewNames {
		if i == m.view {
			tabs = append(tabs, fmt.Sprintf("[%d %s]", i+1, name))
		} else {
			tabs = append(tabs, fmt.Sprintf(" %d %s ", i+1, name))
		}
	}

	refreshed := "--:--:--"
	if !m.lastRefresh.IsZero() {
		refreshed = m.lastRefresh.Format("15:04:05")
	}
	status := fmt.Sprintf("    refreshed %s ", refreshed)
	if m.refreshing {
		status = "    refreshing... "
	}

	headerText := " forkboard  " + strings.Join(tabs, " ") + status
	headerBar := headerStyle.Render(padOrTrunc(headerText, m.width))

	pct := m.viewport.ScrollPercent() * 100
	footerLeft := " q quit  tab/1-4 view  left/right older/newer  r refresh  pgup/dn scroll"
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - len(footerLeft) - len(footerRight)
	if gap < 0 {
		gap = 0
	}
	footerText := footerLeft + strings.Repeat(" ", gap) + footerRight
	footerBar := footerStyle.Render(padOrTrunc(footerText, m.width))

	return headerBar + "\n" + m.viewport.View() + "\n" + footerBar
}

func (m model) renderContent() string {
	var b strings.Builder
	switch m.view {
	case viewOverview:
		m.renderOverview(&b)
	case viewPosts:
		m.renderPosts(&b)
	case viewSummaries:
		m.renderSummary(&b)
	case viewTopics:
		m.renderTopics(&b)
	}
	return b.String()
}

func sentimentStyle(v *float64) lipgloss.Style {
	if v == nil {
		return dimStyle
	}
	switch {
	case *v > 0.1:
		return positiveStyle
	case *v < -0.1:
		return negativeStyle
	default:
		return neutralStyle
	}
}

func (m model) renderOverview(b *strings.Builder) {
	b.WriteString(titleStyle.Render("  Instance overview"))
	b.WriteString("\n\n")

	s := m.dash.Stats
	if s == nil {
		b.WriteString(dimStyle.Render("  (no stats yet)"))
		b.WriteString("\n")
	} else {
		writeStat := func(label, value string) {
			b.WriteString(labelStyle.Render(fmt.Sprintf("  %-18s", label)))
			b.WriteString(valueStyle.Render(value))
			b.WriteString("\n")
		}
		writeStat("total posts", dashboard.FormatInt(s.TotalPosts))
		writeStat("accounts", dashboard.FormatInt(s.TotalAccounts))
		writeStat("posts today", dashboard.FormatInt(s.PostsToday))
		writeStat("posts this hour", dashboard.FormatInt(s.PostsThisHour))
		writeStat("avg engagement", dashboard.FormatEngagement(s.AvgEngagement))

		sent := s.Sentiment
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %-18s", "sentiment")))
		b.WriteString(sentimentStyle(sent.AvgSentiment).Render(dashboard.FormatSentiment(sent.AvgSentiment)))
		b.WriteString(dimStyle.Render(fmt.Sprintf("   +%d / -%d / =%d of %d analyzed",
			sent.PositiveCount, sent.NegativeCount, sent.NeutralCount, sent.TotalAnalyzed)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Activity by hour"))
	b.WriteString("\n\n")
	if len(m.dash.Hourly) == 0 {
		b.WriteString(dimStyle.Render("  (no hourly data)"))
		b.WriteString("\n")
	} else {
		maxCount := 0
		for _, h := range m.dash.Hourly {
			if h.PostCount > maxCount {
				maxCount = h.PostCount
			}
		}
		barWidth := m.width - 30
		if barWidth < 10 {
			barWidth = 10
		}
		for _, h := range m.dash.Hourly {
			b.WriteString(labelStyle.Render(fmt.Sprintf("  %6s ", util.FormatHour(h.Hour))))
			b.WriteString(barStyle.Render(dashboard.Bar(h.PostCount, maxCount, barWidth)))
			b.WriteString(dimStyle.Render(fmt.Sprintf(" %s", dashboard.FormatInt(h.PostCount))))
			b.WriteString(sentimentStyle(h.AvgSentiment).Render(fmt.Sprintf("  %s", dashboard.FormatSentiment(h.AvgSentiment))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  Trending hashtags"))
	b.WriteString("\n\n")
	if len(m.dash.Hashtags) == 0 {
		b.WriteString(dimStyle.Render("  (no hashtags)"))
		b.WriteString("\n")
		return
	}
	for i, h := range m.dash.Hashtags {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %2d ", i+1)))
		b.WriteString(hashtagStyle.Render("#" + h.Hashtag))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s posts", dashboard.FormatInt(h.Count))))
		b.WriteString("\n")
	}
}

func (m model) renderPosts(b *strings.Builder) {
	b.WriteString(titleStyle.Render("  Popular posts (24h)"))
	b.WriteString("\n\n")

	if len(m.dash.Posts) == 0 {
		b.WriteString(dimStyle.Render("  (no posts)"))
		b.WriteString("\n")
		return
	}

	for i, p := range m.dash.Posts {
		author := p.Account.Acct
		if p.Account.DisplayName != nil && *p.Account.DisplayName != "" {
			author = *p.Account.DisplayName
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %2d ", i+1)))
		b.WriteString(authorStyle.Render(author))
		b.WriteString(dimStyle.Render("  " + util.FormatDateTime(p.CreatedAt)))
		b.WriteString("\n")

		text := ""
		if p.ContentText != nil {
			text = *p.ContentText
		} else if p.Content != nil {
			text = *p.Content
		}
		text = strings.Join(strings.Fields(text), " ")
		width := m.width - 8
		if width < 20 {
			width = 20
		}
		b.WriteString(summaryStyle.Render("     " + dashboard.Truncate(text, width)))
		b.WriteString("\n")

		b.WriteString(dimStyle.Render(fmt.Sprintf("     boosts %s  favs %s  replies %s  engagement %s  ",
			dashboard.FormatInt(p.ReblogsCount),
			dashboard.FormatInt(p.FavouritesCount),
			dashboard.FormatInt(p.RepliesCount),
			dashboard.FormatEngagement(p.EngagementScore))))
		b.WriteString(sentimentStyle(p.SentimentScore).Render(dashboard.SentimentWord(p.SentimentLabel)))
		b.WriteString("\n")
		if i < len(m.dash.Posts)-1 {
			b.WriteString("\n")
		}
	}
}

func (m model) renderSummary(b *strings.Builder) {
	s := m.dash.SelectedSummary()
	if s == nil {
		b.WriteString(titleStyle.Render("  Daily summary"))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("  (no summaries available)"))
		b.WriteString("\n")
		return
	}

	pos := fmt.Sprintf("%d/%d", m.dash.SummaryIdx+1, len(m.dash.Summaries))
	b.WriteString(titleStyle.Render(fmt.Sprintf("  Daily summary  %s  [%s]", util.FormatDate(s.Date), pos)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render(fmt.Sprintf("  %-16s", "posts")))
	b.WriteString(valueStyle.Render(dashboard.FormatInt(s.TotalPosts)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("   %-16s", "authors")))
	b.WriteString(valueStyle.Render(dashboard.FormatInt(s.UniqueAuthors)))
	b.WriteString(labelStyle.Render(fmt.Sprintf("   %-16s", "sentiment")))
	b.WriteString(sentimentStyle(s.AvgSentiment).Render(dashboard.FormatSentiment(s.AvgSentiment)))
	b.WriteString("\n\n")

	if s.SummaryText != nil && *s.SummaryText != "" {
		for _, line := range wrap(*s.SummaryText, m.width-4) {
			b.WriteString(summaryStyle.Render("  " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(s.TrendingTopics) > 0 {
		b.WriteString(labelStyle.Render("  trending: "))
		b.WriteString(hashtagStyle.Render(strings.Join(s.TrendingTopics, ", ")))
		b.WriteString("\n")
	}
	if len(s.NotableEvents) > 0 {
		b.WriteString(labelStyle.Render("  notable events:"))
		b.WriteString("\n")
		for _, e := range s.NotableEvents {
			b.WriteString(summaryStyle.Render("   - " + e))
			b.WriteString("\n")
		}
	}
}

func (m model) renderTopics(b *strings.Builder) {
	hour, topics := m.dash.SelectedTopics()
	if hour == "" {
		b.WriteString(titleStyle.Render("  Hourly topics"))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("  (no topics available)"))
		b.WriteString("\n")
		return
	}

	pos := ""
	for i, h := range m.dash.TopicHours {
		if h == hour {
			pos = fmt.Sprintf("%d/%d", i+1, len(m.dash.TopicHours))
			break
		}
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("  Topics  %s %s  [%s]",
		util.FormatDate(hour), util.FormatHour(hour), pos)))
	b.WriteString("\n\n")

	if len(topics) == 0 {
		b.WriteString(dimStyle.Render("  (no topics for this hour)"))
		b.WriteString("\n")
		return
	}

	for _, topic := range topics {
		b.WriteString(topicStyle.Render("  " + topic.Topic))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s posts  ", dashboard.FormatInt(topic.PostCount))))
		b.WriteString(sentimentStyle(topic.AvgSentiment).Render(dashboard.FormatSentiment(topic.AvgSentiment)))
		b.WriteString("\n")
		if topic.Summary != nil && *topic.Summary != "" {
			for _, line := range wrap(*topic.Summary, m.width-6) {
				b.WriteString(summaryStyle.Render("    " + line))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}
}

// wrap breaks s into lines of at most width runes on word boundaries.
func wrap(s string, width int) []string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(s)
	var lines []string
	var cur string
	for _, w := range words {
		switch {
		case cur == "":
			cur = w
		case len([]rune(cur))+1+len([]rune(w)) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	n := len(s)
	if n >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-n)
}

func main() {
	// A .env in the working directory seeds the environment before config.
	_ = godotenv.Load()

	configPath := flag.String("config", os.Getenv("FORKBOARD_CONFIG"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs default to a per-day file.
	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = fmt.Sprintf("/tmp/forkboard-%s.log", time.Now().Format("2006-01-02"))
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format, logFile)
	util.SetDefault(logger)

	apiClient := client.New(cfg.API)

	// Cap each cycle below the interval so a stuck cycle cannot block the
	// next tick forever.
	interval := cfg.Refresh.Interval()
	cycleTimeout := interval - 5*time.Second
	if cycleTimeout < 5*time.Second {
		cycleTimeout = interval
	}
	coord := poll.NewCoordinator(apiClient, cfg.Refresh, cycleTimeout, logger)

	logger.Info("starting forkboard", "base_url", cfg.API.BaseURL, "interval", interval.String())

	p := tea.NewProgram(
		initialModel(state.New(), coord, interval, logger),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
