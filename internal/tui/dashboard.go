package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/naveenspark/findbuddy/internal/browser"
	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

type tab int

const (
	tabFindBuddies tab = iota
	tabFindDiscounts
	tabMyActivities
	tabFeed
	numTabs
)

var tabNames = [numTabs]string{"Find Buddies", "Find Discounts", "My Activities", "Feed"}

// locationOptions is the cycle order of the location filter.
// "" means the user's own city.
var locationOptions = []string{
	"", "San Jose", "Santa Clara", "Palo Alto", "Mountain View",
	"Fremont", "Cupertino", "San Francisco", "Santa Cruz",
}

// writeClipboard and openURL are swapped out in tests.
var (
	writeClipboard = clipboard.WriteAll
	openURL        = browser.Open
)

// -- messages --

// tabLoadedMsg carries one tab fetch. gen is the tab generation the fetch
// was issued under; answers for an older generation are dropped. epoch is
// the session the dashboard belongs to, see App.epoch.
type tabLoadedMsg struct {
	epoch      int
	tab        tab
	gen        int
	activities []domain.Activity
	merchants  []domain.MerchantListing
	mine       *domain.MyActivities
	err        error
}

type joinResultMsg struct {
	epoch   int
	id      uuid.UUID
	message string
	err     error
}

type likeResultMsg struct {
	epoch int
	id    uuid.UUID
	state *domain.LikeState
	err   error
}

// likesLoadedMsg carries the like counters of the rows of one tab load.
type likesLoadedMsg struct {
	epoch int
	seq   int
	likes map[uuid.UUID]domain.LikeState
	err   error
}

type copyResultMsg struct {
	err error
}

// -- model --

type tabState struct {
	activities []domain.Activity
	merchants  []domain.MerchantListing
	mine       *domain.MyActivities
	loaded     bool
	loading    bool
	err        string
	gen        int
	cursor     int
}

type userDashboard struct {
	api       API
	epoch     int
	user      domain.User
	loc       *time.Location
	active    tab
	tabs      [numTabs]tabState
	filterIdx int
	likes     map[uuid.UUID]domain.LikeState
	likeSeq   int               // bumped by every toggle answer
	likedAt   map[uuid.UUID]int // likeSeq of the last toggle per activity
	joining   bool
	status    string
	statusErr bool
	comments  commentsPane
	width     int
	height    int
}

func newUserDashboard(api API, u domain.User, loc *time.Location, epoch int) userDashboard {
	m := userDashboard{
		api:     api,
		epoch:   epoch,
		user:    u,
		loc:     loc,
		likes:   make(map[uuid.UUID]domain.LikeState),
		likedAt: make(map[uuid.UUID]int),
	}
	// The first fetch is issued by Init, which cannot mutate the model.
	m.tabs[m.active].gen = 1
	m.tabs[m.active].loading = true
	return m
}

func (m userDashboard) Init() tea.Cmd {
	return m.fetchCmd(m.active, m.tabs[m.active].gen)
}

// filter is the selected location, "" for the user's own city.
func (m userDashboard) filter() string {
	return locationOptions[m.filterIdx]
}

// filterParam is what goes on the wire: nothing when the filter is empty or
// names the user's own city, so the backend falls back to the profile.
func (m userDashboard) filterParam() string {
	f := m.filter()
	if f == "" || strings.EqualFold(f, m.user.City) {
		return ""
	}
	return f
}

// refresh re-fetches the active tab.
func (m *userDashboard) refresh() tea.Cmd {
	return m.fetch(m.active)
}

// fetch starts a new generation for t and returns the single request for it.
func (m *userDashboard) fetch(t tab) tea.Cmd {
	st := &m.tabs[t]
	st.gen++
	st.loading = true
	st.err = ""
	return m.fetchCmd(t, st.gen)
}

// fetchCmd is the request for tab t stamped with gen.
func (m userDashboard) fetchCmd(t tab, gen int) tea.Cmd {
	api, param, epoch := m.api, m.filterParam(), m.epoch
	return func() tea.Msg {
		ctx := context.Background()
		msg := tabLoadedMsg{epoch: epoch, tab: t, gen: gen}
		switch t {
		case tabFindBuddies:
			msg.activities, msg.err = api.ActivitiesAroundMe(ctx, param)
		case tabFindDiscounts:
			msg.merchants, msg.err = api.MerchantsNearMe(ctx, param)
		case tabMyActivities:
			msg.mine, msg.err = api.MyActivities(ctx)
		case tabFeed:
			msg.activities, msg.err = api.ActivityFeed(ctx)
		}
		return msg
	}
}

// fetchLikes loads the like counter of every row in rows. A failed row is
// left out; only a rejected credential is reported.
func (m userDashboard) fetchLikes(rows []domain.Activity) tea.Cmd {
	if len(rows) == 0 || m.api == nil {
		return nil
	}
	api, epoch, seq := m.api, m.epoch, m.likeSeq
	ids := make([]uuid.UUID, len(rows))
	for i, a := range rows {
		ids[i] = a.ID
	}
	return func() tea.Msg {
		ctx := context.Background()
		msg := likesLoadedMsg{epoch: epoch, seq: seq, likes: make(map[uuid.UUID]domain.LikeState, len(ids))}
		for _, id := range ids {
			state, err := api.GetLikes(ctx, id)
			if err != nil {
				if client.IsUnauthorized(err) {
					msg.err = err
					return msg
				}
				continue
			}
			msg.likes[id] = *state
		}
		return msg
	}
}

func (m *userDashboard) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m userDashboard) Update(msg tea.Msg) (userDashboard, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tabLoadedMsg:
		st := &m.tabs[msg.tab]
		if msg.epoch != m.epoch || msg.gen != st.gen {
			return m, nil
		}
		st.loading = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			st.err = client.Detail(msg.err, "could not load "+strings.ToLower(tabNames[msg.tab]))
			return m, nil
		}
		st.loaded = true
		st.activities = msg.activities
		st.merchants = msg.merchants
		st.mine = msg.mine
		if n := m.itemCount(msg.tab); st.cursor >= n {
			st.cursor = max(0, n-1)
		}
		return m, m.fetchLikes(m.activityRows(msg.tab))

	case likesLoadedMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		if msg.err != nil {
			return m, expireSession
		}
		for id, state := range msg.likes {
			// A toggle answered after this fetch started is newer.
			if m.likedAt[id] > msg.seq {
				continue
			}
			m.likes[id] = state
		}

	case joinResultMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		m.joining = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			m.setStatus(client.Detail(msg.err, "could not join activity"), true)
			return m, nil
		}
		m.setStatus(msg.message, false)
		cmd := m.refresh()
		return m, cmd

	case likeResultMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			m.setStatus(client.Detail(msg.err, "could not update like"), true)
			return m, nil
		}
		m.likeSeq++
		m.likedAt[msg.id] = m.likeSeq
		m.likes[msg.id] = *msg.state

	case copyResultMsg:
		if msg.err != nil {
			m.setStatus("clipboard unavailable", true)
		} else {
			m.setStatus("share line copied", false)
		}

	case browserOpenedMsg:
		if msg.err != nil {
			m.setStatus("could not open browser", true)
		}

	case commentsLoadedMsg, commentAddedMsg:
		var cmd tea.Cmd
		m.comments, cmd = m.comments.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.comments.open {
			var cmd tea.Cmd
			m.comments, cmd = m.comments.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m userDashboard) handleKey(msg tea.KeyMsg) (userDashboard, tea.Cmd) {
	m.status = ""
	st := &m.tabs[m.active]

	switch key := msg.String(); key {
	case "1", "2", "3", "4":
		t := tab(key[0] - '1')
		if t == m.active {
			return m, nil
		}
		m.active = t
		cmd := m.fetch(t)
		return m, cmd
	case "tab":
		m.active = (m.active + 1) % numTabs
		cmd := m.fetch(m.active)
		return m, cmd
	case "f":
		m.filterIdx = (m.filterIdx + 1) % len(locationOptions)
		cmd := m.fetch(m.active)
		return m, cmd
	case "r":
		cmd := m.refresh()
		return m, cmd
	case "j", "down":
		if st.cursor < m.itemCount(m.active)-1 {
			st.cursor++
		}
	case "k", "up":
		if st.cursor > 0 {
			st.cursor--
		}
	case "enter":
		a, ok := m.selectedActivity()
		if !ok || m.joining {
			return m, nil
		}
		m.joining = true
		api, epoch := m.api, m.epoch
		return m, func() tea.Msg {
			text, err := api.JoinActivity(context.Background(), a.ID)
			return joinResultMsg{epoch: epoch, id: a.ID, message: text, err: err}
		}
	case "l":
		a, ok := m.selectedActivity()
		if !ok {
			return m, nil
		}
		api, epoch := m.api, m.epoch
		return m, func() tea.Msg {
			state, err := api.ToggleLike(context.Background(), a.ID)
			return likeResultMsg{epoch: epoch, id: a.ID, state: state, err: err}
		}
	case "c":
		a, ok := m.selectedActivity()
		if !ok {
			return m, nil
		}
		var cmd tea.Cmd
		m.comments, cmd = openComments(m.api, a)
		return m, cmd
	case "y":
		a, ok := m.selectedActivity()
		if !ok {
			return m, nil
		}
		line := shareLine(a, m.loc)
		return m, func() tea.Msg {
			return copyResultMsg{err: writeClipboard(line)}
		}
	case "o":
		if l, ok := m.selectedMerchant(); ok && l.Merchant.Website != "" {
			url := l.Merchant.Website
			return m, func() tea.Msg {
				return browserOpenedMsg{err: openURL(url)}
			}
		}
	}
	return m, nil
}

// itemCount is the number of selectable rows in tab t.
func (m userDashboard) itemCount(t tab) int {
	st := m.tabs[t]
	switch t {
	case tabFindDiscounts:
		return len(st.merchants)
	case tabMyActivities:
		if st.mine == nil {
			return 0
		}
		return len(st.mine.Created) + len(st.mine.Joined)
	default:
		return len(st.activities)
	}
}

// activityRows lists the activities of an activity tab in display order.
func (m userDashboard) activityRows(t tab) []domain.Activity {
	st := m.tabs[t]
	switch t {
	case tabFindDiscounts:
		return nil
	case tabMyActivities:
		if st.mine == nil {
			return nil
		}
		rows := make([]domain.Activity, 0, len(st.mine.Created)+len(st.mine.Joined))
		rows = append(rows, st.mine.Created...)
		return append(rows, st.mine.Joined...)
	default:
		return st.activities
	}
}

func (m userDashboard) selectedActivity() (domain.Activity, bool) {
	rows := m.activityRows(m.active)
	cur := m.tabs[m.active].cursor
	if cur < 0 || cur >= len(rows) {
		return domain.Activity{}, false
	}
	return rows[cur], true
}

func (m userDashboard) selectedMerchant() (domain.MerchantListing, bool) {
	if m.active != tabFindDiscounts {
		return domain.MerchantListing{}, false
	}
	st := m.tabs[tabFindDiscounts]
	if st.cursor < 0 || st.cursor >= len(st.merchants) {
		return domain.MerchantListing{}, false
	}
	return st.merchants[st.cursor], true
}

func (m userDashboard) helpKeys() string {
	if m.comments.open {
		return m.comments.helpKeys()
	}
	if m.active == tabFindDiscounts {
		return helpBar("1-4", "tabs", "j/k", "nav", "f", "location", "o", "website", "r", "refresh", "L", "logout", "h", "help", "q", "quit")
	}
	return helpBar("1-4", "tabs", "j/k", "nav", "enter", "join", "l", "like", "c", "comments", "y", "share", "n", "new", "f", "location", "h", "help")
}

func (m userDashboard) View() string {
	if m.comments.open {
		return m.comments.View(m.width)
	}

	var b strings.Builder

	// Tab bar
	for i := tab(0); i < numTabs; i++ {
		key := fmt.Sprintf("%d", i+1)
		if i == m.active {
			b.WriteString(accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(tabNames[i]))
		} else {
			b.WriteString(metaStyle.Render(key) + " " + dimStyle.Render(tabNames[i]))
		}
		b.WriteString("   ")
	}
	b.WriteString("\n")

	loc := m.filter()
	if loc == "" {
		loc = "My City (" + m.user.City + ")"
	}
	b.WriteString(sectionHeaderStyle.Render("location: ") + normalStyle.Render(loc) + "\n\n")

	st := m.tabs[m.active]
	switch {
	case st.loading && !st.loaded:
		b.WriteString(dimStyle.Render("  loading...") + "\n")
	case st.err != "":
		b.WriteString(errorStyle.Render("  "+st.err) + "\n")
	default:
		switch m.active {
		case tabFindDiscounts:
			b.WriteString(m.renderMerchants(st))
		case tabMyActivities:
			b.WriteString(m.renderMine(st))
		default:
			b.WriteString(m.renderActivities(st.activities, 0, st.cursor, "no activities here yet, press n to start one"))
		}
	}

	if m.joining {
		b.WriteString("\n" + dimStyle.Render("joining..."))
	} else if m.status != "" {
		b.WriteString("\n" + statusLine(m.status, m.statusErr))
	}
	return b.String()
}

// renderActivities renders list rows; offset is the row index of list[0].
func (m userDashboard) renderActivities(list []domain.Activity, offset, cursor int, empty string) string {
	if len(list) == 0 {
		return dimStyle.Render("  "+empty) + "\n"
	}
	width := max(m.width, 40)

	var b strings.Builder
	for i, a := range list {
		selected := offset+i == cursor
		prefix := "  "
		titleStyle := normalStyle
		if selected {
			prefix = accentStyle.Render("> ")
			titleStyle = selectedStyle
		}
		title := titleStyle.Render(truncStr(oneLine(a.Title), width-20))
		line1 := prefix + title + "  " + CategoryStyle(a.Category).Render(a.Category)

		meta := []string{formatWhen(a.Date, m.loc), a.Location + ", " + a.City, capacityLabel(a), "by " + a.CreatorName}
		if a.HasParticipant(m.user.ID) {
			meta = append(meta, "joined")
		}
		if like, ok := m.likes[a.ID]; ok {
			heart := "♡"
			if like.Liked {
				heart = likedStyle.Render("♥")
			}
			meta = append(meta, fmt.Sprintf("%s %d", heart, like.Count))
		}
		line2 := "    " + metaStyle.Render(truncStr(strings.Join(meta, " . "), width-4))

		if selected {
			line1 = selectedRowBg.Render(line1)
		}
		b.WriteString(line1 + "\n" + line2 + "\n")
		if selected && a.Description != "" {
			b.WriteString("    " + dimStyle.Render(truncStr(oneLine(a.Description), width-4)) + "\n")
		}
	}
	return b.String()
}

func (m userDashboard) renderMine(st tabState) string {
	if st.mine == nil {
		return dimStyle.Render("  nothing yet") + "\n"
	}
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("organising (%d)", len(st.mine.Created))) + "\n")
	b.WriteString(m.renderActivities(st.mine.Created, 0, st.cursor, "you have not created any activities"))
	b.WriteString("\n" + sectionHeaderStyle.Render(fmt.Sprintf("joined (%d)", len(st.mine.Joined))) + "\n")
	b.WriteString(m.renderActivities(st.mine.Joined, len(st.mine.Created), st.cursor, "you have not joined any activities"))
	return b.String()
}

func (m userDashboard) renderMerchants(st tabState) string {
	if len(st.merchants) == 0 {
		return dimStyle.Render("  no partner venues here yet") + "\n"
	}
	width := max(m.width, 40)
	now := time.Now()

	var b strings.Builder
	for i, l := range st.merchants {
		prefix := "  "
		nameStyle := normalStyle
		if i == st.cursor {
			prefix = accentStyle.Render("> ")
			nameStyle = selectedStyle
		}
		mer := l.Merchant
		fmt.Fprintf(&b, "%s%s  %s %s\n", prefix, nameStyle.Render(mer.BusinessName),
			BusinessTypeStyle(mer.BusinessType).Render(mer.BusinessType),
			metaStyle.Render(". "+mer.Address+", "+mer.City))
		if len(l.ActiveOffers) == 0 {
			b.WriteString("    " + dimStyle.Render("no active offers") + "\n")
		}
		for _, o := range l.ActiveOffers {
			line := fmt.Sprintf("%s (min %d buddies, until %s)", oneLine(o.Title), o.MinimumBuddies, o.ValidUntil.In(m.loc).Format("Jan 2"))
			if !o.IsAvailable(now) {
				line += " expired"
			}
			b.WriteString("    " + badgeStyle.Render(o.Label()) + " " + normalStyle.Render(truncStr(line, width-16)) + "\n")
		}
	}
	return b.String()
}
