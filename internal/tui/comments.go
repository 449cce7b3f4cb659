package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

type commentsLoadedMsg struct {
	activityID uuid.UUID
	comments   []domain.Comment
	err        error
}

type commentAddedMsg struct {
	activityID uuid.UUID
	comment    *domain.Comment
	err        error
}

// commentsPane is the comment thread of one activity, shown over the list.
type commentsPane struct {
	api      API
	open     bool
	activity domain.Activity
	comments []domain.Comment
	loading  bool
	err      string
	input    string
	focused  bool
	sending  bool
}

func openComments(api API, a domain.Activity) (commentsPane, tea.Cmd) {
	p := commentsPane{api: api, open: true, activity: a, loading: true}
	id := a.ID
	return p, func() tea.Msg {
		list, err := api.ListComments(context.Background(), id)
		return commentsLoadedMsg{activityID: id, comments: list, err: err}
	}
}

func (p commentsPane) Update(msg tea.Msg) (commentsPane, tea.Cmd) {
	switch msg := msg.(type) {
	case commentsLoadedMsg:
		if !p.open || msg.activityID != p.activity.ID {
			return p, nil
		}
		p.loading = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return p, expireSession
			}
			p.err = client.Detail(msg.err, "could not load comments")
			return p, nil
		}
		p.err = ""
		p.comments = msg.comments

	case commentAddedMsg:
		if !p.open || msg.activityID != p.activity.ID {
			return p, nil
		}
		p.sending = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return p, expireSession
			}
			p.err = client.Detail(msg.err, "could not post comment")
			return p, nil
		}
		p.err = ""
		p.input = ""
		p.comments = append(p.comments, *msg.comment)

	case tea.KeyMsg:
		if p.focused {
			return p.handleInput(msg)
		}
		switch msg.String() {
		case "esc", "c":
			p.open = false
		case "enter", "i":
			p.focused = true
		}
	}
	return p, nil
}

func (p commentsPane) handleInput(msg tea.KeyMsg) (commentsPane, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.focused = false
	case "enter":
		text := strings.TrimSpace(p.input)
		if text == "" || p.sending {
			return p, nil
		}
		p.sending = true
		api, id := p.api, p.activity.ID
		return p, func() tea.Msg {
			c, err := api.AddComment(context.Background(), id, text)
			return commentAddedMsg{activityID: id, comment: c, err: err}
		}
	default:
		p.input = editRune(p.input, msg.String())
	}
	return p, nil
}

func (p commentsPane) helpKeys() string {
	if p.focused {
		return helpBar("enter", "send", "esc", "stop typing")
	}
	return helpBar("enter", "write", "esc", "back")
}

func (p commentsPane) View(width int) string {
	width = max(width, 40)
	var b strings.Builder

	b.WriteString(selectedStyle.Render(truncStr(oneLine(p.activity.Title), width-2)) + "\n")
	b.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("comments (%d)", len(p.comments))) + "\n\n")

	switch {
	case p.loading:
		b.WriteString(dimStyle.Render("  loading...") + "\n")
	case len(p.comments) == 0:
		b.WriteString(dimStyle.Render("  no comments yet, be the first") + "\n")
	default:
		for _, c := range p.comments {
			fmt.Fprintf(&b, "  %s %s\n    %s\n",
				normalStyle.Render(c.UserName),
				commentTimeStyle.Render(formatTime(c.CreatedAt)),
				commentTextStyle.Render(truncStr(oneLine(c.Content), width-4)))
		}
	}
	if p.err != "" {
		b.WriteString("\n" + errorStyle.Render(p.err) + "\n")
	}

	b.WriteString("\n")
	prompt := inputPromptStyle.Render("> ")
	switch {
	case p.sending:
		b.WriteString(prompt + dimStyle.Render("posting..."))
	case p.focused:
		b.WriteString(prompt + p.input + accentStyle.Render("█"))
	case p.input == "":
		b.WriteString(prompt + inputPlaceholderStyle.Render("press enter to comment"))
	default:
		b.WriteString(prompt + dimStyle.Render(p.input))
	}
	return b.String()
}
