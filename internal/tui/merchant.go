package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/findbuddy/internal/forms"
	"github.com/naveenspark/findbuddy/pkg/client"
	"github.com/naveenspark/findbuddy/pkg/domain"
)

type offersLoadedMsg struct {
	epoch  int
	offers []domain.Offer
	err    error
}

type offerCreatedMsg struct {
	epoch int
	offer *domain.Offer
	err   error
}

type browserOpenedMsg struct {
	err error
}

const (
	offerTitle = iota
	offerDescription
	offerDiscount
	offerBuddies
	offerValidUntil
	offerTerms
	offerMaxRedemptions
)

func newOfferFields() []formField {
	return []formField{
		offerTitle:          {label: "title"},
		offerDescription:    {label: "description"},
		offerDiscount:       {label: "discount %", hint: "blank for a special offer"},
		offerBuddies:        {label: "minimum buddies", value: "2"},
		offerValidUntil:     {label: "valid until", hint: "2025-01-01T23:59"},
		offerTerms:          {label: "terms", hint: "optional"},
		offerMaxRedemptions: {label: "max redemptions", hint: "optional"},
	}
}

// merchantDashboard shows the business profile and its live offers.
type merchantDashboard struct {
	api        API
	epoch      int
	merchant   domain.Merchant
	loc        *time.Location
	offers     []domain.Offer
	loading    bool
	err        string
	formOpen   bool
	fields     []formField
	focus      int
	submitting bool
	status     string
	statusErr  bool
	width      int
	height     int
}

func newMerchantDashboard(api API, mer domain.Merchant, loc *time.Location, epoch int) merchantDashboard {
	return merchantDashboard{api: api, epoch: epoch, merchant: mer, loc: loc, fields: newOfferFields(), loading: true}
}

func (m merchantDashboard) Init() tea.Cmd {
	return m.loadOffers()
}

// loadOffers fetches every live offer and keeps this merchant's.
func (m merchantDashboard) loadOffers() tea.Cmd {
	api, id, epoch := m.api, m.merchant.ID, m.epoch
	return func() tea.Msg {
		all, err := api.AllOffers(context.Background())
		if err != nil {
			return offersLoadedMsg{epoch: epoch, err: err}
		}
		mine := make([]domain.Offer, 0, len(all))
		for _, o := range all {
			if o.MerchantID == id {
				mine = append(mine, o)
			}
		}
		return offersLoadedMsg{epoch: epoch, offers: mine}
	}
}

func (m merchantDashboard) Update(msg tea.Msg) (merchantDashboard, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case offersLoadedMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			m.err = client.Detail(msg.err, "could not load offers")
			return m, nil
		}
		m.err = ""
		m.offers = msg.offers

	case offerCreatedMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		m.submitting = false
		if msg.err != nil {
			if client.IsUnauthorized(msg.err) {
				return m, expireSession
			}
			m.status, m.statusErr = client.Detail(msg.err, "could not create offer"), true
			return m, nil
		}
		m.formOpen = false
		m.fields = newOfferFields()
		m.focus = 0
		m.status, m.statusErr = fmt.Sprintf("offer %q is live", msg.offer.Title), false
		m.loading = true
		return m, m.loadOffers()

	case browserOpenedMsg:
		if msg.err != nil {
			m.status, m.statusErr = "could not open browser", true
		}

	case tea.KeyMsg:
		if m.formOpen {
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m merchantDashboard) handleKey(msg tea.KeyMsg) (merchantDashboard, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "a":
		m.formOpen = true
	case "r":
		m.loading = true
		return m, m.loadOffers()
	case "o":
		if m.merchant.Website == "" {
			m.status, m.statusErr = "no website on your profile", true
			return m, nil
		}
		url := m.merchant.Website
		return m, func() tea.Msg {
			return browserOpenedMsg{err: openURL(url)}
		}
	}
	return m, nil
}

func (m merchantDashboard) handleFormKey(msg tea.KeyMsg) (merchantDashboard, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.status = ""

	switch msg.String() {
	case "esc":
		m.formOpen = false
	case "ctrl+s":
		return m.submit()
	case "tab", "down", "enter":
		m.focus = (m.focus + 1) % len(m.fields)
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
	default:
		editField(&m.fields[m.focus], msg.String())
	}
	return m, nil
}

func (m merchantDashboard) submit() (merchantDashboard, tea.Cmd) {
	v := func(i int) string { return m.fields[i].value }
	req, err := forms.OfferForm{
		Title:          v(offerTitle),
		Description:    v(offerDescription),
		Discount:       v(offerDiscount),
		MinimumBuddies: v(offerBuddies),
		ValidUntil:     v(offerValidUntil),
		Terms:          v(offerTerms),
		MaxRedemptions: v(offerMaxRedemptions),
	}.Build(m.loc)
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return m, nil
	}

	m.submitting = true
	api, epoch := m.api, m.epoch
	return m, func() tea.Msg {
		o, err := api.CreateOffer(context.Background(), req)
		return offerCreatedMsg{epoch: epoch, offer: o, err: err}
	}
}

func (m merchantDashboard) helpKeys() string {
	if m.formOpen {
		return helpBar("tab", "next", "ctrl+s", "publish", "esc", "cancel")
	}
	return helpBar("a", "new offer", "o", "website", "r", "refresh", "L", "logout", "h", "help", "q", "quit")
}

func (m merchantDashboard) View() string {
	if m.formOpen {
		var b strings.Builder
		b.WriteString(selectedStyle.Render("New buddy offer") + "\n\n")
		b.WriteString(renderForm(m.fields, m.focus))
		b.WriteString("\n")
		if m.submitting {
			b.WriteString(dimStyle.Render("publishing..."))
		} else {
			b.WriteString(statusLine(m.status, m.statusErr))
		}
		return b.String()
	}

	mer := m.merchant
	var b strings.Builder
	b.WriteString(selectedStyle.Render(mer.BusinessName) + "  " + BusinessTypeStyle(mer.BusinessType).Render(mer.BusinessType))
	if mer.Verified {
		b.WriteString("  " + okStyle.Render("verified"))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n", metaStyle.Render(mer.Address+", "+mer.City))
	if mer.Phone != "" {
		fmt.Fprintf(&b, "%s\n", metaStyle.Render(mer.Phone))
	}
	if mer.Website != "" {
		fmt.Fprintf(&b, "%s\n", accentStyle.Render(mer.Website))
	}
	if mer.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", normalStyle.Render(oneLine(mer.Description)))
	}

	b.WriteString("\n" + sectionHeaderStyle.Render(fmt.Sprintf("live offers (%d)", len(m.offers))) + "\n")
	switch {
	case m.loading && len(m.offers) == 0:
		b.WriteString(dimStyle.Render("  loading...") + "\n")
	case m.err != "":
		b.WriteString(errorStyle.Render("  "+m.err) + "\n")
	case len(m.offers) == 0:
		b.WriteString(dimStyle.Render("  no live offers, press a to publish one") + "\n")
	default:
		for _, o := range m.offers {
			used := fmt.Sprintf("%d redeemed", o.CurrentRedemptions)
			if o.MaxRedemptions != nil {
				used = fmt.Sprintf("%d/%d redeemed", o.CurrentRedemptions, *o.MaxRedemptions)
			}
			fmt.Fprintf(&b, "  %s %s\n    %s\n", badgeStyle.Render(o.Label()), normalStyle.Render(oneLine(o.Title)),
				metaStyle.Render(fmt.Sprintf("min %d buddies . until %s . %s", o.MinimumBuddies, o.ValidUntil.In(m.loc).Format("Jan 2 2006"), used)))
		}
	}

	if m.status != "" {
		b.WriteString("\n" + statusLine(m.status, m.statusErr))
	}
	return b.String()
}
