package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/vrsettings/internal/domain"
)

// AccountEventKind identifies an account notification
type AccountEventKind int

const (
	EventAuthenticated AccountEventKind = iota
	EventProfileUpdated
	EventLoggedOut
	EventAuthenticationProblems
)

// AccountEventMsg carries an account notification into the update loop
type AccountEventMsg struct {
	Kind    AccountEventKind
	Profile domain.Profile // EventProfileUpdated only
	source  *ChannelObserver
}

// ChannelObserver adapts domain.AccountObserver to a channel for Bubble Tea.
type ChannelObserver struct {
	mu     sync.Mutex
	ch     chan AccountEventMsg
	closed bool
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(buffer int) *ChannelObserver {
	return &ChannelObserver{ch: make(chan AccountEventMsg, buffer)}
}

func (o *ChannelObserver) OnAuthenticated() {
	o.send(AccountEventMsg{Kind: EventAuthenticated})
}

func (o *ChannelObserver) OnProfileUpdated(profile domain.Profile) {
	o.send(AccountEventMsg{Kind: EventProfileUpdated, Profile: profile})
}

func (o *ChannelObserver) OnLoggedOut() {
	o.send(AccountEventMsg{Kind: EventLoggedOut})
}

func (o *ChannelObserver) OnAuthenticationProblems() {
	o.send(AccountEventMsg{Kind: EventAuthenticationProblems})
}

// send delivers without blocking; events are dropped if the buffer is full
// or the observer has been closed.
func (o *ChannelObserver) send(msg AccountEventMsg) {
	msg.source = o

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	select {
	case o.ch <- msg:
	default: // Non-blocking if channel full
	}
}

// Close stops delivery and releases any pending Wait.
func (o *ChannelObserver) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		close(o.ch)
	}
}

// Wait returns a command that yields the next event, or nil once closed.
func (o *ChannelObserver) Wait() tea.Cmd {
	ch := o.ch
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}
