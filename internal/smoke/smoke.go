// Package smoke runs a black-box check of the AI copilot endpoints with a
// real account: login, a short chat, then reading the conversation back.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/config"
	"github.com/rubiane-edu/finedu-web/internal/models"
)

// DefaultMessages are sent in order on one conversation
var DefaultMessages = []string{
	"Olá! Como posso criar um orçamento?",
	"Como posso economizar dinheiro?",
	"Tenho dívidas, o que devo fazer?",
}

// Check names, in run order
const (
	CheckLogin           = "login"
	CheckChat            = "chat"
	CheckConversations   = "conversations"
	CheckGetConversation = "getConversation"
)

// Config holds the run settings
type Config struct {
	BaseURL      string
	Email        string
	Password     string
	LoginTimeout time.Duration
	ChatTimeout  time.Duration
	Pause        time.Duration
	Messages     []string
}

// DefaultConfig returns the settings used by the ops command
func DefaultConfig() Config {
	return Config{
		BaseURL:      "http://localhost:8000/api",
		LoginTimeout: 10 * time.Second,
		ChatTimeout:  30 * time.Second,
		Pause:        time.Second,
		Messages:     DefaultMessages,
	}
}

// Check is the outcome of one step
type Check struct {
	Name   string
	Passed bool
}

// Results lists the checks that ran
type Results []Check

// Passed reports whether every check passed
func (r Results) Passed() bool {
	for _, c := range r {
		if !c.Passed {
			return false
		}
	}
	return len(r) > 0
}

// ExitCode is 0 when every check passed and 1 otherwise
func (r Results) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// Runner executes the checks and reports to out
type Runner struct {
	cfg    Config
	client *backend.Client
	out    io.Writer
	log    zerolog.Logger

	api            *backend.API
	conversationID int
}

var (
	title = color.New(color.Bold)
	step  = color.New(color.FgCyan)
	ok    = color.New(color.FgGreen)
	bad   = color.New(color.FgRed)
	warn  = color.New(color.FgYellow)
)

// New creates a Runner
func New(cfg Config, out io.Writer, log zerolog.Logger) *Runner {
	timeout := cfg.ChatTimeout
	if cfg.LoginTimeout > timeout {
		timeout = cfg.LoginTimeout
	}
	client := backend.New(config.BackendConfig{BaseURL: cfg.BaseURL, Timeout: timeout}, log)
	return &Runner{
		cfg:    cfg,
		client: client,
		out:    out,
		log:    log.With().Str("component", "smoke").Logger(),
	}
}

// Run executes every check in order. A failed login stops the run.
func (r *Runner) Run(ctx context.Context) Results {
	rule := strings.Repeat("=", 60)
	title.Fprintln(r.out, rule)
	title.Fprintln(r.out, "AI COPILOT SMOKE TEST")
	title.Fprintln(r.out, rule)
	step.Fprintf(r.out, "API URL: %s\n", r.cfg.BaseURL)
	step.Fprintf(r.out, "Test user: %s\n", r.cfg.Email)

	var results Results
	results = append(results, Check{CheckLogin, r.login(ctx)})
	if !results[0].Passed {
		bad.Fprintln(r.out, "\nCannot proceed without authentication")
		return results
	}
	results = append(results,
		Check{CheckChat, r.chat(ctx)},
		Check{CheckConversations, r.conversations(ctx)},
		Check{CheckGetConversation, r.getConversation(ctx)},
	)

	r.summary(results)
	return results
}

func (r *Runner) login(ctx context.Context) bool {
	step.Fprintln(r.out, "\nStep 1: Logging in...")

	ctx, cancel := context.WithTimeout(ctx, r.cfg.LoginTimeout)
	defer cancel()

	resp, err := r.client.For("").Auth.Login(ctx, models.Credentials{Email: r.cfg.Email, Password: r.cfg.Password})
	if err != nil {
		r.fail("Login failed: %s", errorText(err))
		if errors.Is(err, backend.ErrUnauthorized) {
			warn.Fprintln(r.out, "   Invalid credentials. Check SMOKE_EMAIL and SMOKE_PASSWORD.")
		}
		return false
	}
	if resp.Token == "" {
		r.fail("Login failed: no token received")
		return false
	}

	email := r.cfg.Email
	if resp.User != nil && resp.User.Email != "" {
		email = resp.User.Email
	}
	r.pass("Login successful. User: %s", email)
	r.api = r.client.For(resp.Token)
	return true
}

func (r *Runner) chat(ctx context.Context) bool {
	step.Fprintln(r.out, "\nStep 2: Testing copilot chat...")

	var conversationID *int
	for i, msg := range r.cfg.Messages {
		fmt.Fprintf(r.out, "\nSending message %d/%d: %q\n", i+1, len(r.cfg.Messages), msg)

		resp, err := r.send(ctx, msg, conversationID)
		if err != nil {
			r.fail("Error sending message: %s", errorText(err))
			return false
		}

		if resp.ConversationID != 0 {
			id := resp.ConversationID
			conversationID = &id
			r.conversationID = id
			fmt.Fprintf(r.out, "   Conversation ID: %d\n", id)
		}

		reply := resp.AssistantMessage
		if reply == nil {
			r.fail("No assistant_message in response")
			return false
		}
		fmt.Fprintf(r.out, "   Role: %s\n", reply.Role)
		fmt.Fprintf(r.out, "   Content: %s\n", truncate(reply.Content, 200))
		if strings.TrimSpace(reply.Content) == "" {
			r.fail("Empty response content")
			return false
		}
		r.pass("Response received (%d characters)", len([]rune(reply.Content)))

		if i < len(r.cfg.Messages)-1 && !sleep(ctx, r.cfg.Pause) {
			r.fail("Interrupted")
			return false
		}
	}
	return true
}

func (r *Runner) send(ctx context.Context, msg string, conversationID *int) (*models.ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ChatTimeout)
	defer cancel()
	return r.api.Copilot.Chat(ctx, models.ChatRequest{Message: msg, ConversationID: conversationID})
}

func (r *Runner) conversations(ctx context.Context) bool {
	step.Fprintln(r.out, "\nStep 3: Listing conversations...")

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ChatTimeout)
	defer cancel()

	list, err := r.api.Copilot.ListConversations(ctx)
	if err != nil {
		r.fail("Error getting conversations: %s", errorText(err))
		return false
	}
	r.pass("Found %d conversation(s)", list.Len())
	for i, conv := range list.Items {
		if i == 3 {
			break
		}
		fmt.Fprintf(r.out, "   %d. %q - %d messages\n", i+1, untitled(conv.Title), conv.MessageCount)
	}
	return true
}

func (r *Runner) getConversation(ctx context.Context) bool {
	if r.conversationID == 0 {
		warn.Fprintln(r.out, "\nStep 4: Skipping (no conversation ID)")
		return true
	}
	step.Fprintf(r.out, "\nStep 4: Loading conversation %d...\n", r.conversationID)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.ChatTimeout)
	defer cancel()

	conv, err := r.api.Copilot.GetConversation(ctx, r.conversationID)
	if err != nil {
		r.fail("Error getting conversation: %s", errorText(err))
		return false
	}
	if len(conv.Messages) == 0 {
		warn.Fprintln(r.out, "   No messages in conversation")
		return true
	}

	r.pass("Conversation loaded: %q", untitled(conv.Title))
	fmt.Fprintf(r.out, "   Total messages: %d\n", len(conv.Messages))
	last := conv.Messages
	if len(last) > 3 {
		last = last[len(last)-3:]
	}
	for i, m := range last {
		fmt.Fprintf(r.out, "   %d. [%s] %s\n", i+1, m.Role, truncate(m.Content, 100))
	}
	return true
}

func (r *Runner) summary(results Results) {
	rule := strings.Repeat("=", 60)
	title.Fprintln(r.out, "\n"+rule)
	title.Fprintln(r.out, "RESULTS")
	title.Fprintln(r.out, rule)
	for _, c := range results {
		if c.Passed {
			ok.Fprintf(r.out, "PASS - %s\n", c.Name)
		} else {
			bad.Fprintf(r.out, "FAIL - %s\n", c.Name)
		}
	}
	if results.Passed() {
		ok.Fprintln(r.out, "\nAll checks passed")
	} else {
		warn.Fprintln(r.out, "\nSome checks failed")
	}
	r.log.Info().Bool("passed", results.Passed()).Int("checks", len(results)).Msg("Smoke run finished")
}

func (r *Runner) pass(format string, args ...interface{}) {
	ok.Fprintf(r.out, "   OK "+format+"\n", args...)
}

func (r *Runner) fail(format string, args ...interface{}) {
	bad.Fprintf(r.out, "   FAIL "+format+"\n", args...)
}

// errorText prefers the backend "error" message over the transport error
func errorText(err error) string {
	return backend.Message(err, err.Error())
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func untitled(s string) string {
	if s == "" {
		return "Untitled"
	}
	return s
}

// sleep waits d and reports false when ctx ends first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
