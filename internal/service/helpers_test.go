package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/mailer"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/revocation"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

type outbox struct {
	mu   sync.Mutex
	msgs []mailer.Message
	err  error
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.msgs = append(o.msgs, msg)
	return nil
}

func (o *outbox) last(t *testing.T) mailer.Message {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.msgs, "no mail sent")
	return o.msgs[len(o.msgs)-1]
}

func (o *outbox) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.msgs)
}

type recordedEvent struct {
	Topic, Key string
	Event      Event
}

type eventLog struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (e *eventLog) PublishEvent(_ context.Context, topic, key string, event any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, recordedEvent{Topic: topic, Key: key, Event: event.(Event)})
	return nil
}

func (e *eventLog) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Event.Type)
	}
	return out
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type authEnv struct {
	svc    *AuthService
	repo   *repo.GormRepo
	mail   *outbox
	events *eventLog
	clock  *clock
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	gdb := db.NewTestDB(t)
	clk := &clock{t: time.Now().UTC().Truncate(time.Second)}
	r := &repo.GormRepo{DB: gdb}
	store := &revocation.GormStore{DB: gdb, Now: clk.Now}
	mail := &outbox{}
	events := &eventLog{}

	return &authEnv{
		svc: &AuthService{
			Repo:    r,
			Signer:  tokens.NewSigner([]byte("test-secret")).WithClock(clk.Now),
			Revoked: store,
			Mailer:  mail,
			Events:  &Events{Pub: events, Topic: "storefront_events"},
		},
		repo:   r,
		mail:   mail,
		events: events,
		clock:  clk,
	}
}

func tokenFromMail(t *testing.T, msg mailer.Message) string {
	t.Helper()
	for _, field := range strings.Fields(msg.Body) {
		u, err := url.Parse(field)
		if err != nil || u.Scheme == "" {
			continue
		}
		if tok := u.Query().Get("token"); tok != "" {
			return tok
		}
	}
	t.Fatalf("no token link in mail body: %q", msg.Body)
	return ""
}

func ptr[T any](v T) *T { return &v }

func requireKind(t *testing.T, err error, kind error, detail string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, kind), "want %v, got %v", kind, err)
	if detail != "" {
		require.Equal(t, detail, Detail(err))
	}
}

func seedVerified(t *testing.T, env *authEnv, userName, password, email string) *models.Customer {
	t.Helper()
	c := &models.Customer{UserName: userName, Password: password, Email: &email, IsEmailVerified: true}
	require.NoError(t, env.repo.CreateCustomer(context.Background(), c))
	return c
}
