package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/eventpermit/internal/backend"
	"github.com/alexanderramin/eventpermit/internal/config"
	"github.com/alexanderramin/eventpermit/internal/contract"
	"github.com/alexanderramin/eventpermit/internal/db"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/formdef"
	"github.com/alexanderramin/eventpermit/internal/repository"
	"github.com/alexanderramin/eventpermit/internal/testutil"
	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testApp wires an App over a fake backend.
func testApp(t *testing.T) (*App, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	return &App{
		Config:        config.DefaultConfig(),
		Backend:       fb,
		IsInteractive: func() bool { return false },
	}, fb
}

// executeCmd runs a cobra command and returns its plain output.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.Execute()
	return ansi.Strip(buf.String()), err
}

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "eventpermit")
	for _, sub := range []string{"apply", "check", "serve", "events", "applications", "ask", "status"} {
		assert.Contains(t, out, sub)
	}
}

func TestBindGlobalFlags_OverrideConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DBPath = "/from/env.db"
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindGlobalFlags(fs, &cfg)

	require.NoError(t, fs.Parse([]string{"--backend", "http://permits.test", "--listen", "127.0.0.1:9000"}))
	assert.Equal(t, "http://permits.test", cfg.BackendURL)
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr)
	assert.Equal(t, "/from/env.db", cfg.DBPath, "unset flags keep the environment value")
	assert.Empty(t, cfg.LayoutPath)
}

func TestApp_ClientBuiltFromConfig(t *testing.T) {
	app := &App{Config: config.DefaultConfig()}
	c := app.client()
	require.NotNil(t, c)
	assert.Same(t, c, app.client(), "client is built once")
}

func TestEventsCmd(t *testing.T) {
	app, fb := testApp(t)
	fb.feed = []contract.FeedEvent{{
		ID:            "e1",
		Title:         "Picnic – Cotton Tree Park",
		Start:         "2026-11-01T09:00:00",
		End:           "2026-11-01T12:00:00",
		ExtendedProps: contract.FeedEventProps{Status: "Approved", Classification: "Self-assessable"},
	}}

	out, err := executeCmd(t, app, "events")
	require.NoError(t, err)
	assert.Contains(t, out, "Picnic – Cotton Tree Park")
	assert.Contains(t, out, "2026-11-01 09:00–12:00")
	assert.Contains(t, out, "● Approved")
}

func TestApplicationsCmd_PassesFilters(t *testing.T) {
	app, fb := testApp(t)
	fb.apps = []contract.Application{{ID: "0d9f1c2e-aaaa-bbbb-cccc-111122223333", EventName: "Night Market", Status: "Pending", Attendance: 300}}

	out, err := executeCmd(t, app, "applications", "--q", "market", "--status", "Pending")
	require.NoError(t, err)
	assert.Contains(t, out, "Night Market")
	assert.Contains(t, out, "0d9f1c2e")
	assert.Contains(t, out, "300")
	require.Len(t, fb.queries, 1)
	assert.Equal(t, [2]string{"market", "Pending"}, fb.queries[0])
}

func TestStatusCmd(t *testing.T) {
	full := "0d9f1c2e-aaaa-bbbb-cccc-111122223333"

	t.Run("full id", func(t *testing.T) {
		app, fb := testApp(t)
		out, err := executeCmd(t, app, "status", full, "Approved")
		require.NoError(t, err)
		assert.Contains(t, out, "is now ● Approved")
		assert.Equal(t, [][2]string{{full, "Approved"}}, fb.statusCalls)
		assert.Empty(t, fb.queries, "full ids are not looked up")
	})

	t.Run("prefix", func(t *testing.T) {
		app, fb := testApp(t)
		fb.apps = []contract.Application{{ID: full}, {ID: "77777777-aaaa-bbbb-cccc-111122223333"}}
		_, err := executeCmd(t, app, "status", "0d9f", "Rejected")
		require.NoError(t, err)
		assert.Equal(t, [][2]string{{full, "Rejected"}}, fb.statusCalls)
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		app, fb := testApp(t)
		fb.apps = []contract.Application{{ID: full}, {ID: "0d9f0000-aaaa-bbbb-cccc-111122223333"}}
		_, err := executeCmd(t, app, "status", "0d9f", "Rejected")
		assert.ErrorContains(t, err, "ambiguous")
		assert.Empty(t, fb.statusCalls)
	})

	t.Run("unknown prefix", func(t *testing.T) {
		app, _ := testApp(t)
		_, err := executeCmd(t, app, "status", "ffff", "Rejected")
		assert.ErrorContains(t, err, "no application id starts with")
	})

	t.Run("backend rejects", func(t *testing.T) {
		app, fb := testApp(t)
		fb.statusErr = fmt.Errorf("%w: invalid status", backend.ErrRejected)
		_, err := executeCmd(t, app, "status", full, "Maybe")
		assert.ErrorIs(t, err, backend.ErrRejected)
	})

	t.Run("needs two args", func(t *testing.T) {
		app, _ := testApp(t)
		_, err := executeCmd(t, app, "status", full)
		assert.Error(t, err)
	})
}

func TestAskCmd(t *testing.T) {
	app, fb := testApp(t)
	fb.chatReply = "Good news!"

	out, err := executeCmd(t, app, "ask", "is", "Seaside", "Park", "free?")
	require.NoError(t, err)
	assert.Contains(t, out, "Good news!")
	assert.Equal(t, []string{"is Seaside Park free?"}, fb.asked)

	fb.chatErr = fmt.Errorf("%w: connection refused", backend.ErrUnavailable)
	_, err = executeCmd(t, app, "ask", "hello")
	assert.ErrorIs(t, err, backend.ErrUnavailable)
	assert.ErrorContains(t, err, "eventpermit serve")
}

func TestCheckCmd_Answers(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "check", "attendance=250", "alcohol=Yes", "start_time=08:00", "end_time=17:00")
	require.NoError(t, err)
	assert.Contains(t, out, "Assessable by council")
	assert.Contains(t, out, "✘ Less than 200 attendees")
	assert.Contains(t, out, "✘ No alcohol service or consumption")
	assert.Contains(t, out, "✔ Finishes by 10:00pm")
	assert.Contains(t, out, "Classification: ▲ Assessable")
	assert.Contains(t, out, "200 or more attendees")
}

func TestCheckCmd_SelfAssessable(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "check", "attendance=50", "start_time=08:00", "end_time=17:00", "duration=<=2 days")
	require.NoError(t, err)
	assert.NotContains(t, out, "✘")
	assert.Contains(t, out, "Classification: ✔ Self-assessable")
}

func TestCheckCmd_UnpaddedTimesAreCanonicalised(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "check", "start_time=5:00", "end_time=9:00", "duration=<=2 days", "attendance=10")
	require.NoError(t, err)
	assert.Contains(t, out, "✘ Starts after 5:30am")
	assert.Contains(t, out, "✔ Finishes by 10:00pm")

	out, err = executeCmd(t, app, "check", "start_time= 05:00", "end_time=21:00")
	require.NoError(t, err)
	assert.Contains(t, out, "✘ Starts after 5:30am")
}

func TestAnswerValue(t *testing.T) {
	layout, err := formdef.Default()
	require.NoError(t, err)
	start, _ := layout.Field(domain.FieldStartTime)
	attendance, _ := layout.Field(domain.FieldAttendance)

	got, err := answerValue(start, " 5:00 ")
	require.NoError(t, err)
	assert.Equal(t, "05:00", got)

	_, err = answerValue(start, "25:00")
	assert.ErrorIs(t, err, domain.ErrInvalidClock)

	got, err = answerValue(attendance, " 250")
	require.NoError(t, err)
	assert.Equal(t, "250", got, "the huh path stores trimmed text")

	assert.NoError(t, validateOptionalClock(" 5:00"))
	assert.Error(t, validateOptionalClock("25:00"))
}

func TestCheckCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no answers without terminal", []string{"check"}, "no answers given"},
		{"missing equals", []string{"check", "attendance"}, "expected field=value"},
		{"unknown field", []string{"check", "guests=10"}, "unknown field"},
		{"bad select value", []string{"check", "alcohol=maybe"}, "alcohol must be one of No, Yes"},
		{"hour out of range", []string{"check", "start_time=25:00"}, "not 24-hour HH:MM"},
		{"not a clock", []string{"check", "end_time=9pm"}, "not 24-hour HH:MM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := testApp(t)
			_, err := executeCmd(t, app, tt.args...)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCheckForm_CollectsBoundValues(t *testing.T) {
	layout, err := formdef.Default()
	require.NoError(t, err)
	values := layout.Defaults()

	form, collect := newCheckForm(layout, values)
	require.NotNil(t, form)
	collect()
	assert.Equal(t, "No", values["alcohol"])
	assert.Equal(t, "1", values["total_days"])
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateOptionalCount(""))
	assert.NoError(t, validateOptionalCount("12"))
	assert.Error(t, validateOptionalCount("-1"))
	assert.Error(t, validateOptionalCount("many"))

	assert.NoError(t, validateOptionalClock(""))
	assert.NoError(t, validateOptionalClock("07:30"))
	assert.Error(t, validateOptionalClock("7.30pm"))
}

func TestApplyCmd_RequiresTerminal(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "apply")
	assert.ErrorIs(t, err, errNotInteractive)
}

// lockedBuffer is a bytes.Buffer safe for the server goroutine to log into.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServe_SeedsAndStopsOnCancel(t *testing.T) {
	app, _ := testApp(t)
	app.Config.DBPath = filepath.Join(t.TempDir(), "events.db")
	app.Config.ListenAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logs := &lockedBuffer{}
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, app, logs, true) }()

	require.Eventually(t, func() bool {
		return strings.Contains(logs.String(), "backend listening")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Contains(t, logs.String(), "seeded sample events")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}

	database, err := db.OpenDB(app.Config.DBPath)
	require.NoError(t, err)
	defer database.Close()
	all, err := repository.NewSQLiteEventRepo(database).List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	names := []string{all[0].EventName, all[1].EventName}
	assert.ElementsMatch(t, []string{"Sunset Yoga", "Live Bands on the Lawn"}, names)
}

func TestServe_BadLayout(t *testing.T) {
	app, _ := testApp(t)
	app.Config.LayoutPath = filepath.Join(t.TempDir(), "missing.yaml")
	err := runServe(context.Background(), app, &bytes.Buffer{}, false)
	assert.ErrorContains(t, err, "reading layout")
}

func TestSeedSampleEvents_OnlyIntoEmptyStore(t *testing.T) {
	events := repository.NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	n, err := seedSampleEvents(ctx, events, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = seedSampleEvents(ctx, events, now)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := events.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2026-10-08", all[0].StartDate)
	assert.Equal(t, "2026-10-15", all[1].StartDate)
}

func TestLayoutDerivedChatData(t *testing.T) {
	layout, err := formdef.Default()
	require.NoError(t, err)
	assert.Contains(t, eventTypes(layout), "Market or fair")
	assert.Contains(t, knownVenues(layout), "Cotton Tree Park")

	empty := &formdef.Layout{}
	assert.Nil(t, eventTypes(empty))
	assert.Nil(t, knownVenues(empty))
}

func TestResolveApplicationID_BackendError(t *testing.T) {
	app, fb := testApp(t)
	fb.appsErr = errors.New("boom")
	_, err := resolveApplicationID(context.Background(), app, "abc")
	assert.ErrorContains(t, err, "boom")
}
