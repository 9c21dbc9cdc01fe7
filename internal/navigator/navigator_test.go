package navigator

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/eventpermit/internal/conflict"
	"github.com/alexanderramin/eventpermit/internal/contract"
	"github.com/alexanderramin/eventpermit/internal/domain"
	"github.com/alexanderramin/eventpermit/internal/fieldstore"
	"github.com/alexanderramin/eventpermit/internal/formdef"
	"github.com/alexanderramin/eventpermit/internal/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingUI struct {
	views     []StepView
	focused   []string
	advisory  []domain.ConflictState
	summaries []Summary
}

func (u *recordingUI) Render(v StepView)                { u.views = append(u.views, v) }
func (u *recordingUI) Focus(id string)                  { u.focused = append(u.focused, id) }
func (u *recordingUI) SetAdvisory(s domain.ConflictState) { u.advisory = append(u.advisory, s) }
func (u *recordingUI) ShowSummary(s Summary)            { u.summaries = append(u.summaries, s) }

func (u *recordingUI) last() StepView { return u.views[len(u.views)-1] }

type fakeMap struct {
	inits     int
	relayouts int
}

func (m *fakeMap) Init(location.Pick) { m.inits++ }
func (m *fakeMap) Relayout()          { m.relayouts++ }

type manualScheduler struct {
	delays []time.Duration
	fns    []func()
}

func (s *manualScheduler) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.fns = append(s.fns, fn)
}

func (s *manualScheduler) runAll() {
	fns := s.fns
	s.fns = nil
	for _, fn := range fns {
		fn()
	}
}

type stubOracle struct {
	conflict bool
	calls    int
}

func (o *stubOracle) CheckConflict(context.Context, contract.ConflictRequest) (bool, error) {
	o.calls++
	return o.conflict, nil
}

type fixture struct {
	nav   *Navigator
	ui    *recordingUI
	mapw  *fakeMap
	sched *manualScheduler
	store *fieldstore.Store
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	layout, err := formdef.Default()
	require.NoError(t, err)
	f := &fixture{
		ui:    &recordingUI{},
		mapw:  &fakeMap{},
		sched: &manualScheduler{},
		store: fieldstore.New(layout.Defaults()),
	}
	opts = append([]Option{WithMap(f.mapw), WithScheduler(f.sched)}, opts...)
	f.nav = New(layout, f.store, f.ui, opts...)
	return f
}

func (f *fixture) fillApplicant() {
	f.store.Set(domain.FieldEventType, "Market or fair")
	f.store.Set(domain.FieldEventName, "Spring Fair")
	f.store.Set(domain.FieldOrganizerName, "Sam")
	f.store.Set(domain.FieldContactEmail, "sam@example.org")
}

func (f *fixture) fillAll() {
	f.fillApplicant()
	f.store.Set(domain.FieldVenue, "Main Park")
	f.store.Set(domain.FieldStartDate, "2024-05-01")
	f.store.Set(domain.FieldStartTime, "09:00")
	f.store.Set(domain.FieldEndTime, "11:00")
	f.store.Set(domain.FieldAttendance, "150")
}

func TestNew_StartsAtFirstStepAndStripsHiddenRequired(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, 0, f.nav.Current())
	require.Len(t, f.ui.views, 1)
	assert.True(t, f.nav.Required(domain.FieldEventName))
	assert.False(t, f.nav.Required(domain.FieldVenue), "hidden step fields are not required")
	assert.False(t, f.nav.Required(domain.FieldDeclaration))
	assert.Equal(t, []bool{true, false, false, false, false}, f.ui.last().Progress)
}

func TestNext_EmptyRequiredFieldRefuses(t *testing.T) {
	f := newFixture(t)
	f.store.Set(domain.FieldEventType, "Other")

	err := f.nav.Next()

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.FieldEventName, vErr.FieldID)
	assert.Equal(t, ReasonEmpty, vErr.Reason)
	assert.Equal(t, 0, f.nav.Current())
	assert.Equal(t, []string{domain.FieldEventName}, f.ui.focused)
	assert.Len(t, f.ui.views, 1, "no re-render on refusal")
}

func TestNext_ValidStepAdvancesByOne(t *testing.T) {
	f := newFixture(t)
	f.fillApplicant()

	require.NoError(t, f.nav.Next())
	assert.Equal(t, 1, f.nav.Current())
	assert.True(t, f.nav.Required(domain.FieldVenue))
	assert.False(t, f.nav.Required(domain.FieldEventName))
}

func TestNext_OptionalFieldsDoNotBlock(t *testing.T) {
	f := newFixture(t)
	f.fillApplicant()
	// contact_phone is optional and left empty.
	assert.NoError(t, f.nav.Next())
}

func TestNext_OnLastStepIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.fillAll()
	for i := 0; i < 4; i++ {
		require.NoError(t, f.nav.Next(), "step %d", i)
	}
	require.True(t, f.nav.IsLast())

	err := f.nav.Next()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, ReasonUnchecked, vErr.Reason)

	f.nav.SetChecked(domain.FieldDeclaration, true)
	views := len(f.ui.views)
	assert.NoError(t, f.nav.Next())
	assert.Equal(t, 4, f.nav.Current())
	assert.Len(t, f.ui.views, views)
}

func TestBack_NeverValidatesAndStopsAtZero(t *testing.T) {
	f := newFixture(t)
	f.fillApplicant()
	require.NoError(t, f.nav.Next())

	// Venue is empty and required, Back must still work.
	assert.True(t, f.nav.Back())
	assert.Equal(t, 0, f.nav.Current())
	assert.Empty(t, f.ui.focused)

	assert.False(t, f.nav.Back())
	assert.Equal(t, 0, f.nav.Current())
}

func TestRequiredRestoredOnlyForPreviouslyRequired(t *testing.T) {
	f := newFixture(t)
	f.fillApplicant()
	require.NoError(t, f.nav.Next())
	require.True(t, f.nav.Back())

	assert.True(t, f.nav.Required(domain.FieldEventName))
	assert.True(t, f.nav.Required(domain.FieldContactEmail))
	assert.False(t, f.nav.Required(domain.FieldContactPhone), "optional field stays optional")
	assert.False(t, f.ui.last().Required[domain.FieldContactPhone])
}

func TestMapStep_InitialisesOnceAndSchedulesRelayout(t *testing.T) {
	f := newFixture(t)
	f.fillApplicant()
	assert.False(t, f.nav.MapInitialized())

	require.NoError(t, f.nav.Next())
	assert.True(t, f.nav.MapInitialized())
	assert.Equal(t, 1, f.mapw.inits)
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 300 * time.Millisecond}, f.sched.delays)

	f.sched.runAll()
	assert.Equal(t, 2, f.mapw.relayouts)

	require.True(t, f.nav.Back())
	require.NoError(t, f.nav.Next())
	assert.Equal(t, 1, f.mapw.inits, "second entry must not reinitialise")
	assert.Len(t, f.sched.delays, 4, "relayout is scheduled on every entry")
}

func TestMapStep_WithoutSchedulerRelayoutsOnCallerGoroutine(t *testing.T) {
	layout, err := formdef.Default()
	require.NoError(t, err)
	mapw := &fakeMap{}
	store := fieldstore.New(layout.Defaults())
	nav := New(layout, store, &recordingUI{}, WithMap(mapw))
	store.Set(domain.FieldEventType, "Other")
	store.Set(domain.FieldEventName, "Spring Fair")
	store.Set(domain.FieldOrganizerName, "Sam")
	store.Set(domain.FieldContactEmail, "sam@example.org")

	require.NoError(t, nav.Next())

	// Read straight after Next: nothing may touch the map on another goroutine.
	assert.Equal(t, 1, mapw.inits)
	assert.Equal(t, 1, mapw.relayouts)

	require.True(t, nav.Back())
	require.NoError(t, nav.Next())
	assert.Equal(t, 1, mapw.inits)
	assert.Equal(t, 2, mapw.relayouts)
}

func TestSetField_TimesStoredZeroPadded(t *testing.T) {
	f := newFixture(t)

	f.nav.SetField(domain.FieldStartTime, "5:00")
	assert.Equal(t, "05:00", f.store.Get(domain.FieldStartTime))

	f.nav.SetField(domain.FieldEndTime, " 21:30")
	assert.Equal(t, "21:30", f.store.Get(domain.FieldEndTime))

	f.nav.SetField(domain.FieldEndTime, "25:00")
	assert.Equal(t, "25:00", f.store.Get(domain.FieldEndTime), "unparseable input is kept as typed")

	f.nav.SetField(domain.FieldEventName, " 5:00")
	assert.Equal(t, " 5:00", f.store.Get(domain.FieldEventName), "only time fields are rewritten")
}

func TestNext_MalformedTimeRefuses(t *testing.T) {
	f := newFixture(t)
	f.fillAll()
	require.NoError(t, f.nav.Next())
	require.NoError(t, f.nav.Next())
	require.Equal(t, 2, f.nav.Current())

	f.nav.SetField(domain.FieldEndTime, "25:00")
	err := f.nav.Next()

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.FieldEndTime, vErr.FieldID)
	assert.Equal(t, ReasonFormat, vErr.Reason)
	assert.Equal(t, 2, f.nav.Current())
	assert.Equal(t, domain.FieldEndTime, f.ui.focused[len(f.ui.focused)-1])

	f.nav.SetField(domain.FieldEndTime, "9:00")
	require.NoError(t, f.nav.Next())
	assert.Equal(t, 3, f.nav.Current())
}

func TestSummaryStep_RendersFreshClassification(t *testing.T) {
	f := newFixture(t)
	f.fillAll()
	for i := 0; i < 4; i++ {
		require.NoError(t, f.nav.Next())
	}

	require.Len(t, f.ui.summaries, 1)
	s := f.ui.summaries[0]
	assert.Equal(t, domain.SelfAssessable, s.Classification)
	assert.Equal(t, []RecapRow{
		{"Event Name", "Spring Fair"},
		{"Venue", "Main Park"},
		{"Start", "2024-05-01 09:00"},
		{"End", "11:00"},
		{"Attendance", "150"},
	}, s.Recap)
	assert.Len(t, s.Eligibility.Results, 11)

	// Re-entering recomputes from current values.
	require.True(t, f.nav.Back())
	f.store.Set(domain.FieldAttendance, "250")
	require.NoError(t, f.nav.Next())
	require.Len(t, f.ui.summaries, 2)
	assert.Equal(t, domain.Assessable, f.ui.summaries[1].Classification)
	assert.False(t, f.ui.summaries[1].Eligibility.Results[0].OK)
}

func TestRefresh_OnlyOnSummaryStep(t *testing.T) {
	f := newFixture(t)
	f.nav.Refresh()
	assert.Empty(t, f.ui.summaries)

	f.fillAll()
	for i := 0; i < 4; i++ {
		require.NoError(t, f.nav.Next())
	}
	f.store.Set(domain.FieldAlcohol, "Yes")
	f.nav.Refresh()
	require.Len(t, f.ui.summaries, 2)
	assert.Equal(t, domain.Assessable, f.ui.summaries[1].Classification)
}

func TestSummary_EmptyValuesShowDash(t *testing.T) {
	f := newFixture(t)
	for _, row := range f.nav.Summary().Recap {
		assert.Equal(t, "-", row.Value, row.Label)
	}
}

func TestHandleConfirm(t *testing.T) {
	f := newFixture(t)
	f.fillApplicant()

	assert.Equal(t, ConfirmNone, f.nav.HandleConfirm(domain.FieldEventName), "not the terminal control")
	assert.Equal(t, 0, f.nav.Current())

	assert.Equal(t, ConfirmAdvanced, f.nav.HandleConfirm(domain.FieldContactPhone))
	assert.Equal(t, 1, f.nav.Current())

	// Venue empty: blocked, focus moves to it.
	assert.Equal(t, ConfirmBlocked, f.nav.HandleConfirm(domain.FieldMapPin))
	assert.Equal(t, domain.FieldVenue, f.ui.focused[len(f.ui.focused)-1])
	assert.Equal(t, 1, f.nav.Current())
}

func TestHandleConfirm_MultilinePassesThrough(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, ConfirmPassThrough, f.nav.HandleConfirm(domain.FieldNotes))
	assert.Equal(t, ConfirmNone, f.nav.HandleConfirm(""))
}

func TestHandleConfirm_SubmitOnLastStep(t *testing.T) {
	f := newFixture(t)
	f.fillAll()
	for i := 0; i < 4; i++ {
		require.NoError(t, f.nav.Next())
	}

	assert.Equal(t, ConfirmBlocked, f.nav.HandleConfirm(domain.FieldDeclaration))
	f.nav.SetChecked(domain.FieldDeclaration, true)
	assert.Equal(t, ConfirmSubmit, f.nav.HandleConfirm(domain.FieldDeclaration))
}

func TestConflict_SequencedApplication(t *testing.T) {
	oracle := &stubOracle{conflict: true}
	advisor := conflict.NewAdvisor(conflict.NewClient(oracle, nil))
	f := newFixture(t, WithAdvisor(advisor))

	_, ok := f.nav.SetField(domain.FieldAttendance, "20")
	assert.False(t, ok, "non-trigger field does not recheck")

	f.store.Set(domain.FieldStartDate, "2024-05-01")
	f.store.Set(domain.FieldStartTime, "09:00")
	f.store.Set(domain.FieldEndTime, "11:00")

	stale, ok := f.nav.SetField(domain.FieldVenue, "Beach Reserve")
	require.True(t, ok)
	fresh, ok := f.nav.SetField(domain.FieldVenue, "Main Park")
	require.True(t, ok)
	assert.Equal(t, "Main Park", fresh.Candidate.Venue)

	_, ok = f.nav.SetField(domain.FieldVenue, "Main Park")
	assert.False(t, ok, "unchanged value does not recheck")

	assert.True(t, f.nav.ApplyConflict(advisor.Run(context.Background(), fresh)))
	assert.Equal(t, domain.ConflictConflicting, f.nav.Advisory())

	oracle.conflict = false
	assert.False(t, f.nav.ApplyConflict(advisor.Run(context.Background(), stale)))
	assert.Equal(t, domain.ConflictConflicting, f.nav.Advisory())
	assert.Equal(t, []domain.ConflictState{domain.ConflictConflicting}, f.ui.advisory)
}

func TestPickLocation_ClearsFeatureAndRechecks(t *testing.T) {
	oracle := &stubOracle{}
	advisor := conflict.NewAdvisor(conflict.NewClient(oracle, nil))
	f := newFixture(t, WithAdvisor(advisor))
	f.store.Set(domain.FieldFeatureID, "F-1")

	ticket, ok := f.nav.PickLocation(location.Pick{Latitude: -26.7, Longitude: 153.1})
	require.True(t, ok)
	assert.Equal(t, "-26.700000", f.store.Get(domain.FieldLatitude))
	assert.Empty(t, f.store.Get(domain.FieldFeatureID))
	assert.Equal(t, domain.ConflictUnknown, advisor.Run(context.Background(), ticket).State)
	assert.Zero(t, oracle.calls)

	_, ok = f.nav.ClearLocation()
	assert.True(t, ok)
	assert.Empty(t, f.store.Get(domain.FieldLatitude))
}

func TestRecheckConflict_WithoutAdvisor(t *testing.T) {
	f := newFixture(t)
	_, ok := f.nav.RecheckConflict()
	assert.False(t, ok)
	assert.False(t, f.nav.ApplyConflict(conflict.Result{Seq: 0}))
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "Venue is required", (&ValidationError{FieldID: "venue", Label: "Venue", Reason: ReasonEmpty}).Error())
	assert.Equal(t, "declaration must be ticked", (&ValidationError{FieldID: "declaration", Reason: ReasonUnchecked}).Error())
	assert.Equal(t, "Start time must be a 24-hour time such as 09:30", (&ValidationError{Label: "Start time", Reason: ReasonFormat}).Error())
}

func TestAdvisoryMessage_UnknownIsNeutral(t *testing.T) {
	assert.NotEqual(t, AdvisoryMessage(domain.ConflictAvailable), AdvisoryMessage(domain.ConflictUnknown))
	assert.Contains(t, AdvisoryMessage(domain.ConflictConflicting), "Pending")
}
