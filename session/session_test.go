package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinoisasian/jingshin-leave-public/directory"
	"github.com/Vinoisasian/jingshin-leave-public/leave"
	"github.com/Vinoisasian/jingshin-leave-public/locales"
	"github.com/Vinoisasian/jingshin-leave-public/session"
	"github.com/Vinoisasian/jingshin-leave-public/worktime"
)

// =============================================================================
// TEST DOUBLES
// =============================================================================

// fakeDirectory serves a fixed roster; lookups can be gated to stay in
// flight until the test releases them.
type fakeDirectory struct {
	mu     sync.Mutex
	roster map[string]*directory.Profile
	gate   chan struct{}
	err    error
}

func (f *fakeDirectory) lookup(ctx context.Context, id string) (*directory.Profile, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.roster[id]; ok {
		return p, nil
	}
	return nil, leave.ErrIdentityNotFound
}

// fakeApprover records submissions; optionally fails or blocks.
type fakeApprover struct {
	mu         sync.Mutex
	submission *leave.Submission
	err        error
	gate       chan struct{}
}

func (f *fakeApprover) Submit(ctx context.Context, sub leave.Submission) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submission = &sub
	return f.err
}

func (f *fakeApprover) received() *leave.Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submission
}

type fakeIP struct{ ip string }

func (f fakeIP) PublicIP(ctx context.Context) string { return f.ip }

func balance(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func newTestManager(t *testing.T, dir *fakeDirectory, app *fakeApprover) *session.Manager {
	t.Helper()
	return session.NewManager(session.Deps{
		Lookup:   dir.lookup,
		Approver: app,
		IPSource: fakeIP{ip: "203.0.113.7"},
		Schedule: worktime.StandardSchedule,
		Now:      func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) },
	}, time.Hour)
}

func defaultRoster() map[string]*directory.Profile {
	return map[string]*directory.Profile{
		"14070": {WorkerID: "14070", Name: "陳小美", Department: "Production", Role: "Operator", Balance: balance("7")},
		"20002": {WorkerID: "20002", Name: "Trần Văn Nam", Department: "Assembly", Role: "Technician"},
	}
}

func waitForState(t *testing.T, s *session.Session, want session.State) {
	t.Helper()
	require.Eventually(t, func() bool {
		return s.View().State == want
	}, time.Second, 5*time.Millisecond, "expected state %s", want)
}

func strPtr(s string) *string { return &s }

// =============================================================================
// VERIFICATION FLOW
// =============================================================================

func TestSession_VerificationUnlocksForm(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)

	v := s.View()
	assert.Equal(t, "陳小美", v.Draft.WorkerName)
	assert.Equal(t, "Production", v.Draft.Department)
	assert.Equal(t, "Operator", v.Draft.Role)
	require.NotNil(t, v.Draft.Balance)
	assert.Equal(t, "7", v.Draft.Balance.String())
}

func TestSession_ShortID_StaysLandingAndIdentityEmpty(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.English, "test-agent")

	require.NoError(t, s.SetWorkerID("140"))

	v := s.View()
	assert.Equal(t, session.StateLanding, v.State)
	assert.Equal(t, "140", v.Draft.WorkerID)
	assert.Empty(t, v.Draft.WorkerName)
}

func TestSession_UnknownID_SurfacesNotFoundAndKeepsFormLocked(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("99999"))
	waitForState(t, s, session.StateLanding)

	v := s.View()
	assert.Equal(t, directory.StatusNotFound, v.Resolution.Status)
	assert.ErrorIs(t, v.VerifyErr, leave.ErrIdentityNotFound)

	err := s.Submit(context.Background())
	assert.ErrorIs(t, err, leave.ErrNotVerified, "submit must stay disabled")
}

func TestSession_UntrackedBalance_IsNilNotError(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.Vietnamese, "test-agent")

	require.NoError(t, s.SetWorkerID("20002"))
	waitForState(t, s, session.StateFormActive)

	assert.Nil(t, s.View().Draft.Balance)
}

func TestSession_EditBeforeVerification_Rejected(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	err := s.EditFields(session.FieldEdits{Reason: strPtr("family matter")})
	assert.ErrorIs(t, err, leave.ErrNotVerified)
}

// =============================================================================
// IDENTITY INVARIANTS
// =============================================================================

func TestSession_ChangingID_ClearsIdentityBeforeNewResolution(t *testing.T) {
	// GIVEN: 14070 resolved
	// WHEN: the ID is retyped to 20002 whose lookup is held in flight
	// THEN: the old identity is already gone while the lookup is pending

	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)

	gate := make(chan struct{})
	dir.gate = gate
	require.NoError(t, s.SetWorkerID("20002"))

	v := s.View()
	assert.Equal(t, session.StateVerifying, v.State)
	assert.Empty(t, v.Draft.WorkerName, "stale name must not survive the ID change")
	assert.Empty(t, v.Draft.Department)
	assert.Empty(t, v.Draft.Role)
	assert.Nil(t, v.Draft.Balance)

	close(gate)
	waitForState(t, s, session.StateFormActive)
	assert.Equal(t, "Trần Văn Nam", s.View().Draft.WorkerName)
}

func TestSession_NonIdentityEdit_PreservesResolvedIdentity(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)

	lt := leave.TypeSick
	require.NoError(t, s.EditFields(session.FieldEdits{
		LeaveType: &lt,
		StartDate: strPtr("2024-01-22"),
		EndDate:   strPtr("2024-01-22"),
		Reason:    strPtr("doctor visit"),
	}))

	v := s.View()
	assert.Equal(t, "陳小美", v.Draft.WorkerName, "non-identity edits must not clear identity")
	assert.Equal(t, leave.TypeSick, v.Draft.LeaveType)
}

// =============================================================================
// DURATION PREVIEW
// =============================================================================

func TestSession_View_ComputesDurationPreview(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)

	require.NoError(t, s.EditFields(session.FieldEdits{
		StartDate: strPtr("2024-01-22"),
		StartTime: strPtr("09:00"),
		EndDate:   strPtr("2024-01-22"),
		EndTime:   strPtr("11:00"),
	}))

	assert.Equal(t, "2 Hours", s.View().Duration.String())
}

// =============================================================================
// SUBMISSION
// =============================================================================

func fillValidDraft(t *testing.T, s *session.Session) {
	t.Helper()
	require.NoError(t, s.EditFields(session.FieldEdits{
		StartDate: strPtr("2024-01-22"),
		EndDate:   strPtr("2024-01-22"),
		Reason:    strPtr("family matter"),
	}))
}

func TestSession_Submit_DispatchesFullPayload(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	app := &fakeApprover{}
	m := newTestManager(t, dir, app)
	s := m.Create(context.Background(), locales.Chinese, "Mozilla/5.0 (test)")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)
	fillValidDraft(t, s)

	require.NoError(t, s.Submit(context.Background()))
	waitForState(t, s, session.StateSubmitted)

	sub := app.received()
	require.NotNil(t, sub)
	assert.Equal(t, "14070", sub.WorkerID)
	assert.Equal(t, "陳小美", sub.WorkerName)
	assert.Equal(t, "personal", sub.LeaveType)
	assert.Equal(t, "08:00", sub.StartTime, "default start time carried")
	assert.Equal(t, "17:10", sub.EndTime, "default end time carried")
	assert.Equal(t, "Mozilla/5.0 (test)", sub.UserAgent)
	assert.Equal(t, "2024-01-15T10:30:00Z", sub.Timestamp)
	assert.Empty(t, sub.HoneyPot)
}

func TestSession_Submit_CarriesBestEffortIP(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	app := &fakeApprover{}
	m := newTestManager(t, dir, app)
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)
	fillValidDraft(t, s)

	// The IP echo runs in the background at session creation; by the time
	// verification settled it has long since landed.
	require.Eventually(t, func() bool {
		return s.View().IPAddress == "203.0.113.7"
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Submit(context.Background()))
	waitForState(t, s, session.StateSubmitted)

	assert.Equal(t, "203.0.113.7", app.received().IPAddress)
}

func TestSession_Submit_IncompleteDraft_Rejected(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)

	err := s.Submit(context.Background()) // no dates, no reason
	assert.ErrorIs(t, err, leave.ErrValidation)
}

func TestSession_Submit_HoneypotFilled_Rejected(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	app := &fakeApprover{}
	m := newTestManager(t, dir, app)
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)
	fillValidDraft(t, s)
	require.NoError(t, s.EditFields(session.FieldEdits{HoneyPot: strPtr("I am a bot")}))

	err := s.Submit(context.Background())
	assert.ErrorIs(t, err, leave.ErrBotDetected)
	assert.Nil(t, app.received(), "bot submissions never reach the approval endpoint")
}

func TestSession_DoubleSubmit_Refused(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	gate := make(chan struct{})
	app := &fakeApprover{gate: gate}
	m := newTestManager(t, dir, app)
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)
	fillValidDraft(t, s)

	require.NoError(t, s.Submit(context.Background()))
	err := s.Submit(context.Background())
	assert.ErrorIs(t, err, leave.ErrSubmissionInFlight)

	close(gate)
	waitForState(t, s, session.StateSubmitted)
}

func TestSession_SubmitTransportFailure_FailedThenEditable(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	app := &fakeApprover{err: leave.ErrSubmissionTransport}
	m := newTestManager(t, dir, app)
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NoError(t, s.SetWorkerID("14070"))
	waitForState(t, s, session.StateFormActive)
	fillValidDraft(t, s)

	require.NoError(t, s.Submit(context.Background()))
	waitForState(t, s, session.StateFailed)
	assert.ErrorIs(t, s.View().Failure, leave.ErrSubmissionTransport)

	// Any edit returns the form to an editable state; the user resubmits
	// manually.
	require.NoError(t, s.EditFields(session.FieldEdits{Reason: strPtr("second try")}))
	assert.Equal(t, session.StateFormActive, s.View().State)

	app.mu.Lock()
	app.err = nil
	app.mu.Unlock()
	require.NoError(t, s.Submit(context.Background()))
	waitForState(t, s, session.StateSubmitted)
}

// =============================================================================
// MANAGER
// =============================================================================

func TestManager_DiscardAbandonsSession(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})
	s := m.Create(context.Background(), locales.Chinese, "test-agent")

	require.NotNil(t, m.Get(s.ID))
	m.Discard(s.ID)
	assert.Nil(t, m.Get(s.ID))
}

func TestManager_SweepDropsExpiredSessions(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	m := session.NewManager(session.Deps{
		Lookup:   dir.lookup,
		Approver: &fakeApprover{},
		Schedule: worktime.StandardSchedule,
		Now:      func() time.Time { return now },
	}, 30*time.Minute)

	old := m.Create(context.Background(), locales.Chinese, "test-agent")

	now = now.Add(time.Hour)
	fresh := m.Create(context.Background(), locales.Chinese, "test-agent")

	removed := m.Sweep()
	assert.Equal(t, 1, removed)
	assert.Nil(t, m.Get(old.ID))
	assert.NotNil(t, m.Get(fresh.ID))
}

func TestManager_UnknownLanguageFallsBackToChinese(t *testing.T) {
	dir := &fakeDirectory{roster: defaultRoster()}
	m := newTestManager(t, dir, &fakeApprover{})

	s := m.Create(context.Background(), locales.Language("fr"), "test-agent")
	assert.Equal(t, locales.Chinese, s.Lang)
}
