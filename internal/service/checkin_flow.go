package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

const (
	DefaultLocateTimeout = 10 * time.Second
	DefaultStoreTimeout  = 5 * time.Second
)

var (
	// ErrLowConfidence is returned by a QRScanner for a frame it could not
	// decode reliably. The flow keeps scanning.
	ErrLowConfidence = errors.New("qr: low-confidence decode")
	// ErrCameraDenied is returned by a QRScanner when camera access is refused.
	ErrCameraDenied = errors.New("qr: camera permission denied")
	// ErrAttemptCancelled is returned by SubmitManualCheckIn when the attempt
	// was discarded by a method switch or a newer attempt.
	ErrAttemptCancelled = errors.New("check-in: attempt cancelled")
)

// QRScanner yields one decoded QR payload per call.
type QRScanner interface {
	Scan(ctx context.Context) (string, error)
}

// LocationProvider yields a one-shot position fix. Failures should be
// *domain.LocateError.
type LocationProvider interface {
	GetFix(ctx context.Context, timeout time.Duration) (domain.LocationFix, error)
}

// Submitter is the part of CheckInSubmitter the flow depends on.
type Submitter interface {
	Submit(ctx context.Context, attempt domain.CheckInAttempt, site domain.OfficeSite) (*domain.CheckInRecord, error)
	Today(ctx context.Context, employeeID string) (*domain.CheckInRecord, error)
}

// Devices are the capabilities a QR check-in needs from the caller's side.
type Devices struct {
	Scanner QRScanner
	Locator LocationProvider
}

type session struct {
	permissions *PermissionTracker
	state       domain.FlowState
	gen         uint64
	cancel      context.CancelFunc
}

// CheckInFlow runs check-in attempts per employee session. At most one
// attempt is in flight per employee; a start while busy is ignored.
type CheckInFlow struct {
	submitter     Submitter
	sites         SiteResolver
	logger        *slog.Logger
	locateTimeout time.Duration
	storeTimeout  time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewCheckInFlow builds the flow. locateTimeout bounds the position fix and
// storeTimeout bounds each site lookup and submit; zero selects the default.
func NewCheckInFlow(submitter Submitter, sites SiteResolver, locateTimeout, storeTimeout time.Duration, logger *slog.Logger) *CheckInFlow {
	if locateTimeout <= 0 {
		locateTimeout = DefaultLocateTimeout
	}
	if storeTimeout <= 0 {
		storeTimeout = DefaultStoreTimeout
	}
	return &CheckInFlow{
		submitter:     submitter,
		sites:         sites,
		logger:        logger,
		locateTimeout: locateTimeout,
		storeTimeout:  storeTimeout,
		now:           time.Now,
		sessions:      make(map[string]*session),
	}
}

// sessionLocked returns the employee's session, creating it. f.mu must be held.
func (f *CheckInFlow) sessionLocked(employeeID string) *session {
	s, ok := f.sessions[employeeID]
	if !ok {
		s = &session{
			permissions: NewPermissionTracker(),
			state:       domain.FlowState{Phase: domain.PhaseIdle, At: f.now()},
		}
		f.sessions[employeeID] = s
	}
	return s
}

// resetLocked cancels whatever is in flight and returns the session to Idle.
func (f *CheckInFlow) resetLocked(s *session, method domain.Method) {
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = domain.FlowState{Phase: domain.PhaseIdle, Method: method, At: f.now()}
}

// StartQRCheckIn begins the scan branch and streams its states. The channel
// is closed after a terminal state, or after Idle when the attempt is
// cancelled. ok is false when an attempt is already in flight.
func (f *CheckInFlow) StartQRCheckIn(ctx context.Context, employeeID string, dev Devices) (<-chan domain.FlowState, bool) {
	f.mu.Lock()
	s := f.sessionLocked(employeeID)
	if s.state.Phase.Busy() {
		f.mu.Unlock()
		f.logger.Debug("check-in start ignored, attempt in flight",
			slog.String("employee_id", employeeID),
			slog.String("phase", string(s.state.Phase)),
		)
		return nil, false
	}
	s.gen++
	gen := s.gen
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	// Busy from here on so a concurrent start is ignored before the runner
	// gets scheduled.
	s.state = f.state(domain.PhaseScanning, domain.MethodQR)
	f.mu.Unlock()

	// Large enough for every state of one attempt so the runner never blocks.
	out := make(chan domain.FlowState, 8)
	go f.runQR(runCtx, employeeID, s, gen, dev, out)
	return out, true
}

func (f *CheckInFlow) runQR(ctx context.Context, employeeID string, s *session, gen uint64, dev Devices, out chan<- domain.FlowState) {
	defer close(out)
	log := f.logger.With(slog.String("employee_id", employeeID), slog.String("method", string(domain.MethodQR)))

	fail := func(reason domain.Reason, distance *float64) {
		st := f.state(domain.PhaseFailed, domain.MethodQR)
		st.Reason = reason
		st.DistanceMeters = distance
		ce := &domain.CheckInError{Reason: reason, DistanceMeters: distance}
		st.Message = ce.UserMessage()
		log.Info("check-in failed", slog.String("reason", string(reason)))
		f.emit(s, gen, st, out)
	}
	cancelled := func() {
		log.Info("check-in attempt cancelled")
		f.abort(s, gen, out)
	}

	perms := s.permissions.Current()
	if perms.Camera == domain.PermissionDenied {
		fail(domain.ReasonCameraPermissionDenied, nil)
		return
	}

	if !f.emit(s, gen, f.state(domain.PhaseScanning, domain.MethodQR), out) {
		return
	}
	code, reason := f.scan(ctx, s, dev.Scanner, log)
	if ctx.Err() != nil {
		cancelled()
		return
	}
	if reason != "" {
		fail(reason, nil)
		return
	}

	if s.permissions.Current().Location == domain.PermissionDenied {
		fail(domain.ReasonLocationPermissionDenied, nil)
		return
	}
	if !f.emit(s, gen, f.state(domain.PhaseLocating, domain.MethodQR), out) {
		return
	}
	fix, reason := f.locate(ctx, s, dev.Locator, log)
	if ctx.Err() != nil {
		cancelled()
		return
	}
	if reason != "" {
		fail(reason, nil)
		return
	}

	if !f.emit(s, gen, f.state(domain.PhaseValidating, domain.MethodQR), out) {
		return
	}
	site, err := f.resolveSite(ctx, employeeID)
	if err != nil {
		if ctx.Err() != nil {
			cancelled()
			return
		}
		log.Error("resolve site failed", slog.Any("error", err))
		fail(domain.ReasonStorageFailure, nil)
		return
	}
	attempt := domain.CheckInAttempt{
		EmployeeID:    employeeID,
		Method:        domain.MethodQR,
		PresentedCode: code,
		Fix:           &fix,
		AttemptedAt:   f.now(),
	}
	if outcome := Validate(attempt, *site); !outcome.Accepted {
		fail(outcome.Reason, outcome.DistanceMeters)
		return
	}

	if !f.emit(s, gen, f.state(domain.PhaseSubmitting, domain.MethodQR), out) {
		return
	}
	rec, err := f.submit(ctx, attempt, *site)
	if err != nil {
		if ctx.Err() != nil {
			cancelled()
			return
		}
		ce := asCheckInError(err)
		fail(ce.Reason, ce.DistanceMeters)
		return
	}

	st := f.state(domain.PhaseSucceeded, domain.MethodQR)
	st.Record = rec
	st.DistanceMeters = rec.DistanceMeters
	st.Message = "Checked in."
	f.emit(s, gen, st, out)
}

// scan reads until one payload decodes. Low-confidence frames are skipped.
func (f *CheckInFlow) scan(ctx context.Context, s *session, scanner QRScanner, log *slog.Logger) (string, domain.Reason) {
	if scanner == nil {
		return "", domain.ReasonScannerUnavailable
	}
	for {
		code, err := scanner.Scan(ctx)
		switch {
		case err == nil:
			return code, ""
		case ctx.Err() != nil:
			return "", ""
		case errors.Is(err, ErrLowConfidence):
			log.Debug("qr decode skipped", slog.Any("error", err))
			continue
		case errors.Is(err, ErrCameraDenied):
			_ = s.permissions.Set(domain.CapabilityCamera, domain.PermissionDenied)
			return "", domain.ReasonCameraPermissionDenied
		default:
			log.Warn("qr scanner failed", slog.Any("error", err))
			return "", domain.ReasonScannerUnavailable
		}
	}
}

// locate asks for one fix and gives up after the locate timeout even when
// the provider ignores its context.
func (f *CheckInFlow) locate(ctx context.Context, s *session, locator LocationProvider, log *slog.Logger) (domain.LocationFix, domain.Reason) {
	if locator == nil {
		return domain.LocationFix{}, domain.ReasonLocationUnavailable
	}

	lctx, cancel := context.WithTimeout(ctx, f.locateTimeout)
	defer cancel()

	type result struct {
		fix domain.LocationFix
		err error
	}
	done := make(chan result, 1)
	go func() {
		fix, err := locator.GetFix(lctx, f.locateTimeout)
		done <- result{fix: fix, err: err}
	}()

	var res result
	select {
	case res = <-done:
	case <-lctx.Done():
		if ctx.Err() != nil {
			return domain.LocationFix{}, ""
		}
		log.Warn("location fix timed out", slog.Duration("timeout", f.locateTimeout))
		return domain.LocationFix{}, domain.ReasonTimeout
	}

	if res.err == nil {
		return res.fix, ""
	}
	if ctx.Err() != nil {
		return domain.LocationFix{}, ""
	}

	var le *domain.LocateError
	if errors.As(res.err, &le) {
		switch le.Code {
		case domain.LocatePermissionDenied:
			_ = s.permissions.Set(domain.CapabilityLocation, domain.PermissionDenied)
			return domain.LocationFix{}, domain.ReasonLocationPermissionDenied
		case domain.LocateTimeout:
			return domain.LocationFix{}, domain.ReasonTimeout
		case domain.LocatePositionUnavailable:
			return domain.LocationFix{}, domain.ReasonLocationUnavailable
		}
	}
	if errors.Is(res.err, context.DeadlineExceeded) {
		return domain.LocationFix{}, domain.ReasonTimeout
	}
	log.Warn("location fix failed", slog.Any("error", res.err))
	return domain.LocationFix{}, domain.ReasonLocationUnavailable
}

// SubmitManualCheckIn runs the office-code fallback. A QR attempt in flight is
// cancelled first, as switching method does. If this attempt is itself
// discarded before it finishes, ErrAttemptCancelled is returned and no record
// is reported.
func (f *CheckInFlow) SubmitManualCheckIn(ctx context.Context, employeeID, code string) (*domain.CheckInRecord, error) {
	f.mu.Lock()
	s := f.sessionLocked(employeeID)
	if s.state.Phase.Busy() {
		if s.state.Method == domain.MethodManual {
			f.mu.Unlock()
			return nil, domain.NewCheckInError(domain.ReasonAttemptInProgress)
		}
		f.resetLocked(s, domain.MethodManual)
	}
	s.gen++
	gen := s.gen
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = f.state(domain.PhaseManualEntry, domain.MethodManual)
	f.mu.Unlock()
	defer cancel()

	log := f.logger.With(slog.String("employee_id", employeeID), slog.String("method", string(domain.MethodManual)))

	discarded := func() (*domain.CheckInRecord, error) {
		log.Info("check-in attempt cancelled")
		f.mu.Lock()
		if s.gen == gen {
			s.gen++
			s.cancel = nil
			s.state = domain.FlowState{Phase: domain.PhaseIdle, Method: domain.MethodManual, At: f.now()}
		}
		f.mu.Unlock()
		return nil, ErrAttemptCancelled
	}

	if !f.setState(s, gen, f.state(domain.PhaseSubmitting, domain.MethodManual)) {
		return discarded()
	}

	fail := func(ce *domain.CheckInError) (*domain.CheckInRecord, error) {
		st := f.state(domain.PhaseFailed, domain.MethodManual)
		st.Reason = ce.Reason
		st.Message = ce.UserMessage()
		if !f.setState(s, gen, st) {
			return discarded()
		}
		log.Info("check-in failed", slog.String("reason", string(ce.Reason)))
		return nil, ce
	}

	site, err := f.resolveSite(runCtx, employeeID)
	if err != nil {
		if runCtx.Err() != nil {
			return discarded()
		}
		log.Error("resolve site failed", slog.Any("error", err))
		return fail(&domain.CheckInError{Reason: domain.ReasonStorageFailure, Err: err})
	}

	attempt := domain.CheckInAttempt{
		EmployeeID:    employeeID,
		Method:        domain.MethodManual,
		PresentedCode: strings.TrimSpace(code),
		AttemptedAt:   f.now(),
	}
	rec, err := f.submit(runCtx, attempt, *site)
	if err != nil {
		if runCtx.Err() != nil {
			return discarded()
		}
		return fail(asCheckInError(err))
	}

	st := f.state(domain.PhaseSucceeded, domain.MethodManual)
	st.Record = rec
	st.Message = "Checked in."
	if !f.setState(s, gen, st) {
		return discarded()
	}
	return rec, nil
}

// resolveSite looks up the employee's site within the store timeout.
func (f *CheckInFlow) resolveSite(ctx context.Context, employeeID string) (*domain.OfficeSite, error) {
	return bounded(ctx, f.storeTimeout, f.logger, func(ctx context.Context) (*domain.OfficeSite, error) {
		return f.sites.SiteFor(ctx, employeeID)
	})
}

// submit hands the attempt to the submitter within the store timeout.
func (f *CheckInFlow) submit(ctx context.Context, attempt domain.CheckInAttempt, site domain.OfficeSite) (*domain.CheckInRecord, error) {
	return bounded(ctx, f.storeTimeout, f.logger, func(ctx context.Context) (*domain.CheckInRecord, error) {
		return f.submitter.Submit(ctx, attempt, site)
	})
}

// bounded runs fn under timeout and stops waiting once it passes, even when
// fn ignores its context. A passed deadline comes back as
// ReasonStorageFailure; cancellation of ctx itself comes back as ctx.Err().
func bounded[T any](ctx context.Context, timeout time.Duration, logger *slog.Logger, fn func(context.Context) (T, error)) (T, error) {
	sctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn(sctx)
		done <- result{v: v, err: err}
	}()

	var zero T
	select {
	case res := <-done:
		return res.v, res.err
	case <-sctx.Done():
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	logger.Warn("storage call timed out", slog.Duration("timeout", timeout))
	return zero, &domain.CheckInError{
		Reason: domain.ReasonStorageFailure,
		Err:    fmt.Errorf("after %s: %w", timeout, e.ErrDeadline),
	}
}

// PermissionState returns the last known camera and location authorization.
func (f *CheckInFlow) PermissionState(employeeID string) domain.Permissions {
	return f.Permissions(employeeID).Current()
}

// Permissions exposes the employee's tracker for updates and subscriptions.
func (f *CheckInFlow) Permissions(employeeID string) *PermissionTracker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionLocked(employeeID).permissions
}

func (f *CheckInFlow) UpdatePermissions(employeeID string, p domain.Permissions) (domain.Permissions, error) {
	t := f.Permissions(employeeID)
	if err := t.Apply(p); err != nil {
		return t.Current(), err
	}
	return t.Current(), nil
}

// RefreshPermissions asks q for the employee's current authorization and
// records it. Listeners are notified if anything changed.
func (f *CheckInFlow) RefreshPermissions(ctx context.Context, employeeID string, q PermissionQuerier) (domain.Permissions, error) {
	t := f.Permissions(employeeID)
	if err := t.Refresh(ctx, q); err != nil {
		return t.Current(), err
	}
	return t.Current(), nil
}

// SubscribePermissions calls fn on every change to the employee's
// authorization until the returned func is called.
func (f *CheckInFlow) SubscribePermissions(employeeID string, fn func(domain.Permissions)) func() {
	return f.Permissions(employeeID).Subscribe(fn)
}

func (f *CheckInFlow) State(employeeID string) domain.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessionLocked(employeeID).state
}

// Retry moves a failed session back to Idle. It never starts an attempt.
func (f *CheckInFlow) Retry(employeeID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessionLocked(employeeID)
	if s.state.Phase != domain.PhaseFailed {
		return false
	}
	s.state = domain.FlowState{Phase: domain.PhaseIdle, Method: s.state.Method, At: f.now()}
	return true
}

// SwitchMethod discards any attempt in flight and resets to Idle.
func (f *CheckInFlow) SwitchMethod(employeeID string, method domain.Method) domain.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessionLocked(employeeID)
	f.resetLocked(s, method)
	return s.state
}

func (f *CheckInFlow) Today(ctx context.Context, employeeID string) (*domain.CheckInRecord, error) {
	return f.submitter.Today(ctx, employeeID)
}

func (f *CheckInFlow) state(phase domain.FlowPhase, method domain.Method) domain.FlowState {
	return domain.FlowState{Phase: phase, Method: method, At: f.now()}
}

// setState records st if gen is still the session's current attempt.
func (f *CheckInFlow) setState(s *session, gen uint64, st domain.FlowState) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.gen != gen {
		return false
	}
	s.state = st
	if st.Phase.Terminal() && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

func (f *CheckInFlow) emit(s *session, gen uint64, st domain.FlowState, out chan<- domain.FlowState) bool {
	if !f.setState(s, gen, st) {
		out <- f.state(domain.PhaseIdle, st.Method)
		return false
	}
	out <- st
	return true
}

// abort ends a cancelled attempt. A superseded attempt leaves the session
// alone; otherwise the session goes back to Idle.
func (f *CheckInFlow) abort(s *session, gen uint64, out chan<- domain.FlowState) {
	f.mu.Lock()
	if s.gen == gen {
		s.gen++
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
		s.state = domain.FlowState{Phase: domain.PhaseIdle, Method: domain.MethodQR, At: f.now()}
	}
	f.mu.Unlock()
	out <- f.state(domain.PhaseIdle, domain.MethodQR)
}

func asCheckInError(err error) *domain.CheckInError {
	var ce *domain.CheckInError
	if errors.As(err, &ce) {
		return ce
	}
	return &domain.CheckInError{Reason: domain.ReasonStorageFailure, Err: err}
}
