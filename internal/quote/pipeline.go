package quote

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/cambroos/rentals-backend/internal/cart"
	"github.com/cambroos/rentals-backend/pkg/logger"
	"github.com/cambroos/rentals-backend/pkg/types"
)

// State is the submission lifecycle of one quote.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateFailed     State = "failed"
)

var (
	ErrEmptyCart          = errors.New("your quote is empty: add equipment before requesting a quote")
	ErrSubmissionInFlight = errors.New("a quote submission is already in progress")
	ErrNothingToRetry     = errors.New("no failed submission to retry")
)

// Status is the observable pipeline state. Reason is set only when Failed.
type Status struct {
	State   State
	Failure FailureKind
	Reason  string
	// Attempt counts transitions into Submitting since the last reset.
	Attempt int
}

type cartClearer interface {
	Clear()
}

type PipelineParams struct {
	Relay        Relay
	Cart         cartClearer
	Logger       *logger.Logger
	SupportEmail string
	// NewKey mints the idempotency key for a fresh submission; defaults to uuid.NewString.
	NewKey func() string
}

type attempt struct {
	payload types.OrderRequest
	key     string
}

// Pipeline drives validate → payload → relay → outcome for one cart session.
// State lives here rather than in any view, so callers may come and go while a
// request is in flight.
type Pipeline struct {
	relay        Relay
	cart         cartClearer
	logg         *logger.Logger
	supportEmail string
	newKey       func() string

	mu        sync.Mutex
	status    Status
	last      *attempt
	listeners map[int]func(Status)
	nextSub   int
}

func NewPipeline(params PipelineParams) (*Pipeline, error) {
	if params.Relay == nil {
		return nil, errors.New("relay required")
	}
	if params.Cart == nil {
		return nil, errors.New("cart required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	newKey := params.NewKey
	if newKey == nil {
		newKey = uuid.NewString
	}
	return &Pipeline{
		relay:        params.Relay,
		cart:         params.Cart,
		logg:         logg,
		supportEmail: params.SupportEmail,
		newKey:       newKey,
		status:       Status{State: StateIdle},
		listeners:    map[int]func(Status){},
	}, nil
}

// Status returns the current state synchronously.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// LastPayload returns a copy of the payload of the most recent attempt.
func (p *Pipeline) LastPayload() (types.OrderRequest, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		return types.OrderRequest{}, false
	}
	return p.last.payload.Clone(), true
}

// Submit validates form, snapshots the cart lines and sends the quote. Validation
// failures (FieldErrors) and an empty snapshot leave the state untouched: Idle
// stays Idle, and a Failed attempt stays Failed with its payload still retriable.
func (p *Pipeline) Submit(ctx context.Context, form Form, snapshot []cart.Item) (Status, error) {
	p.mu.Lock()
	if p.status.State == StateSubmitting {
		status := p.status
		p.mu.Unlock()
		return status, ErrSubmissionInFlight
	}

	req, fieldErrs := Validate(form)
	if fieldErrs != nil {
		status := p.status
		p.mu.Unlock()
		return status, fieldErrs
	}
	if len(snapshot) == 0 {
		status := p.status
		p.mu.Unlock()
		return status, ErrEmptyCart
	}

	att := &attempt{payload: BuildPayload(*req, snapshot), key: p.newKey()}
	p.last = att
	return p.runLocked(ctx, att)
}

// Retry resends the last payload with its original idempotency key. It never
// re-reads the cart, which was left untouched by the failed attempt.
func (p *Pipeline) Retry(ctx context.Context) (Status, error) {
	p.mu.Lock()
	if p.status.State == StateSubmitting {
		status := p.status
		p.mu.Unlock()
		return status, ErrSubmissionInFlight
	}
	if p.status.State != StateFailed || p.last == nil {
		status := p.status
		p.mu.Unlock()
		return status, ErrNothingToRetry
	}
	return p.runLocked(ctx, p.last)
}

// Reset returns to Idle for a new quote. It is refused while a request is in flight.
func (p *Pipeline) Reset() error {
	p.mu.Lock()
	if p.status.State == StateSubmitting {
		p.mu.Unlock()
		return ErrSubmissionInFlight
	}
	p.status = Status{State: StateIdle}
	p.last = nil
	status, listeners := p.status, p.listenersLocked()
	p.mu.Unlock()

	publish(listeners, status)
	return nil
}

// Subscribe registers fn for every state transition.
func (p *Pipeline) Subscribe(fn func(Status)) int {
	if fn == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextSub++
	p.listeners[p.nextSub] = fn
	return p.nextSub
}

func (p *Pipeline) Unsubscribe(id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.listeners, id)
}

// runLocked must be entered with p.mu held; it releases the lock around the network call.
func (p *Pipeline) runLocked(ctx context.Context, att *attempt) (Status, error) {
	p.status = Status{State: StateSubmitting, Attempt: p.status.Attempt + 1}
	submitting, listeners := p.status, p.listenersLocked()
	p.mu.Unlock()
	publish(listeners, submitting)

	ctx = p.logg.WithFields(ctx, map[string]any{
		"idempotency_key": att.key,
		"attempt":         submitting.Attempt,
		"items":           len(att.payload.CartItems),
	})
	p.logg.Info(ctx, "quote.submit.start")

	outcome, err := p.relay.Send(ctx, att.payload.Clone(), att.key)
	if err == nil {
		// Emptied before Submitted is published so no reader sees both.
		p.cart.Clear()
	}

	p.mu.Lock()
	if err != nil {
		kind, reason := classify(err, p.supportEmail)
		p.status = Status{State: StateFailed, Failure: kind, Reason: reason, Attempt: submitting.Attempt}
		failed, listeners := p.status, p.listenersLocked()
		p.mu.Unlock()

		p.logg.Error(p.logg.WithField(ctx, "failure", string(kind)), "quote.submit.failed", err)
		publish(listeners, failed)
		return failed, err
	}

	p.status = Status{State: StateSubmitted, Attempt: submitting.Attempt}
	done, listeners := p.status, p.listenersLocked()
	p.mu.Unlock()

	p.logg.Info(p.logg.WithField(ctx, "status_code", outcome.StatusCode), "quote.submit.succeeded")
	publish(listeners, done)
	return done, nil
}

func (p *Pipeline) listenersLocked() []func(Status) {
	out := make([]func(Status), 0, len(p.listeners))
	for id := 1; id <= p.nextSub; id++ {
		if fn, ok := p.listeners[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func publish(listeners []func(Status), status Status) {
	for _, fn := range listeners {
		fn(status)
	}
}
