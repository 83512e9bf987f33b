package intake

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNoSession is returned when a step handler is reached for a user without
// an active session. The dispatcher routes on Active first, so hitting this
// means a routing bug, not user error.
var ErrNoSession = errors.New("no active intake session")

// Reply is what the controller wants shown to the user after one turn.
type Reply struct {
	Text           string
	ShowSellerMenu bool
	// Document holds the rendered claim when the final step validated.
	Document string
	Done     bool
}

// Controller drives the claim dialogue. It owns no transport: the Telegram
// dispatcher feeds it text and selections and renders the replies.
type Controller struct {
	sessions SessionStore
	now      func() time.Time
}

func NewController(sessions SessionStore) *Controller {
	return &Controller{sessions: sessions, now: time.Now}
}

// WithClock substitutes the time source. Used in tests.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// Start opens a fresh session at the first step. An existing session for the
// same user is overwritten; flows never stack.
func (c *Controller) Start(ctx context.Context, userID int64) (Reply, error) {
	s := &Session{Step: StepFIO, Fields: make(map[string]string)}
	if err := c.sessions.Put(ctx, userID, s); err != nil {
		return Reply{}, err
	}
	return Reply{Text: steps[StepFIO].prompt}, nil
}

// Active reports whether the user is mid-dialogue.
func (c *Controller) Active(ctx context.Context, userID int64) (bool, error) {
	s, err := c.sessions.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// Cancel clears the session unconditionally. Cancelling with no session is
// fine; the operation never fails on absence.
func (c *Controller) Cancel(ctx context.Context, userID int64) error {
	return c.sessions.Delete(ctx, userID)
}

// HandleText runs the current step's validator against the input. Invalid
// input re-prompts and leaves the session untouched; valid input records the
// normalized value and advances one step. Validating the final step renders
// the claim document and clears the session.
func (c *Controller) HandleText(ctx context.Context, userID int64, text string) (Reply, error) {
	s, err := c.sessions.Get(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if s == nil {
		return Reply{}, ErrNoSession
	}

	n, ok := steps[s.Step]
	if !ok {
		// Unknown step in a stored session; drop it rather than strand the user.
		_ = c.sessions.Delete(ctx, userID)
		return Reply{}, ErrNoSession
	}

	if n.validate == nil {
		// Decision node: free text cannot advance it.
		return Reply{Text: n.prompt, ShowSellerMenu: true}, nil
	}

	value, valid := n.validate(text)
	if !valid {
		return Reply{Text: n.errText}, nil
	}

	s.Fields[n.field] = value

	if n.next == "" {
		doc := RenderClaim(s.Fields, c.now())
		if err := c.sessions.Delete(ctx, userID); err != nil {
			return Reply{}, err
		}
		return Reply{Document: doc, Done: true, Text: "Готово — претензия сформирована. Возвращаю в главное меню."}, nil
	}

	s.Step = n.next
	if err := c.sessions.Put(ctx, userID, s); err != nil {
		return Reply{}, err
	}

	next := steps[n.next]
	if next.validate == nil {
		return Reply{Text: next.prompt, ShowSellerMenu: true}, nil
	}
	return Reply{Text: c.promptFor(n.next, s)}, nil
}

// SelectSeller advances the decision node with one of the fixed vendor
// choices. Selections outside the branch step are ignored with a re-prompt
// so a stale button press cannot corrupt the flow.
func (c *Controller) SelectSeller(ctx context.Context, userID int64, sellerID string) (Reply, error) {
	s, err := c.sessions.Get(ctx, userID)
	if err != nil {
		return Reply{}, err
	}
	if s == nil {
		return Reply{}, ErrNoSession
	}
	if s.Step != StepSellerSelect {
		return Reply{Text: c.promptFor(s.Step, s)}, nil
	}

	name, ok := Sellers[sellerID]
	if !ok {
		return Reply{Text: steps[StepSellerSelect].prompt, ShowSellerMenu: true}, nil
	}

	s.Fields["seller"] = name
	s.Step = steps[StepSellerSelect].next
	if err := c.sessions.Put(ctx, userID, s); err != nil {
		return Reply{}, err
	}
	return Reply{Text: c.promptFor(s.Step, s)}, nil
}

// promptFor returns the prompt for a step, including the simulated order
// status line shown before the date question.
func (c *Controller) promptFor(step Step, s *Session) string {
	if step == StepDate {
		seller := s.Fields["seller"]
		if seller == "" {
			seller = "не указан"
		}
		return fmt.Sprintf("Статус: информация о заказе не доступна (симуляция). Магазин: %s.\n\n%s",
			seller, steps[StepDate].prompt)
	}
	return steps[step].prompt
}
