package auth

import (
	"context"
	"sync"

	"github.com/tradebench/backend/internal/models"
)

type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

// Snapshot is a consistent read of the auth cell.
type Snapshot struct {
	State State
	User  *models.Profile
	Token string
	Err   string
}

// Context is the single shared auth cell for embedded callers. It mirrors
// the adapter's state-change events for its lifetime: signed_in and
// token_refreshed refresh the user, signed_out clears it. All writes go
// through its own operations or the subscription callback; reads get a
// Snapshot.
type Context struct {
	auth        Authenticator
	unsubscribe func()

	mu    sync.Mutex
	state State
	user  *models.Profile
	token string
	err   string
}

func NewContext(auth Authenticator) *Context {
	c := &Context{auth: auth, state: StateUninitialized}
	c.unsubscribe = auth.OnAuthStateChange(c.onEvent)
	return c
}

// Init resolves the initial state from a persisted token. An empty or
// rejected token lands in the anonymous state, not an error.
func (c *Context) Init(ctx context.Context, token string) {
	c.mu.Lock()
	c.state = StateLoading
	c.mu.Unlock()

	if token == "" {
		c.set(StateAnonymous, nil, "", "")
		return
	}

	res := c.auth.GetCurrentUser(ctx, token)
	if !res.Success {
		c.set(StateAnonymous, nil, "", res.Message)
		return
	}
	c.set(StateAuthenticated, res.User, token, "")
}

func (c *Context) SignUp(ctx context.Context, req models.RegisterRequest) Result {
	res := c.auth.SignUp(ctx, req)
	c.absorb(res)
	return res
}

func (c *Context) SignIn(ctx context.Context, email, password string) Result {
	res := c.auth.SignIn(ctx, email, password)
	c.absorb(res)
	return res
}

func (c *Context) SignOut() Result {
	res := c.auth.SignOut()
	c.set(StateAnonymous, nil, "", "")
	return res
}

func (c *Context) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) Result {
	c.mu.Lock()
	user := c.user
	c.mu.Unlock()
	if user == nil {
		return failure(CodeAuth, "Not signed in")
	}

	res := c.auth.UpdateProfile(ctx, user.ID, req)
	if res.Success {
		c.mu.Lock()
		c.user = res.User
		c.mu.Unlock()
	}
	return res
}

func (c *Context) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) Result {
	return c.auth.ResetPassword(ctx, req)
}

func (c *Context) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{State: c.state, User: c.user, Token: c.token, Err: c.err}
}

// Close detaches the cell from the adapter's event stream.
func (c *Context) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Context) onEvent(event Event, user *models.Profile) {
	switch event {
	case EventSignedIn, EventTokenRefreshed:
		c.mu.Lock()
		c.state = StateAuthenticated
		c.user = user
		c.err = ""
		c.mu.Unlock()
	case EventSignedOut:
		c.set(StateAnonymous, nil, "", "")
	}
}

// absorb folds a sign-in shaped result into the cell. Failures record the
// message as an error overlay without disturbing the current user.
func (c *Context) absorb(res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if res.Success {
		c.state = StateAuthenticated
		c.user = res.User
		c.token = res.Token
		c.err = ""
		return
	}
	c.err = res.Message
}

func (c *Context) set(state State, user *models.Profile, token, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
	c.user = user
	c.token = token
	c.err = errMsg
}
