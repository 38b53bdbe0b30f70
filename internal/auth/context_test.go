package auth

import (
	"context"
	"testing"

	"github.com/tradebench/backend/internal/models"
)

func newTestCell(t *testing.T) (*Context, *Adapter) {
	t.Helper()
	a := NewAdapter(newMemProfiles(), "test-secret")
	c := NewContext(a)
	t.Cleanup(c.Close)
	return c, a
}

func TestContextInitWithoutToken(t *testing.T) {
	c, _ := newTestCell(t)

	if got := c.Current().State; got != StateUninitialized {
		t.Fatalf("initial state = %q, want uninitialized", got)
	}

	c.Init(context.Background(), "")
	snap := c.Current()
	if snap.State != StateAnonymous {
		t.Errorf("state = %q, want anonymous", snap.State)
	}
	if snap.User != nil || snap.Err != "" {
		t.Errorf("anonymous snapshot carries user=%v err=%q", snap.User, snap.Err)
	}
}

func TestContextInitWithToken(t *testing.T) {
	c, a := newTestCell(t)
	ctx := context.Background()

	res := a.SignUp(ctx, registerReq())
	if !res.Success {
		t.Fatalf("SignUp failed: %s", res.Message)
	}

	c.Init(ctx, res.Token)
	snap := c.Current()
	if snap.State != StateAuthenticated {
		t.Fatalf("state = %q, want authenticated", snap.State)
	}
	if snap.User == nil || snap.User.ID != res.User.ID {
		t.Errorf("snapshot user = %v", snap.User)
	}
	if snap.Token != res.Token {
		t.Error("token not retained")
	}
}

func TestContextInitWithBadToken(t *testing.T) {
	c, _ := newTestCell(t)

	c.Init(context.Background(), "not-a-token")
	snap := c.Current()
	if snap.State != StateAnonymous {
		t.Errorf("state = %q, want anonymous", snap.State)
	}
	if snap.Err == "" {
		t.Error("expected an error overlay for the rejected token")
	}
}

func TestContextSignInSignOut(t *testing.T) {
	c, a := newTestCell(t)
	ctx := context.Background()

	a.SignUp(ctx, registerReq())
	a.SignOut()

	bad := c.SignIn(ctx, "apprentice@example.com", "nope")
	if bad.Success {
		t.Fatal("expected failure")
	}
	if snap := c.Current(); snap.Err == "" {
		t.Error("failed sign-in left no error overlay")
	}

	ok := c.SignIn(ctx, "apprentice@example.com", "supersecret")
	if !ok.Success {
		t.Fatalf("SignIn failed: %s", ok.Message)
	}
	snap := c.Current()
	if snap.State != StateAuthenticated || snap.User == nil {
		t.Fatalf("snapshot = %+v, want authenticated", snap)
	}
	if snap.Err != "" {
		t.Error("successful sign-in left the error overlay set")
	}

	c.SignOut()
	if snap := c.Current(); snap.State != StateAnonymous || snap.User != nil {
		t.Errorf("after SignOut: %+v", snap)
	}
}

// A sign-in performed directly on the adapter must still reach the cell
// through its subscription.
func TestContextMirrorsAdapterEvents(t *testing.T) {
	c, a := newTestCell(t)
	ctx := context.Background()

	a.SignUp(ctx, registerReq())
	if snap := c.Current(); snap.State != StateAuthenticated {
		t.Fatalf("state = %q after adapter sign-up, want authenticated", snap.State)
	}

	a.SignOut()
	if snap := c.Current(); snap.State != StateAnonymous {
		t.Errorf("state = %q after adapter sign-out, want anonymous", snap.State)
	}
}

func TestContextCloseDetaches(t *testing.T) {
	c, a := newTestCell(t)
	ctx := context.Background()

	c.Close()
	a.SignUp(ctx, registerReq())
	if snap := c.Current(); snap.State == StateAuthenticated {
		t.Error("closed cell still received events")
	}
}

func TestContextUpdateProfile(t *testing.T) {
	c, a := newTestCell(t)
	ctx := context.Background()

	if res := c.UpdateProfile(ctx, models.UpdateProfileRequest{}); res.Success || res.Code != CodeAuth {
		t.Errorf("anonymous update: success=%v code=%q, want auth failure", res.Success, res.Code)
	}

	a.SignUp(ctx, registerReq())

	year := 3
	res := c.UpdateProfile(ctx, models.UpdateProfileRequest{SelectedYear: &year})
	if !res.Success {
		t.Fatalf("UpdateProfile failed: %s", res.Message)
	}
	if snap := c.Current(); snap.User.SelectedYear != 3 {
		t.Errorf("SelectedYear = %d, want 3", snap.User.SelectedYear)
	}
}
