package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"storefront/internal/core/port"
	"storefront/pkg/config"
)

type CookieOptions struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func NewCookieOptions(cfg config.SessionConfig) CookieOptions {
	return CookieOptions{
		Name:   cfg.CookieName,
		TTL:    cfg.TTL,
		Secure: cfg.Secure,
	}
}

// CookieGateway binds one request to its session. The cookie carries only
// a random session id; the account UUID lives in the store.
type CookieGateway struct {
	w     http.ResponseWriter
	r     *http.Request
	store port.SessionStore
	opts  CookieOptions

	// state written during this request, shadowing the incoming cookie
	resolved  bool
	accountID string
}

func NewCookieGateway(w http.ResponseWriter, r *http.Request, store port.SessionStore, opts CookieOptions) *CookieGateway {
	return &CookieGateway{
		w:     w,
		r:     r,
		store: store,
		opts:  opts,
	}
}

// SetIdentity starts a fresh session. Any session presented with the
// request is discarded so a pre-login id never becomes authenticated.
func (g *CookieGateway) SetIdentity(ctx context.Context, accountID string) error {
	if err := g.dropIncoming(ctx); err != nil {
		return err
	}

	sessionID := uuid.NewString()

	if err := g.store.Save(ctx, sessionID, accountID, g.opts.TTL); err != nil {
		return err
	}

	g.writeCookie(sessionID, int(g.opts.TTL.Seconds()))
	g.resolved = true
	g.accountID = accountID

	return nil
}

func (g *CookieGateway) ClearIdentity(ctx context.Context) error {
	if err := g.dropIncoming(ctx); err != nil {
		return err
	}

	g.writeCookie("", -1)
	g.resolved = true
	g.accountID = ""

	return nil
}

func (g *CookieGateway) CurrentIdentity(ctx context.Context) (string, bool, error) {
	if g.resolved {
		return g.accountID, g.accountID != "", nil
	}

	sessionID, ok := g.incomingID()

	if !ok {
		return "", false, nil
	}

	accountID, found, err := g.store.Find(ctx, sessionID)

	if err != nil {
		return "", false, err
	}

	if !found || accountID == "" {
		return "", false, nil
	}

	return accountID, true, nil
}

func (g *CookieGateway) incomingID() (string, bool) {
	cookie, err := g.r.Cookie(g.opts.Name)

	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}

func (g *CookieGateway) dropIncoming(ctx context.Context) error {
	sessionID, ok := g.incomingID()

	if !ok {
		return nil
	}

	return g.store.Delete(ctx, sessionID)
}

func (g *CookieGateway) writeCookie(value string, maxAge int) {
	http.SetCookie(g.w, &http.Cookie{
		Name:     g.opts.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   g.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
