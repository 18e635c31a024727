// Package session owns the client-side identity lifecycle: restore from
// persistent storage, login, logout, and the role gate in front of every
// admin screen. The current identity is a single owned value, only ever
// written by the three lifecycle operations.
package session

import (
	"context"
	"encoding/json"
	"log"

	"github.com/wanziee/cepat-tanggap-admin/internal/client"
	"github.com/wanziee/cepat-tanggap-admin/internal/models"
)

type Gate struct {
	api   *client.Client
	store Store
	user  *models.User
}

func NewGate(api *client.Client, store Store) *Gate {
	return &Gate{api: api, store: store}
}

// Restore rebuilds the session from the persisted token. A missing token
// means unauthenticated. Any failure while checking the token (network,
// 401, malformed identity) also ends unauthenticated with both keys
// cleared; the error never escapes this boundary.
func (g *Gate) Restore(ctx context.Context) bool {
	token, ok := g.store.Get(KeyToken)
	if !ok {
		g.clear()
		return false
	}

	g.api.SetToken(token)
	user, err := g.api.Me(ctx)
	if err != nil {
		log.Printf("[SESSION] Session check failed: %v", err)
		g.clear()
		return false
	}

	g.install(user, token)
	return true
}

// Login authenticates with an email or NIK. On success the identity and
// token are installed in memory and persisted; on failure the gate stays
// unauthenticated and the backend's message is returned.
func (g *Gate) Login(ctx context.Context, identifier, password string) error {
	user, token, err := g.api.Login(ctx, identifier, password)
	if err != nil {
		g.clear()
		return err
	}

	g.install(user, token)
	return nil
}

// Logout tells the backend to drop the token (best effort), then clears
// identity and token from memory and storage unconditionally.
func (g *Gate) Logout(ctx context.Context) {
	if g.user != nil {
		if err := g.api.Logout(ctx); err != nil {
			log.Printf("[SESSION] Server-side logout failed: %v", err)
		}
	}
	g.clear()
}

// Current returns the authenticated identity, or nil.
func (g *Gate) Current() *models.User {
	return g.user
}

// Authenticated reports whether an identity is installed.
func (g *Gate) Authenticated() bool {
	return g.user != nil
}

// Allowed reports whether the identity may use the admin panel:
// authenticated AND role in {admin, rt, rw}. An authenticated warga is
// denied here, which is a different outcome than unauthenticated.
func (g *Gate) Allowed() bool {
	return g.user != nil && models.IsAdminRole(g.user.Role)
}

func (g *Gate) install(user models.User, token string) {
	g.user = &user
	g.api.SetToken(token)

	if err := g.store.Set(KeyToken, token); err != nil {
		log.Printf("[SESSION] Failed to persist token: %v", err)
	}
	if raw, err := json.Marshal(user); err == nil {
		if err := g.store.Set(KeyUser, string(raw)); err != nil {
			log.Printf("[SESSION] Failed to persist identity: %v", err)
		}
	}
}

func (g *Gate) clear() {
	g.user = nil
	g.api.SetToken("")
	if err := g.store.Delete(KeyToken, KeyUser); err != nil {
		log.Printf("[SESSION] Failed to clear session storage: %v", err)
	}
}
