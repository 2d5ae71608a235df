package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cecepns/stroke-care/internal/domain"
	"github.com/cecepns/stroke-care/internal/repository"
)

func newTestResolver(t *testing.T) (*IdentityResolver, *repository.UserRepository) {
	t.Helper()
	db, err := repository.Open(":memory:")
	require.NoError(t, err)
	users := repository.NewUserRepository(db)
	return NewIdentityResolver(users), users
}

func TestResolve_ClaimsWinOverDeclared(t *testing.T) {
	resolver, _ := newTestResolver(t)

	claims := &Claims{UserID: 7, Email: "budi@example.com", Role: "user"}
	declared := &domain.Participant{ID: "99", Name: "Impostor", Role: domain.RoleAdmin}

	p := resolver.Resolve(claims, declared)
	require.Equal(t, domain.ParticipantID("7"), p.ID)
	require.Equal(t, domain.RoleUser, p.Role, "declared admin role must not override claims")
	require.Equal(t, "Impostor", p.Name, "display name may come from the payload")
}

func TestResolve_AdminClaims(t *testing.T) {
	resolver, _ := newTestResolver(t)

	claims := &Claims{UserID: 1, Email: "admin@example.com", Role: "admin"}
	p := resolver.Resolve(claims, nil)
	require.Equal(t, domain.RoleAdmin, p.Role)
	require.Equal(t, "admin@example.com", p.Name, "name falls back to email when unknown")
}

func TestResolve_ClaimsNameFromRepository(t *testing.T) {
	resolver, users := newTestResolver(t)

	account := &domain.User{Name: "Budi", Email: "budi@example.com", Password: "h", Role: "user"}
	require.NoError(t, users.Create(account))

	claims := &Claims{UserID: account.ID, Email: account.Email, Role: "user"}
	p := resolver.Resolve(claims, nil)
	require.Equal(t, "Budi", p.Name)
}

func TestResolve_DeclaredRegisteredIdentityKept(t *testing.T) {
	resolver, _ := newTestResolver(t)

	declared := &domain.Participant{ID: "7", Name: "Budi", Role: domain.RoleUser}
	p := resolver.Resolve(nil, declared)
	require.Equal(t, *declared, p)
}

func TestResolve_BareNameBecomesAnonymous(t *testing.T) {
	resolver, _ := newTestResolver(t)

	p := resolver.Resolve(nil, &domain.Participant{Name: "Guest"})
	require.Equal(t, domain.RoleAnonymous, p.Role)
	require.Equal(t, "Guest", p.Name)
	require.True(t, strings.HasPrefix(p.ID.String(), "guest_"), "minted id should carry the guest prefix")
}

func TestResolve_NothingDeclared(t *testing.T) {
	resolver, _ := newTestResolver(t)

	p := resolver.Resolve(nil, nil)
	require.Equal(t, domain.RoleAnonymous, p.Role)
	require.Equal(t, "Anonymous", p.Name)
	require.NotEmpty(t, p.ID)
}

func TestResolve_DeclaredAnonymousIDKept(t *testing.T) {
	resolver, _ := newTestResolver(t)

	declared := &domain.Participant{ID: "guest_123_abc", Name: "Guest", Role: domain.RoleAnonymous}
	p := resolver.Resolve(nil, declared)
	require.Equal(t, domain.ParticipantID("guest_123_abc"), p.ID, "an established guest id persists across events")
}
