package usecase

import (
	"strconv"

	"github.com/cecepns/stroke-care/internal/domain"
	"github.com/cecepns/stroke-care/internal/repository"
)

// IdentityResolver shapes whatever identity a connection hands the relay
// into a Participant. It does not authenticate: registered and admin
// identities arrive pre-validated by the auth layer, anonymous identities
// are self-declared. No error path distinguishes a bad credential from a
// missing one; that is upstream's job.
type IdentityResolver struct {
	users *repository.UserRepository
}

// NewIdentityResolver creates a new identity resolver.
func NewIdentityResolver(users *repository.UserRepository) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve produces the Participant for a connection. Verified claims win
// over the declared payload; without claims the declared identity is shaped
// as-is, and a bare display name becomes a fresh anonymous participant.
func (r *IdentityResolver) Resolve(claims *Claims, declared *domain.Participant) domain.Participant {
	if claims != nil {
		return r.fromClaims(claims, declared)
	}

	var d domain.Participant
	if declared != nil {
		d = *declared
	}

	// A declared registered/admin identity was validated upstream; keep it.
	if (d.Role == domain.RoleUser || d.Role == domain.RoleAdmin) && d.ID != "" {
		return d
	}

	p := domain.Participant{
		ID:   d.ID,
		Name: d.Name,
		Role: domain.RoleAnonymous,
	}
	if p.ID == "" {
		p.ID = domain.NewAnonymousID()
	}
	if p.Name == "" {
		p.Name = "Anonymous"
	}
	return p
}

func (r *IdentityResolver) fromClaims(claims *Claims, declared *domain.Participant) domain.Participant {
	p := domain.Participant{
		ID:   domain.ParticipantID(strconv.FormatInt(claims.UserID, 10)),
		Role: domain.RoleUser,
	}
	if claims.Role == string(domain.RoleAdmin) {
		p.Role = domain.RoleAdmin
	}
	if declared != nil && declared.Name != "" {
		p.Name = declared.Name
	} else if user, err := r.users.FindByID(claims.UserID); err == nil {
		p.Name = user.Participant().Name
	} else {
		p.Name = claims.Email
	}
	return p
}
