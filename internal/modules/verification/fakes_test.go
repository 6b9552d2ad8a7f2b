package verification

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/delordemm1/gooddeeds-api/internal/cache"
	"github.com/delordemm1/gooddeeds-api/internal/modules/beneficiary"
	"github.com/delordemm1/gooddeeds-api/internal/modules/user"
)

// memState holds codes, accounts and profiles so one fake transaction can
// roll all three back together.
type memState struct {
	mu              sync.Mutex
	codes           map[string]VerificationCode
	users           map[string]user.User
	profiles        map[string]beneficiary.Profile
	failProfileWith error
	seq             int
}

func newMemState() *memState {
	return &memState{
		codes:    map[string]VerificationCode{},
		users:    map[string]user.User{},
		profiles: map[string]beneficiary.Profile{},
	}
}

// --- Repository ---

type memCodes struct{ st *memState }

func (r memCodes) Create(_ context.Context, v *VerificationCode) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, c := range r.st.codes {
		if c.Email == v.Email && c.Context == v.Context && !c.Used {
			return ErrCodeAlreadyIssued
		}
	}
	if v.ID == "" {
		r.st.seq++
		v.ID = fmt.Sprintf("code-%d", r.st.seq)
	}
	r.st.codes[v.ID] = *v
	return nil
}

func (r memCodes) HasActive(_ context.Context, email string, c Context, now time.Time) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, v := range r.st.codes {
		if v.Email == email && v.Context == c && !v.Used && !v.Expired(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r memCodes) FindValid(_ context.Context, email, code string, c *Context, now time.Time) (*VerificationCode, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	for _, v := range r.st.codes {
		if v.Email == email && v.Code == code && !v.Used && !v.Expired(now) && (c == nil || v.Context == *c) {
			cp := v
			return &cp, nil
		}
	}
	return nil, ErrInvalidOrExpiredCode
}

func (r memCodes) MarkUsed(_ context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	v, ok := r.st.codes[id]
	if !ok || v.Used {
		return ErrInvalidOrExpiredCode
	}
	v.Used = true
	r.st.codes[id] = v
	return nil
}

func (r memCodes) Delete(_ context.Context, id string) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	delete(r.st.codes, id)
	return nil
}

func (r memCodes) DeleteExpired(_ context.Context, email string, now time.Time) ([]VerificationCode, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var purged []VerificationCode
	for id, v := range r.st.codes {
		if v.Expired(now) && (email == "" || v.Email == email) {
			purged = append(purged, v)
			delete(r.st.codes, id)
		}
	}
	return purged, nil
}

func (r memCodes) ReferencedBlobs(_ context.Context, urls []string) ([]string, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var inUse []string
	for _, u := range urls {
		referenced := false
		for _, v := range r.st.codes {
			if !v.Used && slices.Contains(stagedBlobsOf(&v), u) {
				referenced = true
			}
		}
		for _, p := range r.st.profiles {
			if (p.FamilyPhotoURL != nil && *p.FamilyPhotoURL == u) || (p.IdentityProofURL != nil && *p.IdentityProofURL == u) {
				referenced = true
			}
		}
		if referenced {
			inUse = append(inUse, u)
		}
	}
	return inUse, nil
}

// --- Accounts and profiles ---

type memAccounts struct{ st *memState }

func (a memAccounts) FindByEmail(_ context.Context, email string) (*user.User, error) {
	a.st.mu.Lock()
	defer a.st.mu.Unlock()
	for _, u := range a.st.users {
		if u.Email == user.NormalizeEmail(email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (a memAccounts) Create(_ context.Context, u *user.User) error {
	a.st.mu.Lock()
	defer a.st.mu.Unlock()
	for _, existing := range a.st.users {
		if existing.Email == u.Email {
			return user.ErrEmailExists
		}
	}
	a.st.users[u.ID] = *u
	return nil
}

func (a memAccounts) UpdatePassword(_ context.Context, userID, hash string) error {
	a.st.mu.Lock()
	defer a.st.mu.Unlock()
	u, ok := a.st.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = &hash
	a.st.users[userID] = u
	return nil
}

type memProfiles struct{ st *memState }

func (p memProfiles) Create(_ context.Context, pr *beneficiary.Profile) error {
	p.st.mu.Lock()
	defer p.st.mu.Unlock()
	if p.st.failProfileWith != nil {
		return p.st.failProfileWith
	}
	p.st.profiles[pr.ID] = *pr
	return nil
}

// memUnitOfWork restores every table when fn fails.
type memUnitOfWork struct{ st *memState }

func (u memUnitOfWork) RunInTx(_ context.Context, fn func(TxStores) error) error {
	u.st.mu.Lock()
	codes, users, profiles := cloneMap(u.st.codes), cloneMap(u.st.users), cloneMap(u.st.profiles)
	u.st.mu.Unlock()

	err := fn(TxStores{Accounts: memAccounts(u), Profiles: memProfiles(u), Codes: memCodes(u)})
	if err != nil {
		u.st.mu.Lock()
		u.st.codes, u.st.users, u.st.profiles = codes, users, profiles
		u.st.mu.Unlock()
	}
	return err
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// --- Collaborators ---

type fakeLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *fakeLocker) TryLock(_ context.Context, name string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[name] {
		return nil, cache.ErrLockHeld
	}
	l.held[name] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, name)
	}, nil
}

type recordingBlobs struct {
	deleted []string
}

func (b *recordingBlobs) Delete(_ context.Context, url string) bool {
	b.deleted = append(b.deleted, url)
	return true
}

type recordingRevoker struct {
	revoked []string
}

func (r *recordingRevoker) DeleteAllForUser(_ context.Context, userID string) (int64, error) {
	r.revoked = append(r.revoked, userID)
	return 2, nil
}

type recordingPublisher struct {
	subjects []string
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, _ any) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) has(subject string) bool {
	return slices.Contains(p.subjects, subject)
}
