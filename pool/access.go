package pool

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Action names a capability the pool can check in one place instead of
// duplicating role conditionals per call site.
type Action uint8

const (
	ActionCreateCampaign Action = iota
	ActionVote
	ActionAdminister
)

// overrideKey addresses the per (creator, campaign) emergency KYC
// override the owner can set for large withdrawals.
type overrideKey struct {
	addr       common.Address
	campaignID uint64
}

// Can answers a capability query for an address. Campaign-scoped rights
// (creator-only operations) are checked against the record instead.
func (p *FundingPool) Can(addr common.Address, action Action) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch action {
	case ActionCreateCampaign:
		return p.verifiedCreators[addr]
	case ActionVote:
		return p.voters[addr]
	case ActionAdminister:
		return addr == p.owner
	default:
		return false
	}
}

// Owner returns the deploy-time owner address.
func (p *FundingPool) Owner() common.Address {
	return p.owner
}

// GrantVoter adds an address to the voter set. Owner only.
func (p *FundingPool) GrantVoter(caller, addr common.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if caller != p.owner {
		return ErrNotOwner
	}
	p.voters[addr] = true
	p.emit(EventRoleGranted, 0, -1, addr, nil, nil, "voter")
	return nil
}

// RevokeVoter removes an address from the voter set. Owner only.
func (p *FundingPool) RevokeVoter(caller, addr common.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if caller != p.owner {
		return ErrNotOwner
	}
	delete(p.voters, addr)
	p.emit(EventRoleRevoked, 0, -1, addr, nil, nil, "voter")
	return nil
}

// GrantVerifiedCreator marks an address as allowed to create campaigns.
// Owner only; distinct from the KYC flag, which only gates amounts.
func (p *FundingPool) GrantVerifiedCreator(caller, addr common.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if caller != p.owner {
		return ErrNotOwner
	}
	p.verifiedCreators[addr] = true
	p.emit(EventRoleGranted, 0, -1, addr, nil, nil, "creator")
	return nil
}

// RevokeVerifiedCreator removes the campaign-creation right. Owner only.
func (p *FundingPool) RevokeVerifiedCreator(caller, addr common.Address) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if caller != p.owner {
		return ErrNotOwner
	}
	delete(p.verifiedCreators, addr)
	p.emit(EventRoleRevoked, 0, -1, addr, nil, nil, "creator")
	return nil
}

// SetEmergencyOverride lets the owner bypass the KYC amount gates for
// one (address, campaign) pair, e.g. when verification is stuck but a
// payout is due.
func (p *FundingPool) SetEmergencyOverride(caller, addr common.Address, campaignID uint64, allowed bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if caller != p.owner {
		return ErrNotOwner
	}
	key := overrideKey{addr: addr, campaignID: campaignID}
	if allowed {
		p.overrides[key] = true
	} else {
		delete(p.overrides, key)
	}
	note := "off"
	if allowed {
		note = "on"
	}
	p.emit(EventOverrideSet, campaignID, -1, addr, nil, nil, note)
	return nil
}

// kycCleared applies the threshold rule: exactly at the threshold passes,
// one wei above needs the registry flag or an emergency override.
// Callers hold the mutex.
func (p *FundingPool) kycCleared(addr common.Address, campaignID uint64, amount, threshold *uint256.Int) bool {
	if !amount.Gt(threshold) {
		return true
	}
	if p.kyc != nil && p.kyc.IsKYCVerified(addr) {
		return true
	}
	return p.overrides[overrideKey{addr: addr, campaignID: campaignID}]
}
