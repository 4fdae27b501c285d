package governance

import (
	"fmt"
	"strings"
	"time"
)

// maxCatalogEntryLen bounds category and skill names in bytes
const maxCatalogEntryLen = 64

// Payload is the type-specific content of a proposal. The set of
// implementations is closed: one per ProposalType.
type Payload interface {
	// Type returns the proposal type this payload belongs to
	Type() ProposalType

	// validate checks the payload against the module state at creation time
	validate(m *Module) error

	// apply performs the effect of a passed proposal. It cannot fail: an
	// effect that is already in place is a no-op.
	apply(m *Module, p *Proposal, now time.Time, r *Receipt)
}

// PayloadFields is the flat form of a proposal payload, one optional field per
// proposal type. Fields that do not belong to the selected type are ignored.
type PayloadFields struct {
	MemberRemovalTarget Identity `json:"member_removal_target,omitempty"`
	FeeUpdateValue      *Amount  `json:"fee_update_value,omitempty"`
	StakeUpdateValue    *Amount  `json:"stake_update_value,omitempty"`
	CategoryUpdateValue string   `json:"category_update_value,omitempty"`
	SkillUpdateValue    string   `json:"skill_update_value,omitempty"`
}

// NewPayload builds the payload variant for t from the flat fields
func NewPayload(t ProposalType, f PayloadFields) (Payload, error) {
	switch t {
	case ProposalTypeFeeUpdate:
		if f.FeeUpdateValue == nil {
			return nil, invalidPayload("fee update value is required")
		}
		return FeeUpdate{Fee: *f.FeeUpdateValue}, nil
	case ProposalTypeStakeUpdate:
		if f.StakeUpdateValue == nil {
			return nil, invalidPayload("stake update value is required")
		}
		return StakeUpdate{Stake: *f.StakeUpdateValue}, nil
	case ProposalTypeMemberRemoval:
		if f.MemberRemovalTarget == "" {
			return nil, invalidPayload("member removal target is required")
		}
		return MemberRemoval{Target: f.MemberRemovalTarget}, nil
	case ProposalTypeCategoryUpdate:
		return CategoryUpdate{Category: normalizeCatalogEntry(f.CategoryUpdateValue)}, nil
	case ProposalTypeSkillUpdate:
		return SkillUpdate{Skill: normalizeCatalogEntry(f.SkillUpdateValue)}, nil
	default:
		return nil, invalidPayload(fmt.Sprintf("unknown proposal type %q", t))
	}
}

// Fields converts a payload back to its flat form
func Fields(p Payload) PayloadFields {
	var f PayloadFields
	switch v := p.(type) {
	case FeeUpdate:
		fee := v.Fee
		f.FeeUpdateValue = &fee
	case StakeUpdate:
		stake := v.Stake
		f.StakeUpdateValue = &stake
	case MemberRemoval:
		f.MemberRemovalTarget = v.Target
	case CategoryUpdate:
		f.CategoryUpdateValue = v.Category
	case SkillUpdate:
		f.SkillUpdateValue = v.Skill
	}
	return f
}

// =============================================================================
// FEE UPDATE
// =============================================================================

// FeeUpdate changes the join fee
type FeeUpdate struct {
	Fee Amount
}

// Type returns the proposal type identifier
func (FeeUpdate) Type() ProposalType { return ProposalTypeFeeUpdate }

func (u FeeUpdate) validate(*Module) error {
	if u.Fee == 0 {
		return invalidPayload("fee must be greater than zero")
	}
	return nil
}

func (u FeeUpdate) apply(m *Module, _ *Proposal, _ time.Time, _ *Receipt) {
	m.params.joinFee = u.Fee
}

// =============================================================================
// STAKE UPDATE
// =============================================================================

// StakeUpdate changes the stake requirement
type StakeUpdate struct {
	Stake Amount
}

// Type returns the proposal type identifier
func (StakeUpdate) Type() ProposalType { return ProposalTypeStakeUpdate }

func (StakeUpdate) validate(*Module) error { return nil }

func (u StakeUpdate) apply(m *Module, _ *Proposal, _ time.Time, _ *Receipt) {
	m.params.stakeRequirement = u.Stake
}

// =============================================================================
// MEMBER REMOVAL
// =============================================================================

// MemberRemoval deactivates a member. The removed member's deposit is still
// refunded: it is member property, not a penalty.
type MemberRemoval struct {
	Target Identity
}

// Type returns the proposal type identifier
func (MemberRemoval) Type() ProposalType { return ProposalTypeMemberRemoval }

func (u MemberRemoval) validate(m *Module) error {
	if !m.registry.IsActive(u.Target) {
		return invalidPayload("member removal target is not an active member")
	}
	return nil
}

func (u MemberRemoval) apply(m *Module, p *Proposal, now time.Time, r *Receipt) {
	if !m.registry.IsActive(u.Target) {
		return
	}
	refunded := m.deactivate(u.Target, now)
	r.Refunds = append(r.Refunds, Refund{
		Recipient:  u.Target,
		Amount:     refunded,
		Reason:     RefundReasonRemoval,
		ProposalID: uint64Ptr(p.ID),
	})
	r.emit(memberRemoved(u.Target, p.ID, refunded))
}

// =============================================================================
// CATALOG UPDATES
// =============================================================================

// CategoryUpdate adds a category to the catalog
type CategoryUpdate struct {
	Category string
}

// Type returns the proposal type identifier
func (CategoryUpdate) Type() ProposalType { return ProposalTypeCategoryUpdate }

func (u CategoryUpdate) validate(m *Module) error {
	if err := validateCatalogEntry("category", u.Category); err != nil {
		return err
	}
	if m.params.HasCategory(u.Category) {
		return invalidPayload("category already exists")
	}
	return nil
}

func (u CategoryUpdate) apply(m *Module, _ *Proposal, _ time.Time, _ *Receipt) {
	m.params.categories[u.Category] = struct{}{}
}

// SkillUpdate adds a skill to the catalog
type SkillUpdate struct {
	Skill string
}

// Type returns the proposal type identifier
func (SkillUpdate) Type() ProposalType { return ProposalTypeSkillUpdate }

func (u SkillUpdate) validate(m *Module) error {
	if err := validateCatalogEntry("skill", u.Skill); err != nil {
		return err
	}
	if m.params.HasSkill(u.Skill) {
		return invalidPayload("skill already exists")
	}
	return nil
}

func (u SkillUpdate) apply(m *Module, _ *Proposal, _ time.Time, _ *Receipt) {
	m.params.skills[u.Skill] = struct{}{}
}

func normalizeCatalogEntry(s string) string {
	return strings.TrimSpace(s)
}

func validateCatalogEntry(kind, value string) error {
	if value == "" {
		return invalidPayload(kind + " update value is required")
	}
	if len(value) > maxCatalogEntryLen {
		return invalidPayload(fmt.Sprintf("%s must be at most %d bytes", kind, maxCatalogEntryLen))
	}
	return nil
}
