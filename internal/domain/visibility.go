package domain

// Visibility is the tier controlling who may read a content item.
type Visibility string

const (
	VisibilityPublic    Visibility = "Public"
	VisibilityRecruiter Visibility = "Recruiter"
	VisibilityPrivate   Visibility = "Private"
)

var AllVisibilities = []Visibility{VisibilityPublic, VisibilityRecruiter, VisibilityPrivate}

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityRecruiter, VisibilityPrivate:
		return true
	}
	return false
}

// TierSet is the set of visibility tiers a request may read.
type TierSet uint8

const (
	tierPublic TierSet = 1 << iota
	tierRecruiter
	tierPrivate
)

func tierBit(v Visibility) TierSet {
	switch v {
	case VisibilityPublic:
		return tierPublic
	case VisibilityRecruiter:
		return tierRecruiter
	case VisibilityPrivate:
		return tierPrivate
	}
	return 0
}

func NewTierSet(tiers ...Visibility) TierSet {
	var s TierSet
	for _, v := range tiers {
		s |= tierBit(v)
	}
	return s
}

func (s TierSet) With(v Visibility) TierSet { return s | tierBit(v) }

func (s TierSet) Has(v Visibility) bool {
	bit := tierBit(v)
	return bit != 0 && s&bit != 0
}

// Slice lists the tiers in Public, Recruiter, Private order.
func (s TierSet) Slice() []Visibility {
	out := make([]Visibility, 0, 3)
	for _, v := range AllVisibilities {
		if s.Has(v) {
			out = append(out, v)
		}
	}
	return out
}

// RequesterContext identifies who is reading. The zero value is an
// anonymous request without a recruiter grant.
type RequesterContext struct {
	ViewerID     string
	GrantOwnerID string // owner of the recruiter token validated for this request
}

func (rc RequesterContext) IsOwner(ownerID string) bool {
	return rc.ViewerID != "" && rc.ViewerID == ownerID
}

// HasRecruiterGrant reports whether the request holds a valid recruiter token
// issued by ownerID. Tokens never cover another owner's content.
func (rc RequesterContext) HasRecruiterGrant(ownerID string) bool {
	return rc.GrantOwnerID != "" && rc.GrantOwnerID == ownerID
}

// Classifiable is anything carrying an owner and a visibility tier.
type Classifiable interface {
	Owner() string
	Tier() Visibility
}

// IsVisible decides whether rc may read item. Publication is not checked here
// because owner-facing reads must see drafts.
func IsVisible(item Classifiable, rc RequesterContext) bool {
	switch item.Tier() {
	case VisibilityPublic:
		return true
	case VisibilityRecruiter:
		return rc.IsOwner(item.Owner()) || rc.HasRecruiterGrant(item.Owner())
	default:
		// Private and unknown tags are owner-only.
		return rc.IsOwner(item.Owner())
	}
}

// FilterVisible keeps the items rc may read, applying publication gating
// for everyone but the owner.
func FilterVisible[T interface {
	Classifiable
	Live() bool
}](items []T, rc RequesterContext) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if !IsVisible(item, rc) {
			continue
		}
		if !item.Live() && !rc.IsOwner(item.Owner()) {
			continue
		}
		out = append(out, item)
	}
	return out
}
