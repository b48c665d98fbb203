package domain

// Member is the domain representation of one membership row from the
// published sheet. Balances are prepaid session-token counts; absent or
// non-numeric cells coerce to 0 at the normalization boundary, so balances
// are always non-negative here.
type Member struct {
	// Name is the single display-name cell as stored in the sheet.
	// First/last split is a derived view (see SplitDisplayName).
	Name  string
	Phone string
	Email string

	RecoveryBalance int
	PTBalance       int
	TeamBalance     int

	// MembershipStatus is free text from the sheet; see StatusKind for the
	// recognized vocabulary. Defaults to "None" when the cell is absent.
	MembershipStatus string

	// JoiningDate is the sheet-authoritative DD/MM/YYYY string.
	JoiningDate string
}

// TotalBalance is the sum of all token balances.
func (m Member) TotalBalance() int {
	return m.RecoveryBalance + m.PTBalance + m.TeamBalance
}

// MembershipStatusKind is the recognized membership-status vocabulary.
type MembershipStatusKind string

const (
	StatusActive       MembershipStatusKind = "active"
	StatusExpired      MembershipStatusKind = "expired"
	StatusNone         MembershipStatusKind = "none"
	StatusUnrecognized MembershipStatusKind = "unrecognized"
)

// StatusKind classifies a free-text membership status cell.
func StatusKind(status string) MembershipStatusKind {
	switch NormalizeStatus(status) {
	case "active":
		return StatusActive
	case "expired":
		return StatusExpired
	case "none", "":
		return StatusNone
	default:
		return StatusUnrecognized
	}
}
