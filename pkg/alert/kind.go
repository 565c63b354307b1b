package alert

// Kind is the alert category. It selects the alert-{kind} style class.
// Any string is accepted; unknown kinds simply have no matching style.
type Kind string

const (
	KindSuccess   Kind = "success"
	KindError     Kind = "error"
	KindWarning   Kind = "warning"
	KindInfo      Kind = "info"
	KindDanger    Kind = "danger"
	KindPrimary   Kind = "primary"
	KindSecondary Kind = "secondary"
	KindLight     Kind = "light"
	KindDark      Kind = "dark"
)

var knownKinds = map[Kind]bool{
	KindSuccess:   true,
	KindError:     true,
	KindWarning:   true,
	KindInfo:      true,
	KindDanger:    true,
	KindPrimary:   true,
	KindSecondary: true,
	KindLight:     true,
	KindDark:      true,
}

// Known reports whether k is one of the predefined kinds.
func (k Kind) Known() bool {
	return knownKinds[k]
}
