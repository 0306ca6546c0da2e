package dice

// DescriptionType distinguishes an inline (// or #) description from a
// multiline (/* */ or [ ]) one.
type DescriptionType string

// Valid DescriptionType values.
const (
	DescriptionInline    DescriptionType = "inline"
	DescriptionMultiline DescriptionType = "multiline"
)

// Description is metadata attached to a dice or group node. It carries no
// semantics of its own; it is never evaluated or used in total computation.
type Description struct {
	Text string
	Type DescriptionType
}

// NewDescription constructs a Description, rejecting an empty text.
func NewDescription(text string, kind DescriptionType) (*Description, error) {
	if text == "" {
		return nil, MissingArgument("description text")
	}
	return &Description{Text: text, Type: kind}, nil
}
