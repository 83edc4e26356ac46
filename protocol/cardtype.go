package protocol

// CardType identifies a card's memory generation, which determines how its
// blocks are laid out and which fields owner data carries.
type CardType int

const (
	Si8 CardType = iota
	Si9
	Si10
	Si11
	SIAC
	PunchCard
)

func (c CardType) String() string {
	switch c {
	case Si8:
		return "Si8"
	case Si9:
		return "Si9"
	case Si10:
		return "Si10"
	case Si11:
		return "Si11"
	case SIAC:
		return "SIAC"
	case PunchCard:
		return "PunchCard"
	default:
		return "Unknown"
	}
}

// cardTypeRange is one disjoint [low, high] band of card numbers mapping to
// a CardType.
type cardTypeRange struct {
	low, high uint32
	cardType  CardType
}

var cardTypeRanges = [...]cardTypeRange{
	{1_000_000, 1_999_999, Si9},
	{2_000_000, 2_999_999, Si8},
	{4_000_000, 4_999_999, PunchCard},
	{7_000_000, 7_999_999, Si10},
	{8_000_000, 8_999_999, SIAC},
	{9_000_000, 9_999_999, Si11},
}

// ClassifyCardNumber derives the CardType of a card number from its
// disjoint numeric range. Numbers outside every defined range fail with
// InvalidCardNumberError.
func ClassifyCardNumber(number uint32) (CardType, error) {
	for _, r := range cardTypeRanges {
		if number >= r.low && number <= r.high {
			return r.cardType, nil
		}
	}
	return 0, &InvalidCardNumberError{Number: number}
}
