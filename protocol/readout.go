package protocol

import "context"

// CardReadout is the assembled punch history of a card: its start, finish
// and check punches plus the ordered list of control punches recorded
// between them.
type CardReadout struct {
	CardNumber uint32
	CardType   CardType
	Start      *StartOrFinishPunch
	Finish     *StartOrFinishPunch
	Check      *Punch
	Punches    []Punch
}

// punchesOffset is the byte offset, within the readout's concatenated
// blocks, at which the variable-length punch list begins. It differs per
// generation because Si8/Si9/PunchCard readouts share the owner-data block
// layout with the punch list, while Si10/Si11/SIAC readouts do not.
func punchesOffset(cardType CardType) int {
	switch cardType {
	case Si8:
		return 136
	case Si9:
		return 56
	case PunchCard:
		return 176
	default:
		return 128
	}
}

// AssembleCardReadout fetches the blocks a card readout is made of and
// decodes them into a CardReadout.
func AssembleCardReadout(ctx context.Context, src BlockSource, cardType CardType) (*CardReadout, error) {
	data, err := fetchBlocks(ctx, src, readoutBlockIndices(cardType))
	if err != nil {
		return nil, err
	}
	return decodeCardReadout(data, cardType)
}

func decodeCardReadout(data []byte, cardType CardType) (*CardReadout, error) {
	punchCount := int(data[22])
	start := punchesOffset(cardType)
	end := start + punchCount*4
	if len(data) < end {
		return nil, ErrInvalidReadoutDataLength
	}

	check, err := DecodePunch([4]byte{data[8], data[9], data[10], data[11]})
	if err != nil {
		return nil, err
	}
	startPunch, err := DecodeStartOrFinishPunch([4]byte{data[12], data[13], data[14], data[15]})
	if err != nil {
		return nil, err
	}
	finishPunch, err := DecodeStartOrFinishPunch([4]byte{data[16], data[17], data[18], data[19]})
	if err != nil {
		return nil, err
	}

	punches := make([]Punch, 0, punchCount)
	for off := start; off < end; off += 4 {
		p, err := DecodePunch([4]byte{data[off], data[off+1], data[off+2], data[off+3]})
		if err != nil {
			return nil, err
		}
		if p != nil {
			punches = append(punches, *p)
		}
	}

	cardNumber := uint32(data[25])<<16 | uint32(data[26])<<8 | uint32(data[27])

	return &CardReadout{
		CardNumber: cardNumber,
		CardType:   cardType,
		Start:      startPunch,
		Finish:     finishPunch,
		Check:      check,
		Punches:    punches,
	}, nil
}
