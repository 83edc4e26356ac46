package protocol

import (
	"context"
	"strings"
	"unicode/utf8"
)

// CardOwnerData is the semicolon-delimited personal information a runner
// has stored on their card. Only FirstName and LastName are populated on
// Si8/Si9 cards, which carry a shorter owner-data field than later
// generations.
type CardOwnerData struct {
	FirstName string
	LastName  string
	Gender    string
	Birthday  string
	Club      string
	Email     string
	Phone     string
	City      string
	Street    string
	Zip       string
	Country   string
}

// AssembleCardOwnerData fetches the blocks owner data is made of and
// decodes them into a CardOwnerData.
func AssembleCardOwnerData(ctx context.Context, src BlockSource, cardType CardType) (*CardOwnerData, error) {
	data, err := fetchBlocks(ctx, src, ownerDataBlockIndices(cardType))
	if err != nil {
		return nil, err
	}
	return decodeCardOwnerData(data, cardType)
}

func decodeCardOwnerData(data []byte, cardType CardType) (*CardOwnerData, error) {
	if len(data) < BlockSize*2 {
		return nil, ErrInvalidReadoutDataLength
	}

	switch cardType {
	case PunchCard, Si10, Si11, SIAC:
		return decodeLongOwnerData(data[32:160])
	default:
		end := 56
		if cardType == Si8 {
			end = 136
		}
		return decodeShortOwnerData(data[32:end])
	}
}

// decodeLongOwnerData decodes the 11-field owner data layout used by
// PunchCard/Si10/Si11/SIAC cards.
func decodeLongOwnerData(field []byte) (*CardOwnerData, error) {
	pos := nthSemicolon(field, 10)
	if pos < 0 {
		return nil, ErrInvalidOwnerData
	}
	if !isValidUTF8(field[:pos]) {
		return nil, ErrInvalidOwnerData
	}
	parts := strings.Split(string(field[:pos]), ";")
	if len(parts) != 11 {
		return nil, ErrInvalidOwnerData
	}

	return &CardOwnerData{
		FirstName: parts[0],
		LastName:  parts[1],
		Gender:    parts[2],
		Birthday:  parts[3],
		Club:      parts[4],
		Email:     parts[5],
		Phone:     parts[6],
		City:      parts[7],
		Street:    parts[8],
		Zip:       parts[9],
		Country:   parts[10],
	}, nil
}

// decodeShortOwnerData decodes the name-only owner data layout used by
// Si8/Si9 cards.
func decodeShortOwnerData(field []byte) (*CardOwnerData, error) {
	pos := nthSemicolon(field, 1)
	if pos < 0 {
		return nil, ErrInvalidOwnerData
	}
	if !isValidUTF8(field[:pos]) {
		return nil, ErrInvalidOwnerData
	}
	parts := strings.Split(string(field[:pos]), ";")
	if len(parts) != 2 {
		return nil, ErrInvalidOwnerData
	}

	return &CardOwnerData{FirstName: parts[0], LastName: parts[1]}, nil
}

// nthSemicolon returns the index of the (n+1)'th semicolon in field
// (0-indexed), or -1 if there are fewer than n+1.
func nthSemicolon(field []byte, n int) int {
	count := 0
	for i, b := range field {
		if b != ';' {
			continue
		}
		if count == n {
			return i
		}
		count++
	}
	return -1
}

func isValidUTF8(b []byte) bool {
	return utf8.Valid(b)
}
